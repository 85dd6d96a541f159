package cipher

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"unicode/utf8"

	"rsalpha/internal/alphabet"
	"rsalpha/internal/keys"
	"rsalpha/internal/numeral"
)

const latin = "ABCDEFGHIJKLMNOPQRSTUVWXYZ "

func setup(t *testing.T, symbols string) (*alphabet.Alphabet, keys.Pair) {
	t.Helper()

	alpha, err := alphabet.FromString(symbols)
	if err != nil {
		t.Fatal(err)
	}
	pair, err := keys.Generate(keys.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	return alpha, pair
}

func randText(symbols []rune, l int) string {
	s := &strings.Builder{}
	for range l {
		s.WriteRune(symbols[rand.IntN(len(symbols))])
	}
	return s.String()
}

func padEven(s string) string {
	if utf8.RuneCountInString(s)%2 != 0 {
		return s + " "
	}
	return s
}

func TestExample(t *testing.T) {
	alpha, pair := setup(t, latin)

	enc, err := Encode("AB", pair.Public, alpha)
	if err != nil {
		t.Fatal(err)
	}
	// "AB" is 1, 1^13 mod 13199 is 1, which is the digits 0 0 1.
	if have, want := enc, "AAB"; have != want {
		t.Fatalf("Encode(AB) = %q, want %q", have, want)
	}

	dec, err := Decode(enc, pair.Private, alpha)
	if err != nil {
		t.Fatal(err)
	}
	if have, want := dec, "AB"; have != want {
		t.Fatalf("Decode(%q) = %q, want %q", enc, have, want)
	}
}

func TestGolden(t *testing.T) {
	alpha, pair := setup(t, latin)

	const plain, want = "HELLO WORLD", "CZIQQXFCEHDRIJXLPK"

	enc, err := Encode(plain, pair.Public, alpha)
	if err != nil {
		t.Fatal(err)
	}
	if enc != want {
		t.Fatalf("Encode(%q) = %q, want %q", plain, enc, want)
	}

	dec, err := Decode(enc, pair.Private, alpha)
	if err != nil {
		t.Fatal(err)
	}
	if have, want := dec, plain+" "; have != want {
		t.Fatalf("Decode(%q) = %q, want %q", enc, have, want)
	}
}

func TestKnownBlock(t *testing.T) {
	alpha, pair := setup(t, latin)

	// "HI" is 7*27+8 = 197 = q, so its ciphertext is a multiple of q.
	enc, err := Encode("HI", pair.Public, alpha)
	if err != nil {
		t.Fatal(err)
	}

	want := numeral.PowMod(197, 13, 13199)
	digits := make([]int, 0, 3)
	for _, r := range enc {
		o, err := alpha.Ordinal(r)
		if err != nil {
			t.Fatal(err)
		}
		digits = append(digits, o)
	}
	if have := numeral.Pack(digits, 27); have != want {
		t.Fatalf("Encode(HI) = %q (value %d), want value %d", enc, have, want)
	}
	if want%197 != 0 {
		t.Fatalf("ciphertext %d of q is not a multiple of q", want)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, symbols := range []string{
		latin,
		"АБВГДЕЁЖЗИЙКЛМНОПРСТУФХЦЧШЩЪЫЬЭЮЯ ",
		"abcdefghijklmnopqrstuvwxyz .,!?",
	} {
		alpha, pair := setup(t, symbols)
		runes := []rune(symbols)

		for range 50 {
			text := randText(runes, rand.IntN(40))

			t.Run(fmt.Sprintf("%d/%q", alpha.Base(), text), func(t *testing.T) {
				enc, err := Encode(text, pair.Public, alpha)
				if err != nil {
					t.Fatal(err)
				}
				if n := utf8.RuneCountInString(enc); n%3 != 0 {
					t.Fatalf("ciphertext length %d is not a multiple of 3", n)
				}

				dec, err := Decode(enc, pair.Private, alpha)
				if err != nil {
					t.Fatal(err)
				}
				if have, want := dec, padEven(text); have != want {
					t.Fatalf("Decode(Encode(%q)) = %q, want %q", text, have, want)
				}
			})
		}
	}
}

func TestBlockIndependence(t *testing.T) {
	alpha, pair := setup(t, latin)
	runes := []rune(latin)

	for range 50 {
		a := randText(runes, 2*rand.IntN(10))
		b := randText(runes, rand.IntN(20))

		whole, err := Encode(a+b, pair.Public, alpha)
		if err != nil {
			t.Fatal(err)
		}
		ea, err := Encode(a, pair.Public, alpha)
		if err != nil {
			t.Fatal(err)
		}
		eb, err := Encode(b, pair.Public, alpha)
		if err != nil {
			t.Fatal(err)
		}
		if whole != ea+eb {
			t.Fatalf("Encode(%q+%q) = %q, want %q", a, b, whole, ea+eb)
		}
	}
}

func TestDecodeNotStripped(t *testing.T) {
	alpha, pair := setup(t, latin)

	enc, err := Encode("ABC", pair.Public, alpha)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := Decode(enc, pair.Private, alpha)
	if err != nil {
		t.Fatal(err)
	}
	if have, want := dec, "ABC "; have != want {
		t.Fatalf("Decode = %q, want %q", have, want)
	}
}

func TestDecodePadsTrigrams(t *testing.T) {
	alpha, pair := setup(t, latin)

	// Find a ciphertext block that ends in the pad symbol. Decoding it with
	// the pad cut off must give the same bigram.
	for _, a := range latin {
		for _, b := range latin {
			enc, err := Encode(string([]rune{a, b}), pair.Public, alpha)
			if err != nil {
				t.Fatal(err)
			}
			short, ok := strings.CutSuffix(enc, " ")
			if !ok {
				continue
			}

			dec, err := Decode(short, pair.Private, alpha)
			if err != nil {
				t.Fatal(err)
			}
			if have, want := dec, string([]rune{a, b}); have != want {
				t.Fatalf("Decode(%q) = %q, want %q", short, have, want)
			}
			return
		}
	}
	t.Fatal("no ciphertext block ends in the pad symbol")
}

func TestLookupErrors(t *testing.T) {
	alpha, pair := setup(t, latin)
	var lerr *alphabet.LookupError

	_, err := Encode("Ab", pair.Public, alpha)
	if !errors.As(err, &lerr) {
		t.Fatalf("Encode error = %v, want LookupError", err)
	}
	if lerr.Reverse || lerr.Symbol != 'b' {
		t.Fatalf("unexpected lookup error %+v", lerr)
	}

	_, err = Decode("AB\n", pair.Private, alpha)
	if !errors.As(err, &lerr) {
		t.Fatalf("Decode error = %v, want LookupError", err)
	}

	// A ciphertext whose plaintext value is 729 = 27^2 has no bigram.
	c := numeral.PowMod(729, 13, 13199)
	trigram := make([]rune, 0, 3)
	for _, d := range numeral.Unpack(c, 27, 3) {
		r, err := alpha.Symbol(d)
		if err != nil {
			t.Fatal(err)
		}
		trigram = append(trigram, r)
	}
	_, err = Decode(string(trigram), pair.Private, alpha)
	if !errors.As(err, &lerr) {
		t.Fatalf("Decode(%q) error = %v, want LookupError", string(trigram), err)
	}
	if !lerr.Reverse || lerr.Ordinal != 27 {
		t.Fatalf("unexpected lookup error %+v", lerr)
	}
}

func TestConfigurationError(t *testing.T) {
	pair, err := keys.Generate(keys.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}

	alpha, err := alphabet.FromString("AB ")
	if err != nil {
		t.Fatal(err)
	}

	var cerr *keys.ConfigurationError
	if _, err := Encode("AB", pair.Public, alpha); !errors.As(err, &cerr) {
		t.Fatalf("Encode with base 3 error = %v, want ConfigurationError", err)
	}
	if _, err := Decode("AB ", pair.Private, alpha); !errors.As(err, &cerr) {
		t.Fatalf("Decode with base 3 error = %v, want ConfigurationError", err)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	alpha, pair := setup(t, latin)
	text := randText([]rune(latin), 1001)

	seq := New(alpha, 1)
	par := New(alpha, 8)
	ctx := context.Background()

	want, err := seq.Encode(ctx, text, pair.Public)
	if err != nil {
		t.Fatal(err)
	}
	have, err := par.Encode(ctx, text, pair.Public)
	if err != nil {
		t.Fatal(err)
	}
	if have != want {
		t.Fatal("parallel encode differs from sequential")
	}

	dec, err := par.Decode(ctx, have, pair.Private)
	if err != nil {
		t.Fatal(err)
	}
	if dec != padEven(text) {
		t.Fatal("parallel decode did not round trip")
	}
}

func TestParallelError(t *testing.T) {
	alpha, pair := setup(t, latin)
	text := strings.Repeat("AB", 500) + "a"

	_, err := New(alpha, 4).Encode(context.Background(), text, pair.Public)
	var lerr *alphabet.LookupError
	if !errors.As(err, &lerr) {
		t.Fatalf("error = %v, want LookupError", err)
	}
	if !strings.Contains(err.Error(), "block 500") {
		t.Fatalf("error %q does not name the failing block", err)
	}
}

func TestCanceled(t *testing.T) {
	alpha, pair := setup(t, latin)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		_, err := New(alpha, workers).Encode(ctx, "HELLO WORLD", pair.Public)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("workers=%d: error = %v, want context.Canceled", workers, err)
		}
	}
}
