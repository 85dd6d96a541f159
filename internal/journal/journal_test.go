package journal

import (
	"path/filepath"
	"testing"
	"time"
)

func open(t *testing.T) {
	t.Helper()

	Open(Config{File: filepath.Join(t.TempDir(), "sub", "journal.db")})
	t.Cleanup(func() {
		if err := Close(); err != nil {
			t.Error(err)
		}
	})
}

func TestDigest(t *testing.T) {
	// SHA3-256 of the empty string.
	const empty = "a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a"
	if have := Digest(""); have != empty {
		t.Fatalf("Digest(\"\") = %s, want %s", have, empty)
	}
	if Digest("AB") == Digest("AB ") {
		t.Fatal("distinct inputs share a digest")
	}
}

func TestNewEntry(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	e := NewEntry("encrypt", 27, "ПРИ", "CZIQQX", now)

	if e.InputSymbols != 3 || e.OutputSymbols != 6 {
		t.Fatalf("symbol counts %d/%d, want 3/6", e.InputSymbols, e.OutputSymbols)
	}
	if e.InputDigest != Digest("ПРИ") || e.OutputDigest != Digest("CZIQQX") {
		t.Fatal("digests do not match inputs")
	}
	if e.Output != "CZIQQX" || e.Op != "encrypt" || e.Base != 27 || !e.Time.Equal(now) {
		t.Fatalf("unexpected entry %+v", e)
	}
}

func TestAppendAll(t *testing.T) {
	open(t)

	now := time.Now().UTC().Truncate(time.Second)
	entries := []Entry{
		NewEntry("encrypt", 27, "HELLO WORLD", "CZIQQXFCEHDRIJXLPK", now),
		NewEntry("decrypt", 27, "CZIQQXFCEHDRIJXLPK", "HELLO WORLD ", now.Add(time.Second)),
	}

	for i, e := range entries {
		seq, err := Append(e)
		if err != nil {
			t.Fatal(err)
		}
		if have, want := seq, uint64(i+1); have != want {
			t.Fatalf("sequence %d, want %d", have, want)
		}
	}

	var n int
	for seq, e := range All() {
		want := entries[n]
		if seq != uint64(n+1) {
			t.Fatalf("entry %d has sequence %d", n, seq)
		}
		if e.Op != want.Op || e.Output != want.Output || e.InputDigest != want.InputDigest || !e.Time.Equal(want.Time) {
			t.Fatalf("entry %d = %+v, want %+v", n, e, want)
		}
		n++
	}
	if n != len(entries) {
		t.Fatalf("All yielded %d entries, want %d", n, len(entries))
	}

	for range All() {
		break
	}
}

func TestOpenTwicePanics(t *testing.T) {
	open(t)

	defer func() {
		if recover() == nil {
			t.Fatal("second Open did not panic")
		}
	}()
	Open(Config{File: filepath.Join(t.TempDir(), "other.db")})
}
