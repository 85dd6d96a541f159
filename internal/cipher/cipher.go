// Package cipher encrypts bigrams of alphabet symbols into trigrams and back.
//
// A bigram is read as a two-digit number in base len(alphabet), raised to
// the key exponent modulo the key modulus, and written out as a three-digit
// number in the same base. Decryption runs the same steps in reverse with
// the private key.
package cipher

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"rsalpha/internal/alphabet"
	"rsalpha/internal/block"
	"rsalpha/internal/ctxlog"
	"rsalpha/internal/keys"
	"rsalpha/internal/numeral"
	"rsalpha/internal/rec"
)

const (
	plainWidth  = 2
	cipherWidth = 3
)

// Engine transforms text over a fixed alphabet.
// Blocks are independent, so an Engine with more than one worker
// transforms them concurrently and joins the results in order.
type Engine struct {
	alpha   *alphabet.Alphabet
	workers int
}

func New(alpha *alphabet.Alphabet, workers int) *Engine {
	if alpha == nil {
		panic("cipher: alphabet is required")
	}
	return &Engine{
		alpha:   alpha,
		workers: max(workers, 1),
	}
}

// Encode encrypts text with the public key.
func (e *Engine) Encode(ctx context.Context, text string, key keys.Key) (string, error) {
	return e.transform(ctx, "encode", block.Bigrams(text), key, cipherWidth)
}

// Decode decrypts text with the private key. Padding added by Encode is
// kept in the result.
func (e *Engine) Decode(ctx context.Context, text string, key keys.Key) (string, error) {
	return e.transform(ctx, "decode", block.Trigrams(text), key, plainWidth)
}

// Encode encrypts text sequentially.
func Encode(text string, key keys.Key, alpha *alphabet.Alphabet) (string, error) {
	return New(alpha, 1).Encode(context.Background(), text, key)
}

// Decode decrypts text sequentially.
func Decode(text string, key keys.Key, alpha *alphabet.Alphabet) (string, error) {
	return New(alpha, 1).Decode(context.Background(), text, key)
}

func (e *Engine) transform(ctx context.Context, op string, groups []string, key keys.Key, width int) (string, error) {
	if err := key.CheckBase(e.alpha.Base()); err != nil {
		return "", err
	}

	logger := ctxlog.Get(ctx)
	start := time.Now()

	out := make([]string, len(groups))

	if e.workers == 1 || len(groups) < 2 {
		for i, g := range block.All(groups) {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			s, err := e.blockAt(i, g, key, width)
			if err != nil {
				return "", err
			}
			out[i] = s
		}
	} else {
		eg, ectx := errgroup.WithContext(ctx)
		eg.SetLimit(e.workers)

		for i, g := range block.All(groups) {
			if ectx.Err() != nil {
				break
			}
			eg.Go(func() error {
				s, err := e.blockAt(i, g, key, width)
				if err != nil {
					return err
				}
				out[i] = s
				return nil
			})
		}

		if err := eg.Wait(); err != nil {
			return "", err
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
	}

	logger.Debug("transformed text", "op", op, "blocks", len(groups), "workers", e.workers, "duration", time.Since(start).String())

	return block.Join(out), nil
}

func (e *Engine) blockAt(i int, g string, key keys.Key, width int) (s string, err error) {
	defer rec.Wrap(&err, "cipher: block %d %q: %w", i, g)
	return e.block(g, key, width)
}

// block maps one group of symbols to a group of width symbols.
func (e *Engine) block(g string, key keys.Key, width int) (string, error) {
	base := e.alpha.Base()

	digits := make([]int, 0, cipherWidth)
	for _, r := range g {
		o, err := e.alpha.Ordinal(r)
		if err != nil {
			return "", err
		}
		digits = append(digits, o)
	}

	v := numeral.Pack(digits, base)
	v = numeral.PowMod(v, uint64(key.Exponent), uint64(key.Modulus))

	out := make([]rune, width)
	for i, d := range numeral.Unpack(v, base, width) {
		r, err := e.alpha.Symbol(d)
		if err != nil {
			return "", fmt.Errorf("value %d: %w", v, err)
		}
		out[i] = r
	}
	return string(out), nil
}
