// Package keys derives the RSA key pair used by the cipher.
package keys

import (
	"fmt"
	"math/big"
)

// Params are the fixed inputs to key generation.
type Params struct {
	P int64 `yaml:"p"`
	Q int64 `yaml:"q"`
	E int64 `yaml:"e"`
}

// DefaultParams returns p=67, q=197, e=13.
func DefaultParams() Params {
	return Params{P: 67, Q: 197, E: 13}
}

// Key is an exponent together with its modulus.
type Key struct {
	Exponent int64
	Modulus  int64
}

func (k Key) String() string {
	return fmt.Sprintf("(%d, %d)", k.Exponent, k.Modulus)
}

// Pair holds both keys derived from one set of Params.
type Pair struct {
	Public  Key
	Private Key
	Totient int64
}

// ConfigurationError reports parameters that cannot produce a working cipher.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "keys: invalid configuration: " + e.Reason
}

func configErr(format string, a ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, a...)}
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// ModInverse returns d such that a*d mod b == 1, computed with the extended
// Euclidean algorithm. a and b must be coprime and b must be nonzero;
// otherwise the result is meaningless.
func ModInverse(a, b int64) int64 {
	oldR, r := a, b
	oldS, s := int64(1), int64(0)

	for r != 0 {
		q := oldR / r
		oldR, r = r, oldR-q*r
		oldS, s = s, oldS-q*s
	}

	if oldS > 0 {
		return oldS
	}
	return oldS + b
}

func isPrime(v int64) bool {
	return v > 1 && big.NewInt(v).ProbablyPrime(20)
}

// Validate checks that the parameters describe a usable RSA setup.
func (p Params) Validate() error {
	if !isPrime(p.P) {
		return configErr("p=%d is not prime", p.P)
	}
	if !isPrime(p.Q) {
		return configErr("q=%d is not prime", p.Q)
	}
	if p.P == p.Q {
		return configErr("p and q must differ, both are %d", p.P)
	}
	if p.P > 1<<31 || p.Q > 1<<31 {
		return configErr("p=%d and q=%d must each fit in 31 bits", p.P, p.Q)
	}

	totient := (p.P - 1) * (p.Q - 1)
	if p.E <= 1 || p.E >= totient {
		return configErr("e=%d must lie in (1, %d)", p.E, totient)
	}
	if g := gcd(p.E, totient); g != 1 {
		return configErr("e=%d shares factor %d with totient %d", p.E, g, totient)
	}
	return nil
}

// Generate derives the public and private keys from params.
// The result depends only on params.
func Generate(params Params) (Pair, error) {
	if err := params.Validate(); err != nil {
		return Pair{}, err
	}

	n := params.P * params.Q
	totient := (params.P - 1) * (params.Q - 1)
	d := ModInverse(params.E, totient)

	return Pair{
		Public:  Key{Exponent: params.E, Modulus: n},
		Private: Key{Exponent: d, Modulus: n},
		Totient: totient,
	}, nil
}

// CheckBase reports whether blocks in the given base survive the round trip
// through k: every bigram value must be below the modulus, and every value
// below the modulus must fit in three digits (base^2 <= n < base^3).
func (k Key) CheckBase(base int) error {
	if base < 2 || base > 1<<20 {
		return configErr("alphabet of %d symbols is out of range", base)
	}

	b := int64(base)
	if b*b > k.Modulus {
		return configErr("modulus %d is smaller than base^2 = %d", k.Modulus, b*b)
	}
	if k.Modulus >= b*b*b {
		return configErr("modulus %d overflows three base-%d digits (%d)", k.Modulus, base, b*b*b)
	}
	return nil
}
