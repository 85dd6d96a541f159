// Package numeral converts between fixed-width digit groups and integers
// in a positional numeral system of arbitrary base.
package numeral

import "math/bits"

// Pack returns the value of digits read most significant first:
// d[0]*base^(k-1) + d[1]*base^(k-2) + ... + d[k-1].
func Pack(digits []int, base int) uint64 {
	b := uint64(base)

	var v uint64
	for _, d := range digits {
		v = v*b + uint64(d)
	}
	return v
}

// Unpack splits v into width digits, most significant first.
// Only the lower width-1 digits are reduced modulo base. The leading digit
// is v / base^(width-1) unreduced (capped at 2^62), so a value that does not
// fit in width digits yields a leading digit >= base instead of being
// silently truncated.
func Unpack(v uint64, base, width int) []int {
	if width <= 0 {
		panic("numeral: width must be positive")
	}
	if base < 2 {
		panic("numeral: base must be at least 2")
	}

	b := uint64(base)
	digits := make([]int, width)
	for i := width - 1; i > 0; i-- {
		digits[i] = int(v % b)
		v /= b
	}
	digits[0] = int(min(v, uint64(1<<62)))
	return digits
}

// Pow returns base^exp. It is meant for the small exponents used as digit
// weights and does not guard against overflow.
func Pow(base, exp int) uint64 {
	r := uint64(1)
	for range exp {
		r *= uint64(base)
	}
	return r
}

func mulMod(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return bits.Rem64(hi, lo, m)
}

// PowMod returns b^e mod m using square-and-multiply.
// Intermediate products are 128 bits wide, so any m > 0 is safe.
func PowMod(b, e, m uint64) uint64 {
	if m == 0 {
		panic("numeral: zero modulus")
	}
	if m == 1 {
		return 0
	}

	r := uint64(1)
	b %= m
	for e > 0 {
		if e&1 == 1 {
			r = mulMod(r, b, m)
		}
		b = mulMod(b, b, m)
		e >>= 1
	}
	return r
}
