// Copyright (c) 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package field implements arithmetic modulo 2^255-19, the field underlying
// edwards25519 and ristretto255. Note that this is not a cryptographically
// secure group by itself, and should only be used to interact with
// edwards25519.EdwardsPoint and related coordinate types.
//
// An Element represents an integer in [0, p) as ten signed 32-bit limbs, in
// a mixed radix with five limbs of radix 2^26 interleaved with five limbs of
// radix 2^25, following the original curve25519 reference implementation.
// Elements are immutable values: every operation returns a newly computed
// Element rather than mutating its operands.
package field

import (
	"crypto/subtle"
	"errors"
)

// Element is an element of the field GF(2^255-19). The zero value is the
// additive identity (zero).
type Element struct {
	// Limb i has radix 2^26 when i is even, and radix 2^25 when i is odd, so
	// the represented value is
	//
	//   l[0] + l[1]*2^26 + l[2]*2^51 + l[3]*2^77 + l[4]*2^102 +
	//   l[5]*2^128 + l[6]*2^153 + l[7]*2^179 + l[8]*2^204 + l[9]*2^230
	//
	// Limbs may transiently carry a couple of extra bits between operations,
	// but every exported operation returns an Element whose limbs are bounded
	// by their nominal radix (2^26 for even limbs, 2^25 for odd limbs) up to
	// the small final carry each odd limb may receive from its predecessor.
	l [10]int32
}

var (
	feZero = Element{}
	feOne  = Element{l: [10]int32{1}}
)

// Zero returns the field element 0.
func Zero() Element { return feZero }

// One returns the field element 1.
func One() Element { return feOne }

// carryPropagate brings h into canonical per-limb bounds: first fold every
// even limb's overflow into its odd successor, then every odd limb's overflow
// into its even successor, wrapping limb 9's overflow back into limb 0 scaled
// by 19 (the reduction identity 2^255 ≡ 19 (mod p)), and finally fold the
// even limbs once more so the carries of the odd pass are absorbed.
func carryPropagate(h *[10]int64) {
	var c int64

	c = h[0] >> 26
	h[0] -= c << 26
	h[1] += c
	c = h[2] >> 26
	h[2] -= c << 26
	h[3] += c
	c = h[4] >> 26
	h[4] -= c << 26
	h[5] += c
	c = h[6] >> 26
	h[6] -= c << 26
	h[7] += c
	c = h[8] >> 26
	h[8] -= c << 26
	h[9] += c

	c = h[1] >> 25
	h[1] -= c << 25
	h[2] += c
	c = h[3] >> 25
	h[3] -= c << 25
	h[4] += c
	c = h[5] >> 25
	h[5] -= c << 25
	h[6] += c
	c = h[7] >> 25
	h[7] -= c << 25
	h[8] += c
	c = h[9] >> 25
	h[9] -= c << 25
	h[0] += c * 19

	// One more even-limb pass: the 19*c term added to h[0] can overflow its
	// 26-bit bound, and the odd pass's carries can push h[2], h[4], h[6] and
	// h[8] far past theirs after a multiplication.
	c = h[0] >> 26
	h[0] -= c << 26
	h[1] += c
	c = h[2] >> 26
	h[2] -= c << 26
	h[3] += c
	c = h[4] >> 26
	h[4] -= c << 26
	h[5] += c
	c = h[6] >> 26
	h[6] -= c << 26
	h[7] += c
	c = h[8] >> 26
	h[8] -= c << 26
	h[9] += c
}

func (v Element) wide() [10]int64 {
	var w [10]int64
	for i, l := range v.l {
		w[i] = int64(l)
	}
	return w
}

func fromWide(w [10]int64) Element {
	carryPropagate(&w)
	var v Element
	for i := range v.l {
		v.l[i] = int32(w[i])
	}
	return v
}

// Add returns a + b.
func Add(a, b Element) Element {
	var w [10]int64
	for i := range w {
		w[i] = int64(a.l[i]) + int64(b.l[i])
	}
	return fromWide(w)
}

// Add returns v + a, as a method for chained call sites.
func (v Element) Add(a Element) Element { return Add(v, a) }

// subtractBias holds, for each limb, a telescoping constant such that
// sum(subtractBias[i] << shift[i]) == 2*p exactly (not merely mod p). Adding
// it before subtracting guarantees every limb stays non-negative without
// perturbing the represented value modulo p.
var subtractBias = [10]int64{
	134217690, 67108862, 134217726, 67108862, 134217726,
	67108862, 134217726, 67108862, 134217726, 67108862,
}

// Subtract returns a - b.
func Subtract(a, b Element) Element {
	var w [10]int64
	for i := range w {
		w[i] = int64(a.l[i]) + subtractBias[i] - int64(b.l[i])
	}
	return fromWide(w)
}

// Subtract returns v - a.
func (v Element) Subtract(a Element) Element { return Subtract(v, a) }

// Negate returns -a.
func Negate(a Element) Element { return Subtract(feZero, a) }

// Negate returns -v.
func (v Element) Negate() Element { return Negate(v) }

// mulGeneric computes the length-10 mixed-radix convolution of a and b,
// folding every term whose combined weight reaches 2^255 back to the front
// using the reduction identity 2^255 ≡ 19 (mod p): since the limb weights
// repeat with period 10 limbs exactly every 255 bits, term k+10 always has
// weight exactly 2^255 times term k's weight. The product of two odd limbs
// has weight twice that of limb i+j (26+26 bits against 51, for example), so
// those products are doubled before they are accumulated.
func mulGeneric(a, b [10]int32) [10]int64 {
	var p [19]int64
	for i, ai := range a {
		if ai == 0 {
			continue
		}
		ai64 := int64(ai)
		for j, bj := range b {
			t := ai64 * int64(bj)
			if i&1 == 1 && j&1 == 1 {
				t *= 2
			}
			p[i+j] += t
		}
	}
	var h [10]int64
	for k := 0; k < 10; k++ {
		h[k] = p[k]
		if k+10 <= 18 {
			h[k] += 19 * p[k+10]
		}
	}
	return h
}

// Multiply returns a * b.
func Multiply(a, b Element) Element {
	return fromWide(mulGeneric(a.l, b.l))
}

// Multiply returns v * a.
func (v Element) Multiply(a Element) Element { return Multiply(v, a) }

// Square returns a * a.
func Square(a Element) Element {
	return fromWide(mulGeneric(a.l, a.l))
}

// Square returns v * v.
func (v Element) Square() Element { return Square(v) }

// SquareAndDouble returns 2 * a * a, folding the final doubling into the same
// carry pass rather than computing Square then Add separately.
func SquareAndDouble(a Element) Element {
	w := mulGeneric(a.l, a.l)
	for i := range w {
		w[i] *= 2
	}
	return fromWide(w)
}

// SquareAndDouble returns 2 * v * v.
func (v Element) SquareAndDouble() Element { return SquareAndDouble(v) }

// Invert returns 1/z mod p. If z is zero, Invert returns zero.
//
// Inversion is exponentiation by p-2 = 2^255-21, computed with the standard
// curve25519 addition chain: 11 multiplications and 254 squarings, built out
// of four reusable intermediate powers (z9, z11, z2_5_0 and its doublings).
func Invert(z Element) Element {
	var z2, z9, z11, z2_5_0, z2_10_0, z2_20_0, z2_50_0, z2_100_0, t Element

	z2 = Square(z)           // 2
	t = Square(z2)            // 4
	t = Square(t)             // 8
	z9 = Multiply(t, z)        // 9
	z11 = Multiply(z9, z2)     // 11
	t = Square(z11)            // 22
	z2_5_0 = Multiply(t, z9)   // 2^5 - 2^0 = 31

	t = Square(z2_5_0) // 2^6 - 2^1
	for i := 0; i < 4; i++ {
		t = Square(t) // 2^10 - 2^5
	}
	z2_10_0 = Multiply(t, z2_5_0) // 2^10 - 2^0

	t = Square(z2_10_0) // 2^11 - 2^1
	for i := 0; i < 9; i++ {
		t = Square(t) // 2^20 - 2^10
	}
	z2_20_0 = Multiply(t, z2_10_0) // 2^20 - 2^0

	t = Square(z2_20_0) // 2^21 - 2^1
	for i := 0; i < 19; i++ {
		t = Square(t) // 2^40 - 2^20
	}
	t = Multiply(t, z2_20_0) // 2^40 - 2^0

	t = Square(t) // 2^41 - 2^1
	for i := 0; i < 9; i++ {
		t = Square(t) // 2^50 - 2^10
	}
	z2_50_0 = Multiply(t, z2_10_0) // 2^50 - 2^0

	t = Square(z2_50_0) // 2^51 - 2^1
	for i := 0; i < 49; i++ {
		t = Square(t) // 2^100 - 2^50
	}
	z2_100_0 = Multiply(t, z2_50_0) // 2^100 - 2^0

	t = Square(z2_100_0) // 2^101 - 2^1
	for i := 0; i < 99; i++ {
		t = Square(t) // 2^200 - 2^100
	}
	t = Multiply(t, z2_100_0) // 2^200 - 2^0

	t = Square(t) // 2^201 - 2^1
	for i := 0; i < 49; i++ {
		t = Square(t) // 2^250 - 2^50
	}
	t = Multiply(t, z2_50_0) // 2^250 - 2^0

	t = Square(t) // 2^251 - 2^1
	t = Square(t) // 2^252 - 2^2
	t = Square(t) // 2^253 - 2^3
	t = Square(t) // 2^254 - 2^4
	t = Square(t) // 2^255 - 2^5

	return Multiply(t, z11) // 2^255 - 21
}

// Invert returns 1/v mod p.
func (v Element) Invert() Element { return Invert(v) }

// Pow22523 returns z^((p-5)/8), the exponentiation used internally by
// SqrtRatioM1.
func Pow22523(z Element) Element {
	var t0, t1, t2 Element

	t0 = Square(z)              // z^2
	t1 = Square(t0)              // z^4
	t1 = Square(t1)              // z^8
	t1 = Multiply(z, t1)         // z^9
	t0 = Multiply(t0, t1)        // z^11
	t0 = Square(t0)              // z^22
	t0 = Multiply(t1, t0)        // z^31
	t1 = Square(t0)              // 2^6 - 2
	for i := 1; i < 5; i++ {
		t1 = Square(t1) // 2^10 - 2^5
	}
	t0 = Multiply(t1, t0) // 2^10 - 1
	t1 = Square(t0)       // 2^11 - 2
	for i := 1; i < 10; i++ {
		t1 = Square(t1) // 2^20 - 2^10
	}
	t1 = Multiply(t1, t0) // 2^20 - 1
	t2 = Square(t1)       // 2^21 - 2
	for i := 1; i < 20; i++ {
		t2 = Square(t2) // 2^40 - 2^20
	}
	t1 = Multiply(t2, t1) // 2^40 - 1
	t1 = Square(t1)       // 2^41 - 2
	for i := 1; i < 10; i++ {
		t1 = Square(t1) // 2^50 - 2^10
	}
	t0 = Multiply(t1, t0) // 2^50 - 1
	t1 = Square(t0)       // 2^51 - 2
	for i := 1; i < 50; i++ {
		t1 = Square(t1) // 2^100 - 2^50
	}
	t1 = Multiply(t1, t0) // 2^100 - 1
	t2 = Square(t1)       // 2^101 - 2
	for i := 1; i < 100; i++ {
		t2 = Square(t2) // 2^200 - 2^100
	}
	t1 = Multiply(t2, t1) // 2^200 - 1
	t1 = Square(t1)       // 2^201 - 2
	for i := 1; i < 50; i++ {
		t1 = Square(t1) // 2^250 - 2^50
	}
	t0 = Multiply(t1, t0) // 2^250 - 1
	t0 = Square(t0)       // 2^251 - 2
	t0 = Square(t0)       // 2^252 - 4
	return Multiply(t0, z) // 2^252 - 3 = z^((p-5)/8)
}

// Pow22523 returns v^((p-5)/8).
func (v Element) Pow22523() Element { return Pow22523(v) }

// sqrtM1 is a square root of -1 modulo p, used by SqrtRatioM1.
var sqrtM1 = Element{l: [10]int32{
	34513072, 25610706, 9377949, 3500415, 12389472,
	33281959, 41962654, 31548777, 326685, 11406482,
}}

// SqrtRatioM1 sets r to a square root of u/v.
//
// If u/v is a nonzero square, r is the non-negative square root of u/v and
// wasSquare is 1. Otherwise r is a non-negative square root of i*u/v (where i
// is a fixed square root of -1) and wasSquare is 0. If u is zero, r is zero
// regardless of v. If u is non-zero and v is zero, r is zero and wasSquare is 0.
//
// r is always chosen non-negative (its low bit, per IsNegative, is 0).
func SqrtRatioM1(u, v Element) (r Element, wasSquare int) {
	v3 := Multiply(Square(v), v)
	v7 := Multiply(Square(v3), v)
	r = Multiply(Multiply(u, v3), Pow22523(Multiply(u, v7)))

	check := Multiply(v, Square(r))
	uNeg := Negate(u)
	correctSignSqrt := check.Equal(u)
	flippedSignSqrt := check.Equal(uNeg)
	flippedSignSqrtI := check.Equal(Multiply(uNeg, sqrtM1))

	rPrime := Multiply(r, sqrtM1)
	r = Select(rPrime, r, flippedSignSqrt|flippedSignSqrtI)
	r = Absolute(r)

	return r, correctSignSqrt | flippedSignSqrt
}

// Equal returns 1 if v == u, and 0 otherwise, comparing canonical byte
// encodings in constant time.
func (v Element) Equal(u Element) int {
	sv := v.Bytes()
	su := u.Bytes()
	return subtle.ConstantTimeCompare(sv, su)
}

// Select returns a if cond == 1, and b if cond == 0. cond must be 0 or 1.
func Select(a, b Element, cond int) Element {
	m := int32(cond) * -1 // all-ones if cond==1, all-zeros if cond==0
	var v Element
	for i := range v.l {
		v.l[i] = b.l[i] ^ (m & (a.l[i] ^ b.l[i]))
	}
	return v
}

// Absolute returns |v|, choosing the non-negative representative.
func Absolute(v Element) Element {
	return Select(Negate(v), v, v.IsNegative())
}

// IsNegative returns 1 if v's canonical encoding has its low bit set, and 0
// otherwise.
func (v Element) IsNegative() int {
	b := v.Bytes()
	return int(b[0] & 1)
}

// FromBytes sets v from x, a 32-byte little-endian encoding. The most
// significant bit (the high bit of byte 31) is ignored, as required by
// RFC 7748; non-canonical encodings (values in [p, 2^255)) are accepted and
// reduced on the next normalizing operation.
func FromBytes(x []byte) (Element, error) {
	if len(x) != 32 {
		return Element{}, errors.New("edwards25519: invalid field element input size")
	}

	load3 := func(b []byte) int64 {
		return int64(b[0]) | int64(b[1])<<8 | int64(b[2])<<16
	}
	load4 := func(b []byte) int64 {
		return int64(b[0]) | int64(b[1])<<8 | int64(b[2])<<16 | int64(b[3])<<24
	}

	var h [10]int64
	h[0] = load4(x[0:4])
	h[1] = load3(x[4:7]) << 6
	h[2] = load3(x[7:10]) << 5
	h[3] = load3(x[10:13]) << 3
	h[4] = load3(x[13:16]) << 2
	h[5] = load4(x[16:20])
	h[6] = load3(x[20:23]) << 7
	h[7] = load3(x[23:26]) << 5
	h[8] = load3(x[26:29]) << 4
	h[9] = (load3(x[29:32]) & 0x7fffff) << 2 // mask the ignored top bit of byte 31

	return fromWide(h), nil
}

// Bytes returns the canonical 32-byte little-endian encoding of v, the
// unique representative of v's residue class in [0, p).
func (v Element) Bytes() []byte {
	var buf [32]byte
	v.fillBytes(buf[:])
	return buf[:]
}

func (v Element) fillBytes(b []byte) {
	// Fully reduce: carryPropagate already bounds each limb to its nominal
	// width, but the value may still be in [p, 2^255). Estimate the quotient
	// q = floor(v / p) (q is 0 or 1) and subtract q*p, using the identity
	// p = 2^255 - 19.
	h := v.wide()

	q := (19*h[9] + (1 << 24)) >> 25
	q = (h[0] + q) >> 26
	q = (h[1] + q) >> 25
	q = (h[2] + q) >> 26
	q = (h[3] + q) >> 25
	q = (h[4] + q) >> 26
	q = (h[5] + q) >> 25
	q = (h[6] + q) >> 26
	q = (h[7] + q) >> 25
	q = (h[8] + q) >> 26
	q = (h[9] + q) >> 25

	h[0] += 19 * q

	var c int64
	c = h[0] >> 26
	h[0] -= c << 26
	h[1] += c
	c = h[1] >> 25
	h[1] -= c << 25
	h[2] += c
	c = h[2] >> 26
	h[2] -= c << 26
	h[3] += c
	c = h[3] >> 25
	h[3] -= c << 25
	h[4] += c
	c = h[4] >> 26
	h[4] -= c << 26
	h[5] += c
	c = h[5] >> 25
	h[5] -= c << 25
	h[6] += c
	c = h[6] >> 26
	h[6] -= c << 26
	h[7] += c
	c = h[7] >> 25
	h[7] -= c << 25
	h[8] += c
	c = h[8] >> 26
	h[8] -= c << 26
	h[9] += c
	c = h[9] >> 25
	h[9] -= c << 25
	// no further carry: after the conditional subtraction of p, h[9] fits in
	// 25 bits exactly.

	b[0] = byte(h[0])
	b[1] = byte(h[0] >> 8)
	b[2] = byte(h[0] >> 16)
	b[3] = byte(h[0]>>24) | byte(h[1]<<2)
	b[4] = byte(h[1] >> 6)
	b[5] = byte(h[1] >> 14)
	b[6] = byte(h[1]>>22) | byte(h[2]<<3)
	b[7] = byte(h[2] >> 5)
	b[8] = byte(h[2] >> 13)
	b[9] = byte(h[2]>>21) | byte(h[3]<<5)
	b[10] = byte(h[3] >> 3)
	b[11] = byte(h[3] >> 11)
	b[12] = byte(h[3]>>19) | byte(h[4]<<6)
	b[13] = byte(h[4] >> 2)
	b[14] = byte(h[4] >> 10)
	b[15] = byte(h[4] >> 18)
	b[16] = byte(h[5])
	b[17] = byte(h[5] >> 8)
	b[18] = byte(h[5] >> 16)
	b[19] = byte(h[5]>>24) | byte(h[6]<<1)
	b[20] = byte(h[6] >> 7)
	b[21] = byte(h[6] >> 15)
	b[22] = byte(h[6]>>23) | byte(h[7]<<3)
	b[23] = byte(h[7] >> 5)
	b[24] = byte(h[7] >> 13)
	b[25] = byte(h[7]>>21) | byte(h[8]<<4)
	b[26] = byte(h[8] >> 4)
	b[27] = byte(h[8] >> 12)
	b[28] = byte(h[8]>>20) | byte(h[9]<<6)
	b[29] = byte(h[9] >> 2)
	b[30] = byte(h[9] >> 10)
	b[31] = byte(h[9] >> 18)
}

// Mult32 returns a * y, where y is a small (non-secret) unsigned constant.
// It scales by a constant that fits in 32 bits (such as 19) without a full
// Multiply call.
func Mult32(a Element, y uint32) Element {
	var w [10]int64
	for i, l := range a.l {
		w[i] = int64(l) * int64(y)
	}
	return fromWide(w)
}

// Mult32 returns v * y.
func (v Element) Mult32(y uint32) Element { return Mult32(v, y) }
