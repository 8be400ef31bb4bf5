// Copyright (c) 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scalar implements arithmetic modulo the prime-order subgroup size
// ℓ = 2^252 + 27742317777372353535851937790883648493, the scalar ring that
// acts on edwards25519 and ristretto255 points.
//
// A Scalar is an immutable value holding the canonical 32-byte little-endian
// representative of an integer in [0, ℓ); every arithmetic operation returns
// a newly computed Scalar rather than mutating its operands. Internally,
// multiplication and reduction convert to a twelve-limb, 21-bit-radix working
// form and fold high limbs into low ones using the same Barrett-style
// multipliers the classic curve25519 reference implementation uses.
package scalar

import (
	"crypto/subtle"
	"encoding/binary"
	"errors"
)

// Scalar is an integer modulo ℓ, stored as its canonical 32-byte
// little-endian encoding with the top bit always zero.
type Scalar struct {
	b [32]byte
}

var (
	scZero = Scalar{}
	scOne  = Scalar{b: [32]byte{1}}
)

// Zero returns the scalar 0.
func Zero() Scalar { return scZero }

// One returns the scalar 1.
func One() Scalar { return scOne }

// ellBytes is ℓ itself, little-endian.
var ellBytes = [32]byte{
	0xed, 0xd3, 0xf5, 0x5c, 0x1a, 0x63, 0x12, 0x58,
	0xd6, 0x9c, 0xf7, 0xa2, 0xde, 0xf9, 0xde, 0x14,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10,
}

// ellMinus2Bytes is ℓ-2, little-endian, the Fermat exponent used by Invert.
var ellMinus2Bytes = [32]byte{
	0xeb, 0xd3, 0xf5, 0x5c, 0x1a, 0x63, 0x12, 0x58,
	0xd6, 0x9c, 0xf7, 0xa2, 0xde, 0xf9, 0xde, 0x14,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10,
}

// ErrInvalidRepresentation is returned when a byte string does not encode a
// value in [0, ℓ) with its top bit clear.
var ErrInvalidRepresentation = errors.New("scalar: invalid representation")

// FromBits sets the top bit of b to zero and returns the resulting Scalar
// without reducing mod ℓ. The caller is responsible for ensuring the value
// make sense unreduced; most callers want FromCanonicalBytes instead.
func FromBits(b [32]byte) Scalar {
	b[31] &= 0x7f
	return Scalar{b: b}
}

// FromCanonicalBytes decodes b as a Scalar, rejecting any encoding whose
// value is not strictly less than ℓ.
func FromCanonicalBytes(b []byte) (Scalar, error) {
	if len(b) != 32 {
		return Scalar{}, ErrInvalidRepresentation
	}
	var s Scalar
	copy(s.b[:], b)
	if s.b[31] > 0x7f || !isCanonical(s.b) {
		return Scalar{}, ErrInvalidRepresentation
	}
	return s, nil
}

// isCanonical reports whether b, read little-endian, is strictly less than ℓ.
// The comparison runs as a constant-time multi-precision subtraction so it
// does not branch on the (potentially secret) scalar value.
func isCanonical(b [32]byte) bool {
	var borrow int32
	for i := 0; i < 32; i++ {
		d := int32(b[i]) - int32(ellBytes[i]) - borrow
		borrow = (d >> 31) & 1
	}
	return borrow == 1
}

// Bytes returns the canonical 32-byte little-endian encoding of s.
func (s Scalar) Bytes() []byte {
	out := make([]byte, 32)
	copy(out, s.b[:])
	return out
}

// Equal returns 1 if s == t, and 0 otherwise, in constant time.
func (s Scalar) Equal(t Scalar) int {
	return subtle.ConstantTimeCompare(s.b[:], t.b[:])
}

// test returns bit number `bit` (0 = least significant) of s's encoding. This
// is the corrected form of the reference implementation's bit test, which
// used s[idx] & (bit % 8) -- an expression whose mask never exceeds 7, so it
// only ever looks at the byte's low three bits, and inconsistently. The correct formula shifts the
// byte down by the bit offset before masking.
func (s Scalar) test(bit uint) int {
	idx := bit / 8
	return int((s.b[idx] >> (bit % 8)) & 1)
}

// --- wide/limb machinery shared by Multiply, Square, Invert and the
// From*ModOrder constructors. ---

// barrettMultipliers are the six-limb, 21-bit-radix decomposition of
// -(ℓ - 2^252), i.e. of the coefficient such that 2^252 ≡ -L (mod ℓ) where
// ℓ = 2^252 + L. Folding a high limb `hi` at weight 2^(252 + 21k) into the
// low limbs using these six multipliers is exactly the identity
// 2^252 * hi ≡ -L * hi (mod ℓ), applied six 21-bit pieces at a time.
var barrettMultipliers = [6]int64{666643, 470296, 654183, -997805, 136657, -683901}

// bitWindow extracts a little-endian window of `width` bits starting at bit
// offset `start` from b, zero-extending past the end of b. It underlies both
// the limb loaders below and the radix digit expansions, so there is exactly
// one piece of bit-twiddling logic to get right rather than several
// hand-specialized ones.
func bitWindow(b []byte, start, width int) int64 {
	var v int64
	for k := 0; k < width; k++ {
		bitIdx := start + k
		byteIdx := bitIdx / 8
		if byteIdx >= len(b) {
			break
		}
		bit := (b[byteIdx] >> uint(bitIdx%8)) & 1
		v |= int64(bit) << uint(k)
	}
	return v
}

// limbsFromBytes splits b into n 21-bit-radix limbs. The final limb is left
// unmasked (wider than 21 bits) so that values up to len(b)*8 bits can be
// represented exactly, mirroring the reference implementation's treatment of
// the last loaded limb in both sc_reduce and sc_muladd.
func limbsFromBytes(b []byte, n int) []int64 {
	limbs := make([]int64, n)
	for i := 0; i < n; i++ {
		start := i * 21
		width := 21
		if i == n-1 {
			width = len(b)*8 - start
		}
		limbs[i] = bitWindow(b, start, width)
	}
	return limbs
}

// bytesFromLimbs packs a 21-bit-radix limb array (whose final limb may be
// wider than 21 bits) back into a 32-byte little-endian value.
func bytesFromLimbs(limbs []int64) [32]byte {
	var out [32]byte
	for i, l := range limbs {
		start := i * 21
		for k := 0; k < 64 && l>>uint(k) != 0; k++ {
			bitIdx := start + k
			byteIdx := bitIdx / 8
			if byteIdx >= 32 {
				break
			}
			bit := (l >> uint(k)) & 1
			out[byteIdx] |= byte(bit) << uint(bitIdx%8)
		}
	}
	return out
}

// foldHighLimbs reduces s[nLow:] into s[:nLow] using barrettMultipliers,
// processing from the top down so that a fold which lands back at or above
// nLow (which happens, since a single multiplier application can touch up
// to six limbs above its source) is folded again in a later iteration of
// the same pass. The limbs are carried once before the first fold and again
// below each folded limb after it, so every limb that is folded is only a
// bit or two over 21 bits and no product overflows an int64; the top limb of
// s receives the initial carry.
func foldHighLimbs(s []int64, nLow int) {
	carryPropagateOpen(s)
	for i := len(s) - 1; i >= nLow; i-- {
		hi := s[i]
		if hi == 0 {
			continue
		}
		s[i] = 0
		base := i - nLow
		for k, m := range barrettMultipliers {
			s[base+k] += m * hi
		}
		carryPropagateOpen(s[:i])
	}
}

// carryPropagateOpen carries s[0] through s[len(s)-2] at the 21-bit boundary
// into their successors. The final limb is deliberately left unreduced: ℓ
// itself needs slightly more than 21*(len(s)-1) bits, so forcing every limb
// into 21 bits would make values near ℓ unrepresentable.
func carryPropagateOpen(s []int64) {
	var c int64
	for i := 0; i < len(s)-1; i++ {
		c = s[i] >> 21
		s[i] -= c << 21
		s[i+1] += c
	}
}

// reduceWide folds a wide limb array (24 limbs from a 64-byte value, or the
// 23-limb product of two 12-limb scalars) down to a canonical 32-byte
// encoding.
func reduceWide(wide []int64) [32]byte {
	if len(wide) < 24 {
		wide = append(wide, make([]int64, 24-len(wide))...)
	}
	foldHighLimbs(wide, 12)
	low := wide[:12]
	carryPropagateOpen(low)
	// The last fold can leave the value slightly negative (its top limb is
	// then negative, the others being carried into [0, 2^21)); adding
	// ℓ = 2^252 + L brings it back into [0, ℓ).
	if low[11] < 0 {
		low[11] += 1 << 21
		for k, m := range barrettMultipliers {
			low[k] -= m
		}
		carryPropagateOpen(low)
	}
	b := bytesFromLimbs(low)
	// The value is now below 2ℓ; a single conditional subtraction of ℓ, the
	// same adjustment Add performs, makes it canonical.
	if !isCanonical(b) {
		diff, _ := subWords(wordsFromScalar(Scalar{b: b}), wordsFromScalar(Scalar{b: ellBytes}))
		b = scalarFromWords(diff).b
	}
	return b
}

// FromBytesModOrder reduces a 32-byte little-endian value modulo ℓ.
func FromBytesModOrder(b []byte) (Scalar, error) {
	if len(b) != 32 {
		return Scalar{}, ErrInvalidRepresentation
	}
	var wide [64]byte
	copy(wide[:32], b)
	return FromBytesModOrderWide(wide[:])
}

// FromBytesModOrderWide reduces a 64-byte little-endian value modulo ℓ. It is
// the primitive behind hash-to-scalar constructions, where a wide hash output
// must be reduced without introducing modulo bias.
func FromBytesModOrderWide(b []byte) (Scalar, error) {
	if len(b) != 64 {
		return Scalar{}, ErrInvalidRepresentation
	}
	wide := limbsFromBytes(b, 24)
	return Scalar{b: reduceWide(wide)}, nil
}

// mulLimbs computes the length-23 schoolbook convolution of two 12-limb
// scalars.
func mulLimbs(a, b [12]int64) []int64 {
	p := make([]int64, 23)
	for i := 0; i < 12; i++ {
		if a[i] == 0 {
			continue
		}
		for j := 0; j < 12; j++ {
			p[i+j] += a[i] * b[j]
		}
	}
	return p
}

func limbs12(s Scalar) [12]int64 {
	var out [12]int64
	copy(out[:], limbsFromBytes(s.b[:], 12))
	return out
}

// MultiplyAdd returns a*b + c mod ℓ.
func MultiplyAdd(a, b, c Scalar) Scalar {
	p := mulLimbs(limbs12(a), limbs12(b))
	cl := limbsFromBytes(c.b[:], 12)
	for i, l := range cl {
		p[i] += l
	}
	return Scalar{b: reduceWide(p)}
}

// MultiplyAdd returns s*a + b, as a method for chained call sites.
func (s Scalar) MultiplyAdd(a, b Scalar) Scalar { return MultiplyAdd(s, a, b) }

// Multiply returns a * b mod ℓ.
func Multiply(a, b Scalar) Scalar { return MultiplyAdd(a, b, scZero) }

// Multiply returns s * a mod ℓ.
func (s Scalar) Multiply(a Scalar) Scalar { return Multiply(s, a) }

// Square returns a * a mod ℓ.
func Square(a Scalar) Scalar { return Multiply(a, a) }

// Square returns s * s mod ℓ.
func (s Scalar) Square() Scalar { return Square(s) }

// --- simple add/sub/negate, done as four 64-bit words with a single
// conditional subtraction of ℓ. This is arithmetically the same carry-chain
// addition the nine-limb 29-bit UnpackedScalar view would perform; an explicit
// carry/borrow chain over four words gets the identical result with one
// limb system instead of two, which is the same clarity-over-duplication
// call field.Element's carry propagation makes. ---

func wordsFromScalar(s Scalar) [4]uint64 {
	var w [4]uint64
	for i := range w {
		w[i] = binary.LittleEndian.Uint64(s.b[i*8 : i*8+8])
	}
	return w
}

func scalarFromWords(w [4]uint64) Scalar {
	var s Scalar
	for i, x := range w {
		binary.LittleEndian.PutUint64(s.b[i*8:i*8+8], x)
	}
	return s
}

func addWords(a, b [4]uint64) (sum [4]uint64, carry uint64) {
	for i := range sum {
		lo := a[i] + b[i]
		c := uint64(0)
		if lo < a[i] {
			c = 1
		}
		lo2 := lo + carry
		if lo2 < lo {
			c = 1
		}
		sum[i] = lo2
		carry = c
	}
	return sum, carry
}

func subWords(a, b [4]uint64) (diff [4]uint64, borrow uint64) {
	for i := range diff {
		lo := a[i] - b[i]
		b1 := uint64(0)
		if a[i] < b[i] {
			b1 = 1
		}
		lo2 := lo - borrow
		if lo < borrow {
			b1 = 1
		}
		diff[i] = lo2
		borrow = b1
	}
	return diff, borrow
}

// Add returns a + b mod ℓ.
func Add(a, b Scalar) Scalar {
	sum, _ := addWords(wordsFromScalar(a), wordsFromScalar(b))
	if diff, borrow := subWords(sum, wordsFromScalar(Scalar{b: ellBytes})); borrow == 0 {
		sum = diff
	}
	return scalarFromWords(sum)
}

// Add returns s + a mod ℓ.
func (s Scalar) Add(a Scalar) Scalar { return Add(s, a) }

// Subtract returns a - b mod ℓ.
func Subtract(a, b Scalar) Scalar {
	diff, borrow := subWords(wordsFromScalar(a), wordsFromScalar(b))
	if borrow != 0 {
		diff, _ = addWords(diff, wordsFromScalar(Scalar{b: ellBytes}))
	}
	return scalarFromWords(diff)
}

// Subtract returns s - a mod ℓ.
func (s Scalar) Subtract(a Scalar) Scalar { return Subtract(s, a) }

// Negate returns -a mod ℓ.
func Negate(a Scalar) Scalar { return Subtract(scZero, a) }

// Negate returns -s mod ℓ.
func (s Scalar) Negate() Scalar { return Negate(s) }

// Invert returns 1/a mod ℓ via Fermat exponentiation by ℓ-2, using the bit
// expansion of the exponent least-significant-bit first. If a is zero,
// Invert returns zero.
func Invert(a Scalar) Scalar {
	result := scOne
	base := a
	for i := 0; i < 256; i++ {
		bit := (ellMinus2Bytes[i/8] >> uint(i%8)) & 1
		if bit == 1 {
			result = Multiply(result, base)
		}
		base = Square(base)
	}
	return result
}

// Invert returns 1/s mod ℓ.
func (s Scalar) Invert() Scalar { return Invert(s) }

// Divide returns a / b mod ℓ.
func Divide(a, b Scalar) Scalar { return Multiply(a, Invert(b)) }

// Divide returns s / a mod ℓ.
func (s Scalar) Divide(a Scalar) Scalar { return Divide(s, a) }

// --- digit expansions used by scalar multiplication. ---

// SignedRadix16 expands s into 64 signed nibbles in [-8, 8), the
// constant-time windowed form used by variable-base scalar multiplication.
func (s Scalar) SignedRadix16() [64]int8 { return s.toRadix16() }

// Radix2w expands s into unsigned base-2^w digits, used by the bucket
// method (Pippenger) of multi-scalar multiplication.
func (s Scalar) Radix2w(w uint) []uint32 { return s.toRadix2w(w) }

// NonAdjacentForm returns the width-w non-adjacent form of s, used by
// variable-time scalar multiplication. w must be between 2 and 8 inclusive.
func (s Scalar) NonAdjacentForm(w uint) [256]int8 { return s.nonAdjacentForm(w) }

// toRadix16 expands s into 64 signed nibbles in [-8, 8), the constant-time
// windowed form used by variable-base scalar multiplication.
func (s Scalar) toRadix16() [64]int8 {
	if s.b[31] > 127 {
		panic("scalar: toRadix16 requires a reduced scalar")
	}
	var output [64]int8
	for i := 0; i < 32; i++ {
		output[2*i] = int8(s.b[i] & 15)
		output[2*i+1] = int8((s.b[i] >> 4) & 15)
	}
	var carry int8
	for i := 0; i < 63; i++ {
		output[i] += carry
		carry = (output[i] + 8) >> 4
		output[i] -= carry << 4
	}
	output[63] += carry
	return output
}

// toRadix2w expands s into unsigned base-2^w digits, used by the bucket
// method (Pippenger) of multi-scalar multiplication. Unlike toRadix16 these
// digits are not recentered to be signed, since bucket accumulation has no
// need of a signed window.
func (s Scalar) toRadix2w(w uint) []uint32 {
	n := (256 + int(w) - 1) / int(w)
	digits := make([]uint32, n)
	for i := range digits {
		digits[i] = uint32(bitWindow(s.b[:], i*int(w), int(w)))
	}
	return digits
}

// nonAdjacentForm returns the width-w non-adjacent form of s: 256 signed
// digits, each either zero or odd with absolute value less than 2^(w-1), such
// that no two nonzero digits are within w positions of each other. w must be
// between 2 and 8 inclusive.
func (s Scalar) nonAdjacentForm(w uint) [256]int8 {
	if w < 2 || w > 8 {
		panic("scalar: nonAdjacentForm: w must be between 2 and 8")
	}

	var naf [256]int8
	var x [5]uint64
	for i := 0; i < 4; i++ {
		x[i] = binary.LittleEndian.Uint64(s.b[i*8 : i*8+8])
	}

	width := uint64(1) << w
	windowMask := width - 1

	pos := uint(0)
	carry := uint64(0)
	for pos < 256 {
		u64Idx := pos / 64
		bitIdx := pos % 64

		var bitBuf uint64
		if bitIdx < 64-w {
			bitBuf = x[u64Idx] >> bitIdx
		} else {
			bitBuf = (x[u64Idx] >> bitIdx) | (x[1+u64Idx] << (64 - bitIdx))
		}

		window := carry + (bitBuf & windowMask)

		if window&1 == 0 {
			pos++
			continue
		}

		if window < width/2 {
			carry = 0
			naf[pos] = int8(window)
		} else {
			carry = 1
			naf[pos] = int8(window) - int8(width)
		}

		pos += w
	}

	return naf
}
