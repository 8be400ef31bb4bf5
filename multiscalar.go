// Copyright (c) 2019 Henry de Valence. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edwards25519

import "go.curvekit.dev/edwards25519/scalar"

// MultiscalarMul returns Σ scalars[i]*points[i]. It panics if the two slices
// do not have the same length.
//
// The method used internally (Straus's simultaneous method for small input
// sizes, Pippenger's bucket method for large ones) is chosen purely for
// performance: both compute the same mathematical sum, and the two are
// cross-checked against each other and against a naive per-term loop in this
// package's tests.
func MultiscalarMul(scalars []scalar.Scalar, points []EdwardsPoint) EdwardsPoint {
	if len(scalars) != len(points) {
		panic("edwards25519: MultiscalarMul: scalars and points have different lengths")
	}
	return multiscalarMulOpt(scalars, points)
}

// multiscalarMulOpt dispatches to Pippenger's method once there are enough
// terms to amortize its larger constant factor, and to Straus's method
// otherwise.
func multiscalarMulOpt(scalars []scalar.Scalar, points []EdwardsPoint) EdwardsPoint {
	if len(points) >= 30 {
		return mulPippenger(scalars, points)
	}
	return mulStraus(scalars, points)
}

// multiscalarMulNaive computes Σ scalars[i]*points[i] with one independent
// ScalarMult and Add per term. It exists only as a slow, obviously-correct
// reference for testing the two production methods against.
func multiscalarMulNaive(scalars []scalar.Scalar, points []EdwardsPoint) EdwardsPoint {
	acc := Identity()
	for i := range points {
		acc = Add(acc, ScalarMult(scalars[i], points[i]))
	}
	return acc
}

// mulStraus computes Σ scalars[i]*points[i] by Straus's simultaneous method:
// one signed radix-16 window table per point, all sharing a single doubling
// ladder. This is the natural multi-base generalization of ScalarMult.
func mulStraus(scalars []scalar.Scalar, points []EdwardsPoint) EdwardsPoint {
	tables := make([]projectiveLookupTable, len(points))
	digits := make([][64]int8, len(points))
	for i, p := range points {
		tables[i] = newProjectiveLookupTable(p)
		digits[i] = scalars[i].SignedRadix16()
	}

	acc := Identity()
	for i := 63; i >= 0; i-- {
		acc = MultBy16(acc)
		for j := range points {
			acc = fromCompleted(addProjectiveNiels(acc, tables[j].selectPoint(digits[j][i])))
		}
	}
	return acc
}

// pippengerWindowWidth picks the bucket-method window width for n terms: the
// larger the input, the wider the window that pays for itself.
func pippengerWindowWidth(n int) uint {
	switch {
	case n < 500:
		return 6
	case n < 800:
		return 7
	default:
		return 8
	}
}

// signedDigitsBase2w recenters s's unsigned base-2^w digits into the signed
// range [-2^(w-1), 2^(w-1)), carrying the overflow from each recentering into
// the next digit up exactly as toRadix16 does for w=4. An extra, usually-zero
// digit is appended to absorb a possible carry out of the most significant
// digit (this is the "D+1 digits" case the w=8 window needs, generalized to
// every width).
func signedDigitsBase2w(s scalar.Scalar, w uint) []int32 {
	unsigned := s.Radix2w(w)
	width := int32(1) << w
	half := width >> 1

	out := make([]int32, len(unsigned)+1)
	var carry int32
	for i, d := range unsigned {
		v := int32(d) + carry
		if v >= half {
			v -= width
			carry = 1
		} else {
			carry = 0
		}
		out[i] = v
	}
	out[len(unsigned)] = carry
	return out
}

// mulPippenger computes Σ scalars[i]*points[i] by Pippenger's bucket method:
// for each signed radix-2^c digit position, points are sorted into 2^(c-1)
// buckets by digit magnitude and sign, and the buckets are combined with the
// running-sum trick Σ (j+1)*bucket[j] before being folded into the running
// total at that digit's weight.
func mulPippenger(scalars []scalar.Scalar, points []EdwardsPoint) EdwardsPoint {
	c := pippengerWindowWidth(len(points))
	numBuckets := 1 << (c - 1)

	digits := make([][]int32, len(points))
	numDigits := 0
	for i, s := range scalars {
		digits[i] = signedDigitsBase2w(s, c)
		if len(digits[i]) > numDigits {
			numDigits = len(digits[i])
		}
	}

	Q := Identity()
	for k := numDigits - 1; k >= 0; k-- {
		for i := uint(0); i < c; i++ {
			Q = Double(Q)
		}

		buckets := make([]EdwardsPoint, numBuckets)
		for i := range buckets {
			buckets[i] = Identity()
		}
		for i, p := range points {
			if k >= len(digits[i]) {
				continue
			}
			switch d := digits[i][k]; {
			case d > 0:
				buckets[d-1] = Add(buckets[d-1], p)
			case d < 0:
				buckets[-d-1] = Subtract(buckets[-d-1], p)
			}
		}

		sum := Identity()
		bsum := Identity()
		for j := numBuckets - 1; j >= 0; j-- {
			sum = Add(sum, buckets[j])
			bsum = Add(bsum, sum)
		}
		Q = Add(Q, bsum)
	}
	return Q
}

// RistrettoMultiscalarMul returns Σ scalars[i]*points[i] in the ristretto255
// group, by lifting to the underlying edwards25519 representatives and
// running MultiscalarMul there: the quotient map is linear, so this agrees
// with doing the sum directly in the quotient group.
func RistrettoMultiscalarMul(scalars []scalar.Scalar, points []RistrettoElement) RistrettoElement {
	reps := make([]EdwardsPoint, len(points))
	for i, p := range points {
		reps[i] = p.repr
	}
	return RistrettoElement{repr: MultiscalarMul(scalars, reps)}
}
