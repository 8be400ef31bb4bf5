// Copyright (c) 2019 Henry de Valence. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edwards25519

import "go.curvekit.dev/edwards25519/scalar"

// basepointTable is built once, during package initialization, and shared by
// every fixed-base multiply against the standard generator.
var basepointTable = NewEdwardsBasepointTable(basepoint)

// ScalarBaseMult returns [s]B, where B is the standard Ed25519 generator.
func ScalarBaseMult(s scalar.Scalar) EdwardsPoint {
	return basepointTable.Mul(s)
}

// ScalarMult returns [s]p, computed in constant time with respect to both s
// and p using a signed radix-16 digit expansion and an 8-entry windowed
// lookup table built from p, following the teacher's ScalarMul.
func ScalarMult(s scalar.Scalar, p EdwardsPoint) EdwardsPoint {
	table := newProjectiveLookupTable(p)
	digits := s.SignedRadix16()

	acc := Identity()
	for i := 63; i >= 0; i-- {
		acc = MultBy16(acc)
		t := table.selectPoint(digits[i])
		acc = fromCompleted(addProjectiveNiels(acc, t))
	}
	return acc
}

// ScalarMult returns [s]v.
func (v EdwardsPoint) ScalarMult(s scalar.Scalar) EdwardsPoint { return ScalarMult(s, v) }

// VartimeDoubleScalarBaseMult returns [a]A + [b]B, where B is the standard
// Ed25519 generator, computed in variable time via non-adjacent-form digit
// expansions. This is the workhorse of Ed25519 signature verification, where
// a and b are derived from public data and need not be processed in
// constant time.
func VartimeDoubleScalarBaseMult(a scalar.Scalar, A EdwardsPoint, b scalar.Scalar) EdwardsPoint {
	aNaf := a.NonAdjacentForm(5)
	bNaf := b.NonAdjacentForm(8)

	tableA := newNafLookupTable5(A)

	i := 255
	for ; i >= 0; i-- {
		if aNaf[i] != 0 || bNaf[i] != 0 {
			break
		}
	}

	acc := Identity()
	for ; i >= 0; i-- {
		acc = Double(acc)
		if aNaf[i] > 0 {
			acc = fromCompleted(addProjectiveNiels(acc, tableA.selectPoint(aNaf[i])))
		} else if aNaf[i] < 0 {
			acc = fromCompleted(subProjectiveNiels(acc, tableA.selectPoint(-aNaf[i])))
		}
		if bNaf[i] > 0 {
			acc = fromCompleted(addAffineNiels(acc, nafBasepointTable.selectPoint(bNaf[i])))
		} else if bNaf[i] < 0 {
			acc = fromCompleted(subAffineNiels(acc, nafBasepointTable.selectPoint(-bNaf[i])))
		}
	}
	return acc
}

// nafBasepointTable is the width-8 NAF table for the standard generator,
// shared by every VartimeDoubleScalarBaseMult call.
var nafBasepointTable = newNafLookupTable8(basepoint)
