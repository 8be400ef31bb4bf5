// Copyright (c) 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edwards25519

import (
	mathrand "math/rand"
	"testing"

	"go.curvekit.dev/edwards25519/scalar"
)

func randomTerms(t *testing.T, n int) ([]scalar.Scalar, []EdwardsPoint) {
	t.Helper()
	scalars := make([]scalar.Scalar, n)
	points := make([]EdwardsPoint, n)
	var seed [64]byte
	for i := 0; i < n; i++ {
		for j := range seed {
			seed[j] = byte(i*97 + j*31 + 7)
		}
		s, err := scalar.FromBytesModOrderWide(seed[:])
		if err != nil {
			t.Fatal(err)
		}
		scalars[i] = s
		points[i] = ScalarBaseMult(s)
	}
	return scalars, points
}

func TestMultiscalarMulMatchesNaiveAcrossSizes(t *testing.T) {
	for _, n := range []int{0, 1, 2, 5, 10, 29, 30, 31, 64} {
		scalars, points := randomTerms(t, n)
		want := multiscalarMulNaive(scalars, points)
		straus := mulStraus(scalars, points)
		if straus.Equal(want) != 1 {
			t.Errorf("n=%d: mulStraus disagrees with naive sum", n)
		}
		opt := multiscalarMulOpt(scalars, points)
		if opt.Equal(want) != 1 {
			t.Errorf("n=%d: multiscalarMulOpt disagrees with naive sum", n)
		}
	}
}

func TestMulStrausMatchesMulPippenger(t *testing.T) {
	for _, n := range []int{1, 2, 29, 30, 31, 100} {
		scalars, points := randomTerms(t, n)
		straus := mulStraus(scalars, points)
		pippenger := mulPippenger(scalars, points)
		if straus.Equal(pippenger) != 1 {
			t.Errorf("n=%d: mulStraus and mulPippenger disagree", n)
		}
	}
}

func TestMultiscalarMulEmpty(t *testing.T) {
	got := MultiscalarMul(nil, nil)
	if got.Equal(Identity()) != 1 {
		t.Error("MultiscalarMul of no terms should be the identity")
	}
}

func TestMultiscalarMulPanicsOnLengthMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MultiscalarMul should panic on mismatched slice lengths")
		}
	}()
	scalars, points := randomTerms(t, 3)
	MultiscalarMul(scalars[:2], points)
}

// TestMultiscalarMulLinearity and TestMultiscalarMulAgainstScalarMult drive
// their own scalar randomness via genScalar rather than testing/quick,
// since scalar.Scalar carries no exported Generate method for quick to call
// into from another package.
func TestMultiscalarMulLinearity(t *testing.T) {
	rand := mathrand.New(mathrand.NewSource(1))
	for i := 0; i < 256; i++ {
		s := genScalar(rand)
		p := ScalarBaseMult(genScalar(rand))
		q := ScalarBaseMult(genScalar(rand))
		lhs := Add(MultiscalarMul([]scalar.Scalar{s}, []EdwardsPoint{p}), MultiscalarMul([]scalar.Scalar{s}, []EdwardsPoint{q}))
		rhs := MultiscalarMul([]scalar.Scalar{s}, []EdwardsPoint{Add(p, q)})
		if lhs.Equal(rhs) != 1 {
			t.Fatalf("iteration %d: linearity failed", i)
		}
	}
}

func TestMultiscalarMulAgainstScalarMult(t *testing.T) {
	rand := mathrand.New(mathrand.NewSource(2))
	for i := 0; i < 256; i++ {
		a := genScalar(rand)
		b := genScalar(rand)
		A := ScalarBaseMult(genScalar(rand))
		B := ScalarBaseMult(genScalar(rand))
		got := MultiscalarMul([]scalar.Scalar{a, b}, []EdwardsPoint{A, B})
		want := Add(ScalarMult(a, A), ScalarMult(b, B))
		if got.Equal(want) != 1 {
			t.Fatalf("iteration %d: MultiscalarMul disagrees with direct ScalarMult sum", i)
		}
	}
}
