// Copyright (c) 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edwards25519

import (
	mathrand "math/rand"
	"reflect"
	"testing"
	"testing/quick"

	"go.curvekit.dev/edwards25519/field"
	"go.curvekit.dev/edwards25519/scalar"
)

var quickCheckConfig1024 = &quick.Config{MaxCountScale: 1 << 10}

func checkOnCurve(t *testing.T, points ...EdwardsPoint) {
	t.Helper()
	for i, p := range points {
		if !isOnCurve(p.X, p.Y, p.Z, p.T) {
			t.Errorf("point %d is not on the curve: X=%v Y=%v Z=%v T=%v", i, p.X, p.Y, p.Z, p.T)
		}
	}
}

// genScalar builds a uniformly distributed Scalar from 64 random bytes via
// the public wide-reduction constructor, since scalar.Scalar carries no
// exported random generator outside its own test files.
func genScalar(rand *mathrand.Rand) scalar.Scalar {
	var wide [64]byte
	rand.Read(wide[:])
	s, err := scalar.FromBytesModOrderWide(wide[:])
	if err != nil {
		panic(err)
	}
	return s
}

func (EdwardsPoint) Generate(rand *mathrand.Rand, size int) reflect.Value {
	return reflect.ValueOf(ScalarMult(genScalar(rand), basepoint))
}

func TestIdentityIsOnCurve(t *testing.T) {
	checkOnCurve(t, Identity())
}

func TestBasepointIsOnCurve(t *testing.T) {
	checkOnCurve(t, Basepoint())
}

func TestAddSubNegOnBasepoint(t *testing.T) {
	B := Basepoint()
	Bneg := Negate(B)
	checkOnCurve(t, B, Bneg)

	sum := Add(B, B)
	dbl := Double(B)
	checkOnCurve(t, sum, dbl)
	if sum.Equal(dbl) != 1 {
		t.Error("B+B != 2*B")
	}

	zero := Add(B, Bneg)
	checkOnCurve(t, zero)
	if zero.Equal(Identity()) != 1 {
		t.Error("B + (-B) != identity")
	}

	diff := Subtract(B, B)
	if diff.Equal(Identity()) != 1 {
		t.Error("B - B != identity")
	}
}

func TestAddCommutesAndAssociates(t *testing.T) {
	f := func(a, b, c EdwardsPoint) bool {
		checkOnCurve(t, a, b, c)
		commute := Add(a, b).Equal(Add(b, a)) == 1
		lhs := Add(Add(a, b), c)
		rhs := Add(a, Add(b, c))
		assoc := lhs.Equal(rhs) == 1
		return commute && assoc
	}
	if err := quick.Check(f, quickCheckConfig1024); err != nil {
		t.Error(err)
	}
}

func TestEqualIsScaleInvariant(t *testing.T) {
	f := func(p EdwardsPoint, scaleBytes [32]byte) bool {
		scaleBytes[31] &= 0x7f
		nz, err := field.FromBytes(scaleBytes[:])
		if err != nil || nz.Equal(field.Zero()) == 1 {
			return true
		}
		scaled := EdwardsPoint{
			X: field.Multiply(p.X, nz),
			Y: field.Multiply(p.Y, nz),
			Z: field.Multiply(p.Z, nz),
			T: field.Multiply(p.T, nz),
		}
		return p.Equal(p) == 1 && p.Equal(scaled) == 1
	}
	if err := quick.Check(f, quickCheckConfig1024); err != nil {
		t.Error(err)
	}
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	f := func(p EdwardsPoint) bool {
		enc := p.Compress()
		out, err := enc.Decompress()
		if err != nil {
			return false
		}
		checkOnCurve(t, out)
		return out.Equal(p) == 1
	}
	if err := quick.Check(f, quickCheckConfig1024); err != nil {
		t.Error(err)
	}
}

func TestDecompressRejectsNonSquare(t *testing.T) {
	// y=2 has no corresponding x on the curve: (y²-1)/(d*y²+1) must be a
	// nonzero square for a valid encoding.
	var enc CompressedEdwardsY
	two := field.Add(field.One(), field.One())
	copy(enc[:], two.Bytes())
	if _, err := enc.Decompress(); err == nil {
		t.Error("Decompress accepted an encoding with no valid x")
	}
}

func TestEightTorsionAreSmallOrder(t *testing.T) {
	for i, p := range EIGHT_TORSION {
		checkOnCurve(t, p)
		if p.IsSmallOrder() != 1 {
			t.Errorf("EIGHT_TORSION[%d] is not small order", i)
		}
	}
}

func TestEightTorsionDistinct(t *testing.T) {
	for i := range EIGHT_TORSION {
		for j := range EIGHT_TORSION {
			if i == j {
				continue
			}
			if EIGHT_TORSION[i].Equal(EIGHT_TORSION[j]) == 1 {
				t.Errorf("EIGHT_TORSION[%d] == EIGHT_TORSION[%d]", i, j)
			}
		}
	}
}

func TestBasepointIsTorsionFree(t *testing.T) {
	if Basepoint().IsTorsionFree() != 1 {
		t.Error("the Ed25519 basepoint should be torsion-free")
	}
}

func TestEightTorsionIsNotTorsionFree(t *testing.T) {
	for i, p := range EIGHT_TORSION {
		if p.Equal(Identity()) == 1 {
			continue
		}
		if p.IsTorsionFree() == 1 {
			t.Errorf("EIGHT_TORSION[%d] should not be torsion-free", i)
		}
	}
}

func TestScalarMultMatchesRepeatedAddition(t *testing.T) {
	B := Basepoint()
	acc := Identity()
	for k := 0; k < 32; k++ {
		var buf [32]byte
		buf[0] = byte(k)
		s, err := scalar.FromCanonicalBytes(buf[:])
		if err != nil {
			t.Fatal(err)
		}
		got := ScalarMult(s, B)
		if got.Equal(acc) != 1 {
			t.Errorf("ScalarMult(%d, B) != %d*B by repeated addition", k, k)
		}
		acc = Add(acc, B)
	}
}

func TestScalarBaseMultMatchesScalarMult(t *testing.T) {
	f := func(seed [64]byte) bool {
		s, err := scalar.FromBytesModOrderWide(seed[:])
		if err != nil {
			return false
		}
		return ScalarBaseMult(s).Equal(ScalarMult(s, Basepoint())) == 1
	}
	if err := quick.Check(f, quickCheckConfig1024); err != nil {
		t.Error(err)
	}
}

func TestVartimeDoubleScalarBaseMultAgainstScalarMult(t *testing.T) {
	f := func(seedA, seedB [64]byte, A EdwardsPoint) bool {
		checkOnCurve(t, A)
		a, err := scalar.FromBytesModOrderWide(seedA[:])
		if err != nil {
			return false
		}
		b, err := scalar.FromBytesModOrderWide(seedB[:])
		if err != nil {
			return false
		}
		got := VartimeDoubleScalarBaseMult(a, A, b)
		want := Add(ScalarMult(a, A), ScalarMult(b, Basepoint()))
		return got.Equal(want) == 1
	}
	if err := quick.Check(f, quickCheckConfig1024); err != nil {
		t.Error(err)
	}
}

func TestMultByCofactorMatchesThreeDoublings(t *testing.T) {
	f := func(p EdwardsPoint) bool {
		want := Double(Double(Double(p)))
		return MultByCofactor(p).Equal(want) == 1
	}
	if err := quick.Check(f, quickCheckConfig1024); err != nil {
		t.Error(err)
	}
}

func TestSetExtendedCoordinatesRejectsOffCurve(t *testing.T) {
	bad := field.Add(field.One(), field.One())
	if _, err := SetExtendedCoordinates(bad, bad, field.One(), bad); err == nil {
		t.Error("SetExtendedCoordinates accepted a point not on the curve")
	}
}

func TestSetExtendedCoordinatesAcceptsValidPoint(t *testing.T) {
	B := Basepoint()
	p, err := SetExtendedCoordinates(B.X, B.Y, B.Z, B.T)
	if err != nil {
		t.Fatal(err)
	}
	if p.Equal(B) != 1 {
		t.Error("round-tripped basepoint coordinates do not match")
	}
}
