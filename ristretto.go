// Copyright (c) 2019 Henry de Valence. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edwards25519

import (
	"go.curvekit.dev/edwards25519/field"
	"go.curvekit.dev/edwards25519/scalar"
)

// RistrettoElement is an element of the ristretto255 prime-order group built
// as a quotient of the edwards25519 curve group by its four-torsion
// subgroup. It wraps an EdwardsPoint representative, but multiple
// representatives encode the same RistrettoElement: use Equal, never
// compare representatives directly.
type RistrettoElement struct {
	repr EdwardsPoint
}

var (
	sqrtM1Const         = fe("b0a00e4a271beec478e42fad0618432fa7d7fb3d99004d2b0bdfc14f8024832b")
	sqrtADMinusOneConst = fe("1b2e7b49a0f6977ebd54781b0c8e9daffdd1f531c9fc3c0fac48832bbf316937")
	invSqrtAMinusDConst = fe("ea405d80aafdc899be72415a17162f9d40d801fe917bc216a2fcafcf05896c78")
	oneMinusDSQConst    = fe("76c15f94c1097ce20f355ecd38a1812ce4df70beddab9499d7e0b3b2a8729002")
	dMinusOneSQConst    = fe("204ded44aa5aad3199191eb02c4a9ed2eb4e9b522fd3dc4c41226cf67ab36859")
)

// RistrettoIdentity is the identity element of the ristretto255 group.
func RistrettoIdentity() RistrettoElement {
	return RistrettoElement{repr: Identity()}
}

// RistrettoBasepoint returns the standard ristretto255 generator, the image
// of the Ed25519 basepoint under the quotient map.
func RistrettoBasepoint() RistrettoElement {
	return RistrettoElement{repr: basepoint}
}

// RistrettoAdd returns p + q.
func RistrettoAdd(p, q RistrettoElement) RistrettoElement {
	return RistrettoElement{repr: Add(p.repr, q.repr)}
}

// Add returns v + a.
func (v RistrettoElement) Add(a RistrettoElement) RistrettoElement { return RistrettoAdd(v, a) }

// RistrettoSubtract returns p - q.
func RistrettoSubtract(p, q RistrettoElement) RistrettoElement {
	return RistrettoElement{repr: Subtract(p.repr, q.repr)}
}

// Subtract returns v - a.
func (v RistrettoElement) Subtract(a RistrettoElement) RistrettoElement {
	return RistrettoSubtract(v, a)
}

// RistrettoNegate returns -p.
func RistrettoNegate(p RistrettoElement) RistrettoElement {
	return RistrettoElement{repr: Negate(p.repr)}
}

// Negate returns -v.
func (v RistrettoElement) Negate() RistrettoElement { return RistrettoNegate(v) }

// Double returns v + v.
func (v RistrettoElement) Double() RistrettoElement { return RistrettoElement{repr: Double(v.repr)} }

// RistrettoScalarMult returns [s]p.
func RistrettoScalarMult(s scalar.Scalar, p RistrettoElement) RistrettoElement {
	return RistrettoElement{repr: ScalarMult(s, p.repr)}
}

// ScalarMult returns [s]v.
func (v RistrettoElement) ScalarMult(s scalar.Scalar) RistrettoElement {
	return RistrettoScalarMult(s, v)
}

// RistrettoScalarBaseMult returns [s]B, where B is the standard ristretto255
// generator.
func RistrettoScalarBaseMult(s scalar.Scalar) RistrettoElement {
	return RistrettoElement{repr: ScalarBaseMult(s)}
}

// Equal returns 1 if v and u represent the same ristretto255 group element,
// and 0 otherwise. This is the cross-multiplication shortcut from the
// ristretto255 draft: it holds regardless of which extended-coordinate
// representative each side carries, and never needs to normalize by Z.
func (v RistrettoElement) Equal(u RistrettoElement) int {
	X1, Y1 := v.repr.X, v.repr.Y
	X2, Y2 := u.repr.X, u.repr.Y

	X1Y2 := field.Multiply(X1, Y2)
	Y1X2 := field.Multiply(Y1, X2)
	Y1Y2 := field.Multiply(Y1, Y2)
	X1X2 := field.Multiply(X1, X2)

	return X1Y2.Equal(Y1X2) | Y1Y2.Equal(X1X2)
}

// IsIdentity reports whether v is the ristretto255 identity element.
func (v RistrettoElement) IsIdentity() int {
	return v.Equal(RistrettoIdentity())
}

// CompressedRistretto is the 32-byte canonical encoding of a RistrettoElement.
type CompressedRistretto [32]byte

// Compress encodes v in its canonical 32-byte form, following the dalek
// compress algorithm: pick the canonical extended-coordinate representative
// of v's equivalence class, then encode its s value.
func (v RistrettoElement) Compress() CompressedRistretto {
	X, Y, Z, T := v.repr.X, v.repr.Y, v.repr.Z, v.repr.T

	u1 := field.Multiply(field.Add(Z, Y), field.Subtract(Z, Y))
	u2 := field.Multiply(X, Y)
	invsqrt, _ := field.SqrtRatioM1(field.One(), field.Multiply(u1, field.Square(u2)))

	i1 := field.Multiply(invsqrt, u1)
	i2 := field.Multiply(invsqrt, u2)
	zInv := field.Multiply(i1, field.Multiply(i2, T))
	denInv := i2

	iX := field.Multiply(X, sqrtM1Const)
	iY := field.Multiply(Y, sqrtM1Const)
	enchantedDenominator := field.Multiply(i1, invSqrtAMinusDConst)

	rotate := field.Multiply(T, zInv).IsNegative()

	X = field.Select(iY, X, rotate)
	Y = field.Select(iX, Y, rotate)
	denInv = field.Select(enchantedDenominator, denInv, rotate)

	Y = field.Select(field.Negate(Y), Y, field.Multiply(X, zInv).IsNegative())

	s := field.Multiply(denInv, field.Subtract(Z, Y))
	s = field.Absolute(s)

	var out CompressedRistretto
	copy(out[:], s.Bytes())
	return out
}

// Decompress decodes c into a RistrettoElement, returning
// ErrInvalidEncoding if c is not the canonical encoding of a group element.
func (c CompressedRistretto) Decompress() (RistrettoElement, error) {
	s, err := field.FromBytes(c[:])
	if err != nil {
		return RistrettoElement{}, ErrInvalidEncoding
	}
	// Reject non-canonical encodings and negative s.
	if !equalBytes(s.Bytes(), c[:]) || s.IsNegative() == 1 {
		return RistrettoElement{}, ErrInvalidEncoding
	}

	one := field.One()
	ss := field.Square(s)
	u1 := field.Subtract(one, ss)
	u2 := field.Add(one, ss)
	u2Sq := field.Square(u2)

	v := field.Subtract(field.Negate(field.Multiply(dConst, field.Square(u1))), u2Sq)

	invSqrt, wasSquare := field.SqrtRatioM1(one, field.Multiply(v, u2Sq))
	if wasSquare == 0 {
		return RistrettoElement{}, ErrInvalidEncoding
	}

	Dx := field.Multiply(invSqrt, u2)
	Dy := field.Multiply(field.Multiply(invSqrt, Dx), v)

	x := field.Multiply(field.Add(s, s), Dx)
	x = field.Absolute(x)

	y := field.Multiply(u1, Dy)
	t := field.Multiply(x, y)

	if t.IsNegative() == 1 || y.Equal(field.Zero()) == 1 {
		return RistrettoElement{}, ErrInvalidEncoding
	}

	return RistrettoElement{repr: EdwardsPoint{X: x, Y: y, Z: one, T: t}}, nil
}

func equalBytes(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// mapToPoint implements the Elligator2-for-Ristretto hash function used by
// RistrettoFromUniformBytes, grounded on the gtank/ristretto255 port's mapToPoint.
func mapToPoint(t field.Element) EdwardsPoint {
	r := field.Multiply(field.Square(t), sqrtM1Const)

	one := field.One()
	minusOne := field.Negate(one)

	u := field.Multiply(field.Add(r, one), oneMinusDSQConst)

	rPlusD := field.Add(r, dConst)
	v := field.Multiply(r, dConst)
	v = field.Subtract(minusOne, v)
	v = field.Multiply(v, rPlusD)

	s, wasSquare := field.SqrtRatioM1(u, v)
	sPrime := field.Multiply(s, t)
	sPrime = field.Absolute(sPrime)
	sPrime = field.Negate(sPrime)

	s = field.Select(s, sPrime, wasSquare)
	c := field.Select(minusOne, r, wasSquare)

	N := field.Subtract(r, one)
	N = field.Multiply(N, c)
	N = field.Multiply(N, dMinusOneSQConst)
	N = field.Subtract(N, v)

	sSquare := field.Square(s)

	w0 := field.Multiply(s, v)
	w0 = field.Add(w0, w0)
	w1 := field.Multiply(N, sqrtADMinusOneConst)
	w2 := field.Subtract(one, sSquare)
	w3 := field.Add(one, sSquare)

	return EdwardsPoint{
		X: field.Multiply(w0, w3),
		Y: field.Multiply(w2, w1),
		Z: field.Multiply(w1, w3),
		T: field.Multiply(w0, w2),
	}
}

// RistrettoFromUniformBytes maps a uniformly random 64-byte input to a
// uniformly distributed RistrettoElement, suitable for hash-to-group use.
func RistrettoFromUniformBytes(b []byte) (RistrettoElement, error) {
	if len(b) != 64 {
		return RistrettoElement{}, ErrInvalidEncoding
	}

	f1, err := field.FromBytes(b[0:32])
	if err != nil {
		return RistrettoElement{}, ErrInvalidEncoding
	}
	f2, err := field.FromBytes(b[32:64])
	if err != nil {
		return RistrettoElement{}, ErrInvalidEncoding
	}

	p1 := mapToPoint(f1)
	p2 := mapToPoint(f2)

	return RistrettoElement{repr: Add(p1, p2)}, nil
}
