// Copyright (c) 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edwards25519

import (
	"encoding/hex"
	"errors"

	"go.curvekit.dev/edwards25519/field"
	"go.curvekit.dev/edwards25519/scalar"
)

// ErrInvalidEncoding is returned when a byte string does not decode to a
// valid point encoding.
var ErrInvalidEncoding = errors.New("edwards25519: invalid point encoding")

// ErrInvalidRepresentation is returned by SetExtendedCoordinates when the
// supplied (X, Y, Z, T) have Z = 0 or do not satisfy the curve equation.
var ErrInvalidRepresentation = errors.New("edwards25519: invalid point coordinates")

func hx(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("edwards25519: invalid constant: " + err.Error())
	}
	return b
}

func fe(s string) field.Element {
	v, err := field.FromBytes(hx(s))
	if err != nil {
		panic("edwards25519: invalid constant: " + err.Error())
	}
	return v
}

// d is the curve equation constant -121665/121666 mod p, and d2 is 2d,
// precomputed because every addition formula below uses 2d rather than d.
var (
	dConst  = fe("a3785913ca4deb75abd841414d0a700098e879777940c78c73fe6f2bee6c0352")
	d2Const = fe("59f1b226949bd6eb56b183829a14e00030d1f3eef2808e19e7fcdf56dcd90624")
)

// EdwardsPoint is a point on the twisted Edwards curve, held in extended
// projective coordinates (X : Y : Z : T) with x = X/Z, y = Y/Z, xy = T/Z.
type EdwardsPoint struct {
	X, Y, Z, T field.Element
}

// projectivePoint holds (X : Y : Z) with x = X/Z, y = Y/Z; it omits T and is
// the cheapest form to double into.
type projectivePoint struct {
	X, Y, Z field.Element
}

// completedPoint is the result of an addition or doubling formula before it
// has been lowered into one of the other coordinate systems; P1×P1 in the
// literature.
type completedPoint struct {
	X, Y, Z, T field.Element
}

// projectiveNielsPoint holds (Y+X : Y-X : Z : 2dT), the precomputed form
// that makes mixed addition against an EdwardsPoint cheap.
type projectiveNielsPoint struct {
	YPlusX, YMinusX, Z, T2D field.Element
}

// affineNielsPoint is a projectiveNielsPoint with Z implicitly 1, used for
// fixed-base tables where the table entries can be precomputed in affine form.
type affineNielsPoint struct {
	YPlusX, YMinusX, T2D field.Element
}

// Identity is the identity element (0, 1).
func Identity() EdwardsPoint {
	return EdwardsPoint{X: field.Zero(), Y: field.One(), Z: field.One(), T: field.Zero()}
}

// basepoint is the standard Ed25519 generator.
var basepoint = EdwardsPoint{
	X: fe("1ad5258f602d56c9b2a7259560c72c695cdcd6fd31e2a4c0fe536ecdd3366921"),
	Y: fe("5866666666666666666666666666666666666666666666666666666666666666"),
	Z: field.One(),
	T: fe("a3ddb7a5b38ade6df5525177809ff0207de3ab648e4eea6665768bd70f5f8767"),
}

// Basepoint returns the standard Ed25519 generator.
func Basepoint() EdwardsPoint { return basepoint }

// --- conversions between coordinate systems ---

func toProjective(p EdwardsPoint) projectivePoint {
	return projectivePoint{X: p.X, Y: p.Y, Z: p.Z}
}

func fromCompleted(c completedPoint) EdwardsPoint {
	return EdwardsPoint{
		X: field.Multiply(c.X, c.T),
		Y: field.Multiply(c.Y, c.Z),
		Z: field.Multiply(c.Z, c.T),
		T: field.Multiply(c.X, c.Y),
	}
}

func toProjectiveNiels(p EdwardsPoint) projectiveNielsPoint {
	return projectiveNielsPoint{
		YPlusX:  field.Add(p.Y, p.X),
		YMinusX: field.Subtract(p.Y, p.X),
		Z:       p.Z,
		T2D:     field.Multiply(p.T, d2Const),
	}
}

func toAffineNiels(p EdwardsPoint) affineNielsPoint {
	invZ := field.Invert(p.Z)
	x := field.Multiply(p.X, invZ)
	y := field.Multiply(p.Y, invZ)
	t2d := field.Multiply(field.Multiply(p.T, invZ), d2Const)
	return affineNielsPoint{
		YPlusX:  field.Add(y, x),
		YMinusX: field.Subtract(y, x),
		T2D:     t2d,
	}
}

// --- addition, subtraction, doubling ---

// addProjectiveNiels is the core (p + q) -> completedPoint formula, shared by
// Add and Subtract (subtraction is addition against a sign-flipped operand).
func addProjectiveNiels(p EdwardsPoint, q projectiveNielsPoint) completedPoint {
	YPlusX := field.Add(p.Y, p.X)
	YMinusX := field.Subtract(p.Y, p.X)

	PP := field.Multiply(YPlusX, q.YPlusX)
	MM := field.Multiply(YMinusX, q.YMinusX)
	TT2D := field.Multiply(p.T, q.T2D)
	ZZ2 := field.Multiply(p.Z, q.Z)
	ZZ2 = field.Add(ZZ2, ZZ2)

	return completedPoint{
		X: field.Subtract(PP, MM),
		Y: field.Add(PP, MM),
		Z: field.Add(ZZ2, TT2D),
		T: field.Subtract(ZZ2, TT2D),
	}
}

func subProjectiveNiels(p EdwardsPoint, q projectiveNielsPoint) completedPoint {
	YPlusX := field.Add(p.Y, p.X)
	YMinusX := field.Subtract(p.Y, p.X)

	PP := field.Multiply(YPlusX, q.YMinusX)
	MM := field.Multiply(YMinusX, q.YPlusX)
	TT2D := field.Multiply(p.T, q.T2D)
	ZZ2 := field.Multiply(p.Z, q.Z)
	ZZ2 = field.Add(ZZ2, ZZ2)

	return completedPoint{
		X: field.Subtract(PP, MM),
		Y: field.Add(PP, MM),
		Z: field.Subtract(ZZ2, TT2D),
		T: field.Add(ZZ2, TT2D),
	}
}

func addAffineNiels(p EdwardsPoint, q affineNielsPoint) completedPoint {
	YPlusX := field.Add(p.Y, p.X)
	YMinusX := field.Subtract(p.Y, p.X)

	PP := field.Multiply(YPlusX, q.YPlusX)
	MM := field.Multiply(YMinusX, q.YMinusX)
	TT2D := field.Multiply(p.T, q.T2D)
	Z2 := field.Add(p.Z, p.Z)

	return completedPoint{
		X: field.Subtract(PP, MM),
		Y: field.Add(PP, MM),
		Z: field.Add(Z2, TT2D),
		T: field.Subtract(Z2, TT2D),
	}
}

func subAffineNiels(p EdwardsPoint, q affineNielsPoint) completedPoint {
	YPlusX := field.Add(p.Y, p.X)
	YMinusX := field.Subtract(p.Y, p.X)

	PP := field.Multiply(YPlusX, q.YMinusX)
	MM := field.Multiply(YMinusX, q.YPlusX)
	TT2D := field.Multiply(p.T, q.T2D)
	Z2 := field.Add(p.Z, p.Z)

	return completedPoint{
		X: field.Subtract(PP, MM),
		Y: field.Add(PP, MM),
		Z: field.Subtract(Z2, TT2D),
		T: field.Add(Z2, TT2D),
	}
}

func doubleProjective(p projectivePoint) completedPoint {
	XX := field.Square(p.X)
	YY := field.Square(p.Y)
	ZZ2 := field.SquareAndDouble(p.Z)
	XPlusYSq := field.Square(field.Add(p.X, p.Y))

	Y3 := field.Add(YY, XX)
	Z3 := field.Subtract(YY, XX)

	return completedPoint{
		X: field.Subtract(XPlusYSq, Y3),
		Y: Y3,
		Z: Z3,
		T: field.Subtract(ZZ2, Z3),
	}
}

// Add returns p + q.
func Add(p, q EdwardsPoint) EdwardsPoint {
	return fromCompleted(addProjectiveNiels(p, toProjectiveNiels(q)))
}

// Add returns v + a.
func (v EdwardsPoint) Add(a EdwardsPoint) EdwardsPoint { return Add(v, a) }

// Subtract returns p - q.
func Subtract(p, q EdwardsPoint) EdwardsPoint {
	return fromCompleted(subProjectiveNiels(p, toProjectiveNiels(q)))
}

// Subtract returns v - a.
func (v EdwardsPoint) Subtract(a EdwardsPoint) EdwardsPoint { return Subtract(v, a) }

// Double returns p + p, using the dedicated doubling formula.
func Double(p EdwardsPoint) EdwardsPoint {
	return fromCompleted(doubleProjective(toProjective(p)))
}

// Double returns v + v.
func (v EdwardsPoint) Double() EdwardsPoint { return Double(v) }

// Negate returns -p.
func Negate(p EdwardsPoint) EdwardsPoint {
	return EdwardsPoint{X: field.Negate(p.X), Y: p.Y, Z: p.Z, T: field.Negate(p.T)}
}

// Negate returns -v.
func (v EdwardsPoint) Negate() EdwardsPoint { return Negate(v) }

// Equal returns 1 if p == q as group elements, and 0 otherwise. Equality is
// tested by cross-multiplying the projective coordinates rather than
// requiring a shared Z, following the approach from
// https://github.com/dalek-cryptography/curve25519-dalek/pull/226.
func (v EdwardsPoint) Equal(u EdwardsPoint) int {
	t1 := field.Multiply(v.X, u.Z)
	t2 := field.Multiply(u.X, v.Z)
	t3 := field.Multiply(v.Y, u.Z)
	t4 := field.Multiply(u.Y, v.Z)
	return t1.Equal(t2) & t3.Equal(t4)
}

// Select returns a if cond == 1, and b if cond == 0.
func Select(a, b EdwardsPoint, cond int) EdwardsPoint {
	return EdwardsPoint{
		X: field.Select(a.X, b.X, cond),
		Y: field.Select(a.Y, b.Y, cond),
		Z: field.Select(a.Z, b.Z, cond),
		T: field.Select(a.T, b.T, cond),
	}
}

func selectProjectiveNiels(a, b projectiveNielsPoint, cond int) projectiveNielsPoint {
	return projectiveNielsPoint{
		YPlusX:  field.Select(a.YPlusX, b.YPlusX, cond),
		YMinusX: field.Select(a.YMinusX, b.YMinusX, cond),
		Z:       field.Select(a.Z, b.Z, cond),
		T2D:     field.Select(a.T2D, b.T2D, cond),
	}
}

func condNegProjectiveNiels(p projectiveNielsPoint, cond int) projectiveNielsPoint {
	yPlusX := field.Select(p.YMinusX, p.YPlusX, cond)
	yMinusX := field.Select(p.YPlusX, p.YMinusX, cond)
	t2d := field.Select(field.Negate(p.T2D), p.T2D, cond)
	return projectiveNielsPoint{YPlusX: yPlusX, YMinusX: yMinusX, Z: p.Z, T2D: t2d}
}

func selectAffineNiels(a, b affineNielsPoint, cond int) affineNielsPoint {
	return affineNielsPoint{
		YPlusX:  field.Select(a.YPlusX, b.YPlusX, cond),
		YMinusX: field.Select(a.YMinusX, b.YMinusX, cond),
		T2D:     field.Select(a.T2D, b.T2D, cond),
	}
}

func condNegAffineNiels(p affineNielsPoint, cond int) affineNielsPoint {
	yPlusX := field.Select(p.YMinusX, p.YPlusX, cond)
	yMinusX := field.Select(p.YPlusX, p.YMinusX, cond)
	t2d := field.Select(field.Negate(p.T2D), p.T2D, cond)
	return affineNielsPoint{YPlusX: yPlusX, YMinusX: yMinusX, T2D: t2d}
}

// --- torsion and validity predicates ---

// IsIdentity reports whether p is the identity element, in constant time.
func (v EdwardsPoint) IsIdentity() int {
	return v.Equal(Identity())
}

// EIGHT_TORSION enumerates the eight points whose order divides 8, used as a
// cofactor-clearing sanity check in tests (IsSmallOrder does not consult it). This table
// is not named in the distilled specification; it is the standard
// curve25519-dalek/ristretto reference set, reconstructed here directly from
// the curve equation.
var EIGHT_TORSION = [8]EdwardsPoint{
	{X: fe("0000000000000000000000000000000000000000000000000000000000000000"), Y: fe("0100000000000000000000000000000000000000000000000000000000000000"), Z: field.One(), T: fe("0000000000000000000000000000000000000000000000000000000000000000")},
	{X: fe("0000000000000000000000000000000000000000000000000000000000000000"), Y: fe("ecffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff7f"), Z: field.One(), T: fe("0000000000000000000000000000000000000000000000000000000000000000")},
	{X: fe("b0a00e4a271beec478e42fad0618432fa7d7fb3d99004d2b0bdfc14f8024832b"), Y: fe("0000000000000000000000000000000000000000000000000000000000000000"), Z: field.One(), T: fe("0000000000000000000000000000000000000000000000000000000000000000")},
	{X: fe("3d5ff1b5d8e4113b871bd052f9e7bcd0582804c266ffb2d4f4203eb07fdb7c54"), Y: fe("0000000000000000000000000000000000000000000000000000000000000000"), Z: field.One(), T: fe("0000000000000000000000000000000000000000000000000000000000000000")},
	{X: fe("a32eba3ab9b95e21c71d1aec8fc3e6a344b521c7cd66cc16d7b5c6f95f462a60"), Y: fe("c7176a703d4dd84fba3c0b760d10670f2a2053fa2c39ccc64ec7fd7792ac037a"), Z: field.One(), T: fe("6c788121c1daf2d2697a05328bc26645f550076d2e89cdcf14945d9f3cbb1d13")},
	{X: fe("4ad145c54646a1de38e2e513703c195cbb4ade38329933e9284a3906a0b9d51f"), Y: fe("c7176a703d4dd84fba3c0b760d10670f2a2053fa2c39ccc64ec7fd7792ac037a"), Z: field.One(), T: fe("81877ede3e250d2d9685facd743d99ba0aaff892d1763230eb6ba260c344e26c")},
	{X: fe("a32eba3ab9b95e21c71d1aec8fc3e6a344b521c7cd66cc16d7b5c6f95f462a60"), Y: fe("26e8958fc2b227b045c3f489f2ef98f0d5dfac05d3c63339b13802886d53fc05"), Z: field.One(), T: fe("81877ede3e250d2d9685facd743d99ba0aaff892d1763230eb6ba260c344e26c")},
	{X: fe("4ad145c54646a1de38e2e513703c195cbb4ade38329933e9284a3906a0b9d51f"), Y: fe("26e8958fc2b227b045c3f489f2ef98f0d5dfac05d3c63339b13802886d53fc05"), Z: field.One(), T: fe("6c788121c1daf2d2697a05328bc26645f550076d2e89cdcf14945d9f3cbb1d13")},
}

// IsSmallOrder reports whether p lies in the eight-torsion subgroup, i.e.
// whether [8]p is the identity.
func (v EdwardsPoint) IsSmallOrder() int {
	return MultByCofactor(v).IsIdentity()
}

// IsTorsionFree reports whether p generates a subgroup of the full prime
// order ℓ, i.e. whether [ℓ]p is the identity. This is the check a
// higher-level protocol should run on any untrusted point before using it in
// a cofactor-sensitive construction.
func (v EdwardsPoint) IsTorsionFree() int {
	var ellBytes = [32]byte{
		0xed, 0xd3, 0xf5, 0x5c, 0x1a, 0x63, 0x12, 0x58,
		0xd6, 0x9c, 0xf7, 0xa2, 0xde, 0xf9, 0xde, 0x14,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10,
	}
	// ℓ itself is not a canonical Scalar (Scalars represent residues mod ℓ,
	// and ℓ ≡ 0), so this deliberately goes through FromBits, which only
	// strips the sign bit, rather than FromCanonicalBytes.
	ell := scalar.FromBits(ellBytes)
	return ScalarMult(ell, v).IsIdentity()
}

// MultByCofactor returns [8]p, computed as three dedicated doublings.
func MultByCofactor(p EdwardsPoint) EdwardsPoint {
	p2 := Double(p)
	p4 := Double(p2)
	p8 := Double(p4)
	return p8
}

// MultByCofactor returns [8]v.
func (v EdwardsPoint) MultByCofactor() EdwardsPoint { return MultByCofactor(v) }

// --- encoding ---

// CompressedEdwardsY is the 32-byte compressed encoding of an EdwardsPoint:
// the y-coordinate with the sign of x folded into the encoding's top bit.
type CompressedEdwardsY [32]byte

// Compress encodes p in its canonical 32-byte form.
func (v EdwardsPoint) Compress() CompressedEdwardsY {
	invZ := field.Invert(v.Z)
	x := field.Multiply(v.X, invZ)
	y := field.Multiply(v.Y, invZ)

	var out CompressedEdwardsY
	copy(out[:], y.Bytes())
	out[31] ^= byte(x.IsNegative()) << 7
	return out
}

// Decompress decodes c into an EdwardsPoint, returning ErrInvalidEncoding if
// c is not the encoding of a point on the curve.
func (c CompressedEdwardsY) Decompress() (EdwardsPoint, error) {
	var yBytes [32]byte
	copy(yBytes[:], c[:])
	signBit := yBytes[31] >> 7
	yBytes[31] &= 0x7f

	y, err := field.FromBytes(yBytes[:])
	if err != nil {
		return EdwardsPoint{}, ErrInvalidEncoding
	}

	// x^2 = (y^2 - 1) / (d*y^2 + 1)
	yy := field.Square(y)
	u := field.Subtract(yy, field.One())
	v := field.Add(field.Multiply(dConst, yy), field.One())

	x, wasSquare := field.SqrtRatioM1(u, v)
	if wasSquare == 0 {
		return EdwardsPoint{}, ErrInvalidEncoding
	}

	negX := field.Negate(x)
	x = field.Select(negX, x, int(signBit)^x.IsNegative())

	return EdwardsPoint{X: x, Y: y, Z: field.One(), T: field.Multiply(x, y)}, nil
}

// --- hazmat coordinate escape hatch ---

// SetExtendedCoordinates builds an EdwardsPoint directly from extended
// projective coordinates, after checking that they satisfy the curve
// equation and the T = XY/Z invariant. This is the only constructor that
// accepts coordinates that did not come out of this package's own formulas,
// and is meant for interop with other point representations, not everyday
// use.
func SetExtendedCoordinates(X, Y, Z, T field.Element) (EdwardsPoint, error) {
	if Z.Equal(field.Zero()) == 1 {
		return EdwardsPoint{}, ErrInvalidRepresentation
	}
	if !isOnCurve(X, Y, Z, T) {
		return EdwardsPoint{}, ErrInvalidRepresentation
	}
	return EdwardsPoint{X: X, Y: Y, Z: Z, T: T}, nil
}

// isOnCurve checks -X^2*Z^2 + Y^2*Z^2 == Z^4 + d*X^2*Y^2 (the homogeneous
// curve equation) and T*Z == X*Y (the extended-coordinate invariant),
// grounded on extra.go's isOnCurve check in the teacher module.
func isOnCurve(X, Y, Z, T field.Element) bool {
	XX := field.Square(X)
	YY := field.Square(Y)
	ZZ := field.Square(Z)
	ZZZZ := field.Square(ZZ)

	lhs := field.Add(field.Negate(field.Multiply(XX, ZZ)), field.Multiply(YY, ZZ))
	rhs := field.Add(ZZZZ, field.Multiply(dConst, field.Multiply(XX, YY)))
	if lhs.Equal(rhs) != 1 {
		return false
	}

	return field.Multiply(T, Z).Equal(field.Multiply(X, Y)) == 1
}
