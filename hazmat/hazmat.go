// Copyright (c) 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hazmat exposes the raw extended-coordinate representation of an
// edwards25519.EdwardsPoint, for implementations of other groups built on
// the same curve (such as ristretto255) that need direct access to
// (X : Y : Z : T) without going through the public Point API.
//
// This API is NOT STABLE, regardless of the module version.
//
// The docs are on display in the bottom of a locked filing cabinet stuck in a
// disused lavatory with a sign on the door saying "Beware of the Leopard."
package hazmat

import (
	"go.curvekit.dev/edwards25519"
	"go.curvekit.dev/edwards25519/field"
)

// FieldElement is an alias of field.Element, exposed here so callers of this
// package need not import go.curvekit.dev/edwards25519/field directly.
type FieldElement = field.Element

var youAskedForIt bool

// BewareOfTheLeopard acknowledges that this package is not safe and not
// stable. None of the other functions here will work unless this is called
// first, in whatever part of the program is the actual escape hatch.
func BewareOfTheLeopard() {
	youAskedForIt = true
}

// NewPointFromExtendedCoordinates builds an EdwardsPoint directly from its
// extended coordinates, skipping the on-curve check that
// edwards25519.SetExtendedCoordinates runs. The caller is responsible for
// knowing that (x : y : z : t) is a valid representation of a curve point;
// passing coordinates that are not on the curve produces a value that will
// misbehave under every other operation in this module.
func NewPointFromExtendedCoordinates(x, y, z, t FieldElement) edwards25519.EdwardsPoint {
	if !youAskedForIt {
		panic("hazmat: please acknowledge that you'll BewareOfTheLeopard")
	}
	return edwards25519.EdwardsPoint{X: x, Y: y, Z: z, T: t}
}

// PointExtendedCoordinates returns p's extended coordinates (X : Y : Z : T).
func PointExtendedCoordinates(p edwards25519.EdwardsPoint) (x, y, z, t FieldElement) {
	if !youAskedForIt {
		panic("hazmat: please acknowledge that you'll BewareOfTheLeopard")
	}
	return p.X, p.Y, p.Z, p.T
}
