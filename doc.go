// Copyright (c) 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package edwards25519 implements the group logic for the twisted Edwards
// curve
//
//	-x^2 + y^2 = 1 + -(121665/121666)*x^2*y^2
//
// (the curve underlying the Ed25519 signature scheme) and, on top of it,
// the ristretto255 prime-order group obtained by quotienting out the
// curve's four-torsion subgroup.
//
// Three coordinate-free, immutable value types sit at the top of the
// surface: EdwardsPoint, the curve group itself, in extended projective
// coordinates; RistrettoElement, a point's ristretto255 equivalence class,
// which must always be compared with Equal rather than by its
// representative coordinates; and CompressedEdwardsY /
// CompressedRistretto, their respective canonical 32-byte encodings.
// Scalars acting on either group live in the go.curvekit.dev/edwards25519/scalar
// package, and the underlying field arithmetic lives in
// go.curvekit.dev/edwards25519/field; both are split out because they have no
// dependency on point arithmetic and are independently testable.
//
// Every operation returns a newly computed value rather than mutating its
// receiver or arguments, and every field, scalar, and point operation is a
// pure function of its inputs: there is no package-level state to
// configure, no I/O, and nothing that needs to run before first use beyond
// ordinary Go initialization.
//
// MultiscalarMul, mulStraus, and mulPippenger compute sums of the form
// Σ sᵢ·Pᵢ, choosing between Straus's simultaneous method and Pippenger's
// bucket method by input size; both are variable-time and must not be used
// with secret scalars.
//
// The go.curvekit.dev/edwards25519/hazmat package exposes EdwardsPoint's raw
// extended coordinates for implementers of other groups built on this
// curve; ordinary callers of this package should never need it.
package edwards25519
