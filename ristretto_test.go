// Copyright (c) 2019 Henry de Valence. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edwards25519

import (
	mathrand "math/rand"
	"reflect"
	"testing"
	"testing/quick"

	"go.curvekit.dev/edwards25519/scalar"
)

// multiplesOfBasepoint holds the canonical CompressedRistretto encodings of
// [i]B for i = 0..15, the standard ristretto255 known-answer-test vectors.
var multiplesOfBasepoint = [16]string{
	"0000000000000000000000000000000000000000000000000000000000000000",
	"e2f2ae0a6abc4e71a884a961c500515f58e30b6aa582dd8db6a65945e08d2d76",
	"6a493210f7499cd17fecb510ae0cea23a110e8d5b901f8acadd3095c73a3b919",
	"94741f5d5d52755ece4f23f044ee27d5d1ea1e2bd196b462166b16152a9d0259",
	"da80862773358b466ffadfe0b3293ab3d9fd53c5ea6c955358f568322daf6a57",
	"e882b131016b52c1d3337080187cf768423efccbb517bb495ab812c4160ff44e",
	"f64746d3c92b13050ed8d80236a7f0007c3b3f962f5ba793d19a601ebb1df403",
	"44f53520926ec81fbd5a387845beb7df85a96a24ece18738bdcfa6a7822a176d",
	"903293d8f2287ebe10e2374dc1a53e0bc887e592699f02d077d5263cdd55601c",
	"02622ace8f7303a31cafc63f8fc48fdc16e1c8c8d234b2f0d6685282a9076031",
	"20706fd788b2720a1ed2a5dad4952b01f413bcf0e7564de8cdc816689e2db95f",
	"bce83f8ba5dd2fa572864c24ba1810f9522bc6004afe95877ac73241cafdab42",
	"e4549ee16b9aa03099ca208c67adafcafa4c3f3e4e5303de6026e3ca8ff84460",
	"aa52e000df2e16f55fb1032fc33bc42742dad6bd5a8fc0be0167436c5948501f",
	"46376b80f409b29dc2b5f6f0c52591990896e5716f41477cd30085ab7f10301e",
	"e0c418f7c8d9c4cdd7395b93ea124f3ad99021bb681dfc3302a9d99a2e53e64e",
}

func mustDecodeRistretto(t *testing.T, hexStr string) CompressedRistretto {
	t.Helper()
	var out CompressedRistretto
	copy(out[:], hx(hexStr))
	return out
}

func TestRistrettoKnownMultiplesOfBasepoint(t *testing.T) {
	acc := RistrettoIdentity()
	B := RistrettoBasepoint()
	for i, want := range multiplesOfBasepoint {
		got := acc.Compress()
		wantBytes := mustDecodeRistretto(t, want)
		if got != wantBytes {
			t.Errorf("[%d]B: got %x, want %x", i, got, wantBytes)
		}
		acc = acc.Add(B)
	}
}

func TestRistrettoDecodeIdentity(t *testing.T) {
	var zero CompressedRistretto
	p, err := zero.Decompress()
	if err != nil {
		t.Fatal(err)
	}
	if p.IsIdentity() != 1 {
		t.Error("decoding all-zero bytes should yield the identity")
	}
}

func TestRistrettoRejectsNonCanonicalAndNegative(t *testing.T) {
	// p itself, encoded as 32 little-endian bytes: not canonical (>= p).
	var nonCanonical CompressedRistretto
	copy(nonCanonical[:], hx("edffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff7f"))
	if _, err := nonCanonical.Decompress(); err == nil {
		t.Error("Decompress accepted a non-canonical encoding of p")
	}

	// The basepoint encoding with its low bit flipped is a negative s value.
	negative := mustDecodeRistretto(t, multiplesOfBasepoint[1])
	negative[0] ^= 1
	if _, err := negative.Decompress(); err == nil {
		t.Error("Decompress accepted an encoding with negative s")
	}
}

func (RistrettoElement) Generate(rand *mathrand.Rand, size int) reflect.Value {
	var b [64]byte
	rand.Read(b[:])
	p, err := RistrettoFromUniformBytes(b[:])
	if err != nil {
		panic(err)
	}
	return reflect.ValueOf(p)
}

func TestRistrettoCompressDecompressRoundTrip(t *testing.T) {
	f := func(p RistrettoElement) bool {
		enc := p.Compress()
		out, err := enc.Decompress()
		if err != nil {
			return false
		}
		return out.Equal(p) == 1
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestRistrettoEqualIsReflexive(t *testing.T) {
	f := func(p, q RistrettoElement) bool {
		return p.Equal(p) == 1 && q.Equal(q) == 1
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestRistrettoAddSubNeg(t *testing.T) {
	f := func(p, q RistrettoElement) bool {
		sum := p.Add(q)
		back := sum.Subtract(q)
		return back.Equal(p) == 1 && p.Add(p.Negate()).IsIdentity() == 1
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestRistrettoScalarMultLinearity(t *testing.T) {
	f := func(seed [64]byte, p, q RistrettoElement) bool {
		s, err := scalar.FromBytesModOrderWide(seed[:])
		if err != nil {
			return false
		}
		lhs := p.ScalarMult(s).Add(q.ScalarMult(s))
		rhs := p.Add(q).ScalarMult(s)
		return lhs.Equal(rhs) == 1
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestRistrettoScalarBaseMultMatchesScalarMult(t *testing.T) {
	f := func(seed [64]byte) bool {
		s, err := scalar.FromBytesModOrderWide(seed[:])
		if err != nil {
			return false
		}
		return RistrettoScalarBaseMult(s).Equal(RistrettoBasepoint().ScalarMult(s)) == 1
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestRistrettoFromUniformBytesDeterministic(t *testing.T) {
	var b [64]byte
	for i := range b {
		b[i] = byte(i)
	}
	p1, err := RistrettoFromUniformBytes(b[:])
	if err != nil {
		t.Fatal(err)
	}
	p2, err := RistrettoFromUniformBytes(b[:])
	if err != nil {
		t.Fatal(err)
	}
	if p1.Equal(p2) != 1 {
		t.Error("RistrettoFromUniformBytes is not deterministic")
	}
	checkOnCurve(t, p1.repr)
}

func TestRistrettoDoubleMatchesAdd(t *testing.T) {
	f := func(p RistrettoElement) bool {
		return p.Double().Equal(p.Add(p)) == 1
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}
