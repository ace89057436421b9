// Package scalarmult implements crypto_scalarmult (Curve25519) on top of
// golang.org/x/crypto/curve25519.
package scalarmult

import (
	"errors"

	"golang.org/x/crypto/curve25519"
)

const (
	// Primitive is the NaCl implementation name.
	Primitive = "curve25519"
	// Size is the length of a group element (crypto_scalarmult_BYTES).
	Size = 32
	// ScalarSize is the length of a scalar (crypto_scalarmult_SCALARBYTES).
	ScalarSize = 32
)

var (
	ErrLowOrderPoint = errors.New("scalarmult: low order point")
	ErrInvalidSize   = errors.New("scalarmult: invalid input size")
)

// Basepoint is the canonical Curve25519 generator.
var Basepoint = [Size]byte{9}

// ScalarMult computes n*p. The result for a low order point p is all zeros;
// that case is reported as ErrLowOrderPoint instead of returned.
func ScalarMult(n [ScalarSize]byte, p [Size]byte) ([Size]byte, error) {
	var q [Size]byte
	out, err := curve25519.X25519(n[:], p[:])
	if err != nil {
		return q, ErrLowOrderPoint
	}
	copy(q[:], out)
	return q, nil
}

// ScalarMultBase computes n*Basepoint.
func ScalarMultBase(n [ScalarSize]byte) [Size]byte {
	var q [Size]byte
	curve25519.ScalarBaseMult(&q, &n)
	return q
}

// Clamp applies the RFC 7748 clamping to a secret scalar. ScalarMult clamps
// internally; Clamp is for callers storing keys in canonical form.
func Clamp(n *[ScalarSize]byte) {
	n[0] &= 248
	n[31] &= 127
	n[31] |= 64
}

// Parse copies b into a fixed-size array.
func Parse(b []byte) ([Size]byte, error) {
	var out [Size]byte
	if len(b) != Size {
		return out, ErrInvalidSize
	}
	copy(out[:], b)
	return out, nil
}
