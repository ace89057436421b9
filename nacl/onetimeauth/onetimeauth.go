// Package onetimeauth implements crypto_onetimeauth (Poly1305).
//
// A key must authenticate a single message only. Reusing a key lets an
// attacker forge authenticators.
package onetimeauth

import (
	"errors"

	"golang.org/x/crypto/poly1305"
)

const (
	Primitive = "poly1305"
	// KeySize is crypto_onetimeauth_KEYBYTES.
	KeySize = 32
	// Size is crypto_onetimeauth_BYTES.
	Size = poly1305.TagSize
)

var ErrInvalidKeySize = errors.New("onetimeauth: invalid key size")

// Key is a one-time Poly1305 key.
type Key [KeySize]byte

// Sum authenticates message under key.
func Sum(message []byte, key *Key) [Size]byte {
	var tag [Size]byte
	poly1305.Sum(&tag, message, (*[32]byte)(key))
	return tag
}

// Verify reports whether tag authenticates message under key.
func Verify(tag *[Size]byte, message []byte, key *Key) bool {
	return poly1305.Verify(tag, message, (*[32]byte)(key))
}

// ParseKey copies b into a Key.
func ParseKey(b []byte) (Key, error) {
	var k Key
	if len(b) != KeySize {
		return k, ErrInvalidKeySize
	}
	copy(k[:], b)
	return k, nil
}
