// Package verify implements crypto_verify_16 and crypto_verify_32: equality
// checks whose running time does not depend on where the inputs differ.
package verify

import "crypto/subtle"

// Verify16 reports whether x and y are equal.
func Verify16(x, y *[16]byte) bool {
	return subtle.ConstantTimeCompare(x[:], y[:]) == 1
}

// Verify32 reports whether x and y are equal.
func Verify32(x, y *[32]byte) bool {
	return subtle.ConstantTimeCompare(x[:], y[:]) == 1
}
