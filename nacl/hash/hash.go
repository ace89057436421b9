// Package hash implements crypto_hash (SHA-512).
package hash

import "crypto/sha512"

const (
	Primitive = "sha512"
	// Size is crypto_hash_BYTES.
	Size = sha512.Size
)

// Sum returns the SHA-512 digest of message.
func Sum(message []byte) [Size]byte {
	return sha512.Sum512(message)
}

// SHA512 is crypto_hash_sha512, identical to Sum.
func SHA512(message []byte) [Size]byte {
	return Sum(message)
}
