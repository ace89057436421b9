// Package stream implements crypto_stream (XSalsa20) and crypto_stream_salsa20.
//
// A stream cipher provides confidentiality only. Use secretbox when the
// ciphertext must also be authenticated.
package stream

import (
	"errors"

	"golang.org/x/crypto/salsa20"
)

const (
	Primitive = "xsalsa20"
	// KeySize is crypto_stream_KEYBYTES.
	KeySize = 32
	// NonceSize is crypto_stream_NONCEBYTES (XSalsa20).
	NonceSize = 24
	// Salsa20NonceSize is crypto_stream_salsa20_NONCEBYTES.
	Salsa20NonceSize = 8
)

var (
	ErrInvalidKeySize   = errors.New("stream: invalid key size")
	ErrInvalidNonceSize = errors.New("stream: invalid nonce size")
)

type (
	Key          [KeySize]byte
	Nonce        [NonceSize]byte
	Salsa20Nonce [Salsa20NonceSize]byte
)

// KeyStream returns n bytes of XSalsa20 keystream (crypto_stream).
func KeyStream(n int, nonce *Nonce, key *Key) []byte {
	return XOR(make([]byte, n), nonce, key)
}

// XOR encrypts or decrypts message with XSalsa20 (crypto_stream_xor).
func XOR(message []byte, nonce *Nonce, key *Key) []byte {
	out := make([]byte, len(message))
	salsa20.XORKeyStream(out, message, nonce[:], (*[KeySize]byte)(key))
	return out
}

// XSalsa20KeyStream is crypto_stream_xsalsa20.
func XSalsa20KeyStream(n int, nonce *Nonce, key *Key) []byte { return KeyStream(n, nonce, key) }

// XSalsa20XOR is crypto_stream_xsalsa20_xor.
func XSalsa20XOR(message []byte, nonce *Nonce, key *Key) []byte { return XOR(message, nonce, key) }

// Salsa20KeyStream returns n bytes of Salsa20 keystream (crypto_stream_salsa20).
func Salsa20KeyStream(n int, nonce *Salsa20Nonce, key *Key) []byte {
	return Salsa20XOR(make([]byte, n), nonce, key)
}

// Salsa20XOR is crypto_stream_salsa20_xor.
func Salsa20XOR(message []byte, nonce *Salsa20Nonce, key *Key) []byte {
	out := make([]byte, len(message))
	salsa20.XORKeyStream(out, message, nonce[:], (*[KeySize]byte)(key))
	return out
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

// ParseNonce copies b into an XSalsa20 Nonce.
func ParseNonce(b []byte) (Nonce, error) {
	var n Nonce
	if len(b) != NonceSize {
		return n, ErrInvalidNonceSize
	}
	copy(n[:], b)
	return n, nil
}

// ParseSalsa20Nonce copies b into a Salsa20Nonce.
func ParseSalsa20Nonce(b []byte) (Salsa20Nonce, error) {
	var n Salsa20Nonce
	if len(b) != Salsa20NonceSize {
		return n, ErrInvalidNonceSize
	}
	copy(n[:], b)
	return n, nil
}
