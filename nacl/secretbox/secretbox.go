// Package secretbox implements crypto_secretbox (XSalsa20-Poly1305).
package secretbox

import (
	"errors"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/TheusHen/tweetnacl/nacl/randombytes"
)

const (
	Primitive = "xsalsa20poly1305"
	// KeySize is crypto_secretbox_KEYBYTES.
	KeySize = 32
	// NonceSize is crypto_secretbox_NONCEBYTES.
	NonceSize = 24
	// Overhead is the authenticator length prepended to every box.
	Overhead = secretbox.Overhead
	// ZeroBytes and BoxZeroBytes are the padding lengths of the C API.
	// Boxes produced here never carry the BoxZeroBytes prefix.
	ZeroBytes    = 32
	BoxZeroBytes = 16
)

var (
	ErrInvalidKeySize     = errors.New("secretbox: invalid key size")
	ErrInvalidNonceSize   = errors.New("secretbox: invalid nonce size")
	ErrCiphertextTooShort = errors.New("secretbox: ciphertext too short")
	ErrOpenFailed         = errors.New("secretbox: ciphertext fails verification")
)

type (
	Key   [KeySize]byte
	Nonce [NonceSize]byte
)

// Seal encrypts and authenticates message. The result is Overhead bytes longer.
func Seal(message []byte, nonce *Nonce, key *Key) []byte {
	return secretbox.Seal(nil, message, (*[NonceSize]byte)(nonce), (*[KeySize]byte)(key))
}

// Open authenticates and decrypts box.
func Open(box []byte, nonce *Nonce, key *Key) ([]byte, error) {
	if len(box) < Overhead {
		return nil, ErrCiphertextTooShort
	}
	out, ok := secretbox.Open(nil, box, (*[NonceSize]byte)(nonce), (*[KeySize]byte)(key))
	if !ok {
		return nil, ErrOpenFailed
	}
	return out, nil
}

// GenerateKey returns a random key.
func GenerateKey() (Key, error) {
	var k Key
	err := randombytes.Fill(k[:])
	return k, err
}

// NewNonce returns a random nonce. 24 bytes are enough for random nonces to
// be used safely with a single key.
func NewNonce() (Nonce, error) {
	var n Nonce
	err := randombytes.Fill(n[:])
	return n, err
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

// ParseNonce copies b into a Nonce.
func ParseNonce(b []byte) (Nonce, error) {
	var n Nonce
	if len(b) != NonceSize {
		return n, ErrInvalidNonceSize
	}
	copy(n[:], b)
	return n, nil
}
