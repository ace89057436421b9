// Package box implements crypto_box (Curve25519-XSalsa20-Poly1305) public-key
// authenticated encryption.
package box

import (
	"errors"

	"golang.org/x/crypto/nacl/box"

	"github.com/TheusHen/tweetnacl/nacl/randombytes"
	"github.com/TheusHen/tweetnacl/nacl/scalarmult"
	"github.com/TheusHen/tweetnacl/nacl/secretbox"
)

const (
	Primitive = "curve25519xsalsa20poly1305"
	// PublicKeySize is crypto_box_PUBLICKEYBYTES.
	PublicKeySize = 32
	// SecretKeySize is crypto_box_SECRETKEYBYTES.
	SecretKeySize = 32
	// SharedKeySize is crypto_box_BEFORENMBYTES.
	SharedKeySize = 32
	// NonceSize is crypto_box_NONCEBYTES.
	NonceSize = 24
	// Overhead is the authenticator length prepended to every box.
	Overhead = box.Overhead
	// ZeroBytes and BoxZeroBytes are the padding lengths of the C API.
	// Boxes produced here never carry the BoxZeroBytes prefix.
	ZeroBytes    = 32
	BoxZeroBytes = 16
)

var (
	ErrInvalidPublicKeySize = errors.New("box: invalid public key size")
	ErrInvalidSecretKeySize = errors.New("box: invalid secret key size")
	ErrInvalidNonceSize     = errors.New("box: invalid nonce size")
	ErrCiphertextTooShort   = errors.New("box: ciphertext too short")
	ErrOpenFailed           = errors.New("box: ciphertext fails verification")
)

type (
	PublicKey [PublicKeySize]byte
	SecretKey [SecretKeySize]byte
	SharedKey [SharedKeySize]byte
	Nonce     [NonceSize]byte
)

// KeyPair is a Curve25519 keypair for crypto_box.
type KeyPair struct {
	PublicKey PublicKey
	SecretKey SecretKey
}

// GenerateKey returns a new random keypair (crypto_box_keypair).
func GenerateKey() (KeyPair, error) {
	pk, sk, err := box.GenerateKey(randombytes.Reader)
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{PublicKey: *pk, SecretKey: *sk}, nil
}

// KeyPairFromSecret rebuilds the keypair that owns sk.
func KeyPairFromSecret(sk SecretKey) KeyPair {
	return KeyPair{PublicKey: PublicKeyFromSecret(sk), SecretKey: sk}
}

// PublicKeyFromSecret derives the public key of sk.
func PublicKeyFromSecret(sk SecretKey) PublicKey {
	return PublicKey(scalarmult.ScalarMultBase(sk))
}

// Seal encrypts and authenticates message from the owner of sk to peer.
// The result is Overhead bytes longer than message.
func Seal(message []byte, nonce *Nonce, peer *PublicKey, sk *SecretKey) []byte {
	return box.Seal(nil, message, (*[NonceSize]byte)(nonce), (*[PublicKeySize]byte)(peer), (*[SecretKeySize]byte)(sk))
}

// Open authenticates and decrypts a box sent by peer to the owner of sk.
func Open(b []byte, nonce *Nonce, peer *PublicKey, sk *SecretKey) ([]byte, error) {
	if len(b) < Overhead {
		return nil, ErrCiphertextTooShort
	}
	out, ok := box.Open(nil, b, (*[NonceSize]byte)(nonce), (*[PublicKeySize]byte)(peer), (*[SecretKeySize]byte)(sk))
	if !ok {
		return nil, ErrOpenFailed
	}
	return out, nil
}

// Precompute derives the shared key for peer and sk (crypto_box_beforenm).
// Precompute(pkB, skA) == Precompute(pkA, skB).
func Precompute(peer *PublicKey, sk *SecretKey) SharedKey {
	var k [SharedKeySize]byte
	box.Precompute(&k, (*[PublicKeySize]byte)(peer), (*[SecretKeySize]byte)(sk))
	return SharedKey(k)
}

// SealAfterPrecomputation is crypto_box_afternm.
func SealAfterPrecomputation(message []byte, nonce *Nonce, key *SharedKey) []byte {
	return box.SealAfterPrecomputation(nil, message, (*[NonceSize]byte)(nonce), (*[SharedKeySize]byte)(key))
}

// OpenAfterPrecomputation is crypto_box_open_afternm.
func OpenAfterPrecomputation(b []byte, nonce *Nonce, key *SharedKey) ([]byte, error) {
	if len(b) < Overhead {
		return nil, ErrCiphertextTooShort
	}
	out, ok := box.OpenAfterPrecomputation(nil, b, (*[NonceSize]byte)(nonce), (*[SharedKeySize]byte)(key))
	if !ok {
		return nil, ErrOpenFailed
	}
	return out, nil
}

// SecretboxKey returns k as a secretbox key. A box sealed under k is a
// secretbox sealed under the same bytes.
func (k SharedKey) SecretboxKey() secretbox.Key { return secretbox.Key(k) }

// NewNonce returns a random nonce.
func NewNonce() (Nonce, error) {
	var n Nonce
	err := randombytes.Fill(n[:])
	return n, err
}

// ParsePublicKey copies b into a PublicKey.
func ParsePublicKey(b []byte) (PublicKey, error) {
	var k PublicKey
	if len(b) != PublicKeySize {
		return k, ErrInvalidPublicKeySize
	}
	copy(k[:], b)
	return k, nil
}

// ParseSecretKey copies b into a SecretKey.
func ParseSecretKey(b []byte) (SecretKey, error) {
	var k SecretKey
	if len(b) != SecretKeySize {
		return k, ErrInvalidSecretKeySize
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
