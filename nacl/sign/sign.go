// Package sign implements crypto_sign (Ed25519).
//
// Signed messages use the NaCl layout: the 64-byte signature followed by the
// message. The detached helpers operate on the signature alone.
package sign

import (
	"bytes"
	"crypto/ed25519"
	"errors"

	"golang.org/x/crypto/nacl/sign"

	"github.com/TheusHen/tweetnacl/nacl/randombytes"
)

const (
	Primitive = "ed25519"
	// PublicKeySize is crypto_sign_PUBLICKEYBYTES.
	PublicKeySize = 32
	// SecretKeySize is crypto_sign_SECRETKEYBYTES: seed || public key.
	SecretKeySize = 64
	// SeedSize is the length of the private seed.
	SeedSize = ed25519.SeedSize
	// Overhead is crypto_sign_BYTES.
	Overhead = sign.Overhead
)

var (
	ErrInvalidPublicKeySize  = errors.New("sign: invalid public key size")
	ErrInvalidSecretKeySize  = errors.New("sign: invalid secret key size")
	ErrInvalidSeedSize       = errors.New("sign: invalid seed size")
	ErrSignedMessageTooShort = errors.New("sign: signed message too short")
	ErrInvalidSignature      = errors.New("sign: signature verification failed")
	ErrKeyMismatch           = errors.New("sign: public half does not match seed")
)

type (
	PublicKey [PublicKeySize]byte
	SecretKey [SecretKeySize]byte
)

// KeyPair is an Ed25519 signing keypair.
type KeyPair struct {
	PublicKey PublicKey
	SecretKey SecretKey
}

// GenerateKey returns a new random keypair (crypto_sign_keypair).
func GenerateKey() (KeyPair, error) {
	pk, sk, err := sign.GenerateKey(randombytes.Reader)
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{PublicKey: *pk, SecretKey: *sk}, nil
}

// NewKeyFromSeed derives the keypair for a 32-byte seed.
func NewKeyFromSeed(seed []byte) (KeyPair, error) {
	if len(seed) != SeedSize {
		return KeyPair{}, ErrInvalidSeedSize
	}
	priv := ed25519.NewKeyFromSeed(seed)
	var kp KeyPair
	copy(kp.SecretKey[:], priv)
	copy(kp.PublicKey[:], priv[SeedSize:])
	return kp, nil
}

// Seed returns the seed sk was derived from.
func (sk *SecretKey) Seed() []byte {
	return append([]byte(nil), sk[:SeedSize]...)
}

// Public returns the public half embedded in sk.
func (sk *SecretKey) Public() PublicKey {
	var pk PublicKey
	copy(pk[:], sk[SeedSize:])
	return pk
}

// Sign returns signature || message (crypto_sign).
func Sign(message []byte, sk *SecretKey) []byte {
	return sign.Sign(nil, message, (*[SecretKeySize]byte)(sk))
}

// Open verifies a signed message and returns the message (crypto_sign_open).
func Open(signed []byte, pk *PublicKey) ([]byte, error) {
	if len(signed) < Overhead {
		return nil, ErrSignedMessageTooShort
	}
	out, ok := sign.Open(nil, signed, (*[PublicKeySize]byte)(pk))
	if !ok {
		return nil, ErrInvalidSignature
	}
	if out == nil {
		out = []byte{}
	}
	return out, nil
}

// SignDetached returns only the 64-byte signature of message.
func SignDetached(message []byte, sk *SecretKey) []byte {
	return ed25519.Sign(ed25519.PrivateKey(sk[:]), message)
}

// VerifyDetached reports whether sig is a valid signature of message by pk.
func VerifyDetached(message, sig []byte, pk *PublicKey) bool {
	if len(sig) != Overhead {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pk[:]), message, sig)
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

// ParseSecretKey accepts either a 64-byte secret key or a 32-byte seed.
func ParseSecretKey(b []byte) (SecretKey, error) {
	switch len(b) {
	case SecretKeySize:
		kp, err := NewKeyFromSeed(b[:SeedSize])
		if err != nil {
			return SecretKey{}, err
		}
		if !bytes.Equal(kp.PublicKey[:], b[SeedSize:]) {
			return SecretKey{}, ErrKeyMismatch
		}
		return kp.SecretKey, nil
	case SeedSize:
		kp, err := NewKeyFromSeed(b)
		return kp.SecretKey, err
	default:
		return SecretKey{}, ErrInvalidSecretKeySize
	}
}
