package sign

import (
	"crypto/sha512"
	"errors"

	"filippo.io/edwards25519"

	"github.com/TheusHen/tweetnacl/nacl/box"
)

var ErrInvalidPublicKey = errors.New("sign: public key is not a valid curve point")

// PublicKeyToCurve25519 maps an Ed25519 public key to the Curve25519 public key
// of the same secret, so a signing identity can also receive boxes.
// Small order points are rejected.
func PublicKeyToCurve25519(pk *PublicKey) (box.PublicKey, error) {
	var out box.PublicKey
	p, err := new(edwards25519.Point).SetBytes(pk[:])
	if err != nil {
		return out, ErrInvalidPublicKey
	}
	if new(edwards25519.Point).MultByCofactor(p).Equal(edwards25519.NewIdentityPoint()) == 1 {
		return out, ErrInvalidPublicKey
	}
	copy(out[:], p.BytesMontgomery())
	return out, nil
}

// SecretKeyToCurve25519 returns the Curve25519 secret key matching
// PublicKeyToCurve25519(sk.Public()).
func SecretKeyToCurve25519(sk *SecretKey) box.SecretKey {
	h := sha512.Sum512(sk[:SeedSize])
	h[0] &= 248
	h[31] &= 127
	h[31] |= 64
	var out box.SecretKey
	copy(out[:], h[:32])
	return out
}
