package box

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/TheusHen/tweetnacl/nacl/secretbox"
)

// RFC 7748 section 6.1 keys, also used by the NaCl box tests.
const (
	aliceSK = "77076d0a7318a57d3c16c17251b26645df4c2f87ebc0992ab177fba51db92c2a"
	alicePK = "8520f0098930a754748b7ddcb43ef75a0dbf3a0d26381af4eba4a98eaa9b4e6a"
	bobSK   = "5dab087e624a8a4b79e17f8b83800ee66f3bb1292618b6fd1c2f8b27ff88e0eb"
	bobPK   = "de9edb7d7b7dc1b4d35b61c2ece435373f8343c85b78674dadfc7e146f882b4f"
	// HSalsa20 of the X25519 shared secret under a zero nonce.
	firstKey = "1b27556473e985d462cd51197a9a46c76009549eac6474f206c4ee0844f68389"
	nonceHex = "69696ee955b62b73cd62bda875fc73d68219e0036b7a0b37"
)

func decode(t testing.TB, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("DecodeString: %v", err)
	}
	return b
}

func fixtures(t testing.TB) (alice, bob KeyPair, nonce Nonce) {
	t.Helper()
	ask, err := ParseSecretKey(decode(t, aliceSK))
	if err != nil {
		t.Fatalf("ParseSecretKey: %v", err)
	}
	bsk, err := ParseSecretKey(decode(t, bobSK))
	if err != nil {
		t.Fatalf("ParseSecretKey: %v", err)
	}
	nonce, err = ParseNonce(decode(t, nonceHex))
	if err != nil {
		t.Fatalf("ParseNonce: %v", err)
	}
	return KeyPairFromSecret(ask), KeyPairFromSecret(bsk), nonce
}

func TestKeyPairFromSecret(t *testing.T) {
	alice, bob, _ := fixtures(t)
	if !bytes.Equal(alice.PublicKey[:], decode(t, alicePK)) {
		t.Fatalf("alice public key mismatch")
	}
	if !bytes.Equal(bob.PublicKey[:], decode(t, bobPK)) {
		t.Fatalf("bob public key mismatch")
	}
}

func TestPrecompute(t *testing.T) {
	alice, bob, _ := fixtures(t)
	k1 := Precompute(&bob.PublicKey, &alice.SecretKey)
	k2 := Precompute(&alice.PublicKey, &bob.SecretKey)
	if k1 != k2 {
		t.Fatalf("beforenm is not symmetric")
	}
	if !bytes.Equal(k1[:], decode(t, firstKey)) {
		t.Fatalf("unexpected shared key %x", k1)
	}
}

func TestSealOpenRoundTrip(t *testing.T) {
	alice, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	bob, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	nonce, err := NewNonce()
	if err != nil {
		t.Fatalf("NewNonce: %v", err)
	}

	msg := []byte("hello bob, this is alice")
	b := Seal(msg, &nonce, &bob.PublicKey, &alice.SecretKey)
	if len(b) != len(msg)+Overhead {
		t.Fatalf("unexpected box length %d", len(b))
	}
	out, err := Open(b, &nonce, &alice.PublicKey, &bob.SecretKey)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(out, msg) {
		t.Fatalf("decrypted != plaintext")
	}

	mallory, _ := GenerateKey()
	if _, err := Open(b, &nonce, &mallory.PublicKey, &bob.SecretKey); err != ErrOpenFailed {
		t.Fatalf("wrong sender: expected ErrOpenFailed, got %v", err)
	}
	b[len(b)-1] ^= 0xff
	if _, err := Open(b, &nonce, &alice.PublicKey, &bob.SecretKey); err != ErrOpenFailed {
		t.Fatalf("tampered: expected ErrOpenFailed, got %v", err)
	}
	if _, err := Open(b[:Overhead-1], &nonce, &alice.PublicKey, &bob.SecretKey); err != ErrCiphertextTooShort {
		t.Fatalf("expected ErrCiphertextTooShort, got %v", err)
	}
}

func TestAfterPrecomputationMatchesSeal(t *testing.T) {
	alice, bob, nonce := fixtures(t)
	msg := []byte(strings.Repeat("H", 1000))

	direct := Seal(msg, &nonce, &bob.PublicKey, &alice.SecretKey)
	k := Precompute(&bob.PublicKey, &alice.SecretKey)
	after := SealAfterPrecomputation(msg, &nonce, &k)
	if !bytes.Equal(direct, after) {
		t.Fatalf("afternm output differs from crypto_box")
	}

	kb := Precompute(&alice.PublicKey, &bob.SecretKey)
	out, err := OpenAfterPrecomputation(direct, &nonce, &kb)
	if err != nil {
		t.Fatalf("OpenAfterPrecomputation: %v", err)
	}
	if !bytes.Equal(out, msg) {
		t.Fatalf("decrypted != plaintext")
	}
}

func TestBoxIsSecretboxUnderSharedKey(t *testing.T) {
	alice, bob, nonce := fixtures(t)
	msg := []byte("box and secretbox agree")

	k := Precompute(&bob.PublicKey, &alice.SecretKey)
	sk := k.SecretboxKey()
	sn := secretbox.Nonce(nonce)
	want := secretbox.Seal(msg, &sn, &sk)
	got := Seal(msg, &nonce, &bob.PublicKey, &alice.SecretKey)
	if !bytes.Equal(got, want) {
		t.Fatalf("box != secretbox(beforenm)")
	}
}

func TestKeyCache(t *testing.T) {
	alice, bob, nonce := fixtures(t)
	cache, err := NewKeyCache(2)
	if err != nil {
		t.Fatalf("NewKeyCache: %v", err)
	}
	msg := []byte("cached")
	b := cache.Seal(msg, &nonce, &bob.PublicKey, &alice.SecretKey)
	if !bytes.Equal(b, Seal(msg, &nonce, &bob.PublicKey, &alice.SecretKey)) {
		t.Fatalf("cached seal differs")
	}
	out, err := cache.Open(b, &nonce, &alice.PublicKey, &bob.SecretKey)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(out, msg) {
		t.Fatalf("decrypted != plaintext")
	}
	if cache.Len() != 2 {
		t.Fatalf("expected 2 cached keys, got %d", cache.Len())
	}
	_ = cache.SharedKey(&bob.PublicKey, &alice.SecretKey)
	if cache.Len() != 2 {
		t.Fatalf("cache grew on a hit")
	}
	carol, _ := GenerateKey()
	_ = cache.SharedKey(&carol.PublicKey, &alice.SecretKey)
	if cache.Len() != 2 {
		t.Fatalf("cache exceeded its bound")
	}
	cache.Purge()
	if cache.Len() != 0 {
		t.Fatalf("Purge left entries")
	}
}

func TestParse(t *testing.T) {
	if _, err := ParsePublicKey(make([]byte, 33)); err != ErrInvalidPublicKeySize {
		t.Fatalf("expected ErrInvalidPublicKeySize, got %v", err)
	}
	if _, err := ParseSecretKey(nil); err != ErrInvalidSecretKeySize {
		t.Fatalf("expected ErrInvalidSecretKeySize, got %v", err)
	}
	if _, err := ParseNonce(make([]byte, 8)); err != ErrInvalidNonceSize {
		t.Fatalf("expected ErrInvalidNonceSize, got %v", err)
	}
}

func BenchmarkSeal(b *testing.B) {
	alice, bob, nonce := fixtures(b)
	msg := []byte(strings.Repeat("H", 1000))
	b.SetBytes(int64(len(msg)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Seal(msg, &nonce, &bob.PublicKey, &alice.SecretKey)
	}
}

func BenchmarkSealAfterPrecomputation(b *testing.B) {
	alice, bob, nonce := fixtures(b)
	k := Precompute(&bob.PublicKey, &alice.SecretKey)
	msg := []byte(strings.Repeat("H", 1000))
	b.SetBytes(int64(len(msg)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = SealAfterPrecomputation(msg, &nonce, &k)
	}
}
