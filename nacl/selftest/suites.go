package selftest

import (
	"bytes"

	"golang.org/x/crypto/salsa20/salsa"

	"github.com/TheusHen/tweetnacl/nacl/box"
	"github.com/TheusHen/tweetnacl/nacl/hash"
	"github.com/TheusHen/tweetnacl/nacl/onetimeauth"
	"github.com/TheusHen/tweetnacl/nacl/scalarmult"
	"github.com/TheusHen/tweetnacl/nacl/secretbox"
	"github.com/TheusHen/tweetnacl/nacl/sign"
	"github.com/TheusHen/tweetnacl/nacl/stream"
	"github.com/TheusHen/tweetnacl/nacl/verify"
)

// RFC 7748 section 6.1.
const (
	aliceSK      = "77076d0a7318a57d3c16c17251b26645df4c2f87ebc0992ab177fba51db92c2a"
	alicePK      = "8520f0098930a754748b7ddcb43ef75a0dbf3a0d26381af4eba4a98eaa9b4e6a"
	bobSK        = "5dab087e624a8a4b79e17f8b83800ee66f3bb1292618b6fd1c2f8b27ff88e0eb"
	bobPK        = "de9edb7d7b7dc1b4d35b61c2ece435373f8343c85b78674dadfc7e146f882b4f"
	sharedSecret = "4a5d9d5ba4ce2de1728e3bf480350f25e07e21c947d19e3376f09b3c1e161742"
	beforenmKey  = "1b27556473e985d462cd51197a9a46c76009549eac6474f206c4ee0844f68389"
	boxNonce     = "69696ee955b62b73cd62bda875fc73d68219e0036b7a0b37"
)

func testBox() error {
	alice, err := box.GenerateKey()
	if err != nil {
		return err
	}
	bob, err := box.GenerateKey()
	if err != nil {
		return err
	}
	nonce, err := box.NewNonce()
	if err != nil {
		return err
	}
	c := box.Seal(message, &nonce, &bob.PublicKey, &alice.SecretKey)
	if err := expect(len(c) == len(message)+box.Overhead, "box length %d", len(c)); err != nil {
		return err
	}
	m, err := box.Open(c, &nonce, &alice.PublicKey, &bob.SecretKey)
	if err != nil {
		return err
	}
	if err := expect(bytes.Equal(m, message), "box round trip mismatch"); err != nil {
		return err
	}
	for _, i := range probes(len(c)) {
		if _, err := box.Open(flipped(c, i), &nonce, &alice.PublicKey, &bob.SecretKey); err != box.ErrOpenFailed {
			return expect(false, "box tampered at %d: got %v", i, err)
		}
	}
	k := box.Precompute(&alice.PublicKey, &bob.SecretKey)
	m, err = box.OpenAfterPrecomputation(c, &nonce, &k)
	if err != nil {
		return err
	}
	return expect(bytes.Equal(m, message), "open_afternm mismatch")
}

func testBoxCurve25519XSalsa20Poly1305() error {
	ask, _ := box.ParseSecretKey(unhex(aliceSK))
	bsk, _ := box.ParseSecretKey(unhex(bobSK))
	nonce, _ := box.ParseNonce(unhex(boxNonce))
	alice, bob := box.KeyPairFromSecret(ask), box.KeyPairFromSecret(bsk)

	if err := firstError(
		expectHex("alice pk", alice.PublicKey[:], alicePK),
		expectHex("bob pk", bob.PublicKey[:], bobPK),
	); err != nil {
		return err
	}
	k1 := box.Precompute(&bob.PublicKey, &alice.SecretKey)
	k2 := box.Precompute(&alice.PublicKey, &bob.SecretKey)
	if err := firstError(
		expect(k1 == k2, "beforenm not symmetric"),
		expectHex("beforenm", k1[:], beforenmKey),
	); err != nil {
		return err
	}
	c := box.Seal(message, &nonce, &bob.PublicKey, &alice.SecretKey)
	sk := k1.SecretboxKey()
	sn := secretbox.Nonce(nonce)
	return firstError(
		expect(bytes.Equal(c, box.SealAfterPrecomputation(message, &nonce, &k1)), "afternm differs from box"),
		expect(bytes.Equal(c, secretbox.Seal(message, &sn, &sk)), "box differs from secretbox under beforenm"),
	)
}

func testHash() error {
	a := hash.Sum(message)
	b := hash.Sum(message)
	c := hash.Sum(message[1:])
	return firstError(
		expect(len(a) == hash.Size, "hash length %d", len(a)),
		expect(a == b, "hash not deterministic"),
		expect(a != c, "distinct inputs hash equal"),
	)
}

func testHashSHA512() error {
	empty := hash.SHA512(nil)
	abc := hash.SHA512([]byte("abc"))
	return firstError(
		expectHex("sha512(\"\")", empty[:], "cf83e1357eefb8bdf1542850d66d8007d620e4050b5715dc83f4a921d36ce9ce47d0d13c5d85f2b0ff8318d2877eec2f63b931bd47417a81a538327af927da3e"),
		expectHex("sha512(abc)", abc[:], "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f"),
	)
}

func testOneTimeAuth() error {
	var key onetimeauth.Key
	copy(key[:], bytes.Repeat([]byte("k"), onetimeauth.KeySize))
	tag := onetimeauth.Sum(message, &key)
	if !onetimeauth.Verify(&tag, message, &key) {
		return expect(false, "valid authenticator rejected")
	}
	for _, i := range probes(len(message)) {
		if onetimeauth.Verify(&tag, flipped(message, i), &key) {
			return expect(false, "tampered message at %d accepted", i)
		}
	}
	bad := tag
	bad[onetimeauth.Size-1] ^= 0x80
	return expect(!onetimeauth.Verify(&bad, message, &key), "tampered authenticator accepted")
}

func testOneTimeAuthPoly1305() error {
	key, err := onetimeauth.ParseKey(unhex("85d6be7857556d337f4452fe42d506a80103808afb0db2fd4abff6af4149f51b"))
	if err != nil {
		return err
	}
	tag := onetimeauth.Sum([]byte("Cryptographic Forum Research Group"), &key)
	return expectHex("poly1305", tag[:], "a8061dc1305136c6c22b8baf0c0127a9")
}

func testScalarMult() error {
	a, err := box.GenerateKey()
	if err != nil {
		return err
	}
	b, err := box.GenerateKey()
	if err != nil {
		return err
	}
	ab, err := scalarmult.ScalarMult(a.SecretKey, b.PublicKey)
	if err != nil {
		return err
	}
	ba, err := scalarmult.ScalarMult(b.SecretKey, a.PublicKey)
	if err != nil {
		return err
	}
	return firstError(
		expect(ab == ba, "scalarmult not commutative"),
		expect(scalarmult.ScalarMultBase(a.SecretKey) == [32]byte(a.PublicKey), "base mult differs from keypair"),
	)
}

func testScalarMultCurve25519() error {
	ask, _ := scalarmult.Parse(unhex(aliceSK))
	bsk, _ := scalarmult.Parse(unhex(bobSK))
	apk := scalarmult.ScalarMultBase(ask)
	bpk := scalarmult.ScalarMultBase(bsk)
	shared, err := scalarmult.ScalarMult(ask, bpk)
	if err != nil {
		return err
	}
	return firstError(
		expectHex("alice pk", apk[:], alicePK),
		expectHex("bob pk", bpk[:], bobPK),
		expectHex("shared", shared[:], sharedSecret),
	)
}

func testSecretbox() error {
	var key secretbox.Key
	copy(key[:], bytes.Repeat([]byte("k"), secretbox.KeySize))
	nonce, err := secretbox.NewNonce()
	if err != nil {
		return err
	}
	c := secretbox.Seal(message, &nonce, &key)
	m, err := secretbox.Open(c, &nonce, &key)
	if err != nil {
		return err
	}
	if err := expect(bytes.Equal(m, message), "secretbox round trip mismatch"); err != nil {
		return err
	}
	for _, i := range probes(len(c)) {
		if _, err := secretbox.Open(flipped(c, i), &nonce, &key); err != secretbox.ErrOpenFailed {
			return expect(false, "secretbox tampered at %d: got %v", i, err)
		}
	}
	_, err = secretbox.Open(c[:secretbox.Overhead-1], &nonce, &key)
	return expect(err == secretbox.ErrCiphertextTooShort, "short box: got %v", err)
}

func testSecretboxXSalsa20Poly1305() error {
	key, _ := secretbox.ParseKey(unhex(beforenmKey))
	nonce, _ := secretbox.ParseNonce(unhex(boxNonce))
	c := secretbox.Seal(message, &nonce, &key)

	sk, sn := stream.Key(key), stream.Nonce(nonce)
	ks := stream.KeyStream(32+len(message), &sn, &sk)
	ct := make([]byte, len(message))
	for i := range message {
		ct[i] = message[i] ^ ks[32+i]
	}
	authKey, _ := onetimeauth.ParseKey(ks[:32])
	tag := onetimeauth.Sum(ct, &authKey)
	return firstError(
		expect(bytes.Equal(c[:secretbox.Overhead], tag[:]), "authenticator is not poly1305 of the ciphertext"),
		expect(bytes.Equal(c[secretbox.Overhead:], ct), "ciphertext is not the xsalsa20 stream at offset 32"),
	)
}

func testSign() error {
	kp, err := sign.GenerateKey()
	if err != nil {
		return err
	}
	sm := sign.Sign(message, &kp.SecretKey)
	if err := expect(len(sm) == len(message)+sign.Overhead, "signed length %d", len(sm)); err != nil {
		return err
	}
	m, err := sign.Open(sm, &kp.PublicKey)
	if err != nil {
		return err
	}
	if err := expect(bytes.Equal(m, message), "sign round trip mismatch"); err != nil {
		return err
	}
	for _, i := range probes(len(sm)) {
		if _, err := sign.Open(flipped(sm, i), &kp.PublicKey); err != sign.ErrInvalidSignature {
			return expect(false, "signed message tampered at %d: got %v", i, err)
		}
	}
	return nil
}

func testSignEd25519() error {
	kp, err := sign.NewKeyFromSeed(unhex("9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"))
	if err != nil {
		return err
	}
	sm := sign.Sign(nil, &kp.SecretKey)
	if err := firstError(
		expectHex("ed25519 pk", kp.PublicKey[:], "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a"),
		expectHex("ed25519 sig", sm, "e5564300c360ac729086e2cc806e828a84877f1eb8e5d974d873e065224901555fb8821590a33bacc61e39701cf9b46bd25bf5f0595bbe24655141438e7a100b"),
	); err != nil {
		return err
	}
	_, err = sign.Open(sm, &kp.PublicKey)
	return err
}

// XSalsa20 vectors as published with the Go salsa20 package.
const (
	xsalsaKey     = "this is 32-byte key for xsalsa20"
	xsalsaNonce   = "24-byte nonce for xsalsa"
	xsalsaHello   = "002d4513843fc240c401e541"
	xsalsaZeros64 = "4848297feb1fb52fb66d81609bd547fabcbe7026edc8b5e5e449d088bfa69c08" +
		"8f5d8da1d791267c2c195a7f8cae9c4b4050d08ce6d3a151ec265f3a58e47648"
)

// ECRYPT Salsa20 set 6, vector 0: the XOR of every 64-byte block of the
// first 131072 keystream bytes.
const (
	ecryptKey    = "0053a6f94c9ff24598eb3e91e4378add3083d6297ccf2275c81b6ec11467ba0d"
	ecryptIV     = "0d74db42a91077de"
	ecryptLength = 131072
	ecryptXORSum = "c349b6a51a3ec9b712eaed3f90d8bcee69b7628645f251a996f55260c62ef31f" +
		"d6c6b0aea94e136c9d984ad2df3578f78e457527b03a0450580dd874f63b1ab9"
)

func xsalsaVector() (stream.Key, stream.Nonce) {
	key, _ := stream.ParseKey([]byte(xsalsaKey))
	nonce, _ := stream.ParseNonce([]byte(xsalsaNonce))
	return key, nonce
}

func testStream() error {
	vk, vn := xsalsaVector()
	if err := firstError(
		expectHex("stream_xor", stream.XOR([]byte("Hello world!"), &vn, &vk), xsalsaHello),
		expectHex("stream", stream.KeyStream(64, &vn, &vk), xsalsaZeros64),
	); err != nil {
		return err
	}

	var key stream.Key
	copy(key[:], bytes.Repeat([]byte("k"), stream.KeySize))
	nonce, _ := stream.ParseNonce(unhex(boxNonce))
	c := stream.XOR(message, &nonce, &key)
	ks := stream.KeyStream(len(message), &nonce, &key)
	for i := range c {
		if c[i] != message[i]^ks[i] {
			return expect(false, "stream_xor differs from keystream at %d", i)
		}
	}
	return expect(bytes.Equal(stream.XOR(c, &nonce, &key), message), "stream round trip mismatch")
}

func testStreamSalsa20() error {
	ek, _ := stream.ParseKey(unhex(ecryptKey))
	en, _ := stream.ParseSalsa20Nonce(unhex(ecryptIV))
	ks := stream.Salsa20KeyStream(ecryptLength, &en, &ek)
	var sum [64]byte
	for len(ks) > 0 {
		for i := range sum {
			sum[i] ^= ks[i]
		}
		ks = ks[64:]
	}
	if err := expectHex("stream_salsa20 block xor", sum[:], ecryptXORSum); err != nil {
		return err
	}

	var key stream.Key
	copy(key[:], bytes.Repeat([]byte("k"), stream.KeySize))
	nonce, _ := stream.ParseSalsa20Nonce(unhex(boxNonce)[16:])
	long := stream.Salsa20KeyStream(4096, &nonce, &key)
	short := stream.Salsa20KeyStream(64, &nonce, &key)
	c := stream.Salsa20XOR(message, &nonce, &key)
	return firstError(
		expect(bytes.Equal(long[:64], short), "salsa20 keystream not prefix stable"),
		expect(bytes.Equal(stream.Salsa20XOR(c, &nonce, &key), message), "salsa20 round trip mismatch"),
	)
}

func testStreamXSalsa20() error {
	vk, vn := xsalsaVector()
	if err := expectHex("stream_xsalsa20", stream.XSalsa20KeyStream(64, &vn, &vk), xsalsaZeros64); err != nil {
		return err
	}

	var key stream.Key
	copy(key[:], bytes.Repeat([]byte("k"), stream.KeySize))
	nonce, _ := stream.ParseNonce(unhex(boxNonce))

	var in [16]byte
	copy(in[:], nonce[:16])
	var sub [32]byte
	k := [32]byte(key)
	salsa.HSalsa20(&sub, &in, &k, &salsa.Sigma)
	subKey := stream.Key(sub)
	n8, _ := stream.ParseSalsa20Nonce(nonce[16:])

	want := stream.Salsa20KeyStream(256, &n8, &subKey)
	got := stream.XSalsa20KeyStream(256, &nonce, &key)
	return expect(bytes.Equal(got, want), "xsalsa20 is not salsa20 under the hsalsa20 subkey")
}

func testVerify16() error {
	var x, y [16]byte
	copy(x[:], message)
	copy(y[:], message)
	if !verify.Verify16(&x, &y) {
		return expect(false, "equal inputs rejected")
	}
	for i := range y {
		z := y
		z[i] ^= 0x01
		if verify.Verify16(&x, &z) {
			return expect(false, "difference at %d not detected", i)
		}
	}
	return nil
}

func testVerify32() error {
	var x, y [32]byte
	copy(x[:], message)
	copy(y[:], message)
	if !verify.Verify32(&x, &y) {
		return expect(false, "equal inputs rejected")
	}
	for i := range y {
		z := y
		z[i] ^= 0x80
		if verify.Verify32(&x, &z) {
			return expect(false, "difference at %d not detected", i)
		}
	}
	return nil
}
