package relay

import (
	"crypto/subtle"
	"fmt"
	"io"

	blake2b "github.com/minio/blake2b-simd"

	"github.com/TheusHen/tweetnacl/internal/wire"
	"github.com/TheusHen/tweetnacl/nacl/randombytes"
)

// Version is the relay protocol version carried in Hello.
const Version = 1

const domainStr = "NACLRELAY"

// MaxPskSize is the longest pre-shared key BLAKE2b accepts as a key.
const MaxPskSize = blake2b.KeySize

func checkPsk(psk []byte) error {
	switch {
	case len(psk) == 0:
		return ErrMissingKey
	case len(psk) > MaxPskSize:
		return fmt.Errorf("%w: %d bytes, at most %d", ErrPskTooLong, len(psk), MaxPskSize)
	}
	return nil
}

// auth is BLAKE2b-256 keyed with the pre-shared key; salt separates the
// handshake steps.
func auth(psk []byte, salt byte, parts ...[]byte) ([wire.DigestSize]byte, error) {
	var out [wire.DigestSize]byte
	if err := checkPsk(psk); err != nil {
		return out, err
	}
	hf, err := blake2b.New(&blake2b.Config{
		Key:    psk,
		Person: []byte(domainStr),
		Size:   wire.DigestSize,
		Salt:   []byte{salt},
	})
	if err != nil {
		return out, err
	}
	for _, p := range parts {
		hf.Write(p)
	}
	copy(out[:], hf.Sum(nil))
	return out, nil
}

func auth0(psk []byte, version byte, r []byte) ([wire.DigestSize]byte, error) {
	return auth(psk, 0, []byte{version}, r)
}

func auth1(psk []byte, version byte, h0 []byte) ([wire.DigestSize]byte, error) {
	return auth(psk, 1, []byte{version}, h0)
}

// clientHandshake proves knowledge of psk and checks the server does too.
func clientHandshake(rw io.ReadWriter, psk []byte) error {
	hello := wire.Hello{Version: Version}
	if err := randombytes.Fill(hello.R[:]); err != nil {
		return err
	}
	h0, err := auth0(psk, Version, hello.R[:])
	if err != nil {
		return err
	}
	hello.H0 = h0
	if err := wire.WriteFrame(rw, wire.Frame{Type: wire.MessageTypeHello, Payload: hello.Marshal()}); err != nil {
		return err
	}

	payload, err := wire.Expect(rw, wire.MessageTypeHelloAck)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHandshakeFailed, err)
	}
	ack, err := wire.UnmarshalHelloAck(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHandshakeFailed, err)
	}
	want, err := auth1(psk, Version, hello.H0[:])
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare(want[:], ack.H1[:]) != 1 {
		return ErrHandshakeFailed
	}
	return nil
}

// serverHandshake verifies the client's Hello and answers with HelloAck.
// Nothing is written back when verification fails.
func serverHandshake(rw io.ReadWriter, psk []byte) error {
	payload, err := wire.Expect(rw, wire.MessageTypeHello)
	if err != nil {
		return err
	}
	hello, err := wire.UnmarshalHello(payload)
	if err != nil {
		return err
	}
	if hello.Version != Version {
		return fmt.Errorf("%w: client version %d", ErrHandshakeFailed, hello.Version)
	}
	want, err := auth0(psk, hello.Version, hello.R[:])
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare(want[:], hello.H0[:]) != 1 {
		return ErrHandshakeFailed
	}
	h1, err := auth1(psk, hello.Version, hello.H0[:])
	if err != nil {
		return err
	}
	ack := wire.HelloAck{H1: h1}
	return wire.WriteFrame(rw, wire.Frame{Type: wire.MessageTypeHelloAck, Payload: ack.Marshal()})
}
