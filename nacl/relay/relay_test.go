package relay

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/TheusHen/tweetnacl/internal/transport/quic"
	"github.com/TheusHen/tweetnacl/internal/wire"
	"github.com/TheusHen/tweetnacl/nacl/secretbox"
	"github.com/TheusHen/tweetnacl/nacl/sign"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

type fixture struct {
	psk    []byte
	enc    secretbox.Key
	signer sign.KeyPair
	server *Server
	addr   string
}

func (f *fixture) client() *Client {
	return &Client{
		Connect:   f.addr,
		Psk:       f.psk,
		EncryptSk: &f.enc,
		SignSk:    &f.signer.SecretKey,
		SignPk:    &f.signer.PublicKey,
	}
}

func startServer(t *testing.T, mutate func(*ServerConfig)) *fixture {
	t.Helper()
	f := &fixture{psk: bytes.Repeat([]byte{7}, 32)}
	var err error
	f.enc, err = secretbox.GenerateKey()
	require.NoError(t, err)
	f.signer, err = sign.GenerateKey()
	require.NoError(t, err)

	conf := ServerConfig{
		Psk:            f.psk,
		AllowedSigners: []sign.PublicKey{f.signer.PublicKey},
		Logger:         quietLogger(),
	}
	if mutate != nil {
		mutate(&conf)
	}
	f.server, err = NewServer(conf)
	require.NoError(t, err)

	ln, err := quic.Listen("127.0.0.1:0", quic.Config{})
	require.NoError(t, err)
	f.addr = ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.server.Serve(ctx, ln) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})
	return f
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestCopyPaste(t *testing.T) {
	f := startServer(t, nil)
	ctx := testContext(t)
	c := f.client()

	_, err := c.Paste(ctx)
	require.ErrorIs(t, err, ErrEmpty)

	require.NoError(t, c.Copy(ctx, []byte("first")))
	require.NoError(t, c.Copy(ctx, []byte("second")))

	got, err := c.Paste(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte("second"), got)
	require.Equal(t, 1, f.server.Store().Len())

	stored, ok := f.server.Store().Get(f.signer.PublicKey)
	require.True(t, ok)
	require.NotContains(t, string(stored.Payload), "second")
}

func TestWrongPsk(t *testing.T) {
	f := startServer(t, nil)
	c := f.client()
	c.Psk = bytes.Repeat([]byte{8}, 32)
	err := c.Copy(testContext(t), []byte("x"))
	require.ErrorIs(t, err, ErrHandshakeFailed)
	require.Equal(t, 0, f.server.Store().Len())
}

func TestUnknownSigner(t *testing.T) {
	f := startServer(t, nil)
	other, err := sign.GenerateKey()
	require.NoError(t, err)

	c := f.client()
	c.SignSk, c.SignPk = &other.SecretKey, &other.PublicKey
	require.ErrorIs(t, c.Copy(testContext(t), []byte("x")), ErrUnknownSigner)
	_, err = c.Paste(testContext(t))
	require.ErrorIs(t, err, ErrUnknownSigner)
}

func TestWrongEncryptionKeyCannotOpen(t *testing.T) {
	f := startServer(t, nil)
	ctx := testContext(t)
	require.NoError(t, f.client().Copy(ctx, []byte("secret")))

	c := f.client()
	other, _ := secretbox.GenerateKey()
	c.EncryptSk = &other
	_, err := c.Paste(ctx)
	require.ErrorIs(t, err, secretbox.ErrOpenFailed)
}

func TestRateLimited(t *testing.T) {
	f := startServer(t, func(c *ServerConfig) {
		c.RateLimit = 0.001
		c.RateBurst = 1
	})
	ctx := testContext(t)
	c := f.client()

	// Every Paste dials a fresh connection from a new port.
	_, err := c.Paste(ctx)
	require.ErrorIs(t, err, ErrEmpty)
	_, err = c.Paste(ctx)
	require.ErrorIs(t, err, ErrRateLimited)
	require.ErrorIs(t, c.Copy(ctx, []byte("x")), ErrRateLimited)
}

func TestHostLimitersShareBucket(t *testing.T) {
	l, err := newHostLimiters(0.001, 1, 2)
	require.NoError(t, err)

	a := &net.UDPAddr{IP: net.IPv4(10, 0, 0, 1), Port: 4000}
	b := &net.UDPAddr{IP: net.IPv4(10, 0, 0, 1), Port: 4001}
	require.Equal(t, "10.0.0.1", remoteHost(a))
	require.True(t, l.get(remoteHost(a)).Allow())
	require.False(t, l.get(remoteHost(b)).Allow())
	require.True(t, l.get("10.0.0.2").Allow())

	unlimited, err := newHostLimiters(0, 0, 0)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		require.True(t, unlimited.get("10.0.0.1").Allow())
	}
}

func TestNewServerValidation(t *testing.T) {
	_, err := NewServer(ServerConfig{})
	require.ErrorIs(t, err, ErrMissingKey)
	_, err = NewServer(ServerConfig{Psk: []byte{1}})
	require.ErrorIs(t, err, ErrUnknownSigner)

	kp, err := sign.GenerateKey()
	require.NoError(t, err)
	_, err = NewServer(ServerConfig{
		Psk:            make([]byte, MaxPskSize+1),
		AllowedSigners: []sign.PublicKey{kp.PublicKey},
	})
	require.ErrorIs(t, err, ErrPskTooLong)
	_, err = NewServer(ServerConfig{
		Psk:            make([]byte, MaxPskSize),
		AllowedSigners: []sign.PublicKey{kp.PublicKey},
	})
	require.NoError(t, err)
}

func TestClientPskTooLong(t *testing.T) {
	c := &Client{Connect: "127.0.0.1:1", Psk: make([]byte, MaxPskSize+1)}
	_, err := c.roundTrip(testContext(t), wire.Frame{Type: wire.MessageTypePaste}, wire.MessageTypeContent)
	require.ErrorIs(t, err, ErrPskTooLong)
}

func TestHandshakeLongPsk(t *testing.T) {
	psk := bytes.Repeat([]byte{3}, MaxPskSize+1)
	a, b := net.Pipe()
	defer b.Close()
	errc := make(chan error, 1)
	go func() { errc <- serverHandshake(b, psk) }()

	require.NotPanics(t, func() {
		require.ErrorIs(t, clientHandshake(a, psk), ErrPskTooLong)
	})
	a.Close()
	require.Error(t, <-errc)
}

func TestClientMissingKeys(t *testing.T) {
	ctx := testContext(t)
	_, err := (&Client{}).Paste(ctx)
	require.ErrorIs(t, err, ErrMissingKey)
	require.ErrorIs(t, (&Client{}).Copy(ctx, nil), ErrMissingKey)
}

func TestHandshakeOverPipe(t *testing.T) {
	psk := bytes.Repeat([]byte{1}, 32)

	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()
	errc := make(chan error, 1)
	go func() { errc <- serverHandshake(b, psk) }()
	require.NoError(t, clientHandshake(a, psk))
	require.NoError(t, <-errc)
}

func TestHandshakeRejectsWrongKey(t *testing.T) {
	a, b := net.Pipe()
	errc := make(chan error, 1)
	go func() {
		err := serverHandshake(b, bytes.Repeat([]byte{1}, 32))
		b.Close()
		errc <- err
	}()
	err := clientHandshake(a, bytes.Repeat([]byte{2}, 32))
	require.ErrorIs(t, err, ErrHandshakeFailed)
	require.ErrorIs(t, <-errc, ErrHandshakeFailed)
	a.Close()
}

func TestAuthDomainSeparation(t *testing.T) {
	psk := bytes.Repeat([]byte{1}, 32)
	r := make([]byte, 32)
	mustAuth := func(h [wire.DigestSize]byte, err error) [wire.DigestSize]byte {
		require.NoError(t, err)
		return h
	}
	h0 := mustAuth(auth0(psk, Version, r))
	require.NotEqual(t, h0, mustAuth(auth1(psk, Version, r)))
	require.NotEqual(t, h0, mustAuth(auth0(bytes.Repeat([]byte{2}, 32), Version, r)))
	require.Equal(t, h0, mustAuth(auth0(psk, Version, r)))

	_, err := auth0(make([]byte, MaxPskSize+1), Version, r)
	require.ErrorIs(t, err, ErrPskTooLong)
}

func TestStoreReplay(t *testing.T) {
	s, err := NewStore(2, time.Minute)
	require.NoError(t, err)
	kp, _ := sign.GenerateKey()
	payload := make([]byte, secretbox.NonceSize+secretbox.Overhead)

	var sig [sign.Overhead]byte
	require.NoError(t, s.Put(kp.PublicKey, sig, payload))
	require.ErrorIs(t, s.Put(kp.PublicKey, sig, payload), ErrReplay)
	require.ErrorIs(t, s.Put(kp.PublicKey, sig, payload[:10]), ErrMalformed)

	payload2 := append([]byte(nil), payload...)
	payload2[0] = 1
	require.NoError(t, s.Put(kp.PublicKey, sig, payload2))
	got, ok := s.Get(kp.PublicKey)
	require.True(t, ok)
	require.Equal(t, payload2, got.Payload)
}

func TestStoreEvictsOldestSigner(t *testing.T) {
	s, err := NewStore(2, time.Minute)
	require.NoError(t, err)
	var sig [sign.Overhead]byte
	var keys []sign.PublicKey
	for i := 0; i < 3; i++ {
		kp, _ := sign.GenerateKey()
		keys = append(keys, kp.PublicKey)
		payload := make([]byte, secretbox.NonceSize+secretbox.Overhead)
		payload[0] = byte(i)
		require.NoError(t, s.Put(kp.PublicKey, sig, payload))
	}
	require.Equal(t, 2, s.Len())
	_, ok := s.Get(keys[0])
	require.False(t, ok)
}
