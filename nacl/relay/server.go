package relay

import (
	"context"
	"encoding/hex"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/TheusHen/tweetnacl/internal/transport/quic"
	"github.com/TheusHen/tweetnacl/internal/wire"
	"github.com/TheusHen/tweetnacl/nacl/sign"
)

// ServerConfig configures a relay Server.
type ServerConfig struct {
	Psk            []byte
	AllowedSigners []sign.PublicKey
	StoreSize      int
	ReplayTTL      time.Duration
	// RateLimit is operations per second per remote host; zero disables it.
	RateLimit float64
	RateBurst int
	// LimiterHosts bounds the number of hosts tracked by the rate limiter.
	LimiterHosts int
	Transport    quic.Config
	Logger       logrus.FieldLogger
}

// Server stores sealed clipboard content for allowed signers.
type Server struct {
	conf     ServerConfig
	store    *Store
	allowed  map[sign.PublicKey]bool
	limiters *hostLimiters
	log      logrus.FieldLogger
	wg       sync.WaitGroup
}

func NewServer(conf ServerConfig) (*Server, error) {
	if err := checkPsk(conf.Psk); err != nil {
		return nil, err
	}
	if len(conf.AllowedSigners) == 0 {
		return nil, ErrUnknownSigner
	}
	if conf.StoreSize <= 0 {
		conf.StoreSize = 1024
	}
	if conf.ReplayTTL <= 0 {
		conf.ReplayTTL = 10 * time.Minute
	}
	if conf.RateBurst <= 0 {
		conf.RateBurst = 1
	}
	if conf.Logger == nil {
		conf.Logger = logrus.StandardLogger()
	}
	store, err := NewStore(conf.StoreSize, conf.ReplayTTL)
	if err != nil {
		return nil, err
	}
	limiters, err := newHostLimiters(conf.RateLimit, conf.RateBurst, conf.LimiterHosts)
	if err != nil {
		return nil, err
	}
	allowed := make(map[sign.PublicKey]bool, len(conf.AllowedSigners))
	for _, pk := range conf.AllowedSigners {
		allowed[pk] = true
	}
	return &Server{conf: conf, store: store, allowed: allowed, limiters: limiters, log: conf.Logger}, nil
}

// Store exposes the server's content store.
func (s *Server) Store() *Store { return s.store }

// ListenAndServe listens on addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := quic.Listen(addr, s.conf.Transport)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then closes ln and
// waits for in-flight connections.
func (s *Server) Serve(ctx context.Context, ln *quic.Listener) error {
	defer s.wg.Wait()
	defer ln.Close()
	s.log.WithField("addr", ln.Addr().String()).Info("relay listening")
	for {
		conn, err := ln.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(ctx, conn)
		}()
	}
}

func (s *Server) handleConn(ctx context.Context, conn quic.Connection) {
	log := s.log.WithField("remote", conn.RemoteAddr().String())
	log.Debug("connection accepted")
	limiter := s.limiters.get(remoteHost(conn.RemoteAddr()))
	var wg sync.WaitGroup
	defer conn.CloseWithError(0, "")
	defer wg.Wait()
	for {
		st, err := conn.AcceptStream(ctx)
		if err != nil {
			log.WithError(err).Debug("connection closed")
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer st.Close()
			s.handleStream(st, limiter, log)
		}()
	}
}

func (s *Server) handleStream(st quic.Stream, limiter *rate.Limiter, log logrus.FieldLogger) {
	if err := serverHandshake(st, s.conf.Psk); err != nil {
		log.WithError(err).Warn("handshake rejected")
		st.CancelRead(0)
		return
	}
	f, err := wire.ReadFrame(st)
	if err != nil {
		log.WithError(err).Debug("read request")
		return
	}
	log = log.WithField("op", f.Type.String())
	if !limiter.Allow() {
		s.fail(st, log, ErrRateLimited)
		return
	}

	var resp wire.Frame
	switch f.Type {
	case wire.MessageTypeCopy:
		resp, err = s.handleCopy(f.Payload, log)
	case wire.MessageTypePaste:
		resp, err = s.handlePaste(f.Payload, log)
	default:
		err = ErrMalformed
	}
	if err != nil {
		s.fail(st, log, err)
		return
	}
	if err := wire.WriteFrame(st, resp); err != nil {
		log.WithError(err).Debug("write response")
	}
}

func (s *Server) fail(st quic.Stream, log logrus.FieldLogger, err error) {
	log.WithError(err).Warn("request rejected")
	_ = wire.WriteFrame(st, wire.Frame{Type: wire.MessageTypeError, Payload: []byte(err.Error())})
}

func shortKey(pk sign.PublicKey) string { return hex.EncodeToString(pk[:8]) }

func (s *Server) handleCopy(payload []byte, log logrus.FieldLogger) (wire.Frame, error) {
	m, err := wire.UnmarshalCopy(payload)
	if err != nil {
		return wire.Frame{}, ErrMalformed
	}
	signer := signerKey(m.Signer)
	log = log.WithField("signer", shortKey(signer))
	if !s.allowed[signer] {
		return wire.Frame{}, ErrUnknownSigner
	}
	if !sign.VerifyDetached(m.Payload, m.Signature[:], &signer) {
		return wire.Frame{}, ErrBadSignature
	}
	if err := s.store.Put(signer, m.Signature, m.Payload); err != nil {
		return wire.Frame{}, err
	}
	log.WithField("bytes", len(m.Payload)).Info("content stored")
	return wire.Frame{Type: wire.MessageTypeAck}, nil
}

func (s *Server) handlePaste(payload []byte, log logrus.FieldLogger) (wire.Frame, error) {
	m, err := wire.UnmarshalPaste(payload)
	if err != nil {
		return wire.Frame{}, ErrMalformed
	}
	signer := signerKey(m.Signer)
	log = log.WithField("signer", shortKey(signer))
	if !s.allowed[signer] {
		return wire.Frame{}, ErrUnknownSigner
	}
	stored, ok := s.store.Get(signer)
	if !ok {
		return wire.Frame{}, ErrEmpty
	}
	log.WithField("bytes", len(stored.Payload)).Info("content served")
	c := wire.Content{Signature: stored.Signature, Payload: stored.Payload}
	return wire.Frame{Type: wire.MessageTypeContent, Payload: c.Marshal()}, nil
}
