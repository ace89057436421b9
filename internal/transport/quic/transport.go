// Package quic wraps quic-go for the naclbox relay.
package quic

import (
	"context"
	"net"
	"time"

	q "github.com/quic-go/quic-go"
)

type (
	Connection = q.Connection
	Stream     = q.Stream
)

// Config holds the transport knobs the relay exposes.
type Config struct {
	HandshakeTimeout time.Duration
	IdleTimeout      time.Duration
}

func (c Config) quic() *q.Config {
	return &q.Config{
		HandshakeIdleTimeout: c.HandshakeTimeout,
		MaxIdleTimeout:       c.IdleTimeout,
	}
}

type Listener struct {
	inner *q.Listener
}

func Listen(addr string, cfg Config) (*Listener, error) {
	tlsConf, err := NewServerTLSConfig()
	if err != nil {
		return nil, err
	}
	ln, err := q.ListenAddr(addr, tlsConf, cfg.quic())
	if err != nil {
		return nil, err
	}
	return &Listener{inner: ln}, nil
}

func (l *Listener) Accept(ctx context.Context) (Connection, error) {
	return l.inner.Accept(ctx)
}

func (l *Listener) Addr() net.Addr { return l.inner.Addr() }

func (l *Listener) Close() error { return l.inner.Close() }

func Dial(ctx context.Context, addr string, cfg Config) (Connection, error) {
	return q.DialAddr(ctx, addr, NewClientTLSConfig(), cfg.quic())
}
