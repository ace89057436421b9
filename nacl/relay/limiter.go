package relay

import (
	"net"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/time/rate"
)

// DefaultLimiterHosts bounds how many remote hosts keep a token bucket.
const DefaultLimiterHosts = 4096

// hostLimiters hands out one token bucket per remote host, so redialing
// does not reset a client's budget.
type hostLimiters struct {
	limit rate.Limit
	burst int
	hosts *lru.Cache
}

func newHostLimiters(limit float64, burst, size int) (*hostLimiters, error) {
	if size <= 0 {
		size = DefaultLimiterHosts
	}
	hosts, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	l := &hostLimiters{limit: rate.Inf, hosts: hosts}
	if limit > 0 {
		l.limit, l.burst = rate.Limit(limit), burst
	}
	return l, nil
}

func (h *hostLimiters) get(host string) *rate.Limiter {
	if v, ok := h.hosts.Get(host); ok {
		return v.(*rate.Limiter)
	}
	fresh := rate.NewLimiter(h.limit, h.burst)
	if prev, ok, _ := h.hosts.PeekOrAdd(host, fresh); ok {
		return prev.(*rate.Limiter)
	}
	return fresh
}

// remoteHost drops the port from addr.
func remoteHost(addr net.Addr) string {
	switch a := addr.(type) {
	case *net.UDPAddr:
		return a.IP.String()
	case *net.TCPAddr:
		return a.IP.String()
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
