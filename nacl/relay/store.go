package relay

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/patrickmn/go-cache"

	"github.com/TheusHen/tweetnacl/internal/wire"
	"github.com/TheusHen/tweetnacl/nacl/secretbox"
	"github.com/TheusHen/tweetnacl/nacl/sign"
)

// Stored is the latest content copied by one signer.
type Stored struct {
	Signature [sign.Overhead]byte
	// Payload is nonce || secretbox, opaque to the server.
	Payload []byte
	At      time.Time
}

// Store keeps one entry per signer, evicting least recently used signers,
// and remembers recent nonces to refuse replays.
type Store struct {
	mu      sync.Mutex
	entries *lru.Cache
	seen    *cache.Cache
	ttl     time.Duration
}

func NewStore(size int, replayTTL time.Duration) (*Store, error) {
	entries, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Store{
		entries: entries,
		seen:    cache.New(replayTTL, replayTTL),
		ttl:     replayTTL,
	}, nil
}

// Put records payload under signer. The signature must already be verified.
func (s *Store) Put(signer sign.PublicKey, sig [sign.Overhead]byte, payload []byte) error {
	if len(payload) < secretbox.NonceSize+secretbox.Overhead {
		return ErrMalformed
	}
	key := string(signer[:]) + string(payload[:secretbox.NonceSize])

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.seen.Add(key, struct{}{}, s.ttl); err != nil {
		return ErrReplay
	}
	s.entries.Add(signer, Stored{Signature: sig, Payload: payload, At: time.Now()})
	return nil
}

// Get returns the content stored under signer.
func (s *Store) Get(signer sign.PublicKey) (Stored, bool) {
	v, ok := s.entries.Get(signer)
	if !ok {
		return Stored{}, false
	}
	return v.(Stored), true
}

// Len is the number of signers with stored content.
func (s *Store) Len() int { return s.entries.Len() }

func signerKey(b [wire.KeySize]byte) sign.PublicKey { return sign.PublicKey(b) }
