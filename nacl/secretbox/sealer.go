package secretbox

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/TheusHen/tweetnacl/nacl/randombytes"
)

// Sealer wraps a key with automatic nonce management.
// Nonces are a 16-byte random prefix followed by a 64-bit big endian counter,
// so one Sealer never repeats a nonce and independent Sealers sharing a key
// collide only if their prefixes do.
type Sealer struct {
	key    Key
	prefix [16]byte
	seq    atomic.Uint64
}

// NewSealer creates a Sealer for key.
func NewSealer(key Key) (*Sealer, error) {
	s := &Sealer{key: key}
	if err := randombytes.Fill(s.prefix[:]); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Sealer) nextNonce() Nonce {
	var n Nonce
	copy(n[:16], s.prefix[:])
	binary.BigEndian.PutUint64(n[16:], s.seq.Add(1))
	return n
}

// Seal encrypts plaintext.
// Returns: nonce (24 bytes) || box
func (s *Sealer) Seal(plaintext []byte) []byte {
	nonce := s.nextNonce()
	box := Seal(plaintext, &nonce, &s.key)
	out := make([]byte, NonceSize+len(box))
	copy(out, nonce[:])
	copy(out[NonceSize:], box)
	return out
}

// Open decrypts the output of Seal.
func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	return OpenWithNonce(sealed, &s.key)
}

// OpenWithNonce decrypts nonce || box under key.
func OpenWithNonce(sealed []byte, key *Key) ([]byte, error) {
	if len(sealed) < NonceSize+Overhead {
		return nil, ErrCiphertextTooShort
	}
	nonce, _ := ParseNonce(sealed[:NonceSize])
	return Open(sealed[NonceSize:], &nonce, key)
}

// Overhead returns the bytes Seal adds to a plaintext.
func (s *Sealer) Overhead() int { return NonceSize + Overhead }
