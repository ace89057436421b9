package box

import (
	lru "github.com/hashicorp/golang-lru"
)

// DefaultKeyCacheSize bounds a KeyCache created with size <= 0.
const DefaultKeyCacheSize = 256

type cacheKey struct {
	peer PublicKey
	sk   SecretKey
}

// KeyCache memoizes Precompute for repeated traffic between the same keys.
// It is safe for concurrent use.
type KeyCache struct {
	lru *lru.Cache
}

// NewKeyCache creates a cache holding at most size shared keys.
func NewKeyCache(size int) (*KeyCache, error) {
	if size <= 0 {
		size = DefaultKeyCacheSize
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &KeyCache{lru: c}, nil
}

// SharedKey returns Precompute(peer, sk), computing it at most once while cached.
func (c *KeyCache) SharedKey(peer *PublicKey, sk *SecretKey) SharedKey {
	ck := cacheKey{peer: *peer, sk: *sk}
	if v, ok := c.lru.Get(ck); ok {
		return v.(SharedKey)
	}
	k := Precompute(peer, sk)
	c.lru.Add(ck, k)
	return k
}

// Seal is Seal using a cached shared key.
func (c *KeyCache) Seal(message []byte, nonce *Nonce, peer *PublicKey, sk *SecretKey) []byte {
	k := c.SharedKey(peer, sk)
	return SealAfterPrecomputation(message, nonce, &k)
}

// Open is Open using a cached shared key.
func (c *KeyCache) Open(b []byte, nonce *Nonce, peer *PublicKey, sk *SecretKey) ([]byte, error) {
	k := c.SharedKey(peer, sk)
	return OpenAfterPrecomputation(b, nonce, &k)
}

// Len returns the number of cached shared keys.
func (c *KeyCache) Len() int { return c.lru.Len() }

// Purge drops every cached shared key.
func (c *KeyCache) Purge() { c.lru.Purge() }
