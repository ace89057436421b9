// Package randombytes is the randomness source for every key and nonce generated by nacl.
package randombytes

import (
	"crypto/rand"
	"io"
)

// Reader is read by all generators. Tests may swap it for a deterministic source.
var Reader io.Reader = rand.Reader

// Read returns n random bytes.
func Read(n int) ([]byte, error) {
	b := make([]byte, n)
	if err := Fill(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Fill fills b with random bytes.
func Fill(b []byte) error {
	_, err := io.ReadFull(Reader, b)
	return err
}
