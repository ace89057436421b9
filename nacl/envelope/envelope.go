// Package envelope defines the sealed-file format written by `naclbox seal`.
//
// An envelope is a small cleartext header followed by a secretbox or box:
//
//	4 bytes: magic "NACL"
//	1 byte: version
//	1 byte: mode (1 secretbox, 2 box)
//	1 byte: flags (bit 0: payload is lz4 compressed before sealing)
//	24 bytes: nonce
//	32 bytes: sender public key (box mode only)
//	4 bytes: sealed payload length (big endian)
//	N bytes: sealed payload
package envelope

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/TheusHen/tweetnacl/nacl/box"
	"github.com/TheusHen/tweetnacl/nacl/secretbox"
)

const (
	Magic   = "NACL"
	Version = 1

	// MaxPayload bounds the sealed payload length accepted by Open.
	MaxPayload = 1 << 30
)

// Mode selects the primitive that sealed the payload.
type Mode uint8

const (
	ModeSecretbox Mode = 1
	ModeBox       Mode = 2
)

func (m Mode) String() string {
	switch m {
	case ModeSecretbox:
		return "secretbox"
	case ModeBox:
		return "box"
	default:
		return "unknown"
	}
}

const flagCompressed = 1 << 0

var (
	ErrBadMagic           = errors.New("envelope: bad magic")
	ErrUnsupportedVersion = errors.New("envelope: unsupported version")
	ErrUnknownMode        = errors.New("envelope: unknown mode")
	ErrTruncated          = errors.New("envelope: truncated")
	ErrPayloadTooLarge    = errors.New("envelope: payload too large")
	ErrMissingKey         = errors.New("envelope: no key for this mode")
	ErrOpenFailed         = errors.New("envelope: payload fails verification")
)

// Options control sealing.
type Options struct {
	Compress bool
	Level    Level
	// Cache, when set, reuses box shared keys across SealBox calls.
	Cache *box.KeyCache
}

// Header is the cleartext part of an envelope.
type Header struct {
	Version    uint8
	Mode       Mode
	Compressed bool
	Nonce      [24]byte
	Sender     box.PublicKey
	Length     uint32
}

// Keys holds whatever the caller can open with. Only the key for the
// envelope's mode is needed.
type Keys struct {
	Secret *secretbox.Key
	Box    *box.SecretKey
	// Sender, when set, must match the box sender in the header.
	Sender *box.PublicKey
	// Cache, when set, reuses box shared keys across Open calls.
	Cache *box.KeyCache
}

func headerSize(m Mode) int {
	n := len(Magic) + 3 + 24 + 4
	if m == ModeBox {
		n += box.PublicKeySize
	}
	return n
}

func (h Header) marshal(payload []byte) []byte {
	out := make([]byte, 0, headerSize(h.Mode)+len(payload))
	out = append(out, Magic...)
	out = append(out, h.Version, byte(h.Mode))
	var flags byte
	if h.Compressed {
		flags |= flagCompressed
	}
	out = append(out, flags)
	out = append(out, h.Nonce[:]...)
	if h.Mode == ModeBox {
		out = append(out, h.Sender[:]...)
	}
	out = binary.BigEndian.AppendUint32(out, uint32(len(payload)))
	return append(out, payload...)
}

// Inspect parses the header and returns it with the sealed payload.
func Inspect(data []byte) (Header, []byte, error) {
	var h Header
	if len(data) < len(Magic)+3 {
		return h, nil, ErrTruncated
	}
	if !bytes.Equal(data[:len(Magic)], []byte(Magic)) {
		return h, nil, ErrBadMagic
	}
	h.Version = data[4]
	if h.Version != Version {
		return h, nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	h.Mode = Mode(data[5])
	if h.Mode != ModeSecretbox && h.Mode != ModeBox {
		return h, nil, fmt.Errorf("%w: %d", ErrUnknownMode, data[5])
	}
	h.Compressed = data[6]&flagCompressed != 0
	if len(data) < headerSize(h.Mode) {
		return h, nil, ErrTruncated
	}
	rest := data[7:]
	copy(h.Nonce[:], rest)
	rest = rest[24:]
	if h.Mode == ModeBox {
		copy(h.Sender[:], rest)
		rest = rest[box.PublicKeySize:]
	}
	h.Length = binary.BigEndian.Uint32(rest)
	rest = rest[4:]
	if h.Length > MaxPayload {
		return h, nil, ErrPayloadTooLarge
	}
	if uint32(len(rest)) < h.Length {
		return h, nil, ErrTruncated
	}
	return h, rest[:h.Length], nil
}

func prepare(plain []byte, opts Options) ([]byte, bool) {
	if !opts.Compress {
		return plain, false
	}
	return maybeCompress(plain, opts.Level)
}

// SealSecret seals plain under a shared secretbox key.
func SealSecret(plain []byte, key *secretbox.Key, opts Options) ([]byte, error) {
	nonce, err := secretbox.NewNonce()
	if err != nil {
		return nil, err
	}
	body, compressed := prepare(plain, opts)
	h := Header{Version: Version, Mode: ModeSecretbox, Compressed: compressed, Nonce: nonce}
	return h.marshal(secretbox.Seal(body, &nonce, key)), nil
}

// SealBox seals plain from sender to recipient. The sender's public key is
// carried in the header so the recipient needs only its own secret key.
func SealBox(plain []byte, recipient *box.PublicKey, sender box.KeyPair, opts Options) ([]byte, error) {
	nonce, err := box.NewNonce()
	if err != nil {
		return nil, err
	}
	body, compressed := prepare(plain, opts)
	h := Header{
		Version:    Version,
		Mode:       ModeBox,
		Compressed: compressed,
		Nonce:      nonce,
		Sender:     sender.PublicKey,
	}
	if opts.Cache != nil {
		return h.marshal(opts.Cache.Seal(body, &nonce, recipient, &sender.SecretKey)), nil
	}
	return h.marshal(box.Seal(body, &nonce, recipient, &sender.SecretKey)), nil
}

// Open verifies and decrypts an envelope.
func Open(data []byte, keys Keys) ([]byte, error) {
	h, sealed, err := Inspect(data)
	if err != nil {
		return nil, err
	}

	var body []byte
	switch h.Mode {
	case ModeSecretbox:
		if keys.Secret == nil {
			return nil, ErrMissingKey
		}
		n := secretbox.Nonce(h.Nonce)
		body, err = secretbox.Open(sealed, &n, keys.Secret)
	case ModeBox:
		if keys.Box == nil {
			return nil, ErrMissingKey
		}
		if keys.Sender != nil && *keys.Sender != h.Sender {
			return nil, ErrOpenFailed
		}
		n := box.Nonce(h.Nonce)
		if keys.Cache != nil {
			body, err = keys.Cache.Open(sealed, &n, &h.Sender, keys.Box)
		} else {
			body, err = box.Open(sealed, &n, &h.Sender, keys.Box)
		}
	}
	if err != nil {
		return nil, ErrOpenFailed
	}
	if !h.Compressed {
		return body, nil
	}
	return decompress(body, MaxPayload)
}
