package envelope

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/klauspost/reedsolomon"
)

// ShardMagic starts every shard produced by Split.
const ShardMagic = "NACS"

// shard header: magic | index | data | parity | original size (u64) | shard length (u32)
const shardHeaderSize = len(ShardMagic) + 3 + 8 + 4

var (
	ErrTooManyLost       = errors.New("envelope: too many shards lost, cannot recover")
	ErrInvalidShardCount = errors.New("envelope: invalid data/parity shard count")
	ErrBadShard          = errors.New("envelope: malformed shard")
	ErrShardMismatch     = errors.New("envelope: shards belong to different envelopes")
)

// ShardHeader describes one shard of a split envelope.
type ShardHeader struct {
	Index        uint8
	DataShards   uint8
	ParityShards uint8
	OriginalSize uint64
	ShardLength  uint32
}

func (h ShardHeader) compatible(o ShardHeader) bool {
	return h.DataShards == o.DataShards &&
		h.ParityShards == o.ParityShards &&
		h.OriginalSize == o.OriginalSize &&
		h.ShardLength == o.ShardLength
}

// ParseShard splits a shard into its header and body.
func ParseShard(b []byte) (ShardHeader, []byte, error) {
	var h ShardHeader
	if len(b) < shardHeaderSize || !bytes.Equal(b[:len(ShardMagic)], []byte(ShardMagic)) {
		return h, nil, ErrBadShard
	}
	p := b[len(ShardMagic):]
	h.Index, h.DataShards, h.ParityShards = p[0], p[1], p[2]
	h.OriginalSize = binary.BigEndian.Uint64(p[3:])
	h.ShardLength = binary.BigEndian.Uint32(p[11:])
	body := p[15:]
	if uint32(len(body)) != h.ShardLength || h.DataShards == 0 ||
		int(h.Index) >= int(h.DataShards)+int(h.ParityShards) {
		return h, nil, ErrBadShard
	}
	// The data shards must hold the whole envelope.
	if h.OriginalSize == 0 || h.OriginalSize > uint64(h.DataShards)*uint64(h.ShardLength) {
		return h, nil, ErrBadShard
	}
	return h, body, nil
}

func newEncoder(data, parity int) (reedsolomon.Encoder, error) {
	if data <= 0 || parity <= 0 || data+parity > 256 {
		return nil, ErrInvalidShardCount
	}
	return reedsolomon.New(data, parity)
}

// Split erasure-codes an envelope into data+parity self-describing shards.
// Any parity of them may be lost.
func Split(envelope []byte, data, parity int) ([][]byte, error) {
	enc, err := newEncoder(data, parity)
	if err != nil {
		return nil, err
	}
	if len(envelope) == 0 {
		return nil, ErrTruncated
	}
	shards, err := enc.Split(envelope)
	if err != nil {
		return nil, err
	}
	if err := enc.Encode(shards); err != nil {
		return nil, err
	}

	out := make([][]byte, len(shards))
	for i, s := range shards {
		b := make([]byte, 0, shardHeaderSize+len(s))
		b = append(b, ShardMagic...)
		b = append(b, byte(i), byte(data), byte(parity))
		b = binary.BigEndian.AppendUint64(b, uint64(len(envelope)))
		b = binary.BigEndian.AppendUint32(b, uint32(len(s)))
		out[i] = append(b, s...)
	}
	return out, nil
}

// Join reassembles an envelope from any sufficient subset of its shards,
// given in any order.
func Join(shards [][]byte) ([]byte, error) {
	var (
		ref    *ShardHeader
		bodies [][]byte
	)
	for _, s := range shards {
		h, body, err := ParseShard(s)
		if err != nil {
			return nil, err
		}
		if ref == nil {
			ref = &h
			bodies = make([][]byte, int(h.DataShards)+int(h.ParityShards))
		} else if !ref.compatible(h) {
			return nil, ErrShardMismatch
		}
		bodies[h.Index] = body
	}
	if ref == nil {
		return nil, ErrTooManyLost
	}

	enc, err := newEncoder(int(ref.DataShards), int(ref.ParityShards))
	if err != nil {
		return nil, err
	}
	if err := enc.ReconstructData(bodies); err != nil {
		if errors.Is(err, reedsolomon.ErrTooFewShards) {
			return nil, ErrTooManyLost
		}
		return nil, err
	}

	var buf bytes.Buffer
	if err := enc.Join(&buf, bodies, int(ref.OriginalSize)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
