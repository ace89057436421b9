package envelope

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/pierrec/lz4/v4"
)

var (
	ErrCompressionFailed   = errors.New("envelope: compression failed")
	ErrDecompressionFailed = errors.New("envelope: decompression failed")
)

// Level trades compression speed for ratio.
type Level int

const (
	LevelDefault Level = iota
	LevelFast
	LevelBest
)

var writerPool = sync.Pool{
	New: func() interface{} { return lz4.NewWriter(nil) },
}

var readerPool = sync.Pool{
	New: func() interface{} { return lz4.NewReader(nil) },
}

func (l Level) option() lz4.Option {
	switch l {
	case LevelFast:
		return lz4.CompressionLevelOption(lz4.Fast)
	case LevelBest:
		return lz4.CompressionLevelOption(lz4.Level9)
	default:
		return lz4.CompressionLevelOption(lz4.Level4)
	}
}

func compress(data []byte, level Level) ([]byte, error) {
	var buf bytes.Buffer
	w := writerPool.Get().(*lz4.Writer)
	defer writerPool.Put(w)

	w.Reset(&buf)
	if err := w.Apply(level.option()); err != nil {
		return nil, ErrCompressionFailed
	}
	if _, err := w.Write(data); err != nil {
		return nil, ErrCompressionFailed
	}
	if err := w.Close(); err != nil {
		return nil, ErrCompressionFailed
	}
	return buf.Bytes(), nil
}

// decompress inflates an lz4 frame, failing with ErrPayloadTooLarge once
// the output passes limit bytes.
func decompress(data []byte, limit int64) ([]byte, error) {
	r := readerPool.Get().(*lz4.Reader)
	defer readerPool.Put(r)

	r.Reset(bytes.NewReader(data))
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, limit+1))
	if err != nil {
		return nil, ErrDecompressionFailed
	}
	if n > limit {
		return nil, ErrPayloadTooLarge
	}
	return buf.Bytes(), nil
}

// maybeCompress returns the lz4 frame of data when it is smaller.
func maybeCompress(data []byte, level Level) ([]byte, bool) {
	c, err := compress(data, level)
	if err != nil || len(c) >= len(data) {
		return data, false
	}
	return c, true
}
