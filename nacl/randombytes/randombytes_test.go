package randombytes

import (
	"bytes"
	"errors"
	"testing"
)

func TestRead(t *testing.T) {
	a, err := Read(32)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	b, err := Read(32)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(a) != 32 || len(b) != 32 {
		t.Fatalf("unexpected lengths %d %d", len(a), len(b))
	}
	if bytes.Equal(a, b) {
		t.Fatalf("two reads returned identical bytes")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("no entropy") }

func TestReadPropagatesError(t *testing.T) {
	saved := Reader
	Reader = failingReader{}
	defer func() { Reader = saved }()

	if _, err := Read(8); err == nil {
		t.Fatalf("expected error from failing reader")
	}
}
