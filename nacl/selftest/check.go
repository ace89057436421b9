package selftest

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// message mirrors the benchmark input: 'H' repeated 1000 times.
var message = bytes.Repeat([]byte("H"), 1000)

func expect(ok bool, format string, args ...interface{}) error {
	if ok {
		return nil
	}
	return fmt.Errorf(format, args...)
}

func expectHex(name string, got []byte, want string) error {
	if h := hex.EncodeToString(got); h != want {
		return fmt.Errorf("%s = %s, want %s", name, h, want)
	}
	return nil
}

func unhex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

// firstError returns the first non-nil error.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// flipped returns a copy of b with one bit of byte i inverted.
func flipped(b []byte, i int) []byte {
	out := append([]byte(nil), b...)
	out[i] ^= 0x01
	return out
}

// probes picks a handful of positions to tamper with instead of every byte.
func probes(n int) []int {
	if n == 0 {
		return nil
	}
	return []int{0, n / 2, n - 1}
}
