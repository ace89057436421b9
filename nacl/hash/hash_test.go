package hash

import (
	"encoding/hex"
	"strings"
	"testing"
)

func TestSumVectors(t *testing.T) {
	cases := []struct {
		in, out string
	}{
		{"", "cf83e1357eefb8bdf1542850d66d8007d620e4050b5715dc83f4a921d36ce9ce47d0d13c5d85f2b0ff8318d2877eec2f63b931bd47417a81a538327af927da3e"},
		{"abc", "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f"},
	}
	for _, c := range cases {
		sum := Sum([]byte(c.in))
		if got := hex.EncodeToString(sum[:]); got != c.out {
			t.Fatalf("Sum(%q) = %s, want %s", c.in, got, c.out)
		}
		if SHA512([]byte(c.in)) != sum {
			t.Fatalf("SHA512 and Sum disagree for %q", c.in)
		}
	}
}

func BenchmarkSum(b *testing.B) {
	msg := []byte(strings.Repeat("H", 1000))
	b.SetBytes(int64(len(msg)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Sum(msg)
	}
}
