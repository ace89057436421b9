package nacl

import "testing"

func TestConstant(t *testing.T) {
	cases := map[string]int{
		"crypto_box_NONCEBYTES":            24,
		"crypto_box_BEFORENMBYTES":         32,
		"crypto_secretbox_KEYBYTES":        32,
		"crypto_sign_BYTES":                64,
		"crypto_sign_SECRETKEYBYTES":       64,
		"crypto_onetimeauth_KEYBYTES":      32,
		"crypto_onetimeauth_BYTES":         16,
		"crypto_stream_salsa20_NONCEBYTES": 8,
		"crypto_hash_BYTES":                64,
	}
	for name, want := range cases {
		got, err := Constant(name)
		if err != nil {
			t.Fatalf("Constant(%s): %v", name, err)
		}
		if got != want {
			t.Fatalf("%s = %d, want %d", name, got, want)
		}
	}
	if _, err := Constant("crypto_box_BOGUS"); err == nil {
		t.Fatalf("expected error for unknown constant")
	}
}

func TestLookup(t *testing.T) {
	p, ok := Lookup("crypto_box")
	if !ok {
		t.Fatalf("crypto_box not registered")
	}
	if p.Implementation != "curve25519xsalsa20poly1305" {
		t.Fatalf("unexpected implementation %q", p.Implementation)
	}
	if _, ok := Lookup("crypto_nothing"); ok {
		t.Fatalf("unexpected primitive")
	}
}
