package nacl

import (
	"fmt"
	"sort"

	"github.com/TheusHen/tweetnacl/nacl/box"
	"github.com/TheusHen/tweetnacl/nacl/hash"
	"github.com/TheusHen/tweetnacl/nacl/onetimeauth"
	"github.com/TheusHen/tweetnacl/nacl/scalarmult"
	"github.com/TheusHen/tweetnacl/nacl/secretbox"
	"github.com/TheusHen/tweetnacl/nacl/sign"
	"github.com/TheusHen/tweetnacl/nacl/stream"
)

// Primitive describes one operation family and the constants it publishes.
type Primitive struct {
	Name           string // NaCl name, e.g. "crypto_box"
	Implementation string // e.g. "curve25519xsalsa20poly1305"
	Sizes          map[string]int
}

// Primitives lists the families in the order NaCl documents them.
var Primitives = []Primitive{
	{
		Name:           "crypto_box",
		Implementation: box.Primitive,
		Sizes: map[string]int{
			"PUBLICKEYBYTES": box.PublicKeySize,
			"SECRETKEYBYTES": box.SecretKeySize,
			"BEFORENMBYTES":  box.SharedKeySize,
			"NONCEBYTES":     box.NonceSize,
			"ZEROBYTES":      box.ZeroBytes,
			"BOXZEROBYTES":   box.BoxZeroBytes,
		},
	},
	{
		Name:           "crypto_scalarmult",
		Implementation: scalarmult.Primitive,
		Sizes: map[string]int{
			"BYTES":       scalarmult.Size,
			"SCALARBYTES": scalarmult.ScalarSize,
		},
	},
	{
		Name:           "crypto_sign",
		Implementation: sign.Primitive,
		Sizes: map[string]int{
			"BYTES":          sign.Overhead,
			"PUBLICKEYBYTES": sign.PublicKeySize,
			"SECRETKEYBYTES": sign.SecretKeySize,
		},
	},
	{
		Name:           "crypto_secretbox",
		Implementation: secretbox.Primitive,
		Sizes: map[string]int{
			"KEYBYTES":     secretbox.KeySize,
			"NONCEBYTES":   secretbox.NonceSize,
			"ZEROBYTES":    secretbox.ZeroBytes,
			"BOXZEROBYTES": secretbox.BoxZeroBytes,
		},
	},
	{
		Name:           "crypto_stream",
		Implementation: stream.Primitive,
		Sizes: map[string]int{
			"KEYBYTES":   stream.KeySize,
			"NONCEBYTES": stream.NonceSize,
		},
	},
	{
		Name:           "crypto_stream_salsa20",
		Implementation: "salsa20",
		Sizes: map[string]int{
			"KEYBYTES":   stream.KeySize,
			"NONCEBYTES": stream.Salsa20NonceSize,
		},
	},
	{
		Name:           "crypto_onetimeauth",
		Implementation: onetimeauth.Primitive,
		Sizes: map[string]int{
			"BYTES":    onetimeauth.Size,
			"KEYBYTES": onetimeauth.KeySize,
		},
	},
	{
		Name:           "crypto_hash",
		Implementation: hash.Primitive,
		Sizes: map[string]int{
			"BYTES": hash.Size,
		},
	},
	{
		Name:           "crypto_verify_16",
		Implementation: "ref",
		Sizes:          map[string]int{"BYTES": 16},
	},
	{
		Name:           "crypto_verify_32",
		Implementation: "ref",
		Sizes:          map[string]int{"BYTES": 32},
	},
}

// Lookup returns the primitive registered under the given NaCl name.
func Lookup(name string) (Primitive, bool) {
	for _, p := range Primitives {
		if p.Name == name {
			return p, true
		}
	}
	return Primitive{}, false
}

// Constant returns a published size as NaCl spells it, e.g. "crypto_box_NONCEBYTES".
func Constant(name string) (int, error) {
	for _, p := range Primitives {
		for k, v := range p.Sizes {
			if p.Name+"_"+k == name {
				return v, nil
			}
		}
	}
	return 0, fmt.Errorf("nacl: unknown constant %q", name)
}

// SortedSizes returns the size names of p in lexical order.
func (p Primitive) SortedSizes() []string {
	keys := make([]string, 0, len(p.Sizes))
	for k := range p.Sizes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
