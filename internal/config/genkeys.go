package config

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/TheusHen/tweetnacl/nacl/randombytes"
	"github.com/TheusHen/tweetnacl/nacl/secretbox"
	"github.com/TheusHen/tweetnacl/nacl/sign"
)

// GenerateKeys writes fresh client, server and hybrid configuration
// snippets to w. Listen and Connect are taken from conf.
func GenerateKeys(w io.Writer, conf Config, configFile string) error {
	psk, err := randombytes.Read(PskSize)
	if err != nil {
		return err
	}
	encryptSk, err := secretbox.GenerateKey()
	if err != nil {
		return err
	}
	kp, err := sign.GenerateKey()
	if err != nil {
		return err
	}
	pskHex := hex.EncodeToString(psk)
	encryptSkHex := hex.EncodeToString(encryptSk[:])
	signPkHex := hex.EncodeToString(kp.PublicKey[:])
	signSkHex := hex.EncodeToString(kp.SecretKey.Seed())

	fmt.Fprintf(w, "\n\n--- Create a file named %s with only the lines relevant to your configuration ---\n\n\n", configFile)
	fmt.Fprintf(w, "# Configuration for a client\n\n")
	fmt.Fprintf(w, "Connect   = %q\t# Edit appropriately\n", conf.Connect)
	fmt.Fprintf(w, "Psk       = %q\n", pskHex)
	fmt.Fprintf(w, "SignPk    = %q\n", signPkHex)
	fmt.Fprintf(w, "SignSk    = %q\n", signSkHex)
	fmt.Fprintf(w, "EncryptSk = %q\n", encryptSkHex)

	fmt.Fprintf(w, "\n\n")

	fmt.Fprintf(w, "# Configuration for a server\n\n")
	fmt.Fprintf(w, "Listen = %q\t# Edit appropriately\n", conf.Listen)
	fmt.Fprintf(w, "Psk    = %q\n", pskHex)
	fmt.Fprintf(w, "SignPk = %q\n", signPkHex)

	fmt.Fprintf(w, "\n\n")

	fmt.Fprintf(w, "# Hybrid configuration\n\n")
	fmt.Fprintf(w, "Connect   = %q\t# Edit appropriately\n", conf.Connect)
	fmt.Fprintf(w, "Listen    = %q\t# Edit appropriately\n", conf.Listen)
	fmt.Fprintf(w, "Psk       = %q\n", pskHex)
	fmt.Fprintf(w, "SignPk    = %q\n", signPkHex)
	fmt.Fprintf(w, "SignSk    = %q\n", signSkHex)
	_, err = fmt.Fprintf(w, "EncryptSk = %q\n", encryptSkHex)
	return err
}
