package main

import (
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/TheusHen/tweetnacl/internal/config"
	"github.com/TheusHen/tweetnacl/nacl/box"
	"github.com/TheusHen/tweetnacl/nacl/secretbox"
	"github.com/TheusHen/tweetnacl/nacl/sign"
)

var (
	keygenCommand = &cli.Command{
		Name:  "keygen",
		Usage: "generate keys",
		Description: `
Without flags, print configuration snippets with a fresh pre-shared key,
signing keypair and encryption key. With --box, --sign or --secretbox,
print a single key or keypair as hex.
`,
		Action: runKeygen,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "box", Usage: "print a crypto_box keypair"},
			&cli.BoolFlag{Name: "sign", Usage: "print a crypto_sign keypair"},
			&cli.BoolFlag{Name: "secretbox", Usage: "print a crypto_secretbox key"},
		},
	}
	signCommand = &cli.Command{
		Name:   "sign",
		Usage:  "sign input with an Ed25519 secret key",
		Action: runSign,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "sk", Usage: "hex secret key or seed (default: SignSk from config)"},
			&cli.BoolFlag{Name: "detached", Usage: "write only the 64-byte signature, hex encoded"},
			inFlag,
			outFlag,
		},
	}
	verifyCommand = &cli.Command{
		Name:   "verify",
		Usage:  "verify a signed message, or a detached signature with --sig",
		Action: runVerify,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "pk", Usage: "hex public key (default: SignPk from config)"},
			&cli.StringFlag{Name: "sig", Usage: "hex detached signature"},
			inFlag,
			outFlag,
		},
	}
)

func runKeygen(ctx *cli.Context) error {
	out := ctx.App.Writer
	switch {
	case ctx.Bool("box"):
		kp, err := box.GenerateKey()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "pk = %s\nsk = %s\n", hex.EncodeToString(kp.PublicKey[:]), hex.EncodeToString(kp.SecretKey[:]))
	case ctx.Bool("sign"):
		kp, err := sign.GenerateKey()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "pk = %s\nsk = %s\n", hex.EncodeToString(kp.PublicKey[:]), hex.EncodeToString(kp.SecretKey.Seed()))
	case ctx.Bool("secretbox"):
		k, err := secretbox.GenerateKey()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "key = %s\n", hex.EncodeToString(k[:]))
	default:
		conf, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		return config.GenerateKeys(out, conf, ctx.String(configFileFlag.Name))
	}
	return nil
}

func signingKey(ctx *cli.Context) (*sign.SecretKey, error) {
	if ctx.IsSet("sk") {
		b, err := hexFlag(ctx, "sk")
		if err != nil {
			return nil, err
		}
		sk, err := sign.ParseSecretKey(b)
		if err != nil {
			return nil, errors.Wrap(err, "--sk")
		}
		return &sk, nil
	}
	conf, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	if conf.SignSk == nil {
		return nil, errors.New("no --sk given and SignSk is not configured")
	}
	return conf.SignSk, nil
}

func verifyingKey(ctx *cli.Context) (*sign.PublicKey, error) {
	if ctx.IsSet("pk") {
		b, err := hexFlag(ctx, "pk")
		if err != nil {
			return nil, err
		}
		pk, err := sign.ParsePublicKey(b)
		if err != nil {
			return nil, errors.Wrap(err, "--pk")
		}
		return &pk, nil
	}
	conf, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	if conf.SignPk == nil {
		return nil, errors.New("no --pk given and SignPk is not configured")
	}
	return conf.SignPk, nil
}

func runSign(ctx *cli.Context) error {
	sk, err := signingKey(ctx)
	if err != nil {
		return err
	}
	msg, err := readInput(ctx)
	if err != nil {
		return err
	}
	if ctx.Bool("detached") {
		return writeOutput(ctx, []byte(hex.EncodeToString(sign.SignDetached(msg, sk))+"\n"))
	}
	return writeOutput(ctx, sign.Sign(msg, sk))
}

func runVerify(ctx *cli.Context) error {
	pk, err := verifyingKey(ctx)
	if err != nil {
		return err
	}
	data, err := readInput(ctx)
	if err != nil {
		return err
	}
	if ctx.IsSet("sig") {
		sig, err := hexFlag(ctx, "sig")
		if err != nil {
			return err
		}
		if !sign.VerifyDetached(data, sig, pk) {
			return sign.ErrInvalidSignature
		}
		fmt.Fprintln(ctx.App.ErrWriter, "signature ok")
		return nil
	}
	msg, err := sign.Open(data, pk)
	if err != nil {
		return err
	}
	return writeOutput(ctx, msg)
}
