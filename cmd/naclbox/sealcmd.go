package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/TheusHen/tweetnacl/nacl/box"
	"github.com/TheusHen/tweetnacl/nacl/envelope"
	"github.com/TheusHen/tweetnacl/nacl/secretbox"
	"github.com/TheusHen/tweetnacl/nacl/sign"
)

var (
	keyFlag = &cli.StringFlag{
		Name:  "key",
		Usage: "hex secretbox key (default: EncryptSk from config)",
	}
	boxSkFlag = &cli.StringFlag{
		Name:  "box-sk",
		Usage: "hex crypto_box secret key (default: derived from SignSk in config)",
	}

	sealCommand = &cli.Command{
		Name:      "seal",
		Usage:     "seal input into an envelope",
		ArgsUsage: "[<file>...]",
		Description: `
Seal with a shared secretbox key, or with --to / --to-signer for a
crypto_box addressed to a recipient public key. --to-signer takes an
Ed25519 public key and converts it to its Curve25519 form.

Files named as arguments are sealed one by one into <file>.nacl, and
--in/--out are ignored.
`,
		Action: runSeal,
		Flags: []cli.Flag{
			keyFlag,
			boxSkFlag,
			&cli.StringFlag{Name: "to", Usage: "hex recipient crypto_box public key"},
			&cli.StringFlag{Name: "to-signer", Usage: "hex recipient Ed25519 public key"},
			&cli.BoolFlag{Name: "compress", Aliases: []string{"z"}, Usage: "lz4 compress before sealing"},
			&cli.IntFlag{Name: "level", Usage: "compression level: 0 default, 1 fast, 2 best"},
			inFlag,
			outFlag,
		},
	}
	openCommand = &cli.Command{
		Name:      "open",
		Usage:     "open an envelope",
		ArgsUsage: "[<file>.nacl...]",
		Description: `
Envelopes named as arguments are opened one by one into the file name
without its .nacl suffix (or with .open appended).
`,
		Action: runOpen,
		Flags: []cli.Flag{
			keyFlag,
			boxSkFlag,
			&cli.StringFlag{Name: "from", Usage: "hex expected sender crypto_box public key"},
			inFlag,
			outFlag,
		},
	}
	shardCommand = &cli.Command{
		Name:      "shard",
		Usage:     "split an envelope into Reed-Solomon shards",
		ArgsUsage: "<prefix>",
		Action:    runShard,
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "data", Usage: "data shards", Value: 4},
			&cli.IntFlag{Name: "parity", Usage: "parity shards", Value: 2},
			inFlag,
		},
	}
	unshardCommand = &cli.Command{
		Name:      "unshard",
		Usage:     "reassemble an envelope from its shards",
		ArgsUsage: "<shard> [<shard>...]",
		Action:    runUnshard,
		Flags:     []cli.Flag{outFlag},
	}
)

func secretKey(ctx *cli.Context) (*secretbox.Key, error) {
	if ctx.IsSet(keyFlag.Name) {
		b, err := hexFlag(ctx, keyFlag.Name)
		if err != nil {
			return nil, err
		}
		k, err := secretbox.ParseKey(b)
		if err != nil {
			return nil, errors.Wrap(err, "--key")
		}
		return &k, nil
	}
	conf, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	return conf.EncryptSk, nil
}

// boxKeyPair returns the local crypto_box keypair, from --box-sk or from the
// configured signing key.
func boxKeyPair(ctx *cli.Context) (*box.KeyPair, error) {
	if ctx.IsSet(boxSkFlag.Name) {
		b, err := hexFlag(ctx, boxSkFlag.Name)
		if err != nil {
			return nil, err
		}
		sk, err := box.ParseSecretKey(b)
		if err != nil {
			return nil, errors.Wrap(err, "--box-sk")
		}
		kp := box.KeyPairFromSecret(sk)
		return &kp, nil
	}
	conf, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	if conf.SignSk == nil {
		return nil, nil
	}
	kp := box.KeyPairFromSecret(sign.SecretKeyToCurve25519(conf.SignSk))
	return &kp, nil
}

func recipient(ctx *cli.Context) (*box.PublicKey, error) {
	switch {
	case ctx.IsSet("to"):
		b, err := hexFlag(ctx, "to")
		if err != nil {
			return nil, err
		}
		pk, err := box.ParsePublicKey(b)
		if err != nil {
			return nil, errors.Wrap(err, "--to")
		}
		return &pk, nil
	case ctx.IsSet("to-signer"):
		b, err := hexFlag(ctx, "to-signer")
		if err != nil {
			return nil, err
		}
		spk, err := sign.ParsePublicKey(b)
		if err != nil {
			return nil, errors.Wrap(err, "--to-signer")
		}
		pk, err := sign.PublicKeyToCurve25519(&spk)
		if err != nil {
			return nil, errors.Wrap(err, "--to-signer")
		}
		return &pk, nil
	}
	return nil, nil
}

const sealedExt = ".nacl"

func sealedName(name string) string { return name + sealedExt }

func openedName(name string) string {
	if base := strings.TrimSuffix(name, sealedExt); base != name && base != "" {
		return base
	}
	return name + ".open"
}

// batch applies fn to every file argument. One box.KeyCache is shared by
// all files, so a recipient's shared key is derived once.
func batch(ctx *cli.Context, rename func(string) string, fn func([]byte, *box.KeyCache) ([]byte, error)) error {
	cache, err := box.NewKeyCache(0)
	if err != nil {
		return err
	}
	for _, name := range ctx.Args().Slice() {
		in, err := os.ReadFile(name)
		if err != nil {
			return errors.Wrapf(err, "read %s", name)
		}
		out, err := fn(in, cache)
		if err != nil {
			return errors.Wrap(err, name)
		}
		dst := rename(name)
		if err := os.WriteFile(dst, out, 0o600); err != nil {
			return errors.Wrapf(err, "write %s", dst)
		}
		fmt.Fprintln(ctx.App.Writer, dst)
	}
	log.WithFields(log.Fields{"files": ctx.NArg(), "shared_keys": cache.Len()}).Debug("batch done")
	return nil
}

func runSeal(ctx *cli.Context) error {
	seal, err := sealer(ctx)
	if err != nil {
		return err
	}
	if ctx.NArg() > 0 {
		return batch(ctx, sealedName, seal)
	}
	plain, err := readInput(ctx)
	if err != nil {
		return err
	}
	sealed, err := seal(plain, nil)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"in": len(plain), "out": len(sealed)}).Debug("sealed")
	return writeOutput(ctx, sealed)
}

// sealer resolves the sealing keys once for every input.
func sealer(ctx *cli.Context) (func([]byte, *box.KeyCache) ([]byte, error), error) {
	opts := envelope.Options{Compress: ctx.Bool("compress"), Level: envelope.Level(ctx.Int("level"))}

	to, err := recipient(ctx)
	if err != nil {
		return nil, err
	}
	if to != nil {
		kp, err := boxKeyPair(ctx)
		if err != nil {
			return nil, err
		}
		if kp == nil {
			return nil, errors.New("sealing to a recipient needs --box-sk or SignSk in the config")
		}
		return func(plain []byte, cache *box.KeyCache) ([]byte, error) {
			o := opts
			o.Cache = cache
			return envelope.SealBox(plain, to, *kp, o)
		}, nil
	}
	key, err := secretKey(ctx)
	if err != nil {
		return nil, err
	}
	if key == nil {
		return nil, errors.New("no --key given and EncryptSk is not configured")
	}
	return func(plain []byte, _ *box.KeyCache) ([]byte, error) {
		return envelope.SealSecret(plain, key, opts)
	}, nil
}

func runOpen(ctx *cli.Context) error {
	if ctx.NArg() > 0 {
		return batch(ctx, openedName, func(data []byte, cache *box.KeyCache) ([]byte, error) {
			return openEnvelope(ctx, data, cache)
		})
	}
	data, err := readInput(ctx)
	if err != nil {
		return err
	}
	plain, err := openEnvelope(ctx, data, nil)
	if err != nil {
		return err
	}
	return writeOutput(ctx, plain)
}

func openEnvelope(ctx *cli.Context, data []byte, cache *box.KeyCache) ([]byte, error) {
	h, _, err := envelope.Inspect(data)
	if err != nil {
		return nil, err
	}

	keys := envelope.Keys{Cache: cache}
	switch h.Mode {
	case envelope.ModeSecretbox:
		if keys.Secret, err = secretKey(ctx); err != nil {
			return nil, err
		}
	case envelope.ModeBox:
		kp, err := boxKeyPair(ctx)
		if err != nil {
			return nil, err
		}
		if kp != nil {
			keys.Box = &kp.SecretKey
		}
		if ctx.IsSet("from") {
			b, err := hexFlag(ctx, "from")
			if err != nil {
				return nil, err
			}
			from, err := box.ParsePublicKey(b)
			if err != nil {
				return nil, errors.Wrap(err, "--from")
			}
			keys.Sender = &from
		}
	}
	plain, err := envelope.Open(data, keys)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"mode": h.Mode, "compressed": h.Compressed}).Debug("opened")
	return plain, nil
}

func runShard(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("expected one output prefix")
	}
	prefix := ctx.Args().First()
	data, err := readInput(ctx)
	if err != nil {
		return err
	}
	shards, err := envelope.Split(data, ctx.Int("data"), ctx.Int("parity"))
	if err != nil {
		return err
	}
	for i, s := range shards {
		name := fmt.Sprintf("%s.%d", prefix, i)
		if err := os.WriteFile(name, s, 0o600); err != nil {
			return errors.Wrapf(err, "write %s", name)
		}
		fmt.Fprintln(ctx.App.Writer, name)
	}
	return nil
}

func runUnshard(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errors.New("expected shard files")
	}
	var shards [][]byte
	for _, name := range ctx.Args().Slice() {
		b, err := os.ReadFile(name)
		if err != nil {
			log.WithError(err).WithField("shard", name).Warn("skipping unreadable shard")
			continue
		}
		shards = append(shards, b)
	}
	data, err := envelope.Join(shards)
	if err != nil {
		return err
	}
	return writeOutput(ctx, data)
}
