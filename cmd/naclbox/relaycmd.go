package main

import (
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/TheusHen/tweetnacl/nacl/relay"
)

var (
	serveCommand = &cli.Command{
		Name:   "serve",
		Usage:  "run a clipboard relay",
		Action: runServe,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "listen", Usage: "listen address (default: Listen from config)"},
		},
	}
	copyCommand = &cli.Command{
		Name:   "copy",
		Usage:  "seal, sign and store input on the relay",
		Action: runCopy,
		Flags:  []cli.Flag{inFlag},
	}
	pasteCommand = &cli.Command{
		Name:   "paste",
		Usage:  "fetch, verify and open the relay content",
		Action: runPaste,
		Flags:  []cli.Flag{outFlag},
	}
)

func runServe(ctx *cli.Context) error {
	conf, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if err := conf.RequireServer(); err != nil {
		return err
	}
	addr := conf.Listen
	if ctx.IsSet("listen") {
		addr = ctx.String("listen")
	}
	srv, err := relay.NewServer(relay.ServerConfig{
		Psk:            conf.Psk,
		AllowedSigners: conf.AllowedSigners,
		StoreSize:      conf.StoreSize,
		ReplayTTL:      conf.ReplayTTL,
		RateLimit:      conf.RateLimit,
		RateBurst:      conf.RateBurst,
		Logger:         log.StandardLogger(),
	})
	if err != nil {
		return err
	}
	sigCtx, stop := signal.NotifyContext(ctx.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(sigCtx, addr)
}

func relayClient(ctx *cli.Context) (*relay.Client, error) {
	conf, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	if err := conf.RequireClient(); err != nil {
		return nil, err
	}
	return &relay.Client{
		Connect:   conf.Connect,
		Psk:       conf.Psk,
		EncryptSk: conf.EncryptSk,
		SignSk:    conf.SignSk,
		SignPk:    conf.SignPk,
	}, nil
}

func runCopy(ctx *cli.Context) error {
	c, err := relayClient(ctx)
	if err != nil {
		return err
	}
	content, err := readInput(ctx)
	if err != nil {
		return err
	}
	if err := c.Copy(ctx.Context, content); err != nil {
		return err
	}
	log.WithField("bytes", len(content)).Info("sent and acknowledged by the relay")
	return nil
}

func runPaste(ctx *cli.Context) error {
	c, err := relayClient(ctx)
	if err != nil {
		return err
	}
	content, err := c.Paste(ctx.Context)
	if err != nil {
		return err
	}
	return writeOutput(ctx, content)
}
