// Command naclbox exercises, benchmarks and uses the NaCl primitives.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/TheusHen/tweetnacl/internal/logging"
)

var gitCommit = ""

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "naclbox"
	app.Usage = "NaCl primitives: self-test, benchmark, seal, sign and relay"
	app.Version = "0.1.0"
	if gitCommit != "" {
		app.Version += "-" + gitCommit
	}
	app.EnableBashCompletion = true
	app.Flags = []cli.Flag{
		configFileFlag,
		verbosityFlag,
		jsonFormatFlag,
		logFileFlag,
		logRotationFlag,
		logMaxAgeFlag,
	}
	app.Before = setLogger
	app.Commands = []*cli.Command{
		testCommand,
		speedCommand,
		infoCommand,
		keygenCommand,
		sealCommand,
		openCommand,
		signCommand,
		verifyCommand,
		shardCommand,
		unshardCommand,
		serveCommand,
		copyCommand,
		pasteCommand,
	}
	return app
}

func setLogger(ctx *cli.Context) error {
	return logging.Setup(logging.Options{
		Verbosity: uint32(ctx.Uint(verbosityFlag.Name)),
		JSON:      ctx.Bool(jsonFormatFlag.Name),
		File:      ctx.String(logFileFlag.Name),
		Rotation:  ctx.Duration(logRotationFlag.Name),
		MaxAge:    ctx.Duration(logMaxAgeFlag.Name),
	})
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
