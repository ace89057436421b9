package main

import (
	"encoding/hex"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/TheusHen/tweetnacl/internal/config"
)

var (
	configFileFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "configuration file",
		Value:   config.DefaultPath(),
	}
	verbosityFlag = &cli.UintFlag{
		Name:  "verbosity",
		Usage: "log level 0 (panic) to 6 (trace)",
		Value: 4,
	}
	jsonFormatFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "log in JSON format",
	}
	logFileFlag = &cli.StringFlag{
		Name:  "log-file",
		Usage: "also write logs to this file, rotated",
	}
	logRotationFlag = &cli.DurationFlag{
		Name:  "log-rotation",
		Usage: "log file rotation interval",
		Value: 24 * time.Hour,
	}
	logMaxAgeFlag = &cli.DurationFlag{
		Name:  "log-maxage",
		Usage: "delete rotated log files older than this",
		Value: 7 * 24 * time.Hour,
	}

	inFlag = &cli.StringFlag{
		Name:    "in",
		Aliases: []string{"i"},
		Usage:   "input file, - for stdin",
		Value:   "-",
	}
	outFlag = &cli.StringFlag{
		Name:    "out",
		Aliases: []string{"o"},
		Usage:   "output file, - for stdout",
		Value:   "-",
	}
)

// loadConfig reads --config. A missing file at the default path yields the
// defaults; an explicitly named file must exist.
func loadConfig(ctx *cli.Context) (config.Config, error) {
	path := ctx.String(configFileFlag.Name)
	conf, err := config.Load(path)
	if err == nil {
		return conf, nil
	}
	if !ctx.IsSet(configFileFlag.Name) && errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return config.Config{}, err
}

func readInput(ctx *cli.Context) ([]byte, error) {
	name := ctx.String(inFlag.Name)
	if name == "" || name == "-" {
		b, err := io.ReadAll(ctx.App.Reader)
		return b, errors.Wrap(err, "read stdin")
	}
	b, err := os.ReadFile(name)
	return b, errors.Wrapf(err, "read %s", name)
}

func writeOutput(ctx *cli.Context, data []byte) error {
	name := ctx.String(outFlag.Name)
	if name == "" || name == "-" {
		_, err := ctx.App.Writer.Write(data)
		return err
	}
	return errors.Wrapf(os.WriteFile(name, data, 0o600), "write %s", name)
}

func hexFlag(ctx *cli.Context, name string) ([]byte, error) {
	b, err := hex.DecodeString(ctx.String(name))
	if err != nil {
		return nil, errors.Wrapf(err, "--%s", name)
	}
	return b, nil
}
