package main

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/TheusHen/tweetnacl/nacl"
	"github.com/TheusHen/tweetnacl/nacl/selftest"
	"github.com/TheusHen/tweetnacl/nacl/speed"
)

var (
	testCommand = &cli.Command{
		Name:   "test",
		Usage:  "run the correctness suites",
		Action: runTest,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "only", Usage: "run only the named suites"},
			&cli.BoolFlag{Name: "keep-going", Usage: "run every suite even after a failure"},
			&cli.BoolFlag{Name: "list", Usage: "list the suites and exit"},
		},
	}
	speedCommand = &cli.Command{
		Name:   "speed",
		Usage:  "run the benchmark suite",
		Action: runSpeed,
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "repeat", Usage: "repetitions per probe", Value: speed.DefaultRepeat},
			&cli.IntFlag{Name: "scale", Usage: "divide loop counts by this factor", Value: 1},
			&cli.StringSliceFlag{Name: "only", Usage: "run only the probes with these labels"},
		},
	}
	infoCommand = &cli.Command{
		Name:   "info",
		Usage:  "list primitives and their sizes",
		Action: runInfo,
	}
)

func runTest(ctx *cli.Context) error {
	out := ctx.App.Writer
	if ctx.Bool("list") {
		fmt.Fprintln(out, strings.Join(selftest.Names(), "\n"))
		return nil
	}
	report, err := selftest.Run(selftest.Options{
		Only:      ctx.StringSlice("only"),
		KeepGoing: ctx.Bool("keep-going"),
		OnResult: func(r selftest.Result) {
			status := "ok"
			if !r.Passed() {
				status = "FAIL: " + r.Err.Error()
			}
			fmt.Fprintf(out, "%-32s %s\n", r.Name, status)
			log.WithFields(log.Fields{"suite": r.Name, "duration": r.Duration}).Debug("suite finished")
		},
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d suites passed\n", len(report.Results))
	return nil
}

func runSpeed(ctx *cli.Context) error {
	_, err := speed.Run(speed.Options{
		Repeat: ctx.Int("repeat"),
		Scale:  ctx.Int("scale"),
		Only:   ctx.StringSlice("only"),
		Out:    ctx.App.Writer,
	})
	return err
}

func runInfo(ctx *cli.Context) error {
	out := ctx.App.Writer
	for _, p := range nacl.Primitives {
		fmt.Fprintf(out, "%s (%s)\n", p.Name, p.Implementation)
		for _, k := range p.SortedSizes() {
			fmt.Fprintf(out, "  %s_%s = %d\n", p.Name, k, p.Sizes[k])
		}
	}
	return nil
}
