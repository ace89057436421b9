// Package selftest runs the named correctness suites behind `naclbox test`.
//
// Suites run sequentially in a fixed order and take no parameters. Each one
// checks a primitive against published vectors or against the way NaCl
// composes it from the other primitives.
package selftest

import (
	"errors"
	"fmt"
	"time"
)

var ErrUnknownSuite = errors.New("selftest: unknown suite")

// Suite is a single named check.
type Suite struct {
	Name string
	Run  func() error
}

// Result is the outcome of one suite.
type Result struct {
	Name     string
	Err      error
	Duration time.Duration
}

// Passed reports whether the suite succeeded.
func (r Result) Passed() bool { return r.Err == nil }

// Report collects the results of a run in execution order.
type Report struct {
	Results []Result
}

// Failed returns the failing results.
func (r Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Passed() {
			out = append(out, res)
		}
	}
	return out
}

// Options control Run.
type Options struct {
	// Only restricts the run to the named suites, still in Suites order.
	Only []string
	// KeepGoing runs every suite even after a failure.
	KeepGoing bool
	// OnResult is called after each suite.
	OnResult func(Result)
}

// Suites is the fixed execution order.
var Suites = []Suite{
	{"box", testBox},
	{"box_curve25519xsalsa20poly1305", testBoxCurve25519XSalsa20Poly1305},
	{"hash", testHash},
	{"hash_sha512", testHashSHA512},
	{"onetimeauth", testOneTimeAuth},
	{"onetimeauth_poly1305", testOneTimeAuthPoly1305},
	{"scalarmult", testScalarMult},
	{"scalarmult_curve25519", testScalarMultCurve25519},
	{"secretbox", testSecretbox},
	{"secretbox_xsalsa20poly1305", testSecretboxXSalsa20Poly1305},
	{"sign", testSign},
	{"sign_ed25519", testSignEd25519},
	{"stream", testStream},
	{"stream_salsa20", testStreamSalsa20},
	{"stream_xsalsa20", testStreamXSalsa20},
	{"verify_16", testVerify16},
	{"verify_32", testVerify32},
}

// Names returns the suite names in execution order.
func Names() []string {
	names := make([]string, len(Suites))
	for i, s := range Suites {
		names[i] = s.Name
	}
	return names
}

func selectSuites(only []string) ([]Suite, error) {
	if len(only) == 0 {
		return Suites, nil
	}
	want := make(map[string]bool, len(only))
	for _, name := range only {
		want[name] = true
	}
	var out []Suite
	for _, s := range Suites {
		if want[s.Name] {
			out = append(out, s)
			delete(want, s.Name)
		}
	}
	for name := range want {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSuite, name)
	}
	return out, nil
}

// Run executes the selected suites. Unless KeepGoing is set it stops at the
// first failure and returns that failure; otherwise it returns the first
// failure after every suite has run.
func Run(opts Options) (Report, error) {
	suites, err := selectSuites(opts.Only)
	if err != nil {
		return Report{}, err
	}
	var (
		report   Report
		firstErr error
	)
	for _, s := range suites {
		start := time.Now()
		err := runSuite(s)
		res := Result{Name: s.Name, Err: err, Duration: time.Since(start)}
		report.Results = append(report.Results, res)
		if opts.OnResult != nil {
			opts.OnResult(res)
		}
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("selftest: %s: %w", s.Name, err)
			if !opts.KeepGoing {
				break
			}
		}
	}
	return report, firstErr
}

// runSuite converts a panic inside a primitive into a suite failure.
func runSuite(s Suite) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.Run()
}
