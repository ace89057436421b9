// Package speed times the NaCl primitives for `naclbox speed`.
//
// Every probe runs a fixed number of loops over a 1000-byte message and is
// repeated a few times; the best repetition is reported per loop, in the
// "N loops, best of R: T unit per loop" form. Setup (keys, nonces, boxes to
// open) runs once per probe and is not timed.
package speed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/TheusHen/tweetnacl/nacl/box"
	"github.com/TheusHen/tweetnacl/nacl/hash"
	"github.com/TheusHen/tweetnacl/nacl/onetimeauth"
	"github.com/TheusHen/tweetnacl/nacl/secretbox"
	"github.com/TheusHen/tweetnacl/nacl/sign"
)

const DefaultRepeat = 3

var ErrUnknownProbe = errors.New("speed: unknown probe")

// Message is the input every probe works on.
var Message = bytes.Repeat([]byte("H"), 1000)

// sink keeps results alive so loop bodies are not optimised away.
var sink interface{}

// Probe is one timed operation. Setup prepares state and returns the loop body.
type Probe struct {
	Label string
	Loops int
	Setup func() (func(), error)
}

// Probes lists the benchmarks in output order.
var Probes = []Probe{
	{"Hash", 10000, setupHash},
	{"OneTimeAuth", 10000, setupOneTimeAuth},
	{"OneTimeAuth verify", 10000, setupOneTimeAuthVerify},
	{"Secretbox encryption", 10000, setupSecretboxSeal},
	{"Secretbox decryption", 10000, setupSecretboxOpen},
	{"Curve25519 keypair generation", 1000, setupBoxKeyPair},
	{"Curve25519 encryption", 1000, setupBoxSeal},
	{"Curve25519 beforenm (setup)", 1000, setupBoxBeforenm},
	{"Curve25519 afternm", 10000, setupBoxAfternm},
	{"Ed25519 keypair generation", 1000, setupSignKeyPair},
	{"Ed25519 signing", 1000, setupSign},
	{"Ed25519 verifying", 1000, setupSignOpen},
}

// Options control Run. The zero value runs every probe with DefaultRepeat.
type Options struct {
	Repeat int
	// Scale divides every loop count, never below one loop.
	Scale int
	// Only restricts the run to the given labels.
	Only []string
	// Out receives one line per probe; nil discards.
	Out io.Writer
}

// Result is the timing of one probe.
type Result struct {
	Label  string
	Loops  int
	Repeat int
	// Best is the fastest repetition divided by Loops.
	Best time.Duration
}

// String renders r the way timeit does.
func (r Result) String() string {
	return fmt.Sprintf("%d loops, best of %d: %s per loop", r.Loops, r.Repeat, formatDuration(r.Best))
}

// formatDuration prints d with three significant digits in usec, msec or sec.
func formatDuration(d time.Duration) string {
	usec := float64(d) / float64(time.Microsecond)
	switch {
	case usec < 1000:
		return fmt.Sprintf("%.3g usec", usec)
	case usec < 1000*1000:
		return fmt.Sprintf("%.3g msec", usec/1000)
	default:
		return fmt.Sprintf("%.3g sec", usec/1000/1000)
	}
}

func selectProbes(only []string) ([]Probe, error) {
	if len(only) == 0 {
		return Probes, nil
	}
	want := make(map[string]bool, len(only))
	for _, l := range only {
		want[l] = true
	}
	var out []Probe
	for _, p := range Probes {
		if want[p.Label] {
			out = append(out, p)
			delete(want, p.Label)
		}
	}
	for l := range want {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProbe, l)
	}
	return out, nil
}

// Run times the selected probes in order, writing " Label: " and the result
// line for each to opts.Out.
func Run(opts Options) ([]Result, error) {
	probes, err := selectProbes(opts.Only)
	if err != nil {
		return nil, err
	}
	repeat := opts.Repeat
	if repeat < 1 {
		repeat = DefaultRepeat
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	results := make([]Result, 0, len(probes))
	for _, p := range probes {
		loops := p.Loops
		if opts.Scale > 1 {
			loops /= opts.Scale
		}
		if loops < 1 {
			loops = 1
		}
		fmt.Fprintf(out, " %s: ", p.Label)
		res, err := measure(p, loops, repeat)
		if err != nil {
			fmt.Fprintln(out, "error")
			return results, fmt.Errorf("speed: %s: %w", p.Label, err)
		}
		fmt.Fprintln(out, res)
		results = append(results, res)
	}
	return results, nil
}

func measure(p Probe, loops, repeat int) (Result, error) {
	body, err := p.Setup()
	if err != nil {
		return Result{}, err
	}
	best := time.Duration(-1)
	for r := 0; r < repeat; r++ {
		start := time.Now()
		for i := 0; i < loops; i++ {
			body()
		}
		if el := time.Since(start); best < 0 || el < best {
			best = el
		}
	}
	return Result{Label: p.Label, Loops: loops, Repeat: repeat, Best: best / time.Duration(loops)}, nil
}

func setupHash() (func(), error) {
	return func() { sink = hash.Sum(Message) }, nil
}

func authKey() *onetimeauth.Key {
	var k onetimeauth.Key
	copy(k[:], bytes.Repeat([]byte("k"), onetimeauth.KeySize))
	return &k
}

func setupOneTimeAuth() (func(), error) {
	k := authKey()
	return func() { sink = onetimeauth.Sum(Message, k) }, nil
}

func setupOneTimeAuthVerify() (func(), error) {
	k := authKey()
	tag := onetimeauth.Sum(Message, k)
	return func() { sink = onetimeauth.Verify(&tag, Message, k) }, nil
}

func secretboxState() (*secretbox.Key, *secretbox.Nonce, error) {
	var k secretbox.Key
	copy(k[:], bytes.Repeat([]byte("k"), secretbox.KeySize))
	n, err := secretbox.NewNonce()
	if err != nil {
		return nil, nil, err
	}
	return &k, &n, nil
}

func setupSecretboxSeal() (func(), error) {
	k, n, err := secretboxState()
	if err != nil {
		return nil, err
	}
	return func() { sink = secretbox.Seal(Message, n, k) }, nil
}

func setupSecretboxOpen() (func(), error) {
	k, n, err := secretboxState()
	if err != nil {
		return nil, err
	}
	c := secretbox.Seal(Message, n, k)
	return func() { sink, _ = secretbox.Open(c, n, k) }, nil
}

func setupBoxKeyPair() (func(), error) {
	return func() { sink, _ = box.GenerateKey() }, nil
}

func boxState() (box.KeyPair, *box.Nonce, error) {
	kp, err := box.GenerateKey()
	if err != nil {
		return box.KeyPair{}, nil, err
	}
	n, err := box.NewNonce()
	if err != nil {
		return box.KeyPair{}, nil, err
	}
	return kp, &n, nil
}

func setupBoxSeal() (func(), error) {
	kp, n, err := boxState()
	if err != nil {
		return nil, err
	}
	return func() { sink = box.Seal(Message, n, &kp.PublicKey, &kp.SecretKey) }, nil
}

func setupBoxBeforenm() (func(), error) {
	kp, _, err := boxState()
	if err != nil {
		return nil, err
	}
	return func() { sink = box.Precompute(&kp.PublicKey, &kp.SecretKey) }, nil
}

func setupBoxAfternm() (func(), error) {
	kp, n, err := boxState()
	if err != nil {
		return nil, err
	}
	cache, err := box.NewKeyCache(1)
	if err != nil {
		return nil, err
	}
	k := cache.SharedKey(&kp.PublicKey, &kp.SecretKey)
	return func() { sink = box.SealAfterPrecomputation(Message, n, &k) }, nil
}

func setupSignKeyPair() (func(), error) {
	return func() { sink, _ = sign.GenerateKey() }, nil
}

func setupSign() (func(), error) {
	kp, err := sign.GenerateKey()
	if err != nil {
		return nil, err
	}
	return func() { sink = sign.Sign(Message, &kp.SecretKey) }, nil
}

func setupSignOpen() (func(), error) {
	kp, err := sign.GenerateKey()
	if err != nil {
		return nil, err
	}
	sm := sign.Sign(Message, &kp.SecretKey)
	return func() { sink, _ = sign.Open(sm, &kp.PublicKey) }, nil
}
