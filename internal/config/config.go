// Package config loads the naclbox TOML configuration.
package config

import (
	"encoding/hex"
	"os"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"

	"github.com/TheusHen/tweetnacl/nacl/secretbox"
	"github.com/TheusHen/tweetnacl/nacl/sign"
)

const (
	DefaultListen    = "[::]:8076"
	DefaultConnect   = "[::1]:8076"
	DefaultStoreSize = 1024
	DefaultReplayTTL = 10 * time.Minute
	DefaultRateLimit = 20
	DefaultRateBurst = 40

	PskSize = 32
)

// DefaultPath is where the configuration is looked up when --config is not given.
func DefaultPath() string {
	if runtime.GOOS == "windows" {
		return "~/naclbox.toml"
	}
	return "~/.naclbox.toml"
}

type tomlConfig struct {
	Listen         string
	Connect        string
	Psk            string
	EncryptSk      string
	SignSk         string
	SignPk         string
	AllowedSigners []string
	StoreSize      int
	ReplayTTL      string
	RateLimit      float64
	RateBurst      int
}

// Config is the decoded configuration. Key fields are nil when absent.
type Config struct {
	Listen    string
	Connect   string
	Psk       []byte
	EncryptSk *secretbox.Key
	SignSk    *sign.SecretKey
	SignPk    *sign.PublicKey
	// AllowedSigners may store content on a server. Defaults to SignPk.
	AllowedSigners []sign.PublicKey
	StoreSize      int
	ReplayTTL      time.Duration
	// RateLimit is the number of operations per second per connection.
	RateLimit float64
	RateBurst int
}

// Default returns a Config with no keys and default addresses and limits.
func Default() Config {
	return Config{
		Listen:    DefaultListen,
		Connect:   DefaultConnect,
		StoreSize: DefaultStoreSize,
		ReplayTTL: DefaultReplayTTL,
		RateLimit: DefaultRateLimit,
		RateBurst: DefaultRateBurst,
	}
}

// ExpandPath resolves a leading ~ in path.
func ExpandPath(path string) (string, error) {
	p, err := homedir.Expand(path)
	if err != nil {
		return "", errors.Wrapf(err, "expand %s", path)
	}
	return p, nil
}

// Load reads and decodes the file at path.
func Load(path string) (Config, error) {
	file, err := ExpandPath(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	conf, err := Parse(string(data))
	if err != nil {
		return Config{}, errors.Wrapf(err, "config %s", file)
	}
	return conf, nil
}

func decodeHex(name, s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", name)
	}
	return b, nil
}

// Parse decodes a TOML document and validates its keys.
func Parse(data string) (Config, error) {
	var tc tomlConfig
	if _, err := toml.Decode(data, &tc); err != nil {
		return Config{}, errors.Wrap(err, "decode toml")
	}

	conf := Default()
	if tc.Listen != "" {
		conf.Listen = tc.Listen
	}
	if tc.Connect != "" {
		conf.Connect = tc.Connect
	}
	if tc.StoreSize > 0 {
		conf.StoreSize = tc.StoreSize
	}
	if tc.RateLimit > 0 {
		conf.RateLimit = tc.RateLimit
	}
	if tc.RateBurst > 0 {
		conf.RateBurst = tc.RateBurst
	}
	if tc.ReplayTTL != "" {
		ttl, err := time.ParseDuration(tc.ReplayTTL)
		if err != nil {
			return Config{}, errors.Wrap(err, "ReplayTTL")
		}
		conf.ReplayTTL = ttl
	}

	if tc.Psk != "" {
		psk, err := decodeHex("Psk", tc.Psk)
		if err != nil {
			return Config{}, err
		}
		if len(psk) != PskSize {
			return Config{}, errors.Errorf("Psk: want %d bytes, got %d", PskSize, len(psk))
		}
		conf.Psk = psk
	}
	if tc.EncryptSk != "" {
		b, err := decodeHex("EncryptSk", tc.EncryptSk)
		if err != nil {
			return Config{}, err
		}
		k, err := secretbox.ParseKey(b)
		if err != nil {
			return Config{}, errors.Wrap(err, "EncryptSk")
		}
		conf.EncryptSk = &k
	}
	if tc.SignSk != "" {
		b, err := decodeHex("SignSk", tc.SignSk)
		if err != nil {
			return Config{}, err
		}
		sk, err := sign.ParseSecretKey(b)
		if err != nil {
			return Config{}, errors.Wrap(err, "SignSk")
		}
		conf.SignSk = &sk
	}
	if tc.SignPk != "" {
		b, err := decodeHex("SignPk", tc.SignPk)
		if err != nil {
			return Config{}, err
		}
		pk, err := sign.ParsePublicKey(b)
		if err != nil {
			return Config{}, errors.Wrap(err, "SignPk")
		}
		conf.SignPk = &pk
	} else if conf.SignSk != nil {
		pk := conf.SignSk.Public()
		conf.SignPk = &pk
	}
	if conf.SignSk != nil && conf.SignSk.Public() != *conf.SignPk {
		return Config{}, errors.New("SignPk does not match SignSk")
	}

	for i, s := range tc.AllowedSigners {
		b, err := decodeHex("AllowedSigners", s)
		if err != nil {
			return Config{}, err
		}
		pk, err := sign.ParsePublicKey(b)
		if err != nil {
			return Config{}, errors.Wrapf(err, "AllowedSigners[%d]", i)
		}
		conf.AllowedSigners = append(conf.AllowedSigners, pk)
	}
	if len(conf.AllowedSigners) == 0 && conf.SignPk != nil {
		conf.AllowedSigners = []sign.PublicKey{*conf.SignPk}
	}
	return conf, nil
}

// RequireClient checks the keys needed by copy and paste.
func (c Config) RequireClient() error {
	switch {
	case c.Psk == nil:
		return errors.New("Psk is not set")
	case c.EncryptSk == nil:
		return errors.New("EncryptSk is not set")
	case c.SignPk == nil:
		return errors.New("SignPk is not set")
	}
	return nil
}

// RequireServer checks the keys needed to run a relay.
func (c Config) RequireServer() error {
	if c.Psk == nil {
		return errors.New("Psk is not set")
	}
	if len(c.AllowedSigners) == 0 {
		return errors.New("no SignPk or AllowedSigners configured")
	}
	return nil
}
