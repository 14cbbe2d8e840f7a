package gotape

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds VM settings as loaded from a TOML file, like:
//
//	tape-chunk = 64
//	tape-limit = 30000
//	loop-limit = 256
//	inline-only = false
//	trace = false
type Config struct {
	TapeChunk  uint `toml:"tape-chunk"`
	TapeLimit  uint `toml:"tape-limit"`
	LoopLimit  uint `toml:"loop-limit"`
	InlineOnly bool `toml:"inline-only"`

	// Trace is left for the host to act on, e.g. by passing WithLogf.
	Trace bool `toml:"trace"`
}

// LoadConfig reads a Config from the named TOML file.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	cfg, err := ParseConfig(f)
	if err != nil {
		return cfg, fmt.Errorf("%v: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig reads a Config from TOML; unknown keys are an error.
func ParseConfig(r io.Reader) (cfg Config, err error) {
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return cfg, err
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, key := range keys {
			names[i] = key.String()
		}
		return cfg, fmt.Errorf("unknown config keys: %v", strings.Join(names, ", "))
	}
	return cfg, nil
}

// Options returns VM options equivalent to the config; zero values are left
// at their defaults.
func (cfg Config) Options() VMOption {
	var opts []VMOption
	if cfg.TapeChunk != 0 {
		opts = append(opts, WithTapeChunk(cfg.TapeChunk))
	}
	if cfg.InlineOnly {
		opts = append(opts, WithInlineOnly())
	}
	if cfg.TapeLimit != 0 {
		opts = append(opts, WithTapeLimit(cfg.TapeLimit))
	}
	if cfg.LoopLimit != 0 {
		opts = append(opts, WithLoopLimit(cfg.LoopLimit))
	}
	return VMOptions(opts...)
}
