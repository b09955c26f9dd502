package rig

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// FileOptions is the small set of engine tuning knobs a host can express in
// a config file alongside its blueprints, instead of only in code
// (spec.md §10.3 in SPEC_FULL.md).
type FileOptions struct {
	Strict       bool     `yaml:"strict"`
	MaxParts     int      `yaml:"maxParts"`
	AllowSchemes []string `yaml:"allowSchemes"`
}

// LoadOptionsFile reads a FileOptions document from disk.
func LoadOptionsFile(path string) (*FileOptions, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rig: opening options file: %w", err)
	}
	defer f.Close()
	return ReadOptions(f)
}

// ReadOptions parses a FileOptions document from an already-open reader.
func ReadOptions(r io.Reader) (*FileOptions, error) {
	var fo FileOptions
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&fo); err != nil && err != io.EOF {
		return nil, fmt.Errorf("rig: decoding options file: %w", err)
	}
	return &fo, nil
}

// Options converts the file's settings to facade Options. AllowSchemes is
// not a facade-level concept by itself; hosts that want scheme whitelisting
// apply it before calling Assemble (e.g. by filtering the resolved scheme
// table), so it is exposed on FileOptions directly rather than folded in
// here.
func (fo *FileOptions) Options() []Option {
	var opts []Option
	opts = append(opts, WithStrict(fo.Strict))
	if fo.MaxParts > 0 {
		opts = append(opts, WithMaxParts(fo.MaxParts))
	}
	return opts
}
