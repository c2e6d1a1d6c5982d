// Package link turns the unit compiler's output into a buildable
// translation unit on disk. Building and loading the resulting package is
// a separate toolchain step; this package only assembles and places the
// source.
package link

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/tools/imports"
	"gopkg.in/yaml.v3"

	"github.com/a68go/a68go/internal/config"
)

// Options is the a68.yaml link configuration.
type Options struct {
	// WorkDir receives the assembled translation unit.
	WorkDir string `yaml:"work_dir,omitempty"`

	// CacheDir holds the object cache database.
	CacheDir string `yaml:"cache_dir,omitempty"`
}

// DefaultOptions places everything under .a68/ next to the program.
func DefaultOptions(baseDir string) *Options {
	return &Options{
		WorkDir:  filepath.Join(baseDir, ".a68", "work"),
		CacheDir: filepath.Join(baseDir, ".a68", "cache"),
	}
}

// LoadOptions reads a68.yaml from baseDir, falling back to defaults when
// the file is absent. A present but unreadable file is an error: silently
// ignoring explicit configuration would be worse.
func LoadOptions(baseDir string) (*Options, error) {
	opts := DefaultOptions(baseDir)
	path := filepath.Join(baseDir, config.OptionsFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if opts.WorkDir == "" {
		opts.WorkDir = DefaultOptions(baseDir).WorkDir
	}
	if opts.CacheDir == "" {
		opts.CacheDir = DefaultOptions(baseDir).CacheDir
	}
	return opts, nil
}

// Assembler writes translation units into the work directory.
type Assembler struct {
	opts *Options
}

func New(opts *Options) *Assembler {
	return &Assembler{opts: opts}
}

// Write normalizes the emitted source and places it in the work directory,
// returning the file path. Empty input (the compiler refused everything)
// writes nothing.
func (a *Assembler) Write(src []byte) (string, error) {
	if len(src) == 0 {
		return "", nil
	}
	formatted, err := imports.Process(config.EmitFileName, src, nil)
	if err != nil {
		return "", fmt.Errorf("normalizing emitted source: %w", err)
	}
	if err := os.MkdirAll(a.opts.WorkDir, 0o755); err != nil {
		return "", fmt.Errorf("creating work dir: %w", err)
	}
	path := filepath.Join(a.opts.WorkDir, config.EmitFileName)
	if err := os.WriteFile(path, formatted, 0o644); err != nil {
		return "", fmt.Errorf("writing translation unit: %w", err)
	}
	return path, nil
}
