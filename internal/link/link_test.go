package link

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/a68go/a68go/internal/config"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions("/prog")
	if opts.WorkDir != filepath.Join("/prog", ".a68", "work") {
		t.Errorf("WorkDir %q", opts.WorkDir)
	}
	if opts.CacheDir != filepath.Join("/prog", ".a68", "cache") {
		t.Errorf("CacheDir %q", opts.CacheDir)
	}
}

func TestLoadOptionsWithoutFile(t *testing.T) {
	dir := t.TempDir()
	opts, err := LoadOptions(dir)
	if err != nil {
		t.Fatalf("absent options file: %v", err)
	}
	if opts.WorkDir != DefaultOptions(dir).WorkDir {
		t.Errorf("WorkDir %q, want default", opts.WorkDir)
	}
}

func TestLoadOptionsFromFile(t *testing.T) {
	dir := t.TempDir()
	yml := "work_dir: /tmp/a68-work\n"
	if err := os.WriteFile(filepath.Join(dir, config.OptionsFileName), []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	opts, err := LoadOptions(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if opts.WorkDir != "/tmp/a68-work" {
		t.Errorf("WorkDir %q", opts.WorkDir)
	}
	// the unset field falls back to its default
	if opts.CacheDir != DefaultOptions(dir).CacheDir {
		t.Errorf("CacheDir %q, want default", opts.CacheDir)
	}
}

func TestLoadOptionsRejectsBadYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.OptionsFileName), []byte("work_dir: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOptions(dir); err == nil {
		t.Errorf("malformed options file loaded without error")
	}
}

func TestWritePlacesTranslationUnit(t *testing.T) {
	dir := t.TempDir()
	opts := &Options{WorkDir: filepath.Join(dir, "work")}

	src := []byte("package units\n\nimport (\n\t\"math\"\n\n\t\"github.com/a68go/a68go/internal/rt\"\n)\n\n" +
		"var _ = math.Pi\n\nfunc _formula_1(f *rt.Frame, s *rt.Stack) {\n\ts.PushInt(14)\n}\n")
	path, err := New(opts).Write(src)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if path != filepath.Join(opts.WorkDir, config.EmitFileName) {
		t.Errorf("placed at %q", path)
	}
	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(out), "package units") {
		t.Errorf("written unit:\n%s", out)
	}
	if !strings.Contains(string(out), "s.PushInt(14)") {
		t.Errorf("unit body lost in normalization:\n%s", out)
	}
}

func TestWriteNothingForRefusedProgram(t *testing.T) {
	path, err := New(DefaultOptions(t.TempDir())).Write(nil)
	if err != nil {
		t.Fatalf("empty write: %v", err)
	}
	if path != "" {
		t.Errorf("empty input produced %q", path)
	}
}

func TestWriteRejectsMalformedSource(t *testing.T) {
	opts := &Options{WorkDir: t.TempDir()}
	if _, err := New(opts).Write([]byte("package units\nfunc {")); err == nil {
		t.Errorf("malformed source written without error")
	}
}
