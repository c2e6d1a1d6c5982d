package tests

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/a68go/a68go/internal/config"
)

// TestFunctional runs .a68 programs through the compiled binary and compares
// output with .want files. This tests the actual binary - what users see.
// Every program runs twice: interpreted, and with -O so the unit compiler
// path is exercised end to end. The output must be identical.
func TestFunctional(t *testing.T) {
	projectRoot, err := filepath.Abs("..")
	if err != nil {
		t.Fatalf("Failed to get project root: %v", err)
	}

	binaryPath := filepath.Join(projectRoot, "a68-test-binary")
	defer os.Remove(binaryPath)

	t.Log("Building fresh binary...")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/a68")
	cmd.Dir = projectRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build binary: %v\n%s", err, output)
	}

	// Find all source files with .want files
	var testFiles []string
	err = filepath.Walk(".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		for _, ext := range config.SourceFileExtensions {
			if strings.HasSuffix(path, ext) {
				wantFile := strings.TrimSuffix(path, ext) + ".want"
				if _, err := os.Stat(wantFile); err == nil {
					testFiles = append(testFiles, path)
				}
				break
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to walk directory: %v", err)
	}

	if len(testFiles) == 0 {
		t.Skip("No test files with .want found")
	}

	for _, testFile := range testFiles {
		testName := strings.TrimSuffix(filepath.Base(testFile), filepath.Ext(testFile))

		wantFile := strings.TrimSuffix(testFile, filepath.Ext(testFile)) + ".want"
		want, err := os.ReadFile(wantFile)
		if err != nil {
			t.Fatalf("Failed to read %s: %v", wantFile, err)
		}

		for _, mode := range []struct {
			name string
			args []string
		}{
			{"interpreted", []string{testFile}},
			{"optimized", []string{"-O", testFile}},
		} {
			t.Run(testName+"/"+mode.name, func(t *testing.T) {
				cmd := exec.Command(binaryPath, mode.args...)
				output, err := cmd.Output()
				if err != nil {
					t.Fatalf("Run failed: %v", err)
				}
				if string(output) != string(want) {
					t.Errorf("Output mismatch\ngot:  %q\nwant: %q", output, want)
				}
			})
		}
	}

	// the -O runs leave their work and cache dirs next to the programs
	os.RemoveAll(filepath.Join("programs", ".a68"))
}
