package objcache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPutAndGet(t *testing.T) {
	c := Open(t.TempDir())
	defer c.Close()

	if _, ok := c.Get("den:INT:42"); ok {
		t.Fatalf("empty cache reported a hit")
	}
	c.Put("den:INT:42", "_denotation_3")
	name, ok := c.Get("den:INT:42")
	if !ok || name != "_denotation_3" {
		t.Errorf("Get = %q (%v)", name, ok)
	}
}

func TestPersistsAcrossOpens(t *testing.T) {
	dir := t.TempDir()

	c := Open(dir)
	c.Put("den:REAL:3.14", "_denotation_9")
	c.Close()

	c = Open(dir)
	defer c.Close()
	name, ok := c.Get("den:REAL:3.14")
	if !ok || name != "_denotation_9" {
		t.Errorf("reopened cache Get = %q (%v)", name, ok)
	}
}

func TestOverwriteKeepsLatest(t *testing.T) {
	dir := t.TempDir()
	c := Open(dir)
	c.Put("sig", "_denotation_1")
	c.Put("sig", "_denotation_2")
	c.Close()

	c = Open(dir)
	defer c.Close()
	if name, _ := c.Get("sig"); name != "_denotation_2" {
		t.Errorf("Get = %q, want latest binding", name)
	}
}

func TestUnreachableStoreDegradesToMemory(t *testing.T) {
	// a regular file where the cache directory should be makes MkdirAll fail
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := Open(filepath.Join(blocker, "cache"))
	defer c.Close()
	c.Put("sig", "_denotation_5")
	if name, ok := c.Get("sig"); !ok || name != "_denotation_5" {
		t.Errorf("memory-only Get = %q (%v)", name, ok)
	}
}

func TestUsableAfterClose(t *testing.T) {
	c := Open(t.TempDir())
	c.Put("before", "_denotation_1")
	c.Close()

	c.Put("after", "_denotation_2")
	if name, ok := c.Get("after"); !ok || name != "_denotation_2" {
		t.Errorf("closed cache Get = %q (%v)", name, ok)
	}
	if _, ok := c.Get("before"); !ok {
		t.Errorf("closed cache lost its memory table")
	}
}

func TestSessionIDs(t *testing.T) {
	dir := t.TempDir()
	a := Open(dir)
	defer a.Close()
	b := Open(t.TempDir())
	defer b.Close()

	if a.Session() == "" {
		t.Fatalf("empty session id")
	}
	if a.Session() != a.Session() {
		t.Errorf("session id changed within a run")
	}
	if a.Session() == b.Session() {
		t.Errorf("two caches share session id %q", a.Session())
	}
}
