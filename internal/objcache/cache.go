// Package objcache persists compiled-unit bookkeeping across runs.
//
// Its one client today is the permanent denotation table: a constant
// denotation compiled in an earlier run keeps its unit name, so recompiling
// the same program reuses the linked unit instead of emitting a twin. The
// cache is a map in front of a sqlite store; every database failure
// degrades to a cache miss, never to an error.
package objcache

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS units (
	sig     TEXT PRIMARY KEY,
	name    TEXT NOT NULL,
	session TEXT NOT NULL
);
`

// Cache is a persistent string-to-string table keyed by structural
// signatures. It satisfies the unit compiler's DenotationMemo.
type Cache struct {
	mu      sync.Mutex
	mem     map[string]string
	db      *sql.DB
	session string
}

// Open opens (or creates) the cache under dir. A cache that cannot reach
// its database still works, memory-only.
func Open(dir string) *Cache {
	c := &Cache{
		mem:     map[string]string{},
		session: uuid.NewString(),
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return c
	}
	db, err := sql.Open("sqlite", filepath.Join(dir, "objcache.db"))
	if err != nil {
		return c
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return c
	}
	c.db = db
	return c
}

// Get looks a signature up, memory first, store second.
func (c *Cache) Get(sig string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name, ok := c.mem[sig]; ok {
		return name, true
	}
	if c.db == nil {
		return "", false
	}
	var name string
	err := c.db.QueryRow(`SELECT name FROM units WHERE sig = ?`, sig).Scan(&name)
	if err != nil {
		return "", false
	}
	c.mem[sig] = name
	return name, true
}

// Put records a signature-to-name binding for this and later runs.
func (c *Cache) Put(sig, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mem[sig] = name
	if c.db == nil {
		return
	}
	c.db.Exec(`INSERT OR REPLACE INTO units (sig, name, session) VALUES (?, ?, ?)`,
		sig, name, c.session)
}

// Session returns this run's session id, recorded with every Put.
func (c *Cache) Session() string { return c.session }

// Close releases the store.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db != nil {
		c.db.Close()
		c.db = nil
	}
}
