// Package store is an on-disk cache of evaluated expressions.
//
// Entries are msgpack files named by the SHA-256 of everything that
// determines a result: evaluation mode, precision, rounding and the
// expression text. Writes go through a temp file and a rename, so a
// concurrent reader sees either the old entry or the new one.
package store

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"ksnum/internal/bignum"
	"ksnum/internal/decimal"
)

// schemaVersion is bumped whenever Entry changes shape.
const schemaVersion uint16 = 1

// Key identifies one cached evaluation.
type Key [sha256.Size]byte

// KeyFor derives the cache key of an evaluation.
func KeyFor(mode string, precision int, round bool, expr string) Key {
	h := sha256.New()
	var buf [8]byte
	h.Write([]byte(mode))
	h.Write([]byte{0})
	binary.LittleEndian.PutUint64(buf[:], uint64(precision)) //nolint:gosec // G115: bit pattern only.
	h.Write(buf[:])
	if round {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	h.Write([]byte(expr))
	var k Key
	copy(k[:], h.Sum(nil))
	return k
}

// String returns the hex form of k.
func (k Key) String() string { return hex.EncodeToString(k[:]) }

// Kind tells which number field of an Entry is set.
type Kind uint8

const (
	KindInt Kind = iota + 1
	KindDecimal
)

// Entry is one cached result.
type Entry struct {
	Schema uint16
	Kind   Kind
	Int    bignum.BigInt
	Dec    decimal.Decimal
	Expr   string
	Stored time.Time
}

// Cache is a directory of msgpack entries. A nil *Cache is a valid cache
// that never hits. Safe for concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Open uses dir as the cache root, creating it if needed.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// OpenDefault opens $XDG_CACHE_HOME/app, falling back to ~/.cache/app.
func OpenDefault(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return Open(filepath.Join(base, app))
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *Cache) pathFor(key Key) string {
	hexKey := key.String()
	// Fan out by the first byte to keep directories small.
	return filepath.Join(c.dir, "results", hexKey[:2], hexKey+".mp")
}

// Put writes e under key.
func (c *Cache) Put(key Key, e *Entry) (err error) {
	if c == nil || e == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	renamed := false
	defer func() {
		if !renamed {
			_ = f.Close()
			if rmErr := os.Remove(f.Name()); rmErr != nil && err == nil {
				err = rmErr
			}
		}
	}()

	stored := *e
	stored.Schema = schemaVersion
	if stored.Stored.IsZero() {
		stored.Stored = time.Now().UTC()
	}
	if err := msgpack.NewEncoder(f).Encode(&stored); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(f.Name(), p); err != nil {
		return err
	}
	renamed = true
	return nil
}

// Get reads the entry under key. Missing entries and entries written by
// another schema version are misses, not errors.
func (c *Cache) Get(key Key) (*Entry, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var e Entry
	if err := msgpack.Unmarshal(data, &e); err != nil {
		return nil, false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	if e.Schema != schemaVersion {
		return nil, false, nil
	}
	return &e, true, nil
}

// DropAll removes every entry.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405.000000000")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return os.MkdirAll(c.dir, 0o755)
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}
