// Package cache persists the last-known poster state per collection so
// runs where nothing changed can skip the remote download-and-hash
// round-trip. The cache is purely an acceleration structure: every
// decision it short-circuits has a verify-against-the-server fallback,
// so a missing, stale, or corrupt cache only costs extra requests,
// never correctness.
package cache

import (
	"encoding/json"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	// cacheDirPerm is the permission mode for the cache's containing
	// directory when it has to be created.
	cacheDirPerm = fs.FileMode(0o755)

	// cacheFilePerm is the permission mode for the cache database file.
	cacheFilePerm = fs.FileMode(0o600)

	// cacheOpenTimeout is the maximum time to wait for the bolt database
	// lock, in case a previous run is still shutting down.
	cacheOpenTimeout = 5 * time.Second
)

var postersBucket = []byte("posters")

// Entry is the persisted state for one collection: the hash of the local
// file last observed and the server-side key of the poster selected at
// that time. The poster key is an opaque identifier, not a content hash.
type Entry struct {
	LocalHash string `json:"local_hash"`
	PosterKey string `json:"poster_key"`
}

// Cache wraps a bbolt database keyed by collection rating key. A Cache
// whose database failed to open is disabled: reads miss and writes are
// dropped, so callers never need to branch on cache availability.
// bbolt serializes writers internally, so concurrent worker updates to
// different rating keys are safe without additional locking.
type Cache struct {
	db     *bolt.DB
	logger *slog.Logger
}

// Open opens (or creates) the cache database at path, creating the
// containing directory if needed. Open never fails: any error is logged
// and a disabled cache is returned, since the cache is advisory.
func Open(path string, logger *slog.Logger) *Cache {
	disabled := &Cache{logger: logger}

	if err := os.MkdirAll(filepath.Dir(path), cacheDirPerm); err != nil {
		logger.Warn("creating cache directory", slog.String("path", path), slog.Any("error", err))
		return disabled
	}

	db, err := bolt.Open(path, cacheFilePerm, &bolt.Options{Timeout: cacheOpenTimeout})
	if err != nil {
		logger.Warn("opening cache database", slog.String("path", path), slog.Any("error", err))
		return disabled
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(postersBucket)
		return err
	})
	if err != nil {
		db.Close()
		logger.Warn("initializing cache database", slog.String("path", path), slog.Any("error", err))

		return disabled
	}

	return &Cache{db: db, logger: logger}
}

// Enabled reports whether the cache has a usable database behind it.
func (c *Cache) Enabled() bool {
	return c.db != nil
}

// Get returns the cached entry for a collection rating key, or nil on a
// miss. A corrupt value counts as a miss.
func (c *Cache) Get(ratingKey string) *Entry {
	if c.db == nil {
		return nil
	}

	var entry *Entry

	_ = c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(postersBucket).Get([]byte(ratingKey))
		if v == nil {
			return nil
		}

		e := &Entry{}
		if err := json.Unmarshal(v, e); err != nil {
			c.logger.Warn("corrupt cache entry", slog.String("rating_key", ratingKey), slog.Any("error", err))
			return nil
		}

		entry = e

		return nil
	})

	return entry
}

// Set stores the entry for a collection rating key. Write failures are
// logged, not returned: a failed cache write must never fail the item.
func (c *Cache) Set(ratingKey string, entry Entry) {
	if c.db == nil {
		return
	}

	err := c.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}

		return tx.Bucket(postersBucket).Put([]byte(ratingKey), data)
	})
	if err != nil {
		c.logger.Warn("writing cache entry", slog.String("rating_key", ratingKey), slog.Any("error", err))
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	if c.db == nil {
		return 0
	}

	count := 0

	_ = c.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(postersBucket).Stats().KeyN
		return nil
	})

	return count
}

// Close closes the database. Safe on a disabled cache.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}

	return c.db.Close()
}
