// Package cache memoises rendered buffers in sqlite, keyed by change key.
package cache

import (
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/cwbudde/algo-audioedit/dsp/audio"

	_ "modernc.org/sqlite"
)

// Memory is the path of a private in-memory cache.
const Memory = ":memory:"

// ErrCorrupt indicates a stored row whose blob does not match its shape.
var ErrCorrupt = errors.New("cache: corrupt entry")

const schema = `
CREATE TABLE IF NOT EXISTS renders (
	key TEXT PRIMARY KEY,
	sample_rate INTEGER NOT NULL,
	takes INTEGER NOT NULL,
	channels INTEGER NOT NULL,
	length INTEGER NOT NULL,
	samples BLOB NOT NULL,
	created INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_created ON renders(created);
`

// Store is a sqlite-backed render cache. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Stats summarises the stored renders.
type Stats struct {
	Entries int
	Bytes   uint64
}

// Open opens or creates the cache at path, creating parent directories.
func Open(path string) (*Store, error) {
	if path != Memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("cache: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open %s: %w", path, err)
	}

	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: create table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the buffer stored under key. A miss returns (nil, false, nil).
func (s *Store) Get(key string) (*audio.Buffer, bool, error) {
	var (
		rate, takes, channels, length int
		blob                          []byte
	)

	err := s.db.QueryRow(
		"SELECT sample_rate, takes, channels, length, samples FROM renders WHERE key = ?", key,
	).Scan(&rate, &takes, &channels, &length, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: get %s: %w", key, err)
	}

	b, err := decode(blob, rate, takes, channels, length)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}

	return b, true, nil
}

// Put stores b under key, replacing any previous entry.
func (s *Store) Put(key string, b *audio.Buffer) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("cache: put %s: %w", key, err)
	}

	takes, channels, length := b.Shape()

	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO renders (key, sample_rate, takes, channels, length, samples, created)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		key, b.SampleRate, takes, channels, length, encode(b), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("cache: put %s: %w", key, err)
	}

	return nil
}

// Stats counts entries and sample bytes.
func (s *Store) Stats() (Stats, error) {
	var (
		st    Stats
		bytes sql.NullInt64
	)

	err := s.db.QueryRow("SELECT COUNT(*), SUM(LENGTH(samples)) FROM renders").Scan(&st.Entries, &bytes)
	if err != nil {
		return Stats{}, fmt.Errorf("cache: stats: %w", err)
	}

	if bytes.Valid {
		st.Bytes = uint64(bytes.Int64)
	}

	return st, nil
}

// encode flattens samples take-major as little-endian float64.
func encode(b *audio.Buffer) []byte {
	out := make([]byte, 0, 8*b.NumElements())
	for _, take := range b.Samples {
		for _, ch := range take {
			for _, v := range ch {
				out = binary.LittleEndian.AppendUint64(out, math.Float64bits(v))
			}
		}
	}

	return out
}

func decode(blob []byte, rate, takes, channels, length int) (*audio.Buffer, error) {
	if rate <= 0 || takes <= 0 || channels <= 0 || length < 0 {
		return nil, fmt.Errorf("shape (%d, %d, %d) at %d Hz", takes, channels, length, rate)
	}

	if want := 8 * takes * channels * length; len(blob) != want {
		return nil, fmt.Errorf("blob has %d bytes, want %d", len(blob), want)
	}

	b := audio.New(takes, channels, length, rate)
	off := 0
	for _, take := range b.Samples {
		for _, ch := range take {
			for i := range ch {
				ch[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[off:]))
				off += 8
			}
		}
	}

	return b, nil
}
