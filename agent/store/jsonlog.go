package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

var ErrNoMatch = errors.New("no matching entry")

// Log is a JSON-file log of completed session records for one domain.
// The file wraps a single named list, e.g. {"entries": [...]} or
// {"leads": [...]}. Reads default to empty on a missing or malformed
// file; writes replace the whole document via a temp file and rename.
//
// The rename closes the torn-write gap, but two processes appending to
// the same file can still interleave read-modify-write and lose one
// append. Sessions are expected to own their store files.
type Log[T any] struct {
	path string
	key  string
	mu   sync.Mutex
}

func NewLog[T any](path, key string) *Log[T] {
	return &Log[T]{path: path, key: key}
}

// Entries reads the current list. A missing file or a parse failure is
// a soft condition: it logs and returns an empty list.
func (l *Log[T]) Entries() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

// Append reads the document, adds entry, and writes it back atomically.
func (l *Log[T]) Append(entry T) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.load()
	entries = append(entries, entry)
	return l.save(entries)
}

// UpdateWhere applies apply to the first entry match reports true for
// and writes the document back. Returns ErrNoMatch when nothing matched.
func (l *Log[T]) UpdateWhere(match func(T) bool, apply func(*T)) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.load()
	for i := range entries {
		if match(entries[i]) {
			apply(&entries[i])
			return l.save(entries)
		}
	}
	return ErrNoMatch
}

func (l *Log[T]) load() []T {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", l.path).Msg("read log file")
		}
		return nil
	}

	var doc map[string][]T
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.Warn().Err(err).Str("path", l.path).Msg("parse log file")
		return nil
	}
	return doc[l.key]
}

func (l *Log[T]) save(entries []T) error {
	if entries == nil {
		entries = []T{}
	}
	doc := map[string][]T{l.key: entries}
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal log document: %w", err)
	}
	return writeFileAtomic(l.path, payload)
}

// WriteDocument writes a single JSON object to its own file, used for
// per-order records named by order id.
func WriteDocument(path string, v any) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	return writeFileAtomic(path, payload)
}

func writeFileAtomic(path string, payload []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
