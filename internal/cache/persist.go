package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"
)

// PersistedSnapshot is the on-disk form of one user's cached records.
type PersistedSnapshot[T any] struct {
	UserID    uint      `json:"user_id"`
	Kind      Kind      `json:"kind"`
	WrittenAt time.Time `json:"written_at"`
	Records   []T       `json:"records"`
}

// Export copies every live snapshot for persistence. Expired snapshots are
// skipped rather than written back out.
func (store *Store[T]) Export() []PersistedSnapshot[T] {
	store.mu.Lock()
	defer store.mu.Unlock()

	exported := make([]PersistedSnapshot[T], 0, len(store.snapshots))
	for key, cached := range store.snapshots {
		if store.expiredLocked(cached) {
			continue
		}
		records := make([]T, len(cached.records))
		copy(records, cached.records)
		exported = append(exported, PersistedSnapshot[T]{
			UserID:    key.UserID,
			Kind:      key.Kind,
			WrittenAt: cached.writtenAt,
			Records:   records,
		})
	}
	return exported
}

// Import replaces the in-memory snapshots with previously persisted ones.
// Snapshots recorded under a different kind are ignored.
func (store *Store[T]) Import(persisted []PersistedSnapshot[T]) {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.snapshots = make(map[Key]snapshot[T], len(persisted))
	for _, entry := range persisted {
		if entry.Kind != store.kind {
			continue
		}
		store.snapshots[Key{UserID: entry.UserID, Kind: entry.Kind}] = snapshot[T]{
			records:   entry.Records,
			writtenAt: entry.WrittenAt,
		}
	}
}

// Persister writes a store's snapshots to one JSON file, coalescing bursts
// of mutations into a single disk write. Load failures are logged and
// treated as an empty cache: the cache always fails open to a refetch.
type Persister[T any] struct {
	store     *Store[T]
	path      string
	coalescer *Coalescer
}

func NewPersister[T any](store *Store[T], path string, idle time.Duration) *Persister[T] {
	persister := &Persister[T]{store: store, path: path}
	persister.coalescer = NewCoalescer(idle, persister.save)
	store.SetSaver(persister.coalescer)
	return persister
}

// Load reads previously persisted snapshots into the store.
func (persister *Persister[T]) Load() {
	raw, err := os.ReadFile(persister.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("cache load failed for %s: %v", persister.path, err)
		}
		return
	}

	persisted := make([]PersistedSnapshot[T], 0)
	if err := json.Unmarshal(raw, &persisted); err != nil {
		log.Printf("cache file %s is corrupt, starting empty: %v", persister.path, err)
		return
	}
	persister.store.Import(persisted)
}

// Close flushes pending snapshots to disk and stops the coalescer.
func (persister *Persister[T]) Close() {
	persister.coalescer.Close()
}

func (persister *Persister[T]) save() {
	serialized, err := json.Marshal(persister.store.Export())
	if err != nil {
		log.Printf("cache serialize failed for %s: %v", persister.path, err)
		return
	}
	if err := writeFileAtomic(persister.path, serialized); err != nil {
		log.Printf("cache write failed for %s: %v", persister.path, err)
	}
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	temp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	tempName := temp.Name()
	if _, err := temp.Write(data); err != nil {
		temp.Close()
		os.Remove(tempName)
		return fmt.Errorf("write temp cache file: %w", err)
	}
	if err := temp.Close(); err != nil {
		os.Remove(tempName)
		return fmt.Errorf("close temp cache file: %w", err)
	}
	if err := os.Rename(tempName, path); err != nil {
		os.Remove(tempName)
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}
