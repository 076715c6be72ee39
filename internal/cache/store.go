// Package cache holds per-user snapshots of recently fetched records so the
// record access layer can skip redundant repository queries. Snapshots are
// best effort: the database stays the source of truth, writes patch the
// snapshot in place, and an expired or corrupt snapshot is simply a miss.
package cache

import (
	"sync"
	"time"
)

// Kind names one cached record family.
type Kind string

const (
	KindFields  Kind = "fields"
	KindEntries Kind = "entries"
)

// Key addresses one snapshot. Keeping the parts separate instead of joining
// them into a string removes any collision risk when identifiers contain a
// separator character.
type Key struct {
	UserID uint `json:"user_id"`
	Kind   Kind `json:"kind"`
}

type snapshot[T any] struct {
	records   []T
	writtenAt time.Time
}

// Store is a mutex-guarded snapshot map for one record kind. TTL of zero or
// below means snapshots never expire. An optional saver is triggered after
// every mutation so persistence can coalesce disk writes.
type Store[T any] struct {
	mu        sync.Mutex
	kind      Kind
	ttl       time.Duration
	clock     func() time.Time
	recordID  func(T) string
	snapshots map[Key]snapshot[T]
	saver     Saver
}

// Saver receives change notifications from a store. Implementations decide
// when the notification actually reaches disk.
type Saver interface {
	Trigger()
}

const DefaultTTL = time.Hour

func NewStore[T any](kind Kind, ttl time.Duration, recordID func(T) string) *Store[T] {
	return &Store[T]{
		kind:      kind,
		ttl:       ttl,
		clock:     time.Now,
		recordID:  recordID,
		snapshots: make(map[Key]snapshot[T]),
	}
}

// SetClock replaces the time source. Tests use it to step past the TTL.
func (store *Store[T]) SetClock(clock func() time.Time) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.clock = clock
}

// SetSaver attaches the persistence hook notified after every mutation.
func (store *Store[T]) SetSaver(saver Saver) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.saver = saver
}

func (store *Store[T]) Kind() Kind {
	return store.kind
}

// Get returns a copy of the cached records for the user, or false when no
// snapshot exists or the snapshot has expired. Expiry looks identical to
// absence so callers always fall back to a plain refetch.
func (store *Store[T]) Get(userID uint) ([]T, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()

	key := Key{UserID: userID, Kind: store.kind}
	cached, present := store.snapshots[key]
	if !present {
		return nil, false
	}
	if store.expiredLocked(cached) {
		delete(store.snapshots, key)
		return nil, false
	}

	records := make([]T, len(cached.records))
	copy(records, cached.records)
	return records, true
}

// Put overwrites the user's snapshot wholesale and stamps the current time.
func (store *Store[T]) Put(userID uint, records []T) {
	store.mu.Lock()
	copied := make([]T, len(records))
	copy(copied, records)
	store.snapshots[Key{UserID: userID, Kind: store.kind}] = snapshot[T]{
		records:   copied,
		writtenAt: store.clock(),
	}
	saver := store.saver
	store.mu.Unlock()

	notify(saver)
}

// PatchInsert appends one record to the user's snapshot. A missing snapshot
// is a no-op, not an error: the next read will fetch and repopulate anyway.
func (store *Store[T]) PatchInsert(userID uint, record T) {
	store.patch(userID, func(records []T) []T {
		return append(records, record)
	})
}

// PatchUpdate replaces the cached record carrying the same ID. Callers merge
// partial updates into the full record before patching. No-op when the
// snapshot or the record is absent.
func (store *Store[T]) PatchUpdate(userID uint, record T) {
	id := store.recordID(record)
	store.patch(userID, func(records []T) []T {
		for index := range records {
			if store.recordID(records[index]) == id {
				records[index] = record
			}
		}
		return records
	})
}

// PatchRemove drops the cached record with the given ID, if present.
func (store *Store[T]) PatchRemove(userID uint, recordID string) {
	store.patch(userID, func(records []T) []T {
		filtered := records[:0]
		for _, record := range records {
			if store.recordID(record) != recordID {
				filtered = append(filtered, record)
			}
		}
		return filtered
	})
}

// Clear removes the user's snapshot.
func (store *Store[T]) Clear(userID uint) {
	store.mu.Lock()
	delete(store.snapshots, Key{UserID: userID, Kind: store.kind})
	saver := store.saver
	store.mu.Unlock()

	notify(saver)
}

func (store *Store[T]) patch(userID uint, mutate func([]T) []T) {
	store.mu.Lock()
	key := Key{UserID: userID, Kind: store.kind}
	cached, present := store.snapshots[key]
	if !present || store.expiredLocked(cached) {
		delete(store.snapshots, key)
		store.mu.Unlock()
		return
	}

	cached.records = mutate(cached.records)
	cached.writtenAt = store.clock()
	store.snapshots[key] = cached
	saver := store.saver
	store.mu.Unlock()

	notify(saver)
}

func (store *Store[T]) expiredLocked(cached snapshot[T]) bool {
	if store.ttl <= 0 {
		return false
	}
	return store.clock().Sub(cached.writtenAt) >= store.ttl
}

func notify(saver Saver) {
	if saver != nil {
		saver.Trigger()
	}
}
