// Package encodings owns the mapping from user id to enrolled face
// embeddings: one JSON file per user on disk and an in-memory cache
// mirroring it.
package encodings

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/arkadas/facerec/internal/identity"
)

// ErrPersistence indicates the on-disk record could not be written or
// removed. When it is returned the in-memory cache is unchanged.
var ErrPersistence = errors.New("encoding persistence failed")

const fileExt = ".json"

// Store is the single source of truth for enrolled embeddings. All methods
// are safe for concurrent use; mutations are serialized, reads observe a
// consistent snapshot and return copies.
type Store struct {
	root string

	mu    sync.RWMutex
	cache map[string]*Record
	order []string // load/insertion order, backs ListAll
}

// NewStore creates the encodings directory if needed and loads every
// persisted record into memory. It must complete before the service accepts
// traffic.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("creating encodings directory: %w", err)
	}
	s := &Store{
		root:  root,
		cache: make(map[string]*Record),
	}
	if err := s.loadAll(); err != nil {
		return nil, err
	}
	return s, nil
}

// loadAll reads every persisted record into the cache. Files that fail to
// decode are skipped and logged so one corrupt record cannot take the
// service down.
func (s *Store) loadAll() error {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return fmt.Errorf("reading encodings directory: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		userID := strings.TrimSuffix(name, fileExt)
		rec, err := readRecord(filepath.Join(s.root, name))
		if err != nil {
			log.Printf("skipping encodings for %q: %v", userID, err)
			continue
		}
		rec.Identity = userID
		rec.Meta.EmbeddingCount = len(rec.Embeddings)
		s.cache[userID] = rec
		s.order = append(s.order, userID)
	}
	log.Printf("loaded face encodings for %d users", len(s.cache))
	return nil
}

// Get returns a copy of the user's record, or nil if the user is not
// enrolled. It never touches disk.
func (s *Store) Get(userID string) *Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.cache[userID]
	if !ok {
		return nil
	}
	return rec.Clone()
}

// AppendEmbedding validates the user id, appends the vector to the user's
// record (creating it on first enrollment), persists the full record, and
// only then publishes the update to the cache. On persistence failure the
// cache is left exactly as it was.
func (s *Store) AppendEmbedding(userID string, vec []float32, displayName string) (*Record, error) {
	id, err := identity.Validate(userID)
	if err != nil {
		return nil, err
	}
	path, err := identity.SafePath(s.root, id+fileExt)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	var next *Record
	if existing, ok := s.cache[id]; ok {
		next = existing.Clone()
	} else {
		next = &Record{Identity: id, Meta: Metadata{CreatedAt: now}}
	}
	next.Embeddings = append(next.Embeddings, append([]float32(nil), vec...))
	next.Meta.UpdatedAt = now
	next.Meta.EmbeddingCount = len(next.Embeddings)
	if displayName != "" {
		next.Meta.DisplayName = displayName
	}

	// Persist first, publish after. The cache must never run ahead of disk.
	if err := writeRecord(path, next); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if _, ok := s.cache[id]; !ok {
		s.order = append(s.order, id)
	}
	s.cache[id] = next
	return next.Clone(), nil
}

// Delete removes the user's record from the cache and from disk. Deleting a
// user that was never enrolled is not an error.
func (s *Store) Delete(userID string) error {
	id, err := identity.Validate(userID)
	if err != nil {
		return err
	}
	path, err := identity.SafePath(s.root, id+fileExt)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if _, ok := s.cache[id]; ok {
		delete(s.cache, id)
		if i := slices.Index(s.order, id); i >= 0 {
			s.order = slices.Delete(s.order, i, i+1)
		}
	}
	return nil
}

// ListAll returns a summary for every enrolled user, in load/insertion
// order. The order is not stable across restarts; callers that need a
// particular order must sort.
func (s *Store) ListAll() []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]Summary, 0, len(s.order))
	for _, id := range s.order {
		rec := s.cache[id]
		summaries = append(summaries, Summary{
			UserID:         rec.Identity,
			EmbeddingCount: rec.Meta.EmbeddingCount,
			CreatedAt:      rec.Meta.CreatedAt,
			UpdatedAt:      rec.Meta.UpdatedAt,
			DisplayName:    rec.Meta.DisplayName,
		})
	}
	return summaries
}

// Count returns the number of enrolled users.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}

// Snapshot returns deep copies of every record for matching. The matcher
// scans these without holding the store lock.
func (s *Store) Snapshot() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]Record, 0, len(s.order))
	for _, id := range s.order {
		records = append(records, *s.cache[id].Clone())
	}
	return records
}

func readRecord(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return &rec, nil
}

// writeRecord persists a record atomically: write a temp file in the same
// directory, then rename over the destination.
func writeRecord(path string, rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
