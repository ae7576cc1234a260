package checkout

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/ekaradag/shopsync/internal/domain"
)

// Store is the durable offline checkout queue. State lives in memory
// keyed by order ID and every mutation is committed to a JSON snapshot
// on disk before it is considered applied; a failed commit rolls the
// in-memory change back so memory and disk never disagree.
type Store struct {
	path  string
	mu    sync.Mutex
	items map[string]domain.QueueItem
}

type storeState struct {
	Items []domain.QueueItem `json:"items"`
}

// Open loads the queue snapshot at path, creating an empty store when
// the file does not exist yet.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("queue path is required")
	}
	s := &Store{
		path:  path,
		items: make(map[string]domain.QueueItem),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Enqueue adds an order to the queue. Re-enqueueing an existing ID
// replaces the stored item, so retrying a checkout never creates a
// duplicate submission.
func (s *Store) Enqueue(item domain.QueueItem) error {
	if item.ID == "" {
		return domain.ErrInvalidQueueItem
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.items[item.ID]
	s.items[item.ID] = item
	if err := s.saveLocked(); err != nil {
		if existed {
			s.items[item.ID] = prev
		} else {
			delete(s.items, item.ID)
		}
		return err
	}
	return nil
}

// ListAll returns every queued item ordered by enqueue time, oldest
// first, with the ID as a deterministic tiebreak.
func (s *Store) ListAll() []domain.QueueItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.QueueItem, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].QueuedAt.Equal(out[j].QueuedAt) {
			return out[i].QueuedAt.Before(out[j].QueuedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// DeleteByID removes an item. Deleting an unknown ID is a no-op.
func (s *Store) DeleteByID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.items[id]
	if !existed {
		return nil
	}
	delete(s.items, id)
	if err := s.saveLocked(); err != nil {
		s.items[id] = prev
		return err
	}
	return nil
}

// Len reports how many orders are waiting.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read queue snapshot: %w", err)
	}
	var snapshot storeState
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("decode queue snapshot: %w", err)
	}
	for _, item := range snapshot.Items {
		s.items[item.ID] = item
	}
	return nil
}

func (s *Store) saveLocked() error {
	snapshot := storeState{Items: make([]domain.QueueItem, 0, len(s.items))}
	for _, item := range s.items {
		snapshot.Items = append(snapshot.Items, item)
	}
	sort.Slice(snapshot.Items, func(i, j int) bool {
		return snapshot.Items[i].ID < snapshot.Items[j].ID
	})

	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
