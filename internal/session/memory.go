package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. Suitable for tests and
// single-node deployments without persistence requirements.
type MemoryStore struct {
	mu   sync.RWMutex
	recs map[string]*Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recs: make(map[string]*Record)}
}

func (s *MemoryStore) Load(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	rec, ok := s.recs[id]
	s.mu.RUnlock()
	if !ok || time.Now().After(rec.ExpiresAt) {
		return nil, ErrNotFound
	}
	return copyRecord(rec), nil
}

func (s *MemoryStore) Save(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	s.recs[rec.ID] = copyRecord(rec)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.recs, id)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) DeleteExpired(ctx context.Context) (int64, error) {
	now := time.Now()
	var n int64
	s.mu.Lock()
	for id, rec := range s.recs {
		if now.After(rec.ExpiresAt) {
			delete(s.recs, id)
			n++
		}
	}
	s.mu.Unlock()
	return n, nil
}

// copyRecord detaches the stored map from the caller's.
func copyRecord(rec *Record) *Record {
	data := make(map[string]interface{}, len(rec.Data))
	for k, v := range rec.Data {
		data[k] = v
	}
	return &Record{ID: rec.ID, Data: data, ExpiresAt: rec.ExpiresAt}
}
