package wizard

import (
	"context"
	"sync"
)

// DraftStore persists one draft per session. Load returns nil without error when nothing is stored.
type DraftStore interface {
	Load(ctx context.Context, sessionID string) (*Draft, error)
	Save(ctx context.Context, sessionID string, draft Draft) error
	Clear(ctx context.Context, sessionID string) error
}

// MemoryStore keeps drafts in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string]Draft
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string]Draft)}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (*Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[sessionID]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, draft Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[sessionID] = draft
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, sessionID)
	return nil
}

var _ DraftStore = (*MemoryStore)(nil)
