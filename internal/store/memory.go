package store

import (
	"context"
	"sync"

	"github.com/me/edgesentry/pkg/model"
)

// MemoryStore is the default DecisionStore: a slice behind a mutex.
type MemoryStore struct {
	mu        sync.Mutex
	decisions []model.Decision
}

// NewMemoryStore creates an empty in-memory decision log.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// AppendDecision implements DecisionStore.
func (s *MemoryStore) AppendDecision(_ context.Context, d model.Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decisions = append(s.decisions, d)
	return nil
}

// ListDecisions implements DecisionStore.
func (s *MemoryStore) ListDecisions(_ context.Context, policy string) ([]model.Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Decision, 0, len(s.decisions))
	for _, d := range s.decisions {
		if d.Policy == policy {
			out = append(out, d)
		}
	}
	return out, nil
}

// CountDecisions implements DecisionStore.
func (s *MemoryStore) CountDecisions(_ context.Context, policy string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, d := range s.decisions {
		if d.Policy == policy {
			n++
		}
	}
	return n, nil
}

// Reset implements DecisionStore.
func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decisions = nil
	return nil
}

// Close implements DecisionStore.
func (s *MemoryStore) Close() error {
	return nil
}
