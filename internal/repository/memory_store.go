package repository

import (
	"context"
	"sync"

	"StockCast/internal/domain/errs"
)

// MemoryStore is an in-process artifact store for tests and ephemeral runs.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Exists(_ context.Context, symbol string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[ArtifactName(symbol)]
	return ok, nil
}

func (s *MemoryStore) Load(_ context.Context, symbol string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.data[ArtifactName(symbol)]
	if !ok {
		return nil, errs.Newf(errs.KindArtifactNotFound, "model for symbol %s not found", symbol).WithSymbol(symbol)
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (s *MemoryStore) Save(_ context.Context, symbol string, artifact []byte) error {
	b := make([]byte, len(artifact))
	copy(b, artifact)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[ArtifactName(symbol)] = b
	return nil
}
