package tokens

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/medrecords/internal/client/models"
)

// MemoryStore keeps the pair in process memory only.
type MemoryStore struct {
	mu   sync.RWMutex
	pair *models.CredentialPair
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Get(_ context.Context) (models.CredentialPair, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.pair == nil {
		return models.CredentialPair{}, false
	}
	return *m.pair, true
}

func (m *MemoryStore) Set(_ context.Context, pair models.CredentialPair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if isEmpty(pair) {
		m.pair = nil
		return nil
	}
	p := pair
	m.pair = &p
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair = nil
	return nil
}
