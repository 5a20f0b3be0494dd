package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"framecraft-backend/internal/models"
)

// MemoryStore is an in-memory SessionStore with the same quota semantics
// as the production store. Used by tests and by deployments without a
// database configured.
type MemoryStore struct {
	mu         sync.Mutex
	quota      int64
	uploads    map[string][]byte
	composites map[string][]byte
	orders     map[string][]byte
}

// NewMemoryStore creates a store with a per-session blob budget in bytes.
// A zero or negative quota disables the limit.
func NewMemoryStore(quota int64) *MemoryStore {
	return &MemoryStore{
		quota:      quota,
		uploads:    map[string][]byte{},
		composites: map[string][]byte{},
		orders:     map[string][]byte{},
	}
}

func (s *MemoryStore) SaveUpload(_ context.Context, sessionID string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exceedsQuota(sessionID, len(data), s.uploads) {
		return "", ErrQuotaExceeded
	}
	s.uploads[sessionID] = append([]byte(nil), data...)
	return "memory://sessions/" + sessionID + "/upload", nil
}

func (s *MemoryStore) LoadUpload(_ context.Context, sessionID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.uploads[sessionID]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), data...), nil
}

func (s *MemoryStore) SaveOrder(_ context.Context, sessionID string, order *models.Order) error {
	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.orders[sessionID] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) LoadOrder(_ context.Context, sessionID string) (*models.Order, error) {
	s.mu.Lock()
	data, ok := s.orders[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	var order models.Order
	if err := json.Unmarshal(data, &order); err != nil {
		// Malformed records read as absent.
		return nil, nil
	}
	return &order, nil
}

func (s *MemoryStore) SaveComposite(_ context.Context, sessionID string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exceedsQuota(sessionID, len(data), s.composites) {
		return "", ErrQuotaExceeded
	}
	s.composites[sessionID] = append([]byte(nil), data...)
	return "memory://sessions/" + sessionID + "/composite.png", nil
}

func (s *MemoryStore) LoadComposite(_ context.Context, sessionID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.composites[sessionID]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), data...), nil
}

// exceedsQuota reports whether writing size bytes into target would push
// the session's blob usage past the budget. The record being replaced does
// not count against itself.
func (s *MemoryStore) exceedsQuota(sessionID string, size int, target map[string][]byte) bool {
	if s.quota <= 0 {
		return false
	}
	used := int64(len(s.uploads[sessionID])) + int64(len(s.composites[sessionID]))
	used -= int64(len(target[sessionID]))
	return used+int64(size) > s.quota
}
