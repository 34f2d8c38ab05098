package ledger

import (
	"context"
	"sync"
)

// MemoryStore implements Store with in-memory slices. Used for demo mode
// and as the fixture store in tests.
type MemoryStore struct {
	users         []User
	purchases     []Purchase
	repayments    []Repayment
	verifications []Verification
	mu            sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) LoadUsers(_ context.Context) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]User, len(s.users))
	copy(out, s.users)
	return out, nil
}

func (s *MemoryStore) AppendUser(_ context.Context, u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, u)
	return nil
}

func (s *MemoryStore) LoadPurchases(_ context.Context) ([]Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Purchase, len(s.purchases))
	copy(out, s.purchases)
	return out, nil
}

func (s *MemoryStore) AppendPurchase(_ context.Context, p Purchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purchases = append(s.purchases, p)
	return nil
}

func (s *MemoryStore) LoadRepayments(_ context.Context) ([]Repayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Repayment, len(s.repayments))
	copy(out, s.repayments)
	return out, nil
}

func (s *MemoryStore) AppendRepayment(_ context.Context, r Repayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repayments = append(s.repayments, r)
	return nil
}

func (s *MemoryStore) LoadVerifications(_ context.Context) ([]Verification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Verification, len(s.verifications))
	copy(out, s.verifications)
	return out, nil
}

func (s *MemoryStore) AppendVerification(_ context.Context, v Verification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verifications = append(s.verifications, v)
	return nil
}
