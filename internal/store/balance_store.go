package store

import (
	"sync"

	"github.com/batidao/cardbridge/internal/models"
)

// BalanceStore is the authoritative in-memory card balance ledger. Cards
// appear on first reference and read as zero until then. Balances have no
// floor: the device is trusted to refuse service below zero, so deductions
// may drive a balance negative.
//
// All mutation goes through Adjust so that concurrent device deductions and
// administrative top-ups compose without a read-modify-write window.
type BalanceStore struct {
	mu       sync.RWMutex
	balances map[string]float64
}

func NewBalanceStore() *BalanceStore {
	return &BalanceStore{
		balances: make(map[string]float64),
	}
}

// Adjust atomically adds delta (positive or negative) to the balance for
// uid and returns the resulting value.
func (s *BalanceStore) Adjust(uid string, delta float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[uid] += delta
	return s.balances[uid]
}

// Read returns the current balance for uid, zero if the card is unknown.
func (s *BalanceStore) Read(uid string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[uid]
}

// Snapshot returns a point-in-time copy of every known balance. Order is
// not significant.
func (s *BalanceStore) Snapshot() []models.BalanceUpdate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make([]models.BalanceUpdate, 0, len(s.balances))
	for uid, balance := range s.balances {
		snapshot = append(snapshot, models.BalanceUpdate{UID: uid, Balance: balance})
	}
	return snapshot
}
