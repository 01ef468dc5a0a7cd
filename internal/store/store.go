// Package store holds the process-wide record collections: products, users
// and orders. All state is memory-resident; a restart resets to the seed
// catalog. Collections preserve insertion order and identifiers are assigned
// monotonically, never reused within a process lifetime.
package store

import (
	"sync"
	"time"

	"github.com/safar/go-storefront/internal/models"
)

// Store is safe for concurrent use. Read-modify-write stock operations run
// under the write lock, so callers need no coordination of their own.
type Store struct {
	mu sync.RWMutex

	products []models.Product
	users    []models.User
	orders   []models.Order

	nextProductID int64
	nextUserID    int64
	nextOrderID   int64

	now func() time.Time
}

func New() *Store {
	return &Store{
		nextProductID: 1,
		nextUserID:    1,
		nextOrderID:   1,
		now:           time.Now,
	}
}

// SetClock overrides the store clock. Intended for tests.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}
