package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

var _ ports.ReconciliationStore = (*ReconciliationStore)(nil)

// ReconciliationStore keeps the backlog in memory, keyed by order id.
type ReconciliationStore struct {
	mu      sync.Mutex
	records map[string]ports.Reconciliation
	now     func() time.Time
}

func NewReconciliationStore() *ReconciliationStore {
	return &ReconciliationStore{records: map[string]ports.Reconciliation{}, now: time.Now}
}

func (s *ReconciliationStore) Record(_ context.Context, rec ports.Reconciliation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.Status == "" {
		rec.Status = ports.ReconciliationPending
	}
	if existing, ok := s.records[rec.OrderID]; ok {
		rec.CreatedAt = existing.CreatedAt
		rec.Attempts += existing.Attempts
	}
	s.records[rec.OrderID] = rec
	return nil
}

func (s *ReconciliationStore) ListPending(_ context.Context, limit int) ([]ports.Reconciliation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := make([]ports.Reconciliation, 0)
	for _, rec := range s.records {
		if rec.Status == ports.ReconciliationPending {
			pending = append(pending, rec)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].OrderID < pending[j].OrderID
		}
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (s *ReconciliationStore) MarkResolved(_ context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[orderID]
	if !ok {
		return ports.ErrNotFound
	}
	rec.Status = ports.ReconciliationResolved
	rec.UpdatedAt = s.now().UTC()
	s.records[orderID] = rec
	return nil
}

func (s *ReconciliationStore) MarkFailed(_ context.Context, orderID string, cause string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[orderID]
	if !ok {
		return ports.ErrNotFound
	}
	rec.Attempts++
	rec.LastError = cause
	rec.UpdatedAt = s.now().UTC()
	s.records[orderID] = rec
	return nil
}

// Get returns the record for orderID, if any.
func (s *ReconciliationStore) Get(orderID string) (ports.Reconciliation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[orderID]
	return rec, ok
}
