package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

var _ ports.ReconciliationStore = (*ReconciliationStore)(nil)

// ReconciliationStore keeps the cart-clear backlog in the cart_reconciliations table.
type ReconciliationStore struct {
	db *gorm.DB
}

func NewReconciliationStore(db *gorm.DB) *ReconciliationStore {
	return &ReconciliationStore{db: db}
}

type reconciliationRecord struct {
	OrderID   string    `gorm:"primaryKey;column:order_id;size:64"`
	UserID    string    `gorm:"column:user_id;size:64"`
	Attempts  int       `gorm:"column:attempts"`
	LastError string    `gorm:"column:last_error"`
	Status    string    `gorm:"column:status;type:varchar(16);index:idx_reconciliations_status_created"`
	CreatedAt time.Time `gorm:"column:created_at;index:idx_reconciliations_status_created"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (reconciliationRecord) TableName() string { return "cart_reconciliations" }

// Record upserts the backlog entry, adding to the attempt count of an existing one.
func (s *ReconciliationStore) Record(ctx context.Context, rec ports.Reconciliation) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if rec.Status == "" {
		rec.Status = ports.ReconciliationPending
	}
	record := reconciliationRecord{
		OrderID:   rec.OrderID,
		UserID:    rec.UserID,
		Attempts:  rec.Attempts,
		LastError: rec.LastError,
		Status:    string(rec.Status),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "order_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"attempts":   gorm.Expr("cart_reconciliations.attempts + ?", rec.Attempts),
				"last_error": record.LastError,
				"status":     record.Status,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error
}

func (s *ReconciliationStore) ListPending(ctx context.Context, limit int) ([]ports.Reconciliation, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	query := s.db.WithContext(ctx).
		Where("status = ?", string(ports.ReconciliationPending)).
		Order("created_at ASC").Order("order_id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var records []reconciliationRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	pending := make([]ports.Reconciliation, 0, len(records))
	for _, r := range records {
		pending = append(pending, ports.Reconciliation{
			OrderID:   r.OrderID,
			UserID:    r.UserID,
			Attempts:  r.Attempts,
			LastError: r.LastError,
			Status:    ports.ReconciliationStatus(r.Status),
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return pending, nil
}

func (s *ReconciliationStore) MarkResolved(ctx context.Context, orderID string) error {
	return s.update(ctx, orderID, map[string]any{
		"status":     string(ports.ReconciliationResolved),
		"updated_at": gorm.Expr("NOW()"),
	})
}

func (s *ReconciliationStore) MarkFailed(ctx context.Context, orderID string, cause string) error {
	return s.update(ctx, orderID, map[string]any{
		"attempts":   gorm.Expr("attempts + 1"),
		"last_error": cause,
		"updated_at": gorm.Expr("NOW()"),
	})
}

func (s *ReconciliationStore) update(ctx context.Context, orderID string, values map[string]any) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	result := s.db.WithContext(ctx).Model(&reconciliationRecord{}).Where("order_id = ?", orderID).Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (s *ReconciliationStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres reconciliation store not configured")
	}
	return nil
}
