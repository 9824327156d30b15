package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. Lines are frozen
// snapshots and stored as jsonb next to the order row.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type lineRecord struct {
	Quantity    int             `json:"quantity"`
	ProductID   string          `json:"product_id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
}

type orderRecord struct {
	ID        string       `gorm:"primaryKey;column:id;size:64"`
	UserID    string       `gorm:"column:user_id;size:64;index:idx_orders_user_created"`
	UserEmail string       `gorm:"column:user_email"`
	Lines     []lineRecord `gorm:"column:lines;type:jsonb;serializer:json"`
	CreatedAt time.Time    `gorm:"column:created_at;index:idx_orders_user_created"`
}

func (orderRecord) TableName() string { return "orders" }

// Create inserts a new order. Existing ids are rejected.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(order)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrAlreadyExists
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// ListByUser returns the user's orders most recent first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	lines := make([]lineRecord, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, lineRecord{
			Quantity:    line.Quantity,
			ProductID:   line.Product.ID,
			Title:       line.Product.Title,
			Price:       line.Product.Price,
			Description: line.Product.Description,
			ImageURL:    line.Product.ImageURL,
		})
	}
	return orderRecord{
		ID:        order.ID,
		UserID:    order.User.UserID,
		UserEmail: order.User.Email,
		Lines:     lines,
		CreatedAt: order.CreatedAt.UTC(),
	}
}

func (r orderRecord) toDomain() *domain.Order {
	lines := make([]domain.Line, 0, len(r.Lines))
	for _, line := range r.Lines {
		lines = append(lines, domain.Line{
			Quantity: line.Quantity,
			Product: domain.ProductSnapshot{
				ID:          line.ProductID,
				Title:       line.Title,
				Price:       line.Price,
				Description: line.Description,
				ImageURL:    line.ImageURL,
			},
		})
	}
	return &domain.Order{
		ID:        r.ID,
		User:      domain.UserSnapshot{UserID: r.UserID, Email: r.UserEmail},
		Lines:     lines,
		CreatedAt: r.CreatedAt.UTC(),
	}
}
