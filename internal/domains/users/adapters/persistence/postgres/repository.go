package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/users/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists users in PostgreSQL using GORM. The cart lives in a
// jsonb column so a user write replaces the whole cart atomically.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type cartItemRecord struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type userRecord struct {
	ID        string           `gorm:"primaryKey;column:id;size:64"`
	Email     string           `gorm:"column:email"`
	CartItems []cartItemRecord `gorm:"column:cart_items;type:jsonb;serializer:json"`
	CreatedAt time.Time        `gorm:"column:created_at"`
	UpdatedAt time.Time        `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Save inserts or replaces a user keyed by id.
func (r *Repository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(user)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "cart_items", "updated_at"}),
		}).
		Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a user with its cart.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record userRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres user repository not configured")
	}
	return nil
}

func toRecord(user *domain.User) userRecord {
	items := make([]cartItemRecord, 0, len(user.Cart.Items))
	for _, item := range user.Cart.Items {
		items = append(items, cartItemRecord{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return userRecord{ID: user.ID, Email: user.Email, CartItems: items}
}

func (r userRecord) toDomain() *domain.User {
	items := make([]domain.CartItem, 0, len(r.CartItems))
	for _, item := range r.CartItems {
		items = append(items, domain.CartItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return &domain.User{ID: r.ID, Email: r.Email, Cart: domain.Cart{Items: items}}
}
