package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the storefront schema. The records mirror the Postgres adapters
// column for column.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&productRecord{},
		&userRecord{},
		&orderRecord{},
		&reconciliationRecord{},
	)
}

// Product schema mirrors the catalog Postgres adapter.
type productRecord struct {
	ID          string          `gorm:"primaryKey;column:id;size:64"`
	Title       string          `gorm:"column:title"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Description string          `gorm:"column:description"`
	ImageURL    string          `gorm:"column:image_url"`
	CreatedAt   time.Time       `gorm:"column:created_at;index"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

type cartItemRecord struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// User schema mirrors the users Postgres adapter. The cart is embedded.
type userRecord struct {
	ID        string           `gorm:"primaryKey;column:id;size:64"`
	Email     string           `gorm:"column:email"`
	CartItems []cartItemRecord `gorm:"column:cart_items;type:jsonb;serializer:json"`
	CreatedAt time.Time        `gorm:"column:created_at"`
	UpdatedAt time.Time        `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

type lineRecord struct {
	Quantity    int             `json:"quantity"`
	ProductID   string          `json:"product_id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
}

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID        string       `gorm:"primaryKey;column:id;size:64"`
	UserID    string       `gorm:"column:user_id;size:64;index:idx_orders_user_created"`
	UserEmail string       `gorm:"column:user_email"`
	Lines     []lineRecord `gorm:"column:lines;type:jsonb;serializer:json"`
	CreatedAt time.Time    `gorm:"column:created_at;index:idx_orders_user_created"`
}

func (orderRecord) TableName() string { return "orders" }

// Reconciliation schema mirrors the cart reconciliation store.
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
