package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/users/ports"
)

const collectionName = "users"

var _ ports.Repository = (*Repository)(nil)

// Repository stores each user as one document with the cart embedded.
type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{collection: db.Collection(collectionName)}
}

type cartItemDocument struct {
	ProductID string `bson:"product_id"`
	Quantity  int    `bson:"quantity"`
}

type cartDocument struct {
	Items []cartItemDocument `bson:"items"`
}

type userDocument struct {
	ID        string       `bson:"_id"`
	Email     string       `bson:"email"`
	Cart      cartDocument `bson:"cart"`
	UpdatedAt time.Time    `bson:"updated_at"`
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var doc userDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return doc.toDomain(), nil
}

// Save replaces the whole user document, upserting when it is new.
func (r *Repository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	doc := toDocument(user)
	doc.UpdatedAt = time.Now().UTC()
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	return user.Clone(), nil
}

func toDocument(user *domain.User) userDocument {
	items := make([]cartItemDocument, 0, len(user.Cart.Items))
	for _, item := range user.Cart.Items {
		items = append(items, cartItemDocument{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return userDocument{ID: user.ID, Email: user.Email, Cart: cartDocument{Items: items}}
}

func (d userDocument) toDomain() *domain.User {
	items := make([]domain.CartItem, 0, len(d.Cart.Items))
	for _, item := range d.Cart.Items {
		items = append(items, domain.CartItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return &domain.User{ID: d.ID, Email: d.Email, Cart: domain.Cart{Items: items}}
}
