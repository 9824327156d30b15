package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

const collectionName = "orders"

var _ ports.Repository = (*Repository)(nil)

// Repository stores each order as one immutable document.
type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{collection: db.Collection(collectionName)}
}

type productSnapshotDocument struct {
	ID          string `bson:"id"`
	Title       string `bson:"title"`
	Price       string `bson:"price"`
	Description string `bson:"description"`
	ImageURL    string `bson:"image_url"`
}

type lineDocument struct {
	Quantity int                     `bson:"quantity"`
	Product  productSnapshotDocument `bson:"product"`
}

type userSnapshotDocument struct {
	UserID string `bson:"user_id"`
	Email  string `bson:"email"`
}

type orderDocument struct {
	ID        string               `bson:"_id"`
	User      userSnapshotDocument `bson:"user"`
	Products  []lineDocument       `bson:"products"`
	CreatedAt time.Time            `bson:"created_at"`
}

func (r *Repository) CreateIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user.user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create order indexes: %w", err)
	}
	return nil
}

func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	if _, err := r.collection.InsertOne(ctx, toDocument(order)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ports.ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}
	return order.Clone(), nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var doc orderDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return doc.toDomain()
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user.user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	orders := make([]*domain.Order, 0, len(docs))
	for i := range docs {
		order, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func toDocument(order *domain.Order) orderDocument {
	lines := make([]lineDocument, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, lineDocument{
			Quantity: line.Quantity,
			Product: productSnapshotDocument{
				ID:          line.Product.ID,
				Title:       line.Product.Title,
				Price:       line.Product.Price.String(),
				Description: line.Product.Description,
				ImageURL:    line.Product.ImageURL,
			},
		})
	}
	return orderDocument{
		ID:        order.ID,
		User:      userSnapshotDocument{UserID: order.User.UserID, Email: order.User.Email},
		Products:  lines,
		CreatedAt: order.CreatedAt.UTC(),
	}
}

func (d orderDocument) toDomain() (*domain.Order, error) {
	lines := make([]domain.Line, 0, len(d.Products))
	for _, line := range d.Products {
		price, err := decimal.NewFromString(line.Product.Price)
		if err != nil {
			return nil, fmt.Errorf("order %s has malformed price %q: %w", d.ID, line.Product.Price, err)
		}
		lines = append(lines, domain.Line{
			Quantity: line.Quantity,
			Product: domain.ProductSnapshot{
				ID:          line.Product.ID,
				Title:       line.Product.Title,
				Price:       price,
				Description: line.Product.Description,
				ImageURL:    line.Product.ImageURL,
			},
		})
	}
	return &domain.Order{
		ID:        d.ID,
		User:      domain.UserSnapshot{UserID: d.User.UserID, Email: d.User.Email},
		Lines:     lines,
		CreatedAt: d.CreatedAt.UTC(),
	}, nil
}
