package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
)

const collectionName = "products"

var _ ports.Repository = (*Repository)(nil)

// Repository stores products as documents in the products collection.
type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{collection: db.Collection(collectionName)}
}

type productDocument struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Price       string    `bson:"price"`
	Description string    `bson:"description"`
	ImageURL    string    `bson:"image_url"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

// CreateIndexes backs the listing sort.
func (r *Repository) CreateIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create product indexes: %w", err)
	}
	return nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}

func (r *Repository) List(ctx context.Context, offset, limit int) ([]*domain.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	products := make([]*domain.Product, 0, len(docs))
	for i := range docs {
		product, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var doc productDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return doc.toDomain()
}

func (r *Repository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Product, error) {
	found := make(map[string]*domain.Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	for i := range docs {
		product, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		found[product.ID] = product
	}
	return found, nil
}

func (r *Repository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	id := product.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"title":       product.Title,
			"price":       product.Price.String(),
			"description": product.Description,
			"image_url":   product.ImageURL,
			"updated_at":  now,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update, opts); err != nil {
		return nil, fmt.Errorf("failed to upsert product: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (d productDocument) toDomain() (*domain.Product, error) {
	price, err := decimal.NewFromString(d.Price)
	if err != nil {
		return nil, fmt.Errorf("product %s has malformed price %q: %w", d.ID, d.Price, err)
	}
	return &domain.Product{
		ID:          d.ID,
		Title:       d.Title,
		Price:       price,
		Description: d.Description,
		ImageURL:    d.ImageURL,
	}, nil
}
