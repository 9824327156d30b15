package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

const reconciliationCollection = "cart_reconciliations"

var _ ports.ReconciliationStore = (*ReconciliationStore)(nil)

type ReconciliationStore struct {
	collection *mongo.Collection
}

func NewReconciliationStore(db *mongo.Database) *ReconciliationStore {
	return &ReconciliationStore{collection: db.Collection(reconciliationCollection)}
}

type reconciliationDocument struct {
	OrderID   string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	Attempts  int       `bson:"attempts"`
	LastError string    `bson:"last_error"`
	Status    string    `bson:"status"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (s *ReconciliationStore) Record(ctx context.Context, rec ports.Reconciliation) error {
	if rec.Status == "" {
		rec.Status = ports.ReconciliationPending
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	update := bson.M{
		"$set": bson.M{
			"user_id":    rec.UserID,
			"last_error": rec.LastError,
			"status":     string(rec.Status),
			"updated_at": time.Now().UTC(),
		},
		"$inc":         bson.M{"attempts": rec.Attempts},
		"$setOnInsert": bson.M{"created_at": createdAt},
	}
	if _, err := s.collection.UpdateOne(ctx, bson.M{"_id": rec.OrderID}, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to record reconciliation: %w", err)
	}
	return nil
}

func (s *ReconciliationStore) ListPending(ctx context.Context, limit int) ([]ports.Reconciliation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := s.collection.Find(ctx, bson.M{"status": string(ports.ReconciliationPending)}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list reconciliations: %w", err)
	}
	var docs []reconciliationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode reconciliations: %w", err)
	}
	pending := make([]ports.Reconciliation, 0, len(docs))
	for _, d := range docs {
		pending = append(pending, ports.Reconciliation{
			OrderID:   d.OrderID,
			UserID:    d.UserID,
			Attempts:  d.Attempts,
			LastError: d.LastError,
			Status:    ports.ReconciliationStatus(d.Status),
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		})
	}
	return pending, nil
}

func (s *ReconciliationStore) MarkResolved(ctx context.Context, orderID string) error {
	return s.update(ctx, orderID, bson.M{
		"$set": bson.M{"status": string(ports.ReconciliationResolved), "updated_at": time.Now().UTC()},
	})
}

func (s *ReconciliationStore) MarkFailed(ctx context.Context, orderID string, cause string) error {
	return s.update(ctx, orderID, bson.M{
		"$set": bson.M{"last_error": cause, "updated_at": time.Now().UTC()},
		"$inc": bson.M{"attempts": 1},
	})
}

func (s *ReconciliationStore) update(ctx context.Context, orderID string, update bson.M) error {
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": orderID}, update)
	if err != nil {
		return fmt.Errorf("failed to update reconciliation: %w", err)
	}
	if result.MatchedCount == 0 {
		return ports.ErrNotFound
	}
	return nil
}
