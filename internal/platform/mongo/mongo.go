package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect dials MongoDB, verifies connectivity and returns the named database
// together with a cleanup that disconnects the client.
func Connect(ctx context.Context, uri, database string) (*mongo.Database, func(), error) {
	if strings.TrimSpace(uri) == "" {
		return nil, func() {}, fmt.Errorf("mongo URI is empty")
	}
	if strings.TrimSpace(database) == "" {
		return nil, func() {}, fmt.Errorf("mongo database name is empty")
	}
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, func() {}, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}
	return client.Database(database), cleanup, nil
}
