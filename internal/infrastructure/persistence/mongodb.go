package persistence

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DefaultMongoTimeout bounds connect and ping when MongoOptions.Timeout is unset
const DefaultMongoTimeout = 10 * time.Second

// MongoOptions describes how to reach the oracle event store
type MongoOptions struct {
	URI      string
	Username string
	Password string
	Timeout  time.Duration
}

// NewMongoClient connects to MongoDB and pings the primary. The client is
// disconnected again when the ping fails.
func NewMongoClient(ctx context.Context, opts MongoOptions) (*mongo.Client, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultMongoTimeout
	}

	clientOptions := options.Client().
		ApplyURI(opts.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)
	if opts.Username != "" && opts.Password != "" {
		clientOptions.SetAuth(options.Credential{
			Username: opts.Username,
			Password: opts.Password,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		disconnectCtx, cancelDisconnect := context.WithTimeout(context.Background(), timeout)
		defer cancelDisconnect()
		_ = client.Disconnect(disconnectCtx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client, nil
}

// GetDatabase gets a database from the client
func GetDatabase(client *mongo.Client, name string) *mongo.Database {
	return client.Database(name)
}
