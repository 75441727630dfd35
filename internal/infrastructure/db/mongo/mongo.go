package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultOpTimeout = 10 * time.Second
	defaultAppName   = "storefront-gateway"
)

// Config selects the deployment and database holding session state.
type Config struct {
	URI      string
	Database string
	// OpTimeout bounds the initial handshake and every later operation.
	OpTimeout   time.Duration
	MaxPoolSize uint64
}

func (c Config) clientOptions() *options.ClientOptions {
	timeout := c.OpTimeout
	if timeout <= 0 {
		timeout = defaultOpTimeout
	}
	opts := options.Client().
		ApplyURI(c.URI).
		SetAppName(defaultAppName).
		SetTimeout(timeout).
		SetServerSelectionTimeout(timeout)
	if c.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(c.MaxPoolSize)
	}
	return opts
}

// Store is the gateway's handle on MongoDB. Repositories are built from DB().
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open dials the deployment and waits for a primary before returning.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Database == "" {
		return nil, errors.New("mongo: database name is empty")
	}
	opts := cfg.clientOptions()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, *opts.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping %s: %w", cfg.Database, err)
	}

	return &Store{client: client, db: client.Database(cfg.Database)}, nil
}

func (s *Store) DB() *mongo.Database { return s.db }

// Ping backs the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
