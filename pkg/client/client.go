package client

import (
	"context"
	"fmt"
	"time"

	"rendezvous/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client holds the infrastructure connections a service opened at startup.
// Either field may be nil when the backend is not configured.
type Client struct {
	Mongo *mongo.Client
	Redis *redis.Client
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) SetMongo(ctx context.Context, log *logger.Logger, mongoURI string, connTimeout time.Duration) error {
	client, err := ConnectMongo(ctx, log, mongoURI, connTimeout)
	if err != nil {
		return err
	}
	c.Mongo = client
	return nil
}

func (c *Client) SetRedis(ctx context.Context, log *logger.Logger, addr, password string, db int) error {
	client, err := NewRedis(ctx, log, addr, password, db)
	if err != nil {
		return err
	}
	c.Redis = client
	return nil
}

func (c *Client) Close(ctx context.Context) error {
	var firstErr error
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			firstErr = err
		}
	}
	if c.Mongo != nil {
		if err := c.Mongo.Disconnect(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func ConnectMongo(ctx context.Context, log *logger.Logger, mongoURI string, connTimeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	log.Info("Successfully connected to MongoDB")
	return client, nil
}

func NewRedis(ctx context.Context, log *logger.Logger, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping Redis at %s: %w", addr, err)
	}

	log.Info("Successfully connected to Redis", "addr", addr, "db", db)
	return client, nil
}
