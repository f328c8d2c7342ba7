package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const MongoCollectionName = "collections"

type mongoDocument struct {
	ID        string    `bson:"_id"`
	Payload   string    `bson:"payload"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoBackend keeps every collection as one document in a shared MongoDB collection.
type MongoBackend struct {
	client       *mongo.Client
	collection   *mongo.Collection
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewMongoBackend(client *mongo.Client, database string, readTimeout, writeTimeout time.Duration) *MongoBackend {
	return &MongoBackend{
		client:       client,
		collection:   client.Database(database).Collection(MongoCollectionName),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (b *MongoBackend) Load(ctx context.Context, c Collection) ([]byte, error) {
	ctx, cancel := withTimeout(ctx, b.readTimeout)
	defer cancel()

	var doc mongoDocument
	err := b.collection.FindOne(ctx, bson.M{"_id": string(c)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrMissing
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find collection document: %w", err)
	}
	return []byte(doc.Payload), nil
}

func (b *MongoBackend) Save(ctx context.Context, c Collection, data []byte) error {
	ctx, cancel := withTimeout(ctx, b.writeTimeout)
	defer cancel()

	doc := mongoDocument{
		ID:        string(c),
		Payload:   string(data),
		UpdatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	_, err := b.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to replace collection document: %w", err)
	}
	return nil
}

func (b *MongoBackend) Ping(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, b.readTimeout)
	defer cancel()
	return b.client.Ping(ctx, nil)
}

func (b *MongoBackend) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return b.client.Disconnect(ctx)
}
