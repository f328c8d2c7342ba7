package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func collectionSchema() bson.M {
	names := make([]string, 0, len(Collections))
	for _, c := range Collections {
		names = append(names, string(c))
	}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": []string{"_id", "payload", "updated_at"},
			"properties": bson.M{
				"_id": bson.M{
					"bsonType": "string",
					"enum":     names,
				},
				"payload": bson.M{
					"bsonType": "string",
				},
				"updated_at": bson.M{
					"bsonType": "date",
				},
			},
		},
	}
}

var collectionIndexes = []mongo.IndexModel{
	{Keys: bson.D{{Key: "updated_at", Value: -1}}},
}

// EnsureSchema creates the backing collection with its validator, or refreshes
// the validator when the collection already exists. It is safe to run repeatedly.
func (b *MongoBackend) EnsureSchema(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, b.writeTimeout)
	defer cancel()

	db := b.collection.Database()
	name := b.collection.Name()
	validator := collectionSchema()

	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}

	if len(existing) == 0 {
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("create collection %s: %w", name, err)
		}
	} else {
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			return fmt.Errorf("update validator for %s: %w", name, err)
		}
	}

	if _, err := b.collection.Indexes().CreateMany(ctx, collectionIndexes); err != nil {
		return fmt.Errorf("ensure indexes for %s: %w", name, err)
	}
	return nil
}
