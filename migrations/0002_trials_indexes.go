package migrations

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TrialsUserIndexName is the unique index that keeps one trial per user.
const TrialsUserIndexName = "user_id_unique"

func init() {
	AddMigration(2, "trials_indexes", upTrialsIndexes, downTrialsIndexes)
}

func upTrialsIndexes(ctx context.Context, database *mongo.Database) error {
	if _, err := database.Collection("trials").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}}, // 1 for ascending order
		Options: options.Index().SetUnique(true).SetName(TrialsUserIndexName),
	}); err != nil {
		return fmt.Errorf("failed to create index on user_id for trials: %w", err)
	}
	return nil
}

func downTrialsIndexes(ctx context.Context, database *mongo.Database) error {
	if _, err := database.Collection("trials").Indexes().DropOne(ctx, TrialsUserIndexName); err != nil {
		return fmt.Errorf("failed to drop trials index: %w", err)
	}
	return nil
}
