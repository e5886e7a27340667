package migrations

import (
	"context"
	"fmt"
	"slices"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func init() {
	AddMigration(1, "trials_collection", upTrialsCollection, downTrialsCollection)
}

var collectionsToCreate = []string{
	"trials",
	"migrations",
}

var collectionsValidators = map[string]bson.M{
	"trials": trialsCollectionValidator,
}

// timestampPattern is a loose RFC 3339 check, the application parses the
// value strictly.
const timestampPattern = `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`

var trialsCollectionValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id", "messages_used", "messages_limit", "trial_start",
			"trial_end", "is_active", "created_at", "updated_at",
		},
		"properties": bson.M{
			"user_id": bson.M{
				"bsonType":    "string",
				"description": "must be a non empty string and is required",
				"minLength":   1,
			},
			"messages_used": bson.M{
				"bsonType":    []string{"int", "long"},
				"description": "must be a non negative integer and is required",
				"minimum":     0,
			},
			"messages_limit": bson.M{
				"bsonType":    []string{"int", "long"},
				"description": "must be a non negative integer and is required",
				"minimum":     0,
			},
			"trial_start": timestampProperty,
			"trial_end":   timestampProperty,
			"created_at":  timestampProperty,
			"updated_at":  timestampProperty,
			"is_active": bson.M{
				"bsonType":    "bool",
				"description": "must be a boolean and is required",
			},
		},
	},
}

var timestampProperty = bson.M{
	"bsonType":    "string",
	"description": "must be an RFC 3339 timestamp and is required",
	"pattern":     timestampPattern,
}

func upTrialsCollection(ctx context.Context, database *mongo.Database) error {
	// get the current collections names to create only the missing ones
	currentCollections, err := database.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("failed to get current collections: %w", err)
	}
	for _, name := range collectionsToCreate {
		if slices.Contains(currentCollections, name) {
			continue
		}
		opts := options.CreateCollection()
		if validator, ok := collectionsValidators[name]; ok {
			opts = opts.SetValidator(validator).SetValidationLevel("strict").SetValidationAction("error")
		}
		if err := database.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", name, err)
		}
	}
	return nil
}

func downTrialsCollection(context.Context, *mongo.Database) error {
	// dropping the trials would lose every granted trial, the up func is
	// idempotent so nothing is undone here
	return nil
}
