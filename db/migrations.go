package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vocdoni/saas-billing/internal"
	"github.com/vocdoni/saas-billing/migrations"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.vocdoni.io/dvote/log"
)

const migrationsTimeout = 10 * time.Minute

// ErrSchemaAhead is returned when the database records a migration newer than
// any migration registered in this binary.
var ErrSchemaAhead = fmt.Errorf("database schema is newer than the running binary")

// MigrationRecord is the document stored in the migrations collection for
// every applied migration.
type MigrationRecord struct {
	Version   int    `bson:"version"`
	Name      string `bson:"name"`
	AppliedAt string `bson:"applied_at"`
}

// pendingMigrations returns the registered migrations newer than the applied
// version, in ascending order. It fails with ErrSchemaAhead if the applied
// version is not known to the registry.
func pendingMigrations(registered []migrations.Migration, applied int) ([]migrations.Migration, error) {
	latest := 0
	if len(registered) > 0 {
		latest = registered[len(registered)-1].Version
	}
	if applied > latest {
		return nil, fmt.Errorf("%w: applied version %d, latest known %d", ErrSchemaAhead, applied, latest)
	}
	pending := []migrations.Migration{}
	for _, mig := range registered {
		if mig.Version > applied {
			pending = append(pending, mig)
		}
	}
	return pending, nil
}

// RunMigrationsUp applies the pending migrations and records each one.
func (ms *MongoStorage) RunMigrationsUp() error {
	ctx, cancel := context.WithTimeout(context.Background(), migrationsTimeout)
	defer cancel()

	applied, err := lastAppliedMigration(ctx, ms.migrations)
	if err != nil {
		return fmt.Errorf("failed to get last applied migration: %w", err)
	}
	pending, err := pendingMigrations(migrations.SortedByVersionAsc(), applied)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		log.Infow("database is up-to-date, no need to migrate", "version", applied)
		return nil
	}
	log.Infow("starting database migrations", "pending", len(pending), "lastAppliedMigration", applied)

	database := ms.client.Database(ms.database)
	for _, mig := range pending {
		if err := mig.Up(ctx, database); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", mig.Version, mig.Name, err)
		}
		record := MigrationRecord{
			Version:   mig.Version,
			Name:      mig.Name,
			AppliedAt: internal.FormatTimestamp(time.Now()),
		}
		if _, err := ms.migrations.InsertOne(ctx, record); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", mig.Version, err)
		}
		log.Infow("migration applied", "version", mig.Version, "name", mig.Name)
	}
	return nil
}

// RunMigrationsDown rolls back the last steps applied migrations. A non
// positive steps, or one larger than the applied version, rolls back every
// migration. Every version to undo must be registered, otherwise nothing is
// rolled back.
func (ms *MongoStorage) RunMigrationsDown(steps int) error {
	ctx, cancel := context.WithTimeout(context.Background(), migrationsTimeout)
	defer cancel()

	applied, err := lastAppliedMigration(ctx, ms.migrations)
	if err != nil {
		return fmt.Errorf("failed to get last applied migration: %w", err)
	}
	if steps <= 0 || steps > applied {
		steps = applied
	}
	registry := migrations.AsMap()
	rollback := make([]migrations.Migration, 0, steps)
	for version := applied; version > applied-steps; version-- {
		mig, ok := registry[version]
		if !ok {
			return fmt.Errorf("migration %d not found in registry", version)
		}
		rollback = append(rollback, mig)
	}
	log.Infow("rolling back database migrations", "steps", len(rollback), "from", applied)

	database := ms.client.Database(ms.database)
	for _, mig := range rollback {
		if err := mig.Down(ctx, database); err != nil {
			return fmt.Errorf("failed to rollback migration %d (%s): %w", mig.Version, mig.Name, err)
		}
		if _, err := ms.migrations.DeleteOne(ctx, bson.M{"version": mig.Version}); err != nil {
			return fmt.Errorf("failed to remove migration record %d: %w", mig.Version, err)
		}
		log.Infow("migration rolled back", "version", mig.Version, "name", mig.Name)
	}
	return nil
}

// lastAppliedMigration returns the highest recorded migration version, or 0
// on an empty database.
func lastAppliedMigration(ctx context.Context, collection *mongo.Collection) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "version", Value: -1}})
	record := MigrationRecord{}
	if err := collection.FindOne(ctx, bson.M{}, opts).Decode(&record); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, err
	}
	return record.Version, nil
}
