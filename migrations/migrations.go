// Package migrations keeps the ordered list of changes applied to the MongoDB
// database of the billing service.
package migrations

import (
	"context"
	"fmt"
	"maps"
	"sort"

	"go.mongodb.org/mongo-driver/mongo"
)

// MigrationFunc represents a migration function
type MigrationFunc func(ctx context.Context, database *mongo.Database) error

// Migration represents a single migration
type Migration struct {
	Version int
	Name    string
	Up      MigrationFunc
	Down    MigrationFunc
}

// Global registry for migrations
var migrationRegistry = make(map[int]Migration)

// AddMigration registers a migration in the global registry. Versions are
// unique, registering one twice panics.
func AddMigration(version int, name string, up, down MigrationFunc) {
	if prev, ok := migrationRegistry[version]; ok {
		panic(fmt.Sprintf("migration %d (%s) already registered as %s", version, name, prev.Name))
	}
	migrationRegistry[version] = Migration{
		Version: version,
		Name:    name,
		Up:      up,
		Down:    down,
	}
}

// DelMigration deregisters a migration in the global registry
func DelMigration(version int) { delete(migrationRegistry, version) }

// SortedByVersionAsc returns all registered migrations, sorted by ascending version
func SortedByVersionAsc() []Migration {
	migs := make([]Migration, 0, len(migrationRegistry))
	for _, mig := range migrationRegistry {
		migs = append(migs, mig)
	}
	sort.Slice(migs, func(i, j int) bool { return migs[i].Version < migs[j].Version })
	return migs
}

// AsMap returns all migrations as a map
func AsMap() map[int]Migration {
	return maps.Clone(migrationRegistry)
}
