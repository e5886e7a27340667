package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/saas-billing/migrations"
	"github.com/vocdoni/saas-billing/test"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestMigrations(t *testing.T) {
	c := qt.New(t)
	testDBName := test.RandomDatabaseName()

	{
		testDB, err := New(mongoURI, testDBName)
		if err != nil {
			panic(fmt.Sprintf("failed to create new MongoDB connection: %v", err))
		}
		c.Assert(testDB.CreateTrial(testTrial(testUserID)), qt.IsNil)

		// the collection validator rejects records that skip the application checks
		_, err = testDB.trials.InsertOne(context.TODO(), bson.M{"user_id": "raw@example.com", "messages_used": -1})
		c.Assert(err, qt.IsNotNil)

		last, err := lastAppliedMigration(context.TODO(), testDB.migrations)
		c.Assert(err, qt.IsNil)
		migs := migrations.SortedByVersionAsc()
		c.Assert(last, qt.Equals, migs[len(migs)-1].Version)
		testDB.Close()
	}

	t.Run("UpAndDown", func(*testing.T) {
		// now apply a migration
		migs := migrations.SortedByVersionAsc()
		lastVersion := migs[len(migs)-1].Version
		migrations.AddMigration(lastVersion+1, "test_migration", upAddPlanField, downAddPlanField)
		defer migrations.DelMigration(lastVersion + 1) // to avoid affecting other tests

		testDB, err := New(mongoURI, testDBName)
		if err != nil {
			panic(fmt.Sprintf("failed to create new MongoDB connection: %v", err))
		}
		count, err := testDB.trials.CountDocuments(context.TODO(), bson.M{"plan": "trial"})
		c.Assert(err, qt.IsNil)
		c.Assert(count, qt.Equals, int64(1))
		// the record is still readable with the current type
		trial, err := testDB.Trial(testUserID)
		c.Assert(err, qt.IsNil)
		c.Assert(trial.MessagesLimit, qt.Equals, 10)

		// now roll back migration
		c.Assert(testDB.RunMigrationsDown(1), qt.IsNil)
		count, err = testDB.trials.CountDocuments(context.TODO(), bson.M{"plan": bson.M{"$exists": true}})
		c.Assert(err, qt.IsNil)
		c.Assert(count, qt.Equals, int64(0))
		testDB.Close()
	})

	t.Run("Idempotency", func(*testing.T) {
		c.Log("check that all migrations are idempotent (can run again on top of an up-to-date DB)")
		testDB, err := New(mongoURI, testDBName)
		if err != nil {
			panic(fmt.Sprintf("failed to create new MongoDB connection: %v", err))
		}
		c.Assert(testDB.migrations.Drop(context.TODO()), qt.IsNil)
		testDB.Close()

		c.Log("now open DB again, and all migrations should run again")
		testDB, err = New(mongoURI, testDBName)
		if err != nil {
			panic(fmt.Sprintf("failed to create new MongoDB connection: %v", err))
		}
		trial, err := testDB.Trial(testUserID)
		c.Assert(err, qt.IsNil)
		c.Assert(trial.UserID, qt.Equals, testUserID)
		c.Assert(testDB.CreateTrial(testTrial(testUserID)), qt.Equals, ErrAlreadyExists)
		testDB.Close()
	})
}

func TestPendingMigrations(t *testing.T) {
	c := qt.New(t)
	noop := func(context.Context, *mongo.Database) error { return nil }
	registered := []migrations.Migration{
		{Version: 1, Name: "one", Up: noop, Down: noop},
		{Version: 2, Name: "two", Up: noop, Down: noop},
	}

	pending, err := pendingMigrations(registered, 0)
	c.Assert(err, qt.IsNil)
	c.Assert(pending, qt.HasLen, 2)

	pending, err = pendingMigrations(registered, 1)
	c.Assert(err, qt.IsNil)
	c.Assert(pending, qt.HasLen, 1)
	c.Assert(pending[0].Version, qt.Equals, 2)

	pending, err = pendingMigrations(registered, 2)
	c.Assert(err, qt.IsNil)
	c.Assert(pending, qt.HasLen, 0)

	_, err = pendingMigrations(registered, 3)
	c.Assert(errors.Is(err, ErrSchemaAhead), qt.IsTrue)
	_, err = pendingMigrations(nil, 1)
	c.Assert(errors.Is(err, ErrSchemaAhead), qt.IsTrue)
}

func TestMigrationsDatabaseAheadOfBinary(t *testing.T) {
	c := qt.New(t)
	testDBName := test.RandomDatabaseName()

	testDB, err := New(mongoURI, testDBName)
	c.Assert(err, qt.IsNil)
	migs := migrations.SortedByVersionAsc()
	future := migs[len(migs)-1].Version + 1
	_, err = testDB.migrations.InsertOne(context.TODO(), MigrationRecord{
		Version:   future,
		Name:      "from_a_newer_release",
		AppliedAt: testCreatedAt,
	})
	c.Assert(err, qt.IsNil)
	c.Assert(testDB.RunMigrationsUp(), qt.ErrorIs, ErrSchemaAhead)
	testDB.Close()

	_, err = New(mongoURI, testDBName)
	c.Assert(err, qt.ErrorIs, ErrSchemaAhead)
}

func TestRunMigrationsDownUnknownVersion(t *testing.T) {
	c := qt.New(t)
	testDB, err := New(mongoURI, test.RandomDatabaseName())
	c.Assert(err, qt.IsNil)
	defer testDB.Close()

	migs := migrations.SortedByVersionAsc()
	last := migs[len(migs)-1].Version
	_, err = testDB.migrations.InsertOne(context.TODO(), MigrationRecord{Version: last + 1, AppliedAt: testCreatedAt})
	c.Assert(err, qt.IsNil)

	// the unknown version blocks the whole rollback, known ones stay applied
	c.Assert(testDB.RunMigrationsDown(2), qt.ErrorMatches, `migration \d+ not found in registry`)
	count, err := testDB.migrations.CountDocuments(context.TODO(), bson.M{})
	c.Assert(err, qt.IsNil)
	c.Assert(count, qt.Equals, int64(len(migs)+1))
}

func upAddPlanField(ctx context.Context, database *mongo.Database) error {
	if _, err := database.Collection("trials").UpdateMany(ctx,
		bson.M{"plan": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"plan": "trial"}},
	); err != nil {
		return fmt.Errorf("failed to add plan field: %w", err)
	}
	return nil
}

func downAddPlanField(ctx context.Context, database *mongo.Database) error {
	if _, err := database.Collection("trials").UpdateMany(ctx,
		bson.M{"plan": bson.M{"$exists": true}},
		bson.M{"$unset": bson.M{"plan": ""}},
	); err != nil {
		return fmt.Errorf("failed to remove plan field: %w", err)
	}
	return nil
}
