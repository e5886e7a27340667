// Package db implements the MongoDB storage of the billing records.
package db

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/vocdoni/saas-billing/validator"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.vocdoni.io/dvote/log"
)

const (
	trialsCollection     = "trials"
	migrationsCollection = "migrations"
)

// MongoStorage uses an external MongoDB service for storing the trial records.
type MongoStorage struct {
	client    *mongo.Client
	database  string
	keysLock  sync.RWMutex
	validator *validator.Validator

	trials     *mongo.Collection
	migrations *mongo.Collection
}

// New connects to the MongoDB server at url and applies the pending
// migrations to the given database. If VOCDONI_MONGO_RESET_DB is set, the
// collections are dropped first.
func New(url, database string) (*MongoStorage, error) {
	if url == "" {
		return nil, fmt.Errorf("mongo URL is not defined")
	}
	if database == "" {
		return nil, fmt.Errorf("mongo database is not defined")
	}
	log.Infow("connecting to mongodb", "database", database)
	// preparing connection
	opts := options.Client()
	opts.ApplyURI(url)
	opts.SetMaxConnecting(200)
	timeout := time.Second * 10
	opts.ConnectTimeout = &timeout
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to mongodb: %w", err)
	}
	// check if the connection is successful
	ctx, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("cannot connect to mongodb: %w", err)
	}
	ms := &MongoStorage{
		client:     client,
		database:   database,
		validator:  validator.New(),
		trials:     client.Database(database).Collection(trialsCollection),
		migrations: client.Database(database).Collection(migrationsCollection),
	}
	// if reset flag is enabled, Reset drops the database documents and
	// migrates from scratch, else just apply the pending migrations
	if reset := os.Getenv("VOCDONI_MONGO_RESET_DB"); reset != "" {
		if err := ms.Reset(); err != nil {
			ms.Close()
			return nil, err
		}
	} else if err := ms.RunMigrationsUp(); err != nil {
		ms.Close()
		return nil, err
	}
	return ms, nil
}

// Close disconnects the MongoDB client.
func (ms *MongoStorage) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ms.client.Disconnect(ctx); err != nil {
		log.Warn(err)
	}
}

// Reset drops every collection and migrates the database from scratch.
func (ms *MongoStorage) Reset() error {
	log.Infof("resetting database")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ms.trials.Drop(ctx); err != nil {
		return err
	}
	if err := ms.migrations.Drop(ctx); err != nil {
		return err
	}
	return ms.RunMigrationsUp()
}
