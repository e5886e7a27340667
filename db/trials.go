package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vocdoni/saas-billing/internal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Trial returns the trial record of the given user. If the user has no trial,
// it returns ErrNotFound.
func (ms *MongoStorage) Trial(userID string) (*TrialData, error) {
	ms.keysLock.RLock()
	defer ms.keysLock.RUnlock()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	trial := &TrialData{}
	if err := ms.trials.FindOne(ctx, bson.M{"user_id": userID}).Decode(trial); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get trial: %w", err)
	}
	return trial, nil
}

// CreateTrial stores a new trial record. If the user already has one, it
// returns ErrAlreadyExists.
func (ms *MongoStorage) CreateTrial(trial *TrialData) error {
	if trial == nil {
		return ErrInvalidData
	}
	if err := ms.validator.Validate(trial); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := ms.trials.InsertOne(ctx, trial); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to create trial: %w", err)
	}
	return nil
}

// SetTrial creates or replaces the trial record of trial.UserID. The
// updated_at field is refreshed to the current time, and created_at takes the
// same value when it is empty.
func (ms *MongoStorage) SetTrial(trial *TrialData) error {
	if trial == nil {
		return ErrInvalidData
	}
	trial.UpdatedAt = internal.FormatTimestamp(time.Now())
	if trial.CreatedAt == "" {
		trial.CreatedAt = trial.UpdatedAt
	}
	if err := ms.validator.Validate(trial); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := ms.trials.ReplaceOne(ctx, bson.M{"user_id": trial.UserID}, trial, opts); err != nil {
		return fmt.Errorf("failed to set trial: %w", err)
	}
	return nil
}

// DeleteTrial removes the trial record of the given user. If the user has no
// trial, it returns ErrNotFound.
func (ms *MongoStorage) DeleteTrial(userID string) error {
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := ms.trials.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete trial: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
