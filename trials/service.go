package trials

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vocdoni/saas-billing/db"
	"go.vocdoni.io/dvote/log"
)

const (
	// DefaultMessages is the message allotment of a new trial.
	DefaultMessages = 50
	// DefaultDuration is the length of a new trial.
	DefaultDuration = 14 * 24 * time.Hour
)

// TrialStore defines the database methods required by the Trials service.
type TrialStore interface {
	Trial(userID string) (*db.TrialData, error)
	CreateTrial(trial *db.TrialData) error
}

// CustomerRegistry registers the user with the payment provider.
// *stripe.Client implements it.
type CustomerRegistry interface {
	EnsureCustomer(ctx context.Context, email, userID string) (string, error)
}

// Config holds the configuration for the trials service. Zero Messages or
// Duration fall back to DefaultMessages and DefaultDuration. Customers may be
// nil, then no payment customer is registered when a trial starts.
type Config struct {
	DB        TrialStore
	Customers CustomerRegistry
	Messages  int
	Duration  time.Duration
}

// Trials is the service that reads and grants trials.
type Trials struct {
	db        TrialStore
	customers CustomerRegistry
	messages  int
	duration  time.Duration
	now       func() time.Time
}

// New creates a new Trials service with the given configuration.
func New(conf *Config) *Trials {
	if conf == nil || conf.DB == nil {
		return nil
	}
	t := &Trials{
		db:        conf.DB,
		customers: conf.Customers,
		messages:  conf.Messages,
		duration:  conf.Duration,
		now:       time.Now,
	}
	if t.messages <= 0 {
		t.messages = DefaultMessages
	}
	if t.duration <= 0 {
		t.duration = DefaultDuration
	}
	return t
}

// Status returns the trial state of the given user. If the user never started
// a trial, it returns ErrTrialNotFound.
func (t *Trials) Status(userID string) (*TrialState, error) {
	data, err := t.db.Trial(userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrTrialNotFound
		}
		return nil, err
	}
	return StateFromData(data)
}

// Start grants a trial to the given user, registering the email with the
// payment provider first. Every user gets a single trial, later calls return
// ErrTrialAlreadyExists.
func (t *Trials) Start(ctx context.Context, userID, email string) (*TrialState, error) {
	if _, err := t.db.Trial(userID); err == nil {
		return nil, ErrTrialAlreadyExists
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, err
	}
	if t.customers != nil {
		customerID, err := t.customers.EnsureCustomer(ctx, email, userID)
		if err != nil {
			return nil, fmt.Errorf("could not register customer: %w", err)
		}
		log.Debugw("trial customer ready", "user", userID, "customer", customerID)
	}

	now := t.now()
	state := &TrialState{
		MessagesRemaining: t.messages,
		TotalMessages:     t.messages,
		TrialEndDate:      now.Add(t.duration),
		IsTrialActive:     true,
	}
	data, err := DataFromState(userID, now, now, now, state)
	if err != nil {
		return nil, err
	}
	if err := t.db.CreateTrial(data); err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			return nil, ErrTrialAlreadyExists
		}
		return nil, err
	}
	log.Infow("trial started", "user", userID, "messages", t.messages, "ends", data.TrialEnd)
	return StateFromData(data)
}
