package db

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/saas-billing/internal"
)

func TestCreateAndGetTrial(t *testing.T) {
	c := qt.New(t)
	resetDB(t)

	_, err := testDB.Trial(testUserID)
	c.Assert(err, qt.Equals, ErrNotFound)

	trial := testTrial(testUserID)
	c.Assert(testDB.CreateTrial(trial), qt.IsNil)

	got, err := testDB.Trial(testUserID)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, trial)
}

func TestCreateTrialTwice(t *testing.T) {
	c := qt.New(t)
	resetDB(t)

	c.Assert(testDB.CreateTrial(testTrial(testUserID)), qt.IsNil)
	c.Assert(testDB.CreateTrial(testTrial(testUserID)), qt.Equals, ErrAlreadyExists)

	// other users are not affected by the unique index
	c.Assert(testDB.CreateTrial(testTrial("other@example.com")), qt.IsNil)
}

func TestCreateTrialRejectsInvalidData(t *testing.T) {
	c := qt.New(t)
	resetDB(t)

	c.Assert(testDB.CreateTrial(nil), qt.Equals, ErrInvalidData)

	overused := testTrial(testUserID)
	overused.MessagesUsed = 11
	c.Assert(errors.Is(testDB.CreateTrial(overused), ErrInvalidData), qt.IsTrue)

	noUser := testTrial("")
	c.Assert(errors.Is(testDB.CreateTrial(noUser), ErrInvalidData), qt.IsTrue)

	badDate := testTrial(testUserID)
	badDate.TrialEnd = "next month"
	c.Assert(errors.Is(testDB.CreateTrial(badDate), ErrInvalidData), qt.IsTrue)

	_, err := testDB.Trial(testUserID)
	c.Assert(err, qt.Equals, ErrNotFound)
}

func TestSetTrialRejectsPaddedTimestamps(t *testing.T) {
	c := qt.New(t)
	resetDB(t)

	padded := testTrial(testUserID)
	padded.TrialEnd = " " + testEnd + "\n"
	c.Assert(testDB.SetTrial(padded), qt.ErrorIs, ErrInvalidData)
	c.Assert(testDB.CreateTrial(padded), qt.ErrorIs, ErrInvalidData)

	_, err := testDB.Trial(testUserID)
	c.Assert(err, qt.Equals, ErrNotFound)
}

func TestSetTrial(t *testing.T) {
	c := qt.New(t)
	resetDB(t)

	// upsert creates the record and fills the bookkeeping timestamps
	trial := testTrial(testUserID)
	trial.CreatedAt = ""
	trial.UpdatedAt = ""
	c.Assert(testDB.SetTrial(trial), qt.IsNil)
	c.Assert(trial.CreatedAt, qt.Not(qt.Equals), "")
	c.Assert(trial.UpdatedAt, qt.Equals, trial.CreatedAt)

	// replace keeps created_at and refreshes updated_at
	trial.CreatedAt = testCreatedAt
	trial.MessagesLimit = 20
	trial.IsActive = false
	c.Assert(testDB.SetTrial(trial), qt.IsNil)

	got, err := testDB.Trial(testUserID)
	c.Assert(err, qt.IsNil)
	c.Assert(got.MessagesLimit, qt.Equals, 20)
	c.Assert(got.IsActive, qt.IsFalse)
	c.Assert(got.CreatedAt, qt.Equals, testCreatedAt)
	updated, err := internal.ParseTimestamp(got.UpdatedAt)
	c.Assert(err, qt.IsNil)
	created, err := internal.ParseTimestamp(got.CreatedAt)
	c.Assert(err, qt.IsNil)
	c.Assert(updated.Before(created), qt.IsFalse)
}

func TestDeleteTrial(t *testing.T) {
	c := qt.New(t)
	resetDB(t)

	c.Assert(testDB.DeleteTrial(testUserID), qt.Equals, ErrNotFound)
	c.Assert(testDB.CreateTrial(testTrial(testUserID)), qt.IsNil)
	c.Assert(testDB.DeleteTrial(testUserID), qt.IsNil)
	_, err := testDB.Trial(testUserID)
	c.Assert(err, qt.Equals, ErrNotFound)
}
