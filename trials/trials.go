// Package trials maps the stored trial records to the state exposed to the
// application and grants new trials.
package trials

import (
	"fmt"
	"time"

	"github.com/vocdoni/saas-billing/db"
	"github.com/vocdoni/saas-billing/internal"
	"github.com/vocdoni/saas-billing/validator"
)

var (
	ErrInvalidTrialData   = fmt.Errorf("invalid trial data")
	ErrTrialNotFound      = fmt.Errorf("trial not found")
	ErrTrialAlreadyExists = fmt.Errorf("trial already exists")
)

// TrialState is the runtime view of a trial. MessagesRemaining never exceeds
// TotalMessages when built by StateFromData.
type TrialState struct {
	MessagesRemaining int       `json:"messagesRemaining"`
	TotalMessages     int       `json:"totalMessages"`
	TrialEndDate      time.Time `json:"trialEndDate"`
	IsTrialActive     bool      `json:"isTrialActive"`
}

var recordValidator = validator.New()

// trialTimes holds the parsed timestamps of a TrialData record.
type trialTimes struct {
	start, end, created, updated time.Time
}

// StateFromData checks the stored record and returns its runtime view. Any
// inconsistency in the record is reported wrapping ErrInvalidTrialData.
func StateFromData(data *db.TrialData) (*TrialState, error) {
	times, err := checkData(data)
	if err != nil {
		return nil, err
	}
	return &TrialState{
		MessagesRemaining: data.MessagesLimit - data.MessagesUsed,
		TotalMessages:     data.MessagesLimit,
		TrialEndDate:      times.end,
		IsTrialActive:     data.IsActive,
	}, nil
}

// DataFromState builds the record to store for the given user and state. The
// timestamps are written in UTC with second precision, and the resulting
// record must satisfy the same checks as StateFromData.
func DataFromState(userID string, start, created, updated time.Time, state *TrialState) (*db.TrialData, error) {
	if state == nil {
		return nil, fmt.Errorf("%w: missing state", ErrInvalidTrialData)
	}
	if state.MessagesRemaining < 0 || state.MessagesRemaining > state.TotalMessages {
		return nil, fmt.Errorf("%w: %d messages remaining out of %d",
			ErrInvalidTrialData, state.MessagesRemaining, state.TotalMessages)
	}
	data := &db.TrialData{
		UserID:        userID,
		MessagesUsed:  state.TotalMessages - state.MessagesRemaining,
		MessagesLimit: state.TotalMessages,
		TrialStart:    internal.FormatTimestamp(start),
		TrialEnd:      internal.FormatTimestamp(state.TrialEndDate),
		IsActive:      state.IsTrialActive,
		CreatedAt:     internal.FormatTimestamp(created),
		UpdatedAt:     internal.FormatTimestamp(updated),
	}
	if _, err := checkData(data); err != nil {
		return nil, err
	}
	return data, nil
}

func checkData(data *db.TrialData) (*trialTimes, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: missing record", ErrInvalidTrialData)
	}
	if err := recordValidator.Validate(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTrialData, err)
	}
	var times trialTimes
	var err error
	for _, field := range []struct {
		name  string
		value string
		dst   *time.Time
	}{
		{"trial_start", data.TrialStart, &times.start},
		{"trial_end", data.TrialEnd, &times.end},
		{"created_at", data.CreatedAt, &times.created},
		{"updated_at", data.UpdatedAt, &times.updated},
	} {
		if *field.dst, err = internal.ParseTimestamp(field.value); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTrialData, field.name, err)
		}
	}
	if !times.start.Before(times.end) {
		return nil, fmt.Errorf("%w: trial_start %s is not before trial_end %s",
			ErrInvalidTrialData, data.TrialStart, data.TrialEnd)
	}
	if times.updated.Before(times.created) {
		return nil, fmt.Errorf("%w: updated_at %s is before created_at %s",
			ErrInvalidTrialData, data.UpdatedAt, data.CreatedAt)
	}
	return &times, nil
}
