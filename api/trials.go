package api

import (
	stderrors "errors"
	"net/http"

	"github.com/vocdoni/saas-billing/api/apicommon"
	"github.com/vocdoni/saas-billing/errors"
	"github.com/vocdoni/saas-billing/stripe"
	"github.com/vocdoni/saas-billing/trials"
)

// trialStatusHandler handles the request to get the trial of the current
// user. It returns 404 if the user never started a trial.
func (a *API) trialStatusHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := apicommon.UserIDFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	state, err := a.trials.Status(userID)
	if err != nil {
		trialError(err, userID).Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, state)
}

// startTrialHandler handles the request to start the trial of the current
// user. The user identifier is the email registered as payment customer. It
// returns 409 if the user already had a trial.
func (a *API) startTrialHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := apicommon.UserIDFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	state, err := a.trials.Start(r.Context(), userID, userID)
	if err != nil {
		trialError(err, userID).Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, state)
}

// trialError translates the errors of the trials service into API errors.
func trialError(err error, userID string) errors.Error {
	var stripeErr *stripe.StripeError
	switch {
	case stderrors.Is(err, trials.ErrTrialNotFound):
		return errors.ErrTrialNotFound.With(userID)
	case stderrors.Is(err, trials.ErrTrialAlreadyExists):
		return errors.ErrTrialAlreadyExists.With(userID)
	case stderrors.Is(err, trials.ErrInvalidTrialData):
		return errors.ErrInvalidStoredTrial.WithErr(err)
	case stderrors.As(err, &stripeErr):
		return errors.ErrStripeError.WithErr(err)
	default:
		return errors.ErrInternalStorageError.WithErr(err)
	}
}
