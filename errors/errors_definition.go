// Package errors provides the coded error type returned by the billing API and
// the catalogue of errors it can answer with.
//
//nolint:lll
package errors

import (
	"fmt"
	"net/http"
)

// Error codes in the 40001-49999 range are the caller's fault and map to a 4xx
// HTTP status. Codes 50001-59999 are the server's fault and map to a 5xx
// status.
//
// NEVER change an existing code and never reuse a retired one, only append
// after the current last 4XXXX or 5XXXX. There is no correlation between Code
// and HTTPstatus.
var (
	// Authentication errors (401)
	ErrUnauthorized = Error{Code: 40001, HTTPstatus: http.StatusUnauthorized, Err: fmt.Errorf("authentication required"), LogLevel: "info"}

	// Not found errors (404)
	ErrTrialNotFound = Error{Code: 40030, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("trial not found")}

	// Conflict errors (409)
	ErrTrialAlreadyExists = Error{Code: 40901, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("trial already granted")}

	// Server errors (500)
	ErrMarshalingServerJSONFailed = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: failed to process response"), LogLevel: "error"}
	ErrStripeError                = Error{Code: 50005, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: payment processing failed"), LogLevel: "error"}
	ErrInternalStorageError       = Error{Code: 50006, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: storage operation failed"), LogLevel: "error"}
	ErrInvalidStoredTrial         = Error{Code: 50009, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: stored trial record is inconsistent"), LogLevel: "error"}
)
