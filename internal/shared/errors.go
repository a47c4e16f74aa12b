package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Session errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrInvalidSession   = fmt.Errorf("invalid session state")
	ErrSessionChanged   = fmt.Errorf("session changed since request was issued")

	// API errors, one sentinel per backend failure class
	ErrUnauthorized   = fmt.Errorf("unauthorized")
	ErrForbidden      = fmt.Errorf("forbidden")
	ErrNotFound       = fmt.Errorf("not found")
	ErrValidation     = fmt.Errorf("validation failed")
	ErrNetworkFailure = fmt.Errorf("network failure")
	ErrServerError    = fmt.Errorf("server error")

	// Local cache errors
	ErrBookNotCached = fmt.Errorf("book not cached")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
