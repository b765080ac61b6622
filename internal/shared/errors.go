package shared

import "fmt"

var (
	ErrNotFound = fmt.Errorf("not found")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Authentication errors
	ErrGeneration         = fmt.Errorf("secure random source unavailable")
	ErrListenerBind       = fmt.Errorf("callback listener bind failed")
	ErrListenerState      = fmt.Errorf("callback listener in wrong state")
	ErrCallbackFailed     = fmt.Errorf("authorization callback failed")
	ErrTokenExchange      = fmt.Errorf("token exchange failed")
	ErrNoCredentials      = fmt.Errorf("no saved credentials")
	ErrLoginInProgress    = fmt.Errorf("login already in progress")
	ErrBrowserUnavailable = fmt.Errorf("could not open browser")
	ErrTimeout            = fmt.Errorf("operation timed out")

	// API and service errors
	ErrRemoteAPI          = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidInput     = fmt.Errorf("invalid input")
	ErrInvalidTimeRange = fmt.Errorf("invalid time range")
	ErrMissingArgument  = fmt.Errorf("missing required argument")
	ErrInvalidArgument  = fmt.Errorf("invalid argument")
	ErrInvalidFlag      = fmt.Errorf("invalid flag value")
)
