package auth

import (
	"fmt"
	"strings"

	"github.com/desertthunder/spotcli/internal/shared"
)

var (
	// ErrInvalidVerifier is returned for a verifier outside 43..128 unreserved characters.
	ErrInvalidVerifier = fmt.Errorf("%w: invalid code verifier", shared.ErrInvalidInput)
)

// TokenExchangeError describes a failed authorization code exchange.
//
// StatusCode is zero when the request never got a response.
type TokenExchangeError struct {
	StatusCode  int
	ErrorCode   string
	Description string
	Body        string
	Err         error
}

func (e *TokenExchangeError) Error() string {
	var b strings.Builder
	b.WriteString(shared.ErrTokenExchange.Error())
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if e.ErrorCode != "" {
		fmt.Fprintf(&b, ": %s", e.ErrorCode)
		if e.Description != "" {
			fmt.Fprintf(&b, " (%s)", e.Description)
		}
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Is reports a match against [shared.ErrTokenExchange].
func (e *TokenExchangeError) Is(target error) bool {
	return target == shared.ErrTokenExchange
}

func (e *TokenExchangeError) Unwrap() error {
	return e.Err
}
