package google

import (
	"errors"
	"fmt"
)

// ErrNotAuthorized indicates no token has been persisted yet. Callers
// must treat this as "run the authorization flow first", not as a
// transient fault.
var ErrNotAuthorized = errors.New("not authorized: no stored token, visit /authorize first")

// ExchangeError indicates an authorization code that was missing,
// expired, or rejected by Google. A fresh authorization cycle is
// required; the exchange must not be retried with the same code.
type ExchangeError struct {
	Err error
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("authorization code exchange failed: %v", e.Err)
}

func (e *ExchangeError) Unwrap() error {
	return e.Err
}
