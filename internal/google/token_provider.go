package google

import (
	"context"

	"golang.org/x/oauth2"
)

// TokenProvider is an interface for providing OAuth tokens for Google APIs.
// This abstraction keeps the API clients independent of where tokens live.
type TokenProvider interface {
	// TokenSourceForAccount returns a token source for the specified account
	TokenSourceForAccount(ctx context.Context, account string) (oauth2.TokenSource, error)

	// HasTokenForAccount checks if a token exists for the specified account
	HasTokenForAccount(account string) bool
}

var _ TokenProvider = (*Resolver)(nil)
