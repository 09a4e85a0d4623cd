package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/oauth2"

	"github.com/teemow/yotei/internal/instrumentation"
	"github.com/teemow/yotei/internal/logging"
)

// Resolver turns an account id into a usable OAuth token. Tokens are read
// from the store, refreshed when expired and obtained through the consent
// flow when missing. New or refreshed tokens are written back.
// It is safe for concurrent use; token resolution is serialized so that one
// account never runs two consent flows or token writes at once.
type Resolver struct {
	mu sync.Mutex

	conf    *oauth2.Config
	store   *TokenStore
	consent ConsentFlow
	metrics *instrumentation.Metrics
	logger  *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithMetrics records refresh and consent results.
func WithMetrics(m *instrumentation.Metrics) ResolverOption {
	return func(r *Resolver) { r.metrics = m }
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) { r.logger = l }
}

// NewResolver creates a Resolver.
func NewResolver(conf *oauth2.Config, store *TokenStore, consent ConsentFlow, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		conf:    conf,
		store:   store,
		consent: consent,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// TokenForAccount returns a valid token for account.
func (r *Resolver) TokenForAccount(ctx context.Context, account string) (*oauth2.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	logger := logging.WithAccount(r.logger, account)

	tok, err := r.store.Load(account)
	if err != nil && !errors.Is(err, ErrTokenNotFound) {
		return nil, err
	}

	if tok != nil && !isTokenExpired(tok, tokenExpiryThreshold) {
		logger.Debug("using stored token", "access_token", logging.SanitizeToken(tok.AccessToken))
		return tok, nil
	}

	if tok != nil && tok.RefreshToken != "" {
		tok, err = r.refresh(ctx, tok)
		if err != nil {
			return nil, fmt.Errorf("failed to refresh token for account %s: %w", account, err)
		}
		logger.Debug("refreshed token", "access_token", logging.SanitizeToken(tok.AccessToken))
	} else {
		if tok != nil {
			r.metrics.RecordOAuthTokenRefresh(ctx, instrumentation.OAuthResultExpired)
		}
		logger.Info("authorization required")
		tok, err = r.consent.Authorize(ctx, r.conf)
		if err != nil {
			r.metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultFailure)
			return nil, fmt.Errorf("failed to authorize account %s: %w", account, err)
		}
		r.metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultSuccess)
	}

	if err := r.store.Save(account, tok); err != nil {
		return nil, err
	}
	return tok, nil
}

func (r *Resolver) refresh(ctx context.Context, tok *oauth2.Token) (*oauth2.Token, error) {
	// Only the refresh token is carried over so that the token source
	// always contacts the token endpoint.
	refreshed, err := r.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: tok.RefreshToken}).Token()
	if err != nil {
		r.metrics.RecordOAuthTokenRefresh(ctx, instrumentation.OAuthResultFailure)
		return nil, err
	}
	r.metrics.RecordOAuthTokenRefresh(ctx, instrumentation.OAuthResultSuccess)
	return refreshed, nil
}

// TokenSourceForAccount implements TokenProvider.
func (r *Resolver) TokenSourceForAccount(ctx context.Context, account string) (oauth2.TokenSource, error) {
	tok, err := r.TokenForAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	return r.conf.TokenSource(ctx, tok), nil
}

// HasTokenForAccount implements TokenProvider.
func (r *Resolver) HasTokenForAccount(account string) bool {
	return r.store.Has(account)
}
