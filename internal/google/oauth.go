package google

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var (
	// ErrInvalidAccountID is returned for account ids that cannot name a token file.
	ErrInvalidAccountID = errors.New("invalid account id")

	// ErrTokenNotFound is returned when no token file exists for an account.
	ErrTokenNotFound = errors.New("no stored token")
)

// tokenExpiryThreshold matches the leeway oauth2 itself applies before
// treating a token as expired.
const tokenExpiryThreshold = 10 * time.Second

// LoadOAuthConfig reads the OAuth client secrets file downloaded from the
// Google Cloud console.
func LoadOAuthConfig(path string) (*oauth2.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read client secrets %s: %w", path, err)
	}

	conf, err := google.ConfigFromJSON(b, DefaultOAuthScopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse client secrets %s: %w", path, err)
	}
	return conf, nil
}

// validateAccountID checks that id can be used as part of a file name.
func validateAccountID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: must not be empty", ErrInvalidAccountID)
	}
	if strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: %q must not contain path separators", ErrInvalidAccountID, id)
	}
	if strings.Contains(id, "..") {
		return fmt.Errorf("%w: %q must not contain '..'", ErrInvalidAccountID, id)
	}
	return nil
}

// isTokenExpired checks if a token is missing, expired or will expire within threshold.
func isTokenExpired(token *oauth2.Token, threshold time.Duration) bool {
	if token == nil || token.AccessToken == "" {
		return true
	}
	if token.Expiry.IsZero() {
		return false // Token doesn't expire
	}
	return time.Now().Add(threshold).After(token.Expiry)
}

// TokenStore keeps one token file per account in a directory.
type TokenStore struct {
	dir string
}

// NewTokenStore returns a store for token files in dir.
func NewTokenStore(dir string) *TokenStore {
	return &TokenStore{dir: dir}
}

// Path returns the token file path for account.
func (s *TokenStore) Path(account string) (string, error) {
	if err := validateAccountID(account); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, "token-"+account+".json"), nil
}

// Load reads the token of account. It returns ErrTokenNotFound when no file exists.
func (s *TokenStore) Load(account string) (*oauth2.Token, error) {
	path, err := s.Path(account)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w for account %s", ErrTokenNotFound, account)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open token file: %w", err)
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode token file %s: %w", path, err)
	}
	return tok, nil
}

// Save writes the token of account, readable by the owner only.
func (s *TokenStore) Save(account string, tok *oauth2.Token) error {
	path, err := s.Path(account)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Has reports whether a token file exists for account.
func (s *TokenStore) Has(account string) bool {
	path, err := s.Path(account)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}
