// Package google provides OAuth2 authentication and token management for Google APIs.
//
// Each account id owns a token file token-<id>.json in the data directory.
// The Resolver loads it, refreshes it when expired and falls back to a
// browser consent flow on a loopback redirect when no usable token exists.
//
// The TokenProvider interface lets API clients obtain token sources without
// knowing about files or consent.
package google
