package gke

import (
	"context"
	"fmt"
	"os"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// CloudPlatformScope is the OAuth scope the node pool API requires.
const CloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// CredentialSupplier provides the token source used to authorize requests for
// a node pool. A nil token source sends the request unauthenticated.
type CredentialSupplier interface {
	TokenSource(ctx context.Context, id Identity) (oauth2.TokenSource, error)
}

// CredentialSupplierFunc adapts a function to CredentialSupplier.
type CredentialSupplierFunc func(ctx context.Context, id Identity) (oauth2.TokenSource, error)

func (f CredentialSupplierFunc) TokenSource(ctx context.Context, id Identity) (oauth2.TokenSource, error) {
	return f(ctx, id)
}

// Anonymous sends requests without an Authorization header.
func Anonymous() CredentialSupplier {
	return CredentialSupplierFunc(func(context.Context, Identity) (oauth2.TokenSource, error) {
		return nil, nil
	})
}

// StaticToken authorizes every request with a fixed access token.
func StaticToken(token string) CredentialSupplier {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return CredentialSupplierFunc(func(context.Context, Identity) (oauth2.TokenSource, error) {
		return ts, nil
	})
}

// DefaultCredentials uses Application Default Credentials.
func DefaultCredentials(scopes ...string) CredentialSupplier {
	return &cachedSupplier{load: func(ctx context.Context) (oauth2.TokenSource, error) {
		return google.DefaultTokenSource(ctx, withDefaultScope(scopes)...)
	}}
}

// ServiceAccountKey reads a service account JSON key from path.
func ServiceAccountKey(path string, scopes ...string) CredentialSupplier {
	return &cachedSupplier{load: func(ctx context.Context) (oauth2.TokenSource, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read service account key: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, withDefaultScope(scopes)...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse service account key %s: %w", path, err)
		}
		return creds.TokenSource, nil
	}}
}

// cachedSupplier loads one token source on first use and shares it across
// node pools. Loading is retried if it failed.
type cachedSupplier struct {
	mu   sync.Mutex
	ts   oauth2.TokenSource
	load func(ctx context.Context) (oauth2.TokenSource, error)
}

func (s *cachedSupplier) TokenSource(ctx context.Context, _ Identity) (oauth2.TokenSource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ts != nil {
		return s.ts, nil
	}
	// Token refreshes outlive the request that triggered the first load.
	ts, err := s.load(context.WithoutCancel(ctx))
	if err != nil {
		return nil, err
	}
	s.ts = oauth2.ReuseTokenSource(nil, ts)
	return s.ts, nil
}

func withDefaultScope(scopes []string) []string {
	if len(scopes) == 0 {
		return []string{CloudPlatformScope}
	}
	return scopes
}
