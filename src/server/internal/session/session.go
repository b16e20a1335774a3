package session

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors/domains"
	"github.com/heartsync/heartsync-be/src/shared/lib/errors/mark"
)

var NotAuthenticatedMark = domains.New("not_authenticated")

// Session holds the catalog provider's current access/refresh token for the
// process. Provider clients only read from it through BearerHeader. The only
// writers are the auth callback and the refresh flow, the latter through
// CompareAndSwap so that concurrent refresh attempts can't clobber each other:
// losing writers observe a stale generation and discard their token.
type Session struct {
	mu           sync.RWMutex
	generation   uint64
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

// Snapshot is a read-only copy of the session state at one generation.
type Snapshot struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time

	generation uint64
}

func New() *Session {
	return &Session{}
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		AccessToken:  s.accessToken,
		RefreshToken: s.refreshToken,
		ExpiresAt:    s.expiresAt,
		generation:   s.generation,
	}
}

func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.accessToken != ""
}

func (s *Session) Expired(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.accessToken == "" || now.After(s.expiresAt)
}

// BearerHeader synthesizes the Authorization header value for provider calls.
// An empty access token is a terminal precondition failure for the caller -
// no network call should be attempted with the returned error.
func (s *Session) BearerHeader() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.accessToken == "" {
		return "", mark.Message(NotAuthenticatedMark, "No provider access token is present")
	}

	return "Bearer " + s.accessToken, nil
}

// Set replaces the whole session. Used by the auth callback flow where a fresh
// authorization grant supersedes whatever was held before.
func (s *Session) Set(accessToken string, refreshToken string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.accessToken = accessToken
	s.refreshToken = refreshToken
	s.expiresAt = expiresAt
}

// CompareAndSwap installs a refreshed access token only if the session hasn't
// changed since the given snapshot was taken. Returns false when another
// writer got there first; the caller should discard its token and move on.
func (s *Session) CompareAndSwap(observed Snapshot, accessToken string, expiresAt time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != observed.generation {
		return false
	}

	s.generation++
	s.accessToken = accessToken
	s.expiresAt = expiresAt
	return true
}
