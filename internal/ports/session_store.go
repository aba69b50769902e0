package ports

import (
	"context"
	"errors"

	"crazyeights/internal/domain"
)

var (
	// ErrSessionNotFound is returned by SessionStore.Load for an unknown game ID.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrSessionConflict is returned by SessionStore.Save when the stored
	// session changed since it was loaded.
	ErrSessionConflict = errors.New("game session was changed by another request")
)

// SessionStore persists game sessions between requests. Writes are
// conditional on the version read, so two requests on one game cannot both
// apply.
type SessionStore interface {
	// Save stores s under its ID if the stored copy is still at version, the
	// value returned by Load. An empty version creates the session and fails
	// if the ID is taken. A lost race is reported as ErrSessionConflict.
	Save(ctx context.Context, s *domain.Session, version string) error

	// Load returns the session stored under gameID and its version.
	// Implementations validate the decoded session and report
	// domain.ErrCorruptSession when it does not hold.
	Load(ctx context.Context, gameID string) (*domain.Session, string, error)
}
