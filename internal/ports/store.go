package ports

import (
	"context"
	"errors"
	"time"

	"spades/internal/domain"
)

// ErrGameNotFound is returned by store implementations when no game exists
// for the requested id.
var ErrGameNotFound = errors.New("game not found")

// GameStore is the persistence collaborator holding the durable copy of each
// game. The engine's in-memory snapshot is a working cache; the store is the
// source of truth across sessions.
type GameStore interface {
	// LoadGame fetches the caller's game by id. Returns ErrGameNotFound if
	// the game does not exist.
	LoadGame(ctx context.Context, gameID string) (*domain.Game, error)

	// SaveGame writes the full game record, creating or overwriting it.
	SaveGame(ctx context.Context, game *domain.Game) error

	// SaveRound persists one committed round entry keyed by
	// (gameID, roundIndex, teamID).
	SaveRound(ctx context.Context, gameID string, roundIndex int, teamID string, entry domain.RoundEntry) error

	// SaveCompletion freezes the durable record: status, winner, final
	// scores and finish time.
	SaveCompletion(ctx context.Context, gameID, winner string, finalScores map[string]int, finishedAt time.Time) error

	// DeleteGame removes the game and its rounds.
	DeleteGame(ctx context.Context, gameID string) error

	// ListGames returns all games owned by the given user.
	ListGames(ctx context.Context, ownerID string) ([]*domain.Game, error)
}
