package app

import (
	"time"

	"spades/internal/domain"
)

// EventKind identifies engine events emitted for the adapter layer.
type EventKind string

const (
	EventGameCreated   EventKind = "game_created"
	EventRoundRecorded EventKind = "round_recorded"
	EventGameCompleted EventKind = "game_completed"
	EventGameDeleted   EventKind = "game_deleted"
)

// Event is an engine event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means no targeted delivery
}

type GameCreatedPayload struct {
	GameID    string
	OwnerID   string
	TeamNames []string
	MaxRounds int
}

type RoundRecordedPayload struct {
	GameID     string
	RoundIndex int
	TeamID     string
	Entry      domain.RoundEntry
	// Clamped is true when the submitted bid/won pair was adjusted to stay
	// legal for the round.
	Clamped bool
}

type GameCompletedPayload struct {
	GameID      string
	Winner      string
	Tie         bool
	FinalScores map[string]int
	FinishedAt  time.Time
}

type GameDeletedPayload struct {
	GameID string
}
