package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"spades/internal/config"
	"spades/internal/domain"
	"spades/internal/ports"

	"github.com/google/uuid"
)

var (
	ErrNotAuthenticated = errors.New("no authenticated user")
	ErrTooFewTeams      = errors.New("a game needs at least two teams")
	ErrEmptyTeamName    = errors.New("team name must not be empty")
	ErrTooManyPlayers   = errors.New("too many players on a team")
	ErrGameNotFound     = errors.New("game not found")
	ErrUnknownTeam      = errors.New("team not part of this game")
	ErrRoundOutOfRange  = errors.New("round index out of range")
	ErrGameCompleted    = errors.New("game already completed")
)

// TeamSetup describes one team at game creation.
type TeamSetup struct {
	Name    string
	Players []string
	ThemeID string
}

// GameSetup is the creation request for a new scorecard.
type GameSetup struct {
	Teams []TeamSetup
	// MaxRounds sets the round count; 0 means the configured default.
	MaxRounds int
}

// Result carries an operation's emitted events plus any non-fatal
// persistence failure. When StoreErr is set the in-memory game still holds
// the committed update; the caller surfaces the failure as retryable rather
// than discarding numbers the user has already seen.
type Result struct {
	Events   []Event
	StoreErr error
}

// Service is the game engine: it owns the live snapshot of each game being
// scored this session and pushes committed updates to the store. The store
// remains the source of truth across sessions; a snapshot loaded fresh from
// it replaces whatever was cached.
type Service struct {
	store    ports.GameStore
	identity ports.Identity
	now      func() time.Time

	mu    sync.RWMutex
	games map[string]*domain.Game
}

// NewService constructs the engine over its collaborators. now may be nil to
// use wall-clock time.
func NewService(store ports.GameStore, identity ports.Identity, now func() time.Time) *Service {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{
		store:    store,
		identity: identity,
		now:      now,
		games:    make(map[string]*domain.Game),
	}
}

// CreateGame validates the setup, builds an active game with all-zero
// rounds, stamps the caller as owner and persists it. Validation failures
// have no side effect.
func (s *Service) CreateGame(ctx context.Context, setup GameSetup) (*domain.Game, Result, error) {
	ownerID := s.identity.CurrentUserID(ctx)
	if ownerID == "" {
		return nil, Result{}, ErrNotAuthenticated
	}

	teams, err := buildTeams(setup.Teams)
	if err != nil {
		return nil, Result{}, err
	}

	maxRounds := setup.MaxRounds
	if maxRounds <= 0 {
		maxRounds = config.DefaultMaxRounds()
	}

	game := domain.NewGame(uuid.NewString(), ownerID, teams, maxRounds, s.now())

	s.mu.Lock()
	s.games[game.ID] = game
	s.mu.Unlock()

	result := Result{Events: []Event{{
		Kind: EventGameCreated,
		Payload: GameCreatedPayload{
			GameID:    game.ID,
			OwnerID:   ownerID,
			TeamNames: teamNames(teams),
			MaxRounds: maxRounds,
		},
	}}}

	if err := s.store.SaveGame(ctx, game); err != nil {
		result.StoreErr = fmt.Errorf("save game: %w", err)
	}
	return game, result, nil
}

func buildTeams(setups []TeamSetup) ([]domain.Team, error) {
	if len(setups) < config.MinTeams() {
		return nil, ErrTooFewTeams
	}
	maxPlayers := config.MaxPlayersPerTeam()

	teams := make([]domain.Team, 0, len(setups))
	for i, setup := range setups {
		name := strings.TrimSpace(setup.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: team %d", ErrEmptyTeamName, i+1)
		}
		players := make([]string, 0, len(setup.Players))
		for _, player := range setup.Players {
			if trimmed := strings.TrimSpace(player); trimmed != "" {
				players = append(players, trimmed)
			}
		}
		if len(players) > maxPlayers {
			return nil, fmt.Errorf("%w: team %q has %d", ErrTooManyPlayers, name, len(players))
		}
		teams = append(teams, domain.Team{
			ID:      uuid.NewString(),
			Name:    name,
			Players: players,
			ThemeID: setup.ThemeID,
		})
	}
	return teams, nil
}

func teamNames(teams []domain.Team) []string {
	names := make([]string, len(teams))
	for i, team := range teams {
		names[i] = team.Name
	}
	return names
}

// GetGame returns the live snapshot for a game, loading it from the store
// on first access this session.
func (s *Service) GetGame(ctx context.Context, gameID string) (*domain.Game, error) {
	return s.load(ctx, gameID)
}

// load resolves a game for the calling user. A game is only visible to its
// owner: storage is owner-scoped already, and the cache enforces the same
// boundary so a live snapshot can never be reached through someone else's
// session. Anyone else gets not-found rather than a hint the id exists.
func (s *Service) load(ctx context.Context, gameID string) (*domain.Game, error) {
	callerID := s.identity.CurrentUserID(ctx)

	s.mu.RLock()
	game, ok := s.games[gameID]
	s.mu.RUnlock()
	if ok {
		if game.OwnerID != callerID {
			return nil, ErrGameNotFound
		}
		return game, nil
	}

	game, err := s.store.LoadGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, ports.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("load game: %w", err)
	}
	if game.OwnerID != callerID {
		return nil, ErrGameNotFound
	}

	// A fresh load from storage replaces any stale cached copy.
	s.mu.Lock()
	s.games[game.ID] = game
	s.mu.Unlock()
	return game, nil
}

// SubmitRound records a bid/won pair for one (round, team) cell. The pair is
// clamped into legality, never rejected; derived bags and score come from
// the clamped values. The updated snapshot is committed locally first and
// then pushed to the store; a store failure is reported via Result.StoreErr
// with the local update kept.
func (s *Service) SubmitRound(ctx context.Context, gameID string, roundIndex int, teamID string, bid, won int) (*domain.Game, Result, error) {
	game, err := s.load(ctx, gameID)
	if err != nil {
		return nil, Result{}, err
	}

	s.mu.Lock()
	if game.Status != domain.StatusActive {
		s.mu.Unlock()
		return nil, Result{}, ErrGameCompleted
	}
	round, ok := game.RoundAt(roundIndex)
	if !ok {
		s.mu.Unlock()
		return nil, Result{}, fmt.Errorf("%w: %d", ErrRoundOutOfRange, roundIndex)
	}
	if _, ok := game.TeamByID(teamID); !ok {
		s.mu.Unlock()
		return nil, Result{}, fmt.Errorf("%w: %s", ErrUnknownTeam, teamID)
	}

	clamped := domain.ValidateEntry(round.Index, bid, won, round.OtherTeamsWon(teamID))
	entry := domain.RoundEntry{
		Bid:     clamped.Bid,
		Won:     clamped.Won,
		Bags:    domain.Bags(clamped.Bid, clamped.Won),
		Score:   domain.Score(clamped.Bid, clamped.Won),
		Entered: true,
	}
	round.Entries[teamID] = entry
	s.mu.Unlock()

	result := Result{Events: []Event{{
		Kind: EventRoundRecorded,
		Payload: RoundRecordedPayload{
			GameID:     gameID,
			RoundIndex: roundIndex,
			TeamID:     teamID,
			Entry:      entry,
			Clamped:    clamped.Clamped,
		},
	}}}

	if err := s.store.SaveRound(ctx, gameID, roundIndex, teamID, entry); err != nil {
		result.StoreErr = fmt.Errorf("save round: %w", err)
	}
	return game, result, nil
}

// Totals recomputes the per-team standings from scratch.
func (s *Service) Totals(game *domain.Game) map[string]domain.TeamTotals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.ComputeTotals(game)
}

// IsComplete reports whether every scorecard cell has been entered. It only
// gates whether completion is offered; CompleteGame does not require it.
func (s *Service) IsComplete(game *domain.Game) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return game.IsComplete()
}

// CompleteGame freezes an active game: totals are computed, the winner
// determined (or taken from winnerOverride) and the record marked completed.
// A tied game completes with the tie sentinel as winner rather than an
// arbitrary team. The transition is terminal.
func (s *Service) CompleteGame(ctx context.Context, gameID, winnerOverride string) (*domain.Game, Result, error) {
	game, err := s.load(ctx, gameID)
	if err != nil {
		return nil, Result{}, err
	}

	s.mu.Lock()
	if game.Status != domain.StatusActive {
		s.mu.Unlock()
		return nil, Result{}, ErrGameCompleted
	}

	totals := domain.ComputeTotals(game)

	var winnerName string
	var tie bool
	if winnerOverride != "" {
		team, ok := game.TeamByID(winnerOverride)
		if !ok {
			s.mu.Unlock()
			return nil, Result{}, fmt.Errorf("%w: %s", ErrUnknownTeam, winnerOverride)
		}
		winnerName = team.Name
	} else {
		winnerID, tied := domain.DetermineWinner(game, totals)
		if tied {
			winnerName, tie = domain.TieResult, true
		} else if team, ok := game.TeamByID(winnerID); ok {
			winnerName = team.Name
		}
	}

	finalScores := make(map[string]int, len(totals))
	for teamID, t := range totals {
		finalScores[teamID] = t.FinalScore
	}

	finishedAt := s.now()
	game.Status = domain.StatusCompleted
	game.Winner = winnerName
	game.FinalScores = finalScores
	game.FinishedAt = &finishedAt
	ownerID := game.OwnerID
	s.mu.Unlock()

	result := Result{Events: []Event{{
		Kind: EventGameCompleted,
		Payload: GameCompletedPayload{
			GameID:      gameID,
			Winner:      winnerName,
			Tie:         tie,
			FinalScores: finalScores,
			FinishedAt:  finishedAt,
		},
		Recipients: []string{ownerID},
	}}}

	if err := s.store.SaveCompletion(ctx, gameID, winnerName, finalScores, finishedAt); err != nil {
		result.StoreErr = fmt.Errorf("save completion: %w", err)
	}
	return game, result, nil
}

// DeleteGame removes the durable record and drops the local snapshot. Only
// the owner can delete; the snapshot is only dropped once the store confirms
// the delete.
func (s *Service) DeleteGame(ctx context.Context, gameID string) (Result, error) {
	if _, err := s.load(ctx, gameID); err != nil {
		return Result{}, err
	}
	if err := s.store.DeleteGame(ctx, gameID); err != nil {
		if errors.Is(err, ports.ErrGameNotFound) {
			return Result{}, ErrGameNotFound
		}
		return Result{}, fmt.Errorf("delete game: %w", err)
	}

	s.mu.Lock()
	delete(s.games, gameID)
	s.mu.Unlock()

	return Result{Events: []Event{{
		Kind:    EventGameDeleted,
		Payload: GameDeletedPayload{GameID: gameID},
	}}}, nil
}

// ListGames returns the caller's games from the store. Listed copies do not
// replace live snapshots, so an in-progress edit is never clobbered by a
// listing.
func (s *Service) ListGames(ctx context.Context) ([]*domain.Game, error) {
	ownerID := s.identity.CurrentUserID(ctx)
	if ownerID == "" {
		return nil, ErrNotAuthenticated
	}
	games, err := s.store.ListGames(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}
