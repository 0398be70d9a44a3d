package nakama

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"spades/internal/domain"
	"spades/internal/ports"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// storageAPI is the slice of runtime.NakamaModule the store adapter needs.
// Narrowing the interface keeps the adapter testable with a hand fake.
type storageAPI interface {
	StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error)
	StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error)
	StorageDelete(ctx context.Context, deletes []*runtime.StorageDelete) error
	StorageList(ctx context.Context, callerID, userID, collection string, limit int, cursor string) ([]*api.StorageObject, string, error)
}

// GameStoreAdapter persists each game as one owner-scoped JSON document in
// the games collection. Writes are last-write-wins: the engine's editing
// model is single-session, so no optimistic concurrency token is carried.
type GameStoreAdapter struct {
	nk storageAPI
}

// NewGameStoreAdapter creates a storage-backed game store.
func NewGameStoreAdapter(nk storageAPI) *GameStoreAdapter {
	return &GameStoreAdapter{nk: nk}
}

// LoadGame reads the caller's game document.
func (a *GameStoreAdapter) LoadGame(ctx context.Context, gameID string) (*domain.Game, error) {
	userID := callerID(ctx)
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: gamesCollection,
		Key:        gameID,
		UserID:     userID,
	}})
	if err != nil {
		return nil, fmt.Errorf("storage read: %w", err)
	}
	if len(objects) == 0 {
		return nil, ports.ErrGameNotFound
	}

	var game domain.Game
	if err := json.Unmarshal([]byte(objects[0].Value), &game); err != nil {
		return nil, fmt.Errorf("decode game %s: %w", gameID, err)
	}
	return &game, nil
}

// SaveGame writes the full game document under its owner.
func (a *GameStoreAdapter) SaveGame(ctx context.Context, game *domain.Game) error {
	value, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("encode game %s: %w", game.ID, err)
	}

	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      gamesCollection,
		Key:             game.ID,
		UserID:          game.OwnerID,
		Value:           string(value),
		PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
		PermissionWrite: runtime.STORAGE_PERMISSION_OWNER_WRITE,
	}})
	if err != nil {
		return fmt.Errorf("storage write: %w", err)
	}
	return nil
}

// SaveRound merges one committed round entry into the stored document.
func (a *GameStoreAdapter) SaveRound(ctx context.Context, gameID string, roundIndex int, teamID string, entry domain.RoundEntry) error {
	game, err := a.LoadGame(ctx, gameID)
	if err != nil {
		return err
	}
	round, ok := game.RoundAt(roundIndex)
	if !ok {
		return fmt.Errorf("game %s has no round %d", gameID, roundIndex)
	}
	round.Entries[teamID] = entry
	return a.SaveGame(ctx, game)
}

// SaveCompletion freezes the stored record with winner and final scores.
func (a *GameStoreAdapter) SaveCompletion(ctx context.Context, gameID, winner string, finalScores map[string]int, finishedAt time.Time) error {
	game, err := a.LoadGame(ctx, gameID)
	if err != nil {
		return err
	}
	game.Status = domain.StatusCompleted
	game.Winner = winner
	game.FinalScores = finalScores
	game.FinishedAt = &finishedAt
	return a.SaveGame(ctx, game)
}

// DeleteGame removes the caller's game document.
func (a *GameStoreAdapter) DeleteGame(ctx context.Context, gameID string) error {
	err := a.nk.StorageDelete(ctx, []*runtime.StorageDelete{{
		Collection: gamesCollection,
		Key:        gameID,
		UserID:     callerID(ctx),
	}})
	if err != nil {
		return fmt.Errorf("storage delete: %w", err)
	}
	return nil
}

// ListGames pages through the owner's games collection.
func (a *GameStoreAdapter) ListGames(ctx context.Context, ownerID string) ([]*domain.Game, error) {
	var games []*domain.Game
	cursor := ""
	for {
		objects, next, err := a.nk.StorageList(ctx, "", ownerID, gamesCollection, 100, cursor)
		if err != nil {
			return nil, fmt.Errorf("storage list: %w", err)
		}
		for _, object := range objects {
			var game domain.Game
			if err := json.Unmarshal([]byte(object.Value), &game); err != nil {
				return nil, fmt.Errorf("decode game %s: %w", object.Key, err)
			}
			games = append(games, &game)
		}
		if next == "" {
			break
		}
		cursor = next
	}
	return games, nil
}

var _ ports.GameStore = (*GameStoreAdapter)(nil)
