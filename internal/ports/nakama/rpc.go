package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"spades/internal/app"

	"github.com/heroiclabs/nakama-common/runtime"
)

type createGameRequest struct {
	Teams []struct {
		Name    string   `json:"name"`
		Players []string `json:"players"`
		ThemeID string   `json:"theme_id"`
	} `json:"teams"`
	MaxRounds int `json:"max_rounds"`
}

type gameIDRequest struct {
	GameID string `json:"game_id"`
}

type submitRoundRequest struct {
	GameID string `json:"game_id"`
	Round  int    `json:"round"`
	TeamID string `json:"team_id"`
	Bid    int    `json:"bid"`
	Won    int    `json:"won"`
}

type completeGameRequest struct {
	GameID string `json:"game_id"`
	// WinnerTeamID overrides winner determination when set.
	WinnerTeamID string `json:"winner_team_id"`
}

// rpcHandlers binds the engine service to Nakama's RPC surface.
type rpcHandlers struct {
	svc      *app.Service
	notifier notificationSender
}

func newRPCHandlers(svc *app.Service, notifier notificationSender) *rpcHandlers {
	return &rpcHandlers{svc: svc, notifier: notifier}
}

// RegisterRPCs wires every scorekeeping RPC with the Nakama initializer.
func RegisterRPCs(initializer runtime.Initializer, h *rpcHandlers) error {
	rpcs := map[string]func(context.Context, runtime.Logger, string) (string, error){
		RpcIDCreateGame:   h.createGame,
		RpcIDGetGame:      h.getGame,
		RpcIDListGames:    h.listGames,
		RpcIDSubmitRound:  h.submitRound,
		RpcIDCompleteGame: h.completeGame,
		RpcIDDeleteGame:   h.deleteGame,
	}
	for id, handler := range rpcs {
		fn := handler
		err := initializer.RegisterRpc(id, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
			return fn(ctx, logger, payload)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (h *rpcHandlers) createGame(ctx context.Context, logger runtime.Logger, payload string) (string, error) {
	var req createGameRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("invalid payload", codeInvalidArgument)
	}

	game, result, err := h.svc.CreateGame(ctx, setupFromRequest(req))
	if err != nil {
		return "", rpcError(logger, err)
	}
	h.dispatch(ctx, logger, result.Events)
	if result.StoreErr != nil {
		logger.Warn("createGame: game %s not persisted: %v", game.ID, result.StoreErr)
	}
	return marshalResponse(gameToResponse(h.svc, game, result.StoreErr))
}

func (h *rpcHandlers) getGame(ctx context.Context, logger runtime.Logger, payload string) (string, error) {
	var req gameIDRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.GameID == "" {
		return "", runtime.NewError("invalid payload", codeInvalidArgument)
	}

	game, err := h.svc.GetGame(ctx, req.GameID)
	if err != nil {
		return "", rpcError(logger, err)
	}
	return marshalResponse(gameToResponse(h.svc, game, nil))
}

func (h *rpcHandlers) listGames(ctx context.Context, logger runtime.Logger, payload string) (string, error) {
	games, err := h.svc.ListGames(ctx)
	if err != nil {
		return "", rpcError(logger, err)
	}
	return marshalResponse(listGamesResponse{Games: games})
}

func (h *rpcHandlers) submitRound(ctx context.Context, logger runtime.Logger, payload string) (string, error) {
	var req submitRoundRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.GameID == "" {
		return "", runtime.NewError("invalid payload", codeInvalidArgument)
	}

	game, result, err := h.svc.SubmitRound(ctx, req.GameID, req.Round, req.TeamID, req.Bid, req.Won)
	if err != nil {
		return "", rpcError(logger, err)
	}
	h.dispatch(ctx, logger, result.Events)
	if result.StoreErr != nil {
		logger.Warn("submitRound: round %d of game %s not persisted: %v", req.Round, req.GameID, result.StoreErr)
	}

	resp := submitRoundResponse{gameResponse: gameToResponse(h.svc, game, result.StoreErr)}
	for _, event := range result.Events {
		if recorded, ok := event.Payload.(app.RoundRecordedPayload); ok {
			resp.Entry = recorded.Entry
			resp.Clamped = recorded.Clamped
		}
	}
	return marshalResponse(resp)
}

func (h *rpcHandlers) completeGame(ctx context.Context, logger runtime.Logger, payload string) (string, error) {
	var req completeGameRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.GameID == "" {
		return "", runtime.NewError("invalid payload", codeInvalidArgument)
	}

	game, result, err := h.svc.CompleteGame(ctx, req.GameID, req.WinnerTeamID)
	if err != nil {
		return "", rpcError(logger, err)
	}
	h.dispatch(ctx, logger, result.Events)
	if result.StoreErr != nil {
		logger.Warn("completeGame: game %s completion not persisted: %v", req.GameID, result.StoreErr)
	}

	resp := completeGameResponse{
		gameResponse: gameToResponse(h.svc, game, result.StoreErr),
		Winner:       game.Winner,
	}
	for _, event := range result.Events {
		if completed, ok := event.Payload.(app.GameCompletedPayload); ok {
			resp.Tie = completed.Tie
		}
	}
	return marshalResponse(resp)
}

func (h *rpcHandlers) deleteGame(ctx context.Context, logger runtime.Logger, payload string) (string, error) {
	var req gameIDRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.GameID == "" {
		return "", runtime.NewError("invalid payload", codeInvalidArgument)
	}

	result, err := h.svc.DeleteGame(ctx, req.GameID)
	if err != nil {
		return "", rpcError(logger, err)
	}
	h.dispatch(ctx, logger, result.Events)
	return marshalResponse(map[string]bool{"deleted": true})
}

func marshalResponse(resp any) (string, error) {
	b, err := json.Marshal(resp)
	if err != nil {
		return "", runtime.NewError("internal error", codeInternal)
	}
	return string(b), nil
}

// rpcError maps engine errors onto gRPC-coded runtime errors so clients can
// distinguish bad input, missing records and terminal state violations.
func rpcError(logger runtime.Logger, err error) error {
	switch {
	case errors.Is(err, app.ErrNotAuthenticated):
		return runtime.NewError("authentication required", codeUnauthenticated)
	case errors.Is(err, app.ErrTooFewTeams),
		errors.Is(err, app.ErrEmptyTeamName),
		errors.Is(err, app.ErrTooManyPlayers):
		return runtime.NewError(err.Error(), codeInvalidArgument)
	case errors.Is(err, app.ErrGameNotFound),
		errors.Is(err, app.ErrUnknownTeam),
		errors.Is(err, app.ErrRoundOutOfRange):
		return runtime.NewError(err.Error(), codeNotFound)
	case errors.Is(err, app.ErrGameCompleted):
		return runtime.NewError(err.Error(), codeFailedPrecondition)
	default:
		logger.Error("rpc failed: %v", err)
		return runtime.NewError("internal error", codeInternal)
	}
}
