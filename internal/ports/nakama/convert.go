package nakama

import (
	"spades/internal/app"
	"spades/internal/domain"
)

// gameResponse is the wire shape for a game snapshot. Totals and Complete
// are derived on the way out so clients never recompute scoring themselves.
// Persisted is false when the snapshot is ahead of storage after a failed
// write; the client should retry the mutation without discarding input.
type gameResponse struct {
	Game       *domain.Game                 `json:"game"`
	Totals     map[string]domain.TeamTotals `json:"totals"`
	Complete   bool                         `json:"complete"`
	Persisted  bool                         `json:"persisted"`
	StoreError string                       `json:"store_error,omitempty"`
}

type submitRoundResponse struct {
	gameResponse
	Entry domain.RoundEntry `json:"entry"`
	// Clamped signals that the submitted bid/won pair was adjusted; the
	// client compares against Entry to show what was kept.
	Clamped bool `json:"clamped"`
}

type completeGameResponse struct {
	gameResponse
	Winner string `json:"winner"`
	Tie    bool   `json:"tie"`
}

type listGamesResponse struct {
	Games []*domain.Game `json:"games"`
}

func gameToResponse(svc *app.Service, game *domain.Game, storeErr error) gameResponse {
	resp := gameResponse{
		Game:      game,
		Totals:    svc.Totals(game),
		Complete:  svc.IsComplete(game),
		Persisted: storeErr == nil,
	}
	if storeErr != nil {
		resp.StoreError = storeErr.Error()
	}
	return resp
}

func setupFromRequest(req createGameRequest) app.GameSetup {
	teams := make([]app.TeamSetup, 0, len(req.Teams))
	for _, team := range req.Teams {
		teams = append(teams, app.TeamSetup{
			Name:    team.Name,
			Players: team.Players,
			ThemeID: team.ThemeID,
		})
	}
	return app.GameSetup{Teams: teams, MaxRounds: req.MaxRounds}
}
