package nakama

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"spades/internal/app"
	"spades/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

type noopLogger struct{}

func (noopLogger) Debug(format string, v ...interface{}) {}
func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}
func (l noopLogger) WithField(key string, v interface{}) runtime.Logger {
	return l
}
func (l noopLogger) WithFields(fields map[string]interface{}) runtime.Logger {
	return l
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type sentNotification struct {
	userID     string
	subject    string
	content    map[string]interface{}
	code       int
	persistent bool
}

type fakeNotifier struct {
	sent []sentNotification
}

func (f *fakeNotifier) NotificationSend(ctx context.Context, userID, subject string, content map[string]interface{}, code int, sender string, persistent bool) error {
	f.sent = append(f.sent, sentNotification{userID, subject, content, code, persistent})
	return nil
}

func newTestHandlers() (*rpcHandlers, *fakeNotifier) {
	store := NewGameStoreAdapter(newFakeStorage())
	svc := app.NewService(store, NewIdentityAdapter(), func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	})
	notifier := &fakeNotifier{}
	return newRPCHandlers(svc, notifier), notifier
}

func assertRPCCode(t *testing.T, err error, want int) {
	t.Helper()
	rerr, ok := err.(*runtime.Error)
	if !ok {
		t.Fatalf("error %v (%T) is not a runtime error", err, err)
	}
	if rerr.Code != want {
		t.Fatalf("error code = %d, want %d: %v", rerr.Code, want, rerr)
	}
}

const createPayload = `{"teams":[{"name":"Team A","players":["Ann","Al"]},{"name":"Team B","players":["Bea"]}]}`

func mustCreateGame(t *testing.T, h *rpcHandlers, ctx context.Context) *domain.Game {
	t.Helper()
	out, err := h.createGame(ctx, noopLogger{}, createPayload)
	if err != nil {
		t.Fatalf("create_game error: %v", err)
	}
	var resp struct {
		Game      *domain.Game `json:"game"`
		Persisted bool         `json:"persisted"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("create_game response not JSON: %v", err)
	}
	if resp.Game == nil || !resp.Persisted {
		t.Fatalf("create_game response = %s", out)
	}
	return resp.Game
}

func TestRPCFullScoringFlow(t *testing.T) {
	h, notifier := newTestHandlers()
	ctx := ownerCtx()

	game := mustCreateGame(t, h, ctx)
	if len(game.Teams) != 2 || game.MaxRounds != 13 {
		t.Fatalf("created game = %+v", game)
	}

	// Record a bid of 3 with 5 tricks in round 5: 30 points and 2 bags.
	submitReq, _ := json.Marshal(map[string]interface{}{
		"game_id": game.ID,
		"round":   5,
		"team_id": game.Teams[0].ID,
		"bid":     3,
		"won":     5,
	})
	out, err := h.submitRound(ctx, noopLogger{}, string(submitReq))
	if err != nil {
		t.Fatalf("submit_round error: %v", err)
	}
	var submitResp struct {
		Entry   domain.RoundEntry            `json:"entry"`
		Clamped bool                         `json:"clamped"`
		Totals  map[string]domain.TeamTotals `json:"totals"`
	}
	if err := json.Unmarshal([]byte(out), &submitResp); err != nil {
		t.Fatalf("submit_round response not JSON: %v", err)
	}
	if submitResp.Entry.Score != 30 || submitResp.Entry.Bags != 2 || submitResp.Clamped {
		t.Fatalf("submit_round entry = %+v clamped=%v", submitResp.Entry, submitResp.Clamped)
	}
	if submitResp.Totals[game.Teams[0].ID].RawScore != 30 {
		t.Fatalf("totals in response = %+v", submitResp.Totals)
	}

	completeReq, _ := json.Marshal(map[string]string{"game_id": game.ID})
	out, err = h.completeGame(ctx, noopLogger{}, string(completeReq))
	if err != nil {
		t.Fatalf("complete_game error: %v", err)
	}
	var completeResp struct {
		Winner string `json:"winner"`
		Tie    bool   `json:"tie"`
	}
	if err := json.Unmarshal([]byte(out), &completeResp); err != nil {
		t.Fatalf("complete_game response not JSON: %v", err)
	}
	if completeResp.Winner != "Team A" || completeResp.Tie {
		t.Fatalf("complete_game response = %s", out)
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("completion notifications sent = %d, want 1", len(notifier.sent))
	}
	sent := notifier.sent[0]
	if sent.userID != "owner-1" || sent.code != NotificationCodeGameCompleted || !sent.persistent {
		t.Fatalf("notification = %+v", sent)
	}
	if sent.content["winner"] != "Team A" {
		t.Fatalf("notification content = %v", sent.content)
	}

	// The terminal state shows through the read path too.
	getReq, _ := json.Marshal(map[string]string{"game_id": game.ID})
	out, err = h.getGame(ctx, noopLogger{}, string(getReq))
	if err != nil {
		t.Fatalf("get_game error: %v", err)
	}
	var getResp struct {
		Game *domain.Game `json:"game"`
	}
	if err := json.Unmarshal([]byte(out), &getResp); err != nil {
		t.Fatalf("get_game response not JSON: %v", err)
	}
	if getResp.Game.Status != domain.StatusCompleted || getResp.Game.Winner != "Team A" {
		t.Fatalf("get_game after completion = %+v", getResp.Game)
	}
}

func TestRPCListAndDelete(t *testing.T) {
	h, _ := newTestHandlers()
	ctx := ownerCtx()
	game := mustCreateGame(t, h, ctx)

	out, err := h.listGames(ctx, noopLogger{}, "{}")
	if err != nil {
		t.Fatalf("list_games error: %v", err)
	}
	var listResp struct {
		Games []*domain.Game `json:"games"`
	}
	if err := json.Unmarshal([]byte(out), &listResp); err != nil {
		t.Fatalf("list_games response not JSON: %v", err)
	}
	if len(listResp.Games) != 1 || listResp.Games[0].ID != game.ID {
		t.Fatalf("list_games response = %s", out)
	}

	deleteReq, _ := json.Marshal(map[string]string{"game_id": game.ID})
	out, err = h.deleteGame(ctx, noopLogger{}, string(deleteReq))
	if err != nil {
		t.Fatalf("delete_game error: %v", err)
	}
	var deleteResp map[string]bool
	if err := json.Unmarshal([]byte(out), &deleteResp); err != nil || !deleteResp["deleted"] {
		t.Fatalf("delete_game response = %s (%v)", out, err)
	}

	_, err = h.getGame(ctx, noopLogger{}, string(deleteReq))
	assertRPCCode(t, err, codeNotFound)
}

func TestRPCGameHiddenFromOtherUsers(t *testing.T) {
	h, _ := newTestHandlers()
	owner := ownerCtx()
	other := context.WithValue(context.Background(), runtime.RUNTIME_CTX_USER_ID, "user-2")

	game := mustCreateGame(t, h, owner)

	getReq, _ := json.Marshal(map[string]string{"game_id": game.ID})
	_, err := h.getGame(other, noopLogger{}, string(getReq))
	assertRPCCode(t, err, codeNotFound)

	submitReq, _ := json.Marshal(map[string]interface{}{
		"game_id": game.ID, "round": 5, "team_id": game.Teams[0].ID, "bid": 5, "won": 5,
	})
	_, err = h.submitRound(other, noopLogger{}, string(submitReq))
	assertRPCCode(t, err, codeNotFound)

	completeReq, _ := json.Marshal(map[string]string{"game_id": game.ID})
	_, err = h.completeGame(other, noopLogger{}, string(completeReq))
	assertRPCCode(t, err, codeNotFound)

	_, err = h.deleteGame(other, noopLogger{}, string(getReq))
	assertRPCCode(t, err, codeNotFound)

	// The owner's game survives the attempts untouched.
	out, err := h.getGame(owner, noopLogger{}, string(getReq))
	if err != nil {
		t.Fatalf("owner get_game error: %v", err)
	}
	var getResp struct {
		Game *domain.Game `json:"game"`
	}
	if err := json.Unmarshal([]byte(out), &getResp); err != nil {
		t.Fatalf("get_game response not JSON: %v", err)
	}
	if getResp.Game.Status != domain.StatusActive {
		t.Fatalf("game status = %s, want active", getResp.Game.Status)
	}
	round, _ := getResp.Game.RoundAt(5)
	if round.Entries[game.Teams[0].ID].Entered {
		t.Fatalf("round 5 entry written by a foreign caller: %+v", round.Entries[game.Teams[0].ID])
	}
}

func TestRPCErrorCodes(t *testing.T) {
	h, _ := newTestHandlers()
	ctx := ownerCtx()
	game := mustCreateGame(t, h, ctx)

	tests := []struct {
		name string
		call func() (string, error)
		want int
	}{
		{
			name: "malformed payload",
			call: func() (string, error) {
				return h.createGame(ctx, noopLogger{}, "not json")
			},
			want: codeInvalidArgument,
		},
		{
			name: "missing game id",
			call: func() (string, error) {
				return h.getGame(ctx, noopLogger{}, "{}")
			},
			want: codeInvalidArgument,
		},
		{
			name: "unauthenticated create",
			call: func() (string, error) {
				return h.createGame(context.Background(), noopLogger{}, createPayload)
			},
			want: codeUnauthenticated,
		},
		{
			name: "single team",
			call: func() (string, error) {
				return h.createGame(ctx, noopLogger{}, `{"teams":[{"name":"Solo"}]}`)
			},
			want: codeInvalidArgument,
		},
		{
			name: "unknown game",
			call: func() (string, error) {
				return h.getGame(ctx, noopLogger{}, `{"game_id":"missing"}`)
			},
			want: codeNotFound,
		},
		{
			name: "unknown team",
			call: func() (string, error) {
				payload, _ := json.Marshal(map[string]interface{}{
					"game_id": game.ID, "round": 1, "team_id": "nobody",
				})
				return h.submitRound(ctx, noopLogger{}, string(payload))
			},
			want: codeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.call()
			if err == nil {
				t.Fatalf("expected an error")
			}
			assertRPCCode(t, err, tt.want)
		})
	}
}

func TestRPCCompletedGameRejectsEdits(t *testing.T) {
	h, _ := newTestHandlers()
	ctx := ownerCtx()
	game := mustCreateGame(t, h, ctx)

	completeReq, _ := json.Marshal(map[string]string{"game_id": game.ID, "winner_team_id": game.Teams[1].ID})
	out, err := h.completeGame(ctx, noopLogger{}, string(completeReq))
	if err != nil {
		t.Fatalf("complete_game error: %v", err)
	}
	var completeResp struct {
		Winner string `json:"winner"`
	}
	if err := json.Unmarshal([]byte(out), &completeResp); err != nil {
		t.Fatalf("complete_game response not JSON: %v", err)
	}
	if completeResp.Winner != "Team B" {
		t.Fatalf("override winner = %q, want Team B", completeResp.Winner)
	}

	submitReq, _ := json.Marshal(map[string]interface{}{
		"game_id": game.ID, "round": 1, "team_id": game.Teams[0].ID, "bid": 1, "won": 1,
	})
	_, err = h.submitRound(ctx, noopLogger{}, string(submitReq))
	assertRPCCode(t, err, codeFailedPrecondition)
}
