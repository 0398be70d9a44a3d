package nakama

import (
	"context"

	"spades/internal/app"
	"spades/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// notificationSender is the slice of runtime.NakamaModule used for event
// delivery.
type notificationSender interface {
	NotificationSend(ctx context.Context, userID, subject string, content map[string]interface{}, code int, sender string, persistent bool) error
}

// dispatch fans engine events out to clients. Completion events become
// persistent notifications so the owner's other devices see the result;
// everything else is only logged. Delivery is best-effort and never fails
// the triggering operation.
func (h *rpcHandlers) dispatch(ctx context.Context, logger runtime.Logger, events []app.Event) {
	for _, event := range events {
		logger.Debug("engine event: %s", event.Kind)

		completed, ok := event.Payload.(app.GameCompletedPayload)
		if !ok || !config.CompletionNotificationsEnabled() {
			continue
		}

		content := map[string]interface{}{
			"game_id":      completed.GameID,
			"winner":       completed.Winner,
			"tie":          completed.Tie,
			"final_scores": completed.FinalScores,
		}
		for _, userID := range event.Recipients {
			if err := h.notifier.NotificationSend(ctx, userID, "Game completed", content, NotificationCodeGameCompleted, "", true); err != nil {
				logger.Warn("dispatch: completion notification for game %s failed: %v", completed.GameID, err)
			}
		}
	}
}
