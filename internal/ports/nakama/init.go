package nakama

import (
	"context"
	"database/sql"

	"spades/internal/app"
	"spades/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

const gameConfigPath = "data/game_config.json"

// InitModule wires the scorekeeping engine into the Nakama runtime: config,
// store/identity adapters, RPCs and auth hooks.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadGameConfig(gameConfigPath); err != nil {
		logger.Warn("InitModule: using default game config: %v", err)
	}

	svc := app.NewService(NewGameStoreAdapter(nk), NewIdentityAdapter(), nil)

	if err := RegisterRPCs(initializer, newRPCHandlers(svc, nk)); err != nil {
		return err
	}
	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}
	if err := initializer.RegisterAfterAuthenticateEmail(AfterAuthenticateEmail); err != nil {
		return err
	}

	logger.Info("Spades scorekeeping module loaded.")
	return nil
}
