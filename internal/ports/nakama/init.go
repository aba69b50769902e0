package nakama

import (
	"context"
	"database/sql"

	"crazyeights/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule loads configuration and registers the Crazy Eights RPCs.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadGameConfig(gameConfigPath); err != nil {
		logger.Warn("InitModule: Could not load game config, using defaults: %v", err)
	}
	cfg := *config.GetGameConfig()
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		cfg.ApplyEnv(env)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := RegisterRPCs(initializer, newGameRPC(&cfg)); err != nil {
		return err
	}

	logger.Info("Crazy Eights Go module loaded (starting turn: %s, computer: %s).", cfg.StartingTurn, cfg.ComputerUserID)
	return nil
}
