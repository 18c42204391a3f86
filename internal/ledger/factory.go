package ledger

import (
	"context"
	"fmt"

	"roombook/internal/config"
	"roombook/internal/domain"

	"github.com/rs/zerolog"
)

// New selects a ledger backend from config. Memory is the default and the
// reference implementation; sqlite and redis are opt-in.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (domain.Ledger, error) {
	switch cfg.Storage.Backend {
	case "", "memory":
		logger.Info().Msg("using in-memory ledger")
		return NewMemoryLedger(), nil

	case "sqlite":
		return NewSQLiteLedger(cfg.Storage.Path, logger)

	case "redis":
		client := NewRedisClient(cfg.Redis)
		if err := Ping(ctx, client); err != nil {
			return nil, err
		}
		logger.Info().Str("addr", cfg.Redis.Address).Msg("using redis ledger")
		return NewRedisLedger(client), nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}
