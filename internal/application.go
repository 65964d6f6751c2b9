package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/quantum-tictactoe/internal/config"
	"github.com/rocketscienceinc/quantum-tictactoe/internal/entity"
	"github.com/rocketscienceinc/quantum-tictactoe/internal/repository"
	"github.com/rocketscienceinc/quantum-tictactoe/internal/repository/storage"
	"github.com/rocketscienceinc/quantum-tictactoe/internal/usecase"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// App holds the wired session layer and the connections it owns.
type App struct {
	Matches *usecase.MatchManager

	logger       *slog.Logger
	redisStorage *storage.RedisStorage
}

// New connects to redis and wires the match manager.
func New(ctx context.Context, logger *slog.Logger, conf *config.Config) (*App, error) {
	redisAddrString := conf.Redis.GetRedisAddr()
	if conf.Redis.Host == "" || conf.Redis.Port == "" {
		return nil, ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	matchRepo := repository.NewMatchRepository(redisStorage.Connection, conf.Redis.MatchTTL)
	matchManager := usecase.NewMatchManager(logger, matchRepo, MatchOptions(conf)...)

	return &App{
		Matches:      matchManager,
		logger:       logger.With("component", "app"),
		redisStorage: redisStorage,
	}, nil
}

// MatchOptions turns match settings into engine options.
func MatchOptions(conf *config.Config) []entity.Option {
	var options []entity.Option
	if conf.Match.EarlyFinish {
		options = append(options, entity.WithEarlyFinish())
	}

	return options
}

func (that *App) Close() error {
	if err := that.redisStorage.Close(); err != nil {
		that.logger.Error("could not close redis storage", "error", err)
		return err
	}

	return nil
}
