package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/quantum-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/quantum-tictactoe/internal/entity"
)

type matchRepo interface {
	CreateOrUpdate(ctx context.Context, id string, snapshot entity.Snapshot) error
	GetByID(ctx context.Context, id string) (entity.Snapshot, error)
	Update(ctx context.Context, id string, apply func(current entity.Snapshot) (entity.Snapshot, error)) (entity.Snapshot, error)
	DeleteByID(ctx context.Context, id string) error
}

// MatchManager is the session layer around the engine: it loads a match, applies one operation
// and stores the result. Each operation commits atomically in redis, so managers in different
// processes never overwrite each other's moves. Within one manager operations on a match also
// queue on a local lock and do not race for the same transaction.
type MatchManager struct {
	logger    *slog.Logger
	matchRepo matchRepo
	options   []entity.Option

	locksMutex sync.Mutex
	locks      map[string]*matchLock
}

type matchLock struct {
	sync.Mutex
	refs int
}

func NewMatchManager(logger *slog.Logger, matchRepo matchRepo, options ...entity.Option) *MatchManager {
	return &MatchManager{
		logger:    logger.With("component", "match_manager"),
		matchRepo: matchRepo,
		options:   options,
		locks:     make(map[string]*matchLock),
	}
}

// CreateMatch stores a new empty match and returns its id.
func (that *MatchManager) CreateMatch(ctx context.Context) (string, entity.Snapshot, error) {
	id := uuid.NewString()
	snapshot := entity.NewMatch(that.options...).Snapshot()

	if err := that.matchRepo.CreateOrUpdate(ctx, id, snapshot); err != nil {
		return "", entity.Snapshot{}, fmt.Errorf("failed to create match: %w", err)
	}

	that.logger.Info("match created", "matchID", id)

	return id, snapshot, nil
}

// GetMatch returns the stored match. A snapshot that the engine cannot restore is reported as
// ErrCorruptSnapshot, the same as for operations on it.
func (that *MatchManager) GetMatch(ctx context.Context, matchID string) (entity.Snapshot, error) {
	snapshot, err := that.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return entity.Snapshot{}, fmt.Errorf("failed to get match: %w", err)
	}

	if _, err = entity.Restore(snapshot, that.options...); err != nil {
		that.logger.Error("failed to restore match", "method", "getMatch", "matchID", matchID, "error", err)
		return entity.Snapshot{}, fmt.Errorf("failed to restore match: %w", err)
	}

	return snapshot, nil
}

func (that *MatchManager) Join(ctx context.Context, matchID, playerID string) (entity.Snapshot, error) {
	return that.update(ctx, "join", matchID, playerID, func(match *entity.Match) error {
		return match.Join(playerID)
	})
}

func (that *MatchManager) Leave(ctx context.Context, matchID, playerID string) (entity.Snapshot, error) {
	return that.update(ctx, "leave", matchID, playerID, func(match *entity.Match) error {
		return match.Leave(playerID)
	})
}

func (that *MatchManager) ApplyMove(ctx context.Context, matchID, playerID string, board entity.BoardID, row, col int) (entity.Snapshot, error) {
	return that.update(ctx, "applyMove", matchID, playerID, func(match *entity.Match) error {
		return match.ApplyMove(playerID, board, row, col)
	})
}

// DiscardMatch removes a match and everything the engine knew about it.
func (that *MatchManager) DiscardMatch(ctx context.Context, matchID string) error {
	unlock := that.lock(matchID)
	defer unlock()

	if err := that.matchRepo.DeleteByID(ctx, matchID); err != nil {
		return fmt.Errorf("failed to discard match: %w", err)
	}

	that.logger.Info("match discarded", "matchID", matchID)

	return nil
}

// update runs op against the stored match inside one redis transaction. A rejected op is returned
// with the unchanged snapshot and nothing is written.
func (that *MatchManager) update(
	ctx context.Context,
	method, matchID, playerID string,
	op func(match *entity.Match) error,
) (entity.Snapshot, error) {
	log := that.logger.With("method", method, "matchID", matchID, "playerID", playerID)

	unlock := that.lock(matchID)
	defer unlock()

	var stored entity.Snapshot
	snapshot, err := that.matchRepo.Update(ctx, matchID, func(current entity.Snapshot) (entity.Snapshot, error) {
		stored = current

		match, err := entity.Restore(current, that.options...)
		if err != nil {
			return entity.Snapshot{}, fmt.Errorf("failed to restore match: %w", err)
		}

		if err = op(match); err != nil {
			return entity.Snapshot{}, fmt.Errorf("failed to %s: %w", method, err)
		}

		return match.Snapshot(), nil
	})

	if err != nil {
		switch {
		case apperror.IsRejection(err):
			log.Info("operation rejected", "kind", apperror.KindOf(err), "error", err)
			return stored, err
		case errors.Is(err, apperror.ErrMatchNotFound):
			return entity.Snapshot{}, fmt.Errorf("failed to get match: %w", err)
		case errors.Is(err, apperror.ErrCorruptSnapshot):
			log.Error("failed to restore match", "error", err)
			return entity.Snapshot{}, err
		default:
			log.Error("failed to save match", "error", err)
			return entity.Snapshot{}, fmt.Errorf("failed to save match: %w", err)
		}
	}

	log.Debug("operation applied", "status", snapshot.Status, "moves", len(snapshot.Moves))

	if snapshot.Status == entity.StatusOver && stored.Status != entity.StatusOver {
		log.Info("match over", "winner", snapshot.Winner, "xScore", snapshot.XScore, "oScore", snapshot.OScore)
	}

	return snapshot, nil
}

// lock serializes operations on one match within this manager. Entries are dropped once no caller holds or waits on them.
func (that *MatchManager) lock(matchID string) func() {
	that.locksMutex.Lock()
	entry, ok := that.locks[matchID]
	if !ok {
		entry = &matchLock{}
		that.locks[matchID] = entry
	}
	entry.refs++
	that.locksMutex.Unlock()

	entry.Lock()

	return func() {
		entry.Unlock()

		that.locksMutex.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(that.locks, matchID)
		}
		that.locksMutex.Unlock()
	}
}
