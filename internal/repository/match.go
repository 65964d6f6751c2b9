package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/quantum-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/quantum-tictactoe/internal/entity"
)

const (
	matchKeyPrefix = "match:"

	// maxUpdateAttempts bounds how often Update retries after another writer changed the match.
	maxUpdateAttempts = 16
)

// MatchRepository stores the current snapshot of each live match.
type MatchRepository interface {
	CreateOrUpdate(ctx context.Context, id string, snapshot entity.Snapshot) error
	GetByID(ctx context.Context, id string) (entity.Snapshot, error)
	Update(ctx context.Context, id string, apply func(current entity.Snapshot) (entity.Snapshot, error)) (entity.Snapshot, error)
	DeleteByID(ctx context.Context, id string) error
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

type dbMatch struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMatchRepository returns a redis-backed repository. Every write refreshes the key's ttl;
// a zero ttl keeps matches until they are deleted.
func NewMatchRepository(client *redis.Client, ttl time.Duration) MatchRepository {
	return &dbMatch{
		client: client,
		ttl:    ttl,
	}
}

func matchKey(id string) string {
	return matchKeyPrefix + id
}

func (that *dbMatch) CreateOrUpdate(ctx context.Context, id string, snapshot entity.Snapshot) error {
	matchJSON, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("could not marshal match: %w", err)
	}

	if err = that.client.Set(ctx, matchKey(id), matchJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set match: %w", err)
	}

	return nil
}

func (that *dbMatch) GetByID(ctx context.Context, id string) (entity.Snapshot, error) {
	return that.get(ctx, that.client, id)
}

// Update reads the match, applies apply and writes the result in one optimistic transaction.
// When another writer commits in between, the transaction is dropped and the cycle starts over
// on the fresh snapshot, so apply may run more than once. An error from apply aborts the update
// and is returned unchanged.
func (that *dbMatch) Update(
	ctx context.Context,
	id string,
	apply func(current entity.Snapshot) (entity.Snapshot, error),
) (entity.Snapshot, error) {
	key := matchKey(id)

	var updated entity.Snapshot
	txf := func(tx *redis.Tx) error {
		current, err := that.get(ctx, tx, id)
		if err != nil {
			return err
		}

		next, err := apply(current)
		if err != nil {
			return err
		}

		matchJSON, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("could not marshal match: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, matchJSON, that.ttl)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to set match: %w", err)
		}

		updated = next

		return nil
	}

	for range maxUpdateAttempts {
		err := that.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}

		if err != nil {
			return entity.Snapshot{}, err
		}

		return updated, nil
	}

	return entity.Snapshot{}, fmt.Errorf("%w: id %s", apperror.ErrMatchConflict, id)
}

func (that *dbMatch) get(ctx context.Context, client stringGetter, id string) (entity.Snapshot, error) {
	response, err := client.Get(ctx, matchKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity.Snapshot{}, fmt.Errorf("%w: id %s", apperror.ErrMatchNotFound, id)
	}

	if err != nil {
		return entity.Snapshot{}, fmt.Errorf("failed to get match by id: %w", err)
	}

	var snapshot entity.Snapshot
	if err = json.Unmarshal(response, &snapshot); err != nil {
		return entity.Snapshot{}, fmt.Errorf("failed to unmarshal match: %w", err)
	}

	return snapshot, nil
}

func (that *dbMatch) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, matchKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete match by id: %w", err)
	}

	if deleted == 0 {
		return fmt.Errorf("%w: id %s", apperror.ErrMatchNotFound, id)
	}

	return nil
}
