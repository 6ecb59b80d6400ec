// internal/drafts/redis.go
package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"loan-origination/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	draftKeyPrefix     = "draft:"
	applicantKeyPrefix = "drafts:applicant:"
)

// RedisRepository stores each draft as a JSON string and indexes the ids of
// an applicant's drafts in a sorted set scored by save time.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{client: client, ttl: ttl}
}

func draftKey(id string) string {
	return draftKeyPrefix + id
}

func applicantKey(applicantID string) string {
	return applicantKeyPrefix + applicantID
}

func (r *RedisRepository) Put(ctx context.Context, draft models.Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, draftKey(draft.ID), data, r.ttl)
		pipe.ZAdd(ctx, applicantKey(draft.ApplicantID), redis.Z{
			Score:  float64(draft.LastSaved.UnixNano()),
			Member: draft.ID,
		})
		if r.ttl > 0 {
			pipe.Expire(ctx, applicantKey(draft.ApplicantID), r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis put draft %s: %w", draft.ID, err)
	}
	return nil
}

func (r *RedisRepository) Get(ctx context.Context, id string) (*models.Draft, error) {
	raw, err := r.client.Get(ctx, draftKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get draft %s: %w", id, err)
	}

	var d models.Draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, fmt.Errorf("decode draft %s: %w", id, err)
	}
	return &d, nil
}

func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	d, err := r.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, draftKey(id))
		pipe.ZRem(ctx, applicantKey(d.ApplicantID), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete draft %s: %w", id, err)
	}
	return nil
}

func (r *RedisRepository) ListByApplicant(ctx context.Context, applicantID string) ([]models.Draft, error) {
	ids, err := r.client.ZRevRange(ctx, applicantKey(applicantID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list drafts: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = draftKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis load drafts: %w", err)
	}

	out := make([]models.Draft, 0, len(values))
	var stale []interface{}
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// expired payload, index entry left behind
			stale = append(stale, ids[i])
			continue
		}
		var d models.Draft
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			return nil, fmt.Errorf("decode draft %s: %w", ids[i], err)
		}
		out = append(out, d)
	}

	if len(stale) > 0 {
		r.client.ZRem(ctx, applicantKey(applicantID), stale...)
	}
	return out, nil
}
