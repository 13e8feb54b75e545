package production

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces session records in Redis.
const KeyPrefix = "calcx:session:"

// RedisConfig holds the connection settings for RedisPersister.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// TTL expires idle sessions; zero keeps them forever.
	TTL time.Duration
}

// RedisPersister stores session records as JSON strings so that several
// processes can serve the same sessions.
type RedisPersister struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisPersister connects to Redis and verifies the connection.
func NewRedisPersister(ctx context.Context, cfg RedisConfig) (*RedisPersister, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return NewRedisPersisterWithClient(client, cfg.TTL), nil
}

// NewRedisPersisterWithClient wraps an existing client.
func NewRedisPersisterWithClient(client redis.UniversalClient, ttl time.Duration) *RedisPersister {
	return &RedisPersister{client: client, ttl: ttl}
}

// Key returns the Redis key holding a session record.
func Key(sessionID string) string {
	return KeyPrefix + sessionID
}

func (p *RedisPersister) Save(ctx context.Context, rec Record) error {
	if err := checkID(rec.SessionID); err != nil {
		return err
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := p.client.Set(ctx, Key(rec.SessionID), data, p.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", Key(rec.SessionID), err)
	}
	return nil
}

func (p *RedisPersister) Load(ctx context.Context, sessionID string) (Record, error) {
	if err := checkID(sessionID); err != nil {
		return Record{}, err
	}
	data, err := p.client.Get(ctx, Key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Record{}, fmt.Errorf("session %q: %w", sessionID, ErrNotFound)
		}
		return Record{}, fmt.Errorf("redis get %s: %w", Key(sessionID), err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("json unmarshal: %w", err)
	}
	rec.SessionID = sessionID
	if err := rec.State.Validate(); err != nil {
		return Record{}, fmt.Errorf("session %q: %w", sessionID, err)
	}
	return rec, nil
}

func (p *RedisPersister) Delete(ctx context.Context, sessionID string) error {
	if err := checkID(sessionID); err != nil {
		return err
	}
	if err := p.client.Del(ctx, Key(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", Key(sessionID), err)
	}
	return nil
}

// Close releases the underlying client.
func (p *RedisPersister) Close() error {
	return p.client.Close()
}
