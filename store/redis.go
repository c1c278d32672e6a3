// store/redis.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrStoreUnavailable wraps a store round-trip that still failed after the
// retry budget. Handlers map it to 503; nothing was written.
var ErrStoreUnavailable = errors.New("document store unavailable")

const (
	retryAttempts  = 3
	retryBaseDelay = 100 * time.Millisecond
)

// InitializeRedisClient creates and pings the Redis client. Address and DB
// come from the environment like every other connection string.
func InitializeRedisClient() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "127.0.0.1:6379"
	}
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		fmt.Sscanf(v, "%d", &db)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Could not connect to Redis at %s: %v", addr, err)
	}
	log.Printf("Successfully connected to Redis at %s (db %d)", addr, db)
	return rdb
}

// BlobStore keeps one JSON document per logical table, mirroring the old
// sheet-per-table layout. Every round-trip gets the same fixed retry.
type BlobStore struct {
	Client *redis.Client
	Ctx    context.Context
}

// NewBlobStore creates a BlobStore with a background base context.
func NewBlobStore(client *redis.Client) *BlobStore {
	return &BlobStore{Client: client, Ctx: context.Background()}
}

// withRetry runs op up to retryAttempts times with jittered backoff.
// redis.Nil (missing key) is not a failure and returns immediately.
func withRetry(table string, op func() error) error {
	var err error
	for attempt := 1; attempt <= retryAttempts; attempt++ {
		err = op()
		if err == nil || errors.Is(err, redis.Nil) {
			return err
		}
		if attempt < retryAttempts {
			delay := time.Duration(attempt)*retryBaseDelay + time.Duration(rand.Int63n(int64(retryBaseDelay)))
			log.Printf("[STORE] %s attempt %d/%d failed: %v — retrying in %v", table, attempt, retryAttempts, err, delay)
			time.Sleep(delay)
		}
	}
	log.Printf("[STORE] %s failed after %d attempts: %v", table, retryAttempts, err)
	return fmt.Errorf("%w: table %s: %v", ErrStoreUnavailable, table, err)
}

// GetJSON loads the blob for table into out. A missing blob leaves out
// untouched and returns (false, nil), matching "use the caller's default".
func (s *BlobStore) GetJSON(table string, out interface{}) (bool, error) {
	var raw string
	err := withRetry(table, func() error {
		var e error
		raw, e = s.Client.Get(s.Ctx, table).Result()
		return e
	})
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		// A corrupt blob is treated like a missing one; the defaults take
		// over rather than locking every school out.
		log.Printf("[STORE] %s holds invalid JSON (%v) — falling back to defaults", table, err)
		return false, nil
	}
	return true, nil
}

// PutJSON marshals v and overwrites the table blob.
func (s *BlobStore) PutJSON(table string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s blob: %w", table, err)
	}
	return withRetry(table, func() error {
		return s.Client.Set(s.Ctx, table, raw, 0).Err()
	})
}

// DeleteTable removes a blob (used when a tournament's entries are reset).
func (s *BlobStore) DeleteTable(table string) error {
	return withRetry(table, func() error {
		return s.Client.Del(s.Ctx, table).Err()
	})
}
