package store

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// VocabularyCache keeps the category vocabulary in redis so workers and the
// API do not hit Postgres for it on every batch.
type VocabularyCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewVocabularyCacheFromEnv creates the cache from REDIS_ADDR, REDIS_PASS,
// REDIS_DB, VOCAB_CACHE_KEY and VOCAB_CACHE_TTL_SECONDS. Returns nil when
// REDIS_ADDR is unset; the cache is optional.
func NewVocabularyCacheFromEnv() *VocabularyCache {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}

	db := 0
	if d := os.Getenv("REDIS_DB"); d != "" {
		if v, err := strconv.Atoi(d); err == nil {
			db = v
		}
	}
	key := os.Getenv("VOCAB_CACHE_KEY")
	if key == "" {
		key = "categories:vocabulary"
	}
	ttl := time.Hour
	if t := os.Getenv("VOCAB_CACHE_TTL_SECONDS"); t != "" {
		if secs, err := strconv.Atoi(t); err == nil && secs > 0 {
			ttl = time.Duration(secs) * time.Second
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASS"),
		DB:       db,
	})
	return &VocabularyCache{client: client, key: key, ttl: ttl}
}

// Get returns the cached vocabulary, or ok=false on miss or any redis error.
func (c *VocabularyCache) Get(ctx context.Context) ([]string, bool) {
	raw, err := c.client.Get(ctx, c.key).Result()
	if err != nil {
		return nil, false
	}
	var vocabulary []string
	if err := json.Unmarshal([]byte(raw), &vocabulary); err != nil {
		return nil, false
	}
	return vocabulary, true
}

// Set stores the vocabulary with the configured TTL.
func (c *VocabularyCache) Set(ctx context.Context, vocabulary []string) error {
	raw, err := json.Marshal(vocabulary)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key, raw, c.ttl).Err()
}

func (c *VocabularyCache) Close() error {
	return c.client.Close()
}

// CachedVocabulary serves the vocabulary out of redis when possible, falling
// back to Postgres and repopulating the cache. Cache failures only cost a
// database round trip, never the request.
type CachedVocabulary struct {
	Store *Store
	Cache *VocabularyCache
}

func (v *CachedVocabulary) CategoryVocabulary(ctx context.Context) ([]string, error) {
	if v.Cache != nil {
		if vocabulary, ok := v.Cache.Get(ctx); ok {
			return vocabulary, nil
		}
	}

	vocabulary, err := v.Store.CategoryVocabulary(ctx)
	if err != nil {
		return nil, err
	}

	if v.Cache != nil {
		if err := v.Cache.Set(ctx, vocabulary); err != nil {
			log.Printf("Warning: failed to cache vocabulary: %v", err)
		}
	}
	return vocabulary, nil
}
