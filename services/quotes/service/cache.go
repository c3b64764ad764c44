package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"cotizador-platform/lib/models"

	"github.com/redis/go-redis/v9"
)

const maxMemoryEntries = 1000

type memoryEntry struct {
	quotes    []models.QuoteResult
	expiresAt time.Time
}

// QuoteCache keeps recent quote responses in Redis with an in-memory
// fallback, so a Redis outage degrades to per-instance caching instead of
// hammering the RNDC gateway.
type QuoteCache struct {
	redisClient *redis.Client
	ttl         time.Duration

	mu     sync.Mutex
	memory map[string]memoryEntry
}

func NewQuoteCache(redisClient *redis.Client, ttl time.Duration) *QuoteCache {
	return &QuoteCache{
		redisClient: redisClient,
		ttl:         ttl,
		memory:      make(map[string]memoryEntry),
	}
}

// Key derives a stable cache key from the query. Struct field order fixes the
// JSON layout, so identical queries always hash the same.
func (qc *QuoteCache) Key(query models.QuoteQuery) string {
	payload, _ := json.Marshal(query)
	sum := md5.Sum(payload)
	return fmt.Sprintf("sicetac:quotes:%s", hex.EncodeToString(sum[:])[:16])
}

func (qc *QuoteCache) Get(ctx context.Context, query models.QuoteQuery) ([]models.QuoteResult, bool) {
	key := qc.Key(query)

	if qc.redisClient != nil {
		value, err := qc.redisClient.Get(ctx, key).Result()
		if err == nil {
			var quotes []models.QuoteResult
			if err := json.Unmarshal([]byte(value), &quotes); err == nil {
				return quotes, true
			}
		} else if err != redis.Nil {
			log.Printf("Redis get error: %v", err)
		}
	}

	qc.mu.Lock()
	defer qc.mu.Unlock()
	entry, ok := qc.memory[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(qc.memory, key)
		return nil, false
	}
	return entry.quotes, true
}

func (qc *QuoteCache) Set(ctx context.Context, query models.QuoteQuery, quotes []models.QuoteResult) {
	key := qc.Key(query)

	if qc.redisClient != nil {
		payload, err := json.Marshal(quotes)
		if err == nil {
			if err := qc.redisClient.Set(ctx, key, payload, qc.ttl).Err(); err != nil {
				log.Printf("Redis set error: %v", err)
			}
		}
	}

	qc.mu.Lock()
	defer qc.mu.Unlock()
	if len(qc.memory) >= maxMemoryEntries {
		qc.evictExpiredLocked()
	}
	qc.memory[key] = memoryEntry{quotes: quotes, expiresAt: time.Now().Add(qc.ttl)}
}

// evictExpiredLocked drops expired entries; if everything is still live the
// whole map is reset rather than growing without bound.
func (qc *QuoteCache) evictExpiredLocked() {
	now := time.Now()
	for key, entry := range qc.memory {
		if now.After(entry.expiresAt) {
			delete(qc.memory, key)
		}
	}
	if len(qc.memory) >= maxMemoryEntries {
		qc.memory = make(map[string]memoryEntry)
	}
}
