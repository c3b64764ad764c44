package service

import (
	"context"
	"testing"
	"time"

	"cotizador-platform/lib/models"
)

func cacheQuery(period string) models.QuoteQuery {
	return models.QuoteQuery{
		Period:        period,
		Configuration: "3S3",
		Origin:        "11001000",
		Destination:   "05001000",
	}
}

func sampleQuotes() []models.QuoteResult {
	return []models.QuoteResult{
		{RouteCode: "106", MobilizationValue: 2693308.96, MinimumPayable: 2803544.96},
	}
}

func TestQuoteCacheKeyStability(t *testing.T) {
	qc := NewQuoteCache(nil, time.Minute)

	if qc.Key(cacheQuery("202501")) != qc.Key(cacheQuery("202501")) {
		t.Error("identical queries must map to the same key")
	}
	if qc.Key(cacheQuery("202501")) == qc.Key(cacheQuery("202502")) {
		t.Error("different queries must map to different keys")
	}
}

func TestQuoteCacheMemoryFallback(t *testing.T) {
	// No Redis client wired: the in-memory tier must serve alone.
	qc := NewQuoteCache(nil, time.Minute)
	ctx := context.Background()
	query := cacheQuery("202501")

	if _, ok := qc.Get(ctx, query); ok {
		t.Fatal("unexpected hit on empty cache")
	}

	qc.Set(ctx, query, sampleQuotes())

	quotes, ok := qc.Get(ctx, query)
	if !ok {
		t.Fatal("expected cache hit after set")
	}
	if len(quotes) != 1 || quotes[0].RouteCode != "106" {
		t.Errorf("cached quotes mangled: %+v", quotes)
	}

	if _, ok := qc.Get(ctx, cacheQuery("202502")); ok {
		t.Error("hit for a query that was never cached")
	}
}

func TestQuoteCacheExpiry(t *testing.T) {
	qc := NewQuoteCache(nil, 10*time.Millisecond)
	ctx := context.Background()
	query := cacheQuery("202501")

	qc.Set(ctx, query, sampleQuotes())
	time.Sleep(20 * time.Millisecond)

	if _, ok := qc.Get(ctx, query); ok {
		t.Error("expired entry served from cache")
	}
}
