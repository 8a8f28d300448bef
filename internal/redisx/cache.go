package redisx

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache key patterns and TTLs. The summary cache is a presentation
// shortcut only: reconciliation is recomputed from scratch on every miss,
// and every write for a dealer invalidates that dealer's entry.
const keyDealerSummary = "dealer_summary:%s"

var TTLDealerSummary = 5 * time.Minute

// SummaryCache caches serialized dealer account summaries in Redis.
type SummaryCache struct {
	rdb *redis.Client
}

// New connects a SummaryCache to the Redis at addr.
func New(addr string) *SummaryCache {
	return &SummaryCache{rdb: redis.NewClient(&redis.Options{Addr: addr})}
}

// GetSummary unmarshals a cached summary into dst. Returns false on miss;
// a broken or unreachable Redis is also treated as a miss, never an error,
// so the read path keeps working without Redis.
func (c *SummaryCache) GetSummary(ctx context.Context, dealerCode string, dst any) bool {
	raw, err := c.rdb.Get(ctx, fmt.Sprintf(keyDealerSummary, dealerCode)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// SetSummary stores a summary under the dealer's key with the summary TTL.
func (c *SummaryCache) SetSummary(ctx context.Context, dealerCode string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, fmt.Sprintf(keyDealerSummary, dealerCode), raw, TTLDealerSummary).Err()
}

// Invalidate drops the dealer's cached summary after a ledger-affecting write.
func (c *SummaryCache) Invalidate(ctx context.Context, dealerCode string) {
	if dealerCode == "" {
		return
	}
	_ = c.rdb.Del(ctx, fmt.Sprintf(keyDealerSummary, dealerCode)).Err()
}
