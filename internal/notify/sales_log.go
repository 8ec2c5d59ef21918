package notify

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/storefront-crm/internal/errx"
)

type SaleEntry struct {
	OrderID string    `json:"order_id"`
	Email   string    `json:"email"`
	Items   int       `json:"items"`
	Total   float64   `json:"total"`
	Time    time.Time `json:"time"`
}

// SalesLog accumulates sales until the daily summary drains them.
type SalesLog interface {
	Append(ctx context.Context, e SaleEntry) error
	Drain(ctx context.Context) ([]SaleEntry, error)
}

const DailySalesLogKey = "storefront:saleslog:daily"

type RedisSalesLog struct {
	rdb *redis.Client
}

func NewRedisSalesLog(rdb *redis.Client) *RedisSalesLog {
	return &RedisSalesLog{rdb: rdb}
}

func (l *RedisSalesLog) Append(ctx context.Context, e SaleEntry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return errx.WrapRedis(l.rdb.RPush(ctx, DailySalesLogKey, data).Err())
}

func (l *RedisSalesLog) Drain(ctx context.Context) ([]SaleEntry, error) {
	var lrange *redis.StringSliceCmd
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		lrange = pipe.LRange(ctx, DailySalesLogKey, 0, -1)
		pipe.Del(ctx, DailySalesLogKey)
		return nil
	})
	if err != nil {
		return nil, errx.WrapRedis(err)
	}
	items := lrange.Val()

	entries := make([]SaleEntry, 0, len(items))
	for _, item := range items {
		var e SaleEntry
		if err := json.Unmarshal([]byte(item), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

type MemorySalesLog struct {
	mu      sync.Mutex
	entries []SaleEntry
}

func NewMemorySalesLog() *MemorySalesLog {
	return &MemorySalesLog{}
}

func (l *MemorySalesLog) Append(_ context.Context, e SaleEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
	return nil
}

func (l *MemorySalesLog) Drain(_ context.Context) ([]SaleEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := slices.Clone(l.entries)
	l.entries = nil
	return out, nil
}
