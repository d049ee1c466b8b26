package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/vaheed/coursenova/internal/logging"
	"github.com/vaheed/coursenova/pkg/types"
	"go.uber.org/zap"
)

const (
	keyPrefix    = "coursenova:"
	streamEvents = "events"
)

// RedisBuffer queues course events in a Redis list and pushes them in batches
// to the sink's /telemetry/events endpoint. Without a Redis address it is a no-op;
// without a sink the list is only filled, for other consumers to drain.
type RedisBuffer struct {
	rdb  *redis.Client
	http *http.Client
	sink string
	max  int
	tick time.Duration
	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
	noop bool
}

func NewRedisBuffer(addr, sinkURL string) *RedisBuffer {
	b := &RedisBuffer{
		http: &http.Client{Timeout: 5 * time.Second},
		sink: strings.TrimRight(sinkURL, "/"),
		max:  100,
		tick: 10 * time.Second,
		stop: make(chan struct{}),
	}
	if addr == "" {
		b.noop = true
		return b
	}
	b.rdb = redis.NewClient(&redis.Options{Addr: addr})
	return b
}

// Publish implements Publisher.
func (b *RedisBuffer) Publish(ctx context.Context, e types.Event) {
	b.Enqueue(ctx, streamEvents, e)
}

func (b *RedisBuffer) Enqueue(ctx context.Context, kind string, payload any) {
	if b.noop {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		logging.L.Warn("telemetry_marshal_failed", zap.String("kind", kind), zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := b.rdb.RPush(ctx, keyPrefix+kind, raw).Err(); err != nil {
		logging.L.Warn("telemetry_enqueue_failed", zap.String("kind", kind), zap.Error(err))
	}
}

// Len reports the number of queued items for kind.
func (b *RedisBuffer) Len(ctx context.Context, kind string) (int64, error) {
	if b.noop {
		return 0, nil
	}
	return b.rdb.LLen(ctx, keyPrefix+kind).Result()
}

func (b *RedisBuffer) Run() {
	if b.noop || b.sink == "" {
		return
	}
	b.wg.Add(1)
	go b.loop(streamEvents)
}

// Stop ends the flush loop and closes the Redis client. Safe to call twice.
func (b *RedisBuffer) Stop() {
	b.once.Do(func() {
		close(b.stop)
		b.wg.Wait()
		if b.rdb != nil {
			_ = b.rdb.Close()
		}
	})
}

func (b *RedisBuffer) loop(kind string) {
	defer b.wg.Done()
	t := time.NewTicker(b.tick)
	defer t.Stop()
	for {
		select {
		case <-b.stop:
			return
		case <-t.C:
			b.flush(kind)
		}
	}
}

func (b *RedisBuffer) flush(kind string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	key := keyPrefix + kind
	for i := 0; i < b.max; i++ {
		raw, err := b.rdb.LPop(ctx, key).Bytes()
		if err != nil {
			if err != redis.Nil {
				logging.L.Warn("telemetry_pop_failed", zap.String("kind", kind), zap.Error(err))
			}
			return
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.sink+"/telemetry/"+kind, bytes.NewReader(raw))
		if err != nil {
			logging.L.Warn("telemetry_request_failed", zap.String("kind", kind), zap.Error(err))
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := b.http.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode >= http.StatusMultipleChoices {
				err = fmt.Errorf("sink answered %d", resp.StatusCode)
			}
		}
		if err != nil {
			logging.L.Warn("telemetry_push_failed", zap.String("kind", kind), zap.Error(err))
			// put it back for the next tick
			_ = b.rdb.LPush(ctx, key, raw).Err()
			return
		}
	}
}
