package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	readyKey   = "queue:ready"
	delayedKey = "queue:delayed"

	popTimeout   = 2 * time.Second
	promoteEvery = time.Second
	promoteBatch = 100
)

// Redis is a redis-backed Queue. Ready jobs live in a list consumed with
// BRPOP; delayed jobs (retries) live in a sorted set scored by their
// next-eligible unix time and are promoted to the ready list by a ticker
// goroutine.
type Redis struct {
	rdb      *redis.Client
	log      *slog.Logger
	workers  int
	handlers map[string]registration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ Queue = (*Redis)(nil)

// NewRedis creates a redis-backed queue with the given worker count.
func NewRedis(rdb *redis.Client, workers int, log *slog.Logger) *Redis {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Redis{
		rdb:      rdb,
		log:      log,
		workers:  workers,
		handlers: make(map[string]registration),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Register binds a handler to a job name. Must be called before Start.
func (q *Redis) Register(name string, opts HandlerOptions, fn HandlerFunc) {
	q.handlers[name] = registration{opts: opts, fn: fn}
}

// Enqueue schedules a job for immediate execution.
func (q *Redis) Enqueue(ctx context.Context, name string, payload interface{}) error {
	job, err := newJob(name, payload)
	if err != nil {
		return err
	}
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, readyKey, data).Err()
}

// Start launches the promoter and the worker pool.
func (q *Redis) Start() error {
	q.wg.Add(1)
	go q.promoter()

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}

	q.log.Info("queue started", "driver", "redis", "workers", q.workers)
	return nil
}

// Stop cancels all goroutines and waits for in-flight jobs to finish.
func (q *Redis) Stop() {
	q.cancel()
	q.wg.Wait()
	q.log.Info("queue stopped")
}

// promoter moves due delayed jobs into the ready list.
func (q *Redis) promoter() {
	defer q.wg.Done()

	ticker := time.NewTicker(promoteEvery)
	defer ticker.Stop()

	for {
		select {
		case <-q.ctx.Done():
			return
		case <-ticker.C:
			q.promoteDue()
		}
	}
}

func (q *Redis) promoteDue() {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	members, err := q.rdb.ZRangeByScore(q.ctx, delayedKey, &redis.ZRangeBy{
		Min: "-inf", Max: now, Count: promoteBatch,
	}).Result()
	if err != nil {
		if q.ctx.Err() == nil {
			q.log.Error("promote delayed jobs", "error", err)
		}
		return
	}

	for _, member := range members {
		// ZRem guards against a second promoter instance picking up the
		// same member; only the remover gets to push.
		removed, err := q.rdb.ZRem(q.ctx, delayedKey, member).Result()
		if err != nil || removed == 0 {
			continue
		}
		if err := q.rdb.LPush(q.ctx, readyKey, member).Err(); err != nil {
			q.log.Error("push promoted job", "error", err)
		}
	}
}

func (q *Redis) worker(id int) {
	defer q.wg.Done()

	for {
		if q.ctx.Err() != nil {
			return
		}

		res, err := q.rdb.BRPop(q.ctx, popTimeout, readyKey).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			if q.ctx.Err() != nil {
				return
			}
			q.log.Error("pop job", "worker", id, "error", err)
			time.Sleep(time.Second)
			continue
		}

		// BRPop returns [key, value].
		q.process([]byte(res[1]))
	}
}

func (q *Redis) process(data []byte) {
	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		q.log.Error("decode job", "error", err)
		return
	}

	dispatch(q.ctx, q.log, q.handlers, &job, func(job *Job, delay time.Duration) {
		payload, err := json.Marshal(job)
		if err != nil {
			q.log.Error("encode retried job", "job_id", job.ID, "error", err)
			return
		}
		score := float64(time.Now().Add(delay).Unix())
		if err := q.rdb.ZAdd(q.ctx, delayedKey, redis.Z{Score: score, Member: payload}).Err(); err != nil {
			q.log.Error("schedule retry", "job_id", job.ID, "error", err)
		}
	})
}
