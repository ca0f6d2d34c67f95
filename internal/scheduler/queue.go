// Package scheduler implements the delayed job queue behind the auto-reply
// feature. Jobs are stored in a Redis sorted set scored by their run-at time
// and claimed by a polling worker, giving at-least-once execution across
// process restarts. Without Redis the queue degrades to in-process timers.
package scheduler

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"quill/internal/middleware"
	"quill/internal/observability"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const queueKey = "autoreply:jobs"

// Job identifies one deferred auto-reply run.
type Job struct {
	PostID uint   `json:"post_id"`
	UserID uint   `json:"user_id"`
	Nonce  string `json:"nonce,omitempty"`
}

// Handler executes a due job.
type Handler func(ctx context.Context, job Job) error

// Queue schedules and executes deferred jobs.
type Queue struct {
	rdb      *redis.Client
	interval time.Duration

	mu      sync.Mutex
	handler Handler

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewQueue creates a Queue polling at the given interval. rdb may be nil.
func NewQueue(rdb *redis.Client, interval time.Duration) *Queue {
	return &Queue{
		rdb:      rdb,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Bind sets the handler invoked for due jobs. Must be called before Start
// and before any in-process fallback timer can fire.
func (q *Queue) Bind(h Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handler = h
}

// Schedule enqueues a job to run at runAt. With Redis the job survives
// restarts; without it a process-local timer is armed instead.
func (q *Queue) Schedule(ctx context.Context, postID, userID uint, runAt time.Time) error {
	job := Job{PostID: postID, UserID: userID, Nonce: strings.ReplaceAll(uuid.NewString(), "-", "")}

	if q.rdb == nil {
		delay := time.Until(runAt)
		if delay < 0 {
			delay = 0
		}
		time.AfterFunc(delay, func() {
			q.run(context.Background(), job)
		})
		return nil
	}

	member, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.rdb.ZAdd(ctx, queueKey, redis.Z{
		Score:  float64(runAt.Unix()),
		Member: string(member),
	}).Err()
}

// Start launches the polling worker goroutine. No-op without Redis, where
// Schedule arms timers directly.
func (q *Queue) Start(ctx context.Context) {
	if q.rdb == nil {
		close(q.done)
		return
	}

	go func() {
		defer close(q.done)
		ticker := time.NewTicker(q.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-q.stop:
				return
			case <-ticker.C:
				q.poll(ctx)
			}
		}
	}()
}

// Stop terminates the polling worker and waits for it to exit.
func (q *Queue) Stop() {
	q.stopOnce.Do(func() { close(q.stop) })
	<-q.done
}

// poll claims every due job and executes it. Members are removed only after
// execution, so a crash mid-run re-delivers the job (at-least-once).
func (q *Queue) poll(ctx context.Context) {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	members, err := q.rdb.ZRangeByScore(ctx, queueKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: now,
	}).Result()
	if err != nil {
		middleware.Logger.Error("auto-reply queue poll failed", slog.String("error", err.Error()))
		return
	}

	for _, member := range members {
		var job Job
		if err := json.Unmarshal([]byte(member), &job); err != nil {
			middleware.Logger.Error("dropping malformed auto-reply job", slog.String("member", member))
			q.rdb.ZRem(ctx, queueKey, member)
			continue
		}
		q.run(ctx, job)
		q.rdb.ZRem(ctx, queueKey, member)
	}
}

// run executes a single job. Failures (e.g. post or user deleted before the
// job fired) are fatal for the job instance and only logged.
func (q *Queue) run(ctx context.Context, job Job) {
	q.mu.Lock()
	handler := q.handler
	q.mu.Unlock()

	if handler == nil {
		middleware.Logger.Error("auto-reply job fired with no handler bound",
			slog.Uint64("post_id", uint64(job.PostID)))
		observability.AutoReplyJobsTotal.WithLabelValues("error").Inc()
		return
	}

	if err := handler(ctx, job); err != nil {
		middleware.Logger.Error("auto-reply job failed",
			slog.Uint64("post_id", uint64(job.PostID)),
			slog.Uint64("user_id", uint64(job.UserID)),
			slog.String("error", err.Error()))
		observability.AutoReplyJobsTotal.WithLabelValues("error").Inc()
		return
	}

	observability.AutoReplyJobsTotal.WithLabelValues("ok").Inc()
}
