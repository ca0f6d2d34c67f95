// Package observability provides Prometheus metrics for the application.
package observability

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BlockedContentTotal counts entities flagged by the profanity classifier on save.
	BlockedContentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_blocked_content_total",
		Help: "Total number of posts/comments flagged as blocked on save",
	}, []string{"entity"})

	// AutoReplyJobsTotal counts executed auto-reply jobs by outcome.
	AutoReplyJobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_auto_reply_jobs_total",
		Help: "Total number of auto-reply jobs executed, by outcome",
	}, []string{"outcome"})

	// AutoRepliesCreatedTotal counts reply comments created by auto-reply jobs.
	AutoRepliesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quill_auto_replies_created_total",
		Help: "Total number of reply comments created by auto-reply jobs",
	})
)

var (
	promOnce sync.Once
	promHTTP *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the Prometheus HTTP middleware for the given service
// name. The middleware registers collectors against the default registry, so
// it is created once per process and shared.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promHTTP = fiberprometheus.New(serviceName)
	})
	return promHTTP
}

// MetricsMiddleware returns the Fiber handler recording per-request metrics.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
