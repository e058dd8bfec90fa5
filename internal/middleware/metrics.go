package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts failed redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scribe_redis_errors_total",
		Help: "Total number of failed Redis commands",
	}, []string{"command"})

	// FormRejections counts form submissions rejected by validation, by form.
	FormRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scribe_form_rejections_total",
		Help: "Total number of form submissions rejected by validation",
	}, []string{"form"})

	// LoginFailures counts failed login attempts.
	LoginFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scribe_login_failures_total",
		Help: "Total number of failed login attempts",
	})

	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics returns the process-wide fiberprometheus instance. Collectors are registered once.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(serviceName)
	})
	return prom
}

// MetricsMiddleware records request count, latency and in-flight gauges per route.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
