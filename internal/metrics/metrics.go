// Package metrics счетчики цикла бота для Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gearbot/internal/gear"
	"gearbot/internal/logger"
)

// Этапы цикла, на которых считаются ошибки
const (
	StageCapture   = "capture"
	StageRecognize = "recognize"
	StageDispatch  = "dispatch"
	StageJournal   = "journal"
)

type Metrics struct {
	registry      *prometheus.Registry
	cycles        prometheus.Counter
	decisions     *prometheus.CounterVec
	errors        *prometheus.CounterVec
	cycleDuration prometheus.Histogram
}

// New метрики в собственном реестре, чтобы тесты не делили глобальное состояние
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gearbot",
			Name:      "cycles_total",
			Help:      "Completed capture-recognize-decide-act cycles.",
		}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gearbot",
			Name:      "decisions_total",
			Help:      "Decisions by kind.",
		}, []string{"decision"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gearbot",
			Name:      "errors_total",
			Help:      "Cycle errors by stage.",
		}, []string{"stage"}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gearbot",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of one full cycle.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8),
		}),
	}
	m.registry.MustRegister(m.cycles, m.decisions, m.errors, m.cycleDuration)
	return m
}

func (m *Metrics) ObserveDecision(d gear.Decision) {
	m.decisions.WithLabelValues(d.String()).Inc()
}

func (m *Metrics) ObserveError(stage string) {
	m.errors.WithLabelValues(stage).Inc()
}

func (m *Metrics) ObserveCycle(d time.Duration) {
	m.cycles.Inc()
	m.cycleDuration.Observe(d.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve отдает /metrics до отмены ctx
func (m *Metrics) Serve(ctx context.Context, addr string, loggerManager *logger.LoggerManager) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	loggerManager.Info("📈 метрики на %s/metrics", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
