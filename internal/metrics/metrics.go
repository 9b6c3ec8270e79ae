// Package metrics exposes the sync engine's outcomes as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	resultOK    = "ok"
	resultError = "error"
)

// Recorder holds the console's collectors on a private registry. It
// satisfies state.Recorder.
type Recorder struct {
	registry *prometheus.Registry

	RefreshTotal    *prometheus.CounterVec
	RefreshDuration prometheus.Histogram
	ActionTotal     *prometheus.CounterVec
	Orders          prometheus.Gauge
}

// New builds a Recorder with every collector registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		RefreshTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawndesk_refresh_total",
				Help: "Total number of order list refreshes by result",
			},
			[]string{"result"},
		),
		RefreshDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pawndesk_refresh_duration_seconds",
				Help:    "Duration of order list requests",
				Buckets: prometheus.DefBuckets,
			},
		),
		ActionTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawndesk_action_total",
				Help: "Total number of operator actions by action and result",
			},
			[]string{"action", "result"},
		),
		Orders: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "pawndesk_orders",
				Help: "Number of orders in the last applied list",
			},
		),
	}
	r.registry.MustRegister(r.RefreshTotal, r.RefreshDuration, r.ActionTotal, r.Orders)
	return r
}

// Registry returns the registry the collectors live on.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) ObserveRefresh(elapsed time.Duration, err error) {
	r.RefreshTotal.WithLabelValues(result(err)).Inc()
	r.RefreshDuration.Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveAction(action string, err error) {
	r.ActionTotal.WithLabelValues(action, result(err)).Inc()
}

func (r *Recorder) SetOrderCount(n int) {
	r.Orders.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled. The listener is
// bound before Serve returns, so address errors surface immediately; the
// returned channel reports the server's exit error, if any.
func (r *Recorder) Serve(ctx context.Context, addr string) (net.Addr, <-chan error, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() {
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errc <- err
		close(errc)
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	return ln.Addr(), errc, nil
}

func result(err error) string {
	if err != nil {
		return resultError
	}
	return resultOK
}
