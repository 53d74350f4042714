package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/negroni"

	"github.com/usestring/jsontypegen/internal/cache"
	"github.com/usestring/jsontypegen/pkg/render"
)

type metrics struct {
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	generations *prometheus.CounterVec
}

func newMetrics(reg *prometheus.Registry, c *cache.ResultCache) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "typegen",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "typegen",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "typegen",
			Name:      "generations_total",
			Help:      "Generations by target and outcome.",
		}, []string{"target", "outcome"}),
	}
	reg.MustRegister(
		m.requests,
		m.duration,
		m.generations,
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "typegen",
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Generation cache hits.",
		}, func() float64 {
			hits, _ := c.Stats()
			return float64(hits)
		}),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "typegen",
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Generation cache misses.",
		}, func() float64 {
			_, misses := c.Stats()
			return float64(misses)
		}),
	)
	return m
}

// middleware records request counts and latency per route template.
func (m *metrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		ww, ok := w.(negroni.ResponseWriter)
		if !ok {
			ww = negroni.NewResponseWriter(w)
		}
		start := time.Now()
		next.ServeHTTP(ww, r)

		m.duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).Inc()
	})
}

// generation counts one generation. Unknown targets share the "invalid"
// label so request input cannot grow the series set.
func (m *metrics) generation(target, outcome string) {
	if _, ok := render.Lookup(target); !ok {
		target = "invalid"
	}
	m.generations.WithLabelValues(target, outcome).Inc()
}
