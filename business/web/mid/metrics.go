package mid

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request counters for the API.
var (
	requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledger",
		Name:      "http_requests_total",
		Help:      "Number of API requests handled, by method and status code.",
	}, []string{"method", "code"})

	failures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ledger",
		Name:      "http_errors_total",
		Help:      "Number of API requests that ended in an error.",
	})

	panics = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ledger",
		Name:      "http_panics_total",
		Help:      "Number of API requests that panicked.",
	})
)

// Metrics updates the request counters.
func Metrics() web.Middleware {

	m := func(handler web.Handler) web.Handler {

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			err := handler(ctx, w, r)

			code := 0
			if v, verr := web.GetValues(ctx); verr == nil {
				code = v.StatusCode
			}
			requests.WithLabelValues(r.Method, strconv.Itoa(code)).Inc()

			if err != nil {
				failures.Inc()
			}

			return err
		}

		return h
	}

	return m
}
