package middleware

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nithinv16/DukaaOnWebsite/internal/cachecontrol"
	"github.com/nithinv16/DukaaOnWebsite/internal/geolocation"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dukaaon_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// 지연시간 히스토그램
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dukaaon_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dukaaon_http_requests_in_flight",
			Help: "Requests currently being served",
		},
	)

	// CDN 캐시 정책별 응답 수 (public / no-store)
	httpResponsesByCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dukaaon_http_responses_by_cache_total",
			Help: "Responses by Cache-Control class",
		},
		[]string{"path", "cache"},
	)
)

// PrometheusMiddleware records request metrics, skipping docs, metrics and probes
func PrometheusMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if strings.HasPrefix(path, "/v1/docs") || path == "/metrics" || isProbePath(path) {
			return c.Next()
		}

		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		err := c.Next()

		route := c.Route().Path
		if route == "" || route == "/" {
			route = path
		}
		status := c.Response().StatusCode()
		if err != nil {
			// ErrorHandler has not run yet
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		httpRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		httpResponsesByCache.WithLabelValues(route, cacheClass(string(c.Response().Header.Peek(fiber.HeaderCacheControl)))).Inc()

		return err
	}
}

func cacheClass(header string) string {
	switch {
	case header == "":
		return "none"
	case strings.HasPrefix(header, "no-store"):
		return "no-store"
	default:
		return "public"
	}
}

func isProbePath(path string) bool {
	switch path {
	case "/healthz", "/v1/health", "/v1/liveness", "/v1/readiness":
		return true
	}
	return false
}

// PrometheusHandler exposes the default registry
func PrometheusHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

// 내부망 IP 대역
var internalNets = func() []*net.IPNet {
	var nets []*net.IPNet
	for _, cidr := range []string{"127.0.0.0/8", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16", "::1/128", "fc00::/7"} {
		if _, n, err := net.ParseCIDR(cidr); err == nil {
			nets = append(nets, n)
		}
	}
	return nets
}()

// InternalOnly restricts a route to cluster-internal callers (METRICS_INTERNAL_ONLY)
func InternalOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := net.ParseIP(geolocation.ClientIP(c.Get, c.IP()))
		if ip != nil {
			for _, n := range internalNets {
				if n.Contains(ip) {
					return c.Next()
				}
			}
		}

		cachecontrol.NoStore(c)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"error":   "Access denied. Internal network only.",
		})
	}
}
