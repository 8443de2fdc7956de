package telemetry

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

const spanLocalsKey = "otel-span"

// Config holds the configuration for the tracing middleware
type Config struct {
	ServiceName string
	Skip        func(*fiber.Ctx) bool
}

// DefaultConfig skips the probe endpoints
func DefaultConfig() Config {
	return Config{
		ServiceName: ServiceName,
		Skip: func(c *fiber.Ctx) bool {
			switch c.Path() {
			case "/healthz", "/v1/health", "/v1/liveness", "/v1/readiness", "/metrics":
				return true
			}
			return false
		},
	}
}

func attrSet(kv ...string) attribute.Set {
	attrs := make([]attribute.KeyValue, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		attrs = append(attrs, attribute.String(kv[i], kv[i+1]))
	}
	return attribute.NewSet(attrs...)
}

// New returns a tracing and metrics middleware for Fiber
func New(config ...Config) fiber.Handler {
	cfg := DefaultConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	return func(c *fiber.Ctx) error {
		if cfg.Skip != nil && cfg.Skip(c) {
			return c.Next()
		}

		start := time.Now()
		method := c.Method()
		path := c.Path()

		active := attrSet("method", method, "path", path)
		if HTTPActiveRequests != nil {
			HTTPActiveRequests.Add(c.Context(), 1, metric.WithAttributeSet(active))
		}

		tr := otel.GetTracerProvider().Tracer(cfg.ServiceName)
		ctx := otel.GetTextMapPropagator().Extract(c.Context(), propagation.HeaderCarrier(c.GetReqHeaders()))

		ctx, span := tr.Start(ctx, method+" "+path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPMethodKey.String(method),
				semconv.HTTPURLKey.String(c.OriginalURL()),
				semconv.HTTPTargetKey.String(path),
				semconv.NetHostNameKey.String(c.Hostname()),
				semconv.HTTPUserAgentKey.String(string(c.Request().Header.UserAgent())),
			),
		)
		defer span.End()

		c.Locals(spanLocalsKey, span)
		c.SetUserContext(ctx)

		err := c.Next()

		// 라우트 패턴으로 라벨 고정 (/v1/sellers/:id)
		if route := c.Route(); route != nil && route.Path != "" {
			path = route.Path
		}

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
			span.RecordError(err)
			span.SetAttributes(attribute.Bool("error", true))
		}
		span.SetAttributes(semconv.HTTPStatusCodeKey.Int(status))

		if HTTPActiveRequests != nil {
			HTTPActiveRequests.Add(c.Context(), -1, metric.WithAttributeSet(active))
		}

		done := attrSet("method", method, "path", path, "status", strconv.Itoa(status))
		if HTTPRequestsTotal != nil {
			HTTPRequestsTotal.Add(c.Context(), 1, metric.WithAttributeSet(done))
		}
		if HTTPRequestDuration != nil {
			HTTPRequestDuration.Record(c.Context(), time.Since(start).Seconds(), metric.WithAttributeSet(done))
		}

		return err
	}
}

// SpanFromContext gets the current span from fiber context
func SpanFromContext(c *fiber.Ctx) trace.Span {
	span, ok := c.Locals(spanLocalsKey).(trace.Span)
	if !ok {
		return trace.SpanFromContext(c.UserContext())
	}
	return span
}
