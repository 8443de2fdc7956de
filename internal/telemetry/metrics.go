package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/nithinv16/DukaaOnWebsite/internal/logger"
)

var meter metric.Meter

// HTTP metrics
var (
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter
)

// Domain metrics
var (
	EnquiriesSubmitted metric.Int64Counter
	SellerQueryResults metric.Int64Histogram
)

// InitMeter initializes OpenTelemetry meter with OTLP HTTP exporter
func InitMeter(ctx context.Context, serviceName, endpoint string) (func(context.Context) error, error) {
	log := logger.GetLogger("telemetry")
	if endpoint == "" {
		log.Info("SIGNOZ_ENDPOINT not set, metrics disabled")
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(endpoint),
		otlpmetrichttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, err := newResource(ctx, serviceName)
	if err != nil {
		return nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exporter,
				sdkmetric.WithInterval(15*time.Second),
			),
		),
	)

	otel.SetMeterProvider(mp)
	meter = mp.Meter(serviceName)

	if err := initInstruments(); err != nil {
		return nil, err
	}

	log.Infof("OpenTelemetry metrics initialized with endpoint: %s", endpoint)

	return mp.Shutdown, nil
}

func initInstruments() error {
	var err error

	HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	)
	if err != nil {
		return err
	}

	HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	EnquiriesSubmitted, err = meter.Int64Counter(
		"enquiries_submitted_total",
		metric.WithDescription("Enquiries accepted and stored"),
		metric.WithUnit("{enquiry}"),
	)
	if err != nil {
		return err
	}

	SellerQueryResults, err = meter.Int64Histogram(
		"seller_query_results",
		metric.WithDescription("Sellers matched per discovery query, before pagination"),
		metric.WithUnit("{seller}"),
		metric.WithExplicitBucketBoundaries(0, 1, 5, 10, 20, 50, 100, 250, 500),
	)
	return err
}

// RecordEnquiry counts an accepted enquiry. No-op until InitMeter ran.
func RecordEnquiry(ctx context.Context, enquiryType string) {
	if EnquiriesSubmitted == nil {
		return
	}
	EnquiriesSubmitted.Add(ctx, 1, metric.WithAttributeSet(attrSet("enquiry_type", enquiryType)))
}

// RecordSellerQuery records how many sellers matched a discovery query
func RecordSellerQuery(ctx context.Context, matched int) {
	if SellerQueryResults == nil {
		return
	}
	SellerQueryResults.Record(ctx, int64(matched))
}

// Meter returns the service meter
func Meter() metric.Meter {
	return meter
}
