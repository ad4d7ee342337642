package tracer

import (
	"context"
	"log"
	"os"
	"time"

	"ai-journaling-be/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

const metricExportInterval = 30 * time.Second

// InitMeter installs an OTLP HTTP exporter as the global meter provider.
// Instruments created earlier through otel.Meter are rebound to it.
func InitMeter(cfg config.OtelConfig) func(context.Context) error {
	noop := func(context.Context) error { return nil }
	if !cfg.Enabled {
		return noop
	}

	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:4318"
	}

	exporter, err := otlpmetrichttp.New(context.Background(),
		otlpmetrichttp.WithEndpoint(endpoint),
		otlpmetrichttp.WithInsecure(),
		otlpmetrichttp.WithTemporalitySelector(func(sdkmetric.InstrumentKind) metricdata.Temporality {
			return metricdata.CumulativeTemporality
		}),
	)
	if err != nil {
		log.Printf("[WARN] Failed to create OTLP metric exporter: %v (metrics disabled)", err)
		return noop
	}

	mp := NewMeterProvider(cfg.ServiceName, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(metricExportInterval)))
	otel.SetMeterProvider(mp)
	log.Printf("[INFO] OpenTelemetry meter initialized (endpoint: %s, service: %s)", endpoint, cfg.ServiceName)

	return mp.Shutdown
}

// NewMeterProvider builds a provider tagged with the service name that
// collects through reader.
func NewMeterProvider(serviceName string, reader sdkmetric.Reader) *sdkmetric.MeterProvider {
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
		)),
		sdkmetric.WithReader(reader),
	)
}
