package tracing

import (
	"hicm-service/internal/app/config"
	"hicm-service/internal/pkg/constvars"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

// NewTracerProvider installs a global provider exporting to Jaeger. When
// tracing is disabled the otel no-op provider stays in place and nil is
// returned.
func NewTracerProvider(driverConfig *config.DriverConfig, internalConfig *config.InternalConfig) *sdktrace.TracerProvider {
	if !driverConfig.Jaeger.Enabled {
		return nil
	}

	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(driverConfig.Jaeger.CollectorEndpoint)))
	if err != nil {
		log.Fatalf("Failed to create jaeger exporter: %v", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(constvars.ServiceName),
			semconv.ServiceVersionKey.String(internalConfig.App.Version),
		)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	log.Println("Successfully initialized jaeger tracing")
	return tp
}
