// Package telemetry bootstraps OpenTelemetry for the CLI.
//
// Exporters are selected with the standard OTEL_TRACES_EXPORTER and
// OTEL_METRICS_EXPORTER variables. Supported values are "console" (write to
// stderr) and "none". Telemetry is off unless requested.
package telemetry

import (
	"context"
	"errors"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Exporter names.
const (
	ExporterNone    = "none"
	ExporterConsole = "console"
)

// Options configure Setup.
type Options struct {
	ServiceName    string
	ServiceVersion string

	// Output receives console exports. Defaults to os.Stderr.
	Output io.Writer

	// Getenv reads exporter selection. Defaults to os.Getenv.
	Getenv func(string) string
}

// Setup installs global tracer and meter providers. It returns a shutdown
// function that flushes pending telemetry and should be deferred.
func Setup(ctx context.Context, opts Options) (shutdown func(context.Context) error, err error) {
	var shutdownFuncs []func(context.Context) error
	shutdown = func(ctx context.Context) error {
		var errs []error
		for _, fn := range shutdownFuncs {
			if fnErr := fn(ctx); fnErr != nil {
				errs = append(errs, fnErr)
			}
		}
		return errors.Join(errs...)
	}

	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(opts.ServiceName),
			semconv.ServiceVersion(opts.ServiceVersion),
		),
	)
	if err != nil {
		return shutdown, err
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	switch exporter := exporterName(opts.Getenv("OTEL_TRACES_EXPORTER")); exporter {
	case ExporterNone:
	case ExporterConsole:
		traceExporter, err := stdouttrace.New(stdouttrace.WithWriter(opts.Output))
		if err != nil {
			return shutdown, err
		}
		tracerProvider := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(traceExporter),
			sdktrace.WithResource(res),
		)
		shutdownFuncs = append(shutdownFuncs, tracerProvider.Shutdown)
		otel.SetTracerProvider(tracerProvider)
	default:
		return shutdown, errors.New("unsupported OTEL_TRACES_EXPORTER value: " + exporter)
	}

	switch exporter := exporterName(opts.Getenv("OTEL_METRICS_EXPORTER")); exporter {
	case ExporterNone:
	case ExporterConsole:
		metricExporter, err := stdoutmetric.New(stdoutmetric.WithWriter(opts.Output))
		if err != nil {
			return shutdown, err
		}
		meterProvider := metric.NewMeterProvider(
			metric.WithReader(metric.NewPeriodicReader(metricExporter)),
			metric.WithResource(res),
		)
		shutdownFuncs = append(shutdownFuncs, meterProvider.Shutdown)
		otel.SetMeterProvider(meterProvider)
	default:
		return shutdown, errors.New("unsupported OTEL_METRICS_EXPORTER value: " + exporter)
	}

	return shutdown, nil
}

func exporterName(v string) string {
	if v == "" {
		return ExporterNone
	}
	return v
}
