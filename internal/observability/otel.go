package observability

import (
	"context"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"

	"github.com/coachprep/coachprep-backend/internal/pkg/logger"
)

type OtelConfig struct {
	ServiceName string
	Environment string
	Version     string
}

// traceSettings is the OTEL_* environment surface, read once at init.
type traceSettings struct {
	enabled     bool
	endpoint    string
	insecure    bool
	headers     map[string]string
	sampleRatio float64
}

var (
	otelOnce     sync.Once
	otelShutdown func(context.Context) error
)

// InitOTel wires the tracer provider when OTEL_ENABLED is set. The returned
// shutdown func is nil when tracing is disabled.
func InitOTel(ctx context.Context, log *logger.Logger, cfg OtelConfig) func(context.Context) error {
	otelOnce.Do(func() {
		ts := readTraceSettings()
		if !ts.enabled {
			return
		}
		name := strings.TrimSpace(cfg.ServiceName)
		if name == "" {
			name = "coachprep"
		}
		res, err := resource.New(ctx, resource.WithAttributes(
			semconv.ServiceNameKey.String(name),
			semconv.ServiceVersionKey.String(strings.TrimSpace(cfg.Version)),
			attribute.String("deployment.environment", strings.TrimSpace(cfg.Environment)),
		))
		if err != nil && log != nil {
			log.Warn("otel resource init failed (continuing)", "error", err)
		}

		sampler := sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ts.sampleRatio))
		opts := []sdktrace.TracerProviderOption{
			sdktrace.WithSampler(sampler),
			sdktrace.WithResource(res),
		}
		exporter, expErr := ts.newExporter(ctx, log)
		if expErr != nil && log != nil {
			log.Warn("otel exporter init failed (continuing)", "error", expErr)
		}
		if exporter != nil {
			opts = append(opts, sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)))
		}
		tp := sdktrace.NewTracerProvider(opts...)
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
		otelShutdown = tp.Shutdown
		if log != nil {
			log.Info("otel tracing initialized", "service", name, "endpoint", ts.endpoint, "sample_ratio", ts.sampleRatio)
		}
	})
	return otelShutdown
}

func readTraceSettings() traceSettings {
	return traceSettings{
		enabled:     envFlag("OTEL_ENABLED"),
		endpoint:    envString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		insecure:    envFlag("OTEL_EXPORTER_OTLP_INSECURE"),
		headers:     parseHeaderList(envString("OTEL_EXPORTER_OTLP_HEADERS")),
		sampleRatio: envRatio("OTEL_SAMPLER_RATIO", 0.1),
	}
}

// newExporter sends spans over OTLP when an endpoint is configured and falls
// back to pretty-printed stdout for local runs.
func (ts traceSettings) newExporter(ctx context.Context, log *logger.Logger) (sdktrace.SpanExporter, error) {
	if ts.endpoint == "" {
		if log != nil {
			log.Warn("otel using stdout exporter (no OTLP endpoint configured)")
		}
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	}
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(ts.endpoint)}
	if ts.insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(ts.headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(ts.headers))
	}
	return otlptracehttp.New(ctx, opts...)
}

// parseHeaderList parses the "k1=v1,k2=v2" form used by the OTLP header env
// vars, dropping malformed or empty pairs.
func parseHeaderList(raw string) map[string]string {
	if raw == "" {
		return nil
	}
	headers := map[string]string{}
	for _, pair := range strings.Split(raw, ",") {
		key, val, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		if key == "" || val == "" {
			continue
		}
		headers[key] = val
	}
	if len(headers) == 0 {
		return nil
	}
	return headers
}

func envString(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envFlag(key string) bool {
	switch strings.ToLower(envString(key)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func envRatio(key string, fallback float64) float64 {
	raw := envString(key)
	if raw == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return min(max(f, 0), 1)
}
