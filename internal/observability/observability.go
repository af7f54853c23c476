package observability

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/processors/minsev"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// OTLP transport protocols for log export.
const (
	ProtocolGRPC   = "grpc"
	ProtocolHTTP   = "http"
	ProtocolStdout = "stdout" // dumps OTLP records to stdout, for debugging
)

// Config describes the logging setup.
type Config struct {
	// Level below which records are discarded.
	Level slog.Level
	// Format of the console handler: "text" or "json".
	Format string
	// OTLP export settings; export is disabled while Endpoint is empty
	// (unless Protocol is "stdout").
	OTLP OTLPConfig
}

// OTLPConfig describes optional OTLP log export.
type OTLPConfig struct {
	Endpoint string
	Protocol string
	Insecure bool
}

// Instrument installs the process-wide slog default: a leveled text or JSON
// handler on stderr, optionally teed into an OTLP log exporter through the
// otelslog bridge. The returned shutdown function flushes the exporter.
func Instrument(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	var console slog.Handler
	handlerOpts := &slog.HandlerOptions{Level: cfg.Level}
	switch cfg.Format {
	case "json":
		console = slog.NewJSONHandler(os.Stderr, handlerOpts)
	case "", "text":
		console = slog.NewTextHandler(os.Stderr, handlerOpts)
	default:
		return nil, fmt.Errorf("unsupported log format: %s", cfg.Format)
	}

	shutdown := func(context.Context) error { return nil }
	handler := console

	if cfg.OTLP.Endpoint != "" || cfg.OTLP.Protocol == ProtocolStdout {
		exporter, err := newExporter(ctx, cfg.OTLP)
		if err != nil {
			return nil, fmt.Errorf("creating log exporter: %w", err)
		}

		// Severity filtering happens in the processor so the exporter only
		// sees records the configured level admits.
		provider := sdklog.NewLoggerProvider(
			sdklog.WithProcessor(minsev.NewLogProcessor(
				sdklog.NewBatchProcessor(exporter),
				minSeverity(cfg.Level),
			)),
		)
		shutdown = provider.Shutdown

		handler = tee{console, otelslog.NewHandler("seedrine", otelslog.WithLoggerProvider(provider))}
	}

	slog.SetDefault(slog.New(handler))
	return shutdown, nil
}

func newExporter(ctx context.Context, cfg OTLPConfig) (sdklog.Exporter, error) {
	switch cfg.Protocol {
	case ProtocolStdout:
		return stdoutlog.New()
	case ProtocolGRPC:
		opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlploggrpc.WithInsecure())
		}
		return otlploggrpc.New(ctx, opts...)
	case "", ProtocolHTTP:
		opts := []otlploghttp.Option{otlploghttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlploghttp.WithInsecure())
		}
		return otlploghttp.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol: %s", cfg.Protocol)
	}
}

func minSeverity(level slog.Level) minsev.Severity {
	switch {
	case level <= slog.LevelDebug:
		return minsev.SeverityDebug
	case level <= slog.LevelInfo:
		return minsev.SeverityInfo
	case level <= slog.LevelWarn:
		return minsev.SeverityWarn
	default:
		return minsev.SeverityError
	}
}

// tee fans records out to every wrapped handler.
type tee []slog.Handler

// Compile-time check to ensure tee implements slog.Handler
var _ slog.Handler = (tee)(nil)

func (t tee) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t tee) Handle(ctx context.Context, record slog.Record) error {
	for _, h := range t {
		if h.Enabled(ctx, record.Level) {
			if err := h.Handle(ctx, record.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t tee) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make(tee, len(t))
	for i, h := range t {
		next[i] = h.WithAttrs(attrs)
	}
	return next
}

func (t tee) WithGroup(name string) slog.Handler {
	next := make(tee, len(t))
	for i, h := range t {
		next[i] = h.WithGroup(name)
	}
	return next
}
