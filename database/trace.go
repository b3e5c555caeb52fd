package database

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Konsultn-Engineering/antisqli/cache"
)

const tracerName = "github.com/Konsultn-Engineering/antisqli/database"

type options struct {
	tracerProvider trace.TracerProvider
	cache          *cache.StatementCache
}

// Option configures a Database.
type Option func(*options)

// WithTracerProvider sets where spans go. The default is the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// WithStatementCache reuses prepared statements. Only SqlDatabase prepares
// statements; pgx and gorm manage their own.
func WithStatementCache(c *cache.StatementCache) Option {
	return func(o *options) { o.cache = c }
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.tracerProvider == nil {
		o.tracerProvider = otel.GetTracerProvider()
	}
	return o
}

type instrument struct {
	tracer trace.Tracer
	system string
}

func newInstrument(tp trace.TracerProvider, system string) instrument {
	return instrument{tracer: tp.Tracer(tracerName), system: system}
}

// start opens a client span. The statement text holds only parameter
// references, so it is safe to record.
func (in instrument) start(ctx context.Context, op string, stmt Statement) (context.Context, trace.Span) {
	return in.tracer.Start(ctx, "db."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", in.system),
			attribute.String("db.statement", stmt.SQL()),
			attribute.Int("db.parameter_count", len(stmt.Args())),
		),
	)
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
