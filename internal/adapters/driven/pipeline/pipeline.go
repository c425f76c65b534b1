package pipeline

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/custodia-labs/octoscope/internal/core/ports/driven"
)

const instrumentationName = "github.com/custodia-labs/octoscope/internal/adapters/driven/pipeline"

// Stage names, in request order.
const (
	StageAuthorization = "authorization"
	StageConditional   = "conditional-cache"
	StageCacheControl  = "cache-control"
	StageAuthFailure   = "auth-failure"
	StageTransport     = "transport"
)

// Header names used by the pipeline.
const (
	HeaderFromCache     = "X-From-Cache"
	HeaderIfNoneMatch   = "If-None-Match"
	HeaderETag          = "ETag"
	HeaderCacheControl  = "Cache-Control"
	HeaderAuthorization = "Authorization"
)

// DefaultMaxAge is the freshness lifetime stamped on cacheable responses.
const DefaultMaxAge = 60 * time.Second

// TokenSource supplies and invalidates the session token.
type TokenSource interface {
	// Get returns the current token.
	Get() (string, bool)

	// Invalidate clears the token if it is still used.
	Invalidate(ctx context.Context, used string) bool
}

// Stage is a named RoundTripper middleware.
type Stage struct {
	Name string
	Wrap func(next http.RoundTripper) http.RoundTripper
}

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip calls f.
func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Pipeline is the composed RoundTripper.
type Pipeline struct {
	tokens    TokenSource
	etags     driven.ETagStore
	responses driven.ResponseStore
	base      http.RoundTripper
	limiter   *RateLimiter
	maxAge    time.Duration
	now       func() time.Time
	log       *slog.Logger

	stages []Stage
	rt     http.RoundTripper

	tracer        trace.Tracer
	requests      metric.Int64Counter
	cacheResults  metric.Int64Counter
	invalidations metric.Int64Counter
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTokenSource sets the token source. Without one requests are anonymous.
func WithTokenSource(t TokenSource) Option {
	return func(p *Pipeline) {
		p.tokens = t
	}
}

// WithETagStore sets the ETag store used by the conditional-cache stage.
func WithETagStore(s driven.ETagStore) Option {
	return func(p *Pipeline) {
		p.etags = s
	}
}

// WithResponseStore sets the body store used by the conditional-cache stage.
func WithResponseStore(s driven.ResponseStore) Option {
	return func(p *Pipeline) {
		p.responses = s
	}
}

// WithBaseTransport sets the RoundTripper that performs network I/O.
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(p *Pipeline) {
		p.base = rt
	}
}

// WithRateLimiter sets the transport stage's limiter.
func WithRateLimiter(l *RateLimiter) Option {
	return func(p *Pipeline) {
		p.limiter = l
	}
}

// WithMaxAge sets the freshness lifetime stamped on cacheable responses.
func WithMaxAge(d time.Duration) Option {
	return func(p *Pipeline) {
		p.maxAge = d
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		p.log = l
	}
}

// New builds the pipeline. Without stores the conditional-cache stage
// forwards requests unchanged.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		base:   http.DefaultTransport,
		maxAge: DefaultMaxAge,
		now:    time.Now,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.limiter == nil {
		p.limiter = NewRateLimiter(DefaultRate)
	}
	p.initTelemetry()

	p.stages = []Stage{
		{Name: StageAuthorization, Wrap: p.authorization},
		{Name: StageConditional, Wrap: p.conditional},
		{Name: StageCacheControl, Wrap: p.cacheControl},
		{Name: StageAuthFailure, Wrap: p.authFailure},
		{Name: StageTransport, Wrap: p.transport},
	}

	var rt http.RoundTripper = p.base
	for i := len(p.stages) - 1; i >= 0; i-- {
		rt = p.stages[i].Wrap(rt)
	}
	p.rt = rt
	return p
}

func (p *Pipeline) initTelemetry() {
	p.tracer = otel.Tracer(instrumentationName)
	meter := otel.Meter(instrumentationName)

	var err error
	p.requests, err = meter.Int64Counter("octoscope.http.requests",
		metric.WithDescription("GitHub API requests by method and status"))
	if err != nil {
		p.log.Warn("failed to create counter", slog.String("error", err.Error()))
	}
	p.cacheResults, err = meter.Int64Counter("octoscope.http.cache",
		metric.WithDescription("Conditional cache outcomes (fresh, revalidated, miss)"))
	if err != nil {
		p.log.Warn("failed to create counter", slog.String("error", err.Error()))
	}
	p.invalidations, err = meter.Int64Counter("octoscope.auth.invalidations",
		metric.WithDescription("Tokens invalidated after 401/403 responses"))
	if err != nil {
		p.log.Warn("failed to create counter", slog.String("error", err.Error()))
	}
}

// Stages returns the stage names in request order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

// Client returns an http.Client that sends requests through the pipeline.
func (p *Pipeline) Client() *http.Client {
	return &http.Client{Transport: p}
}

// Limiter returns the transport stage's rate limiter.
func (p *Pipeline) Limiter() *RateLimiter {
	return p.limiter
}

// RoundTrip implements http.RoundTripper.
func (p *Pipeline) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, span := p.tracer.Start(req.Context(), "github.http "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.URL.Path),
		),
	)
	defer span.End()

	resp, err := p.rt.RoundTrip(req.WithContext(ctx))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.log.DebugContext(ctx, "request failed",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.String("error", err.Error()))
		return nil, err
	}

	fromCache := resp.Header.Get(HeaderFromCache) == "true"
	span.SetAttributes(
		attribute.Int("http.response.status_code", resp.StatusCode),
		attribute.Bool("octoscope.from_cache", fromCache),
	)
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, resp.Status)
	}
	if p.requests != nil {
		p.requests.Add(ctx, 1, metric.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.Int("http.response.status_code", resp.StatusCode),
		))
	}
	p.log.DebugContext(ctx, "request complete",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("status", resp.StatusCode),
		slog.Bool("from_cache", fromCache))
	return resp, nil
}

// cacheable reports whether req belongs to the conditional-GET class.
func cacheable(req *http.Request) bool {
	return req.Method == http.MethodGet && strings.HasSuffix(req.URL.Path, "/search/repositories")
}

// cacheKey is the store key for req.
func cacheKey(req *http.Request) string {
	return req.URL.String()
}
