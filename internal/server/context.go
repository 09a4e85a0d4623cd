package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/teemow/yotei/internal/calendar"
	"github.com/teemow/yotei/internal/config"
	"github.com/teemow/yotei/internal/instrumentation"
)

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx           context.Context
	cancel        context.CancelFunc
	aggregator    *calendar.Aggregator
	calendarsPath string
	metrics       *instrumentation.Metrics
	logger        *slog.Logger
	clock         func() time.Time
	mu            sync.RWMutex
	shutdown      bool
}

// Option configures a ServerContext.
type Option func(*ServerContext)

// WithMetrics sets the metrics recorder used by the tool handlers.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(sc *ServerContext) { sc.metrics = m }
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(sc *ServerContext) { sc.logger = l }
}

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(sc *ServerContext) { sc.clock = clock }
}

// NewServerContext creates a new server context. The calendars file at
// calendarsPath is read on every call so that edits apply without a restart.
func NewServerContext(ctx context.Context, aggregator *calendar.Aggregator, calendarsPath string, opts ...Option) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:           shutdownCtx,
		cancel:        cancel,
		aggregator:    aggregator,
		calendarsPath: calendarsPath,
		logger:        slog.Default(),
		clock:         time.Now,
	}
	for _, opt := range opts {
		opt(sc)
	}
	return sc
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Aggregator returns the event aggregator.
func (sc *ServerContext) Aggregator() *calendar.Aggregator {
	return sc.aggregator
}

// Calendars loads the current calendars configuration.
func (sc *ServerContext) Calendars() (config.Calendars, error) {
	if sc.IsShutdown() {
		return nil, fmt.Errorf("server is shutting down")
	}
	return config.Load(sc.calendarsPath)
}

// Metrics returns the metrics recorder. It may be nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// Logger returns the logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Now returns the current time from the server clock.
func (sc *ServerContext) Now() time.Time {
	return sc.clock()
}

// Shutdown cancels the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}
	sc.shutdown = true
	sc.cancel()
	return nil
}

// IsShutdown reports whether Shutdown was called.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}
