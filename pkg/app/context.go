package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-fileprobe/internal/logger"
	"github.com/deploymenttheory/go-fileprobe/pkg/engine"
)

// Context holds application-wide configuration and state
type Context struct {
	context.Context

	// Engine performs every file operation
	Engine *engine.Engine

	// Output preferences
	OutputFormat string
	Verbose      bool
	Quiet        bool
	Out          io.Writer

	// RunID identifies one invocation in logs and reports
	RunID  string
	Logger *slog.Logger

	// Common timeouts
	DefaultTimeout time.Duration

	// Progress reporting
	ProgressCallback func(message string, percent int)
}

// NewContext creates a new application context around eng with a fresh run id
func NewContext(eng *engine.Engine, log *slog.Logger) *Context {
	if log == nil {
		log = logger.Nop()
	}
	runID := uuid.NewString()
	return &Context{
		Context:        context.Background(),
		Engine:         eng,
		OutputFormat:   "table",
		Out:            os.Stdout,
		RunID:          runID,
		Logger:         log.With("run_id", runID),
		DefaultTimeout: 30 * time.Second,
	}
}

// WithTimeout creates a context with timeout
func (c *Context) WithTimeout(timeout time.Duration) (*Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(c.Context, timeout)
	newCtx := *c
	newCtx.Context = ctx
	return &newCtx, cancel
}

// WithCancel creates a cancellable context
func (c *Context) WithCancel() (*Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(c.Context)
	newCtx := *c
	newCtx.Context = ctx
	return &newCtx, cancel
}

// SetProgress sets the progress callback function
func (c *Context) SetProgress(callback func(string, int)) {
	c.ProgressCallback = callback
}

// Progress reports progress if callback is set
func (c *Context) Progress(message string, percent int) {
	if c.ProgressCallback != nil {
		c.ProgressCallback(message, percent)
	}
}

// Log records a message. Verbose runs log at info level, everything else at debug.
func (c *Context) Log(message string, args ...any) {
	if c.Verbose && !c.Quiet {
		c.Logger.Info(message, args...)
		return
	}
	c.Logger.Debug(message, args...)
}

// Error logs a failure unless quiet
func (c *Context) Error(message string, args ...any) {
	if !c.Quiet {
		c.Logger.Error(message, args...)
	}
}

// Writer returns where reports are written
func (c *Context) Writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}
