package ggraph

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/ggraph/backend/wgpu"
	"github.com/gogpu/ggraph/captor"
	"github.com/gogpu/ggraph/program"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for ggraph and its sub-packages
// (program, captor, backend/wgpu). By default nothing is logged.
//
// SetLogger is safe for concurrent use. Pass nil to restore silence.
//
// Log levels used by ggraph:
//   - [slog.LevelDebug]: buffer reallocations, pipeline creation, index rebuilds
//   - [slog.LevelInfo]: renderer and device lifecycle
//   - [slog.LevelWarn]: failed frames, dangling edges, resource release errors
//
// Example:
//
//	ggraph.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	program.SetLogger(l)
	captor.SetLogger(l)
	wgpu.SetLogger(l)
}

// Logger returns the current logger used by ggraph.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
