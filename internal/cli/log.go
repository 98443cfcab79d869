// Package cli implements the gridboard command-line interface.
//
// Commands work on boards named by a reference: a path to a JSON document,
// or "store:<id>" for a document in the configured store. The CLI is built
// using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - new, show, validate: create, print and check boards
//   - place, move, resize, remove: one-shot edits through the collision engine
//   - edit: interactive terminal editor
//   - diff, render: compare boards and draw them with Graphviz
//   - serve: HTTP API
//   - types, store: inspect widget types and the document store
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// shows board and store events. Loggers are passed through context.Context.
//
// # Example
//
//	import "github.com/matzehuels/gridboard/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger writing to w at level, with short timestamps
// such as "14:32:01.45".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Rendered ops.svg (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
