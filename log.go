package spritefield

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// loggerPtr stores the active logger. Asset loads log from worker
// goroutines, so access is atomic.
var loggerPtr atomic.Pointer[log.Logger]

func init() {
	loggerPtr.Store(newDefaultLogger(os.Stderr))
}

func newDefaultLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix: "spritefield",
		Level:  log.WarnLevel,
	})
}

// SetLogger replaces the package logger. By default warnings and errors go
// to stderr. Pass nil to silence all output.
//
// Levels used:
//   - Debug: per-frame stats, recompositions, cache hits
//   - Info: asset loads, transitions
//   - Warn: skipped assets, SVG cleanup fallbacks
//   - Error: failed fetches
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
		l.SetLevel(log.FatalLevel)
	}
	loggerPtr.Store(l)
}

// Logger returns the current package logger. Subpackages share it.
func Logger() *log.Logger {
	return loggerPtr.Load()
}
