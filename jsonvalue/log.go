package jsonvalue

import (
	"io"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

var logger atomic.Pointer[log.Logger]

func init() {
	SetLogger(nil)
}

// SetLogger sets the logger that receives errors swallowed by the optional
// accessors (TryDecode, the *At methods, Parse). They are logged at debug
// level. A nil logger discards them, which is the default.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
	}
	logger.Store(l)
}

func logDiscarded(op string, err error) {
	logger.Load().Debug("discarded error", "op", op, "err", err)
}
