package schematype

import (
	"io"
	"os"
	"sync/atomic"

	charmlog "github.com/charmbracelet/log"
)

var pkgLogger atomic.Pointer[charmlog.Logger]

func init() {
	pkgLogger.Store(charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		Prefix: "schematype",
		Level:  charmlog.WarnLevel,
	}))
}

// SetLogger replaces the package logger. A nil logger discards output.
func SetLogger(l *charmlog.Logger) {
	if l == nil {
		l = charmlog.New(io.Discard)
	}
	pkgLogger.Store(l)
}

// Logger returns the package logger.
func Logger() *charmlog.Logger { return pkgLogger.Load() }

func logger() *charmlog.Logger { return pkgLogger.Load() }
