package log

import (
	"log/slog"
	"os"
)

// SetupLogger installs a JSON slog logger at the given level as the process
// default. The handler is wrapped by ErrFmtHandler so typed evaluation errors
// logged via ErrAttr carry their stacktrace attribute. Output goes to stderr:
// the example binaries print result tables on stdout and the two streams must
// not interleave.
func SetupLogger(loglevel string) {
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     ToLogLevel(loglevel),
	}
	handler := slog.NewJSONHandler(os.Stderr, &ops)
	slog.SetDefault(slog.New(WrapByErrFmtHandler(handler)))
}

// ToLogLevel maps a level name ("debug", "info", "warn", "error") to its slog
// level. Unknown names fall back to info instead of failing the run, since
// the level usually arrives from a command-line flag.
func ToLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr wraps an error as a slog attribute under the standard error key,
// which is what ErrFmtHandler watches for.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
