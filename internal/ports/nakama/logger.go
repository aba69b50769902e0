package nakama

import (
	"strings"

	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/rs/zerolog"
)

// runtimeWriter forwards zerolog lines to the Nakama logger at the matching level.
type runtimeWriter struct {
	logger runtime.Logger
}

func (w runtimeWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.NoLevel, p)
}

func (w runtimeWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")
	switch level {
	case zerolog.TraceLevel, zerolog.DebugLevel:
		w.logger.Debug("%s", line)
	case zerolog.WarnLevel:
		w.logger.Warn("%s", line)
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		w.logger.Error("%s", line)
	default:
		w.logger.Info("%s", line)
	}
	return len(p), nil
}

// newServiceLogger builds the zerolog logger handed to the app service.
// Unknown levels fall back to info.
func newServiceLogger(logger runtime.Logger, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(runtimeWriter{logger: logger}).Level(lvl).With().Str("module", "crazy_eights").Logger()
}
