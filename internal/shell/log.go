package shell

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process-wide logger: writes to stderr at InfoLevel,
// or DebugLevel when POSSH_DEBUG is set to a non-empty value. Built once by
// cmd/possh/main.go and threaded down to the shell, executor, and history
// store as a plain field. The teacher has no zap dependency of its own
// (internal/cli/config.go is stdlib-only); zap is grounded on the pack's
// chat-CLI example, which builds its own stderr-targeted SugaredLogger the
// same way.
func NewLogger() *zap.SugaredLogger {
	level := zapcore.InfoLevel
	if os.Getenv("POSSH_DEBUG") != "" {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.Lock(os.Stderr),
		level,
	)
	return zap.New(core).Sugar()
}
