package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kobzarvs/cnvcode/internal/config"
)

var (
	L       *zap.Logger
	S       *zap.SugaredLogger
	logFile *os.File
)

// Init initializes the global logger.
// The terminal belongs to the UI, so logs only ever go to a file.
func Init(debug bool) error {
	logPath, err := Path()
	if err != nil {
		return err
	}
	return InitFile(logPath, debug)
}

// InitFile initializes the global logger writing to path.
func InitFile(logPath string, debug bool) error {
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return err
	}

	// Truncate on each run
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	logFile = f

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(logFile),
		level,
	)

	// Skip the helper frame so callers show up instead of this file
	L = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	S = L.Sugar()

	S.Infow("logger initialized", "path", logPath, "debug", debug)
	return nil
}

// Close flushes and closes the logger
func Close() {
	if L != nil {
		_ = L.Sync()
	}
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	L = nil
	S = nil
}

// Path returns the log file location
func Path() (string, error) {
	if v := os.Getenv("CNVCODE_LOG_FILE"); v != "" {
		return v, nil
	}
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cnvcode.log"), nil
}

func Debug(msg string, keysAndValues ...interface{}) {
	if S != nil {
		S.Debugw(msg, keysAndValues...)
	}
}

func Info(msg string, keysAndValues ...interface{}) {
	if S != nil {
		S.Infow(msg, keysAndValues...)
	}
}

func Warn(msg string, keysAndValues ...interface{}) {
	if S != nil {
		S.Warnw(msg, keysAndValues...)
	}
}

func Error(msg string, keysAndValues ...interface{}) {
	if S != nil {
		S.Errorw(msg, keysAndValues...)
	}
}
