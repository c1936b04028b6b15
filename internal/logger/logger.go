// Package logger provides structured logging using zap, with optional
// rotating file output through lumberjack.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the global logger instance. It discards everything until Init runs,
// so packages may log during tests without setup.
var Log = zap.NewNop()

// Sugar is the sugared logger for convenient logging.
var Sugar = Log.Sugar()

// helper backs the package-level functions; it skips their frame so the
// reported caller is the code that logged.
var helper = Log

// FileConfig holds rotating log file settings.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultFileConfig returns rotation settings for path.
func DefaultFileConfig(path string) FileConfig {
	return FileConfig{
		Path:       path,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Compress:   true,
	}
}

// Options configures Setup.
type Options struct {
	Level string
	File  FileConfig // no file output when Path is empty
	// Console receives colored human-readable output. nil disables it.
	Console io.Writer
}

// Init logs to stderr and, when logFile is set, to a rotating file.
func Init(level string, logFile string) error {
	opts := Options{Level: level, Console: os.Stderr}
	if logFile != "" {
		opts.File = DefaultFileConfig(logFile)
	}
	return Setup(opts)
}

// Setup replaces the global logger.
func Setup(opts Options) error {
	lvl := parseLevel(opts.Level)

	var cores []zapcore.Core
	if opts.Console != nil {
		enc := encoderConfig(zapcore.TimeEncoderOfLayout("15:04:05.000"), zapcore.CapitalColorLevelEncoder)
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(opts.Console), lvl))
	}
	if opts.File.Path != "" {
		w := &lumberjack.Logger{
			Filename:   opts.File.Path,
			MaxSize:    opts.File.MaxSizeMB,
			MaxBackups: opts.File.MaxBackups,
			MaxAge:     opts.File.MaxAgeDays,
			Compress:   opts.File.Compress,
			LocalTime:  true,
		}
		enc := encoderConfig(zapcore.ISO8601TimeEncoder, zapcore.CapitalLevelEncoder)
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), lvl))
	}

	Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	Sugar = Log.Sugar()
	helper = Log.WithOptions(zap.AddCallerSkip(1))
	return nil
}

func encoderConfig(timeEnc zapcore.TimeEncoder, levelEnc zapcore.LevelEncoder) zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		CallerKey:        "caller",
		EncodeTime:       timeEnc,
		EncodeLevel:      levelEnc,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
}

// parseLevel accepts zap level names; anything else means info.
func parseLevel(level string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// Named returns a logger tagged with a component name. It writes through
// whatever Log is current at the time of each entry, so component loggers
// created before Init still reach the configured outputs.
func Named(component string) *zap.Logger {
	return zap.New(globalCore{}, zap.AddCaller()).Named(component)
}

// globalCore forwards to the core of the current Log.
type globalCore struct {
	fields []zapcore.Field
}

func (c globalCore) target() zapcore.Core {
	core := Log.Core()
	if len(c.fields) > 0 {
		core = core.With(c.fields)
	}
	return core
}

func (c globalCore) Enabled(lvl zapcore.Level) bool { return Log.Core().Enabled(lvl) }

func (c globalCore) With(fields []zapcore.Field) zapcore.Core {
	return globalCore{fields: append(c.fields[:len(c.fields):len(c.fields)], fields...)}
}

func (c globalCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c globalCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	if ce := c.target().Check(ent, nil); ce != nil {
		ce.Write(fields...)
	}
	return nil
}

func (c globalCore) Sync() error { return Log.Core().Sync() }

// Sync flushes any buffered log entries.
func Sync() {
	_ = Log.Sync()
}

func Debug(msg string, fields ...zap.Field) { helper.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field) { helper.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field) { helper.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { helper.Error(msg, fields...) }

// Fatal logs and exits with status 1.
func Fatal(msg string, fields ...zap.Field) { helper.Fatal(msg, fields...) }
