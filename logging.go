package gekko

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// DefaultLogger writes through zap. The debug toggle flips the zap level at
// runtime, so callers can switch it without rebuilding the logger.
type DefaultLogger struct {
	level zap.AtomicLevel
	base  zapcore.Level
	sugar *zap.SugaredLogger
}

// NewDefaultLogger builds a console logger with the given name.
func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	cfg := DefaultConfig().Logging
	cfg.Prefix = prefix
	if debug {
		cfg.Level = "debug"
	}
	l, err := NewLogger(cfg)
	if err != nil {
		// Only reachable with a broken zap encoder config.
		panic(err)
	}
	return l
}

// NewLogger builds a logger from the [logging] section of the editor config.
func NewLogger(cfg LoggingConfig) (*DefaultLogger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
			return nil, err
		}
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.DisableStacktrace = true

	base, err := zapCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	if cfg.Prefix != "" {
		base = base.Named(cfg.Prefix)
	}
	return &DefaultLogger{
		level: zapCfg.Level,
		base:  level,
		sugar: base.Sugar(),
	}, nil
}

func (l *DefaultLogger) DebugEnabled() bool {
	return l.level.Enabled(zapcore.DebugLevel)
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	if enabled {
		l.level.SetLevel(zapcore.DebugLevel)
		return
	}
	if l.base == zapcore.DebugLevel {
		l.level.SetLevel(zapcore.InfoLevel)
		return
	}
	l.level.SetLevel(l.base)
}

func (l *DefaultLogger) Debugf(format string, args ...any) { l.sugar.Debugf(format, args...) }
func (l *DefaultLogger) Infof(format string, args ...any)  { l.sugar.Infof(format, args...) }
func (l *DefaultLogger) Warnf(format string, args ...any)  { l.sugar.Warnf(format, args...) }
func (l *DefaultLogger) Errorf(format string, args ...any) { l.sugar.Errorf(format, args...) }

// Sync flushes buffered log entries.
func (l *DefaultLogger) Sync() error {
	return l.sugar.Sync()
}

// LoggingModule installs a default logger as a resource.
type LoggingModule struct {
	Prefix string
	Debug  bool
	Config *LoggingConfig
}

func (m LoggingModule) Install(app *App, cmd *Commands) {
	var logger *DefaultLogger
	if m.Config != nil {
		cfg := *m.Config
		if m.Prefix != "" {
			cfg.Prefix = m.Prefix
		}
		l, err := NewLogger(cfg)
		if err != nil {
			panic(err)
		}
		logger = l
		if m.Debug {
			logger.SetDebug(true)
		}
	} else {
		logger = NewDefaultLogger(m.Prefix, m.Debug)
	}
	cmd.AddResources(logger)
}

// Nop logger and App helper accessor

type nopLogger struct{}

func NewNopLogger() Logger { return &nopLogger{} }

func (n *nopLogger) DebugEnabled() bool                { return false }
func (n *nopLogger) SetDebug(enabled bool)             {}
func (n *nopLogger) Debugf(format string, args ...any) {}
func (n *nopLogger) Infof(format string, args ...any)  {}
func (n *nopLogger) Warnf(format string, args ...any)  {}
func (n *nopLogger) Errorf(format string, args ...any) {}

// Logger returns the first Logger resource if present, otherwise a no-op logger.
// Safe to call at any time; never returns nil.
func (app *App) Logger() Logger {
	if app == nil {
		return NewNopLogger()
	}
	for _, r := range app.resources {
		if l, ok := r.(Logger); ok {
			return l
		}
	}
	return NewNopLogger()
}
