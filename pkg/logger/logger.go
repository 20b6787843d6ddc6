package logger

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Log struct {
	LogLevel zapcore.Level `yaml:"level" envconfig:"LOG_LEVEL" default:"info"`
	// Sink is a file path; empty means stderr.
	Sink string `yaml:"sink" envconfig:"LOG_SINK"`
}

// NewLogger builds a console zap logger named after the component. The
// returned func syncs and releases the sink.
func NewLogger(cfg Log, name string) (*zap.Logger, func(), error) {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	path := "stderr"
	if cfg.Sink != "" {
		path = cfg.Sink
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	sink, closeSink, err := zap.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open log sink %s", path)
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), sink, zap.NewAtomicLevelAt(cfg.LogLevel))
	log := zap.New(core, zap.AddCaller()).Named(name)
	return log, func() {
		_ = log.Sync()
		closeSink()
	}, nil
}
