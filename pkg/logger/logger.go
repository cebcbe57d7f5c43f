package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Badsnus/qrlabels/pkg/logger/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Log *types.Logger
)

// Config represents configuration options for logger initialization
type Config struct {
	Debug        bool           // Enable debug logging
	JSON         bool           // Write stdout as JSON instead of coloured console lines
	TimeLocation *time.Location // Time zone of timestamps, UTC when nil
	LogToFile    bool           // Also write JSON lines to a file
	LogsDir      string         // Directory for log files, relative to the working directory
}

// Init builds the process-wide logger: stdout always, plus a JSON file when
// LogToFile is set.
func Init(config Config) error {
	l := types.Logger{Name: "main"}

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	l.LogsPath = filepath.Join(wd, config.LogsDir)

	level := zapcore.InfoLevel
	if config.Debug {
		level = zapcore.DebugLevel
	}

	encCfg := encoderConfig(config.TimeLocation)
	cores := []zapcore.Core{stdoutCore(encCfg, config.JSON, level)}

	if config.LogToFile {
		core, err := fileCore(encCfg, l.LogsPath, level)
		if err != nil {
			return err
		}
		cores = append(cores, core)
	}

	log := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	l.SugaredLogger = log.Named(l.Name).Sugar()
	Log = &l

	return nil
}

// Named returns a new logger with the specified name ("http", "renderer", etc.)
func Named(name string) (*types.Logger, error) {
	if Log == nil {
		return nil, fmt.Errorf("logger is not initialized")
	}
	return &types.Logger{
		SugaredLogger: Log.SugaredLogger.Named(name),
		LogsPath:      Log.LogsPath,
		Name:          name,
	}, nil
}

// Sync flushes buffered entries. Call it before the process exits.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}

func encoderConfig(loc *time.Location) zapcore.EncoderConfig {
	if loc == nil {
		loc = time.UTC
	}
	return zapcore.EncoderConfig{
		MessageKey:     "message",
		LevelKey:       "level",
		TimeKey:        "timestamp",
		NameKey:        "logger",
		CallerKey:      "caller",
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeTime: func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.In(loc).Format("2006-01-02 15:04:05"))
		},
	}
}

func stdoutCore(encCfg zapcore.EncoderConfig, json bool, level zapcore.Level) zapcore.Core {
	if json {
		return zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.Lock(os.Stdout), level)
	}
	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stdout), level)
}

// fileCore writes JSON lines to <dir>/<start time>.log.
func fileCore(encCfg zapcore.EncoderConfig, dir string, level zapcore.Level) (zapcore.Core, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s.log", time.Now().Format("2006-01-02_15-04")))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), level), nil
}
