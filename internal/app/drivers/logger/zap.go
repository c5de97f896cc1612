package logger

import (
	"hicm-service/internal/app/config"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// NewZapLogger writes JSON to stdout. Outside development it also tees into
// rotated files, with error-level entries duplicated into a separate file.
func NewZapLogger(driverConfig *config.DriverConfig, internalConfig *config.InternalConfig) *zap.Logger {
	logLevel := parseLevel(driverConfig.Logger.Level)

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), logLevel),
	}

	if internalConfig.App.Env != "development" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   driverConfig.Logger.OutputFileName,
			MaxSize:    driverConfig.Logger.MaxSizeInMB,
			MaxBackups: driverConfig.Logger.MaxBackups,
			MaxAge:     driverConfig.Logger.MaxAgeInDays,
			Compress:   driverConfig.Logger.Compress,
		})
		errorFileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   driverConfig.Logger.OutputErrorFileName,
			MaxSize:    driverConfig.Logger.MaxSizeInMB,
			MaxBackups: driverConfig.Logger.MaxBackups,
			MaxAge:     driverConfig.Logger.MaxAgeInDays,
			Compress:   driverConfig.Logger.Compress,
		})
		cores = append(cores,
			zapcore.NewCore(encoder, fileWriter, logLevel),
			zapcore.NewCore(encoder, errorFileWriter, zap.ErrorLevel),
		)
	}

	options := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)}
	if internalConfig.App.Env == "development" {
		options = append(options, zap.Development())
	}

	return zap.New(zapcore.NewTee(cores...), options...).With(
		zap.String("service", "hicm-service"),
		zap.String("version", internalConfig.App.Version),
	)
}
