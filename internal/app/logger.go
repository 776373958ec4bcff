package app

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger создаёт логгер: JSON в production, цветной консольный вывод иначе.
// Каждая запись помечается именем сервиса и версией.
func NewLogger(env, service, version string) *zap.Logger {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "ts"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}

	return logger.With(
		zap.String("service", service),
		zap.String("version", version),
	)
}

// gooseLogger направляет вывод goose в zap
type gooseLogger struct {
	sugar *zap.SugaredLogger
}

func newGooseLogger(logger *zap.Logger) *gooseLogger {
	return &gooseLogger{sugar: logger.Named("goose").WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (l *gooseLogger) Printf(format string, v ...any) {
	l.sugar.Infof(format, v...)
}

// Fatalf не завершает процесс: ошибку миграции вернёт сам goose
func (l *gooseLogger) Fatalf(format string, v ...any) {
	l.sugar.Error(fmt.Sprintf(format, v...))
}
