package logger

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger представляет структурированный логгер
type Logger struct {
	*logrus.Logger
}

// New создает новый экземпляр логгера
// format: "json" или "text", out: куда пишутся логи (в CLI режиме это stderr)
func New(level, format string, out io.Writer) *Logger {
	logger := logrus.New()

	if strings.EqualFold(format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	// Неизвестный уровень трактуем как info
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	logger.SetOutput(out)

	return &Logger{logger}
}

// Discard возвращает логгер, который ничего не пишет. Используется в тестах
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
