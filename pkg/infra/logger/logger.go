package logger

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/devopsinterview/storefront/pkg/config"
	"github.com/sirupsen/logrus"
)

const logDir = "logs"

// NewLogger builds the process logger. JSON lines go to stdout and, when
// cfg.LogFile is set, to a buffered file under logs/.
func NewLogger(cfg config.ServerConfig) *logrus.Logger {
	logger := logrus.New()

	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "time",
			logrus.FieldKeyMsg:  "msg",
		},
	})
	logger.SetLevel(levelFor(os.Getenv("LOG_LEVEL"), cfg.Environment))
	logger.SetOutput(os.Stdout)

	if cfg.LogFile == "" {
		return logger
	}

	path, ok := safeLogPath(cfg.LogFile)
	if !ok {
		logger.WithField("log_file", cfg.LogFile).Warn("log file must live under logs/, file output disabled")
		return logger
	}
	if err := os.MkdirAll(logDir, 0750); err != nil {
		logger.WithError(err).Warn("failed to create logs directory, file output disabled")
		return logger
	}
	writer, err := NewFileWriter(path, 32*1024)
	if err != nil {
		logger.WithError(err).Warn("failed to open log file, file output disabled")
		return logger
	}
	logger.AddHook(NewFileHook(writer))

	return logger
}

func levelFor(raw, environment string) logrus.Level {
	if raw != "" {
		if level, err := logrus.ParseLevel(raw); err == nil {
			return level
		}
	}
	if environment == config.EnvironmentDevelopment {
		return logrus.DebugLevel
	}
	return logrus.InfoLevel
}

func safeLogPath(name string) (string, bool) {
	path := filepath.Clean(filepath.Join(logDir, filepath.Base(name)))
	return path, strings.HasPrefix(path, logDir+string(filepath.Separator))
}
