package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/electra-shield/voting-backend/config"
)

// Logger is the process-wide logger, reconfigured once from LogConfig at
// startup. The default writes to stdout so early failures are never silent.
var Logger = logrus.New()

func InitLogger(cfg *config.LogConfig) {
	Logger = logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	writers := make([]io.Writer, 0, 2)
	if cfg.UseConsoleLogger {
		writers = append(writers, os.Stdout)
	}
	if cfg.UseFileLogger {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxFileSizeInMB,
			MaxBackups: cfg.MaxBackupsOfLogFiles,
			MaxAge:     cfg.MaxAgeToRetainLogFilesInDays,
			Compress:   cfg.Compress,
		})
	}
	if len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}
	Logger.SetOutput(io.MultiWriter(writers...))
}
