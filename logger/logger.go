// Package logger provides logging for the faceattend backend with
// dual-backend logging (console and file).
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"faceattend/config"

	"github.com/op/go-logging"
)

const (
	logFileName = "faceattend.log"
	timeFormat  = "2006/01/02 15:04:05"
)

var (
	logger  *logging.Logger
	logFile *os.File
)

// InitLogger initializes the console and file logging backends. Console
// logging uses the given level, file logging always uses DEBUG.
func InitLogger(level logging.Level) {
	newLogger := logging.MustGetLogger("faceattend")
	backends := make([]logging.Backend, 0, 2)

	consoleBackend := logging.NewBackendFormatter(
		logging.NewLogBackend(os.Stderr, "", 0),
		newFormatter(true),
	)
	leveledConsole := logging.AddModuleLevel(consoleBackend)
	leveledConsole.SetLevel(level, "faceattend")
	backends = append(backends, leveledConsole)

	if fileBackend := initFileBackend(); fileBackend != nil {
		leveledFile := logging.AddModuleLevel(fileBackend)
		leveledFile.SetLevel(logging.DEBUG, "faceattend")
		backends = append(backends, leveledFile)
	}

	newLogger.SetBackend(logging.MultiLogger(backends...))
	logger = newLogger
}

// initFileBackend creates the file logging backend, creating the log
// directory if needed. Returns nil if the file cannot be opened.
func initFileBackend() logging.Backend {
	logDir := config.GetLogFolder()
	if err := os.MkdirAll(logDir, 0o750); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log folder %s: %v\n", logDir, err)
		return nil
	}

	logPath := filepath.Join(logDir, logFileName)
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o660)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", logPath, err)
		return nil
	}

	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = file

	backend := logging.NewLogBackend(file, "", 0)
	return logging.NewBackendFormatter(backend, newFormatter(true))
}

func newFormatter(withTime bool) logging.Formatter {
	format := `%{level} - %{message}`
	if withTime {
		format = `%{time:` + timeFormat + `} %{level} - %{message}`
	}
	return logging.MustStringFormatter(format)
}

// CloseLogger closes the log file. Should be called during shutdown.
func CloseLogger() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

func ensureLogger() *logging.Logger {
	if logger == nil {
		InitLogger(logging.INFO)
	}
	return logger
}

func Debug(args ...any) {
	ensureLogger().Debug(args...)
}

func Debugf(format string, args ...any) {
	ensureLogger().Debugf(format, args...)
}

func Info(args ...any) {
	ensureLogger().Info(args...)
}

func Infof(format string, args ...any) {
	ensureLogger().Infof(format, args...)
}

func Warning(args ...any) {
	ensureLogger().Warning(args...)
}

func Warningf(format string, args ...any) {
	ensureLogger().Warningf(format, args...)
}

func Error(args ...any) {
	ensureLogger().Error(args...)
}

func Errorf(format string, args ...any) {
	ensureLogger().Errorf(format, args...)
}
