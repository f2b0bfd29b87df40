// Package logger wraps op/go-logging with the leveled helpers used across the portal.
package logger

import (
	"os"
	"strings"

	"github.com/op/go-logging"
)

const module = "primaria"

var logger *logging.Logger

func init() {
	InitLogger(logging.INFO)
}

// InitLogger sends formatted records to stderr at the given level.
func InitLogger(level logging.Level) {
	newLogger := logging.MustGetLogger(module)

	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatted := logging.NewBackendFormatter(backend, logging.MustStringFormatter(
		`%{time:2006/01/02 15:04:05} %{level:.4s} - %{message}`,
	))

	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(level, module)
	newLogger.SetBackend(leveled)

	logger = newLogger
}

// ParseLevel maps LOG_LEVEL values to go-logging levels; unknown values fall back to INFO.
func ParseLevel(value string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "warn":
		return logging.WARNING
	case "":
		return logging.INFO
	}
	level, err := logging.LogLevel(value)
	if err != nil {
		return logging.INFO
	}
	return level
}

func Debug(args ...any) {
	logger.Debug(args...)
}

func Debugf(format string, args ...any) {
	logger.Debugf(format, args...)
}

func Info(args ...any) {
	logger.Info(args...)
}

func Infof(format string, args ...any) {
	logger.Infof(format, args...)
}

func Warning(args ...any) {
	logger.Warning(args...)
}

func Warningf(format string, args ...any) {
	logger.Warningf(format, args...)
}

func Error(args ...any) {
	logger.Error(args...)
}

func Errorf(format string, args ...any) {
	logger.Errorf(format, args...)
}

// Fatalf logs at CRITICAL and exits the process.
func Fatalf(format string, args ...any) {
	logger.Fatalf(format, args...)
}
