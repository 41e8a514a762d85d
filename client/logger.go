package client

import (
	"fmt"
	stdlog "log"
	"os"
	"strings"

	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("ignite/client")

// --------------------------------------------------------------------------
// Custom Logger (implements logger.ILogger)
// --------------------------------------------------------------------------

// clientLogger implements the ILogger interface with custom formatting
type clientLogger struct {
	name   string
	level  logger.LogLevel
	logger *stdlog.Logger
}

func (l *clientLogger) SetLevel(level logger.LogLevel) {
	l.level = level
}

func (l *clientLogger) Debugf(format string, args ...interface{}) {
	if l.level >= logger.DEBUG {
		l.log("DEBUG", format, args...)
	}
}

func (l *clientLogger) Infof(format string, args ...interface{}) {
	if l.level >= logger.INFO {
		l.log("INFO", format, args...)
	}
}

func (l *clientLogger) Warningf(format string, args ...interface{}) {
	if l.level >= logger.WARNING {
		l.log("WARN", format, args...)
	}
}

func (l *clientLogger) Errorf(format string, args ...interface{}) {
	if l.level >= logger.ERROR {
		l.log("ERROR", format, args...)
	}
}

func (l *clientLogger) Panicf(format string, args ...interface{}) {
	if l.level >= logger.CRITICAL {
		panic(fmt.Sprintf(format, args...))
	}
}

func (l *clientLogger) log(levelStr string, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	l.logger.Printf("%-5s | %-15s | %s", levelStr, l.name, message)
}

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

// CreateLogger implements the logger factory interface
func CreateLogger(pkgName string) logger.ILogger {
	stdLogger := stdlog.New(os.Stdout, "", stdlog.Ldate|stdlog.Ltime)

	return &clientLogger{
		name:   pkgName,
		level:  logger.INFO,
		logger: stdLogger,
	}
}

// parseLogLevel converts a string level to logger.LogLevel
func parseLogLevel(level string) (logger.LogLevel, error) {
	switch strings.ToLower(level) {
	case "debug":
		return logger.DEBUG, nil
	case "info":
		return logger.INFO, nil
	case "warning", "warn":
		return logger.WARNING, nil
	case "error":
		return logger.ERROR, nil
	default:
		return 0, fmt.Errorf("invalid log level %q, must be one of debug, info, warn, error", level)
	}
}

// InitLoggers installs the custom factory and applies the level to every
// client logger.
func InitLoggers(level string) error {
	parsed, err := parseLogLevel(level)
	if err != nil {
		return err
	}

	logger.SetLoggerFactory(CreateLogger)
	logger.GetLogger("ignite/client").SetLevel(parsed)
	logger.GetLogger("ignite/transport").SetLevel(parsed)
	logger.GetLogger("ignite/cmd").SetLevel(parsed)
	return nil
}
