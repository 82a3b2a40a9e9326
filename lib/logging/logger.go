package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lni/dragonboat/v4/logger"
)

// --------------------------------------------------------------------------
// Custom Logger (implements dragonboats logger.ILogger)
// --------------------------------------------------------------------------

// timesLogger implements the ILogger interface with custom formatting.
// All loggers share the output and the record buffer of the package.
type timesLogger struct {
	mu    sync.Mutex
	name  string
	level logger.LogLevel
}

func (l *timesLogger) SetLevel(level logger.LogLevel) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

func (l *timesLogger) enabled(level logger.LogLevel) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level >= level
}

func (l *timesLogger) Debugf(format string, args ...interface{}) {
	if l.enabled(logger.DEBUG) {
		l.log(LevelDebug, format, args...)
	}
}

func (l *timesLogger) Infof(format string, args ...interface{}) {
	if l.enabled(logger.INFO) {
		l.log(LevelInfo, format, args...)
	}
}

func (l *timesLogger) Warningf(format string, args ...interface{}) {
	if l.enabled(logger.WARNING) {
		l.log(LevelWarn, format, args...)
	}
}

func (l *timesLogger) Errorf(format string, args ...interface{}) {
	if l.enabled(logger.ERROR) {
		l.log(LevelError, format, args...)
	}
}

func (l *timesLogger) Panicf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	l.log(LevelError, "%s", message)
	panic(message)
}

// log formats and writes a log message and records it in the buffer.
func (l *timesLogger) log(level string, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	records.add(Record{
		Time:    time.Now(),
		Level:   level,
		Name:    l.name,
		Message: message,
	})
	state.mu.Lock()
	out := state.out
	state.mu.Unlock()
	out.Printf("%-5s | %-15s | %s", level, l.name, message)
}

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

var state = struct {
	mu      sync.Mutex
	out     *log.Logger
	level   logger.LogLevel
	loggers map[string]*timesLogger
	once    sync.Once
}{
	out:     log.New(os.Stdout, "", log.Ldate|log.Ltime),
	level:   logger.INFO,
	loggers: make(map[string]*timesLogger),
}

// CreateLogger implements dragonboats logger.Factory.
func CreateLogger(pkgName string) logger.ILogger {
	state.mu.Lock()
	defer state.mu.Unlock()

	l := &timesLogger{
		name:  pkgName,
		level: state.level,
	}
	state.loggers[pkgName] = l
	return l
}

// --------------------------------------------------------------------------
// Initialization
// --------------------------------------------------------------------------

// Init installs the custom logger factory (only once per process), directs all
// output to out and sets the level of every logger.
// Init may be called again to change the output or the level.
func Init(level string, out io.Writer) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	if out == nil {
		out = os.Stdout
	}

	state.mu.Lock()
	state.out = log.New(out, "", log.Ldate|log.Ltime)
	state.level = lvl
	loggers := make([]*timesLogger, 0, len(state.loggers))
	for _, l := range state.loggers {
		loggers = append(loggers, l)
	}
	state.mu.Unlock()

	for _, l := range loggers {
		l.SetLevel(lvl)
	}

	state.once.Do(func() {
		logger.SetLoggerFactory(CreateLogger)
	})

	// loggers created before the factory was installed
	for _, name := range []string{"store", "handle", "bridge", "tasks", "rpc", "transport/rpc", "rest", "app", "pane", "nav", "serve", "times"} {
		logger.GetLogger(name).SetLevel(lvl)
	}
	return nil
}

// OpenFile opens (or creates) a log file for appending.
func OpenFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// ParseLevel converts a string level to logger.LogLevel
func ParseLevel(level string) (logger.LogLevel, error) {
	switch strings.ToLower(level) {
	case "debug":
		return logger.DEBUG, nil
	case "info", "":
		return logger.INFO, nil
	case "warning", "warn":
		return logger.WARNING, nil
	case "error":
		return logger.ERROR, nil
	default:
		return logger.INFO, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}
