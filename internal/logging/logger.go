package logging

import (
	"io"
	"log"
	"os"
	"strings"
)

// Level is the minimum severity a Logger emits.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Logger is a small levelled logger. A Logger derived with WithRequest
// prefixes every line with the request id.
type Logger struct {
	level       Level
	prefix      string
	infoLogger  *log.Logger
	errorLogger *log.Logger
	debugLogger *log.Logger
}

// New creates a Logger writing info/debug to stdout and errors to stderr.
func New(level string) *Logger {
	return &Logger{
		level:       ParseLevel(level),
		infoLogger:  log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile),
		errorLogger: log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile),
		debugLogger: log.New(os.Stdout, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile),
	}
}

// NewWriter creates a Logger that sends every level to w. Used by the CLI
// to keep stdout clean for quiz output.
func NewWriter(level string, w io.Writer) *Logger {
	return &Logger{
		level:       ParseLevel(level),
		infoLogger:  log.New(w, "INFO: ", log.Ldate|log.Ltime),
		errorLogger: log.New(w, "ERROR: ", log.Ldate|log.Ltime),
		debugLogger: log.New(w, "DEBUG: ", log.Ldate|log.Ltime),
	}
}

// NewDiscard returns a Logger that drops everything.
func NewDiscard() *Logger {
	return &Logger{
		level:       LevelError,
		infoLogger:  log.New(io.Discard, "", 0),
		errorLogger: log.New(io.Discard, "", 0),
		debugLogger: log.New(io.Discard, "", 0),
	}
}

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(level string) Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// WithRequest returns a copy of l that tags lines with reqID.
func (l *Logger) WithRequest(reqID string) *Logger {
	c := *l
	c.prefix = "[" + reqID + "] "
	return &c
}

// Level reports the configured level.
func (l *Logger) Level() Level {
	return l.level
}

func (l *Logger) Info(format string, v ...any) {
	if l.level == LevelError {
		return
	}
	l.infoLogger.Printf(l.prefix+format, v...)
}

func (l *Logger) Error(format string, v ...any) {
	l.errorLogger.Printf(l.prefix+format, v...)
}

func (l *Logger) Debug(format string, v ...any) {
	if l.level != LevelDebug {
		return
	}
	l.debugLogger.Printf(l.prefix+format, v...)
}
