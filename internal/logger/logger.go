// ===================================================================================
// gRPC PROMETHEUS LAYER – LOGGING SUBSYSTEM
// ===================================================================================
//
// Centralized logging for the layer and its demo binaries.
//
// - Role-based loggers (Server / Client side of the channel)
// - Runtime-adjustable log level filtering
// - Log rotation via lumberjack to prevent unbounded disk growth
// - Request-scoped correlation ids propagated via context
//
// This package intentionally sticks to the standard log package plus
// rotation. No behavior of an instrumented call may ever depend on whether
// logging is configured: all helpers are safe before Init.
//
// ===================================================================================

package logger

import (
	"context"
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// ctxKey is a strongly-typed context key to avoid collisions.
type ctxKey string

// RequestIDKey carries the request-scoped correlation id across goroutines
// and interceptor boundaries.
const RequestIDKey ctxKey = "request_id"

// Role-based logger instances.
// Server → interceptors on the serving side
// Client → interceptors on the dialing side
var (
	Server *log.Logger
	Client *log.Logger
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

// Messages below the current level are suppressed. Default is INFO.
var currentLevel = INFO

func enabled(level Level) bool {
	return level >= currentLevel
}

// SetLevel adjusts the global log level.
func SetLevel(level Level) {
	currentLevel = level
}

// Init sets up the logging backend with rotation.
//
// Rotation policy:
// - Max file size: 10 MB
// - Max backups  : 5 files
// - Max age      : 14 days
// - Compression  : enabled (.gz)
func Init() {
	writer := &lumberjack.Logger{
		Filename:   "logs/grpc-metrics.log",
		MaxSize:    10,
		MaxBackups: 5,
		MaxAge:     14,
		Compress:   true,
	}

	Server = log.New(
		writer,
		"[SERVER] ",
		log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile,
	)

	Client = log.New(
		writer,
		"[CLIENT] ",
		log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile,
	)
}

// discard soaks up log output when Init was never called. Instrumented
// calls must keep working without a configured log sink.
var discard = log.New(io.Discard, "", 0)

// WithContext returns a derived logger enriched with request-scoped
// metadata. If a request id is present in the context, it is injected into
// the log prefix.
func WithContext(ctx context.Context, base *log.Logger) *log.Logger {
	if base == nil {
		base = discard
	}
	if ctx == nil {
		return base
	}

	if reqID, ok := ctx.Value(RequestIDKey).(string); ok {
		return log.New(
			base.Writer(),
			base.Prefix()+"[REQ:"+reqID+"] ",
			base.Flags(),
		)
	}

	return base
}

func Debug(log *log.Logger, format string, v ...any) {
	if enabled(DEBUG) {
		log.Printf("[DEBUG] "+format, v...)
	}
}

func Info(log *log.Logger, format string, v ...any) {
	if enabled(INFO) {
		log.Printf("[INFO] "+format, v...)
	}
}

func Warn(log *log.Logger, format string, v ...any) {
	if enabled(WARN) {
		log.Printf("[WARN] "+format, v...)
	}
}

func Error(log *log.Logger, format string, v ...any) {
	if enabled(ERROR) {
		log.Printf("[ERROR] "+format, v...)
	}
}

// Fatal logs the message and terminates the process. Reserved for
// unrecoverable startup failures in the demo binaries.
func Fatal(log *log.Logger, format string, v ...any) {
	log.Printf("[FATAL] "+format, v...)
	os.Exit(1)
}
