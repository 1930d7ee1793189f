// Package logx is the ledger's leveled logger: a rotating log file via
// lumberjack with colored category prefixes. Since this module is a
// library rather than a standalone service, callers configure the sink
// explicitly with Configure rather than the process panicking on
// missing environment variables.
package logx

import (
	"fmt"
	"log"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
)

// Options configures the rotating log file backing the default logger.
type Options struct {
	Filename string // default "./logs/blockify.log"
	MaxSizeMB int   // default 50
	MaxAgeDays int  // default 28
}

var (
	mu     sync.Mutex
	logger = log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lmicroseconds)
)

// Configure redirects the default logger to a rotating file per opts.
// Zero-value fields fall back to sensible defaults. It swaps the logger
// under the same lock the logging calls hold, so it may run concurrently
// with them; each call opens a new sink without closing the previous one.
func Configure(opts Options) {
	mu.Lock()
	defer mu.Unlock()

	filename := opts.Filename
	if filename == "" {
		filename = "./logs/blockify.log"
	}
	maxSize := opts.MaxSizeMB
	if maxSize == 0 {
		maxSize = 50
	}
	maxAge := opts.MaxAgeDays
	if maxAge == 0 {
		maxAge = 28
	}

	sink := &lumberjack.Logger{
		Filename: filename,
		MaxSize:  maxSize,
		MaxAge:   maxAge,
	}
	logger = log.New(sink, "", log.Ldate|log.Ltime|log.Lmicroseconds)
}

func printf(color, level, category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	message := fmt.Sprintf(format, args...)
	coloredCategory := fmt.Sprintf("%s[%s][%s]%s", color, level, category, colorReset)
	logger.Printf("%s: %s", coloredCategory, message)
}

// Info logs an informational message under category.
func Info(category, format string, args ...any) {
	printf(colorGreen, "INFO", category, format, args...)
}

// Warn logs a warning message under category.
func Warn(category, format string, args ...any) {
	printf(colorYellow, "WARN", category, format, args...)
}

// Error logs an error message under category.
func Error(category, format string, args ...any) {
	printf(colorRed, "ERROR", category, format, args...)
}

// Debug logs a debug message under category.
func Debug(category, format string, args ...any) {
	printf(colorBlue, "DEBUG", category, format, args...)
}
