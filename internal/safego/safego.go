// Package safego wraps goroutine launches with panic recovery.
// internal/rpc's ListenAndServe uses GoFatal to run a gRPC accept loop
// in the background, since a panic there means the server can no
// longer make progress.
package safego

import (
	"os"
	"runtime/debug"

	"github.com/nisaacdz/blockify/internal/logx"
)

// Go runs fn in a new goroutine, logging and swallowing any panic.
func Go(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logx.Error("panic", "%s: %v\n%s", name, r, debug.Stack())
			}
		}()
		fn()
	}()
}

// GoFatal runs fn in a new goroutine; a panic is logged and then the
// process exits, for goroutines whose failure means the process can no
// longer make progress.
func GoFatal(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logx.Error("panic", "%s: %v\n%s", name, r, debug.Stack())
				os.Exit(1)
			}
		}()
		fn()
	}()
}
