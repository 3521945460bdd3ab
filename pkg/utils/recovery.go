package utils

import (
	"fmt"
	"log/slog"
	"runtime/debug"
)

// PanicError wraps a panic value as an error
type PanicError struct {
	Value      interface{}
	StackTrace string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func recovered(r interface{}, logger *slog.Logger) *PanicError {
	if logger == nil {
		logger = slog.Default()
	}
	stack := string(debug.Stack())
	logger.Error("recovered from panic", "panic", r, "stack", stack)
	return &PanicError{Value: r, StackTrace: stack}
}

// RecoverAsError recovers from a panic and stores it in *errPtr.
// It must be deferred directly:
//
//	func doWork() (err error) {
//	    defer utils.RecoverAsError(&err, logger)
//	    ...
//	}
func RecoverAsError(errPtr *error, logger *slog.Logger) {
	if r := recover(); r != nil {
		*errPtr = recovered(r, logger)
	}
}

// RecoverWithCallback recovers from a panic and passes it to callback.
func RecoverWithCallback(callback func(error), logger *slog.Logger) {
	if r := recover(); r != nil {
		err := recovered(r, logger)
		if callback != nil {
			callback(err)
		}
	}
}

// SafeGo runs fn in a goroutine. A panic is logged and handed to onError.
func SafeGo(fn func(), onError func(error), logger *slog.Logger) {
	go func() {
		defer RecoverWithCallback(onError, logger)
		fn()
	}()
}
