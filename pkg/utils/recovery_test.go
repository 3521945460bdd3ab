package utils

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func TestRecoverAsError(t *testing.T) {
	t.Run("recovers from panic", func(t *testing.T) {
		logger, buf := captureLogger()
		fn := func() (err error) {
			defer RecoverAsError(&err, logger)
			panic("badger iterator")
		}

		err := fn()
		require.Error(t, err)

		var panicErr *PanicError
		require.True(t, errors.As(err, &panicErr))
		assert.Equal(t, "badger iterator", panicErr.Value)
		assert.NotEmpty(t, panicErr.StackTrace)
		assert.Equal(t, "panic: badger iterator", err.Error())
		assert.Contains(t, buf.String(), "recovered from panic")
	})

	t.Run("preserves original error", func(t *testing.T) {
		original := errors.New("original error")
		fn := func() (err error) {
			defer RecoverAsError(&err, nil)
			return original
		}
		assert.Same(t, original, fn())
	})
}

func TestRecoverWithCallback(t *testing.T) {
	var captured error
	func() {
		defer RecoverWithCallback(func(err error) { captured = err }, nil)
		panic(errors.New("boom"))
	}()

	var panicErr *PanicError
	require.True(t, errors.As(captured, &panicErr))
	assert.Equal(t, "panic: boom", captured.Error())

	assert.NotPanics(t, func() {
		defer RecoverWithCallback(nil, nil)
		panic("no callback")
	})
}

func TestSafeGo(t *testing.T) {
	logger, _ := captureLogger()
	errCh := make(chan error, 1)

	SafeGo(func() { panic("in goroutine") }, func(err error) { errCh <- err }, logger)

	err := <-errCh
	var panicErr *PanicError
	require.True(t, errors.As(err, &panicErr))
	assert.Equal(t, "in goroutine", panicErr.Value)

	done := make(chan struct{})
	SafeGo(func() { close(done) }, func(error) { t.Error("unexpected error callback") }, logger)
	<-done
}
