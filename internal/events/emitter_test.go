package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryEventEmitter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("emit event with no handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		event := NewCallCompletedEvent("coingecko", "list_coins", "GET", OutcomeSuccess)

		err := emitter.EmitEvent(context.Background(), event)
		assert.NoError(t, err)
	})

	t.Run("emit event with successful handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)

		handler1 := &MockEventHandler{}
		handler2 := &MockEventHandler{}
		emitter.RegisterHandler(handler1)
		emitter.RegisterHandler(handler2)

		event := NewCallCompletedEvent("coingecko", "list_coins", "GET", OutcomeSuccess)
		err := emitter.EmitEvent(context.Background(), event)
		assert.NoError(t, err)

		assert.Equal(t, 1, handler1.HandledCount)
		assert.Equal(t, 1, handler2.HandledCount)
		assert.Same(t, event, handler1.LastEvent)
		assert.Same(t, event, handler2.LastEvent)
	})

	t.Run("emit event with failing handler", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)

		failingHandler := &MockEventHandler{HandlerError: errors.New("handler error")}
		successHandler := &MockEventHandler{}
		emitter.RegisterHandler(failingHandler)
		emitter.RegisterHandler(successHandler)

		event := NewCallCompletedEvent("coingecko", "list_coins", "GET", OutcomeUpstreamError)
		err := emitter.EmitEvent(context.Background(), event)
		assert.EqualError(t, err, "handler error")

		// Later handlers still receive the event
		assert.Equal(t, 1, failingHandler.HandledCount)
		assert.Equal(t, 1, successHandler.HandledCount)
	})

	t.Run("every handler failure is reported", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)

		errFirst := errors.New("first")
		errSecond := errors.New("second")
		emitter.RegisterHandler(&MockEventHandler{HandlerError: errFirst})
		emitter.RegisterHandler(&MockEventHandler{HandlerError: errSecond})

		err := emitter.EmitEvent(context.Background(),
			NewCallCompletedEvent("github", "get_user", "GET", OutcomeNetworkError))
		assert.ErrorIs(t, err, errFirst)
		assert.ErrorIs(t, err, errSecond)
	})

	t.Run("concurrent registration and emission", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		handler := &MockEventHandler{}
		emitter.RegisterHandler(handler)

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				_ = emitter.EmitEvent(context.Background(),
					NewCallCompletedEvent("coingecko", "ping", "GET", OutcomeSuccess))
			}()
			go func() {
				defer wg.Done()
				emitter.RegisterHandler(&MockEventHandler{})
			}()
		}
		wg.Wait()

		assert.Equal(t, 20, handler.HandledCount)
	})
}
