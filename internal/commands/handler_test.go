package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type pingMessage struct{ invalid bool }

func (pingMessage) Type() string { return "editor.test.ping" }

func (m pingMessage) Validate() error {
	if m.invalid {
		return errors.New("invalid ping")
	}
	return nil
}

func TestHandlerExecuteRunsFunction(t *testing.T) {
	called := false
	h := NewHandler(func(ctx context.Context, msg pingMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), pingMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuits(t *testing.T) {
	called := false
	h := NewHandler(func(ctx context.Context, msg pingMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), pingMessage{invalid: true})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("handler must not run for invalid messages")
	}
}

func TestHandlerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler(func(ctx context.Context, msg pingMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, pingMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if called {
		t.Fatal("handler must not run with a cancelled context")
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	h := NewHandler(func(ctx context.Context, msg pingMessage) error {
		return errors.New("boom")
	})

	err := h.Execute(context.Background(), pingMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestHandlerKeepsCategorisedErrors(t *testing.T) {
	notFound := goerrors.Wrap(errors.New("missing"), goerrors.CategoryNotFound, "element not found")
	h := NewHandler(func(ctx context.Context, msg pingMessage) error {
		return notFound
	})

	err := h.Execute(context.Background(), pingMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected not found category to survive, got %v", err)
	}
}

func TestHandlerTimeout(t *testing.T) {
	h := NewHandler(func(ctx context.Context, msg pingMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
			return nil
		}
	}, WithTimeout[pingMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), pingMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
}
