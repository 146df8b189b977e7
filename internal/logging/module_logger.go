package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-cms-editor/pkg/interfaces"
)

const (
	rootModule        = "editor"
	controllerModule  = "editor.controller"
	adapterModule     = "editor.adapter"
	dndModule         = "editor.dnd"
	publishLockModule = "editor.publishlock"
	backendModule     = "editor.backend"
	transportModule   = "editor.transport"
)

const (
	fieldClientID  = "client_id"
	fieldContainer = "container"
	fieldGesture   = "gesture"
)

// ModuleLogger returns a logger scoped to module. A nil provider yields the
// no-op logger. Every returned logger carries a "module" field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ControllerLogger is used by the container-page controller.
func ControllerLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, controllerModule)
}

// AdapterLogger is used by the marker-scanning DOM adapter.
func AdapterLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, adapterModule)
}

// DNDLogger is used by drag-and-drop handlers and controllers.
func DNDLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, dndModule)
}

// PublishLockLogger is used by the publish-lock poller.
func PublishLockLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, publishLockModule)
}

// BackendLogger is used by the in-process service implementation.
func BackendLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, backendModule)
}

// TransportLogger is used by the HTTP transport.
func TransportLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, transportModule)
}

// WithElementContext attaches the element client id and container name when
// they are known. Blank values are skipped.
func WithElementContext(logger interfaces.Logger, clientID, container string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(clientID); trimmed != "" {
		fields[fieldClientID] = trimmed
	}
	if trimmed := strings.TrimSpace(container); trimmed != "" {
		fields[fieldContainer] = trimmed
	}
	return WithFields(logger, fields)
}

// WithGesture tags entries emitted during a single drag gesture.
func WithGesture(logger interfaces.Logger, gestureID uint64) interfaces.Logger {
	return WithFields(logger, map[string]any{fieldGesture: gestureID})
}

// NoOp returns a logger that discards everything.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
