package containerpage

import (
	"context"
	"time"

	"github.com/goliatone/go-cms-editor/pkg/interfaces"
)

// Option configures a Controller.
type Option func(*Controller)

// WithLoggerProvider derives the controller and adapter loggers from provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Controller) {
		c.loggerProvider = provider
	}
}

// WithNotifier sets the sink for user-facing messages.
func WithNotifier(notifier interfaces.Notifier) Option {
	return func(c *Controller) {
		if notifier != nil {
			c.notifier = notifier
		}
	}
}

// WithToolbar sets the toolbar receiving save/reset enablement.
func WithToolbar(toolbar interfaces.Toolbar) Option {
	return func(c *Controller) {
		if toolbar != nil {
			c.toolbar = toolbar
		}
	}
}

// WithContext sets the parent context of every RPC call.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// WithRPCTimeout bounds each RPC call. Zero leaves calls unbounded.
func WithRPCTimeout(timeout time.Duration) Option {
	return func(c *Controller) {
		c.timeout = timeout
	}
}

// WithMaxRecent caps the recent list.
func WithMaxRecent(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.maxRecent = n
		}
	}
}

// WithPublishLockInterval sets the publish-lock polling interval.
func WithPublishLockInterval(interval time.Duration) Option {
	return func(c *Controller) {
		if interval > 0 {
			c.publishLockInterval = interval
		}
	}
}

// WithGroupContainers enables or disables group-container edit mode.
func WithGroupContainers(enabled bool) Option {
	return func(c *Controller) {
		c.groupEditDisabled = !enabled
	}
}

// WithRecentList enables or disables recording of the recent list.
func WithRecentList(enabled bool) Option {
	return func(c *Controller) {
		c.recentDisabled = !enabled
	}
}

type noopNotifier struct{}

func (noopNotifier) Notify(interfaces.NotificationKind, string, string) {}

type noopToolbar struct{}

func (noopToolbar) SetSaveEnabled(bool) {}
