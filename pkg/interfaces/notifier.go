package interfaces

// NotificationKind classifies user-facing messages raised by the editor.
type NotificationKind string

const (
	NotificationInfo    NotificationKind = "info"
	NotificationWarning NotificationKind = "warning"
	NotificationError   NotificationKind = "error"
)

// Notifier surfaces messages to the person editing the page. Implementations
// typically render a toast or a blocking dialog.
type Notifier interface {
	Notify(kind NotificationKind, code, message string)
}

// Toolbar receives enable/disable signals for the save and reset actions.
type Toolbar interface {
	SetSaveEnabled(enabled bool)
}
