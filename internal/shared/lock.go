package shared

// LockState is the outcome of a lock-and-check-modification call.
type LockState int

const (
	LockSuccess LockState = iota
	LockLockedByOther
	LockChangedSinceOpened
	LockError
)

func (s LockState) String() string {
	switch s {
	case LockSuccess:
		return "success"
	case LockLockedByOther:
		return "locked"
	case LockChangedSinceOpened:
		return "changed"
	default:
		return "error"
	}
}

// LockInfo is returned by the core service for one lock attempt.
type LockInfo struct {
	State   LockState `json:"state"`
	Owner   string    `json:"owner,omitempty"`
	Message string    `json:"message,omitempty"`
}

// Success reports whether the lock was obtained.
func (l LockInfo) Success() bool {
	return l.State == LockSuccess
}

// LockStatus is the session-level lock state of the container page.
type LockStatus int

const (
	LockStatusUnknown LockStatus = iota
	LockStatusLocked
	LockStatusFailed
)

func (s LockStatus) String() string {
	switch s {
	case LockStatusLocked:
		return "locked"
	case LockStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}
