package dnd

import (
	"errors"

	"github.com/goliatone/go-cms-editor/internal/logging"
	"github.com/goliatone/go-cms-editor/pkg/interfaces"
)

var (
	ErrGestureActive = errors.New("dnd: a gesture is already active")
	ErrNoGesture     = errors.New("dnd: no active gesture")
	ErrRejected      = errors.New("dnd: drag rejected")
)

// Handler drives one gesture at a time. Pointer geometry stays with the
// caller, which reports the hovered target and placeholder index on Move.
type Handler struct {
	controller Controller
	logger     interfaces.Logger
	gesture    *Gesture
	nextID     uint64
}

// NewHandler returns a handler dispatching to controller.
func NewHandler(controller Controller, logger interfaces.Logger) *Handler {
	return &Handler{controller: controller, logger: logging.OrNoOp(logger)}
}

// Gesture returns the active gesture, or nil.
func (h *Handler) Gesture() *Gesture {
	return h.gesture
}

// Start begins a gesture for draggable picked up from origin.
func (h *Handler) Start(draggable Draggable, origin DropTarget, pos Point) (*Gesture, error) {
	if h.gesture != nil {
		return nil, ErrGestureActive
	}
	h.nextID++
	g := newGesture(h.nextID, draggable, origin, pos)
	g.state = StateDragging
	if !h.controller.OnDragStart(g) {
		g.state = StateCancelled
		logging.WithGesture(h.logger, g.ID).Debug("dnd.drag.rejected")
		return nil, ErrRejected
	}
	h.gesture = g
	logging.WithGesture(h.logger, g.ID).Debug("dnd.drag.started", "targets", len(g.targets))
	return g, nil
}

// Move reports the pointer position with the target under it and the
// placeholder index computed for that target. Ineligible targets count as
// no target. It reports whether the placeholder position changed.
func (h *Handler) Move(pos Point, target DropTarget, index int) bool {
	g := h.gesture
	if !g.Active() {
		return false
	}
	if g.VerticalOnly {
		pos.X = g.Start.X
	}
	g.Position = pos
	if target != nil && !g.IsTarget(target) {
		target = nil
	}

	targetChanged := target != g.target
	if targetChanged {
		if g.target != nil {
			h.controller.OnTargetLeave(g, g.target)
		}
		g.target = target
		if target != nil {
			h.controller.OnTargetEnter(g, target)
		}
	}
	if target == nil {
		g.index = -1
		return targetChanged
	}
	if !targetChanged && index == g.index {
		return false
	}
	g.index = index
	h.controller.OnPositionedPlaceholder(g, target, index)
	return true
}

// Drop finishes the gesture on the hovered target. Without a target, or when
// a controller vetoes, the gesture is cancelled.
func (h *Handler) Drop() error {
	g := h.gesture
	if !g.Active() {
		return ErrNoGesture
	}
	if g.target == nil || !h.controller.OnBeforeDrop(g) {
		return h.Cancel()
	}
	h.controller.OnAnimationStart(g)
	g.state = StateDropped
	h.gesture = nil
	logging.WithGesture(h.logger, g.ID).Debug("dnd.drag.dropped", "index", g.index)
	h.controller.OnDrop(g, g.target, g.index)
	return nil
}

// Cancel aborts the gesture.
func (h *Handler) Cancel() error {
	g := h.gesture
	if !g.Active() {
		return ErrNoGesture
	}
	g.state = StateCancelled
	h.gesture = nil
	logging.WithGesture(h.logger, g.ID).Debug("dnd.drag.cancelled")
	h.controller.OnDragCancel(g)
	return nil
}
