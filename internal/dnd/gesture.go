// Package dnd implements drag gestures over the page model: a Handler that
// drives one gesture at a time, the controller capability set it dispatches
// to, and the container-page, favorites and image controllers.
package dnd

import (
	"slices"

	"golang.org/x/net/html"
)

// Point is a pointer position in page coordinates.
type Point struct {
	X, Y int
}

// Draggable is anything a gesture can pick up.
type Draggable interface {
	Node() *html.Node
}

// DropTarget is anything a gesture can drop into.
type DropTarget interface {
	Node() *html.Node
}

// State is the phase of a gesture.
type State int

const (
	StateIdle State = iota
	StateDragging
	StateDropped
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateDragging:
		return "dragging"
	case StateDropped:
		return "dropped"
	case StateCancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

// Gesture is the context of one drag from start to drop or cancel. It is
// owned by the Handler and handed to controllers on every transition.
type Gesture struct {
	ID           uint64
	Draggable    Draggable
	Origin       DropTarget
	Start        Point
	Position     Point
	VerticalOnly bool

	target  DropTarget
	index   int
	state   State
	targets []DropTarget
	values  map[any]any
}

func newGesture(id uint64, draggable Draggable, origin DropTarget, start Point) *Gesture {
	return &Gesture{
		ID:        id,
		Draggable: draggable,
		Origin:    origin,
		Start:     start,
		Position:  start,
		index:     -1,
		values:    map[any]any{},
	}
}

// Active reports whether the gesture is still dragging. Asynchronous
// callbacks check it before touching the document.
func (g *Gesture) Active() bool {
	return g != nil && g.state == StateDragging
}

// State returns the gesture phase.
func (g *Gesture) State() State { return g.state }

// Target returns the hovered drop target, or nil.
func (g *Gesture) Target() DropTarget { return g.target }

// Index returns the placeholder index within the hovered target.
func (g *Gesture) Index() int { return g.index }

// AddTarget registers an eligible drop target.
func (g *Gesture) AddTarget(target DropTarget) {
	if target != nil && !g.IsTarget(target) {
		g.targets = append(g.targets, target)
	}
}

// IsTarget reports whether target is eligible.
func (g *Gesture) IsTarget(target DropTarget) bool {
	return slices.Contains(g.targets, target)
}

// Targets returns the eligible drop targets.
func (g *Gesture) Targets() []DropTarget {
	return slices.Clone(g.targets)
}

// Value returns controller state stored under key.
func (g *Gesture) Value(key any) any {
	return g.values[key]
}

// SetValue stores controller state for the lifetime of the gesture.
func (g *Gesture) SetValue(key, value any) {
	g.values[key] = value
}
