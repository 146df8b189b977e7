package dnd

// Controller receives the transitions of a gesture.
type Controller interface {
	// OnDragStart accepts or rejects the gesture and registers targets.
	OnDragStart(g *Gesture) bool
	OnTargetEnter(g *Gesture, target DropTarget)
	OnTargetLeave(g *Gesture, target DropTarget)
	// OnPositionedPlaceholder runs when the target or the index changed.
	OnPositionedPlaceholder(g *Gesture, target DropTarget, index int)
	// OnBeforeDrop may veto the drop, which cancels the gesture instead.
	OnBeforeDrop(g *Gesture) bool
	OnAnimationStart(g *Gesture)
	OnDrop(g *Gesture, target DropTarget, index int)
	OnDragCancel(g *Gesture)
}

type compositeKey struct{}

// Composite fans transitions out to sub-controllers in registration order.
// Only controllers that accepted the drag start see the later transitions.
type Composite struct {
	controllers []Controller
}

// NewComposite returns a composite over controllers.
func NewComposite(controllers ...Controller) *Composite {
	c := &Composite{}
	for _, controller := range controllers {
		c.Add(controller)
	}
	return c
}

// Add registers a controller.
func (c *Composite) Add(controller Controller) {
	if controller != nil {
		c.controllers = append(c.controllers, controller)
	}
}

// Remove unregisters a controller.
func (c *Composite) Remove(controller Controller) {
	for i, existing := range c.controllers {
		if existing == controller {
			c.controllers = append(c.controllers[:i], c.controllers[i+1:]...)
			return
		}
	}
}

func (c *Composite) accepted(g *Gesture) []Controller {
	list, _ := g.Value(compositeKey{}).([]Controller)
	return list
}

func (c *Composite) OnDragStart(g *Gesture) bool {
	var accepted []Controller
	for _, controller := range c.controllers {
		if controller.OnDragStart(g) {
			accepted = append(accepted, controller)
		}
	}
	g.SetValue(compositeKey{}, accepted)
	return len(accepted) > 0
}

func (c *Composite) OnTargetEnter(g *Gesture, target DropTarget) {
	for _, controller := range c.accepted(g) {
		controller.OnTargetEnter(g, target)
	}
}

func (c *Composite) OnTargetLeave(g *Gesture, target DropTarget) {
	for _, controller := range c.accepted(g) {
		controller.OnTargetLeave(g, target)
	}
}

func (c *Composite) OnPositionedPlaceholder(g *Gesture, target DropTarget, index int) {
	for _, controller := range c.accepted(g) {
		controller.OnPositionedPlaceholder(g, target, index)
	}
}

func (c *Composite) OnBeforeDrop(g *Gesture) bool {
	for _, controller := range c.accepted(g) {
		if !controller.OnBeforeDrop(g) {
			return false
		}
	}
	return true
}

func (c *Composite) OnAnimationStart(g *Gesture) {
	for _, controller := range c.accepted(g) {
		controller.OnAnimationStart(g)
	}
}

func (c *Composite) OnDrop(g *Gesture, target DropTarget, index int) {
	for _, controller := range c.accepted(g) {
		controller.OnDrop(g, target, index)
	}
}

func (c *Composite) OnDragCancel(g *Gesture) {
	for _, controller := range c.accepted(g) {
		controller.OnDragCancel(g)
	}
}
