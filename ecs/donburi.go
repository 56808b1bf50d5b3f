package ecs

import (
	"github.com/phanxgames/spritefield"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// StateChanged is published whenever the controller's rendered state
// changes: after every setter, randomize call and transition frame.
type StateChanged struct {
	State spritefield.GeneratorState
	// Transitioning is true for interpolated frames of a transition.
	Transitioning bool
}

// StateChangedType is the Donburi event type for controller state changes.
var StateChangedType = events.NewEventType[StateChanged]()

// Bridge publishes ctrl's state changes into world until the returned
// function is called. Events are queued; consume them with
// StateChangedType.ProcessEvents.
func Bridge(world donburi.World, ctrl *spritefield.Controller) (unbind func()) {
	return ctrl.Subscribe(func(s spritefield.GeneratorState) {
		StateChangedType.Publish(world, StateChanged{
			State:         s,
			Transitioning: ctrl.Transitioning(),
		})
	})
}
