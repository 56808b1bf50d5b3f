package spritefield

import "time"

// Sequencer plays a list of steps through a controller: each step is
// applied with its transition, then held for its hold time.
type Sequencer struct {
	ctrl    *Controller
	steps   []SequenceStep
	loop    bool
	index   int // next step to apply
	waiting time.Duration
}

// NewSequencer returns a sequencer that starts with the first step on its
// first Update.
func NewSequencer(c *Controller, steps []SequenceStep, loop bool) *Sequencer {
	return &Sequencer{ctrl: c, steps: steps, loop: loop}
}

// Done reports whether every step has been applied and held.
func (s *Sequencer) Done() bool {
	return !s.loop && s.index >= len(s.steps) && s.waiting <= 0
}

// Update advances the sequence by dt, applying the next step when the
// current one has been held long enough.
func (s *Sequencer) Update(dt time.Duration) {
	if len(s.steps) == 0 || s.ctrl.Paused() {
		return
	}
	s.waiting -= dt
	if s.waiting > 0 {
		return
	}
	if s.index >= len(s.steps) {
		if !s.loop {
			return
		}
		s.index = 0
	}
	step := s.steps[s.index]
	s.index++
	s.ctrl.ApplyState(step.State, step.Transition)
	s.waiting = s.ctrl.transitionDuration(step.Transition) + step.Hold
	Logger().Info("sequence step", "index", s.index-1, "transition", step.Transition, "hold", step.Hold)
}
