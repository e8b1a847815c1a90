package dashboard

import "time"

// Phase is where an Animation is in its cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseActive
	PhaseSettling
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseSettling:
		return "settling"
	default:
		return "idle"
	}
}

// Transition asks the owner to call Step(Gen) after After has elapsed. In
// the TUI this becomes a tea.Tick.
type Transition struct {
	Gen   uint64
	After time.Duration
}

// Animation is a retriggerable visual state: Trigger enters the active
// phase, then timed steps move it through settling back to idle.
// Retriggering bumps the generation, so steps scheduled by an earlier
// trigger are ignored.
type Animation struct {
	Active time.Duration
	Settle time.Duration

	phase Phase
	gen   uint64
}

// NewAnimation creates an idle animation. A zero settle goes straight from
// active to idle.
func NewAnimation(active, settle time.Duration) *Animation {
	return &Animation{Active: active, Settle: settle}
}

// Phase returns the current phase.
func (a *Animation) Phase() Phase { return a.phase }

// Gen returns the current generation.
func (a *Animation) Gen() uint64 { return a.gen }

// Trigger (re)starts the animation.
func (a *Animation) Trigger() Transition {
	a.gen++
	a.phase = PhaseActive
	return Transition{Gen: a.gen, After: a.Active}
}

// Step advances one phase if gen is current. It returns the next transition
// to schedule, or false when there is nothing left to schedule.
func (a *Animation) Step(gen uint64) (Transition, bool) {
	if gen != a.gen {
		return Transition{}, false
	}
	switch a.phase {
	case PhaseActive:
		if a.Settle > 0 {
			a.phase = PhaseSettling
			return Transition{Gen: a.gen, After: a.Settle}, true
		}
		a.phase = PhaseIdle
	case PhaseSettling:
		a.phase = PhaseIdle
	}
	return Transition{}, false
}

// Reset returns the animation to idle and invalidates pending steps.
func (a *Animation) Reset() {
	a.gen++
	a.phase = PhaseIdle
}
