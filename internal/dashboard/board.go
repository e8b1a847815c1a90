package dashboard

import (
	"time"

	"github.com/rileyhilliard/socdash/internal/soc"
)

// AnimKey names one animation on the board.
type AnimKey string

func statKey(f StatField) AnimKey { return AnimKey("stat:" + f.Label()) }

func cardKey(scenario string) AnimKey { return AnimKey("card:" + scenario) }

// Scheduled is a pending animation step the owner must deliver back via
// Board.Step once After has elapsed.
type Scheduled struct {
	Key AnimKey
	Transition
}

// Threat card status lines.
const (
	CardWatching  = "👁️ Watching for attacks"
	CardDetected  = "🚨 THREAT DETECTED! Analyzing..."
	CardProcessed = "✅ Threat processed and blocked!"
)

// ThreatCard is the local state of one simulate button.
type ThreatCard struct {
	Scenario soc.Scenario
	Status   string
	Count    int
	anim     *Animation
}

// Detected reports whether the card is still showing a simulation.
func (c ThreatCard) Detected() bool {
	return c.anim != nil && c.anim.Phase() != PhaseIdle
}

// Board is what is currently on screen. It differs from the Store in two
// ways: absent stat fields keep their previous value, and every visible
// change can carry an animation.
type Board struct {
	values map[StatField]string
	pulses map[StatField]*Animation
	cards  []*ThreatCard
	pulse  time.Duration
	reset  time.Duration
}

// NewBoard creates a board with every stat unset and one idle threat card
// per scenario. pulse is the length of each stat emphasis phase; reset is
// how long a threat card stays in the detected state.
func NewBoard(pulse, reset time.Duration) *Board {
	b := &Board{
		values: make(map[StatField]string),
		pulses: make(map[StatField]*Animation),
		pulse:  pulse,
		reset:  reset,
	}
	for _, f := range StatFields {
		b.pulses[f] = NewAnimation(pulse, pulse)
	}
	for _, sc := range soc.Scenarios() {
		b.cards = append(b.cards, &ThreatCard{
			Scenario: sc,
			Status:   CardWatching,
			anim:     NewAnimation(reset, 0),
		})
	}
	return b
}

// Value returns the displayed text for f, or "--" before the first stats
// response.
func (b *Board) Value(f StatField) string {
	if v, ok := b.values[f]; ok {
		return v
	}
	return "--"
}

// Pulse returns the emphasis phase of f.
func (b *Board) Pulse(f StatField) Phase {
	return b.pulses[f].Phase()
}

// ApplyStats writes s to the cards. Values change immediately; each field
// whose text actually changed also starts a pulse, returned for scheduling.
// Only numeric fields pulse.
func (b *Board) ApplyStats(s soc.Stat) []Scheduled {
	var out []Scheduled
	for _, u := range StatInstructions(s) {
		prev, had := b.values[u.Field]
		b.values[u.Field] = u.Value
		if had && prev == u.Value {
			continue
		}
		if !u.Field.Numeric() || b.pulse <= 0 {
			continue
		}
		t := b.pulses[u.Field].Trigger()
		out = append(out, Scheduled{Key: statKey(u.Field), Transition: t})
	}
	return out
}

// Cards returns the threat cards in scenario order.
func (b *Board) Cards() []ThreatCard {
	out := make([]ThreatCard, len(b.cards))
	for i, c := range b.cards {
		out[i] = *c
	}
	return out
}

func (b *Board) card(scenario string) *ThreatCard {
	for _, c := range b.cards {
		if c.Scenario.Key == scenario {
			return c
		}
	}
	return nil
}

// Detect puts a threat card into the detected state and bumps its counter.
// Re-detecting restarts the reset timer.
func (b *Board) Detect(scenario string) (Scheduled, bool) {
	c := b.card(scenario)
	if c == nil {
		return Scheduled{}, false
	}
	c.Count++
	c.Status = CardDetected
	t := c.anim.Trigger()
	return Scheduled{Key: cardKey(scenario), Transition: t}, true
}

// Processed marks a detected card's simulation as accepted by the backend.
func (b *Board) Processed(scenario string) {
	if c := b.card(scenario); c != nil && c.Detected() {
		c.Status = CardProcessed
	}
}

// Step delivers a scheduled transition back to its animation.
func (b *Board) Step(key AnimKey, gen uint64) (Scheduled, bool) {
	for f, a := range b.pulses {
		if statKey(f) != key {
			continue
		}
		t, ok := a.Step(gen)
		return Scheduled{Key: key, Transition: t}, ok
	}
	for _, c := range b.cards {
		if cardKey(c.Scenario.Key) != key {
			continue
		}
		t, ok := c.anim.Step(gen)
		if c.anim.Phase() == PhaseIdle {
			c.Status = CardWatching
		}
		return Scheduled{Key: key, Transition: t}, ok
	}
	return Scheduled{}, false
}
