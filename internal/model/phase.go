package model

// Phase is the room's current stage in the round lifecycle.
type Phase string

const (
	PhaseLobby   Phase = "lobby"
	PhaseWriting Phase = "writing"
	PhaseReveal  Phase = "reveal"
	PhaseVoting  Phase = "voting"
	PhaseResults Phase = "results"
	PhaseFinal   Phase = "final"
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	return string(p)
}

// CanTransitionTo checks if a transition from the current phase to the target
// phase is valid.
func (p Phase) CanTransitionTo(target Phase) bool {
	validTransitions := map[Phase][]Phase{
		PhaseLobby:   {PhaseWriting},
		PhaseWriting: {PhaseReveal, PhaseVoting},
		PhaseReveal:  {PhaseVoting},
		PhaseVoting:  {PhaseResults},
		PhaseResults: {PhaseWriting, PhaseFinal},
	}

	allowed, ok := validTransitions[p]
	if !ok {
		return false
	}

	for _, phase := range allowed {
		if phase == target {
			return true
		}
	}
	return false
}

// Revealed reports whether submissions are disclosed to everyone in this phase.
func (p Phase) Revealed() bool {
	switch p {
	case PhaseReveal, PhaseVoting, PhaseResults, PhaseFinal:
		return true
	}
	return false
}
