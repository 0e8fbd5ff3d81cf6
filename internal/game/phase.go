package game

// Phase is where a session is in the round lifecycle
type Phase int

const (
	// PhaseBetting waits for DealInitialHands
	PhaseBetting Phase = iota
	// PhaseInsurance waits for the insurance answer against a dealer Ace
	PhaseInsurance
	// PhasePlayer waits for PlayerAction on the active hand
	PhasePlayer
	// PhaseDealer waits for the caller to step the dealer
	PhaseDealer
	// PhaseSettle waits for Settle
	PhaseSettle
)

var phaseNames = [...]string{"betting", "insurance", "player", "dealer", "settle"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// HoleCardHidden reports whether the dealer's second card is face down
func (p Phase) HoleCardHidden() bool {
	return p == PhaseInsurance || p == PhasePlayer
}
