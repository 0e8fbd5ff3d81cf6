package strategy

import (
	"fmt"
	"strings"
)

// Action is a playing decision
type Action int

const (
	Hit Action = iota
	Stand
	Double
	Split
	Surrender
)

var actionNames = [...]string{"hit", "stand", "double", "split", "surrender"}

func (a Action) String() string {
	if a < Hit || a > Surrender {
		return "unknown"
	}
	return actionNames[a]
}

// ParseAction accepts full names and the single-key shortcuts used by the
// trainer (h, s, d, p, r).
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "h", "hit":
		return Hit, nil
	case "s", "stand":
		return Stand, nil
	case "d", "double", "dd":
		return Double, nil
	case "p", "split":
		return Split, nil
	case "r", "surrender", "sur":
		return Surrender, nil
	default:
		return 0, fmt.Errorf("unknown action %q", s)
	}
}

// ActionSet is a set of actions, used to describe what is currently legal
type ActionSet uint8

// AllActions contains every action
var AllActions = NewActionSet(Hit, Stand, Double, Split, Surrender)

// NewActionSet builds a set from the given actions
func NewActionSet(actions ...Action) ActionSet {
	var s ActionSet
	for _, a := range actions {
		s = s.With(a)
	}
	return s
}

// Has reports whether a is in the set
func (s ActionSet) Has(a Action) bool {
	return s&(1<<a) != 0
}

// With returns the set with a added
func (s ActionSet) With(a Action) ActionSet {
	return s | 1<<a
}

// Without returns the set with a removed
func (s ActionSet) Without(a Action) ActionSet {
	return s &^ (1 << a)
}

// Intersect returns actions present in both sets
func (s ActionSet) Intersect(o ActionSet) ActionSet {
	return s & o
}

// Actions lists the members in declaration order
func (s ActionSet) Actions() []Action {
	var out []Action
	for a := Hit; a <= Surrender; a++ {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s ActionSet) String() string {
	names := make([]string, 0, 5)
	for _, a := range s.Actions() {
		names = append(names, a.String())
	}
	return "[" + strings.Join(names, " ") + "]"
}
