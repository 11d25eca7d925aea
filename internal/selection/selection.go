// Package selection implements the keyboard state machine that tracks the
// active row of a result list.
package selection

import "fmt"

// None is the index meaning "no active row".
const None = -1

// Key is a navigation input.
type Key int

const (
	KeyNone Key = iota
	KeyDown
	KeyUp
	KeyEnter
	KeyEscape
)

func (k Key) String() string {
	switch k {
	case KeyDown:
		return "down"
	case KeyUp:
		return "up"
	case KeyEnter:
		return "enter"
	case KeyEscape:
		return "esc"
	default:
		return "none"
	}
}

// ParseKey maps terminal key names to navigation keys.
func ParseKey(s string) Key {
	switch s {
	case "down", "ctrl+n":
		return KeyDown
	case "up", "ctrl+p":
		return KeyUp
	case "enter":
		return KeyEnter
	case "esc":
		return KeyEscape
	default:
		return KeyNone
	}
}

// Effect is an action the owner must perform after a transition.
type Effect int

const (
	EffectNone Effect = iota
	EffectCommit
	EffectDismiss
)

// Policy decides what ArrowUp does when nothing is active.
type Policy int

const (
	// PolicyStay keeps the index at None.
	PolicyStay Policy = iota
	// PolicyJumpToLast activates the last row.
	PolicyJumpToLast
)

func (p Policy) String() string {
	if p == PolicyJumpToLast {
		return "last"
	}
	return "stay"
}

// ParsePolicy reads a policy name from configuration.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "stay":
		return PolicyStay, nil
	case "last":
		return PolicyJumpToLast, nil
	default:
		return PolicyStay, fmt.Errorf("unknown up policy %q (want \"stay\" or \"last\")", s)
	}
}

// Transition is the result of one step.
type Transition struct {
	Index  int
	Effect Effect
}

// Step computes the next index for key over a list of count rows.
// Movement clamps at both ends. Nothing happens while the list is empty.
func Step(index, count int, key Key, policy Policy) Transition {
	if count <= 0 {
		return Transition{Index: index}
	}

	switch key {
	case KeyDown:
		if index < None {
			index = None
		}
		return Transition{Index: min(index+1, count-1)}

	case KeyUp:
		if index <= None {
			if policy == PolicyJumpToLast {
				return Transition{Index: count - 1}
			}
			return Transition{Index: None}
		}
		return Transition{Index: max(min(index, count-1)-1, 0)}

	case KeyEnter:
		if index >= 0 && index < count {
			return Transition{Index: index, Effect: EffectCommit}
		}
		return Transition{Index: index}

	case KeyEscape:
		return Transition{Index: None, Effect: EffectDismiss}
	}

	return Transition{Index: index}
}

// Clamp forces index into [None, count-1].
func Clamp(index, count int) int {
	if index < 0 || count <= 0 {
		return None
	}
	if index >= count {
		return count - 1
	}
	return index
}
