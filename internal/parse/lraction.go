package parse

import (
	"fmt"
)

type LRActionType int

const (
	LRShift LRActionType = iota
	LRReduce
	LRAccept
)

func (t LRActionType) String() string {
	switch t {
	case LRShift:
		return "shift"
	case LRReduce:
		return "reduce"
	case LRAccept:
		return "accept"
	default:
		return fmt.Sprintf("LRActionType(%d)", int(t))
	}
}

type LRAction struct {
	Type LRActionType

	// NonTerminal is used when Type is LRReduce. It is the A of the production
	// A -> β being reduced.
	NonTerminal string

	// Production is used when Type is LRReduce. It is the index of β among
	// the productions of NonTerminal.
	Production int

	// State is the state to shift to. It is used only when Type is LRShift.
	State int
}

func (act LRAction) String() string {
	switch act.Type {
	case LRAccept:
		return "ACTION<accept>"
	case LRReduce:
		return fmt.Sprintf("ACTION<reduce %s[%d]>", act.NonTerminal, act.Production)
	case LRShift:
		return fmt.Sprintf("ACTION<shift %d>", act.State)
	default:
		return "ACTION<unknown>"
	}
}

func (act LRAction) Equal(o any) bool {
	other, ok := o.(LRAction)
	if !ok {
		otherPtr, ok := o.(*LRAction)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if act.Type != other.Type {
		return false
	}

	switch act.Type {
	case LRShift:
		return act.State == other.State
	case LRReduce:
		return act.NonTerminal == other.NonTerminal && act.Production == other.Production
	default:
		return true
	}
}

func sameAction(a, b LRAction) bool {
	return a.Equal(b)
}
