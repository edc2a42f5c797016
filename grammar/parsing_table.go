package grammar

import (
	"fmt"
	"strconv"

	"github.com/dekarrin/rosed"
)

type ActionType string

const (
	ActionTypeShift  = ActionType("shift")
	ActionTypeReduce = ActionType("reduce")
	ActionTypeAccept = ActionType("accept")
	ActionTypeError  = ActionType("error")

	// ActionTypeGoTo only describes GOTO cells in conflict reports.
	ActionTypeGoTo = ActionType("goto")
)

// Action is an ACTION table entry. Num is the next state of a shift or the production number of a reduce.
type Action struct {
	Type ActionType
	Num  int
}

var actionError = Action{Type: ActionTypeError}

func NewShiftAction(state int) Action {
	return Action{Type: ActionTypeShift, Num: state}
}

func NewReduceAction(prod int) Action {
	return Action{Type: ActionTypeReduce, Num: prod}
}

func NewAcceptAction() Action {
	return Action{Type: ActionTypeAccept}
}

func (a Action) IsError() bool {
	return a.Type == ActionTypeError || a.Type == ""
}

// Code returns the cache form of the action: `s3`, `r2`, `acc`, or an empty string for an error. A reduce code
// carries the production number plus one.
func (a Action) Code() string {
	switch a.Type {
	case ActionTypeShift:
		return "s" + strconv.Itoa(a.Num)
	case ActionTypeReduce:
		return "r" + strconv.Itoa(a.Num+1)
	case ActionTypeAccept:
		return "acc"
	case ActionTypeGoTo:
		return strconv.Itoa(a.Num)
	}
	return ""
}

// ParseActionCode is the inverse of Action.Code.
func ParseActionCode(code string) (Action, error) {
	if code == "" {
		return actionError, nil
	}
	switch code[0] {
	case 's':
		n, err := strconv.Atoi(code[1:])
		if err != nil || n < 0 {
			return actionError, fmt.Errorf("invalid shift action: %q", code)
		}
		return NewShiftAction(n), nil
	case 'r':
		n, err := strconv.Atoi(code[1:])
		if err != nil || n < 1 {
			return actionError, fmt.Errorf("invalid reduce action: %q", code)
		}
		return NewReduceAction(n - 1), nil
	case 'a':
		if code != "acc" {
			return actionError, fmt.Errorf("invalid accept action: %q", code)
		}
		return NewAcceptAction(), nil
	}
	return actionError, fmt.Errorf("unknown action: %q", code)
}

func (a Action) describe() string {
	switch a.Type {
	case ActionTypeShift:
		return fmt.Sprintf("shift %v", a.Num)
	case ActionTypeReduce:
		return fmt.Sprintf("reduce %v", a.Num)
	case ActionTypeGoTo:
		return fmt.Sprintf("goto %v", a.Num)
	case ActionTypeAccept:
		return "accept"
	}
	return "error"
}

func (a Action) String() string {
	return fmt.Sprintf("ACTION<%v>", a.describe())
}

// ParseTable holds sparse ACTION and GOTO tables indexed by state number and symbol name. Terminals and
// NonTerminals fix the column order used by the cache and String.
type ParseTable struct {
	StateCount   int
	Terminals    []string
	NonTerminals []string

	action []map[string]Action
	goTo   []map[string]int
}

func NewParseTable(stateCount int, terminals, nonTerminals []string) *ParseTable {
	t := &ParseTable{
		StateCount:   stateCount,
		Terminals:    terminals,
		NonTerminals: nonTerminals,
		action:       make([]map[string]Action, stateCount),
		goTo:         make([]map[string]int, stateCount),
	}
	return t
}

// Action returns ACTION[state, terminal]. A cell never written reads as an error action.
func (t *ParseTable) Action(state int, terminal string) Action {
	if state < 0 || state >= t.StateCount || t.action[state] == nil {
		return actionError
	}
	act, ok := t.action[state][terminal]
	if !ok {
		return actionError
	}
	return act
}

// GoTo returns GOTO[state, sym]. sym may be a terminal or a non-terminal.
func (t *ParseTable) GoTo(state int, sym string) (int, bool) {
	if state < 0 || state >= t.StateCount || t.goTo[state] == nil {
		return 0, false
	}
	next, ok := t.goTo[state][sym]
	return next, ok
}

// SetAction writes ACTION[state, terminal]. Writing a different action into a written cell is a conflict.
func (t *ParseTable) SetAction(state int, terminal string, act Action) error {
	if state < 0 || state >= t.StateCount {
		return fmt.Errorf("state out of range: %v", state)
	}
	if t.action[state] == nil {
		t.action[state] = map[string]Action{}
	}
	if cur, ok := t.action[state][terminal]; ok {
		if cur == act {
			return nil
		}
		return newConflictError(state, terminal, cur, act, nil)
	}
	t.action[state][terminal] = act
	return nil
}

// SetGoTo writes GOTO[state, sym]. Writing a different state into a written cell is a conflict.
func (t *ParseTable) SetGoTo(state int, sym string, next int) error {
	if state < 0 || state >= t.StateCount {
		return fmt.Errorf("state out of range: %v", state)
	}
	if t.goTo[state] == nil {
		t.goTo[state] = map[string]int{}
	}
	if cur, ok := t.goTo[state][sym]; ok {
		if cur == next {
			return nil
		}
		return newConflictError(state, sym, Action{Type: ActionTypeGoTo, Num: cur}, Action{Type: ActionTypeGoTo, Num: next}, nil)
	}
	t.goTo[state][sym] = next
	return nil
}

// HasActionRow reports whether any ACTION cell of state is written.
func (t *ParseTable) HasActionRow(state int) bool {
	return state >= 0 && state < t.StateCount && len(t.action[state]) > 0
}

// HasGoToRow reports whether any GOTO cell of state is written.
func (t *ParseTable) HasGoToRow(state int) bool {
	return state >= 0 && state < t.StateCount && len(t.goTo[state]) > 0
}

func (t *ParseTable) HasAccept() bool {
	for _, row := range t.action {
		for _, act := range row {
			if act.Type == ActionTypeAccept {
				return true
			}
		}
	}
	return false
}

// ExpectedTerminals returns the terminals having a non-error action in state, in column order.
func (t *ParseTable) ExpectedTerminals(state int) []string {
	var terms []string
	for _, term := range t.Terminals {
		if !t.Action(state, term).IsError() {
			terms = append(terms, term)
		}
	}
	return terms
}

// Equals reports whether t and u have the same shape and the same cells.
func (t *ParseTable) Equals(u *ParseTable) bool {
	if t.StateCount != u.StateCount || len(t.Terminals) != len(u.Terminals) || len(t.NonTerminals) != len(u.NonTerminals) {
		return false
	}
	for i := range t.Terminals {
		if t.Terminals[i] != u.Terminals[i] {
			return false
		}
	}
	for i := range t.NonTerminals {
		if t.NonTerminals[i] != u.NonTerminals[i] {
			return false
		}
	}
	for s := 0; s < t.StateCount; s++ {
		if len(t.action[s]) != len(u.action[s]) || len(t.goTo[s]) != len(u.goTo[s]) {
			return false
		}
		for term, act := range t.action[s] {
			if u.Action(s, term) != act {
				return false
			}
		}
		for sym, next := range t.goTo[s] {
			if n, ok := u.GoTo(s, sym); !ok || n != next {
				return false
			}
		}
	}
	return true
}

// String renders the table with one row per state: the ACTION columns (`A:`) then the GOTO columns of
// non-terminals (`G:`).
func (t *ParseTable) String() string {
	data := [][]string{}
	headers := []string{"S", "|"}
	for _, term := range t.Terminals {
		headers = append(headers, fmt.Sprintf("A:%s", term))
	}
	headers = append(headers, "|")
	for _, nt := range t.NonTerminals {
		headers = append(headers, fmt.Sprintf("G:%s", nt))
	}
	data = append(data, headers)

	for s := 0; s < t.StateCount; s++ {
		row := []string{strconv.Itoa(s), "|"}
		for _, term := range t.Terminals {
			row = append(row, t.Action(s, term).Code())
		}
		row = append(row, "|")
		for _, nt := range t.NonTerminals {
			cell := ""
			if next, ok := t.GoTo(s, nt); ok {
				cell = strconv.Itoa(next)
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}

	return rosed.Edit("").InsertTableOpts(0, data, 10, rosed.Options{
		TableHeaders:             true,
		NoTrailingLineSeparators: true,
	}).String()
}
