package policies

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zeu5/taxi-mdp/mdp"
	"github.com/zeu5/taxi-mdp/solver"
	"github.com/zeu5/taxi-mdp/util"
)

var (
	ErrEmptyPolicy   = errors.New("policies: policy is empty")
	ErrInvalidAction = errors.New("policies: invalid action")
)

// Table is a read-mostly view over a policy, either produced by the solver or
// loaded from a file. Loaded tables may be partial or target another grid.
type Table struct {
	table    map[mdp.State]mdp.Action
	gridSize int
}

func NewTable(table map[mdp.State]mdp.Action, gridSize int) *Table {
	if table == nil {
		table = make(map[mdp.State]mdp.Action)
	}
	return &Table{
		table:    table,
		gridSize: gridSize,
	}
}

func FromResult(r *solver.Result) *Table {
	return NewTable(r.Policy(), r.Space.GridSize())
}

func (t *Table) GridSize() int {
	return t.gridSize
}

// Get returns the action for the state, or def and false when the state is
// not in the table.
func (t *Table) Get(state mdp.State, def mdp.Action) (mdp.Action, bool) {
	action, ok := t.table[state]
	if !ok {
		return def, false
	}
	return action, true
}

func (t *Table) Set(state mdp.State, action mdp.Action) {
	t.table[state] = action
}

func (t *Table) Has(state mdp.State) bool {
	_, ok := t.table[state]
	return ok
}

func (t *Table) Len() int {
	return len(t.table)
}

type Stats struct {
	TotalStates        int            `json:"total_states"`
	ActionDistribution map[string]int `json:"action_distribution"`
	// Fraction of the grid's state universe present in the table
	Coverage float64 `json:"coverage"`
}

func (t *Table) Statistics() Stats {
	stats := Stats{
		TotalStates:        len(t.table),
		ActionDistribution: make(map[string]int),
	}
	if t.gridSize <= 0 {
		for _, a := range t.table {
			stats.ActionDistribution[a.String()]++
		}
		return stats
	}
	space := mdp.NewStateSpace(t.gridSize)
	covered := 0
	for s, a := range t.table {
		stats.ActionDistribution[a.String()]++
		if space.Contains(s) {
			covered++
		}
	}
	stats.Coverage = float64(covered) / float64(space.Len())
	return stats
}

// Validate fails on an empty table or on any action outside the six actions.
func (t *Table) Validate() error {
	if len(t.table) == 0 {
		return ErrEmptyPolicy
	}
	for s, a := range t.table {
		if !a.Valid() {
			return fmt.Errorf("%w %s for state %s", ErrInvalidAction, a, s)
		}
	}
	return nil
}

func (t *Table) Valid() bool {
	return t.Validate() == nil
}

// Record exports the table as a JSON object from state key to action name.
func (t *Table) Record(path string) error {
	out := make(map[string]string, len(t.table))
	for s, a := range t.table {
		out[s.Key()] = a.String()
	}
	return util.SaveJson(path, out)
}

// ReadTable imports a file written by Record. Unknown action names are kept
// as invalid actions so that Validate reports them.
func ReadTable(path string, gridSize int) (*Table, error) {
	in := make(map[string]string)
	if err := util.ReadJson(path, &in); err != nil {
		return nil, fmt.Errorf("error reading policy file: %w", err)
	}
	t := NewTable(make(map[mdp.State]mdp.Action, len(in)), gridSize)
	for key, name := range in {
		state, err := mdp.ParseState(key)
		if err != nil {
			return nil, fmt.Errorf("error reading policy file contents: %w", err)
		}
		action, err := mdp.ParseAction(name)
		if err != nil {
			action = mdp.Action(-1)
		}
		t.table[state] = action
	}
	return t, nil
}

var gridSymbols = map[mdp.Action]string{
	mdp.North: "↑",
	mdp.South: "↓",
	mdp.East:  "→",
	mdp.West:  "←",
	mdp.Pick:  "P",
	mdp.Drop:  "D",
}

// Symbol is the one character grid glyph of an action, "?" if unknown.
func Symbol(a mdp.Action, ok bool) string {
	if s, found := gridSymbols[a]; ok && found {
		return s
	}
	return "?"
}

// Grid renders the policy of the given passenger status as text, north up.
func (t *Table) Grid(passenger mdp.Passenger) string {
	b := new(strings.Builder)
	rule := strings.Repeat("=", 50)
	fmt.Fprintln(b, rule)
	fmt.Fprintf(b, "Taxi Policy Grid - %s\n", describe(passenger))
	fmt.Fprintln(b, rule)
	fmt.Fprintln(b)
	for y := t.gridSize - 1; y >= 0; y-- {
		cells := make([]string, t.gridSize)
		for x := 0; x < t.gridSize; x++ {
			a, ok := t.Get(mdp.NewState(mdp.Position{X: x, Y: y}, passenger), mdp.North)
			cells[x] = " " + Symbol(a, ok) + " "
		}
		fmt.Fprintln(b, "|"+strings.Join(cells, "|")+"|")
	}
	fmt.Fprintln(b)
	fmt.Fprintln(b, "Legend:")
	fmt.Fprintln(b, "  ↑ = North, ↓ = South, → = East, ← = West")
	fmt.Fprintln(b, "  P = Pick up, D = Drop off")
	return b.String()
}

// RecordGrid writes the empty-taxi grid to path.
func (t *Table) RecordGrid(path string) error {
	if err := util.EnsureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(t.Grid(mdp.None)), 0644)
}

func describe(p mdp.Passenger) string {
	switch p.Kind {
	case mdp.Waiting:
		return fmt.Sprintf("Passenger Waiting %s -> %s", p.Origin, p.Destination)
	case mdp.InTaxi:
		return fmt.Sprintf("Passenger In Taxi -> %s", p.Destination)
	}
	return "No Passenger"
}
