package analysis

import (
	"fmt"
	"io"

	"github.com/logrusorgru/aurora"
	"github.com/zeu5/taxi-mdp/mdp"
	"github.com/zeu5/taxi-mdp/policies"
)

// GridPrinter prints a policy table as a coloured grid, north up.
type GridPrinter struct {
	au aurora.Aurora
}

func NewGridPrinter(colors bool) *GridPrinter {
	return &GridPrinter{
		au: aurora.NewAurora(colors),
	}
}

// PrintPolicyGrid prints the grid with colours enabled.
func PrintPolicyGrid(w io.Writer, table *policies.Table, passenger mdp.Passenger) {
	NewGridPrinter(true).Print(w, table, passenger)
}

func (g *GridPrinter) symbol(a mdp.Action, ok bool) aurora.Value {
	s := fmt.Sprintf(" %s ", policies.Symbol(a, ok))
	switch {
	case !ok || !a.Valid():
		return g.au.Red(s)
	case a == mdp.Pick:
		return g.au.Yellow(s)
	case a == mdp.Drop:
		return g.au.Green(s)
	}
	return g.au.Cyan(s)
}

// Print writes the policy for every taxi cell given the passenger status.
// The passenger's origin and destination cells are highlighted.
func (g *GridPrinter) Print(w io.Writer, table *policies.Table, passenger mdp.Passenger) {
	n := table.GridSize()
	fmt.Fprintln(w, g.au.Bold(fmt.Sprintf("Policy (%s), grid %dx%d", passenger.Kind, n, n)))
	for y := n - 1; y >= 0; y-- {
		fmt.Fprint(w, g.au.White("|"))
		for x := 0; x < n; x++ {
			cell := mdp.Position{X: x, Y: y}
			a, ok := table.Get(mdp.NewState(cell, passenger), mdp.North)
			sym := g.symbol(a, ok)
			if marked(cell, passenger) {
				sym = g.au.Inverse(sym)
			}
			fmt.Fprint(w, sym)
			fmt.Fprint(w, g.au.White("|"))
		}
		fmt.Fprintln(w)
	}
}

func marked(cell mdp.Position, p mdp.Passenger) bool {
	switch p.Kind {
	case mdp.Waiting:
		return cell == p.Origin || cell == p.Destination
	case mdp.InTaxi:
		return cell == p.Destination
	}
	return false
}
