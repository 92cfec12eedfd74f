package policies_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeu5/taxi-mdp/mdp"
	"github.com/zeu5/taxi-mdp/policies"
	"github.com/zeu5/taxi-mdp/solver"
)

func pos(x, y int) mdp.Position {
	return mdp.Position{X: x, Y: y}
}

func solve(t *testing.T, gridSize int) *solver.Result {
	t.Helper()
	cfg := solver.DefaultConfig()
	cfg.GridSize = gridSize
	sv, err := solver.NewSolver(cfg)
	require.NoError(t, err)
	return sv.Solve()
}

func TestTable_Get(t *testing.T) {
	known := mdp.NewState(pos(0, 0), mdp.None)
	table := policies.NewTable(map[mdp.State]mdp.Action{known: mdp.East}, 3)

	a, ok := table.Get(known, mdp.North)
	require.True(t, ok)
	require.Equal(t, mdp.East, a)

	a, ok = table.Get(mdp.NewState(pos(5, 5), mdp.None), mdp.West)
	require.False(t, ok)
	require.Equal(t, mdp.West, a)
	require.True(t, table.Has(known))
	require.Equal(t, 1, table.Len())
}

func TestTable_Validate(t *testing.T) {
	require.ErrorIs(t, policies.NewTable(nil, 3).Validate(), policies.ErrEmptyPolicy)
	require.False(t, policies.NewTable(nil, 3).Valid())

	table := policies.NewTable(map[mdp.State]mdp.Action{
		mdp.NewState(pos(0, 0), mdp.None): mdp.North,
	}, 3)
	require.True(t, table.Valid())

	table.Set(mdp.NewState(pos(1, 0), mdp.None), mdp.Action(9))
	require.ErrorIs(t, table.Validate(), policies.ErrInvalidAction)
}

func TestTable_Statistics(t *testing.T) {
	table := policies.NewTable(map[mdp.State]mdp.Action{
		mdp.NewState(pos(0, 0), mdp.None):                   mdp.North,
		mdp.NewState(pos(1, 0), mdp.None):                   mdp.North,
		mdp.NewState(pos(1, 1), mdp.NewInTaxi(pos(1, 1))):   mdp.Drop,
		mdp.NewState(pos(7, 7), mdp.NewInTaxi(pos(1, 1))):   mdp.Drop,
		mdp.NewState(pos(0, 0), mdp.NewWaiting(pos(0, 0), pos(1, 1))): mdp.Pick,
	}, 2)
	stats := table.Statistics()
	require.Equal(t, 5, stats.TotalStates)
	require.Equal(t, map[string]int{"n": 2, "drop": 2, "pick": 1}, stats.ActionDistribution)
	// one state lies outside the 2×2 universe of 84 states
	require.InDelta(t, 4.0/84.0, stats.Coverage, 1e-12)
}

func TestTable_FromResult(t *testing.T) {
	r := solve(t, 3)
	table := policies.FromResult(r)
	require.True(t, table.Valid())
	require.Equal(t, 819, table.Len())
	stats := table.Statistics()
	require.Equal(t, 1.0, stats.Coverage)

	total := 0
	for _, n := range stats.ActionDistribution {
		total += n
	}
	require.Equal(t, 819, total)
}

// TestTable_RecordRead exports a solved policy and imports it back.
func TestTable_RecordRead(t *testing.T) {
	table := policies.FromResult(solve(t, 2))
	path := filepath.Join(t.TempDir(), "out", "policy.json")
	require.NoError(t, table.Record(path))

	loaded, err := policies.ReadTable(path, 2)
	require.NoError(t, err)
	require.Equal(t, table.Len(), loaded.Len())
	for _, s := range mdp.GenerateStates(2) {
		want, _ := table.Get(s, mdp.North)
		got, ok := loaded.Get(s, mdp.North)
		require.True(t, ok, "%s", s)
		require.Equal(t, want, got, "%s", s)
	}
}

func TestReadTable_UnknownAction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.json")
	content := `{"((0, 0), ('none', None))": "teleport", "((1, 0), ('none', None))": "e"}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	loaded, err := policies.ReadTable(path, 2)
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Len())
	require.ErrorIs(t, loaded.Validate(), policies.ErrInvalidAction)
}

func TestReadTable_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := policies.ReadTable(filepath.Join(dir, "missing.json"), 2)
	require.Error(t, err)

	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not a state": "n"}`), 0644))
	_, err = policies.ReadTable(path, 2)
	require.ErrorIs(t, err, mdp.ErrMalformedState)
}

func TestTable_Grid(t *testing.T) {
	table := policies.NewTable(map[mdp.State]mdp.Action{
		mdp.NewState(pos(0, 1), mdp.None): mdp.East,
		mdp.NewState(pos(1, 1), mdp.None): mdp.South,
		mdp.NewState(pos(0, 0), mdp.None): mdp.North,
	}, 2)
	grid := table.Grid(mdp.None)
	lines := strings.Split(grid, "\n")
	require.Equal(t, "Taxi Policy Grid - No Passenger", lines[1])
	// north row first; (1, 0) is missing
	require.Equal(t, "| → | ↓ |", lines[4])
	require.Equal(t, "| ↑ | ? |", lines[5])

	path := filepath.Join(t.TempDir(), "grid.txt")
	require.NoError(t, table.RecordGrid(path))
	bs, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, grid, string(bs))
}
