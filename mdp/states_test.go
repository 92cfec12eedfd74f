package mdp_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeu5/taxi-mdp/mdp"
)

// TestGenerateStates_Count checks |S| = n²(1 + n⁴ + n²) for several grids.
func TestGenerateStates_Count(t *testing.T) {
	cases := []struct {
		n    int
		want int
	}{
		{1, 3},
		{2, 84},
		{3, 819},
		{5, 16275},
	}
	for _, tc := range cases {
		states := mdp.GenerateStates(tc.n)
		require.Len(t, states, tc.want, "n=%d", tc.n)
		require.Equal(t, tc.want, mdp.NumStates(tc.n))
	}
}

// TestGenerateStates_Unique verifies that no state is enumerated twice and
// that the order is stable across calls.
func TestGenerateStates_Unique(t *testing.T) {
	first := mdp.GenerateStates(3)
	second := mdp.GenerateStates(3)
	require.Equal(t, first, second)

	seen := make(map[mdp.State]bool, len(first))
	for _, s := range first {
		require.False(t, seen[s], "duplicate state %s", s)
		seen[s] = true
	}
	require.Equal(t, mdp.State{Taxi: mdp.Position{X: 0, Y: 0}, Passenger: mdp.None}, first[0])
}

func TestWithinGrid(t *testing.T) {
	const n = 5
	inside := []mdp.Position{{X: 0, Y: 0}, {X: 4, Y: 4}, {X: 2, Y: 3}, {X: 0, Y: 4}}
	for _, p := range inside {
		require.True(t, mdp.WithinGrid(p, n), "%s", p)
	}
	outside := []mdp.Position{{X: -1, Y: 0}, {X: 0, Y: -1}, {X: 5, Y: 0}, {X: 0, Y: 5}, {X: 5, Y: 5}, {X: -1, Y: -1}}
	for _, p := range outside {
		require.False(t, mdp.WithinGrid(p, n), "%s", p)
	}
}

// TestStateSpace_Index verifies the dense index agrees with the enumeration.
func TestStateSpace_Index(t *testing.T) {
	for _, n := range []int{1, 2, 4} {
		space := mdp.NewStateSpace(n)
		require.Equal(t, mdp.NumStates(n), space.Len())
		for i, s := range space.States() {
			idx, ok := space.Index(s)
			require.True(t, ok, "n=%d state %s", n, s)
			require.Equal(t, i, idx, "n=%d state %s", n, s)
		}
	}
}

func TestStateSpace_IndexOutsideUniverse(t *testing.T) {
	space := mdp.NewStateSpace(3)
	cases := []struct {
		name  string
		state mdp.State
	}{
		{"TaxiOffGrid", mdp.NewState(mdp.Position{X: 3, Y: 0}, mdp.None)},
		{"NegativeTaxi", mdp.NewState(mdp.Position{X: -1, Y: 0}, mdp.None)},
		{"OriginOffGrid", mdp.NewState(mdp.Position{}, mdp.NewWaiting(mdp.Position{X: 0, Y: 7}, mdp.Position{}))},
		{"DestinationOffGrid", mdp.NewState(mdp.Position{}, mdp.NewInTaxi(mdp.Position{X: 9, Y: 9}))},
		{"NonCanonicalNone", mdp.NewState(mdp.Position{}, mdp.Passenger{Kind: mdp.NoPassenger, Origin: mdp.Position{X: 1, Y: 1}})},
		{"UnknownKind", mdp.NewState(mdp.Position{}, mdp.Passenger{Kind: 7})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.False(t, space.Contains(tc.state))
		})
	}
}
