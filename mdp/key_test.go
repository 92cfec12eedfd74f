package mdp_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeu5/taxi-mdp/mdp"
)

func TestStateKey(t *testing.T) {
	cases := []struct {
		state mdp.State
		key   string
	}{
		{mdp.NewState(pos(0, 0), mdp.None), "((0, 0), ('none', None))"},
		{mdp.NewState(pos(1, 1), mdp.NewWaiting(pos(0, 0), pos(2, 2))), "((1, 1), ('waiting', (0, 0), (2, 2)))"},
		{mdp.NewState(pos(3, 3), mdp.NewInTaxi(pos(4, 4))), "((3, 3), ('in_taxi', (4, 4)))"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.key, tc.state.Key())
		got, err := mdp.ParseState(tc.key)
		require.NoError(t, err)
		require.Equal(t, tc.state, got)
	}
}

func TestParseState_Whitespace(t *testing.T) {
	got, err := mdp.ParseState("((2,3),('in_taxi',(0,1)))")
	require.NoError(t, err)
	require.Equal(t, mdp.NewState(pos(2, 3), mdp.NewInTaxi(pos(0, 1))), got)
}

func TestParseState_Malformed(t *testing.T) {
	bad := []string{
		"",
		"((0, 0))",
		"((0, 0), ('flying', None))",
		"((0, x), ('none', None))",
		"((0, 0), ('none', None))junk",
		"((0, 0), ('in_taxi', (1)))",
	}
	for _, key := range bad {
		_, err := mdp.ParseState(key)
		require.ErrorIs(t, err, mdp.ErrMalformedState, "key %q", key)
	}
}

func ExampleApply() {
	s := mdp.NewState(mdp.Position{X: 1, Y: 1}, mdp.NewInTaxi(mdp.Position{X: 1, Y: 1}))
	next, reward := mdp.Apply(s, mdp.Drop, 3)
	fmt.Println(next, reward)
	// Output: ((1, 1), ('none', None)) 10
}
