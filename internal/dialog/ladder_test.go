package dialog

import (
	"testing"

	"github.com/RuhiModi/exotel-voice-agent/internal/types"
)

func TestNextOnUnclear(t *testing.T) {
	cases := []struct {
		count int
		want  types.DialogState
	}{
		{1, types.StateRetryTaskCheck},
		{2, types.StateConfirmTask},
		{3, types.StateEscalate},
		{4, types.StateEscalate},
		{10, types.StateEscalate},
	}

	for _, tc := range cases {
		if got := NextOnUnclear(tc.count); got != tc.want {
			t.Errorf("NextOnUnclear(%d) = %s, want %s", tc.count, got, tc.want)
		}
	}
}

func TestLadderNeverReverses(t *testing.T) {
	// Rungs in order of severity; the ladder must be monotone over the
	// counter.
	rank := map[types.DialogState]int{
		types.StateRetryTaskCheck: 1,
		types.StateConfirmTask:    2,
		types.StateEscalate:       3,
	}

	prev := 0
	for count := 1; count <= 20; count++ {
		r := rank[NextOnUnclear(count)]
		if r < prev {
			t.Fatalf("ladder reversed at count %d", count)
		}
		prev = r
	}
}
