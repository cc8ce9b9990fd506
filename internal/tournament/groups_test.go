package tournament

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormGroups_SizesDifferByAtMostOne(t *testing.T) {
	bots := []string{"E", "C", "A", "D", "B", "F", "G"}
	groups := FormGroups(bots, 4, "evt1", "RPSLS")

	require.Len(t, groups, 2)
	sizes := []int{len(groups[0].Bots), len(groups[1].Bots)}
	diff := sizes[0] - sizes[1]
	if diff < 0 {
		diff = -diff
	}
	assert.LessOrEqual(t, diff, 1)

	total := 0
	for _, g := range groups {
		total += len(g.Bots)
	}
	assert.Equal(t, len(bots), total)
}

func TestRoundRobinSchedule_EvenGroupNoByes(t *testing.T) {
	schedule := RoundRobinSchedule([]string{"A", "B", "C", "D"})

	require.Len(t, schedule, 3) // m-1 rounds
	seen := make(map[string]bool)
	for _, round := range schedule {
		require.Len(t, round, 2)
		for _, p := range round {
			assert.NotEmpty(t, p.Bot2, "even group should have no byes")
			key := p.Bot1 + "-" + p.Bot2
			assert.False(t, seen[key], "pair %s scheduled twice", key)
			seen[key] = true
		}
	}
}

func TestRoundRobinSchedule_OddGroupHasOneByePerRound(t *testing.T) {
	schedule := RoundRobinSchedule([]string{"A", "B", "C"})

	require.Len(t, schedule, 3) // m rounds for odd m
	for _, round := range schedule {
		byes := 0
		for _, p := range round {
			if p.Bot2 == "" {
				byes++
			}
		}
		assert.Equal(t, 1, byes)
	}
}
