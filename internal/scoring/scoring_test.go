package scoring

import (
	"testing"
	"time"

	"github.com/bmstu-itstech/botarena/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateMatchScore_Table(t *testing.T) {
	cases := []struct {
		outcome    domain.Outcome
		p1, p2 int
	}{
		{domain.Player1Wins, 3, 0},
		{domain.Player2Wins, 0, 3},
		{domain.Draw, 1, 1},
		{domain.Player1Error, 0, 3},
		{domain.Player2Error, 3, 0},
		{domain.BothError, 0, 0},
	}
	for _, c := range cases {
		p1, p2, err := CalculateMatchScore(c.outcome)
		require.NoError(t, err)
		assert.Equal(t, c.p1, p1)
		assert.Equal(t, c.p2, p2)
	}
}

func TestCalculateMatchScore_UnknownIsInvalid(t *testing.T) {
	_, _, err := CalculateMatchScore(domain.Unknown)
	assert.Error(t, err)
}

func match(bot1, bot2 string, outcome domain.Outcome, start time.Time) domain.MatchResult {
	return domain.MatchResult{
		Bot1Name: bot1, Bot2Name: bot2, GameType: domain.RPSLS,
		Outcome: outcome, StartTime: start, EndTime: start.Add(time.Second),
	}
}

// TestThreeBotRoundRobin reproduces scenario 1 from §8: T1 beats T2, T2
// beats T3, T1 draws T3.
func TestThreeBotRoundRobin(t *testing.T) {
	base := time.Now()
	s := NewStandings([]string{"Team1", "Team2", "Team3"})

	require.NoError(t, s.UpdateStandings(match("Team1", "Team2", domain.Player1Wins, base)))
	require.NoError(t, s.UpdateStandings(match("Team2", "Team3", domain.Player1Wins, base.Add(time.Minute))))
	require.NoError(t, s.UpdateStandings(match("Team1", "Team3", domain.Draw, base.Add(2*time.Minute))))

	ranked := Rank(s.Snapshot())
	byName := make(map[string]*domain.TournamentStanding, len(ranked))
	for _, st := range ranked {
		byName[st.TeamName] = st
	}

	assert.Equal(t, 4, byName["Team1"].TotalScore)
	assert.Equal(t, 1, byName["Team1"].Wins)
	assert.Equal(t, 1, byName["Team1"].Draws)

	assert.Equal(t, 3, byName["Team2"].TotalScore)
	assert.Equal(t, 1, byName["Team2"].Wins)
	assert.Equal(t, 1, byName["Team2"].Losses)

	assert.Equal(t, 1, byName["Team3"].TotalScore)
	assert.Equal(t, 1, byName["Team3"].Draws)
	assert.Equal(t, 1, byName["Team3"].Losses)

	require.Len(t, ranked, 3)
	assert.Equal(t, "Team1", ranked[0].TeamName)
	assert.Equal(t, 1, ranked[0].FinalPlacement)
	assert.Equal(t, "Team2", ranked[1].TeamName)
	assert.Equal(t, 2, ranked[1].FinalPlacement)
	assert.Equal(t, "Team3", ranked[2].TeamName)
	assert.Equal(t, 3, ranked[2].FinalPlacement)
}

func TestUpdateStandings_Timeout(t *testing.T) {
	base := time.Now()
	s := NewStandings([]string{"A", "B"})
	m := match("A", "B", domain.Player1Error, base)
	m.Errors = []string{"timeout"}

	require.NoError(t, s.UpdateStandings(m))

	byName := indexStandings(s.Snapshot())
	assert.Equal(t, 1, byName["A"].ErrorCount)
	assert.Equal(t, 1, byName["B"].Wins)
	assert.Equal(t, 3, byName["B"].TotalScore)
}

func TestUpdateStandings_BothError(t *testing.T) {
	base := time.Now()
	s := NewStandings([]string{"A", "B"})
	m := match("A", "B", domain.BothError, base)

	require.NoError(t, s.UpdateStandings(m))

	byName := indexStandings(s.Snapshot())
	assert.Equal(t, 1, byName["A"].ErrorCount)
	assert.Equal(t, 1, byName["B"].ErrorCount)
	assert.Equal(t, 0, byName["A"].TotalScore+byName["B"].TotalScore)
}

func TestUpdateStandings_DuplicateMatchRejected(t *testing.T) {
	base := time.Now()
	s := NewStandings([]string{"A", "B"})
	m := match("A", "B", domain.Player1Wins, base)

	require.NoError(t, s.UpdateStandings(m))
	err := s.UpdateStandings(m)

	assert.ErrorIs(t, err, ErrDuplicateMatch)
}

func indexStandings(list []*domain.TournamentStanding) map[string]*domain.TournamentStanding {
	out := make(map[string]*domain.TournamentStanding, len(list))
	for _, st := range list {
		out[st.TeamName] = st
	}
	return out
}
