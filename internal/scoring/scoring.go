// Package scoring implements the Scoring System (C3): converting a
// MatchResult into points, maintaining per-tournament standings, and
// producing tie-broken rankings and summary statistics.
package scoring

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bmstu-itstech/botarena/internal/domain"
	apperrors "github.com/bmstu-itstech/botarena/pkg/errors"
)

// matchPoints is the fixed per-outcome scoring table from §4.3.
var matchPoints = map[domain.Outcome][2]int{
	domain.Player1Wins:  {3, 0},
	domain.Player2Wins:  {0, 3},
	domain.Draw:         {1, 1},
	domain.Player1Error: {0, 3},
	domain.Player2Error: {3, 0},
	domain.BothError:    {0, 0},
}

// CalculateMatchScore returns the (p1, p2) points awarded for outcome. It
// is a contract violation to call it with Outcome=Unknown.
func CalculateMatchScore(outcome domain.Outcome) (int, int, error) {
	pts, ok := matchPoints[outcome]
	if !ok {
		return 0, 0, apperrors.ErrInvalidOutcome.WithMessage(fmt.Sprintf("cannot score outcome %q", outcome))
	}
	return pts[0], pts[1], nil
}

// matchKey synthesizes a deterministic identity for a MatchResult so
// UpdateStandings can detect and reject a duplicate application — the
// spec's data model has no MatchResult.ID field, so the key is derived
// from the fields that together identify "this particular match played".
func matchKey(m domain.MatchResult) string {
	return fmt.Sprintf("%s|%s|%s|%d", m.Bot1Name, m.Bot2Name, m.GameType, m.StartTime.UnixNano())
}

// Standings is the single-writer accumulator for one tournament's
// per-bot TournamentStanding table. All mutating methods serialize
// through an internal mutex, matching §5's "single-writer, serialized
// critical section" rule for standings.
type Standings struct {
	mu       sync.Mutex
	byTeam   map[string]*domain.TournamentStanding
	applied  map[string]bool // matchKey -> already applied
}

// NewStandings returns an empty standings table seeded with zero-valued
// entries for each bot in the roster, so ranking never has to special-
// case a bot with no matches played yet.
func NewStandings(roster []string) *Standings {
	s := &Standings{
		byTeam:  make(map[string]*domain.TournamentStanding, len(roster)),
		applied: make(map[string]bool),
	}
	for _, name := range roster {
		s.byTeam[name] = domain.NewStanding(name)
	}
	return s
}

// ErrDuplicateMatch is returned by UpdateStandings when the same
// MatchResult (by synthesized key) has already been applied.
var ErrDuplicateMatch = apperrors.ErrConflict.WithMessage("match already applied to standings")

// UpdateStandings folds one MatchResult into both participants'
// standings. Applying the same MatchResult twice is rejected rather than
// silently double-counted (§8 round-trip law: "applying UpdateStandings
// twice with the same m must be detected and rejected").
func (s *Standings) UpdateStandings(m domain.MatchResult) error {
	p1pts, p2pts, err := CalculateMatchScore(m.Outcome)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := matchKey(m)
	if s.applied[key] {
		return ErrDuplicateMatch
	}
	s.applied[key] = true

	s1 := s.standingLocked(m.Bot1Name)
	s2 := s.standingLocked(m.Bot2Name)

	s1.TotalScore += p1pts
	s2.TotalScore += p2pts
	s1.TotalOpponentScore += p2pts
	s2.TotalOpponentScore += p1pts
	s1.OpponentsPlayed[m.Bot2Name]++
	s2.OpponentsPlayed[m.Bot1Name]++

	switch m.Outcome {
	case domain.Player1Wins:
		s1.Wins++
		s2.Losses++
	case domain.Player2Wins:
		s2.Wins++
		s1.Losses++
	case domain.Draw:
		s1.Draws++
		s2.Draws++
	case domain.Player1Error:
		s1.ErrorCount++
		s2.Wins++
		s1.Losses++
	case domain.Player2Error:
		s2.ErrorCount++
		s1.Wins++
		s2.Losses++
	case domain.BothError:
		s1.ErrorCount++
		s2.ErrorCount++
		s1.Losses++
		s2.Losses++
	}

	return nil
}

func (s *Standings) standingLocked(team string) *domain.TournamentStanding {
	st, ok := s.byTeam[team]
	if !ok {
		st = domain.NewStanding(team)
		s.byTeam[team] = st
	}
	return st
}

// Snapshot returns a value-safe copy of every standing, suitable for
// publishing (Design Notes: published rankings are snapshots by value).
func (s *Standings) Snapshot() []*domain.TournamentStanding {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.TournamentStanding, 0, len(s.byTeam))
	for _, st := range s.byTeam {
		out = append(out, st.Clone())
	}
	return out
}

// Rank sorts standings by totalScore desc, wins desc, totalOpponentScore
// asc, then teamName asc, and assigns 1-indexed, distinct FinalPlacement
// values.
func Rank(standings []*domain.TournamentStanding) []*domain.TournamentStanding {
	ranked := make([]*domain.TournamentStanding, len(standings))
	copy(ranked, standings)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.TotalOpponentScore != b.TotalOpponentScore {
			return a.TotalOpponentScore < b.TotalOpponentScore
		}
		return a.TeamName < b.TeamName
	})

	for i, st := range ranked {
		st.FinalPlacement = i + 1
	}
	return ranked
}

// Statistics is the result of CalculateStatistics.
type Statistics struct {
	TotalMatches         int
	TotalRounds          int
	TournamentDuration   time.Duration
	AverageMatchDuration time.Duration
	TotalErrors          int
	TotalTimeouts        int
	MostActiveBot        string
	HighestScoringBot    string
	MatchesByGame        map[domain.GameType]int
}

// CalculateStatistics summarizes a completed (or in-flight) tournament.
func CalculateStatistics(info *domain.TournamentInfo, standings []*domain.TournamentStanding) Statistics {
	stats := Statistics{
		TotalMatches:  len(info.MatchResults),
		TotalRounds:   info.TotalRounds,
		MatchesByGame: make(map[domain.GameType]int),
	}

	if info.HasEndTime {
		stats.TournamentDuration = info.EndTime.Sub(info.StartTime)
	}

	var totalDuration time.Duration
	appearances := make(map[string]int)
	for _, m := range info.MatchResults {
		totalDuration += m.Duration
		stats.MatchesByGame[m.GameType]++
		appearances[m.Bot1Name]++
		appearances[m.Bot2Name]++
		if m.HasError() {
			stats.TotalErrors++
		}
		if m.HasTimeout() {
			stats.TotalTimeouts++
		}
	}
	if stats.TotalMatches > 0 {
		stats.AverageMatchDuration = totalDuration / time.Duration(stats.TotalMatches)
	}

	stats.MostActiveBot = maxByLexTiebreak(appearances)

	scores := make(map[string]int, len(standings))
	for _, st := range standings {
		scores[st.TeamName] = st.TotalScore
	}
	stats.HighestScoringBot = maxByLexTiebreak(scores)

	return stats
}

func maxByLexTiebreak(counts map[string]int) string {
	best := ""
	bestVal := -1 << 62
	for name, v := range counts {
		if v > bestVal || (v == bestVal && name < best) {
			best, bestVal = name, v
		}
	}
	return best
}
