package tournament

import (
	"context"
	"sync"

	"github.com/bmstu-itstech/botarena/internal/domain"
	"github.com/bmstu-itstech/botarena/internal/publisher"
	"github.com/bmstu-itstech/botarena/internal/scoring"
	"github.com/bmstu-itstech/botarena/pkg/logger"
	"go.uber.org/zap"
)

// Dispatcher runs one match under whatever bounded-parallelism policy the
// Tournament Manager (C5) enforces; the Tournament Engine never dispatches
// matches itself; it only asks the Dispatcher to run one and waits.
type Dispatcher interface {
	Dispatch(ctx context.Context, bot1, bot2 domain.Bot, gameType domain.GameType) domain.MatchResult
}

// Engine drives one tournament's group stage (and, after advancement, its
// knockout bracket) to completion, applying the Scoring System after every
// match and publishing round/standings deltas.
type Engine struct {
	dispatcher Dispatcher
	standings  *scoring.Standings
	pub        publisher.Publisher
	log        *logger.Logger
}

// NewEngine builds an Engine over dispatcher, recording results into
// standings and publishing deltas to pub.
func NewEngine(dispatcher Dispatcher, standings *scoring.Standings, pub publisher.Publisher, log *logger.Logger) *Engine {
	return &Engine{dispatcher: dispatcher, standings: standings, pub: pub, log: log}
}

// RunGroupStage plays every round of every group's round-robin schedule in
// lockstep: round k+1 across all groups starts only after round k has
// finished in every group (§5 ordering guarantee). It returns the
// MatchResults produced in schedule order: round by round, and within a
// round in pairing order (not completion order).
func (e *Engine) RunGroupStage(ctx context.Context, seriesID string, gameType domain.GameType, groups []*domain.Group, bots map[string]domain.Bot) []domain.MatchResult {
	schedules := make([][][]Pairing, len(groups))
	maxRounds := 0
	for i, g := range groups {
		schedules[i] = RoundRobinSchedule(g.Bots)
		if len(schedules[i]) > maxRounds {
			maxRounds = len(schedules[i])
		}
	}

	var allResults []domain.MatchResult
	for round := 0; round < maxRounds; round++ {
		if ctx.Err() != nil {
			break
		}
		for _, g := range groups {
			e.pub.PublishRoundStarted(ctx, seriesID, g.GroupID, round+1)
		}

		var pairings []Pairing
		for i := range groups {
			if round < len(schedules[i]) {
				for _, p := range schedules[i][round] {
					if p.Bot2 != "" { // skip byes
						pairings = append(pairings, p)
					}
				}
			}
		}

		results := e.dispatchRound(ctx, bots, gameType, pairings)
		allResults = append(allResults, results...)

		for _, r := range results {
			if err := e.standings.UpdateStandings(r); err != nil {
				e.log.Warn("standings update rejected", zap.Error(err))
			}
			e.pub.PublishMatchCompleted(ctx, seriesID, r)
		}
		e.pub.PublishStandingsUpdated(ctx, seriesID, scoring.Rank(e.standings.Snapshot()))
	}
	return allResults
}

// dispatchRound runs every pairing concurrently and waits for all of them
// to finish (or be abandoned on cancellation) before returning — this is
// the "round k+1 waits for round k" lockstep boundary.
func (e *Engine) dispatchRound(ctx context.Context, bots map[string]domain.Bot, gameType domain.GameType, pairings []Pairing) []domain.MatchResult {
	results := make([]domain.MatchResult, len(pairings))
	var wg sync.WaitGroup
	for i, p := range pairings {
		wg.Add(1)
		go func(i int, p Pairing) {
			defer wg.Done()
			results[i] = e.dispatcher.Dispatch(ctx, bots[p.Bot1], bots[p.Bot2], gameType)
		}(i, p)
	}
	wg.Wait()
	return results
}

// PopulateGroupRankings ranks each group's own bots from the tournament-
// wide standings snapshot and stores the result on the Group, so
// SelectAdvancers (and any external consumer) sees a group-scoped ranking
// rather than the whole tournament's.
func PopulateGroupRankings(groups []*domain.Group, all []*domain.TournamentStanding) {
	byTeam := make(map[string]*domain.TournamentStanding, len(all))
	for _, st := range all {
		byTeam[st.TeamName] = st
	}
	for _, g := range groups {
		var group []*domain.TournamentStanding
		for _, team := range g.Bots {
			if st, ok := byTeam[team]; ok {
				group = append(group, st)
			}
		}
		g.Rankings = scoring.Rank(group)
	}
}

// SelectAdvancers returns the top-q ranked bots per group, in group order.
func SelectAdvancers(groups []*domain.Group, q int) map[string][]string {
	out := make(map[string][]string, len(groups))
	for _, g := range groups {
		ranked := g.Rankings
		n := q
		if n > len(ranked) {
			n = len(ranked)
		}
		advancers := make([]string, n)
		for i := 0; i < n; i++ {
			advancers[i] = ranked[i].TeamName
		}
		out[g.GroupID] = advancers
	}
	return out
}
