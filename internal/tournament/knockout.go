package tournament

import (
	"context"

	"github.com/bmstu-itstech/botarena/internal/domain"
)

// BracketSeed is one knockout bracket slot: the bot and the seed-order
// rank it carries in (used as the tie-break when a draw persists through
// all configured replays).
type BracketSeed struct {
	TeamName string
	Seed     int // lower is stronger: 1 is the best-ranked
}

// SeedBracket cross-pairs group winners with runners-up from other
// groups (A1–B2, B1–A2, …) per §4.4. advancers maps groupID -> ordered
// advancing bots (rank 1 first). Groups beyond a pair are chained
// sequentially (A-winner vs B-runnerup, B-winner vs C-runnerup, ...,
// last-winner vs first-runnerup) to stay well-defined for any group count.
func SeedBracket(groupOrder []string, advancers map[string][]string) []BracketSeed {
	n := len(groupOrder)
	if n == 0 {
		return nil
	}
	seeds := make([]BracketSeed, 0, n*2)
	seedNum := 1
	for _, groupID := range groupOrder {
		winner := advancers[groupID]
		if len(winner) == 0 {
			continue
		}
		seeds = append(seeds, BracketSeed{TeamName: winner[0], Seed: seedNum})
		seedNum++
	}
	// Cross-group pairing (§4.4) is only defined across groups; with a
	// single group there is nowhere else to draw a runner-up from, so a
	// knockout stage never runs (the group stage result stands on its own).
	if n < 2 {
		return seeds
	}
	var runnerUpSeeds []BracketSeed
	for i := range groupOrder {
		runnerUpGroup := groupOrder[(i+1)%n]
		runnersUp := advancers[runnerUpGroup]
		if len(runnersUp) < 2 {
			continue
		}
		runnerUpSeeds = append(runnerUpSeeds, BracketSeed{TeamName: runnersUp[1], Seed: seedNum})
		seedNum++
	}
	// Interleave winner/runner-up so RunBracket's adjacent pairing plays
	// A1–B2, B1–A2, … in the first knockout round.
	bracket := make([]BracketSeed, 0, len(seeds)+len(runnerUpSeeds))
	for i := 0; i < len(seeds) || i < len(runnerUpSeeds); i++ {
		if i < len(seeds) {
			bracket = append(bracket, seeds[i])
		}
		if i < len(runnerUpSeeds) {
			bracket = append(bracket, runnerUpSeeds[i])
		}
	}
	return bracket
}

// KnockoutMatch plays a single-elimination match, replaying on a draw up
// to maxReplays times; a draw that persists through every replay is
// resolved in favor of the higher seed (lower Seed number).
func (e *Engine) KnockoutMatch(ctx context.Context, seriesID string, gameType domain.GameType, bot1, bot2 BracketSeed, bots map[string]domain.Bot, maxReplays int) domain.MatchResult {
	var result domain.MatchResult
	for attempt := 0; attempt <= maxReplays; attempt++ {
		result = e.dispatcher.Dispatch(ctx, bots[bot1.TeamName], bots[bot2.TeamName], gameType)
		if err := e.standings.UpdateStandings(result); err != nil {
			e.log.Warn("knockout standings update rejected")
		}
		e.pub.PublishMatchCompleted(ctx, seriesID, result)
		if result.Outcome != domain.Draw {
			return result
		}
	}
	// Persistent draw: the higher seed (lower Seed value) wins by rule,
	// without playing a further match.
	winner := bot1
	if bot2.Seed < bot1.Seed {
		winner = bot2
	}
	result.Outcome = domain.Player1Wins
	if winner.TeamName == bot2.TeamName {
		result.Outcome = domain.Player2Wins
	}
	result.WinnerName = winner.TeamName
	return result
}

// RunBracket plays a seeded single-elimination bracket to completion,
// pairing adjacent slots in bracket order (1st v 2nd, 3rd v 4th, …) each
// round and advancing winners; when a round has an odd number of slots,
// the last slot advances automatically (a structural bye, independent of
// the round-robin byes RoundRobinSchedule handles).
func (e *Engine) RunBracket(ctx context.Context, seriesID string, gameType domain.GameType, seeds []BracketSeed, bots map[string]domain.Bot, maxReplays int) (string, []domain.MatchResult) {
	current := seeds
	var all []domain.MatchResult
	for len(current) > 1 {
		var winners []BracketSeed
		for i := 0; i+1 < len(current); i += 2 {
			result := e.KnockoutMatch(ctx, seriesID, gameType, current[i], current[i+1], bots, maxReplays)
			all = append(all, result)
			winner := current[i]
			if result.WinnerName == current[i+1].TeamName {
				winner = current[i+1]
			}
			winners = append(winners, winner)
		}
		if len(current)%2 == 1 {
			winners = append(winners, current[len(current)-1])
		}
		current = winners
	}
	if len(current) == 1 {
		return current[0].TeamName, all
	}
	return "", all
}
