package games

import (
	"context"
	"fmt"
	"time"

	"github.com/bmstu-itstech/botarena/internal/domain"
	"github.com/bmstu-itstech/botarena/internal/engine"
	"github.com/bmstu-itstech/botarena/internal/match"
)

const penaltyRoundsPerSide = 5

var penaltyDirections = map[string]bool{"left": true, "center": true, "right": true}

// PenaltyKicksExecutor plays a fixed-length penalty shootout: each bot
// takes penaltyRoundsPerSide kicks as kicker with the other as goalkeeper,
// then the sides swap. A goal scores when the kicker's direction differs
// from the goalkeeper's dive. bot1Score/bot2Score are goals scored.
type PenaltyKicksExecutor struct{}

func (PenaltyKicksExecutor) Execute(ctx context.Context, bot1, bot2 domain.Bot, cfg engine.Config) domain.MatchResult {
	start := time.Now()
	p1, ok1 := bot1.(domain.PenaltyKicksPlayer)
	p2, ok2 := bot2.(domain.PenaltyKicksPlayer)
	if !ok1 || !ok2 {
		return incapableResult(bot1, bot2, domain.PenaltyKicks, start, ok1, ok2)
	}

	totalRounds := penaltyRoundsPerSide * 2
	var log, moveHistory []string
	p1Score, p2Score := 0, 0
	bot1Errored, bot2Errored := false, false
	var errs []string
	roundsPlayed := 0

	for round := 1; round <= totalRounds && !bot1Errored && !bot2Errored; round++ {
		if ctx.Err() != nil {
			errs = append(errs, "cancelled")
			break
		}
		roundsPlayed++
		bot1IsKicker := round <= penaltyRoundsPerSide
		kicker, goalie := p1, p2
		kickerName, goalieName := bot1.TeamName(), bot2.TeamName()
		if !bot1IsKicker {
			kicker, goalie = p2, p1
			kickerName, goalieName = bot2.TeamName(), bot1.TeamName()
		}

		state := domain.GameState{
			GameType: domain.PenaltyKicks, CurrentRound: round, MaxRounds: totalRounds,
			MoveHistory: append([]string(nil), moveHistory...),
			State:       map[string]any{"role": "kicker", "kicker": kickerName},
		}
		kickMove, kickErr := match.InvokeMove(ctx, cfg.MoveTimeout, func(c context.Context) (string, error) {
			return kicker.PlayPenaltyKicks(c, state)
		})
		goalieState := state
		goalieState.State = map[string]any{"role": "goalkeeper", "kicker": kickerName}
		diveMove, diveErr := match.InvokeMove(ctx, cfg.MoveTimeout, func(c context.Context) (string, error) {
			return goalie.PlayPenaltyKicks(c, goalieState)
		})

		kickerErrored := kickErr != nil || !penaltyDirections[kickMove]
		goalieErrored := diveErr != nil || !penaltyDirections[diveMove]
		if bot1IsKicker {
			if kickerErrored {
				bot1Errored = true
				errs = append(errs, moveErrorToken(kickErr))
			}
			if goalieErrored {
				bot2Errored = true
				errs = append(errs, moveErrorToken(diveErr))
			}
		} else {
			if kickerErrored {
				bot2Errored = true
				errs = append(errs, moveErrorToken(kickErr))
			}
			if goalieErrored {
				bot1Errored = true
				errs = append(errs, moveErrorToken(diveErr))
			}
		}
		if bot1Errored || bot2Errored {
			break
		}

		goal := kickMove != diveMove
		if goal {
			if bot1IsKicker {
				p1Score++
			} else {
				p2Score++
			}
		}
		log = append(log, fmt.Sprintf("round %d: %s kicks %s, %s dives %s, goal=%v", round, kickerName, kickMove, goalieName, diveMove, goal))
		moveHistory = append(moveHistory, kickMove)
	}

	outcome, winner := match.ResolveOutcome(bot1.TeamName(), bot2.TeamName(), bot1Errored, bot2Errored, p1Score, p2Score)
	end := time.Now()
	return domain.MatchResult{
		Bot1Name: bot1.TeamName(), Bot2Name: bot2.TeamName(), GameType: domain.PenaltyKicks,
		Outcome: outcome, WinnerName: winner, Bot1Score: p1Score, Bot2Score: p2Score,
		MatchLog: log, Errors: errs, RoundsPlayed: roundsPlayed,
		StartTime: start, EndTime: end, Duration: end.Sub(start),
	}
}
