package games

import (
	"context"
	"fmt"
	"time"

	"github.com/bmstu-itstech/botarena/internal/domain"
	"github.com/bmstu-itstech/botarena/internal/engine"
	"github.com/bmstu-itstech/botarena/internal/match"
)

const securityRounds = 5

var securityTargets = map[string]bool{"siteA": true, "siteB": true, "siteC": true}

// SecurityGameExecutor is a simultaneous-move attacker/defender game
// played over securityRounds rounds: bot1 attacks one of three sites,
// bot2 defends one; the attacker scores a point when the defended site
// differs from the attacked one. Roles are fixed for the whole match
// (bot1 always attacks) since the game type does not require role swap.
type SecurityGameExecutor struct{}

func (SecurityGameExecutor) Execute(ctx context.Context, bot1, bot2 domain.Bot, cfg engine.Config) domain.MatchResult {
	start := time.Now()
	attacker, ok1 := bot1.(domain.SecurityGamePlayer)
	defender, ok2 := bot2.(domain.SecurityGamePlayer)
	if !ok1 || !ok2 {
		return incapableResult(bot1, bot2, domain.SecurityGame, start, ok1, ok2)
	}

	var log []string
	attackerScore, defenderScore := 0, 0
	bot1Errored, bot2Errored := false, false
	var errs []string
	roundsPlayed := 0

	for round := 1; round <= securityRounds; round++ {
		if ctx.Err() != nil {
			errs = append(errs, "cancelled")
			break
		}
		roundsPlayed++
		attackState := domain.GameState{
			GameType: domain.SecurityGame, CurrentRound: round, MaxRounds: securityRounds,
			State: map[string]any{"role": "attacker"},
		}
		defendState := domain.GameState{
			GameType: domain.SecurityGame, CurrentRound: round, MaxRounds: securityRounds,
			State: map[string]any{"role": "defender"},
		}

		attack, attackErr := match.InvokeMove(ctx, cfg.MoveTimeout, func(c context.Context) (string, error) {
			return attacker.PlaySecurityGame(c, attackState)
		})
		defend, defendErr := match.InvokeMove(ctx, cfg.MoveTimeout, func(c context.Context) (string, error) {
			return defender.PlaySecurityGame(c, defendState)
		})

		if attackErr != nil || !securityTargets[attack] {
			bot1Errored = true
			errs = append(errs, moveErrorToken(attackErr))
		}
		if defendErr != nil || !securityTargets[defend] {
			bot2Errored = true
			errs = append(errs, moveErrorToken(defendErr))
		}
		if bot1Errored || bot2Errored {
			break
		}

		breach := attack != defend
		if breach {
			attackerScore++
		} else {
			defenderScore++
		}
		log = append(log, fmt.Sprintf("round %d: attack=%s defend=%s breach=%v", round, attack, defend, breach))
	}

	outcome, winner := match.ResolveOutcome(bot1.TeamName(), bot2.TeamName(), bot1Errored, bot2Errored, attackerScore, defenderScore)
	end := time.Now()
	return domain.MatchResult{
		Bot1Name: bot1.TeamName(), Bot2Name: bot2.TeamName(), GameType: domain.SecurityGame,
		Outcome: outcome, WinnerName: winner, Bot1Score: attackerScore, Bot2Score: defenderScore,
		MatchLog: log, Errors: errs, RoundsPlayed: roundsPlayed,
		StartTime: start, EndTime: end, Duration: end.Sub(start),
	}
}
