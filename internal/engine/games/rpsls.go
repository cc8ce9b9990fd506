// Package games holds the four concrete Game Executors the registry binds
// game-type tokens to: RPSLS, Colonel Blotto, Penalty Kicks, and the
// Security Game.
package games

import (
	"context"
	"fmt"
	"time"

	"github.com/bmstu-itstech/botarena/internal/domain"
	"github.com/bmstu-itstech/botarena/internal/engine"
	"github.com/bmstu-itstech/botarena/internal/match"
)

// rpslsBeats[a][b] is true when move a defeats move b under standard
// rock-paper-scissors-lizard-Spock rules.
var rpslsBeats = map[string]map[string]bool{
	"rock":     {"scissors": true, "lizard": true},
	"paper":    {"rock": true, "spock": true},
	"scissors": {"paper": true, "lizard": true},
	"lizard":   {"spock": true, "paper": true},
	"spock":    {"scissors": true, "rock": true},
}

var rpslsValidMoves = map[string]bool{
	"rock": true, "paper": true, "scissors": true, "lizard": true, "spock": true,
}

// RPSLSExecutor plays a fixed-length series of RPSLS rounds; the bot with
// more round wins takes the match, one point of bot1Score/bot2Score per
// round won.
type RPSLSExecutor struct{}

func (RPSLSExecutor) Execute(ctx context.Context, bot1, bot2 domain.Bot, cfg engine.Config) domain.MatchResult {
	start := time.Now()
	p1, ok1 := bot1.(domain.RPSLSPlayer)
	p2, ok2 := bot2.(domain.RPSLSPlayer)
	if !ok1 || !ok2 {
		return incapableResult(bot1, bot2, domain.RPSLS, start, ok1, ok2)
	}

	maxRounds := cfg.MaxRoundsRPSLS
	if maxRounds <= 0 {
		maxRounds = 50
	}

	var p1History, p2History, log []string
	p1Wins, p2Wins := 0, 0
	var errs []string
	bot1Errored, bot2Errored := false, false
	roundsPlayed := 0

	for round := 1; round <= maxRounds; round++ {
		if ctx.Err() != nil {
			errs = append(errs, "cancelled")
			break
		}
		roundsPlayed++

		state1 := domain.GameState{
			GameType: domain.RPSLS, CurrentRound: round, MaxRounds: maxRounds,
			MoveHistory: append([]string(nil), log...), MyMoveHistory: append([]string(nil), p1History...),
			OpponentMoveHistory: append([]string(nil), p2History...),
		}
		state2 := domain.GameState{
			GameType: domain.RPSLS, CurrentRound: round, MaxRounds: maxRounds,
			MoveHistory: append([]string(nil), log...), MyMoveHistory: append([]string(nil), p2History...),
			OpponentMoveHistory: append([]string(nil), p1History...),
		}

		m1, err1 := match.InvokeMove(ctx, cfg.MoveTimeout, func(c context.Context) (string, error) {
			return p1.PlayRPSLS(c, state1)
		})
		m2, err2 := match.InvokeMove(ctx, cfg.MoveTimeout, func(c context.Context) (string, error) {
			return p2.PlayRPSLS(c, state2)
		})

		if err1 != nil || !rpslsValidMoves[m1] {
			bot1Errored = true
			errs = append(errs, moveErrorToken(err1))
		}
		if err2 != nil || !rpslsValidMoves[m2] {
			bot2Errored = true
			errs = append(errs, moveErrorToken(err2))
		}
		if bot1Errored || bot2Errored {
			break
		}

		p1History = append(p1History, m1)
		p2History = append(p2History, m2)
		log = append(log, fmt.Sprintf("round %d: %s vs %s", round, m1, m2))

		switch {
		case rpslsBeats[m1][m2]:
			p1Wins++
		case rpslsBeats[m2][m1]:
			p2Wins++
		}
	}

	outcome, winner := match.ResolveOutcome(bot1.TeamName(), bot2.TeamName(), bot1Errored, bot2Errored, p1Wins, p2Wins)
	end := time.Now()
	return domain.MatchResult{
		Bot1Name: bot1.TeamName(), Bot2Name: bot2.TeamName(), GameType: domain.RPSLS,
		Outcome: outcome, WinnerName: winner, Bot1Score: p1Wins, Bot2Score: p2Wins,
		MatchLog: log, Errors: errs, RoundsPlayed: roundsPlayed,
		StartTime: start, EndTime: end, Duration: end.Sub(start),
	}
}

func moveErrorToken(err error) string {
	if err == nil {
		return "invalid move"
	}
	return err.Error()
}

func incapableResult(bot1, bot2 domain.Bot, gameType domain.GameType, start time.Time, ok1, ok2 bool) domain.MatchResult {
	outcome, winner := match.ResolveOutcome(bot1.TeamName(), bot2.TeamName(), !ok1, !ok2, 0, 0)
	end := time.Now()
	return domain.MatchResult{
		Bot1Name: bot1.TeamName(), Bot2Name: bot2.TeamName(), GameType: gameType,
		Outcome: outcome, WinnerName: winner,
		Errors:    []string{"bot does not implement required capability"},
		StartTime: start, EndTime: end, Duration: end.Sub(start),
	}
}
