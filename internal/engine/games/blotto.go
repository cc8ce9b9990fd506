package games

import (
	"context"
	"fmt"
	"time"

	"github.com/bmstu-itstech/botarena/internal/domain"
	"github.com/bmstu-itstech/botarena/internal/engine"
	"github.com/bmstu-itstech/botarena/internal/match"
)

const blottoBattlefields = 5
const blottoBudget = 100

// ColonelBlottoExecutor is a one-shot simultaneous allocation game: each
// bot splits 100 units across 5 battlefields; a bot wins a battlefield by
// committing strictly more to it, and the bot winning a majority of
// battlefields wins the match. bot1Score/bot2Score are battlefields won.
type ColonelBlottoExecutor struct{}

func (ColonelBlottoExecutor) Execute(ctx context.Context, bot1, bot2 domain.Bot, cfg engine.Config) domain.MatchResult {
	start := time.Now()
	p1, ok1 := bot1.(domain.ColonelBlottoPlayer)
	p2, ok2 := bot2.(domain.ColonelBlottoPlayer)
	if !ok1 || !ok2 {
		return incapableResult(bot1, bot2, domain.ColonelBlotto, start, ok1, ok2)
	}

	state := domain.GameState{GameType: domain.ColonelBlotto, CurrentRound: 1, MaxRounds: 1}

	a1, err1 := match.InvokeMove(ctx, cfg.MoveTimeout, func(c context.Context) ([5]int, error) {
		return p1.PlayColonelBlotto(c, state)
	})
	a2, err2 := match.InvokeMove(ctx, cfg.MoveTimeout, func(c context.Context) ([5]int, error) {
		return p2.PlayColonelBlotto(c, state)
	})

	var errs []string
	bot1Errored := err1 != nil || !validAllocation(a1)
	bot2Errored := err2 != nil || !validAllocation(a2)
	if bot1Errored {
		errs = append(errs, moveErrorToken(err1))
	}
	if bot2Errored {
		errs = append(errs, moveErrorToken(err2))
	}

	var p1Score, p2Score int
	var log []string
	if !bot1Errored && !bot2Errored {
		for i := 0; i < blottoBattlefields; i++ {
			switch {
			case a1[i] > a2[i]:
				p1Score++
			case a2[i] > a1[i]:
				p2Score++
			}
			log = append(log, fmt.Sprintf("battlefield %d: %d vs %d", i+1, a1[i], a2[i]))
		}
	}

	outcome, winner := match.ResolveOutcome(bot1.TeamName(), bot2.TeamName(), bot1Errored, bot2Errored, p1Score, p2Score)
	end := time.Now()
	return domain.MatchResult{
		Bot1Name: bot1.TeamName(), Bot2Name: bot2.TeamName(), GameType: domain.ColonelBlotto,
		Outcome: outcome, WinnerName: winner, Bot1Score: p1Score, Bot2Score: p2Score,
		MatchLog: log, Errors: errs, RoundsPlayed: 1,
		StartTime: start, EndTime: end, Duration: end.Sub(start),
	}
}

func validAllocation(a [5]int) bool {
	sum := 0
	for _, v := range a {
		if v < 0 {
			return false
		}
		sum += v
	}
	return sum == blottoBudget
}
