package match

import "github.com/bmstu-itstech/botarena/internal/domain"

// ResolveOutcome applies the §4.1 error-taxonomy table: it turns per-bot
// fault flags and (when neither bot faulted) a score comparison into the
// terminal Outcome and winnerName a Game Executor must report. Every
// executor in internal/engine/games calls this so the mapping lives in
// exactly one place.
func ResolveOutcome(bot1Name, bot2Name string, bot1Errored, bot2Errored bool, bot1Score, bot2Score int) (domain.Outcome, string) {
	switch {
	case bot1Errored && bot2Errored:
		return domain.BothError, ""
	case bot1Errored:
		return domain.Player1Error, bot2Name
	case bot2Errored:
		return domain.Player2Error, bot1Name
	case bot1Score > bot2Score:
		return domain.Player1Wins, bot1Name
	case bot2Score > bot1Score:
		return domain.Player2Wins, bot2Name
	default:
		return domain.Draw, ""
	}
}
