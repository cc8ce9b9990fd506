package domain

import "context"

// Bot is the opaque participant the engine schedules matches for. It is
// addressed by TeamName and exposes one move method per supported game
// type; the engine only ever calls through these small interfaces, never
// reflects over the concrete type.
type Bot interface {
	TeamName() string
}

// RPSLSPlayer, PenaltyKicksPlayer and SecurityGamePlayer all share this
// move shape: a free-form non-empty string chosen in response to a
// GameState. ColonelBlottoPlayer differs because its move is a resource
// allocation, not a labeled choice.
type RPSLSPlayer interface {
	Bot
	PlayRPSLS(ctx context.Context, state GameState) (string, error)
}

type ColonelBlottoPlayer interface {
	Bot
	PlayColonelBlotto(ctx context.Context, state GameState) ([5]int, error)
}

type PenaltyKicksPlayer interface {
	Bot
	PlayPenaltyKicks(ctx context.Context, state GameState) (string, error)
}

type SecurityGamePlayer interface {
	Bot
	PlaySecurityGame(ctx context.Context, state GameState) (string, error)
}

// CapableOf reports whether bot implements the capability required by
// gameType, without resorting to reflection — a closed type switch over
// the four known capability interfaces.
func CapableOf(bot Bot, gameType GameType) bool {
	switch gameType {
	case RPSLS:
		_, ok := bot.(RPSLSPlayer)
		return ok
	case ColonelBlotto:
		_, ok := bot.(ColonelBlottoPlayer)
		return ok
	case PenaltyKicks:
		_, ok := bot.(PenaltyKicksPlayer)
		return ok
	case SecurityGame:
		_, ok := bot.(SecurityGamePlayer)
		return ok
	default:
		return false
	}
}
