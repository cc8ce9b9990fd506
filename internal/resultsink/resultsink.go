// Package resultsink declares the ResultSink collaborator: an external,
// best-effort durable-recording seam, without this module taking on a
// storage dependency itself (persistent storage is an explicit Non-goal).
// The engine does not call it: no Manager holds a ResultSink.
package resultsink

import (
	"context"

	"github.com/bmstu-itstech/botarena/internal/domain"
)

// ResultSink records terminal facts for external persistence. Both
// methods are best-effort: a failing sink must not affect tournament
// state, matching the Publisher contract.
type ResultSink interface {
	RecordMatch(ctx context.Context, result domain.MatchResult)
	RecordTournament(ctx context.Context, info domain.TournamentInfo)
}

// NoOp discards every record; it is the default when no sink is wired in.
type NoOp struct{}

func (NoOp) RecordMatch(context.Context, domain.MatchResult)      {}
func (NoOp) RecordTournament(context.Context, domain.TournamentInfo) {}

var _ ResultSink = NoOp{}
