// Package publisher implements the Event Publisher (C7): a single
// capability set (§4.7) replacing the inheritance-based event-hierarchy
// pattern with one small interface plus peer transports, per the spec's
// Design Notes. NoOp is the default; internal/publisher/ws is the one
// concrete transport this module ships.
package publisher

import (
	"context"

	"github.com/bmstu-itstech/botarena/internal/domain"
)

// StepSnapshot is one row of the published step list.
type StepSnapshot struct {
	Index    int
	GameType domain.GameType
	Status   domain.EventStepStatus
}

// SeriesSnapshot is the value published by UpdateCurrentState/
// PublishTournamentProgressUpdated — the §6 "Series state snapshot".
type SeriesSnapshot struct {
	SeriesName       string
	Steps            []StepSnapshot
	CurrentStepIndex int
	SeriesStandings  []domain.SeriesStandingRow
	TournamentInfo   *domain.TournamentInfo // nil if no tournament is active
}

// Publisher is the capability set the core invokes after a state
// mutation is already durable in memory. Every method is best-effort:
// implementations must not block the caller on a slow subscriber and
// must swallow their own transport failures (logged, not returned) —
// PublisherFault never aborts a tournament (§7).
type Publisher interface {
	PublishMatchCompleted(ctx context.Context, seriesID string, result domain.MatchResult)
	PublishStandingsUpdated(ctx context.Context, seriesID string, standings []*domain.TournamentStanding)
	PublishRoundStarted(ctx context.Context, seriesID string, groupID string, roundIndex int)
	PublishEventStarted(ctx context.Context, seriesID string, info domain.TournamentInfo)
	PublishEventCompleted(ctx context.Context, seriesID string, info domain.TournamentInfo)
	PublishEventStepCompleted(ctx context.Context, seriesID string, step StepSnapshot)
	PublishTournamentStarted(ctx context.Context, seriesID string, info domain.TournamentInfo)
	PublishTournamentProgressUpdated(ctx context.Context, seriesID string, snapshot SeriesSnapshot)
	PublishTournamentCompleted(ctx context.Context, seriesID string, info domain.TournamentInfo)
	UpdateCurrentState(ctx context.Context, seriesID string, snapshot SeriesSnapshot)
}

// NoOp is a valid drop-in Publisher that discards every event; it is the
// default when no transport is wired in.
type NoOp struct{}

func (NoOp) PublishMatchCompleted(context.Context, string, domain.MatchResult)                   {}
func (NoOp) PublishStandingsUpdated(context.Context, string, []*domain.TournamentStanding)        {}
func (NoOp) PublishRoundStarted(context.Context, string, string, int)                             {}
func (NoOp) PublishEventStarted(context.Context, string, domain.TournamentInfo)                   {}
func (NoOp) PublishEventCompleted(context.Context, string, domain.TournamentInfo)                 {}
func (NoOp) PublishEventStepCompleted(context.Context, string, StepSnapshot)                      {}
func (NoOp) PublishTournamentStarted(context.Context, string, domain.TournamentInfo)              {}
func (NoOp) PublishTournamentProgressUpdated(context.Context, string, SeriesSnapshot)             {}
func (NoOp) PublishTournamentCompleted(context.Context, string, domain.TournamentInfo)            {}
func (NoOp) UpdateCurrentState(context.Context, string, SeriesSnapshot)                           {}

var _ Publisher = NoOp{}
