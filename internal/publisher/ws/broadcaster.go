package ws

import (
	"context"

	"github.com/bmstu-itstech/botarena/internal/domain"
	"github.com/bmstu-itstech/botarena/internal/publisher"
)

// Broadcaster adapts a Hub to the publisher.Publisher capability set, so
// the Tournament/Series Managers depend only on the small interface while
// this package owns the websocket-specific fan-out.
type Broadcaster struct {
	hub *Hub
}

// NewBroadcaster wraps hub as a publisher.Publisher.
func NewBroadcaster(hub *Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

var _ publisher.Publisher = (*Broadcaster)(nil)

func (b *Broadcaster) PublishMatchCompleted(_ context.Context, seriesID string, result domain.MatchResult) {
	b.hub.Send(seriesID, MessageTypeMatchCompleted, result)
}

func (b *Broadcaster) PublishStandingsUpdated(_ context.Context, seriesID string, standings []*domain.TournamentStanding) {
	b.hub.Send(seriesID, MessageTypeStandingsUpdated, standings)
}

func (b *Broadcaster) PublishRoundStarted(_ context.Context, seriesID string, groupID string, roundIndex int) {
	b.hub.Send(seriesID, MessageTypeRoundStarted, map[string]any{"group_id": groupID, "round": roundIndex})
}

func (b *Broadcaster) PublishEventStarted(_ context.Context, seriesID string, info domain.TournamentInfo) {
	b.hub.Send(seriesID, MessageTypeEventStarted, info)
}

func (b *Broadcaster) PublishEventCompleted(_ context.Context, seriesID string, info domain.TournamentInfo) {
	b.hub.Send(seriesID, MessageTypeEventCompleted, info)
}

func (b *Broadcaster) PublishEventStepCompleted(_ context.Context, seriesID string, step publisher.StepSnapshot) {
	b.hub.Send(seriesID, MessageTypeEventStepCompleted, step)
}

func (b *Broadcaster) PublishTournamentStarted(_ context.Context, seriesID string, info domain.TournamentInfo) {
	b.hub.Send(seriesID, MessageTypeTournamentStarted, info)
}

func (b *Broadcaster) PublishTournamentProgressUpdated(_ context.Context, seriesID string, snapshot publisher.SeriesSnapshot) {
	b.hub.Send(seriesID, MessageTypeTournamentProgress, snapshot)
}

func (b *Broadcaster) PublishTournamentCompleted(_ context.Context, seriesID string, info domain.TournamentInfo) {
	b.hub.Send(seriesID, MessageTypeTournamentCompleted, info)
}

func (b *Broadcaster) UpdateCurrentState(_ context.Context, seriesID string, snapshot publisher.SeriesSnapshot) {
	b.hub.Send(seriesID, MessageTypeStateSnapshot, snapshot)
}
