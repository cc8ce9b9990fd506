package publisher

import (
	"context"

	"github.com/bmstu-itstech/botarena/internal/domain"
)

// SnapshotSaver is the subset of the Redis-backed snapshot store a
// CachingPublisher needs; declared here (not imported from
// internal/infrastructure/snapshot) so this package stays free of a
// dependency on the cache's wire-format and Redis client.
type SnapshotSaver interface {
	Save(ctx context.Context, seriesID string, snap SeriesSnapshot)
}

// CachingPublisher decorates another Publisher, persisting every
// snapshot it forwards into store. Nothing in this module reads the
// saved snapshots back; the GET /api/v1/series/{seriesID} handler
// answers from the live series.Manager instead.
type CachingPublisher struct {
	next  Publisher
	store SnapshotSaver
}

// NewCachingPublisher wraps next, saving each snapshot into store.
func NewCachingPublisher(next Publisher, store SnapshotSaver) *CachingPublisher {
	return &CachingPublisher{next: next, store: store}
}

func (c *CachingPublisher) PublishMatchCompleted(ctx context.Context, seriesID string, result domain.MatchResult) {
	c.next.PublishMatchCompleted(ctx, seriesID, result)
}

func (c *CachingPublisher) PublishStandingsUpdated(ctx context.Context, seriesID string, standings []*domain.TournamentStanding) {
	c.next.PublishStandingsUpdated(ctx, seriesID, standings)
}

func (c *CachingPublisher) PublishRoundStarted(ctx context.Context, seriesID string, groupID string, roundIndex int) {
	c.next.PublishRoundStarted(ctx, seriesID, groupID, roundIndex)
}

func (c *CachingPublisher) PublishEventStarted(ctx context.Context, seriesID string, info domain.TournamentInfo) {
	c.next.PublishEventStarted(ctx, seriesID, info)
}

func (c *CachingPublisher) PublishEventCompleted(ctx context.Context, seriesID string, info domain.TournamentInfo) {
	c.next.PublishEventCompleted(ctx, seriesID, info)
}

func (c *CachingPublisher) PublishEventStepCompleted(ctx context.Context, seriesID string, step StepSnapshot) {
	c.next.PublishEventStepCompleted(ctx, seriesID, step)
}

func (c *CachingPublisher) PublishTournamentStarted(ctx context.Context, seriesID string, info domain.TournamentInfo) {
	c.next.PublishTournamentStarted(ctx, seriesID, info)
}

func (c *CachingPublisher) PublishTournamentProgressUpdated(ctx context.Context, seriesID string, snapshot SeriesSnapshot) {
	c.next.PublishTournamentProgressUpdated(ctx, seriesID, snapshot)
	c.store.Save(ctx, seriesID, snapshot)
}

func (c *CachingPublisher) PublishTournamentCompleted(ctx context.Context, seriesID string, info domain.TournamentInfo) {
	c.next.PublishTournamentCompleted(ctx, seriesID, info)
}

func (c *CachingPublisher) UpdateCurrentState(ctx context.Context, seriesID string, snapshot SeriesSnapshot) {
	c.next.UpdateCurrentState(ctx, seriesID, snapshot)
	c.store.Save(ctx, seriesID, snapshot)
}

var _ Publisher = (*CachingPublisher)(nil)
