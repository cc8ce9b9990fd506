// Package series implements the Series Manager (C6): it drives an ordered
// sequence of event steps (each one tournament) to completion, carries an
// additive cumulative score across steps, and gates dispatch on an
// optional scheduled start time.
package series

import (
	"context"
	"sync"
	"time"

	"github.com/bmstu-itstech/botarena/internal/config"
	"github.com/bmstu-itstech/botarena/internal/domain"
	"github.com/bmstu-itstech/botarena/internal/engine"
	"github.com/bmstu-itstech/botarena/internal/manager"
	"github.com/bmstu-itstech/botarena/internal/publisher"
	"github.com/bmstu-itstech/botarena/pkg/logger"
	"github.com/bmstu-itstech/botarena/pkg/metrics"
)

// Manager drives one Series's steps in order, one manager.Manager per
// step, publishing a SeriesSnapshot on every state change and at most
// once per second while waiting on the scheduled start gate.
type Manager struct {
	seriesID string
	cfg      config.TournamentConfig
	registry *engine.Registry
	pub      publisher.Publisher
	log      *logger.Logger
	metrics  *metrics.Metrics

	mu      sync.Mutex
	series  *domain.Series
	bots    map[string]domain.Bot
	current *manager.Manager

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewManager builds a Series Manager for seriesName over roster, playing
// one step per entry in cfg.Games in order.
func NewManager(seriesID, seriesName string, roster []string, cfg config.TournamentConfig, registry *engine.Registry, pub publisher.Publisher, log *logger.Logger, m *metrics.Metrics) *Manager {
	steps := make([]domain.EventStep, len(cfg.Games))
	for i, gt := range cfg.Games {
		steps[i] = domain.EventStep{StepIndex: i + 1, GameType: gt, Status: domain.StepNotStarted}
	}
	score := make(map[string]int, len(roster))
	for _, team := range roster {
		score[team] = 0
	}

	return &Manager{
		seriesID: seriesID,
		cfg:      cfg,
		registry: registry,
		pub:      pub,
		log:      log,
		metrics:  m,
		series: &domain.Series{
			SeriesName:  seriesName,
			Roster:      roster,
			Steps:       steps,
			SeriesScore: score,
		},
	}
}

// Start begins driving the series: waiting (if configured) for
// ScheduledStartTime, then running each step's tournament in order. It
// returns as soon as the background goroutine is launched; the wait and
// every step run in that goroutine.
func (sm *Manager) Start(parentCtx context.Context, bots []domain.Bot) manager.CommandResult {
	sm.mu.Lock()
	if sm.ctx != nil && sm.ctx.Err() == nil {
		sm.mu.Unlock()
		return manager.CommandResult{Success: false, Message: "series already running"}
	}

	botMap := make(map[string]domain.Bot, len(bots))
	for _, b := range bots {
		botMap[b.TeamName()] = b
	}
	sm.bots = botMap
	sm.ctx, sm.cancel = context.WithCancel(parentCtx)
	sm.done = make(chan struct{})
	ctx := sm.ctx
	sm.mu.Unlock()

	go sm.run(ctx)
	return manager.CommandResult{Success: true, Message: "series started"}
}

func (sm *Manager) run(ctx context.Context) {
	defer close(sm.done)

	if !sm.waitForScheduledStart(ctx) {
		return // cancelled while waiting on the dispatch gate
	}

	for i := range sm.series.Steps {
		if ctx.Err() != nil {
			sm.markRemainingFailed(i)
			return
		}
		sm.runStep(ctx, i)
	}
}

// waitForScheduledStart blocks until ScheduledStartTime (if set), or
// until ctx is cancelled, whichever comes first. It re-publishes the
// series snapshot once per second while waiting, so the dispatch gate
// itself is observable externally.
func (sm *Manager) waitForScheduledStart(ctx context.Context) bool {
	gate := sm.cfg.ScheduledStartTime
	if gate == nil {
		return true
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		if time.Now().After(*gate) || time.Now().Equal(*gate) {
			return true
		}
		sm.publishSnapshot(ctx, nil)
		select {
		case <-ctx.Done():
			return false
		case <-time.After(time.Until(*gate)):
			return true
		case <-ticker.C:
		}
	}
}

func (sm *Manager) runStep(ctx context.Context, index int) {
	sm.mu.Lock()
	step := &sm.series.Steps[index]
	step.Status = domain.StepRunning
	bots := make([]domain.Bot, 0, len(sm.bots))
	for _, b := range sm.bots {
		bots = append(bots, b)
	}
	sm.mu.Unlock()

	mgrCfg := manager.Config{
		MaxParallelMatches:        sm.cfg.MaxParallelMatches,
		FastMatchThresholdSeconds: sm.cfg.FastMatchThresholdSeconds,
		GroupSize:                 sm.cfg.GroupSize,
		AdvancePerGroup:           sm.cfg.AdvancePerGroup,
		KnockoutDrawReplays:       sm.cfg.KnockoutDrawReplays,
		MoveTimeout:               sm.cfg.MoveTimeout,
		MaxRoundsRPSLS:            sm.cfg.MaxRoundsRPSLS,
	}
	stepMgr := manager.NewManager(sm.seriesID, mgrCfg, sm.registry, sm.pub, sm.log, sm.metrics)

	sm.mu.Lock()
	sm.current = stepMgr
	sm.mu.Unlock()

	result := stepMgr.Start(ctx, bots, step.GameType)
	if !result.Success {
		sm.finishStep(index, domain.StepFailed)
		return
	}
	if info := stepMgr.Info(); info != nil {
		sm.pub.PublishEventStarted(ctx, sm.seriesID, *info)
	}

	sm.waitForStep(ctx, stepMgr)

	info := stepMgr.Info()
	if info == nil || info.State != domain.Completed {
		sm.finishStep(index, domain.StepFailed)
		return
	}

	sm.applySeriesScore(stepMgr.Standings())
	sm.finishStep(index, domain.StepCompleted)
	sm.metrics.RecordSeriesStep(string(step.GameType), "completed")
}

// waitForStep polls for the step's tournament to leave InProgress/Paused;
// the Tournament Manager itself has no completion channel exposed beyond
// Info(), so the Series Manager observes state the same way an external
// operator would.
func (sm *Manager) waitForStep(ctx context.Context, stepMgr *manager.Manager) {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		info := stepMgr.Info()
		if info == nil {
			return
		}
		switch info.State {
		case domain.Completed, domain.Aborted:
			return
		}
		select {
		case <-ctx.Done():
			stepMgr.Stop()
			return
		case <-ticker.C:
		}
	}
}

func (sm *Manager) applySeriesScore(standings []*domain.TournamentStanding) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for _, st := range standings {
		sm.series.SeriesScore[st.TeamName] += st.TotalScore
	}
}

func (sm *Manager) finishStep(index int, status domain.EventStepStatus) {
	sm.mu.Lock()
	sm.series.Steps[index].Status = status
	step := sm.series.Steps[index]
	sm.mu.Unlock()
	sm.pub.PublishEventStepCompleted(sm.ctx, sm.seriesID, publisher.StepSnapshot{
		Index:    step.StepIndex,
		GameType: step.GameType,
		Status:   step.Status,
	})
	sm.publishSnapshot(sm.ctx, nil)
}

func (sm *Manager) markRemainingFailed(fromIndex int) {
	sm.mu.Lock()
	for i := fromIndex; i < len(sm.series.Steps); i++ {
		if sm.series.Steps[i].Status == domain.StepNotStarted || sm.series.Steps[i].Status == domain.StepRunning {
			sm.series.Steps[i].Status = domain.StepFailed
		}
	}
	sm.mu.Unlock()
	sm.publishSnapshot(sm.ctx, nil)
}

func (sm *Manager) publishSnapshot(ctx context.Context, tournamentInfo *domain.TournamentInfo) {
	sm.mu.Lock()
	steps := make([]publisher.StepSnapshot, len(sm.series.Steps))
	for i, s := range sm.series.Steps {
		steps[i] = publisher.StepSnapshot{Index: s.StepIndex, GameType: s.GameType, Status: s.Status}
	}
	snapshot := publisher.SeriesSnapshot{
		SeriesName:       sm.series.SeriesName,
		Steps:            steps,
		CurrentStepIndex: sm.series.CurrentStepIndex(),
		SeriesStandings:  sm.series.RankedSeriesStandings(),
		TournamentInfo:   tournamentInfo,
	}
	sm.mu.Unlock()
	sm.pub.PublishTournamentProgressUpdated(ctx, sm.seriesID, snapshot)
	sm.pub.UpdateCurrentState(ctx, sm.seriesID, snapshot)
}

// Pause/Resume/Stop forward to whichever step tournament is currently in
// flight; a series with no active step rejects the command.
func (sm *Manager) Pause() manager.CommandResult {
	sm.mu.Lock()
	current := sm.current
	sm.mu.Unlock()
	if current == nil {
		return manager.CommandResult{Success: false, Message: "no active step"}
	}
	return current.Pause()
}

func (sm *Manager) Resume() manager.CommandResult {
	sm.mu.Lock()
	current := sm.current
	sm.mu.Unlock()
	if current == nil {
		return manager.CommandResult{Success: false, Message: "no active step"}
	}
	return current.Resume()
}

// Stop cancels the whole series — the in-flight step's tournament is
// stopped and no further steps are started.
func (sm *Manager) Stop() manager.CommandResult {
	sm.mu.Lock()
	cancel := sm.cancel
	current := sm.current
	done := sm.done
	sm.mu.Unlock()
	if cancel == nil {
		return manager.CommandResult{Success: false, Message: "series not running"}
	}
	cancel()
	if current != nil {
		current.Stop()
	}
	if done != nil {
		<-done
	}
	return manager.CommandResult{Success: true, Message: "series stopped"}
}

// Rerun resets the series to its pristine state — standings back to 0,
// every step back to NotStarted — so Start can be called again with the
// same or a replacement roster.
func (sm *Manager) Rerun() manager.CommandResult {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for team := range sm.series.SeriesScore {
		sm.series.SeriesScore[team] = 0
	}
	for i := range sm.series.Steps {
		sm.series.Steps[i].Status = domain.StepNotStarted
	}
	sm.current = nil
	sm.ctx, sm.cancel, sm.done = nil, nil, nil
	return manager.CommandResult{Success: true, Message: "series reset for rerun"}
}

// Snapshot returns the current externally-published series state.
func (sm *Manager) Snapshot() publisher.SeriesSnapshot {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	steps := make([]publisher.StepSnapshot, len(sm.series.Steps))
	for i, s := range sm.series.Steps {
		steps[i] = publisher.StepSnapshot{Index: s.StepIndex, GameType: s.GameType, Status: s.Status}
	}
	var tournamentInfo *domain.TournamentInfo
	if sm.current != nil {
		tournamentInfo = sm.current.Info()
	}
	return publisher.SeriesSnapshot{
		SeriesName:       sm.series.SeriesName,
		Steps:            steps,
		CurrentStepIndex: sm.series.CurrentStepIndex(),
		SeriesStandings:  sm.series.RankedSeriesStandings(),
		TournamentInfo:   tournamentInfo,
	}
}
