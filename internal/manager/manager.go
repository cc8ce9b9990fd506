// Package manager implements the Tournament Manager (C5): the per-event
// lifecycle state machine, bounded-parallel match dispatch, and the
// pause/resume/stop/rerun/clear operator commands.
package manager

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmstu-itstech/botarena/internal/domain"
	"github.com/bmstu-itstech/botarena/internal/engine"
	"github.com/bmstu-itstech/botarena/internal/match"
	"github.com/bmstu-itstech/botarena/internal/publisher"
	"github.com/bmstu-itstech/botarena/internal/scoring"
	"github.com/bmstu-itstech/botarena/internal/tournament"
	apperrors "github.com/bmstu-itstech/botarena/pkg/errors"
	"github.com/bmstu-itstech/botarena/pkg/logger"
	"github.com/bmstu-itstech/botarena/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config is the subset of TournamentConfig (§6) the manager needs to run
// one event.
type Config struct {
	MaxParallelMatches        int
	FastMatchThresholdSeconds int
	GroupSize                 int
	AdvancePerGroup           int
	KnockoutDrawReplays       int
	MoveTimeout               time.Duration
	MaxRoundsRPSLS            int
}

// CommandResult is the {success, message} value every operator command
// returns (§7's "command faults return a result without changing state").
type CommandResult struct {
	Success bool
	Message string
}

// Manager drives one tournament (one event step) through the §4.5 state
// machine. It also implements tournament.Dispatcher, so the Tournament
// Engine asks it — and only it — to run a match; this is where bounded
// parallelism and pause/stop are enforced.
type Manager struct {
	seriesID string
	cfg      Config
	registry *engine.Registry
	pub      publisher.Publisher
	log      *logger.Logger
	metrics  *metrics.Metrics

	mu          sync.Mutex
	info        *domain.TournamentInfo
	standings   *scoring.Standings
	bots        map[string]domain.Bot
	gameType    domain.GameType
	gate        chan struct{} // closed => dispatch proceeds; open (unclosed) => paused, blocks
	sem         chan struct{}
	activeSlots atomic.Int32

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	runner           *match.Runner
	tournamentEngine *tournament.Engine
}

var _ tournament.Dispatcher = (*Manager)(nil)

// NewManager builds a Manager for one event step of seriesID.
func NewManager(seriesID string, cfg Config, registry *engine.Registry, pub publisher.Publisher, log *logger.Logger, m *metrics.Metrics) *Manager {
	return &Manager{
		seriesID: seriesID,
		cfg:      cfg,
		registry: registry,
		pub:      pub,
		log:      log,
		metrics:  m,
	}
}

// Start begins a new tournament over bots in gameType. Requires ≥2 bots
// (InsufficientBots otherwise) and that no tournament is currently
// Running/Paused/Initializing (AlreadyRunning otherwise).
func (mgr *Manager) Start(parentCtx context.Context, bots []domain.Bot, gameType domain.GameType) CommandResult {
	mgr.mu.Lock()

	if mgr.info != nil && isActive(mgr.info.State) {
		mgr.mu.Unlock()
		return CommandResult{false, apperrors.ErrAlreadyRunning.Message}
	}
	if len(bots) < 2 {
		mgr.mu.Unlock()
		return CommandResult{false, apperrors.ErrInsufficientBots.Message}
	}

	names := make([]string, len(bots))
	botMap := make(map[string]domain.Bot, len(bots))
	for i, b := range bots {
		names[i] = b.TeamName()
		botMap[b.TeamName()] = b
	}
	if err := domain.ValidateRoster(names); err != nil {
		mgr.mu.Unlock()
		return CommandResult{false, err.Error()}
	}

	mgr.gameType = gameType
	mgr.bots = botMap
	mgr.standings = scoring.NewStandings(names)
	mgr.info = &domain.TournamentInfo{
		TournamentID: uuid.NewString(),
		GameType:     gameType,
		State:        domain.Initializing,
		Bots:         names,
		StartTime:    time.Now(),
	}

	gate := make(chan struct{})
	close(gate)
	mgr.gate = gate
	capacity := mgr.cfg.MaxParallelMatches
	if capacity < 1 {
		capacity = 1
	}
	mgr.sem = make(chan struct{}, capacity)
	mgr.ctx, mgr.cancel = context.WithCancel(parentCtx)
	mgr.done = make(chan struct{})

	engineCfg := engine.Config{MoveTimeout: mgr.cfg.MoveTimeout, MaxRoundsRPSLS: mgr.cfg.MaxRoundsRPSLS}
	runner := match.NewRunner(mgr.registry, engineCfg, mgr.log)
	mgr.runner = runner
	mgr.tournamentEngine = tournament.NewEngine(mgr, mgr.standings, mgr.pub, mgr.log)

	mgr.info.State = domain.InProgress
	mgr.metrics.SetParallelCapacity(capacity)
	mgr.metrics.SetTournamentsInProgress(1)
	info := mgr.info.Clone()
	ctx := mgr.ctx
	mgr.mu.Unlock()

	mgr.pub.PublishTournamentStarted(ctx, mgr.seriesID, *info)

	go mgr.run(ctx, names, botMap)

	return CommandResult{true, "tournament started"}
}

func isActive(state domain.TournamentState) bool {
	return state == domain.Initializing || state == domain.InProgress || state == domain.Paused
}

// run drives the group stage, advancement, and knockout bracket to
// completion (or abandons it on Stop), then marks the tournament
// Completed or Aborted.
func (mgr *Manager) run(ctx context.Context, roster []string, bots map[string]domain.Bot) {
	defer close(mgr.done)

	groups := tournament.FormGroups(roster, mgr.cfg.GroupSize, mgr.info.TournamentID, string(mgr.gameType))
	results := mgr.tournamentEngine.RunGroupStage(ctx, mgr.seriesID, mgr.gameType, groups, bots)

	mgr.recordResults(results)
	tournament.PopulateGroupRankings(groups, mgr.standings.Snapshot())

	if ctx.Err() != nil {
		mgr.finish(domain.Aborted)
		return
	}

	groupOrder := make([]string, len(groups))
	for i, g := range groups {
		groupOrder[i] = g.GroupID
	}
	advancers := tournament.SelectAdvancers(groups, mgr.cfg.AdvancePerGroup)
	seeds := tournament.SeedBracket(groupOrder, advancers)

	if len(seeds) >= 2 {
		_, knockoutResults := mgr.tournamentEngine.RunBracket(ctx, mgr.seriesID, mgr.gameType, seeds, bots, mgr.cfg.KnockoutDrawReplays)
		mgr.recordResults(knockoutResults)
	}

	if ctx.Err() != nil {
		mgr.finish(domain.Aborted)
		return
	}
	mgr.finish(domain.Completed)
}

func (mgr *Manager) recordResults(results []domain.MatchResult) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	mgr.info.MatchResults = append(mgr.info.MatchResults, results...)
	for _, r := range results {
		mgr.info.TotalRounds += r.RoundsPlayed
	}
}

func (mgr *Manager) finish(state domain.TournamentState) {
	mgr.mu.Lock()
	mgr.info.State = state
	mgr.info.EndTime = time.Now()
	mgr.info.HasEndTime = true
	info := mgr.info.Clone()
	mgr.metrics.SetTournamentsInProgress(0)
	mgr.mu.Unlock()

	if state == domain.Completed {
		mgr.pub.PublishTournamentCompleted(mgr.ctx, mgr.seriesID, *info)
	} else {
		mgr.pub.PublishEventCompleted(mgr.ctx, mgr.seriesID, *info)
	}
}

// Dispatch implements tournament.Dispatcher: it observes pause at slot
// acquisition, bounds in-flight matches to maxParallelMatches, and runs
// the match via the Match Runner. Fast matches (under
// fastMatchThresholdSeconds) are returned immediately with no pacing
// delay; the core never inserts a delay beyond that threshold.
func (mgr *Manager) Dispatch(ctx context.Context, bot1, bot2 domain.Bot, gameType domain.GameType) domain.MatchResult {
	mgr.mu.Lock()
	gate := mgr.gate
	sem := mgr.sem
	mgr.mu.Unlock()

	select {
	case <-gate:
	case <-ctx.Done():
		return abandonedResult(bot1, bot2, gameType)
	}

	select {
	case sem <- struct{}{}:
	case <-ctx.Done():
		return abandonedResult(bot1, bot2, gameType)
	}
	mgr.activeSlots.Add(1)
	mgr.metrics.SetActiveParallelSlots(int(mgr.activeSlots.Load()))
	defer func() {
		<-sem
		mgr.activeSlots.Add(-1)
		mgr.metrics.SetActiveParallelSlots(int(mgr.activeSlots.Load()))
	}()

	mgr.metrics.RecordMatchStart()
	runner := mgr.currentRunner()
	result := runner.Execute(ctx, bot1, bot2, gameType)
	status := "completed"
	if result.HasError() {
		status = "failed"
	}
	mgr.metrics.RecordMatchComplete(string(gameType), status, result.Duration)
	return result
}

func (mgr *Manager) currentRunner() *match.Runner {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	return mgr.runner
}

func abandonedResult(bot1, bot2 domain.Bot, gameType domain.GameType) domain.MatchResult {
	now := time.Now()
	return domain.MatchResult{
		Bot1Name: bot1.TeamName(), Bot2Name: bot2.TeamName(), GameType: gameType,
		Outcome: domain.Unknown, Errors: []string{"cancelled"},
		StartTime: now, EndTime: now,
	}
}

// Pause stops the dispatcher from accepting new matches; in-flight
// matches continue to completion.
func (mgr *Manager) Pause() CommandResult {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	if mgr.info == nil || mgr.info.State != domain.InProgress {
		return CommandResult{false, apperrors.ErrIllegalTransition.Message}
	}
	mgr.info.State = domain.Paused
	mgr.gate = make(chan struct{}) // unclosed: blocks new dispatches
	return CommandResult{true, "paused"}
}

// Resume restarts dispatch after a Pause.
func (mgr *Manager) Resume() CommandResult {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	if mgr.info == nil || mgr.info.State != domain.Paused {
		return CommandResult{false, apperrors.ErrIllegalTransition.Message}
	}
	mgr.info.State = domain.InProgress
	close(mgr.gate)
	return CommandResult{true, "resumed"}
}

// Stop cancels every in-flight match's cancellation signal, drains, and
// marks the tournament Aborted with partial results preserved.
func (mgr *Manager) Stop() CommandResult {
	mgr.mu.Lock()
	if mgr.info == nil || (mgr.info.State != domain.InProgress && mgr.info.State != domain.Paused) {
		mgr.mu.Unlock()
		return CommandResult{false, apperrors.ErrIllegalTransition.Message}
	}
	mgr.info.State = domain.Stopping
	cancel := mgr.cancel
	if mgr.gate != nil {
		select {
		case <-mgr.gate: // already closed
		default:
			close(mgr.gate) // unblock anyone waiting on pause so they observe cancellation
		}
	}
	done := mgr.done
	mgr.mu.Unlock()

	cancel()
	if done != nil {
		<-done
	}
	return CommandResult{true, "stopped"}
}

// Rerun reinstates NotStarted so Start can be called again with a fresh
// roster and game type; it requires the tournament to be Completed or Aborted.
func (mgr *Manager) Rerun() CommandResult {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	if mgr.info == nil || (mgr.info.State != domain.Completed && mgr.info.State != domain.Aborted) {
		return CommandResult{false, apperrors.ErrIllegalTransition.Message}
	}
	mgr.info.State = domain.NotStarted
	return CommandResult{true, "ready to rerun"}
}

// Clear resets to NotStarted; only allowed when not Running/Paused.
func (mgr *Manager) Clear() CommandResult {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	if mgr.info != nil && (mgr.info.State == domain.InProgress || mgr.info.State == domain.Paused) {
		return CommandResult{false, apperrors.ErrIllegalTransition.Message}
	}
	mgr.info = nil
	return CommandResult{true, "cleared"}
}

// Info returns a value-safe snapshot of the current TournamentInfo, or
// nil if Start has never been called.
func (mgr *Manager) Info() *domain.TournamentInfo {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	if mgr.info == nil {
		return nil
	}
	return mgr.info.Clone()
}

// Standings returns the current ranked standings snapshot.
func (mgr *Manager) Standings() []*domain.TournamentStanding {
	mgr.mu.Lock()
	s := mgr.standings
	mgr.mu.Unlock()
	if s == nil {
		return nil
	}
	return scoring.Rank(s.Snapshot())
}

// RetryMatch is the supplemented admin operation: it re-dispatches the
// pairing recorded at matchIndex in MatchResults and appends the new
// result (MatchResults stays append-only; the original failed result is
// not retroactively removed from standings).
func (mgr *Manager) RetryMatch(ctx context.Context, matchIndex int) CommandResult {
	mgr.mu.Lock()
	if mgr.info == nil || matchIndex < 0 || matchIndex >= len(mgr.info.MatchResults) {
		mgr.mu.Unlock()
		return CommandResult{false, "invalid match index"}
	}
	original := mgr.info.MatchResults[matchIndex]
	bot1, ok1 := mgr.bots[original.Bot1Name]
	bot2, ok2 := mgr.bots[original.Bot2Name]
	mgr.mu.Unlock()
	if !ok1 || !ok2 {
		return CommandResult{false, "bots no longer available"}
	}

	result := mgr.Dispatch(ctx, bot1, bot2, original.GameType)
	mgr.recordResults([]domain.MatchResult{result})
	if err := mgr.standings.UpdateStandings(result); err != nil {
		mgr.log.Warn("retry match standings update rejected", zap.Error(err))
	}
	mgr.pub.PublishMatchCompleted(ctx, mgr.seriesID, result)
	return CommandResult{true, "match retried"}
}
