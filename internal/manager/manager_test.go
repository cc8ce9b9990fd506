package manager

import (
	"context"
	"testing"
	"time"

	"github.com/bmstu-itstech/botarena/internal/domain"
	"github.com/bmstu-itstech/botarena/internal/engine"
	"github.com/bmstu-itstech/botarena/internal/engine/games"
	"github.com/bmstu-itstech/botarena/internal/publisher"
	"github.com/bmstu-itstech/botarena/pkg/logger"
	"github.com/bmstu-itstech/botarena/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rockBot struct{ name string }

func (b rockBot) TeamName() string { return b.name }
func (b rockBot) PlayRPSLS(ctx context.Context, state domain.GameState) (string, error) {
	return "rock", nil
}

type slowBot struct {
	name  string
	sleep time.Duration
}

func (b slowBot) TeamName() string { return b.name }
func (b slowBot) PlayRPSLS(ctx context.Context, state domain.GameState) (string, error) {
	select {
	case <-time.After(b.sleep):
		return "rock", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func testManager(t *testing.T, cfg Config) *Manager {
	t.Helper()
	registry := engine.NewRegistry(map[domain.GameType]engine.Executor{
		domain.RPSLS: games.RPSLSExecutor{},
	})
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return NewManager("series-1", cfg, registry, publisher.NoOp{}, log, metrics.New())
}

func defaultConfig() Config {
	return Config{
		MaxParallelMatches:        4,
		FastMatchThresholdSeconds: 5,
		GroupSize:                 8,
		AdvancePerGroup:           2,
		KnockoutDrawReplays:       1,
		MoveTimeout:               time.Second,
		MaxRoundsRPSLS:            1,
	}
}

func waitForState(t *testing.T, mgr *Manager, state domain.TournamentState, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if info := mgr.Info(); info != nil && info.State == state {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for state %s, got %v", state, mgr.Info())
}

func TestManager_StartRejectsLessThanTwoBots(t *testing.T) {
	mgr := testManager(t, defaultConfig())
	result := mgr.Start(context.Background(), []domain.Bot{rockBot{name: "A"}}, domain.RPSLS)
	assert.False(t, result.Success)
}

func TestManager_StartRejectsSecondStartWhileRunning(t *testing.T) {
	mgr := testManager(t, defaultConfig())
	bots := []domain.Bot{slowBot{name: "A", sleep: 50 * time.Millisecond}, rockBot{name: "B"}}

	result := mgr.Start(context.Background(), bots, domain.RPSLS)
	require.True(t, result.Success)

	second := mgr.Start(context.Background(), bots, domain.RPSLS)
	assert.False(t, second.Success)

	waitForState(t, mgr, domain.Completed, time.Second)
}

func TestManager_CompletesAndRanksStandings(t *testing.T) {
	mgr := testManager(t, defaultConfig())
	bots := []domain.Bot{rockBot{name: "A"}, rockBot{name: "B"}, rockBot{name: "C"}}

	result := mgr.Start(context.Background(), bots, domain.RPSLS)
	require.True(t, result.Success)

	waitForState(t, mgr, domain.Completed, 2*time.Second)

	standings := mgr.Standings()
	require.Len(t, standings, 3)
	for _, s := range standings {
		assert.GreaterOrEqual(t, s.FinalPlacement, 1)
	}
}

func TestManager_PauseBlocksNewDispatchThenResume(t *testing.T) {
	cfg := defaultConfig()
	cfg.GroupSize = 2 // force several sequential rounds across many pairs
	mgr := testManager(t, cfg)

	bots := []domain.Bot{
		slowBot{name: "A", sleep: 30 * time.Millisecond},
		rockBot{name: "B"},
		rockBot{name: "C"},
		rockBot{name: "D"},
	}

	result := mgr.Start(context.Background(), bots, domain.RPSLS)
	require.True(t, result.Success)

	pauseResult := mgr.Pause()
	require.True(t, pauseResult.Success)
	assert.Equal(t, domain.Paused, mgr.Info().State)

	// new dispatches must not proceed while paused
	select {
	case <-time.After(30 * time.Millisecond):
	}
	assert.Equal(t, domain.Paused, mgr.Info().State)

	resumeResult := mgr.Resume()
	require.True(t, resumeResult.Success)

	waitForState(t, mgr, domain.Completed, 2*time.Second)
}

func TestManager_StopAbandonsInFlightMatchAndPreservesPartialResults(t *testing.T) {
	mgr := testManager(t, defaultConfig())
	bots := []domain.Bot{
		slowBot{name: "A", sleep: time.Second},
		slowBot{name: "B", sleep: time.Second},
	}

	result := mgr.Start(context.Background(), bots, domain.RPSLS)
	require.True(t, result.Success)

	time.Sleep(10 * time.Millisecond)
	stopResult := mgr.Stop()
	require.True(t, stopResult.Success)

	info := mgr.Info()
	assert.Equal(t, domain.Aborted, info.State)
	require.Len(t, info.MatchResults, 1)
	assert.Contains(t, info.MatchResults[0].Errors, "cancelled")
}

func TestManager_RerunAfterCompletionAllowsNewStart(t *testing.T) {
	mgr := testManager(t, defaultConfig())
	bots := []domain.Bot{rockBot{name: "A"}, rockBot{name: "B"}}

	result := mgr.Start(context.Background(), bots, domain.RPSLS)
	require.True(t, result.Success)
	waitForState(t, mgr, domain.Completed, 2*time.Second)

	rerun := mgr.Rerun()
	require.True(t, rerun.Success)
	assert.Equal(t, domain.NotStarted, mgr.Info().State)

	restart := mgr.Start(context.Background(), bots, domain.RPSLS)
	assert.True(t, restart.Success)
	waitForState(t, mgr, domain.Completed, 2*time.Second)
}

func TestManager_PauseRejectedWhenNotRunning(t *testing.T) {
	mgr := testManager(t, defaultConfig())
	result := mgr.Pause()
	assert.False(t, result.Success)
}
