// Package match implements the Match Runner (C2): the per-call timeout,
// cancellation, and error-taxonomy layer that sits between the Tournament
// Engine and a Game Executor.
package match

import (
	"context"
	"fmt"
	"time"

	"github.com/bmstu-itstech/botarena/internal/domain"
	"github.com/bmstu-itstech/botarena/internal/engine"
	"github.com/bmstu-itstech/botarena/pkg/logger"
	"go.uber.org/zap"
)

// Runner invokes the registered executor for a game type under a
// cancellation signal, and guarantees a MatchResult is always returned —
// it never lets an executor panic escape to the caller.
type Runner struct {
	registry *engine.Registry
	cfg      engine.Config
	log      *logger.Logger
}

// NewRunner builds a Runner backed by registry and cfg.
func NewRunner(registry *engine.Registry, cfg engine.Config, log *logger.Logger) *Runner {
	return &Runner{registry: registry, cfg: cfg, log: log}
}

// Execute plays one match between bot1 and bot2 in gameType, honoring ctx
// cancellation. It always returns a MatchResult; it never returns an error
// to the caller (per §4.1, unknown-executor and cancellation are both
// folded into the MatchResult itself).
func (r *Runner) Execute(ctx context.Context, bot1, bot2 domain.Bot, gameType domain.GameType) domain.MatchResult {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return cancelledResult(bot1, bot2, gameType, start)
	}

	executor, err := r.registry.Lookup(gameType)
	if err != nil {
		r.log.Warn("no executor for game type", zap.String("game_type", string(gameType)))
		return domain.MatchResult{
			Bot1Name:  bot1.TeamName(),
			Bot2Name:  bot2.TeamName(),
			GameType:  gameType,
			Outcome:   domain.Unknown,
			Errors:    []string{err.Error()},
			StartTime: start,
			EndTime:   start,
		}
	}

	result := r.runExecutor(ctx, executor, bot1, bot2, gameType, start)

	select {
	case <-ctx.Done():
		if result.Outcome != domain.Unknown {
			// executor returned before noticing cancellation; honor the
			// caller's signal anyway, as §4.1 requires.
			return cancelledResult(bot1, bot2, gameType, start)
		}
	default:
	}
	return result
}

// runExecutor isolates a potential panic inside executor.Execute so a
// single misbehaving Game Executor cannot take down the dispatcher.
func (r *Runner) runExecutor(ctx context.Context, executor engine.Executor, bot1, bot2 domain.Bot, gameType domain.GameType, start time.Time) (result domain.MatchResult) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("game executor panicked",
				zap.String("game_type", string(gameType)),
				zap.Any("panic", rec),
			)
			end := time.Now()
			result = domain.MatchResult{
				Bot1Name:  bot1.TeamName(),
				Bot2Name:  bot2.TeamName(),
				GameType:  gameType,
				Outcome:   domain.BothError,
				Errors:    []string{fmt.Sprintf("executor panic: %v", rec)},
				StartTime: start,
				EndTime:   end,
				Duration:  end.Sub(start),
			}
		}
	}()
	result = executor.Execute(ctx, bot1, bot2, r.cfg)
	if result.Duration == 0 && !result.EndTime.IsZero() {
		result.Duration = result.EndTime.Sub(result.StartTime)
	}
	return result
}

func cancelledResult(bot1, bot2 domain.Bot, gameType domain.GameType, start time.Time) domain.MatchResult {
	end := time.Now()
	return domain.MatchResult{
		Bot1Name:  bot1.TeamName(),
		Bot2Name:  bot2.TeamName(),
		GameType:  gameType,
		Outcome:   domain.Unknown,
		Errors:    []string{"cancelled"},
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start),
	}
}

// InvokeMove is the shared per-call-deadline helper Game Executors use to
// call a single bot method: it wraps fn in a child context bounded by
// moveTimeout and recovers a panicking bot, turning either fault into a
// move error the executor can fold into its error taxonomy.
func InvokeMove[T any](ctx context.Context, moveTimeout time.Duration, fn func(context.Context) (T, error)) (move T, moveErr error) {
	callCtx, cancel := context.WithTimeout(ctx, moveTimeout)
	defer cancel()

	type outcome struct {
		move T
		err  error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- outcome{err: fmt.Errorf("bot panicked: %v", rec)}
			}
		}()
		m, err := fn(callCtx)
		done <- outcome{move: m, err: err}
	}()

	select {
	case <-callCtx.Done():
		var zero T
		if ctx.Err() != nil {
			return zero, fmt.Errorf("cancelled")
		}
		return zero, fmt.Errorf("timeout")
	case o := <-done:
		return o.move, o.err
	}
}
