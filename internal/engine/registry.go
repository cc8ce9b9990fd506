// Package engine holds the Game Executor Registry (C1): a closed,
// compile-time-known enumeration of game types mapped to the executor
// that plays one match for that type.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/bmstu-itstech/botarena/internal/domain"
)

// Executor plays one match between two bots under config and returns the
// terminal MatchResult. Implementations must honor the error taxonomy in
// package match and must return promptly when ctx is cancelled.
type Executor interface {
	Execute(ctx context.Context, bot1, bot2 domain.Bot, cfg Config) domain.MatchResult
}

// Config is the subset of TournamentConfig an executor needs to play a
// match; kept separate from internal/config.TournamentConfig so this
// package has no dependency on the config/env-loading machinery.
type Config struct {
	MoveTimeout    time.Duration
	MaxRoundsRPSLS int
}

// Registry maps a GameType token to its Executor. It is initialized once
// at startup and never mutated afterward, so lookups need no locking.
type Registry struct {
	executors map[domain.GameType]Executor
}

// NewRegistry builds a registry from the given game-type -> executor
// bindings.
func NewRegistry(bindings map[domain.GameType]Executor) *Registry {
	r := &Registry{executors: make(map[domain.GameType]Executor, len(bindings))}
	for gt, ex := range bindings {
		r.executors[gt] = ex
	}
	return r
}

// Lookup returns the executor registered for gameType, or an error
// matching the spec's NoExecutor taxonomy entry.
func (r *Registry) Lookup(gameType domain.GameType) (Executor, error) {
	ex, ok := r.executors[gameType]
	if !ok {
		return nil, fmt.Errorf("no executor: %s", gameType)
	}
	return ex, nil
}
