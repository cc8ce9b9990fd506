package main

import (
	"context"
	"math/rand"

	"github.com/bmstu-itstech/botarena/internal/domain"
)

// referenceBot is a small deterministic reference player implementing
// all four capability interfaces, so the demo's in-memory BotLoader can
// hand out playable bots without a real submitted-code loading pipeline.
// It is not an opponent worth studying — just enough to exercise every
// Game Executor end to end.
type referenceBot struct {
	name string
	rng  *rand.Rand
}

func newReferenceBot(name string, seed int64) *referenceBot {
	return &referenceBot{name: name, rng: rand.New(rand.NewSource(seed))}
}

func (b *referenceBot) TeamName() string { return b.name }

var rpslsMoves = []string{"rock", "paper", "scissors", "lizard", "spock"}

func (b *referenceBot) PlayRPSLS(ctx context.Context, state domain.GameState) (string, error) {
	return rpslsMoves[b.rng.Intn(len(rpslsMoves))], nil
}

func (b *referenceBot) PlayColonelBlotto(ctx context.Context, state domain.GameState) ([5]int, error) {
	var alloc [5]int
	remaining := 100
	for i := 0; i < 4; i++ {
		share := b.rng.Intn(remaining/2 + 1)
		alloc[i] = share
		remaining -= share
	}
	alloc[4] = remaining
	return alloc, nil
}

var penaltyDirs = []string{"left", "center", "right"}

func (b *referenceBot) PlayPenaltyKicks(ctx context.Context, state domain.GameState) (string, error) {
	return penaltyDirs[b.rng.Intn(len(penaltyDirs))], nil
}

var securitySites = []string{"siteA", "siteB", "siteC"}

func (b *referenceBot) PlaySecurityGame(ctx context.Context, state domain.GameState) (string, error) {
	return securitySites[b.rng.Intn(len(securitySites))], nil
}

var (
	_ domain.RPSLSPlayer         = (*referenceBot)(nil)
	_ domain.ColonelBlottoPlayer = (*referenceBot)(nil)
	_ domain.PenaltyKicksPlayer  = (*referenceBot)(nil)
	_ domain.SecurityGamePlayer  = (*referenceBot)(nil)
)

// inMemoryBotLoader resolves a TeamName to a new referenceBot, seeded
// deterministically off the name so repeated Create calls for the same
// roster produce bots that play the same moves.
type inMemoryBotLoader struct{}

func newInMemoryBotLoader() *inMemoryBotLoader {
	return &inMemoryBotLoader{}
}

func (l *inMemoryBotLoader) Load(ctx context.Context, teamName string) (domain.Bot, error) {
	seed := int64(0)
	for _, r := range teamName {
		seed = seed*31 + int64(r)
	}
	return newReferenceBot(teamName, seed), nil
}
