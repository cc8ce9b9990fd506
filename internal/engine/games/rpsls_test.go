package games

import (
	"context"
	"testing"
	"time"

	"github.com/bmstu-itstech/botarena/internal/domain"
	"github.com/bmstu-itstech/botarena/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedRPSLSBot struct {
	name  string
	moves []string
	i     int
}

func (b *scriptedRPSLSBot) TeamName() string { return b.name }

func (b *scriptedRPSLSBot) PlayRPSLS(ctx context.Context, state domain.GameState) (string, error) {
	if b.i >= len(b.moves) {
		return b.moves[len(b.moves)-1], nil
	}
	m := b.moves[b.i]
	b.i++
	return m, nil
}

type erroringBot struct{ name string }

func (b erroringBot) TeamName() string { return b.name }
func (b erroringBot) PlayRPSLS(ctx context.Context, state domain.GameState) (string, error) {
	return "", assert.AnError
}

type sleepyBot struct {
	name  string
	sleep time.Duration
}

func (b sleepyBot) TeamName() string { return b.name }
func (b sleepyBot) PlayRPSLS(ctx context.Context, state domain.GameState) (string, error) {
	select {
	case <-time.After(b.sleep):
		return "rock", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestRPSLSExecutor_RockBeatsScissors(t *testing.T) {
	bot1 := &scriptedRPSLSBot{name: "A", moves: []string{"rock"}}
	bot2 := &scriptedRPSLSBot{name: "B", moves: []string{"scissors"}}
	cfg := engine.Config{MoveTimeout: time.Second, MaxRoundsRPSLS: 1}

	result := RPSLSExecutor{}.Execute(context.Background(), bot1, bot2, cfg)

	require.Equal(t, domain.Player1Wins, result.Outcome)
	assert.Equal(t, "A", result.WinnerName)
	assert.Equal(t, 1, result.Bot1Score)
	assert.Equal(t, 0, result.Bot2Score)
}

func TestRPSLSExecutor_Draw(t *testing.T) {
	bot1 := &scriptedRPSLSBot{name: "A", moves: []string{"rock"}}
	bot2 := &scriptedRPSLSBot{name: "B", moves: []string{"rock"}}
	cfg := engine.Config{MoveTimeout: time.Second, MaxRoundsRPSLS: 1}

	result := RPSLSExecutor{}.Execute(context.Background(), bot1, bot2, cfg)

	assert.Equal(t, domain.Draw, result.Outcome)
	assert.Empty(t, result.WinnerName)
}

func TestRPSLSExecutor_BotErrorBecomesOpponentWin(t *testing.T) {
	bot1 := erroringBot{name: "A"}
	bot2 := &scriptedRPSLSBot{name: "B", moves: []string{"rock"}}
	cfg := engine.Config{MoveTimeout: time.Second, MaxRoundsRPSLS: 1}

	result := RPSLSExecutor{}.Execute(context.Background(), bot1, bot2, cfg)

	assert.Equal(t, domain.Player1Error, result.Outcome)
	assert.Equal(t, "B", result.WinnerName)
	assert.Contains(t, result.Errors, assert.AnError.Error())
}

func TestRPSLSExecutor_TimeoutIsRecordedLiterally(t *testing.T) {
	bot1 := sleepyBot{name: "A", sleep: 50 * time.Millisecond}
	bot2 := &scriptedRPSLSBot{name: "B", moves: []string{"rock"}}
	cfg := engine.Config{MoveTimeout: 5 * time.Millisecond, MaxRoundsRPSLS: 1}

	result := RPSLSExecutor{}.Execute(context.Background(), bot1, bot2, cfg)

	assert.Equal(t, domain.Player1Error, result.Outcome)
	assert.Contains(t, result.Errors, "timeout")
}

func TestRPSLSExecutor_BothError(t *testing.T) {
	bot1 := erroringBot{name: "A"}
	bot2 := erroringBot{name: "B"}
	cfg := engine.Config{MoveTimeout: time.Second, MaxRoundsRPSLS: 1}

	result := RPSLSExecutor{}.Execute(context.Background(), bot1, bot2, cfg)

	assert.Equal(t, domain.BothError, result.Outcome)
	assert.Empty(t, result.WinnerName)
	assert.Equal(t, 0, result.Bot1Score+result.Bot2Score)
}
