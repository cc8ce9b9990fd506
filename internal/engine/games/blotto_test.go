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

type scriptedBlottoBot struct {
	name  string
	alloc [5]int
}

func (b scriptedBlottoBot) TeamName() string { return b.name }
func (b scriptedBlottoBot) PlayColonelBlotto(ctx context.Context, state domain.GameState) ([5]int, error) {
	return b.alloc, nil
}

func TestColonelBlottoExecutor_MajorityBattlefieldsWin(t *testing.T) {
	bot1 := scriptedBlottoBot{name: "A", alloc: [5]int{30, 30, 30, 5, 5}}
	bot2 := scriptedBlottoBot{name: "B", alloc: [5]int{20, 20, 20, 20, 20}}
	cfg := engine.Config{MoveTimeout: time.Second}

	result := ColonelBlottoExecutor{}.Execute(context.Background(), bot1, bot2, cfg)

	require.Equal(t, domain.Player1Wins, result.Outcome)
	assert.Equal(t, 3, result.Bot1Score)
	assert.Equal(t, 2, result.Bot2Score)
}

func TestColonelBlottoExecutor_InvalidAllocationIsAnError(t *testing.T) {
	bot1 := scriptedBlottoBot{name: "A", alloc: [5]int{50, 50, 50, 50, 50}} // sums to 250
	bot2 := scriptedBlottoBot{name: "B", alloc: [5]int{20, 20, 20, 20, 20}}
	cfg := engine.Config{MoveTimeout: time.Second}

	result := ColonelBlottoExecutor{}.Execute(context.Background(), bot1, bot2, cfg)

	assert.Equal(t, domain.Player1Error, result.Outcome)
}
