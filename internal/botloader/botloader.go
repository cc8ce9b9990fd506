// Package botloader declares the BotLoader collaborator: an external seam
// for resolving a TeamName to a ready-to-invoke domain.Bot. The engine
// never calls it internally — bots are handed to the Series Manager
// pre-loaded — but it is declared so downstream wiring code has a named
// dependency to implement, rather than a concrete loading mechanism this
// module would otherwise have to bake in.
package botloader

import (
	"context"

	"github.com/bmstu-itstech/botarena/internal/domain"
)

// BotLoader resolves a TeamName into a Bot within importTimeout (the
// caller is expected to bound ctx accordingly).
type BotLoader interface {
	Load(ctx context.Context, teamName string) (domain.Bot, error)
}
