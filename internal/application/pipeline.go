package application

import (
	"context"
	"fmt"

	"translationbot/internal/domain"
	"translationbot/internal/ports/input"
)

// Pipeline runs middlewares in order around a bot handler.
type Pipeline struct {
	middlewares []input.Middleware
}

// NewPipeline creates a Pipeline with the given middlewares.
func NewPipeline(middlewares ...input.Middleware) *Pipeline {
	return &Pipeline{middlewares: middlewares}
}

// Use appends middlewares to the chain.
func (p *Pipeline) Use(middlewares ...input.Middleware) {
	p.middlewares = append(p.middlewares, middlewares...)
}

// Run processes one turn. A middleware that does not call next short-circuits the bot.
func (p *Pipeline) Run(ctx context.Context, tc input.TurnContext, bot input.BotHandler) error {
	if tc == nil {
		return domain.ErrNilTurnContext
	}
	return p.run(ctx, 0, tc, bot)
}

func (p *Pipeline) run(ctx context.Context, i int, tc input.TurnContext, bot input.BotHandler) error {
	if i == len(p.middlewares) {
		if bot == nil {
			return nil
		}
		if err := bot.HandleTurn(ctx, tc); err != nil {
			return fmt.Errorf("bot handler: %w", err)
		}
		return nil
	}
	called := false
	return p.middlewares[i].OnTurn(ctx, tc, func(ctx context.Context) error {
		if called {
			return fmt.Errorf("middleware %d called next more than once", i)
		}
		called = true
		return p.run(ctx, i+1, tc, bot)
	})
}
