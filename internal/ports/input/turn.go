package input

import (
	"context"

	"translationbot/internal/domain/entities"
)

// NextFunc continues the turn pipeline.
type NextFunc func(ctx context.Context) error

// SendNext forwards a send batch to the next stage.
type SendNext func(ctx context.Context) error

// UpdateNext forwards an update to the next stage.
type UpdateNext func(ctx context.Context) error

// TurnContext is the view a middleware or bot has of the current turn.
type TurnContext interface {
	Activity() *entities.Activity
	UserLanguage() entities.UserLanguage
	OnSend(interceptor SendInterceptor)
	OnUpdate(interceptor UpdateInterceptor)
	SendActivities(ctx context.Context, activities ...*entities.Activity) error
	UpdateActivity(ctx context.Context, activity *entities.Activity) error
}

// Middleware runs around the bot for every turn. It must call next exactly once
// to let the turn continue.
type Middleware interface {
	OnTurn(ctx context.Context, tc TurnContext, next NextFunc) error
}

// SendInterceptor sees every outgoing batch before it reaches the channel.
// It must call next exactly once and return its result.
type SendInterceptor interface {
	BeforeSend(ctx context.Context, activities []*entities.Activity, next SendNext) error
}

// UpdateInterceptor sees every activity update before it reaches the channel.
type UpdateInterceptor interface {
	BeforeUpdate(ctx context.Context, activity *entities.Activity, next UpdateNext) error
}

// BotHandler is the conversation logic invoked at the end of the middleware chain.
type BotHandler interface {
	HandleTurn(ctx context.Context, tc TurnContext) error
}
