package output

import (
	"context"

	"translationbot/internal/domain/entities"
)

// ActivitySender delivers activities to a channel once every interceptor has run.
type ActivitySender interface {
	Send(ctx context.Context, activities []*entities.Activity) error
	Update(ctx context.Context, activity *entities.Activity) error
}

// Bridge receives each translated message before delivery, for channel-specific
// decoration done outside the bot.
type Bridge interface {
	BridgeMessage(activity *entities.Activity)
}
