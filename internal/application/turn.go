package application

import (
	"context"
	"fmt"

	"translationbot/internal/domain/entities"
	"translationbot/internal/ports/input"
	"translationbot/internal/ports/output"
)

var _ input.TurnContext = (*Turn)(nil)

// Turn carries one inbound activity through the pipeline and routes replies
// through the registered interceptors to the channel sender.
type Turn struct {
	activity     *entities.Activity
	userLanguage entities.UserLanguage
	sender       output.ActivitySender

	sendInterceptors   []input.SendInterceptor
	updateInterceptors []input.UpdateInterceptor
}

// NewTurn creates a Turn for activity. hints may be nil.
func NewTurn(activity *entities.Activity, hints entities.UserLanguage, sender output.ActivitySender) *Turn {
	return &Turn{
		activity:     activity,
		userLanguage: hints,
		sender:       sender,
	}
}

func (t *Turn) Activity() *entities.Activity { return t.activity }

func (t *Turn) UserLanguage() entities.UserLanguage { return t.userLanguage }

// OnSend registers an interceptor; interceptors run in registration order.
func (t *Turn) OnSend(interceptor input.SendInterceptor) {
	t.sendInterceptors = append(t.sendInterceptors, interceptor)
}

// OnUpdate registers an interceptor; interceptors run in registration order.
func (t *Turn) OnUpdate(interceptor input.UpdateInterceptor) {
	t.updateInterceptors = append(t.updateInterceptors, interceptor)
}

// SendActivities stamps conversation addressing on each activity, runs the send
// interceptors and finally hands the batch to the sender.
func (t *Turn) SendActivities(ctx context.Context, activities ...*entities.Activity) error {
	if len(activities) == 0 {
		return nil
	}
	for _, a := range activities {
		if a.ChannelID == "" {
			a.ChannelID = t.activity.ChannelID
		}
		if a.ConversationID == "" {
			a.ConversationID = t.activity.ConversationID
		}
	}
	return t.runSend(ctx, 0, activities)
}

func (t *Turn) runSend(ctx context.Context, i int, activities []*entities.Activity) error {
	if i == len(t.sendInterceptors) {
		if err := t.sender.Send(ctx, activities); err != nil {
			return fmt.Errorf("send activities: %w", err)
		}
		return nil
	}
	return t.sendInterceptors[i].BeforeSend(ctx, activities, func(ctx context.Context) error {
		return t.runSend(ctx, i+1, activities)
	})
}

// UpdateActivity runs the update interceptors and then asks the sender to edit
// the already delivered activity.
func (t *Turn) UpdateActivity(ctx context.Context, activity *entities.Activity) error {
	return t.runUpdate(ctx, 0, activity)
}

func (t *Turn) runUpdate(ctx context.Context, i int, activity *entities.Activity) error {
	if i == len(t.updateInterceptors) {
		if err := t.sender.Update(ctx, activity); err != nil {
			return fmt.Errorf("update activity: %w", err)
		}
		return nil
	}
	return t.updateInterceptors[i].BeforeUpdate(ctx, activity, func(ctx context.Context) error {
		return t.runUpdate(ctx, i+1, activity)
	})
}

// ConversationKey identifies the conversation an activity belongs to.
func ConversationKey(a *entities.Activity) string {
	return a.ChannelID + "/" + a.ConversationID
}
