package webchat

import (
	"context"
	"fmt"

	"translationbot/internal/domain/entities"
	"translationbot/internal/ports/output"
)

var _ output.ActivitySender = (*collectingSender)(nil)

// collectingSender buffers the turn's replies so they can be returned in the HTTP response.
type collectingSender struct {
	activities []*entities.Activity
	seq        int
}

func (s *collectingSender) Send(ctx context.Context, activities []*entities.Activity) error {
	for _, a := range activities {
		if a.ID == "" {
			s.seq++
			a.ID = fmt.Sprintf("%s-%d", a.ConversationID, s.seq)
		}
		s.activities = append(s.activities, a)
	}
	return nil
}

func (s *collectingSender) Update(ctx context.Context, activity *entities.Activity) error {
	for i, a := range s.activities {
		if a.ID == activity.ID {
			s.activities[i] = activity
			return nil
		}
	}
	return fmt.Errorf("activity %q was not sent in this turn", activity.ID)
}
