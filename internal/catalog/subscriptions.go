package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mediatube/backend/internal/models"
	"github.com/mediatube/backend/internal/repositories"
)

// Subscribe records a subscription edge from the actor to the channel.
// Subscribing twice is a no-op; subscribing to yourself is invalid.
func (s *Service) Subscribe(ctx context.Context, actorID, channelID string) error {
	if actorID == "" || channelID == "" {
		return fmt.Errorf("%w: subscriber and channel ids", ErrValidation)
	}
	if actorID == channelID {
		return fmt.Errorf("%w: cannot subscribe to yourself", ErrValidation)
	}

	if _, err := s.Users.FindByID(ctx, channelID); err != nil {
		if missing(err) {
			return fmt.Errorf("channel %s: %w", channelID, ErrNotFound)
		}
		return fmt.Errorf("load channel: %w", err)
	}

	sub := models.Subscription{
		ID:           uuid.NewString(),
		SubscriberID: actorID,
		ChannelID:    channelID,
		CreatedAt:    s.now(),
	}

	if err := s.Subscriptions.Create(ctx, sub); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil // already subscribed
		}
		if missing(err) {
			return fmt.Errorf("subscribe: %w", ErrNotFound)
		}
		return fmt.Errorf("subscribe: %w", ErrWrite)
	}

	return nil
}

// Unsubscribe removes the actor's subscription edge to the channel.
func (s *Service) Unsubscribe(ctx context.Context, actorID, channelID string) error {
	if actorID == "" || channelID == "" {
		return fmt.Errorf("%w: subscriber and channel ids", ErrValidation)
	}

	if err := s.Subscriptions.Delete(ctx, actorID, channelID); err != nil {
		if missing(err) {
			return fmt.Errorf("subscription: %w", ErrNotFound)
		}
		return fmt.Errorf("unsubscribe: %w", ErrWrite)
	}

	return nil
}
