// Package newsletter manages subscriber signup and soft unsubscribe.
// Unsubscribing flips the active flag; records are never hard-deleted.
package newsletter

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/evoshop/pkg/errs"
	"github.com/example/evoshop/pkg/models"
)

type SubscriberStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Subscriber, error)
	Insert(ctx context.Context, subscriber *models.Subscriber) error
	SetActive(ctx context.Context, email string, active bool) (*models.Subscriber, error)
	List(ctx context.Context, active *bool) ([]models.Subscriber, error)
}

type SubscribeRequest struct {
	Email    string          `json:"email"`
	Name     string          `json:"name,omitempty"`
	GoogleID string          `json:"googleId,omitempty"`
	Provider models.Provider `json:"provider,omitempty"`
}

type Service struct {
	store  SubscriberStore
	logger *zap.Logger
}

func NewService(store SubscriberStore, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Subscribe creates a subscriber, or reactivates a previously unsubscribed
// one. An already-active email is a validation error.
func (s *Service) Subscribe(ctx context.Context, req *SubscribeRequest) (*models.Subscriber, bool, error) {
	if req.Email == "" {
		return nil, false, errs.E(errs.KindValidation, "email is required")
	}

	existing, err := s.store.GetByEmail(ctx, req.Email)
	if err != nil && !errs.IsNotFound(err) {
		return nil, false, fmt.Errorf("failed to look up subscriber: %w", err)
	}

	if existing != nil {
		if existing.Active {
			return nil, false, errs.E(errs.KindValidation, "email already subscribed")
		}
		subscriber, err := s.store.SetActive(ctx, req.Email, true)
		if err != nil {
			return nil, false, fmt.Errorf("failed to reactivate subscription: %w", err)
		}
		s.logger.Info("Subscription reactivated", zap.String("email", req.Email))
		return subscriber, true, nil
	}

	provider := req.Provider
	if provider == "" {
		provider = models.ProviderEmail
	}

	subscriber := &models.Subscriber{
		Email:        req.Email,
		Name:         req.Name,
		GoogleID:     req.GoogleID,
		Provider:     provider,
		Active:       true,
		SubscribedAt: time.Now().UTC(),
		Preferences: models.Preferences{
			NewArrivals: true,
			Promotions:  true,
			Newsletter:  true,
		},
	}
	if err := s.store.Insert(ctx, subscriber); err != nil {
		if errs.IsConflict(err) {
			return nil, false, errs.E(errs.KindValidation, "email already subscribed")
		}
		return nil, false, fmt.Errorf("failed to subscribe: %w", err)
	}

	s.logger.Info("Subscriber created", zap.String("email", req.Email))
	return subscriber, false, nil
}

func (s *Service) Unsubscribe(ctx context.Context, email string) error {
	if email == "" {
		return errs.E(errs.KindValidation, "email is required")
	}
	if _, err := s.store.SetActive(ctx, email, false); err != nil {
		return err
	}
	s.logger.Info("Subscriber deactivated", zap.String("email", email))
	return nil
}

func (s *Service) List(ctx context.Context, active *bool) ([]models.Subscriber, error) {
	subscribers, err := s.store.List(ctx, active)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	if subscribers == nil {
		subscribers = []models.Subscriber{}
	}
	return subscribers, nil
}
