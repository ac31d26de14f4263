package service

import (
	"context"
	"errors"

	"github.com/ikkim/perfume-storefront/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Notifier sends one templated message. emailjs.Client implements it.
type Notifier interface {
	Send(ctx context.Context, templateID string, params map[string]string) error
}

// NotificationTemplates holds the template ids for each outbound message.
type NotificationTemplates struct {
	Owner    string
	Customer string
	GiftCard string
}

type NotificationService interface {
	// NotifyOrder sends the operator and customer copies concurrently and
	// waits for both; the first failure is returned.
	NotifyOrder(ctx context.Context, params map[string]string) error
	NotifyGiftCardUse(ctx context.Context, params map[string]string) error
	Templates() NotificationTemplates
}

var ErrNotifierMissing = errors.New("notifier is required")

type notificationService struct {
	notifier  Notifier
	templates NotificationTemplates
}

func NewNotificationService(notifier Notifier, templates NotificationTemplates) (NotificationService, error) {
	if notifier == nil {
		return nil, ErrNotifierMissing
	}
	return &notificationService{
		notifier:  notifier,
		templates: templates,
	}, nil
}

func (s *notificationService) Templates() NotificationTemplates {
	return s.templates
}

func (s *notificationService) NotifyOrder(ctx context.Context, params map[string]string) error {
	// no derived context: one failed send must not cancel the other
	var g errgroup.Group
	for _, templateID := range []string{s.templates.Owner, s.templates.Customer} {
		g.Go(func() error {
			if err := s.notifier.Send(ctx, templateID, params); err != nil {
				logger.Error("Order notification failed", err, map[string]interface{}{
					"template_id": templateID,
				})
				return err
			}
			logger.Debug("Order notification sent", map[string]interface{}{
				"template_id": templateID,
			})
			return nil
		})
	}
	return g.Wait()
}

func (s *notificationService) NotifyGiftCardUse(ctx context.Context, params map[string]string) error {
	return s.notifier.Send(ctx, s.templates.GiftCard, params)
}
