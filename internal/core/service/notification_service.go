package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bistro/pos-system/internal/core/domain"
	"github.com/bistro/pos-system/internal/core/ports"
)

// DeliveryObserver is told about every notifier attempt (metrics hook).
type DeliveryObserver interface {
	ObserveDelivery(notifier string, err error, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveDelivery(string, error, time.Duration) {}

type notificationService struct {
	sales     ports.SaleRepository
	notifiers []ports.OrderNotifier
	observer  DeliveryObserver
	log       zerolog.Logger
}

// NewNotificationService returns a NotificationService that fans each order
// out to every notifier. observer may be nil.
func NewNotificationService(
	sales ports.SaleRepository,
	notifiers []ports.OrderNotifier,
	observer DeliveryObserver,
	log zerolog.Logger,
) ports.NotificationService {
	if observer == nil {
		observer = nopObserver{}
	}
	return &notificationService{
		sales:     sales,
		notifiers: notifiers,
		observer:  observer,
		log:       log,
	}
}

// Process delivers n to all notifiers and records the outcome on the sale.
// The sale is marked failed if any notifier fails.
func (s *notificationService) Process(ctx context.Context, n ports.OrderNotification) error {
	status := domain.NotificationSent
	if len(s.notifiers) == 0 {
		status = domain.NotificationSkipped
	}

	var errs []error
	for _, notifier := range s.notifiers {
		start := time.Now()
		err := notifier.Notify(ctx, n)
		s.observer.ObserveDelivery(notifier.Name(), err, time.Since(start))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", notifier.Name(), err))
			continue
		}
		s.log.Debug().
			Str("order_number", n.OrderNumber).
			Str("notifier", notifier.Name()).
			Msg("order delivered")
	}
	if len(errs) > 0 {
		status = domain.NotificationFailed
	}

	if err := s.sales.UpdateNotification(ctx, n.SaleID, status); err != nil {
		s.log.Warn().Err(err).Str("sale_id", n.SaleID).Msg("failed to record notification status")
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify order %s: %w", n.OrderNumber, errors.Join(errs...))
	}

	s.log.Info().
		Str("order_number", n.OrderNumber).
		Str("status", string(status)).
		Msg("order notification processed")
	return nil
}
