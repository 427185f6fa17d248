package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"salonpro-api/models"
)

// LoyaltyStore is what the loyalty updater reads and writes.
type LoyaltyStore interface {
	FindCustomerByNameAndPhone(ctx context.Context, name, phone string) (*models.Customer, error)
	RecordVisit(ctx context.Context, id uuid.UUID, amount int64, at time.Time) error
}

// LoyaltyVisit identifies the customer a visit is credited to.
type LoyaltyVisit struct {
	CustomerName  string
	CustomerPhone string
	Amount        int64
}

// LoyaltyUpdater credits visits to existing customers. It never creates a
// customer and never resets loyaltyVisits.
type LoyaltyUpdater struct {
	store  LoyaltyStore
	now    func() time.Time
	logger *slog.Logger
}

func NewLoyaltyUpdater(store LoyaltyStore, logger *slog.Logger) *LoyaltyUpdater {
	return &LoyaltyUpdater{store: store, now: time.Now, logger: logger}
}

// Apply credits visit to the customer matching name and phone. It reports
// whether a customer was found; an unknown customer is not an error.
func (u *LoyaltyUpdater) Apply(ctx context.Context, visit LoyaltyVisit) (bool, error) {
	customer, err := u.store.FindCustomerByNameAndPhone(ctx, visit.CustomerName, visit.CustomerPhone)
	if errors.Is(err, ErrNotFound) {
		u.logger.Debug("no customer for loyalty visit", "phone", visit.CustomerPhone)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := u.store.RecordVisit(ctx, customer.ID, visit.Amount, u.now().UTC()); err != nil {
		return false, err
	}
	u.logger.Info("loyalty visit recorded",
		"customer_id", customer.ID,
		"loyalty_visits", customer.LoyaltyVisits+1,
		"amount", visit.Amount,
	)
	return true, nil
}

// Task wraps Apply for the background queue.
func (u *LoyaltyUpdater) Task(visit LoyaltyVisit) Task {
	return Task{
		Name: "loyalty_update",
		Run: func(ctx context.Context) error {
			_, err := u.Apply(ctx, visit)
			return err
		},
	}
}
