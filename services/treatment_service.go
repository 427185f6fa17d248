package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"salonpro-api/models"
	"salonpro-api/repository"
	"salonpro-api/utils"
)

// TreatmentInput creates a treatment. Price defaults to the service's
// effective price, or 0 for a free visit.
type TreatmentInput struct {
	CustomerID  *uuid.UUID `json:"customerId"`
	ServiceID   uuid.UUID  `json:"serviceId" binding:"required"`
	TherapistID uuid.UUID  `json:"therapistId" binding:"required"`
	Date        string     `json:"date"`
	Price       *int64     `json:"price"`
	TipAmount   int64      `json:"tipAmount"`
	IsFreeVisit bool       `json:"isFreeVisit"`
	Notes       string     `json:"notes"`
}

// TreatmentPatch updates the fields that are set. RemoveCustomer unlinks
// the customer.
type TreatmentPatch struct {
	CustomerID     *uuid.UUID `json:"customerId"`
	RemoveCustomer bool       `json:"removeCustomer"`
	ServiceID      *uuid.UUID `json:"serviceId"`
	TherapistID    *uuid.UUID `json:"therapistId"`
	Date           *string    `json:"date"`
	Price          *int64     `json:"price"`
	TipAmount      *int64     `json:"tipAmount"`
	IsFreeVisit    *bool      `json:"isFreeVisit"`
	Notes          *string    `json:"notes"`
}

// TreatmentService owns every write to treatments. Each mutation runs in a
// single transaction together with the customer, service and therapist
// counters it affects.
type TreatmentService struct {
	store  *repository.Store
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger
}

func NewTreatmentService(store *repository.Store, loc *time.Location, logger *slog.Logger) *TreatmentService {
	return &TreatmentService{store: store, loc: loc, now: time.Now, logger: logger}
}

func checkAmounts(price, tip *int64) error {
	if price != nil && *price < 0 {
		return validationError("price must not be negative")
	}
	if tip != nil && *tip < 0 {
		return validationError("tipAmount must not be negative")
	}
	return nil
}

func (s *TreatmentService) dateOrToday(date string) (time.Time, error) {
	if date == "" {
		return utils.CalendarDate(s.now().In(s.loc)), nil
	}
	day, err := utils.ParseDate(date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return day, nil
}

// earnings of a treatment for the given therapist; zero when the therapist
// row is gone.
func earnings(th *models.Therapist, t *models.Treatment) int64 {
	if th == nil {
		return 0
	}
	return th.EarningsFor(t.Price, t.TipAmount)
}

func (s *TreatmentService) Create(ctx context.Context, in TreatmentInput) (*models.Treatment, error) {
	if err := checkAmounts(in.Price, &in.TipAmount); err != nil {
		return nil, err
	}
	day, err := s.dateOrToday(in.Date)
	if err != nil {
		return nil, err
	}

	treatment := &models.Treatment{
		CustomerID:  in.CustomerID,
		ServiceID:   in.ServiceID,
		TherapistID: in.TherapistID,
		Date:        datatypes.Date(day),
		TipAmount:   in.TipAmount,
		IsFreeVisit: in.IsFreeVisit,
		Notes:       strings.TrimSpace(in.Notes),
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		service, err := tx.GetService(ctx, in.ServiceID)
		if err != nil {
			return err
		}
		therapist, err := tx.GetTherapist(ctx, in.TherapistID)
		if err != nil {
			return err
		}
		if in.CustomerID != nil {
			if _, err := tx.GetCustomer(ctx, *in.CustomerID); err != nil {
				return err
			}
		}

		switch {
		case in.Price != nil:
			treatment.Price = *in.Price
		case in.IsFreeVisit:
			treatment.Price = 0
		default:
			treatment.Price = service.EffectivePrice()
		}

		if err := tx.CreateTreatment(ctx, treatment); err != nil {
			return err
		}
		if treatment.CustomerID != nil {
			now := s.now().UTC()
			if err := tx.AdjustCustomerStats(ctx, *treatment.CustomerID, 1, treatment.Revenue(), &now); err != nil {
				return err
			}
		}
		if err := tx.AdjustServicePopularity(ctx, service.ID, 1); err != nil {
			return err
		}
		return tx.AdjustTherapistStats(ctx, therapist.ID, 1, earnings(therapist, treatment))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("treatment created", "treatment_id", treatment.ID, "price", treatment.Price)
	return s.store.GetTreatment(ctx, treatment.ID)
}

// Update applies patch and moves the denormalised counters by the
// difference between the old and the new row.
func (s *TreatmentService) Update(ctx context.Context, id uuid.UUID, patch TreatmentPatch) (*models.Treatment, error) {
	if err := checkAmounts(patch.Price, patch.TipAmount); err != nil {
		return nil, err
	}
	var day *time.Time
	if patch.Date != nil {
		d, err := s.dateOrToday(*patch.Date)
		if err != nil {
			return nil, err
		}
		day = &d
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		old, err := tx.GetTreatment(ctx, id)
		if err != nil {
			return err
		}

		updated := *old
		updated.Customer, updated.Service, updated.Therapist = nil, nil, nil
		if patch.RemoveCustomer {
			updated.CustomerID = nil
		} else if patch.CustomerID != nil {
			updated.CustomerID = patch.CustomerID
		}
		if patch.ServiceID != nil {
			updated.ServiceID = *patch.ServiceID
		}
		if patch.TherapistID != nil {
			updated.TherapistID = *patch.TherapistID
		}
		if day != nil {
			updated.Date = datatypes.Date(*day)
		}
		if patch.Price != nil {
			updated.Price = *patch.Price
		}
		if patch.TipAmount != nil {
			updated.TipAmount = *patch.TipAmount
		}
		if patch.IsFreeVisit != nil {
			updated.IsFreeVisit = *patch.IsFreeVisit
		}
		if patch.Notes != nil {
			updated.Notes = strings.TrimSpace(*patch.Notes)
		}

		if err := s.moveCustomer(ctx, tx, old, &updated); err != nil {
			return err
		}
		if updated.ServiceID != old.ServiceID {
			if _, err := tx.GetService(ctx, updated.ServiceID); err != nil {
				return err
			}
			if err := tx.AdjustServicePopularity(ctx, old.ServiceID, -1); err != nil {
				return err
			}
			if err := tx.AdjustServicePopularity(ctx, updated.ServiceID, 1); err != nil {
				return err
			}
		}
		if err := moveTherapist(ctx, tx, old, &updated); err != nil {
			return err
		}
		return tx.SaveTreatment(ctx, &updated)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("treatment updated", "treatment_id", id)
	return s.store.GetTreatment(ctx, id)
}

func sameCustomer(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s *TreatmentService) moveCustomer(ctx context.Context, tx *repository.Store, old, updated *models.Treatment) error {
	if sameCustomer(old.CustomerID, updated.CustomerID) {
		delta := updated.Revenue() - old.Revenue()
		if old.CustomerID == nil || delta == 0 {
			return nil
		}
		return tx.AdjustCustomerStats(ctx, *old.CustomerID, 0, delta, nil)
	}

	if updated.CustomerID != nil {
		if _, err := tx.GetCustomer(ctx, *updated.CustomerID); err != nil {
			return err
		}
	}
	if old.CustomerID != nil {
		if err := tx.AdjustCustomerStats(ctx, *old.CustomerID, -1, -old.Revenue(), nil); err != nil {
			return err
		}
	}
	if updated.CustomerID != nil {
		now := s.now().UTC()
		return tx.AdjustCustomerStats(ctx, *updated.CustomerID, 1, updated.Revenue(), &now)
	}
	return nil
}

func moveTherapist(ctx context.Context, tx *repository.Store, old, updated *models.Treatment) error {
	if updated.TherapistID == old.TherapistID {
		th := old.Therapist
		delta := earnings(th, updated) - earnings(th, old)
		if delta == 0 {
			return nil
		}
		return tx.AdjustTherapistStats(ctx, old.TherapistID, 0, delta)
	}

	next, err := tx.GetTherapist(ctx, updated.TherapistID)
	if err != nil {
		return err
	}
	if err := tx.AdjustTherapistStats(ctx, old.TherapistID, -1, -earnings(old.Therapist, old)); err != nil {
		return err
	}
	return tx.AdjustTherapistStats(ctx, next.ID, 1, earnings(next, updated))
}

// Delete removes the treatment, its feedback, and its contribution to the
// customer, service and therapist counters.
func (s *TreatmentService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		old, err := tx.GetTreatment(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.DeleteFeedbackForTreatment(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteTreatment(ctx, id); err != nil {
			return err
		}
		if old.CustomerID != nil {
			if err := tx.AdjustCustomerStats(ctx, *old.CustomerID, -1, -old.Revenue(), nil); err != nil {
				return err
			}
		}
		if err := tx.AdjustServicePopularity(ctx, old.ServiceID, -1); err != nil {
			return err
		}
		return tx.AdjustTherapistStats(ctx, old.TherapistID, -1, -earnings(old.Therapist, old))
	})
	if err != nil {
		return err
	}
	s.logger.Info("treatment deleted", "treatment_id", id)
	return nil
}

func (s *TreatmentService) Get(ctx context.Context, id uuid.UUID) (*models.Treatment, error) {
	return s.store.GetTreatment(ctx, id)
}

// List returns treatments dated from..to inclusive. Both default to today.
func (s *TreatmentService) List(ctx context.Context, from, to string) ([]models.Treatment, error) {
	start, err := s.dateOrToday(from)
	if err != nil {
		return nil, err
	}
	end := start
	if to != "" {
		if end, err = s.dateOrToday(to); err != nil {
			return nil, err
		}
	}
	if end.Before(start) {
		return nil, validationError("to must not be before from")
	}
	return s.store.ListTreatments(ctx, start, end.AddDate(0, 0, 1))
}
