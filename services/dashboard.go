package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"salonpro-api/models"
	"salonpro-api/utils"
)

const walkInCustomer = "Walk-in"

// DashboardStore is the read surface the dashboard aggregates over.
type DashboardStore interface {
	Ping(ctx context.Context) error
	ListTreatments(ctx context.Context, from, to time.Time) ([]models.Treatment, error)
	CountCustomers(ctx context.Context) (int64, error)
	CountCustomersWithLoyaltyVisits(ctx context.Context, visits int) (int64, error)
	CountActiveServices(ctx context.Context) (int64, error)
	CountActiveTherapists(ctx context.Context) (int64, error)
}

// PeriodTotals are the figures reported for one aggregation window.
type PeriodTotals struct {
	Treatments     int   `json:"treatments"`
	Revenue        int64 `json:"revenue"`
	TherapistFees  int64 `json:"therapistFees"`
	FreeTreatments int   `json:"freeTreatments"`
	Profit         int64 `json:"profit"`
}

type TreatmentDetail struct {
	ID            string `json:"id"`
	CustomerName  string `json:"customerName"`
	ServiceName   string `json:"serviceName"`
	TherapistName string `json:"therapistName"`
	Price         int64  `json:"price"`
	TherapistFee  int64  `json:"therapistFee"`
	TipAmount     int64  `json:"tipAmount"`
	IsFreeVisit   bool   `json:"isFreeVisit"`
	Notes         string `json:"notes,omitempty"`
}

type DaySummary struct {
	Date string `json:"date"`
	PeriodTotals
	Details []TreatmentDetail `json:"details"`
}

type MonthSummary struct {
	From string `json:"from"`
	To   string `json:"to"`
	PeriodTotals
}

type CustomerStats struct {
	Total            int64 `json:"total"`
	LoyaltyEligible  int64 `json:"loyaltyEligible"`
	LoyaltyThreshold int   `json:"loyaltyThreshold"`
}

type SystemStats struct {
	ActiveServices   int64 `json:"activeServices"`
	ActiveTherapists int64 `json:"activeTherapists"`
}

type DashboardSummary struct {
	Today     DaySummary    `json:"today"`
	Monthly   MonthSummary  `json:"monthly"`
	Customers CustomerStats `json:"customers"`
	System    SystemStats   `json:"system"`
}

type DashboardService struct {
	store            DashboardStore
	loyaltyThreshold int
	loc              *time.Location
	now              func() time.Time
	logger           *slog.Logger
}

func NewDashboardService(store DashboardStore, loyaltyThreshold int, loc *time.Location, logger *slog.Logger) *DashboardService {
	return &DashboardService{
		store:            store,
		loyaltyThreshold: loyaltyThreshold,
		loc:              loc,
		now:              time.Now,
		logger:           logger,
	}
}

// Summarize reduces treatments into period totals. Free visits add nothing
// to revenue or fees; everything else adds its stored price and its
// service's configured therapist fee.
func Summarize(treatments []models.Treatment) PeriodTotals {
	var totals PeriodTotals
	for i := range treatments {
		t := &treatments[i]
		totals.Treatments++
		if t.IsFreeVisit {
			totals.FreeTreatments++
			continue
		}
		totals.Revenue += t.Price
		totals.TherapistFees += serviceFee(t)
	}
	totals.Profit = totals.Revenue - totals.TherapistFees
	return totals
}

func serviceFee(t *models.Treatment) int64 {
	if t.Service == nil {
		return 0
	}
	return t.Service.TherapistFee
}

func treatmentDetails(treatments []models.Treatment) []TreatmentDetail {
	details := make([]TreatmentDetail, 0, len(treatments))
	for i := range treatments {
		t := &treatments[i]
		d := TreatmentDetail{
			ID:           t.ID.String(),
			CustomerName: walkInCustomer,
			Price:        t.Price,
			TipAmount:    t.TipAmount,
			IsFreeVisit:  t.IsFreeVisit,
			Notes:        t.Notes,
		}
		if t.Customer != nil {
			d.CustomerName = t.Customer.Name
		}
		if t.Service != nil {
			d.ServiceName = t.Service.Name
			if !t.IsFreeVisit {
				d.TherapistFee = t.Service.TherapistFee
			}
		}
		if t.Therapist != nil {
			d.TherapistName = t.Therapist.FullName
		}
		details = append(details, d)
	}
	return details
}

// Summary aggregates the dashboard for the given YYYY-MM-DD date, or for
// today when date is empty. The monthly window runs from the first of the
// date's month through the date itself.
func (s *DashboardService) Summary(ctx context.Context, date string) (*DashboardSummary, error) {
	day := utils.CalendarDate(s.now().In(s.loc))
	if date != "" {
		parsed, err := utils.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		day = parsed
	}
	nextDay := day.AddDate(0, 0, 1)
	monthStart := utils.BeginningOfMonth(day)

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("dashboard store unavailable", "error", err)
		return nil, err
	}

	var (
		today, month                     []models.Treatment
		customers, loyaltyEligible       int64
		activeServices, activeTherapists int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		today, err = s.store.ListTreatments(gctx, day, nextDay)
		return err
	})
	g.Go(func() (err error) {
		month, err = s.store.ListTreatments(gctx, monthStart, nextDay)
		return err
	})
	g.Go(func() (err error) {
		customers, err = s.store.CountCustomers(gctx)
		return err
	})
	g.Go(func() (err error) {
		loyaltyEligible, err = s.store.CountCustomersWithLoyaltyVisits(gctx, s.loyaltyThreshold)
		return err
	})
	g.Go(func() (err error) {
		activeServices, err = s.store.CountActiveServices(gctx)
		return err
	})
	g.Go(func() (err error) {
		activeTherapists, err = s.store.CountActiveTherapists(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("dashboard aggregation failed", "date", day.Format(utils.DateLayout), "error", err)
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}

	return &DashboardSummary{
		Today: DaySummary{
			Date:         day.Format(utils.DateLayout),
			PeriodTotals: Summarize(today),
			Details:      treatmentDetails(today),
		},
		Monthly: MonthSummary{
			From:         monthStart.Format(utils.DateLayout),
			To:           day.Format(utils.DateLayout),
			PeriodTotals: Summarize(month),
		},
		Customers: CustomerStats{
			Total:            customers,
			LoyaltyEligible:  loyaltyEligible,
			LoyaltyThreshold: s.loyaltyThreshold,
		},
		System: SystemStats{
			ActiveServices:   activeServices,
			ActiveTherapists: activeTherapists,
		},
	}, nil
}
