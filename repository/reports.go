package repository

import (
	"context"
	"time"

	"salonpro-api/models"
)

// revenueExpr sums prices while skipping free visits.
const revenueExpr = "COALESCE(SUM(CASE WHEN treatments.is_free_visit THEN 0 ELSE treatments.price END), 0)"

type ServiceSummary struct {
	Name           string `json:"name"`
	TreatmentCount int64  `json:"treatments"`
	Revenue        int64  `json:"revenue"`
}

type TherapistSummary struct {
	Name           string `json:"name"`
	TreatmentCount int64  `json:"treatments"`
	Revenue        int64  `json:"revenue"`
	Tips           int64  `json:"tips"`
}

// RevenueBetween sums non-free treatment prices dated in [from, to).
func (s *Store) RevenueBetween(ctx context.Context, from, to time.Time) (int64, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return 0, err
	}
	var total int64
	err = db.Model(&models.Treatment{}).
		Where("date >= ? AND date < ?", from, to).
		Select(revenueExpr).
		Scan(&total).Error
	return total, err
}

func (s *Store) TopServices(ctx context.Context, from, to time.Time, limit int) ([]ServiceSummary, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var services []ServiceSummary
	err = db.Table("treatments").
		Select("services.name AS name, COUNT(treatments.id) AS treatment_count, "+revenueExpr+" AS revenue").
		Joins("JOIN services ON services.id = treatments.service_id").
		Where("treatments.date >= ? AND treatments.date < ?", from, to).
		Group("services.name").
		Order("treatment_count DESC, revenue DESC").
		Limit(limit).
		Scan(&services).Error
	return services, err
}

func (s *Store) TopTherapists(ctx context.Context, from, to time.Time, limit int) ([]TherapistSummary, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var therapists []TherapistSummary
	err = db.Table("treatments").
		Select("therapists.full_name AS name, COUNT(treatments.id) AS treatment_count, "+revenueExpr+" AS revenue, COALESCE(SUM(treatments.tip_amount), 0) AS tips").
		Joins("JOIN therapists ON therapists.id = treatments.therapist_id").
		Where("treatments.date >= ? AND treatments.date < ?", from, to).
		Group("therapists.full_name").
		Order("treatment_count DESC, revenue DESC").
		Limit(limit).
		Scan(&therapists).Error
	return therapists, err
}
