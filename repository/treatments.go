package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"salonpro-api/models"
)

// withParties preloads the customer, service and therapist of each
// treatment, including soft-deleted ones so history keeps its names and fees.
func withParties(db *gorm.DB) *gorm.DB {
	unscoped := func(db *gorm.DB) *gorm.DB { return db.Unscoped() }
	return db.
		Preload("Customer", unscoped).
		Preload("Service", unscoped).
		Preload("Therapist", unscoped)
}

func (s *Store) CreateTreatment(ctx context.Context, treatment *models.Treatment) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	return db.Omit("Customer", "Service", "Therapist").Create(treatment).Error
}

func (s *Store) GetTreatment(ctx context.Context, id uuid.UUID) (*models.Treatment, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var treatment models.Treatment
	if err := withParties(db).First(&treatment, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "treatment", id)
	}
	return &treatment, nil
}

func (s *Store) SaveTreatment(ctx context.Context, treatment *models.Treatment) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	res := db.Model(treatment).
		Select("customer_id", "service_id", "therapist_id", "date", "price", "tip_amount", "is_free_visit", "notes").
		Omit("Customer", "Service", "Therapist").
		Updates(treatment)
	return mustAffect(res, "treatment", treatment.ID)
}

func (s *Store) DeleteTreatment(ctx context.Context, id uuid.UUID) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	return mustAffect(db.Delete(&models.Treatment{}, "id = ?", id), "treatment", id)
}

// ListTreatments returns treatments dated in [from, to), oldest first, with
// their customer, service and therapist loaded. from and to are calendar
// dates (midnight UTC).
func (s *Store) ListTreatments(ctx context.Context, from, to time.Time) ([]models.Treatment, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var treatments []models.Treatment
	err = withParties(db).
		Where("date >= ? AND date < ?", from, to).
		Order("date ASC, created_at ASC").
		Find(&treatments).Error
	if err != nil {
		return nil, err
	}
	return treatments, nil
}
