package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"salonpro-api/models"
)

func (s *Store) CreateService(ctx context.Context, service *models.Service) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	return db.Create(service).Error
}

func (s *Store) ListServices(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	q := db.Model(&models.Service{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var services []models.Service
	if err := q.Order("category ASC, name ASC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (s *Store) GetService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var service models.Service
	if err := db.First(&service, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "service", id)
	}
	return &service, nil
}

func (s *Store) SaveService(ctx context.Context, service *models.Service) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	res := db.Model(service).
		Select("name", "category", "normal_price", "promo_price", "duration", "therapist_fee", "is_active").
		Updates(service)
	return mustAffect(res, "service", service.ID)
}

func (s *Store) DeleteService(ctx context.Context, id uuid.UUID) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	return mustAffect(db.Delete(&models.Service{}, "id = ?", id), "service", id)
}

func (s *Store) CountActiveServices(ctx context.Context) (int64, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	err = db.Model(&models.Service{}).Where("is_active = ?", true).Count(&n).Error
	return n, err
}

func (s *Store) AdjustServicePopularity(ctx context.Context, id uuid.UUID, delta int) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	res := db.Unscoped().Model(&models.Service{}).Where("id = ?", id).
		Update("popularity", gorm.Expr("popularity + ?", delta))
	return mustAffect(res, "service", id)
}

func (s *Store) CreateTherapist(ctx context.Context, therapist *models.Therapist) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	return db.Create(therapist).Error
}

func (s *Store) ListTherapists(ctx context.Context, activeOnly bool) ([]models.Therapist, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	q := db.Model(&models.Therapist{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var therapists []models.Therapist
	if err := q.Order("full_name ASC").Find(&therapists).Error; err != nil {
		return nil, err
	}
	return therapists, nil
}

func (s *Store) GetTherapist(ctx context.Context, id uuid.UUID) (*models.Therapist, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var therapist models.Therapist
	if err := db.First(&therapist, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "therapist", id)
	}
	return &therapist, nil
}

func (s *Store) SaveTherapist(ctx context.Context, therapist *models.Therapist) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	res := db.Model(therapist).
		Select("initial", "full_name", "phone", "base_fee_per_treatment", "commission_rate", "is_active").
		Updates(therapist)
	return mustAffect(res, "therapist", therapist.ID)
}

func (s *Store) DeleteTherapist(ctx context.Context, id uuid.UUID) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	return mustAffect(db.Delete(&models.Therapist{}, "id = ?", id), "therapist", id)
}

func (s *Store) CountActiveTherapists(ctx context.Context) (int64, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	err = db.Model(&models.Therapist{}).Where("is_active = ?", true).Count(&n).Error
	return n, err
}

// AdjustTherapistStats moves the treatment counter and earnings by the given deltas.
func (s *Store) AdjustTherapistStats(ctx context.Context, id uuid.UUID, treatments int, earnings int64) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	res := db.Unscoped().Model(&models.Therapist{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_treatments": gorm.Expr("total_treatments + ?", treatments),
			"total_earnings":   gorm.Expr("total_earnings + ?", earnings),
		})
	return mustAffect(res, "therapist", id)
}

// RefreshTherapistRating recomputes averageRating from every rated feedback
// left on the therapist's treatments and returns the new value.
func (s *Store) RefreshTherapistRating(ctx context.Context, id uuid.UUID) (float64, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return 0, err
	}

	var avg float64
	err = db.Table("feedbacks").
		Joins("JOIN treatments ON treatments.id = feedbacks.treatment_id").
		Where("treatments.therapist_id = ? AND feedbacks.therapist_rating > 0", id).
		Select("COALESCE(AVG(feedbacks.therapist_rating), 0)").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}

	res := db.Model(&models.Therapist{}).Where("id = ?", id).Update("average_rating", avg)
	return avg, mustAffect(res, "therapist", id)
}
