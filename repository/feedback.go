package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"salonpro-api/models"
)

func (s *Store) CreateFeedback(ctx context.Context, feedback *models.Feedback) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	err = db.Create(feedback).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: feedback already submitted for treatment %s", ErrConflict, feedback.TreatmentID)
	}
	return err
}

// ListFeedback returns all feedback, newest first.
func (s *Store) ListFeedback(ctx context.Context) ([]models.Feedback, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var feedback []models.Feedback
	if err := db.Order("created_at DESC").Find(&feedback).Error; err != nil {
		return nil, err
	}
	return feedback, nil
}

func (s *Store) DeleteFeedbackForTreatment(ctx context.Context, treatmentID uuid.UUID) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	return db.Where("treatment_id = ?", treatmentID).Delete(&models.Feedback{}).Error
}

func (s *Store) FeedbackExistsForTreatment(ctx context.Context, treatmentID uuid.UUID) (bool, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return false, err
	}
	var n int64
	err = db.Model(&models.Feedback{}).Where("treatment_id = ?", treatmentID).Count(&n).Error
	return n > 0, err
}
