package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"

	"salonpro-api/models"
	"salonpro-api/utils"
)

type FeedbackStore interface {
	CreateFeedback(ctx context.Context, feedback *models.Feedback) error
	ListFeedback(ctx context.Context) ([]models.Feedback, error)
	FeedbackExistsForTreatment(ctx context.Context, treatmentID uuid.UUID) (bool, error)
	GetTreatment(ctx context.Context, id uuid.UUID) (*models.Treatment, error)
	RefreshTherapistRating(ctx context.Context, id uuid.UUID) (float64, error)
}

// FeedbackInput is the body of the customer feedback form.
type FeedbackInput struct {
	TreatmentID       *uuid.UUID `json:"treatmentId"`
	CustomerName      string     `json:"customerName" binding:"required"`
	CustomerPhone     string     `json:"customerPhone" binding:"required,phone"`
	ServiceName       string     `json:"serviceName"`
	TherapistName     string     `json:"therapistName"`
	TherapistRating   int        `json:"therapistRating" binding:"min=0,max=5"`
	ServiceRating     int        `json:"serviceRating" binding:"min=0,max=5"`
	CleanlinessRating int        `json:"cleanlinessRating" binding:"min=0,max=5"`
	ValueRating       int        `json:"valueRating" binding:"min=0,max=5"`
	OverallRating     int        `json:"overallRating" binding:"min=0,max=5"`
	Comment           string     `json:"comment"`
	IsAnonymous       bool       `json:"isAnonymous"`
	// Amount is credited to the customer when no treatment is referenced.
	Amount int64 `json:"amount" binding:"min=0"`
}

type FeedbackService struct {
	store   FeedbackStore
	loyalty *LoyaltyUpdater
	tasks   TaskEnqueuer
	logger  *slog.Logger
}

func NewFeedbackService(store FeedbackStore, loyalty *LoyaltyUpdater, tasks TaskEnqueuer, logger *slog.Logger) *FeedbackService {
	return &FeedbackService{store: store, loyalty: loyalty, tasks: tasks, logger: logger}
}

func (in *FeedbackInput) validate() error {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerPhone = utils.NormalizePhone(in.CustomerPhone)
	if in.CustomerName == "" {
		return validationError("customerName is required")
	}
	if !utils.ValidatePhone(in.CustomerPhone) {
		return validationError("customerPhone %q is not a valid phone number", in.CustomerPhone)
	}
	for name, r := range map[string]int{
		"therapistRating":   in.TherapistRating,
		"serviceRating":     in.ServiceRating,
		"cleanlinessRating": in.CleanlinessRating,
		"valueRating":       in.ValueRating,
		"overallRating":     in.OverallRating,
	} {
		if r < 0 || r > 5 {
			return validationError("%s must be between 0 and 5 (0 means not given)", name)
		}
	}
	if in.Amount < 0 {
		return validationError("amount must not be negative")
	}
	return nil
}

// overallFrom is the rounded mean of the given sub-ratings, 0 when none were given.
func overallFrom(ratings ...int) int {
	sum, n := 0, 0
	for _, r := range ratings {
		if r > 0 {
			sum += r
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}

// Submit stores the feedback and then queues the loyalty update (and, for
// feedback on a known treatment, a therapist rating refresh). Queued work
// can fail without affecting the returned feedback.
func (s *FeedbackService) Submit(ctx context.Context, in FeedbackInput) (*models.Feedback, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	amount := in.Amount
	var treatment *models.Treatment
	if in.TreatmentID != nil {
		t, err := s.store.GetTreatment(ctx, *in.TreatmentID)
		if err != nil {
			return nil, err
		}
		exists, err := s.store.FeedbackExistsForTreatment(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("%w: feedback already submitted for treatment %s", ErrConflict, t.ID)
		}
		treatment = t
		amount = t.Revenue()
		if in.ServiceName == "" && t.Service != nil {
			in.ServiceName = t.Service.Name
		}
		if in.TherapistName == "" && t.Therapist != nil {
			in.TherapistName = t.Therapist.FullName
		}
	}

	overall := in.OverallRating
	if overall == 0 {
		overall = overallFrom(in.TherapistRating, in.ServiceRating, in.CleanlinessRating, in.ValueRating)
	}

	feedback := &models.Feedback{
		TreatmentID:       in.TreatmentID,
		CustomerName:      in.CustomerName,
		CustomerPhone:     in.CustomerPhone,
		ServiceName:       in.ServiceName,
		TherapistName:     in.TherapistName,
		TherapistRating:   in.TherapistRating,
		ServiceRating:     in.ServiceRating,
		CleanlinessRating: in.CleanlinessRating,
		ValueRating:       in.ValueRating,
		OverallRating:     overall,
		Comment:           strings.TrimSpace(in.Comment),
		IsAnonymous:       in.IsAnonymous,
	}
	if err := s.store.CreateFeedback(ctx, feedback); err != nil {
		return nil, err
	}

	s.tasks.Enqueue(s.loyalty.Task(LoyaltyVisit{
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		Amount:        amount,
	}))
	if treatment != nil && in.TherapistRating > 0 {
		therapistID := treatment.TherapistID
		s.tasks.Enqueue(Task{
			Name: "therapist_rating",
			Run: func(ctx context.Context) error {
				_, err := s.store.RefreshTherapistRating(ctx, therapistID)
				if errors.Is(err, ErrNotFound) {
					return nil
				}
				return err
			},
		})
	}

	s.logger.Info("feedback submitted", "feedback_id", feedback.ID, "overall_rating", overall)
	return feedback, nil
}

// List returns all feedback, newest first.
func (s *FeedbackService) List(ctx context.Context) ([]models.Feedback, error) {
	return s.store.ListFeedback(ctx)
}
