package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Feedback is submitted by the customer-facing form, at most once per treatment.
// Ratings are 1..5, zero means not given.
type Feedback struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TreatmentID *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"treatmentId,omitempty"`

	CustomerName  string `gorm:"not null" json:"customerName"`
	CustomerPhone string `gorm:"not null;index" json:"customerPhone"`
	ServiceName   string `json:"serviceName,omitempty"`
	TherapistName string `json:"therapistName,omitempty"`

	TherapistRating   int `json:"therapistRating"`
	ServiceRating     int `json:"serviceRating"`
	CleanlinessRating int `json:"cleanlinessRating"`
	ValueRating       int `json:"valueRating"`
	OverallRating     int `json:"overallRating"`

	Comment     string `gorm:"type:text" json:"comment,omitempty"`
	IsAnonymous bool   `json:"isAnonymous"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return
}
