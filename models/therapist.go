package models

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Therapist struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Initial             string    `gorm:"size:8;not null" json:"initial"`
	FullName            string    `gorm:"not null" json:"fullName"`
	Phone               string    `json:"phone"`
	BaseFeePerTreatment int64     `gorm:"not null;default:0" json:"baseFeePerTreatment"`
	CommissionRate      float64   `gorm:"not null;default:0" json:"commissionRate"` // 0..1
	TotalTreatments     int       `gorm:"not null;default:0" json:"totalTreatments"`
	TotalEarnings       int64     `gorm:"not null;default:0" json:"totalEarnings"`
	AverageRating       float64   `gorm:"not null;default:0" json:"averageRating"`
	IsActive            bool      `gorm:"index" json:"isActive"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// EarningsFor returns what a single treatment adds to the therapist's
// total earnings, rounded to the nearest unit.
func (t *Therapist) EarningsFor(price, tip int64) int64 {
	return int64(math.Round(float64(t.BaseFeePerTreatment) + float64(price)*t.CommissionRate + float64(tip)))
}

func (t *Therapist) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}
