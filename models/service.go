package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Category     string    `gorm:"not null;default:'General'" json:"category"`
	NormalPrice  int64     `gorm:"not null" json:"normalPrice"`
	PromoPrice   *int64    `json:"promoPrice,omitempty"`
	Duration     int       `json:"duration"` // in minutes
	TherapistFee int64     `gorm:"not null;default:0" json:"therapistFee"`
	IsActive     bool      `gorm:"index" json:"isActive"`
	Popularity   int       `gorm:"not null;default:0" json:"popularity"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// EffectivePrice is the promo price when one is set, the normal price otherwise.
func (s *Service) EffectivePrice() int64 {
	if s.PromoPrice != nil {
		return *s.PromoPrice
	}
	return s.NormalPrice
}

func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
