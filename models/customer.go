package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Name    string `gorm:"not null" json:"name"`
	Phone   string `gorm:"not null;uniqueIndex" json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`

	TotalVisits   int        `gorm:"not null;default:0" json:"totalVisits"`
	TotalSpending int64      `gorm:"not null;default:0" json:"totalSpending"`
	LoyaltyVisits int        `gorm:"not null;default:0;index" json:"loyaltyVisits"`
	IsVip         bool       `json:"isVip"`
	LastVisit     *time.Time `json:"lastVisit,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
