package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Treatment is one billable service performed for a customer by a therapist.
type Treatment struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID  *uuid.UUID     `gorm:"type:uuid;index" json:"customerId,omitempty"`
	ServiceID   uuid.UUID      `gorm:"type:uuid;index;not null" json:"serviceId"`
	TherapistID uuid.UUID      `gorm:"type:uuid;index;not null" json:"therapistId"`
	Date        datatypes.Date `gorm:"type:date;index;not null" json:"date"`
	Price       int64          `gorm:"not null;default:0" json:"price"`
	TipAmount   int64          `gorm:"not null;default:0" json:"tipAmount"`
	IsFreeVisit bool           `gorm:"not null;default:false" json:"isFreeVisit"`
	Notes       string         `gorm:"type:text" json:"notes,omitempty"`

	Customer  *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Service   *Service   `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Therapist *Therapist `gorm:"foreignKey:TherapistID" json:"therapist,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Revenue is the amount the treatment contributes to revenue. Free visits
// contribute nothing whatever the stored price says.
func (t *Treatment) Revenue() int64 {
	if t.IsFreeVisit {
		return 0
	}
	return t.Price
}

func (t *Treatment) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}
