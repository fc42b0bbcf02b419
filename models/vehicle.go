package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Vehicle struct {
	ID         uuid.UUID `gorm:"type:char(36);primary_key" json:"id"`
	CustomerID uuid.UUID `gorm:"type:char(36);index;not null" json:"customerId"`

	Make         string `gorm:"not null" json:"make"`
	Model        string `gorm:"not null" json:"model"`
	Year         int    `json:"year"`
	LicensePlate string `gorm:"index" json:"licensePlate"` // display/search key, not unique
	Color        string `json:"color"`
	VIN          string `json:"vin,omitempty"`
	Mileage      int    `json:"mileage"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (v *Vehicle) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return
}
