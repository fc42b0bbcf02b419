package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Part is an inventory line item. Stock is only mutated through the store's
// AdjustStock operation and never goes below zero under the clamp policy.
type Part struct {
	ID uuid.UUID `gorm:"type:char(36);primary_key" json:"id"`

	Name  string  `gorm:"not null" json:"name"`
	Price float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock int     `gorm:"default:0" json:"stock"`
	SKU   string  `gorm:"index" json:"sku,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Part) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
