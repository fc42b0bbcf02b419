package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invoice bills a completed work order: its reserved parts at current price
// plus an optional labor line.
type Invoice struct {
	ID        uuid.UUID `gorm:"type:char(36);primary_key" json:"id"`
	ServiceID uuid.UUID `gorm:"type:char(36);index;not null" json:"serviceId"`

	InvoiceNumber string    `gorm:"uniqueIndex;not null" json:"invoiceNumber"`
	CustomerID    uuid.UUID `gorm:"type:char(36);index;not null" json:"customerId"`
	InvoiceDate   time.Time `json:"invoiceDate"`

	Subtotal float64 `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Discount float64 `gorm:"type:decimal(10,2);default:0.0" json:"discount"`
	Tax      float64 `gorm:"type:decimal(10,2);default:0.0" json:"tax"`
	Total    float64 `gorm:"type:decimal(10,2);not null" json:"total"`

	PaymentStatus string  `gorm:"type:varchar(20);default:'unpaid'" json:"paymentStatus"`
	PaidAmount    float64 `gorm:"type:decimal(10,2);default:0.0" json:"paidAmount"`
	PaymentMethod string  `json:"paymentMethod,omitempty"`
	Notes         string  `json:"notes,omitempty"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items"`

	CreatedAt time.Time `json:"createdAt"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

type InvoiceItem struct {
	ID        uuid.UUID `gorm:"type:char(36);primary_key" json:"id"`
	InvoiceID uuid.UUID `gorm:"type:char(36);index;not null" json:"invoiceId"`

	Description string  `gorm:"not null" json:"description"`
	Quantity    int     `gorm:"default:1" json:"quantity"`
	UnitPrice   float64 `gorm:"type:decimal(10,2);not null" json:"unitPrice"`
	TotalPrice  float64 `gorm:"type:decimal(10,2);not null" json:"totalPrice"`
}

func (i *InvoiceItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
