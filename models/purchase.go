package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PurchaseReceipt records an inbound stock purchase. Each line item
// increments the referenced part's stock when the receipt is created.
type PurchaseReceipt struct {
	ID uuid.UUID `gorm:"type:char(36);primary_key" json:"id"`

	InvoiceNumber string    `gorm:"not null" json:"invoiceNumber"`
	VendorName    string    `gorm:"not null" json:"vendorName"`
	PurchaseDate  time.Time `gorm:"index;not null" json:"purchaseDate"`
	TotalAmount   float64   `gorm:"type:decimal(10,2);not null" json:"totalAmount"`

	Items []ReceiptItem `gorm:"foreignKey:ReceiptID" json:"items"`

	CreatedAt time.Time `json:"createdAt"`
}

func (r *PurchaseReceipt) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

type ReceiptItem struct {
	ID        uuid.UUID `gorm:"type:char(36);primary_key" json:"id"`
	ReceiptID uuid.UUID `gorm:"type:char(36);index;not null" json:"receiptId"`
	PartID    uuid.UUID `gorm:"type:char(36);index" json:"partId"`

	SKU       string  `json:"sku,omitempty"`
	Name      string  `json:"name"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	UnitPrice float64 `gorm:"type:decimal(10,2);not null" json:"unitPrice"`
}

func (i *ReceiptItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
