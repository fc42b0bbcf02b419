// services/purchase_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"garagepro-backend/models"
	"garagepro-backend/store"
)

// PurchaseService records inbound stock purchases and replenishes inventory.
type PurchaseService struct {
	store store.Store
	log   *logrus.Logger
}

func NewPurchaseService(st store.Store, log *logrus.Logger) *PurchaseService {
	return &PurchaseService{store: st, log: log}
}

type ReceiptItemInput struct {
	PartID    *uuid.UUID `json:"partId"`
	SKU       string     `json:"sku"`
	Name      string     `json:"name"`
	Quantity  int        `json:"quantity" binding:"required,min=1"`
	UnitPrice float64    `json:"unitPrice" binding:"min=0"`
}

type CreateReceiptInput struct {
	InvoiceNumber string             `json:"invoiceNumber" binding:"required"`
	VendorName    string             `json:"vendorName" binding:"required"`
	PurchaseDate  time.Time          `json:"purchaseDate" binding:"required"`
	Items         []ReceiptItemInput `json:"items" binding:"required,min=1"`
}

// CreateReceipt persists the receipt and, per line item, resolves the part
// by id, then by SKU, creating it on first sight, and increments its stock
// by the purchased quantity. The whole operation is one transaction.
func (s *PurchaseService) CreateReceipt(input CreateReceiptInput) (*models.PurchaseReceipt, error) {
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item quantity must be positive", ErrValidation)
		}
		if (item.PartID == nil || *item.PartID == uuid.Nil) && strings.TrimSpace(item.SKU) == "" {
			return nil, fmt.Errorf("%w: item needs a part id or a SKU", ErrValidation)
		}
	}

	var created *models.PurchaseReceipt
	err := s.store.Atomically(func(tx store.Tx) error {
		receipt := models.PurchaseReceipt{
			InvoiceNumber: input.InvoiceNumber,
			VendorName:    input.VendorName,
			PurchaseDate:  input.PurchaseDate,
		}

		for _, item := range input.Items {
			part, err := s.resolvePart(tx, item)
			if err != nil {
				return err
			}
			if _, err := tx.AdjustStock(part.ID, item.Quantity); err != nil {
				return err
			}
			receipt.Items = append(receipt.Items, models.ReceiptItem{
				PartID:    part.ID,
				SKU:       part.SKU,
				Name:      part.Name,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
			receipt.TotalAmount += float64(item.Quantity) * item.UnitPrice
		}

		if err := tx.CreateReceipt(&receipt); err != nil {
			return err
		}
		created = &receipt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *PurchaseService) resolvePart(tx store.Tx, item ReceiptItemInput) (*models.Part, error) {
	if item.PartID != nil && *item.PartID != uuid.Nil {
		part, err := tx.GetPart(*item.PartID)
		if err == nil {
			return part, nil
		}
		if !errors.Is(err, store.ErrPartNotFound) {
			return nil, err
		}
	}
	if item.SKU != "" {
		part, err := tx.GetPartBySKU(item.SKU)
		if err == nil {
			return part, nil
		}
		if !errors.Is(err, store.ErrPartNotFound) {
			return nil, err
		}
	}

	name := item.Name
	if name == "" {
		name = item.SKU
	}
	part := models.Part{
		Name:  name,
		Price: item.UnitPrice,
		SKU:   item.SKU,
	}
	if err := tx.CreatePart(&part); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"sku": part.SKU, "name": part.Name}).
		Info("created part from purchase receipt")
	return &part, nil
}

// ListReceipts returns receipts inside the optional date range, oldest first.
func (s *PurchaseService) ListReceipts(from, to *time.Time) ([]models.PurchaseReceipt, error) {
	return s.store.ListReceipts(store.ReceiptFilter{From: from, To: to})
}
