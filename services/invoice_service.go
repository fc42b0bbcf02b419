// services/invoice_service.go
package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"garagepro-backend/models"
	"garagepro-backend/store"
	"garagepro-backend/utils"
)

// InvoiceService bills work orders: reserved parts at their current price
// plus an optional labor line.
type InvoiceService struct {
	store store.Store
	log   *logrus.Logger
}

func NewInvoiceService(st store.Store, log *logrus.Logger) *InvoiceService {
	return &InvoiceService{store: st, log: log}
}

type CreateInvoiceInput struct {
	ServiceID     uuid.UUID `json:"serviceId" binding:"required"`
	LaborAmount   float64   `json:"laborAmount" binding:"min=0"`
	Discount      float64   `json:"discount" binding:"min=0"`
	Tax           float64   `json:"tax" binding:"min=0"`
	PaymentStatus string    `json:"paymentStatus" binding:"omitempty,oneof=paid unpaid partial"`
	PaidAmount    float64   `json:"paidAmount" binding:"min=0"`
	PaymentMethod string    `json:"paymentMethod"`
	Notes         string    `json:"notes"`
}

// CreateFromService builds an invoice for a work order. Estimations cannot
// be billed; convert them first.
func (s *InvoiceService) CreateFromService(input CreateInvoiceInput) (*models.Invoice, error) {
	var created *models.Invoice
	err := s.store.Atomically(func(tx store.Tx) error {
		svc, err := tx.GetService(input.ServiceID)
		if err != nil {
			return err
		}
		if !svc.IsWorkOrder {
			return fmt.Errorf("%w: only work orders can be invoiced", ErrValidation)
		}

		invoice := models.Invoice{
			ServiceID:   svc.ID,
			CustomerID:  svc.CustomerID,
			InvoiceDate: time.Now(),
			Discount:    input.Discount,
			Tax:         input.Tax,
		}

		for _, link := range svc.Parts {
			part, err := tx.GetPart(link.PartID)
			if err != nil {
				return err
			}
			itemTotal := part.Price * float64(link.Quantity)
			invoice.Items = append(invoice.Items, models.InvoiceItem{
				Description: part.Name,
				Quantity:    link.Quantity,
				UnitPrice:   part.Price,
				TotalPrice:  itemTotal,
			})
			invoice.Subtotal += itemTotal
		}

		if input.LaborAmount > 0 {
			invoice.Items = append(invoice.Items, models.InvoiceItem{
				Description: "Labor",
				Quantity:    1,
				UnitPrice:   input.LaborAmount,
				TotalPrice:  input.LaborAmount,
			})
			invoice.Subtotal += input.LaborAmount
		}

		invoice.Total = invoice.Subtotal - invoice.Discount + (invoice.Subtotal * invoice.Tax / 100)
		invoice.PaymentStatus = input.PaymentStatus
		if invoice.PaymentStatus == "" {
			invoice.PaymentStatus = "unpaid"
		}
		invoice.PaidAmount = input.PaidAmount
		invoice.PaymentMethod = input.PaymentMethod
		invoice.Notes = input.Notes
		invoice.InvoiceNumber = "INV-" + time.Now().Format("20060102") + "-" + utils.GenerateRandomString(6)

		if err := tx.CreateInvoice(&invoice); err != nil {
			return err
		}
		created = &invoice
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithField("invoiceNumber", created.InvoiceNumber).Info("invoice created")
	return created, nil
}

func (s *InvoiceService) Get(id uuid.UUID) (*models.Invoice, error) {
	return s.store.GetInvoice(id)
}

func (s *InvoiceService) List() ([]models.Invoice, error) {
	return s.store.ListInvoices()
}
