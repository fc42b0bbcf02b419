// services/report_service.go
package services

import (
	"fmt"
	"time"

	"garagepro-backend/models"
	"garagepro-backend/store"
	"garagepro-backend/utils"
)

// ReportService derives dashboard figures by scanning the stores.
type ReportService struct {
	store store.Store
}

func NewReportService(st store.Store) *ReportService {
	return &ReportService{store: st}
}

type DashboardStats struct {
	TotalPurchaseCost     float64        `json:"totalPurchaseCost"`
	TotalInventoryValue   float64        `json:"totalInventoryValue"`
	ServiceCountsByStatus map[string]int `json:"serviceCountsByStatus"`
}

// AgingStockEntry reports a slow-moving part with the oldest receipt that
// stocked it. Each part appears at most once; the first match wins.
type AgingStockEntry struct {
	Part          models.Part `json:"part"`
	ReceiptID     string      `json:"receiptId"`
	InvoiceNumber string      `json:"invoiceNumber"`
	VendorName    string      `json:"vendorName"`
	PurchaseDate  time.Time   `json:"purchaseDate"`
	MonthsInStock int         `json:"monthsInStock"`
}

// GetDashboardStats sums purchase cost for the given period (daily, monthly,
// yearly or empty for all time, using local calendar boundaries), values the
// inventory at price times stock, and groups services by status.
func (s *ReportService) GetDashboardStats(period string) (*DashboardStats, error) {
	var from *time.Time
	now := time.Now()
	switch period {
	case "daily":
		t := utils.BeginningOfDay(now)
		from = &t
	case "monthly":
		t := utils.BeginningOfMonth(now)
		from = &t
	case "yearly":
		t := utils.BeginningOfYear(now)
		from = &t
	case "":
	default:
		return nil, fmt.Errorf("%w: unknown period %q", ErrValidation, period)
	}

	receipts, err := s.store.ListReceipts(store.ReceiptFilter{From: from})
	if err != nil {
		return nil, err
	}
	stats := &DashboardStats{
		ServiceCountsByStatus: map[string]int{
			models.StatusPending:    0,
			models.StatusInProgress: 0,
			models.StatusCompleted:  0,
		},
	}
	for _, r := range receipts {
		stats.TotalPurchaseCost += r.TotalAmount
	}

	parts, err := s.store.ListParts(store.PartFilter{})
	if err != nil {
		return nil, err
	}
	for _, p := range parts {
		stats.TotalInventoryValue += p.Price * float64(p.Stock)
	}

	svcs, err := s.store.ListServices(store.ServiceFilter{})
	if err != nil {
		return nil, err
	}
	for _, svc := range svcs {
		stats.ServiceCountsByStatus[svc.Status]++
	}

	return stats, nil
}

// GetAgingStock lists parts with stock on hand whose earliest stocking
// receipt predates now minus the given number of months.
func (s *ReportService) GetAgingStock(months int) ([]AgingStockEntry, error) {
	if months <= 0 {
		return nil, fmt.Errorf("%w: months must be positive", ErrValidation)
	}

	cutoff := time.Now().AddDate(0, -months, 0)
	receipts, err := s.store.ListReceipts(store.ReceiptFilter{})
	if err != nil {
		return nil, err
	}
	parts, err := s.store.ListParts(store.PartFilter{InStockOnly: true})
	if err != nil {
		return nil, err
	}

	entries := make([]AgingStockEntry, 0)
	for _, part := range parts {
		// receipts are ordered oldest first, so the first hit is the
		// earliest purchase of this part
		for _, r := range receipts {
			if !r.PurchaseDate.Before(cutoff) {
				continue
			}
			matched := false
			for _, item := range r.Items {
				if item.PartID == part.ID {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
			entries = append(entries, AgingStockEntry{
				Part:          part,
				ReceiptID:     r.ID.String(),
				InvoiceNumber: r.InvoiceNumber,
				VendorName:    r.VendorName,
				PurchaseDate:  r.PurchaseDate,
				MonthsInStock: utils.MonthsBetween(r.PurchaseDate, time.Now()),
			})
			break
		}
	}
	return entries, nil
}
