package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garagepro-backend/models"
	"garagepro-backend/services"
)

func seedReceipt(t *testing.T, f *fixture, date time.Time, total float64, items ...models.ReceiptItem) *models.PurchaseReceipt {
	t.Helper()
	r := models.PurchaseReceipt{
		InvoiceNumber: "VND-" + date.Format("20060102"),
		VendorName:    "AutoParts Co",
		PurchaseDate:  date,
		TotalAmount:   total,
		Items:         items,
	}
	require.NoError(t, f.store.CreateReceipt(&r))
	return &r
}

func TestDashboardStatsAllTime(t *testing.T) {
	f := newFixture(t)
	reports := services.NewReportService(f.store)

	seedReceipt(t, f, time.Now(), 100)
	seedReceipt(t, f, time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC), 50)

	f.createEstimation(t) // pending, reserves 2 brake pads

	stats, err := reports.GetDashboardStats("")
	require.NoError(t, err)

	assert.Equal(t, 150.0, stats.TotalPurchaseCost)
	// 8 brake pads at 45 plus 5 oil filters at 12.50
	assert.InDelta(t, 8*45.0+5*12.5, stats.TotalInventoryValue, 0.001)
	assert.Equal(t, 1, stats.ServiceCountsByStatus[models.StatusPending])
	assert.Equal(t, 0, stats.ServiceCountsByStatus[models.StatusInProgress])
	assert.Equal(t, 0, stats.ServiceCountsByStatus[models.StatusCompleted])
}

func TestDashboardStatsDailyPeriod(t *testing.T) {
	f := newFixture(t)
	reports := services.NewReportService(f.store)

	seedReceipt(t, f, time.Now(), 100)
	seedReceipt(t, f, time.Now().AddDate(0, 0, -3), 40)

	stats, err := reports.GetDashboardStats("daily")
	require.NoError(t, err)
	assert.Equal(t, 100.0, stats.TotalPurchaseCost)

	stats, err = reports.GetDashboardStats("monthly")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.TotalPurchaseCost, 100.0)
}

func TestDashboardStatsUnknownPeriod(t *testing.T) {
	f := newFixture(t)
	reports := services.NewReportService(f.store)

	_, err := reports.GetDashboardStats("weekly")
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestAgingStock(t *testing.T) {
	f := newFixture(t)
	reports := services.NewReportService(f.store)

	old := seedReceipt(t, f, time.Now().AddDate(0, -13, 0), 60,
		models.ReceiptItem{PartID: f.oilFilter.ID, SKU: "OF-200", Name: "Oil Filter", Quantity: 5, UnitPrice: 12})
	// a recent restock of the other part must not show up
	seedReceipt(t, f, time.Now().AddDate(0, -2, 0), 90,
		models.ReceiptItem{PartID: f.brakePads.ID, SKU: "BP-100", Name: "Brake Pads", Quantity: 2, UnitPrice: 45})

	entries, err := reports.GetAgingStock(12)
	require.NoError(t, err)

	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, f.oilFilter.ID, entry.Part.ID)
	assert.Equal(t, old.InvoiceNumber, entry.InvoiceNumber)
	assert.Equal(t, "AutoParts Co", entry.VendorName)
	assert.Equal(t, 13, entry.MonthsInStock)
}

func TestAgingStockUsesEarliestReceiptOnce(t *testing.T) {
	f := newFixture(t)
	reports := services.NewReportService(f.store)

	oldest := seedReceipt(t, f, time.Now().AddDate(0, -20, 0), 30,
		models.ReceiptItem{PartID: f.brakePads.ID, Quantity: 1, UnitPrice: 30})
	seedReceipt(t, f, time.Now().AddDate(0, -14, 0), 30,
		models.ReceiptItem{PartID: f.brakePads.ID, Quantity: 1, UnitPrice: 30})

	entries, err := reports.GetAgingStock(12)
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, oldest.ID.String(), entries[0].ReceiptID)
	assert.Equal(t, 20, entries[0].MonthsInStock)
}

func TestAgingStockSkipsOutOfStockParts(t *testing.T) {
	f := newFixture(t)
	reports := services.NewReportService(f.store)

	empty := models.Part{Name: "Head Gasket", Price: 80, Stock: 0, SKU: "HG-3"}
	require.NoError(t, f.store.CreatePart(&empty))
	seedReceipt(t, f, time.Now().AddDate(0, -18, 0), 80,
		models.ReceiptItem{PartID: empty.ID, Quantity: 1, UnitPrice: 80})

	entries, err := reports.GetAgingStock(12)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAgingStockRejectsNonPositiveMonths(t *testing.T) {
	f := newFixture(t)
	reports := services.NewReportService(f.store)

	_, err := reports.GetAgingStock(0)
	assert.ErrorIs(t, err, services.ErrValidation)
}
