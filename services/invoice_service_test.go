package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garagepro-backend/services"
	"garagepro-backend/store"
)

func TestCreateInvoiceFromWorkOrder(t *testing.T) {
	f := newFixture(t)
	invoices := services.NewInvoiceService(f.store, testLogger())

	svc := f.createEstimation(t) // 2x brake pads at 45.00
	_, err := f.lifecycle.ConvertToWorkOrder(svc.ID)
	require.NoError(t, err)

	inv, err := invoices.CreateFromService(services.CreateInvoiceInput{
		ServiceID:   svc.ID,
		LaborAmount: 50,
		Discount:    10,
		Tax:         10,
	})
	require.NoError(t, err)

	require.Len(t, inv.Items, 2)
	assert.Equal(t, "Brake Pads", inv.Items[0].Description)
	assert.Equal(t, 90.0, inv.Items[0].TotalPrice)
	assert.Equal(t, "Labor", inv.Items[1].Description)

	assert.Equal(t, 140.0, inv.Subtotal)
	// subtotal - discount + 10% tax on subtotal
	assert.InDelta(t, 144.0, inv.Total, 0.001)
	assert.Equal(t, "unpaid", inv.PaymentStatus)
	assert.Regexp(t, `^INV-\d{8}-[A-Z0-9]{6}$`, inv.InvoiceNumber)
	assert.Equal(t, f.customer.ID, inv.CustomerID)
}

func TestCreateInvoiceRejectsEstimation(t *testing.T) {
	f := newFixture(t)
	invoices := services.NewInvoiceService(f.store, testLogger())

	svc := f.createEstimation(t)

	_, err := invoices.CreateFromService(services.CreateInvoiceInput{ServiceID: svc.ID})
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestCreateInvoiceUnknownService(t *testing.T) {
	f := newFixture(t)
	invoices := services.NewInvoiceService(f.store, testLogger())

	_, err := invoices.CreateFromService(services.CreateInvoiceInput{ServiceID: uuid.New()})
	assert.ErrorIs(t, err, store.ErrServiceNotFound)
}

func TestInvoiceRoundTrip(t *testing.T) {
	f := newFixture(t)
	invoices := services.NewInvoiceService(f.store, testLogger())

	svc := f.createEstimation(t)
	_, err := f.lifecycle.ConvertToWorkOrder(svc.ID)
	require.NoError(t, err)

	inv, err := invoices.CreateFromService(services.CreateInvoiceInput{
		ServiceID:     svc.ID,
		PaymentStatus: "partial",
		PaidAmount:    40,
		PaymentMethod: "card",
	})
	require.NoError(t, err)

	got, err := invoices.Get(inv.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.InvoiceNumber, got.InvoiceNumber)
	assert.Equal(t, "partial", got.PaymentStatus)
	assert.Equal(t, 40.0, got.PaidAmount)

	list, err := invoices.List()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
