package services_test

import (
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garagepro-backend/models"
	"garagepro-backend/services"
	"garagepro-backend/store"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fixture struct {
	store     *store.MemoryStore
	lifecycle *services.LifecycleService
	customer  models.Customer
	vehicle   models.Vehicle
	brakePads models.Part
	oilFilter models.Part
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.NewMemoryStore(store.StockClampAtZero)

	f := &fixture{
		store:     st,
		lifecycle: services.NewLifecycleService(st, testLogger()),
	}

	f.customer = models.Customer{Name: "Dana Whitfield", Phone: "+15550100", Email: "dana@example.com"}
	require.NoError(t, st.CreateCustomer(&f.customer))

	f.vehicle = models.Vehicle{
		CustomerID:   f.customer.ID,
		Make:         "Toyota",
		Model:        "Corolla",
		Year:         2018,
		LicensePlate: "AB-1234",
	}
	require.NoError(t, st.CreateVehicle(&f.vehicle))

	f.brakePads = models.Part{Name: "Brake Pads", Price: 45.0, Stock: 10, SKU: "BP-100"}
	require.NoError(t, st.CreatePart(&f.brakePads))

	f.oilFilter = models.Part{Name: "Oil Filter", Price: 12.5, Stock: 5, SKU: "OF-200"}
	require.NoError(t, st.CreatePart(&f.oilFilter))

	return f
}

func (f *fixture) createEstimation(t *testing.T) *models.Service {
	t.Helper()
	due := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	svc, err := f.lifecycle.Create(services.CreateServiceInput{
		CustomerID:          f.customer.ID,
		VehicleID:           f.vehicle.ID,
		Description:         "Brake check",
		EstimatedCompletion: &due,
		ServiceTypes:        []services.ServiceTypeInput{{Name: "brake_service"}},
		Parts:               []services.ServicePartInput{{PartID: f.brakePads.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	return svc
}

func TestCreateEstimation(t *testing.T) {
	f := newFixture(t)

	svc := f.createEstimation(t)

	assert.Equal(t, models.StatusPending, svc.Status)
	assert.False(t, svc.IsWorkOrder)
	require.NotNil(t, svc.EstimationID)
	assert.Regexp(t, `^EST-`, *svc.EstimationID)
	assert.Nil(t, svc.WorkOrderID)

	part, err := f.store.GetPart(f.brakePads.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, part.Stock)
}

func TestCreateWorkOrderDirectly(t *testing.T) {
	f := newFixture(t)

	svc, err := f.lifecycle.Create(services.CreateServiceInput{
		CustomerID:  f.customer.ID,
		VehicleID:   f.vehicle.ID,
		Description: "Timing belt",
		AsWorkOrder: true,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusInProgress, svc.Status)
	assert.True(t, svc.IsWorkOrder)
	require.NotNil(t, svc.WorkOrderID)
	assert.Regexp(t, `^WO-`, *svc.WorkOrderID)
	assert.Nil(t, svc.EstimationID)
}

func TestCreateRoundTrip(t *testing.T) {
	f := newFixture(t)

	svc := f.createEstimation(t)

	found, err := f.store.GetService(svc.ID)
	require.NoError(t, err)
	assert.Equal(t, f.customer.ID, found.CustomerID)
	assert.Equal(t, f.vehicle.ID, found.VehicleID)
	require.Len(t, found.Types, 1)
	assert.Equal(t, "brake_service", found.Types[0].Name)
	require.Len(t, found.Parts, 1)
	assert.Equal(t, f.brakePads.ID, found.Parts[0].PartID)
	assert.Equal(t, 2, found.Parts[0].Quantity)
}

func TestCreateUnknownCustomer(t *testing.T) {
	f := newFixture(t)

	_, err := f.lifecycle.Create(services.CreateServiceInput{
		CustomerID: uuid.New(),
		VehicleID:  f.vehicle.ID,
	})
	assert.ErrorIs(t, err, store.ErrCustomerNotFound)
}

func TestCreateRejectsNonPositiveQuantity(t *testing.T) {
	f := newFixture(t)

	_, err := f.lifecycle.Create(services.CreateServiceInput{
		CustomerID: f.customer.ID,
		VehicleID:  f.vehicle.ID,
		Parts:      []services.ServicePartInput{{PartID: f.brakePads.ID, Quantity: 0}},
	})
	assert.ErrorIs(t, err, services.ErrValidation)

	// rejected before any mutation
	part, err := f.store.GetPart(f.brakePads.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, part.Stock)
}

func TestCreateSkipsUnknownPart(t *testing.T) {
	f := newFixture(t)

	svc, err := f.lifecycle.Create(services.CreateServiceInput{
		CustomerID: f.customer.ID,
		VehicleID:  f.vehicle.ID,
		Parts: []services.ServicePartInput{
			{PartID: uuid.New(), Quantity: 4},
			{PartID: f.oilFilter.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	// the unresolvable entry is skipped, the resolvable one reserved
	require.Len(t, svc.Parts, 1)
	assert.Equal(t, f.oilFilter.ID, svc.Parts[0].PartID)

	part, err := f.store.GetPart(f.oilFilter.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, part.Stock)
}

func TestCreateClampsOverReservation(t *testing.T) {
	f := newFixture(t)

	svc, err := f.lifecycle.Create(services.CreateServiceInput{
		CustomerID: f.customer.ID,
		VehicleID:  f.vehicle.ID,
		Parts:      []services.ServicePartInput{{PartID: f.oilFilter.ID, Quantity: 9}},
	})
	require.NoError(t, err)
	require.Len(t, svc.Parts, 1)

	part, err := f.store.GetPart(f.oilFilter.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, part.Stock)
}

func TestConvertThenReconvert(t *testing.T) {
	f := newFixture(t)
	svc := f.createEstimation(t)

	workOrderID, err := f.lifecycle.ConvertToWorkOrder(svc.ID)
	require.NoError(t, err)
	assert.Regexp(t, `^WO-`, workOrderID)

	converted, err := f.store.GetService(svc.ID)
	require.NoError(t, err)
	assert.True(t, converted.IsWorkOrder)
	assert.Equal(t, models.StatusInProgress, converted.Status)
	require.NotNil(t, converted.WorkOrderID)
	assert.Equal(t, workOrderID, *converted.WorkOrderID)
	assert.Nil(t, converted.EstimationID)

	_, err = f.lifecycle.ConvertToWorkOrder(svc.ID)
	assert.ErrorIs(t, err, services.ErrAlreadyConverted)

	// no state change on the second attempt
	unchanged, err := f.store.GetService(svc.ID)
	require.NoError(t, err)
	assert.Equal(t, workOrderID, *unchanged.WorkOrderID)
	assert.Equal(t, models.StatusInProgress, unchanged.Status)
}

func TestConvertForcesInProgressFromCompleted(t *testing.T) {
	f := newFixture(t)
	svc := f.createEstimation(t)

	completed := models.StatusCompleted
	_, err := f.lifecycle.Update(svc.ID, services.UpdateServiceInput{Status: &completed})
	require.NoError(t, err)

	_, err = f.lifecycle.ConvertToWorkOrder(svc.ID)
	require.NoError(t, err)

	converted, err := f.store.GetService(svc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, converted.Status)
}

func TestConvertUnknownService(t *testing.T) {
	f := newFixture(t)

	_, err := f.lifecycle.ConvertToWorkOrder(uuid.New())
	assert.ErrorIs(t, err, store.ErrServiceNotFound)
}

func TestUpdateReplacesParts(t *testing.T) {
	f := newFixture(t)
	svc := f.createEstimation(t) // brake pads 10 -> 8

	parts := []services.ServicePartInput{
		{PartID: f.brakePads.ID, Quantity: 1},
		{PartID: f.oilFilter.ID, Quantity: 3},
	}
	updated, err := f.lifecycle.Update(svc.ID, services.UpdateServiceInput{Parts: &parts})
	require.NoError(t, err)
	assert.Len(t, updated.Parts, 2)

	// brake pads returned to 10, then re-reserved down to 9
	pads, err := f.store.GetPart(f.brakePads.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, pads.Stock)

	filter, err := f.store.GetPart(f.oilFilter.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, filter.Stock)
}

func TestUpdateToEmptyPartsReturnsStock(t *testing.T) {
	f := newFixture(t)
	svc := f.createEstimation(t)

	parts := []services.ServicePartInput{}
	updated, err := f.lifecycle.Update(svc.ID, services.UpdateServiceInput{Parts: &parts})
	require.NoError(t, err)
	assert.Empty(t, updated.Parts)

	pads, err := f.store.GetPart(f.brakePads.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, pads.Stock)
}

func TestUpdateReplacesServiceTypes(t *testing.T) {
	f := newFixture(t)
	svc := f.createEstimation(t)

	types := []services.ServiceTypeInput{
		{Name: "oil_change", Description: "full synthetic"},
		{Name: "inspection"},
	}
	updated, err := f.lifecycle.Update(svc.ID, services.UpdateServiceInput{ServiceTypes: &types})
	require.NoError(t, err)

	require.Len(t, updated.Types, 2)
	assert.Equal(t, "oil_change", updated.Types[0].Name)
	assert.Equal(t, "full synthetic", updated.Types[0].Description)
}

func TestUpdateScalarFields(t *testing.T) {
	f := newFixture(t)
	svc := f.createEstimation(t)

	desc := "Brake and suspension check"
	status := models.StatusInProgress
	updated, err := f.lifecycle.Update(svc.ID, services.UpdateServiceInput{
		Description: &desc,
		Status:      &status,
	})
	require.NoError(t, err)
	assert.Equal(t, desc, updated.Description)
	assert.Equal(t, status, updated.Status)
	// untouched fields survive
	require.Len(t, updated.Parts, 1)
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	svc := f.createEstimation(t)

	bad := "cancelled"
	_, err := f.lifecycle.Update(svc.ID, services.UpdateServiceInput{Status: &bad})
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestIdentifierExclusivity(t *testing.T) {
	f := newFixture(t)

	est := f.createEstimation(t)
	assert.NotNil(t, est.EstimationID)
	assert.Nil(t, est.WorkOrderID)

	_, err := f.lifecycle.ConvertToWorkOrder(est.ID)
	require.NoError(t, err)

	list, err := f.lifecycle.List(services.ListServicesFilter{})
	require.NoError(t, err)
	for _, view := range list {
		if view.IsWorkOrder {
			assert.NotNil(t, view.WorkOrderID)
			assert.Nil(t, view.EstimationID)
		} else {
			assert.NotNil(t, view.EstimationID)
			assert.Nil(t, view.WorkOrderID)
		}
	}
}

func TestListFiltersAndSearch(t *testing.T) {
	f := newFixture(t)
	est := f.createEstimation(t)
	_, err := f.lifecycle.Create(services.CreateServiceInput{
		CustomerID:  f.customer.ID,
		VehicleID:   f.vehicle.ID,
		Description: "Clutch replacement",
		AsWorkOrder: true,
	})
	require.NoError(t, err)

	estimations, err := f.lifecycle.List(services.ListServicesFilter{Kind: "estimation"})
	require.NoError(t, err)
	require.Len(t, estimations, 1)
	assert.Equal(t, est.ID, estimations[0].ID)
	assert.Equal(t, "Dana Whitfield", estimations[0].CustomerName)
	assert.Equal(t, "AB-1234", estimations[0].VehiclePlate)

	workOrders, err := f.lifecycle.List(services.ListServicesFilter{Kind: "workOrder"})
	require.NoError(t, err)
	assert.Len(t, workOrders, 1)

	// search is case-insensitive over plate, references and customer name
	byPlate, err := f.lifecycle.List(services.ListServicesFilter{Search: "ab-12"})
	require.NoError(t, err)
	assert.Len(t, byPlate, 2)

	byName, err := f.lifecycle.List(services.ListServicesFilter{Search: "whitfield"})
	require.NoError(t, err)
	assert.Len(t, byName, 2)

	byRef, err := f.lifecycle.List(services.ListServicesFilter{Search: "est-"})
	require.NoError(t, err)
	assert.Len(t, byRef, 1)

	none, err := f.lifecycle.List(services.ListServicesFilter{Search: "zz-9999"})
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = f.lifecycle.List(services.ListServicesFilter{Kind: "quote"})
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestRejectPolicyRollsBackCreation(t *testing.T) {
	st := store.NewMemoryStore(store.StockRejectShortfall)
	lifecycle := services.NewLifecycleService(st, testLogger())

	customer := models.Customer{Name: "Lee"}
	require.NoError(t, st.CreateCustomer(&customer))
	vehicle := models.Vehicle{CustomerID: customer.ID, Make: "Honda", Model: "Civic"}
	require.NoError(t, st.CreateVehicle(&vehicle))
	part := models.Part{Name: "Spark Plug", Price: 8, Stock: 2}
	require.NoError(t, st.CreatePart(&part))

	_, err := lifecycle.Create(services.CreateServiceInput{
		CustomerID: customer.ID,
		VehicleID:  vehicle.ID,
		Parts:      []services.ServicePartInput{{PartID: part.ID, Quantity: 5}},
	})
	assert.ErrorIs(t, err, store.ErrInsufficientStock)

	// nothing committed: no service, stock untouched
	list, err := st.ListServices(store.ServiceFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	p, err := st.GetPart(part.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Stock)
}
