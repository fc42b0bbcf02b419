// services/lifecycle_service.go
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
	"garagepro-backend/utils"
)

var (
	// ErrAlreadyConverted is returned when converting a service that is
	// already a work order. The conversion is one-way and never repeated.
	ErrAlreadyConverted = errors.New("service is already a work order")

	// ErrValidation marks malformed input, rejected before any mutation.
	ErrValidation = errors.New("validation failed")
)

// LifecycleService drives a service record through
// estimation -> work order and keeps part stock in step with the
// quantities each service reserves.
type LifecycleService struct {
	store store.Store
	log   *logrus.Logger
}

func NewLifecycleService(st store.Store, log *logrus.Logger) *LifecycleService {
	return &LifecycleService{store: st, log: log}
}

type ServiceTypeInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type ServicePartInput struct {
	PartID   uuid.UUID `json:"partId" binding:"required"`
	Quantity int       `json:"quantity" binding:"required,min=1"`
}

type CreateServiceInput struct {
	CustomerID          uuid.UUID          `json:"customerId" binding:"required"`
	VehicleID           uuid.UUID          `json:"vehicleId" binding:"required"`
	Description         string             `json:"description"`
	EstimatedCompletion *time.Time         `json:"estimatedCompletion"`
	ServiceTypes        []ServiceTypeInput `json:"serviceTypes"`
	Parts               []ServicePartInput `json:"parts"`
	AsWorkOrder         bool               `json:"asWorkOrder"`
}

type UpdateServiceInput struct {
	Description         *string             `json:"description"`
	EstimatedCompletion *time.Time          `json:"estimatedCompletion"`
	Status              *string             `json:"status"`
	ServiceTypes        *[]ServiceTypeInput `json:"serviceTypes"`
	Parts               *[]ServicePartInput `json:"parts"`
}

type ListServicesFilter struct {
	Kind   string // "estimation", "workOrder" or empty for both
	Status string
	Search string
}

// ServiceView is a service joined with customer and vehicle display fields.
type ServiceView struct {
	models.Service
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	VehicleMake   string `json:"vehicleMake"`
	VehicleModel  string `json:"vehicleModel"`
	VehiclePlate  string `json:"vehiclePlate"`
}

func validStatus(status string) bool {
	switch status {
	case models.StatusPending, models.StatusInProgress, models.StatusCompleted:
		return true
	}
	return false
}

func validateEntries(types []ServiceTypeInput, parts []ServicePartInput) error {
	for _, t := range types {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("%w: service type name is required", ErrValidation)
		}
	}
	for _, p := range parts {
		if p.PartID == uuid.Nil {
			return fmt.Errorf("%w: part id is required", ErrValidation)
		}
		if p.Quantity <= 0 {
			return fmt.Errorf("%w: part quantity must be positive", ErrValidation)
		}
	}
	return nil
}

// Create registers a new estimation (or, with AsWorkOrder, a work order),
// reserving stock for every resolvable part entry. A part id that does not
// resolve skips the whole entry rather than aborting the creation; that is
// the documented behavior, not an accident.
func (s *LifecycleService) Create(input CreateServiceInput) (*models.Service, error) {
	if input.CustomerID == uuid.Nil || input.VehicleID == uuid.Nil {
		return nil, fmt.Errorf("%w: customer and vehicle are required", ErrValidation)
	}
	if err := validateEntries(input.ServiceTypes, input.Parts); err != nil {
		return nil, err
	}

	var created *models.Service
	err := s.store.Atomically(func(tx store.Tx) error {
		if _, err := tx.GetCustomer(input.CustomerID); err != nil {
			return err
		}
		if _, err := tx.GetVehicle(input.VehicleID); err != nil {
			return err
		}

		svc := models.Service{
			CustomerID:          input.CustomerID,
			VehicleID:           input.VehicleID,
			Description:         input.Description,
			EstimatedCompletion: input.EstimatedCompletion,
			Status:              models.StatusPending,
			IsWorkOrder:         input.AsWorkOrder,
		}
		if input.AsWorkOrder {
			ref := utils.GenerateReferenceID("WO")
			svc.WorkOrderID = &ref
			svc.Status = models.StatusInProgress
		} else {
			ref := utils.GenerateReferenceID("EST")
			svc.EstimationID = &ref
		}

		for _, t := range input.ServiceTypes {
			st, err := tx.UpsertServiceType(t.Name)
			if err != nil {
				return err
			}
			svc.Types = append(svc.Types, models.ServiceTypeLink{
				ServiceTypeID: st.ID,
				Name:          st.Name,
				Description:   t.Description,
			})
		}

		reserved, err := s.reserveParts(tx, &svc, input.Parts)
		if err != nil {
			return err
		}
		svc.Parts = reserved

		if err := tx.CreateService(&svc); err != nil {
			return err
		}
		created = &svc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// reserveParts attaches part links and decrements stock for each entry whose
// part resolves. Missing parts are skipped with a warning.
func (s *LifecycleService) reserveParts(tx store.Tx, svc *models.Service, inputs []ServicePartInput) ([]models.ServicePart, error) {
	var links []models.ServicePart
	for _, in := range inputs {
		part, err := tx.GetPart(in.PartID)
		if errors.Is(err, store.ErrPartNotFound) {
			s.log.WithFields(logrus.Fields{
				"partId":  in.PartID,
				"service": svc.Reference(),
			}).Warn("part not found, skipping entry")
			continue
		}
		if err != nil {
			return nil, err
		}
		if _, err := tx.AdjustStock(part.ID, -in.Quantity); err != nil {
			return nil, err
		}
		links = append(links, models.ServicePart{
			PartID:   part.ID,
			Quantity: in.Quantity,
		})
	}
	return links, nil
}

// Update patches a service. When the part list is present the engine returns
// every currently reserved quantity to stock, discards all part links and
// re-reserves the new list; parts present in both lists are returned and
// re-decremented rather than diffed, so the net stock change is exactly
// new minus old.
func (s *LifecycleService) Update(serviceID uuid.UUID, input UpdateServiceInput) (*models.Service, error) {
	if input.Status != nil && !validStatus(*input.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *input.Status)
	}
	if input.ServiceTypes != nil || input.Parts != nil {
		var types []ServiceTypeInput
		var parts []ServicePartInput
		if input.ServiceTypes != nil {
			types = *input.ServiceTypes
		}
		if input.Parts != nil {
			parts = *input.Parts
		}
		if err := validateEntries(types, parts); err != nil {
			return nil, err
		}
	}

	var updated *models.Service
	err := s.store.Atomically(func(tx store.Tx) error {
		svc, err := tx.GetService(serviceID)
		if err != nil {
			return err
		}

		if input.Parts != nil {
			for _, link := range svc.Parts {
				if _, err := tx.AdjustStock(link.PartID, link.Quantity); err != nil {
					if errors.Is(err, store.ErrPartNotFound) {
						s.log.WithField("partId", link.PartID).Warn("reserved part no longer exists, nothing to return")
						continue
					}
					return err
				}
			}
			svc.Parts = nil
			reserved, err := s.reserveParts(tx, svc, *input.Parts)
			if err != nil {
				return err
			}
			svc.Parts = reserved
		}

		if input.ServiceTypes != nil {
			svc.Types = nil
			for _, t := range *input.ServiceTypes {
				st, err := tx.UpsertServiceType(t.Name)
				if err != nil {
					return err
				}
				svc.Types = append(svc.Types, models.ServiceTypeLink{
					ServiceID:     svc.ID,
					ServiceTypeID: st.ID,
					Name:          st.Name,
					Description:   t.Description,
				})
			}
		}

		if input.Description != nil {
			svc.Description = *input.Description
		}
		if input.EstimatedCompletion != nil {
			svc.EstimatedCompletion = input.EstimatedCompletion
		}
		if input.Status != nil {
			svc.Status = *input.Status
		}

		if err := tx.SaveService(svc); err != nil {
			return err
		}
		updated = svc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ConvertToWorkOrder flips an estimation into a work order exactly once.
// The status is forced to in_progress regardless of its previous value,
// completed included; that mirrors the historical behavior.
func (s *LifecycleService) ConvertToWorkOrder(serviceID uuid.UUID) (string, error) {
	var workOrderID string
	err := s.store.Atomically(func(tx store.Tx) error {
		svc, err := tx.GetService(serviceID)
		if err != nil {
			return err
		}
		if svc.IsWorkOrder {
			return ErrAlreadyConverted
		}

		ref := utils.GenerateReferenceID("WO")
		svc.WorkOrderID = &ref
		svc.EstimationID = nil
		svc.IsWorkOrder = true
		svc.Status = models.StatusInProgress

		if err := tx.SaveService(svc); err != nil {
			return err
		}
		workOrderID = ref
		return nil
	})
	if err != nil {
		return "", err
	}
	s.log.WithFields(logrus.Fields{"serviceId": serviceID, "workOrderId": workOrderID}).
		Info("estimation converted to work order")
	return workOrderID, nil
}

// Get returns one service joined with its customer and vehicle fields.
func (s *LifecycleService) Get(serviceID uuid.UUID) (*ServiceView, error) {
	svc, err := s.store.GetService(serviceID)
	if err != nil {
		return nil, err
	}
	view := s.toView(*svc)
	return &view, nil
}

// List returns denormalized services filtered by kind, status and a
// case-insensitive search over plate, references and customer name.
func (s *LifecycleService) List(filter ListServicesFilter) ([]ServiceView, error) {
	sf := store.ServiceFilter{Status: filter.Status}
	switch filter.Kind {
	case "estimation":
		f := false
		sf.IsWorkOrder = &f
	case "workOrder":
		f := true
		sf.IsWorkOrder = &f
	case "":
	default:
		return nil, fmt.Errorf("%w: unknown service kind %q", ErrValidation, filter.Kind)
	}

	list, err := s.store.ListServices(sf)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(filter.Search)
	views := make([]ServiceView, 0, len(list))
	for _, svc := range list {
		view := s.toView(svc)
		if needle != "" && !matchesSearch(view, needle) {
			continue
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *LifecycleService) toView(svc models.Service) ServiceView {
	view := ServiceView{Service: svc}
	if cust, err := s.store.GetCustomer(svc.CustomerID); err == nil {
		view.CustomerName = cust.Name
		view.CustomerPhone = cust.Phone
	}
	if veh, err := s.store.GetVehicle(svc.VehicleID); err == nil {
		view.VehicleMake = veh.Make
		view.VehicleModel = veh.Model
		view.VehiclePlate = veh.LicensePlate
	}
	return view
}

func matchesSearch(view ServiceView, needle string) bool {
	fields := []string{view.VehiclePlate, view.CustomerName}
	if view.EstimationID != nil {
		fields = append(fields, *view.EstimationID)
	}
	if view.WorkOrderID != nil {
		fields = append(fields, *view.WorkOrderID)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
