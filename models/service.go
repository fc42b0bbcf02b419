package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// ServiceType is a shared category of repair work ("oil_change",
// "brake_service"). Resolved or created by name when a service is saved.
type ServiceType struct {
	ID   uuid.UUID `gorm:"type:char(36);primary_key" json:"id"`
	Name string    `gorm:"uniqueIndex;not null" json:"name"`

	CreatedAt time.Time `json:"createdAt"`
}

func (t *ServiceType) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

// ServiceTypeLink attaches a category to one service, carrying the optional
// per-service description. Lifetime bound to the owning service.
type ServiceTypeLink struct {
	ID            uuid.UUID `gorm:"type:char(36);primary_key" json:"id"`
	ServiceID     uuid.UUID `gorm:"type:char(36);index;not null" json:"serviceId"`
	ServiceTypeID uuid.UUID `gorm:"type:char(36);index;not null" json:"serviceTypeId"`
	Name          string    `gorm:"not null" json:"name"`
	Description   string    `json:"description,omitempty"`
}

func (l *ServiceTypeLink) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}

// ServicePart reserves a quantity of one part for a service. The part itself
// is referenced, never owned: deleting a service leaves the part in place.
type ServicePart struct {
	ID        uuid.UUID `gorm:"type:char(36);primary_key" json:"id"`
	ServiceID uuid.UUID `gorm:"type:char(36);index;not null" json:"serviceId"`
	PartID    uuid.UUID `gorm:"type:char(36);index;not null" json:"partId"`
	Quantity  int       `gorm:"not null" json:"quantity"`
}

func (p *ServicePart) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// Service is a repair job moving through estimation -> work order -> invoice.
// While IsWorkOrder is false the record carries an estimation reference;
// conversion swaps it for a work-order reference exactly once.
type Service struct {
	ID         uuid.UUID `gorm:"type:char(36);primary_key" json:"id"`
	CustomerID uuid.UUID `gorm:"type:char(36);index;not null" json:"customerId"`
	VehicleID  uuid.UUID `gorm:"type:char(36);index;not null" json:"vehicleId"`

	Description         string     `json:"description"`
	EstimatedCompletion *time.Time `json:"estimatedCompletion,omitempty"`
	Status              string     `gorm:"type:varchar(20);default:'pending'" json:"status"`

	IsWorkOrder  bool    `gorm:"default:false" json:"isWorkOrder"`
	EstimationID *string `gorm:"index" json:"estimationId,omitempty"`
	WorkOrderID  *string `gorm:"index" json:"workOrderId,omitempty"`

	Types []ServiceTypeLink `gorm:"foreignKey:ServiceID" json:"serviceTypes"`
	Parts []ServicePart     `gorm:"foreignKey:ServiceID" json:"parts"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// Reference returns whichever of the estimation or work-order identifiers is
// populated for this service.
func (s *Service) Reference() string {
	if s.IsWorkOrder && s.WorkOrderID != nil {
		return *s.WorkOrderID
	}
	if s.EstimationID != nil {
		return *s.EstimationID
	}
	return ""
}
