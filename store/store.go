// Package store defines the persistence contract shared by the in-memory and
// MySQL backends. The backend is chosen once at construction time; business
// logic only ever sees the Store interface.
package store

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"garagepro-backend/models"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrVehicleNotFound  = errors.New("vehicle not found")
	ErrPartNotFound     = errors.New("part not found")
	ErrServiceNotFound  = errors.New("service not found")
	ErrReceiptNotFound  = errors.New("receipt not found")
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrUserNotFound     = errors.New("user not found")

	// ErrInsufficientStock is only returned under StockRejectShortfall.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// StockPolicy controls what happens when a stock decrement would go below
// zero. The historical behavior is to clamp at zero and carry on.
type StockPolicy int

const (
	StockClampAtZero StockPolicy = iota
	StockRejectShortfall
)

// PartFilter narrows ListParts. Search matches name or SKU,
// case-insensitively.
type PartFilter struct {
	InStockOnly bool
	Search      string
}

// ServiceFilter narrows ListServices. IsWorkOrder nil means both kinds.
type ServiceFilter struct {
	IsWorkOrder *bool
	Status      string
}

// ReceiptFilter narrows ListReceipts to a purchase-date range. Results are
// always ordered oldest first.
type ReceiptFilter struct {
	From *time.Time
	To   *time.Time
}

// Tx is the full set of data operations. Inside Atomically they run against
// an uncommitted view; on a Store directly they commit immediately.
type Tx interface {
	CreateCustomer(c *models.Customer) error
	GetCustomer(id uuid.UUID) (*models.Customer, error)
	UpdateCustomer(c *models.Customer) error
	DeleteCustomer(id uuid.UUID) error
	ListCustomers(search string) ([]models.Customer, error)

	CreateVehicle(v *models.Vehicle) error
	GetVehicle(id uuid.UUID) (*models.Vehicle, error)
	ListVehiclesByCustomer(customerID uuid.UUID) ([]models.Vehicle, error)

	CreatePart(p *models.Part) error
	// UpdatePart persists descriptive fields (name, price, SKU). Stock moves
	// only through AdjustStock.
	UpdatePart(p *models.Part) error
	GetPart(id uuid.UUID) (*models.Part, error)
	GetPartBySKU(sku string) (*models.Part, error)
	ListParts(f PartFilter) ([]models.Part, error)
	// AdjustStock applies stock += delta, honoring the store's StockPolicy,
	// and refreshes the part's modification timestamp.
	AdjustStock(id uuid.UUID, delta int) (*models.Part, error)

	// UpsertServiceType resolves a category by name, creating it on first use.
	UpsertServiceType(name string) (*models.ServiceType, error)

	CreateService(s *models.Service) error
	GetService(id uuid.UUID) (*models.Service, error)
	// SaveService persists the service and replaces its owned type and part
	// links with the ones on the struct.
	SaveService(s *models.Service) error
	ListServices(f ServiceFilter) ([]models.Service, error)

	CreateReceipt(r *models.PurchaseReceipt) error
	ListReceipts(f ReceiptFilter) ([]models.PurchaseReceipt, error)

	CreateInvoice(inv *models.Invoice) error
	GetInvoice(id uuid.UUID) (*models.Invoice, error)
	ListInvoices() ([]models.Invoice, error)

	CreateUser(u *models.User) error
	GetUser(id uuid.UUID) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateUser(u *models.User) error
}

// Store adds the unit-of-work boundary: Atomically runs fn against a
// transactional view and either commits every mutation or none of them.
type Store interface {
	Tx
	Atomically(fn func(Tx) error) error
}
