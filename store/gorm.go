package store

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"garagepro-backend/models"
)

// GormStore is the relational Store implementation. Atomically maps straight
// onto a native database transaction.
type GormStore struct {
	db     *gorm.DB
	policy StockPolicy
}

func NewGormStore(db *gorm.DB, policy StockPolicy) *GormStore {
	return &GormStore{db: db, policy: policy}
}

// AutoMigrate creates or updates the schema for every model the store owns.
func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Vehicle{},
		&models.Part{},
		&models.ServiceType{},
		&models.Service{},
		&models.ServiceTypeLink{},
		&models.ServicePart{},
		&models.PurchaseReceipt{},
		&models.ReceiptItem{},
		&models.Invoice{},
		&models.InvoiceItem{},
	)
}

func (s *GormStore) Atomically(fn func(Tx) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx, policy: s.policy})
	})
}

func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// --- customers ---

func (s *GormStore) CreateCustomer(c *models.Customer) error {
	return s.db.Create(c).Error
}

func (s *GormStore) GetCustomer(id uuid.UUID) (*models.Customer, error) {
	var c models.Customer
	if err := s.db.First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrCustomerNotFound)
	}
	return &c, nil
}

func (s *GormStore) UpdateCustomer(c *models.Customer) error {
	res := s.db.Model(&models.Customer{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"name":    c.Name,
		"email":   c.Email,
		"phone":   c.Phone,
		"address": c.Address,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

func (s *GormStore) DeleteCustomer(id uuid.UUID) error {
	res := s.db.Delete(&models.Customer{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

func (s *GormStore) ListCustomers(search string) ([]models.Customer, error) {
	q := s.db.Order("created_at DESC")
	if search != "" {
		needle := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", needle, needle, "%"+search+"%")
	}
	var list []models.Customer
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// --- vehicles ---

func (s *GormStore) CreateVehicle(v *models.Vehicle) error {
	if _, err := s.GetCustomer(v.CustomerID); err != nil {
		return err
	}
	return s.db.Create(v).Error
}

func (s *GormStore) GetVehicle(id uuid.UUID) (*models.Vehicle, error) {
	var v models.Vehicle
	if err := s.db.First(&v, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrVehicleNotFound)
	}
	return &v, nil
}

func (s *GormStore) ListVehiclesByCustomer(customerID uuid.UUID) ([]models.Vehicle, error) {
	var list []models.Vehicle
	err := s.db.Where("customer_id = ?", customerID).Order("created_at ASC").Find(&list).Error
	return list, err
}

// --- parts ---

func (s *GormStore) CreatePart(p *models.Part) error {
	return s.db.Create(p).Error
}

func (s *GormStore) UpdatePart(p *models.Part) error {
	res := s.db.Model(&models.Part{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"name":  p.Name,
		"price": p.Price,
		"sku":   p.SKU,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPartNotFound
	}
	return nil
}

func (s *GormStore) GetPart(id uuid.UUID) (*models.Part, error) {
	var p models.Part
	if err := s.db.First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrPartNotFound)
	}
	return &p, nil
}

func (s *GormStore) GetPartBySKU(sku string) (*models.Part, error) {
	var p models.Part
	if err := s.db.Where("sku <> '' AND LOWER(sku) = ?", strings.ToLower(sku)).First(&p).Error; err != nil {
		return nil, notFound(err, ErrPartNotFound)
	}
	return &p, nil
}

func (s *GormStore) ListParts(f PartFilter) ([]models.Part, error) {
	q := s.db.Order("name ASC")
	if f.InStockOnly {
		q = q.Where("stock > 0")
	}
	if f.Search != "" {
		needle := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", needle, needle)
	}
	var list []models.Part
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// AdjustStock serializes concurrent adjustments to the same part with a row
// lock, then applies the store's stock policy.
func (s *GormStore) AdjustStock(id uuid.UUID, delta int) (*models.Part, error) {
	var p models.Part
	if err := s.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrPartNotFound)
	}
	next := p.Stock + delta
	if next < 0 {
		if s.policy == StockRejectShortfall {
			return nil, ErrInsufficientStock
		}
		next = 0
	}
	p.Stock = next
	p.UpdatedAt = time.Now().UTC()
	if err := s.db.Model(&models.Part{}).Where("id = ?", id).
		Updates(map[string]interface{}{"stock": p.Stock, "updated_at": p.UpdatedAt}).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// --- service types ---

func (s *GormStore) UpsertServiceType(name string) (*models.ServiceType, error) {
	var st models.ServiceType
	err := s.db.Where("LOWER(name) = ?", strings.ToLower(name)).First(&st).Error
	if err == nil {
		return &st, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	st = models.ServiceType{Name: name}
	if err := s.db.Create(&st).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

// --- services ---

func (s *GormStore) CreateService(svc *models.Service) error {
	return s.db.Create(svc).Error
}

func (s *GormStore) GetService(id uuid.UUID) (*models.Service, error) {
	var svc models.Service
	if err := s.db.Preload("Types").Preload("Parts").
		First(&svc, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrServiceNotFound)
	}
	return &svc, nil
}

// SaveService replaces the owned link rows wholesale, matching the engine's
// return-then-reserve update semantics.
func (s *GormStore) SaveService(svc *models.Service) error {
	var existing models.Service
	if err := s.db.First(&existing, "id = ?", svc.ID).Error; err != nil {
		return notFound(err, ErrServiceNotFound)
	}
	if err := s.db.Where("service_id = ?", svc.ID).Delete(&models.ServiceTypeLink{}).Error; err != nil {
		return err
	}
	if err := s.db.Where("service_id = ?", svc.ID).Delete(&models.ServicePart{}).Error; err != nil {
		return err
	}
	for i := range svc.Types {
		svc.Types[i].ServiceID = svc.ID
	}
	for i := range svc.Parts {
		svc.Parts[i].ServiceID = svc.ID
	}
	return s.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(svc).Error
}

func (s *GormStore) ListServices(f ServiceFilter) ([]models.Service, error) {
	q := s.db.Preload("Types").Preload("Parts").Order("created_at DESC")
	if f.IsWorkOrder != nil {
		q = q.Where("is_work_order = ?", *f.IsWorkOrder)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var list []models.Service
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// --- receipts ---

func (s *GormStore) CreateReceipt(r *models.PurchaseReceipt) error {
	return s.db.Create(r).Error
}

func (s *GormStore) ListReceipts(f ReceiptFilter) ([]models.PurchaseReceipt, error) {
	q := s.db.Preload("Items").Order("purchase_date ASC")
	if f.From != nil {
		q = q.Where("purchase_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("purchase_date <= ?", *f.To)
	}
	var list []models.PurchaseReceipt
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// --- invoices ---

func (s *GormStore) CreateInvoice(inv *models.Invoice) error {
	return s.db.Create(inv).Error
}

func (s *GormStore) GetInvoice(id uuid.UUID) (*models.Invoice, error) {
	var inv models.Invoice
	if err := s.db.Preload("Items").First(&inv, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrInvoiceNotFound)
	}
	return &inv, nil
}

func (s *GormStore) ListInvoices() ([]models.Invoice, error) {
	var list []models.Invoice
	err := s.db.Preload("Items").Order("created_at DESC").Find(&list).Error
	return list, err
}

// --- users ---

func (s *GormStore) CreateUser(u *models.User) error {
	return s.db.Create(u).Error
}

func (s *GormStore) GetUser(id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.db.First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &u, nil
}

func (s *GormStore) GetUserByEmail(email string) (*models.User, error) {
	var u models.User
	if err := s.db.Where("LOWER(email) = ?", strings.ToLower(email)).First(&u).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &u, nil
}

func (s *GormStore) UpdateUser(u *models.User) error {
	res := s.db.Save(u)
	if res.Error != nil {
		return res.Error
	}
	return nil
}
