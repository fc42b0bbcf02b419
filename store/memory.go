package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"garagepro-backend/models"
)

// MemoryStore is the map-backed Store implementation. A single RWMutex
// serializes writers; Atomically mutates a cloned snapshot and swaps it in
// only when fn succeeds, so a failed multi-step operation leaves no trace.
type MemoryStore struct {
	mu     sync.RWMutex
	data   *dataset
	policy StockPolicy
}

type dataset struct {
	customers    map[uuid.UUID]models.Customer
	vehicles     map[uuid.UUID]models.Vehicle
	parts        map[uuid.UUID]models.Part
	serviceTypes map[uuid.UUID]models.ServiceType
	services     map[uuid.UUID]models.Service
	receipts     map[uuid.UUID]models.PurchaseReceipt
	invoices     map[uuid.UUID]models.Invoice
	users        map[uuid.UUID]models.User
}

func NewMemoryStore(policy StockPolicy) *MemoryStore {
	return &MemoryStore{
		data: &dataset{
			customers:    make(map[uuid.UUID]models.Customer),
			vehicles:     make(map[uuid.UUID]models.Vehicle),
			parts:        make(map[uuid.UUID]models.Part),
			serviceTypes: make(map[uuid.UUID]models.ServiceType),
			services:     make(map[uuid.UUID]models.Service),
			receipts:     make(map[uuid.UUID]models.PurchaseReceipt),
			invoices:     make(map[uuid.UUID]models.Invoice),
			users:        make(map[uuid.UUID]models.User),
		},
		policy: policy,
	}
}

func (d *dataset) clone() *dataset {
	c := &dataset{
		customers:    make(map[uuid.UUID]models.Customer, len(d.customers)),
		vehicles:     make(map[uuid.UUID]models.Vehicle, len(d.vehicles)),
		parts:        make(map[uuid.UUID]models.Part, len(d.parts)),
		serviceTypes: make(map[uuid.UUID]models.ServiceType, len(d.serviceTypes)),
		services:     make(map[uuid.UUID]models.Service, len(d.services)),
		receipts:     make(map[uuid.UUID]models.PurchaseReceipt, len(d.receipts)),
		invoices:     make(map[uuid.UUID]models.Invoice, len(d.invoices)),
		users:        make(map[uuid.UUID]models.User, len(d.users)),
	}
	for k, v := range d.customers {
		c.customers[k] = v
	}
	for k, v := range d.vehicles {
		c.vehicles[k] = v
	}
	for k, v := range d.parts {
		c.parts[k] = v
	}
	for k, v := range d.serviceTypes {
		c.serviceTypes[k] = v
	}
	for k, v := range d.services {
		c.services[k] = copyService(v)
	}
	for k, v := range d.receipts {
		v.Items = append([]models.ReceiptItem(nil), v.Items...)
		c.receipts[k] = v
	}
	for k, v := range d.invoices {
		v.Items = append([]models.InvoiceItem(nil), v.Items...)
		c.invoices[k] = v
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	return c
}

func copyService(s models.Service) models.Service {
	s.Types = append([]models.ServiceTypeLink(nil), s.Types...)
	s.Parts = append([]models.ServicePart(nil), s.Parts...)
	return s
}

// Atomically clones the dataset, runs fn against the clone and commits it by
// pointer swap. On error the clone is discarded.
func (s *MemoryStore) Atomically(fn func(Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(&memTx{data: work, policy: s.policy}); err != nil {
		return err
	}
	s.data = work
	return nil
}

func (s *MemoryStore) read() *memTx  { return &memTx{data: s.data, policy: s.policy} }
func (s *MemoryStore) write() *memTx { return s.read() }

// memTx operates on a dataset without locking; MemoryStore holds the lock.
type memTx struct {
	data   *dataset
	policy StockPolicy
}

func now() time.Time { return time.Now().UTC() }

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// --- customers ---

func (t *memTx) CreateCustomer(c *models.Customer) error {
	ensureID(&c.ID)
	c.CreatedAt = now()
	c.UpdatedAt = c.CreatedAt
	stored := *c
	stored.Vehicles = nil
	t.data.customers[c.ID] = stored
	return nil
}

func (t *memTx) GetCustomer(id uuid.UUID) (*models.Customer, error) {
	c, ok := t.data.customers[id]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	return &c, nil
}

func (t *memTx) UpdateCustomer(c *models.Customer) error {
	if _, ok := t.data.customers[c.ID]; !ok {
		return ErrCustomerNotFound
	}
	c.UpdatedAt = now()
	stored := *c
	stored.Vehicles = nil
	t.data.customers[c.ID] = stored
	return nil
}

func (t *memTx) DeleteCustomer(id uuid.UUID) error {
	if _, ok := t.data.customers[id]; !ok {
		return ErrCustomerNotFound
	}
	delete(t.data.customers, id)
	return nil
}

func (t *memTx) ListCustomers(search string) ([]models.Customer, error) {
	needle := strings.ToLower(search)
	list := make([]models.Customer, 0, len(t.data.customers))
	for _, c := range t.data.customers {
		if needle != "" &&
			!strings.Contains(strings.ToLower(c.Name), needle) &&
			!strings.Contains(strings.ToLower(c.Email), needle) &&
			!strings.Contains(c.Phone, search) {
			continue
		}
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

// --- vehicles ---

func (t *memTx) CreateVehicle(v *models.Vehicle) error {
	if _, ok := t.data.customers[v.CustomerID]; !ok {
		return ErrCustomerNotFound
	}
	ensureID(&v.ID)
	v.CreatedAt = now()
	v.UpdatedAt = v.CreatedAt
	t.data.vehicles[v.ID] = *v
	return nil
}

func (t *memTx) GetVehicle(id uuid.UUID) (*models.Vehicle, error) {
	v, ok := t.data.vehicles[id]
	if !ok {
		return nil, ErrVehicleNotFound
	}
	return &v, nil
}

func (t *memTx) ListVehiclesByCustomer(customerID uuid.UUID) ([]models.Vehicle, error) {
	var list []models.Vehicle
	for _, v := range t.data.vehicles {
		if v.CustomerID == customerID {
			list = append(list, v)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

// --- parts ---

func (t *memTx) CreatePart(p *models.Part) error {
	ensureID(&p.ID)
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt
	t.data.parts[p.ID] = *p
	return nil
}

func (t *memTx) UpdatePart(p *models.Part) error {
	existing, ok := t.data.parts[p.ID]
	if !ok {
		return ErrPartNotFound
	}
	existing.Name = p.Name
	existing.Price = p.Price
	existing.SKU = p.SKU
	existing.UpdatedAt = now()
	t.data.parts[p.ID] = existing
	*p = existing
	return nil
}

func (t *memTx) GetPart(id uuid.UUID) (*models.Part, error) {
	p, ok := t.data.parts[id]
	if !ok {
		return nil, ErrPartNotFound
	}
	return &p, nil
}

func (t *memTx) GetPartBySKU(sku string) (*models.Part, error) {
	for _, p := range t.data.parts {
		if p.SKU != "" && strings.EqualFold(p.SKU, sku) {
			return &p, nil
		}
	}
	return nil, ErrPartNotFound
}

func (t *memTx) ListParts(f PartFilter) ([]models.Part, error) {
	needle := strings.ToLower(f.Search)
	var list []models.Part
	for _, p := range t.data.parts {
		if f.InStockOnly && p.Stock <= 0 {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.SKU), needle) {
			continue
		}
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (t *memTx) AdjustStock(id uuid.UUID, delta int) (*models.Part, error) {
	p, ok := t.data.parts[id]
	if !ok {
		return nil, ErrPartNotFound
	}
	next := p.Stock + delta
	if next < 0 {
		if t.policy == StockRejectShortfall {
			return nil, ErrInsufficientStock
		}
		next = 0
	}
	p.Stock = next
	p.UpdatedAt = now()
	t.data.parts[id] = p
	return &p, nil
}

// --- service types ---

func (t *memTx) UpsertServiceType(name string) (*models.ServiceType, error) {
	for _, st := range t.data.serviceTypes {
		if strings.EqualFold(st.Name, name) {
			return &st, nil
		}
	}
	st := models.ServiceType{ID: uuid.New(), Name: name, CreatedAt: now()}
	t.data.serviceTypes[st.ID] = st
	return &st, nil
}

// --- services ---

func (t *memTx) CreateService(s *models.Service) error {
	ensureID(&s.ID)
	s.CreatedAt = now()
	s.UpdatedAt = s.CreatedAt
	t.ownLinks(s)
	t.data.services[s.ID] = copyService(*s)
	return nil
}

func (t *memTx) GetService(id uuid.UUID) (*models.Service, error) {
	s, ok := t.data.services[id]
	if !ok {
		return nil, ErrServiceNotFound
	}
	s = copyService(s)
	return &s, nil
}

func (t *memTx) SaveService(s *models.Service) error {
	existing, ok := t.data.services[s.ID]
	if !ok {
		return ErrServiceNotFound
	}
	s.CreatedAt = existing.CreatedAt
	s.UpdatedAt = now()
	t.ownLinks(s)
	t.data.services[s.ID] = copyService(*s)
	return nil
}

func (t *memTx) ownLinks(s *models.Service) {
	for i := range s.Types {
		ensureID(&s.Types[i].ID)
		s.Types[i].ServiceID = s.ID
	}
	for i := range s.Parts {
		ensureID(&s.Parts[i].ID)
		s.Parts[i].ServiceID = s.ID
	}
}

func (t *memTx) ListServices(f ServiceFilter) ([]models.Service, error) {
	var list []models.Service
	for _, s := range t.data.services {
		if f.IsWorkOrder != nil && s.IsWorkOrder != *f.IsWorkOrder {
			continue
		}
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		list = append(list, copyService(s))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

// --- receipts ---

func (t *memTx) CreateReceipt(r *models.PurchaseReceipt) error {
	ensureID(&r.ID)
	r.CreatedAt = now()
	for i := range r.Items {
		ensureID(&r.Items[i].ID)
		r.Items[i].ReceiptID = r.ID
	}
	stored := *r
	stored.Items = append([]models.ReceiptItem(nil), r.Items...)
	t.data.receipts[r.ID] = stored
	return nil
}

func (t *memTx) ListReceipts(f ReceiptFilter) ([]models.PurchaseReceipt, error) {
	var list []models.PurchaseReceipt
	for _, r := range t.data.receipts {
		if f.From != nil && r.PurchaseDate.Before(*f.From) {
			continue
		}
		if f.To != nil && r.PurchaseDate.After(*f.To) {
			continue
		}
		r.Items = append([]models.ReceiptItem(nil), r.Items...)
		list = append(list, r)
	}
	// oldest first, the order aging reports expect
	sort.Slice(list, func(i, j int) bool { return list[i].PurchaseDate.Before(list[j].PurchaseDate) })
	return list, nil
}

// --- invoices ---

func (t *memTx) CreateInvoice(inv *models.Invoice) error {
	ensureID(&inv.ID)
	inv.CreatedAt = now()
	for i := range inv.Items {
		ensureID(&inv.Items[i].ID)
		inv.Items[i].InvoiceID = inv.ID
	}
	stored := *inv
	stored.Items = append([]models.InvoiceItem(nil), inv.Items...)
	t.data.invoices[inv.ID] = stored
	return nil
}

func (t *memTx) GetInvoice(id uuid.UUID) (*models.Invoice, error) {
	inv, ok := t.data.invoices[id]
	if !ok {
		return nil, ErrInvoiceNotFound
	}
	inv.Items = append([]models.InvoiceItem(nil), inv.Items...)
	return &inv, nil
}

func (t *memTx) ListInvoices() ([]models.Invoice, error) {
	var list []models.Invoice
	for _, inv := range t.data.invoices {
		inv.Items = append([]models.InvoiceItem(nil), inv.Items...)
		list = append(list, inv)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

// --- users ---

func (t *memTx) CreateUser(u *models.User) error {
	ensureID(&u.ID)
	u.CreatedAt = now()
	u.UpdatedAt = u.CreatedAt
	t.data.users[u.ID] = *u
	return nil
}

func (t *memTx) GetUser(id uuid.UUID) (*models.User, error) {
	u, ok := t.data.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (t *memTx) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range t.data.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (t *memTx) UpdateUser(u *models.User) error {
	if _, ok := t.data.users[u.ID]; !ok {
		return ErrUserNotFound
	}
	u.UpdatedAt = now()
	t.data.users[u.ID] = *u
	return nil
}

// Direct (auto-commit) operations delegate to a view over the live dataset
// under the appropriate lock.

func (s *MemoryStore) CreateCustomer(c *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().CreateCustomer(c)
}

func (s *MemoryStore) GetCustomer(id uuid.UUID) (*models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetCustomer(id)
}

func (s *MemoryStore) UpdateCustomer(c *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().UpdateCustomer(c)
}

func (s *MemoryStore) DeleteCustomer(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().DeleteCustomer(id)
}

func (s *MemoryStore) ListCustomers(search string) ([]models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListCustomers(search)
}

func (s *MemoryStore) CreateVehicle(v *models.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().CreateVehicle(v)
}

func (s *MemoryStore) GetVehicle(id uuid.UUID) (*models.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetVehicle(id)
}

func (s *MemoryStore) ListVehiclesByCustomer(customerID uuid.UUID) ([]models.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListVehiclesByCustomer(customerID)
}

func (s *MemoryStore) CreatePart(p *models.Part) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().CreatePart(p)
}

func (s *MemoryStore) UpdatePart(p *models.Part) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().UpdatePart(p)
}

func (s *MemoryStore) GetPart(id uuid.UUID) (*models.Part, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetPart(id)
}

func (s *MemoryStore) GetPartBySKU(sku string) (*models.Part, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetPartBySKU(sku)
}

func (s *MemoryStore) ListParts(f PartFilter) ([]models.Part, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListParts(f)
}

func (s *MemoryStore) AdjustStock(id uuid.UUID, delta int) (*models.Part, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().AdjustStock(id, delta)
}

func (s *MemoryStore) UpsertServiceType(name string) (*models.ServiceType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().UpsertServiceType(name)
}

func (s *MemoryStore) CreateService(svc *models.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().CreateService(svc)
}

func (s *MemoryStore) GetService(id uuid.UUID) (*models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetService(id)
}

func (s *MemoryStore) SaveService(svc *models.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().SaveService(svc)
}

func (s *MemoryStore) ListServices(f ServiceFilter) ([]models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListServices(f)
}

func (s *MemoryStore) CreateReceipt(r *models.PurchaseReceipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().CreateReceipt(r)
}

func (s *MemoryStore) ListReceipts(f ReceiptFilter) ([]models.PurchaseReceipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListReceipts(f)
}

func (s *MemoryStore) CreateInvoice(inv *models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().CreateInvoice(inv)
}

func (s *MemoryStore) GetInvoice(id uuid.UUID) (*models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetInvoice(id)
}

func (s *MemoryStore) ListInvoices() ([]models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListInvoices()
}

func (s *MemoryStore) CreateUser(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().CreateUser(u)
}

func (s *MemoryStore) GetUser(id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetUser(id)
}

func (s *MemoryStore) GetUserByEmail(email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetUserByEmail(email)
}

func (s *MemoryStore) UpdateUser(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().UpdateUser(u)
}
