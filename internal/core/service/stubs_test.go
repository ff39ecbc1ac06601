package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bistro/pos-system/internal/core/domain"
	"github.com/bistro/pos-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs for the ports used by the services under test
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type stubEmployeeRepo struct {
	byID map[string]*domain.Employee
}

func newStubEmployeeRepo() *stubEmployeeRepo {
	return &stubEmployeeRepo{byID: make(map[string]*domain.Employee)}
}

func (r *stubEmployeeRepo) Create(_ context.Context, e *domain.Employee) error {
	clone := *e
	r.byID[e.ID] = &clone
	return nil
}

func (r *stubEmployeeRepo) FindByID(_ context.Context, id string) (*domain.Employee, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	clone := *e
	return &clone, nil
}

func (r *stubEmployeeRepo) List(_ context.Context) ([]*domain.Employee, error) {
	out := make([]*domain.Employee, 0, len(r.byID))
	for _, e := range r.byID {
		clone := *e
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubEmployeeRepo) Update(_ context.Context, e *domain.Employee) error {
	if _, ok := r.byID[e.ID]; !ok {
		return domain.ErrEmployeeNotFound
	}
	clone := *e
	r.byID[e.ID] = &clone
	return nil
}

func (r *stubEmployeeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrEmployeeNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubEmployeeRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

type stubMenuRepo struct {
	items map[string]*domain.MenuItem
}

func newStubMenuRepo(items ...*domain.MenuItem) *stubMenuRepo {
	r := &stubMenuRepo{items: make(map[string]*domain.MenuItem)}
	for _, it := range items {
		r.items[it.ID] = it
	}
	return r
}

func (r *stubMenuRepo) List(_ context.Context, f ports.MenuFilter) ([]*domain.MenuItem, error) {
	var out []*domain.MenuItem
	for _, it := range r.items {
		if f.Category != "" && it.Category != f.Category {
			continue
		}
		if !f.IncludeUnavailable && !it.Available {
			continue
		}
		clone := *it
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubMenuRepo) FindByID(_ context.Context, id string) (*domain.MenuItem, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, domain.ErrMenuItemNotFound
	}
	clone := *it
	return &clone, nil
}

func (r *stubMenuRepo) Create(_ context.Context, item *domain.MenuItem) error {
	clone := *item
	r.items[item.ID] = &clone
	return nil
}

func (r *stubMenuRepo) Update(_ context.Context, item *domain.MenuItem) error {
	if _, ok := r.items[item.ID]; !ok {
		return domain.ErrMenuItemNotFound
	}
	clone := *item
	r.items[item.ID] = &clone
	return nil
}

func (r *stubMenuRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrMenuItemNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *stubMenuRepo) Categories(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, it := range r.items {
		if !seen[it.Category] {
			seen[it.Category] = true
			out = append(out, it.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

type stubCartStore struct {
	carts   map[string]*domain.Cart
	saveErr error
}

func newStubCartStore() *stubCartStore {
	return &stubCartStore{carts: make(map[string]*domain.Cart)}
}

func (s *stubCartStore) Save(_ context.Context, c *domain.Cart) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	clone := *c
	clone.Lines = append([]domain.CartLine(nil), c.Lines...)
	s.carts[c.ID] = &clone
	return nil
}

func (s *stubCartStore) Get(_ context.Context, id string) (*domain.Cart, error) {
	c, ok := s.carts[id]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	clone := *c
	clone.Lines = append([]domain.CartLine(nil), c.Lines...)
	return &clone, nil
}

func (s *stubCartStore) Update(ctx context.Context, id string, fn func(*domain.Cart) error) (*domain.Cart, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := s.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *stubCartStore) Delete(_ context.Context, id string) error {
	if _, ok := s.carts[id]; !ok {
		return domain.ErrCartNotFound
	}
	delete(s.carts, id)
	return nil
}

type stubSaleRepo struct {
	mu            sync.Mutex
	byID          map[string]*domain.Sale
	createErr     error
	beforeCreate  func()
	notifications map[string]domain.NotificationStatus
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{
		byID:          make(map[string]*domain.Sale),
		notifications: make(map[string]domain.NotificationStatus),
	}
}

func (r *stubSaleRepo) Create(_ context.Context, s *domain.Sale) error {
	if hook := r.beforeCreate; hook != nil {
		r.beforeCreate = nil
		hook()
	}
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *s
	r.byID[s.ID] = &clone
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id string) (*domain.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrSaleNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubSaleRepo) List(_ context.Context, f ports.ListSalesFilter) ([]*domain.Sale, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.Sale
	for _, s := range r.byID {
		if f.EmployeeID != "" && s.EmployeeID != f.EmployeeID {
			continue
		}
		clone := *s
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	total := int64(len(matched))
	skip := (f.Page - 1) * f.Limit
	if skip > len(matched) {
		return []*domain.Sale{}, total, nil
	}
	end := skip + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubSaleRepo) ListBetween(_ context.Context, from, to time.Time) ([]*domain.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Sale
	for _, s := range r.byID {
		if s.CreatedAt.Before(from) || !s.CreatedAt.Before(to) {
			continue
		}
		clone := *s
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubSaleRepo) UpdateStatus(_ context.Context, id string, status domain.SaleStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return domain.ErrSaleNotFound
	}
	s.Status = status
	s.VoidedAt = at
	return nil
}

func (r *stubSaleRepo) UpdateNotification(_ context.Context, id string, status domain.NotificationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications[id] = status
	if s, ok := r.byID[id]; ok {
		s.Notification = status
	}
	return nil
}

type stubInventoryRepo struct {
	items map[string]*domain.InventoryItem
}

func newStubInventoryRepo(items ...*domain.InventoryItem) *stubInventoryRepo {
	r := &stubInventoryRepo{items: make(map[string]*domain.InventoryItem)}
	for _, it := range items {
		r.items[it.SKU] = it
	}
	return r
}

func (r *stubInventoryRepo) Create(_ context.Context, item *domain.InventoryItem) error {
	if _, ok := r.items[item.SKU]; ok {
		return domain.ErrInventoryItemExists
	}
	clone := *item
	r.items[item.SKU] = &clone
	return nil
}

func (r *stubInventoryRepo) FindBySKU(_ context.Context, sku string) (*domain.InventoryItem, error) {
	it, ok := r.items[sku]
	if !ok {
		return nil, domain.ErrInventoryItemNotFound
	}
	clone := *it
	return &clone, nil
}

func (r *stubInventoryRepo) List(_ context.Context) ([]*domain.InventoryItem, error) {
	out := make([]*domain.InventoryItem, 0, len(r.items))
	for _, it := range r.items {
		clone := *it
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

func (r *stubInventoryRepo) Update(_ context.Context, item *domain.InventoryItem) error {
	if _, ok := r.items[item.SKU]; !ok {
		return domain.ErrInventoryItemNotFound
	}
	clone := *item
	r.items[item.SKU] = &clone
	return nil
}

func (r *stubInventoryRepo) Delete(_ context.Context, sku string) error {
	if _, ok := r.items[sku]; !ok {
		return domain.ErrInventoryItemNotFound
	}
	delete(r.items, sku)
	return nil
}

func (r *stubInventoryRepo) Adjust(_ context.Context, sku string, delta int) (*domain.InventoryItem, error) {
	it, ok := r.items[sku]
	if !ok {
		return nil, domain.ErrInventoryItemNotFound
	}
	if it.Quantity+delta < 0 {
		return nil, domain.ErrInsufficientStock
	}
	it.Quantity += delta
	clone := *it
	return &clone, nil
}

func (r *stubInventoryRepo) Consume(_ context.Context, sku string, qty int) error {
	it, ok := r.items[sku]
	if !ok {
		return domain.ErrInventoryItemNotFound
	}
	it.Quantity -= qty
	if it.Quantity < 0 {
		it.Quantity = 0
	}
	return nil
}

type stubSettingsRepo struct {
	stored *domain.Settings
	gets   int
}

func (r *stubSettingsRepo) Get(_ context.Context) (*domain.Settings, error) {
	r.gets++
	if r.stored == nil {
		return nil, domain.ErrSettingsNotFound
	}
	clone := *r.stored
	return &clone, nil
}

func (r *stubSettingsRepo) Upsert(_ context.Context, s *domain.Settings) error {
	clone := *s
	r.stored = &clone
	return nil
}

// fixedTax is a TaxSource with constant settings.
type fixedTax struct {
	rate     string
	currency string
}

func (f fixedTax) Get(_ context.Context) (*domain.Settings, error) {
	return &domain.Settings{TaxRate: dec(f.rate), Currency: f.currency}, nil
}

type stubIdempotency struct {
	keys       map[string]string // "" while reserved
	reserveErr error
	released   []string
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]string)}
}

func (s *stubIdempotency) Reserve(_ context.Context, key string) (bool, string, error) {
	if s.reserveErr != nil {
		return false, "", s.reserveErr
	}
	if id, ok := s.keys[key]; ok {
		return false, id, nil
	}
	s.keys[key] = ""
	return true, "", nil
}

func (s *stubIdempotency) Complete(_ context.Context, key, saleID string) error {
	s.keys[key] = saleID
	return nil
}

func (s *stubIdempotency) Release(_ context.Context, key string) error {
	delete(s.keys, key)
	s.released = append(s.released, key)
	return nil
}

type recordingQueue struct {
	items []ports.OrderNotification
}

func (q *recordingQueue) Enqueue(n ports.OrderNotification) {
	q.items = append(q.items, n)
}

type stubNotifier struct {
	name  string
	err   error
	calls int
}

func (n *stubNotifier) Name() string { return n.name }

func (n *stubNotifier) Notify(_ context.Context, _ ports.OrderNotification) error {
	n.calls++
	return n.err
}

var errBoom = errors.New("boom")
