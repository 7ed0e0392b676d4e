package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"kiosk-order/cart"
	"kiosk-order/models"
	"kiosk-order/repositories"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fakeMenu struct {
	stores map[string]models.Store
	items  map[string]models.MenuItem
	menus  map[string][]models.Category
}

func (f *fakeMenu) ListStores(ctx context.Context, tenantID string) ([]models.Store, error) {
	stores := []models.Store{}
	for _, s := range f.stores {
		if s.TenantID == tenantID {
			stores = append(stores, s)
		}
	}
	return stores, nil
}

func (f *fakeMenu) GetStore(ctx context.Context, id string) (*models.Store, error) {
	s, ok := f.stores[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &s, nil
}

func (f *fakeMenu) GetMenu(ctx context.Context, storeID string) ([]models.Category, error) {
	return f.menus[storeID], nil
}

func (f *fakeMenu) GetMenuItem(ctx context.Context, itemID string) (*models.MenuItem, error) {
	it, ok := f.items[itemID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &it, nil
}

// newFakeMenu returns a tenant with two stores. The downtown store sells a
// latte with sizes and milk/extra groups plus a muffin without options.
func newFakeMenu() *fakeMenu {
	return &fakeMenu{
		stores: map[string]models.Store{
			"downtown": {ID: "downtown", TenantID: "tenant-1", Name: "Downtown", IsActive: true},
			"airport": {ID: "airport", TenantID: "tenant-1", Name: "Airport", IsActive: true,
				TaxRate: decimal.NewNullDecimal(money("0.08"))},
			"closed":  {ID: "closed", TenantID: "tenant-1", Name: "Closed", IsActive: false},
			"foreign": {ID: "foreign", TenantID: "tenant-2", Name: "Elsewhere", IsActive: true},
		},
		items: map[string]models.MenuItem{
			"latte": {
				ID: "latte", StoreID: "downtown", Name: "Latte", BasePrice: money("4.00"), IsAvailable: true,
				Variants: []models.ItemVariant{
					{ID: "regular", Name: "Regular", PriceAdjustment: decimal.Zero, IsAvailable: true},
					{ID: "large", Name: "Large", PriceAdjustment: money("0.75"), IsAvailable: true},
					{ID: "huge", Name: "Huge", PriceAdjustment: money("1.50"), IsAvailable: false},
				},
				ModifierGroups: []models.ModifierGroup{
					{ID: "milk", Name: "Milk", MinSelections: 1, MaxSelections: 1, Modifiers: []models.ModifierOption{
						{ID: "whole", Name: "Whole milk", Price: decimal.Zero, IsAvailable: true},
						{ID: "oat", Name: "Oat milk", Price: money("0.60"), IsAvailable: true},
					}},
					{ID: "extras", Name: "Extras", MinSelections: 0, MaxSelections: 0, Modifiers: []models.ModifierOption{
						{ID: "shot", Name: "Extra shot", Price: money("0.90"), IsAvailable: true},
						{ID: "syrup", Name: "Syrup", Price: money("0.50"), IsAvailable: false},
					}},
				},
			},
			"muffin": {ID: "muffin", StoreID: "downtown", Name: "Muffin", BasePrice: money("3.25"), IsAvailable: true},
			"scone":  {ID: "scone", StoreID: "downtown", Name: "Scone", BasePrice: money("2.75"), IsAvailable: false},
			"bagel":  {ID: "bagel", StoreID: "airport", Name: "Bagel", BasePrice: money("2.50"), IsAvailable: true},
		},
		menus: map[string][]models.Category{
			"downtown": {{ID: "coffee", Name: "Coffee", Items: []models.MenuItemBrief{{ID: "latte", Name: "Latte"}}}},
		},
	}
}

type fakeOrders struct {
	mu     sync.Mutex
	orders map[string]models.Order
	next   int
	err    error
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{orders: map[string]models.Order{}}
}

func (f *fakeOrders) Create(ctx context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.next++
	order.ID = fmt.Sprintf("order-%d", f.next)
	order.OrderNumber = fmt.Sprintf("ORD-%d", 1000+f.next)
	f.orders[order.ID] = *order
	return nil
}

func (f *fakeOrders) Get(ctx context.Context, id string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &o, nil
}

type fakeDevices struct {
	users    map[string]models.User
	tenants  map[string]models.Tenant
	sessions map[string]bool
	next     int
}

func newFakeDevices(passwordHash string) *fakeDevices {
	return &fakeDevices{
		users: map[string]models.User{
			"kiosk@cafe.test":    {ID: "user-1", TenantID: "tenant-1", Email: "kiosk@cafe.test", Password: passwordHash, IsActive: true},
			"disabled@cafe.test": {ID: "user-2", TenantID: "tenant-1", Email: "disabled@cafe.test", Password: passwordHash, IsActive: false},
		},
		tenants:  map[string]models.Tenant{"tenant-1": {ID: "tenant-1", Name: "Cafe Co", Slug: "cafe-co"}},
		sessions: map[string]bool{},
	}
}

func (f *fakeDevices) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (f *fakeDevices) GetTenant(ctx context.Context, id string) (*models.Tenant, error) {
	t, ok := f.tenants[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &t, nil
}

func (f *fakeDevices) CreateSession(ctx context.Context, session *models.DeviceSession) error {
	f.next++
	session.ID = fmt.Sprintf("session-%d", f.next)
	f.sessions[session.ID] = true
	return nil
}

func (f *fakeDevices) RevokeSession(ctx context.Context, sessionID string) error {
	f.sessions[sessionID] = false
	return nil
}

func (f *fakeDevices) IsSessionActive(ctx context.Context, sessionID string) (bool, error) {
	return f.sessions[sessionID], nil
}

var errStoreDown = errors.New("store down")

// flakyCartStore fails the next loadFailures loads and saveFailures saves,
// then behaves like the wrapped store.
type flakyCartStore struct {
	*repositories.MemoryCartRepository

	mu           sync.Mutex
	loadFailures int
	saveFailures int
}

func (f *flakyCartStore) Load(ctx context.Context, sessionID string) (*cart.Snapshot, error) {
	f.mu.Lock()
	fail := f.loadFailures > 0
	if fail {
		f.loadFailures--
	}
	f.mu.Unlock()

	if fail {
		return nil, errStoreDown
	}
	return f.MemoryCartRepository.Load(ctx, sessionID)
}

func (f *flakyCartStore) Save(ctx context.Context, sessionID string, snap cart.Snapshot, expected int64) error {
	f.mu.Lock()
	fail := f.saveFailures > 0
	if fail {
		f.saveFailures--
	}
	f.mu.Unlock()

	if fail {
		return errStoreDown
	}
	return f.MemoryCartRepository.Save(ctx, sessionID, snap, expected)
}

// racingCartStore runs interleave right before the first save, standing in
// for another instance writing the same session in between.
type racingCartStore struct {
	*repositories.MemoryCartRepository

	once       sync.Once
	interleave func()
}

func (r *racingCartStore) Save(ctx context.Context, sessionID string, snap cart.Snapshot, expected int64) error {
	r.once.Do(r.interleave)
	return r.MemoryCartRepository.Save(ctx, sessionID, snap, expected)
}
