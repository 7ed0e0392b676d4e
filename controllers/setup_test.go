package controllers_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kiosk-order/models"
	"kiosk-order/repositories"
	"kiosk-order/routes"
	"kiosk-order/services"
	"kiosk-order/utils"
)

const (
	testSecret = "controller-secret"
	downtownID = "0b6c1d52-7a1e-4c41-9d8e-2f5a3c1e9a01"
	uptownID   = "0b6c1d52-7a1e-4c41-9d8e-2f5a3c1e9a02"
)

type memMenu struct {
	stores map[string]models.Store
	items  map[string]models.MenuItem
}

func (m *memMenu) ListStores(ctx context.Context, tenantID string) ([]models.Store, error) {
	out := []models.Store{}
	for _, s := range m.stores {
		if s.TenantID == tenantID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memMenu) GetStore(ctx context.Context, id string) (*models.Store, error) {
	s, ok := m.stores[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &s, nil
}

func (m *memMenu) GetMenu(ctx context.Context, storeID string) ([]models.Category, error) {
	cat := models.Category{ID: "cat-1", Name: "Coffee", Items: []models.MenuItemBrief{}}
	for _, it := range m.items {
		if it.StoreID == storeID {
			cat.Items = append(cat.Items, models.MenuItemBrief{ID: it.ID, Name: it.Name, BasePrice: it.BasePrice})
		}
	}
	return []models.Category{cat}, nil
}

func (m *memMenu) GetMenuItem(ctx context.Context, itemID string) (*models.MenuItem, error) {
	it, ok := m.items[itemID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &it, nil
}

type memOrders struct {
	orders map[string]models.Order
}

func (m *memOrders) Create(ctx context.Context, order *models.Order) error {
	order.ID = fmt.Sprintf("order-%d", len(m.orders)+1)
	order.OrderNumber = fmt.Sprintf("ORD-%d", len(m.orders)+1)
	m.orders[order.ID] = *order
	return nil
}

func (m *memOrders) Get(ctx context.Context, id string) (*models.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &o, nil
}

type memDevices struct {
	user     models.User
	sessions map[string]bool
}

func (m *memDevices) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if email != m.user.Email {
		return nil, repositories.ErrNotFound
	}
	u := m.user
	return &u, nil
}

func (m *memDevices) GetTenant(ctx context.Context, id string) (*models.Tenant, error) {
	return &models.Tenant{ID: id, Name: "Cafe Co", Slug: "cafe-co"}, nil
}

func (m *memDevices) CreateSession(ctx context.Context, session *models.DeviceSession) error {
	session.ID = fmt.Sprintf("session-%d", len(m.sessions)+1)
	m.sessions[session.ID] = true
	return nil
}

func (m *memDevices) RevokeSession(ctx context.Context, sessionID string) error {
	m.sessions[sessionID] = false
	return nil
}

func (m *memDevices) IsSessionActive(ctx context.Context, sessionID string) (bool, error) {
	return m.sessions[sessionID], nil
}

type testServer struct {
	t       *testing.T
	router  *gin.Engine
	devices *memDevices
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := utils.HashPassword("kiosk-pass")
	require.NoError(t, err)

	menu := &memMenu{
		stores: map[string]models.Store{
			downtownID: {ID: downtownID, TenantID: "tenant-1", Name: "Downtown", IsActive: true},
			uptownID:   {ID: uptownID, TenantID: "tenant-1", Name: "Uptown", IsActive: true},
		},
		items: map[string]models.MenuItem{
			"latte": {
				ID: "latte", StoreID: downtownID, Name: "Latte", BasePrice: dec("12.00"), IsAvailable: true,
				Variants: []models.ItemVariant{
					{ID: "large", Name: "Large", PriceAdjustment: dec("0.50"), IsAvailable: true},
				},
				ModifierGroups: []models.ModifierGroup{
					{ID: "extras", Name: "Extras", Modifiers: []models.ModifierOption{
						{ID: "oat", Name: "Oat milk", Price: dec("2.00"), IsAvailable: true},
						{ID: "shot", Name: "Extra shot", Price: dec("3.00"), IsAvailable: true},
					}},
				},
			},
			"tea": {ID: "tea", StoreID: uptownID, Name: "Tea", BasePrice: dec("5.00"), IsAvailable: true},
		},
	}
	devices := &memDevices{
		user:     models.User{ID: "user-1", TenantID: "tenant-1", Email: "kiosk@cafe.test", Password: hash, IsActive: true},
		sessions: map[string]bool{},
	}

	logger := zap.NewNop()
	menuSvc := services.NewMenuService(menu)
	carts := services.NewCartService(repositories.NewMemoryCartRepository(0), dec("0.17"), logger)
	svc := routes.Services{
		Auth:   services.NewAuthService(devices, menuSvc, carts, testSecret, time.Hour, logger),
		Menu:   menuSvc,
		Carts:  carts,
		Orders: services.NewOrderService(&memOrders{orders: map[string]models.Order{}}, carts, logger),
	}

	router := gin.New()
	routes.SetupRoutes(router, svc)
	return &testServer{t: t, router: router, devices: devices}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (s *testServer) do(method, path, token string, body interface{}) (int, envelope) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

// login returns a token for a device, pinned to storeID when it is not empty.
func (s *testServer) login(storeID string) string {
	s.t.Helper()
	body := map[string]string{
		"email":       "kiosk@cafe.test",
		"password":    "kiosk-pass",
		"device_name": "Front kiosk",
	}
	if storeID != "" {
		body["store_id"] = storeID
	}

	status, env := s.do(http.MethodPost, "/auth/device/login", "", body)
	require.Equal(s.t, http.StatusOK, status, env.Message+" "+env.Error)

	var resp models.DeviceAuthResponse
	require.NoError(s.t, json.Unmarshal(env.Data, &resp))
	return resp.AccessToken
}

func decodeCart(t *testing.T, env envelope) models.CartResponse {
	t.Helper()
	var resp models.CartResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	return resp
}
