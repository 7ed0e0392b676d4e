package controllers_test

import (
	"net/http"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiosk-order/models"
)

func addLatte(s *testServer, token string, qty int, mods ...string) (int, envelope) {
	return s.do(http.MethodPost, "/cart/items", token, map[string]interface{}{
		"item_id":      "latte",
		"variant_id":   "large",
		"modifier_ids": mods,
		"quantity":     qty,
	})
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	status, _ := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestCart_RequiresToken(t *testing.T) {
	s := newTestServer(t)
	status, env := s.do(http.MethodGet, "/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, env.Success)
}

func TestCart_EmptyCart(t *testing.T) {
	s := newTestServer(t)
	token := s.login(downtownID)

	status, env := s.do(http.MethodGet, "/cart", token, nil)
	require.Equal(t, http.StatusOK, status)
	cart := decodeCart(t, env)
	assert.True(t, cart.IsEmpty)
	assert.Nil(t, cart.BoundStoreID)
	assert.NotNil(t, cart.Items)
	assert.True(t, cart.Total.IsZero())
}

func TestCart_AddMergesIdenticalConfigurations(t *testing.T) {
	s := newTestServer(t)
	token := s.login(downtownID)

	status, env := addLatte(s, token, 1, "shot", "oat")
	require.Equal(t, http.StatusCreated, status, env.Error)

	status, env = addLatte(s, token, 2, "oat", "shot")
	require.Equal(t, http.StatusCreated, status, env.Error)

	cart := decodeCart(t, env)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 3, cart.ItemCount)
	require.NotNil(t, cart.BoundStoreID)
	assert.Equal(t, downtownID, *cart.BoundStoreID)

	// (12.50 + 2.00 + 3.00) * 3
	assert.True(t, dec("52.50").Equal(cart.Subtotal))
	assert.True(t, dec("8.925").Equal(cart.TaxAmount))
	assert.True(t, dec("61.425").Equal(cart.Total))
}

func TestCart_LineItemLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.login(downtownID)

	_, env := addLatte(s, token, 1)
	lineID := decodeCart(t, env).Items[0].ID

	status, env := s.do(http.MethodPatch, "/cart/items/"+lineID+"/notes", token, map[string]string{"notes": "extra hot"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "extra hot", decodeCart(t, env).Items[0].Notes)

	status, env = s.do(http.MethodPatch, "/cart/items/"+lineID+"/quantity", token, map[string]int{"quantity": 4})
	require.Equal(t, http.StatusOK, status)
	assert.True(t, dec("50.00").Equal(decodeCart(t, env).Subtotal))

	status, env = s.do(http.MethodPatch, "/cart/items/"+lineID+"/quantity", token, map[string]int{"quantity": 0})
	require.Equal(t, http.StatusOK, status)
	assert.True(t, decodeCart(t, env).IsEmpty)

	status, _ = s.do(http.MethodDelete, "/cart/items/"+lineID, token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCart_QuantityIsRequired(t *testing.T) {
	s := newTestServer(t)
	token := s.login(downtownID)
	_, env := addLatte(s, token, 1)
	lineID := decodeCart(t, env).Items[0].ID

	status, _ := s.do(http.MethodPatch, "/cart/items/"+lineID+"/quantity", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCart_RemoveAndClear(t *testing.T) {
	s := newTestServer(t)
	token := s.login(downtownID)

	_, env := addLatte(s, token, 1)
	lineID := decodeCart(t, env).Items[0].ID
	addLatte(s, token, 1, "oat")

	status, env := s.do(http.MethodDelete, "/cart/items/"+lineID, token, nil)
	require.Equal(t, http.StatusOK, status)
	cart := decodeCart(t, env)
	require.Len(t, cart.Items, 1)
	assert.True(t, dec("14.50").Equal(cart.Subtotal))

	status, env = s.do(http.MethodDelete, "/cart", token, nil)
	require.Equal(t, http.StatusOK, status)
	cart = decodeCart(t, env)
	assert.True(t, cart.IsEmpty)
	require.NotNil(t, cart.BoundStoreID)
	assert.Equal(t, downtownID, *cart.BoundStoreID)
}

func TestCart_SetTaxRate(t *testing.T) {
	s := newTestServer(t)
	token := s.login(downtownID)
	addLatte(s, token, 2)

	status, env := s.do(http.MethodPut, "/cart/tax-rate", token, map[string]string{"tax_rate": "0.08"})
	require.Equal(t, http.StatusOK, status, env.Error)
	cart := decodeCart(t, env)
	assert.True(t, dec("2.00").Equal(cart.TaxAmount))
	assert.True(t, dec("27.00").Equal(cart.Total))

	status, _ = s.do(http.MethodPut, "/cart/tax-rate", token, map[string]string{"tax_rate": "-1"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(http.MethodPut, "/cart/tax-rate", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCart_PinnedDeviceRejectsOtherStore(t *testing.T) {
	s := newTestServer(t)
	token := s.login(downtownID)

	status, env := s.do(http.MethodPost, "/cart/items", token, map[string]interface{}{
		"store_id": uptownID,
		"item_id":  "tea",
		"quantity": 1,
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.False(t, env.Success)
}

func TestCart_UnpinnedDeviceSwitchesStore(t *testing.T) {
	s := newTestServer(t)
	token := s.login("")

	status, _ := addLatte(s, token, 1)
	assert.Equal(t, http.StatusBadRequest, status, "store_id is required without a pinned store")

	status, env := s.do(http.MethodPost, "/cart/items", token, map[string]interface{}{
		"store_id": downtownID, "item_id": "latte", "variant_id": "large", "quantity": 2,
	})
	require.Equal(t, http.StatusCreated, status, env.Error)

	status, env = s.do(http.MethodPost, "/cart/items", token, map[string]interface{}{
		"store_id": uptownID, "item_id": "tea", "quantity": 1,
	})
	require.Equal(t, http.StatusCreated, status, env.Error)

	cart := decodeCart(t, env)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "tea", cart.Items[0].MenuItemID)
	require.NotNil(t, cart.BoundStoreID)
	assert.Equal(t, uptownID, *cart.BoundStoreID)
	assert.True(t, dec("5.00").Equal(cart.Subtotal))
}

func TestCart_InvalidSelection(t *testing.T) {
	s := newTestServer(t)
	token := s.login(downtownID)

	status, _ := s.do(http.MethodPost, "/cart/items", token, map[string]interface{}{
		"item_id": "latte", "quantity": 1,
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(http.MethodPost, "/cart/items", token, map[string]interface{}{
		"item_id": "tea", "quantity": 1,
	})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = s.do(http.MethodPost, "/cart/items", token, map[string]interface{}{
		"item_id": "latte", "variant_id": "large", "quantity": 0,
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCart_SessionsDoNotShareCarts(t *testing.T) {
	s := newTestServer(t)
	first := s.login(downtownID)
	second := s.login(downtownID)

	addLatte(s, first, 1)

	_, env := s.do(http.MethodGet, "/cart", second, nil)
	assert.True(t, decodeCart(t, env).IsEmpty)
}

func TestCart_ResponseShape(t *testing.T) {
	s := newTestServer(t)
	token := s.login(downtownID)
	_, env := addLatte(s, token, 1, "oat")

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &raw))
	for _, key := range []string{"bound_store_id", "items", "item_count", "is_empty", "tax_rate", "subtotal", "tax_amount", "total"} {
		assert.Contains(t, raw, key)
	}

	var cart models.CartResponse
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	assert.Equal(t, "Oat milk", cart.Items[0].Modifiers[0].Name)
}
