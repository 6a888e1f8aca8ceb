package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/httpapi"
	"github.com/vladislavdragonenkov/storefront/internal/service/admin"
	"github.com/vladislavdragonenkov/storefront/internal/service/auth"
	"github.com/vladislavdragonenkov/storefront/internal/service/cart"
	"github.com/vladislavdragonenkov/storefront/internal/service/checkout"
	"github.com/vladislavdragonenkov/storefront/internal/service/profile"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

type env struct {
	server        *httptest.Server
	cart          domain.CartRepository
	addresses     domain.AddressRepository
	orders        *memory.OrderRepository
	profiles      *profile.InMemoryDirectory
	authenticator *auth.StaticAuthenticator
}

func newEnv(t *testing.T) *env {
	t.Helper()

	cartRepo := memory.NewCartRepository()
	addresses := memory.NewAddressRepository()
	outbox := memory.NewOutboxRepository()
	orders := memory.NewOrderRepository(cartRepo, outbox)

	profiles := profile.NewInMemoryDirectory()
	profiles.Register(domain.Profile{ID: "user-1", FirstName: "Ivan", LastName: "Petrov", Email: "ivan@example.com", Role: domain.RoleUser})
	profiles.Register(domain.Profile{ID: "admin-1", FirstName: "Olga", LastName: "Admina", Email: "admin@example.com", Role: domain.RoleAdmin})

	authenticator := auth.NewStaticAuthenticator()
	authenticator.Register("user-token", domain.Principal{ID: "user-1", Role: domain.RoleUser})
	authenticator.Register("admin-token", domain.Principal{ID: "admin-1", Role: domain.RoleAdmin})

	handler := httpapi.NewHandler(
		cart.NewService(cartRepo, profiles, nil, nil),
		addresses,
		checkout.NewService(orders, addresses, nil),
		orders,
		admin.NewService(cartRepo, addresses, orders, profiles, outbox, nil),
		nil,
	)

	server := httptest.NewServer(httpapi.NewRouter(handler, authenticator))
	t.Cleanup(server.Close)

	return &env{server: server, cart: cartRepo, addresses: addresses, orders: orders, profiles: profiles, authenticator: authenticator}
}

func (e *env) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestCartEndpoints(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodPost, "/api/cart", "user-token", map[string]any{
		"productName": "Tee", "price": 300, "quantity": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	added := decode[map[string]any](t, resp)
	assert.Equal(t, "Item added to cart successfully", added["message"])
	itemID, _ := added["itemId"].(string)
	require.NotEmpty(t, itemID)

	// Повторное добавление инкрементирует без itemId в ответе.
	resp = e.do(t, http.MethodPost, "/api/cart", "user-token", map[string]any{
		"productName": "Tee", "price": 300, "quantity": 5,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[map[string]any](t, resp)
	assert.Equal(t, "Item quantity updated in cart", updated["message"])
	assert.NotContains(t, updated, "itemId")

	resp = e.do(t, http.MethodGet, "/api/cart", "user-token", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	lines := decode[[]map[string]any](t, resp)
	require.Len(t, lines, 1)
	assert.EqualValues(t, 2, lines[0]["quantity"])
	assert.Equal(t, "Ivan Petrov", lines[0]["ownerName"])

	resp = e.do(t, http.MethodDelete, "/api/cart/"+itemID, "user-token", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodDelete, "/api/cart/"+itemID, "user-token", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	errBody := decode[map[string]string](t, resp)
	assert.Equal(t, "cart line not found", errBody["error"])
}

func TestCartRequiresAuth(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/cart", "bogus", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Запрос без заголовка отклоняется до обращения к аутентификатору.
	assert.Equal(t, 1, e.authenticator.AuthenticateCalls)
}

func TestAddressEndpoints(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodPost, "/api/user/addresses", "user-token", map[string]any{
		"name": "Ivan Petrov", "house": "12", "street": "Main St",
		"city": "Mumbai", "state": "MH", "zipCode": "400001", "isDefault": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[map[string]any](t, resp)
	addressID, _ := created["addressId"].(string)
	require.NotEmpty(t, addressID)

	resp = e.do(t, http.MethodPost, "/api/user/addresses", "user-token", map[string]any{
		"name": "Ivan Petrov", "house": "7", "street": "Second St",
		"city": "Mumbai", "state": "MH", "zipCode": "400002", "isDefault": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/user/addresses", "user-token", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	addrs := decode[[]map[string]any](t, resp)
	require.Len(t, addrs, 2)
	assert.Equal(t, true, addrs[0]["isDefault"], "default address sorts first")
	defaults := 0
	for _, addr := range addrs {
		if addr["isDefault"] == true {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)

	resp = e.do(t, http.MethodDelete, "/api/user/addresses/"+addressID, "user-token", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodDelete, "/api/user/addresses/"+addressID, "user-token", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPlaceOrderEndpoint(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodPost, "/api/cart", "user-token", map[string]any{
		"productName": "Tee", "price": 300, "quantity": 2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = e.do(t, http.MethodPost, "/api/orders", "user-token", map[string]any{
		"items":         []map[string]any{{"name": "Tee", "price": 300, "quantity": 2}},
		"totalAmount":   610,
		"paymentMethod": "cod",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	placed := decode[map[string]any](t, resp)
	assert.Equal(t, "Order placed successfully", placed["message"])
	assert.NotEmpty(t, placed["orderId"])

	// Корзина очищена после оформления.
	resp = e.do(t, http.MethodGet, "/api/cart", "user-token", nil)
	lines := decode[[]map[string]any](t, resp)
	assert.Empty(t, lines)

	resp = e.do(t, http.MethodGet, "/api/orders", "user-token", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	orders := decode[[]map[string]any](t, resp)
	require.Len(t, orders, 1)
	items := orders[0]["items"].([]any)
	require.Len(t, items, 2)
	surcharge := items[1].(map[string]any)
	assert.Equal(t, domain.CODSurchargeName, surcharge["productName"])
	assert.EqualValues(t, 10, surcharge["price"])
	assert.EqualValues(t, 600, items[0].(map[string]any)["total"])
}

func TestPlaceOrderValidationMessages(t *testing.T) {
	e := newEnv(t)

	cases := []struct {
		name    string
		payload map[string]any
		wantErr string
	}{
		{
			name:    "no items",
			payload: map[string]any{"totalAmount": 100, "paymentMethod": "cod"},
			wantErr: "items required",
		},
		{
			name: "bad total",
			payload: map[string]any{
				"items":         []map[string]any{{"name": "Tee", "price": 300, "quantity": 1}},
				"paymentMethod": "cod",
			},
			wantErr: "valid total required",
		},
		{
			name: "no payment method",
			payload: map[string]any{
				"items":       []map[string]any{{"name": "Tee", "price": 300, "quantity": 1}},
				"totalAmount": 300,
			},
			wantErr: "payment method required",
		},
		{
			name: "bad utr",
			payload: map[string]any{
				"items":         []map[string]any{{"name": "Tee", "price": 300, "quantity": 1}},
				"totalAmount":   300,
				"paymentMethod": "upi",
				"utrNumber":     "123456789AB",
			},
			wantErr: "UTR must be 12 digits",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := e.do(t, http.MethodPost, "/api/orders", "user-token", tc.payload)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := decode[map[string]string](t, resp)
			assert.Equal(t, tc.wantErr, body["error"])
		})
	}
}

func TestAdminEndpointsRequireAdminRole(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodGet, "/api/admin/users", "user-token", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/admin/users", "admin-token", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	users := decode[[]map[string]any](t, resp)
	assert.Len(t, users, 2)
}

func TestAdminCascadeDelete(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodPost, "/api/cart", "user-token", map[string]any{
		"productName": "Tee", "price": 300, "quantity": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = e.do(t, http.MethodPost, "/api/user/addresses", "user-token", map[string]any{
		"name": "Ivan Petrov", "house": "12", "street": "Main St",
		"city": "Mumbai", "state": "MH", "zipCode": "400001",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = e.do(t, http.MethodDelete, "/api/admin/users/user-1", "admin-token", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, "User deleted successfully", body["message"])
	deleted := body["deletedItems"].(map[string]any)
	assert.EqualValues(t, 1, deleted["cartItems"])
	assert.EqualValues(t, 1, deleted["addresses"])
	assert.EqualValues(t, 0, deleted["orders"])

	resp = e.do(t, http.MethodDelete, "/api/admin/users/user-1", "admin-token", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminOrderManagement(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodPost, "/api/orders", "user-token", map[string]any{
		"items":         []map[string]any{{"name": "Tee", "price": 300, "quantity": 1}},
		"totalAmount":   300,
		"paymentMethod": "upi",
		"utrNumber":     "123456789012",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	placed := decode[map[string]any](t, resp)
	orderID := placed["orderId"].(string)

	resp = e.do(t, http.MethodGet, "/api/admin/orders", "admin-token", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	orders := decode[[]map[string]any](t, resp)
	require.Len(t, orders, 1)
	assert.Equal(t, "Ivan Petrov", orders[0]["customerName"])
	assert.Equal(t, "123456789012", orders[0]["utrNumber"])

	resp = e.do(t, http.MethodPut, "/api/admin/orders/"+orderID, "admin-token", map[string]any{
		"status": "shipped", "paymentStatus": "paid",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/admin/orders/"+orderID, "admin-token", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	single := decode[map[string]any](t, resp)
	assert.Equal(t, orderID, single["id"])
	assert.Equal(t, "shipped", single["status"])

	resp = e.do(t, http.MethodDelete, "/api/admin/orders/"+orderID, "admin-token", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/admin/orders/"+orderID, "admin-token", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = e.do(t, http.MethodDelete, "/api/admin/orders/"+orderID, "admin-token", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
