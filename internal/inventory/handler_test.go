package inventory_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexstock/nexstock-console/internal/inventory"
	"github.com/nexstock/nexstock-console/internal/masterdata/products"
	"github.com/nexstock/nexstock-console/internal/masterdata/warehouses"
	"github.com/nexstock/nexstock-console/internal/testing/consoletest"
	_ "github.com/nexstock/nexstock-console/testing"
)

const (
	warehousesJSON = `[{"id":7,"name":"North Hub","location":"Oslo","active":true},{"id":8,"name":"South Hub","location":"Bergen","active":true}]`
	productsJSON   = `[{"id":1,"sku":"BOLT-10","name":"Hex bolt","vendorId":3,"unitPrice":0.35,"active":true},
	                   {"id":2,"sku":"OLD-1","name":"Retired","vendorId":3,"unitPrice":1,"active":false}]`
	northJSON   = `{"id":7,"name":"North Hub","zones":[{"id":11,"name":"A1","capacity":100,"zoneType":"GENERAL"},{"id":12,"name":"Freezer","capacity":50,"zoneType":"COLD_STORAGE"}]}`
	recordsJSON = `[{"id":1,"productId":1,"productName":"Hex bolt","productSku":"BOLT-10","warehouseId":7,"zoneName":"A1","quantity":4,"minStockLevel":10,"batchNumber":"LOT-1","expiryDate":"2026-01-31"},
	                {"id":2,"productId":2,"productName":"Gloves","productSku":"GLV-L","warehouseId":7,"quantity":1200,"minStockLevel":50}]`
)

func newHarness(t *testing.T, backend http.HandlerFunc) *consoletest.Harness {
	t.Helper()
	h := consoletest.New(t, backend)
	handler := inventory.NewHandler(nil,
		inventory.NewService(h.Client),
		warehouses.NewService(h.Client),
		products.NewService(h.Client),
		h.Pages,
	)
	h.Router.Route("/inventory", handler.MountRoutes)
	return h
}

type callLog struct {
	mu    sync.Mutex
	paths []string
}

func (c *callLog) add(r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = append(c.paths, r.URL.RequestURI())
}

func (c *callLog) list() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.paths...)
}

func TestListLoadsWarehousesBeforeRecords(t *testing.T) {
	calls := &callLog{}
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		calls.add(r)
		switch r.URL.Path {
		case "/warehouses":
			consoletest.RawJSON(w, http.StatusOK, warehousesJSON)
		case "/inventory":
			consoletest.RawJSON(w, http.StatusOK, recordsJSON)
		default:
			http.NotFound(w, r)
		}
	})
	res := h.Get(t, "/inventory")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, []string{"/warehouses?organizationId=7", "/inventory?warehouseId=7"}, calls.list())

	body := res.Body.String()
	assert.Contains(t, body, "BOLT-10")
	assert.Contains(t, body, "1,200")
	assert.Contains(t, body, `class="row-warning"`)
	assert.Contains(t, body, "31 Jan 2026")
}

func TestListHonoursSelectedWarehouse(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/warehouses":
			consoletest.RawJSON(w, http.StatusOK, warehousesJSON)
		case "/inventory":
			assert.Equal(t, "8", r.URL.Query().Get("warehouseId"))
			consoletest.RawJSON(w, http.StatusOK, `[]`)
		}
	})
	res := h.Get(t, "/inventory?warehouseId=8")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "No stock recorded in South Hub")
}

func TestListUnknownWarehouseFallsBackToFirst(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/warehouses":
			consoletest.RawJSON(w, http.StatusOK, warehousesJSON)
		case "/inventory":
			assert.Equal(t, "7", r.URL.Query().Get("warehouseId"))
			consoletest.RawJSON(w, http.StatusOK, `[]`)
		}
	})
	res := h.Get(t, "/inventory?warehouseId=99")
	require.Equal(t, http.StatusOK, res.Code)
}

func TestListWithoutWarehouses(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/warehouses" {
			t.Errorf("unexpected backend call %s", r.URL.Path)
		}
		consoletest.RawJSON(w, http.StatusOK, `[]`)
	})
	res := h.Get(t, "/inventory")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "Create a warehouse first")
}

func TestListLowStockFilter(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/warehouses":
			consoletest.RawJSON(w, http.StatusOK, warehousesJSON)
		case "/inventory":
			consoletest.RawJSON(w, http.StatusOK, recordsJSON)
		}
	})
	res := h.Get(t, "/inventory?low=true")
	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, "BOLT-10")
	assert.NotContains(t, body, "GLV-L")
}

func TestListBackendFailureOffersRetry(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/warehouses":
			consoletest.RawJSON(w, http.StatusOK, warehousesJSON)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	res := h.Get(t, "/inventory?warehouseId=7")
	assert.Equal(t, http.StatusBadGateway, res.Code)
	assert.Contains(t, res.Body.String(), `href="/inventory?warehouseId=7"`)
}

// formBackend holds the warehouse and product lists until both have been
// requested, so a caller fetching them one after the other fails.
func formBackend(t *testing.T, calls *callLog) http.HandlerFunc {
	var arrived sync.WaitGroup
	arrived.Add(2)
	both := make(chan struct{})
	go func() {
		arrived.Wait()
		close(both)
	}()
	wait := func(name string) {
		arrived.Done()
		select {
		case <-both:
		case <-time.After(2 * time.Second):
			t.Errorf("%s was not fetched concurrently", name)
		}
	}
	var lists sync.Map
	return func(w http.ResponseWriter, r *http.Request) {
		calls.add(r)
		switch r.URL.Path {
		case "/warehouses":
			if _, seen := lists.LoadOrStore("warehouses", true); !seen {
				wait("warehouses")
			}
			consoletest.RawJSON(w, http.StatusOK, warehousesJSON)
		case "/products":
			if _, seen := lists.LoadOrStore("products", true); !seen {
				wait("products")
			}
			consoletest.RawJSON(w, http.StatusOK, productsJSON)
		case "/warehouses/7":
			consoletest.RawJSON(w, http.StatusOK, northJSON)
		case "/warehouses/8":
			consoletest.RawJSON(w, http.StatusOK, `{"id":8,"name":"South Hub","zones":[{"id":21,"name":"Dock","zoneType":"RECEIVING"}]}`)
		default:
			http.NotFound(w, r)
		}
	}
}

func TestStockInFormLoadsOptionsThenZones(t *testing.T) {
	calls := &callLog{}
	h := newHarness(t, formBackend(t, calls))
	res := h.Get(t, "/inventory/stock-in")
	require.Equal(t, http.StatusOK, res.Code)

	got := calls.list()
	require.Len(t, got, 3)
	assert.ElementsMatch(t, []string{"/warehouses?organizationId=7", "/products"}, got[:2])
	assert.Equal(t, "/warehouses/7", got[2])

	body := res.Body.String()
	assert.Contains(t, body, "Freezer (Cold Storage)")
	assert.Contains(t, body, "BOLT-10")
	assert.NotContains(t, body, "OLD-1")
	assert.Contains(t, body, `name="expiryDate"`)
}

func TestStockOutFormForSelectedWarehouse(t *testing.T) {
	calls := &callLog{}
	h := newHarness(t, formBackend(t, calls))
	res := h.Get(t, "/inventory/stock-out?warehouseId=8")
	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, "Dock")
	assert.NotContains(t, body, "Freezer")
	assert.NotContains(t, body, `name="expiryDate"`)
	assert.Contains(t, body, `action="/inventory/stock-out"`)
}

func TestStockFormUnknownWarehouseSelectsFirst(t *testing.T) {
	calls := &callLog{}
	h := newHarness(t, formBackend(t, calls))
	res := h.Get(t, "/inventory/stock-in?warehouseId=99")
	require.Equal(t, http.StatusOK, res.Code)

	assert.Equal(t, "/warehouses/7", calls.list()[2])
	body := res.Body.String()
	assert.Contains(t, body, "Freezer")
	assert.Contains(t, body, `name="warehouseId" value="7"`)
	assert.Contains(t, body, `href="/inventory?warehouseId=7"`)
	assert.NotContains(t, body, `value="99"`)
}

func TestStockInPostsMovement(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/inventory/stock-in", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 1, body["productId"])
		assert.EqualValues(t, 7, body["warehouseId"])
		assert.EqualValues(t, 11, body["zoneId"])
		assert.EqualValues(t, 25, body["quantity"])
		assert.Equal(t, "2026-05-01", body["expiryDate"])
		consoletest.RawJSON(w, http.StatusOK, `{"id":5,"productSku":"BOLT-10","warehouseId":7,"quantity":29}`)
	})
	res := h.PostForm(t, "/inventory/stock-in", url.Values{
		"productId":   {"1"},
		"warehouseId": {"7"},
		"zoneId":      {"11"},
		"quantity":    {"25"},
		"expiryDate":  {"2026-05-01"},
	})
	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/inventory?warehouseId=7", res.Header().Get("Location"))
}

func TestStockInValidationSkipsBackend(t *testing.T) {
	calls := &callLog{}
	h := newHarness(t, formBackend(t, calls))
	res := h.PostForm(t, "/inventory/stock-in", url.Values{"productId": {"1"}, "warehouseId": {"7"}, "quantity": {"0"}})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "Quantity must be positive")
	for _, p := range calls.list() {
		assert.NotEqual(t, "/inventory/stock-in", p)
	}
}

func TestStockOutShowsBackendRefusal(t *testing.T) {
	calls := &callLog{}
	options := formBackend(t, calls)
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/inventory/stock-out" {
			consoletest.RawJSON(w, http.StatusBadRequest, `{"status":400,"message":"Insufficient stock. Available: 4, Requested: 9"}`)
			return
		}
		options(w, r)
	})
	res := h.PostForm(t, "/inventory/stock-out", url.Values{"productId": {"1"}, "warehouseId": {"7"}, "quantity": {"9"}})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, "Insufficient stock. Available: 4, Requested: 9")
	assert.Contains(t, body, `value="9"`)
}

func TestStockInExpiredSessionRedirectsToLogin(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	res := h.PostForm(t, "/inventory/stock-in", url.Values{"productId": {"1"}, "warehouseId": {"7"}, "quantity": {"3"}})
	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/login?next=%2Finventory", res.Header().Get("Location"))
}

func TestAlerts(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/warehouses":
			consoletest.RawJSON(w, http.StatusOK, warehousesJSON)
		case "/inventory/alerts/low-stock":
			assert.Equal(t, "7", r.URL.Query().Get("warehouseId"))
			consoletest.RawJSON(w, http.StatusOK, `[{"id":1,"productId":1,"productSku":"BOLT-10","productName":"Hex bolt","warehouseId":7,"quantity":4,"minStockLevel":10}]`)
		case "/inventory/alerts/expiring":
			assert.Equal(t, "30", r.URL.Query().Get("daysAhead"))
			consoletest.RawJSON(w, http.StatusOK, `[{"id":3,"productSku":"MILK-1","warehouseId":7,"quantity":12,"expiryDate":"2026-02-02"},
			                                        {"id":4,"productSku":"EGG-6","warehouseId":8,"quantity":30,"expiryDate":"2026-02-03"}]`)
		default:
			http.NotFound(w, r)
		}
	})
	res := h.Get(t, "/inventory/alerts?warehouseId=7&daysAhead=abc")
	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, "BOLT-10")
	assert.Contains(t, body, `href="/inventory/stock-in?warehouseId=7&amp;productId=1"`)
	assert.Contains(t, body, "MILK-1")
	assert.NotContains(t, body, "EGG-6")
	assert.Contains(t, body, "Expiring within 30 days")
}

func TestAlertsWindowIsBounded(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/inventory/alerts/low-stock":
			assert.Empty(t, r.URL.Query().Get("warehouseId"))
		case "/inventory/alerts/expiring":
			assert.Equal(t, "365", r.URL.Query().Get("daysAhead"))
		}
		consoletest.RawJSON(w, http.StatusOK, `[]`)
	})
	res := h.Get(t, "/inventory/alerts?daysAhead=9000")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "No items are below their minimum level")
}
