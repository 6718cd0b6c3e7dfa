package warehouses_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexstock/nexstock-console/internal/masterdata/warehouses"
	"github.com/nexstock/nexstock-console/internal/testing/consoletest"
	_ "github.com/nexstock/nexstock-console/testing"
)

const north = `{"id":7,"name":"North Hub","location":"Oslo","capacity":5000,"organizationId":7,"managerName":"Kari","active":true,
 "zones":[{"id":1,"name":"A1","capacity":100,"currentUtilization":40,"zoneType":"GENERAL"},
          {"id":2,"name":"Cold","capacity":300,"currentUtilization":60,"zoneType":"COLD_STORAGE"}]}`

func newHarness(t *testing.T, backend http.HandlerFunc) *consoletest.Harness {
	t.Helper()
	h := consoletest.New(t, backend)
	handler := warehouses.NewHandler(nil, warehouses.NewService(h.Client), h.Pages)
	h.Router.Route("/warehouses", handler.MountRoutes)
	return h
}

func TestListShowsUtilizationFromZones(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("organizationId"))
		consoletest.RawJSON(w, http.StatusOK, `[`+north+`,{"id":8,"name":"South","location":"Bergen","active":true}]`)
	})
	res := h.Get(t, "/warehouses")
	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, "North Hub")
	assert.Contains(t, body, "25.0%")
	assert.Contains(t, body, "n/a")
}

func TestDetailRendersZonesAndForm(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/warehouses/7", r.URL.Path)
		consoletest.RawJSON(w, http.StatusOK, north)
	})
	res := h.Get(t, "/warehouses/7")
	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, "Cold Storage")
	assert.Contains(t, body, "20.0%")
	assert.Contains(t, body, `action="/warehouses/7/zones"`)
}

func TestCreateWarehouse(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "East", body["name"])
		assert.EqualValues(t, 7, body["organizationId"])
		assert.EqualValues(t, 800, body["capacity"])
		consoletest.RawJSON(w, http.StatusCreated, `{"id":9,"name":"East"}`)
	})
	res := h.PostForm(t, "/warehouses", url.Values{"name": {"East"}, "location": {"Trondheim"}, "capacity": {"800"}})
	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/warehouses/9", res.Header().Get("Location"))
}

func TestCreateWarehouseValidation(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected backend call %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusTeapot)
	})
	res := h.PostForm(t, "/warehouses", url.Values{"name": {"East"}})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), `value="East"`)
}

func TestUpdateUsesPut(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/warehouses/7", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, false, body["active"])
		consoletest.RawJSON(w, http.StatusOK, north)
	})
	res := h.PostForm(t, "/warehouses/7", url.Values{"name": {"North Hub"}, "location": {"Oslo"}})
	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/warehouses/7", res.Header().Get("Location"))
}

func TestAddZone(t *testing.T) {
	var posted map[string]any
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			require.Equal(t, "/warehouses/7/zones", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&posted))
			consoletest.RawJSON(w, http.StatusCreated, `{"id":3,"name":"Dock","capacity":50,"zoneType":"RECEIVING"}`)
		default:
			consoletest.RawJSON(w, http.StatusOK, north)
		}
	})
	res := h.PostForm(t, "/warehouses/7/zones", url.Values{"name": {"Dock"}, "capacity": {"50"}, "zoneType": {"receiving"}})
	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "RECEIVING", posted["zoneType"])
	assert.EqualValues(t, 50, posted["capacity"])

	res = h.Get(t, "/warehouses/7")
	assert.Contains(t, res.Body.String(), "Zone Dock added")
}

func TestAddZoneValidationRerendersDetail(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		consoletest.RawJSON(w, http.StatusOK, north)
	})
	res := h.PostForm(t, "/warehouses/7/zones", url.Values{"name": {"Dock"}, "capacity": {"zero"}, "zoneType": {"GENERAL"}})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, "Enter a whole number greater than 0")
	assert.Contains(t, body, "North Hub")
	assert.Contains(t, body, "<title>North Hub")
}
