package dashboard_test

import (
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexstock/nexstock-console/internal/dashboard"
	"github.com/nexstock/nexstock-console/internal/inventory"
	"github.com/nexstock/nexstock-console/internal/masterdata/warehouses"
	"github.com/nexstock/nexstock-console/internal/procurement"
	"github.com/nexstock/nexstock-console/internal/testing/consoletest"
	_ "github.com/nexstock/nexstock-console/testing"
)

const ordersJSON = `[
 {"id":1,"poNumber":"PO-1","vendorName":"Acme","status":"PENDING_APPROVAL","createdAt":"2025-03-01T10:00:00","totalAmount":10},
 {"id":2,"poNumber":"PO-2","vendorName":"Acme","status":"APPROVED","createdAt":"2025-03-02T10:00:00","totalAmount":20},
 {"id":3,"poNumber":"PO-3","vendorName":"Bolt Co","status":"PENDING_APPROVAL","createdAt":"2025-03-05T10:00:00","totalAmount":1249.9},
 {"id":4,"poNumber":"PO-4","vendorName":"Acme","status":"COMPLETED","createdAt":"2025-03-03T10:00:00","totalAmount":5},
 {"id":5,"poNumber":"PO-5","vendorName":"Acme","status":"CANCELLED","createdAt":"2025-03-04T10:00:00","totalAmount":5}]`

func newHarness(t *testing.T, backend http.HandlerFunc) *consoletest.Harness {
	t.Helper()
	h := consoletest.New(t, backend)
	handler := dashboard.NewHandler(nil,
		warehouses.NewService(h.Client),
		procurement.NewService(h.Client),
		inventory.NewService(h.Client),
		h.Pages,
	)
	handler.MountRoutes(h.Router)
	return h
}

func cardValues(body string) []string {
	var out []string
	for _, part := range strings.Split(body, `<strong class="card-value">`)[1:] {
		out = append(out, part[:strings.Index(part, "</strong>")])
	}
	return out
}

func TestDashboardCounts(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/warehouses":
			consoletest.RawJSON(w, http.StatusOK, `[{"id":1},{"id":2}]`)
		case "/purchase-orders":
			consoletest.RawJSON(w, http.StatusOK, ordersJSON)
		case "/inventory/alerts/low-stock":
			consoletest.RawJSON(w, http.StatusOK, `[{"id":1},{"id":2},{"id":3}]`)
		case "/inventory/alerts/expiring":
			assert.Equal(t, "30", r.URL.Query().Get("daysAhead"))
			consoletest.RawJSON(w, http.StatusOK, `[]`)
		default:
			http.NotFound(w, r)
		}
	})
	res := h.Get(t, "/")
	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	assert.Equal(t, []string{"2", "3", "3", "0"}, cardValues(body))

	assert.Less(t, strings.Index(body, "PO-3"), strings.Index(body, "PO-1"), "newest pending order first")
	assert.NotContains(t, body, "PO-2")
	assert.Contains(t, body, "$1,249.90")
}

func TestDashboardFailingSourceOnlyBlanksItsCard(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/purchase-orders":
			w.WriteHeader(http.StatusInternalServerError)
		case "/warehouses":
			consoletest.RawJSON(w, http.StatusOK, `[{"id":1}]`)
		default:
			consoletest.RawJSON(w, http.StatusOK, `[]`)
		}
	})
	res := h.Get(t, "/")
	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	assert.Equal(t, []string{"1", "—", "0", "0"}, cardValues(body))
	assert.Equal(t, 1, strings.Count(body, "Unavailable"))
}

func TestDashboardFetchesAllSources(t *testing.T) {
	var calls atomic.Int32
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		consoletest.RawJSON(w, http.StatusOK, `[]`)
	})
	res := h.Get(t, "/")
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 4, calls.Load())
}

func TestDashboardExpiredSession(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/inventory/alerts/low-stock" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		consoletest.RawJSON(w, http.StatusOK, `[]`)
	})
	res := h.Get(t, "/")
	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/login", res.Header().Get("Location"))
}
