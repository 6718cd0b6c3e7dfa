package app

import (
	"encoding/json"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexstock/nexstock-console/internal/auth"
	"github.com/nexstock/nexstock-console/internal/dashboard"
	"github.com/nexstock/nexstock-console/internal/gateway"
	"github.com/nexstock/nexstock-console/internal/inventory"
	"github.com/nexstock/nexstock-console/internal/masterdata/products"
	"github.com/nexstock/nexstock-console/internal/masterdata/vendors"
	"github.com/nexstock/nexstock-console/internal/masterdata/warehouses"
	"github.com/nexstock/nexstock-console/internal/observability"
	"github.com/nexstock/nexstock-console/internal/page"
	"github.com/nexstock/nexstock-console/internal/procurement"
	"github.com/nexstock/nexstock-console/internal/shared"
	"github.com/nexstock/nexstock-console/internal/view"
	_ "github.com/nexstock/nexstock-console/testing"
)

var (
	formToken = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)
	metaToken = regexp.MustCompile(`<meta name="csrf-token" content="([^"]+)"`)
)

type browser struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func (b *browser) do(method, target string, body io.Reader, header http.Header) *httptest.ResponseRecorder {
	b.t.Helper()
	req := httptest.NewRequest(method, target, body)
	req.RemoteAddr = "203.0.113.5:4000"
	for k, v := range header {
		req.Header[k] = v
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		b.cookies[c.Name] = c
	}
	return rec
}

func (b *browser) get(target string) *httptest.ResponseRecorder {
	return b.do(http.MethodGet, target, nil, nil)
}

func (b *browser) post(target string, form url.Values) *httptest.ResponseRecorder {
	header := http.Header{"Content-Type": {"application/x-www-form-urlencoded"}}
	return b.do(http.MethodPost, target, strings.NewReader(form.Encode()), header)
}

func token(t *testing.T, re *regexp.Regexp, body string) string {
	t.Helper()
	m := re.FindStringSubmatch(body)
	require.Len(t, m, 2, "csrf token not found")
	return html.UnescapeString(m[1])
}

func fakeBackend(role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" && r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth/login":
			_, _ = io.WriteString(w, `{"token":"tok-1","email":"ops@acme.test","role":"`+role+`","organizationId":7}`)
		case "/warehouses/7":
			_, _ = io.WriteString(w, `{"id":7,"name":"North Hub","location":"Oslo","zones":[]}`)
		case "/vendors":
			_, _ = io.WriteString(w, `[{"id":3,"name":"Acme Supplies","active":true}]`)
		case "/products":
			_, _ = io.WriteString(w, `[{"id":1,"sku":"BOLT-10","name":"Hex bolt","vendorId":3,"unitPrice":0.35,"active":true}]`)
		default:
			http.NotFound(w, r)
		}
	}
}

func newBrowser(t *testing.T, role string) *browser {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	backend := httptest.NewServer(fakeBackend(role))
	t.Cleanup(backend.Close)

	cfg := &Config{AppEnv: "test", AppRequestTimeout: 5 * time.Second, RateLimitPerMinute: 1000}
	sessions := shared.NewSessionManager(redisClient, "nexstock_session", "secret", time.Hour, false)
	csrf := shared.NewCSRFManager("csrfsecret")
	templates, err := view.NewEngine()
	require.NoError(t, err)
	metrics := observability.NewMetrics()
	client, err := gateway.NewClient(gateway.Config{
		BaseURL: backend.URL,
		Timeout: 5 * time.Second,
		Logger:  logger,
		Metrics: gateway.NewMetrics(metrics.Registerer()),
	})
	require.NoError(t, err)
	pages := page.NewBuilder(templates, csrf, logger)

	warehouseService := warehouses.NewService(client)
	vendorService := vendors.NewService(client)
	productService := products.NewService(client)
	orderService := procurement.NewService(client)
	inventoryService := inventory.NewService(client)

	router := NewRouter(RouterParams{
		Logger:         logger,
		Config:         cfg,
		Templates:      templates,
		Pages:          pages,
		SessionManager: sessions,
		CSRFManager:    csrf,
		Authenticator:  auth.NewService(client),
		Metrics:        metrics,

		AuthHandler:        auth.NewHandler(logger, templates, sessions, csrf),
		DashboardHandler:   dashboard.NewHandler(logger, warehouseService, orderService, inventoryService, pages),
		WarehouseHandler:   warehouses.NewHandler(logger, warehouseService, pages),
		InventoryHandler:   inventory.NewHandler(logger, inventoryService, warehouseService, productService, pages),
		ProductHandler:     products.NewHandler(logger, productService, vendorService, pages),
		VendorHandler:      vendors.NewHandler(logger, vendorService, pages),
		ProcurementHandler: procurement.NewHandler(logger, orderService, vendorService, productService, pages),
	})
	return &browser{t: t, handler: router, cookies: map[string]*http.Cookie{}}
}

func (b *browser) login(next string) *httptest.ResponseRecorder {
	b.t.Helper()
	res := b.get("/login")
	require.Equal(b.t, http.StatusOK, res.Code)
	return b.post("/login", url.Values{
		"csrf_token": {token(b.t, formToken, res.Body.String())},
		"email":      {"ops@acme.test"},
		"password":   {"secret123"},
		"next":       {next},
	})
}

func TestHealthz(t *testing.T) {
	b := newBrowser(t, "COMPANY_ADMIN")
	res := b.get("/healthz")
	assert.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"status":"ok"}`, res.Body.String())
	assert.Equal(t, "DENY", res.Header().Get("X-Frame-Options"))
}

func TestStaticAssetsAreCached(t *testing.T) {
	b := newBrowser(t, "COMPANY_ADMIN")
	for _, asset := range []string{"/static/css/app.css", "/static/js/app.js"} {
		res := b.get(asset)
		assert.Equal(t, http.StatusOK, res.Code, asset)
		assert.Equal(t, "public, max-age=3600", res.Header().Get("Cache-Control"), asset)
	}
	assert.Empty(t, b.cookies, "static assets must not start a session")
}

func TestAnonymousVisitorIsSentToLoginAndBack(t *testing.T) {
	b := newBrowser(t, "COMPANY_ADMIN")
	res := b.get("/warehouses/7")
	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/login?next=%2Fwarehouses%2F7", res.Header().Get("Location"))

	res = b.login("/warehouses/7")
	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/warehouses/7", res.Header().Get("Location"))

	res = b.get("/warehouses/7")
	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, "North Hub")
	assert.Contains(t, body, "Welcome back")
}

func TestSignedInUserSkipsLogin(t *testing.T) {
	b := newBrowser(t, "COMPANY_ADMIN")
	require.Equal(t, http.StatusSeeOther, b.login("/").Code)
	res := b.get("/login")
	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/", res.Header().Get("Location"))
}

func TestPostWithoutCSRFTokenIsRejected(t *testing.T) {
	b := newBrowser(t, "COMPANY_ADMIN")
	b.get("/login")
	res := b.post("/login", url.Values{"email": {"ops@acme.test"}, "password": {"secret123"}})
	assert.Equal(t, http.StatusForbidden, res.Code)
}

func TestEstimateAcceptsHeaderToken(t *testing.T) {
	b := newBrowser(t, "COMPANY_ADMIN")
	require.Equal(t, http.StatusSeeOther, b.login("/").Code)

	res := b.get("/purchase-orders/new")
	require.Equal(t, http.StatusOK, res.Code)
	csrf := token(t, metaToken, res.Body.String())

	body := `{"items":[{"productId":1,"quantity":10}]}`
	res = b.do(http.MethodPost, "/purchase-orders/estimate", strings.NewReader(body), http.Header{
		"Content-Type": {"application/json"},
		"X-Csrf-Token": {csrf},
	})
	require.Equal(t, http.StatusOK, res.Code)
	var out map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &out))
	assert.Equal(t, "3.50", out["total"])

	res = b.do(http.MethodPost, "/purchase-orders/estimate", strings.NewReader(body), http.Header{
		"Content-Type": {"application/json"},
	})
	assert.Equal(t, http.StatusForbidden, res.Code)
}

func TestUnknownPath(t *testing.T) {
	b := newBrowser(t, "COMPANY_ADMIN")
	res := b.get("/nowhere")
	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/login?next=%2Fnowhere", res.Header().Get("Location"))

	require.Equal(t, http.StatusSeeOther, b.login("/").Code)
	res = b.get("/nowhere")
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Contains(t, res.Body.String(), "NexStock")
}

func TestUsersHiddenFromNonAdmins(t *testing.T) {
	b := newBrowser(t, "WAREHOUSE_STAFF")
	require.Equal(t, http.StatusSeeOther, b.login("/").Code)
	res := b.get("/users")
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Contains(t, res.Body.String(), "not available for your role")
	assert.NotContains(t, res.Body.String(), `href="/users"`)
}

func TestLogoutEndsSession(t *testing.T) {
	b := newBrowser(t, "COMPANY_ADMIN")
	require.Equal(t, http.StatusSeeOther, b.login("/").Code)
	res := b.get("/settings")
	require.Equal(t, http.StatusOK, res.Code)

	res = b.post("/logout", url.Values{"csrf_token": {token(t, formToken, res.Body.String())}})
	require.Equal(t, http.StatusSeeOther, res.Code)

	res = b.get("/settings")
	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/login?next=%2Fsettings", res.Header().Get("Location"))
}

func TestMetricsEndpoint(t *testing.T) {
	b := newBrowser(t, "COMPANY_ADMIN")
	b.get("/healthz")
	res := b.get("/metrics")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `nexstock_http_requests_total{code="200",route="/healthz"}`)
}
