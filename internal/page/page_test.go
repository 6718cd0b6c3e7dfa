package page_test

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexstock/nexstock-console/internal/page"
	"github.com/nexstock/nexstock-console/internal/shared"
	"github.com/nexstock/nexstock-console/internal/testing/consoletest"
	_ "github.com/nexstock/nexstock-console/testing"
)

// statusBackend answers /status/{code} with that status and a message body.
func statusBackend(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/status/"))
	if err != nil {
		code = http.StatusOK
	}
	consoletest.RawJSON(w, code, `{"message":"Backend says no"}`)
}

func newHarness(t *testing.T) *consoletest.Harness {
	t.Helper()
	h := consoletest.New(t, http.HandlerFunc(statusBackend))
	call := func(w http.ResponseWriter, r *http.Request) {
		err := h.Client.Get(r.Context(), "/status/"+chi.URLParam(r, "code"), nil, nil)
		if err != nil {
			h.Pages.HandleError(w, r, err, "/warehouses")
			return
		}
		h.Pages.RedirectWithFlash(w, r, "/done", "success", "Saved")
	}
	h.Router.Get("/read/{code}", call)
	h.Router.Post("/write/{code}", call)
	h.Router.Post("/form/{code}", func(w http.ResponseWriter, r *http.Request) {
		var err error
		if chi.URLParam(r, "code") == "invalid" {
			verr := shared.NewValidationError()
			verr.Add("name", "Name is required")
			err = verr
		} else {
			err = h.Client.Get(r.Context(), "/status/"+chi.URLParam(r, "code"), nil, nil)
		}
		h.Pages.FormError(w, r, err, "pages/errors/backend.html", "Form", "/warehouses", func(errs map[string]string) any {
			return page.BackendError{Message: errs["name"] + errs["general"], Retry: "/form"}
		})
	})
	h.Router.Get("/flash", func(w http.ResponseWriter, r *http.Request) {
		h.Pages.NotFound(w, r)
	})
	return h
}

func TestHandleErrorReadFailureOffersRetry(t *testing.T) {
	h := newHarness(t)
	res := h.Get(t, "/read/500?page=2")
	require.Equal(t, http.StatusBadGateway, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, "Backend says no")
	assert.Contains(t, body, `href="/read/500?page=2"`)
	assert.Contains(t, body, `href="/warehouses"`)
}

func TestHandleErrorSessionExpired(t *testing.T) {
	h := newHarness(t)
	res := h.Get(t, "/read/401")
	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/login?next=%2Fread%2F401", res.Header().Get("Location"))

	res = h.PostForm(t, "/write/401", nil)
	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/login?next=%2Fwarehouses", res.Header().Get("Location"))
}

func TestHandleErrorForbiddenKeepsSession(t *testing.T) {
	h := newHarness(t)
	res := h.PostForm(t, "/write/403", nil)
	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/warehouses", res.Header().Get("Location"))

	res = h.Get(t, "/flash")
	assert.Contains(t, res.Body.String(), "You are not allowed to perform this action")
	assert.Contains(t, res.Body.String(), "ops@acme.test")
}

func TestHandleErrorNotFound(t *testing.T) {
	h := newHarness(t)
	res := h.Get(t, "/read/404")
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestFormErrorRendersInline(t *testing.T) {
	h := newHarness(t)

	res := h.PostForm(t, "/form/invalid", url.Values{})
	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "Name is required")

	res = h.PostForm(t, "/form/409", url.Values{})
	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "Backend says no")

	res = h.PostForm(t, "/form/503", url.Values{})
	assert.Equal(t, http.StatusBadGateway, res.Code)

	res = h.PostForm(t, "/form/401", url.Values{})
	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/login?next=%2Fwarehouses", res.Header().Get("Location"))
}

func TestParseID(t *testing.T) {
	id, ok := page.ParseID("42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
	for _, raw := range []string{"", "0", "-3", "abc", "9999999999999999999999"} {
		_, ok := page.ParseID(raw)
		assert.False(t, ok, raw)
	}
}
