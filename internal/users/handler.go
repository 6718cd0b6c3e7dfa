// Package users serves the administration placeholders: user management,
// shown to admins only, and organization settings.
package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nexstock/nexstock-console/internal/page"
	"github.com/nexstock/nexstock-console/internal/rbac"
)

// Handler renders the administration pages.
type Handler struct {
	pages *page.Builder
	guard rbac.Guard
}

// NewHandler constructs a Handler. guard hides user management from roles
// outside rbac.AdminRoles.
func NewHandler(pages *page.Builder, guard rbac.Guard) *Handler {
	return &Handler{pages: pages, guard: guard}
}

// MountRoutes registers /users and /settings.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.guard.RequireRoles(rbac.AdminRoles...)).Get("/users", h.list)
	r.Get("/settings", h.settings)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, http.StatusOK, "pages/admin/users.html", "Users", nil)
}

func (h *Handler) settings(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, http.StatusOK, "pages/admin/settings.html", "Settings", nil)
}
