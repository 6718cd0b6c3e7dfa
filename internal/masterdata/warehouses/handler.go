package warehouses

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nexstock/nexstock-console/internal/masterdata/shared"
	"github.com/nexstock/nexstock-console/internal/page"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
	pages   *page.Builder
}

func NewHandler(logger *slog.Logger, service *Service, pages *page.Builder) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, pages: pages}
}

// MountRoutes registers warehouse routes relative to /warehouses.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/new", h.Form)
	r.Get("/{id}", h.Show)
	r.Get("/{id}/edit", h.EditForm)
	r.Post("/{id}", h.Update)
	r.Post("/{id}/zones", h.AddZone)
}

var sortable = map[string]func(a, b Warehouse) bool{
	"name":     func(a, b Warehouse) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) },
	"capacity": func(a, b Warehouse) bool { return a.Capacity < b.Capacity },
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := shared.ParseListFilters(r.URL.Query())
	items, err := h.service.List(r.Context(), page.OrganizationID(r))
	if err != nil {
		h.pages.HandleError(w, r, err, "/")
		return
	}
	result := shared.Paginate(items, filters, func(wh Warehouse) bool {
		return filters.MatchesActive(wh.IsActive()) && filters.Matches(wh.Name, wh.Location, wh.ManagerName)
	}, sortable)
	h.pages.Render(w, r, http.StatusOK, "pages/warehouses/warehouse_list.html", "Warehouses", result)
}

type detailPage struct {
	Warehouse   Warehouse
	Utilization Utilization
	ZoneForm    ZoneForm
	ZoneTypes   []ZoneType
	Errors      map[string]string
}

func newDetailPage(wh Warehouse) detailPage {
	return detailPage{
		Warehouse:   wh,
		Utilization: wh.Utilization(),
		ZoneForm:    ZoneForm{ZoneType: ZoneGeneral},
		ZoneTypes:   ZoneTypes(),
	}
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := page.ParseID(chi.URLParam(r, "id"))
	if !ok {
		h.pages.NotFound(w, r)
		return
	}
	wh, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.pages.HandleError(w, r, err, "/warehouses")
		return
	}
	h.pages.Render(w, r, http.StatusOK, "pages/warehouses/warehouse_detail.html", wh.Name, newDetailPage(wh))
}

type formPage struct {
	Action    string
	Warehouse *Warehouse
	Form      WarehouseForm
	Errors    map[string]string
}

func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, http.StatusOK, "pages/warehouses/warehouse_form.html", "New warehouse", formPage{
		Action: "/warehouses",
		Form:   WarehouseForm{Active: true},
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := parseForm(r)
	form.Active = true
	created, err := h.service.Create(r.Context(), page.OrganizationID(r), form)
	if err != nil {
		h.pages.FormError(w, r, err, "pages/warehouses/warehouse_form.html", "New warehouse", "/warehouses", func(errs map[string]string) any {
			return formPage{Action: "/warehouses", Form: form, Errors: errs}
		})
		return
	}
	h.pages.RedirectWithFlash(w, r, path(created.ID), "success", "Warehouse created successfully")
}

func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := page.ParseID(chi.URLParam(r, "id"))
	if !ok {
		h.pages.NotFound(w, r)
		return
	}
	wh, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.pages.HandleError(w, r, err, "/warehouses")
		return
	}
	h.pages.Render(w, r, http.StatusOK, "pages/warehouses/warehouse_form.html", "Edit warehouse", formPage{
		Action:    path(id),
		Warehouse: &wh,
		Form:      FormFromWarehouse(wh),
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := page.ParseID(chi.URLParam(r, "id"))
	if !ok {
		h.pages.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := parseForm(r)
	if _, err := h.service.Update(r.Context(), id, page.OrganizationID(r), form); err != nil {
		h.pages.FormError(w, r, err, "pages/warehouses/warehouse_form.html", "Edit warehouse", path(id), func(errs map[string]string) any {
			return formPage{Action: path(id), Warehouse: &Warehouse{ID: id, Name: form.Name}, Form: form, Errors: errs}
		})
		return
	}
	h.pages.RedirectWithFlash(w, r, path(id), "success", "Warehouse updated successfully")
}

func (h *Handler) AddZone(w http.ResponseWriter, r *http.Request) {
	id, ok := page.ParseID(chi.URLParam(r, "id"))
	if !ok {
		h.pages.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := ZoneForm{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Capacity: strings.TrimSpace(r.PostFormValue("capacity")),
		ZoneType: ZoneType(strings.ToUpper(strings.TrimSpace(r.PostFormValue("zoneType")))),
	}
	_, err := h.service.AddZone(r.Context(), id, form)
	if err != nil {
		wh := Warehouse{ID: id}
		title := "Warehouse"
		if !page.SessionRejected(err) {
			if loaded, gerr := h.service.Get(r.Context(), id); gerr != nil {
				h.logger.Warn("reload warehouse after zone failure", slog.Int64("warehouse_id", id), slog.Any("error", gerr))
			} else {
				wh, title = loaded, loaded.Name
			}
		}
		h.pages.FormError(w, r, err, "pages/warehouses/warehouse_detail.html", title, path(id), func(errs map[string]string) any {
			data := newDetailPage(wh)
			data.ZoneForm = form
			data.Errors = errs
			return data
		})
		return
	}
	h.pages.RedirectWithFlash(w, r, path(id), "success", "Zone "+form.Name+" added")
}

func parseForm(r *http.Request) WarehouseForm {
	return WarehouseForm{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Location: strings.TrimSpace(r.PostFormValue("location")),
		Capacity: strings.TrimSpace(r.PostFormValue("capacity")),
		Active:   r.PostFormValue("active") == "on",
	}
}
