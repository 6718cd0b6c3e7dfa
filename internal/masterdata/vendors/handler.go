package vendors

import (
	"log/slog"
	"net/http"
	"strconv"
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

// MountRoutes registers vendor routes relative to /vendors.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/new", h.Form)
	r.Get("/{id}", h.Show)
	r.Get("/{id}/edit", h.EditForm)
	r.Post("/{id}", h.Update)
}

var sortable = map[string]func(a, b Vendor) bool{
	"name":   func(a, b Vendor) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) },
	"rating": func(a, b Vendor) bool { return a.Rating.Decimal.LessThan(b.Rating.Decimal) },
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := shared.ParseListFilters(r.URL.Query())
	vendors, err := h.service.List(r.Context(), page.OrganizationID(r))
	if err != nil {
		h.pages.HandleError(w, r, err, "/")
		return
	}
	result := shared.Paginate(vendors, filters, func(v Vendor) bool {
		return filters.MatchesActive(v.IsActive()) && filters.Matches(v.Name, v.ContactPerson, v.Email)
	}, sortable)
	h.pages.Render(w, r, http.StatusOK, "pages/vendors/vendor_list.html", "Vendors", result)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := page.ParseID(chi.URLParam(r, "id"))
	if !ok {
		h.pages.NotFound(w, r)
		return
	}
	vendor, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.pages.HandleError(w, r, err, "/vendors")
		return
	}
	h.pages.Render(w, r, http.StatusOK, "pages/vendors/vendor_detail.html", vendor.Name, vendor)
}

type formPage struct {
	Action string
	Vendor *Vendor
	Form   VendorForm
	Errors map[string]string
}

func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, http.StatusOK, "pages/vendors/vendor_form.html", "New vendor", formPage{
		Action: "/vendors",
		Form:   VendorForm{Active: true},
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := parseForm(r)
	created, err := h.service.Create(r.Context(), page.OrganizationID(r), form)
	if err != nil {
		h.pages.FormError(w, r, err, "pages/vendors/vendor_form.html", "New vendor", "/vendors", func(errs map[string]string) any {
			return formPage{Action: "/vendors", Form: form, Errors: errs}
		})
		return
	}
	h.pages.RedirectWithFlash(w, r, "/vendors/"+strconv.FormatInt(created.ID, 10), "success", "Vendor created successfully")
}

func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := page.ParseID(chi.URLParam(r, "id"))
	if !ok {
		h.pages.NotFound(w, r)
		return
	}
	vendor, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.pages.HandleError(w, r, err, "/vendors")
		return
	}
	h.pages.Render(w, r, http.StatusOK, "pages/vendors/vendor_form.html", "Edit vendor", formPage{
		Action: "/vendors/" + strconv.FormatInt(id, 10),
		Vendor: &vendor,
		Form:   FormFromVendor(vendor),
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
	action := "/vendors/" + strconv.FormatInt(id, 10)
	if _, err := h.service.Update(r.Context(), id, page.OrganizationID(r), form); err != nil {
		h.pages.FormError(w, r, err, "pages/vendors/vendor_form.html", "Edit vendor", "/vendors", func(errs map[string]string) any {
			return formPage{Action: action, Vendor: &Vendor{ID: id, Name: form.Name}, Form: form, Errors: errs}
		})
		return
	}
	h.pages.RedirectWithFlash(w, r, action, "success", "Vendor updated successfully")
}

func parseForm(r *http.Request) VendorForm {
	return VendorForm{
		Name:                strings.TrimSpace(r.PostFormValue("name")),
		ContactPerson:       strings.TrimSpace(r.PostFormValue("contactPerson")),
		Email:               strings.TrimSpace(r.PostFormValue("email")),
		Phone:               strings.TrimSpace(r.PostFormValue("phone")),
		Address:             strings.TrimSpace(r.PostFormValue("address")),
		ContractDetails:     strings.TrimSpace(r.PostFormValue("contractDetails")),
		PaymentTerms:        strings.TrimSpace(r.PostFormValue("paymentTerms")),
		ComplianceDocuments: strings.TrimSpace(r.PostFormValue("complianceDocuments")),
		Rating:              strings.TrimSpace(r.PostFormValue("rating")),
		Active:              r.PostFormValue("active") == "on",
	}
}
