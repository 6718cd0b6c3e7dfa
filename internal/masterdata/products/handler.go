package products

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nexstock/nexstock-console/internal/masterdata/shared"
	"github.com/nexstock/nexstock-console/internal/masterdata/vendors"
	"github.com/nexstock/nexstock-console/internal/page"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
	vendors *vendors.Service
	pages   *page.Builder
}

func NewHandler(logger *slog.Logger, service *Service, vendorService *vendors.Service, pages *page.Builder) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, vendors: vendorService, pages: pages}
}

// MountRoutes registers product routes relative to /products.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/new", h.Form)
	r.Get("/{id}", h.Show)
}

var sortable = map[string]func(a, b Product) bool{
	"sku":   func(a, b Product) bool { return a.SKU < b.SKU },
	"name":  func(a, b Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) },
	"price": func(a, b Product) bool { return a.UnitPrice.LessThan(b.UnitPrice) },
}

type listPage struct {
	shared.Page[Product]
	Categories []string
	Category   string
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := shared.ParseListFilters(r.URL.Query())
	category := r.URL.Query().Get("category")
	items, err := h.service.List(r.Context())
	if err != nil {
		h.pages.HandleError(w, r, err, "/")
		return
	}
	result := shared.Paginate(items, filters, func(p Product) bool {
		if category != "" && !strings.EqualFold(p.Category, category) {
			return false
		}
		return filters.MatchesActive(p.IsActive()) && filters.Matches(p.SKU, p.Name, p.VendorName, p.Category)
	}, sortable)
	h.pages.Render(w, r, http.StatusOK, "pages/products/product_list.html", "Products", listPage{
		Page:       result,
		Categories: categories(items),
		Category:   category,
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := page.ParseID(chi.URLParam(r, "id"))
	if !ok {
		h.pages.NotFound(w, r)
		return
	}
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.pages.HandleError(w, r, err, "/products")
		return
	}
	h.pages.Render(w, r, http.StatusOK, "pages/products/product_detail.html", product.Name, product)
}

type formPage struct {
	Form    ProductForm
	Vendors []vendors.Vendor
	Errors  map[string]string
}

func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	options, err := h.vendors.List(r.Context(), page.OrganizationID(r))
	if err != nil {
		h.pages.HandleError(w, r, err, "/products")
		return
	}
	form := ProductForm{}
	if id, ok := page.ParseID(r.URL.Query().Get("vendorId")); ok {
		form.VendorID = id
	}
	h.pages.Render(w, r, http.StatusOK, "pages/products/product_form.html", "New product", formPage{
		Form:    form,
		Vendors: activeVendors(options),
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	vendorID, _ := strconv.ParseInt(r.PostFormValue("vendorId"), 10, 64)
	form := ProductForm{
		SKU:         strings.TrimSpace(r.PostFormValue("sku")),
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		VendorID:    vendorID,
		Category:    strings.TrimSpace(r.PostFormValue("category")),
		UnitPrice:   strings.TrimSpace(r.PostFormValue("unitPrice")),
	}
	created, err := h.service.Create(r.Context(), form)
	if err != nil {
		h.pages.FormError(w, r, err, "pages/products/product_form.html", "New product", "/products", func(errs map[string]string) any {
			// The vendor list is best effort on a re-render.
			options, verr := h.vendors.List(r.Context(), page.OrganizationID(r))
			if verr != nil {
				h.logger.Warn("reload vendors for product form", slog.Any("error", verr))
			}
			return formPage{Form: form, Vendors: activeVendors(options), Errors: errs}
		})
		return
	}
	h.pages.RedirectWithFlash(w, r, "/products/"+strconv.FormatInt(created.ID, 10), "success", "Product created successfully")
}

func activeVendors(all []vendors.Vendor) []vendors.Vendor {
	out := make([]vendors.Vendor, 0, len(all))
	for _, v := range all {
		if v.IsActive() {
			out = append(out, v)
		}
	}
	return out
}

func categories(items []Product) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range items {
		c := strings.TrimSpace(p.Category)
		if c == "" || seen[strings.ToLower(c)] {
			continue
		}
		seen[strings.ToLower(c)] = true
		out = append(out, c)
	}
	return out
}
