package procurement

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/nexstock/nexstock-console/internal/gateway"
	"github.com/nexstock/nexstock-console/internal/masterdata/products"
	mdshared "github.com/nexstock/nexstock-console/internal/masterdata/shared"
	"github.com/nexstock/nexstock-console/internal/masterdata/vendors"
	"github.com/nexstock/nexstock-console/internal/page"
	"github.com/nexstock/nexstock-console/internal/platform/httpx"
	"github.com/nexstock/nexstock-console/internal/shared"
	"github.com/nexstock/nexstock-console/internal/view"
)

const (
	listTemplate   = "pages/po/po_list.html"
	formTemplate   = "pages/po/po_form.html"
	detailTemplate = "pages/po/po_detail.html"
)

// Handler manages purchase order pages.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	vendors  *vendors.Service
	products *products.Service
	pages    *page.Builder
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, vendorService *vendors.Service, productService *products.Service, pages *page.Builder) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, vendors: vendorService, products: productService, pages: pages}
}

// MountRoutes registers purchase order routes relative to /purchase-orders.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/new", h.showForm)
	r.Post("/estimate", h.handleEstimate)
	r.Get("/{id}", h.handleShow)
	r.Post("/{id}/approve", h.handleApprove)
}

var sortable = map[string]func(a, b PurchaseOrder) bool{
	"date":   func(a, b PurchaseOrder) bool { return a.OrderDate.Before(b.OrderDate.Time) },
	"number": func(a, b PurchaseOrder) bool { return a.Number() < b.Number() },
	"total":  func(a, b PurchaseOrder) bool { return a.TotalAmount.LessThan(b.TotalAmount) },
	"vendor": func(a, b PurchaseOrder) bool { return strings.ToLower(a.VendorName) < strings.ToLower(b.VendorName) },
}

type listPage struct {
	mdshared.Page[PurchaseOrder]
	Status   Status
	Statuses []Status
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := mdshared.ParseListFilters(q)
	if filters.SortBy == "" {
		filters.SortBy, filters.SortDir = "date", mdshared.SortDesc
	}
	status := Status("")
	if raw := q.Get("status"); raw != "" {
		status = ParseStatus(raw)
	}
	orders, err := h.service.List(r.Context(), page.OrganizationID(r))
	if err != nil {
		h.pages.HandleError(w, r, err, "/")
		return
	}
	result := mdshared.Paginate(orders, filters, func(po PurchaseOrder) bool {
		if status != "" && po.Status != status {
			return false
		}
		return filters.Matches(po.Number(), po.VendorName)
	}, sortable)
	h.pages.Render(w, r, http.StatusOK, listTemplate, "Purchase Orders", listPage{Page: result, Status: status, Statuses: Statuses()})
}

type detailPage struct {
	Order PurchaseOrder
	Error string
}

func (h *Handler) handleShow(w http.ResponseWriter, r *http.Request) {
	id, ok := page.ParseID(chi.URLParam(r, "id"))
	if !ok {
		h.pages.NotFound(w, r)
		return
	}
	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.pages.HandleError(w, r, err, "/purchase-orders")
		return
	}
	h.pages.Render(w, r, http.StatusOK, detailTemplate, "Purchase order "+order.Number(), detailPage{Order: order})
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	id, ok := page.ParseID(chi.URLParam(r, "id"))
	if !ok {
		h.pages.NotFound(w, r)
		return
	}
	order, err := h.service.ApproveOrder(r.Context(), id)
	if err != nil {
		if page.SessionRejected(err) || order.ID == 0 {
			h.pages.HandleError(w, r, err, path(id))
			return
		}
		status := http.StatusBadGateway
		if code := gateway.StatusOf(err); code >= 400 && code < 500 {
			status = http.StatusConflict
		}
		h.logger.Info("approve purchase order refused", slog.Int64("po_id", id), slog.String("status", string(order.Status)), slog.Any("error", err))
		h.pages.Render(w, r, status, detailTemplate, "Purchase order "+order.Number(), detailPage{
			Order: order,
			Error: "Could not approve this order: " + shared.UserSafeMessage(err),
		})
		return
	}
	h.pages.RedirectWithFlash(w, r, path(id), "success", "Purchase order "+order.Number()+" approved")
}

// formOptions holds the select options of the create form. Vendors and
// products are fetched concurrently into separate fields.
type formOptions struct {
	Vendors  []vendors.Vendor
	Products []products.Product
	catalog  Catalog
}

func (h *Handler) loadOptions(ctx context.Context, orgID int64) (formOptions, error) {
	var opts formOptions
	var all []products.Product
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := h.vendors.List(gctx, orgID)
		if err != nil {
			return err
		}
		for _, v := range list {
			if v.IsActive() {
				opts.Vendors = append(opts.Vendors, v)
			}
		}
		return nil
	})
	g.Go(func() error {
		list, err := h.products.List(gctx)
		if err != nil {
			return err
		}
		all = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return opts, err
	}
	opts.catalog = NewCatalog(all)
	for _, p := range all {
		if p.IsActive() {
			opts.Products = append(opts.Products, p)
		}
	}
	return opts, nil
}

type formPage struct {
	formOptions
	Form     OrderForm
	Estimate Estimate
	Errors   map[string]string
}

func (h *Handler) showForm(w http.ResponseWriter, r *http.Request) {
	opts, err := h.loadOptions(r.Context(), page.OrganizationID(r))
	if err != nil {
		h.pages.HandleError(w, r, err, "/purchase-orders")
		return
	}
	form := OrderForm{VendorID: r.URL.Query().Get("vendorId"), Lines: []LineForm{{Quantity: "1"}}}
	h.pages.Render(w, r, http.StatusOK, formTemplate, "New purchase order", formPage{
		formOptions: opts,
		Form:        form,
		Estimate:    EstimateTotal(nil, opts.catalog),
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := ParseOrderForm(r.PostForm)
	opts, optErr := h.loadOptions(r.Context(), page.OrganizationID(r))
	if optErr != nil {
		h.logger.Warn("load purchase order options", slog.Any("error", optErr))
	}
	in, err := form.Input()
	var order PurchaseOrder
	if err == nil {
		order, err = h.service.CreateOrder(r.Context(), in, opts.catalog)
	}
	if err != nil {
		if len(form.Lines) == 0 {
			form.Lines = []LineForm{{Quantity: "1"}}
		}
		h.pages.FormError(w, r, err, formTemplate, "New purchase order", "/purchase-orders", func(errs map[string]string) any {
			return formPage{formOptions: opts, Form: form, Estimate: EstimateTotal(in.Items, opts.catalog), Errors: errs}
		})
		return
	}
	h.pages.RedirectWithFlash(w, r, path(order.ID), "success", "Purchase order "+order.Number()+" created as "+order.Status.Label())
}

type estimateRequest struct {
	Items []LineInput `json:"items"`
}

type estimateLine struct {
	ProductID int64  `json:"productId"`
	Total     string `json:"total"`
	Formatted string `json:"formatted"`
	Resolved  bool   `json:"resolved"`
}

type estimateResponse struct {
	Total      string         `json:"total"`
	Formatted  string         `json:"formatted"`
	Unresolved int            `json:"unresolved"`
	Lines      []estimateLine `json:"lines"`
}

func (h *Handler) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Malformed estimate request")
		return
	}
	catalogItems, err := h.products.List(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	est := EstimateTotal(req.Items, NewCatalog(catalogItems))
	res := estimateResponse{
		Total:      est.Total.StringFixed(2),
		Formatted:  view.Money(est.Total),
		Unresolved: est.Unresolved,
		Lines:      make([]estimateLine, 0, len(est.Lines)),
	}
	for _, line := range est.Lines {
		res.Lines = append(res.Lines, estimateLine{
			ProductID: line.ProductID,
			Total:     line.Total.StringFixed(2),
			Formatted: view.Money(line.Total),
			Resolved:  line.Resolved,
		})
	}
	httpx.JSON(w, http.StatusOK, res)
}
