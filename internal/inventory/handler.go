package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/nexstock/nexstock-console/internal/masterdata/products"
	mdshared "github.com/nexstock/nexstock-console/internal/masterdata/shared"
	"github.com/nexstock/nexstock-console/internal/masterdata/warehouses"
	"github.com/nexstock/nexstock-console/internal/page"
)

const (
	listTemplate   = "pages/inventory/inventory_list.html"
	formTemplate   = "pages/inventory/stock_form.html"
	alertsTemplate = "pages/inventory/alerts.html"
)

// Handler serves the inventory pages.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	warehouses *warehouses.Service
	products   *products.Service
	pages      *page.Builder
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, warehouseService *warehouses.Service, productService *products.Service, pages *page.Builder) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, warehouses: warehouseService, products: productService, pages: pages}
}

// MountRoutes registers inventory routes relative to /inventory.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/alerts", h.alerts)
	r.Get("/stock-in", h.showForm(OperationIn))
	r.Post("/stock-in", h.handleMove(OperationIn))
	r.Get("/stock-out", h.showForm(OperationOut))
	r.Post("/stock-out", h.handleMove(OperationOut))
}

var sortable = map[string]func(a, b Record) bool{
	"product":  func(a, b Record) bool { return strings.ToLower(a.ProductName) < strings.ToLower(b.ProductName) },
	"sku":      func(a, b Record) bool { return a.ProductSKU < b.ProductSKU },
	"quantity": func(a, b Record) bool { return a.Quantity < b.Quantity },
	"expiry":   func(a, b Record) bool { return a.ExpiryDate.Before(b.ExpiryDate.Time) },
}

type listPage struct {
	mdshared.Page[Record]
	Warehouses []warehouses.Warehouse
	Selected   *warehouses.Warehouse
	LowOnly    bool
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	filters := mdshared.ParseListFilters(q)
	data := listPage{LowOnly: q.Get("low") == "true"}

	// Records are per warehouse, so the warehouse list comes first.
	whs, err := h.warehouses.List(ctx, page.OrganizationID(r))
	if err != nil {
		h.pages.HandleError(w, r, err, "/")
		return
	}
	data.Warehouses = whs
	data.Selected = selectWarehouse(whs, q.Get("warehouseId"))
	if data.Selected == nil {
		data.Page = mdshared.Paginate[Record](nil, filters, nil, nil)
		h.pages.Render(w, r, http.StatusOK, listTemplate, "Inventory", data)
		return
	}

	records, err := h.service.List(ctx, data.Selected.ID)
	if err != nil {
		h.pages.HandleError(w, r, err, "/")
		return
	}
	data.Page = mdshared.Paginate(records, filters, func(rec Record) bool {
		return rec.Matches(filters.Search) && (!data.LowOnly || rec.Low())
	}, sortable)
	h.pages.Render(w, r, http.StatusOK, listTemplate, "Inventory", data)
}

// selectWarehouse returns the warehouse named by raw, or the first one.
func selectWarehouse(whs []warehouses.Warehouse, raw string) *warehouses.Warehouse {
	if len(whs) == 0 {
		return nil
	}
	if id, ok := page.ParseID(raw); ok {
		for i := range whs {
			if whs[i].ID == id {
				return &whs[i]
			}
		}
	}
	return &whs[0]
}

type alertsPage struct {
	Warehouses []warehouses.Warehouse
	Warehouse  int64
	DaysAhead  int
	LowStock   []Record
	Expiring   []Record
}

func (h *Handler) alerts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	days, _ := strconv.Atoi(q.Get("daysAhead"))
	data := alertsPage{DaysAhead: ClampDays(days)}
	if id, ok := page.ParseID(q.Get("warehouseId")); ok {
		data.Warehouse = id
	}

	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		list, err := h.warehouses.List(gctx, page.OrganizationID(r))
		data.Warehouses = list
		return err
	})
	g.Go(func() error {
		list, err := h.service.LowStock(gctx, data.Warehouse)
		data.LowStock = list
		return err
	})
	g.Go(func() error {
		list, err := h.service.Expiring(gctx, data.DaysAhead)
		data.Expiring = list
		return err
	})
	if err := g.Wait(); err != nil {
		h.pages.HandleError(w, r, err, "/inventory")
		return
	}
	if data.Warehouse > 0 {
		data.Expiring = inWarehouse(data.Expiring, data.Warehouse)
	}
	h.pages.Render(w, r, http.StatusOK, alertsTemplate, "Stock alerts", data)
}

func inWarehouse(records []Record, id int64) []Record {
	out := records[:0:0]
	for _, rec := range records {
		if rec.WarehouseID == id {
			out = append(out, rec)
		}
	}
	return out
}

type formPage struct {
	Operation  Operation
	Action     string
	Form       StockForm
	Warehouses []warehouses.Warehouse
	Products   []products.Product
	Zones      []warehouses.StorageZone
	Errors     map[string]string
}

// loadOptions fetches warehouses and products together, then the zones of
// the warehouse the form points at, or of the first warehouse.
func (h *Handler) loadOptions(ctx context.Context, orgID int64, form *StockForm) (formPage, error) {
	var data formPage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := h.warehouses.List(gctx, orgID)
		data.Warehouses = list
		return err
	})
	g.Go(func() error {
		list, err := h.products.List(gctx)
		if err != nil {
			return err
		}
		for _, p := range list {
			if p.IsActive() {
				data.Products = append(data.Products, p)
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return data, err
	}

	selected := selectWarehouse(data.Warehouses, form.WarehouseID)
	if selected == nil {
		return data, nil
	}
	if id := strconv.FormatInt(selected.ID, 10); form.WarehouseID != id {
		form.WarehouseID = id
	}
	zones, err := h.warehouses.Zones(ctx, selected.ID)
	if err != nil {
		return data, err
	}
	data.Zones = zones
	return data, nil
}

func (h *Handler) showForm(op Operation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		form := StockForm{
			WarehouseID: strings.TrimSpace(q.Get("warehouseId")),
			ProductID:   strings.TrimSpace(q.Get("productId")),
			Quantity:    "1",
		}
		data, err := h.loadOptions(r.Context(), page.OrganizationID(r), &form)
		if err != nil {
			h.pages.HandleError(w, r, err, "/inventory")
			return
		}
		data.Operation, data.Action, data.Form = op, "/inventory/"+string(op), form
		h.pages.Render(w, r, http.StatusOK, formTemplate, op.Title(), data)
	}
}

func (h *Handler) handleMove(op Operation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		form := ParseStockForm(r.PostForm)
		rec, err := h.service.Move(r.Context(), op, form)
		if err != nil {
			h.pages.FormError(w, r, err, formTemplate, op.Title(), "/inventory", func(errs map[string]string) any {
				data, optErr := h.loadOptions(r.Context(), page.OrganizationID(r), &form)
				if optErr != nil {
					h.logger.Warn("reload stock form options", slog.String("operation", string(op)), slog.Any("error", optErr))
				}
				data.Operation, data.Action, data.Form, data.Errors = op, "/inventory/"+string(op), form, errs
				return data
			})
			return
		}
		h.logger.Info("stock moved",
			slog.String("operation", string(op)),
			slog.String("warehouse_id", form.WarehouseID),
			slog.String("product_id", form.ProductID),
			slog.String("quantity", form.Quantity),
		)
		target := "/inventory?" + url.Values{"warehouseId": {form.WarehouseID}}.Encode()
		h.pages.RedirectWithFlash(w, r, target, "success", moveMessage(op, form, rec))
	}
}

func moveMessage(op Operation, form StockForm, rec Record) string {
	what := rec.ProductSKU
	if what == "" {
		what = rec.ProductName
	}
	if what == "" {
		return fmt.Sprintf("%s units %s", form.Quantity, op.Verb())
	}
	return fmt.Sprintf("%s × %s %s", form.Quantity, what, op.Verb())
}
