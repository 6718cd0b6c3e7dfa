// Package dashboard renders the landing page summary.
package dashboard

import (
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/nexstock/nexstock-console/internal/inventory"
	"github.com/nexstock/nexstock-console/internal/masterdata/warehouses"
	"github.com/nexstock/nexstock-console/internal/page"
	"github.com/nexstock/nexstock-console/internal/procurement"
)

const (
	indexTemplate = "pages/dashboard/index.html"
	recentLimit   = 5
)

// Card is one summary figure. Value is nil when its source failed.
type Card struct {
	Label string
	Href  string
	Value *int
	Tone  string
}

// Failed reports whether the card could not be loaded.
func (c Card) Failed() bool { return c.Value == nil }

type indexPage struct {
	Warehouses Card
	OpenOrders Card
	LowStock   Card
	Expiring   Card
	Pending    []procurement.PurchaseOrder
}

// Cards lists the summary cards in display order.
func (p indexPage) Cards() []Card {
	return []Card{p.Warehouses, p.OpenOrders, p.LowStock, p.Expiring}
}

// Handler serves the dashboard.
type Handler struct {
	logger     *slog.Logger
	warehouses *warehouses.Service
	orders     *procurement.Service
	inventory  *inventory.Service
	pages      *page.Builder
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, warehouseService *warehouses.Service, orderService *procurement.Service, inventoryService *inventory.Service, pages *page.Builder) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, warehouses: warehouseService, orders: orderService, inventory: inventoryService, pages: pages}
}

// MountRoutes registers the dashboard at the router root.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.index)
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID := page.OrganizationID(r)
	data := indexPage{
		Warehouses: Card{Label: "Warehouses", Href: "/warehouses", Tone: "blue"},
		OpenOrders: Card{Label: "Open purchase orders", Href: "/purchase-orders", Tone: "purple"},
		LowStock:   Card{Label: "Low stock items", Href: "/inventory/alerts", Tone: "red"},
		Expiring:   Card{Label: "Expiring in 30 days", Href: "/inventory/alerts", Tone: "yellow"},
	}

	// Sources fail independently, so no shared cancellation.
	var g errgroup.Group
	errs := make([]error, 4)
	g.Go(func() error {
		list, err := h.warehouses.List(ctx, orgID)
		errs[0] = err
		if err == nil {
			data.Warehouses.Value = count(len(list))
		}
		return nil
	})
	g.Go(func() error {
		list, err := h.orders.List(ctx, orgID)
		errs[1] = err
		if err == nil {
			data.OpenOrders.Value, data.Pending = summarizeOrders(list)
		}
		return nil
	})
	g.Go(func() error {
		list, err := h.inventory.LowStock(ctx, 0)
		errs[2] = err
		if err == nil {
			data.LowStock.Value = count(len(list))
		}
		return nil
	})
	g.Go(func() error {
		list, err := h.inventory.Expiring(ctx, inventory.DefaultDaysAhead)
		errs[3] = err
		if err == nil {
			data.Expiring.Value = count(len(list))
		}
		return nil
	})
	_ = g.Wait()

	for _, err := range errs {
		if err == nil {
			continue
		}
		if page.SessionRejected(err) {
			h.pages.HandleError(w, r, err, "/")
			return
		}
		if ctx.Err() == nil {
			h.logger.Warn("dashboard card unavailable", slog.Any("error", err))
		}
	}
	h.pages.Render(w, r, http.StatusOK, indexTemplate, "Dashboard", data)
}

func count(n int) *int { return &n }

// summarizeOrders counts orders still in flight and returns the newest ones
// awaiting approval.
func summarizeOrders(orders []procurement.PurchaseOrder) (*int, []procurement.PurchaseOrder) {
	open := 0
	var pending []procurement.PurchaseOrder
	for _, po := range orders {
		if po.Open() {
			open++
		}
		if po.CanApprove() {
			pending = append(pending, po)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].OrderDate.After(pending[j].OrderDate.Time)
	})
	if len(pending) > recentLimit {
		pending = pending[:recentLimit]
	}
	return count(open), pending
}
