package procurement

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nexstock/nexstock-console/internal/shared"
)

// Status is a purchase order lifecycle state.
type Status string

const (
	StatusDraft             Status = "DRAFT"
	StatusPendingApproval   Status = "PENDING_APPROVAL"
	StatusApproved          Status = "APPROVED"
	StatusPartiallyReceived Status = "PARTIALLY_RECEIVED"
	StatusCompleted         Status = "COMPLETED"
	StatusRejected          Status = "REJECTED"
	StatusCancelled         Status = "CANCELLED"
)

// Statuses lists every status in lifecycle order.
func Statuses() []Status {
	return []Status{
		StatusDraft,
		StatusPendingApproval,
		StatusApproved,
		StatusPartiallyReceived,
		StatusCompleted,
		StatusRejected,
		StatusCancelled,
	}
}

// ParseStatus normalises a backend status. SHIPPED and RECEIVED, sent by
// older backends, read as APPROVED and COMPLETED.
func ParseStatus(raw string) Status {
	switch s := Status(strings.ToUpper(strings.TrimSpace(raw))); s {
	case "SHIPPED":
		return StatusApproved
	case "RECEIVED":
		return StatusCompleted
	default:
		return s
	}
}

// UnmarshalJSON applies ParseStatus.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseStatus(raw)
	return nil
}

var transitions = map[Status][]Status{
	StatusDraft:             {StatusPendingApproval, StatusCancelled},
	StatusPendingApproval:   {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:          {StatusPartiallyReceived, StatusCompleted, StatusCancelled},
	StatusPartiallyReceived: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether the lifecycle allows moving from one status
// to another.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Label is the status as shown to operators.
func (s Status) Label() string {
	switch s {
	case StatusPendingApproval:
		return "Pending approval"
	case StatusPartiallyReceived:
		return "Partially received"
	}
	raw := strings.ToLower(string(s))
	if raw == "" {
		return "Unknown"
	}
	return strings.ToUpper(raw[:1]) + raw[1:]
}

// BadgeStyle is the visual tone of a status badge.
type BadgeStyle string

const (
	BadgeNeutral BadgeStyle = "gray"
	BadgeWarning BadgeStyle = "yellow"
	BadgeInfo    BadgeStyle = "blue"
	BadgeActive  BadgeStyle = "purple"
	BadgeSuccess BadgeStyle = "green"
	BadgeDanger  BadgeStyle = "red"
	BadgeMuted   BadgeStyle = "slate"
)

// Badge maps every status to its badge style. Unrecognised values render
// neutral.
func (s Status) Badge() BadgeStyle {
	switch s {
	case StatusDraft:
		return BadgeNeutral
	case StatusPendingApproval:
		return BadgeWarning
	case StatusApproved:
		return BadgeInfo
	case StatusPartiallyReceived:
		return BadgeActive
	case StatusCompleted:
		return BadgeSuccess
	case StatusRejected:
		return BadgeDanger
	case StatusCancelled:
		return BadgeMuted
	}
	return BadgeNeutral
}

// ApprovalVisible reports whether the approve action may be offered.
func ApprovalVisible(s Status) bool {
	return s == StatusPendingApproval
}

// Item is one line of a purchase order.
type Item struct {
	ID               int64               `json:"id"`
	ProductID        int64               `json:"productId"`
	ProductName      string              `json:"productName"`
	ProductSKU       string              `json:"productSku"`
	Quantity         int                 `json:"quantity"`
	ReceivedQuantity int                 `json:"receivedQuantity"`
	UnitPrice        decimal.Decimal     `json:"unitPrice"`
	TotalPrice       decimal.NullDecimal `json:"totalPrice"`
}

// LineTotal returns the backend line total, or price times quantity when the
// backend sent none.
func (i Item) LineTotal() decimal.Decimal {
	if i.TotalPrice.Valid {
		return i.TotalPrice.Decimal
	}
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// PurchaseOrder is an order placed with a vendor.
type PurchaseOrder struct {
	ID                   int64            `json:"id"`
	OrderNumber          string           `json:"orderNumber"`
	VendorID             int64            `json:"vendorId"`
	VendorName           string           `json:"vendorName"`
	OrganizationID       int64            `json:"organizationId"`
	Status               Status           `json:"status"`
	OrderDate            shared.Timestamp `json:"orderDate"`
	ExpectedDeliveryDate shared.Date      `json:"expectedDeliveryDate"`
	ApprovedAt           shared.Timestamp `json:"approvedAt"`
	ApprovedByName       string           `json:"approvedByName"`
	CreatedByName        string           `json:"createdByName"`
	Items                []Item           `json:"items"`
	TotalAmount          decimal.Decimal  `json:"totalAmount"`
}

// UnmarshalJSON also reads the backend's poNumber and createdAt names.
func (po *PurchaseOrder) UnmarshalJSON(data []byte) error {
	type plain PurchaseOrder
	var raw struct {
		plain
		PONumber  string           `json:"poNumber"`
		CreatedAt shared.Timestamp `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*po = PurchaseOrder(raw.plain)
	if po.OrderNumber == "" {
		po.OrderNumber = raw.PONumber
	}
	if po.OrderDate.IsZero() {
		po.OrderDate = raw.CreatedAt
	}
	return nil
}

// Number returns the order number, or a placeholder built from the id.
func (po PurchaseOrder) Number() string {
	if po.OrderNumber != "" {
		return po.OrderNumber
	}
	return "#" + strconv.FormatInt(po.ID, 10)
}

// CanApprove reports whether the approve action is offered for po.
func (po PurchaseOrder) CanApprove() bool {
	return ApprovalVisible(po.Status)
}

// Open reports whether the order is still in flight.
func (po PurchaseOrder) Open() bool {
	return po.Status != "" && !po.Status.IsTerminal()
}
