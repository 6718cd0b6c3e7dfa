package procurement

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nexstock/nexstock-console/internal/shared"
)

// LineForm is one order line as typed by the operator.
type LineForm struct {
	ProductID string
	Quantity  string
}

// OrderForm is the create form as submitted. Lines arrive as parallel
// productId and quantity fields.
type OrderForm struct {
	VendorID             string
	ExpectedDeliveryDate string
	Lines                []LineForm
}

// ParseOrderForm reads an OrderForm from posted values, dropping lines left
// completely blank.
func ParseOrderForm(values url.Values) OrderForm {
	form := OrderForm{
		VendorID:             strings.TrimSpace(values.Get("vendorId")),
		ExpectedDeliveryDate: strings.TrimSpace(values.Get("expectedDeliveryDate")),
	}
	ids, qtys := values["productId"], values["quantity"]
	for i := 0; i < len(ids) || i < len(qtys); i++ {
		var line LineForm
		if i < len(ids) {
			line.ProductID = strings.TrimSpace(ids[i])
		}
		if i < len(qtys) {
			line.Quantity = strings.TrimSpace(qtys[i])
		}
		if line.ProductID == "" && line.Quantity == "" {
			continue
		}
		form.Lines = append(form.Lines, line)
	}
	return form
}

// Input converts the form into a CreateOrderInput. Quantities must be whole
// numbers; "2" and "2.0" both become 2.
func (f OrderForm) Input() (CreateOrderInput, error) {
	verr := shared.NewValidationError()
	var in CreateOrderInput
	if f.VendorID != "" {
		id, err := strconv.ParseInt(f.VendorID, 10, 64)
		if err != nil {
			verr.Add("vendorId", "Select a vendor")
		}
		in.VendorID = id
	}
	if f.ExpectedDeliveryDate != "" {
		d, err := shared.ParseDate(f.ExpectedDeliveryDate)
		if err != nil {
			verr.Add("expectedDeliveryDate", "Enter a valid date")
		} else {
			in.ExpectedDeliveryDate = &d
		}
	}
	for i, line := range f.Lines {
		var item LineInput
		if line.ProductID != "" {
			id, err := strconv.ParseInt(line.ProductID, 10, 64)
			if err != nil {
				verr.Add(lineField(i, "productId"), "Select a product")
			}
			item.ProductID = id
		}
		if line.Quantity != "" {
			qty, err := decimal.NewFromString(line.Quantity)
			whole := err == nil && qty.IsInteger()
			var n int
			if whole {
				// Atoi rejects values outside int instead of wrapping them.
				n, err = strconv.Atoi(qty.String())
				whole = err == nil
			}
			if !whole {
				verr.Add(lineField(i, "quantity"), "Enter a whole number")
			} else {
				item.Quantity = n
			}
		}
		in.Items = append(in.Items, item)
	}
	return in, verr.OrNil()
}

// FormFromInput rebuilds a form, used to prefill a line for a product.
func FormFromInput(in CreateOrderInput) OrderForm {
	var f OrderForm
	if in.VendorID > 0 {
		f.VendorID = strconv.FormatInt(in.VendorID, 10)
	}
	if in.ExpectedDeliveryDate != nil {
		f.ExpectedDeliveryDate = in.ExpectedDeliveryDate.Format(time.DateOnly)
	}
	for _, item := range in.Items {
		f.Lines = append(f.Lines, LineForm{
			ProductID: strconv.FormatInt(item.ProductID, 10),
			Quantity:  strconv.Itoa(item.Quantity),
		})
	}
	return f
}

// VendorSelected reports whether id is the chosen vendor.
func (f OrderForm) VendorSelected(id int64) bool {
	return f.VendorID == strconv.FormatInt(id, 10)
}

// Selected reports whether id is the product chosen on the line.
func (l LineForm) Selected(id int64) bool {
	return l.ProductID == strconv.FormatInt(id, 10)
}

func lineField(i int, name string) string {
	return fmt.Sprintf("items.%d.%s", i, name)
}
