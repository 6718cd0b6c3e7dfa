package view

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nexstock/nexstock-console/internal/shared"
	"github.com/nexstock/nexstock-console/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// Principal is the signed-in operator as shown in the layout.
type Principal struct {
	Email          string
	Role           string
	OrganizationID int64
}

// NavLink is one sidebar entry.
type NavLink struct {
	Label  string
	Href   string
	Active bool
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CSRFToken   string
	Flash       *shared.FlashMessage
	CurrentPath string
	User        *Principal
	Nav         []NavLink
	Data        any
}

var (
	printer = message.NewPrinter(language.English)
	titler  = cases.Title(language.English)
)

// NewEngine parses templates at build-time.
func NewEngine() (*Engine, error) {
	tpl, err := template.New("root").Funcs(FuncMap()).ParseFS(web.Templates,
		"templates/layouts/*.html",
		"templates/partials/*.html",
		"templates/pages/*/*.html",
	)
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template with TemplateData and writes it with
// status. Output is buffered so a failed execution never sends a partial page.
func (e *Engine) Render(w http.ResponseWriter, status int, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// FuncMap returns the helpers available to every template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"formatDate":     formatDate,
		"formatDateTime": formatDateTime,
		"money":          Money,
		"number":         Number,
		"percent":        Percent,
		"label":          Label,
		"fieldError": func(errs map[string]string, field string) string {
			return errs[field]
		},
		"hasPrefix": strings.HasPrefix,
		"deref": func(b *bool) bool {
			return b != nil && *b
		},
	}
}

// Money formats an amount with thousand separators and two decimals.
func Money(v decimal.Decimal) string {
	v = v.Round(2)
	whole := v.Truncate(0)
	frac := v.Sub(whole).Abs().StringFixed(2)
	sign := ""
	if v.IsNegative() {
		sign = "-"
		whole = whole.Abs()
	}
	return sign + "$" + printer.Sprintf("%d", whole.IntPart()) + strings.TrimPrefix(frac, "0")
}

// Number formats an integer with thousand separators.
func Number(v any) string {
	switch n := v.(type) {
	case int:
		return printer.Sprintf("%d", n)
	case int64:
		return printer.Sprintf("%d", n)
	case *int:
		if n == nil {
			return "—"
		}
		return printer.Sprintf("%d", *n)
	case *int64:
		if n == nil {
			return "—"
		}
		return printer.Sprintf("%d", *n)
	case float64:
		return printer.Sprintf("%.0f", n)
	}
	return fmt.Sprint(v)
}

// Percent renders a ratio already expressed in percent.
func Percent(v float64) string {
	return printer.Sprintf("%.1f%%", v)
}

// Label turns an enum constant such as PENDING_APPROVAL into "Pending Approval".
func Label(v any) string {
	raw := strings.ReplaceAll(fmt.Sprint(v), "_", " ")
	return titler.String(strings.ToLower(raw))
}

func formatDate(v any) string {
	t := asTime(v)
	if t.IsZero() {
		return "—"
	}
	return t.Format("02 Jan 2006")
}

func formatDateTime(v any) string {
	t := asTime(v)
	if t.IsZero() {
		return "—"
	}
	return t.Format("02 Jan 2006 15:04")
}

func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case *time.Time:
		if t != nil {
			return *t
		}
	case shared.Date:
		return t.Time
	case *shared.Date:
		if t != nil {
			return t.Time
		}
	case shared.Timestamp:
		return t.Time
	case *shared.Timestamp:
		if t != nil {
			return t.Time
		}
	}
	return time.Time{}
}
