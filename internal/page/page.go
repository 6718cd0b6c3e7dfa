// Package page assembles the layout data every signed-in view renders with
// and turns backend failures into the console's standard responses.
package page

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/nexstock/nexstock-console/internal/auth"
	"github.com/nexstock/nexstock-console/internal/gateway"
	"github.com/nexstock/nexstock-console/internal/rbac"
	"github.com/nexstock/nexstock-console/internal/shared"
	"github.com/nexstock/nexstock-console/internal/view"
)

// Builder renders pages with the layout chrome of the current session.
type Builder struct {
	templates *view.Engine
	csrf      *shared.CSRFManager
	logger    *slog.Logger
}

// NewBuilder constructs a Builder.
func NewBuilder(templates *view.Engine, csrf *shared.CSRFManager, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{templates: templates, csrf: csrf, logger: logger}
}

// Data returns TemplateData for r. It pops one pending flash.
func (b *Builder) Data(r *http.Request, title string, data any) view.TemplateData {
	ctx := r.Context()
	sess := shared.SessionFromContext(ctx)
	var csrfToken string
	if sess != nil {
		token, err := b.csrf.EnsureToken(ctx, sess)
		if err != nil {
			b.logger.Warn("ensure csrf token", slog.Any("error", err))
		}
		csrfToken = token
	}
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	store := auth.StoreFromContext(ctx)
	td := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if user := store.User(); user != nil {
		td.User = &view.Principal{Email: user.Email, Role: string(user.Role), OrganizationID: user.OrganizationID}
		td.Nav = rbac.Navigation(user.Role, r.URL.Path)
	}
	return td
}

// Render writes the named template. A request whose client has gone away is
// not rendered.
func (b *Builder) Render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	if err := r.Context().Err(); err != nil {
		b.logger.Debug("request cancelled before render", slog.String("template", name), slog.Any("error", err))
		return
	}
	if err := b.templates.Render(w, status, name, b.Data(r, title, data)); err != nil {
		b.logger.Error("render page", slog.String("template", name), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Flash queues a one-time message for the next rendered page.
func (b *Builder) Flash(r *http.Request, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
}

// RedirectWithFlash queues a flash and redirects with 303.
func (b *Builder) RedirectWithFlash(w http.ResponseWriter, r *http.Request, location, kind, message string) {
	b.Flash(r, kind, message)
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// NotFound renders the not-found page.
func (b *Builder) NotFound(w http.ResponseWriter, r *http.Request) {
	b.Render(w, r, http.StatusNotFound, "pages/errors/not_found.html", "Not found", nil)
}

// NotAvailable renders the page shown for views hidden from the user's role.
func (b *Builder) NotAvailable(w http.ResponseWriter, r *http.Request) {
	b.Render(w, r, http.StatusNotFound, "pages/errors/not_available.html", "Not available", nil)
}

// BackendError is the data of the page shown when a read fails.
type BackendError struct {
	Message string
	Retry   string
	Back    string
}

// HandleError answers a failed backend call. An expired session is
// invalidated and sent to login with a return target. A missing record renders
// the not-found page. A failed read renders an error page offering a retry; a
// failed write flashes the message and returns the user to fallback.
func (b *Builder) HandleError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if r.Context().Err() != nil {
		return
	}
	switch {
	case SessionRejected(err):
		if store := auth.StoreFromContext(r.Context()); store != nil {
			store.Invalidate()
		}
		target := r.URL.RequestURI()
		if r.Method != http.MethodGet {
			target = fallback
		}
		b.RedirectWithFlash(w, r, rbac.LoginURL(target), "warning", "Your session has expired, please sign in again")
	case errors.Is(err, gateway.ErrNotFound):
		b.NotFound(w, r)
	case r.Method == http.MethodGet || r.Method == http.MethodHead:
		b.logger.Warn("backend call failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		b.Render(w, r, http.StatusBadGateway, "pages/errors/backend.html", "Unavailable", BackendError{
			Message: shared.UserSafeMessage(err),
			Retry:   r.URL.RequestURI(),
			Back:    fallback,
		})
	default:
		b.logger.Warn("backend call failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		b.RedirectWithFlash(w, r, fallback, "error", shared.UserSafeMessage(err))
	}
}

// SessionRejected reports whether err means the backend no longer accepts the
// session token. A 403 is a permission refusal and keeps the session.
func SessionRejected(err error) bool {
	return errors.Is(err, gateway.ErrUnauthorized) && gateway.StatusOf(err) == http.StatusUnauthorized
}

// OrganizationID returns the signed-in user's organization, or 0.
func OrganizationID(r *http.Request) int64 {
	if user := auth.StoreFromContext(r.Context()).User(); user != nil {
		return user.OrganizationID
	}
	return 0
}

// ParseID reads a positive int64 URL parameter value.
func ParseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// FormError answers a failed form submission. Validation failures and backend
// rejections re-render the form named name with the operator's input; data
// receives the inline errors and returns the page data. Expired sessions and
// missing records go through HandleError.
func (b *Builder) FormError(w http.ResponseWriter, r *http.Request, err error, name, title, fallback string, data func(errs map[string]string) any) {
	if fields := shared.FieldErrors(err); fields != nil {
		b.Render(w, r, http.StatusBadRequest, name, title, data(fields))
		return
	}
	if SessionRejected(err) || errors.Is(err, gateway.ErrNotFound) {
		b.HandleError(w, r, err, fallback)
		return
	}
	status := http.StatusBadGateway
	if code := gateway.StatusOf(err); code >= 400 && code < 500 {
		status = http.StatusBadRequest
	} else {
		b.logger.Warn("form submission failed", slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	b.Render(w, r, status, name, title, data(map[string]string{"general": shared.UserSafeMessage(err)}))
}
