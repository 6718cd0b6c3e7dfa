package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nexstock/nexstock-console/internal/gateway"
	"github.com/nexstock/nexstock-console/internal/shared"
	"github.com/nexstock/nexstock-console/internal/view"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	templates      *view.Engine
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, templates *view.Engine, sessions *shared.SessionManager, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:         logger,
		templates:      templates,
		sessionManager: sessions,
		csrfManager:    csrf,
	}
}

// MountPublicRoutes registers the pages only anonymous visitors may see.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Get("/login", h.showLogin)
	r.Post("/login", h.handleLogin)
	r.Get("/register", h.showRegister)
	r.Post("/register", h.handleRegister)
}

// MountProtectedRoutes registers the signed-in endpoints.
func (h *Handler) MountProtectedRoutes(r chi.Router) {
	r.Post("/logout", h.handleLogout)
}

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type loginPageData struct {
	Form   loginForm
	Next   string
	Errors map[string]string
}

type registerPageData struct {
	Form   RegistrationInput
	Errors map[string]string
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	data := loginPageData{Next: shared.SafeNext(r.URL.Query().Get("next"))}
	h.render(w, r, http.StatusOK, "Sign in", "pages/auth/login.html", data)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := loginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	data := loginPageData{Form: form, Next: shared.SafeNext(r.PostFormValue("next"))}
	data.Form.Password = ""

	if fields := shared.FieldErrors(shared.FromValidator(validate.Struct(form), loginFields)); len(fields) > 0 {
		data.Errors = fields
		h.render(w, r, http.StatusBadRequest, "Sign in", "pages/auth/login.html", data)
		return
	}

	store := StoreFromContext(r.Context())
	if store == nil {
		h.logger.Error("auth store missing during login")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if err := store.Login(r.Context(), form.Email, form.Password); err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, shared.ErrInvalidCredentials) {
			status = http.StatusBadRequest
		} else {
			h.logger.Warn("login failed", slog.Any("error", err))
		}
		data.Errors = map[string]string{"general": shared.UserSafeMessage(err)}
		h.render(w, r, status, "Sign in", "pages/auth/login.html", data)
		return
	}

	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		h.sessionManager.Renew(sess)
		if _, err := h.csrfManager.Rotate(r.Context(), sess); err != nil {
			h.logger.Warn("rotate csrf token", slog.Any("error", err))
		}
		sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Welcome back"})
	}
	http.Redirect(w, r, data.Next, http.StatusSeeOther)
}

func (h *Handler) showRegister(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "Create account", "pages/auth/register.html", registerPageData{})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	input := RegistrationInput{
		OrganizationName: strings.TrimSpace(r.PostFormValue("organizationName")),
		AdminName:        strings.TrimSpace(r.PostFormValue("adminName")),
		Email:            strings.TrimSpace(r.PostFormValue("email")),
		Password:         r.PostFormValue("password"),
		ContactPhone:     strings.TrimSpace(r.PostFormValue("contactPhone")),
		Address:          strings.TrimSpace(r.PostFormValue("address")),
	}
	data := registerPageData{Form: input}
	data.Form.Password = ""

	errs := shared.FieldErrors(input.Validate())
	if errs == nil {
		errs = map[string]string{}
	}
	if confirm := r.PostFormValue("confirmPassword"); confirm != input.Password {
		if _, ok := errs["confirmPassword"]; !ok {
			errs["confirmPassword"] = "Passwords do not match"
		}
	}
	if len(errs) > 0 {
		data.Errors = errs
		h.render(w, r, http.StatusBadRequest, "Create account", "pages/auth/register.html", data)
		return
	}

	store := StoreFromContext(r.Context())
	if store == nil {
		h.logger.Error("auth store missing during registration")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if err := store.Register(r.Context(), input); err != nil {
		h.logger.Warn("registration failed", slog.Any("error", err))
		status := http.StatusBadGateway
		if fields := shared.FieldErrors(err); fields != nil {
			data.Errors = fields
			status = http.StatusBadRequest
		} else {
			if gateway.StatusOf(err) >= 400 && gateway.StatusOf(err) < 500 {
				status = http.StatusBadRequest
			}
			data.Errors = map[string]string{"general": shared.UserSafeMessage(err)}
		}
		h.render(w, r, status, "Create account", "pages/auth/register.html", data)
		return
	}

	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Registration successful, please sign in"})
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if store := StoreFromContext(r.Context()); store != nil {
		store.Logout()
	}
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		h.sessionManager.Renew(sess)
		if _, err := h.csrfManager.Rotate(r.Context(), sess); err != nil {
			h.logger.Warn("rotate csrf token", slog.Any("error", err))
		}
		sess.AddFlash(shared.FlashMessage{Kind: "info", Message: "You have been signed out"})
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, title, name string, data any) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, err := h.csrfManager.EnsureToken(r.Context(), sess)
	if err != nil {
		h.logger.Warn("ensure csrf token", slog.Any("error", err))
	}
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if err := h.templates.Render(w, status, name, viewData); err != nil {
		h.logger.Error("render auth page", slog.String("template", name), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

var loginFields = map[string]string{"Email": "email", "Password": "password"}
