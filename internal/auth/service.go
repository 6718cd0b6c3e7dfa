package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/nexstock/nexstock-console/internal/gateway"
	"github.com/nexstock/nexstock-console/internal/shared"
)

// Authenticator performs the backend side of login and registration.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (Credentials, error)
	Register(ctx context.Context, in RegistrationInput) error
}

// Service talks to the backend /auth endpoints.
type Service struct {
	client *gateway.Client
}

// NewService constructs a new Service.
func NewService(client *gateway.Client) *Service {
	return &Service{client: client}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token            string `json:"token"`
	UserID           int64  `json:"userId"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	OrganizationID   int64  `json:"organizationId"`
	OrganizationName string `json:"organizationName"`
}

type registrationRequest struct {
	OrganizationName string `json:"organizationName"`
	ContactEmail     string `json:"contactEmail"`
	ContactPhone     string `json:"contactPhone,omitempty"`
	Address          string `json:"address,omitempty"`
	AdminFirstName   string `json:"adminFirstName"`
	AdminLastName    string `json:"adminLastName"`
	AdminEmail       string `json:"adminEmail"`
	Password         string `json:"password"`
}

// Login exchanges credentials for a bearer token. A rejection by the backend
// wraps shared.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (Credentials, error) {
	var resp authResponse
	err := s.client.Post(ctx, "/auth/login", loginRequest{Email: strings.TrimSpace(email), Password: password}, &resp)
	if err != nil {
		if isCredentialRejection(err) {
			return Credentials{}, fmt.Errorf("%w: %w", shared.ErrInvalidCredentials, err)
		}
		return Credentials{}, err
	}
	if resp.Token == "" {
		return Credentials{}, fmt.Errorf("%w: login response without token", gateway.ErrServer)
	}
	userEmail := resp.Email
	if userEmail == "" {
		userEmail = strings.TrimSpace(email)
	}
	return Credentials{
		Token: resp.Token,
		User: User{
			Email:          userEmail,
			Role:           ParseRole(resp.Role),
			OrganizationID: resp.OrganizationID,
		},
	}, nil
}

// Register creates the organization and its admin. The returned token is
// discarded; registration never signs the user in.
func (s *Service) Register(ctx context.Context, in RegistrationInput) error {
	first, last := splitName(in.AdminName)
	email := strings.TrimSpace(in.Email)
	req := registrationRequest{
		OrganizationName: strings.TrimSpace(in.OrganizationName),
		ContactEmail:     email,
		ContactPhone:     strings.TrimSpace(in.ContactPhone),
		Address:          strings.TrimSpace(in.Address),
		AdminFirstName:   first,
		AdminLastName:    last,
		AdminEmail:       email,
		Password:         in.Password,
	}
	return s.client.Post(ctx, "/auth/register", req, nil)
}

// The backend reports bad credentials as 401, or as 400/403 depending on
// which security filter rejects them.
func isCredentialRejection(err error) bool {
	if errors.Is(err, gateway.ErrUnauthorized) {
		return true
	}
	return gateway.StatusOf(err) == http.StatusBadRequest
}
