package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/finn/cloudcost-dashboard/internal/domain"
	"github.com/google/uuid"
)

// UserBuilder creates test users with a builder pattern.
type UserBuilder struct {
	name       string
	email      string
	password   string
	role       domain.Role
	department string
}

// NewUserBuilder creates a new UserBuilder with default values.
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		name:     "Test User",
		email:    fmt.Sprintf("test_%s@cloudcost.com", suffix),
		password: "testpassword123",
		role:     domain.RoleUser,
	}
}

func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.name = name
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

func (b *UserBuilder) WithRole(role domain.Role) *UserBuilder {
	b.role = role
	return b
}

func (b *UserBuilder) WithDepartment(department string) *UserBuilder {
	b.department = department
	return b
}

// Build adds the user to the roster and returns it with the raw password.
func (b *UserBuilder) Build(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	user := &domain.User{
		ID:         "user_test_" + uuid.New().String()[:8],
		Name:       b.name,
		Email:      b.email,
		Password:   b.password,
		Role:       b.role,
		Department: b.department,
	}
	ts.Directory.Add(user)
	return user, b.password
}

// AuthResponse matches the API auth response.
type AuthResponse struct {
	User  domain.Profile `json:"user"`
	Token string         `json:"token"`
}

// BuildAndAuthenticate adds the user to the roster, logs in through the API
// and returns the user together with its session token.
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	user, password := b.Build(t, ts)

	body, _ := json.Marshal(map[string]string{
		"email":    user.Email,
		"password": password,
	})
	resp, err := http.Post(ts.APIURL("/auth/login"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to login test user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login for %s returned status %d", user.Email, resp.StatusCode)
	}

	var auth AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		t.Fatalf("failed to decode auth response: %v", err)
	}

	return user, auth.Token
}

// AuthenticatedRequest performs an HTTP request with a bearer token.
func AuthenticatedRequest(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}
