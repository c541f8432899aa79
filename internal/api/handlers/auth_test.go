package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/finn/cloudcost-dashboard/internal/domain"
	"github.com/finn/cloudcost-dashboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		request        map[string]string
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name: "successful registration",
			request: map[string]string{
				"name":     "New User",
				"email":    "new@example.com",
				"password": "password123",
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result testutil.AuthResponse
				testutil.AssertJSONResponse(t, resp, &result)
				assert.Equal(t, "new@example.com", result.User.Email)
				assert.Equal(t, domain.RoleUser, result.User.Role)
				assert.NotEmpty(t, result.Token)
			},
		},
		{
			name: "missing email",
			request: map[string]string{
				"name":     "No Email",
				"password": "password123",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing password",
			request: map[string]string{
				"name":  "No Password",
				"email": "nopass@example.com",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "seeded email already registered",
			request: map[string]string{
				"name":     "Imposter",
				"email":    "admin@cloudcost.com",
				"password": "password123",
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "empty request body",
			request:        map[string]string{},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := testutil.NewTestServer(t)

			body, _ := json.Marshal(tt.request)
			resp, err := http.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestAuthHandler_RegisterDuplicate(t *testing.T) {
	ts := testutil.NewTestServer(t)

	first := map[string]string{"name": "A", "email": "a@x.com", "password": "secret1"}
	body, _ := json.Marshal(first)
	resp, err := http.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Same email with different fields still collides.
	second := map[string]string{"name": "B", "email": "a@x.com", "password": "other"}
	body, _ = json.Marshal(second)
	resp, err = http.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusConflict, "Email already registered")
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		request        map[string]string
		expectedStatus int
	}{
		{
			name: "successful login",
			request: map[string]string{
				"email":    "admin@cloudcost.com",
				"password": "admin123",
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "wrong password",
			request: map[string]string{
				"email":    "admin@cloudcost.com",
				"password": "wrongpassword",
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "unknown email",
			request: map[string]string{
				"email":    "ghost@cloudcost.com",
				"password": "admin123",
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "email lookup is case sensitive",
			request: map[string]string{
				"email":    "Admin@cloudcost.com",
				"password": "admin123",
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing fields",
			request:        map[string]string{"email": "admin@cloudcost.com"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := testutil.NewTestServer(t)

			body, _ := json.Marshal(tt.request)
			resp, err := http.Post(ts.APIURL("/auth/login"), "application/json", bytes.NewBuffer(body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestAuthHandler_LoginDoesNotRevealEmailExistence(t *testing.T) {
	ts := testutil.NewTestServer(t)

	read := func(req map[string]string) string {
		body, _ := json.Marshal(req)
		resp, err := http.Post(ts.APIURL("/auth/login"), "application/json", bytes.NewBuffer(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		out := new(bytes.Buffer)
		_, _ = out.ReadFrom(resp.Body)
		return out.String()
	}

	wrongPassword := read(map[string]string{"email": "admin@cloudcost.com", "password": "nope"})
	unknownEmail := read(map[string]string{"email": "ghost@cloudcost.com", "password": "nope"})
	assert.Equal(t, wrongPassword, unknownEmail)
}

func TestAuthHandler_Me(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, token := testutil.NewUserBuilder().
		WithEmail("me@cloudcost.com").
		WithDepartment("Engineering").
		BuildAndAuthenticate(t, ts)

	resp := testutil.AuthenticatedRequest(t, http.MethodGet, ts.APIURL("/auth/me"), token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var profile domain.Profile
	testutil.AssertJSONResponse(t, resp, &profile)
	assert.Equal(t, user.ID, profile.ID)
	assert.Equal(t, "me@cloudcost.com", profile.Email)
	assert.Equal(t, "Engineering", profile.Department)
}

func TestAuthHandler_MeRejectsBadTokens(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		name  string
		token string
	}{
		{"no token", ""},
		{"garbage token", "garbage"},
		{"three junk segments", "a.b.c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.AuthenticatedRequest(t, http.MethodGet, ts.APIURL("/auth/me"), tt.token, nil)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	resp := testutil.AuthenticatedRequest(t, http.MethodPost, ts.APIURL("/auth/logout"), token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The session pair is gone, so the same token no longer authenticates.
	assert.Equal(t, 0, ts.Store.Len())
	after := testutil.AuthenticatedRequest(t, http.MethodGet, ts.APIURL("/auth/me"), token, nil)
	defer after.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, after.StatusCode)
}

func TestAuthHandler_UpdateProfile(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewUserBuilder().
		WithName("Before").
		WithDepartment("Finance").
		BuildAndAuthenticate(t, ts)

	resp := testutil.AuthenticatedRequest(t, http.MethodPut, ts.APIURL("/auth/profile"), token, map[string]string{
		"name": "After",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var profile domain.Profile
	testutil.AssertJSONResponse(t, resp, &profile)
	assert.Equal(t, "After", profile.Name)
	assert.Equal(t, "Finance", profile.Department)
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, token := testutil.NewUserBuilder().WithPassword("original1").BuildAndAuthenticate(t, ts)

	wrong := testutil.AuthenticatedRequest(t, http.MethodPost, ts.APIURL("/auth/password"), token, map[string]string{
		"currentPassword": "nope",
		"newPassword":     "updated1",
	})
	defer wrong.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, wrong.StatusCode)

	ok := testutil.AuthenticatedRequest(t, http.MethodPost, ts.APIURL("/auth/password"), token, map[string]string{
		"currentPassword": "original1",
		"newPassword":     "updated1",
	})
	defer ok.Body.Close()
	require.Equal(t, http.StatusOK, ok.StatusCode)

	// Old password no longer logs in; the new one does.
	body, _ := json.Marshal(map[string]string{"email": user.Email, "password": "original1"})
	resp, err := http.Post(ts.APIURL("/auth/login"), "application/json", bytes.NewBuffer(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, _ = json.Marshal(map[string]string{"email": user.Email, "password": "updated1"})
	resp, err = http.Post(ts.APIURL("/auth/login"), "application/json", bytes.NewBuffer(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthHandler_ResponsesNeverIncludePassword(t *testing.T) {
	ts := testutil.NewTestServer(t)

	body, _ := json.Marshal(map[string]string{
		"name":     "Leak Check",
		"email":    "leak@x.com",
		"password": "supersecret",
	})
	resp, err := http.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var raw map[string]any
	testutil.AssertJSONResponse(t, resp, &raw)
	user, ok := raw["user"].(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, user, "password")
}
