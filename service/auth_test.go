package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankportal/backend"
	"bankportal/models"
	"bankportal/session"
)

func newAuthService(t *testing.T, h http.Handler) (*AuthService, *session.Store) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	sessions := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	return NewAuthService(backend.NewClient(srv.URL), sessions), sessions
}

func loginOK(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"user": map[string]any{
		"id": "u-77", "firstName": "Jo", "lastName": "User", "email": "jo@auth", "role": "CUSTOMER", "isActive": true,
	}})
}

func TestLoginEnrichesCustomerIdentity(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", loginOK)
	mux.HandleFunc("GET /customers/SSN1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"ssnId":         "SSN1",
			"customerName":  "John Q Public",
			"email":         "john@bank.com",
			"accountNumber": "ACC1",
			"accountType":   "Current",
			"address":       "12 Main Street",
			"city":          "Mumbai",
			"balance":       10,
		})
	})
	mux.HandleFunc("GET /accounts/ACC1/balance", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"balance": 777})
	})
	svc, sessions := newAuthService(t, mux)

	user, err := svc.Login(context.Background(), models.LoginRequest{
		Identifier: "SSN1", Password: "pw", Role: "customer",
	})
	require.NoError(t, err)

	assert.Equal(t, "SSN1", user.ID, "id realigns to the SSN dashboards query by")
	assert.Equal(t, "SSN1", user.SSN)
	assert.Equal(t, "John", user.FirstName)
	assert.Equal(t, "Q Public", user.LastName)
	assert.Equal(t, "john@bank.com", user.Email)
	assert.Equal(t, "ACC1", user.AccountNo)
	assert.Equal(t, models.AccountCurrent, user.AccountType)
	assert.True(t, user.Balance.Equal(dec(777)), "balance hydrated from account-service")
	assert.True(t, sessions.Enriched())
}

func TestLoginEnrichmentFailureFallsBackToBasic(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", loginOK)
	mux.HandleFunc("GET /customers/SSN1", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "customer-service down", http.StatusInternalServerError)
	})
	svc, sessions := newAuthService(t, mux)

	user, err := svc.Login(context.Background(), models.LoginRequest{
		Identifier: "SSN1", Password: "pw", Role: "customer",
	})
	require.NoError(t, err, "enrichment failure never blocks login")
	assert.Equal(t, "SSN1", user.ID)
	assert.Equal(t, "Jo", user.FirstName)

	stored, ok := sessions.Current()
	require.True(t, ok)
	assert.False(t, sessions.Enriched())
	assert.Equal(t, "SSN1", stored.SSN)
}

func TestLoginNonCustomerSkipsEnrichment(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"user": map[string]any{"id": "EMP1", "role": "EMPLOYEE"}})
	})
	svc, sessions := newAuthService(t, mux)

	user, err := svc.Login(context.Background(), models.LoginRequest{
		Identifier: "EMP1", Password: "pw", Role: "employee",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleEmployee, user.Role)
	assert.True(t, sessions.HasRole(models.RoleEmployee))
	assert.False(t, sessions.Enriched())
}

func TestLoginFailureLeavesSessionAnonymous(t *testing.T) {
	svc, sessions := newAuthService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))

	_, err := svc.Login(context.Background(), models.LoginRequest{Identifier: "SSN1", Password: "no", Role: "customer"})
	require.Error(t, err)
	_, ok := sessions.Current()
	assert.False(t, ok)
}

func TestLogoutClearsLocallyDespiteBackendFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "session store down", http.StatusInternalServerError)
	})
	svc, sessions := newAuthService(t, mux)
	sessions.SetBasic(models.User{ID: "SSN1", Role: models.RoleCustomer})

	svc.Logout()

	_, ok := sessions.Current()
	assert.False(t, ok, "local state clears regardless of the notification outcome")
}

func TestRestoreReenrichesPersistedCustomer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /customers/SSN1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"ssnId": "SSN1", "customerName": "John Q Public", "accountNumber": "ACC1",
		})
	})
	mux.HandleFunc("GET /accounts/ACC1/balance", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"balance": 321})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "session.json")
	previous := session.NewStore(path)
	previous.SetBasic(models.User{ID: "SSN1", SSN: "SSN1", Role: models.RoleCustomer})

	sessions := session.NewStore(path)
	svc := NewAuthService(backend.NewClient(srv.URL), sessions)
	svc.Restore(context.Background())

	user, ok := sessions.Current()
	require.True(t, ok)
	assert.True(t, sessions.Enriched())
	assert.Equal(t, "ACC1", user.AccountNo)
	assert.True(t, user.Balance.Equal(dec(321)))
}

func TestRestoreKeepsBasicWhenEnrichmentFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "session.json")
	previous := session.NewStore(path)
	previous.SetBasic(models.User{ID: "SSN1", SSN: "SSN1", Role: models.RoleCustomer})

	sessions := session.NewStore(path)
	svc := NewAuthService(backend.NewClient(srv.URL), sessions)
	svc.Restore(context.Background())

	user, ok := sessions.Current()
	require.True(t, ok, "stale identity is accepted without re-validation")
	assert.False(t, sessions.Enriched())
	assert.Equal(t, "SSN1", user.SSN)
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"user": map[string]any{"id": "u-9", "firstName": "New", "role": "CUSTOMER"}})
	})
	svc, sessions := newAuthService(t, mux)

	user, err := svc.Register(context.Background(), models.Registration{
		SSN: "SSN9", FirstName: "New", Email: "n@x", Password: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, "SSN9", user.SSN)

	// Registration does not log anyone in.
	_, ok := sessions.Current()
	assert.False(t, ok)
}
