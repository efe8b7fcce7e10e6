package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/memberdir/apiserver/config"
	"github.com/memberdir/apiserver/internal/services"
	"github.com/memberdir/apiserver/internal/store"
	"github.com/memberdir/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

const testSchema = `
CREATE TABLE members (
    member_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL,
    phone TEXT NOT NULL
);

CREATE TABLE users (
    username TEXT PRIMARY KEY,
    password_hash TEXT NOT NULL,
    access_rights INTEGER NOT NULL DEFAULT 0
);`

// newTestServer builds a Server over a throwaway sqlite database with
// one provisioned account per access tier.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "memberdir_test.db")

	setup, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = setup.Exec(testSchema)
	require.NoError(t, err)

	authService := services.NewAuthService(store.NewCredentialRepository(setup, "sqlite"))
	for username, tier := range map[string]int{
		"none_user":   types.AccessNone,
		"read_user":   types.AccessRead,
		"write_user":  types.AccessWrite,
		"delete_user": types.AccessDelete,
	} {
		require.NoError(t, authService.Provision(context.Background(), username, "password", tier))
	}
	require.NoError(t, setup.Close())

	cfg := config.Config{
		JWTSecret:       "test-secret",
		JWTTTLHours:     1,
		DuplicatePolicy: config.DuplicateReject,
		Database: config.DatabaseConfig{
			Driver:     config.DriverSQLite,
			SQLitePath: dbPath,
		},
	}

	srv, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = srv.db.Close()
	})
	return srv
}

func (s *Server) request(t *testing.T, method, path, bearer, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	recorder := httptest.NewRecorder()
	s.Router().ServeHTTP(recorder, req)
	return recorder
}

func login(t *testing.T, srv *Server, username string) string {
	t.Helper()

	recorder := srv.request(t, http.MethodPost, "/login", "",
		`{"username":"`+username+`","password":"password"}`)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func TestServerRequiresJWTSecret(t *testing.T) {
	_, err := New(context.Background(), config.Config{})
	assert.Error(t, err)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	recorder := srv.request(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestMemberLifecycle(t *testing.T) {
	srv := newTestServer(t)

	writeToken := login(t, srv, "write_user")
	recorder := srv.request(t, http.MethodPut, "/", writeToken,
		`{"name":"foobar","email":"foo@bar.baz","phone":"8001234567"}`)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	// Same name again is a conflict.
	recorder = srv.request(t, http.MethodPut, "/", writeToken,
		`{"name":"foobar","email":"other@bar.baz","phone":"8009994567"}`)
	assert.Equal(t, http.StatusConflict, recorder.Code)

	readToken := login(t, srv, "read_user")
	recorder = srv.request(t, http.MethodGet, "/", readToken, `{"memberID": 1}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var member types.Member
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &member))
	assert.Equal(t, "foobar", member.Name)
	assert.Equal(t, "foo@bar.baz", member.Email)
	assert.Equal(t, "8001234567", member.Phone)

	// Writers cannot delete.
	recorder = srv.request(t, http.MethodDelete, "/", writeToken, `{"memberID": 1}`)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Access Denied")

	deleteToken := login(t, srv, "delete_user")
	recorder = srv.request(t, http.MethodDelete, "/", deleteToken, `{"memberID": 1}`)
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = srv.request(t, http.MethodDelete, "/", deleteToken, `{"memberID": 1}`)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestTierZeroCannotRead(t *testing.T) {
	srv := newTestServer(t)

	noneToken := login(t, srv, "none_user")
	recorder := srv.request(t, http.MethodGet, "/", noneToken, `{"memberID": 1}`)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Access Denied")
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	srv := newTestServer(t)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		recorder := srv.request(t, method, "/", "", `{"memberID": 1}`)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code, method)
	}
}
