package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sqltester/internal/app/service"
	"sqltester/internal/common"
	"sqltester/internal/common/security"
	"sqltester/internal/domain/model"
	"sqltester/internal/platform/config"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserRepo struct {
	user *model.User
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	if r.user != nil && r.user.Username == username {
		cp := *r.user
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

func (r *stubUserRepo) FindByUsernameAndRole(_ context.Context, username, role string) (*model.User, error) {
	if r.user != nil && r.user.Username == username && r.user.Role == role {
		cp := *r.user
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*model.User, error) {
	if r.user != nil && r.user.ID == id {
		cp := *r.user
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

func setupLogin(t *testing.T) http.Handler {
	t.Helper()

	config.AppConfig = &config.Config{JWTKey: []byte("test-secret"), JWTExp: time.Hour}
	security.InitJWT()

	hash, err := security.HashPassword("secret")
	require.NoError(t, err)

	authService := service.NewAuthService(&stubUserRepo{user: &model.User{
		ID: 1, Username: "alice", PasswordHash: hash, Role: model.RoleUser,
	}})

	r := chi.NewRouter()
	NewAuthHandler(authService).RegisterRoutes(r)
	return r
}

func postJSON(t *testing.T, h http.Handler, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestLoginHandler(t *testing.T) {
	h := setupLogin(t)

	t.Run("success", func(t *testing.T) {
		rec := postJSON(t, h, "/auth/login", service.LoginRequest{
			Username: "alice", Password: "secret", Role: "User",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp service.AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "alice", resp.User.Username)
	})

	t.Run("bad credentials", func(t *testing.T) {
		rec := postJSON(t, h, "/auth/login", service.LoginRequest{
			Username: "alice", Password: "wrong", Role: "User",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed payload", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader([]byte("{")))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
