package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/config"
)

func setupAuthController(t *testing.T) *gin.Engine {
	t.Helper()
	service, db := setupService(t, config.AuthModeLocal)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	cfg := testAuthConfig(config.AuthModeLocal)
	cfg.MaxLoginAttempts = 2
	sm, err := NewSessionManager(sqlDB, config.DatabaseDriverSQLite, cfg)
	require.NoError(t, err)
	rl := NewRateLimiter(cfg)
	t.Cleanup(rl.Stop)

	router := gin.New()
	router.Use(sm.SessionLoadSave())
	NewAuthController(service, sm, rl).RegisterRoutes(router.Group("/api/auth"))
	return router
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestAuthController_Register(t *testing.T) {
	router := setupAuthController(t)

	rr := postJSON(router, "/api/auth/register", gin.H{"name": "Eka", "email": "eka@example.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "eka@example.com", resp.User.Email)
	assert.Equal(t, "E", resp.User.Avatar)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, rr.Result().Cookies())

	rr = postJSON(router, "/api/auth/register", gin.H{"name": "Eka", "email": "eka@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = postJSON(router, "/api/auth/register", gin.H{"name": "Eka", "email": "eka2@example.com", "password": "123"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAuthController_Login(t *testing.T) {
	router := setupAuthController(t)

	rr := postJSON(router, "/api/auth/register", gin.H{"name": "Fajar", "email": "fajar@example.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = postJSON(router, "/api/auth/login", gin.H{"email": "fajar@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.User.Settings)
	assert.True(t, resp.User.Settings.DailyReminders)
	assert.False(t, resp.User.Settings.PushEnabled)
}

func TestAuthController_Login_RateLimited(t *testing.T) {
	router := setupAuthController(t)

	for i := 0; i < 2; i++ {
		rr := postJSON(router, "/api/auth/login", gin.H{"email": "nobody@example.com", "password": "wrong-pass"})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	}

	rr := postJSON(router, "/api/auth/login", gin.H{"email": "nobody@example.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
}

func TestAuthController_Logout(t *testing.T) {
	router := setupAuthController(t)

	rr := postJSON(router, "/api/auth/logout", gin.H{})
	assert.Equal(t, http.StatusOK, rr.Code)
}
