package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certificados/internal/service"
	"certificados/pkg/config"
)

func newTestAuthService() *service.AuthService {
	return service.NewAuthService(config.SecurityConfig{
		AdminPassword: "s3cret",
		SessionSecret: "signing",
		SessionTTL:    time.Hour,
	}, nil, nil, nil)
}

func TestAuthHandlerLoginSuccess(t *testing.T) {
	handler := NewAuthHandler(newTestAuthService())

	rec := postJSON(t, handler.Login, "/admin/login", `{"password":"s3cret"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "session_token")
}

func TestAuthHandlerLoginWrongPassword(t *testing.T) {
	handler := NewAuthHandler(newTestAuthService())

	rec := postJSON(t, handler.Login, "/admin/login", `{"password":"nope"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandlerLoginInvalidPayload(t *testing.T) {
	handler := NewAuthHandler(newTestAuthService())

	rec := postJSON(t, handler.Login, "/admin/login", `not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandlerLogoutWithoutToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(newTestAuthService())

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/admin/logout", nil)

	handler.Logout(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandlerLogoutRevokesSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newTestAuthService()
	handler := NewAuthHandler(svc)

	rec := postJSON(t, handler.Login, "/admin/login", `{"password":"s3cret"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			SessionToken string `json:"session_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	token := envelope.Data.SessionToken
	require.NotEmpty(t, token)

	logoutRec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(logoutRec)
	c.Request = httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	c.Request.Header.Set("Authorization", "Bearer "+token)

	handler.Logout(c)
	assert.Equal(t, http.StatusNoContent, logoutRec.Code)

	_, err := svc.ValidateToken(c.Request.Context(), token)
	assert.Error(t, err)
}
