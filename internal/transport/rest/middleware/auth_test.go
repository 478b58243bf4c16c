package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"govtrack/internal/model"

	"github.com/stretchr/testify/assert"
)

type stubValidator map[string]*model.UserClaims

func (s stubValidator) ValidateToken(token string) (*model.UserClaims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, errors.New("bad token")
}

var tokens = stubValidator{
	"user":  {UserID: "u1", Role: model.RoleUser},
	"admin": {UserID: "a1", Role: model.RoleAdmin},
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(GetUserID(r.Context())))
}

func serve(h http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRequireUser(t *testing.T) {
	h := NewAuthMiddleware(tokens).RequireUser(http.HandlerFunc(echoUser))

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"valid", "Bearer user", http.StatusOK, "u1"},
		{"case-insensitive scheme", "bearer user", http.StatusOK, "u1"},
		{"missing", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic user", http.StatusUnauthorized, ""},
		{"invalid", "Bearer nope", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, tt.header)
			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestOptionalUser(t *testing.T) {
	h := NewAuthMiddleware(tokens).OptionalUser(http.HandlerFunc(echoUser))

	assert.Equal(t, "u1", serve(h, "Bearer user").Body.String())

	rec := serve(h, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = serve(h, "Bearer nope")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestRequireAdmin(t *testing.T) {
	h := NewAuthMiddleware(tokens).RequireAdmin(http.HandlerFunc(echoUser))

	assert.Equal(t, http.StatusOK, serve(h, "Bearer admin").Code)
	assert.Equal(t, http.StatusForbidden, serve(h, "Bearer user").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(h, "").Code)
}

func TestGetClaims(t *testing.T) {
	h := NewAuthMiddleware(tokens).RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetClaims(r.Context())
		assert.NotNil(t, claims)
		assert.Equal(t, model.RoleAdmin, claims.Role)
	}))
	serve(h, "Bearer admin")

	assert.Nil(t, GetClaims(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}
