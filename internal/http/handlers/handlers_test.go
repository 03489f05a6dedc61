package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextwaveweb/salonbook/internal/auth"
	"github.com/nextwaveweb/salonbook/internal/business"
	"github.com/nextwaveweb/salonbook/internal/catalog"
	"github.com/nextwaveweb/salonbook/internal/tenancy"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusCreated, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestJSONError(t *testing.T) {
	rec := httptest.NewRecorder()
	jsonError(rec, "boom", http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"boom"}`, rec.Body.String())
}

func TestDecodeJSONInvalidBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	var dest struct{}
	ok := decodeJSON(rec, req, &dest)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid JSON body"}`, rec.Body.String())
}

func TestServicesGetListRequiresScope(t *testing.T) {
	handler := NewServicesHandler(catalog.NewInMemoryStore(), nil)

	req := httptest.NewRequest(http.MethodGet, "/services", nil)
	rec := httptest.NewRecorder()
	handler.GetList(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServicesGetList(t *testing.T) {
	menu := catalog.NewInMemoryStore()
	require.NoError(t, menu.Upsert(context.Background(), "biz-1", catalog.Service{
		Name: "Haircut", Price: 80, DurationMinutes: 30,
	}))
	require.NoError(t, menu.Upsert(context.Background(), "biz-2", catalog.Service{
		Name: "Color", Price: 240, DurationMinutes: 90,
	}))

	handler := NewServicesHandler(menu, nil)

	req := httptest.NewRequest(http.MethodGet, "/services", nil)
	req = req.WithContext(tenancy.WithBusinessID(req.Context(), "biz-1"))
	rec := httptest.NewRecorder()
	handler.GetList(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Services []catalog.Service `json:"services"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Services, 1)
	assert.Equal(t, "Haircut", resp.Services[0].Name)
	assert.Equal(t, 80.0, resp.Services[0].Price)
}

func TestPostLoginDisabledWithoutSecret(t *testing.T) {
	handler := NewAuthHandler(business.NewInMemoryStore(), "", 0, nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"slug":"glow","password":"x"}`))
	rec := httptest.NewRecorder()
	handler.PostLogin(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPostLogin(t *testing.T) {
	hash, err := auth.HashPassword("hunter2")
	require.NoError(t, err)

	businesses := business.NewInMemoryStore()
	biz := &business.Business{Slug: "glow", Name: "Glow", PasswordHash: hash}
	require.NoError(t, businesses.Create(context.Background(), biz))

	handler := NewAuthHandler(businesses, "test-secret", 0, nil)

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{name: "valid credentials", body: `{"slug":"glow","password":"hunter2"}`, wantCode: http.StatusOK},
		{name: "wrong password", body: `{"slug":"glow","password":"letmein"}`, wantCode: http.StatusUnauthorized},
		{name: "unknown slug", body: `{"slug":"nope","password":"hunter2"}`, wantCode: http.StatusUnauthorized},
		{name: "missing fields", body: `{"slug":"glow"}`, wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.PostLogin(rec, req)

			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode != http.StatusOK {
				return
			}

			var resp struct {
				Token      string `json:"token"`
				BusinessID string `json:"business_id"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, biz.ID, resp.BusinessID)

			subject, err := auth.ParseAdminToken("test-secret", resp.Token)
			require.NoError(t, err)
			assert.Equal(t, biz.ID, subject)
		})
	}
}
