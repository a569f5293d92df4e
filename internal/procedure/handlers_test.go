package procedure

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pzepeda90/MedClock-sub002/pkg/config"
	"github.com/pzepeda90/MedClock-sub002/pkg/logger"
	"github.com/pzepeda90/MedClock-sub002/pkg/types"
)

const testSecret = "test-secret"

func setupTestService(t *testing.T) (*Service, *mux.Router) {
	t.Helper()
	cfg := &config.Config{
		JWT:      config.JWTConfig{SecretKey: testSecret, Issuer: "medclock-auth"},
		LogLevel: "error",
		Monitoring: config.MonitoringConfig{
			Enabled:    false,
			HealthPath: "/health",
		},
	}

	svc := New(cfg, logger.New("error"))
	router := mux.NewRouter()
	svc.setupRoutes(router)
	return svc, router
}

func mintToken(t *testing.T, staffID int, role string) string {
	t.Helper()
	claims := &sessionClaims{
		StaffID: staffID,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "medclock-auth",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func doRequest(router *mux.Router, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandlers_MissingTokenRejected(t *testing.T) {
	_, router := setupTestService(t)

	rec := doRequest(router, http.MethodGet, "/api/v1/procedures", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandlers_InvalidTokenRejected(t *testing.T) {
	_, router := setupTestService(t)

	rec := doRequest(router, http.MethodGet, "/api/v1/procedures", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandlers_CreateAndList(t *testing.T) {
	_, router := setupTestService(t)
	adminToken := mintToken(t, 1, "admin")

	rec := doRequest(router, http.MethodPost, "/api/v1/procedures", adminToken, testDraft(2))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created types.ProcedureRecord
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, 1, created.ID)

	rec = doRequest(router, http.MethodGet, "/api/v1/procedures", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var records []*types.ProcedureRecord
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&records))
	assert.Len(t, records, 1)
}

func TestHandlers_ListScopedByRole(t *testing.T) {
	svc, router := setupTestService(t)

	_, err := svc.store.Create(adminIdentity, testDraft(2))
	require.NoError(t, err)
	_, err = svc.store.Create(adminIdentity, testDraft(9))
	require.NoError(t, err)

	rec := doRequest(router, http.MethodGet, "/api/v1/procedures", mintToken(t, 2, "physician"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var records []*types.ProcedureRecord
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&records))
	require.Len(t, records, 1)
	assert.Equal(t, 2, records[0].AssignedStaffID)
}

func TestHandlers_ListWithQueryFilter(t *testing.T) {
	svc, router := setupTestService(t)

	scheduled := testDraft(2)
	indicated := testDraft(2)
	indicated.Status = types.StatusIndicated
	_, err := svc.store.Create(adminIdentity, scheduled)
	require.NoError(t, err)
	_, err = svc.store.Create(adminIdentity, indicated)
	require.NoError(t, err)

	rec := doRequest(router, http.MethodGet, "/api/v1/procedures?status=programado", mintToken(t, 1, "admin"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var records []*types.ProcedureRecord
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&records))
	require.Len(t, records, 1)
	assert.Equal(t, types.StatusScheduled, records[0].Status)
}

func TestHandlers_DeleteDeniedForReceptionist(t *testing.T) {
	svc, router := setupTestService(t)

	created, err := svc.store.Create(adminIdentity, testDraft(2))
	require.NoError(t, err)

	rec := doRequest(router, http.MethodDelete, "/api/v1/procedures/1", mintToken(t, 5, "recepcionista"), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	_, err = svc.store.Get(adminIdentity, created.ID)
	assert.NoError(t, err)
}

func TestHandlers_UpdateNotFound(t *testing.T) {
	_, router := setupTestService(t)

	rec := doRequest(router, http.MethodPut, "/api/v1/procedures/99", mintToken(t, 1, "admin"),
		&types.ProcedureUpdates{Note: "nota"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlers_CalendarEvents(t *testing.T) {
	svc, router := setupTestService(t)

	_, err := svc.store.Create(adminIdentity, testDraft(2))
	require.NoError(t, err)

	rec := doRequest(router, http.MethodGet, "/api/v1/calendar/events", mintToken(t, 7, "nurse"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var events []*types.CalendarEvent
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&events))
	require.Len(t, events, 1)
	assert.Equal(t, "procedure-1", events[0].ID)
}

func TestHandlers_Permissions(t *testing.T) {
	_, router := setupTestService(t)

	rec := doRequest(router, http.MethodGet, "/api/v1/permissions", mintToken(t, 7, "enfermera"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var caps map[string]bool
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&caps))
	assert.True(t, caps["view_all"])
	assert.False(t, caps["edit_any"])
	assert.False(t, caps["edit_own"])
}

func TestHandlers_HealthCheck(t *testing.T) {
	_, router := setupTestService(t)

	rec := doRequest(router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
