package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/consistency/internal/dates"
	apperrors "github.com/julianstephens/consistency/internal/errors"
	"github.com/julianstephens/consistency/internal/models"
	"github.com/julianstephens/consistency/internal/server"
	"github.com/julianstephens/consistency/internal/tracker"
)

type MockStore struct {
	doc      *models.Document
	failSave bool
}

func (m *MockStore) Init(ctx context.Context) error { return nil }
func (m *MockStore) Close() error                   { return nil }
func (m *MockStore) GetConfigPath() string          { return "memory" }
func (m *MockStore) Kind() string                   { return "memory" }

func (m *MockStore) Load(ctx context.Context) (*models.Document, error) {
	if m.doc == nil {
		return models.NewDocument(), nil
	}
	return m.doc.Clone(), nil
}

func (m *MockStore) Save(ctx context.Context, doc *models.Document) error {
	if m.failSave {
		return errors.Join(apperrors.ErrStoreUnavailable, errors.New("read-only file system"))
	}
	m.doc = doc.Clone()
	return nil
}

func setupRouter(t *testing.T) (*gin.Engine, *MockStore) {
	gin.SetMode(gin.TestMode)

	store := &MockStore{}
	clock := dates.NewFixedClock(time.Date(2024, 1, 15, 12, 0, 0, 0, time.Local))
	engine, err := tracker.Open(context.Background(), store, tracker.WithClock(clock))
	require.NoError(t, err)

	return server.NewRouter(server.RouterDependencies{Engine: engine, StartTime: time.Now()}), store
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router, _ := setupRouter(t)

	w := do(router, "GET", "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.Contains(t, w.Body.String(), `"store":"memory"`)
}

func TestCreateActivity(t *testing.T) {
	t.Run("Success: 201 Created", func(t *testing.T) {
		router, store := setupRouter(t)

		w := do(router, "POST", "/api/v1/activities", `{"name": "Coding", "icon": "💻"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"Coding"`)
		assert.Contains(t, w.Body.String(), `"status":"not_started"`)
		assert.Contains(t, store.doc.Activities, "Coding")
	})

	t.Run("Fail: 409 Conflict (Duplicate)", func(t *testing.T) {
		router, _ := setupRouter(t)
		do(router, "POST", "/api/v1/activities", `{"name": "Coding"}`)

		w := do(router, "POST", "/api/v1/activities", `{"name": "Coding"}`)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Fail: 400 Bad Request (Missing name)", func(t *testing.T) {
		router, _ := setupRouter(t)

		w := do(router, "POST", "/api/v1/activities", `{"icon": "💻"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: 400 Bad Request (Blank name)", func(t *testing.T) {
		router, _ := setupRouter(t)

		w := do(router, "POST", "/api/v1/activities", `{"name": "   "}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: 503 Service Unavailable (Store down)", func(t *testing.T) {
		router, store := setupRouter(t)
		store.failSave = true

		w := do(router, "POST", "/api/v1/activities", `{"name": "Coding"}`)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestCheckIn(t *testing.T) {
	router, _ := setupRouter(t)
	do(router, "POST", "/api/v1/activities", `{"name": "Coding"}`)

	w := do(router, "POST", "/api/v1/activities/Coding/checkin", "")
	require.Equal(t, http.StatusCreated, w.Code)

	var res tracker.CheckInResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Current)
	assert.Equal(t, 1, res.Longest)
	assert.Len(t, res.NewBadges, 1)

	w = do(router, "POST", "/api/v1/activities/Coding/checkin", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"already_checked_in":true`)

	w = do(router, "POST", "/api/v1/activities/Coding/checkin", `{"date": "2024-01-14"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"current":2`)

	w = do(router, "POST", "/api/v1/activities/Coding/checkin", `{"date": "yesterday"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, "POST", "/api/v1/activities/Nope/checkin", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListAndDelete(t *testing.T) {
	router, _ := setupRouter(t)
	do(router, "POST", "/api/v1/activities", `{"name": "Reading"}`)
	do(router, "POST", "/api/v1/activities", `{"name": "Coding"}`)
	do(router, "POST", "/api/v1/activities/Coding/checkin", "")

	w := do(router, "GET", "/api/v1/activities", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list []tracker.ActivityStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Coding", list[0].Name)
	assert.Equal(t, "Reading", list[1].Name)

	w = do(router, "GET", "/api/v1/activities/Reading", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(router, "DELETE", "/api/v1/activities/Coding", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(router, "DELETE", "/api/v1/activities/Coding", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(router, "GET", "/api/v1/badges", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"activity":"Coding"`)
	assert.Contains(t, w.Body.String(), `"retired":true`)
}

func TestReminders(t *testing.T) {
	router, _ := setupRouter(t)

	w := do(router, "GET", "/api/v1/reminders", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"morning":"09:00"`)

	w = do(router, "PUT", "/api/v1/reminders", `{"morning": "07:15", "enabled": false}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var settings models.ReminderSettings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	assert.False(t, settings.Enabled)
	assert.Equal(t, "07:15", settings.Times.Morning)
	assert.Equal(t, "20:00", settings.Times.Evening)

	w = do(router, "PUT", "/api/v1/reminders", `{"evening": "late"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSharedStoreWrites(t *testing.T) {
	router, store := setupRouter(t)

	cli, err := tracker.Open(context.Background(), store)
	require.NoError(t, err)
	require.NoError(t, cli.AddActivity(context.Background(), "Coding", models.Metadata{}))

	w := do(router, "GET", "/api/v1/activities", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Coding"`)

	w = do(router, "POST", "/api/v1/activities", `{"name": "Reading"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	doc, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Coding", "Reading"}, doc.Names())
}
