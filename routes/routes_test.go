package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"salonpro-api/models"
	"salonpro-api/repository"
	"salonpro-api/services"
	"salonpro-api/utils"
)

type inlineQueue struct{}

func (inlineQueue) Enqueue(task services.Task) bool {
	_ = task.Run(context.Background())
	return true
}

func newTestRouter(t *testing.T, store *repository.Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, utils.RegisterValidators())

	logger := slog.New(tint.NewHandler(io.Discard, nil))
	auth := services.NewAuthService(store, utils.NewTokenManager("test-secret", time.Hour), logger)
	if err := auth.EnsureAdmin(context.Background(), "owner", "s3cret-pass", "Owner"); err != nil {
		require.ErrorIs(t, err, services.ErrNotConfigured)
	}

	return SetupRouter(Dependencies{
		Logger:         logger,
		AllowedOrigins: []string{"http://localhost:3000"},
		LoginLimiter:   utils.NewRateLimiter(100, 100),
		Health:         store,
		Auth:           auth,
		Dashboard:      services.NewDashboardService(store, 3, time.UTC, logger),
		Feedback:       services.NewFeedbackService(store, services.NewLoyaltyUpdater(store, logger), inlineQueue{}, logger),
		Treatments:     services.NewTreatmentService(store, time.UTC, logger),
		Catalog:        services.NewCatalogService(store, logger),
		Reports:        services.NewReportService(store, time.UTC, logger),
		Reminders:      services.NewReminderService(store, services.LogSender{Logger: logger}, 3, logger),
	})
}

func newSQLiteStore(t *testing.T) *repository.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent), TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, models.AutoMigrate(db))
	return repository.New(db)
}

func doJSON(r http.Handler, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r http.Handler) *http.Cookie {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/auth/login", gin.H{"username": "owner", "password": "s3cret-pass"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	for _, c := range w.Result().Cookies() {
		if c.Name == utils.SessionCookieName {
			assert.True(t, c.HttpOnly)
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestAuthFlow(t *testing.T) {
	r := newTestRouter(t, newSQLiteStore(t))

	w := doJSON(r, http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `false`, jsonField(t, w, "authenticated"))

	w = doJSON(r, http.MethodPost, "/auth/login", gin.H{"username": "owner", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	cookie := login(t, r)
	w = doJSON(r, http.MethodGet, "/auth/me", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var me struct {
		Success       bool              `json:"success"`
		Authenticated bool              `json:"authenticated"`
		User          utils.SessionUser `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.True(t, me.Success)
	assert.True(t, me.Authenticated)
	assert.Equal(t, models.RoleAdmin, me.User.Role)

	w = doJSON(r, http.MethodPost, "/auth/logout", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	cleared := w.Result().Cookies()
	require.NotEmpty(t, cleared)
	assert.Equal(t, "", cleared[0].Value)
}

func jsonField(t *testing.T, w *httptest.ResponseRecorder, key string) string {
	t.Helper()
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return string(body[key])
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	r := newTestRouter(t, newSQLiteStore(t))
	for _, path := range []string{"/api/dashboard-summary", "/api/treatments", "/api/customers", "/api/feedback", "/api/reports"} {
		w := doJSON(r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestTreatmentAndFeedbackOverHTTP(t *testing.T) {
	r := newTestRouter(t, newSQLiteStore(t))
	cookie := login(t, r)

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}

	w := doJSON(r, http.MethodPost, "/api/customers", gin.H{"name": "Alice", "phone": "+628111111111"}, cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	customerID := created.Data.ID

	w = doJSON(r, http.MethodPost, "/api/customers", gin.H{"name": "Alice", "phone": "+628111111111"}, cookie)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodPost, "/api/customers", gin.H{"name": "Bob", "phone": "abc"}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/services", gin.H{"name": "Massage", "normalPrice": 50000, "therapistFee": 20000}, cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	serviceID := created.Data.ID

	w = doJSON(r, http.MethodPost, "/api/therapists", gin.H{"initial": "A", "fullName": "Ayu", "commissionRate": 0.1}, cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	therapistID := created.Data.ID

	today := time.Now().UTC().Format(utils.DateLayout)
	w = doJSON(r, http.MethodPost, "/api/treatments", gin.H{
		"customerId":  customerID,
		"serviceId":   serviceID,
		"therapistId": therapistID,
		"date":        today,
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	treatmentID := created.Data.ID

	// the feedback form needs no session
	w = doJSON(r, http.MethodPost, "/api/feedback", gin.H{
		"treatmentId":     treatmentID,
		"customerName":    "Alice",
		"customerPhone":   "+628111111111",
		"therapistRating": 5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(r, http.MethodGet, "/api/dashboard-summary?date="+today, nil, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var summary struct {
		Success bool                      `json:"success"`
		Data    services.DashboardSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.True(t, summary.Success)
	assert.Equal(t, 1, summary.Data.Today.Treatments)
	assert.Equal(t, int64(50000), summary.Data.Today.Revenue)
	assert.Equal(t, int64(20000), summary.Data.Today.TherapistFees)

	w = doJSON(r, http.MethodGet, "/api/dashboard-summary?date=yesterday", nil, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/treatments/"+treatmentID, nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodGet, "/api/treatments/"+treatmentID, nil, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(r, http.MethodGet, "/api/treatments/not-a-uuid", nil, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnconfiguredStore(t *testing.T) {
	store := repository.New(nil)
	r := newTestRouter(t, store)

	w := doJSON(r, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doJSON(r, http.MethodPost, "/api/feedback", gin.H{"customerName": "Alice", "customerPhone": "+628111111111"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `false`, jsonField(t, w, "success"))
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestRouter(t, newSQLiteStore(t))

	w := doJSON(r, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "salonpro_http_requests_total")
}
