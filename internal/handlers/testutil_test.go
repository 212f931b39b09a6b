// internal/handlers/testutil_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"texthunter-back/internal/middleware"
	"texthunter-back/internal/models"
	"texthunter-back/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	// One connection: a pooled second connection to ":memory:" would see a
	// separate empty database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.PredictionRecord{}))
	return db
}

// fakeStore is an in-memory session.Store for handler tests; the redis
// implementation has its own tests.
type fakeStore struct {
	mu       sync.Mutex
	sessions map[string]session.Data
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: map[string]session.Data{}}
}

func (f *fakeStore) Create(_ context.Context, data session.Data) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New().String()
	f.sessions[id] = data
	return id, nil
}

func (f *fakeStore) Get(_ context.Context, id string) (session.Data, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.sessions[id]
	if !ok {
		return session.Data{}, session.ErrNotFound
	}
	return data, nil
}

func (f *fakeStore) Update(_ context.Context, id string, data session.Data) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[id]; !ok {
		return session.ErrNotFound
	}
	f.sessions[id] = data
	return nil
}

func (f *fakeStore) SetFlags(_ context.Context, id string, darkMode, emailNotifications bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.sessions[id]
	if !ok {
		return session.ErrNotFound
	}
	data.DarkMode = darkMode
	data.EmailNotifications = emailNotifications
	f.sessions[id] = data
	return nil
}

func (f *fakeStore) Touch(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[id]; !ok {
		return session.ErrNotFound
	}
	return nil
}

func (f *fakeStore) Destroy(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return nil
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

func testRouter(db *gorm.DB, store session.Store) *gin.Engine {
	r := gin.New()

	public := r.Group("/api")
	{
		public.POST("/register", Register(db))
		public.POST("/login", Login(db, store, 30*time.Minute))
		public.POST("/logout", Logout(store))
		public.GET("/models", ListModels())
	}

	protected := r.Group("/api")
	protected.Use(middleware.RequireSession(store))
	{
		protected.GET("/profile", GetProfile(db))
		protected.PUT("/profile", UpdateProfile(db, store))
		protected.GET("/settings", GetSettings())
		protected.PUT("/settings", UpdateSettings(store))
		protected.POST("/predictions", SavePrediction(db))
		protected.GET("/history", GetHistory(db))
	}

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func registerAndLogin(t *testing.T, r *gin.Engine, store *fakeStore, email string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/register", RegisterRequest{
		FullName: "Test User",
		Email:    email,
		Password: "hunter22",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/login", LoginRequest{
		Email:    email,
		Password: "hunter22",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName && c.Value != "" {
			return c.Value
		}
	}
	t.Fatal("login did not set a session cookie")
	return ""
}
