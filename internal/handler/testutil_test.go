package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"portfolio-api/internal/database"
	"portfolio-api/internal/middleware"
	"portfolio-api/internal/models"
	"portfolio-api/internal/session"
	"portfolio-api/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db     *gorm.DB
	engine *gin.Engine
	store  *session.MemoryStore
	dir    string
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// newTestEnv builds a gin engine with the same middleware and route
// topology as the real router, on an in-memory database and a temp
// content directory.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newTestDB(t)
	log := zap.NewNop()
	store := session.NewMemoryStore()
	manager := session.NewManager(store, "portfolio_session", 30*time.Minute, false, log)
	dir := t.TempDir()

	r := gin.New()
	r.Use(manager.Middleware())

	authHandler := NewAuthHandler(db, log)
	r.POST("/auth/login", authHandler.Login)
	r.GET("/auth/logout", authHandler.Logout)

	imageHandler := NewImageHandler(db, dir, log)
	r.GET("/images/:path", imageHandler.Show)

	admin := r.Group("/api/admin")
	admin.Use(middleware.RequireAdmin())

	admin.POST("/image", imageHandler.Upload)
	admin.GET("/images", imageHandler.List)
	admin.POST("/images", imageHandler.Commit)
	admin.GET("/images/:id", imageHandler.Get)
	admin.PATCH("/images/:id", imageHandler.Edit)
	admin.DELETE("/images/:id", imageHandler.Delete)
	admin.GET("/update/all_images", imageHandler.Reconcile)

	jobHandler := NewJobHandler(db, log)
	admin.GET("/jobs", jobHandler.List)
	admin.POST("/jobs", jobHandler.Create)
	admin.GET("/jobs/:id", jobHandler.Get)
	admin.PATCH("/jobs/:id", jobHandler.Update)
	admin.DELETE("/jobs/:id", jobHandler.Delete)

	userHandler := NewUserHandler(db, log, 4) // min cost keeps tests fast
	admin.GET("/users", userHandler.List)
	admin.POST("/users", userHandler.Create)
	admin.PATCH("/users/:id", userHandler.Update)
	admin.DELETE("/users/:id", userHandler.Delete)

	generalHandler := NewGeneralHandler(db, dir+"/en.json", log)
	admin.GET("/update/translation_files", generalHandler.UpdateTranslationFile)

	return &testEnv{db: db, engine: r, store: store, dir: dir}
}

func (e *testEnv) createUser(t *testing.T, email, password string, role int16) *models.User {
	t.Helper()

	hash, err := util.HashPassword(password, 4)
	require.NoError(t, err)

	user := &models.User{
		Username: strings.Split(email, "@")[0],
		Password: hash,
		Email:    email,
		Fullname: "Test User",
		Role:     role,
		Active:   1,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

// do runs one request, carrying the given session cookie when set.
func (e *testEnv) do(method, path, cookie string, body *strings.Reader) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body)
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

// login authenticates and returns the issued session cookie.
func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()

	body := strings.NewReader(fmt.Sprintf(`{"email":%q,"password":%q}`, email, password))
	w := e.do(http.MethodPost, "/auth/login", "", body)
	require.Equal(t, http.StatusOK, w.Code)

	cookie := sessionCookie(w)
	require.NotEmpty(t, cookie)
	return cookie
}

// sessionCookie extracts the session cookie pair from a response, empty
// when none was issued.
func sessionCookie(w *httptest.ResponseRecorder) string {
	for _, c := range w.Result().Cookies() {
		if c.Name == "portfolio_session" && c.Value != "" {
			return c.Name + "=" + c.Value
		}
	}
	return ""
}
