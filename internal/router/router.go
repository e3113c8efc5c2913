package router

import (
	"net/http"

	"portfolio-api/internal/config"
	"portfolio-api/internal/handler"
	"portfolio-api/internal/middleware"
	"portfolio-api/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupRouter wires middleware and all route groups onto a Gin engine.
func SetupRouter(cfg *config.Config, db *gorm.DB, logger *zap.Logger, sessions *session.Manager) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()

	registry := prometheus.NewRegistry()
	metrics := middleware.NewHTTPMetrics(registry)

	r.Use(
		gin.Recovery(),
		middleware.CORS(cfg.Server.CORSOrigin),
		middleware.RequestLogger(logger),
		metrics.Middleware(),
		sessions.Middleware(),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// ====== visitor routes ======
	authHandler := handler.NewAuthHandler(db, logger)
	r.POST("/auth/login", authHandler.Login)
	r.GET("/auth/logout", authHandler.Logout)
	if cfg.Security.TestLogin && cfg.Server.Mode != "release" {
		r.GET("/auth/test_login", authHandler.TestLogin)
	}

	imageHandler := handler.NewImageHandler(db, cfg.Content.Dir, logger)
	r.GET("/images/:path", imageHandler.Show)

	// ====== admin routes ======
	admin := r.Group("/api/admin")
	admin.Use(middleware.RequireAdmin())

	admin.POST("/image", imageHandler.Upload)
	admin.GET("/images", imageHandler.List)
	admin.POST("/images", imageHandler.Commit)
	admin.GET("/images/:id", imageHandler.Get)
	admin.PATCH("/images/:id", imageHandler.Edit)
	admin.DELETE("/images/:id", imageHandler.Delete)
	admin.GET("/update/all_images", imageHandler.Reconcile)

	generalHandler := handler.NewGeneralHandler(db, cfg.Translation.File, logger)
	admin.GET("/update/translation_files", generalHandler.UpdateTranslationFile)

	exportHandler := handler.NewExportHandler(db, logger)
	admin.GET("/export/csv", exportHandler.ExportCSV)
	admin.GET("/export/xlsx", exportHandler.ExportXLSX)

	jobHandler := handler.NewJobHandler(db, logger)
	admin.GET("/jobs", jobHandler.List)
	admin.POST("/jobs", jobHandler.Create)
	admin.GET("/jobs/:id", jobHandler.Get)
	admin.PATCH("/jobs/:id", jobHandler.Update)
	admin.DELETE("/jobs/:id", jobHandler.Delete)

	projectHandler := handler.NewProjectHandler(db, logger)
	admin.GET("/projects", projectHandler.List)
	admin.POST("/projects", projectHandler.Create)
	admin.GET("/projects/:id", projectHandler.Get)
	admin.PATCH("/projects/:id", projectHandler.Update)
	admin.DELETE("/projects/:id", projectHandler.Delete)

	testimonialHandler := handler.NewTestimonialHandler(db, logger)
	admin.GET("/testimonials", testimonialHandler.List)
	admin.POST("/testimonials", testimonialHandler.Create)
	admin.GET("/testimonials/:id", testimonialHandler.Get)
	admin.PATCH("/testimonials/:id", testimonialHandler.Update)
	admin.DELETE("/testimonials/:id", testimonialHandler.Delete)

	detailHandler := handler.NewDetailHandler(db, logger)
	admin.GET("/details", detailHandler.List)
	admin.POST("/details", detailHandler.Create)
	admin.GET("/details/:id", detailHandler.Get)
	admin.PATCH("/details/:id", detailHandler.Update)
	admin.DELETE("/details/:id", detailHandler.Delete)

	userHandler := handler.NewUserHandler(db, logger, cfg.Security.BcryptCost)
	admin.GET("/users", userHandler.List)
	admin.POST("/users", userHandler.Create)
	admin.GET("/users/:id", userHandler.Get)
	admin.PATCH("/users/:id", userHandler.Update)
	admin.DELETE("/users/:id", userHandler.Delete)

	return r
}
