package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/alvinsyah/goblog/config"
	"github.com/alvinsyah/goblog/controllers"
	"github.com/alvinsyah/goblog/middleware"
	"github.com/alvinsyah/goblog/models"
	"github.com/alvinsyah/goblog/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		// Stack traces in 500 bodies are for development only.
		r.Use(utils.RecoveryWithZap(gl, cfg.Environment != "production"))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}

	r.Use(cors.New(corsCfg))

	// Uploaded post images are served directly.
	r.Static("/uploads", cfg.UploadDir)

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, http.StatusOK, "ok", gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	profileController := controllers.NewProfileController(db)
	roleController := controllers.NewRoleController(db)
	categoryController := controllers.NewCategoryController(db)
	postController := controllers.NewPostController(db)
	commentController := controllers.NewCommentController(db)

	authRequired := middleware.AuthRequired(db)

	// Role management and category mutations are admin-only.
	policy := middleware.AccessPolicy{
		"GET /api/v1/roles":               {models.RoleAdmin},
		"POST /api/v1/roles":              {models.RoleAdmin},
		"PUT /api/v1/roles/:id":           {models.RoleAdmin},
		"DELETE /api/v1/roles/:id":        {models.RoleAdmin},
		"POST /api/v1/categories":         {models.RoleAdmin},
		"PUT /api/v1/categories/:slug":    {models.RoleAdmin},
		"DELETE /api/v1/categories/:slug": {models.RoleAdmin},
	}
	authorize := middleware.Authorize(policy)

	api := r.Group("/api/v1")

	authGroup := api.Group("")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", authRequired, authController.Logout)

	profileGroup := api.Group("/profile")
	profileGroup.Use(authRequired)
	profileGroup.GET("", profileController.Show)
	profileGroup.PUT("", profileController.Update)
	profileGroup.DELETE("", profileController.Destroy)

	rolesGroup := api.Group("/roles")
	rolesGroup.Use(authRequired, authorize)
	rolesGroup.GET("", roleController.Index)
	rolesGroup.POST("", roleController.Store)
	rolesGroup.PUT("/:id", roleController.Update)
	rolesGroup.DELETE("/:id", roleController.Destroy)

	categoriesGroup := api.Group("/categories")
	categoriesGroup.Use(authRequired, authorize)
	categoriesGroup.GET("", categoryController.Index)
	categoriesGroup.POST("", categoryController.Store)
	categoriesGroup.PUT("/:slug", categoryController.Update)
	categoriesGroup.DELETE("/:slug", categoryController.Destroy)

	postsGroup := api.Group("/posts")
	postsGroup.Use(authRequired)
	postsGroup.GET("", postController.Index)
	postsGroup.GET("/my-posts", postController.MyPosts)
	postsGroup.GET("/:slug", postController.Show)
	postsGroup.POST("", postController.Store)
	postsGroup.PUT("/:slug", postController.Update)
	postsGroup.DELETE("/:slug", postController.Destroy)

	api.GET("/comments", commentController.Index)
	api.GET("/comments/posts/:slug", commentController.IndexByPost)
	commentsGroup := api.Group("/comments")
	commentsGroup.Use(authRequired)
	commentsGroup.POST("/posts/:slug", commentController.Store)
	commentsGroup.GET("/:id", commentController.Show)
	commentsGroup.PUT("/:id", commentController.Update)
	commentsGroup.DELETE("/:id", commentController.Destroy)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Fail(ctx, http.StatusNotFound, "route not found")
	})

	return r
}
