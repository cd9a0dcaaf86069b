package routes

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cppla/requestdesk/config"
	"github.com/cppla/requestdesk/controllers"
	"github.com/cppla/requestdesk/middleware"
	"github.com/cppla/requestdesk/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(cfg config.AppConfig, requests *controllers.RequestController) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log goes to its own rolling file; fall back to the app logger.
	accessLog := utils.Logger
	if cfg.GinPath != "" {
		if gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg); err == nil {
			accessLog = gl
		} else {
			utils.Sugar.Warnf("gin access log disabled: %v", err)
		}
	}
	r.Use(utils.Ginzap(accessLog))
	r.Use(utils.RecoveryWithZap(utils.Logger))

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Static("/uploads", cfg.UploadsDir)

	api := r.Group("/api")
	api.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api.POST("/requests", middleware.RateLimit(middleware.NewIPRateLimiter(cfg.RateLimitPerMinute)), requests.Create)
	api.GET("/requests", requests.List)

	index := filepath.Join(cfg.PublicDir, "index.html")
	r.NoRoute(func(ctx *gin.Context) {
		p := ctx.Request.URL.Path
		if strings.HasPrefix(p, "/api/") || strings.HasPrefix(p, "/uploads/") || ctx.Request.Method != http.MethodGet {
			utils.Fail(ctx, http.StatusNotFound, "Not found")
			return
		}
		// Public assets, then the SPA entry for anything else
		if cfg.PublicDir != "" {
			asset := filepath.Join(cfg.PublicDir, filepath.FromSlash(path.Clean("/"+p)))
			if fi, err := os.Stat(asset); err == nil && !fi.IsDir() {
				ctx.File(asset)
				return
			}
			if _, err := os.Stat(index); err == nil {
				ctx.File(index)
				return
			}
		}
		utils.Fail(ctx, http.StatusNotFound, "Not found")
	})

	return r
}
