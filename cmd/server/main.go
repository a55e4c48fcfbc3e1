package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "certificados/api/swagger"
	"certificados/internal/drive"
	"certificados/internal/handler"
	"certificados/internal/middleware"
	"certificados/internal/repository"
	"certificados/internal/service"
	"certificados/pkg/cache"
	"certificados/pkg/config"
	"certificados/pkg/database"
	"certificados/pkg/identity"
	"certificados/pkg/logger"
	corsmiddleware "certificados/pkg/middleware/cors"
	reqidmiddleware "certificados/pkg/middleware/requestid"
)

// @title Certificados API
// @version 1.0.0
// @description Certificate lookup and administration service
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	rdb, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, falling back to in-process state", "error", err)
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	validate := validator.New()
	hasher := identity.NewHasher(cfg.Security.Salt)
	remover := drive.NewClient(cfg.Drive, logr)

	certRepo := repository.NewCertificateRepository(db)
	courseRepo := repository.NewCourseRepository(db)

	var denylist service.Denylist
	var courseCache service.CourseCache
	if rdb != nil {
		denylist = service.NewRedisDenylist(rdb)
		courseCache = service.NewRedisCourseCache(rdb, cfg.Courses.CacheTTL, logr)
	} else {
		denylist = service.NewMemoryDenylist()
	}

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(cfg.Security, denylist, validate, logr)
	lookupSvc := service.NewLookupService(certRepo, courseRepo, courseCache, hasher, logr)
	certSvc := service.NewCertificateService(certRepo, remover, metricsSvc, validate, logr)
	purgeSvc := service.NewPurgeService(certRepo, remover, metricsSvc, cfg.Purge.RowDelay, logr)

	lookupHandler := handler.NewLookupHandler(lookupSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	certHandler := handler.NewCertificateHandler(certSvc)
	purgeHandler := handler.NewPurgeHandler(purgeSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Metrics)

	r.POST("/search", lookupHandler.Search)
	r.GET("/courses", lookupHandler.Courses)
	r.POST("/admin/login", authHandler.Login)

	admin := r.Group("/admin", middleware.Session(authSvc))
	{
		admin.POST("/logout", authHandler.Logout)
		admin.GET("/certificates", certHandler.List)
		admin.GET("/certificates/:id", certHandler.Get)
		admin.PUT("/certificates/:id", certHandler.Update)
		admin.DELETE("/certificates/:id", certHandler.Delete)
		admin.POST("/cohorts/:classCode/:action", certHandler.Toggle)
		admin.DELETE("/cohorts/:classCode", purgeHandler.PurgeCohort)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
