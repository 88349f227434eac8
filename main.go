package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cafelist/auth"
	"cafelist/config"
	"cafelist/controller"
	"cafelist/database"
	"cafelist/route"
	"cafelist/utils"
	"cafelist/view"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm/logger"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(level)
	} else {
		log.Warnf("unknown log level %q, using info", cfg.Log.Level)
	}

	gormLevel := logger.Warn
	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else {
		log.Info("Running in debug mode")
		gormLevel = logger.Info
	}

	db, err := database.Open(cfg.Database.DSN, gormLevel)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warnf("close database: %v", err)
		}
	}()
	log.Info("database connected and migrated")

	tokens := utils.NewTokenIssuer(cfg.Auth.SecretKey, cfg.Auth.SessionTTL)
	users := auth.NewService(database.NewUserStore(db), cfg.Auth.AdminEmail)
	h := controller.New(db, database.NewCafeStore(db), users, tokens, log)

	templates, err := view.Templates()
	if err != nil {
		log.Fatalf("parse templates: %v", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), utils.RequestLogger(log))
	router.SetHTMLTemplate(templates)
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	route.CafeRoutes(router, h, utils.Session(tokens, users, log))
	log.Info("Routes configured successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warnf("http shutdown: %v", err)
	}
}
