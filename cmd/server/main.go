package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/collabinsight/server/internal/config"
	"github.com/collabinsight/server/internal/handler"
	"github.com/collabinsight/server/internal/repository"
	"github.com/collabinsight/server/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := sqlx.Connect("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelMigrate()
	if err := repository.Migrate(migrateCtx, db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	slog.Info("database connected")

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	bugRepo := repository.NewBugRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	authSvc := service.NewAuthService(userRepo, service.AuthConfig{
		JWTSecret:       cfg.JWTSecret,
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
	})
	resolver := service.NewAssignmentResolver(userRepo, projectRepo)
	projectSvc := service.NewProjectService(projectRepo, userRepo)
	taskSvc := service.NewTaskService(projectRepo, taskRepo, resolver)
	bugSvc := service.NewBugService(projectRepo, bugRepo, resolver)
	messageSvc := service.NewMessageService(projectRepo, messageRepo)
	analyticsSvc := service.NewAnalyticsService(projectRepo, analyticsRepo)
	userAdminSvc := service.NewUserAdminService(userRepo)

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userAdminSvc)
	projectHandler := handler.NewProjectHandler(projectSvc)
	taskHandler := handler.NewTaskHandler(taskSvc)
	bugHandler := handler.NewBugHandler(bugSvc, projectSvc)
	messageHandler := handler.NewMessageHandler(messageSvc)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewAppValidator()
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	e.Use(middleware.RequestID())
	e.Use(handler.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderContentType},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.GET("/health", func(c echo.Context) error {
		return handler.JSON(c, http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api")
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)

	auth := api.Group("", handler.JWTAuth(authSvc))
	auth.GET("/userInfo", authHandler.Me)
	auth.POST("/change-password", authHandler.ChangePassword)

	auth.GET("/users", userHandler.List)
	auth.POST("/users", userHandler.Create)
	auth.GET("/users/:id", userHandler.Get)
	auth.PUT("/users/:id", userHandler.Update)
	auth.DELETE("/users/:id", userHandler.Delete)

	auth.GET("/projects", projectHandler.List)
	auth.POST("/projects", projectHandler.Create)
	auth.GET("/projects/:id/searchUser", projectHandler.SearchUsers)
	auth.GET("/projects/:id/tasks", taskHandler.List)
	auth.POST("/projects/:id/tasks", taskHandler.Create)
	auth.PUT("/projects/tasks/:id", taskHandler.Update)
	auth.DELETE("/projects/tasks/:id", taskHandler.Delete)

	auth.GET("/bugs/:id", bugHandler.List)
	auth.POST("/bugs/:id", bugHandler.Create)
	auth.PUT("/bugs/:id", bugHandler.Update)
	auth.DELETE("/bugs/:id", bugHandler.Delete)
	auth.POST("/bugs/:id/approve", bugHandler.Approve)
	auth.GET("/bugs/:id/searchUser", bugHandler.SearchUsers)

	auth.GET("/messages/:id", messageHandler.List)
	auth.POST("/messages/:id", messageHandler.Post)

	auth.GET("/analytics/overview", analyticsHandler.Overview)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
