package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/rafalstore/storefront/internal/config"
	"github.com/rafalstore/storefront/internal/logging"
	"github.com/rafalstore/storefront/internal/mockapi"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	dbPath := config.EnvDefault("MOCKAPI_DB_PATH", "mockapi.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	secret := []byte(config.EnvDefault("MOCKAPI_JWT_SECRET", "mockapi-dev-secret"))
	api, err := mockapi.New(db, secret, logging.Component(logger, "mockapi"))
	if err != nil {
		log.Fatalf("init mock api: %v", err)
	}
	if err := api.Seed(); err != nil {
		log.Fatalf("seed mock api: %v", err)
	}

	e := echo.New()
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), logger)))
			return next(c)
		}
	})
	api.Register(e)

	addr := config.EnvDefault("MOCKAPI_ADDR", ":8080")
	srv := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("mock api listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}
}
