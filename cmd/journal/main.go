package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"journal/internal/auth"
	"journal/internal/blob"
	"journal/internal/config"
	"journal/internal/db"
	httpx "journal/internal/http"
	"journal/internal/logger"
)

func main() {
	cfg, _ := config.Load()

	zlog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zlog.Sync() }()

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		log.Fatal(err)
	}

	// media routes only come up when a bucket is configured
	var blobStore blob.Store
	if cfg.GCSBucket != "" {
		gcs, err := blob.NewGCS(context.Background(), cfg.GCSBucket, cfg.GCSCredentials, cfg.CDNDomain)
		if err != nil {
			log.Fatal(err)
		}
		blobStore = gcs
	} else {
		zlog.Warnw("GCS_BUCKET_NAME not set, media uploads disabled")
	}

	jwtSvc := auth.NewJWT(cfg.JWTSecret)
	r := httpx.NewRouter(cfg, gdb, jwtSvc, blobStore, zlog)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		zlog.Infow("listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
