package main

import (
	"context"
	"log"
	"time"

	"github.com/promptpix/go-promptpix-backend/config"
	authrepo "github.com/promptpix/go-promptpix-backend/internal/auth/repository"
	authservice "github.com/promptpix/go-promptpix-backend/internal/auth/service"
	"github.com/promptpix/go-promptpix-backend/internal/bootstrap"
	"github.com/promptpix/go-promptpix-backend/internal/generation/enhance"
	"github.com/promptpix/go-promptpix-backend/internal/generation/imageapi"
	"github.com/promptpix/go-promptpix-backend/internal/generation/readiness"
	genrepo "github.com/promptpix/go-promptpix-backend/internal/generation/repository"
	genservice "github.com/promptpix/go-promptpix-backend/internal/generation/service"
	"github.com/promptpix/go-promptpix-backend/internal/scheduler"
	"github.com/promptpix/go-promptpix-backend/internal/storage/postgres"
)

const serviceName = "go-promptpix-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: postgres.DSN(&cfg.Database)})
	if err != nil {
		log.Fatalf("postgres pool: %v", err)
	}
	defer pool.Close()

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer db.Close()

	rdb, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	userRepo := authrepo.NewUserRepository(db)
	authService := authservice.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	genRepo := genrepo.NewGenerationRepository(db)
	queueRepo := genrepo.NewQueueRepository(rdb, cfg.Queue.Retention)

	enhancer := enhance.NewClient(cfg.Enhance.BaseURL, cfg.Enhance.APIKey, cfg.Enhance.Model, enhance.Options{
		RPS: cfg.Enhance.RPS,
	})
	images := imageapi.NewClient(cfg.Image.BaseURL, cfg.Image.Width, cfg.Image.Height, cfg.Image.Model, cfg.Image.Enhance)
	poller := readiness.NewPoller(readiness.NewHTTPChecker(0),
		cfg.Readiness.MaxAttempts, cfg.Readiness.Interval, cfg.Readiness.MinDimension)

	genService := genservice.NewGenerationService(enhancer, images, poller, genRepo, queueRepo)

	sched := scheduler.NewScheduler(queueRepo)
	sched.Start()
	defer sched.Stop()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		DB:          pool,
		Redis:       rdb,
		AuthService: authService,
		GenService:  genService,
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
