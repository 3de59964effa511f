package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/promptpix/go-promptpix-backend/internal/api/http"
	"github.com/promptpix/go-promptpix-backend/internal/api/http/middleware"
	authhttp "github.com/promptpix/go-promptpix-backend/internal/auth/http"
	authmw "github.com/promptpix/go-promptpix-backend/internal/auth/middleware"
	authservice "github.com/promptpix/go-promptpix-backend/internal/auth/service"
	genhttp "github.com/promptpix/go-promptpix-backend/internal/generation/http"
	genservice "github.com/promptpix/go-promptpix-backend/internal/generation/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	DB          *pgxpool.Pool
	Redis       *redis.Client
	AuthService *authservice.AuthService
	GenService  *genservice.GenerationService
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.Default())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api")
	api.Use(middleware.RequestIDMiddleware())

	authHandler := authhttp.NewHandler(dep.AuthService)
	authHandler.RegisterRoutes(api.Group("/auth"))

	genGroup := api.Group("/generate")
	genGroup.Use(authmw.BearerAuthMiddleware(dep.AuthService))

	genHandler := genhttp.NewHandler(dep.GenService)
	genHandler.Register(genGroup)

	return r
}
