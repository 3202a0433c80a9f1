package main

import (
	"log"
	"net/http"

	_ "puntualo-api/docs" // swagger docs

	"puntualo-api/internal/cache"
	"puntualo-api/internal/config"
	"puntualo-api/internal/db"
	"puntualo-api/internal/handler"
	"puntualo-api/internal/repository"
	"puntualo-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Puntualo API
// @version 1.0
// @description API social de catálogo: ratings, feed y recomendaciones colaborativas (Mongo, Redis)
// @host localhost:3000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	// Mongo y Redis
	db.InitMongo(cfg)
	cache.InitRedis(cfg)

	// repos
	userRepo := repository.NewUserRepository()
	itemRepo := repository.NewItemRepository()
	followReqRepo := repository.NewFollowRequestRepository()
	notifRepo := repository.NewNotificationRepository()

	// services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	userSvc := service.NewUserService(userRepo, itemRepo)
	itemSvc := service.NewItemService(itemRepo)
	// recomendador y feed trabajan contra interfaces; los repos de Mongo las implementan
	recSvc := service.NewRecommendService(userRepo, itemRepo)
	feedSvc := service.NewFeedService(userRepo, itemRepo)
	statsSvc := service.NewStatsService(userRepo, itemRepo)
	notifSvc := service.NewNotificationService(notifRepo)
	followReqSvc := service.NewFollowRequestService(followReqRepo, userRepo, notifSvc)

	// handlers
	authH := handler.NewAuthHandler(authSvc)
	userH := handler.NewUserHandler(userSvc, feedSvc)
	itemH := handler.NewItemHandler(itemSvc)
	recH := handler.NewRecommendHandler(recSvc)
	statsH := handler.NewStatsHandler(statsSvc)
	followReqH := handler.NewFollowRequestHandler(followReqSvc)
	notifH := handler.NewNotificationHandler(notifSvc)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// =============
	// Rutas públicas
	// =============
	r.Get("/health", handler.Health)

	r.Post("/auth/register", authH.Register)
	r.Post("/auth/login", authH.Login)

	// Catálogo (público)
	r.Get("/items", itemH.Search)
	r.Get("/items/{id}", itemH.GetByID)

	// Estadísticas (públicas)
	r.Get("/stats", statsH.GetStats)
	r.Get("/stats/top-rated", statsH.GetTopRated)

	// Perfil público
	r.Get("/users/{id}", userH.GetPublicProfile)
	r.Get("/users/{id}/ratings", userH.GetUserRatings)

	// ===========================
	// Rutas protegidas con JWT
	// ===========================
	authMw := handler.JWTAuth(cfg.JWTSecret)

	r.Group(func(r chi.Router) {
		r.Use(authMw)

		// alta de items del catálogo (requiere sesión)
		r.Post("/items", itemH.Create)

		r.Route("/me", func(r chi.Router) {
			r.Get("/", userH.GetMe)
			r.Patch("/", userH.UpdateMe)
			r.Delete("/", userH.DeleteMe)

			// ratings
			r.Get("/ratings", userH.GetMyRatings)
			r.Post("/ratings", userH.AddRating)
			r.Delete("/ratings/{ratingId}", userH.DeleteRating)

			// grafo de follows
			r.Get("/followers", userH.GetFollowers)
			r.Get("/following", userH.GetFollowing)
			r.Post("/following/{id}", followReqH.Follow)
			r.Delete("/following/{id}", userH.Unfollow)

			// solicitudes (cuentas privadas)
			r.Get("/follow-requests", followReqH.ListIncoming)
			r.Post("/follow-requests/{id}/accept", followReqH.Accept)
			r.Post("/follow-requests/{id}/reject", followReqH.Reject)

			// feed de actividad
			r.Get("/feed", userH.GetFeed)

			// recomendaciones: HTTP normal y WebSocket con progreso
			r.Get("/recommendations", recH.GetRecommendations)
			r.Get("/ws/recommendations", recH.GetRecommendationsWS)

			// notificaciones
			r.Get("/notifications", notifH.GetAll)
			r.Get("/notifications/unread-count", notifH.CountUnread)
			r.Post("/notifications/read-all", notifH.MarkAllRead)
			r.Post("/notifications/{id}/read", notifH.MarkRead)
			r.Delete("/notifications/{id}", notifH.Delete)
		})
	})

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	log.Printf("HTTP escuchando en :%s", cfg.HTTPPort)
	log.Fatal(http.ListenAndServe(":"+cfg.HTTPPort, r))
}
