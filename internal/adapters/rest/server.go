package rest

import (
	"context"
	"fmt"
	"net/http"

	core_port "flats-service/internal/core/port"
	"flats-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server - наш REST API сервер.
type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

// NewServer создает новый экземпляр сервера.
func NewServer(port string,
	allowedOrigin string,
	authHandlers *AuthHandlers,
	flatsHandlers *FlatsHandlers,
	notificationHandlers *NotificationHandlers,
	resolveUC usecases_port.ResolveSessionUseCasePort,
	baseLogger core_port.LoggerPort) *Server {

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		// AllowedOrigins - домен SPA, с которого разрешены запросы
		AllowedOrigins:   []string{allowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Trace-ID"},
		AllowCredentials: true,
		// MaxAge - на сколько секунд браузер может кэшировать результат preflight-запроса
		MaxAge: 300,
	}))

	// Сессия разрешается для каждого запроса; решения о доступе
	// принимают RequireSession / RequireGuest на группах роутов.
	r.Use(SessionMiddleware(resolveUC))

	r.Route("/api/v1", func(r chi.Router) {
		// Публичный эндпоинт: перевод сессии из "unresolved" в конечное состояние.
		r.Get("/auth/session", authHandlers.Session)

		// Гостевые роуты: аутентифицированных отправляем на главную.
		r.Group(func(r chi.Router) {
			r.Use(RequireGuest)
			r.Post("/auth/login", authHandlers.Login)
			r.Post("/auth/register", authHandlers.Register)
		})

		// Приватные роуты: без сессии отправляем на /login.
		r.Group(func(r chi.Router) {
			r.Use(RequireSession)
			r.Post("/auth/logout", authHandlers.Logout)
			r.Get("/profile", authHandlers.Profile)

			r.Get("/flats", flatsHandlers.List)
			r.Get("/flats/subscribe", flatsHandlers.Subscribe)

			r.Get("/notifications/current", notificationHandlers.Current)
			r.Delete("/notifications/current", notificationHandlers.Dismiss)
			r.Get("/notifications/subscribe", notificationHandlers.Subscribe)
		})
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		WriteJSONError(w, http.StatusNotFound, "Resource not found")
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	return &Server{
		httpServer: srv,
		logger:     baseLogger,
	}
}

// Start запускает HTTP-сервер.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", core_port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop корректно останавливает сервер.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
