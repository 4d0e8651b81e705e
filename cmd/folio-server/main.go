package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"folio/internal/config"
	"folio/internal/domain"
	"folio/internal/handler"
	"folio/internal/middleware"
	"folio/internal/migrate"
	"folio/internal/observability"
	"folio/internal/repository/postgres"
	"folio/internal/service"
	"folio/internal/storage"
	"folio/internal/web"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "json"
	}
	observability.InitLogger(logLevel, logFormat)

	slog.Info("starting folio server")

	connCtx, connCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer connCancel()

	db, err := config.NewPostgresConnection(connCtx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("connected to postgresql")

	if err := migrate.Up(connCtx, db); err != nil {
		slog.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	userRepo := postgres.NewUserRepository(db)
	sessionRepo, err := postgres.NewSessionRepository(db)
	if err != nil {
		slog.Error("failed to prepare session statements", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer sessionRepo.Close()
	postRepo := postgres.NewPostRepository(db)

	authService := service.NewAuthService(userRepo, sessionRepo, []byte(cfg.TokenSecret))
	postService := service.NewPostService(postRepo)

	bucket := storage.NewFSBucket(cfg.UploadsDir, cfg.PostsBucket, cfg.SiteURL)

	renderer, err := web.NewRenderer(cfg.SiteURL)
	if err != nil {
		slog.Error("failed to initialize renderer", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ensureAdminUser(authService, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startSessionCleanup(ctx, sessionRepo)
	slog.Info("session cleanup task started")

	authHandler := handler.NewAuthHandler(authService)
	callbackHandler := handler.NewCallbackHandler(authService)
	postHandler := handler.NewPostHandler(postService)
	uploadHandler := handler.NewUploadHandler(bucket)
	pageHandler := handler.NewPageHandler(postService, renderer)

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.CORS(middleware.ParseOrigins(cfg.AllowedOrigins)))
	r.Use(middleware.Metrics())
	r.Use(middleware.OpenAPIValidator(middleware.DefaultOpenAPIValidatorConfig()))

	r.Get("/health", handler.Health)
	r.Get("/health/ready", handler.Ready(db, bucket))
	r.Handle("/metrics", promhttp.Handler())

	r.Handle("/static/*", web.StaticHandler("/static/"))
	r.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(cfg.UploadsDir))))

	// Pages. The gate only acts on /admin/* and /login; everything else
	// passes through it untouched.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Gate(authService))

		r.Get("/", pageHandler.Home)
		r.Get("/blog", pageHandler.Blog)
		r.Get("/blog/{slug}", pageHandler.Post)
		r.Get("/login", pageHandler.Login)
		r.Get("/admin", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/admin/dashboard", http.StatusFound)
		})
		r.Get("/admin/dashboard", pageHandler.Dashboard)
		r.Get("/admin/posts/new", pageHandler.NewPost)
		r.Get("/admin/posts/{id}", pageHandler.EditPost)
	})

	// Unmatched paths still go through the gate so an unauthenticated
	// hit on an unknown /admin/* path redirects instead of 404ing.
	r.NotFound(middleware.Gate(authService)(http.HandlerFunc(pageHandler.NotFound)).ServeHTTP)

	r.Post("/auth/callback", callbackHandler.Sync)

	authLimiter := middleware.NewRateLimiter(ctx, 5, 10)
	apiLimiter := middleware.NewRateLimiter(ctx, 20, 50)

	r.Route("/api", func(r chi.Router) {
		r.Get("/posts", postHandler.ListPublished)
		r.Get("/posts/slug/{slug}", postHandler.GetBySlug)

		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Middleware())
			r.Post("/auth/login", authHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authService))
			r.Use(apiLimiter.Middleware())

			r.Get("/auth/me", authHandler.Me)
			r.Post("/auth/logout", authHandler.Logout)

			r.Route("/admin", func(r chi.Router) {
				r.Get("/posts", postHandler.ListAll)
				r.Post("/posts", postHandler.Create)
				r.Post("/posts/upload", uploadHandler.Upload)
				r.Get("/posts/{id}", postHandler.GetByID)
				r.Put("/posts/{id}", postHandler.Update)
				r.Delete("/posts/{id}", postHandler.Delete)
			})
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("folio server listening", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", slog.String("error", err.Error()))
	}

	cancel()

	time.Sleep(100 * time.Millisecond)

	slog.Info("server stopped gracefully")
}

// ensureAdminUser creates the admin account if it doesn't exist
// (idempotent). Without ADMIN_EMAIL/ADMIN_PASSWORD the server still
// runs; nobody can sign in until an account exists.
func ensureAdminUser(authService *service.AuthService, cfg *config.Config) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		slog.Warn("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin provisioning")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := authService.Register(ctx, cfg.AdminEmail, cfg.AdminPassword)

	switch {
	case err == nil:
		slog.Info("created admin user",
			slog.String("email", user.Email),
			slog.String("id", user.ID))

	case errors.Is(err, domain.ErrEmailExists):
		slog.Info("admin user already exists", slog.String("email", cfg.AdminEmail))

	default:
		slog.Error("failed to ensure admin user", slog.String("error", err.Error()))
		panic("could not provision admin user: " + err.Error())
	}
}

// startSessionCleanup runs a background task to delete expired sessions
func startSessionCleanup(ctx context.Context, repo domain.SessionRepository) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("stopping session cleanup task")
			return
		case <-ticker.C:
			cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			count, err := repo.DeleteExpired(cleanupCtx)
			if err != nil {
				slog.Error("session cleanup failed", slog.String("error", err.Error()))
			} else {
				slog.Info("session cleanup completed",
					slog.Int64("sessions_deleted", count))
			}
			cancel()
		}
	}
}
