package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dimitrije/stockroom/internal/authclient"
	"github.com/dimitrije/stockroom/internal/config"
	"github.com/dimitrije/stockroom/internal/database"
	"github.com/dimitrije/stockroom/internal/handlers"
	"github.com/dimitrije/stockroom/internal/logger"
	authmw "github.com/dimitrije/stockroom/internal/middleware"
	"github.com/dimitrije/stockroom/internal/obs"
	"github.com/dimitrije/stockroom/internal/services"
	"github.com/dimitrije/stockroom/internal/sse"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"go.uber.org/zap"
)

const invitePath = "/api/invite"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		zl.Fatal("failed to run migrations", zap.Error(err))
	}

	if cfg.Auth.ServiceRoleKey == "" {
		zl.Warn("AUTH_SERVICE_ROLE_KEY is not set, invites will fail")
	}
	auth := authclient.New(authclient.Config{
		URL:            cfg.Auth.URL,
		AnonKey:        cfg.Auth.AnonKey,
		ServiceRoleKey: cfg.Auth.ServiceRoleKey,
		Timeout:        cfg.Auth.Timeout,
	}, &authclient.MemoryStorage{}, logger.WithComponent(zl, "authclient"))

	jwtService := services.NewJWTService(cfg.JWTSecret)
	profileService := services.NewProfileService(db)
	organizationService := services.NewOrganizationService(db)
	locationService := services.NewLocationService(db)
	itemService := services.NewItemService(db)
	requestService := services.NewRequestService(db)
	dashboardService := services.NewDashboardService(db)
	inviteService := services.NewInviteService(auth, cfg.InviteBaseURL, logger.WithComponent(zl, "invites"))

	profileHandler := handlers.NewProfileHandler(profileService, organizationService)
	locationHandler := handlers.NewLocationHandler(locationService)
	hub := sse.NewHub()
	go hub.Run(ctx)

	itemHandler := handlers.NewItemHandler(itemService, hub)
	requestHandler := handlers.NewRequestHandler(requestService, hub)
	eventsHandler := handlers.NewEventsHandler(hub)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	inviteHandler := handlers.NewInviteHandler(inviteService, zl)

	limiter := authmw.NewRateLimiter(cfg.InviteRatePerMinute)
	go limiter.Run(ctx)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.BodyParser())

	invite := app.Group("/api")
	invite.Use(authmw.Auth(jwtService))
	invite.Use(limiter.Middleware())
	invite.Use(authmw.Profile(profileService))
	invite.Use(authmw.RequireAdmin())
	invite.Post("/invite", inviteHandler.Invite)

	api := app.Group("/api/v1")

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	authed := api.Group("")
	authed.Use(authmw.Auth(jwtService))
	authed.Post("/organizations", profileHandler.CreateOrganization)

	members := api.Group("")
	members.Use(authmw.Auth(jwtService))
	members.Use(authmw.Profile(profileService))

	members.Get("/me", profileHandler.GetMe)
	members.Patch("/me", profileHandler.UpdateMe)
	members.Get("/dashboard", dashboardHandler.Summary)
	members.Get("/events", eventsHandler.Connect)
	members.Get("/locations", locationHandler.List)
	members.Get("/items", itemHandler.List)
	members.Get("/items/low-stock", itemHandler.LowStock)
	members.Get("/requests", requestHandler.List)
	members.Post("/requests", requestHandler.Create)

	admins := api.Group("")
	admins.Use(authmw.Auth(jwtService))
	admins.Use(authmw.Profile(profileService))
	admins.Use(authmw.RequireAdmin())

	admins.Get("/users", profileHandler.ListUsers)
	admins.Patch("/users/:id/role", profileHandler.UpdateRole)
	admins.Delete("/users/:id", profileHandler.RemoveUser)
	admins.Post("/locations", locationHandler.Create)
	admins.Patch("/locations/:id", locationHandler.Update)
	admins.Delete("/locations/:id", locationHandler.Delete)
	admins.Post("/items", itemHandler.Create)
	admins.Patch("/items/:id", itemHandler.Update)
	admins.Delete("/items/:id", itemHandler.Delete)
	admins.Patch("/requests/:id/status", requestHandler.UpdateStatus)

	obs.Init()

	mux := http.NewServeMux()
	mux.Handle("/metrics", obs.Handler())
	mux.Handle("/", app)

	var handler http.Handler = mux
	handler = authmw.MethodGuard(invitePath, []string{http.MethodPost}, handler)
	handler = authmw.CORS(cfg.CORSOrigins, handler)
	handler = obs.Instrument(handler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}
