package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/farellandr/eventreg/config"
	"github.com/farellandr/eventreg/internal/auth"
	"github.com/farellandr/eventreg/internal/handlers"
	"github.com/farellandr/eventreg/internal/helpers"
	"github.com/farellandr/eventreg/internal/metrics"
	"github.com/farellandr/eventreg/internal/middleware"
)

type RouterOptions struct {
	Tokens            *auth.JWTManager
	AuthRatePerMinute int
	Logger            zerolog.Logger
}

func Start(cfg *config.Config, logger zerolog.Logger) error {
	db, err := config.InitDatabase(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	gin.SetMode(cfg.Server.GinMode)
	r, err := NewRouter(db, RouterOptions{
		Tokens:            auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL, cfg.Auth.Issuer),
		AuthRatePerMinute: cfg.RateLimit.AuthPerMinute,
		Logger:            logger,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           r,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func NewRouter(db *gorm.DB, opts RouterOptions) (*gin.Engine, error) {
	if err := helpers.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(opts.Logger), middleware.Metrics())

	setupRoutes(r, db, opts)
	return r, nil
}

func setupRoutes(r *gin.Engine, db *gorm.DB, opts RouterOptions) {
	r.Use(middleware.DatabaseMiddleware(db), middleware.TokenManagerMiddleware(opts.Tokens))

	r.GET("/healthz", handlers.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(opts.Tokens))

	public := api.Group("")
	{
		throttled := public.Group("", middleware.RateLimit(opts.AuthRatePerMinute))
		throttled.POST("/register/", handlers.Register)
		throttled.POST("/token/", handlers.ObtainToken)
		throttled.POST("/token/refresh/", handlers.RefreshToken)

		public.GET("/categorias/", handlers.ListCategories)
		public.GET("/categorias/:id/", handlers.GetCategory)
		public.GET("/eventos/", handlers.ListEvents)
		public.GET("/eventos/:id/", handlers.GetEvent)
	}

	protected := api.Group("")
	protected.Use(middleware.RequireAuth())
	{
		admin := protected.Group("", middleware.RequireSuperuser())
		{
			admin.POST("/categorias/", handlers.CreateCategory)
			admin.PUT("/categorias/:id/", handlers.UpdateCategory)
			admin.PATCH("/categorias/:id/", handlers.PatchCategory)
			admin.DELETE("/categorias/:id/", handlers.DeleteCategory)

			admin.POST("/eventos/", handlers.CreateEvent)
			admin.PUT("/eventos/:id/", handlers.UpdateEvent)
			admin.PATCH("/eventos/:id/", handlers.PatchEvent)
			admin.DELETE("/eventos/:id/", handlers.DeleteEvent)

			admin.GET("/usuarios/", handlers.ListUsers)
		}

		protected.GET("/eventos/:id/participantes/", handlers.GetEventParticipants)
		protected.GET("/eventos-inscritos/", handlers.ListRegisteredEvents)

		protected.GET("/participantes/", handlers.ListParticipants)
		protected.POST("/participantes/", handlers.CreateParticipant)
		protected.GET("/participantes/:id/", handlers.GetParticipant)
		protected.PUT("/participantes/:id/", handlers.UpdateParticipant)
		protected.PATCH("/participantes/:id/", handlers.PatchParticipant)
		protected.DELETE("/participantes/:id/", handlers.DeleteParticipant)
	}
}
