package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/Domenick1991/skytrack/api"
	"github.com/Domenick1991/skytrack/config"
	"github.com/Domenick1991/skytrack/internal/middleware"
)

const (
	swaggerSpec     = "/swagger/skytrack.swagger.json"
	shutdownTimeout = 5 * time.Second
)

// Handlers are the HTTP surfaces mounted on the router.
type Handlers struct {
	Page   *api.PageHandler
	Lookup *api.LookupHandler
	Trips  *api.TripsHandler
}

// Run serves the router on cfg.HTTP.Address and blocks until ctx is
// canceled or the server fails.
func Run(ctx context.Context, cfg *config.Config, router http.Handler, log *zap.Logger) error {
	srv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("address", cfg.HTTP.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		log.Info("http server stopped")
		return nil
	}
}

func NewRouter(cfg *config.Config, h Handlers, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(log),
		cors.New(corsConfig(cfg.HTTP.AllowedOrigins)),
		secure.New(secure.Config{
			FrameDeny:          true,
			ContentTypeNosniff: true,
			BrowserXssFilter:   true,
			ReferrerPolicy:     "strict-origin-when-cross-origin",
		}),
		gzip.Gzip(gzip.DefaultCompression),
		api.Session(),
	)
	router.SetHTMLTemplate(api.Templates())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h.Page.Register(router)
	apiGroup := router.Group("/api")
	h.Lookup.Register(apiGroup.Group("/lookup"))
	h.Trips.Register(apiGroup.Group("/trips"))

	if cfg.HTTP.SwaggerDir != "" {
		router.Static("/swagger", cfg.HTTP.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL(swaggerSpec))))
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	conf := cors.DefaultConfig()
	if len(origins) == 0 {
		conf.AllowAllOrigins = true
	} else {
		conf.AllowOrigins = origins
		conf.AllowCredentials = true
	}
	conf.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	conf.AllowHeaders = []string{"Origin", "Content-Type", middleware.RequestIDHeader}
	conf.ExposeHeaders = []string{middleware.RequestIDHeader}
	conf.MaxAge = time.Hour
	return conf
}
