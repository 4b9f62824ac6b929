// Package web assembles the fiber app serving the JSON API.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/PropertyLens/PropertyLens/internal/auth"
	"github.com/PropertyLens/PropertyLens/internal/config"
	fiberlogger "github.com/PropertyLens/PropertyLens/internal/logger/adapter/fiber"
	"github.com/PropertyLens/PropertyLens/internal/web/handler"
	"github.com/PropertyLens/PropertyLens/internal/web/handler/admin/user"
	"github.com/PropertyLens/PropertyLens/internal/web/handler/contact"
	"github.com/PropertyLens/PropertyLens/internal/web/handler/content"
	"github.com/PropertyLens/PropertyLens/internal/web/handler/login"
	"github.com/PropertyLens/PropertyLens/internal/web/handler/logout"
	"github.com/PropertyLens/PropertyLens/internal/web/handler/media"
)

const (
	// CheckAlivePath answers 200 while the service accepts traffic and 503 during shutdown.
	CheckAlivePath = "/checkalive"

	// MetricsPath exposes the prometheus metrics.
	MetricsPath = "/metrics"

	// UploadsCSP is sent with every uploaded file. Uploaded SVGs can carry scripts;
	// they must not run when a file is opened directly on the site origin.
	UploadsCSP = "default-src 'none'; style-src 'unsafe-inline'; sandbox"
)

// ErrConfigNil is returned by New without a config.
var ErrConfigNil = errors.New("config cannot be nil")

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for a signal and shuts the http server down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// SetFastShutdown skips the graceful 503 phase of WaitShutdown.
func (s *Service) SetFastShutdown(fast bool) {
	s.fastShutDown = fast
}

// Alive reports whether the service accepts traffic.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

func uploadHeaders(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentSecurityPolicy, UploadsCSP)
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")

	return nil
}

// New creates the fiber app and initializes every handler with deps.
func New(deps *handler.Deps) (*Service, error) {
	if deps == nil || deps.Config == nil {
		return nil, ErrConfigNil
	}

	cfg := deps.Config

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			BodyLimit:      cfg.Webserver.BodyLimitMB << 20, //nolint:mnd
			ErrorHandler:   handler.ErrorHandler,
		},
	)

	service := &Service{
		cfg: cfg,
		App: app,
	}
	service.alive.Store(true)

	app.Use(metricsMiddleware())

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
		Fields: func(c *fiber.Ctx, e *zerolog.Event) {
			if u := auth.CurrentUser(c); u != nil {
				e.Uint64("user_id", u.ID)
			}
		},
	}))

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Get(CheckAlivePath, func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("OK")
	})

	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	if cfg.Media.Provider == config.MediaLocal {
		app.Static(cfg.Media.PublicPath, cfg.Media.LocalPath, fiber.Static{
			MaxAge:         86400, //nolint:mnd
			ModifyResponse: uploadHeaders,
		})
	}

	services := []handler.Service{
		&login.Handler,
		&logout.Handler,
		&content.Handler,
		&contact.Handler,
		&user.Handler,
	}

	if deps.Media != nil {
		services = append(services, &media.Handler)
	} else {
		log.Warn().Msg("media service not configured: upload routes are disabled")
	}

	for _, svc := range services {
		if err := svc.Init(app, deps); err != nil {
			return nil, err
		}
	}

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "route not found")
	})

	return service, nil
}
