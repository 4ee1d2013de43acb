// Package web serves the portfolio over HTTP: the full page plus the small
// hypermedia endpoints that drive the gallery, header and contact form.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/praveen44/portfolio/internal/config"
	"github.com/praveen44/portfolio/internal/content"
	"github.com/praveen44/portfolio/internal/scroll"
	"github.com/praveen44/portfolio/internal/tracking"
	"github.com/praveen44/portfolio/internal/view"
)

// Tracker records visits. Implemented by *tracking.Store.
type Tracker interface {
	RecordVisit(ctx context.Context, ip, userAgent, path string) error
	RecordProjectView(ctx context.Context, ip, slug string) error
}

// Options configures a Server. Config, Logger and Content are required.
type Options struct {
	Config   *config.Config
	Logger   *slog.Logger
	Content  *content.Store
	Sessions sessions.Store
	Bus      *scroll.Bus
	Tracker  Tracker
	Mailer   Mailer
}

// Server is the portfolio HTTP server.
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	content  *content.Store
	renderer *view.Renderer
	sessions sessions.Store
	bus      *scroll.Bus
	tracker  Tracker
	mailer   Mailer
	probe    view.Probe
	engine   *gin.Engine
}

// New builds the server and its routes.
func New(opts Options) (*Server, error) {
	if opts.Config == nil || opts.Content == nil {
		return nil, errors.New("web: config and content are required")
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		cfg:      opts.Config,
		logger:   opts.Logger,
		content:  opts.Content,
		renderer: renderer,
		sessions: opts.Sessions,
		bus:      opts.Bus,
		tracker:  opts.Tracker,
		mailer:   opts.Mailer,
		probe:    view.LocalProbe(opts.Config.Assets.ImagesDir),
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.bus == nil {
		s.bus = scroll.NewBus()
	}
	if s.sessions == nil {
		store, err := s.newCookieStore()
		if err != nil {
			return nil, err
		}
		s.sessions = store
	}

	s.engine = s.routes()
	return s, nil
}

func (s *Server) newCookieStore() (*sessions.CookieStore, error) {
	secret := s.cfg.Server.SessionSecret
	if secret == "" {
		var err error
		if secret, err = tracking.RandomSecret(); err != nil {
			return nil, err
		}
		s.logger.Warn("server.session_secret not set; visitor sessions will not survive a restart")
	}

	store := sessions.NewCookieStore([]byte(secret))
	store.MaxAge(86400) // 1 day
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode
	// Set per request from the scheme, see save.
	store.Options.Secure = false
	return store, nil
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))
	if s.tracker != nil {
		r.Use(s.visitorTracking())
	}
	r.SetHTMLTemplate(s.renderer.Template())

	r.Static("/images", s.cfg.Assets.ImagesDir)
	r.Static("/static", s.cfg.Assets.StaticDir)

	// Home page route
	r.GET("/", s.index)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Gallery selection and overlay lifecycle
	g := r.Group("/gallery")
	g.GET("/select/:slug", s.gallerySelect)
	g.GET("/click", s.galleryClick)
	g.GET("/close", s.galleryClose)

	// Scroll-aware header
	h := r.Group("/header")
	h.GET("/stream", s.headerStream)
	h.POST("/scroll", s.headerScroll)

	r.POST("/contact", s.contact)

	// Privacy notice for the visit log
	if s.tracker != nil {
		r.GET("/privacy", s.privacy)
	}

	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Bus returns the scroll bus header streams listen on.
func (s *Server) Bus() *scroll.Bus {
	return s.bus
}

func (s *Server) builder() view.Builder {
	return view.Builder{
		Fallback:    s.cfg.Images.Fallback,
		DatastarSrc: s.cfg.UI.DatastarSrc,
		ContactForm: s.mailer != nil,
		Privacy:     s.tracker != nil,
		Probe:       s.probe,
	}
}

// Serve listens on the configured address until ctx is cancelled, then
// shuts down gracefully. With content.watch set it also reloads content
// on change.
func (s *Server) Serve(ctx context.Context) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.cfg.Addr(),
		Handler: s.engine,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.cfg.Content.Watch {
		eg.Go(func() error {
			return s.content.Watch(egctx)
		})
	}

	eg.Go(func() error {
		s.logger.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
