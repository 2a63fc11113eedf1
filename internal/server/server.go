// Package server serves the projboard web UI: server-rendered project lists,
// the completed-projects timeline, and JSON backup/restore.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/dori/projboard/internal/db"
	"github.com/dori/projboard/internal/model"
	"github.com/dori/projboard/internal/notify"
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxUploadSize limits restore uploads
const maxUploadSize = 32 << 20

// Store is the project storage the handlers depend on. *db.DB implements it.
type Store interface {
	AddProject(ctx context.Context, name, category string) (int64, error)
	DeleteProject(ctx context.Context, id int64, category string, position int) error
	MoveProjectUp(ctx context.Context, id int64, category string, position int) error
	MoveProjectDown(ctx context.Context, id int64, category string, position int) error
	StartProject(ctx context.Context, id int64, category string, position int) error
	CompleteProject(ctx context.Context, id int64) error
	UpdateNotes(ctx context.Context, id int64, notes string) error
	GetProject(ctx context.Context, id int64) (*model.Project, error)
	GetActiveProjects(ctx context.Context) ([]model.Project, error)
	GetCompletedProjects(ctx context.Context, page int) ([]model.Project, error)
	ExportProjects(ctx context.Context) ([]model.Project, error)
	ImportProjects(ctx context.Context, projects []model.Project, mode db.ImportMode) (int, error)
	Ping(ctx context.Context) error
}

var _ Store = (*db.DB)(nil)

// Options configures a Server
type Options struct {
	// Categories are the columns shown on the index page, in order
	Categories []string
	// Password enables basic auth when set; a bcrypt hash or plain text
	Password string

	Logger   *zap.Logger
	Notifier *notify.Notifier
	// Registry receives the server's metrics; a fresh registry is used when nil
	Registry *prometheus.Registry
	// Now is the clock used for the timeline and backup names
	Now func() time.Time

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server holds the HTTP handlers and their dependencies
type Server struct {
	store    Store
	opts     Options
	logger   *zap.Logger
	engine   *gin.Engine
	metrics  *metrics
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

// New creates a Server with routes registered
func New(store Store, opts Options) (*Server, error) {
	if store == nil {
		return nil, errors.New("server: store is required")
	}
	if len(opts.Categories) == 0 {
		return nil, errors.New("server: at least one category is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		store:    store,
		opts:     opts,
		logger:   opts.Logger.Named("http"),
		markdown: newMarkdown(),
		policy:   bluemonday.UGCPolicy(),
	}

	m, err := newMetrics(opts.Registry)
	if err != nil {
		return nil, fmt.Errorf("server: register metrics: %w", err)
	}
	s.metrics = m

	tmpl, err := s.parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("server: parse templates: %w", err)
	}

	engine := gin.New()
	engine.MaxMultipartMemory = maxUploadSize
	engine.SetHTMLTemplate(tmpl)
	s.engine = engine

	if err := s.registerRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve %s: %w", addr, err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()

		s.logger.Info("shutting down")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// categoryIndex returns the column index of a category, or -1
func (s *Server) categoryIndex(category string) int {
	for i, c := range s.opts.Categories {
		if c == category {
			return i
		}
	}
	return -1
}

// renderNotes converts markdown notes into sanitized HTML
func (s *Server) renderNotes(notes string) template.HTML {
	html, err := renderMarkdown(s.markdown, s.policy, notes)
	if err != nil {
		s.logger.Warn("render notes", zap.Error(err))
		return template.HTML(template.HTMLEscapeString(notes))
	}
	return html
}
