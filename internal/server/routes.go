package server

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed static
var staticFS embed.FS

// registerRoutes binds every path to its handler:
//
//	GET  /                    index (one list per category)
//	POST /add                 add, returns list fragment
//	POST /start               start, returns list fragment
//	POST /complete            complete, redirects to /completed?block=1
//	GET  /completed           timeline page (block=1) or block fragment
//	POST /delete              delete, redirects to /
//	POST /up, /down           move, returns list fragment
//	GET  /project/:id         project page
//	POST /project/:id/notes   update notes
//	GET  /backup              JSON download
//	GET  /restore             upload form
//	POST /restore             restore from upload
//	GET  /healthz, /metrics
func (s *Server) registerRoutes() error {
	r := s.engine
	r.Use(
		s.recovery(),
		requestID(),
		s.accessLog(),
		s.metrics.middleware(),
	)

	// Unauthenticated probes
	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.opts.Registry, promhttp.HandlerOpts{})))

	css, err := fs.Sub(staticFS, "static/css")
	if err != nil {
		return err
	}
	assets, err := fs.Sub(staticFS, "static/assets")
	if err != nil {
		return err
	}
	r.StaticFS("/css", http.FS(css))
	r.StaticFS("/assets", http.FS(assets))

	app := r.Group("/")
	if s.opts.Password != "" {
		app.Use(basicAuth(s.opts.Password))
	}

	app.GET("/", s.handleIndex)
	app.POST("/add", s.handleAdd)
	app.POST("/start", s.handleStart)
	app.POST("/complete", s.handleComplete)
	app.GET("/completed", s.handleCompleted)
	app.POST("/delete", s.handleDelete)
	app.POST("/up", s.handleUp)
	app.POST("/down", s.handleDown)
	app.GET("/project/:id", s.handleProject)
	app.POST("/project/:id/notes", s.handleNotes)
	app.GET("/backup", s.handleBackup)
	app.GET("/restore", s.handleRestoreForm)
	app.POST("/restore", s.handleRestore)

	return nil
}
