package server

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dori/projboard/internal/backup"
	"github.com/dori/projboard/internal/db"
	"github.com/dori/projboard/internal/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Form payloads. category and position are what the page showed; the store
// treats them as advisory.
type projectForm struct {
	ID       int64  `form:"id" binding:"required"`
	Category string `form:"category"`
	Position int    `form:"position"`
}

type addForm struct {
	Name     string `form:"name" binding:"required"`
	Category string `form:"category" binding:"required"`
}

type completeForm struct {
	ID int64 `form:"id" binding:"required"`
}

// Template data

type column struct {
	Category string
	Slug     string
	Projects []model.Project
}

type indexData struct {
	Columns []column
}

type blockData struct {
	Projects  []model.Project
	NextBlock int
	More      bool
}

type completedData struct {
	Timeline Timeline
	Block    blockData
}

type projectData struct {
	Project *model.Project
	Notes   template.HTML
}

type restoredData struct {
	Count int
	Mode  string
}

// ----------------------------------------------------------------------------
// Lists
// ----------------------------------------------------------------------------

func (s *Server) handleIndex(c *gin.Context) {
	projects, err := s.store.GetActiveProjects(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}

	grouped := model.GroupByCategory(projects, s.opts.Categories)
	data := indexData{}
	for _, category := range s.opts.Categories {
		data.Columns = append(data.Columns, column{
			Category: category,
			Slug:     slug(category),
			Projects: grouped[category],
		})
	}
	c.HTML(http.StatusOK, "index.html", data)
}

// renderList writes the list fragment for one category
func (s *Server) renderList(c *gin.Context, category string) {
	projects, err := s.store.GetActiveProjects(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}

	col := column{Category: category, Slug: slug(category)}
	for _, p := range projects {
		if p.Category == category {
			col.Projects = append(col.Projects, p)
		}
	}
	c.HTML(http.StatusOK, "list.html", col)
}

func (s *Server) handleAdd(c *gin.Context) {
	var form addForm
	if err := c.ShouldBind(&form); err != nil {
		s.badRequest(c, "name and category are required")
		return
	}
	form.Name = strings.TrimSpace(form.Name)
	if form.Name == "" {
		s.badRequest(c, "name must not be blank")
		return
	}
	if s.categoryIndex(form.Category) < 0 {
		s.badRequest(c, fmt.Sprintf("unknown category %q", form.Category))
		return
	}

	_, err := s.store.AddProject(c.Request.Context(), form.Name, form.Category)
	s.metrics.observe("add", err)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.renderList(c, form.Category)
}

// positionOp is the shape shared by start, up and down
type positionOp func(s Store, c *gin.Context, form projectForm) error

func (s *Server) handlePositionOp(c *gin.Context, name string, op positionOp) {
	var form projectForm
	if err := c.ShouldBind(&form); err != nil {
		s.badRequest(c, "id is required")
		return
	}

	err := op(s.store, c, form)
	s.metrics.observe(name, err)
	if err != nil {
		s.fail(c, err)
		return
	}

	// Render the category the project is stored in, not the one the form claimed
	p, err := s.store.GetProject(c.Request.Context(), form.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	if name == "start" {
		s.notifyStarted(p)
	}
	s.renderList(c, p.Category)
}

func (s *Server) handleStart(c *gin.Context) {
	s.handlePositionOp(c, "start", func(st Store, c *gin.Context, f projectForm) error {
		return st.StartProject(c.Request.Context(), f.ID, f.Category, f.Position)
	})
}

func (s *Server) handleUp(c *gin.Context) {
	s.handlePositionOp(c, "move_up", func(st Store, c *gin.Context, f projectForm) error {
		return st.MoveProjectUp(c.Request.Context(), f.ID, f.Category, f.Position)
	})
}

func (s *Server) handleDown(c *gin.Context) {
	s.handlePositionOp(c, "move_down", func(st Store, c *gin.Context, f projectForm) error {
		return st.MoveProjectDown(c.Request.Context(), f.ID, f.Category, f.Position)
	})
}

func (s *Server) handleDelete(c *gin.Context) {
	var form projectForm
	if err := c.ShouldBind(&form); err != nil {
		s.badRequest(c, "id is required")
		return
	}

	err := s.store.DeleteProject(c.Request.Context(), form.ID, form.Category, form.Position)
	s.metrics.observe("delete", err)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// ----------------------------------------------------------------------------
// Completion
// ----------------------------------------------------------------------------

func (s *Server) handleComplete(c *gin.Context) {
	var form completeForm
	if err := c.ShouldBind(&form); err != nil {
		s.badRequest(c, "id is required")
		return
	}

	err := s.store.CompleteProject(c.Request.Context(), form.ID)
	s.metrics.observe("complete", err)
	if err != nil {
		s.fail(c, err)
		return
	}

	if p, err := s.store.GetProject(c.Request.Context(), form.ID); err == nil {
		s.notifyCompleted(p)
	}
	c.Redirect(http.StatusSeeOther, "/completed?block=1")
}

func (s *Server) handleCompleted(c *gin.Context) {
	block, err := strconv.Atoi(c.DefaultQuery("block", "1"))
	if err != nil || block < 1 {
		s.badRequest(c, "block must be a positive integer")
		return
	}
	ctx := c.Request.Context()

	projects, err := s.store.GetCompletedProjects(ctx, block)
	if err != nil {
		s.fail(c, err)
		return
	}
	data := blockData{
		Projects:  projects,
		NextBlock: block + 1,
		More:      len(projects) == model.BlockSize,
	}

	if block > 1 {
		c.HTML(http.StatusOK, "block.html", data)
		return
	}

	all, err := s.store.GetCompletedProjects(ctx, 0)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "completed.html", completedData{
		Timeline: BuildTimeline(all, s.opts.Categories, s.opts.Now()),
		Block:    data,
	})
}

// ----------------------------------------------------------------------------
// Project page
// ----------------------------------------------------------------------------

func (s *Server) projectID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		s.badRequest(c, "invalid project id")
		return 0, false
	}
	return id, true
}

func (s *Server) handleProject(c *gin.Context) {
	id, ok := s.projectID(c)
	if !ok {
		return
	}

	p, err := s.store.GetProject(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "project.html", projectData{
		Project: p,
		Notes:   s.renderNotes(p.Notes),
	})
}

func (s *Server) handleNotes(c *gin.Context) {
	id, ok := s.projectID(c)
	if !ok {
		return
	}

	err := s.store.UpdateNotes(c.Request.Context(), id, c.PostForm("notes"))
	s.metrics.observe("update_notes", err)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/project/%d", id))
}

// ----------------------------------------------------------------------------
// Backup and restore
// ----------------------------------------------------------------------------

func (s *Server) handleBackup(c *gin.Context) {
	projects, err := s.store.ExportProjects(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := backup.Encode(&buf, projects); err != nil {
		s.fail(c, err)
		return
	}

	filename := backup.FileName(s.opts.Now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/json", buf.Bytes())
}

func (s *Server) handleRestoreForm(c *gin.Context) {
	c.HTML(http.StatusOK, "restore.html", nil)
}

func (s *Server) handleRestore(c *gin.Context) {
	mode, err := db.ParseImportMode(c.PostForm("mode"))
	if err != nil {
		s.badRequest(c, err.Error())
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		s.badRequest(c, "a backup file is required")
		return
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".json") {
		s.badRequest(c, "backup file must be a .json file")
		return
	}

	f, err := header.Open()
	if err != nil {
		s.fail(c, err)
		return
	}
	defer f.Close()

	projects, err := backup.Decode(f)
	if err != nil {
		s.fail(c, err)
		return
	}

	n, err := s.store.ImportProjects(c.Request.Context(), projects, mode)
	s.metrics.observe("import", err)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.logger.Info("restored backup",
		zap.String("file", header.Filename), zap.Int("count", n), zap.Stringer("mode", mode))
	c.HTML(http.StatusOK, "restored.html", restoredData{Count: n, Mode: mode.String()})
}

// ----------------------------------------------------------------------------
// Probes and notifications
// ----------------------------------------------------------------------------

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) notifyStarted(p *model.Project) {
	if !s.opts.Notifier.IsEnabled() {
		return
	}
	if err := s.opts.Notifier.SendProjectStarted(p.Name, p.Category); err != nil {
		s.logger.Warn("notification failed", zap.Int64("id", p.ID), zap.Error(err))
	}
}

func (s *Server) notifyCompleted(p *model.Project) {
	if !s.opts.Notifier.IsEnabled() {
		return
	}
	if err := s.opts.Notifier.SendProjectCompleted(p.Name, p.Duration()); err != nil {
		s.logger.Warn("notification failed", zap.Int64("id", p.ID), zap.Error(err))
	}
}
