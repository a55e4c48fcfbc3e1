package handler

import (
	"context"
	"fmt"
	"html"
	"net/http"

	"github.com/gin-gonic/gin"

	"certificados/internal/drive"
	"certificados/internal/service"
)

type purgeService interface {
	PurgeCohort(ctx context.Context, classCode string, sink service.PurgeSink) error
}

// PurgeHandler serves the streaming cohort deletion endpoint.
type PurgeHandler struct {
	service purgeService
}

// NewPurgeHandler creates a new handler.
func NewPurgeHandler(svc purgeService) *PurgeHandler {
	return &PurgeHandler{service: svc}
}

// PurgeCohort godoc
// @Summary Delete a whole cohort, streaming progress
// @Description Chunked text/html log: one line per deleted certificate, then a footer with the total. The response streams while rows are deleted; a store failure truncates it without a footer.
// @Tags Cohorts
// @Produce html
// @Param classCode path string true "Class code"
// @Success 200 {string} string "streamed progress log"
// @Failure 401 {object} response.Envelope
// @Router /admin/cohorts/{classCode} [delete]
func (h *PurgeHandler) PurgeCohort(c *gin.Context) {
	classCode := c.Param("classCode")

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Header("Cache-Control", "no-store")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	sink := &htmlLogSink{w: c.Writer}

	// The purge keeps running if the client goes away: by then the
	// cohort is partially deleted, and abandoning the rest would leave
	// it in a state only another purge can clean up. Writes to the
	// closed pipe simply fail. Deletions up to a mid-stream store
	// failure are already committed and reported; the truncated stream
	// (no footer) is the signal.
	_ = h.service.PurgeCohort(context.WithoutCancel(c.Request.Context()), classCode, sink)
}

// htmlLogSink renders purge progress as a terminal-styled HTML log,
// flushing after every record so the client sees rows as they commit.
type htmlLogSink struct {
	w gin.ResponseWriter
}

func (s *htmlLogSink) Header(classCode string) {
	fmt.Fprintf(s.w,
		"<html><head><meta charset='utf-8'></head><body style='background:#1e1e1e;color:#00ff00;font-family:monospace;padding:20px;'><h2>🗑️ Clearing cohort %s...</h2>",
		html.EscapeString(classCode))
	s.w.Flush()
}

func (s *htmlLogSink) Row(index int, studentName string, outcome drive.Outcome) {
	marker := "⚠️ Drive (not found/error)"
	if outcome.Succeeded() {
		marker = "✅ Drive"
	}
	// The database step always reads OK: a failed row delete aborts the
	// whole stream before this record is written.
	fmt.Fprintf(s.w,
		"<div>[%d] %s: %s ... Banco OK.</div><script>window.scrollTo(0,document.body.scrollHeight);</script>",
		index, html.EscapeString(studentName), marker)
	s.w.Flush()
}

func (s *htmlLogSink) Footer(removed int) {
	fmt.Fprintf(s.w,
		"<br><h3>🏁 Done! %d certificates removed.</h3><a href='/admin/certificates' style='background:#fff;color:#000;padding:10px;text-decoration:none;border-radius:4px;'>⬅ Back to listing</a></body></html>",
		removed)
	s.w.Flush()
}
