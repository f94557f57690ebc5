package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/arul-selvam/steel-quotes/internal/common"
	"github.com/arul-selvam/steel-quotes/internal/conversation"
	"github.com/arul-selvam/steel-quotes/internal/export"
	"github.com/arul-selvam/steel-quotes/internal/quote"
	"github.com/arul-selvam/steel-quotes/internal/repository"
	"github.com/arul-selvam/steel-quotes/internal/session"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handlers carries the dependencies of the HTTP surface.
type Handlers struct {
	sessions   *session.Manager
	driver     *conversation.Driver
	quotations repository.QuotationRepository
	exporter   *export.Service
	logger     *slog.Logger
}

func NewHandlers(
	sessions *session.Manager,
	driver *conversation.Driver,
	quotations repository.QuotationRepository,
	exporter *export.Service,
	logger *slog.Logger,
) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		sessions:   sessions,
		driver:     driver,
		quotations: quotations,
		exporter:   exporter,
		logger:     logger,
	}
}

func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) CreateSession(c *gin.Context) {
	s := h.sessions.Create()
	c.JSON(http.StatusCreated, gin.H{
		"session_id": s.ID,
		"draft":      s.Draft,
	})
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *Handlers) Chat(c *gin.Context) {
	s, ok := h.lookupSession(c)
	if !ok {
		return
	}
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	ctx := common.WithSessionID(c.Request.Context(), s.ID.String())
	h.logger.Info("chat.message",
		"session_id", s.ID,
		"request_id", common.RequestIDFromContext(ctx),
		"len", len(req.Message),
	)
	reply := h.driver.HandleMessage(ctx, s, req.Message)

	resp := gin.H{"reply": reply.Text}
	if reply.Generated != nil {
		q, err := h.quotations.SaveFromPayload(ctx, reply.Generated)
		if err != nil {
			h.logger.Error("chat generate: save failed", "session_id", s.ID, "error", err)
			c.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		s.Lock()
		*s.Draft = *quote.NewDraft()
		s.AskingField = ""
		s.ClearAsked()
		s.Unlock()
		resp["document"] = reply.Generated
		resp["quotation_id"] = q.ID
		resp["quotation_number"] = q.QuotationNumber
	}
	// HandleMessage released the session lock; marshal a snapshot, not the
	// live draft.
	resp["draft"] = s.Snapshot()
	c.JSON(http.StatusOK, resp)
}

func (h *Handlers) GetDraft(c *gin.Context) {
	s, ok := h.lookupSession(c)
	if !ok {
		return
	}
	s.Lock()
	defer s.Unlock()
	c.JSON(http.StatusOK, gin.H{
		"session_id": s.ID,
		"draft":      s.Draft,
		"ready":      len(quote.MissingRequired(s.Draft)) == 0,
	})
}

// Generate finalizes the session's draft: readiness check, projection,
// persistence, XLSX render. The draft resets afterwards so the session can
// start the next quotation.
func (h *Handlers) Generate(c *gin.Context) {
	s, ok := h.lookupSession(c)
	if !ok {
		return
	}
	s.Lock()
	defer s.Unlock()

	if !quote.IsReady(s.Draft) {
		missing := quote.MissingRequired(s.Draft)
		h.logger.Info("generate refused: draft not ready",
			"session_id", s.ID, "missing", missing)
		c.JSON(http.StatusConflict, gin.H{
			"error":   "draft not ready",
			"missing": missing,
		})
		return
	}

	payload := quote.ToDocument(s.Draft)
	q, err := h.quotations.SaveFromPayload(c.Request.Context(), &payload)
	if err != nil {
		c.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	doc, err := h.exporter.RenderQuotationXLSX(&payload)
	if err != nil {
		h.logger.Error("quotation render failed", "quotation_id", q.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}

	*s.Draft = *quote.NewDraft()
	s.AskingField = ""
	s.ClearAsked()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", q.QuotationNumber))
	c.Data(http.StatusOK, xlsxContentType, doc)
}

func (h *Handlers) Reset(c *gin.Context) {
	s, ok := h.lookupSession(c)
	if !ok {
		return
	}
	s.Lock()
	defer s.Unlock()
	*s.Draft = *quote.NewDraft()
	s.AskingField = ""
	s.ClearAsked()
	c.JSON(http.StatusOK, gin.H{"draft": s.Draft})
}

func (h *Handlers) ListQuotations(c *gin.Context) {
	from, to, err := h.dateWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	quotes, err := h.quotations.List(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"quotations": quotes})
}

func (h *Handlers) ExportQuotations(c *gin.Context) {
	from, to, err := h.dateWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx, cancel := common.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()
	doc, err := h.exporter.ExportQuotationsXLSX(ctx, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", "attachment; filename=quotations.xlsx")
	c.Data(http.StatusOK, xlsxContentType, doc)
}

func (h *Handlers) lookupSession(c *gin.Context) (*session.Session, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session id must be a UUID"})
		return nil, false
	}
	s, ok := h.sessions.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return s, true
}

func (h *Handlers) dateWindow(c *gin.Context) (from, to *time.Time, err error) {
	if fd := strings.TrimSpace(c.Query("from")); fd != "" {
		t, perr := time.Parse("2006-01-02", fd)
		if perr != nil {
			return nil, nil, fmt.Errorf("from invalid (YYYY-MM-DD): %w", perr)
		}
		from = &t
	}
	if td := strings.TrimSpace(c.Query("to")); td != "" {
		t, perr := time.Parse("2006-01-02", td)
		if perr != nil {
			return nil, nil, fmt.Errorf("to invalid (YYYY-MM-DD): %w", perr)
		}
		to = &t
	}
	return from, to, nil
}
