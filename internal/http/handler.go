package http

import (
	"context"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"gearbot/internal/database"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// Journal чтение журнала решений
type Journal interface {
	RecentDecisions(ctx context.Context, limit int) ([]database.Record, error)
	DecisionCounts(ctx context.Context) (map[string]int, error)
}

type Handler struct {
	journal Journal
	log     zerolog.Logger
}

func NewHandler(journal Journal, log zerolog.Logger) *Handler {
	return &Handler{
		journal: journal,
		log:     log,
	}
}

// NewRouter gin с CORS и страницей журнала
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet},
		AllowHeaders:    []string{"Origin", "Content-Type"},
	}))
	r.SetHTMLTemplate(template.Must(template.New("index").Funcs(template.FuncMap{
		"formatDecision": formatDecision,
	}).Parse(indexHTML)))
	h.Register(r)
	return r
}

func (h *Handler) Register(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/", h.index)

	public := r.Group("/api/v1")
	{
		public.GET("/decisions", h.listDecisions)
		public.GET("/decisions/stats", h.decisionStats)
	}
}

func (h *Handler) listDecisions(c *gin.Context) {
	records, err := h.journal.RecentDecisions(c.Request.Context(), parseLimit(c.Query("limit")))
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list decisions")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
		return
	}
	if records == nil {
		records = []database.Record{}
	}
	c.JSON(http.StatusOK, successResponse(records))
}

func (h *Handler) decisionStats(c *gin.Context) {
	counts, err := h.journal.DecisionCounts(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to count decisions")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
		return
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	c.JSON(http.StatusOK, successResponse(gin.H{
		"total":     total,
		"decisions": counts,
	}))
}

func (h *Handler) index(c *gin.Context) {
	records, err := h.journal.RecentDecisions(c.Request.Context(), parseLimit(c.Query("limit")))
	if err != nil {
		h.log.Error().Err(err).Msg("failed to render journal")
		c.String(http.StatusInternalServerError, "DB error")
		return
	}
	c.HTML(http.StatusOK, "index", gin.H{"Records": records})
}

// parseLimit некорректное значение - лимит по умолчанию
func parseLimit(s string) int {
	limit, err := strconv.Atoi(s)
	if err != nil || limit <= 0 {
		return defaultLimit
	}
	return min(limit, maxLimit)
}

func formatDecision(decision string) string {
	switch decision {
	case "UPGRADE":
		return "⬆️ Усилить"
	case "STORE":
		return "📦 В хранилище"
	case "SELL":
		return "💸 Продать"
	case "EXTRACT":
		return "⚗️ Разобрать"
	default:
		return decision
	}
}

func successResponse(data interface{}) gin.H {
	return gin.H{
		"data": data,
	}
}

func errorResponse(message string) gin.H {
	return gin.H{
		"error": message,
	}
}
