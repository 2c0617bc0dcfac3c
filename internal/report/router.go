package report

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/rawblock/logiclock/pkg/models"
)

// Payload is the JSON body served at GET /report: the coverage-vs-
// locked-cells table for the most recently completed -report run.
type Payload struct {
	Module   string               `json:"module"`
	Target   models.Target        `json:"target"`
	Coverage []models.CoverageRow `json:"coverage"`
}

// Handler serves the coverage table computed by a Driver run. It holds
// no engine state itself — the Driver pushes its result in once the
// run completes.
type Handler struct {
	mu     sync.RWMutex
	latest *Payload
}

// NewHandler returns a Handler with no report served yet.
func NewHandler() *Handler {
	return &Handler{}
}

// SetReport records the latest coverage table, replacing any prior one.
func (h *Handler) SetReport(module string, target models.Target, coverage []models.CoverageRow) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = &Payload{Module: module, Target: target, Coverage: coverage}
}

func (h *Handler) handleReport(c *gin.Context) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.latest == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no report available yet"})
		return
	}
	c.JSON(http.StatusOK, h.latest)
}

func (h *Handler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "operational", "service": "logiclock-report"})
}

// Router wires the live progress feed and the coverage-table endpoint,
// grounded on the teacher's SetupRouter shape.
func Router(hub *Hub, handler *Handler) *gin.Engine {
	r := gin.Default()

	pub := r.Group("/")
	{
		pub.GET("/health", handler.handleHealth)
		pub.GET("/ws", hub.Subscribe)
	}

	protected := r.Group("/")
	protected.Use(AuthMiddleware())
	protected.Use(NewRateLimiter(30, 10).Middleware())
	{
		protected.GET("/report", handler.handleReport)
	}

	return r
}
