package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smartledger/backend/internal/domain/ledger"
	"github.com/smartledger/backend/internal/infrastructure/config"
)

// how many collection names the diagnostic endpoint reports at most
const maxDiagnosticCollections = 10

// SystemHandler handles the health probe and the storage diagnostic
// endpoint.
type SystemHandler struct {
	BaseHandler
	store     ledger.SnapshotStore
	cfg       *config.Config
	connected bool
}

// NewSystemHandler creates a new SystemHandler. connected reports whether
// the database connection was established at startup.
func NewSystemHandler(store ledger.SnapshotStore, cfg *config.Config, connected bool) *SystemHandler {
	return &SystemHandler{
		store:     store,
		cfg:       cfg,
		connected: connected,
	}
}

// RegisterRoutes registers the system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.Root)
	rg.GET("/test", h.Diagnostics)
}

// Root is the static health probe
func (h *SystemHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Smart Ledger Backend",
		"status":  "ok",
	})
}

// Diagnostics reports storage health. It always answers 200: a diagnostic
// endpoint that itself errors is indistinguishable from an outage, so any
// failure during introspection degrades the payload instead.
func (h *SystemHandler) Diagnostics(c *gin.Context) {
	resp := gin.H{
		"backend":           "running",
		"database":          "not available",
		"database_url":      "not set",
		"database_name":     "not set",
		"connection_status": "not connected",
		"collections":       []string{},
	}

	if h.cfg.Database.URL != "" {
		resp["database_url"] = "set"
	}
	if h.cfg.Database.Name != "" {
		resp["database_name"] = "set"
	}

	if !h.connected {
		resp["database"] = "client not initialized"
		c.JSON(http.StatusOK, resp)
		return
	}

	colls, err := h.store.Collections(c.Request.Context(), maxDiagnosticCollections)
	if err != nil {
		resp["database"] = "connected but error: " + err.Error()
		c.JSON(http.StatusOK, resp)
		return
	}

	resp["database"] = "connected"
	resp["connection_status"] = "connected"
	resp["collections"] = colls
	c.JSON(http.StatusOK, resp)
}
