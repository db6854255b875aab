package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smartledger/backend/internal/domain/ledger"
	"github.com/smartledger/backend/internal/infrastructure/logger"
	"github.com/smartledger/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// LedgerHandler handles the dashboard read and upsert write endpoints
type LedgerHandler struct {
	BaseHandler
	store ledger.SnapshotStore
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(store ledger.SnapshotStore) *LedgerHandler {
	return &LedgerHandler{store: store}
}

// RegisterRoutes registers the ledger routes
func (h *LedgerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard/:client_id", h.Dashboard)
	rg.POST("/upsert/:table", h.Upsert)
}

// UpsertRequest is the body of POST /upsert/:table
type UpsertRequest struct {
	ClientID string         `json:"client_id"`
	Values   map[string]any `json:"values"`
}

// Dashboard returns the latest snapshot for every logical table, keyed by
// logical name, with null for tables the client has never written to.
// A failure in any lookup fails the whole read; there are no partial
// dashboards.
func (h *LedgerHandler) Dashboard(c *gin.Context) {
	clientID := strings.TrimSpace(c.Param("client_id"))
	if clientID == "" {
		h.BadRequest(c, dto.ErrCodeInvalidInput, "client_id required")
		return
	}

	result := make(gin.H, len(ledger.TableNames()))
	for _, table := range ledger.TableNames() {
		coll, err := ledger.Resolve(table)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}

		snap, err := h.store.FindLatest(c.Request.Context(), coll, clientID)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}
		if snap == nil {
			result[table] = nil
			continue
		}
		result[table] = snapshotDocument(snap)
	}

	c.JSON(http.StatusOK, result)
}

// Upsert merges the posted values into the client's snapshot for the
// given logical table, creating it on first write.
func (h *LedgerHandler) Upsert(c *gin.Context) {
	table := c.Param("table")
	coll, err := ledger.Resolve(table)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidJSON, "invalid request body: "+err.Error())
		return
	}

	if strings.TrimSpace(req.ClientID) == "" {
		h.BadRequest(c, dto.ErrCodeInvalidInput, "client_id required")
		return
	}

	values := req.Values
	if values == nil {
		values = map[string]any{}
	}

	warnings, err := ledger.ValidateValues(table, values)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	for _, warning := range warnings {
		logger.GetGinLogger(c).Warn("suspicious upsert value",
			zap.String("table", table),
			zap.String("detail", warning),
		)
	}

	if err := h.store.Upsert(c.Request.Context(), coll, req.ClientID, values); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// snapshotDocument renders a snapshot the way the dashboard reports it:
// the stored fields plus client_id and the server-set update time.
func snapshotDocument(s *ledger.Snapshot) gin.H {
	doc := make(gin.H, len(s.Fields)+2)
	for name, value := range s.Fields {
		doc[name] = value
	}
	doc["client_id"] = s.ClientID
	doc["updated_at"] = s.UpdatedAt.UTC().Format(time.RFC3339)
	return doc
}
