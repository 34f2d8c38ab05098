package anomaly

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tessfin/paylater/internal/ledger"
	"github.com/tessfin/paylater/internal/traces"
)

// Handler provides the HTTP endpoint for on-demand validation runs.
type Handler struct {
	ledger *ledger.Ledger
	logger *slog.Logger
}

// NewHandler creates a new validation handler.
func NewHandler(l *ledger.Ledger, logger *slog.Logger) *Handler {
	return &Handler{ledger: l, logger: logger}
}

// RegisterRoutes sets up validation routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/validate", h.Validate)
}

// Validate handles GET /api/validate
//
// Query parameters:
//
//	checks  comma-separated check names (default: all; unknown names dropped)
//	user    restrict the run to a single user
//	format  "json" (default) or "csv"
func (h *Handler) Validate(c *gin.Context) {
	ctx, span := traces.StartSpan(c.Request.Context(), "anomaly.Validate")
	defer span.End()

	snap, err := h.ledger.Snapshot(ctx)
	if err != nil {
		h.logger.Error("snapshot load failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store_error", "message": "Failed to load ledger"})
		return
	}

	checks := ParseChecks(c.Query("checks"))
	report := NewRunner(snap).Run(checks, c.Query("user"))

	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", `attachment; filename="risk_validation_report.csv"`)
		if err := report.WriteCSV(c.Writer); err != nil {
			h.logger.Error("csv encode failed", "error", err)
		}
		return
	}

	c.JSON(http.StatusOK, report)
}
