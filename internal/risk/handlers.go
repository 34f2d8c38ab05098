package risk

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tessfin/paylater/internal/ledger"
)

// Handler provides HTTP endpoints for risk-profile queries.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler creates a new risk handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up risk query routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/users", h.ListProfiles)
	r.GET("/users/:name", h.GetProfile)
}

// GetProfile handles GET /api/users/:name
func (h *Handler) GetProfile(c *gin.Context) {
	name := c.Param("name")

	profile, err := h.service.UserProfile(c.Request.Context(), name)
	if errors.Is(err, ledger.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "User not found"})
		return
	}
	if err != nil {
		h.logger.Error("profile query failed", "user", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile_error", "message": "Failed to compute risk profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ListProfiles handles GET /api/users
func (h *Handler) ListProfiles(c *gin.Context) {
	overviews, err := h.service.AllProfiles(c.Request.Context())
	if err != nil {
		h.logger.Error("profile listing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile_error", "message": "Failed to compute risk profiles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": overviews, "count": len(overviews)})
}
