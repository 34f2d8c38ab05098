package ledger

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Handler provides HTTP endpoints for appending ledger records.
type Handler struct {
	ledger *Ledger
	logger *slog.Logger
}

// NewHandler creates a new ledger handler.
func NewHandler(ledger *Ledger, logger *slog.Logger) *Handler {
	return &Handler{ledger: ledger, logger: logger}
}

// RegisterRoutes sets up ledger write routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/users", h.RegisterUser)
	r.POST("/purchases", h.AddPurchase)
	r.POST("/repayments", h.AddRepayment)
	r.POST("/verifications", h.AddVerification)
}

type registerRequest struct {
	Name        string  `json:"name" binding:"required"`
	DOB         string  `json:"dob" binding:"required"`
	CreditLimit float64 `json:"credit_limit"`
}

type amountRequest struct {
	User   string   `json:"user" binding:"required"`
	Amount *float64 `json:"amount" binding:"required"`
}

type verificationRequest struct {
	User   string `json:"user" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// RegisterUser handles POST /api/users
func (h *Handler) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	dob, err := time.Parse("2006-01-02", req.DOB)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_dob", "message": "Use YYYY-MM-DD format"})
		return
	}

	user, err := h.ledger.Register(c.Request.Context(), User{
		Name:        req.Name,
		DOB:         dob,
		CreditLimit: req.CreditLimit,
	})
	switch {
	case errors.Is(err, ErrUnderage):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "underage", "message": err.Error()})
		return
	case errors.Is(err, ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": "user_exists", "message": err.Error()})
		return
	case errors.Is(err, ErrEmptyName):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_name", "message": err.Error()})
		return
	case err != nil:
		h.logger.Error("register failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store_error", "message": "Failed to register user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// AddPurchase handles POST /api/purchases
func (h *Handler) AddPurchase(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	p := Purchase{User: req.User, Amount: *req.Amount, Timestamp: time.Now()}
	if err := h.ledger.AddPurchase(c.Request.Context(), p); err != nil {
		h.logger.Error("append purchase failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store_error", "message": "Failed to record purchase"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"purchase": p})
}

// AddRepayment handles POST /api/repayments
func (h *Handler) AddRepayment(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	r := Repayment{User: req.User, Amount: *req.Amount, Timestamp: time.Now()}
	if err := h.ledger.AddRepayment(c.Request.Context(), r); err != nil {
		h.logger.Error("append repayment failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store_error", "message": "Failed to record repayment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"repayment": r})
}

// AddVerification handles POST /api/verifications
func (h *Handler) AddVerification(c *gin.Context) {
	var req verificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	v := Verification{User: req.User, Status: req.Status, Timestamp: time.Now()}
	if err := h.ledger.AddVerification(c.Request.Context(), v); err != nil {
		h.logger.Error("append verification failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store_error", "message": "Failed to record verification"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"verification": v})
}
