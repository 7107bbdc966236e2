package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/evaselfe/entrepedia-7/internal/password"
	"github.com/evaselfe/entrepedia-7/internal/service"
)

// PasswordResetHandler exposes the action-dispatched reset endpoint.
type PasswordResetHandler struct {
	Reset *service.PasswordResetService
}

// NewPasswordResetHandler creates the handler.
func NewPasswordResetHandler(reset *service.PasswordResetService) *PasswordResetHandler {
	return &PasswordResetHandler{Reset: reset}
}

// Handle dispatches on the action field. One endpoint serves request_otp,
// verify_otp, and reset_password; no auth header is required for any of them.
func (h *PasswordResetHandler) Handle(c *gin.Context) {
	var req struct {
		Action       string `json:"action" binding:"required"`
		MobileNumber string `json:"mobile_number"`
		OTP          string `json:"otp"`
		NewPassword  string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid request body."})
		return
	}

	switch strings.ToLower(strings.TrimSpace(req.Action)) {
	case "request_otp":
		result, err := h.Reset.RequestOTP(c.Request.Context(), req.MobileNumber)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		resp := gin.H{"success": true}
		if result.DebugOTP != "" {
			resp["debug_otp"] = result.DebugOTP
		}
		c.JSON(http.StatusOK, resp)

	case "verify_otp":
		if err := h.Reset.VerifyOTP(c.Request.Context(), req.MobileNumber, req.OTP); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "verified": true})

	case "reset_password":
		if err := h.Reset.ResetPassword(c.Request.Context(), req.MobileNumber, req.OTP, req.NewPassword); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_action", "error_description": "Unknown action."})
	}
}

// Strength scores a candidate password for UI feedback. It never stores or
// logs the password.
func (h *PasswordResetHandler) Strength(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "password is required."})
		return
	}
	c.JSON(http.StatusOK, password.Evaluate(req.Password))
}
