package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	authsvc "webhost-storefront/internal/service/auth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type profileResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

func (h *handlers) register(c *gin.Context) {
	var req authsvc.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	u, err := h.deps.Auth.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": u.ID, "email": u.Email, "name": u.Name})
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	res, err := h.deps.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) profile(c *gin.Context) {
	u, err := h.deps.Auth.Profile(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, profileResponse{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Role: string(u.Role)})
}

func (h *handlers) updateProfile(c *gin.Context) {
	var req authsvc.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	u, err := h.deps.Auth.UpdateProfile(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    profileResponse{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Role: string(u.Role)},
	})
}

func (h *handlers) forgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		badRequest(c, "email is required")
		return
	}
	if err := h.deps.Auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, authsvc.ErrSendEmail) {
			h.logger.WithError(err).Error("auth: send reset code")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to send email"})
			return
		}
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": authsvc.ForgotPasswordMessage})
}

func (h *handlers) resetPassword(c *gin.Context) {
	var req authsvc.ResetPasswordInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	if err := h.deps.Auth.ResetPassword(c.Request.Context(), req); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}
