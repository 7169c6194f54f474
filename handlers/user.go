package handlers

import (
	"net/http"

	"groundbook/middleware"
	"groundbook/services/user"
	"groundbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterUserHandler handles POST /api/users/register.
func (h *HandlerBundle) RegisterUserHandler(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.ValidationError{Field: "body", Msg: err.Error()})
		return
	}
	resp, err := h.Users.Register(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	middleware.Logger(c).Info("User registered", zap.String("userID", resp.ID))
	c.JSON(http.StatusCreated, resp)
}

// LoginUserHandler handles POST /api/users/login.
func (h *HandlerBundle) LoginUserHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.ValidationError{Field: "body", Msg: "email and password are required"})
		return
	}
	resp, err := h.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RefreshTokenHandler handles POST /api/users/refresh.
func (h *HandlerBundle) RefreshTokenHandler(c *gin.Context) {
	resp, err := h.Users.Refresh(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LogoutUserHandler handles POST /api/users/logout.
func (h *HandlerBundle) LogoutUserHandler(c *gin.Context) {
	if err := h.Users.Logout(c.Request.Context(), middleware.CurrentIdentity(c)); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GetMeHandler handles GET /api/users/me.
func (h *HandlerBundle) GetMeHandler(c *gin.Context) {
	profile, err := h.Users.GetProfile(c.Request.Context(), middleware.CurrentIdentity(c).UserID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateMeHandler handles PUT /api/users/me.
func (h *HandlerBundle) UpdateMeHandler(c *gin.Context) {
	var req user.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.ValidationError{Field: "body", Msg: err.Error()})
		return
	}
	profile, err := h.Users.UpdateProfile(c.Request.Context(), middleware.CurrentIdentity(c).UserID, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateFCMTokenHandler handles PUT /api/users/me/fcm-token.
func (h *HandlerBundle) UpdateFCMTokenHandler(c *gin.Context) {
	var req struct {
		Token string `json:"fcm_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.ValidationError{Field: "body", Msg: err.Error()})
		return
	}
	if err := h.Users.UpdateFCMToken(c.Request.Context(), middleware.CurrentIdentity(c).UserID, req.Token); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Push token updated"})
}
