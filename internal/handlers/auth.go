package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medivault-server/internal/services"
	"medivault-server/internal/utils"
)

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	Service *services.AuthService
	Log     *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *services.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{Service: svc, Log: log}
}

// RegisterRequest represents the request body for user registration.
type RegisterRequest struct {
	Name      string `json:"name" binding:"required,max=150"`
	Email     string `json:"email" binding:"required,email,max=255"`
	Password  string `json:"password" binding:"required,min=6,max=72"`
	Role      string `json:"role" binding:"required"`
	Specialty string `json:"specialty" binding:"max=150"`
	License   string `json:"license" binding:"max=100"`
	Hospital  string `json:"hospital" binding:"max=200"`
	Phone     string `json:"phone" binding:"max=50"`
}

// Register handles user registration.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	resp, err := h.Service.Register(c.Request.Context(), services.RegisterInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		Specialty: req.Specialty,
		License:   req.License,
		Hospital:  req.Hospital,
		Phone:     req.Phone,
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, resp)
}

// LoginRequest carries no validation rules: any malformed input is simply
// another failed login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles user login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	resp, err := h.Service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, resp)
}

// Me returns the authenticated caller's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	user, err := h.Service.Profile(c.Request.Context(), p)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, user)
}
