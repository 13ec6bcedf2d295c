package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"devbench/internal/app"
	"devbench/internal/transport/http/middleware"
	"devbench/internal/transport/http/response"
)

type AuthHandler struct {
	authService *app.AuthService
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"required,email,max=128"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

func NewAuthHandler(authService *app.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload", response.CodeValidationError)
		return
	}

	result, err := h.authService.Register(app.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error(), response.CodeValidationError)
		case errors.Is(err, app.ErrUsernameExists):
			response.ErrorWithFields(c, http.StatusBadRequest, err.Error(), response.CodeValidationError,
				map[string]string{"username": "already taken"})
		case errors.Is(err, app.ErrEmailExists):
			response.ErrorWithFields(c, http.StatusBadRequest, err.Error(), response.CodeValidationError,
				map[string]string{"email": "already registered"})
		default:
			response.Error(c, http.StatusInternalServerError, "register failed", response.CodeInternalError)
		}
		return
	}

	response.Created(c, "Account created successfully.", gin.H{
		"token": result.Token,
		"user": gin.H{
			"id":       result.User.ID,
			"username": result.User.Username,
			"email":    result.User.Email,
		},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload", response.CodeValidationError)
		return
	}

	result, err := h.authService.Login(app.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error(), response.CodeValidationError)
		case errors.Is(err, app.ErrInvalidCredential):
			response.Error(c, http.StatusUnauthorized, err.Error(), response.CodeUnauthorized)
		default:
			response.Error(c, http.StatusInternalServerError, "login failed", response.CodeInternalError)
		}
		return
	}

	response.OK(c, "Logged in successfully.", gin.H{
		"token": result.Token,
		"user": gin.H{
			"id":       result.User.ID,
			"username": result.User.Username,
			"email":    result.User.Email,
		},
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload", response.CodeUnauthorized)
		return
	}

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "fetch current user failed", response.CodeInternalError)
		return
	}
	if user == nil {
		response.Error(c, http.StatusUnauthorized, "user not found", response.CodeUnauthorized)
		return
	}

	response.OK(c, "Current user retrieved successfully.", gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

func getUserIDFromContext(c *gin.Context) (uint, bool) {
	userIDAny, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := userIDAny.(uint)
	return userID, ok
}
