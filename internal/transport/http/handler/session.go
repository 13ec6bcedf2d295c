package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"devbench/internal/app"
	"devbench/internal/model"
	"devbench/internal/transport/http/response"
)

type SessionHandler struct {
	sessionService *app.SessionService
}

type CreateSessionRequest struct {
	Title   string `json:"title" binding:"required,max=200"`
	RunMode string `json:"run_mode" binding:"omitempty,oneof=parallel pipeline"`
}

type UpdateSessionRequest struct {
	Title   *string `json:"title" binding:"omitempty,max=200"`
	RunMode *string `json:"run_mode" binding:"omitempty,oneof=parallel pipeline"`
}

type CreateModelConfigRequest struct {
	AiModelID    uint     `json:"ai_model_id" binding:"required,gt=0"`
	Role         string   `json:"role" binding:"required,oneof=coder explainer"`
	Temperature  *float64 `json:"temperature" binding:"omitempty,gte=0,lte=2"`
	SystemPrompt string   `json:"system_prompt"`
	IsEnabled    *bool    `json:"is_enabled"`
}

type UpdateModelConfigRequest struct {
	Temperature  *float64 `json:"temperature" binding:"omitempty,gte=0,lte=2"`
	SystemPrompt *string  `json:"system_prompt"`
	IsEnabled    *bool    `json:"is_enabled"`
}

func NewSessionHandler(sessionService *app.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

func (h *SessionHandler) Create(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload", response.CodeUnauthorized)
		return
	}

	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithFields(c, http.StatusBadRequest, "invalid request payload", response.CodeValidationError,
			map[string]string{"title": "required, at most 200 characters"})
		return
	}

	session, err := h.sessionService.CreateSession(app.CreateSessionInput{
		UserID:  userID,
		Title:   req.Title,
		RunMode: req.RunMode,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrSessionQuotaExceeded):
			response.Error(c, http.StatusBadRequest, err.Error(), response.CodeQuotaExceeded)
		case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrInvalidRunMode):
			response.Error(c, http.StatusBadRequest, err.Error(), response.CodeValidationError)
		default:
			response.Error(c, http.StatusInternalServerError, "create session failed", response.CodeInternalError)
		}
		return
	}

	response.Created(c, "Session created successfully.", session)
}

func (h *SessionHandler) List(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload", response.CodeUnauthorized)
		return
	}

	sessions, err := h.sessionService.ListSessions(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "list sessions failed", response.CodeInternalError)
		return
	}

	active := 0
	for _, s := range sessions {
		if !s.IsArchived {
			active++
		}
	}
	response.OKWithMeta(c, "Sessions retrieved successfully.", sessions, gin.H{
		"total":        len(sessions),
		"active":       active,
		"active_limit": model.ActiveSessionLimit,
	})
}

func (h *SessionHandler) Get(c *gin.Context) {
	userID, sessionID, ok := h.sessionScope(c)
	if !ok {
		return
	}

	session, err := h.sessionService.GetSession(userID, sessionID)
	if err != nil {
		h.writeSessionError(c, err, "get session failed")
		return
	}

	response.OK(c, "Session retrieved successfully.", session)
}

func (h *SessionHandler) Update(c *gin.Context) {
	userID, sessionID, ok := h.sessionScope(c)
	if !ok {
		return
	}

	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload", response.CodeValidationError)
		return
	}

	session, err := h.sessionService.UpdateSession(app.UpdateSessionInput{
		UserID:    userID,
		SessionID: sessionID,
		Title:     req.Title,
		RunMode:   req.RunMode,
	})
	if err != nil {
		h.writeSessionError(c, err, "update session failed")
		return
	}

	response.OK(c, "Session updated successfully.", session)
}

func (h *SessionHandler) Archive(c *gin.Context) {
	userID, sessionID, ok := h.sessionScope(c)
	if !ok {
		return
	}

	session, err := h.sessionService.ArchiveSession(userID, sessionID)
	if err != nil {
		h.writeSessionError(c, err, "archive session failed")
		return
	}

	response.OK(c, "Session archived successfully.", session)
}

func (h *SessionHandler) Delete(c *gin.Context) {
	userID, sessionID, ok := h.sessionScope(c)
	if !ok {
		return
	}

	if err := h.sessionService.DeleteSession(userID, sessionID); err != nil {
		h.writeSessionError(c, err, "delete session failed")
		return
	}

	response.OK(c, "Session and all of its runs were deleted.", gin.H{"deleted_session_id": sessionID})
}

func (h *SessionHandler) CreateConfig(c *gin.Context) {
	userID, sessionID, ok := h.sessionScope(c)
	if !ok {
		return
	}

	var req CreateModelConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithFields(c, http.StatusBadRequest, "invalid request payload", response.CodeValidationError,
			map[string]string{"role": "must be coder or explainer", "temperature": "must be between 0.00 and 2.00"})
		return
	}

	config, err := h.sessionService.CreateModelConfig(app.CreateModelConfigInput{
		UserID:       userID,
		SessionID:    sessionID,
		AiModelID:    req.AiModelID,
		Role:         req.Role,
		Temperature:  req.Temperature,
		SystemPrompt: req.SystemPrompt,
		IsEnabled:    req.IsEnabled,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrConfigExists):
			response.ErrorWithFields(c, http.StatusBadRequest, err.Error(), response.CodeDuplicateConfig,
				map[string]string{"role": "this model already has a config for this role"})
		case errors.Is(err, app.ErrAiModelNotFound):
			response.Error(c, http.StatusNotFound, err.Error(), response.CodeNotFound)
		case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrInvalidRole), errors.Is(err, app.ErrInvalidTemperature):
			response.Error(c, http.StatusBadRequest, err.Error(), response.CodeValidationError)
		default:
			h.writeSessionError(c, err, "create model config failed")
		}
		return
	}

	response.Created(c, "Model config created successfully.", config)
}

func (h *SessionHandler) ListConfigs(c *gin.Context) {
	userID, sessionID, ok := h.sessionScope(c)
	if !ok {
		return
	}

	configs, err := h.sessionService.ListModelConfigs(userID, sessionID)
	if err != nil {
		h.writeSessionError(c, err, "list model configs failed")
		return
	}

	response.OK(c, "Model configs retrieved successfully.", configs)
}

func (h *SessionHandler) UpdateConfig(c *gin.Context) {
	userID, sessionID, ok := h.sessionScope(c)
	if !ok {
		return
	}
	configID, ok := parseIDParam(c, "config_id")
	if !ok {
		return
	}

	var req UpdateModelConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload", response.CodeValidationError)
		return
	}

	config, err := h.sessionService.UpdateModelConfig(app.UpdateModelConfigInput{
		UserID:       userID,
		SessionID:    sessionID,
		ConfigID:     configID,
		Temperature:  req.Temperature,
		SystemPrompt: req.SystemPrompt,
		IsEnabled:    req.IsEnabled,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrConfigNotFound):
			response.Error(c, http.StatusNotFound, err.Error(), response.CodeNotFound)
		case errors.Is(err, app.ErrInvalidTemperature):
			response.Error(c, http.StatusBadRequest, err.Error(), response.CodeValidationError)
		default:
			h.writeSessionError(c, err, "update model config failed")
		}
		return
	}

	response.OK(c, "Model config updated successfully.", config)
}

func (h *SessionHandler) DeleteConfig(c *gin.Context) {
	userID, sessionID, ok := h.sessionScope(c)
	if !ok {
		return
	}
	configID, ok := parseIDParam(c, "config_id")
	if !ok {
		return
	}

	if err := h.sessionService.DeleteModelConfig(userID, sessionID, configID); err != nil {
		switch {
		case errors.Is(err, app.ErrConfigNotFound):
			response.Error(c, http.StatusNotFound, err.Error(), response.CodeNotFound)
		case errors.Is(err, app.ErrConfigInUse):
			response.Error(c, http.StatusConflict, err.Error(), response.CodeProtectedReference)
		default:
			h.writeSessionError(c, err, "delete model config failed")
		}
		return
	}

	response.OK(c, "Model config deleted successfully.", gin.H{"deleted_config_id": configID})
}

func (h *SessionHandler) sessionScope(c *gin.Context) (userID, sessionID uint, ok bool) {
	userID, hasUser := getUserIDFromContext(c)
	if !hasUser {
		response.Error(c, http.StatusUnauthorized, "invalid token payload", response.CodeUnauthorized)
		return 0, 0, false
	}
	sessionID, hasID := parseIDParam(c, "id")
	if !hasID {
		return 0, 0, false
	}
	return userID, sessionID, true
}

func (h *SessionHandler) writeSessionError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrSessionNotFound):
		response.Error(c, http.StatusNotFound, err.Error(), response.CodeNotFound)
	case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrInvalidRunMode):
		response.Error(c, http.StatusBadRequest, err.Error(), response.CodeValidationError)
	default:
		response.Error(c, http.StatusInternalServerError, fallback, response.CodeInternalError)
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id64, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id64 == 0 {
		response.Error(c, http.StatusBadRequest, "invalid "+name, response.CodeValidationError)
		return 0, false
	}
	return uint(id64), true
}
