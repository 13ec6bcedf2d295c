package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"devbench/internal/app"
	"devbench/internal/transport/http/response"
)

type RunHandler struct {
	runService *app.RunService
}

type RecordRunRequest struct {
	UserPrompt  string `json:"user_prompt" binding:"required"`
	ContextCode string `json:"context_code"`
}

type RecordRunResultRequest struct {
	ModelConfigID   uint   `json:"session_model_config_id" binding:"required,gt=0"`
	Status          string `json:"status" binding:"required,oneof=success error timeout cancelled"`
	Output          string `json:"output"`
	ResponseMessage string `json:"response_message"`
	LatencyMs       *uint  `json:"latency_ms"`
	TokensIn        *uint  `json:"tokens_in"`
	TokensOut       *uint  `json:"tokens_out"`
}

func NewRunHandler(runService *app.RunService) *RunHandler {
	return &RunHandler{runService: runService}
}

func (h *RunHandler) Record(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload", response.CodeUnauthorized)
		return
	}
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RecordRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithFields(c, http.StatusBadRequest, "invalid request payload", response.CodeValidationError,
			map[string]string{"user_prompt": "required"})
		return
	}

	run, err := h.runService.RecordRun(c.Request.Context(), app.RecordRunInput{
		UserID:      userID,
		SessionID:   sessionID,
		UserPrompt:  req.UserPrompt,
		ContextCode: req.ContextCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrSessionNotFound):
			response.Error(c, http.StatusNotFound, err.Error(), response.CodeNotFound)
		case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrPromptEmpty):
			response.Error(c, http.StatusBadRequest, err.Error(), response.CodeValidationError)
		default:
			response.Error(c, http.StatusInternalServerError, "record run failed", response.CodeInternalError)
		}
		return
	}

	response.Created(c, "Run recorded successfully.", run)
}

func (h *RunHandler) List(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload", response.CodeUnauthorized)
		return
	}
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	runs, err := h.runService.ListRuns(c.Request.Context(), userID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrSessionNotFound):
			response.Error(c, http.StatusNotFound, err.Error(), response.CodeNotFound)
		default:
			response.Error(c, http.StatusInternalServerError, "list runs failed", response.CodeInternalError)
		}
		return
	}

	response.OK(c, "Runs retrieved successfully.", runs)
}

func (h *RunHandler) RecordResult(c *gin.Context) {
	if _, ok := getUserIDFromContext(c); !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload", response.CodeUnauthorized)
		return
	}
	runID, ok := parseIDParam(c, "run_id")
	if !ok {
		return
	}

	var req RecordRunResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithFields(c, http.StatusBadRequest, "invalid request payload", response.CodeValidationError,
			map[string]string{"status": "must be success, error, timeout or cancelled"})
		return
	}

	result, err := h.runService.RecordRunResult(app.RecordRunResultInput{
		RunID:           runID,
		ModelConfigID:   req.ModelConfigID,
		Status:          req.Status,
		Output:          req.Output,
		ResponseMessage: req.ResponseMessage,
		LatencyMs:       req.LatencyMs,
		TokensIn:        req.TokensIn,
		TokensOut:       req.TokensOut,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrRunNotFound), errors.Is(err, app.ErrConfigNotFound):
			response.Error(c, http.StatusNotFound, err.Error(), response.CodeNotFound)
		case errors.Is(err, app.ErrConfigSessionMismatch):
			response.ErrorWithFields(c, http.StatusBadRequest, err.Error(), response.CodeValidationError,
				map[string]string{"session_model_config_id": "config belongs to a different session"})
		case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrInvalidRunStatus):
			response.Error(c, http.StatusBadRequest, err.Error(), response.CodeValidationError)
		default:
			response.Error(c, http.StatusInternalServerError, "record run result failed", response.CodeInternalError)
		}
		return
	}

	response.Created(c, "Run result recorded successfully.", result)
}

func (h *RunHandler) ListResults(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload", response.CodeUnauthorized)
		return
	}
	runID, ok := parseIDParam(c, "run_id")
	if !ok {
		return
	}

	results, err := h.runService.ListRunResults(userID, runID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrRunNotFound):
			response.Error(c, http.StatusNotFound, err.Error(), response.CodeNotFound)
		default:
			response.Error(c, http.StatusInternalServerError, "list run results failed", response.CodeInternalError)
		}
		return
	}

	response.OK(c, "Run results retrieved successfully.", results)
}
