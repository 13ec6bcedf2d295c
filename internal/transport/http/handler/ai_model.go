package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"devbench/internal/app"
	"devbench/internal/transport/http/response"
)

type AiModelHandler struct {
	aiModelService *app.AiModelService
}

type CreateAiModelRequest struct {
	Provider      string `json:"provider" binding:"required,max=64"`
	Name          string `json:"name" binding:"required,max=128"`
	APIIdentifier string `json:"api_identifier" binding:"required,max=128"`
	IsActive      *bool  `json:"is_active"`
}

func NewAiModelHandler(aiModelService *app.AiModelService) *AiModelHandler {
	return &AiModelHandler{aiModelService: aiModelService}
}

func (h *AiModelHandler) Create(c *gin.Context) {
	var req CreateAiModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload", response.CodeValidationError)
		return
	}

	aiModel, err := h.aiModelService.CreateAiModel(app.CreateAiModelInput{
		Provider:      req.Provider,
		Name:          req.Name,
		APIIdentifier: req.APIIdentifier,
		IsActive:      req.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrAiModelExists):
			response.ErrorWithFields(c, http.StatusBadRequest, err.Error(), response.CodeValidationError,
				map[string]string{"api_identifier": "already registered"})
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error(), response.CodeValidationError)
		default:
			response.Error(c, http.StatusInternalServerError, "create ai model failed", response.CodeInternalError)
		}
		return
	}

	response.Created(c, "AI model registered successfully.", aiModel)
}

func (h *AiModelHandler) List(c *gin.Context) {
	models, err := h.aiModelService.ListAiModels()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "list ai models failed", response.CodeInternalError)
		return
	}
	response.OK(c, "AI models retrieved successfully.", models)
}

func (h *AiModelHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.aiModelService.DeleteAiModel(id); err != nil {
		switch {
		case errors.Is(err, app.ErrAiModelNotFound):
			response.Error(c, http.StatusNotFound, err.Error(), response.CodeNotFound)
		case errors.Is(err, app.ErrAiModelInUse):
			response.Error(c, http.StatusConflict, err.Error(), response.CodeProtectedReference)
		default:
			response.Error(c, http.StatusInternalServerError, "delete ai model failed", response.CodeInternalError)
		}
		return
	}

	response.OK(c, "AI model deleted successfully.", gin.H{"deleted_ai_model_id": id})
}
