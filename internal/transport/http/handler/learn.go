package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"devbench/internal/content"
	"devbench/internal/transport/http/response"
)

// LearnHandler serves the read-only learning catalog. No auth: the
// catalog is public.
type LearnHandler struct {
	catalog content.Repository
}

func NewLearnHandler(catalog content.Repository) *LearnHandler {
	return &LearnHandler{catalog: catalog}
}

func (h *LearnHandler) ListLanguages(c *gin.Context) {
	languages, err := h.catalog.ListLanguages()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "load learning content failed", response.CodeInternalError)
		return
	}
	response.OK(c, "Successfully retrieved the list of supported languages.", languages)
}

func (h *LearnHandler) ListExercises(c *gin.Context) {
	slug := c.Param("language_slug")

	exercises, err := h.catalog.ListExercises(slug)
	if err != nil {
		if errors.Is(err, content.ErrLanguageNotFound) {
			response.Error(c, http.StatusNotFound,
				fmt.Sprintf("Language '%s' was not found.", slug), response.CodeNotFound)
			return
		}
		response.Error(c, http.StatusInternalServerError, "load learning content failed", response.CodeInternalError)
		return
	}

	response.OK(c, fmt.Sprintf("Successfully retrieved all exercises for %s.", capitalize(slug)), exercises)
}

func (h *LearnHandler) GetExercise(c *gin.Context) {
	slug := c.Param("language_slug")
	exerciseID := c.Param("exercise_id")

	exercise, err := h.catalog.GetExercise(slug, exerciseID)
	if err != nil {
		switch {
		case errors.Is(err, content.ErrLanguageNotFound):
			response.Error(c, http.StatusNotFound, "Language not found.", response.CodeNotFound)
		case errors.Is(err, content.ErrExerciseNotFound):
			response.Error(c, http.StatusNotFound,
				fmt.Sprintf("Exercise with ID '%s' does not exist.", exerciseID), response.CodeNotFound)
		default:
			response.Error(c, http.StatusInternalServerError, "load learning content failed", response.CodeInternalError)
		}
		return
	}

	response.OK(c, fmt.Sprintf("Exercise '%s' details retrieved successfully.", exercise.Title), exercise)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
