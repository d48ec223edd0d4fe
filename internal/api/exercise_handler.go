package api

import (
	"alcyxob/bodyapp/internal/domain"
	"alcyxob/bodyapp/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ExerciseHandler holds the exercise catalog dependency.
type ExerciseHandler struct {
	catalog service.ExerciseCatalog
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(catalog service.ExerciseCatalog) *ExerciseHandler {
	return &ExerciseHandler{catalog: catalog}
}

// --- DTOs for API (Data Transfer Objects) ---

// CreateExerciseRequest defines the expected JSON for creating a custom exercise.
type CreateExerciseRequest struct {
	Name     string          `json:"name" binding:"required"`
	BodyPart domain.BodyPart `json:"bodyPart" binding:"required"` // Code or legacy label
}

// ExerciseResponse is the DTO for returning a catalog entry.
type ExerciseResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	BodyPart      domain.BodyPart `json:"bodyPart"`
	BodyPartLabel string          `json:"bodyPartLabel"`
	IsCustom      bool            `json:"isCustom"`
}

// MapExerciseToResponse converts a domain.ExerciseDefinition to ExerciseResponse DTO.
func MapExerciseToResponse(ex domain.ExerciseDefinition) ExerciseResponse {
	return ExerciseResponse{
		ID:            ex.ID,
		Name:          ex.Name,
		BodyPart:      ex.BodyPart,
		BodyPartLabel: domain.BodyPartLabel(ex.BodyPart),
		IsCustom:      ex.IsCustom,
	}
}

// MapExercisesToResponse converts a slice of definitions, never returning nil.
func MapExercisesToResponse(exercises []domain.ExerciseDefinition) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i, ex := range exercises {
		responses[i] = MapExerciseToResponse(ex)
	}
	return responses
}

// --- Handler Methods ---

// ListExercises godoc
// @Summary Search the exercise catalog
// @Description Built-in exercises followed by custom ones, optionally filtered by name and body part.
// @Tags Exercises
// @Produce json
// @Param q query string false "Name substring"
// @Param bodyPart query string false "Body part code, legacy label, or All"
// @Success 200 {array} ExerciseResponse
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	exercises, err := h.catalog.Search(c.Request.Context(), c.Query("q"), domain.BodyPart(c.Query("bodyPart")))
	if err != nil {
		log.Errorf("Error listing exercises: %v", err)
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercises.")
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// CreateExercise godoc
// @Summary Add a custom exercise
// @Tags Exercises
// @Accept json
// @Produce json
// @Param exercise body CreateExerciseRequest true "Exercise details"
// @Success 201 {array} ExerciseResponse "Updated custom exercise list"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	custom, err := h.catalog.AddCustom(c.Request.Context(), req.Name, req.BodyPart)
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			log.Errorf("Error creating custom exercise: %v", err)
			abortWithError(c, http.StatusInternalServerError, "Failed to create exercise.")
		}
		return
	}

	c.JSON(http.StatusCreated, MapExercisesToResponse(custom))
}

// DeleteExercise godoc
// @Summary Delete a custom exercise
// @Description Unknown IDs and built-in exercises leave the list unchanged.
// @Tags Exercises
// @Produce json
// @Param id path string true "Exercise ID"
// @Success 200 {array} ExerciseResponse "Updated custom exercise list"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /exercises/{id} [delete]
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	custom, err := h.catalog.DeleteCustom(c.Request.Context(), c.Param("id"))
	if err != nil {
		log.Errorf("Error deleting custom exercise: %v", err)
		abortWithError(c, http.StatusInternalServerError, "Failed to delete exercise.")
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(custom))
}
