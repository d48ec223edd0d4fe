package api

import (
	"alcyxob/bodyapp/internal/domain"
	"alcyxob/bodyapp/internal/repository"
	"alcyxob/bodyapp/internal/service"
	"alcyxob/bodyapp/internal/storage"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const exportKeyPrefix = "exports/workouts-"

type WorkoutHandler struct {
	store       service.DayStore
	catalog     service.ExerciseCatalog
	timer       *service.RestTimer
	defaultRest int // Seconds, used when a completed set has no rest time
	exports     storage.ObjectStorage
}

// NewWorkoutHandler wires the day store. exports may be nil, in which case
// the export endpoint returns the snapshot inline instead of a download link.
func NewWorkoutHandler(
	store service.DayStore,
	catalog service.ExerciseCatalog,
	timer *service.RestTimer,
	defaultRest time.Duration,
	exports storage.ObjectStorage,
) *WorkoutHandler {
	return &WorkoutHandler{
		store:       store,
		catalog:     catalog,
		timer:       timer,
		defaultRest: int(defaultRest / time.Second),
		exports:     exports,
	}
}

// --- DTOs ---

type DayResponse struct {
	Date      string                    `json:"date"`
	Exercises []domain.ExerciseInstance `json:"exercises"`
	Stats     *service.DayStats         `json:"stats"` // null for a day without exercises
}

type SetDayRequest struct {
	Exercises []domain.ExerciseInstance `json:"exercises"`
}

type AddExerciseRequest struct {
	ExerciseID string `json:"exerciseId" binding:"required"`
}

type SetRequest struct {
	Weight   float64 `json:"weight" binding:"gte=0"`
	Reps     int     `json:"reps" binding:"gte=0"`
	RestTime int     `json:"restTime" binding:"gte=0"` // Seconds
}

func (r SetRequest) toEntry() domain.SetEntry {
	return domain.SetEntry{Weight: r.Weight, Reps: r.Reps, RestTime: r.RestTime}
}

type CompleteSetResponse struct {
	Set   domain.SetEntry       `json:"set"`
	Timer service.TimerSnapshot `json:"timer"`
}

type TransferRequest struct {
	Source string              `json:"source" binding:"required"`
	Target string              `json:"target" binding:"required"`
	Mode   domain.TransferMode `json:"mode" binding:"required"`
}

type CopyFromRequest struct {
	Source string `json:"source" binding:"required"`
}

type TransferResponse struct {
	Transferred int         `json:"transferred"`
	Target      DayResponse `json:"target"`
}

type ExportResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *WorkoutHandler) dayResponse(dateKey string) DayResponse {
	exercises := h.store.Get(dateKey)
	return DayResponse{Date: dateKey, Exercises: exercises, Stats: service.Stats(exercises)}
}

// respondStoreError maps day store errors to status codes.
func respondStoreError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, service.ErrIndexOutOfRange),
		errors.Is(err, service.ErrInvalidTransferMode),
		errors.Is(err, service.ErrSameDayTransfer),
		errors.Is(err, service.ErrValidationFailed),
		errors.Is(err, domain.ErrInvalidDateKey):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrExerciseNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		log.Errorf("Error trying to %s: %v", action, err)
		abortWithError(c, http.StatusInternalServerError, fmt.Sprintf("Failed to %s.", action))
	}
}

// --- Handler Methods ---

// GetWorkoutDates godoc
// @Summary List days with at least one exercise
// @Tags Workouts
// @Produce json
// @Success 200 {array} string
// @Router /workouts/dates [get]
func (h *WorkoutHandler) GetWorkoutDates(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.WorkoutDates())
}

// GetMonthCalendar godoc
// @Summary Month grid with per-day stats
// @Tags Workouts
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month, 1-12"
// @Success 200 {array} []service.CalendarDay
// @Failure 400 {object} gin.H "Invalid year or month"
// @Router /workouts/calendar/{year}/{month} [get]
func (h *WorkoutHandler) GetMonthCalendar(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 || year > 9999 {
		abortWithError(c, http.StatusBadRequest, "Invalid year.")
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		abortWithError(c, http.StatusBadRequest, "Invalid month, expected 1-12.")
		return
	}
	c.JSON(http.StatusOK, h.store.MonthCalendar(year, time.Month(month)))
}

// GetDay godoc
// @Summary Exercises and stats for one day
// @Tags Workouts
// @Produce json
// @Param date path string true "YYYY-MM-DD"
// @Success 200 {object} DayResponse
// @Failure 400 {object} gin.H "Invalid date"
// @Router /workouts/{date} [get]
func (h *WorkoutHandler) GetDay(c *gin.Context) {
	dateKey, ok := dateParam(c, "date")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.dayResponse(dateKey))
}

// SetDay godoc
// @Summary Replace a day's exercise list
// @Tags Workouts
// @Accept json
// @Produce json
// @Param date path string true "YYYY-MM-DD"
// @Param day body SetDayRequest true "Exercises"
// @Success 200 {object} DayResponse
// @Failure 400 {object} gin.H "Invalid date or body"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts/{date} [put]
func (h *WorkoutHandler) SetDay(c *gin.Context) {
	dateKey, ok := dateParam(c, "date")
	if !ok {
		return
	}
	var req SetDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if err := h.store.SetDay(c.Request.Context(), dateKey, req.Exercises); err != nil {
		respondStoreError(c, err, "save workout")
		return
	}
	c.JSON(http.StatusOK, h.dayResponse(dateKey))
}

// AddExercise godoc
// @Summary Add a catalog exercise to a day
// @Tags Workouts
// @Accept json
// @Produce json
// @Param date path string true "YYYY-MM-DD"
// @Param exercise body AddExerciseRequest true "Catalog exercise ID"
// @Success 201 {object} domain.ExerciseInstance
// @Failure 400 {object} gin.H "Invalid date or body"
// @Failure 404 {object} gin.H "Unknown exercise"
// @Router /workouts/{date}/exercises [post]
func (h *WorkoutHandler) AddExercise(c *gin.Context) {
	dateKey, ok := dateParam(c, "date")
	if !ok {
		return
	}
	var req AddExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	def, err := h.catalog.Find(c.Request.Context(), req.ExerciseID)
	if err != nil {
		respondStoreError(c, err, "find exercise")
		return
	}
	inst, err := h.store.AddExercise(c.Request.Context(), dateKey, *def)
	if err != nil {
		respondStoreError(c, err, "add exercise")
		return
	}
	c.JSON(http.StatusCreated, inst)
}

// DeleteExercise godoc
// @Summary Remove an exercise from a day by position
// @Tags Workouts
// @Produce json
// @Param date path string true "YYYY-MM-DD"
// @Param index path int true "Exercise position"
// @Success 200 {object} DayResponse
// @Failure 400 {object} gin.H "Invalid date or index"
// @Router /workouts/{date}/exercises/{index} [delete]
func (h *WorkoutHandler) DeleteExercise(c *gin.Context) {
	dateKey, ok := dateParam(c, "date")
	if !ok {
		return
	}
	index, ok := indexParam(c, "index")
	if !ok {
		return
	}
	if err := h.store.DeleteExercise(c.Request.Context(), dateKey, index); err != nil {
		respondStoreError(c, err, "delete exercise")
		return
	}
	c.JSON(http.StatusOK, h.dayResponse(dateKey))
}

// AddSet godoc
// @Summary Append a set to an exercise
// @Tags Workouts
// @Accept json
// @Produce json
// @Param date path string true "YYYY-MM-DD"
// @Param index path int true "Exercise position"
// @Param set body SetRequest true "Set values"
// @Success 201 {object} DayResponse
// @Failure 400 {object} gin.H "Invalid date, index or body"
// @Router /workouts/{date}/exercises/{index}/sets [post]
func (h *WorkoutHandler) AddSet(c *gin.Context) {
	dateKey, ok := dateParam(c, "date")
	if !ok {
		return
	}
	index, ok := indexParam(c, "index")
	if !ok {
		return
	}
	var req SetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if err := h.store.AddSet(c.Request.Context(), dateKey, index, req.toEntry()); err != nil {
		respondStoreError(c, err, "add set")
		return
	}
	c.JSON(http.StatusCreated, h.dayResponse(dateKey))
}

// UpdateSet godoc
// @Summary Overwrite a set's weight, reps and rest time
// @Tags Workouts
// @Accept json
// @Produce json
// @Param date path string true "YYYY-MM-DD"
// @Param index path int true "Exercise position"
// @Param setIndex path int true "Set position"
// @Param set body SetRequest true "Set values"
// @Success 200 {object} DayResponse
// @Failure 400 {object} gin.H "Invalid date, index or body"
// @Router /workouts/{date}/exercises/{index}/sets/{setIndex} [put]
func (h *WorkoutHandler) UpdateSet(c *gin.Context) {
	dateKey, ok := dateParam(c, "date")
	if !ok {
		return
	}
	index, ok := indexParam(c, "index")
	if !ok {
		return
	}
	setIndex, ok := indexParam(c, "setIndex")
	if !ok {
		return
	}
	var req SetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if err := h.store.UpdateSet(c.Request.Context(), dateKey, index, setIndex, req.toEntry()); err != nil {
		respondStoreError(c, err, "update set")
		return
	}
	c.JSON(http.StatusOK, h.dayResponse(dateKey))
}

// CompleteSet godoc
// @Summary Toggle a set's completion
// @Description Completing a set starts the rest timer with the set's rest time.
// @Tags Workouts
// @Produce json
// @Param date path string true "YYYY-MM-DD"
// @Param index path int true "Exercise position"
// @Param setIndex path int true "Set position"
// @Success 200 {object} CompleteSetResponse
// @Failure 400 {object} gin.H "Invalid date or index"
// @Router /workouts/{date}/exercises/{index}/sets/{setIndex}/complete [post]
func (h *WorkoutHandler) CompleteSet(c *gin.Context) {
	dateKey, ok := dateParam(c, "date")
	if !ok {
		return
	}
	index, ok := indexParam(c, "index")
	if !ok {
		return
	}
	setIndex, ok := indexParam(c, "setIndex")
	if !ok {
		return
	}

	set, err := h.store.CompleteSet(c.Request.Context(), dateKey, index, setIndex)
	if err != nil {
		respondStoreError(c, err, "complete set")
		return
	}
	if set.IsCompleted {
		rest := set.RestTime
		if rest <= 0 {
			rest = h.defaultRest
		}
		h.timer.Start(rest)
	}
	c.JSON(http.StatusOK, CompleteSetResponse{Set: set, Timer: h.timer.Snapshot()})
}

// Transfer godoc
// @Summary Copy or move one day's exercises onto another day
// @Tags Workouts
// @Accept json
// @Produce json
// @Param transfer body TransferRequest true "Source, target and mode"
// @Success 200 {object} TransferResponse
// @Failure 400 {object} gin.H "Invalid dates, same day, or unknown mode"
// @Router /workouts/transfer [post]
func (h *WorkoutHandler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if !validTransferDays(c, req.Source, req.Target) {
		return
	}

	n, err := h.store.Transfer(c.Request.Context(), req.Source, req.Target, req.Mode)
	if err != nil {
		respondStoreError(c, err, "transfer workout")
		return
	}
	c.JSON(http.StatusOK, TransferResponse{Transferred: n, Target: h.dayResponse(req.Target)})
}

// CopyFrom godoc
// @Summary Load another day's routine into this day
// @Tags Workouts
// @Accept json
// @Produce json
// @Param date path string true "YYYY-MM-DD"
// @Param source body CopyFromRequest true "Day to copy from"
// @Success 200 {object} TransferResponse
// @Failure 400 {object} gin.H "Invalid dates or same day"
// @Router /workouts/{date}/copy-from [post]
func (h *WorkoutHandler) CopyFrom(c *gin.Context) {
	dateKey, ok := dateParam(c, "date")
	if !ok {
		return
	}
	var req CopyFromRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if !validTransferDays(c, req.Source, dateKey) {
		return
	}

	n, err := h.store.CopyFrom(c.Request.Context(), req.Source, dateKey)
	if err != nil {
		respondStoreError(c, err, "copy workout")
		return
	}
	c.JSON(http.StatusOK, TransferResponse{Transferred: n, Target: h.dayResponse(dateKey)})
}

func validTransferDays(c *gin.Context, source, target string) bool {
	for _, key := range []string{source, target} {
		if _, err := domain.ParseDateKey(key); err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD.", key))
			return false
		}
	}
	if source == target {
		abortWithError(c, http.StatusBadRequest, service.ErrSameDayTransfer.Error())
		return false
	}
	return true
}

// ExportWorkouts godoc
// @Summary Export every logged day
// @Description With object storage configured the snapshot is uploaded and a
// @Description presigned download URL is returned, otherwise the raw JSON.
// @Tags Workouts
// @Produce json
// @Success 200 {object} ExportResponse
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts/export [get]
func (h *WorkoutHandler) ExportWorkouts(c *gin.Context) {
	data, err := h.store.Snapshot()
	if err != nil {
		respondStoreError(c, err, "export workouts")
		return
	}
	if h.exports == nil {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", repository.WorkoutsKey+".json"))
		c.Data(http.StatusOK, "application/json", data)
		return
	}

	ctx := c.Request.Context()
	key := exportKeyPrefix + time.Now().UTC().Format("20060102-150405")
	if err := h.exports.Save(ctx, key, data); err != nil {
		respondStoreError(c, err, "upload export")
		return
	}
	// The link is signed no earlier than this, so it never outlives expiresAt.
	expiresAt := time.Now().Add(storage.DefaultPresignedURLExpiry)
	url, err := h.exports.GeneratePresignedDownloadURL(ctx, key, storage.DefaultPresignedURLExpiry)
	if err != nil {
		respondStoreError(c, err, "generate export link")
		return
	}
	log.Infof("Workouts exported to %s", key)
	c.JSON(http.StatusOK, ExportResponse{URL: url, ExpiresAt: expiresAt})
}
