package api

import (
	"alcyxob/bodyapp/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type TimerHandler struct {
	timer *service.RestTimer
}

func NewTimerHandler(timer *service.RestTimer) *TimerHandler {
	return &TimerHandler{timer: timer}
}

type StartTimerRequest struct {
	Seconds int `json:"seconds" binding:"required,gt=0"`
}

type AddTimeRequest struct {
	Seconds int `json:"seconds" binding:"required,oneof=10 30"`
}

// GetTimer godoc
// @Summary Current rest timer state
// @Tags Timer
// @Produce json
// @Success 200 {object} service.TimerSnapshot
// @Router /timer [get]
func (h *TimerHandler) GetTimer(c *gin.Context) {
	c.JSON(http.StatusOK, h.timer.Snapshot())
}

// StartTimer godoc
// @Summary Start a rest countdown, replacing any active one
// @Tags Timer
// @Accept json
// @Produce json
// @Param timer body StartTimerRequest true "Duration in seconds"
// @Success 200 {object} service.TimerSnapshot
// @Failure 400 {object} gin.H "Invalid duration"
// @Router /timer/start [post]
func (h *TimerHandler) StartTimer(c *gin.Context) {
	var req StartTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	h.timer.Start(req.Seconds)
	c.JSON(http.StatusOK, h.timer.Snapshot())
}

// AddTime godoc
// @Summary Extend the running or expired countdown by 10 or 30 seconds
// @Tags Timer
// @Accept json
// @Produce json
// @Param timer body AddTimeRequest true "10 or 30"
// @Success 200 {object} service.TimerSnapshot
// @Failure 400 {object} gin.H "Invalid increment"
// @Failure 409 {object} gin.H "No active timer"
// @Router /timer/add [post]
func (h *TimerHandler) AddTime(c *gin.Context) {
	var req AddTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if !h.timer.AddTime(req.Seconds) {
		abortWithError(c, http.StatusConflict, "No active rest timer.")
		return
	}
	c.JSON(http.StatusOK, h.timer.Snapshot())
}

// DismissTimer godoc
// @Summary Cancel or acknowledge the rest timer
// @Tags Timer
// @Produce json
// @Success 200 {object} service.TimerSnapshot
// @Router /timer/dismiss [post]
func (h *TimerHandler) DismissTimer(c *gin.Context) {
	h.timer.Dismiss()
	c.JSON(http.StatusOK, h.timer.Snapshot())
}
