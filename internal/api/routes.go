package api

import (
	"alcyxob/bodyapp/internal/service"
	"alcyxob/bodyapp/internal/storage"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Services bundles what the routes need. Exports is nil unless the
// workouts live in object storage.
type Services struct {
	Catalog     service.ExerciseCatalog
	Store       service.DayStore
	Timer       *service.RestTimer
	DefaultRest time.Duration
	Exports     storage.ObjectStorage
}

func SetupRoutes(router *gin.Engine, svc Services) {
	exerciseHandler := NewExerciseHandler(svc.Catalog)
	workoutHandler := NewWorkoutHandler(svc.Store, svc.Catalog, svc.Timer, svc.DefaultRest, svc.Exports)
	timerHandler := NewTimerHandler(svc.Timer)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")

	// --- Exercise Catalog Routes ---
	exerciseGroup := apiV1.Group("/exercises")
	{
		exerciseGroup.GET("", exerciseHandler.ListExercises)
		exerciseGroup.POST("", exerciseHandler.CreateExercise)
		// Only custom exercises can be deleted
		exerciseGroup.DELETE("/:id", exerciseHandler.DeleteExercise)
	}

	// --- Workout Log Routes ---
	workoutGroup := apiV1.Group("/workouts")
	{
		workoutGroup.GET("/dates", workoutHandler.GetWorkoutDates)
		workoutGroup.GET("/calendar/:year/:month", workoutHandler.GetMonthCalendar)
		workoutGroup.GET("/export", workoutHandler.ExportWorkouts)
		workoutGroup.POST("/transfer", workoutHandler.Transfer)

		workoutGroup.GET("/:date", workoutHandler.GetDay)
		workoutGroup.PUT("/:date", workoutHandler.SetDay)
		workoutGroup.POST("/:date/copy-from", workoutHandler.CopyFrom)
		workoutGroup.POST("/:date/exercises", workoutHandler.AddExercise)
		workoutGroup.DELETE("/:date/exercises/:index", workoutHandler.DeleteExercise)
		workoutGroup.POST("/:date/exercises/:index/sets", workoutHandler.AddSet)
		workoutGroup.PUT("/:date/exercises/:index/sets/:setIndex", workoutHandler.UpdateSet)
		workoutGroup.POST("/:date/exercises/:index/sets/:setIndex/complete", workoutHandler.CompleteSet)
	}

	// --- Rest Timer Routes ---
	timerGroup := apiV1.Group("/timer")
	{
		timerGroup.GET("", timerHandler.GetTimer)
		timerGroup.POST("/start", timerHandler.StartTimer)
		timerGroup.POST("/add", timerHandler.AddTime)
		timerGroup.POST("/dismiss", timerHandler.DismissTimer)
	}
}
