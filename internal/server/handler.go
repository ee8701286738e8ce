package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/consistency/internal/dates"
	apperrors "github.com/julianstephens/consistency/internal/errors"
	"github.com/julianstephens/consistency/internal/logger"
	"github.com/julianstephens/consistency/internal/models"
	"github.com/julianstephens/consistency/internal/tracker"
)

type ActivityHandler struct {
	engine *tracker.Engine
}

func NewActivityHandler(engine *tracker.Engine) *ActivityHandler {
	return &ActivityHandler{
		engine: engine,
	}
}

type createActivityRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

type checkInRequest struct {
	Date string `json:"date"`
}

type reminderSettingsRequest struct {
	Enabled   *bool   `json:"enabled"`
	Morning   *string `json:"morning"`
	Afternoon *string `json:"afternoon"`
	Evening   *string `json:"evening"`
}

func (h *ActivityHandler) RegisterRoutes(router *gin.RouterGroup) {
	activities := router.Group("/activities")
	{
		activities.GET("", h.List)
		activities.POST("", h.Create)
		activities.GET("/:name", h.Get)
		activities.DELETE("/:name", h.Delete)
		activities.POST("/:name/checkin", h.CheckIn)
	}
	router.GET("/badges", h.Badges)
	router.GET("/reminders", h.GetReminders)
	router.PUT("/reminders", h.UpdateReminders)
}

// writeError maps engine errors to status codes.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrDuplicateActivity):
		status = http.StatusConflict
	case errors.Is(err, apperrors.ErrActivityNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrInvalidActivityName),
		errors.Is(err, apperrors.ErrInvalidReminderTime),
		errors.Is(err, apperrors.ErrMalformedDate):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// reload picks up writes other processes made to the shared store.
func (h *ActivityHandler) reload(c *gin.Context) bool {
	if err := h.engine.Reload(c.Request.Context()); err != nil {
		writeError(c, err)
		return false
	}
	return true
}

func (h *ActivityHandler) List(c *gin.Context) {
	if !h.reload(c) {
		return
	}
	c.JSON(http.StatusOK, h.engine.Activities())
}

func (h *ActivityHandler) Get(c *gin.Context) {
	if !h.reload(c) {
		return
	}
	st, err := h.engine.Status(c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *ActivityHandler) Create(c *gin.Context) {
	var req createActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := strings.TrimSpace(req.Name)
	meta := models.Metadata{Color: req.Color, Icon: req.Icon}
	if err := h.engine.AddActivity(c.Request.Context(), name, meta); err != nil {
		writeError(c, err)
		return
	}

	st, err := h.engine.Status(name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (h *ActivityHandler) Delete(c *gin.Context) {
	if err := h.engine.DeleteActivity(c.Request.Context(), c.Param("name")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CheckIn records today, or the optional "date" in the body.
func (h *ActivityHandler) CheckIn(c *gin.Context) {
	var req checkInRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	var (
		res tracker.CheckInResult
		err error
	)
	if req.Date == "" {
		res, err = h.engine.CheckIn(c.Request.Context(), c.Param("name"))
	} else {
		day, parseErr := dates.Parse(req.Date)
		if parseErr != nil {
			writeError(c, errors.Join(apperrors.ErrMalformedDate, parseErr))
			return
		}
		res, err = h.engine.RecordCheckIn(c.Request.Context(), c.Param("name"), day)
	}
	if err != nil {
		writeError(c, err)
		return
	}

	status := http.StatusCreated
	if res.AlreadyCheckedIn {
		status = http.StatusOK
	}
	c.JSON(status, res)
}

func (h *ActivityHandler) Badges(c *gin.Context) {
	if !h.reload(c) {
		return
	}
	c.JSON(http.StatusOK, h.engine.Badges())
}

func (h *ActivityHandler) GetReminders(c *gin.Context) {
	if !h.reload(c) {
		return
	}
	c.JSON(http.StatusOK, h.engine.ReminderSettings())
}

// UpdateReminders applies a partial update; omitted fields keep their value.
func (h *ActivityHandler) UpdateReminders(c *gin.Context) {
	var req reminderSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.reload(c) {
		return
	}
	settings := h.engine.ReminderSettings()
	if req.Enabled != nil {
		settings.Enabled = *req.Enabled
	}
	if req.Morning != nil {
		settings.Times.Morning = *req.Morning
	}
	if req.Afternoon != nil {
		settings.Times.Afternoon = *req.Afternoon
	}
	if req.Evening != nil {
		settings.Times.Evening = *req.Evening
	}

	if err := h.engine.SetReminderSettings(c.Request.Context(), settings); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.engine.ReminderSettings())
}
