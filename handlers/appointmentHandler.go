package handlers

import (
	"net/http"
	"time"

	"Hospitality/middlewares"
	"Hospitality/services"

	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct {
	service *services.AppointmentService
}

func NewAppointmentHandler(service *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// GetAppointments returns the caller's appointment history, optionally
// filtered (?filter=all|upcoming|completed|cancelled), searched (?q=) and
// sorted (?sort=dateAscending|dateDescending|statusOrder).
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	sess, err := middlewares.ExtractSession(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found in context"})
		return
	}

	appointments, err := h.service.History(c.Request.Context(), sess)
	if err != nil {
		middlewares.UpstreamError(c, err)
		return
	}

	now := time.Now()
	if filter := c.DefaultQuery("filter", string(services.FilterAll)); filter != string(services.FilterAll) {
		appointments = services.FilterByStatus(appointments, services.StatusFilter(filter), now)
	}
	if query := c.Query("q"); query != "" {
		appointments = services.SearchAppointments(appointments, query, now)
	}
	if order := c.Query("sort"); order != "" {
		appointments = services.SortAppointments(appointments, services.SortOrder(order))
	}

	c.JSON(http.StatusOK, gin.H{"appointments": appointments})
}

// GetPartitionedAppointments splits the history into today, upcoming and
// past buckets relative to the current time.
func (h *AppointmentHandler) GetPartitionedAppointments(c *gin.Context) {
	sess, err := middlewares.ExtractSession(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found in context"})
		return
	}

	appointments, err := h.service.History(c.Request.Context(), sess)
	if err != nil {
		middlewares.UpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.PartitionByRelativeDate(appointments, time.Now()))
}

// GetDoctorSlots returns a doctor's open slots for a date (?date=yyyy-MM-dd).
func (h *AppointmentHandler) GetDoctorSlots(c *gin.Context) {
	sess, err := middlewares.ExtractSession(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found in context"})
		return
	}

	doctorID := c.Param("doctor_id")
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	slots, err := h.service.AvailableSlots(c.Request.Context(), sess, doctorID, date)
	if err != nil {
		middlewares.UpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}
