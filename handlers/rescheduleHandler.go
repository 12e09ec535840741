package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"Hospitality/middlewares"
	"Hospitality/services"

	"github.com/gin-gonic/gin"
)

type RescheduleHandler struct {
	reschedules  *services.RescheduleService
	appointments *services.AppointmentService
}

func NewRescheduleHandler(reschedules *services.RescheduleService, appointments *services.AppointmentService) *RescheduleHandler {
	return &RescheduleHandler{reschedules: reschedules, appointments: appointments}
}

// SelectDate starts (or reuses) a reschedule session for the appointment and
// loads the doctor's open slots for the requested date.
func (h *RescheduleHandler) SelectDate(c *gin.Context) {
	sess, err := middlewares.ExtractSession(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found in context"})
		return
	}
	appointmentID, ok := appointmentIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Date string `json:"date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	rs, ok := h.reschedules.Get(appointmentID)
	if !ok {
		appointments, err := h.appointments.History(c.Request.Context(), sess)
		if err != nil {
			middlewares.UpstreamError(c, err)
			return
		}
		var opened bool
		for _, appt := range appointments {
			if appt.AppointmentID != appointmentID {
				continue
			}
			rs, err = h.reschedules.Open(appt, time.Now(), func() {
				log.Printf("Appointment %d rescheduled", appointmentID)
			})
			if err != nil {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			opened = true
			break
		}
		if !opened {
			c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
			return
		}
	}

	if err := rs.SelectDate(c.Request.Context(), sess, req.Date); err != nil {
		switch {
		case errors.Is(err, services.ErrStaleSlotFetch):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrInvalidDate):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			middlewares.UpstreamError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, rs.Snapshot())
}

// SelectSlot marks one of the loaded slots as chosen. No network I/O.
func (h *RescheduleHandler) SelectSlot(c *gin.Context) {
	appointmentID, ok := appointmentIDParam(c)
	if !ok {
		return
	}

	var req struct {
		SlotID int `json:"slot_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	rs, ok := h.reschedules.Get(appointmentID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No reschedule in progress for this appointment"})
		return
	}
	if err := rs.SelectSlot(req.SlotID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rs.Snapshot())
}

// Confirm submits the reschedule to the hospital.
func (h *RescheduleHandler) Confirm(c *gin.Context) {
	sess, err := middlewares.ExtractSession(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found in context"})
		return
	}
	appointmentID, ok := appointmentIDParam(c)
	if !ok {
		return
	}

	rs, ok := h.reschedules.Get(appointmentID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No reschedule in progress for this appointment"})
		return
	}

	result, err := rs.ConfirmReschedule(c.Request.Context(), sess)
	if err != nil {
		if errors.Is(err, services.ErrNoSlotSelected) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		middlewares.UpstreamError(c, err)
		return
	}

	h.reschedules.Close(appointmentID)
	c.JSON(http.StatusOK, result)
}

// State reports the session's current snapshot.
func (h *RescheduleHandler) State(c *gin.Context) {
	appointmentID, ok := appointmentIDParam(c)
	if !ok {
		return
	}
	rs, ok := h.reschedules.Get(appointmentID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No reschedule in progress for this appointment"})
		return
	}
	c.JSON(http.StatusOK, rs.Snapshot())
}

func appointmentIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("appointment_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment ID"})
		return 0, false
	}
	return id, true
}
