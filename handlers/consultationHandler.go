package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"Hospitality/hospital"
	"Hospitality/middlewares"
	"Hospitality/models"
	"Hospitality/services"

	"github.com/gin-gonic/gin"
)

type ConsultationHandler struct {
	service *services.ConsultationService
}

func NewConsultationHandler(service *services.ConsultationService) *ConsultationHandler {
	return &ConsultationHandler{service: service}
}

// GetDraft returns the working consultation for the appointment, creating an
// empty one on first access.
func (h *ConsultationHandler) GetDraft(c *gin.Context) {
	appointmentID, ok := appointmentIDParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.service.Draft(appointmentID).Snapshot())
}

// DiscardDraft drops the working consultation without submitting anything.
func (h *ConsultationHandler) DiscardDraft(c *gin.Context) {
	appointmentID, ok := appointmentIDParam(c)
	if !ok {
		return
	}
	h.service.Close(appointmentID)
	c.Status(http.StatusNoContent)
}

// AddDiagnosisItem appends one organ-scoped observation to the draft.
func (h *ConsultationHandler) AddDiagnosisItem(c *gin.Context) {
	appointmentID, ok := appointmentIDParam(c)
	if !ok {
		return
	}

	var item models.DiagnosisItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	draft := h.service.Draft(appointmentID)
	if err := draft.AddDiagnosisItem(item); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, draft.Snapshot())
}

// RemoveDiagnosisItem deletes by index; out-of-range indices are ignored.
func (h *ConsultationHandler) RemoveDiagnosisItem(c *gin.Context) {
	appointmentID, ok := appointmentIDParam(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid index"})
		return
	}

	draft := h.service.Draft(appointmentID)
	draft.RemoveDiagnosisItem(index)
	c.JSON(http.StatusOK, draft.Snapshot())
}

type consultationFlagsRequest struct {
	LabTestRequired  bool   `json:"lab_test_required"`
	FollowUpRequired bool   `json:"follow_up_required"`
	FollowUpDate     string `json:"follow_up_date"`
}

// SetFlags records the lab-test and follow-up flags.
func (h *ConsultationHandler) SetFlags(c *gin.Context) {
	appointmentID, ok := appointmentIDParam(c)
	if !ok {
		return
	}

	var req consultationFlagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.FollowUpDate != "" {
		if _, err := time.Parse(models.DateLayout, req.FollowUpDate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid follow_up_date, expected yyyy-MM-dd"})
			return
		}
	}

	draft := h.service.Draft(appointmentID)
	draft.SetFlags(req.LabTestRequired, req.FollowUpRequired, req.FollowUpDate)
	c.JSON(http.StatusOK, draft.Snapshot())
}

// SetRemarks records the prescription's free-text remarks.
func (h *ConsultationHandler) SetRemarks(c *gin.Context) {
	appointmentID, ok := appointmentIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Remarks string `json:"remarks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	draft := h.service.Draft(appointmentID)
	draft.SetRemarks(req.Remarks)
	c.JSON(http.StatusOK, draft.Snapshot())
}

// AddMedicine validates and appends one medicine to the prescription list.
func (h *ConsultationHandler) AddMedicine(c *gin.Context) {
	appointmentID, ok := appointmentIDParam(c)
	if !ok {
		return
	}

	var med models.PrescriptionMedicine
	if err := c.ShouldBindJSON(&med); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	draft := h.service.Draft(appointmentID)
	draft.SetDraft(med)
	if err := draft.ConfirmDraft(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, draft.Snapshot())
}

// UpdateMedicine replaces the entry at index in place, keeping its position.
func (h *ConsultationHandler) UpdateMedicine(c *gin.Context) {
	appointmentID, ok := appointmentIDParam(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid index"})
		return
	}

	var med models.PrescriptionMedicine
	if err := c.ShouldBindJSON(&med); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	draft := h.service.Draft(appointmentID)
	if index < 0 || index >= len(draft.Medicines()) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Medicine not found"})
		return
	}
	draft.StartEditingMedicine(index)
	draft.SetDraft(med)
	if err := draft.ConfirmDraft(); err != nil {
		// Abandon the edit so a later add does not replace the entry.
		_ = draft.CancelEditing()
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, draft.Snapshot())
}

// DeleteMedicine deletes by index; out-of-range indices are ignored.
func (h *ConsultationHandler) DeleteMedicine(c *gin.Context) {
	appointmentID, ok := appointmentIDParam(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid index"})
		return
	}

	draft := h.service.Draft(appointmentID)
	draft.DeleteMedicine(index)
	c.JSON(http.StatusOK, draft.Snapshot())
}

type labSelectionRequest struct {
	TestTypeIDs  []int  `json:"test_type_ids"`
	Priority     string `json:"priority"`
	TestDateTime string `json:"test_datetime"`
}

// SetLabTests replaces the draft's lab-test selection.
func (h *ConsultationHandler) SetLabTests(c *gin.Context) {
	appointmentID, ok := appointmentIDParam(c)
	if !ok {
		return
	}

	var req labSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	when, err := time.Parse(hospital.TestDateTimeLayout, req.TestDateTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid test_datetime, expected yyyy-MM-dd HH:mm:ss"})
		return
	}
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	draft := h.service.Draft(appointmentID)
	err = draft.SetLabSelection(models.LabTestSelection{
		TestTypeIDs:  req.TestTypeIDs,
		Priority:     priority,
		TestDateTime: when,
	}, time.Now())
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, draft.Snapshot())
}

// Submit finalizes the consultation: diagnosis, prescription, and lab tests
// when required, submitted strictly in that order.
func (h *ConsultationHandler) Submit(c *gin.Context) {
	sess, err := middlewares.ExtractSession(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found in context"})
		return
	}
	appointmentID, ok := appointmentIDParam(c)
	if !ok {
		return
	}

	draft := h.service.Draft(appointmentID)
	result, err := draft.SubmitAll(c.Request.Context(), sess)
	if err != nil {
		if errors.Is(err, services.ErrNoLabTestsSelected) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		middlewares.UpstreamError(c, err)
		return
	}

	h.service.Close(appointmentID)
	c.JSON(http.StatusOK, result)
}

// SubmitLabTests sends only the lab-test recommendation.
func (h *ConsultationHandler) SubmitLabTests(c *gin.Context) {
	sess, err := middlewares.ExtractSession(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found in context"})
		return
	}
	appointmentID, ok := appointmentIDParam(c)
	if !ok {
		return
	}

	draft := h.service.Draft(appointmentID)
	result, err := draft.SubmitLabTestsOnly(c.Request.Context(), sess)
	if err != nil {
		if errors.Is(err, services.ErrNoLabTestsSelected) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		middlewares.UpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
