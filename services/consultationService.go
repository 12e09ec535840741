package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"Hospitality/hospital"
	"Hospitality/models"
	"Hospitality/session"
	"Hospitality/utils"

	"github.com/google/uuid"
)

// SubmissionState is the phase of one consultation submission.
type SubmissionState string

const (
	SubmissionIdle            SubmissionState = "idle"
	SubmissionSubmitting      SubmissionState = "submitting"
	SubmissionSucceeded       SubmissionState = "succeeded"
	SubmissionPartiallyFailed SubmissionState = "partially_failed"
	SubmissionFailed          SubmissionState = "failed"
)

var (
	// ErrNoLabTestsSelected blocks lab submission with an empty selection; no
	// network call is made.
	ErrNoLabTestsSelected = errors.New("Please select at least one lab test")

	// ErrNoEditInProgress rejects confirming or cancelling a medicine edit
	// when none was started.
	ErrNoEditInProgress = errors.New("no medicine edit in progress")
)

// ConsultationAPI is the slice of the hospital client the workflow needs.
type ConsultationAPI interface {
	SubmitDiagnosis(ctx context.Context, token string, appointmentID int, req hospital.DiagnosisRequest) (*hospital.DiagnosisResponse, error)
	SubmitPrescription(ctx context.Context, token string, appointmentID int, req hospital.PrescriptionRequest) (*hospital.PrescriptionResponse, error)
	RecommendLabTests(ctx context.Context, token string, appointmentID int, req hospital.RecommendLabTestRequest) (*hospital.RecommendLabTestResponse, error)
}

// SubmissionResult aggregates the outcome of a consultation submission.
type SubmissionResult struct {
	Message          string `json:"message"`
	DiagnosisID      int    `json:"diagnosis_id,omitempty"`
	LabTestsIncluded bool   `json:"lab_tests_included"`
}

// Consultation is the in-progress clinical entry for one appointment:
// diagnosis items, prescription medicines, and an optional lab-test
// selection, all held client-side until submitted as one logical
// transaction.
type Consultation struct {
	mu            sync.Mutex
	api           ConsultationAPI
	appointmentID int

	diagnosisItems   []models.DiagnosisItem
	labTestRequired  bool
	followUpRequired bool
	followUpDate     string

	medicines []models.PrescriptionMedicine
	remarks   string

	// Shared draft slot for add/edit of one medicine at a time.
	draft     models.PrescriptionMedicine
	editing   bool
	editIndex int

	labSelection models.LabTestSelection

	state SubmissionState
}

// AddDiagnosisItem appends an item to the working diagnosis list after
// validating its organ.
func (c *Consultation) AddDiagnosisItem(item models.DiagnosisItem) error {
	if err := utils.ValidateDiagnosisItem(item); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diagnosisItems = append(c.diagnosisItems, item)
	return nil
}

// RemoveDiagnosisItem deletes by index; out-of-range is a no-op.
func (c *Consultation) RemoveDiagnosisItem(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.diagnosisItems) {
		return
	}
	c.diagnosisItems = append(c.diagnosisItems[:index], c.diagnosisItems[index+1:]...)
}

// SetFlags records the lab-test and follow-up flags. followUpDate is the
// optional yyyy-MM-dd follow-up day, empty when none.
func (c *Consultation) SetFlags(labTestRequired, followUpRequired bool, followUpDate string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.labTestRequired = labTestRequired
	c.followUpRequired = followUpRequired
	c.followUpDate = followUpDate
}

// SetRemarks records the doctor's free-text prescription remarks.
func (c *Consultation) SetRemarks(remarks string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remarks = remarks
}

// SetDraft replaces the shared draft medicine.
func (c *Consultation) SetDraft(med models.PrescriptionMedicine) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = med
}

// ConfirmDraft validates the draft and commits it: appended when adding,
// replaced in place at the original index when editing. The draft is reset
// either way.
func (c *Consultation) ConfirmDraft() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	med := c.draft
	med.Dosage = med.Dosage.Clamped()
	if err := utils.ValidateMedicine(med); err != nil {
		return err
	}
	if med.ID == uuid.Nil {
		med.ID = uuid.New()
	}

	if c.editing {
		if c.editIndex >= 0 && c.editIndex < len(c.medicines) {
			c.medicines[c.editIndex] = med
		}
		c.editing = false
		c.editIndex = 0
	} else {
		c.medicines = append(c.medicines, med)
	}
	c.resetDraft()
	return nil
}

// StartEditingMedicine copies the entry at index into the draft slot and
// flags edit mode; out-of-range is a no-op.
func (c *Consultation) StartEditingMedicine(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.medicines) {
		return
	}
	c.draft = c.medicines[index]
	c.editing = true
	c.editIndex = index
}

// CancelEditing discards the draft without touching the list.
func (c *Consultation) CancelEditing() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.editing {
		return ErrNoEditInProgress
	}
	c.editing = false
	c.editIndex = 0
	c.resetDraft()
	return nil
}

// DeleteMedicine deletes by index; out-of-range is a no-op.
func (c *Consultation) DeleteMedicine(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.medicines) {
		return
	}
	c.medicines = append(c.medicines[:index], c.medicines[index+1:]...)
}

// SetLabSelection replaces the lab-test selection after validation.
func (c *Consultation) SetLabSelection(sel models.LabTestSelection, now time.Time) error {
	if err := utils.ValidateLabTestSelection(sel, now); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.labSelection = sel
	return nil
}

// DiagnosisItems returns a copy of the working diagnosis list.
func (c *Consultation) DiagnosisItems() []models.DiagnosisItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]models.DiagnosisItem, len(c.diagnosisItems))
	copy(items, c.diagnosisItems)
	return items
}

// Medicines returns a copy of the working prescription list.
func (c *Consultation) Medicines() []models.PrescriptionMedicine {
	c.mu.Lock()
	defer c.mu.Unlock()
	meds := make([]models.PrescriptionMedicine, len(c.medicines))
	copy(meds, c.medicines)
	return meds
}

// State returns the submission phase.
func (c *Consultation) State() SubmissionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ConsultationSnapshot is the observable state of a draft.
type ConsultationSnapshot struct {
	AppointmentID    int                           `json:"appointment_id"`
	DiagnosisItems   []models.DiagnosisItem        `json:"diagnosis_items"`
	Medicines        []models.PrescriptionMedicine `json:"medicines"`
	Remarks          string                        `json:"remarks"`
	LabTestRequired  bool                          `json:"lab_test_required"`
	FollowUpRequired bool                          `json:"follow_up_required"`
	FollowUpDate     string                        `json:"follow_up_date,omitempty"`
	LabSelection     models.LabTestSelection       `json:"lab_selection"`
	Editing          bool                          `json:"editing"`
	State            SubmissionState               `json:"state"`
}

// Snapshot returns the draft's observable state.
func (c *Consultation) Snapshot() ConsultationSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := ConsultationSnapshot{
		AppointmentID:    c.appointmentID,
		DiagnosisItems:   make([]models.DiagnosisItem, len(c.diagnosisItems)),
		Medicines:        make([]models.PrescriptionMedicine, len(c.medicines)),
		Remarks:          c.remarks,
		LabTestRequired:  c.labTestRequired,
		FollowUpRequired: c.followUpRequired,
		FollowUpDate:     c.followUpDate,
		LabSelection:     c.labSelection,
		Editing:          c.editing,
		State:            c.state,
	}
	copy(snap.DiagnosisItems, c.diagnosisItems)
	copy(snap.Medicines, c.medicines)
	return snap
}

// SubmitAll finalizes the consultation as up to three strictly sequential
// network calls: diagnosis, prescription, then lab tests when required and
// selected. A failure aborts the remaining steps; nothing already submitted
// is rolled back. Diagnosis failure leaves the workflow Failed; a later step
// failing leaves it PartiallyFailed since the earlier records now exist
// upstream.
func (c *Consultation) SubmitAll(ctx context.Context, sess *session.Session) (*SubmissionResult, error) {
	c.mu.Lock()
	diagnosis := hospital.DiagnosisRequest{
		DiagnosisData:    append([]models.DiagnosisItem(nil), c.diagnosisItems...),
		LabTestRequired:  c.labTestRequired,
		FollowUpRequired: c.followUpRequired,
		FollowUpDate:     c.followUpDate,
	}
	prescription := hospital.PrescriptionRequest{
		Remarks:       c.remarks,
		AppointmentID: c.appointmentID,
		Medicines:     make([]hospital.PrescriptionMedicine, 0, len(c.medicines)),
	}
	for _, med := range c.medicines {
		prescription.Medicines = append(prescription.Medicines, hospital.PrescriptionMedicine{
			MedicineID:      med.MedicineID,
			Dosage:          med.Dosage,
			FastingRequired: med.FastingRequired,
		})
	}
	labRequired := c.labTestRequired
	selection := c.labSelection
	includeLabs := labRequired && len(selection.TestTypeIDs) > 0

	// Required-but-empty is a validation failure before any network I/O.
	if labRequired && len(selection.TestTypeIDs) == 0 {
		c.mu.Unlock()
		return nil, ErrNoLabTestsSelected
	}
	c.state = SubmissionSubmitting
	c.mu.Unlock()

	diagResp, err := c.api.SubmitDiagnosis(ctx, sess.AccessToken, c.appointmentID, diagnosis)
	if err != nil {
		c.fail(SubmissionFailed)
		return nil, fmt.Errorf("diagnosis submission failed: %w", err)
	}

	if _, err := c.api.SubmitPrescription(ctx, sess.AccessToken, c.appointmentID, prescription); err != nil {
		c.fail(SubmissionPartiallyFailed)
		return nil, fmt.Errorf("prescription submission failed: %w", err)
	}

	if includeLabs {
		req := hospital.RecommendLabTestRequest{
			TestTypeIDs:  selection.TestTypeIDs,
			Priority:     selection.Priority,
			TestDateTime: selection.TestDateTime.Format(hospital.TestDateTimeLayout),
			LabID:        hospital.LabID,
		}
		if _, err := c.api.RecommendLabTests(ctx, sess.AccessToken, c.appointmentID, req); err != nil {
			c.fail(SubmissionPartiallyFailed)
			return nil, fmt.Errorf("lab test recommendation failed: %w", err)
		}
	}

	c.mu.Lock()
	c.state = SubmissionSucceeded
	c.mu.Unlock()

	message := "Diagnosis and prescription submitted successfully."
	if includeLabs {
		message += " Lab tests recommended."
	}
	log.Printf("Consultation for appointment %d submitted (lab tests: %t)", c.appointmentID, includeLabs)

	return &SubmissionResult{
		Message:          message,
		DiagnosisID:      diagResp.DiagnosisID,
		LabTestsIncluded: includeLabs,
	}, nil
}

// SubmitLabTestsOnly sends just the lab-test recommendation. An empty
// selection is refused before any network call.
func (c *Consultation) SubmitLabTestsOnly(ctx context.Context, sess *session.Session) (*SubmissionResult, error) {
	c.mu.Lock()
	selection := c.labSelection
	c.mu.Unlock()

	if len(selection.TestTypeIDs) == 0 {
		return nil, ErrNoLabTestsSelected
	}

	req := hospital.RecommendLabTestRequest{
		TestTypeIDs:  selection.TestTypeIDs,
		Priority:     selection.Priority,
		TestDateTime: selection.TestDateTime.Format(hospital.TestDateTimeLayout),
		LabID:        hospital.LabID,
	}
	resp, err := c.api.RecommendLabTests(ctx, sess.AccessToken, c.appointmentID, req)
	if err != nil {
		return nil, fmt.Errorf("lab test recommendation failed: %w", err)
	}
	return &SubmissionResult{
		Message:          "Lab tests recommended: " + resp.Message,
		LabTestsIncluded: true,
	}, nil
}

func (c *Consultation) fail(state SubmissionState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
}

func (c *Consultation) resetDraft() {
	c.draft = models.PrescriptionMedicine{
		ID:     uuid.New(),
		Dosage: models.PrescriptionDosage{},
	}
}

// ConsultationService owns one consultation draft per appointment.
type ConsultationService struct {
	mu     sync.Mutex
	api    ConsultationAPI
	drafts map[int]*Consultation
}

func NewConsultationService(api ConsultationAPI) *ConsultationService {
	return &ConsultationService{
		api:    api,
		drafts: make(map[int]*Consultation),
	}
}

// Draft returns the consultation for an appointment, creating it on first
// use. New drafts default to medium priority and a next-day lab date.
func (s *ConsultationService) Draft(appointmentID int) *Consultation {
	s.mu.Lock()
	defer s.mu.Unlock()

	if draft, ok := s.drafts[appointmentID]; ok {
		return draft
	}
	draft := &Consultation{
		api:           s.api,
		appointmentID: appointmentID,
		state:         SubmissionIdle,
		labSelection: models.LabTestSelection{
			Priority:     models.PriorityMedium,
			TestDateTime: time.Now().Add(24 * time.Hour),
		},
	}
	draft.resetDraft()
	s.drafts[appointmentID] = draft
	return draft
}

// Close drops the draft for an appointment.
func (s *ConsultationService) Close(appointmentID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, appointmentID)
}
