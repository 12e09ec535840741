package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"Hospitality/hospital"
	"Hospitality/models"
	"Hospitality/session"
)

// RescheduleState is the phase of one reschedule session.
type RescheduleState string

const (
	RescheduleIdle          RescheduleState = "idle"
	RescheduleFetchingSlots RescheduleState = "fetching_slots"
	RescheduleSlotsLoaded   RescheduleState = "slots_loaded"
	RescheduleSubmitting    RescheduleState = "submitting"
	RescheduleSucceeded     RescheduleState = "succeeded"
	RescheduleFailed        RescheduleState = "failed"
)

var (
	// ErrNoSlotSelected is the validation failure for confirming without a
	// slot; no network call is made.
	ErrNoSlotSelected = errors.New("Please select a time slot")

	// ErrNotReschedulable rejects opening a session for a terminal or past
	// appointment.
	ErrNotReschedulable = errors.New("appointment cannot be rescheduled")

	// ErrSlotNotAvailable rejects selecting a slot outside the loaded
	// candidate list.
	ErrSlotNotAvailable = errors.New("selected slot is not available")

	// ErrStaleSlotFetch marks a slot response that lost to a newer fetch and
	// was discarded.
	ErrStaleSlotFetch = errors.New("slot fetch superseded by a newer request")

	// ErrInvalidDate rejects a date that is not yyyy-MM-dd.
	ErrInvalidDate = errors.New("invalid date, expected yyyy-MM-dd")
)

// RescheduleAPI is the slice of the hospital client the workflow needs.
type RescheduleAPI interface {
	FetchDoctorSlots(ctx context.Context, token, doctorID, date string) ([]models.Slot, error)
	RescheduleAppointment(ctx context.Context, token string, appointmentID int, date string, slotID int) (*hospital.RescheduleResponse, error)
}

// RescheduleSnapshot is the observable state of a session.
type RescheduleSnapshot struct {
	AppointmentID  int             `json:"appointment_id"`
	State          RescheduleState `json:"state"`
	Date           string          `json:"date,omitempty"`
	Slots          []models.Slot   `json:"slots"`
	SelectedSlotID int             `json:"selected_slot_id,omitempty"`
	Message        string          `json:"message,omitempty"`
}

// RescheduleSession drives one appointment's reschedule: pick a date, pick
// one of the unbooked slots for that date, confirm. Each slot fetch carries a
// monotonically increasing token; a response whose token is no longer the
// newest is dropped, so a slow older fetch can never overwrite a newer one.
type RescheduleSession struct {
	mu          sync.Mutex
	api         RescheduleAPI
	appointment models.Appointment
	onComplete  func()

	state    RescheduleState
	date     string
	slots    []models.Slot
	selected *models.Slot
	message  string
	fetchSeq uint64
}

// SelectDate loads the unbooked slots for the appointment's doctor on the
// given date. On failure the session reports Failed but keeps any previously
// loaded slots so the caller can still show them.
func (s *RescheduleSession) SelectDate(ctx context.Context, sess *session.Session, date string) error {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return ErrInvalidDate
	}

	s.mu.Lock()
	s.fetchSeq++
	token := s.fetchSeq
	s.state = RescheduleFetchingSlots
	s.mu.Unlock()

	slots, err := s.api.FetchDoctorSlots(ctx, sess.AccessToken, s.appointment.StaffID, date)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.fetchSeq {
		log.Printf("Discarding stale slot fetch for appointment %d (token %d, current %d)",
			s.appointment.AppointmentID, token, s.fetchSeq)
		return ErrStaleSlotFetch
	}

	if err != nil {
		s.state = RescheduleFailed
		s.message = err.Error()
		return err
	}

	available := make([]models.Slot, 0, len(slots))
	for _, slot := range slots {
		if !slot.IsBooked {
			available = append(available, slot)
		}
	}

	s.date = date
	s.slots = available
	s.selected = nil
	s.state = RescheduleSlotsLoaded
	s.message = ""
	return nil
}

// SelectSlot marks one of the loaded candidates as chosen. Purely local.
func (s *RescheduleSession) SelectSlot(slotID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != RescheduleSlotsLoaded {
		return errors.New("no slots loaded for selection")
	}
	for i := range s.slots {
		if s.slots[i].SlotID == slotID {
			slot := s.slots[i]
			s.selected = &slot
			return nil
		}
	}
	return ErrSlotNotAvailable
}

// ConfirmReschedule submits the change. Without a selected slot it fails
// validation before any network I/O. On success the completion callback runs
// so the caller can refresh its appointment list; the local appointment
// record is never mutated here.
func (s *RescheduleSession) ConfirmReschedule(ctx context.Context, sess *session.Session) (*hospital.RescheduleResponse, error) {
	s.mu.Lock()
	if s.selected == nil {
		s.message = ErrNoSlotSelected.Error()
		s.mu.Unlock()
		return nil, ErrNoSlotSelected
	}
	date := s.date
	slotID := s.selected.SlotID
	s.state = RescheduleSubmitting
	s.mu.Unlock()

	result, err := s.api.RescheduleAppointment(ctx, sess.AccessToken, s.appointment.AppointmentID, date, slotID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = RescheduleFailed
		s.message = err.Error()
		return nil, err
	}

	s.state = RescheduleSucceeded
	s.message = result.Message
	if s.onComplete != nil {
		s.onComplete()
	}
	return result, nil
}

// Snapshot returns the session's observable state.
func (s *RescheduleSession) Snapshot() RescheduleSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := RescheduleSnapshot{
		AppointmentID: s.appointment.AppointmentID,
		State:         s.state,
		Date:          s.date,
		Slots:         s.slots,
		Message:       s.message,
	}
	if s.selected != nil {
		snap.SelectedSlotID = s.selected.SlotID
	}
	return snap
}

// RescheduleService owns at most one live session per appointment.
type RescheduleService struct {
	mu       sync.Mutex
	api      RescheduleAPI
	sessions map[int]*RescheduleSession
}

func NewRescheduleService(api RescheduleAPI) *RescheduleService {
	return &RescheduleService{
		api:      api,
		sessions: make(map[int]*RescheduleSession),
	}
}

// Open starts (or restarts) a reschedule session for an eligible
// appointment. Eligibility lives here, on the caller side of the session:
// the session itself never re-checks it.
func (s *RescheduleService) Open(appt models.Appointment, now time.Time, onComplete func()) (*RescheduleSession, error) {
	if !EligibleForReschedule(appt, now) {
		return nil, ErrNotReschedulable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &RescheduleSession{
		api:         s.api,
		appointment: appt,
		onComplete:  onComplete,
		state:       RescheduleIdle,
	}
	s.sessions[appt.AppointmentID] = sess
	return sess, nil
}

// Get returns the live session for an appointment, if any.
func (s *RescheduleService) Get(appointmentID int) (*RescheduleSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[appointmentID]
	return sess, ok
}

// Close drops the session for an appointment.
func (s *RescheduleService) Close(appointmentID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, appointmentID)
}
