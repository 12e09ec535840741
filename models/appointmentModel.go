package models

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date wire format used by the hospital API.
const DateLayout = "2006-01-02"

// Appointment statuses as reported by the hospital API. Comparison is
// case-insensitive.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Slot is one bookable interval in a doctor's daily schedule. IsBooked is a
// snapshot: it reflects the server state as of the last fetch and is never
// mutated locally.
type Slot struct {
	SlotID          int    `json:"slot_id"`
	StartTime       string `json:"slot_start_time"`
	DurationMinutes int    `json:"slot_duration"`
	IsBooked        bool   `json:"is_booked"`
}

// Appointment binds a patient to a doctor's slot on a given date.
type Appointment struct {
	AppointmentID int    `json:"appointment_id"`
	PatientID     int    `json:"patient_id"`
	StaffID       string `json:"staff_id"`
	Date          string `json:"date"`
	SlotID        int    `json:"slot_id"`
	Status        string `json:"status"`
}

// ParsedDate parses the appointment's calendar date. The second return value
// is false for malformed dates; callers degrade gracefully rather than fail.
func (a Appointment) ParsedDate() (time.Time, bool) {
	t, err := time.Parse(DateLayout, a.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// StatusIs compares the appointment status case-insensitively.
func (a Appointment) StatusIs(status string) bool {
	return strings.EqualFold(a.Status, status)
}

// IsTerminal reports whether the appointment can no longer change: completed
// and cancelled appointments are never offered for reschedule.
func (a Appointment) IsTerminal() bool {
	return a.StatusIs(StatusCompleted) || a.StatusIs(StatusCancelled)
}
