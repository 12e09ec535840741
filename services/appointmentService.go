package services

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"Hospitality/hospital"
	"Hospitality/models"
	"Hospitality/session"
)

// SortOrder selects how appointment lists are ordered for presentation.
type SortOrder string

const (
	SortDateAscending  SortOrder = "dateAscending"
	SortDateDescending SortOrder = "dateDescending"
	SortStatusOrder    SortOrder = "statusOrder"
)

// StatusFilter is the patient-facing status filter.
type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterUpcoming  StatusFilter = "upcoming"
	FilterCompleted StatusFilter = "completed"
	FilterCancelled StatusFilter = "cancelled"
)

// Partition buckets appointments by their date relative to a reference
// moment. An appointment with a parseable date lands in exactly one of
// Today, Upcoming, or Past; appointments with malformed dates appear only in
// All.
type Partition struct {
	Today    []models.Appointment `json:"today"`
	Upcoming []models.Appointment `json:"upcoming"`
	Past     []models.Appointment `json:"past"`
	All      []models.Appointment `json:"all"`
}

// PartitionByRelativeDate splits a list against the reference moment. Today
// is decided by calendar-day equality; Upcoming and Past compare the parsed
// date (midnight) against the full reference timestamp. The asymmetry is
// deliberate: an appointment later today is neither upcoming nor past.
func PartitionByRelativeDate(appointments []models.Appointment, ref time.Time) Partition {
	p := Partition{All: appointments}
	today := ref.Format(models.DateLayout)

	for _, appt := range appointments {
		if appt.Date == today {
			p.Today = append(p.Today, appt)
			continue
		}
		parsed, err := time.ParseInLocation(models.DateLayout, appt.Date, ref.Location())
		if err != nil {
			continue
		}
		switch {
		case parsed.After(ref):
			p.Upcoming = append(p.Upcoming, appt)
		case parsed.Before(ref):
			p.Past = append(p.Past, appt)
		}
	}
	return p
}

// SortAppointments orders a copy of the list. Status order ranks scheduled
// before completed before cancelled before anything else, with ties broken by
// ascending date. Date orders compare the yyyy-MM-dd strings directly, which
// matches chronological order.
func SortAppointments(appointments []models.Appointment, order SortOrder) []models.Appointment {
	sorted := make([]models.Appointment, len(appointments))
	copy(sorted, appointments)

	switch order {
	case SortDateAscending:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Date < sorted[j].Date
		})
	case SortDateDescending:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Date > sorted[j].Date
		})
	case SortStatusOrder:
		sort.SliceStable(sorted, func(i, j int) bool {
			ri, rj := statusRank(sorted[i].Status), statusRank(sorted[j].Status)
			if ri != rj {
				return ri < rj
			}
			return sorted[i].Date < sorted[j].Date
		})
	}
	return sorted
}

func statusRank(status string) int {
	switch strings.ToLower(status) {
	case models.StatusScheduled:
		return 0
	case models.StatusCompleted:
		return 1
	case models.StatusCancelled:
		return 2
	default:
		return 3
	}
}

// EligibleForReschedule is the caller-side precondition for opening a
// reschedule session: terminal appointments are never offered, nor are
// appointments dated strictly before the current calendar day.
func EligibleForReschedule(appt models.Appointment, now time.Time) bool {
	if appt.IsTerminal() {
		return false
	}
	return !beforeToday(appt.Date, now)
}

// beforeToday reports whether the date string falls strictly before the
// current calendar day in now's location. Malformed dates are treated as
// not-before-today.
func beforeToday(date string, now time.Time) bool {
	parsed, err := time.ParseInLocation(models.DateLayout, date, now.Location())
	if err != nil {
		return false
	}
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return parsed.Before(startOfDay)
}

// DisplayStatus derives the patient-facing status label: cancellation wins,
// then anything before today shows as completed.
func DisplayStatus(appt models.Appointment, now time.Time) string {
	if appt.StatusIs(models.StatusCancelled) {
		return "Cancelled"
	}
	if beforeToday(appt.Date, now) {
		return "Completed"
	}
	return "Upcoming"
}

// FilterByStatus applies the patient-facing status filter.
func FilterByStatus(appointments []models.Appointment, filter StatusFilter, now time.Time) []models.Appointment {
	if filter == FilterAll || filter == "" {
		return appointments
	}
	var filtered []models.Appointment
	for _, appt := range appointments {
		switch filter {
		case FilterUpcoming:
			if !beforeToday(appt.Date, now) && !appt.StatusIs(models.StatusCancelled) {
				filtered = append(filtered, appt)
			}
		case FilterCompleted:
			if beforeToday(appt.Date, now) && !appt.StatusIs(models.StatusCancelled) {
				filtered = append(filtered, appt)
			}
		case FilterCancelled:
			if appt.StatusIs(models.StatusCancelled) {
				filtered = append(filtered, appt)
			}
		}
	}
	return filtered
}

// SearchAppointments keeps appointments whose id, date, doctor id, or display
// status contains the query substring.
func SearchAppointments(appointments []models.Appointment, query string, now time.Time) []models.Appointment {
	if query == "" {
		return appointments
	}
	var matched []models.Appointment
	for _, appt := range appointments {
		idMatch := strings.Contains(strconv.Itoa(appt.AppointmentID), query)
		dateMatch := strings.Contains(appt.Date, query)
		staffMatch := strings.Contains(appt.StaffID, query)
		statusMatch := strings.Contains(strings.ToLower(DisplayStatus(appt, now)), strings.ToLower(query))
		if idMatch || dateMatch || staffMatch || statusMatch {
			matched = append(matched, appt)
		}
	}
	return matched
}

// AppointmentService fetches appointment history from the hospital API for
// the list views.
type AppointmentService struct {
	client *hospital.Client
}

func NewAppointmentService(client *hospital.Client) *AppointmentService {
	return &AppointmentService{client: client}
}

// History returns the session user's appointments as reported upstream.
func (s *AppointmentService) History(ctx context.Context, sess *session.Session) ([]models.Appointment, error) {
	return s.client.FetchAppointmentHistory(ctx, sess.AccessToken)
}

// AvailableSlots fetches the slot snapshot for a doctor and date and keeps
// only the unbooked ones.
func (s *AppointmentService) AvailableSlots(ctx context.Context, sess *session.Session, doctorID, date string) ([]models.Slot, error) {
	slots, err := s.client.FetchDoctorSlots(ctx, sess.AccessToken, doctorID, date)
	if err != nil {
		return nil, err
	}
	available := make([]models.Slot, 0, len(slots))
	for _, slot := range slots {
		if !slot.IsBooked {
			available = append(available, slot)
		}
	}
	return available, nil
}
