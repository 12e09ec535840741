package services

import (
	"testing"
	"time"

	"Hospitality/models"

	"github.com/stretchr/testify/assert"
)

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04:05", value)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", value, err)
	}
	return parsed
}

func TestPartitionByRelativeDate(t *testing.T) {
	ref := mustParse(t, "2025-03-10 14:30:00")
	appointments := []models.Appointment{
		{AppointmentID: 1, Date: "2025-03-10", Status: models.StatusScheduled},
		{AppointmentID: 2, Date: "2025-03-11", Status: models.StatusScheduled},
		{AppointmentID: 3, Date: "2025-03-09", Status: models.StatusCompleted},
		{AppointmentID: 4, Date: "not-a-date", Status: models.StatusScheduled},
	}

	p := PartitionByRelativeDate(appointments, ref)

	assert.Len(t, p.Today, 1)
	assert.Equal(t, 1, p.Today[0].AppointmentID)
	assert.Len(t, p.Upcoming, 1)
	assert.Equal(t, 2, p.Upcoming[0].AppointmentID)
	assert.Len(t, p.Past, 1)
	assert.Equal(t, 3, p.Past[0].AppointmentID)
	assert.Len(t, p.All, 4)
}

func TestPartitionInNonUTCLocation(t *testing.T) {
	// Late evening west of UTC: tomorrow's date is already "today" in UTC,
	// but it must still land in Upcoming for the local reference.
	bogota := time.FixedZone("UTC-5", -5*60*60)
	ref := time.Date(2025, 3, 10, 20, 0, 0, 0, bogota)
	appointments := []models.Appointment{
		{AppointmentID: 1, Date: "2025-03-10", Status: models.StatusScheduled},
		{AppointmentID: 2, Date: "2025-03-11", Status: models.StatusScheduled},
		{AppointmentID: 3, Date: "2025-03-09", Status: models.StatusCompleted},
	}

	p := PartitionByRelativeDate(appointments, ref)

	assert.Equal(t, []int{1}, appointmentIDs(p.Today))
	assert.Equal(t, []int{2}, appointmentIDs(p.Upcoming))
	assert.Equal(t, []int{3}, appointmentIDs(p.Past))
}

func TestPartitionTodayIsNeitherUpcomingNorPast(t *testing.T) {
	// Even late in the day, a same-day appointment stays in Today only,
	// although its midnight timestamp is before the reference moment.
	ref := mustParse(t, "2025-03-10 23:59:00")
	appointments := []models.Appointment{
		{AppointmentID: 1, Date: "2025-03-10", Status: models.StatusScheduled},
	}

	p := PartitionByRelativeDate(appointments, ref)

	assert.Len(t, p.Today, 1)
	assert.Empty(t, p.Upcoming)
	assert.Empty(t, p.Past)
}

func TestPartitionMalformedDateOnlyInAll(t *testing.T) {
	ref := mustParse(t, "2025-03-10 09:00:00")
	appointments := []models.Appointment{
		{AppointmentID: 7, Date: "03/10/2025", Status: models.StatusScheduled},
	}

	p := PartitionByRelativeDate(appointments, ref)

	assert.Empty(t, p.Today)
	assert.Empty(t, p.Upcoming)
	assert.Empty(t, p.Past)
	assert.Len(t, p.All, 1)
}

func TestSortAppointmentsByDate(t *testing.T) {
	appointments := []models.Appointment{
		{AppointmentID: 1, Date: "2025-03-12"},
		{AppointmentID: 2, Date: "2025-03-10"},
		{AppointmentID: 3, Date: "2025-03-11"},
	}

	asc := SortAppointments(appointments, SortDateAscending)
	assert.Equal(t, []int{2, 3, 1}, appointmentIDs(asc))

	desc := SortAppointments(appointments, SortDateDescending)
	assert.Equal(t, []int{1, 3, 2}, appointmentIDs(desc))

	// The input order is untouched.
	assert.Equal(t, []int{1, 2, 3}, appointmentIDs(appointments))
}

func TestSortAppointmentsByStatusOrder(t *testing.T) {
	appointments := []models.Appointment{
		{AppointmentID: 1, Date: "2025-03-12", Status: "CANCELLED"},
		{AppointmentID: 2, Date: "2025-03-10", Status: "Completed"},
		{AppointmentID: 3, Date: "2025-03-11", Status: "scheduled"},
		{AppointmentID: 4, Date: "2025-03-09", Status: "scheduled"},
		{AppointmentID: 5, Date: "2025-03-08", Status: "no_show"},
	}

	sorted := SortAppointments(appointments, SortStatusOrder)

	// scheduled < completed < cancelled < other, date ascending within rank.
	assert.Equal(t, []int{4, 3, 2, 1, 5}, appointmentIDs(sorted))
}

func TestEligibleForReschedule(t *testing.T) {
	now := mustParse(t, "2025-03-10 14:30:00")

	assert.True(t, EligibleForReschedule(models.Appointment{Date: "2025-03-10", Status: models.StatusScheduled}, now))
	assert.True(t, EligibleForReschedule(models.Appointment{Date: "2025-03-11", Status: models.StatusScheduled}, now))
	assert.False(t, EligibleForReschedule(models.Appointment{Date: "2025-03-09", Status: models.StatusScheduled}, now))

	// Terminal statuses are never reschedulable, even for future dates.
	assert.False(t, EligibleForReschedule(models.Appointment{Date: "2025-03-11", Status: models.StatusCompleted}, now))
	assert.False(t, EligibleForReschedule(models.Appointment{Date: "2025-03-11", Status: "Cancelled"}, now))

	// Malformed dates do not disqualify on their own.
	assert.True(t, EligibleForReschedule(models.Appointment{Date: "whenever", Status: models.StatusScheduled}, now))
}

func TestEligibleForRescheduleInNonUTCLocation(t *testing.T) {
	// Morning west of UTC: the day's start is after midnight UTC, so a
	// same-day appointment must not be treated as past.
	bogota := time.FixedZone("UTC-5", -5*60*60)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, bogota)

	assert.True(t, EligibleForReschedule(models.Appointment{Date: "2025-03-10", Status: models.StatusScheduled}, now))
	assert.False(t, EligibleForReschedule(models.Appointment{Date: "2025-03-09", Status: models.StatusScheduled}, now))
	assert.Equal(t, "Upcoming", DisplayStatus(models.Appointment{Date: "2025-03-10", Status: models.StatusScheduled}, now))

	kept := FilterByStatus([]models.Appointment{
		{AppointmentID: 1, Date: "2025-03-10", Status: models.StatusScheduled},
	}, FilterUpcoming, now)
	assert.Equal(t, []int{1}, appointmentIDs(kept))
}

func TestDisplayStatus(t *testing.T) {
	now := mustParse(t, "2025-03-10 14:30:00")

	assert.Equal(t, "Cancelled", DisplayStatus(models.Appointment{Date: "2025-03-09", Status: "cancelled"}, now))
	assert.Equal(t, "Completed", DisplayStatus(models.Appointment{Date: "2025-03-09", Status: models.StatusScheduled}, now))
	assert.Equal(t, "Upcoming", DisplayStatus(models.Appointment{Date: "2025-03-10", Status: models.StatusScheduled}, now))
	assert.Equal(t, "Upcoming", DisplayStatus(models.Appointment{Date: "2025-03-11", Status: models.StatusScheduled}, now))
}

func TestFilterByStatus(t *testing.T) {
	now := mustParse(t, "2025-03-10 14:30:00")
	appointments := []models.Appointment{
		{AppointmentID: 1, Date: "2025-03-11", Status: models.StatusScheduled},
		{AppointmentID: 2, Date: "2025-03-09", Status: models.StatusScheduled},
		{AppointmentID: 3, Date: "2025-03-11", Status: "Cancelled"},
	}

	assert.Equal(t, appointments, FilterByStatus(appointments, FilterAll, now))
	assert.Equal(t, []int{1}, appointmentIDs(FilterByStatus(appointments, FilterUpcoming, now)))
	assert.Equal(t, []int{2}, appointmentIDs(FilterByStatus(appointments, FilterCompleted, now)))
	assert.Equal(t, []int{3}, appointmentIDs(FilterByStatus(appointments, FilterCancelled, now)))
}

func TestSearchAppointments(t *testing.T) {
	now := mustParse(t, "2025-03-10 14:30:00")
	appointments := []models.Appointment{
		{AppointmentID: 101, Date: "2025-03-11", StaffID: "DOC-7", Status: models.StatusScheduled},
		{AppointmentID: 202, Date: "2025-03-09", StaffID: "DOC-9", Status: models.StatusScheduled},
	}

	assert.Equal(t, []int{101}, appointmentIDs(SearchAppointments(appointments, "101", now)))
	assert.Equal(t, []int{202}, appointmentIDs(SearchAppointments(appointments, "03-09", now)))
	assert.Equal(t, []int{101}, appointmentIDs(SearchAppointments(appointments, "DOC-7", now)))
	assert.Equal(t, []int{202}, appointmentIDs(SearchAppointments(appointments, "comPLEted", now)))
	assert.Equal(t, appointments, SearchAppointments(appointments, "", now))
	assert.Empty(t, SearchAppointments(appointments, "nothing", now))
}

func appointmentIDs(appointments []models.Appointment) []int {
	ids := make([]int, 0, len(appointments))
	for _, appt := range appointments {
		ids = append(ids, appt.AppointmentID)
	}
	return ids
}
