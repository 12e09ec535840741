package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsedDate(t *testing.T) {
	appt := Appointment{Date: "2025-03-14"}
	parsed, ok := appt.ParsedDate()
	assert.True(t, ok)
	assert.Equal(t, "2025-03-14", parsed.Format(DateLayout))

	_, ok = Appointment{Date: "14/03/2025"}.ParsedDate()
	assert.False(t, ok)
	_, ok = Appointment{}.ParsedDate()
	assert.False(t, ok)
}

func TestStatusIsIgnoresCase(t *testing.T) {
	appt := Appointment{Status: "Scheduled"}
	assert.True(t, appt.StatusIs(StatusScheduled))
	assert.False(t, appt.StatusIs(StatusCompleted))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, Appointment{Status: "COMPLETED"}.IsTerminal())
	assert.True(t, Appointment{Status: "cancelled"}.IsTerminal())
	assert.False(t, Appointment{Status: "scheduled"}.IsTerminal())
	assert.False(t, Appointment{Status: "no_show"}.IsTerminal())
}

func TestDosageClamped(t *testing.T) {
	dosage := PrescriptionDosage{Morning: -1, Afternoon: 3, Evening: 12}
	assert.Equal(t, PrescriptionDosage{Morning: 0, Afternoon: 3, Evening: DosageMax}, dosage.Clamped())
}
