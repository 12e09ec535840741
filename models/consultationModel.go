package models

import (
	"time"

	"github.com/google/uuid"
)

// Lab test priorities offered by the selector.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// DosageMax caps each of the three daily dosage counts.
const DosageMax = 5

// DiagnosisItem is one organ-scoped observation recorded during a
// consultation. It lives in the consultation's working list until submission.
type DiagnosisItem struct {
	Organ    string   `json:"organ"`
	Symptoms []string `json:"symptoms"`
	Notes    string   `json:"notes"`
}

// PrescriptionDosage holds the morning/afternoon/evening counts, each
// clamped to [0, DosageMax].
type PrescriptionDosage struct {
	Morning   int `json:"morning"`
	Afternoon int `json:"afternoon"`
	Evening   int `json:"evening"`
}

// Clamped returns a copy with every count forced into [0, DosageMax].
func (d PrescriptionDosage) Clamped() PrescriptionDosage {
	return PrescriptionDosage{
		Morning:   clampDose(d.Morning),
		Afternoon: clampDose(d.Afternoon),
		Evening:   clampDose(d.Evening),
	}
}

func clampDose(n int) int {
	if n < 0 {
		return 0
	}
	if n > DosageMax {
		return DosageMax
	}
	return n
}

// PrescriptionMedicine is one medicine entry in a consultation draft. ID is a
// client-generated token; MedicineID references the server-provided catalog,
// so a non-empty MedicineID means the medicine was picked from the catalog
// rather than typed freely.
type PrescriptionMedicine struct {
	ID              uuid.UUID          `json:"id"`
	Name            string             `json:"name"`
	MedicineID      string             `json:"medicine_id"`
	Dosage          PrescriptionDosage `json:"dosage"`
	FastingRequired bool               `json:"fasting_required"`
}

// LabTestSelection is the optional lab-test recommendation attached to a
// consultation. Only meaningful when the consultation's LabTestRequired flag
// is set; submission is blocked if required but empty.
type LabTestSelection struct {
	TestTypeIDs  []int     `json:"test_type_ids"`
	Priority     string    `json:"priority"`
	TestDateTime time.Time `json:"test_datetime"`
}

// Catalog entries served by the hospital API.
type Medicine struct {
	MedicineID   string `json:"medicine_id"`
	MedicineName string `json:"medicine_name"`
}

type TargetOrgan struct {
	TargetOrganID   int    `json:"target_organ_id"`
	TargetOrganName string `json:"target_organ_name"`
}

type LabTestType struct {
	TestTypeID int    `json:"test_type_id"`
	TestName   string `json:"test_name"`
}
