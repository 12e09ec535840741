package hospital

import "Hospitality/models"

// Request bodies. These are explicit typed structures; nothing in this
// package builds untyped JSON maps.

type RescheduleRequest struct {
	Date   string `json:"date"`
	SlotID int    `json:"slot_id"`
}

type DiagnosisRequest struct {
	DiagnosisData    []models.DiagnosisItem `json:"diagnosis_data"`
	LabTestRequired  bool                   `json:"lab_test_required"`
	FollowUpRequired bool                   `json:"follow_up_required"`
	FollowUpDate     string                 `json:"follow_up_date,omitempty"`
}

type PrescriptionRequest struct {
	Remarks       string                 `json:"remarks"`
	Medicines     []PrescriptionMedicine `json:"medicines"`
	AppointmentID int                    `json:"appointment_id"`
}

type PrescriptionMedicine struct {
	MedicineID      string                    `json:"medicine_id"`
	Dosage          models.PrescriptionDosage `json:"dosage"`
	FastingRequired bool                      `json:"fasting_required"`
}

type RecommendLabTestRequest struct {
	TestTypeIDs  []int  `json:"test_type_ids"`
	Priority     string `json:"priority"`
	TestDateTime string `json:"test_datetime"`
	LabID        int    `json:"lab_id"`
}

// Success responses.

type RescheduleResponse struct {
	Message       string `json:"message"`
	AppointmentID int    `json:"appointment_id"`
	NewDate       string `json:"new_date"`
	NewSlotID     int    `json:"new_slot_id"`
}

type DiagnosisResponse struct {
	Message     string `json:"message"`
	DiagnosisID int    `json:"diagnosis_id"`
}

type PrescriptionResponse struct {
	Message string `json:"message"`
}

type RecommendLabTestResponse struct {
	Message  string   `json:"message"`
	LabTests []string `json:"lab_tests"`
}
