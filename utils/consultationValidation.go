package utils

import (
	"errors"
	"log"
	"time"

	"Hospitality/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validation errors
var (
	ErrOrganRequired      = errors.New("organ cannot be blank")
	ErrMedicineIncomplete = errors.New("medicine must have a name and be chosen from the catalog")
	ErrTestDateInPast     = errors.New("test date must not be in the past")
)

// ValidateDiagnosisItem checks a diagnosis item before it enters the working
// list.
func ValidateDiagnosisItem(item models.DiagnosisItem) error {
	err := validation.ValidateStruct(&item,
		validation.Field(&item.Organ, validation.Required.Error(ErrOrganRequired.Error())),
	)
	if err != nil {
		log.Printf("Validation error: %v\n", err)
	}
	return err
}

// ValidateMedicine checks a medicine entry before it enters the working list.
// A non-empty MedicineID means the entry was picked from the server catalog.
func ValidateMedicine(med models.PrescriptionMedicine) error {
	err := validation.ValidateStruct(&med,
		validation.Field(&med.Name, validation.Required.Error(ErrMedicineIncomplete.Error())),
		validation.Field(&med.MedicineID, validation.Required.Error(ErrMedicineIncomplete.Error())),
	)
	if err != nil {
		log.Printf("Validation error: %v\n", err)
	}
	return err
}

// ValidateLabTestSelection checks a lab-test selection against the reference
// time. The selection itself may be empty; whether an empty selection is
// allowed depends on the consultation's lab-test flag and is enforced by the
// workflow.
func ValidateLabTestSelection(sel models.LabTestSelection, now time.Time) error {
	err := validation.Errors{
		"priority": validation.Validate(sel.Priority,
			validation.Required,
			validation.In(models.PriorityLow, models.PriorityMedium, models.PriorityHigh)),
		"test_datetime": validation.Validate(sel.TestDateTime, validation.By(func(value interface{}) error {
			t, _ := value.(time.Time)
			if t.Before(now) {
				return ErrTestDateInPast
			}
			return nil
		})),
	}.Filter()
	if err != nil {
		log.Printf("Validation error: %v\n", err)
	}
	return err
}
