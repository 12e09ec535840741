package hospital

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"Hospitality/models"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// LabID is the fixed lab used for lab-test recommendations in the current
// flow.
const LabID = 1

// TestDateTimeLayout is the wire format for lab-test scheduling timestamps.
const TestDateTimeLayout = "2006-01-02 15:04:05"

// ErrUnauthorized is returned for HTTP 401 responses so callers can surface
// the condition distinctly from other server errors.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx, non-401 upstream response. Message holds the
// server-supplied message when one could be parsed, otherwise a generic
// "Status code: N" string.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client talks to the hospital management REST API. The bearer token is
// supplied per call rather than held by the client, so a session change never
// leaves a stale token behind.
type Client struct {
	http *resty.Client
}

// NewClient builds a client for the given base URL.
func NewClient(baseURL string) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{http: httpClient}
}

func (c *Client) request(ctx context.Context, token string) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetAuthToken(token)
}

// checkStatus maps a completed response to the error taxonomy: nil for 2xx,
// ErrUnauthorized for 401, *APIError otherwise.
func checkStatus(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= 200 && code <= 299 {
		return nil
	}
	if code == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return &APIError{StatusCode: code, Message: serverMessage(resp.Body(), code)}
}

// serverMessage extracts a message field from an error body, falling back to
// the status code when the body is not parseable.
func serverMessage(body []byte, code int) string {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		switch {
		case parsed.Message != "":
			return parsed.Message
		case parsed.Error != "":
			return parsed.Error
		case parsed.Detail != "":
			return parsed.Detail
		}
	}
	return fmt.Sprintf("Status code: %d", code)
}

// FetchDoctorSlots returns the full slot snapshot for a doctor on a date
// (yyyy-MM-dd). Booked slots are included; callers filter.
func (c *Client) FetchDoctorSlots(ctx context.Context, token, doctorID, date string) ([]models.Slot, error) {
	var slots []models.Slot
	resp, err := c.request(ctx, token).
		SetQueryParam("date", date).
		SetResult(&slots).
		Get(fmt.Sprintf("/hospital/general/doctors/%s/slots/", doctorID))
	if err != nil {
		return nil, errors.Wrap(err, "fetch doctor slots")
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	if slots == nil {
		return nil, errors.New("invalid response")
	}
	return slots, nil
}

// FetchAppointmentHistory returns all appointments visible to the session's
// user (doctor or patient roles see their own).
func (c *Client) FetchAppointmentHistory(ctx context.Context, token string) ([]models.Appointment, error) {
	var appointments []models.Appointment
	resp, err := c.request(ctx, token).
		SetResult(&appointments).
		Get("/api/hospital/general/appointments/history/")
	if err != nil {
		return nil, errors.Wrap(err, "fetch appointment history")
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	if appointments == nil {
		return nil, errors.New("invalid response")
	}
	return appointments, nil
}

// RescheduleAppointment moves an appointment to a new date and slot. The
// server confirmation is returned as-is; local appointment records are never
// mutated here, callers re-fetch.
func (c *Client) RescheduleAppointment(ctx context.Context, token string, appointmentID int, date string, slotID int) (*RescheduleResponse, error) {
	var result RescheduleResponse
	resp, err := c.request(ctx, token).
		SetBody(RescheduleRequest{Date: date, SlotID: slotID}).
		SetResult(&result).
		Put(fmt.Sprintf("/hospital/general/appointments/%d/reschedule/", appointmentID))
	if err != nil {
		return nil, errors.Wrap(err, "reschedule appointment")
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return &result, nil
}

// SubmitDiagnosis records the consultation's diagnosis items and flags.
func (c *Client) SubmitDiagnosis(ctx context.Context, token string, appointmentID int, req DiagnosisRequest) (*DiagnosisResponse, error) {
	var result DiagnosisResponse
	resp, err := c.request(ctx, token).
		SetBody(req).
		SetResult(&result).
		Post(fmt.Sprintf("/hospital/general/appointments/%d/diagnosis/", appointmentID))
	if err != nil {
		return nil, errors.Wrap(err, "submit diagnosis")
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return &result, nil
}

// SubmitPrescription records the consultation's remarks and medicines.
func (c *Client) SubmitPrescription(ctx context.Context, token string, appointmentID int, req PrescriptionRequest) (*PrescriptionResponse, error) {
	var result PrescriptionResponse
	resp, err := c.request(ctx, token).
		SetBody(req).
		SetResult(&result).
		Post(fmt.Sprintf("/api/hospital/general/appointments/%d/prescription/", appointmentID))
	if err != nil {
		return nil, errors.Wrap(err, "submit prescription")
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return &result, nil
}

// RecommendLabTests attaches a lab-test recommendation to the appointment.
// On a non-2xx response the raw body is surfaced verbatim as the error
// message; this endpoint's failures are shown to the user unfiltered.
func (c *Client) RecommendLabTests(ctx context.Context, token string, appointmentID int, req RecommendLabTestRequest) (*RecommendLabTestResponse, error) {
	var result RecommendLabTestResponse
	resp, err := c.request(ctx, token).
		SetBody(req).
		SetResult(&result).
		Post(fmt.Sprintf("/api/hospital/general/appointments/%d/recommend-lab-tests/", appointmentID))
	if err != nil {
		return nil, errors.Wrap(err, "recommend lab tests")
	}
	code := resp.StatusCode()
	if code == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if code < 200 || code > 299 {
		if body := resp.Body(); len(body) > 0 {
			return nil, &APIError{StatusCode: code, Message: string(body)}
		}
		return nil, &APIError{StatusCode: code, Message: fmt.Sprintf("Status code: %d", code)}
	}
	return &result, nil
}

// FetchMedicineList returns the medicine catalog used by prescription entry.
func (c *Client) FetchMedicineList(ctx context.Context, token string) ([]models.Medicine, error) {
	var medicines []models.Medicine
	resp, err := c.request(ctx, token).
		SetResult(&medicines).
		Get("/api/hospital/general/medicines/")
	if err != nil {
		return nil, errors.Wrap(err, "fetch medicine list")
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	if medicines == nil {
		return nil, errors.New("invalid response")
	}
	return medicines, nil
}

// FetchTargetOrgans returns the organ catalog used by diagnosis entry.
func (c *Client) FetchTargetOrgans(ctx context.Context, token string) ([]models.TargetOrgan, error) {
	var organs []models.TargetOrgan
	resp, err := c.request(ctx, token).
		SetResult(&organs).
		Get("/api/hospital/general/target-organs/")
	if err != nil {
		return nil, errors.Wrap(err, "fetch target organs")
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	if organs == nil {
		return nil, errors.New("invalid response")
	}
	return organs, nil
}

// FetchLabTestTypes returns the lab-test catalog used by the recommendation
// selector.
func (c *Client) FetchLabTestTypes(ctx context.Context, token string) ([]models.LabTestType, error) {
	var types []models.LabTestType
	resp, err := c.request(ctx, token).
		SetResult(&types).
		Get("/api/hospital/general/lab-test-types/")
	if err != nil {
		return nil, errors.Wrap(err, "fetch lab test types")
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	if types == nil {
		return nil, errors.New("invalid response")
	}
	return types, nil
}
