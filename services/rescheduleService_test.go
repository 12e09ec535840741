package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"Hospitality/hospital"
	"Hospitality/models"
	"Hospitality/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRescheduleAPI struct {
	mu              sync.Mutex
	fetch           func(date string) ([]models.Slot, error)
	reschedule      func(appointmentID int, date string, slotID int) (*hospital.RescheduleResponse, error)
	rescheduleCalls int
}

func (f *fakeRescheduleAPI) FetchDoctorSlots(ctx context.Context, token, doctorID, date string) ([]models.Slot, error) {
	return f.fetch(date)
}

func (f *fakeRescheduleAPI) RescheduleAppointment(ctx context.Context, token string, appointmentID int, date string, slotID int) (*hospital.RescheduleResponse, error) {
	f.mu.Lock()
	f.rescheduleCalls++
	f.mu.Unlock()
	return f.reschedule(appointmentID, date, slotID)
}

func (f *fakeRescheduleAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rescheduleCalls
}

func testSession() *session.Session {
	return &session.Session{ID: "s1", UserID: "u1", UserType: "staff", AccessToken: "token"}
}

func reschedulableAppointment() models.Appointment {
	return models.Appointment{AppointmentID: 42, StaffID: "DOC-1", Date: "2025-03-12", Status: models.StatusScheduled}
}

func TestOpenRejectsTerminalAppointments(t *testing.T) {
	svc := NewRescheduleService(&fakeRescheduleAPI{})
	now := mustParse(t, "2025-03-10 09:00:00")

	_, err := svc.Open(models.Appointment{AppointmentID: 1, Date: "2025-03-12", Status: models.StatusCompleted}, now, nil)
	assert.ErrorIs(t, err, ErrNotReschedulable)

	_, err = svc.Open(models.Appointment{AppointmentID: 2, Date: "2025-03-09", Status: models.StatusScheduled}, now, nil)
	assert.ErrorIs(t, err, ErrNotReschedulable)
}

func TestSelectDateFiltersBookedSlots(t *testing.T) {
	api := &fakeRescheduleAPI{
		fetch: func(date string) ([]models.Slot, error) {
			return []models.Slot{
				{SlotID: 1, StartTime: "09:00", IsBooked: false},
				{SlotID: 2, StartTime: "09:30", IsBooked: true},
				{SlotID: 3, StartTime: "10:00", IsBooked: false},
			}, nil
		},
	}
	svc := NewRescheduleService(api)
	rs, err := svc.Open(reschedulableAppointment(), mustParse(t, "2025-03-10 09:00:00"), nil)
	require.NoError(t, err)

	require.NoError(t, rs.SelectDate(context.Background(), testSession(), "2025-03-14"))

	snap := rs.Snapshot()
	assert.Equal(t, RescheduleSlotsLoaded, snap.State)
	require.Len(t, snap.Slots, 2)
	assert.Equal(t, 1, snap.Slots[0].SlotID)
	assert.Equal(t, 3, snap.Slots[1].SlotID)

	// Booked slots are not selectable even by id.
	assert.ErrorIs(t, rs.SelectSlot(2), ErrSlotNotAvailable)
	assert.NoError(t, rs.SelectSlot(3))
	assert.Equal(t, 3, rs.Snapshot().SelectedSlotID)
}

func TestSelectDateRejectsMalformedDate(t *testing.T) {
	api := &fakeRescheduleAPI{fetch: func(date string) ([]models.Slot, error) {
		t.Fatal("fetch should not run for a malformed date")
		return nil, nil
	}}
	svc := NewRescheduleService(api)
	rs, err := svc.Open(reschedulableAppointment(), mustParse(t, "2025-03-10 09:00:00"), nil)
	require.NoError(t, err)

	assert.Error(t, rs.SelectDate(context.Background(), testSession(), "14-03-2025"))
}

func TestSelectDateFailureKeepsPreviousSlots(t *testing.T) {
	var failing bool
	api := &fakeRescheduleAPI{
		fetch: func(date string) ([]models.Slot, error) {
			if failing {
				return nil, errors.New("upstream down")
			}
			return []models.Slot{{SlotID: 1, StartTime: "09:00"}}, nil
		},
	}
	svc := NewRescheduleService(api)
	rs, err := svc.Open(reschedulableAppointment(), mustParse(t, "2025-03-10 09:00:00"), nil)
	require.NoError(t, err)

	require.NoError(t, rs.SelectDate(context.Background(), testSession(), "2025-03-14"))

	failing = true
	assert.Error(t, rs.SelectDate(context.Background(), testSession(), "2025-03-15"))

	snap := rs.Snapshot()
	assert.Equal(t, RescheduleFailed, snap.State)
	assert.Len(t, snap.Slots, 1)
	assert.Equal(t, "2025-03-14", snap.Date)
}

func TestStaleSlotFetchIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	api := &fakeRescheduleAPI{
		fetch: func(date string) ([]models.Slot, error) {
			if date == "2025-03-14" {
				close(started)
				<-release
				return []models.Slot{{SlotID: 1, StartTime: "09:00"}}, nil
			}
			return []models.Slot{{SlotID: 2, StartTime: "10:00"}}, nil
		},
	}
	svc := NewRescheduleService(api)
	rs, err := svc.Open(reschedulableAppointment(), mustParse(t, "2025-03-10 09:00:00"), nil)
	require.NoError(t, err)

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- rs.SelectDate(context.Background(), testSession(), "2025-03-14")
	}()
	<-started

	// The user switched dates before the first fetch came back.
	require.NoError(t, rs.SelectDate(context.Background(), testSession(), "2025-03-15"))
	close(release)

	assert.ErrorIs(t, <-firstDone, ErrStaleSlotFetch)

	// The slow first response never overwrote the newer one.
	snap := rs.Snapshot()
	assert.Equal(t, "2025-03-15", snap.Date)
	require.Len(t, snap.Slots, 1)
	assert.Equal(t, 2, snap.Slots[0].SlotID)
}

func TestConfirmWithoutSlotMakesNoNetworkCall(t *testing.T) {
	api := &fakeRescheduleAPI{
		fetch: func(date string) ([]models.Slot, error) {
			return []models.Slot{{SlotID: 1, StartTime: "09:00"}}, nil
		},
		reschedule: func(appointmentID int, date string, slotID int) (*hospital.RescheduleResponse, error) {
			return &hospital.RescheduleResponse{Message: "ok"}, nil
		},
	}
	svc := NewRescheduleService(api)
	rs, err := svc.Open(reschedulableAppointment(), mustParse(t, "2025-03-10 09:00:00"), nil)
	require.NoError(t, err)
	require.NoError(t, rs.SelectDate(context.Background(), testSession(), "2025-03-14"))

	_, err = rs.ConfirmReschedule(context.Background(), testSession())
	assert.ErrorIs(t, err, ErrNoSlotSelected)
	assert.Equal(t, "Please select a time slot", rs.Snapshot().Message)
	assert.Equal(t, 0, api.calls())
}

func TestConfirmSuccessRunsCompletionCallback(t *testing.T) {
	api := &fakeRescheduleAPI{
		fetch: func(date string) ([]models.Slot, error) {
			return []models.Slot{{SlotID: 5, StartTime: "11:00"}}, nil
		},
		reschedule: func(appointmentID int, date string, slotID int) (*hospital.RescheduleResponse, error) {
			return &hospital.RescheduleResponse{Message: "Rescheduled", AppointmentID: appointmentID, NewDate: date, NewSlotID: slotID}, nil
		},
	}
	svc := NewRescheduleService(api)

	var completed bool
	rs, err := svc.Open(reschedulableAppointment(), mustParse(t, "2025-03-10 09:00:00"), func() { completed = true })
	require.NoError(t, err)
	require.NoError(t, rs.SelectDate(context.Background(), testSession(), "2025-03-14"))
	require.NoError(t, rs.SelectSlot(5))

	result, err := rs.ConfirmReschedule(context.Background(), testSession())
	require.NoError(t, err)
	assert.Equal(t, "2025-03-14", result.NewDate)
	assert.Equal(t, 5, result.NewSlotID)
	assert.True(t, completed)
	assert.Equal(t, RescheduleSucceeded, rs.Snapshot().State)
}

func TestConfirmFailureReportsFailedState(t *testing.T) {
	api := &fakeRescheduleAPI{
		fetch: func(date string) ([]models.Slot, error) {
			return []models.Slot{{SlotID: 5, StartTime: "11:00"}}, nil
		},
		reschedule: func(appointmentID int, date string, slotID int) (*hospital.RescheduleResponse, error) {
			return nil, &hospital.APIError{StatusCode: 409, Message: "Slot already booked"}
		},
	}
	svc := NewRescheduleService(api)
	rs, err := svc.Open(reschedulableAppointment(), mustParse(t, "2025-03-10 09:00:00"), nil)
	require.NoError(t, err)
	require.NoError(t, rs.SelectDate(context.Background(), testSession(), "2025-03-14"))
	require.NoError(t, rs.SelectSlot(5))

	_, err = rs.ConfirmReschedule(context.Background(), testSession())
	require.Error(t, err)

	snap := rs.Snapshot()
	assert.Equal(t, RescheduleFailed, snap.State)
	assert.Contains(t, snap.Message, "Slot already booked")
}
