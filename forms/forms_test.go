package forms

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sched/models"
)

func TestLoginFormValidate(t *testing.T) {
	form := NewLoginForm(url.Values{
		"username": {"demo@example.com"},
		"password": {"demo1234"},
	})
	assert.True(t, form.Validate())
	assert.Empty(t, form.Errors)

	form = NewLoginForm(url.Values{})
	assert.False(t, form.Validate())
	assert.Contains(t, form.Errors, "username")
	assert.Contains(t, form.Errors, "password")

	form = NewLoginForm(url.Values{
		"username": {"   "},
		"password": {"x"},
	})
	assert.False(t, form.Validate())
	assert.Contains(t, form.Errors, "username")
	assert.NotContains(t, form.Errors, "password")
}

func TestAppointmentFormValidate(t *testing.T) {
	form := NewAppointmentForm(url.Values{
		"title": {"Standup"},
		"start": {"2024-01-01T09:00"},
		"end":   {"2024-01-01T09:15"},
	})
	require.True(t, form.Validate())

	var a models.Appointment
	form.Apply(&a)
	assert.Equal(t, "Standup", a.Title)
	assert.Equal(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), a.Start)
	assert.Equal(t, time.Date(2024, 1, 1, 9, 15, 0, 0, time.UTC), a.End)
	assert.False(t, a.AllDay)
	assert.EqualValues(t, 900, a.Duration())
}

func TestAppointmentFormMissingStart(t *testing.T) {
	form := NewAppointmentForm(url.Values{"title": {"No start"}})
	assert.False(t, form.Validate())
	assert.Contains(t, form.Errors, "start")
}

func TestAppointmentFormBadDatetime(t *testing.T) {
	form := NewAppointmentForm(url.Values{
		"start": {"next tuesday"},
	})
	assert.False(t, form.Validate())
	assert.Contains(t, form.Errors, "start")

	form = NewAppointmentForm(url.Values{
		"start": {"2024-01-01T09:00"},
		"end":   {"nope"},
	})
	assert.False(t, form.Validate())
	assert.Contains(t, form.Errors, "end")
}

func TestAppointmentFormLengthLimits(t *testing.T) {
	long := strings.Repeat("x", 256)

	form := NewAppointmentForm(url.Values{
		"title":    {long},
		"location": {long},
		"start":    {"2024-01-01T09:00"},
	})
	assert.False(t, form.Validate())
	assert.Contains(t, form.Errors, "title")
	assert.Contains(t, form.Errors, "location")

	form = NewAppointmentForm(url.Values{
		"title": {strings.Repeat("x", 255)},
		"start": {"2024-01-01T09:00"},
	})
	assert.True(t, form.Validate())
}

func TestAppointmentFormEndDefaultsToStart(t *testing.T) {
	form := NewAppointmentForm(url.Values{
		"title":  {"Day Off"},
		"start":  {"2024-01-05"},
		"allday": {"on"},
	})
	require.True(t, form.Validate())

	var a models.Appointment
	form.Apply(&a)
	assert.True(t, a.AllDay)
	assert.True(t, a.End.Equal(a.Start))
	assert.EqualValues(t, 0, a.Duration())
}

func TestAppointmentFormApplyLeavesOwnership(t *testing.T) {
	a := models.Appointment{
		ID:     7,
		UserID: 3,
	}
	a.Created = time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)

	form := NewAppointmentForm(url.Values{
		"title": {"Moved"},
		"start": {"2024-02-02 10:00:00"},
	})
	require.True(t, form.Validate())
	form.Apply(&a)

	assert.EqualValues(t, 7, a.ID)
	assert.EqualValues(t, 3, a.UserID)
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), a.Created)
	assert.Equal(t, "Moved", a.Title)
}

func TestAppointmentFormFromAppointment(t *testing.T) {
	a := &models.Appointment{
		Title:    "Follow Up",
		Start:    time.Date(2024, 1, 4, 14, 0, 0, 0, time.UTC),
		End:      time.Date(2024, 1, 4, 15, 0, 0, 0, time.UTC),
		Location: "The Office",
	}

	form := AppointmentFormFromAppointment(a)
	assert.Equal(t, "2024-01-04T14:00", form.Start)
	assert.Equal(t, "2024-01-04T15:00", form.End)
	assert.Equal(t, "Follow Up", form.Title)

	// A round trip through Validate/Apply must not drift.
	require.True(t, form.Validate())
	var b models.Appointment
	form.Apply(&b)
	assert.True(t, b.Start.Equal(a.Start))
	assert.True(t, b.End.Equal(a.End))
}
