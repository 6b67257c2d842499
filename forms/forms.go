// Package forms validates incoming field data for the login and appointment
// forms. Each form carries the raw submitted values plus a per-field error
// list filled in by Validate.
package forms

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"sched/models"
)

const maxFieldLength = 255

// Accepted datetime layouts, tried in order. The first two are what the
// browser's datetime-local input submits.
var datetimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// DatetimeLocalLayout is the layout used to prefill datetime-local inputs.
const DatetimeLocalLayout = "2006-01-02T15:04"

func parseDatetime(raw string) (time.Time, error) {
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized datetime %q", raw)
}

// LoginForm checks presence only; credential correctness is the login
// flow's business.
type LoginForm struct {
	Username string
	Password string

	Errors map[string][]string
}

func NewLoginForm(values url.Values) *LoginForm {
	return &LoginForm{
		Username: values.Get("username"),
		Password: values.Get("password"),
		Errors:   make(map[string][]string),
	}
}

func (f *LoginForm) Validate() bool {
	f.Errors = make(map[string][]string)

	if strings.TrimSpace(f.Username) == "" {
		f.Errors["username"] = append(f.Errors["username"], "This field is required.")
	}
	if strings.TrimSpace(f.Password) == "" {
		f.Errors["password"] = append(f.Errors["password"], "This field is required.")
	}

	return len(f.Errors) == 0
}

// AppointmentForm holds the raw submitted values for the create and edit
// flows. Start and End stay strings until Validate parses them.
type AppointmentForm struct {
	Title       string
	Start       string
	End         string
	AllDay      bool
	Location    string
	Description string

	Errors map[string][]string

	start time.Time
	end   time.Time
}

func NewAppointmentForm(values url.Values) *AppointmentForm {
	return &AppointmentForm{
		Title:       values.Get("title"),
		Start:       values.Get("start"),
		End:         values.Get("end"),
		AllDay:      values.Get("allday") != "",
		Location:    values.Get("location"),
		Description: values.Get("description"),
		Errors:      make(map[string][]string),
	}
}

// AppointmentFormFromAppointment prefills a form from an existing entity,
// for the edit page.
func AppointmentFormFromAppointment(a *models.Appointment) *AppointmentForm {
	return &AppointmentForm{
		Title:       a.Title,
		Start:       a.Start.Format(DatetimeLocalLayout),
		End:         a.End.Format(DatetimeLocalLayout),
		AllDay:      a.AllDay,
		Location:    a.Location,
		Description: a.Description,
		Errors:      make(map[string][]string),
	}
}

// Validate checks the submitted values and fills Errors. A form-omitted end
// falls back to start, keeping the NOT NULL end column satisfied. Start/end
// ordering is deliberately not checked.
func (f *AppointmentForm) Validate() bool {
	f.Errors = make(map[string][]string)

	if len(f.Title) > maxFieldLength {
		f.Errors["title"] = append(f.Errors["title"], "Field cannot be longer than 255 characters.")
	}
	if len(f.Location) > maxFieldLength {
		f.Errors["location"] = append(f.Errors["location"], "Field cannot be longer than 255 characters.")
	}

	if strings.TrimSpace(f.Start) == "" {
		f.Errors["start"] = append(f.Errors["start"], "This field is required.")
	} else {
		start, err := parseDatetime(strings.TrimSpace(f.Start))
		if err != nil {
			f.Errors["start"] = append(f.Errors["start"], "Not a valid datetime value.")
		} else {
			f.start = start
		}
	}

	if strings.TrimSpace(f.End) == "" {
		f.end = f.start
	} else {
		end, err := parseDatetime(strings.TrimSpace(f.End))
		if err != nil {
			f.Errors["end"] = append(f.Errors["end"], "Not a valid datetime value.")
		} else {
			f.end = end
		}
	}

	return len(f.Errors) == 0
}

// Apply copies the validated fields onto the appointment, one named field at
// a time. Ownership and timestamps are not the form's to touch. Only call
// after a successful Validate.
func (f *AppointmentForm) Apply(a *models.Appointment) {
	a.Title = f.Title
	a.Start = f.start
	a.End = f.end
	a.AllDay = f.AllDay
	a.Location = f.Location
	a.Description = f.Description
}
