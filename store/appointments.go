package store

import (
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"sched/models"
)

// "end" needs quoting in SQLite.
const appointmentColumns = `id, created, modified, user_id, title, start, "end", allday, location, description`

// AppointmentFilter narrows ListAppointments by the start timestamp.
// Nil bounds are ignored.
type AppointmentFilter struct {
	StartBefore     *time.Time
	StartAfter      *time.Time
	StartOnOrBefore *time.Time
}

// CreateAppointment inserts the appointment and fills in its id and
// timestamps. created and modified start out equal.
func CreateAppointment(tx *sqlx.Tx, a *models.Appointment) error {
	now := time.Now().UTC()

	res, err := tx.Exec(
		`INSERT INTO appointment (created, modified, user_id, title, start, "end", allday, location, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		now, now, a.UserID, a.Title, a.Start, a.End, a.AllDay, a.Location, a.Description,
	)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	a.ID = id
	a.Created = now
	a.Modified = now
	return nil
}

func GetAppointment(tx *sqlx.Tx, id int64) (*models.Appointment, error) {
	var a models.Appointment
	err := tx.Get(&a, "SELECT "+appointmentColumns+" FROM appointment WHERE id = ?", id)
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

// ListAppointments returns appointments matching the filter, always ordered
// by start ascending.
func ListAppointments(tx *sqlx.Tx, filter AppointmentFilter) ([]models.Appointment, error) {
	query := "SELECT " + appointmentColumns + " FROM appointment"

	var where []string
	var args []any
	if filter.StartBefore != nil {
		where = append(where, "start < ?")
		args = append(args, *filter.StartBefore)
	}
	if filter.StartAfter != nil {
		where = append(where, "start >= ?")
		args = append(args, *filter.StartAfter)
	}
	if filter.StartOnOrBefore != nil {
		where = append(where, "start <= ?")
		args = append(args, *filter.StartOnOrBefore)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY start ASC"

	var out []models.Appointment
	if err := tx.Select(&out, query, args...); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateAppointment persists the mutable fields and refreshes modified.
// created and user_id are never touched.
func UpdateAppointment(tx *sqlx.Tx, a *models.Appointment) error {
	now := time.Now().UTC()

	res, err := tx.Exec(
		`UPDATE appointment
		 SET modified = ?, title = ?, start = ?, "end" = ?, allday = ?, location = ?, description = ?
		 WHERE id = ?`,
		now, a.Title, a.Start, a.End, a.AllDay, a.Location, a.Description, a.ID,
	)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	a.Modified = now
	return nil
}

func DeleteAppointment(tx *sqlx.Tx, a *models.Appointment) error {
	res, err := tx.Exec("DELETE FROM appointment WHERE id = ?", a.ID)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
