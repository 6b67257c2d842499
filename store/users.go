package store

import (
	"time"

	"github.com/jmoiron/sqlx"

	"sched/models"
)

const userColumns = "id, created, modified, name, email, active, password"

// CreateUser inserts the user and fills in its id and timestamps.
func CreateUser(tx *sqlx.Tx, u *models.User) error {
	now := time.Now().UTC()

	res, err := tx.Exec(
		`INSERT INTO user (created, modified, name, email, active, password)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		now, now, u.Name, u.Email, u.Active, u.Password,
	)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	u.ID = id
	u.Created = now
	u.Modified = now
	return nil
}

func GetUserByID(tx *sqlx.Tx, id int64) (*models.User, error) {
	var u models.User
	err := tx.Get(&u, "SELECT "+userColumns+" FROM user WHERE id = ?", id)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// GetUserByEmail looks a user up case-insensitively. Callers normalize the
// submitted address first; stored addresses are matched regardless of case.
func GetUserByEmail(tx *sqlx.Tx, email string) (*models.User, error) {
	var u models.User
	err := tx.Get(&u, "SELECT "+userColumns+" FROM user WHERE LOWER(email) = LOWER(?)", email)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}
