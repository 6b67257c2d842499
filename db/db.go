package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"sched/logger"
	"sched/models"
	"sched/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS user (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created DATETIME NOT NULL,
	modified DATETIME NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL UNIQUE,
	active BOOLEAN NOT NULL DEFAULT 1,
	password TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS appointment (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created DATETIME NOT NULL,
	modified DATETIME NOT NULL,
	user_id INTEGER NOT NULL REFERENCES user(id),
	title TEXT NOT NULL DEFAULT '',
	start DATETIME NOT NULL,
	"end" DATETIME NOT NULL,
	allday BOOLEAN NOT NULL DEFAULT 0,
	location TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_appointment_start ON appointment(start);
`

// Open connects to the SQLite database at path and ensures the schema exists.
func Open(path string) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("file:%s?_fk=1&_loc=UTC", path)
	conn, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, err
	}

	return conn, nil
}

// Seed creates the demo account when the user table is empty. The web flows
// never create users; this is the out-of-band path.
func Seed(conn *sqlx.DB) error {
	var count int
	if err := conn.Get(&count, "SELECT COUNT(*) FROM user"); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	user := &models.User{
		Name:   "Demo User",
		Email:  "demo@example.com",
		Active: true,
	}
	if err := user.SetPassword("demo1234"); err != nil {
		return err
	}

	tx, err := conn.Beginx()
	if err != nil {
		return err
	}
	if err := store.CreateUser(tx, user); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	logger.Log.Infow("demo user created", "email", user.Email, "password", "demo1234")
	return nil
}
