package models

import (
	"time"

	"sched/crypto"
)

// User rows are created out of band (see db.Seed); the web flows only ever
// read them. Password holds a bcrypt digest, never plaintext.
type User struct {
	ID       int64     `db:"id" json:"id"`
	Created  time.Time `db:"created" json:"created"`
	Modified time.Time `db:"modified" json:"modified"`
	Name     string    `db:"name" json:"name"`
	Email    string    `db:"email" json:"email"`
	Active   bool      `db:"active" json:"active"`
	Password string    `db:"password" json:"-"`
}

// SetPassword hashes the plaintext and stores the digest. This is the only
// way a password reaches the entity.
func (u *User) SetPassword(plaintext string) error {
	digest, err := crypto.HashPassword(plaintext)
	if err != nil {
		return err
	}
	u.Password = digest
	return nil
}

// CheckPassword reports whether the plaintext matches the stored digest.
func (u *User) CheckPassword(plaintext string) bool {
	return crypto.CheckPasswordHash(plaintext, u.Password)
}

// Appointment belongs to exactly one user; UserID is fixed at creation and
// not reassigned by the edit flow.
type Appointment struct {
	ID          int64     `db:"id" json:"id"`
	Created     time.Time `db:"created" json:"created"`
	Modified    time.Time `db:"modified" json:"modified"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Title       string    `db:"title" json:"title"`
	Start       time.Time `db:"start" json:"start"`
	End         time.Time `db:"end" json:"end"`
	AllDay      bool      `db:"allday" json:"allday"`
	Location    string    `db:"location" json:"location"`
	Description string    `db:"description" json:"description"`
}

// Duration is end minus start in whole seconds. It is computed on read,
// never stored. Negative values are representable: start/end ordering is
// not enforced anywhere.
func (a *Appointment) Duration() int64 {
	return int64(a.End.Sub(a.Start) / time.Second)
}
