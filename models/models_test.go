package models

import (
	"testing"
	"time"
)

func TestSetPassword(t *testing.T) {
	u := &User{Email: "alice@example.com"}

	if err := u.SetPassword("s3cret"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}

	if u.Password == "s3cret" {
		t.Error("Password field holds plaintext after SetPassword")
	}
	if u.Password == "" {
		t.Error("Password field is empty after SetPassword")
	}

	if !u.CheckPassword("s3cret") {
		t.Error("CheckPassword failed for correct password")
	}
	if u.CheckPassword("wrong") {
		t.Error("CheckPassword succeeded for wrong password")
	}
}

func TestDuration(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		end  time.Time
		want int64
	}{
		{"quarter hour", start.Add(15 * time.Minute), 900},
		{"zero", start, 0},
		{"multiple days", start.Add(49*time.Hour + 30*time.Second), 49*3600 + 30},
		{"negative", start.Add(-time.Hour), -3600},
	}

	for _, tc := range cases {
		a := &Appointment{Start: start, End: tc.end}
		if got := a.Duration(); got != tc.want {
			t.Errorf("%s: Duration() = %d, want %d", tc.name, got, tc.want)
		}
	}
}
