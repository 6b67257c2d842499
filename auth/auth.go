package auth

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/sessions"

	"sched/config"
)

var Store *sessions.CookieStore

func InitStore() {
	// Derive two 32-byte keys from the session key to ensure secure encryption
	// Auth key for signing (HMAC)
	authKey := sha256.Sum256([]byte(config.AppConfig.SessionKey + "auth"))
	// Encryption key for content encryption (AES)
	encKey := sha256.Sum256([]byte(config.AppConfig.SessionKey + "encryption"))

	Store = sessions.NewCookieStore(authKey[:], encKey[:])

	// Ensure cookie security settings
	Store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   config.AppConfig.ListenPort != 8080, // Default to true unless dev port
		SameSite: http.SameSiteLaxMode,
	}
}

const SessionName = "sched-session"

// CurrentUserID returns the authenticated user's id, or 0 for an anonymous
// request. A missing, tampered, or expired cookie is simply anonymous.
func CurrentUserID(r *http.Request) int64 {
	session, _ := Store.Get(r, SessionName)
	if id, ok := session.Values["userID"].(int64); ok {
		return id
	}
	return 0
}

// SetSession marks the request's session as authenticated for userID.
func SetSession(w http.ResponseWriter, r *http.Request, userID int64) {
	session, _ := Store.Get(r, SessionName)
	session.Values["userID"] = userID
	session.Save(r, w)
}

// ClearSession drops the session cookie, returning the client to anonymous.
func ClearSession(w http.ResponseWriter, r *http.Request) {
	session, _ := Store.Get(r, SessionName)
	session.Options.MaxAge = -1
	session.Save(r, w)
}
