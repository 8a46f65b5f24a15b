package common

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// SessionName is the cookie holding the viewer session.
const SessionName = "healthtrends"

const (
	sessionIDKey      = "id"
	sessionCountryKey = "country"
)

// SelectedCountry returns the country stored in the session, or fallback.
// It loads the session from the store on every call, bypassing the
// per-request cache, so a long-lived request observes selections saved by
// later requests when the store keeps values server-side.
func SelectedCountry(r *http.Request, store sessions.Store, fallback string) string {
	sess, err := store.New(r, SessionName)
	if err != nil || sess == nil {
		return fallback
	}
	if c, ok := sess.Values[sessionCountryKey].(string); ok && c != "" {
		return c
	}
	return fallback
}

// EnsureSession makes sure the viewer has a session and returns its id. It
// must run before anything is written to w.
func EnsureSession(w http.ResponseWriter, r *http.Request, store sessions.Store) (string, error) {
	return saveSession(w, r, store, nil)
}

// SaveCountry stores country in the session and returns the session id. It
// must run before anything is written to w.
func SaveCountry(w http.ResponseWriter, r *http.Request, store sessions.Store, country string) (string, error) {
	return saveSession(w, r, store, func(sess *sessions.Session) {
		sess.Values[sessionCountryKey] = country
	})
}

func saveSession(w http.ResponseWriter, r *http.Request, store sessions.Store, update func(*sessions.Session)) (string, error) {
	// A cookie that fails to decode yields a fresh session alongside the error.
	sess, _ := store.Get(r, SessionName)

	id, ok := sess.Values[sessionIDKey].(string)
	if ok && id != "" && update == nil {
		return id, nil
	}
	if !ok || id == "" {
		id = uuid.NewString()
		sess.Values[sessionIDKey] = id
	}
	if update != nil {
		update(sess)
	}

	if err := sess.Save(r, w); err != nil {
		return "", err
	}
	return id, nil
}
