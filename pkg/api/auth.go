package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

const (
	SessionCookie = "tld-buddy-session"
	sessionMaxAge = 30 * 24 * time.Hour
)

// SessionToken derives the session token from the app password. It is stable for as long as the password is.
func SessionToken(password string) string {
	mac := hmac.New(sha256.New, []byte(password))
	mac.Write([]byte("tld-buddy:" + password))
	return hex.EncodeToString(mac.Sum(nil))
}

// ValidSessionToken reports whether token was issued for password.
func ValidSessionToken(password, token string) bool {
	if password == "" || token == "" {
		return false
	}
	got, err := hex.DecodeString(token)
	if err != nil {
		return false
	}
	want, _ := hex.DecodeString(SessionToken(password))
	return subtle.ConstantTimeCompare(got, want) == 1
}

func (s *server) hasSession(request *http.Request) bool {
	cookie, err := request.Cookie(SessionCookie)
	if err != nil {
		return false
	}
	return ValidSessionToken(s.password, cookie.Value)
}

// requireSession guards the /api/data routes only.
func (s *server) requireSession(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if strings.HasPrefix(request.URL.Path, "/api/data") && !s.hasSession(request) {
			s.metrics.authFailures.Inc()
			s.writeError(writer, http.StatusUnauthorized, "Unauthorized")
			return
		}
		handler.ServeHTTP(writer, request)
	})
}

func (s *server) login(writer http.ResponseWriter, request *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
		s.writeError(writer, http.StatusBadRequest, "Invalid body")
		return
	}
	if s.password == "" {
		s.logger.Error("login attempted but APP_PASSWORD is not configured")
		s.writeError(writer, http.StatusInternalServerError, "APP_PASSWORD not configured")
		return
	}
	if body.Password == "" || subtle.ConstantTimeCompare([]byte(body.Password), []byte(s.password)) != 1 {
		s.metrics.authFailures.Inc()
		s.writeError(writer, http.StatusUnauthorized, "Invalid password")
		return
	}
	http.SetCookie(writer, &http.Cookie{
		Name:     SessionCookie,
		Value:    SessionToken(s.password),
		Path:     "/",
		MaxAge:   int(sessionMaxAge / time.Second),
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	s.writeJSON(writer, http.StatusOK, map[string]bool{"ok": true})
}

func (s *server) check(writer http.ResponseWriter, request *http.Request) {
	s.writeJSON(writer, http.StatusOK, map[string]bool{"authenticated": s.hasSession(request)})
}
