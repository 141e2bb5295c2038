package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/gatehouse/gatehouse/internal/application/auth"
	"github.com/gatehouse/gatehouse/internal/domain"
	domerrors "github.com/gatehouse/gatehouse/internal/domain/errors"
	"github.com/gatehouse/gatehouse/internal/infrastructure/http/middleware"
)

// SessionCookie is the cookie carrying the opaque session token.
const SessionCookie = "session_id"

// AuthHandler exposes the auth service over form-encoded HTTP routes.
type AuthHandler struct {
	svc      *auth.Service
	validate *validator.Validate
	log      zerolog.Logger
}

func NewAuthHandler(svc *auth.Service, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, validate: validator.New(), log: log}
}

// Welcome handles GET /.
func (h *AuthHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Bienvenue"})
}

// Register handles POST /users: creates an account from email and password
// form fields. 400 when the email is already registered.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	email, password, ok := h.credentials(w, r)
	if !ok {
		return
	}
	user, err := h.svc.Register(r.Context(), email, password)
	if err != nil {
		middleware.RecordAuthAttempt("register", false)
		if errors.Is(err, domerrors.ErrAlreadyRegistered) {
			writeErr(w, http.StatusBadRequest, ErrCodeAlreadyRegistered, "email already registered")
			return
		}
		h.fail(w, err, "register failed")
		return
	}
	middleware.RecordAuthAttempt("register", true)
	writeJSON(w, http.StatusOK, map[string]string{"email": user.Email, "message": "user created"})
}

// Login handles POST /sessions: verifies credentials and issues a session
// cookie. 401 on bad credentials.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email, password, ok := h.credentials(w, r)
	if !ok {
		return
	}
	valid, err := h.svc.VerifyLogin(r.Context(), email, password)
	if err != nil {
		h.fail(w, err, "login verification failed")
		return
	}
	if !valid {
		middleware.RecordAuthAttempt("login", false)
		writeErr(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalid email or password")
		return
	}
	token, err := h.svc.CreateSession(r.Context(), email)
	if err != nil {
		h.fail(w, err, "create session failed")
		return
	}
	if token == "" {
		middleware.RecordAuthAttempt("login", false)
		writeErr(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalid email or password")
		return
	}
	middleware.RecordAuthAttempt("login", true)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"email": email, "message": "logged in"})
}

// Logout handles DELETE /sessions: tears the session down and redirects to /.
// 403 when the cookie is absent or matches no session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	if err := h.svc.DestroySession(r.Context(), user.ID); err != nil && !errors.Is(err, domerrors.ErrUnknownUser) {
		h.fail(w, err, "destroy session failed")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

// Profile handles GET /profile. 403 when the session cookie is absent or invalid.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"email": user.Email})
}

// RequestPasswordReset handles POST /reset_password: issues a reset token for
// the email. 403 when the email is unknown.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	email, ok := h.formEmail(w, r)
	if !ok {
		return
	}
	token, err := h.svc.RequestPasswordReset(r.Context(), email)
	if err != nil {
		if errors.Is(err, domerrors.ErrUnknownUser) {
			writeErr(w, http.StatusForbidden, ErrCodeForbidden, "unknown email")
			return
		}
		h.fail(w, err, "request password reset failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"email": email, "reset_token": token})
}

// CompletePasswordReset handles PUT /reset_password: consumes the reset token
// and installs the new password. 403 when the token is invalid.
func (h *AuthHandler) CompletePasswordReset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid form body")
		return
	}
	email := SanitizeEmail(r.PostFormValue("email"))
	token := SanitizeToken(r.PostFormValue("reset_token"))
	newPassword := SanitizePassword(r.PostFormValue("new_password"))
	if newPassword == "" {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid password length")
		return
	}
	if err := h.svc.CompletePasswordReset(r.Context(), token, newPassword); err != nil {
		if errors.Is(err, domerrors.ErrInvalidResetToken) {
			writeErr(w, http.StatusForbidden, ErrCodeInvalidResetToken, "invalid reset token")
			return
		}
		h.fail(w, err, "complete password reset failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"email": email, "message": "Password updated"})
}

// credentials parses and validates the email and password form fields,
// writing the error response itself when they are unusable.
func (h *AuthHandler) credentials(w http.ResponseWriter, r *http.Request) (email, password string, ok bool) {
	if err := r.ParseForm(); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid form body")
		return "", "", false
	}
	email = SanitizeEmail(r.PostFormValue("email"))
	password = SanitizePassword(r.PostFormValue("password"))
	if email == "" || password == "" {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid email or password length")
		return "", "", false
	}
	if err := h.validate.Var(email, "required,email"); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid email address")
		return "", "", false
	}
	return email, password, true
}

func (h *AuthHandler) formEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	if err := r.ParseForm(); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid form body")
		return "", false
	}
	email := SanitizeEmail(r.PostFormValue("email"))
	if email == "" {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid email length")
		return "", false
	}
	if err := h.validate.Var(email, "required,email"); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid email address")
		return "", false
	}
	return email, true
}

// sessionUser resolves the session cookie to a user, writing the 403 itself
// when the cookie is absent or resolves to nobody.
func (h *AuthHandler) sessionUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || SanitizeToken(cookie.Value) == "" {
		writeErr(w, http.StatusForbidden, ErrCodeForbidden, "no active session")
		return nil, false
	}
	u, err := h.svc.ResolveSession(r.Context(), SanitizeToken(cookie.Value))
	if err != nil {
		h.fail(w, err, "resolve session failed")
		return nil, false
	}
	if u == nil {
		writeErr(w, http.StatusForbidden, ErrCodeForbidden, "no active session")
		return nil, false
	}
	return u, true
}

// fail maps unexpected service errors: store outages get 503, the rest 500.
func (h *AuthHandler) fail(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, domerrors.ErrStoreUnavailable) {
		h.log.Error().Err(err).Msg(msg)
		writeErr(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "user store unavailable")
		return
	}
	h.log.Error().Err(err).Msg(msg)
	writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
}
