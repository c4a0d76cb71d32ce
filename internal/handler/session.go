package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/auth"
	"github.com/JamersonCarlos/beauty-salon-web/internal/wire"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "salon_session"

// Session routes.
const (
	PathLogin    = "/auth/login"
	PathValidate = "/auth/validate"
	PathLogout   = "/auth/logout"
)

type sessionKey struct{}

// SessionFrom returns the session attached by RequireSession.
func SessionFrom(ctx context.Context) (*auth.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*auth.Session)
	return s, ok
}

// requestToken reads the session token from the cookie, falling back to a
// bearer Authorization header.
func requestToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if v, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// RequireSession rejects requests without a live session with 401.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.sessions.Authenticate(r.Context(), requestToken(r))
		switch {
		case errors.Is(err, auth.ErrSessionNotFound), errors.Is(err, auth.ErrSessionExpired):
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		case err != nil:
			internalError(w, r, errors.Wrap(err, "authenticate"))
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey{}, sess)
		ctx = zctx.With(ctx, zap.String("operator_id", sess.OperatorID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	creds, err := wire.DecodeCredentials(body)
	if err != nil || creds.Username == "" {
		writeError(w, http.StatusBadRequest, "username and password required")
		return
	}

	token, expires, err := h.sessions.Login(r.Context(), creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		internalError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, wire.EncodeToken(wire.Token{
		AccessToken: token,
		ExpiresIn:   int64(time.Until(expires).Seconds()),
	}))
}

func (h *Handler) validate(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context(), requestToken(r)); err != nil {
		internalError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookie,
	})
	w.WriteHeader(http.StatusNoContent)
}
