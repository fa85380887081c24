// Package session owns the signed-in state of the running client.
// The store is constructed once at startup and handed to whatever needs it;
// there is no package-level singleton. Besides the in-memory state it
// mirrors the token (and, with remember-me, the login) into durable storage
// so a later run can pre-fill the login form.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"upanel/internal/api"
	"upanel/internal/storage"
)

// Storage keys. TokenKey holds the bearer token, DataKey the remembered
// login credentials (JSON).
const (
	TokenKey = "USER_TOKEN"
	DataKey  = "USER_DATA"
)

// Authenticator is the slice of the remote client the store needs.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (api.Credentials, error)
	SetToken(token string)
}

// Store tracks the current session.
type Store struct {
	auth   Authenticator
	kv     *storage.KV
	logger *zap.Logger

	signed bool
	user   api.Credentials
}

// New creates a session store. A nil logger is replaced with a no-op.
func New(auth Authenticator, kv *storage.KV, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{auth: auth, kv: kv, logger: logger}
}

// Authenticate exchanges credentials for a token, marks the session as
// signed in, installs the token on the API client and persists it. Errors
// from the remote client are propagated untouched; the caller owns the
// user-visible handling.
func (s *Store) Authenticate(ctx context.Context, email, password string) error {
	creds, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		return err
	}

	s.user = creds
	s.signed = true
	s.auth.SetToken(creds.Token)

	if err := s.kv.Put(TokenKey, creds.Token); err != nil {
		// The session is still usable; persistence only affects the next run.
		s.logger.Warn("failed to persist session token", zap.Error(err))
	}
	s.logger.Info("authenticated", zap.String("email", creds.Email))
	return nil
}

// Logout clears the session. It always succeeds; storage failures are
// logged and swallowed.
func (s *Store) Logout() {
	s.user = api.Credentials{}
	s.signed = false
	s.auth.SetToken("")

	if err := s.kv.Delete(TokenKey); err != nil {
		s.logger.Warn("failed to remove persisted token", zap.Error(err))
	}
	s.logger.Info("logged out")
}

// Signed reports whether a user is currently authenticated.
func (s *Store) Signed() bool {
	return s.signed
}

// User returns the signed-in credentials, if any.
func (s *Store) User() (api.Credentials, bool) {
	return s.user, s.signed
}

// TokenExpiry reads the exp claim of the current token. The token is parsed
// without verification: the backend owns its validity, this is only for
// display. The second return is false when there is no token or no usable
// expiry.
func (s *Store) TokenExpiry() (time.Time, bool) {
	if !s.signed || s.user.Token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.user.Token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// RememberedLogin holds the credentials persisted by remember-me.
type RememberedLogin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RememberLogin persists the login for pre-filling the next session's form.
func (s *Store) RememberLogin(email, password string) error {
	data, err := json.Marshal(RememberedLogin{Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("failed to marshal remembered login: %w", err)
	}
	return s.kv.Put(DataKey, string(data))
}

// ForgetLogin removes any remembered login.
func (s *Store) ForgetLogin() error {
	return s.kv.Delete(DataKey)
}

// RememberedLogin returns the persisted login, if any.
func (s *Store) RememberedLogin() (RememberedLogin, bool) {
	raw, err := s.kv.Get(DataKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("failed to read remembered login", zap.Error(err))
		}
		return RememberedLogin{}, false
	}

	var login RememberedLogin
	if err := json.Unmarshal([]byte(raw), &login); err != nil {
		s.logger.Warn("corrupt remembered login, ignoring", zap.Error(err))
		return RememberedLogin{}, false
	}
	return login, true
}
