package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"jobboard/apperrors"
	"jobboard/cms"
	"jobboard/models"
	"jobboard/utils"
)

// Persisted session keys in the local cache
const (
	keyToken     = "jwtToken"
	keyRole      = "userRole"
	keyProfileID = "profileId"
	keyUser      = "user"
)

// SessionStore owns the authenticated session: it persists token, resolved
// role, profile identifier and a minimal user snapshot, and tears everything
// down on any failure so a half-populated session can never be observed.
type SessionStore struct {
	cms   *cms.Client
	store models.KeyValueStore

	mu      sync.RWMutex
	current *models.Session
}

func NewSessionStore(client *cms.Client, store models.KeyValueStore) *SessionStore {
	return &SessionStore{cms: client, store: store}
}

// Restore rehydrates a persisted session and re-validates the token against
// the CMS identity endpoint. It yields either a complete session or none;
// any failure degrades to logout. Callers must wait for it before serving
// role-gated routes.
func (s *SessionStore) Restore(ctx context.Context) (*models.Session, error) {
	token, role, profileID, userJSON, ok := s.readPersisted()
	if !ok {
		// incomplete leftovers are cleared rather than trusted
		s.Logout()
		return nil, nil
	}

	if TokenExpired(token, time.Now()) {
		s.Logout()
		return nil, apperrors.New(apperrors.KindSessionExpired, "Your session has expired, please sign in again")
	}

	var user models.SessionUser
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		utils.LogWarn("stored user snapshot is unreadable", map[string]any{"error": err.Error()})
		s.Logout()
		return nil, nil
	}

	me, err := s.cms.Me(ctx, token)
	if err != nil {
		s.Logout()
		return nil, err
	}

	session := &models.Session{
		Token:     token,
		Role:      role,
		ProfileID: profileID,
		User:      models.SessionUser{ID: me.ID, Username: me.Username, Email: me.Email},
	}
	if !session.Complete() {
		s.Logout()
		return nil, nil
	}

	s.mu.Lock()
	s.current = session
	s.mu.Unlock()
	utils.LogInfo("session restored", map[string]any{"role": role, "user": me.Email})
	return session, nil
}

// Login activates a session from already-authenticated data. It fails fast
// without mutating anything when no token is present; the caller is trusted
// to have authenticated against the CMS already, so no round-trip happens.
func (s *SessionStore) Login(user models.SessionUser, token string, role models.Role, profileID string) error {
	if token == "" {
		return apperrors.New(apperrors.KindAuth, "Login data is missing an authentication token")
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return apperrors.Wrap(apperrors.KindAuth, "The user snapshot could not be stored", err)
	}

	entries := map[string]string{
		keyToken:     token,
		keyRole:      string(role),
		keyProfileID: profileID,
		keyUser:      string(userJSON),
	}
	for key, value := range entries {
		if err := s.store.Set(key, value); err != nil {
			// never leave a partially persisted session behind
			s.Logout()
			return apperrors.Wrap(apperrors.KindAuth, "The session could not be persisted", err)
		}
	}

	s.mu.Lock()
	s.current = &models.Session{Token: token, Role: role, ProfileID: profileID, User: user}
	s.mu.Unlock()
	return nil
}

// Logout clears persisted keys and in-memory state unconditionally; calling
// it twice leaves the same empty state as calling it once.
func (s *SessionStore) Logout() {
	for _, key := range []string{keyToken, keyRole, keyProfileID, keyUser} {
		if err := s.store.Delete(key); err != nil {
			utils.LogWarn("session key could not be cleared", map[string]any{"key": key, "error": err.Error()})
		}
	}
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// Current returns the active session, or nil when signed out
func (s *SessionStore) Current() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Token returns the active bearer token, or "" when signed out
func (s *SessionStore) Token() string {
	if session := s.Current(); session != nil {
		return session.Token
	}
	return ""
}

// IsAuthenticated requires an in-memory user, a role and a persisted token
// to exist simultaneously
func (s *SessionStore) IsAuthenticated() bool {
	session := s.Current()
	if session == nil || session.Role == "" || session.User.ID == 0 {
		return false
	}
	token, ok, err := s.store.Get(keyToken)
	return err == nil && ok && token != ""
}

func (s *SessionStore) readPersisted() (token string, role models.Role, profileID, userJSON string, ok bool) {
	token, tokenOK, err1 := s.store.Get(keyToken)
	roleRaw, roleOK, err2 := s.store.Get(keyRole)
	profileID, profileOK, err3 := s.store.Get(keyProfileID)
	userJSON, userOK, err4 := s.store.Get(keyUser)
	for _, err := range []error{err1, err2, err3, err4} {
		if err != nil {
			utils.LogWarn("session state could not be read", map[string]any{"error": err.Error()})
			return "", "", "", "", false
		}
	}
	if !tokenOK || !roleOK || !profileOK || !userOK || token == "" || profileID == "" {
		return "", "", "", "", false
	}
	role, valid := models.ParseRole(roleRaw)
	if !valid {
		return "", "", "", "", false
	}
	return token, role, profileID, userJSON, true
}

// TokenExpired reports whether a CMS-issued JWT carries an exp claim in the
// past. The signature is deliberately not verified: the CMS remains the
// authority, this is a cheap pre-check that avoids a doomed round-trip.
func TokenExpired(token string, now time.Time) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		// opaque or malformed token: let the CMS decide
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
