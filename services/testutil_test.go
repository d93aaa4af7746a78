package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"jobboard/cms"
	"jobboard/models"
)

// newClient spins up a fake CMS and returns a client pointed at it
func newClient(t *testing.T, handler http.Handler) *cms.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return cms.NewClient(server.URL, 2*time.Second)
}

// signedToken mints a JWT with the given expiry; the signature key is
// irrelevant since expiry checks never verify it
func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeCMSError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	writeJSON(w, map[string]any{"error": map[string]any{
		"status": status, "name": "Error", "message": message,
	}})
}

// activateSession puts a complete session into the store without a network call
func activateSession(t *testing.T, sessions *SessionStore, token string, role models.Role) {
	t.Helper()
	user := models.SessionUser{ID: 1, Username: "test", Email: "test@example.com"}
	require.NoError(t, sessions.Login(user, token, role, "prof1"))
}
