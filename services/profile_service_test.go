package services

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/apperrors"
	"jobboard/models"
)

func newProfileService(t *testing.T, handler http.Handler) (*ProfileService, *SessionStore, *models.MemoryCache) {
	t.Helper()
	client := newClient(t, handler)
	store := models.NewMemoryCache()
	sessions := NewSessionStore(client, store)
	return NewProfileService(client, sessions, store), sessions, store
}

func TestGetCandidateProfile_FallsBackToUserFilter(t *testing.T) {
	listCalls := 0
	profiles, sessions, store := newProfileService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/candidates/prof1":
			// the login-time profile id no longer resolves
			writeCMSError(w, http.StatusNotFound, "Not Found")
		case r.URL.Path == "/api/candidates" && r.URL.Query().Get("filters[user][id][$eq]") == "1":
			listCalls++
			writeJSON(w, map[string]any{"data": []any{map[string]any{
				"id": 4, "documentId": "cand4", "nomeCandidato": "Mario", "cognomeCandidato": "Rossi",
			}}})
		case r.URL.Path == "/api/candidates/cand4":
			writeJSON(w, map[string]any{"data": map[string]any{
				"id": 4, "documentId": "cand4", "nomeCandidato": "Mario", "cognomeCandidato": "Rossi",
			}})
		default:
			writeJSON(w, map[string]any{"data": []any{}})
		}
	}))
	activateSession(t, sessions, "tok", models.RoleCandidate)

	profile, err := profiles.GetCandidateProfile(context.Background())
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Mario Rossi", profile.FullName())

	// the hit refreshed the cached document id
	cached, ok, _ := store.Get("candidateDocumentId")
	assert.True(t, ok)
	assert.Equal(t, "cand4", cached)

	// second call resolves through the cached id, not the filter
	_, err = profiles.GetCandidateProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, listCalls)
}

func TestGetCandidateProfile_SessionExpiredShortCircuits(t *testing.T) {
	calls := 0
	profiles, sessions, _ := newProfileService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeCMSError(w, http.StatusUnauthorized, "Missing or invalid credentials")
	}))
	activateSession(t, sessions, "tok", models.RoleCandidate)

	_, err := profiles.GetCandidateProfile(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindSessionExpired))
	assert.Equal(t, 1, calls, "later strategies must not run after a 401")
}

func TestGetCandidateProfile_UnprovisionedIsNilNotError(t *testing.T) {
	profiles, sessions, _ := newProfileService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/prof1") {
			writeCMSError(w, http.StatusNotFound, "Not Found")
			return
		}
		writeJSON(w, map[string]any{"data": []any{}})
	}))
	activateSession(t, sessions, "tok", models.RoleCandidate)

	profile, err := profiles.GetCandidateProfile(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, profile)
}

func TestGetCompanyProfile_ScanMatchesByEmail(t *testing.T) {
	profiles, sessions, _ := newProfileService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/aziendas/prof1" {
			writeCMSError(w, http.StatusNotFound, "Not Found")
			return
		}
		if r.URL.Path == "/api/aziendas" && strings.Contains(r.URL.RawQuery, "%24eq") {
			// every filtered query misses; deployments with broken filters
			// still resolve through the scan
			writeJSON(w, map[string]any{"data": []any{}})
			return
		}
		writeJSON(w, map[string]any{"data": []any{
			map[string]any{"id": 2, "documentId": "other", "emailAzienda": "other@b.it"},
			map[string]any{"id": 9, "documentId": "comp9", "emailAzienda": "test@example.com", "nomeAzienda": "ACME"},
		}})
	}))
	activateSession(t, sessions, "tok", models.RoleCompany)

	profile, err := profiles.GetCompanyProfile(context.Background())
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "ACME", profile.Name)
	assert.Equal(t, 9, profile.ID)
}

func TestUpdateProfile_RequiresSession(t *testing.T) {
	profiles, _, _ := newProfileService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	err := profiles.UpdateCandidateProfile(context.Background(), "cand4", map[string]any{"nomeCandidato": "Luigi"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindMissingPrecondition))
}
