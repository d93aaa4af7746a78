package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/apperrors"
	"jobboard/models"
)

func newJobService(t *testing.T, handler http.Handler) (*JobService, *SessionStore) {
	t.Helper()
	client := newClient(t, handler)
	sessions := NewSessionStore(client, models.NewMemoryCache())
	return NewJobService(client, sessions), sessions
}

func validDraft() models.PostingDraft {
	return models.PostingDraft{
		Title:           "Backend Engineer",
		Description:     "Build things",
		ContractType:    "tempo_indeterminato",
		ExperienceLevel: "senior",
		RequiredSkills:  "Go, SQL",
	}
}

func TestCreate_IncompleteDraftNeverReachesNetwork(t *testing.T) {
	requests := 0
	jobs, sessions := newJobService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	activateSession(t, sessions, "tok", models.RoleCompany)

	draft := validDraft()
	draft.Title = ""
	draft.RequiredSkills = "  "

	_, err := jobs.Create(context.Background(), draft, 3)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	assert.Contains(t, apperrors.MessageOf(err), "title")
	assert.Contains(t, apperrors.MessageOf(err), "requiredSkills")
	assert.Zero(t, requests)
}

func TestCreate_SendsWireFieldsAndPublishMarker(t *testing.T) {
	var payload map[string]any
	jobs, sessions := newJobService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/offerta-lavorativas", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		payload, _ = body["data"].(map[string]any)
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, map[string]any{"data": map[string]any{
			"id": 11, "documentId": "post11", "titoloOffertaLavorativa": "Backend Engineer",
		}})
	}))
	activateSession(t, sessions, "tok", models.RoleCompany)

	expires := time.Now().Add(30 * 24 * time.Hour)
	draft := validDraft()
	draft.ExpiresAt = &expires

	posting, err := jobs.Create(context.Background(), draft, 3)
	require.NoError(t, err)
	assert.Equal(t, 11, posting.ID)

	require.NotNil(t, payload)
	assert.Equal(t, "Backend Engineer", payload["titoloOffertaLavorativa"])
	assert.Equal(t, "tempo_indeterminato", payload["tipoContratto"])
	assert.Equal(t, "senior", payload["livelloEsperienza"])
	assert.NotEmpty(t, payload["dataPubblicazione"], "new postings are published immediately")
	assert.NotEmpty(t, payload["dataScadenza"])
	assert.Equal(t, []any{float64(3)}, payload["aziendas"])
}

func TestUpdate_RevalidatesBeforeSending(t *testing.T) {
	requests := 0
	jobs, sessions := newJobService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	activateSession(t, sessions, "tok", models.RoleCompany)

	draft := validDraft()
	draft.Description = ""
	_, err := jobs.Update(context.Background(), "post11", draft)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	assert.Zero(t, requests)
}

func TestListCompanyPostings_FiltersByOwner(t *testing.T) {
	jobs, sessions := newJobService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("filters[aziendas][id][$eq]"))
		assert.Equal(t, "*", r.URL.Query().Get("populate"))
		writeJSON(w, map[string]any{"data": []any{
			map[string]any{"id": 11, "titoloOffertaLavorativa": "Backend Engineer"},
		}})
	}))
	activateSession(t, sessions, "tok", models.RoleCompany)

	postings, err := jobs.ListCompanyPostings(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, postings, 1)
	assert.Equal(t, "Backend Engineer", postings[0].Title)
}

func TestListOpenPostings_IsUnauthenticated(t *testing.T) {
	jobs, _ := newJobService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, map[string]any{"data": []any{}})
	}))

	_, err := jobs.ListOpenPostings(context.Background())
	assert.NoError(t, err)
}

func TestSetPublished_TogglesMarker(t *testing.T) {
	var payloads []map[string]any
	jobs, sessions := newJobService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		data, _ := body["data"].(map[string]any)
		payloads = append(payloads, data)
		writeJSON(w, map[string]any{"data": map[string]any{"id": 11}})
	}))
	activateSession(t, sessions, "tok", models.RoleCompany)

	_, err := jobs.SetPublished(context.Background(), "post11", true)
	require.NoError(t, err)
	_, err = jobs.SetPublished(context.Background(), "post11", false)
	require.NoError(t, err)

	require.Len(t, payloads, 2)
	assert.NotEmpty(t, payloads[0]["publishedAt"])
	assert.Nil(t, payloads[1]["publishedAt"])
}
