package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/cms"
)

func completeDraft() PostingDraft {
	return PostingDraft{
		Title:           "Backend Engineer",
		Description:     "Build things",
		ContractType:    string(ContractPermanent),
		ExperienceLevel: string(ExperienceSenior),
		RequiredSkills:  "Go, SQL",
	}
}

func TestPostingDraft_Valid(t *testing.T) {
	v := completeDraft().Validate(time.Now())
	assert.True(t, v.Valid)
	assert.Empty(t, v.MissingFields)
}

func TestPostingDraft_MissingFieldsAreNamed(t *testing.T) {
	draft := completeDraft()
	draft.ContractType = "   "
	draft.RequiredSkills = ""

	v := draft.Validate(time.Now())
	assert.False(t, v.Valid)
	assert.Equal(t, []string{"contractType", "requiredSkills"}, v.MissingFields)
}

func TestPostingDraft_ExpiryMustBeFuture(t *testing.T) {
	now := time.Now()

	past := now.Add(-time.Hour)
	draft := completeDraft()
	draft.ExpiresAt = &past
	v := draft.Validate(now)
	assert.False(t, v.Valid)
	assert.Contains(t, v.MissingFields, "expiresAt_invalid")

	// Exactly now is not strictly in the future
	exact := now
	draft.ExpiresAt = &exact
	v = draft.Validate(now)
	assert.False(t, v.Valid)

	future := now.Add(time.Hour)
	draft.ExpiresAt = &future
	v = draft.Validate(now)
	assert.True(t, v.Valid)
}

func TestJobPosting_ExpiryIsDerived(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	assert.True(t, JobPosting{ExpiresAt: &past}.IsExpired(now))
	assert.False(t, JobPosting{ExpiresAt: &future}.IsExpired(now))
	assert.False(t, JobPosting{}.IsExpired(now))
}

func TestPostingFromDocument(t *testing.T) {
	doc := cms.Document{
		ID:         11,
		DocumentID: "post11",
		Attrs: map[string]any{
			"titoloOffertaLavorativa":      "Backend Engineer",
			"descrizioneOffertaLavorativa": "Build things",
			"tipoContratto":                "tempo_indeterminato",
			"livelloEsperienza":            "senior",
			"competenzeRichieste":          "Go",
			"publishedAt":                  "2026-01-15T08:00:00.000Z",
			"dataScadenza":                 "2026-12-31",
			"aziendas": map[string]any{"data": []any{
				map[string]any{"id": float64(3), "attributes": map[string]any{"nomeAzienda": "ACME"}},
			}},
		},
	}

	p := PostingFromDocument(doc)
	assert.Equal(t, 11, p.ID)
	assert.Equal(t, "post11", p.DocumentID)
	assert.Equal(t, "Backend Engineer", p.Title)
	assert.Equal(t, ContractPermanent, p.ContractType)
	assert.Equal(t, ExperienceSenior, p.ExperienceLevel)
	assert.True(t, p.IsPublished())
	require.NotNil(t, p.ExpiresAt)
	require.NotNil(t, p.Company)
	assert.Equal(t, "ACME", p.Company.Name)
	assert.Equal(t, 3, p.Company.ID)
}

func TestComputePostingStats(t *testing.T) {
	now := time.Now()
	published := now.Add(-time.Hour)
	expired := now.Add(-time.Minute)

	postings := []JobPosting{
		{PublishedAt: &published},
		{PublishedAt: &published, ExpiresAt: &expired},
		{},
	}

	stats := ComputePostingStats(postings, now)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Published)
	assert.Equal(t, 1, stats.Draft)
	assert.Equal(t, 1, stats.Expired)
}
