package cms

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_FlatShape(t *testing.T) {
	raw := `{"id": 7, "documentId": "abc123", "titoloOffertaLavorativa": "Backend Engineer"}`

	var d Document
	require.NoError(t, json.Unmarshal([]byte(raw), &d))

	assert.Equal(t, 7, d.ID)
	assert.Equal(t, "abc123", d.DocumentID)
	assert.Equal(t, "Backend Engineer", d.String("titoloOffertaLavorativa"))
}

func TestDocument_AttributesShape(t *testing.T) {
	raw := `{"id": 7, "attributes": {"documentId": "abc123", "nomeCandidato": "Mario"}}`

	var d Document
	require.NoError(t, json.Unmarshal([]byte(raw), &d))

	assert.Equal(t, 7, d.ID)
	assert.Equal(t, "abc123", d.DocumentID)
	assert.Equal(t, "Mario", d.String("nomeCandidato"))
}

func TestDocument_DataAttributesShape(t *testing.T) {
	raw := `{"data": {"id": 7, "attributes": {"nomeCandidato": "Mario"}}}`

	var d Document
	require.NoError(t, json.Unmarshal([]byte(raw), &d))

	assert.Equal(t, 7, d.ID)
	assert.Equal(t, "Mario", d.String("nomeCandidato"))
}

func TestDocument_DataAttributeIsNotUnwrappedOnEntities(t *testing.T) {
	// A record that itself has an attribute named "data" must not be unwrapped
	raw := `{"id": 3, "data": {"nested": true}, "name": "keep me"}`

	var d Document
	require.NoError(t, json.Unmarshal([]byte(raw), &d))

	assert.Equal(t, 3, d.ID)
	assert.Equal(t, "keep me", d.String("name"))
}

func TestDocument_Key(t *testing.T) {
	assert.Equal(t, "abc", Document{ID: 9, DocumentID: "abc"}.Key())
	assert.Equal(t, "9", Document{ID: 9}.Key())
}

func TestDocument_Time(t *testing.T) {
	d := Document{Attrs: map[string]any{
		"full":  "2026-03-01T10:30:00.000Z",
		"plain": "2026-03-01T10:30:00Z",
		"date":  "2026-03-01",
		"junk":  "not a date",
	}}

	for _, key := range []string{"full", "plain", "date"} {
		parsed := d.Time(key)
		require.NotNil(t, parsed, key)
		assert.Equal(t, 2026, parsed.Year())
		assert.Equal(t, time.March, parsed.Month())
	}
	assert.Nil(t, d.Time("junk"))
	assert.Nil(t, d.Time("missing"))
}

func TestDocument_Relation(t *testing.T) {
	d := Document{Attrs: map[string]any{
		"flat":    map[string]any{"id": float64(4), "emailCandidato": "a@b.it"},
		"wrapped": map[string]any{"data": map[string]any{"id": float64(5), "emailCandidato": "c@d.it"}},
		"empty":   map[string]any{"data": nil},
	}}

	flat := d.Relation("flat")
	require.NotNil(t, flat)
	assert.Equal(t, 4, flat.ID)
	assert.Equal(t, "a@b.it", flat.String("emailCandidato"))

	wrapped := d.Relation("wrapped")
	require.NotNil(t, wrapped)
	assert.Equal(t, 5, wrapped.ID)
	assert.Equal(t, "c@d.it", wrapped.String("emailCandidato"))

	assert.Nil(t, d.Relation("empty"))
	assert.Nil(t, d.Relation("missing"))
}

func TestDocument_Relations(t *testing.T) {
	d := Document{Attrs: map[string]any{
		"flat": []any{
			map[string]any{"id": float64(1)},
			map[string]any{"id": float64(2)},
		},
		"wrapped": map[string]any{"data": []any{
			map[string]any{"id": float64(3)},
		}},
	}}

	flat := d.Relations("flat")
	require.Len(t, flat, 2)
	assert.Equal(t, 1, flat[0].ID)
	assert.Equal(t, 2, flat[1].ID)

	wrapped := d.Relations("wrapped")
	require.Len(t, wrapped, 1)
	assert.Equal(t, 3, wrapped[0].ID)

	assert.Empty(t, d.Relations("missing"))
}

func TestDocument_Int(t *testing.T) {
	d := Document{Attrs: map[string]any{"n": float64(12), "s": "12"}}
	assert.Equal(t, 12, d.Int("n"))
	assert.Equal(t, 0, d.Int("s"))
	assert.Equal(t, 0, d.Int("missing"))
}
