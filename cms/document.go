package cms

import (
	"encoding/json"
	"strconv"
	"time"
)

// Document is one record from a CMS collection, flattened into a single
// shape. The backend has returned three historical layouts for the same
// entity (flat object, nested "attributes", nested "data.attributes");
// normalization folds all of them into ID/DocumentID/Attrs.
type Document struct {
	ID         int
	DocumentID string
	Attrs      map[string]any
}

func (d *Document) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*d = normalize(raw)
	return nil
}

func normalize(raw map[string]any) Document {
	// Unwrap a {"data": {...}} envelope when the map is not itself an entity
	if inner, ok := raw["data"].(map[string]any); ok {
		if _, hasID := raw["id"]; !hasID {
			raw = inner
		}
	}

	d := Document{Attrs: map[string]any{}}
	if v, ok := raw["id"].(float64); ok {
		d.ID = int(v)
	}
	if v, ok := raw["documentId"].(string); ok {
		d.DocumentID = v
	}

	attrs := raw
	if a, ok := raw["attributes"].(map[string]any); ok {
		attrs = a
	}
	for k, v := range attrs {
		if k == "id" || k == "documentId" || k == "attributes" {
			continue
		}
		d.Attrs[k] = v
	}
	if d.DocumentID == "" {
		if v, ok := attrs["documentId"].(string); ok {
			d.DocumentID = v
		}
	}
	return d
}

// Key returns the identifier to use in by-id endpoint paths: the stable
// document identifier when present, otherwise the numeric id.
func (d Document) Key() string {
	if d.DocumentID != "" {
		return d.DocumentID
	}
	return strconv.Itoa(d.ID)
}

// String returns a string attribute, or "" when absent or not a string
func (d Document) String(key string) string {
	v, _ := d.Attrs[key].(string)
	return v
}

// Int returns a numeric attribute as int, or 0 when absent
func (d Document) Int(key string) int {
	if v, ok := d.Attrs[key].(float64); ok {
		return int(v)
	}
	return 0
}

// Time parses a timestamp or date-only attribute, returning nil when
// absent or unparseable
func (d Document) Time(key string) *time.Time {
	s := d.String(key)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// Relation resolves a to-one relation attribute, tolerating both the flat
// and the {"data": {...}} layouts. Returns nil when the relation is unset.
func (d Document) Relation(key string) *Document {
	m, ok := d.Attrs[key].(map[string]any)
	if !ok {
		return nil
	}
	if data, present := m["data"]; present {
		if _, hasID := m["id"]; !hasID {
			dm, ok := data.(map[string]any)
			if !ok {
				return nil
			}
			nd := normalize(dm)
			return &nd
		}
	}
	nd := normalize(m)
	return &nd
}

// Relations resolves a to-many relation attribute in either layout
func (d Document) Relations(key string) []Document {
	var items []any
	switch v := d.Attrs[key].(type) {
	case []any:
		items = v
	case map[string]any:
		if list, ok := v["data"].([]any); ok {
			items = list
		}
	}
	var docs []Document
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			docs = append(docs, normalize(m))
		}
	}
	return docs
}
