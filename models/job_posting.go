package models

import (
	"strings"
	"time"

	"jobboard/cms"
)

// ContractType enum as stored by the CMS
type ContractType string

const (
	ContractPermanent ContractType = "tempo_indeterminato"
	ContractFixedTerm ContractType = "tempo_determinato"
	ContractPartTime  ContractType = "part_time"
	ContractFullTime  ContractType = "full_time"
)

// ExperienceLevel enum as stored by the CMS
type ExperienceLevel string

const (
	ExperienceEntry  ExperienceLevel = "entry_level"
	ExperienceJunior ExperienceLevel = "junior"
	ExperienceMiddle ExperienceLevel = "middle"
	ExperienceSenior ExperienceLevel = "senior"
)

// JobPosting is one job offer, owned by exactly one company profile
type JobPosting struct {
	ID              int             `json:"id"`
	DocumentID      string          `json:"documentId"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	ContractType    ContractType    `json:"contractType"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel"`
	RequiredSkills  string          `json:"requiredSkills"`
	PublishedAt     *time.Time      `json:"publishedAt"`
	ExpiresAt       *time.Time      `json:"expiresAt"`
	Company         *CompanyProfile `json:"company,omitempty"`
}

// IsPublished reports whether the posting carries a publish marker
func (p JobPosting) IsPublished() bool {
	return p.PublishedAt != nil
}

// IsExpired is derived, never stored: expiry timestamp strictly before now
func (p JobPosting) IsExpired(now time.Time) bool {
	return p.ExpiresAt != nil && p.ExpiresAt.Before(now)
}

// PostingFromDocument maps the CMS wire fields onto a JobPosting
func PostingFromDocument(d cms.Document) JobPosting {
	p := JobPosting{
		ID:              d.ID,
		DocumentID:      d.DocumentID,
		Title:           d.String("titoloOffertaLavorativa"),
		Description:     d.String("descrizioneOffertaLavorativa"),
		ContractType:    ContractType(d.String("tipoContratto")),
		ExperienceLevel: ExperienceLevel(d.String("livelloEsperienza")),
		RequiredSkills:  d.String("competenzeRichieste"),
		PublishedAt:     d.Time("publishedAt"),
		ExpiresAt:       d.Time("dataScadenza"),
	}
	if companies := d.Relations("aziendas"); len(companies) > 0 {
		company := CompanyFromDocument(companies[0])
		p.Company = &company
	}
	return p
}

// PostingDraft is the company-side form input for creating or editing a posting
type PostingDraft struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	ContractType    string     `json:"contractType"`
	ExperienceLevel string     `json:"experienceLevel"`
	RequiredSkills  string     `json:"requiredSkills"`
	ExpiresAt       *time.Time `json:"expiresAt"`
}

// PostingValidation enumerates what is missing or invalid so the caller can
// surface every offending field, not just a boolean
type PostingValidation struct {
	Valid         bool     `json:"valid"`
	MissingFields []string `json:"missingFields,omitempty"`
}

// Validate checks the five required fields are non-empty after trimming and
// that any expiry date is strictly in the future
func (d PostingDraft) Validate(now time.Time) PostingValidation {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"title", d.Title},
		{"description", d.Description},
		{"contractType", d.ContractType},
		{"experienceLevel", d.ExperienceLevel},
		{"requiredSkills", d.RequiredSkills},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if d.ExpiresAt != nil && !d.ExpiresAt.After(now) {
		missing = append(missing, "expiresAt_invalid")
	}
	return PostingValidation{Valid: len(missing) == 0, MissingFields: missing}
}

// PostingStats summarizes a company's postings for the dashboard
type PostingStats struct {
	Total     int `json:"total"`
	Published int `json:"published"`
	Draft     int `json:"draft"`
	Expired   int `json:"expired"`
}

func ComputePostingStats(postings []JobPosting, now time.Time) PostingStats {
	stats := PostingStats{Total: len(postings)}
	for _, p := range postings {
		if p.IsPublished() {
			stats.Published++
		} else {
			stats.Draft++
		}
		if p.IsExpired(now) {
			stats.Expired++
		}
	}
	return stats
}
