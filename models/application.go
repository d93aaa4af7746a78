package models

import (
	"time"

	"jobboard/cms"
)

// ApplicationStatus enum as stored by the CMS
type ApplicationStatus string

const (
	StatusReceived  ApplicationStatus = "inviata"
	StatusInReview  ApplicationStatus = "in_revisione"
	StatusInterview ApplicationStatus = "colloquio"
	StatusApproved  ApplicationStatus = "approvata"
	StatusRejected  ApplicationStatus = "scartata"
)

// ValidStatuses lists every accepted application status
func ValidStatuses() []ApplicationStatus {
	return []ApplicationStatus{StatusReceived, StatusInReview, StatusInterview, StatusApproved, StatusRejected}
}

// IsValid reports membership in the fixed status enum
func (s ApplicationStatus) IsValid() bool {
	for _, v := range ValidStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

// IsFinal reports whether the status closes the application
func (s ApplicationStatus) IsFinal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Application links one candidate to one job posting
type Application struct {
	ID         int               `json:"id"`
	DocumentID string            `json:"documentId"`
	Status     ApplicationStatus `json:"status"`
	Notes      string            `json:"notes,omitempty"`
	CreatedAt  *time.Time        `json:"createdAt"`
	Candidate  *CandidateProfile `json:"candidate,omitempty"`
	Posting    *JobPosting       `json:"posting,omitempty"`
	CVURL      string            `json:"cvUrl,omitempty"`
}

// CandidateName extracts the applicant's display name, tolerating missing relations
func (a Application) CandidateName() string {
	if a.Candidate == nil {
		return ""
	}
	return a.Candidate.FullName()
}

// JobTitle extracts the posting title, tolerating missing relations
func (a Application) JobTitle() string {
	if a.Posting == nil {
		return ""
	}
	return a.Posting.Title
}

// ApplicationFromDocument maps the CMS wire fields onto an Application
func ApplicationFromDocument(d cms.Document) Application {
	a := Application{
		ID:         d.ID,
		DocumentID: d.DocumentID,
		Status:     ApplicationStatus(d.String("statoCandidatura")),
		Notes:      d.String("note"),
		CreatedAt:  d.Time("createdAt"),
	}
	if candidate := d.Relation("candidato"); candidate != nil {
		c := CandidateFromDocument(*candidate)
		a.Candidate = &c
	}
	if posting := d.Relation("offerta_lavorativa"); posting != nil {
		p := PostingFromDocument(*posting)
		a.Posting = &p
	}
	if cv := d.Relation("curriculum"); cv != nil {
		a.CVURL = cv.String("url")
	}
	return a
}

// ApplicationStats counts applications per status for the company dashboard
type ApplicationStats struct {
	Total     int `json:"total"`
	Received  int `json:"received"`
	InReview  int `json:"inReview"`
	Interview int `json:"interview"`
	Approved  int `json:"approved"`
	Rejected  int `json:"rejected"`
}

func ComputeApplicationStats(applications []Application) ApplicationStats {
	stats := ApplicationStats{Total: len(applications)}
	for _, a := range applications {
		switch a.Status {
		case StatusInReview:
			stats.InReview++
		case StatusInterview:
			stats.Interview++
		case StatusApproved:
			stats.Approved++
		case StatusRejected:
			stats.Rejected++
		default:
			stats.Received++
		}
	}
	return stats
}
