package models

import (
	"strings"

	"jobboard/cms"
)

// CandidateProfile is the candidate-side profile record owned by the CMS
type CandidateProfile struct {
	ID         int    `json:"id"`
	DocumentID string `json:"documentId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	UserID     int    `json:"userId"`
}

// FullName joins the candidate's name fields for display
func (p CandidateProfile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// CandidateFromDocument maps the CMS wire fields onto a CandidateProfile
func CandidateFromDocument(d cms.Document) CandidateProfile {
	p := CandidateProfile{
		ID:         d.ID,
		DocumentID: d.DocumentID,
		FirstName:  d.String("nomeCandidato"),
		LastName:   d.String("cognomeCandidato"),
		Email:      d.String("emailCandidato"),
	}
	if user := d.Relation("user"); user != nil {
		p.UserID = user.ID
	}
	return p
}

// CompanyProfile is the company-side profile record owned by the CMS
type CompanyProfile struct {
	ID         int    `json:"id"`
	DocumentID string `json:"documentId"`
	Name       string `json:"name"`
	VATNumber  string `json:"vatNumber"`
	Email      string `json:"email"`
	UserID     int    `json:"userId"`
}

// CompanyFromDocument maps the CMS wire fields onto a CompanyProfile
func CompanyFromDocument(d cms.Document) CompanyProfile {
	p := CompanyProfile{
		ID:         d.ID,
		DocumentID: d.DocumentID,
		Name:       d.String("nomeAzienda"),
		VATNumber:  d.String("partitaIva"),
		Email:      d.String("emailAzienda"),
	}
	if user := d.Relation("user"); user != nil {
		p.UserID = user.ID
	}
	return p
}
