package services

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"jobboard/apperrors"
	"jobboard/cms"
	"jobboard/models"
	"jobboard/utils"
)

// JobService covers the posting lifecycle: public listing, company-side
// CRUD with local validation, and the publish toggle. Postings are
// published automatically at creation; "expired" is always derived from the
// expiry date, never stored.
type JobService struct {
	cms      *cms.Client
	sessions *SessionStore
}

func NewJobService(client *cms.Client, sessions *SessionStore) *JobService {
	return &JobService{cms: client, sessions: sessions}
}

// ListOpenPostings fetches every posting with its company inlined; this is
// the one unauthenticated read in the system.
func (s *JobService) ListOpenPostings(ctx context.Context) ([]models.JobPosting, error) {
	docs, err := s.cms.List(ctx, "", cms.JobPostings, cms.Populate(url.Values{}))
	if err != nil {
		return nil, err
	}
	return postingsFromDocuments(docs), nil
}

// ListCompanyPostings fetches the postings owned by one company
func (s *JobService) ListCompanyPostings(ctx context.Context, companyID int) ([]models.JobPosting, error) {
	query := cms.Populate(cms.FilterEq(url.Values{}, strconv.Itoa(companyID), "aziendas", "id"))
	docs, err := s.cms.List(ctx, s.sessions.Token(), cms.JobPostings, query)
	if err != nil {
		return nil, err
	}
	return postingsFromDocuments(docs), nil
}

// Create validates the draft locally and rejects without any network call
// when incomplete. New postings carry the publish marker immediately.
func (s *JobService) Create(ctx context.Context, draft models.PostingDraft, companyID int) (*models.JobPosting, error) {
	if v := draft.Validate(time.Now()); !v.Valid {
		return nil, validationError(v)
	}

	payload := draftPayload(draft)
	payload["dataPubblicazione"] = time.Now().Format(time.RFC3339)
	payload["aziendas"] = []int{companyID}

	doc, err := s.cms.Create(ctx, s.sessions.Token(), cms.JobPostings, payload)
	if err != nil {
		return nil, err
	}
	posting := models.PostingFromDocument(*doc)
	utils.LogInfo("posting created", map[string]any{"id": posting.ID, "title": posting.Title})
	return &posting, nil
}

// Update re-validates before sending, like Create
func (s *JobService) Update(ctx context.Context, id string, draft models.PostingDraft) (*models.JobPosting, error) {
	if v := draft.Validate(time.Now()); !v.Valid {
		return nil, validationError(v)
	}
	doc, err := s.cms.Update(ctx, s.sessions.Token(), cms.JobPostings, id, draftPayload(draft))
	if err != nil {
		return nil, err
	}
	posting := models.PostingFromDocument(*doc)
	return &posting, nil
}

// Delete removes a posting permanently; there is no undo
func (s *JobService) Delete(ctx context.Context, id string) error {
	return s.cms.Delete(ctx, s.sessions.Token(), cms.JobPostings, id)
}

// SetPublished sets or clears the publish marker
func (s *JobService) SetPublished(ctx context.Context, id string, publish bool) (*models.JobPosting, error) {
	var marker any
	if publish {
		marker = time.Now().Format(time.RFC3339)
	}
	doc, err := s.cms.Update(ctx, s.sessions.Token(), cms.JobPostings, id, map[string]any{"publishedAt": marker})
	if err != nil {
		return nil, err
	}
	posting := models.PostingFromDocument(*doc)
	return &posting, nil
}

func validationError(v models.PostingValidation) error {
	return apperrors.New(apperrors.KindValidation,
		"The posting is incomplete or invalid: "+strings.Join(v.MissingFields, ", "))
}

func draftPayload(d models.PostingDraft) map[string]any {
	payload := map[string]any{
		"titoloOffertaLavorativa":      d.Title,
		"descrizioneOffertaLavorativa": d.Description,
		"tipoContratto":                d.ContractType,
		"livelloEsperienza":            d.ExperienceLevel,
		"competenzeRichieste":          d.RequiredSkills,
	}
	if d.ExpiresAt != nil {
		payload["dataScadenza"] = d.ExpiresAt.Format(time.RFC3339)
	}
	return payload
}

func postingsFromDocuments(docs []cms.Document) []models.JobPosting {
	postings := make([]models.JobPosting, 0, len(docs))
	for _, d := range docs {
		postings = append(postings, models.PostingFromDocument(d))
	}
	return postings
}
