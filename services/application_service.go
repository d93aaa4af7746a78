package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"jobboard/apperrors"
	"jobboard/cms"
	"jobboard/models"
	"jobboard/utils"
)

// ApplicationService orchestrates the submission workflow and company-side
// status updates. The accepted request shape for creating an application is
// not statically known (the CMS schema has drifted), so creation walks an
// ordered list of body shapes until one is accepted.
type ApplicationService struct {
	cms            *cms.Client
	sessions       *SessionStore
	jobs           *JobService
	store          models.KeyValueStore
	reconcileDelay time.Duration

	mu      sync.Mutex
	applied map[string]map[string]bool
}

func NewApplicationService(client *cms.Client, sessions *SessionStore, jobs *JobService, store models.KeyValueStore, reconcileDelay time.Duration) *ApplicationService {
	return &ApplicationService{
		cms:            client,
		sessions:       sessions,
		jobs:           jobs,
		store:          store,
		reconcileDelay: reconcileDelay,
		applied:        make(map[string]map[string]bool),
	}
}

// SubmitInput identifies the candidate, the posting and the CV to attach
type SubmitInput struct {
	CandidateID string
	PostingID   string
	CV          *models.CVFile
}

// Submit runs the full submission sequence: precondition checks, local CV
// validation, existence probes, upload, then the ordered shape attempts.
// Nothing is uploaded or created unless every earlier step succeeded, and
// an application is never created without a CV reference available.
func (s *ApplicationService) Submit(ctx context.Context, input SubmitInput) (*models.Application, error) {
	token := s.sessions.Token()
	if token == "" {
		return nil, apperrors.New(apperrors.KindMissingPrecondition, "Sign in before applying")
	}
	if input.PostingID == "" {
		return nil, apperrors.New(apperrors.KindMissingPrecondition, "Select a job posting before applying")
	}
	if input.CandidateID == "" {
		return nil, apperrors.New(apperrors.KindMissingPrecondition, "Your candidate profile could not be resolved")
	}
	if input.CV == nil {
		return nil, apperrors.New(apperrors.KindMissingPrecondition, "Attach a CV file to apply")
	}

	if err := input.CV.Validate(); err != nil {
		return nil, err
	}

	// existence probes guard against stale UI referencing deleted records
	if _, err := s.cms.Get(ctx, token, cms.Candidates, input.CandidateID, nil); err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "Your candidate profile no longer exists")
		}
		return nil, err
	}
	if _, err := s.cms.Get(ctx, token, cms.JobPostings, input.PostingID, nil); err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "The job posting no longer exists")
		}
		return nil, err
	}

	uploaded, err := s.cms.Upload(ctx, token, input.CV.Name, input.CV.ContentType, input.CV.Content)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for _, shape := range submissionShapes(input, uploaded.ID) {
		doc, err := s.cms.Create(ctx, token, cms.Applications, shape.data)
		if err == nil {
			application := models.ApplicationFromDocument(*doc)
			s.markApplied(input.CandidateID, input.PostingID)
			s.scheduleReconcile(input.CandidateID)
			utils.LogInfo("application submitted", map[string]any{"shape": shape.name, "posting": input.PostingID})
			return &application, nil
		}
		kind := apperrors.KindOf(err)
		if kind == apperrors.KindSessionExpired || kind == apperrors.KindPermission {
			return nil, err
		}
		utils.LogWarn("submission shape rejected", map[string]any{"shape": shape.name, "error": err.Error()})
		lastErr = err
	}

	// every shape rejected: a backend schema mismatch, not bad user input
	return nil, apperrors.Wrap(apperrors.KindSchemaMismatch,
		"The application could not be recorded because of a backend configuration mismatch", lastErr)
}

type submissionShape struct {
	name string
	data map[string]any
}

// submissionShapes lists the request bodies to attempt, in order: plain
// foreign keys, foreign keys plus CV reference, array-wrapped foreign keys,
// explicit relation-connect wrapper. The first 2xx wins.
func submissionShapes(input SubmitInput, fileID int) []submissionShape {
	candidate := relationValue(input.CandidateID)
	posting := relationValue(input.PostingID)
	return []submissionShape{
		{"plain", map[string]any{
			"candidato":          candidate,
			"offerta_lavorativa": posting,
			"statoCandidatura":   string(models.StatusReceived),
		}},
		{"with file", map[string]any{
			"candidato":          candidate,
			"offerta_lavorativa": posting,
			"statoCandidatura":   string(models.StatusReceived),
			"curriculum":         fileID,
		}},
		{"array relations", map[string]any{
			"candidato":          []any{candidate},
			"offerta_lavorativa": []any{posting},
			"statoCandidatura":   string(models.StatusReceived),
		}},
		{"connect", map[string]any{
			"candidato":          map[string]any{"connect": []any{candidate}},
			"offerta_lavorativa": map[string]any{"connect": []any{posting}},
			"statoCandidatura":   string(models.StatusReceived),
		}},
	}
}

// relationValue keeps numeric identifiers numeric on the wire
func relationValue(id string) any {
	if n, err := strconv.Atoi(id); err == nil {
		return n
	}
	return id
}

// CandidateApplications lists a candidate's applications, falling back to
// the persisted snapshot when the backend is unreachable. The snapshot is
// advisory: refreshed on every successful fetch, never authoritative.
func (s *ApplicationService) CandidateApplications(ctx context.Context, candidateID string) ([]models.Application, error) {
	applications, err := s.fetchApplications(ctx, candidateSnapshotKey(candidateID),
		cms.FilterEq(url.Values{}, candidateID, "candidato", "id"))
	if err != nil {
		if cached, ok := s.snapshot(candidateSnapshotKey(candidateID)); ok {
			utils.LogWarn("serving cached applications after fetch failure", map[string]any{"error": err.Error()})
			return cached, nil
		}
		return nil, err
	}
	return applications, nil
}

// CompanyApplications lists every application received for one company's
// postings, enriched with candidate and posting relations.
func (s *ApplicationService) CompanyApplications(ctx context.Context, companyID int) ([]models.Application, error) {
	applications, err := s.fetchApplications(ctx, companySnapshotKey(companyID),
		cms.FilterEq(url.Values{}, strconv.Itoa(companyID), "offerta_lavorativa", "aziendas", "id"))
	if err != nil {
		if cached, ok := s.snapshot(companySnapshotKey(companyID)); ok {
			utils.LogWarn("serving cached applications after fetch failure", map[string]any{"error": err.Error()})
			return cached, nil
		}
		return nil, err
	}
	return applications, nil
}

// OpenPostingsFor computes the postings a candidate can still apply to:
// the open listing minus everything already applied for, where the applied
// set is the union of local submission marks and the fetched applications.
// The local marks make a successful submission disappear from the view
// immediately, before the reconciling re-fetch lands.
func (s *ApplicationService) OpenPostingsFor(ctx context.Context, candidateID string) ([]models.JobPosting, error) {
	postings, err := s.jobs.ListOpenPostings(ctx)
	if err != nil {
		return nil, err
	}

	appliedKeys := s.appliedSet(candidateID)
	if applications, err := s.CandidateApplications(ctx, candidateID); err == nil {
		for _, a := range applications {
			if a.Posting != nil {
				appliedKeys[strconv.Itoa(a.Posting.ID)] = true
				if a.Posting.DocumentID != "" {
					appliedKeys[a.Posting.DocumentID] = true
				}
			}
		}
	} else {
		utils.LogWarn("applied set may be incomplete", map[string]any{"error": err.Error()})
	}

	open := make([]models.JobPosting, 0, len(postings))
	for _, p := range postings {
		if appliedKeys[strconv.Itoa(p.ID)] || (p.DocumentID != "" && appliedKeys[p.DocumentID]) {
			continue
		}
		open = append(open, p)
	}
	return open, nil
}

// UpdateStatus moves an application through the fixed status enum. The
// status is validated locally (no network call on failure), existence is
// re-checked, and a client-side rejection with notes present is retried
// once without them, since some deployments lack the notes field.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus, notes string) (*models.Application, error) {
	if !status.IsValid() {
		return nil, apperrors.New(apperrors.KindValidation,
			fmt.Sprintf("%q is not a valid application status", status))
	}

	token := s.sessions.Token()
	if _, err := s.cms.Get(ctx, token, cms.Applications, id, nil); err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "The application no longer exists")
		}
		return nil, err
	}

	data := map[string]any{"statoCandidatura": string(status)}
	trimmed := strings.TrimSpace(notes)
	if trimmed != "" {
		data["note"] = trimmed
	}

	doc, err := s.cms.Update(ctx, token, cms.Applications, id, data)
	if err != nil && trimmed != "" && apperrors.IsKind(err, apperrors.KindValidation) {
		utils.LogWarn("status update rejected, retrying without notes", map[string]any{"id": id})
		doc, err = s.cms.Update(ctx, token, cms.Applications, id, map[string]any{"statoCandidatura": string(status)})
	}
	if err != nil {
		return nil, err
	}

	application := models.ApplicationFromDocument(*doc)
	return &application, nil
}

func (s *ApplicationService) fetchApplications(ctx context.Context, snapshotKey string, query url.Values) ([]models.Application, error) {
	docs, err := s.cms.List(ctx, s.sessions.Token(), cms.Applications, cms.Populate(query))
	if err != nil {
		return nil, err
	}
	applications := make([]models.Application, 0, len(docs))
	for _, d := range docs {
		applications = append(applications, models.ApplicationFromDocument(d))
	}
	s.storeSnapshot(snapshotKey, applications)
	return applications, nil
}

func (s *ApplicationService) storeSnapshot(key string, applications []models.Application) {
	encoded, err := json.Marshal(applications)
	if err != nil {
		return
	}
	if err := s.store.Set(key, string(encoded)); err != nil {
		utils.LogWarn("applications snapshot could not be persisted", map[string]any{"error": err.Error()})
	}
}

func (s *ApplicationService) snapshot(key string) ([]models.Application, bool) {
	raw, ok, err := s.store.Get(key)
	if err != nil || !ok {
		return nil, false
	}
	var applications []models.Application
	if err := json.Unmarshal([]byte(raw), &applications); err != nil {
		return nil, false
	}
	return applications, true
}

func (s *ApplicationService) markApplied(candidateID, postingID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.applied[candidateID] == nil {
		s.applied[candidateID] = make(map[string]bool)
	}
	s.applied[candidateID][postingID] = true
}

func (s *ApplicationService) appliedSet(candidateID string) map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make(map[string]bool, len(s.applied[candidateID]))
	for k := range s.applied[candidateID] {
		keys[k] = true
	}
	return keys
}

// scheduleReconcile re-fetches the authoritative application list after a
// short delay that tolerates eventual-consistency lag in the backend. The
// result is best-effort current, not transactionally consistent with the
// preceding mutation.
func (s *ApplicationService) scheduleReconcile(candidateID string) {
	go func() {
		time.Sleep(s.reconcileDelay)
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if _, err := s.fetchApplications(ctx, candidateSnapshotKey(candidateID),
			cms.FilterEq(url.Values{}, candidateID, "candidato", "id")); err != nil {
			utils.LogWarn("application reconcile failed", map[string]any{"error": err.Error()})
		}
	}()
}

func candidateSnapshotKey(candidateID string) string {
	return "userApplications_" + candidateID
}

func companySnapshotKey(companyID int) string {
	return "companyApplications_" + strconv.Itoa(companyID)
}
