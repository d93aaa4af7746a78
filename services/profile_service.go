package services

import (
	"context"
	"net/url"
	"strconv"

	"jobboard/apperrors"
	"jobboard/cms"
	"jobboard/models"
	"jobboard/utils"
)

// Cached document-identifier keys, one per role
const (
	keyCandidateDocID = "candidateDocumentId"
	keyCompanyDocID   = "companyDocumentId"
)

// ProfileService resolves the session's own profile record through a
// layered fallback chain, caching the resolved document identifier so the
// fast path wins on later calls.
type ProfileService struct {
	cms      *cms.Client
	sessions *SessionStore
	store    models.KeyValueStore
}

func NewProfileService(client *cms.Client, sessions *SessionStore, store models.KeyValueStore) *ProfileService {
	return &ProfileService{cms: client, sessions: sessions, store: store}
}

// GetCandidateProfile returns the session's candidate profile, or nil when
// no profile has been provisioned yet (not an error)
func (s *ProfileService) GetCandidateProfile(ctx context.Context) (*models.CandidateProfile, error) {
	doc, err := s.lookup(ctx, models.RoleCandidate)
	if err != nil || doc == nil {
		return nil, err
	}
	profile := models.CandidateFromDocument(*doc)
	return &profile, nil
}

// GetCompanyProfile returns the session's company profile, or nil when no
// profile has been provisioned yet
func (s *ProfileService) GetCompanyProfile(ctx context.Context) (*models.CompanyProfile, error) {
	doc, err := s.lookup(ctx, models.RoleCompany)
	if err != nil || doc == nil {
		return nil, err
	}
	profile := models.CompanyFromDocument(*doc)
	return &profile, nil
}

// UpdateCandidateProfile sends a partial update. Callers must re-fetch the
// profile afterwards instead of trusting the response shape.
func (s *ProfileService) UpdateCandidateProfile(ctx context.Context, id string, patch map[string]any) error {
	return s.update(ctx, cms.Candidates, id, patch)
}

// UpdateCompanyProfile sends a partial update for the company profile
func (s *ProfileService) UpdateCompanyProfile(ctx context.Context, id string, patch map[string]any) error {
	return s.update(ctx, cms.Companies, id, patch)
}

func (s *ProfileService) update(ctx context.Context, collection, id string, patch map[string]any) error {
	token := s.sessions.Token()
	if token == "" {
		return apperrors.New(apperrors.KindMissingPrecondition, "Sign in to update your profile")
	}
	if _, err := s.cms.Update(ctx, token, collection, id, patch); err != nil {
		return err
	}
	return nil
}

// lookup walks the ordered strategies until one resolves:
//  1. previously cached document identifier (fastest, may be stale)
//  2. the profile id captured at login
//  3. filter by the linked account id
//  4. filter by the account's email
//  5. exhaustive collection scan with client-side matching (last resort,
//     linear in total profile count)
//
// Every hit refreshes the cached document identifier. A session-expired
// response short-circuits the chain; all other misses fall through.
func (s *ProfileService) lookup(ctx context.Context, role models.Role) (*cms.Document, error) {
	session := s.sessions.Current()
	if session == nil {
		return nil, apperrors.New(apperrors.KindMissingPrecondition, "Sign in to load your profile")
	}
	token := session.Token

	collection, emailField, cacheKey := cms.Candidates, "emailCandidato", keyCandidateDocID
	if role == models.RoleCompany {
		collection, emailField, cacheKey = cms.Companies, "emailAzienda", keyCompanyDocID
	}

	// 1. cached document identifier
	if id, ok, _ := s.store.Get(cacheKey); ok && id != "" {
		doc, err := s.cms.Get(ctx, token, collection, id, cms.Populate(url.Values{}))
		if err == nil {
			return doc, nil
		}
		if apperrors.IsKind(err, apperrors.KindSessionExpired) {
			return nil, err
		}
		utils.LogDebug("cached document id lookup missed", map[string]any{"id": id})
	}

	// 2. profile id captured at login
	if session.ProfileID != "" {
		doc, err := s.cms.Get(ctx, token, collection, session.ProfileID, cms.Populate(url.Values{}))
		if err == nil {
			s.rememberDocID(cacheKey, doc)
			return doc, nil
		}
		if apperrors.IsKind(err, apperrors.KindSessionExpired) {
			return nil, err
		}
	}

	// 3. filter by linked account id
	if session.User.ID != 0 {
		query := cms.Populate(cms.FilterEq(url.Values{}, strconv.Itoa(session.User.ID), "user", "id"))
		docs, err := s.cms.List(ctx, token, collection, query)
		if err == nil && len(docs) > 0 {
			s.rememberDocID(cacheKey, &docs[0])
			return &docs[0], nil
		}
		if apperrors.IsKind(err, apperrors.KindSessionExpired) {
			return nil, err
		}
	}

	// 4. filter by email
	if session.User.Email != "" {
		query := cms.Populate(cms.FilterEq(url.Values{}, session.User.Email, emailField))
		docs, err := s.cms.List(ctx, token, collection, query)
		if err == nil && len(docs) > 0 {
			s.rememberDocID(cacheKey, &docs[0])
			return &docs[0], nil
		}
		if apperrors.IsKind(err, apperrors.KindSessionExpired) {
			return nil, err
		}
	}

	// 5. exhaustive scan with client-side matching
	docs, err := s.cms.List(ctx, token, collection, cms.Populate(url.Values{}))
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindSessionExpired) {
			return nil, err
		}
		utils.LogWarn("profile collection scan failed", map[string]any{"error": err.Error()})
		return nil, nil
	}
	for i := range docs {
		doc := docs[i]
		user := doc.Relation("user")
		if (user != nil && user.ID == session.User.ID) || doc.String(emailField) == session.User.Email {
			s.rememberDocID(cacheKey, &doc)
			return &doc, nil
		}
	}

	utils.LogWarn("no profile found with any strategy", map[string]any{
		"userId": session.User.ID, "email": session.User.Email, "profileId": session.ProfileID,
	})
	return nil, nil
}

func (s *ProfileService) rememberDocID(key string, doc *cms.Document) {
	if err := s.store.Set(key, doc.Key()); err != nil {
		utils.LogWarn("document id could not be cached", map[string]any{"error": err.Error()})
	}
}
