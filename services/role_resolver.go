package services

import (
	"context"
	"net/url"

	"jobboard/apperrors"
	"jobboard/cms"
	"jobboard/models"
	"jobboard/utils"
)

// RoleResolver determines which profile type owns an email address by
// probing the two profile collections with a fresh token.
type RoleResolver struct {
	cms *cms.Client
}

func NewRoleResolver(client *cms.Client) *RoleResolver {
	return &RoleResolver{cms: client}
}

// Resolve checks the candidate collection first, then the company
// collection. The ordering is fixed: if an email were ever registered under
// both roles the candidate profile silently wins. A miss in both yields a
// not-found error, not a session.
func (r *RoleResolver) Resolve(ctx context.Context, email, token string) (models.Role, *cms.Document, error) {
	candidates, candErr := r.cms.List(ctx, token, cms.Candidates,
		cms.FilterEq(url.Values{}, email, "emailCandidato"))
	if candErr != nil {
		utils.LogWarn("candidate profile lookup failed", map[string]any{"error": candErr.Error()})
	} else if len(candidates) > 0 {
		return models.RoleCandidate, &candidates[0], nil
	}

	companies, compErr := r.cms.List(ctx, token, cms.Companies,
		cms.FilterEq(url.Values{}, email, "emailAzienda"))
	if compErr != nil {
		utils.LogWarn("company profile lookup failed", map[string]any{"error": compErr.Error()})
	} else if len(companies) > 0 {
		return models.RoleCompany, &companies[0], nil
	}

	if candErr != nil && compErr != nil {
		return "", nil, compErr
	}
	return "", nil, apperrors.New(apperrors.KindNotFound, "No profile is associated with this account")
}
