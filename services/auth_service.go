package services

import (
	"context"

	"jobboard/apperrors"
	"jobboard/cms"
	"jobboard/models"
	"jobboard/utils"
)

// AuthService orchestrates login and registration against the CMS:
// authenticate, resolve the owning profile type, then activate the session.
type AuthService struct {
	cms      *cms.Client
	resolver *RoleResolver
	sessions *SessionStore
}

func NewAuthService(client *cms.Client, resolver *RoleResolver, sessions *SessionStore) *AuthService {
	return &AuthService{cms: client, resolver: resolver, sessions: sessions}
}

// LoginResult is what the presentation layer needs after authentication
type LoginResult struct {
	User      models.SessionUser `json:"user"`
	Role      models.Role        `json:"role"`
	ProfileID string             `json:"profileId"`
}

// Login authenticates against the CMS, determines the account's role and
// activates the session. An account without a candidate or company profile
// cannot log in.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	auth, err := s.cms.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	role, profile, err := s.resolver.Resolve(ctx, email, auth.JWT)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return nil, apperrors.New(apperrors.KindAuth, "No profile is associated with this account")
		}
		return nil, err
	}

	user := models.SessionUser{ID: auth.User.ID, Username: auth.User.Username, Email: auth.User.Email}
	if err := s.sessions.Login(user, auth.JWT, role, profile.Key()); err != nil {
		return nil, err
	}

	utils.LogInfo("login completed", map[string]any{"email": email, "role": role, "profileId": profile.Key()})
	return &LoginResult{User: user, Role: role, ProfileID: profile.Key()}, nil
}

// RegisterInput carries the registration form for either role
type RegisterInput struct {
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	Role      models.Role `json:"role"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Company   string      `json:"companyName"`
	VATNumber string      `json:"vatNumber"`
}

// Register creates the CMS account, provisions the role-specific profile
// record linked to it, and activates the session.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*LoginResult, error) {
	if _, ok := models.ParseRole(string(input.Role)); !ok {
		return nil, apperrors.New(apperrors.KindValidation, "Choose whether to register as a candidate or a company")
	}

	auth, err := s.cms.Register(ctx, input.Email, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	collection := cms.Candidates
	data := map[string]any{
		"nomeCandidato":    input.FirstName,
		"cognomeCandidato": input.LastName,
		"emailCandidato":   input.Email,
		"user":             auth.User.ID,
	}
	if input.Role == models.RoleCompany {
		collection = cms.Companies
		data = map[string]any{
			"nomeAzienda":  input.Company,
			"partitaIva":   input.VATNumber,
			"emailAzienda": input.Email,
			"user":         auth.User.ID,
		}
	}

	profile, err := s.cms.Create(ctx, auth.JWT, collection, data)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindAuth, "Your account was created but the profile could not be provisioned", err)
	}

	user := models.SessionUser{ID: auth.User.ID, Username: auth.User.Username, Email: auth.User.Email}
	if err := s.sessions.Login(user, auth.JWT, input.Role, profile.Key()); err != nil {
		return nil, err
	}

	utils.LogInfo("registration completed", map[string]any{"email": input.Email, "role": input.Role})
	return &LoginResult{User: user, Role: input.Role, ProfileID: profile.Key()}, nil
}
