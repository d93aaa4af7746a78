package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard/models"
	"jobboard/services"
	"jobboard/utils"
)

// GetProfile returns the session's own profile for its resolved role. A
// missing profile is not an error: the response carries a null profile so
// the client can render a provisioning prompt.
func GetProfile(profiles *services.ProfileService, sessions *services.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Current()
		if session == nil {
			utils.UnauthorizedError(c, "Sign in to load your profile")
			return
		}

		var profile any
		var err error
		switch session.Role {
		case models.RoleCompany:
			var p *models.CompanyProfile
			p, err = profiles.GetCompanyProfile(c.Request.Context())
			if p != nil {
				profile = p
			}
		default:
			var p *models.CandidateProfile
			p, err = profiles.GetCandidateProfile(c.Request.Context())
			if p != nil {
				profile = p
			}
		}
		if err != nil {
			utils.RespondError(c, err)
			return
		}

		message := "Profile loaded"
		if profile == nil {
			message = "No profile has been provisioned for this account yet"
		}
		utils.SuccessResponse(c, http.StatusOK, message, profile)
	}
}

// UpdateProfile applies a partial update to the session's own profile record
// and re-fetches it, since the update response shape cannot be trusted
func UpdateProfile(profiles *services.ProfileService, sessions *services.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Current()
		if session == nil {
			utils.UnauthorizedError(c, "Sign in to update your profile")
			return
		}

		var patch map[string]any
		if err := c.ShouldBindJSON(&patch); err != nil {
			utils.BadRequestError(c, "Invalid request data: "+err.Error(), nil)
			return
		}
		if len(patch) == 0 {
			utils.BadRequestError(c, "The update contains no fields", nil)
			return
		}

		id := c.Param("id")
		var err error
		if session.Role == models.RoleCompany {
			err = profiles.UpdateCompanyProfile(c.Request.Context(), id, patch)
		} else {
			err = profiles.UpdateCandidateProfile(c.Request.Context(), id, patch)
		}
		if err != nil {
			utils.RespondError(c, err)
			return
		}

		// serve the authoritative state, not the echo of the patch
		GetProfile(profiles, sessions)(c)
	}
}
