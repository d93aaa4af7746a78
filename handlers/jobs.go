package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard/models"
	"jobboard/services"
	"jobboard/utils"
)

// ListPostings serves the public posting list with companies inlined
func ListPostings(jobs *services.JobService) gin.HandlerFunc {
	return func(c *gin.Context) {
		postings, err := jobs.ListOpenPostings(c.Request.Context())
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.SuccessResponse(c, http.StatusOK, "Postings loaded", postings)
	}
}

// ListMyPostings serves the signed-in company's own postings
func ListMyPostings(jobs *services.JobService, profiles *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := companyProfile(c, profiles)
		if !ok {
			return
		}
		postings, err := jobs.ListCompanyPostings(c.Request.Context(), profile.ID)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.SuccessResponse(c, http.StatusOK, "Postings loaded", postings)
	}
}

// CreatePosting validates the draft and creates it under the company profile
func CreatePosting(jobs *services.JobService, profiles *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := companyProfile(c, profiles)
		if !ok {
			return
		}

		var draft models.PostingDraft
		if err := c.ShouldBindJSON(&draft); err != nil {
			utils.BadRequestError(c, "Invalid request data: "+err.Error(), nil)
			return
		}

		posting, err := jobs.Create(c.Request.Context(), draft, profile.ID)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.SuccessResponse(c, http.StatusCreated, "Posting created", posting)
	}
}

// UpdatePosting re-validates and updates an existing posting
func UpdatePosting(jobs *services.JobService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var draft models.PostingDraft
		if err := c.ShouldBindJSON(&draft); err != nil {
			utils.BadRequestError(c, "Invalid request data: "+err.Error(), nil)
			return
		}

		posting, err := jobs.Update(c.Request.Context(), c.Param("id"), draft)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.SuccessResponse(c, http.StatusOK, "Posting updated", posting)
	}
}

// DeletePosting removes a posting permanently
func DeletePosting(jobs *services.JobService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := jobs.Delete(c.Request.Context(), c.Param("id")); err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.SuccessResponse(c, http.StatusOK, "Posting deleted", nil)
	}
}

type publishRequest struct {
	Published *bool `json:"published" binding:"required"`
}

// PublishPosting sets or clears the publish marker
func PublishPosting(jobs *services.JobService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req publishRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestError(c, "Invalid request data: "+err.Error(), nil)
			return
		}

		posting, err := jobs.SetPublished(c.Request.Context(), c.Param("id"), *req.Published)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.SuccessResponse(c, http.StatusOK, "Posting updated", posting)
	}
}

// companyProfile resolves the signed-in company profile, writing the error
// response itself when it cannot
func companyProfile(c *gin.Context, profiles *services.ProfileService) (*models.CompanyProfile, bool) {
	profile, err := profiles.GetCompanyProfile(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return nil, false
	}
	if profile == nil {
		utils.NotFoundError(c, "No company profile is associated with this account")
		return nil, false
	}
	return profile, true
}
