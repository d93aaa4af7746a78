package handlers

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"jobboard/models"
	"jobboard/report"
	"jobboard/services"
	"jobboard/utils"
)

// SubmitApplication accepts a multipart form with a postingId field and a cv
// file, and runs the full submission workflow
func SubmitApplication(apps *services.ApplicationService, profiles *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := candidateProfile(c, profiles)
		if !ok {
			return
		}

		postingID := c.PostForm("postingId")
		header, err := c.FormFile("cv")
		if err != nil {
			utils.BadRequestError(c, "Attach a CV file to apply", nil)
			return
		}

		file, err := header.Open()
		if err != nil {
			utils.BadRequestError(c, "The CV file could not be read", err)
			return
		}
		defer file.Close()
		content, err := io.ReadAll(file)
		if err != nil {
			utils.BadRequestError(c, "The CV file could not be read", err)
			return
		}

		application, err := apps.Submit(c.Request.Context(), services.SubmitInput{
			CandidateID: strconv.Itoa(profile.ID),
			PostingID:   postingID,
			CV: &models.CVFile{
				Name:        header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Size:        header.Size,
				Content:     content,
			},
		})
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.SuccessResponse(c, http.StatusCreated, "Application submitted", application)
	}
}

// OpenPostings serves the postings the candidate can still apply to
func OpenPostings(apps *services.ApplicationService, profiles *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := candidateProfile(c, profiles)
		if !ok {
			return
		}
		postings, err := apps.OpenPostingsFor(c.Request.Context(), strconv.Itoa(profile.ID))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.SuccessResponse(c, http.StatusOK, "Postings loaded", postings)
	}
}

// MyApplications serves the candidate's own applications
func MyApplications(apps *services.ApplicationService, profiles *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := candidateProfile(c, profiles)
		if !ok {
			return
		}
		applications, err := apps.CandidateApplications(c.Request.Context(), strconv.Itoa(profile.ID))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.SuccessResponse(c, http.StatusOK, "Applications loaded", applications)
	}
}

// ReceivedApplications serves every application sent to the company's postings
func ReceivedApplications(apps *services.ApplicationService, profiles *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := companyProfile(c, profiles)
		if !ok {
			return
		}
		applications, err := apps.CompanyApplications(c.Request.Context(), profile.ID)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.SuccessResponse(c, http.StatusOK, "Applications loaded", applications)
	}
}

type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// UpdateApplicationStatus moves an application through the status enum
func UpdateApplicationStatus(apps *services.ApplicationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statusUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestError(c, "Invalid request data: "+err.Error(), nil)
			return
		}

		application, err := apps.UpdateStatus(c.Request.Context(), c.Param("id"),
			models.ApplicationStatus(req.Status), req.Notes)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.SuccessResponse(c, http.StatusOK, "Status updated", application)
	}
}

// ExportApplicationsReport streams the company's received applications as a
// Word document
func ExportApplicationsReport(apps *services.ApplicationService, profiles *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := companyProfile(c, profiles)
		if !ok {
			return
		}
		applications, err := apps.CompanyApplications(c.Request.Context(), profile.ID)
		if err != nil {
			utils.RespondError(c, err)
			return
		}

		filename := "applications-" + time.Now().Format("2006-01-02") + ".docx"
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
		if err := report.WriteApplicationsReport(c.Writer, profile.Name, applications); err != nil {
			utils.LogError("report generation failed", err, nil)
		}
	}
}

// candidateProfile resolves the signed-in candidate profile, writing the
// error response itself when it cannot
func candidateProfile(c *gin.Context, profiles *services.ProfileService) (*models.CandidateProfile, bool) {
	profile, err := profiles.GetCandidateProfile(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return nil, false
	}
	if profile == nil {
		utils.NotFoundError(c, "No candidate profile is associated with this account")
		return nil, false
	}
	return profile, true
}
