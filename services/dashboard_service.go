package services

import (
	"context"
	"strconv"
	"sync"
	"time"

	"jobboard/apperrors"
	"jobboard/models"
)

// DashboardService hydrates the role dashboards. Once the profile is
// resolved the remaining loads run concurrently, and a failure in one
// section never blocks the others; per-section failures are reported by
// name so the caller can render what it has.
type DashboardService struct {
	profiles *ProfileService
	jobs     *JobService
	apps     *ApplicationService
}

func NewDashboardService(profiles *ProfileService, jobs *JobService, apps *ApplicationService) *DashboardService {
	return &DashboardService{profiles: profiles, jobs: jobs, apps: apps}
}

// CandidateDashboard aggregates everything the candidate screens need
type CandidateDashboard struct {
	Profile      *models.CandidateProfile `json:"profile"`
	OpenPostings []models.JobPosting      `json:"openPostings"`
	Applications []models.Application     `json:"applications"`
	Errors       map[string]string        `json:"errors,omitempty"`
}

// LoadCandidate resolves the profile, then loads open postings and
// applications concurrently
func (s *DashboardService) LoadCandidate(ctx context.Context) (*CandidateDashboard, error) {
	profile, err := s.profiles.GetCandidateProfile(ctx)
	if err != nil {
		return nil, err
	}
	dashboard := &CandidateDashboard{Profile: profile, Errors: map[string]string{}}
	if profile == nil {
		// no profile provisioned yet; nothing else can load
		return dashboard, nil
	}

	candidateID := strconv.Itoa(profile.ID)
	var mu sync.Mutex
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		postings, err := s.apps.OpenPostingsFor(ctx, candidateID)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			dashboard.Errors["openPostings"] = apperrors.MessageOf(err)
			return
		}
		dashboard.OpenPostings = postings
	}()
	go func() {
		defer wg.Done()
		applications, err := s.apps.CandidateApplications(ctx, candidateID)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			dashboard.Errors["applications"] = apperrors.MessageOf(err)
			return
		}
		dashboard.Applications = applications
	}()
	wg.Wait()

	return dashboard, nil
}

// CompanyDashboard aggregates everything the company screens need
type CompanyDashboard struct {
	Profile      *models.CompanyProfile  `json:"profile"`
	Postings     []models.JobPosting     `json:"postings"`
	PostingStats models.PostingStats     `json:"postingStats"`
	Applications []models.Application    `json:"applications"`
	AppStats     models.ApplicationStats `json:"applicationStats"`
	Errors       map[string]string       `json:"errors,omitempty"`
}

// LoadCompany resolves the company profile, then loads postings and
// received applications concurrently
func (s *DashboardService) LoadCompany(ctx context.Context) (*CompanyDashboard, error) {
	profile, err := s.profiles.GetCompanyProfile(ctx)
	if err != nil {
		return nil, err
	}
	dashboard := &CompanyDashboard{Profile: profile, Errors: map[string]string{}}
	if profile == nil {
		return dashboard, nil
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		postings, err := s.jobs.ListCompanyPostings(ctx, profile.ID)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			dashboard.Errors["postings"] = apperrors.MessageOf(err)
			return
		}
		dashboard.Postings = postings
		dashboard.PostingStats = models.ComputePostingStats(postings, time.Now())
	}()
	go func() {
		defer wg.Done()
		applications, err := s.apps.CompanyApplications(ctx, profile.ID)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			dashboard.Errors["applications"] = apperrors.MessageOf(err)
			return
		}
		dashboard.Applications = applications
		dashboard.AppStats = models.ComputeApplicationStats(applications)
	}()
	wg.Wait()

	return dashboard, nil
}
