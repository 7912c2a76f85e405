package services

import (
	"context"
	"errors"

	"github.com/justsurfingit/carreira-ia/internal/apperrors"
	"github.com/justsurfingit/carreira-ia/internal/jobsearch"
	"github.com/justsurfingit/carreira-ia/internal/logger"
	"github.com/justsurfingit/carreira-ia/internal/models"
)

type JobProvider interface {
	Search(ctx context.Context, q jobsearch.Query) ([]jobsearch.Listing, error)
}

type JobSearchService struct {
	Store    JobSearchStore
	Provider JobProvider
}

func NewJobSearchService(st JobSearchStore, provider JobProvider) *JobSearchService {
	return &JobSearchService{Store: st, Provider: provider}
}

// Search returns persisted listings scored against the user's newest résumé.
func (s *JobSearchService) Search(ctx context.Context, userID uint, q jobsearch.Query) ([]models.JobListing, error) {
	resumes, err := s.Store.ListResumesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(resumes) == 0 {
		return nil, apperrors.ErrNoResumeUploaded
	}
	// newest first
	resumeText := resumes[0].OriginalContent
	if !hasExtractedText(&resumes[0]) {
		resumeText = ""
	}

	listings := s.fetch(ctx, userID, q)

	out := make([]models.JobListing, 0, len(listings))
	for _, l := range listings {
		row := models.JobListing{
			Title:        l.Title,
			Company:      l.Company,
			Description:  l.Description,
			Location:     l.Location,
			Salary:       l.Salary(),
			SourceURL:    l.SourceURL,
			SourceSite:   l.SourceSite,
			Requirements: l.Requirements,
			ExternalID:   l.ExternalID,
			PostedAt:     l.PostedAt,
		}
		if err := s.Store.SaveJobListing(ctx, &row); err != nil {
			return nil, err
		}
		row.MatchScore = jobsearch.Score(resumeText, l)
		out = append(out, row)
	}
	return out, nil
}

func (s *JobSearchService) fetch(ctx context.Context, userID uint, q jobsearch.Query) []jobsearch.Listing {
	if s.Provider != nil {
		listings, err := s.Provider.Search(ctx, q)
		switch {
		case errors.Is(err, jobsearch.ErrProviderDisabled):
		case err != nil:
			logger.LogErrorWithUser(userID, err, "job provider search failed, using fallback catalog")
		case len(listings) > 0:
			return listings
		}
	}
	return jobsearch.Filter(jobsearch.Fallback(), q)
}
