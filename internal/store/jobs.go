package store

import (
	"context"

	"github.com/justsurfingit/carreira-ia/internal/models"
)

// SaveJobListing returns the stored listing with the same identity, creating
// it on first sight. A listing with an external id is keyed on its source
// site and that id; otherwise on source URL, title and company. Existing rows
// are never modified.
func (s *Store) SaveJobListing(ctx context.Context, l *models.JobListing) error {
	q := s.db.WithContext(ctx)
	if l.ExternalID != "" {
		q = q.Where("source_site = ? AND external_id = ?", l.SourceSite, l.ExternalID)
	} else {
		// string conditions keep empty values that a struct condition drops
		q = q.Where("source_url = ? AND title = ? AND company = ?", l.SourceURL, l.Title, l.Company)
	}
	if err := q.Attrs(*l).FirstOrCreate(l).Error; err != nil {
		return writeErr("save job listing", err)
	}
	return nil
}

func (s *Store) GetJobListing(ctx context.Context, id uint) (*models.JobListing, error) {
	var l models.JobListing
	if err := s.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, lookupErr("job listing", err)
	}
	return &l, nil
}
