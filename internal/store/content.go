package store

import (
	"context"

	"github.com/justsurfingit/carreira-ia/internal/models"
)

func (s *Store) ListVisibleTestimonials(ctx context.Context) ([]models.Testimonial, error) {
	var out []models.Testimonial
	err := s.db.WithContext(ctx).
		Where("is_visible = ?", true).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		if degraded("list testimonials", err) {
			return []models.Testimonial{}, nil
		}
		return nil, listErr("list testimonials", err)
	}
	return out, nil
}

func (s *Store) ListVisibleFaqs(ctx context.Context) ([]models.Faq, error) {
	var out []models.Faq
	err := s.db.WithContext(ctx).
		Where("is_visible = ?", true).
		Order("display_order ASC").
		Find(&out).Error
	if err != nil {
		if degraded("list faqs", err) {
			return []models.Faq{}, nil
		}
		return nil, listErr("list faqs", err)
	}
	return out, nil
}

func (s *Store) EnsureTestimonial(ctx context.Context, t *models.Testimonial) error {
	err := s.db.WithContext(ctx).
		Where(models.Testimonial{AuthorName: t.AuthorName}).
		Attrs(*t).
		FirstOrCreate(t).Error
	if err != nil {
		return writeErr("ensure testimonial", err)
	}
	return nil
}

func (s *Store) EnsureFaq(ctx context.Context, f *models.Faq) error {
	err := s.db.WithContext(ctx).
		Where("question = ?", f.Question).
		Attrs(*f).
		FirstOrCreate(f).Error
	if err != nil {
		return writeErr("ensure faq", err)
	}
	return nil
}
