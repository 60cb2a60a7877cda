package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cocoa_backend/internal/common"
	"cocoa_backend/internal/domain/model"
	"cocoa_backend/internal/domain/repository"

	"github.com/google/uuid"
)

const maxCommentLength = 1000

type TestimonialService struct {
	repo repository.TestimonialRepository
	now  func() time.Time
}

func NewTestimonialService(repo repository.TestimonialRepository) *TestimonialService {
	return &TestimonialService{repo: repo, now: time.Now}
}

type CreateTestimonialRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (s *TestimonialService) List(ctx context.Context) ([]model.Testimonial, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list testimonials: %w", err)
	}
	return out, nil
}

// Create appends a testimonial signed with the author's display name.
func (s *TestimonialService) Create(ctx context.Context, author *model.User, req CreateTestimonialRequest) (*model.Testimonial, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, common.NewError(common.ErrValidation, "rating must be between 1 and 5")
	}
	comment := strings.TrimSpace(req.Comment)
	if comment == "" {
		return nil, common.NewError(common.ErrValidation, "comment is required")
	}
	if len(comment) > maxCommentLength {
		return nil, common.NewError(common.ErrValidation, fmt.Sprintf("comment must be at most %d characters", maxCommentLength))
	}

	t := &model.Testimonial{
		ID:        uuid.NewString(),
		Name:      author.Name,
		Rating:    req.Rating,
		Comment:   comment,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create testimonial: %w", err)
	}
	return t, nil
}
