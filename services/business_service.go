package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/camden-git/communitybackend/apperr"
	"github.com/camden-git/communitybackend/models"
	"github.com/camden-git/communitybackend/repository"
)

// BusinessDetail is a business with its completeness score.
type BusinessDetail struct {
	models.Business
	CompletenessScore int `json:"completeness_score"`
}

type BusinessService struct {
	businesses repository.BusinessRepositoryInterface
}

func NewBusinessService(businesses repository.BusinessRepositoryInterface) *BusinessService {
	return &BusinessService{businesses: businesses}
}

// View counts a view of the business and returns it.
func (s *BusinessService) View(ctx context.Context, id uint) (*BusinessDetail, error) {
	if err := s.businesses.IncrementViewCount(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Newf(apperr.KindNotFound, "Business %d not found.", id)
		}
		return nil, apperr.Wrap(err, apperr.KindInternal, "failed to count business view")
	}
	b, err := s.businesses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Newf(apperr.KindNotFound, "Business %d not found.", id)
		}
		return nil, apperr.Wrap(err, apperr.KindInternal, "failed to load business")
	}
	return &BusinessDetail{Business: *b, CompletenessScore: b.CompletenessScore()}, nil
}
