package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/camden-git/communitybackend/database"
	"github.com/camden-git/communitybackend/models"
	"gorm.io/gorm"
)

// BusinessFilters are conjunctive constraints applied on top of term matching
type BusinessFilters struct {
	CategoryID    *uint
	SubCategoryID *uint
	VillageID     *uint
}

type BusinessRepository struct {
	DB *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) *BusinessRepository {
	return &BusinessRepository{DB: db}
}

func (r *BusinessRepository) Create(ctx context.Context, business *models.Business) error {
	now := time.Now().Unix()
	if business.CreatedAt == 0 {
		business.CreatedAt = now
	}
	business.UpdatedAt = now
	if err := r.DB.WithContext(ctx).Create(business).Error; err != nil {
		return fmt.Errorf("failed to create business %s: %w", business.Name, err)
	}
	return nil
}

func (r *BusinessRepository) GetByID(ctx context.Context, id uint) (*models.Business, error) {
	var business models.Business
	err := r.DB.WithContext(ctx).First(&business, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get business by ID %d: %w", id, err)
	}
	return &business, nil
}

// IncrementViewCount bumps the view counter in place
func (r *BusinessRepository) IncrementViewCount(ctx context.Context, id uint) error {
	result := r.DB.WithContext(ctx).Model(&models.Business{ID: id}).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if result.Error != nil {
		return fmt.Errorf("failed to increment view count of business ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Search returns one page of non-deleted businesses matching any term in
// title, description or keywords, newest first, plus the total match count.
func (r *BusinessRepository) Search(ctx context.Context, terms []string, filters BusinessFilters, offset, limit int) ([]models.Business, int64, error) {
	predicate, args, err := database.TermMatchPredicate(database.BusinessSearchColumns, terms)
	if err != nil {
		return nil, 0, err
	}

	q := r.DB.WithContext(ctx).Model(&models.Business{}).Where(predicate, args...)
	if filters.CategoryID != nil {
		q = q.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.SubCategoryID != nil {
		q = q.Where("sub_category_id = ?", *filters.SubCategoryID)
	}
	if filters.VillageID != nil {
		q = q.Where("village_id = ?", *filters.VillageID)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count business search results: %w", err)
	}

	var businesses []models.Business
	err = q.Session(&gorm.Session{}).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&businesses).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search businesses: %w", err)
	}
	return businesses, total, nil
}
