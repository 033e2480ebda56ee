package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/camden-git/communitybackend/database"
	"github.com/camden-git/communitybackend/models"
	"gorm.io/gorm"
)

type SearchRepository struct {
	DB *gorm.DB
}

func NewSearchRepository(db *gorm.DB) *SearchRepository {
	return &SearchRepository{DB: db}
}

// FindActiveIntent matches an active intent keyword case-insensitively
func (r *SearchRepository) FindActiveIntent(ctx context.Context, keyword string) (*models.SearchIntent, error) {
	var intent models.SearchIntent
	err := r.DB.WithContext(ctx).
		Where("unicode_lower(keyword) = unicode_lower(?) AND is_active = ?", keyword, true).
		Order("id ASC").First(&intent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find search intent %s: %w", keyword, err)
	}
	return &intent, nil
}

func (r *SearchRepository) AddHistory(ctx context.Context, entry *models.SearchHistory) error {
	if err := r.DB.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record search history for person ID %d: %w", entry.PersonID, err)
	}
	return nil
}

func villageKey(villageID *uint) uint {
	if villageID == nil {
		return 0
	}
	return *villageID
}

// UpsertInterest increments the (keyword, village) counter atomically
func (r *SearchRepository) UpsertInterest(ctx context.Context, keyword string, villageID *uint, at int64) error {
	sqlStr, args, err := database.UpsertInterestSQL(keyword, villageKey(villageID), villageID, at)
	if err != nil {
		return err
	}
	if err := r.DB.WithContext(ctx).Exec(sqlStr, args...).Error; err != nil {
		return fmt.Errorf("failed to upsert search interest %s: %w", keyword, err)
	}
	return nil
}

// Trending returns the most searched keywords of a village, or globally when villageID is nil
func (r *SearchRepository) Trending(ctx context.Context, villageID *uint, limit int) ([]models.SearchInterest, error) {
	sqlStr, args, err := database.TrendingSQL(villageKey(villageID), limit)
	if err != nil {
		return nil, err
	}
	var interests []models.SearchInterest
	if err := r.DB.WithContext(ctx).Raw(sqlStr, args...).Scan(&interests).Error; err != nil {
		return nil, fmt.Errorf("failed to query trending searches: %w", err)
	}
	return interests, nil
}
