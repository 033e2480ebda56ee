package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/camden-git/communitybackend/models"
	"gorm.io/gorm"
)

// LocationRepository reads the District→Taluka→Village tree. Lookups are
// case-insensitive and only return active, non-deleted rows.
type LocationRepository struct {
	DB *gorm.DB
}

func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{DB: db}
}

func (r *LocationRepository) WithTx(tx *gorm.DB) *LocationRepository {
	return &LocationRepository{DB: tx}
}

func (r *LocationRepository) FindDistrict(ctx context.Context, name string) (*models.District, error) {
	var district models.District
	err := r.DB.WithContext(ctx).
		Where("unicode_lower(name) = unicode_lower(?) AND is_active = ?", name, true).
		Order("id ASC").First(&district).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find district %s: %w", name, err)
	}
	return &district, nil
}

func (r *LocationRepository) FindTaluka(ctx context.Context, districtID uint, name string) (*models.Taluka, error) {
	var taluka models.Taluka
	err := r.DB.WithContext(ctx).
		Where("district_id = ? AND unicode_lower(name) = unicode_lower(?) AND is_active = ?", districtID, name, true).
		Order("id ASC").First(&taluka).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find taluka %s: %w", name, err)
	}
	return &taluka, nil
}

func (r *LocationRepository) FindVillage(ctx context.Context, talukaID uint, name string) (*models.Village, error) {
	var village models.Village
	err := r.DB.WithContext(ctx).
		Where("taluka_id = ? AND unicode_lower(name) = unicode_lower(?) AND is_active = ?", talukaID, name, true).
		Order("id ASC").First(&village).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find village %s: %w", name, err)
	}
	return &village, nil
}

func (r *LocationRepository) UpdateVillageReferralCode(ctx context.Context, villageID uint, code string) error {
	result := r.DB.WithContext(ctx).Model(&models.Village{ID: villageID}).Updates(map[string]interface{}{
		"referral_code": code,
		"updated_at":    time.Now().Unix(),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update referral code of village ID %d: %w", villageID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetOrCreateCountry matches a country case-insensitively, creating it with the given casing when absent
func (r *LocationRepository) GetOrCreateCountry(ctx context.Context, name string) (*models.Country, error) {
	db := r.DB.WithContext(ctx)
	var country models.Country
	err := db.Where("unicode_lower(name) = unicode_lower(?)", name).Order("id ASC").First(&country).Error
	if err == nil {
		return &country, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find country %s: %w", name, err)
	}

	now := time.Now().Unix()
	country = models.Country{Name: name, CreatedAt: now, UpdatedAt: now}
	if err := db.Create(&country).Error; err != nil {
		return nil, fmt.Errorf("failed to create country %s: %w", name, err)
	}
	return &country, nil
}
