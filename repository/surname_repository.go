package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/camden-git/communitybackend/models"
	"gorm.io/gorm"
)

type SurnameRepository struct {
	DB *gorm.DB
}

func NewSurnameRepository(db *gorm.DB) *SurnameRepository {
	return &SurnameRepository{DB: db}
}

func (r *SurnameRepository) WithTx(tx *gorm.DB) *SurnameRepository {
	return &SurnameRepository{DB: tx}
}

func (r *SurnameRepository) Create(ctx context.Context, surname *models.Surname) error {
	now := time.Now().Unix()
	surname.CreatedAt = now
	surname.UpdatedAt = now
	if err := r.DB.WithContext(ctx).Omit("TopMember").Create(surname).Error; err != nil {
		return fmt.Errorf("failed to create surname %s: %w", surname.Name, err)
	}
	return nil
}

func (r *SurnameRepository) GetByID(ctx context.Context, id uint) (*models.Surname, error) {
	var surname models.Surname
	err := r.DB.WithContext(ctx).First(&surname, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get surname by ID %d: %w", id, err)
	}
	return &surname, nil
}

// FindByName matches a surname case-insensitively
func (r *SurnameRepository) FindByName(ctx context.Context, name string) (*models.Surname, error) {
	var surname models.Surname
	err := r.DB.WithContext(ctx).Where("unicode_lower(name) = unicode_lower(?)", name).Order("id ASC").First(&surname).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find surname %s: %w", name, err)
	}
	return &surname, nil
}

// ListAll returns every surname in display order
func (r *SurnameRepository) ListAll(ctx context.Context) ([]models.Surname, error) {
	var surnames []models.Surname
	if err := r.DB.WithContext(ctx).Order("fix ASC").Order("name ASC").Find(&surnames).Error; err != nil {
		return nil, fmt.Errorf("failed to list surnames: %w", err)
	}
	return surnames, nil
}
