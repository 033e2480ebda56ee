package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/camden-git/communitybackend/models"
	"gorm.io/gorm"
)

type RelationRepository struct {
	DB *gorm.DB
}

func NewRelationRepository(db *gorm.DB) *RelationRepository {
	return &RelationRepository{DB: db}
}

func (r *RelationRepository) WithTx(tx *gorm.DB) *RelationRepository {
	return &RelationRepository{DB: tx}
}

func (r *RelationRepository) Create(ctx context.Context, relation *models.ParentChildRelation) error {
	if relation.ParentID == relation.ChildID {
		return fmt.Errorf("person ID %d cannot be its own parent", relation.ChildID)
	}
	now := time.Now().Unix()
	relation.CreatedAt = now
	relation.UpdatedAt = now
	if err := r.DB.WithContext(ctx).Omit("Parent", "Child").Create(relation).Error; err != nil {
		return fmt.Errorf("failed to create relation %d->%d: %w", relation.ParentID, relation.ChildID, err)
	}
	return nil
}

// ParentOf returns the non-deleted parent of childID through a non-deleted relation.
// A missing relation and a soft-deleted parent both yield gorm.ErrRecordNotFound.
func (r *RelationRepository) ParentOf(ctx context.Context, childID uint) (*models.Person, error) {
	var parent models.Person
	err := r.DB.WithContext(ctx).
		Joins("JOIN parent_child_relations pcr ON pcr.parent_id = persons.id AND pcr.deleted_at IS NULL").
		Where("pcr.child_id = ?", childID).
		Order("pcr.id ASC").
		First(&parent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get parent of person ID %d: %w", childID, err)
	}
	return &parent, nil
}

// ListActive returns every non-deleted relation
func (r *RelationRepository) ListActive(ctx context.Context) ([]models.ParentChildRelation, error) {
	var relations []models.ParentChildRelation
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&relations).Error; err != nil {
		return nil, fmt.Errorf("failed to list relations: %w", err)
	}
	return relations, nil
}
