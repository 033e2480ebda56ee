package models

import "gorm.io/gorm"

// ParentChildRelation is a directed parent→child edge. A child has at most
// one non-deleted relation.
type ParentChildRelation struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	ParentID    uint           `gorm:"not null;index" json:"parent_id"`
	ChildID     uint           `gorm:"not null;uniqueIndex:idx_relation_child,where:deleted_at IS NULL" json:"child_id"`
	CreatedByID *uint          `gorm:"index" json:"created_by_id,omitempty"`
	CreatedAt   int64          `gorm:"not null" json:"created_at"`
	UpdatedAt   int64          `gorm:"not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Parent *Person `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Child  *Person `gorm:"foreignKey:ChildID" json:"child,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (ParentChildRelation) TableName() string {
	return "parent_child_relations"
}
