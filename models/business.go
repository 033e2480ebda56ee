package models

import "gorm.io/gorm"

// Category groups businesses; SubCategory refines a Category.
type Category struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string         `gorm:"not null;uniqueIndex:idx_category_name_nocase,collate:nocase" json:"name"`
	GujaratiName string         `gorm:"not null;default:''" json:"guj_name"`
	CreatedAt    int64          `gorm:"not null" json:"created_at"`
	UpdatedAt    int64          `gorm:"not null" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName explicitly sets the table name for GORM.
func (Category) TableName() string {
	return "categories"
}

type SubCategory struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID   uint           `gorm:"not null;index" json:"category_id"`
	Name         string         `gorm:"not null" json:"name"`
	GujaratiName string         `gorm:"not null;default:''" json:"guj_name"`
	CreatedAt    int64          `gorm:"not null" json:"created_at"`
	UpdatedAt    int64          `gorm:"not null" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName explicitly sets the table name for GORM.
func (SubCategory) TableName() string {
	return "sub_categories"
}

// Business is a member-owned listing searched by the search engine.
type Business struct {
	ID            uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string   `gorm:"not null" json:"name"` // title
	Description   string   `gorm:"type:text;not null;default:''" json:"description"`
	Keywords      string   `gorm:"not null;default:''" json:"keywords"`
	CategoryID    *uint    `gorm:"index" json:"category_id,omitempty"`
	SubCategoryID *uint    `gorm:"index" json:"sub_category_id,omitempty"`
	DistrictID    *uint    `gorm:"index" json:"district_id,omitempty"`
	TalukaID      *uint    `gorm:"index" json:"taluka_id,omitempty"`
	VillageID     *uint    `gorm:"index" json:"village_id,omitempty"`
	Phone1        string   `gorm:"not null;default:''" json:"phone1,omitempty"`
	Phone2        string   `gorm:"not null;default:''" json:"phone2,omitempty"`
	LogoPath      string   `gorm:"not null;default:''" json:"logo,omitempty"`
	ImagePaths    []string `gorm:"serializer:json" json:"images,omitempty"`
	IsActive      bool     `gorm:"not null" json:"is_active"`
	ViewCount     int64    `gorm:"not null;default:0" json:"view_count"`

	CreatedAt int64          `gorm:"not null;index" json:"created_at"`
	UpdatedAt int64          `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Owners []*Person `gorm:"many2many:business_owners;" json:"-"`
}

// TableName explicitly sets the table name for GORM.
func (Business) TableName() string {
	return "businesses"
}

const descriptionScoreThreshold = 50

// CompletenessScore is a 0..100 weighted count of populated fields.
func (b *Business) CompletenessScore() int {
	score := 0
	if b.Name != "" {
		score += 20
	}
	if len([]rune(b.Description)) > descriptionScoreThreshold {
		score += 20
	}
	if b.CategoryID != nil {
		score += 15
	}
	if b.Keywords != "" {
		score += 10
	}
	if b.Phone1 != "" || b.Phone2 != "" {
		score += 15
	}
	if b.VillageID != nil {
		score += 10
	}
	if b.LogoPath != "" {
		score += 5
	}
	if len(b.ImagePaths) > 0 {
		score += 5
	}
	if score > 100 {
		score = 100
	}
	return score
}
