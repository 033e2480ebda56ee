package models

import "gorm.io/gorm"

// District is the top level of the location tree.
type District struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string         `gorm:"not null;uniqueIndex:idx_district_name_nocase,collate:nocase" json:"name"`
	GujaratiName string         `gorm:"not null;default:''" json:"guj_name"`
	IsActive     bool           `gorm:"not null" json:"is_active"`
	CreatedAt    int64          `gorm:"not null" json:"created_at"`
	UpdatedAt    int64          `gorm:"not null" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName explicitly sets the table name for GORM.
func (District) TableName() string {
	return "districts"
}

// Taluka belongs to a District; names are unique per district.
type Taluka struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string         `gorm:"not null;uniqueIndex:idx_taluka_district_nocase,collate:nocase" json:"name"`
	GujaratiName string         `gorm:"not null;default:''" json:"guj_name"`
	DistrictID   uint           `gorm:"not null;uniqueIndex:idx_taluka_district_nocase" json:"district_id"`
	IsActive     bool           `gorm:"not null" json:"is_active"`
	CreatedAt    int64          `gorm:"not null" json:"created_at"`
	UpdatedAt    int64          `gorm:"not null" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	District *District `gorm:"foreignKey:DistrictID" json:"district,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Taluka) TableName() string {
	return "talukas"
}

// Village belongs to a Taluka; names are unique per taluka.
type Village struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string         `gorm:"not null;uniqueIndex:idx_village_taluka_nocase,collate:nocase" json:"name"`
	GujaratiName string         `gorm:"not null;default:''" json:"guj_name"`
	TalukaID     uint           `gorm:"not null;uniqueIndex:idx_village_taluka_nocase" json:"taluka_id"`
	ReferralCode *string        `gorm:"" json:"referral_code,omitempty"` // Nullable
	IsActive     bool           `gorm:"not null" json:"is_active"`
	CreatedAt    int64          `gorm:"not null" json:"created_at"`
	UpdatedAt    int64          `gorm:"not null" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Taluka *Taluka `gorm:"foreignKey:TalukaID" json:"taluka,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Village) TableName() string {
	return "villages"
}

// Location is a resolved District→Taluka→Village triple.
type Location struct {
	District District
	Taluka   Taluka
	Village  Village
}
