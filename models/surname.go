package models

// Surname is a family name that partitions the family book.
// Names are unique case-insensitively; surnames are never deleted.
type Surname struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"not null;uniqueIndex:idx_surname_name_nocase,collate:nocase" json:"name"`
	GujaratiName string `gorm:"not null;default:''" json:"guj_name"`
	Fix          int    `gorm:"not null;default:0" json:"fix"` // display order
	TopMemberID  *uint  `gorm:"index" json:"top_member_id,omitempty"`
	CreatedAt    int64  `gorm:"not null" json:"created_at"`
	UpdatedAt    int64  `gorm:"not null" json:"updated_at"`

	TopMember *Person `gorm:"foreignKey:TopMemberID" json:"-"`
}

// TableName explicitly sets the table name for GORM.
func (Surname) TableName() string {
	return "surnames"
}

// DisplayName returns the Gujarati name when requested and present.
func (s *Surname) DisplayName(lang string) string {
	if lang == LangGujarati && s.GujaratiName != "" {
		return s.GujaratiName
	}
	return s.Name
}

// Country is referenced by persons; created on demand by the importer.
type Country struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string `gorm:"not null;uniqueIndex:idx_country_name_nocase,collate:nocase" json:"name"`
	CreatedAt int64  `gorm:"not null" json:"created_at"`
	UpdatedAt int64  `gorm:"not null" json:"updated_at"`
}

// TableName explicitly sets the table name for GORM.
func (Country) TableName() string {
	return "countries"
}
