package models

// SearchIntent maps a keyword to a comma-separated synonym list.
type SearchIntent struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Keyword   string `gorm:"not null;uniqueIndex" json:"keyword"`
	Synonyms  string `gorm:"type:text;not null;default:''" json:"synonyms"`
	IsActive  bool   `gorm:"not null" json:"is_active"`
	CreatedAt int64  `gorm:"not null" json:"created_at"`
	UpdatedAt int64  `gorm:"not null" json:"updated_at"`
}

// TableName explicitly sets the table name for GORM.
func (SearchIntent) TableName() string {
	return "search_intents"
}

// SearchInterest counts searches per keyword and village. VillageKey is 0
// for the global (village-less) bucket so the unique index covers it.
type SearchInterest struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Keyword      string `gorm:"not null;uniqueIndex:idx_interest_keyword_village" json:"keyword"`
	VillageKey   uint   `gorm:"not null;default:0;uniqueIndex:idx_interest_keyword_village;index:idx_interest_village_count,priority:1" json:"-"`
	VillageID    *uint  `gorm:"" json:"village_id,omitempty"`
	Count        int64  `gorm:"not null;default:0;index:idx_interest_village_count,priority:2,sort:desc" json:"count"`
	LastSearched int64  `gorm:"not null" json:"last_searched"` // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (SearchInterest) TableName() string {
	return "search_interests"
}

// SearchHistory is a per-person log of searched keywords.
type SearchHistory struct {
	ID                uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	PersonID          uint   `gorm:"not null;index:idx_history_person_ts,priority:1" json:"person_id"`
	Keyword           string `gorm:"not null" json:"keyword"`
	NormalizedKeyword string `gorm:"not null;index" json:"normalized_keyword"`
	CreatedAt         int64  `gorm:"not null;index:idx_history_person_ts,priority:2,sort:desc" json:"created_at"`
}

// TableName explicitly sets the table name for GORM.
func (SearchHistory) TableName() string {
	return "search_histories"
}
