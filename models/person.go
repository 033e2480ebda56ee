package models

import "gorm.io/gorm"

// Person represents a community member.
// It corresponds to the 'persons' table.
type Person struct {
	ID                  uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName           string `gorm:"not null;index;uniqueIndex:idx_person_identity,where:deleted_at IS NULL" json:"first_name"`
	MiddleName          string `gorm:"not null;default:'';uniqueIndex:idx_person_identity" json:"middle_name"` // father's given name
	SurnameID           *uint  `gorm:"index;uniqueIndex:idx_person_identity" json:"surname_id,omitempty"`
	DateOfBirth         string `gorm:"not null;default:'';uniqueIndex:idx_person_identity" json:"date_of_birth"` // DD-MM-YYYY when parseable
	MobileNumber1       string `gorm:"not null;default:'';index;uniqueIndex:idx_person_identity" json:"mobile_number1"`
	MobileNumber2       string `gorm:"not null;default:'';uniqueIndex:idx_person_identity" json:"mobile_number2"`
	CountryID           *uint  `gorm:"index" json:"country_id,omitempty"`
	InternationalMobile string `gorm:"not null;default:''" json:"international_mobile_number"`

	DistrictID *uint `gorm:"index" json:"district_id,omitempty"`
	TalukaID   *uint `gorm:"index" json:"taluka_id,omitempty"`
	VillageID  *uint `gorm:"index" json:"village_id,omitempty"`

	ProfilePath      string `gorm:"not null;default:''" json:"profile,omitempty"`       // relative to the media store
	ThumbProfilePath string `gorm:"not null;default:''" json:"thumb_profile,omitempty"` // relative to the media store

	IsVisible            bool `gorm:"not null" json:"is_visible"`
	IsAdmin              bool `gorm:"not null;default:false" json:"is_admin"`
	IsSuperAdmin         bool `gorm:"not null;default:false" json:"is_super_admin"`
	IsRegisteredDirectly bool `gorm:"not null;default:false" json:"is_registered_directly"`
	IsOutOfCountry       bool `gorm:"not null;default:false" json:"is_out_of_country"`

	UpdateField string `gorm:"not null;default:''" json:"-"` // free-form audit trail

	CreatedAt int64          `gorm:"not null" json:"created_at"` // Unix timestamp
	UpdatedAt int64          `gorm:"not null" json:"updated_at"` // Unix timestamp
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Surname      *Surname            `gorm:"foreignKey:SurnameID" json:"surname,omitempty"`
	Translations []PersonTranslation `gorm:"foreignKey:PersonID" json:"-"`
}

// TableName explicitly sets the table name for GORM.
func (Person) TableName() string {
	return "persons"
}

// Languages supported by translations.
const (
	LangEnglish  = "en"
	LangGujarati = "guj"
)

// PersonTranslation holds a person's names in another language.
type PersonTranslation struct {
	ID         uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	PersonID   uint           `gorm:"not null;uniqueIndex:idx_person_language,where:deleted_at IS NULL" json:"person_id"`
	Language   string         `gorm:"not null;size:8;uniqueIndex:idx_person_language" json:"language"`
	FirstName  string         `gorm:"not null;default:''" json:"first_name"`
	MiddleName string         `gorm:"not null;default:''" json:"middle_name"`
	CreatedAt  int64          `gorm:"not null" json:"created_at"`
	UpdatedAt  int64          `gorm:"not null" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName explicitly sets the table name for GORM.
func (PersonTranslation) TableName() string {
	return "person_translations"
}

// DisplayNames returns first and middle name in lang, falling back to the
// canonical names when no translation exists or a translated field is empty.
func (p *Person) DisplayNames(lang string) (string, string) {
	first, middle := p.FirstName, p.MiddleName
	if lang == "" || lang == LangEnglish {
		return first, middle
	}
	for _, t := range p.Translations {
		if t.Language != lang {
			continue
		}
		if t.FirstName != "" {
			first = t.FirstName
		}
		if t.MiddleName != "" {
			middle = t.MiddleName
		}
		break
	}
	return first, middle
}
