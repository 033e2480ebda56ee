package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/camden-git/communitybackend/models"
	"gorm.io/gorm"
)

// importedPersonColumns are overwritten when an import row updates an existing person
var importedPersonColumns = []string{
	"first_name", "middle_name", "surname_id", "date_of_birth", "mobile_number2",
	"country_id", "international_mobile", "district_id", "taluka_id", "village_id",
	"profile_path", "thumb_profile_path", "is_out_of_country", "update_field", "updated_at",
}

// PersonRepository handles database operations for Person and its translations
type PersonRepository struct {
	DB *gorm.DB
}

// NewPersonRepository creates a new instance of PersonRepository
func NewPersonRepository(db *gorm.DB) *PersonRepository {
	return &PersonRepository{DB: db}
}

// WithTx returns a copy of the repository bound to tx
func (r *PersonRepository) WithTx(tx *gorm.DB) *PersonRepository {
	return &PersonRepository{DB: tx}
}

// Create creates a new person record in the database
func (r *PersonRepository) Create(ctx context.Context, person *models.Person) error {
	now := time.Now().Unix()
	if person.CreatedAt == 0 {
		person.CreatedAt = now
	}
	if person.UpdatedAt == 0 {
		person.UpdatedAt = now
	}

	err := r.DB.WithContext(ctx).Omit("Surname", "Translations").Create(person).Error
	if err != nil {
		return fmt.Errorf("failed to create person %s: %w", person.FirstName, err)
	}
	return nil
}

// GetByID retrieves a non-deleted person by ID, preloading surname and translations
func (r *PersonRepository) GetByID(ctx context.Context, id uint) (*models.Person, error) {
	var person models.Person
	err := r.DB.WithContext(ctx).Preload("Surname").Preload("Translations").First(&person, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get person by ID %d: %w", id, err)
	}
	return &person, nil
}

// FindByMobile1 returns the oldest non-deleted person holding the given main mobile number
func (r *PersonRepository) FindByMobile1(ctx context.Context, mobile string) (*models.Person, error) {
	var person models.Person
	err := r.DB.WithContext(ctx).Where("mobile_number1 = ?", mobile).Order("id ASC").First(&person).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find person by mobile %s: %w", mobile, err)
	}
	return &person, nil
}

// UpdateImported writes the import-owned columns of person, including zero values
func (r *PersonRepository) UpdateImported(ctx context.Context, person *models.Person) error {
	person.UpdatedAt = time.Now().Unix()
	result := r.DB.WithContext(ctx).Model(&models.Person{ID: person.ID}).
		Select(importedPersonColumns).
		Updates(person)
	if result.Error != nil {
		return fmt.Errorf("failed to update person ID %d: %w", person.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SoftDelete stamps deleted_at on a person; relations are kept and filtered at read time
func (r *PersonRepository) SoftDelete(ctx context.Context, id uint) error {
	result := r.DB.WithContext(ctx).Delete(&models.Person{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete person ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListBySurname lists non-deleted persons of a surname ordered by id
func (r *PersonRepository) ListBySurname(ctx context.Context, surnameID uint, visibleOnly bool) ([]models.Person, error) {
	var people []models.Person
	q := r.DB.WithContext(ctx).Preload("Translations").Where("surname_id = ?", surnameID)
	if visibleOnly {
		q = q.Where("is_visible = ?", true)
	}
	if err := q.Order("id ASC").Find(&people).Error; err != nil {
		return nil, fmt.Errorf("failed to list persons for surname ID %d: %w", surnameID, err)
	}
	return people, nil
}

// UpsertTranslation creates or updates the translation of a person in lang
func (r *PersonRepository) UpsertTranslation(ctx context.Context, personID uint, lang, firstName, middleName string) error {
	now := time.Now().Unix()
	db := r.DB.WithContext(ctx)

	var existing models.PersonTranslation
	err := db.Where("person_id = ? AND language = ?", personID, lang).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		t := models.PersonTranslation{
			PersonID:   personID,
			Language:   lang,
			FirstName:  firstName,
			MiddleName: middleName,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := db.Create(&t).Error; err != nil {
			return fmt.Errorf("failed to create %s translation for person ID %d: %w", lang, personID, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("failed to load %s translation for person ID %d: %w", lang, personID, err)
	}

	err = db.Model(&existing).Select("first_name", "middle_name", "updated_at").Updates(models.PersonTranslation{
		FirstName:  firstName,
		MiddleName: middleName,
		UpdatedAt:  now,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update %s translation for person ID %d: %w", lang, personID, err)
	}
	return nil
}

// FindSystemAdmin returns the first super-admin by id, else the first admin
func (r *PersonRepository) FindSystemAdmin(ctx context.Context) (*models.Person, error) {
	db := r.DB.WithContext(ctx)
	for _, column := range []string{"is_super_admin", "is_admin"} {
		var admin models.Person
		err := db.Where(column+" = ?", true).Order("id ASC").First(&admin).Error
		if err == nil {
			return &admin, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to find system admin: %w", err)
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ListLinkCandidates returns every non-deleted person with a surname, ordered by id
func (r *PersonRepository) ListLinkCandidates(ctx context.Context) ([]models.Person, error) {
	var people []models.Person
	err := r.DB.WithContext(ctx).Where("surname_id IS NOT NULL").Order("id ASC").Find(&people).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list relation link candidates: %w", err)
	}
	return people, nil
}
