package repository

import (
	"context"

	"github.com/camden-git/communitybackend/models"
)

// PersonRepositoryInterface defines the methods for person data operations
type PersonRepositoryInterface interface {
	Create(ctx context.Context, person *models.Person) error
	GetByID(ctx context.Context, id uint) (*models.Person, error)
	FindByMobile1(ctx context.Context, mobile string) (*models.Person, error)
	UpdateImported(ctx context.Context, person *models.Person) error
	SoftDelete(ctx context.Context, id uint) error
	ListBySurname(ctx context.Context, surnameID uint, visibleOnly bool) ([]models.Person, error)
	UpsertTranslation(ctx context.Context, personID uint, lang, firstName, middleName string) error
	FindSystemAdmin(ctx context.Context) (*models.Person, error)
	ListLinkCandidates(ctx context.Context) ([]models.Person, error)
}

// SurnameRepositoryInterface defines the methods for surname data operations
type SurnameRepositoryInterface interface {
	Create(ctx context.Context, surname *models.Surname) error
	GetByID(ctx context.Context, id uint) (*models.Surname, error)
	FindByName(ctx context.Context, name string) (*models.Surname, error)
	ListAll(ctx context.Context) ([]models.Surname, error)
}

// LocationRepositoryInterface defines lookups over the location tree and countries
type LocationRepositoryInterface interface {
	FindDistrict(ctx context.Context, name string) (*models.District, error)
	FindTaluka(ctx context.Context, districtID uint, name string) (*models.Taluka, error)
	FindVillage(ctx context.Context, talukaID uint, name string) (*models.Village, error)
	UpdateVillageReferralCode(ctx context.Context, villageID uint, code string) error
	GetOrCreateCountry(ctx context.Context, name string) (*models.Country, error)
}

// RelationRepositoryInterface defines the methods for parent/child relation operations
type RelationRepositoryInterface interface {
	Create(ctx context.Context, relation *models.ParentChildRelation) error
	ParentOf(ctx context.Context, childID uint) (*models.Person, error)
	ListActive(ctx context.Context) ([]models.ParentChildRelation, error)
}

// BusinessRepositoryInterface defines the methods for business data operations
type BusinessRepositoryInterface interface {
	Create(ctx context.Context, business *models.Business) error
	GetByID(ctx context.Context, id uint) (*models.Business, error)
	IncrementViewCount(ctx context.Context, id uint) error
	Search(ctx context.Context, terms []string, filters BusinessFilters, offset, limit int) ([]models.Business, int64, error)
}

// SearchRepositoryInterface defines access to search intents and analytics
type SearchRepositoryInterface interface {
	FindActiveIntent(ctx context.Context, keyword string) (*models.SearchIntent, error)
	AddHistory(ctx context.Context, entry *models.SearchHistory) error
	UpsertInterest(ctx context.Context, keyword string, villageID *uint, at int64) error
	Trending(ctx context.Context, villageID *uint, limit int) ([]models.SearchInterest, error)
}
