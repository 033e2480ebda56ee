// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/camden-git/communitybackend/database"
	"github.com/camden-git/communitybackend/models"
)

var dsnReplacer = strings.NewReplacer("/", "_", " ", "_", "#", "_", "?", "_", "&", "_", "=", "_")

// DB opens a private in-memory database migrated with every model.
func DB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", dsnReplacer.Replace(t.Name()))
	db, err := database.InitGormDB(dsn, logger.Silent)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrateModels(db))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func now() int64 { return time.Now().Unix() }

// SeedLocation creates an active district, taluka and village.
func SeedLocation(t *testing.T, db *gorm.DB, district, taluka, village string) models.Location {
	t.Helper()
	ts := now()

	d := models.District{Name: district, IsActive: true, CreatedAt: ts, UpdatedAt: ts}
	require.NoError(t, db.Create(&d).Error)
	tk := models.Taluka{Name: taluka, DistrictID: d.ID, IsActive: true, CreatedAt: ts, UpdatedAt: ts}
	require.NoError(t, db.Create(&tk).Error)
	v := models.Village{Name: village, TalukaID: tk.ID, IsActive: true, CreatedAt: ts, UpdatedAt: ts}
	require.NoError(t, db.Create(&v).Error)

	return models.Location{District: d, Taluka: tk, Village: v}
}

// SeedSurname creates a surname.
func SeedSurname(t *testing.T, db *gorm.DB, name string) *models.Surname {
	t.Helper()
	ts := now()
	s := &models.Surname{Name: name, CreatedAt: ts, UpdatedAt: ts}
	require.NoError(t, db.Omit("TopMember").Create(s).Error)
	return s
}

// SetTopMember marks person as the top member of surname.
func SetTopMember(t *testing.T, db *gorm.DB, surname *models.Surname, person *models.Person) {
	t.Helper()
	require.NoError(t, db.Model(surname).Update("top_member_id", person.ID).Error)
	surname.TopMemberID = &person.ID
}

// PersonOption adjusts a seeded person before insert.
type PersonOption func(*models.Person)

func WithMiddleName(name string) PersonOption {
	return func(p *models.Person) { p.MiddleName = name }
}

func WithMobile(mobile string) PersonOption {
	return func(p *models.Person) { p.MobileNumber1 = mobile }
}

func Hidden() PersonOption {
	return func(p *models.Person) { p.IsVisible = false }
}

func SuperAdmin() PersonOption {
	return func(p *models.Person) { p.IsSuperAdmin = true }
}

func Admin() PersonOption {
	return func(p *models.Person) { p.IsAdmin = true }
}

// SeedPerson creates a visible person with the given surname.
func SeedPerson(t *testing.T, db *gorm.DB, firstName string, surname *models.Surname, opts ...PersonOption) *models.Person {
	t.Helper()
	ts := now()
	p := &models.Person{FirstName: firstName, IsVisible: true, CreatedAt: ts, UpdatedAt: ts}
	if surname != nil {
		p.SurnameID = &surname.ID
	}
	for _, opt := range opts {
		opt(p)
	}
	require.NoError(t, db.Omit("Surname", "Translations").Create(p).Error)
	return p
}

// SeedRelation links parent → child.
func SeedRelation(t *testing.T, db *gorm.DB, parent, child *models.Person) *models.ParentChildRelation {
	t.Helper()
	ts := now()
	rel := &models.ParentChildRelation{ParentID: parent.ID, ChildID: child.ID, CreatedAt: ts, UpdatedAt: ts}
	require.NoError(t, db.Omit("Parent", "Child").Create(rel).Error)
	return rel
}

// SeedBusiness creates an active business with the given keywords.
func SeedBusiness(t *testing.T, db *gorm.DB, name, keywords string, createdAt int64) *models.Business {
	t.Helper()
	if createdAt == 0 {
		createdAt = now()
	}
	b := &models.Business{Name: name, Keywords: keywords, IsActive: true, CreatedAt: createdAt, UpdatedAt: createdAt}
	require.NoError(t, db.Create(b).Error)
	return b
}

// SeedIntent creates a search intent.
func SeedIntent(t *testing.T, db *gorm.DB, keyword, synonyms string, active bool) *models.SearchIntent {
	t.Helper()
	ts := now()
	si := &models.SearchIntent{Keyword: keyword, Synonyms: synonyms, IsActive: active, CreatedAt: ts, UpdatedAt: ts}
	require.NoError(t, db.Create(si).Error)
	return si
}
