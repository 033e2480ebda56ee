package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/camden-git/communitybackend/models"
	"github.com/camden-git/communitybackend/testutil"
)

func TestLocationLookupsAreCaseInsensitiveAndActiveOnly(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	loc := testutil.SeedLocation(t, db, "Ahmedabad", "Ahmedabad City", "Naroda")
	repo := NewLocationRepository(db)

	d, err := repo.FindDistrict(ctx, "AHMEDABAD")
	require.NoError(t, err)
	assert.Equal(t, loc.District.ID, d.ID)

	tk, err := repo.FindTaluka(ctx, d.ID, "ahmedabad city")
	require.NoError(t, err)
	v, err := repo.FindVillage(ctx, tk.ID, "naroda")
	require.NoError(t, err)
	assert.Equal(t, loc.Village.ID, v.ID)

	require.NoError(t, db.Model(&models.Village{}).Where("id = ?", v.ID).Update("is_active", false).Error)
	_, err = repo.FindVillage(ctx, tk.ID, "Naroda")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestGetOrCreateCountry(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewLocationRepository(db)

	first, err := repo.GetOrCreateCountry(ctx, "India")
	require.NoError(t, err)
	again, err := repo.GetOrCreateCountry(ctx, "india")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "India", again.Name)
}

func TestFindSystemAdminPrefersSuperAdmin(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewPersonRepository(db)

	_, err := repo.FindSystemAdmin(ctx)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	admin := testutil.SeedPerson(t, db, "Admin", nil, testutil.Admin())
	got, err := repo.FindSystemAdmin(ctx)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)

	super := testutil.SeedPerson(t, db, "Root", nil, testutil.SuperAdmin())
	got, err = repo.FindSystemAdmin(ctx)
	require.NoError(t, err)
	assert.Equal(t, super.ID, got.ID)
}

func TestSoftDeletedPersonIsInvisibleToReads(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	patel := testutil.SeedSurname(t, db, "Patel")
	p := testutil.SeedPerson(t, db, "Ramesh", patel, testutil.WithMobile("9000000001"))
	repo := NewPersonRepository(db)

	require.NoError(t, repo.SoftDelete(ctx, p.ID))

	_, err := repo.GetByID(ctx, p.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	_, err = repo.FindByMobile1(ctx, "9000000001")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	people, err := repo.ListBySurname(ctx, patel.ID, false)
	require.NoError(t, err)
	assert.Empty(t, people)
}

func TestParentOfIgnoresDeletedParent(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	patel := testutil.SeedSurname(t, db, "Patel")
	parent := testutil.SeedPerson(t, db, "Mansukh", patel)
	child := testutil.SeedPerson(t, db, "Rajesh", patel)
	testutil.SeedRelation(t, db, parent, child)
	repo := NewRelationRepository(db)

	got, err := repo.ParentOf(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, parent.ID, got.ID)

	require.NoError(t, NewPersonRepository(db).SoftDelete(ctx, parent.ID))
	_, err = repo.ParentOf(ctx, child.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRelationRejectsSecondParent(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	patel := testutil.SeedSurname(t, db, "Patel")
	a := testutil.SeedPerson(t, db, "A", patel)
	b := testutil.SeedPerson(t, db, "B", patel)
	c := testutil.SeedPerson(t, db, "C", patel)
	repo := NewRelationRepository(db)

	require.NoError(t, repo.Create(ctx, &models.ParentChildRelation{ParentID: a.ID, ChildID: c.ID}))
	assert.Error(t, repo.Create(ctx, &models.ParentChildRelation{ParentID: b.ID, ChildID: c.ID}))
	assert.Error(t, repo.Create(ctx, &models.ParentChildRelation{ParentID: a.ID, ChildID: a.ID}))
}

func TestUpsertTranslation(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	p := testutil.SeedPerson(t, db, "Ramesh", nil)
	repo := NewPersonRepository(db)

	require.NoError(t, repo.UpsertTranslation(ctx, p.ID, models.LangGujarati, "રમેશ", ""))
	require.NoError(t, repo.UpsertTranslation(ctx, p.ID, models.LangGujarati, "રમેશ", "મનસુખ"))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Translations, 1)
	first, middle := got.DisplayNames(models.LangGujarati)
	assert.Equal(t, "રમેશ", first)
	assert.Equal(t, "મનસુખ", middle)
}

func TestUpsertInterestAndTrending(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewSearchRepository(db)
	village := uint(7)
	ts := time.Now().Unix()

	require.NoError(t, repo.UpsertInterest(ctx, "oil", nil, ts))
	require.NoError(t, repo.UpsertInterest(ctx, "oil", nil, ts+1))
	require.NoError(t, repo.UpsertInterest(ctx, "rice", nil, ts+2))
	require.NoError(t, repo.UpsertInterest(ctx, "oil", &village, ts))

	global, err := repo.Trending(ctx, nil, 10)
	require.NoError(t, err)
	require.Len(t, global, 2)
	assert.Equal(t, "oil", global[0].Keyword)
	assert.EqualValues(t, 2, global[0].Count)
	assert.Equal(t, ts+1, global[0].LastSearched)
	assert.Equal(t, "rice", global[1].Keyword)

	local, err := repo.Trending(ctx, &village, 10)
	require.NoError(t, err)
	require.Len(t, local, 1)
	assert.EqualValues(t, 1, local[0].Count)

	limited, err := repo.Trending(ctx, nil, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestBusinessSearchOrderingAndFilters(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewBusinessRepository(db)

	old := testutil.SeedBusiness(t, db, "Old Oil Mill", "", 100)
	newer := testutil.SeedBusiness(t, db, "Shree Traders", "mustard oil", 200)
	testutil.SeedBusiness(t, db, "Rice Depot", "rice", 300)

	results, total, err := repo.Search(ctx, []string{"oil"}, BusinessFilters{}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, results, 2)
	assert.Equal(t, newer.ID, results[0].ID)
	assert.Equal(t, old.ID, results[1].ID)

	village := uint(3)
	results, total, err = repo.Search(ctx, []string{"oil"}, BusinessFilters{VillageID: &village}, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, results)
}

func TestNamesAreUniqueIgnoringCase(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	testutil.SeedSurname(t, db, "Patel")
	loc := testutil.SeedLocation(t, db, "Kutch", "Bhuj", "Madhapar")

	err := NewSurnameRepository(db).Create(ctx, &models.Surname{Name: "PATEL"})
	assert.Error(t, err)

	ts := time.Now().Unix()
	assert.Error(t, db.Create(&models.District{Name: "kutch", IsActive: true, CreatedAt: ts, UpdatedAt: ts}).Error)
	assert.Error(t, db.Create(&models.Village{Name: "MADHAPAR", TalukaID: loc.Taluka.ID, IsActive: true, CreatedAt: ts, UpdatedAt: ts}).Error)
}

func TestBusinessSearchFoldsNonASCIICase(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	b := testutil.SeedBusiness(t, db, "ÉCOLE Ångström", "", 0)
	testutil.SeedSurname(t, db, "Çelik")

	results, total, err := NewBusinessRepository(db).Search(ctx, []string{"école"}, BusinessFilters{}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, results, 1)
	assert.Equal(t, b.ID, results[0].ID)

	s, err := NewSurnameRepository(db).FindByName(ctx, "çelik")
	require.NoError(t, err)
	assert.Equal(t, "Çelik", s.Name)
}
