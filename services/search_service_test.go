package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/camden-git/communitybackend/apperr"
	"github.com/camden-git/communitybackend/models"
	"github.com/camden-git/communitybackend/repository"
	"github.com/camden-git/communitybackend/testutil"
)

func newSearchService(db *gorm.DB) *SearchService {
	return NewSearchService(repository.NewBusinessRepository(db), repository.NewSearchRepository(db), nil, 20, 100, nil)
}

func resultIDs(page *SearchPage) []uint {
	ids := make([]uint, 0, len(page.Results))
	for _, b := range page.Results {
		ids = append(ids, b.ID)
	}
	return ids
}

func TestSearchSynonymExpansion(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	svc := newSearchService(db)

	intent := testutil.SeedIntent(t, db, "oil", "mustard oil, petroleum oil, તેલ, tel", true)
	shop := testutil.SeedBusiness(t, db, "Shree Traders", "mustard oil", 0)

	page, err := svc.Search(ctx, SearchQuery{Query: "oil"})
	require.NoError(t, err)
	assert.Equal(t, []uint{shop.ID}, resultIDs(page))
	assert.Equal(t, []string{"oil", "mustard oil", "petroleum oil", "તેલ", "tel"}, page.Terms)

	// base term still matches without the intent
	require.NoError(t, db.Delete(&models.SearchIntent{}, intent.ID).Error)
	page, err = svc.Search(ctx, SearchQuery{Query: "oil"})
	require.NoError(t, err)
	assert.Equal(t, []uint{shop.ID}, resultIDs(page))

	require.NoError(t, db.Model(shop).Update("keywords", "tel").Error)
	page, err = svc.Search(ctx, SearchQuery{Query: "OIL"})
	require.NoError(t, err)
	assert.Empty(t, page.Results)
	assert.Zero(t, page.Count)

	testutil.SeedIntent(t, db, "Oil", "mustard oil, TEL", true)
	page, err = svc.Search(ctx, SearchQuery{Query: "oil"})
	require.NoError(t, err)
	assert.Equal(t, []uint{shop.ID}, resultIDs(page))
}

func TestSearchInactiveIntentIsIgnored(t *testing.T) {
	db := testutil.DB(t)
	svc := newSearchService(db)
	testutil.SeedIntent(t, db, "oil", "tel", false)
	testutil.SeedBusiness(t, db, "Ghani", "tel", 0)

	page, err := svc.Search(context.Background(), SearchQuery{Query: "oil"})
	require.NoError(t, err)
	assert.Empty(t, page.Results)
}

func TestSearchEmptyQuery(t *testing.T) {
	db := testutil.DB(t)

	_, err := newSearchService(db).Search(context.Background(), SearchQuery{Query: "   "})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindEmptyQuery))
}

func TestSearchPagingAndOrdering(t *testing.T) {
	db := testutil.DB(t)
	svc := newSearchService(db)
	for i := 1; i <= 5; i++ {
		testutil.SeedBusiness(t, db, "Oil Mill", "", int64(i*100))
	}

	page, err := svc.Search(context.Background(), SearchQuery{Query: "mill", Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Count)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.CurrentPage)
	require.Len(t, page.Results, 2)
	assert.EqualValues(t, 300, page.Results[0].CreatedAt)
	assert.EqualValues(t, 200, page.Results[1].CreatedAt)

	beyond, err := svc.Search(context.Background(), SearchQuery{Query: "mill", Page: 9, PageSize: 2})
	require.NoError(t, err)
	assert.Empty(t, beyond.Results)
	assert.NotNil(t, beyond.Results)
}

func TestSearchFiltersAndSoftDelete(t *testing.T) {
	db := testutil.DB(t)
	svc := newSearchService(db)
	category := uint(4)

	inCategory := testutil.SeedBusiness(t, db, "Oil Depot", "", 0)
	require.NoError(t, db.Model(inCategory).Update("category_id", category).Error)
	testutil.SeedBusiness(t, db, "Oil Shop", "", 0)
	gone := testutil.SeedBusiness(t, db, "Oil Gone", "", 0)
	require.NoError(t, db.Delete(gone).Error)

	page, err := svc.Search(context.Background(), SearchQuery{Query: "oil", CategoryID: &category})
	require.NoError(t, err)
	assert.Equal(t, []uint{inCategory.ID}, resultIDs(page))

	all, err := svc.Search(context.Background(), SearchQuery{Query: "oil"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Count)
}

func TestSearchRecordsSideEffects(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	svc := newSearchService(db)
	testutil.SeedBusiness(t, db, "Oil Mill", "", 0)
	loc := testutil.SeedLocation(t, db, "Kutch", "Bhuj", "Madhapar")
	village := loc.Village.ID
	local := testutil.SeedBusiness(t, db, "Madhapar Oil Mill", "", 0)
	require.NoError(t, db.Model(local).Update("village_id", village).Error)
	person := testutil.SeedPerson(t, db, "Ramesh", nil)

	_, err := svc.Search(ctx, SearchQuery{Query: "  Oil ", PersonID: &person.ID, VillageID: nil})
	require.NoError(t, err)
	_, err = svc.Search(ctx, SearchQuery{Query: "oil", PersonID: &person.ID})
	require.NoError(t, err)
	_, err = svc.Search(ctx, SearchQuery{Query: "oil", PersonID: &person.ID, DryRun: true})
	require.NoError(t, err)
	_, err = svc.Search(ctx, SearchQuery{Query: "oil"})
	require.NoError(t, err)
	_, err = svc.Search(ctx, SearchQuery{Query: "rice", PersonID: &person.ID})
	require.NoError(t, err)
	_, err = svc.Search(ctx, SearchQuery{Query: "oil mill", PersonID: &person.ID, VillageID: &village})
	require.NoError(t, err)

	var history []models.SearchHistory
	require.NoError(t, db.Order("id ASC").Find(&history).Error)
	require.Len(t, history, 3)
	assert.Equal(t, "  Oil ", history[0].Keyword)
	assert.Equal(t, "oil", history[0].NormalizedKeyword)

	global, err := svc.Trending(ctx, nil, 0)
	require.NoError(t, err)
	require.Len(t, global, 1)
	assert.Equal(t, "oil", global[0].Keyword)
	assert.EqualValues(t, 2, global[0].Count)

	inVillage, err := svc.Trending(ctx, &village, 5)
	require.NoError(t, err)
	require.Len(t, inVillage, 1)
	assert.Equal(t, "oil mill", inVillage[0].Keyword)
}

type flakySearchRepo struct {
	repository.SearchRepositoryInterface
	mu       sync.Mutex
	failures int
	calls    int
}

func (f *flakySearchRepo) AddHistory(context.Context, *models.SearchHistory) error { return nil }

func (f *flakySearchRepo) UpsertInterest(context.Context, string, *uint, int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return errors.New("database is locked")
	}
	return nil
}

func TestRecordSearchRetriesInterestUpsert(t *testing.T) {
	ctx := context.Background()
	event := SearchEvent{PersonID: 1, Keyword: "oil", At: time.Now()}

	repo := &flakySearchRepo{failures: 2}
	require.NoError(t, RecordSearch(ctx, repo, event))
	assert.Equal(t, 3, repo.calls)

	repo = &flakySearchRepo{failures: 3}
	err := RecordSearch(ctx, repo, event)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflictRetryExhausted))
	assert.Equal(t, 3, repo.calls)

	// the sync recorder swallows the failure
	NewSyncSearchRecorder(&flakySearchRepo{failures: 5}, nil).Record(ctx, event)
}

func TestBusinessViewCountsAndScores(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	svc := NewBusinessService(repository.NewBusinessRepository(db))
	b := testutil.SeedBusiness(t, db, "Shree Traders", "oil", 0)

	first, err := svc.View(ctx, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, first.ViewCount)
	assert.Equal(t, 30, first.CompletenessScore)

	second, err := svc.View(ctx, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, second.ViewCount)

	_, err = svc.View(ctx, 999)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
