package workers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camden-git/communitybackend/models"
	"github.com/camden-git/communitybackend/repository"
	"github.com/camden-git/communitybackend/services"
	"github.com/camden-git/communitybackend/testutil"
)

func TestSearchRecorderPersistsEvents(t *testing.T) {
	db := testutil.DB(t)
	rec := NewSearchRecorder(repository.NewSearchRepository(db), 16, 2, nil)

	for i := 0; i < 5; i++ {
		rec.Record(context.Background(), services.SearchEvent{PersonID: 1, Keyword: "Oil", At: time.Now()})
	}
	rec.Stop()
	rec.Stop()

	var history int64
	require.NoError(t, db.Model(&models.SearchHistory{}).Count(&history).Error)
	assert.EqualValues(t, 5, history)

	var interest models.SearchInterest
	require.NoError(t, db.Where("keyword = ?", "oil").First(&interest).Error)
	assert.EqualValues(t, 5, interest.Count)

	// recording after stop is a no-op
	rec.Record(context.Background(), services.SearchEvent{PersonID: 1, Keyword: "late"})
}

type blockingRepo struct {
	repository.SearchRepositoryInterface
	release chan struct{}
	once    sync.Once
}

func (b *blockingRepo) AddHistory(context.Context, *models.SearchHistory) error {
	<-b.release
	return nil
}

func (b *blockingRepo) UpsertInterest(context.Context, string, *uint, int64) error { return nil }

func TestSearchRecorderDropsWhenFull(t *testing.T) {
	repo := &blockingRepo{release: make(chan struct{})}
	rec := NewSearchRecorder(repo, 1, 1, nil)

	// one event is taken by the worker, one fills the queue, the rest are dropped
	for i := 0; i < 10; i++ {
		rec.Record(context.Background(), services.SearchEvent{Keyword: "oil"})
	}
	assert.GreaterOrEqual(t, rec.Dropped(), int64(8))

	repo.once.Do(func() { close(repo.release) })
	rec.Stop()
}
