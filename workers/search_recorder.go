package workers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/camden-git/communitybackend/logger"
	"github.com/camden-git/communitybackend/repository"
	"github.com/camden-git/communitybackend/services"
)

const recordTimeout = 5 * time.Second

// SearchRecorder persists search side effects on a bounded worker pool.
// Events are dropped, never blocked on, when the queue is full.
type SearchRecorder struct {
	JobQueue chan services.SearchEvent
	Repo     repository.SearchRepositoryInterface
	Wg       sync.WaitGroup
	Mutex    sync.RWMutex
	stopped  bool
	dropped  atomic.Int64
	log      *logger.Logger
}

func NewSearchRecorder(repo repository.SearchRepositoryInterface, queueSize, numWorkers int, log *logger.Logger) *SearchRecorder {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	if log == nil {
		log = logger.Nop()
	}
	rec := &SearchRecorder{
		JobQueue: make(chan services.SearchEvent, queueSize),
		Repo:     repo,
		log:      log.With("component", "search_recorder"),
	}
	rec.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go rec.worker(i)
	}
	rec.log.Info("started search recorder workers", "workers", numWorkers, "queue_size", queueSize)
	return rec
}

func (sr *SearchRecorder) worker(id int) {
	defer sr.Wg.Done()

	for event := range sr.JobQueue {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		if err := services.RecordSearch(ctx, sr.Repo, event); err != nil {
			sr.log.Warn("search side effect lost", "worker", id, "keyword", event.Keyword, "error", err)
		}
		cancel()
	}
	sr.log.Debug("search recorder worker stopping", "worker", id)
}

// Record queues event. The request context is not used because the work
// outlives the request.
func (sr *SearchRecorder) Record(_ context.Context, event services.SearchEvent) {
	sr.Mutex.RLock()
	defer sr.Mutex.RUnlock()
	if sr.stopped {
		return
	}

	select {
	case sr.JobQueue <- event:
	default:
		sr.dropped.Add(1)
		sr.log.Warn("search recorder queue full, event dropped", "keyword", event.Keyword)
	}
}

// Dropped returns how many events were discarded because the queue was full.
func (sr *SearchRecorder) Dropped() int64 {
	return sr.dropped.Load()
}

// Stop drains the queue and waits for every worker to finish.
func (sr *SearchRecorder) Stop() {
	sr.Mutex.Lock()
	if sr.stopped {
		sr.Mutex.Unlock()
		return
	}
	sr.stopped = true
	close(sr.JobQueue)
	sr.Mutex.Unlock()

	sr.Wg.Wait()
	sr.log.Info("all search recorder workers stopped")
}
