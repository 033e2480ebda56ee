package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/camden-git/communitybackend/apperr"
	"github.com/camden-git/communitybackend/logger"
	"github.com/camden-git/communitybackend/models"
	"github.com/camden-git/communitybackend/repository"
)

const (
	interestUpsertAttempts = 3
	defaultTrendingLimit   = 10
	maxTrendingLimit       = 100
)

// SearchQuery is one business search request.
type SearchQuery struct {
	Query         string
	CategoryID    *uint
	SubCategoryID *uint
	VillageID     *uint
	Page          int
	PageSize      int
	PersonID      *uint // searching person; side effects are recorded only when set
	DryRun        bool
}

// SearchPage is a page of matching businesses.
type SearchPage struct {
	Count       int64             `json:"count"`
	TotalPages  int               `json:"total_pages"`
	CurrentPage int               `json:"current_page"`
	Results     []models.Business `json:"results"`
	Terms       []string          `json:"-"`
}

// SearchEvent is the analytics side effect of a matched search.
type SearchEvent struct {
	PersonID  uint
	Keyword   string // raw query
	VillageID *uint
	At        time.Time
}

// SearchRecorder persists search events.
type SearchRecorder interface {
	Record(ctx context.Context, event SearchEvent)
}

// RecordSearch appends the history entry and bumps the interest counter,
// retrying the counter upsert a bounded number of times.
func RecordSearch(ctx context.Context, repo repository.SearchRepositoryInterface, event SearchEvent) error {
	normalized := strings.ToLower(strings.TrimSpace(event.Keyword))
	at := event.At.Unix()

	if err := repo.AddHistory(ctx, &models.SearchHistory{
		PersonID:          event.PersonID,
		Keyword:           event.Keyword,
		NormalizedKeyword: normalized,
		CreatedAt:         at,
	}); err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt < interestUpsertAttempts; attempt++ {
		if lastErr = repo.UpsertInterest(ctx, normalized, event.VillageID, at); lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			break
		}
	}
	return apperr.Wrap(lastErr, apperr.KindConflictRetryExhausted, "search interest counter was not updated")
}

// SyncSearchRecorder records events inline and swallows failures.
type SyncSearchRecorder struct {
	repo repository.SearchRepositoryInterface
	log  *logger.Logger
}

func NewSyncSearchRecorder(repo repository.SearchRepositoryInterface, log *logger.Logger) *SyncSearchRecorder {
	if log == nil {
		log = logger.Nop()
	}
	return &SyncSearchRecorder{repo: repo, log: log}
}

func (r *SyncSearchRecorder) Record(ctx context.Context, event SearchEvent) {
	if err := RecordSearch(ctx, r.repo, event); err != nil {
		r.log.Warn("search side effect lost", "keyword", event.Keyword, "error", err)
	}
}

type SearchService struct {
	businesses      repository.BusinessRepositoryInterface
	searches        repository.SearchRepositoryInterface
	recorder        SearchRecorder
	defaultPageSize int
	maxPageSize     int
	log             *logger.Logger
	now             func() time.Time
}

func NewSearchService(businesses repository.BusinessRepositoryInterface, searches repository.SearchRepositoryInterface, recorder SearchRecorder, defaultPageSize, maxPageSize int, log *logger.Logger) *SearchService {
	if log == nil {
		log = logger.Nop()
	}
	if defaultPageSize <= 0 {
		defaultPageSize = 20
	}
	if maxPageSize < defaultPageSize {
		maxPageSize = defaultPageSize
	}
	if recorder == nil {
		recorder = NewSyncSearchRecorder(searches, log)
	}
	return &SearchService{
		businesses:      businesses,
		searches:        searches,
		recorder:        recorder,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
		log:             log.With("component", "search"),
		now:             time.Now,
	}
}

// ExpandTerms returns the lowercased base term followed by the synonyms of a
// matching active intent, without duplicates.
func (s *SearchService) ExpandTerms(ctx context.Context, query string) ([]string, error) {
	base := strings.ToLower(strings.TrimSpace(query))
	if base == "" {
		return nil, apperr.New(apperr.KindEmptyQuery, "Search query is empty.")
	}

	terms := []string{base}
	seen := map[string]bool{base: true}

	intent, err := s.searches.FindActiveIntent(ctx, base)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return terms, nil
	case err != nil:
		return nil, apperr.Wrap(err, apperr.KindInternal, "failed to load search intent")
	}

	for _, syn := range strings.Split(intent.Synonyms, ",") {
		syn = strings.ToLower(strings.TrimSpace(syn))
		if syn == "" || seen[syn] {
			continue
		}
		seen[syn] = true
		terms = append(terms, syn)
	}
	return terms, nil
}

// Search matches businesses containing any expanded term, newest first.
func (s *SearchService) Search(ctx context.Context, q SearchQuery) (*SearchPage, error) {
	terms, err := s.ExpandTerms(ctx, q.Query)
	if err != nil {
		return nil, err
	}

	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = s.defaultPageSize
	}
	if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	filters := repository.BusinessFilters{CategoryID: q.CategoryID, SubCategoryID: q.SubCategoryID, VillageID: q.VillageID}
	results, total, err := s.businesses.Search(ctx, terms, filters, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindInternal, "business search failed")
	}
	if results == nil {
		results = []models.Business{}
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	if total > 0 && q.PersonID != nil && !q.DryRun {
		s.recorder.Record(ctx, SearchEvent{
			PersonID:  *q.PersonID,
			Keyword:   q.Query,
			VillageID: q.VillageID,
			At:        s.now(),
		})
	}

	return &SearchPage{
		Count:       total,
		TotalPages:  totalPages,
		CurrentPage: page,
		Results:     results,
		Terms:       terms,
	}, nil
}

// Trending returns the most searched keywords of a village, or globally.
func (s *SearchService) Trending(ctx context.Context, villageID *uint, limit int) ([]models.SearchInterest, error) {
	if limit <= 0 {
		limit = defaultTrendingLimit
	}
	if limit > maxTrendingLimit {
		limit = maxTrendingLimit
	}
	interests, err := s.searches.Trending(ctx, villageID, limit)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindInternal, "failed to load trending searches")
	}
	if interests == nil {
		interests = []models.SearchInterest{}
	}
	return interests, nil
}
