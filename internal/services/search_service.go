package services

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"jobh_backend/internal/logger"
	"jobh_backend/internal/metrics"
	"jobh_backend/internal/models"
	"jobh_backend/internal/repositories"
	"jobh_backend/internal/services/dto"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const (
	maxQueryRunes     = 100
	AutocompleteLimit = 5
)

// SearchCache - read-through кэш публичного поиска.
// Запись идет в то поколение, которое было прочитано до похода в базу.
type SearchCache interface {
	SearchInvalidator
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, gen int64, key string) ([]byte, bool, error)
	Set(ctx context.Context, gen int64, key string, value []byte, ttl time.Duration) error
}

type SearchService interface {
	Search(ctx context.Context, q *dto.VacancySearchQuery) (dto.PageResponse[models.Vacancy], error)
	Autocomplete(ctx context.Context, q string) ([]string, error)
	AutocompleteCity(ctx context.Context, q string) ([]string, error)
}

type SearchServiceImpl struct {
	vacancies repositories.VacancyRepository
	cache     SearchCache
	metrics   *metrics.Collector
	clock     Clock
}

func NewSearchService(
	vacancies repositories.VacancyRepository,
	cache SearchCache,
	collector *metrics.Collector,
	clock Clock,
) SearchService {
	return &SearchServiceImpl{
		vacancies: vacancies,
		cache:     cache,
		metrics:   collector,
		clock:     clock,
	}
}

func (s *SearchServiceImpl) Search(ctx context.Context, q *dto.VacancySearchQuery) (dto.PageResponse[models.Vacancy], error) {
	started := time.Now()
	now := s.clock.Now()

	filter := repositories.VacancySearchFilter{
		Query:     normalizeQuery(q.Q),
		City:      normalizeQuery(q.City),
		SalaryMin: q.MinSalary,
		SalaryMax: q.MaxSalary,
		Now:       now,
		Page:      pageOf(q.Page, q.Limit),
	}
	filter.EmploymentType = models.EmploymentType(q.EmploymentType)
	if filter.EmploymentType == "" {
		filter.EmploymentType = models.EmploymentType(q.Type)
	}
	if window, ok := models.Recency(q.Date).Window(); ok {
		after := now.Add(-window)
		filter.PublishedAfter = &after
	}

	key := searchCacheKey("search", searchKey{
		Query:          filter.Query,
		City:           filter.City,
		EmploymentType: filter.EmploymentType,
		SalaryMin:      filter.SalaryMin,
		SalaryMax:      filter.SalaryMax,
		Date:           q.Date,
		Page:           filter.Page,
	})
	var cached dto.PageResponse[models.Vacancy]
	slot, hit := s.readCache(ctx, key, &cached)
	if hit {
		s.metrics.ObserveSearch(true, time.Since(started))
		return cached, nil
	}

	items, total, err := s.vacancies.Search(ctx, filter)
	if err != nil {
		return dto.PageResponse[models.Vacancy]{}, handleRepoError(err)
	}
	resp := dto.NewPageResponse(items, total, filter.Page.Page, filter.Page.Limit)

	s.writeCache(ctx, slot, key, resp, premiumHorizon(items, now))
	s.metrics.ObserveSearch(false, time.Since(started))
	return resp, nil
}

func (s *SearchServiceImpl) Autocomplete(ctx context.Context, q string) ([]string, error) {
	return s.suggest(ctx, "title", q, s.vacancies.SuggestTitles)
}

func (s *SearchServiceImpl) AutocompleteCity(ctx context.Context, q string) ([]string, error) {
	return s.suggest(ctx, "city", q, s.vacancies.SuggestCities)
}

func (s *SearchServiceImpl) suggest(
	ctx context.Context,
	kind, raw string,
	load func(ctx context.Context, query string, limit int) ([]string, error),
) ([]string, error) {
	query := normalizeQuery(raw)
	if query == "" {
		return []string{}, nil
	}

	key := searchCacheKey("suggest:"+kind, query)
	var cached []string
	slot, hit := s.readCache(ctx, key, &cached)
	if hit {
		return cached, nil
	}

	values, err := load(ctx, query, AutocompleteLimit)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if values == nil {
		values = []string{}
	}

	s.writeCache(ctx, slot, key, values, 0)
	return values, nil
}

// cacheSlot - поколение кэша, прочитанное до похода в базу
type cacheSlot struct {
	gen    int64
	usable bool
}

// readCache - ошибки кэша не мешают поиску, идем в базу
func (s *SearchServiceImpl) readCache(ctx context.Context, key string, dst interface{}) (cacheSlot, bool) {
	if s.cache == nil {
		return cacheSlot{}, false
	}
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		logger.CtxWarn(ctx, "search cache generation read failed", "error", err)
		return cacheSlot{}, false
	}
	slot := cacheSlot{gen: gen, usable: true}

	raw, ok, err := s.cache.Get(ctx, gen, key)
	if err != nil {
		logger.CtxWarn(ctx, "search cache read failed", "error", err)
		return slot, false
	}
	if !ok {
		return slot, false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		logger.CtxWarn(ctx, "search cache entry is corrupted", "key", key, "error", err)
		return slot, false
	}
	return slot, true
}

func (s *SearchServiceImpl) writeCache(ctx context.Context, slot cacheSlot, key string, value interface{}, ttl time.Duration) {
	if s.cache == nil || !slot.usable {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, slot.gen, key, raw, ttl); err != nil {
		logger.CtxWarn(ctx, "search cache write failed", "error", err)
	}
}

// premiumHorizon - время до ближайшего истечения премиума на странице.
// Дольше этого закэшированный порядок выдачи неверен; 0 - ограничения нет.
func premiumHorizon(items []models.Vacancy, now time.Time) time.Duration {
	var horizon time.Duration
	for i := range items {
		if !items[i].ReallyPremium(now) {
			continue
		}
		left := items[i].PremiumUntil.Sub(now)
		if horizon == 0 || left < horizon {
			horizon = left
		}
	}
	return horizon
}

// searchKey - параметры поиска без текущего времени; TTL записи
// не переживает ближайшее истечение премиума на странице
type searchKey struct {
	Query          string
	City           string
	EmploymentType models.EmploymentType
	SalaryMin      *int64
	SalaryMax      *int64
	Date           string
	Page           repositories.Page
}

// searchCacheKey - хэш от нормализованных параметров; регистр текста не влияет
func searchCacheKey(kind string, params interface{}) string {
	raw, _ := json.Marshal(params)
	sum := sha1.Sum([]byte(kind + ":" + cases.Fold().String(string(raw))))
	return kind + ":" + hex.EncodeToString(sum[:])
}

// normalizeQuery приводит текст запроса к NFC, схлопывает пробелы и обрезает длину
func normalizeQuery(raw string) string {
	s := norm.NFC.String(raw)
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) > maxQueryRunes {
		s = string([]rune(s)[:maxQueryRunes])
		s = strings.TrimSpace(s)
	}
	return s
}
