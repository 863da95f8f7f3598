package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"jobh_backend/internal/auth"
	"jobh_backend/internal/email"
	"jobh_backend/internal/logger"
	"jobh_backend/internal/models"
	"jobh_backend/internal/repositories"

	"github.com/google/uuid"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// memStore - общее хранилище фейковых репозиториев.
// Значения хранятся без связей, связи подставляются при чтении, как Preload.
type memStore struct {
	mu           sync.Mutex
	users        map[string]models.User
	companies    map[string]models.Company
	vacancies    map[string]models.Vacancy
	applications map[string]models.Application
	saved        map[string]models.SavedVacancy
	resumes      map[string]models.Resume
	logs         []models.ModerationLog
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[string]models.User{},
		companies:    map[string]models.Company{},
		vacancies:    map[string]models.Vacancy{},
		applications: map[string]models.Application{},
		saved:        map[string]models.SavedVacancy{},
		resumes:      map[string]models.Resume{},
	}
}

func (s *memStore) snapshot() *memStore {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := newMemStore()
	for k, v := range s.users {
		cp.users[k] = v
	}
	for k, v := range s.companies {
		cp.companies[k] = v
	}
	for k, v := range s.vacancies {
		cp.vacancies[k] = v
	}
	for k, v := range s.applications {
		cp.applications[k] = v
	}
	for k, v := range s.saved {
		cp.saved[k] = v
	}
	for k, v := range s.resumes {
		cp.resumes[k] = v
	}
	cp.logs = append([]models.ModerationLog(nil), s.logs...)
	return cp
}

func (s *memStore) restore(from *memStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = from.users
	s.companies = from.companies
	s.vacancies = from.vacancies
	s.applications = from.applications
	s.saved = from.saved
	s.resumes = from.resumes
	s.logs = from.logs
}

func (s *memStore) logsFor(entityID string) []models.ModerationLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ModerationLog
	for _, l := range s.logs {
		if l.EntityID == entityID {
			out = append(out, l)
		}
	}
	return out
}

// vacancyWithCompany вызывается под s.mu
func (s *memStore) vacancyWithCompany(v models.Vacancy) *models.Vacancy {
	if c, ok := s.companies[v.CompanyID]; ok {
		v.Company = &c
	}
	return &v
}

// --- Transactor ---

// fakeTx сериализует транзакции и откатывает хранилище при ошибке
type fakeTx struct {
	mu    sync.Mutex
	store *memStore

	// commitErr имитирует сбой COMMIT после успешного fn
	commitErr error
}

func (t *fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := t.store.snapshot()
	err := fn(ctx)
	if err == nil {
		err = t.commitErr
	}
	if err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

// --- Users ---

type fakeUserRepo struct{ s *memStore }

func (r fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &u, nil
}

// --- Companies ---

type fakeCompanyRepo struct{ s *memStore }

func (r fakeCompanyRepo) Create(_ context.Context, c *models.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.companies {
		if existing.OwnerID == c.OwnerID && !existing.IsDeleted {
			return repositories.ErrCompanyAlreadyExists
		}
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = testNow
	r.s.companies[c.ID] = *c
	return nil
}

func (r fakeCompanyRepo) Save(_ context.Context, c *models.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[c.ID]; !ok {
		return repositories.ErrCompanyNotFound
	}
	r.s.companies[c.ID] = *c
	return nil
}

func (r fakeCompanyRepo) FindByID(_ context.Context, id string) (*models.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[id]
	if !ok || c.IsDeleted {
		return nil, repositories.ErrCompanyNotFound
	}
	return &c, nil
}

func (r fakeCompanyRepo) FindByIDForUpdate(ctx context.Context, id string) (*models.Company, error) {
	return r.FindByID(ctx, id)
}

func (r fakeCompanyRepo) FindByOwner(_ context.Context, ownerID string) (*models.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.companies {
		if c.OwnerID == ownerID && !c.IsDeleted {
			return &c, nil
		}
	}
	return nil, repositories.ErrCompanyNotFound
}

func (r fakeCompanyRepo) FindByOwnerForUpdate(ctx context.Context, ownerID string) (*models.Company, error) {
	return r.FindByOwner(ctx, ownerID)
}

func (r fakeCompanyRepo) FindPublicByID(ctx context.Context, id string) (*models.Company, error) {
	c, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status != models.CompanyStatusApproved || !c.IsActive {
		return nil, repositories.ErrCompanyNotFound
	}
	return c, nil
}

func (r fakeCompanyRepo) ListPublic(_ context.Context, _ repositories.CompanyFilter) ([]models.Company, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Company
	for _, c := range r.s.companies {
		if !c.IsDeleted && c.IsActive && c.Status == models.CompanyStatusApproved {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (r fakeCompanyRepo) ListAdmin(_ context.Context, status *models.CompanyStatus, _ repositories.Page) ([]models.Company, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Company
	for _, c := range r.s.companies {
		if !c.IsDeleted && (status == nil || c.Status == *status) {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (r fakeCompanyRepo) CountByStatus(_ context.Context) (map[models.CompanyStatus]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[models.CompanyStatus]int64{}
	for _, c := range r.s.companies {
		if !c.IsDeleted {
			out[c.Status]++
		}
	}
	return out, nil
}

// --- Vacancies ---

type fakeVacancyRepo struct {
	s *memStore

	mu          sync.Mutex
	searchCalls int
	lastSearch  repositories.VacancySearchFilter
	suggestions int
	// afterSearch срабатывает между чтением из базы и возвратом результата
	afterSearch func()
}

func (r *fakeVacancyRepo) Create(_ context.Context, v *models.Vacancy) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	v.CreatedAt = testNow
	stored := *v
	stored.Company = nil
	r.s.vacancies[v.ID] = stored
	return nil
}

func (r *fakeVacancyRepo) Save(_ context.Context, v *models.Vacancy) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.vacancies[v.ID]; !ok {
		return repositories.ErrVacancyNotFound
	}
	stored := *v
	stored.Company = nil
	r.s.vacancies[v.ID] = stored
	return nil
}

func (r *fakeVacancyRepo) FindByID(_ context.Context, id string) (*models.Vacancy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vacancies[id]
	if !ok || v.IsDeleted {
		return nil, repositories.ErrVacancyNotFound
	}
	return r.s.vacancyWithCompany(v), nil
}

func (r *fakeVacancyRepo) FindByIDForUpdate(ctx context.Context, id string) (*models.Vacancy, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeVacancyRepo) FindPublicByID(ctx context.Context, id string) (*models.Vacancy, error) {
	v, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !v.PubliclyVisible() || v.Company == nil || v.Company.IsDeleted {
		return nil, repositories.ErrVacancyNotFound
	}
	return v, nil
}

func (r *fakeVacancyRepo) visible() []models.Vacancy {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Vacancy
	for _, v := range r.s.vacancies {
		if v.PubliclyVisible() {
			out = append(out, *r.s.vacancyWithCompany(v))
		}
	}
	return out
}

func (r *fakeVacancyRepo) Search(_ context.Context, filter repositories.VacancySearchFilter) ([]models.Vacancy, int64, error) {
	r.mu.Lock()
	r.searchCalls++
	r.lastSearch = filter
	hook := r.afterSearch
	r.mu.Unlock()

	out := r.visible()
	sort.SliceStable(out, func(i, j int) bool {
		return models.RanksBefore(&out[i], &out[j], filter.Now)
	})
	if hook != nil {
		hook()
	}
	return out, int64(len(out)), nil
}

func (r *fakeVacancyRepo) suggest(query string, limit int, field func(v models.Vacancy) string) []string {
	r.mu.Lock()
	r.suggestions++
	r.mu.Unlock()

	var out []string
	for _, v := range r.visible() {
		value := field(v)
		if value != "" && strings.Contains(strings.ToLower(value), strings.ToLower(query)) {
			out = append(out, value)
		}
		if len(out) == limit {
			break
		}
	}
	return out
}

func (r *fakeVacancyRepo) SuggestTitles(_ context.Context, query string, limit int) ([]string, error) {
	return r.suggest(query, limit, func(v models.Vacancy) string { return v.Title }), nil
}

func (r *fakeVacancyRepo) SuggestCities(_ context.Context, query string, limit int) ([]string, error) {
	return r.suggest(query, limit, func(v models.Vacancy) string {
		if v.City == nil {
			return ""
		}
		return *v.City
	}), nil
}

func (r *fakeVacancyRepo) ListByCompany(_ context.Context, filter repositories.VacancyListFilter) ([]models.Vacancy, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Vacancy
	for _, v := range r.s.vacancies {
		if !v.IsDeleted && v.CompanyID == filter.CompanyID {
			out = append(out, v)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeVacancyRepo) ListAdmin(_ context.Context, status *models.VacancyStatus, _ repositories.Page) ([]models.Vacancy, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Vacancy
	for _, v := range r.s.vacancies {
		if !v.IsDeleted && (status == nil || v.Status == *status) {
			out = append(out, v)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeVacancyRepo) CountByStatus(_ context.Context) (map[models.VacancyStatus]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[models.VacancyStatus]int64{}
	for _, v := range r.s.vacancies {
		if !v.IsDeleted {
			out[v.Status]++
		}
	}
	return out, nil
}

func (r *fakeVacancyRepo) CountActivePremium(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, v := range r.s.vacancies {
		if !v.IsDeleted && v.ReallyPremium(now) {
			n++
		}
	}
	return n, nil
}

// --- Applications ---

type fakeApplicationRepo struct{ s *memStore }

func (r fakeApplicationRepo) Create(_ context.Context, a *models.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.applications {
		if existing.VacancyID == a.VacancyID && existing.ApplicantID == a.ApplicantID && !existing.IsDeleted {
			return repositories.ErrApplicationAlreadyExists
		}
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = testNow
	stored := *a
	stored.Vacancy = nil
	r.s.applications[a.ID] = stored
	return nil
}

func (r fakeApplicationRepo) Exists(_ context.Context, vacancyID, applicantID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.applications {
		if a.VacancyID == vacancyID && a.ApplicantID == applicantID && !a.IsDeleted {
			return true, nil
		}
	}
	return false, nil
}

func (r fakeApplicationRepo) FindByID(_ context.Context, id string) (*models.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.applications[id]
	if !ok || a.IsDeleted {
		return nil, repositories.ErrApplicationNotFound
	}
	if v, ok := r.s.vacancies[a.VacancyID]; ok {
		a.Vacancy = r.s.vacancyWithCompany(v)
	}
	return &a, nil
}

func (r fakeApplicationRepo) FindByIDForUpdate(ctx context.Context, id string) (*models.Application, error) {
	return r.FindByID(ctx, id)
}

func (r fakeApplicationRepo) UpdateStatus(_ context.Context, id string, status models.ApplicationStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.applications[id]
	if !ok {
		return repositories.ErrApplicationNotFound
	}
	a.Status = status
	r.s.applications[id] = a
	return nil
}

func (r fakeApplicationRepo) ListByApplicant(_ context.Context, applicantID string, _ repositories.Page) ([]models.Application, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Application
	for _, a := range r.s.applications {
		if a.ApplicantID == applicantID && !a.IsDeleted {
			out = append(out, a)
		}
	}
	return out, int64(len(out)), nil
}

func (r fakeApplicationRepo) ListForCompany(_ context.Context, filter repositories.ApplicationFilter) ([]models.Application, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Application
	for _, a := range r.s.applications {
		v, ok := r.s.vacancies[a.VacancyID]
		if !ok || v.CompanyID != filter.CompanyID || a.IsDeleted {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (r fakeApplicationRepo) CountByStatus(_ context.Context) (map[models.ApplicationStatus]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[models.ApplicationStatus]int64{}
	for _, a := range r.s.applications {
		if !a.IsDeleted {
			out[a.Status]++
		}
	}
	return out, nil
}

// --- Saved vacancies ---

type fakeSavedRepo struct{ s *memStore }

func savedKey(userID, vacancyID string) string { return userID + "/" + vacancyID }

func (r fakeSavedRepo) Save(_ context.Context, userID, vacancyID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.saved[savedKey(userID, vacancyID)]; !ok {
		r.s.saved[savedKey(userID, vacancyID)] = models.SavedVacancy{UserID: userID, VacancyID: vacancyID, CreatedAt: testNow}
	}
	return nil
}

func (r fakeSavedRepo) Delete(_ context.Context, userID, vacancyID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.saved, savedKey(userID, vacancyID))
	return nil
}

func (r fakeSavedRepo) ListByUser(_ context.Context, userID string, _ repositories.Page) ([]models.SavedVacancy, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.SavedVacancy
	for _, sv := range r.s.saved {
		if sv.UserID != userID {
			continue
		}
		if v, ok := r.s.vacancies[sv.VacancyID]; ok {
			sv.Vacancy = r.s.vacancyWithCompany(v)
		}
		out = append(out, sv)
	}
	return out, int64(len(out)), nil
}

// --- Moderation log ---

type fakeLogRepo struct {
	s   *memStore
	err error
}

func (r fakeLogRepo) Create(_ context.Context, entry *models.ModerationLog) error {
	if r.err != nil {
		return r.err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entry.ID = uuid.NewString()
	entry.CreatedAt = testNow
	r.s.logs = append(r.s.logs, *entry)
	return nil
}

func (r fakeLogRepo) List(_ context.Context, filter repositories.ModerationLogFilter) ([]models.ModerationLog, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.ModerationLog
	for _, l := range r.s.logs {
		if filter.EntityType != "" && l.EntityType != filter.EntityType {
			continue
		}
		if filter.EntityID != "" && l.EntityID != filter.EntityID {
			continue
		}
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

// --- Side channels ---

type fakeSearchCache struct {
	mu            sync.Mutex
	gen           int64
	entries       map[string][]byte
	setTTL        time.Duration
	invalidations int
	getErr        error
}

func newFakeSearchCache() *fakeSearchCache {
	return &fakeSearchCache{entries: map[string][]byte{}}
}

func genKey(gen int64, key string) string {
	return fmt.Sprintf("v%d:%s", gen, key)
}

func (c *fakeSearchCache) Generation(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, nil
}

func (c *fakeSearchCache) Get(_ context.Context, gen int64, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.entries[genKey(gen, key)]
	return v, ok, nil
}

func (c *fakeSearchCache) Set(_ context.Context, gen int64, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[genKey(gen, key)] = value
	c.setTTL = ttl
	return nil
}

func (c *fakeSearchCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations++
	c.gen++
	return nil
}

func (c *fakeSearchCache) invalidated() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidations
}

// lastTTL - ограничение TTL, переданное последней записью
func (c *fakeSearchCache) lastTTL() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setTTL
}

// --- Resumes ---

type fakeResumeRepo struct{ s *memStore }

func (r fakeResumeRepo) Create(_ context.Context, resume *models.Resume) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.resumes {
		if existing.OwnerID == resume.OwnerID && !existing.IsDeleted {
			return repositories.ErrResumeAlreadyExists
		}
	}
	if resume.ID == "" {
		resume.ID = uuid.NewString()
	}
	resume.CreatedAt = testNow
	r.s.resumes[resume.ID] = *resume
	return nil
}

func (r fakeResumeRepo) Save(_ context.Context, resume *models.Resume) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.resumes[resume.ID]; !ok {
		return repositories.ErrResumeNotFound
	}
	r.s.resumes[resume.ID] = *resume
	return nil
}

func (r fakeResumeRepo) FindByOwner(_ context.Context, ownerID string) (*models.Resume, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, resume := range r.s.resumes {
		if resume.OwnerID == ownerID && !resume.IsDeleted {
			return &resume, nil
		}
	}
	return nil, repositories.ErrResumeNotFound
}

func (r fakeResumeRepo) FindByOwnerForUpdate(ctx context.Context, ownerID string) (*models.Resume, error) {
	return r.FindByOwner(ctx, ownerID)
}

func (r fakeResumeRepo) ListAdmin(_ context.Context, page repositories.Page) ([]models.Resume, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Resume
	for _, resume := range r.s.resumes {
		if !resume.IsDeleted {
			out = append(out, resume)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, int64(len(out)), nil
}

type fakeStorage struct {
	mu      sync.Mutex
	files   map[string][]byte
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: map[string][]byte{}}
}

func (s *fakeStorage) Save(_ context.Context, path string, reader io.Reader, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = data
	return nil
}

func (s *fakeStorage) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
	s.deleted = append(s.deleted, path)
	return nil
}

func (s *fakeStorage) URL(path string) string { return "/uploads/" + path }

type recordingNotifier struct {
	mu     sync.Mutex
	events []ApplicationStatusEvent
	err    error
	panics bool
}

func (n *recordingNotifier) NotifyApplicationStatus(_ context.Context, event ApplicationStatusEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	if n.panics {
		panic("smtp client exploded")
	}
	return n.err
}

func (n *recordingNotifier) received() []ApplicationStatusEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]ApplicationStatusEvent(nil), n.events...)
}

type recordingPusher struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (p *recordingPusher) SendToUser(_ context.Context, userID, event string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, userID+":"+event)
	return p.err
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []*email.Email
	err  error
}

func (m *recordingMailer) Send(_ context.Context, e *email.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, e)
	return nil
}

func (m *recordingMailer) Validate() error { return nil }
func (m *recordingMailer) Close() error    { return nil }

var errBoom = errors.New("boom")

// --- Environment ---

type testEnv struct {
	store        *memStore
	tx           *fakeTx
	companies    fakeCompanyRepo
	vacancies    *fakeVacancyRepo
	applications fakeApplicationRepo
	saved        fakeSavedRepo
	logs         fakeLogRepo
	users        fakeUserRepo
	resumes      fakeResumeRepo
	cache        *fakeSearchCache
	storage      *fakeStorage
	notifier     *recordingNotifier
	clock        fixedClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newMemStore()
	return &testEnv{
		store:        store,
		tx:           &fakeTx{store: store},
		companies:    fakeCompanyRepo{s: store},
		vacancies:    &fakeVacancyRepo{s: store},
		applications: fakeApplicationRepo{s: store},
		saved:        fakeSavedRepo{s: store},
		logs:         fakeLogRepo{s: store},
		users:        fakeUserRepo{s: store},
		resumes:      fakeResumeRepo{s: store},
		cache:        newFakeSearchCache(),
		storage:      newFakeStorage(),
		notifier:     &recordingNotifier{},
		clock:        fixedClock{now: testNow},
	}
}

func (e *testEnv) companyService() CompanyService {
	return NewCompanyService(e.tx, e.companies, e.logs, e.storage, e.cache, nil, e.clock)
}

func (e *testEnv) vacancyService() VacancyService {
	return NewVacancyService(e.tx, e.vacancies, e.companies, e.saved, e.logs, e.cache, nil, e.clock)
}

func (e *testEnv) resumeService() ResumeService {
	return NewResumeService(e.tx, e.resumes, e.storage)
}

func (e *testEnv) premiumService() PremiumService {
	return NewPremiumService(e.tx, e.vacancies, e.logs, e.cache, nil, e.clock)
}

func (e *testEnv) applicationService() ApplicationService {
	return NewApplicationService(e.tx, e.applications, e.vacancies, e.companies, e.logs, e.notifier, time.Second, nil, e.clock)
}

func (e *testEnv) searchService() SearchService {
	return NewSearchService(e.vacancies, e.cache, nil, e.clock)
}

func (e *testEnv) adminService() AdminService {
	return NewAdminService(e.companies, e.vacancies, e.applications, e.logs, e.clock)
}

func (e *testEnv) seedCompany(ownerID string, status models.CompanyStatus) *models.Company {
	c := &models.Company{OwnerID: ownerID, Name: "Acme", Status: status, IsActive: true}
	if err := e.companies.Create(context.Background(), c); err != nil {
		panic(err)
	}
	return c
}

func (e *testEnv) seedVacancy(companyID string, status models.VacancyStatus) *models.Vacancy {
	v := &models.Vacancy{
		CompanyID:      companyID,
		Title:          "Go developer",
		Description:    "Backend work",
		EmploymentType: models.EmploymentFullTime,
		Status:         status,
		IsActive:       true,
	}
	if status == models.VacancyStatusPublished {
		published := testNow.Add(-time.Hour)
		v.PublishedAt = &published
	}
	if err := e.vacancies.Create(context.Background(), v); err != nil {
		panic(err)
	}
	return v
}

func employer(id string) auth.Principal {
	return auth.Principal{ID: id, Role: models.UserRoleEmployer}
}

func candidate(id string) auth.Principal {
	return auth.Principal{ID: id, Role: models.UserRoleCandidate}
}

var moderator = auth.Principal{ID: "admin-1", Role: models.UserRoleAdmin}

// logSink - потокобезопасный буфер для глобального логгера
type logSink struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *logSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *logSink) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func captureLogs(t *testing.T) *logSink {
	t.Helper()
	sink := &logSink{}
	logger.InitWithWriter(sink, "production", "debug")
	t.Cleanup(func() { logger.InitWithWriter(io.Discard, "production", "info") })
	return sink
}
