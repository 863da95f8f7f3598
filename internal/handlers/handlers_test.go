package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"jobh_backend/internal/auth"
	"jobh_backend/internal/models"
	"jobh_backend/internal/services"
	"jobh_backend/internal/services/dto"
	"jobh_backend/internal/storage"
	"jobh_backend/internal/validator"
	"jobh_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Встроенный интерфейс остается nil: вызов незаглушенного метода упадет с паникой
type stubCompanyService struct {
	services.CompanyService
	submit     func(p auth.Principal, req *dto.CreateCompanyRequest) (*models.Company, bool, error)
	updateLogo func(p auth.Principal, file *dto.FileUpload) (*models.Company, error)
}

func (s *stubCompanyService) Submit(_ context.Context, p auth.Principal, req *dto.CreateCompanyRequest) (*models.Company, bool, error) {
	return s.submit(p, req)
}

func (s *stubCompanyService) UpdateLogo(_ context.Context, p auth.Principal, file *dto.FileUpload) (*models.Company, error) {
	return s.updateLogo(p, file)
}

type stubResumeService struct {
	services.ResumeService
	create   func(p auth.Principal, req *dto.CreateResumeRequest) (*models.Resume, error)
	updateCV func(p auth.Principal, file *dto.FileUpload) (*models.Resume, error)
}

func (s *stubResumeService) Create(_ context.Context, p auth.Principal, req *dto.CreateResumeRequest) (*models.Resume, error) {
	return s.create(p, req)
}

func (s *stubResumeService) UpdateCV(_ context.Context, p auth.Principal, file *dto.FileUpload) (*models.Resume, error) {
	return s.updateCV(p, file)
}

type stubApplicationService struct {
	services.ApplicationService
	updateStatus func(p auth.Principal, id string, status models.ApplicationStatus) (*models.Application, error)
}

func (s *stubApplicationService) UpdateStatus(_ context.Context, p auth.Principal, id string, status models.ApplicationStatus) (*models.Application, error) {
	return s.updateStatus(p, id, status)
}

type stubSearchService struct {
	services.SearchService
	search func(q *dto.VacancySearchQuery) (dto.PageResponse[models.Vacancy], error)
}

func (s *stubSearchService) Search(_ context.Context, q *dto.VacancySearchQuery) (dto.PageResponse[models.Vacancy], error) {
	return s.search(q)
}

func (s *stubSearchService) Autocomplete(_ context.Context, q string) ([]string, error) {
	return []string{"Go developer"}, nil
}

func newBase() *BaseHandler {
	return NewBaseHandler(validator.New())
}

// withPrincipal подменяет AuthMiddleware
func withPrincipal(p auth.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("principal", p)
		c.Next()
	}
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type errorEnvelope struct {
	Error struct {
		Code    string          `json:"code"`
		Kind    string          `json:"kind"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func newLocalStorage(t *testing.T) storage.Storage {
	t.Helper()
	store, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir(), BaseURL: "/uploads"})
	require.NoError(t, err)
	return store
}

func TestCompanyHandler_Submit(t *testing.T) {
	owner := auth.Principal{ID: "emp-1", Role: models.UserRoleEmployer}
	created := true
	svc := &stubCompanyService{
		submit: func(p auth.Principal, req *dto.CreateCompanyRequest) (*models.Company, bool, error) {
			logo := "logos/c-1/a.png"
			return &models.Company{BaseModel: models.BaseModel{ID: "c-1"}, OwnerID: p.ID, Name: req.Name, Logo: &logo}, created, nil
		},
	}
	h := NewCompanyHandler(newBase(), svc, newLocalStorage(t), UploadPolicy{})

	r := gin.New()
	r.POST("/companies", withPrincipal(owner), h.Submit)
	r.POST("/anonymous", h.Submit)

	w := doJSON(t, r, http.MethodPost, "/companies", map[string]string{"name": "Acme"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Acme", body["name"])
	assert.Equal(t, "/uploads/logos/c-1/a.png", body["logoUrl"])

	created = false
	w = doJSON(t, r, http.MethodPost, "/companies", map[string]string{"name": "Acme"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/companies", map[string]string{"name": "A"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(apperrors.CodeValidationFailed), decodeError(t, w).Error.Code)
	assert.Contains(t, string(decodeError(t, w).Error.Details), "name")

	w = doJSON(t, r, http.MethodPost, "/anonymous", map[string]string{"name": "Acme"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCompanyHandler_SubmitMalformedBody(t *testing.T) {
	h := NewCompanyHandler(newBase(), &stubCompanyService{}, newLocalStorage(t), UploadPolicy{})
	r := gin.New()
	r.POST("/companies", withPrincipal(auth.Principal{ID: "emp-1", Role: models.UserRoleEmployer}), h.Submit)

	req := httptest.NewRequest(http.MethodPost, "/companies", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BadRequest", decodeError(t, w).Error.Kind)
}

// pngHeader - сигнатура PNG, которой достаточно для определения типа
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func multipartFile(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestCompanyHandler_UploadLogo(t *testing.T) {
	owner := auth.Principal{ID: "emp-1", Role: models.UserRoleEmployer}
	var got *dto.FileUpload
	svc := &stubCompanyService{
		updateLogo: func(_ auth.Principal, file *dto.FileUpload) (*models.Company, error) {
			got = file
			return &models.Company{BaseModel: models.BaseModel{ID: "c-1"}, Status: models.CompanyStatusPending}, nil
		},
	}
	h := NewCompanyHandler(newBase(), svc, newLocalStorage(t), UploadPolicy{
		MaxSize:      1024,
		AllowedTypes: []string{"image/png", "image/jpeg"},
	})
	r := gin.New()
	r.POST("/companies/me/logo", withPrincipal(owner), h.UploadLogo)

	send := func(filename string, data []byte) *httptest.ResponseRecorder {
		body, contentType := multipartFile(t, "logo", filename, data)
		req := httptest.NewRequest(http.MethodPost, "/companies/me/logo", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := send("logo.png", pngHeader)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, got)
	assert.Equal(t, "image/png", got.ContentType)
	assert.Equal(t, "logo.png", got.Filename)

	// расширение не спасает: тип определяется по содержимому
	got = nil
	w = send("logo.png", []byte("just some text"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(apperrors.CodeValidationFailed), decodeError(t, w).Error.Code)
	assert.Nil(t, got)

	w = send("logo.png", append(append([]byte{}, pngHeader...), make([]byte, 2048)...))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Error.Message, "too large")
}

func TestResumeHandler_Create(t *testing.T) {
	owner := auth.Principal{ID: "cand-1", Role: models.UserRoleCandidate}
	exists := false
	svc := &stubResumeService{
		create: func(p auth.Principal, req *dto.CreateResumeRequest) (*models.Resume, error) {
			if exists {
				return nil, apperrors.ErrResumeAlreadyExists
			}
			return &models.Resume{BaseModel: models.BaseModel{ID: "r-1"}, OwnerID: p.ID, FullName: req.FullName, Title: req.Title}, nil
		},
	}
	h := NewResumeHandler(newBase(), svc, newLocalStorage(t), 0)
	r := gin.New()
	r.POST("/resumes", withPrincipal(owner), h.Create)

	body := map[string]interface{}{"fullName": "Aidana Serik", "title": "Backend developer", "skills": []string{"Go"}}
	w := doJSON(t, r, http.MethodPost, "/resumes", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	exists = true
	w = doJSON(t, r, http.MethodPost, "/resumes", body)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Conflict", decodeError(t, w).Error.Kind)
	assert.Equal(t, "Resume already exists for this user", decodeError(t, w).Error.Message)

	long := make([]byte, 121)
	for i := range long {
		long[i] = 'a'
	}
	w = doJSON(t, r, http.MethodPost, "/resumes", map[string]string{"fullName": string(long), "title": "Dev"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, string(decodeError(t, w).Error.Details), "fullName")
}

// pdfHeader - сигнатура PDF
var pdfHeader = []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n")

func TestResumeHandler_UploadCV(t *testing.T) {
	owner := auth.Principal{ID: "cand-1", Role: models.UserRoleCandidate}
	var got *dto.FileUpload
	svc := &stubResumeService{
		updateCV: func(_ auth.Principal, file *dto.FileUpload) (*models.Resume, error) {
			got = file
			key := "cvs/r-1/a.pdf"
			return &models.Resume{BaseModel: models.BaseModel{ID: "r-1"}, CVFile: &key}, nil
		},
	}
	h := NewResumeHandler(newBase(), svc, newLocalStorage(t), 1024)
	assert.EqualValues(t, 1024, h.cv.MaxSize)
	r := gin.New()
	r.POST("/resumes/me/cv", withPrincipal(owner), h.UploadCV)

	send := func(field, filename string, data []byte) *httptest.ResponseRecorder {
		body, contentType := multipartFile(t, field, filename, data)
		req := httptest.NewRequest(http.MethodPost, "/resumes/me/cv", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := send("cv", "cv.pdf", pdfHeader)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, got)
	assert.Equal(t, "application/pdf", got.ContentType)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "/uploads/cvs/r-1/a.pdf", resp["cvUrl"])

	// картинка с расширением .pdf не проходит
	got = nil
	w = send("cv", "cv.pdf", pngHeader)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(apperrors.CodeValidationFailed), decodeError(t, w).Error.Code)
	assert.Nil(t, got)

	w = send("file", "cv.pdf", pdfHeader)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Error.Message, "'cv'")

	w = send("cv", "cv.pdf", append(append([]byte{}, pdfHeader...), make([]byte, 2048)...))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Error.Message, "too large")
}

func TestNewResumeHandler_DefaultCVSize(t *testing.T) {
	h := NewResumeHandler(newBase(), &stubResumeService{}, nil, 0)
	assert.EqualValues(t, 10*1024*1024, h.cv.MaxSize)
	assert.Equal(t, []string{"application/pdf"}, h.cv.AllowedTypes)
}

func TestApplicationHandler_UpdateStatus(t *testing.T) {
	owner := auth.Principal{ID: "emp-1", Role: models.UserRoleEmployer}
	svc := &stubApplicationService{
		updateStatus: func(_ auth.Principal, id string, status models.ApplicationStatus) (*models.Application, error) {
			if id == "foreign" {
				return nil, apperrors.ErrInsufficientPermissions
			}
			if id == "broken" {
				return nil, errors.New("connection reset")
			}
			return &models.Application{BaseModel: models.BaseModel{ID: id}, Status: status}, nil
		},
	}
	h := NewApplicationHandler(newBase(), svc)
	r := gin.New()
	r.PATCH("/applications/:id/status", withPrincipal(owner), h.UpdateStatus)

	w := doJSON(t, r, http.MethodPatch, "/applications/a-1/status", map[string]string{"status": "ACCEPTED"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"ACCEPTED"`)

	w = doJSON(t, r, http.MethodPatch, "/applications/a-1/status", map[string]string{"status": "HIRED"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPatch, "/applications/foreign/status", map[string]string{"status": "REVIEWED"})
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden", decodeError(t, w).Error.Kind)

	w = doJSON(t, r, http.MethodPatch, "/applications/broken/status", map[string]string{"status": "REVIEWED"})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestVacancyHandler_Search(t *testing.T) {
	var got *dto.VacancySearchQuery
	search := &stubSearchService{
		search: func(q *dto.VacancySearchQuery) (dto.PageResponse[models.Vacancy], error) {
			got = q
			return dto.NewPageResponse([]models.Vacancy{{Title: "Go developer"}}, 1, 1, 10), nil
		},
	}
	h := NewVacancyHandler(newBase(), nil, nil, search)
	r := gin.New()
	r.GET("/vacancies", h.Search)
	r.GET("/vacancies/autocomplete", h.Autocomplete)

	w := doJSON(t, r, http.MethodGet, "/vacancies?q=go&city=Almaty&type=REMOTE&date=7d&minSalary=100", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, got)
	assert.Equal(t, "go", got.Q)
	assert.Equal(t, "REMOTE", got.Type)
	assert.Equal(t, "7d", got.Date)
	require.NotNil(t, got.MinSalary)
	assert.EqualValues(t, 100, *got.MinSalary)

	var page dto.PageResponse[models.Vacancy]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, 1, page.TotalPages)

	for _, query := range []string{"limit=51", "date=2d", "type=FREELANCE", "minSalary=-1"} {
		w = doJSON(t, r, http.MethodGet, "/vacancies?"+query, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}

	w = doJSON(t, r, http.MethodGet, "/vacancies/autocomplete?q=go", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["Go developer"]`, w.Body.String())
}

func TestHealthHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: refused") }

	r := gin.New()
	r.GET("/up", NewHealthHandler(map[string]HealthCheck{"database": ok}).Health)
	r.GET("/down", NewHealthHandler(map[string]HealthCheck{"database": ok, "redis": down}).Health)

	w := doJSON(t, r, http.MethodGet, "/up", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = doJSON(t, r, http.MethodGet, "/down", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
	assert.Contains(t, w.Body.String(), `"redis":"dial tcp: refused"`)
}
