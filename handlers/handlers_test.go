package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/camden-git/communitybackend/importer"
	"github.com/camden-git/communitybackend/logger"
	"github.com/camden-git/communitybackend/media"
	"github.com/camden-git/communitybackend/models"
	"github.com/camden-git/communitybackend/repository"
	"github.com/camden-git/communitybackend/services"
	"github.com/camden-git/communitybackend/testutil"
)

const testSecret = "test-secret"

type testServer struct {
	db      *gorm.DB
	handler http.Handler
	base    string
}

func newTestServer(t *testing.T, apiKeyHash string) *testServer {
	t.Helper()
	db := testutil.DB(t)
	log := logger.Nop()

	base := t.TempDir()
	store, err := media.NewLocalStorage(base, map[media.AssetType]string{
		media.AssetTypeProfile:   "profiles",
		media.AssetTypeBugReport: "import_bugs",
	}, log)
	require.NoError(t, err)

	persons := repository.NewPersonRepository(db)
	surnames := repository.NewSurnameRepository(db)
	relations := repository.NewRelationRepository(db)
	businesses := repository.NewBusinessRepository(db)
	searches := repository.NewSearchRepository(db)

	im := importer.New(db, store, importer.NewKeyedLock(), importer.Options{DefaultCountry: "India"}, log)
	assets, err := AssetServer(base, []string{"profiles"}, log)
	require.NoError(t, err)

	handler := NewRouter(RouterDeps{
		Import:      NewImportHandler(im, store, "import_bugs", log),
		Tree:        NewTreeHandler(services.NewFamilyTreeService(persons, surnames, relations, log), log),
		Search:      NewSearchHandler(services.NewSearchService(businesses, searches, nil, 20, 100, log), log),
		Business:    NewBusinessHandler(services.NewBusinessService(businesses), log),
		People:      NewPeopleHandler(services.NewPeopleService(persons, surnames), log),
		Permissions: NewPermissionsHandler(),
		Auth:        NewAdminAuth(testSecret, apiKeyHash, persons, log),
		Assets:      assets,
		Log:         log,
	})
	return &testServer{db: db, handler: handler, base: base}
}

func (s *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) get(t *testing.T, url string) *httptest.ResponseRecorder {
	return s.do(t, httptest.NewRequest(http.MethodGet, url, nil))
}

func bearer(t *testing.T, personID uint) string {
	t.Helper()
	token, _, err := IssueAdminToken([]byte(testSecret), personID, time.Now())
	require.NoError(t, err)
	return "Bearer " + token
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) APIErrorDetail {
	t.Helper()
	var body APIErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Errors, 1)
	return body.Errors[0]
}

func uploadRequest(t *testing.T, filename string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestSearchEmptyQuery(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.get(t, "/api/search?q=%20")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, "empty_query", detail.Code)
	assert.Equal(t, "400", detail.Status)
}

func TestSearchReturnsPage(t *testing.T) {
	s := newTestServer(t, "")
	testutil.SeedBusiness(t, s.db, "Shree Dairy", "milk,ghee", 100)
	testutil.SeedBusiness(t, s.db, "Patel Hardware", "tools", 200)

	rec := s.get(t, "/api/search?q=Milk&page_size=5")
	require.Equal(t, http.StatusOK, rec.Code)

	var page services.SearchPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.EqualValues(t, 1, page.Count)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Shree Dairy", page.Results[0].Name)
}

func TestSearchRejectsBadFilter(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.get(t, "/api/search?q=milk&village=abc")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid", decodeError(t, rec).Code)
}

func TestTrending(t *testing.T) {
	s := newTestServer(t, "")
	testutil.SeedBusiness(t, s.db, "Shree Dairy", "milk", 0)
	person := testutil.SeedPerson(t, s.db, "Hardik", nil)

	for i := 0; i < 2; i++ {
		rec := s.get(t, "/api/search?q=milk&person_id="+jsonID(person.ID))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := s.get(t, "/api/search/trending?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Results []models.SearchInterest `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, "milk", body.Results[0].Keyword)
	assert.EqualValues(t, 2, body.Results[0].Count)
}

func jsonID(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestTreeEndpoint(t *testing.T) {
	s := newTestServer(t, "")
	patel := testutil.SeedSurname(t, s.db, "Patel")
	grand := testutil.SeedPerson(t, s.db, "Mansukh", patel)
	father := testutil.SeedPerson(t, s.db, "Rajesh", patel)
	me := testutil.SeedPerson(t, s.db, "Hardik", patel)
	testutil.SeedPerson(t, s.db, "amit", patel)
	testutil.SeedPerson(t, s.db, "Bhavesh", patel)
	testutil.SeedRelation(t, s.db, grand, father)
	testutil.SeedRelation(t, s.db, father, me)

	rec := s.get(t, "/api/tree?person_id="+jsonID(me.ID)+"&lang=en")
	require.Equal(t, http.StatusOK, rec.Code)

	var body treeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.TotalCount)
	require.Len(t, body.Data, 2)
	assert.Equal(t, "amit", body.Data[0].FirstName)
	assert.Equal(t, "Bhavesh", body.Data[1].FirstName)
	assert.Len(t, body.Ancestors, 3)
}

func TestTreeValidation(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.get(t, "/api/tree")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.get(t, "/api/tree?person_id=1&lang=fr")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.get(t, "/api/tree?person_id=999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Code)
}

func TestBusinessDetailCountsViews(t *testing.T) {
	s := newTestServer(t, "")
	b := testutil.SeedBusiness(t, s.db, "Shree Dairy", "milk", 0)

	s.get(t, "/api/businesses/"+jsonID(b.ID))
	rec := s.get(t, "/api/businesses/"+jsonID(b.ID))
	require.Equal(t, http.StatusOK, rec.Code)

	var detail services.BusinessDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.EqualValues(t, 2, detail.ViewCount)

	rec = s.get(t, "/api/businesses/424242")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSurnames(t *testing.T) {
	s := newTestServer(t, "")
	testutil.SeedSurname(t, s.db, "Patel")
	testutil.SeedSurname(t, s.db, "Shah")

	rec := s.get(t, "/api/surnames")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		TotalCount int              `json:"total_count"`
		Data       []models.Surname `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.TotalCount)
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(t, uploadRequest(t, "book.csv", []byte("District,Taluka,Village\n")))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, s.do(t, req).Code)
}

func TestNonAdminTokenIsForbidden(t *testing.T) {
	s := newTestServer(t, "")
	member := testutil.SeedPerson(t, s.db, "Hardik", nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)
	req.Header.Set("Authorization", bearer(t, member.ID))

	assert.Equal(t, http.StatusForbidden, s.do(t, req).Code)
}

func TestImportRequiresSuperAdmin(t *testing.T) {
	s := newTestServer(t, "")
	admin := testutil.SeedPerson(t, s.db, "Admin", nil, testutil.Admin())

	req := uploadRequest(t, "book.csv", []byte("District,Taluka,Village\nKutch,Bhuj,Madhapar\n"))
	req.Header.Set("Authorization", bearer(t, admin.ID))

	rec := s.do(t, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestImportCSVDashboard(t *testing.T) {
	s := newTestServer(t, "")
	testutil.SeedLocation(t, s.db, "Kutch", "Bhuj", "Madhapar")
	super := testutil.SeedPerson(t, s.db, "Root", nil, testutil.SuperAdmin())

	req := uploadRequest(t, "book.csv", []byte("District,Taluka,Village\nKutch,Bhuj,Madhapar\n"))
	req.Header.Set("Authorization", bearer(t, super.ID))

	rec := s.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result importer.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "book.csv", result.OriginalFilename)
	assert.Zero(t, result.Created)
	assert.NotEmpty(t, result.RunID)
}

func TestImportDashboardFailureIs422(t *testing.T) {
	s := newTestServer(t, "")
	super := testutil.SeedPerson(t, s.db, "Root", nil, testutil.SuperAdmin())

	req := uploadRequest(t, "book.csv", []byte("District,Taluka,Village\nAtlantis,Bhuj,Madhapar\n"))
	req.Header.Set("Authorization", bearer(t, super.ID))

	rec := s.do(t, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, "dashboard", detail.Code)
	assert.Contains(t, detail.Detail, "District 'Atlantis' not found.")
}

func TestAPIKeyGrantsEverything(t *testing.T) {
	hash, err := HashAPIKey("machine-key")
	require.NoError(t, err)
	s := newTestServer(t, hash)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/permissions", nil)
	req.Header.Set(apiKeyHeader, "machine-key")
	assert.Equal(t, http.StatusOK, s.do(t, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/api/admin/permissions", nil)
	req.Header.Set(apiKeyHeader, "wrong")
	assert.Equal(t, http.StatusUnauthorized, s.do(t, req).Code)
}

func TestDeletePerson(t *testing.T) {
	s := newTestServer(t, "")
	admin := testutil.SeedPerson(t, s.db, "Admin", nil, testutil.Admin())
	target := testutil.SeedPerson(t, s.db, "Hardik", nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/people/"+jsonID(target.ID), nil)
	req.Header.Set("Authorization", bearer(t, admin.ID))
	require.Equal(t, http.StatusNoContent, s.do(t, req).Code)

	assert.Equal(t, http.StatusNotFound, s.get(t, "/api/people/"+jsonID(target.ID)).Code)
}

func TestBugReportDownload(t *testing.T) {
	s := newTestServer(t, "")
	super := testutil.SeedPerson(t, s.db, "Root", nil, testutil.SuperAdmin())
	require.NoError(t, os.MkdirAll(filepath.Join(s.base, "import_bugs"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(s.base, "import_bugs", "run.csv"), []byte("Row Data,Error Message\n"), 0644))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/import/bugs/run.csv", nil)
	req.Header.Set("Authorization", bearer(t, super.ID))
	rec := s.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Row Data,Error Message\n", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/admin/import/bugs/missing.csv", nil)
	req.Header.Set("Authorization", bearer(t, super.ID))
	assert.Equal(t, http.StatusNotFound, s.do(t, req).Code)
}

func TestDeleteBugReport(t *testing.T) {
	s := newTestServer(t, "")
	super := testutil.SeedPerson(t, s.db, "Root", nil, testutil.SuperAdmin())
	admin := testutil.SeedPerson(t, s.db, "Admin", nil, testutil.Admin())
	path := filepath.Join(s.base, "import_bugs", "run.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("Row Data,Error Message\n"), 0644))

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/import/bugs/run.csv", nil)
	req.Header.Set("Authorization", bearer(t, admin.ID))
	assert.Equal(t, http.StatusForbidden, s.do(t, req).Code)
	assert.FileExists(t, path)

	req = httptest.NewRequest(http.MethodDelete, "/api/admin/import/bugs/run.csv", nil)
	req.Header.Set("Authorization", bearer(t, super.ID))
	require.Equal(t, http.StatusNoContent, s.do(t, req).Code)
	assert.NoFileExists(t, path)

	req = httptest.NewRequest(http.MethodDelete, "/api/admin/import/bugs/run.csv", nil)
	req.Header.Set("Authorization", bearer(t, super.ID))
	assert.Equal(t, http.StatusNotFound, s.do(t, req).Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/admin/import/bugs/notes.txt", nil)
	req.Header.Set("Authorization", bearer(t, super.ID))
	assert.Equal(t, http.StatusBadRequest, s.do(t, req).Code)
}

func TestAssetServer(t *testing.T) {
	s := newTestServer(t, "")
	require.NoError(t, os.MkdirAll(filepath.Join(s.base, "profiles"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(s.base, "profiles", "a.jpg"), []byte("jpg"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(s.base, "import_bugs"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(s.base, "import_bugs", "run.csv"), []byte("x"), 0644))

	rec := s.get(t, "/media/profiles/a.jpg")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jpg", rec.Body.String())

	assert.Equal(t, http.StatusNotFound, s.get(t, "/media/import_bugs/run.csv").Code)
	assert.Equal(t, http.StatusNotFound, s.get(t, "/media/profiles/missing.jpg").Code)
}
