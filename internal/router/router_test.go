package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/P3chys/fresher-portal/internal/config"
	"github.com/P3chys/fresher-portal/internal/logger"
	"github.com/P3chys/fresher-portal/internal/models"
	"github.com/P3chys/fresher-portal/internal/services"
	"github.com/P3chys/fresher-portal/internal/session"
	"github.com/P3chys/fresher-portal/internal/testutil"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	Success bool                       `json:"success"`
	View    string                     `json:"view"`
	Data    map[string]json.RawMessage `json:"data"`
	Flashes []session.Flash            `json:"flashes"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// client keeps cookies between requests like a browser would.
type client struct {
	t       *testing.T
	engine  *gin.Engine
	cookies map[string]*http.Cookie
}

type testApp struct {
	db     *gorm.DB
	engine *gin.Engine
}

func testConfig() *config.Config {
	return &config.Config{
		GinMode:         gin.TestMode,
		SecretKey:       "test-secret",
		SessionTTL:      time.Hour,
		LoginRateLimit:  20,
		LoginRateWindow: 900,
	}
}

func newTestApp(t *testing.T, cfg *config.Config, infra Infra) *testApp {
	t.Helper()
	db := testutil.NewDB(t)
	return &testApp{db: db, engine: Setup(db, cfg, infra, logger.Discard())}
}

func (a *testApp) client(t *testing.T) *client {
	return &client{t: t, engine: a.engine, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	c.engine.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return w
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(http.MethodGet, path, nil)
}

func (c *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return c.do(http.MethodPost, path, form)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func assertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, location, w.Header().Get("Location"))
}

func loginTrainer(t *testing.T, c *client, email string) {
	t.Helper()
	assertRedirect(t, c.post("/trainer/register", url.Values{"name": {"Lead"}, "email": {email}, "password": {"secret"}}), "/trainer/login")
	assertRedirect(t, c.post("/trainer/login", url.Values{"email": {email}, "password": {"secret"}}), "/trainer/dashboard")
}

func registerEmployee(t *testing.T, c *client, email string) {
	t.Helper()
	assertRedirect(t, c.post("/employee/register", url.Values{"name": {"Asha"}, "email": {email}, "password": {"pw"}, "doj": {"2024-01-15"}}), "/employee/login")
}

func loginEmployee(t *testing.T, c *client, email string) {
	t.Helper()
	assertRedirect(t, c.post("/employee/login", url.Values{"email": {email}, "password": {"pw"}}), "/employee/dashboard")
}

func TestUnauthenticatedTrainerDashboardRedirectsHome(t *testing.T) {
	app := newTestApp(t, testConfig(), Infra{})
	c := app.client(t)

	assertRedirect(t, c.get("/trainer/dashboard"), "/home")

	env := decode(t, c.get("/home"))
	assert.Equal(t, "home", env.View)
	assert.Empty(t, env.Flashes)
}

func TestBatchPageWarnsAnonymousUser(t *testing.T) {
	app := newTestApp(t, testConfig(), Infra{})
	c := app.client(t)

	assertRedirect(t, c.get("/trainer/batch/1"), "/home")

	env := decode(t, c.get("/home"))
	require.Len(t, env.Flashes, 1)
	assert.Equal(t, session.Flash{Category: "warning", Message: "Please login as trainer to access that page."}, env.Flashes[0])

	// Flashes are shown once.
	assert.Empty(t, decode(t, c.get("/home")).Flashes)
}

func TestEmployeeCannotUseTrainerRoutes(t *testing.T) {
	app := newTestApp(t, testConfig(), Infra{})
	c := app.client(t)
	registerEmployee(t, c, "asha@ilink-systems.com")
	loginEmployee(t, c, "asha@ilink-systems.com")

	assertRedirect(t, c.post("/trainer/add_batch", url.Values{"name": {"Sneaky"}}), "/home")

	var count int64
	require.NoError(t, app.db.Model(&models.Batch{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTrainerRegistrationRejectsDuplicates(t *testing.T) {
	app := newTestApp(t, testConfig(), Infra{})
	c := app.client(t)
	form := url.Values{"name": {"Lead"}, "email": {"a@x.com"}, "password": {"secret"}}

	assertRedirect(t, c.post("/trainer/register", form), "/trainer/login")
	assertRedirect(t, c.post("/trainer/register", form), "/trainer/register")

	env := decode(t, c.get("/trainer/register"))
	assert.Equal(t, "register_trainer", env.View)
	messages := make([]string, 0, len(env.Flashes))
	for _, f := range env.Flashes {
		messages = append(messages, f.Message)
	}
	assert.Contains(t, messages, "Trainer with this email already exists.")

	var count int64
	require.NoError(t, app.db.Model(&models.Trainer{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRegistrationRequiresFields(t *testing.T) {
	app := newTestApp(t, testConfig(), Infra{})
	c := app.client(t)

	assertRedirect(t, c.post("/employee/register", url.Values{"email": {"x@ilink-systems.com"}}), "/employee/register")

	var count int64
	require.NoError(t, app.db.Model(&models.Employee{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTrainerLoginFailureRendersForm(t *testing.T) {
	app := newTestApp(t, testConfig(), Infra{})
	c := app.client(t)

	w := c.post("/trainer/login", url.Values{"email": {"nobody@x.com"}, "password": {"nope"}})
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Equal(t, "login_trainer", env.View)
	require.Len(t, env.Flashes, 1)
	assert.Equal(t, "Invalid credentials", env.Flashes[0].Message)
}

func TestLoggedInTrainerSkipsLoginPage(t *testing.T) {
	app := newTestApp(t, testConfig(), Infra{})
	c := app.client(t)
	loginTrainer(t, c, "lead@x.com")

	assertRedirect(t, c.get("/trainer/login"), "/trainer/dashboard")
	assert.Equal(t, "login_employee", decode(t, c.get("/employee/login")).View)

	assertRedirect(t, c.get("/trainer/logout"), "/home")
	assertRedirect(t, c.get("/trainer/dashboard"), "/home")
}

type fakeNotifier struct {
	sent []models.ProjectAllocation
}

func (f *fakeNotifier) SendInterviewScheduled(_ models.Employee, allocation models.ProjectAllocation) error {
	f.sent = append(f.sent, allocation)
	return nil
}

type fakeArchive struct {
	objects map[string][]byte
}

func (f *fakeArchive) ArchiveReport(_ context.Context, name string, data []byte) error {
	f.objects[name] = data
	return nil
}

func TestTrainerWorkflow(t *testing.T) {
	notifier := &fakeNotifier{}
	archive := &fakeArchive{objects: map[string][]byte{}}
	app := newTestApp(t, testConfig(), Infra{Notifier: notifier, Archive: archive})

	employeeClient := app.client(t)
	registerEmployee(t, employeeClient, "Asha@ilink-systems.com")

	c := app.client(t)
	loginTrainer(t, c, "lead@x.com")

	assertRedirect(t, c.post("/trainer/add_batch", url.Values{"name": {"Java Jan"}, "domain": {"Java"}, "start_date": {"2024-02-01"}}), "/trainer/dashboard")

	env := decode(t, c.get("/trainer/dashboard"))
	assert.Equal(t, "trainer_dashboard", env.View)
	var batches []models.Batch
	require.NoError(t, json.Unmarshal(env.Data["batches"], &batches))
	require.Len(t, batches, 1)
	batchID := batches[0].ID

	var employee models.Employee
	require.NoError(t, app.db.Where("email = ?", "asha@ilink-systems.com").First(&employee).Error)
	eid := itoa(employee.ID)
	bid := itoa(batchID)

	assertRedirect(t, c.post("/trainer/assign_employee_to_batch", url.Values{"employee_id": {eid}, "batch_id": {bid}, "domain": {" Java "}}), "/trainer/batch/"+bid)
	require.NoError(t, app.db.First(&employee, employee.ID).Error)
	assert.Equal(t, batchID, *employee.BatchID)
	assert.Equal(t, "Java", *employee.Domain)

	assertRedirect(t, c.post("/trainer/edit_evaluation/"+eid, url.Values{"batch_id": {bid}, "m1_marks": {"70"}, "sprint_marks": {"50"}, "l1_marks": {"65"}}), "/trainer/batch/"+bid)

	detail := decode(t, c.get("/trainer/batch/"+bid))
	assert.Equal(t, "batch_detail", detail.View)
	require.NotEmpty(t, detail.Flashes)
	assert.Equal(t, "Evaluation updated.", detail.Flashes[len(detail.Flashes)-1].Message)

	var evaluation models.Evaluation
	require.NoError(t, app.db.First(&evaluation).Error)
	assert.Equal(t, models.ResultPass, *evaluation.Result)

	perf := decode(t, c.get("/trainer/batch/"+bid+"/performance"))
	assert.Equal(t, "performance", perf.View)
	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(perf.Data["rows"], &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "61.67", rows[0]["aggregate"])
	assert.Equal(t, "Fail", rows[0]["final_result"])
	assert.Equal(t, "Fail", rows[0]["sprint_status"])

	assertRedirect(t, c.post("/trainer/allocate_project/"+eid, url.Values{"interview_date": {"2024-03-01"}, "project_domain": {"Java"}}), "/trainer/batch/"+bid)
	var allocations []models.ProjectAllocation
	require.NoError(t, app.db.Find(&allocations).Error)
	require.Len(t, allocations, 1)
	assert.Equal(t, models.AllocationStatusScheduled, allocations[0].Status)
	assert.Nil(t, allocations[0].ProjectName)
	require.Len(t, notifier.sent, 1)

	export := c.get("/trainer/batch/" + bid + "/performance/export")
	require.Equal(t, http.StatusOK, export.Code)
	assert.Contains(t, export.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, export.Body.String(), "61.67")
	assert.Len(t, archive.objects, 1)

	activities := c.get("/trainer/activities/recent?limit=3")
	require.Equal(t, http.StatusOK, activities.Code)
	var recent struct {
		Data []models.Activity `json:"data"`
	}
	require.NoError(t, json.Unmarshal(activities.Body.Bytes(), &recent))
	require.Len(t, recent.Data, 3)
	assert.Equal(t, models.ActivityProjectAllocated, recent.Data[0].ActivityType)
}

func TestAllocationBlockedWithoutPass(t *testing.T) {
	app := newTestApp(t, testConfig(), Infra{})
	c := app.client(t)
	loginTrainer(t, c, "lead@x.com")

	assertRedirect(t, c.post("/trainer/add_batch", url.Values{"name": {"B1"}}), "/trainer/dashboard")
	registerEmployee(t, app.client(t), "ravi@ilink-systems.com")

	var batch models.Batch
	require.NoError(t, app.db.First(&batch).Error)
	var employee models.Employee
	require.NoError(t, app.db.First(&employee).Error)

	// Unassigned employees return to the dashboard.
	assertRedirect(t, c.post("/trainer/allocate_project/"+itoa(employee.ID), url.Values{"project_domain": {"Java"}}), "/trainer/dashboard")

	assertRedirect(t, c.post("/trainer/assign_employee_to_batch", url.Values{"employee_id": {itoa(employee.ID)}, "batch_id": {itoa(batch.ID)}}), "/trainer/batch/"+itoa(batch.ID))
	assertRedirect(t, c.post("/trainer/edit_evaluation/"+itoa(employee.ID), url.Values{"batch_id": {itoa(batch.ID)}, "m1_marks": {"90"}}), "/trainer/batch/"+itoa(batch.ID))

	assertRedirect(t, c.post("/trainer/allocate_project/"+itoa(employee.ID), url.Values{"project_domain": {"Java"}}), "/trainer/batch/"+itoa(batch.ID))

	var count int64
	require.NoError(t, app.db.Model(&models.ProjectAllocation{}).Count(&count).Error)
	assert.Zero(t, count)

	env := decode(t, c.get("/trainer/batch/"+itoa(batch.ID)))
	require.NotEmpty(t, env.Flashes)
	last := env.Flashes[len(env.Flashes)-1]
	assert.Equal(t, "warning", last.Category)
	assert.Equal(t, "Employee must have passed evaluations before project allocation.", last.Message)
}

func TestInvalidInputAndNotFound(t *testing.T) {
	app := newTestApp(t, testConfig(), Infra{})
	c := app.client(t)
	loginTrainer(t, c, "lead@x.com")

	w := c.get("/trainer/batch/999")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, w).Error.Code)

	assert.Equal(t, http.StatusNotFound, c.get("/trainer/batch/abc").Code)
	assert.Equal(t, http.StatusNotFound, c.get("/trainer/edit_employee/5").Code)

	assertRedirect(t, c.post("/trainer/assign_employee_to_batch", url.Values{"employee_id": {"x"}, "batch_id": {"1"}}), "/trainer/dashboard")
	env := decode(t, c.get("/trainer/dashboard"))
	require.NotEmpty(t, env.Flashes)
	assert.Equal(t, session.Flash{Category: "danger", Message: "Invalid input."}, env.Flashes[len(env.Flashes)-1])

	w = c.post("/trainer/assign_employee_to_batch", url.Values{"employee_id": {"1"}, "batch_id": {"1"}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	assertRedirect(t, c.post("/trainer/add_batch", url.Values{"name": {"B1"}}), "/trainer/dashboard")
	assertRedirect(t, c.post("/trainer/edit_evaluation/1", url.Values{"batch_id": {"1"}, "m1_marks": {"seventy"}}), "/trainer/batch/1")
	var count int64
	require.NoError(t, app.db.Model(&models.Evaluation{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestEditEmployee(t *testing.T) {
	app := newTestApp(t, testConfig(), Infra{})
	registerEmployee(t, app.client(t), "asha@ilink-systems.com")
	c := app.client(t)
	loginTrainer(t, c, "lead@x.com")

	var employee models.Employee
	require.NoError(t, app.db.First(&employee).Error)
	id := itoa(employee.ID)

	env := decode(t, c.get("/trainer/edit_employee/"+id))
	assert.Equal(t, "edit_employee", env.View)

	assertRedirect(t, c.post("/trainer/edit_employee/"+id, url.Values{"name": {"Asha K"}, "domain": {"Python"}, "doj": {"not-a-date"}}), "/trainer/dashboard")

	require.NoError(t, app.db.First(&employee, employee.ID).Error)
	assert.Equal(t, "Asha K", employee.Name)
	assert.Equal(t, "Python", *employee.Domain)
	require.NotNil(t, employee.DOJ)
	assert.Equal(t, "2024-01-15", employee.DOJ.Format("2006-01-02"))
}

func TestEmployeeWorkflow(t *testing.T) {
	app := newTestApp(t, testConfig(), Infra{})

	trainer := app.client(t)
	loginTrainer(t, trainer, "lead@x.com")
	assertRedirect(t, trainer.post("/trainer/add_batch", url.Values{"name": {"B1"}}), "/trainer/dashboard")

	c := app.client(t)
	registerEmployee(t, c, "asha@ilink-systems.com")
	loginEmployee(t, c, " ASHA@ilink-systems.com ")

	var employee models.Employee
	require.NoError(t, app.db.First(&employee).Error)
	require.NotNil(t, employee.DOJ)
	assert.Nil(t, employee.Domain)

	assertRedirect(t, trainer.post("/trainer/assign_employee_to_batch", url.Values{"employee_id": {itoa(employee.ID)}, "batch_id": {"1"}}), "/trainer/batch/1")

	env := decode(t, c.get("/employee/dashboard"))
	assert.Equal(t, "employee_dashboard", env.View)
	require.Len(t, env.Flashes, 1)
	assert.Equal(t, "Logged in as employee.", env.Flashes[0].Message)

	assert.Equal(t, "feedback", decode(t, c.get("/employee/feedback")).View)

	form := url.Values{"comments": {"Great course"}, "overall_rating": {"5"}}
	for i := 1; i <= 5; i++ {
		form.Set("trainer_q"+itoa(uint(i)), "4")
		form.Set("curriculum_q"+itoa(uint(i)), "3")
	}
	bad := url.Values{}
	for k, v := range form {
		bad[k] = v
	}
	bad.Set("trainer_q3", "great")

	assertRedirect(t, c.post("/employee/feedback", bad), "/employee/feedback")
	var count int64
	require.NoError(t, app.db.Model(&models.Feedback{}).Count(&count).Error)
	assert.Zero(t, count)

	assertRedirect(t, c.post("/employee/feedback", form), "/thank-you")
	var feedback models.Feedback
	require.NoError(t, app.db.First(&feedback).Error)
	require.NotNil(t, feedback.TrainerID)
	assert.Equal(t, 4, feedback.TrainerQ3)
	assert.Equal(t, "Great course", *feedback.Comments)

	assert.Equal(t, "thank_you", decode(t, c.get("/thank-you")).View)

	assertRedirect(t, c.get("/employee/logout"), "/home")
	assertRedirect(t, c.get("/employee/dashboard"), "/home")
}

type fakeIndex struct {
	indexed []uint
	fail    bool
}

func (f *fakeIndex) IndexEmployee(_ context.Context, e models.Employee) error {
	f.indexed = append(f.indexed, e.ID)
	return nil
}

func (f *fakeIndex) SearchEmployees(_ context.Context, query string, _ int64) ([]services.EmployeeDocument, error) {
	if f.fail {
		return nil, errors.New("index down")
	}
	return []services.EmployeeDocument{{ID: 99, Name: "From index " + query}}, nil
}

func TestEmployeeSearch(t *testing.T) {
	index := &fakeIndex{}
	app := newTestApp(t, testConfig(), Infra{Search: index})
	registerEmployee(t, app.client(t), "asha@ilink-systems.com")
	assert.Len(t, index.indexed, 1)

	c := app.client(t)
	loginTrainer(t, c, "lead@x.com")

	var result struct {
		Data []services.EmployeeDocument `json:"data"`
	}
	w := c.get("/trainer/employees/search?q=asha")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result.Data, 1)
	assert.EqualValues(t, 99, result.Data[0].ID)

	// Falls back to the database when the index fails.
	index.fail = true
	w = c.get("/trainer/employees/search?q=asha")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result.Data, 1)
	assert.Equal(t, "asha@ilink-systems.com", result.Data[0].Email)
}

func TestLoginRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := testConfig()
	cfg.LoginRateLimit = 2
	app := newTestApp(t, cfg, Infra{Sessions: session.NewRedisStoreFromClient(rdb), Redis: rdb})
	c := app.client(t)

	form := url.Values{"email": {"nobody@x.com"}, "password": {"nope"}}
	assert.Equal(t, http.StatusOK, c.post("/employee/login", form).Code)
	assert.Equal(t, http.StatusOK, c.post("/employee/login", form).Code)

	w := c.post("/employee/login", form)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", decode(t, w).Error.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// Other routes are not limited.
	assert.Equal(t, http.StatusOK, c.post("/trainer/login", form).Code)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, testConfig(), Infra{})
	w := app.client(t).get("/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "disabled", body["cache"])
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	cfg := testConfig()
	cfg.CORSOrigins = []string{"http://localhost:5173"}
	app := newTestApp(t, cfg, Infra{})

	req := httptest.NewRequest(http.MethodOptions, "/trainer/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	app.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRegisterWithLongPassword(t *testing.T) {
	app := newTestApp(t, testConfig(), Infra{})
	c := app.client(t)
	password := strings.Repeat("p", 80)

	assertRedirect(t, c.post("/trainer/register", url.Values{"name": {"Lead"}, "email": {"lead@x.com"}, "password": {password}}), "/trainer/login")
	assertRedirect(t, c.post("/trainer/login", url.Values{"email": {"lead@x.com"}, "password": {password}}), "/trainer/dashboard")

	e := app.client(t)
	assertRedirect(t, e.post("/employee/register", url.Values{"name": {"Asha"}, "email": {"asha@ilink-systems.com"}, "password": {password}}), "/employee/login")
	assertRedirect(t, e.post("/employee/login", url.Values{"email": {"asha@ilink-systems.com"}, "password": {password}}), "/employee/dashboard")

	w := e.post("/employee/login", url.Values{"email": {"asha@ilink-systems.com"}, "password": {strings.Repeat("p", 72)}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "login_employee", decode(t, w).View)
}
