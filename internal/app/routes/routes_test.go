package routes_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yigit/studentrecords/internal/app/controllers"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/routes"
	"github.com/yigit/studentrecords/internal/middleware"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/auth"
	"github.com/yigit/studentrecords/internal/pkg/validation"
	"github.com/yigit/studentrecords/web"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type stubStudents struct {
	createErr error
	deleted   []int64
}

func (s *stubStudents) Create(ctx context.Context, form dto.StudentForm) (*models.Student, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &models.Student{ID: 1, StudentID: form.StudentID}, nil
}

func (s *stubStudents) Get(ctx context.Context, id int64) (*models.Student, error) {
	if id != 7 {
		return nil, apperrors.ErrStudentNotFound
	}
	return &models.Student{ID: 7, FirstName: "Ada", LastName: "Lovelace", Age: 21,
		Gender: models.GenderFemale, Course: "IT", Semester: "3", StudentID: "S-7", Percentage: 88}, nil
}

func (s *stubStudents) Update(ctx context.Context, id int64, form dto.StudentForm) (*models.Student, error) {
	return &models.Student{ID: id}, nil
}

func (s *stubStudents) Delete(ctx context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubStudents) Log(ctx context.Context, query dto.StudentLogQuery) (*dto.StudentLog, error) {
	ada, _ := s.Get(ctx, 7)
	return &dto.StudentLog{Query: query, Students: []*models.Student{ada},
		Pagination: dto.PaginationInfo{CurrentPage: 1, TotalPages: 1, PageSize: 10, TotalItems: 1}}, nil
}

type stubAttendance struct{}

func (stubAttendance) Record(ctx context.Context, form dto.AttendanceForm) (*models.Attendance, error) {
	return &models.Attendance{}, nil
}

func (stubAttendance) Recent(ctx context.Context, limit uint64) ([]*models.Attendance, error) {
	a := models.NewAttendance(7, 17, 15)
	a.Student = &models.Student{ID: 7, FirstName: "Ada", LastName: "Lovelace", Course: "IT"}
	return []*models.Attendance{a}, nil
}

func (stubAttendance) Students(ctx context.Context) ([]*models.Student, error) {
	return nil, nil
}

type stubDashboard struct{}

func (stubDashboard) Summary(ctx context.Context, course string) (*dto.Dashboard, error) {
	return &dto.Dashboard{GenderPerCourse: map[string]dto.GenderBreakdown{}}, nil
}

// stubAuth issues real tokens and remembers which sessions were ended
type stubAuth struct {
	jwt   *auth.JWTService
	ended map[string]bool
}

func (s *stubAuth) session(username string) (*dto.AuthSession, error) {
	user := &models.User{ID: 1, Username: username}
	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthSession{User: user, Token: token.Value, ExpiresAt: token.ExpiresAt}, nil
}

func (s *stubAuth) Signup(ctx context.Context, form dto.SignupForm) (*dto.AuthSession, error) {
	return s.session(form.Username)
}

func (s *stubAuth) Login(ctx context.Context, form dto.LoginForm) (*dto.AuthSession, error) {
	if form.Username != "registrar" || form.Password != "correct-horse" {
		return nil, apperrors.ErrInvalidCredentials
	}
	return s.session(form.Username)
}

func (s *stubAuth) CreateAccount(ctx context.Context, username, password string) (*models.User, error) {
	return &models.User{ID: 2, Username: username}, nil
}

func (s *stubAuth) Authenticate(ctx context.Context, token string) (auth.Identity, error) {
	id, err := s.jwt.ValidateToken(token)
	if err != nil {
		return auth.Identity{}, err
	}
	if s.ended[id.SessionID] {
		return auth.Identity{}, apperrors.ErrSessionRevoked
	}
	return id, nil
}

func (s *stubAuth) Logout(ctx context.Context) error {
	if id := auth.IdentityFromContext(ctx); id.Authenticated() {
		s.ended[id.SessionID] = true
	}
	return nil
}

func (s *stubAuth) PruneSessions(ctx context.Context) (int64, error) {
	return 0, nil
}

type stubExport struct{}

func (stubExport) StudentLogWorkbook(ctx context.Context, query dto.StudentLogQuery) (*excelize.File, error) {
	return excelize.NewFile(), nil
}

func (stubExport) WriteStudentLog(ctx context.Context, query dto.StudentLogQuery, w io.Writer) (int, error) {
	f := excelize.NewFile()
	defer f.Close()
	return 0, f.Write(w)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

type harness struct {
	router   *gin.Engine
	jwt      *auth.JWTService
	auth     *stubAuth
	students *stubStudents
}

func newHarness(t *testing.T, pingErr error) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: testSecret, TokenExp: time.Hour, TokenIssuer: "studentrecords.test"})
	authService := &stubAuth{jwt: jwtService, ended: map[string]bool{}}
	authMiddleware := middleware.NewAuthMiddleware(authService, false)
	students := &stubStudents{}

	templates, err := web.Templates()
	require.NoError(t, err)

	router := gin.New()
	router.Use(middleware.Recovery(), middleware.FlashSessions(testSecret, false))
	router.SetHTMLTemplate(templates)

	routes.SetupRouter(router, routes.Controllers{
		Auth:       controllers.NewAuthController(authService, authMiddleware, zerolog.Nop()),
		Dashboard:  controllers.NewDashboardController(stubDashboard{}),
		Student:    controllers.NewStudentController(students),
		Attendance: controllers.NewAttendanceController(stubAttendance{}),
		Export:     controllers.NewExportController(stubExport{}),
		Page:       controllers.NewPageController(stubPinger{err: pingErr}),
	}, authMiddleware, web.Static())

	return &harness{router: router, jwt: jwtService, auth: authService, students: students}
}

func (h *harness) do(t *testing.T, method, target string, form url.Values, loggedIn bool) *httptest.ResponseRecorder {
	t.Helper()
	token := ""
	if loggedIn {
		issued, err := h.jwt.GenerateToken(&models.User{ID: 1, Username: "registrar"})
		require.NoError(t, err)
		token = issued.Value
	}
	return h.send(t, method, target, form, token)
}

// send issues a request carrying token as the session cookie, if not empty
func (h *harness) send(t *testing.T, method, target string, form url.Values, token string) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	}

	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestAnonymousRequestsRedirectToLogin(t *testing.T) {
	h := newHarness(t, nil)

	w := h.do(t, http.MethodGet, "/dashboard/", nil, false)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login/?next=%2Fdashboard%2F", w.Header().Get("Location"))

	w = h.do(t, http.MethodGet, "/student-log/?page=2", nil, false)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login/?next=%2Fstudent-log%2F%3Fpage%3D2", w.Header().Get("Location"))
}

func TestPublicPagesRender(t *testing.T) {
	h := newHarness(t, nil)

	for _, path := range []string{"/", "/login/", "/signup/", "/about-us/"} {
		w := h.do(t, http.MethodGet, path, nil, false)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestGatedPagesRenderWhenLoggedIn(t *testing.T) {
	h := newHarness(t, nil)

	for _, path := range []string{"/dashboard/", "/add-student/", "/student-log/", "/attendance-log/", "/update-student/7/"} {
		w := h.do(t, http.MethodGet, path, nil, true)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestLogPagesRenderRecords(t *testing.T) {
	h := newHarness(t, nil)

	w := h.do(t, http.MethodGet, "/student-log/", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<td title="Information Technology">IT</td>`)

	w = h.do(t, http.MethodGet, "/attendance-log/", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Ada Lovelace")
	assert.Contains(t, body, `<td class="num">32</td>`)
	assert.Contains(t, body, "53.12%")
	assert.Contains(t, body, `name="days_present" value="0"`)
	assert.Contains(t, body, `name="days_absent" value="0"`)
}

func TestLoginStartsSession(t *testing.T) {
	h := newHarness(t, nil)

	w := h.do(t, http.MethodPost, "/login/", url.Values{"username": {"registrar"}, "password": {"correct-horse"}}, false)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, controllers.DashboardPath, w.Header().Get("Location"))

	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)
}

func TestLoginHonoursLocalNextOnly(t *testing.T) {
	h := newHarness(t, nil)
	creds := func(next string) url.Values {
		return url.Values{"username": {"registrar"}, "password": {"correct-horse"}, "next": {next}}
	}

	w := h.do(t, http.MethodPost, "/login/", creds("/student-log/?page=2"), false)
	assert.Equal(t, "/student-log/?page=2", w.Header().Get("Location"))

	w = h.do(t, http.MethodPost, "/login/", creds("//evil.example.com/"), false)
	assert.Equal(t, controllers.DashboardPath, w.Header().Get("Location"))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	h := newHarness(t, nil)

	w := h.do(t, http.MethodPost, "/login/", url.Values{"username": {"registrar"}, "password": {"nope"}}, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please enter a correct username and password.")
	assert.Nil(t, sessionCookie(w))
}

func TestLogoutClearsSession(t *testing.T) {
	h := newHarness(t, nil)

	w := h.do(t, http.MethodPost, "/logout/", nil, true)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, middleware.LoginPath, w.Header().Get("Location"))
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)

	w = h.do(t, http.MethodGet, "/logout/", nil, true)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Nil(t, sessionCookie(w))
}

func TestLoggedOutTokenCannotBeReplayed(t *testing.T) {
	h := newHarness(t, nil)

	w := h.do(t, http.MethodPost, "/login/", url.Values{"username": {"registrar"}, "password": {"correct-horse"}}, false)
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	token := cookie.Value

	w = h.send(t, http.MethodGet, "/dashboard/", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = h.send(t, http.MethodPost, "/logout/", url.Values{}, token)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Len(t, h.auth.ended, 1)

	w = h.send(t, http.MethodGet, "/dashboard/", nil, token)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login/?next=%2Fdashboard%2F", w.Header().Get("Location"))
	cleared := sessionCookie(w)
	require.NotNil(t, cleared)
	assert.Less(t, cleared.MaxAge, 0)
}

func TestDeleteRequiresPost(t *testing.T) {
	h := newHarness(t, nil)

	w := h.do(t, http.MethodGet, "/delete-student/5/", nil, true)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, controllers.StudentLogPath, w.Header().Get("Location"))
	assert.Empty(t, h.students.deleted)

	w = h.do(t, http.MethodPost, "/delete-student/5/", url.Values{}, true)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, []int64{5}, h.students.deleted)
}

func TestUnknownStudentIsNotFound(t *testing.T) {
	h := newHarness(t, nil)

	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodGet, "/update-student/abc/", nil, true).Code)
	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodGet, "/update-student/99/", nil, true).Code)
	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodGet, "/no-such-page/", nil, true).Code)
}

func TestAddStudentValidationRerendersForm(t *testing.T) {
	h := newHarness(t, nil)
	var errs validation.Errors
	errs.Add("student_id", "Student with this Student id already exists.")
	h.students.createErr = errs

	w := h.do(t, http.MethodPost, "/add-student/", url.Values{"first_name": {"Ada"}, "student_id": {"S-1"}}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Student with this Student id already exists.")
	assert.Contains(t, w.Body.String(), `value="Ada"`)
}

func TestAddStudentRedirectsToLog(t *testing.T) {
	h := newHarness(t, nil)

	w := h.do(t, http.MethodPost, "/add-student/", url.Values{"student_id": {"S-1"}}, true)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, controllers.StudentLogPath, w.Header().Get("Location"))
}

func TestExportDownloadsWorkbook(t *testing.T) {
	h := newHarness(t, nil)

	w := h.do(t, http.MethodGet, "/student-log/export/?course=IT", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, controllers.XLSXContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment;")
	assert.NotZero(t, w.Body.Len())
}

func TestHealthz(t *testing.T) {
	assert.Equal(t, http.StatusOK, newHarness(t, nil).do(t, http.MethodGet, "/healthz", nil, false).Code)
	assert.Equal(t, http.StatusServiceUnavailable,
		newHarness(t, errors.New("down")).do(t, http.MethodGet, "/healthz", nil, false).Code)
}
