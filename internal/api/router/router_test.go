package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Eepsita12/online-lecture-scheduling-system/config"
	"github.com/Eepsita12/online-lecture-scheduling-system/internal/api/handler"
	"github.com/Eepsita12/online-lecture-scheduling-system/internal/dto"
	"github.com/Eepsita12/online-lecture-scheduling-system/internal/model"
	"github.com/Eepsita12/online-lecture-scheduling-system/internal/service"
	"github.com/Eepsita12/online-lecture-scheduling-system/pkg/jwt"
	"github.com/Eepsita12/online-lecture-scheduling-system/pkg/response"
	"github.com/Eepsita12/online-lecture-scheduling-system/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

// ═══════════════════════════════════════════════════════════
// Stub Services（统计调用次数，验证鉴权失败时无副作用）
// ═══════════════════════════════════════════════════════════

type calls struct{ n int }

type stubAuth struct{ calls }

func (s *stubAuth) RegisterAdministrator(context.Context, *dto.RegisterAdminRequest) (*dto.UserResponse, error) {
	s.n++
	return &dto.UserResponse{}, nil
}
func (s *stubAuth) Login(context.Context, *dto.LoginRequest) (*dto.TokenResponse, error) {
	s.n++
	return &dto.TokenResponse{}, nil
}
func (s *stubAuth) VerifyToken(context.Context, string) (*jwt.Claims, error) { return nil, jwt.ErrTokenInvalid }
func (s *stubAuth) Logout(context.Context, string, time.Time) error          { s.n++; return nil }
func (s *stubAuth) GetCurrentUser(_ context.Context, id string) (*dto.UserResponse, error) {
	s.n++
	return &dto.UserResponse{ID: id}, nil
}

type stubUser struct{ calls }

func (s *stubUser) ProvisionInstructor(context.Context, *dto.CreateInstructorRequest, string) (*dto.CreateInstructorResponse, error) {
	s.n++
	return &dto.CreateInstructorResponse{}, nil
}
func (s *stubUser) ListInstructors(context.Context) ([]dto.UserResponse, error) {
	s.n++
	return nil, nil
}

type stubCourse struct{ calls }

func (s *stubCourse) Create(context.Context, *dto.CreateCourseRequest, string) (*dto.CourseResponse, error) {
	s.n++
	return &dto.CourseResponse{}, nil
}
func (s *stubCourse) GetByID(context.Context, string) (*dto.CourseResponse, error) {
	s.n++
	return &dto.CourseResponse{}, nil
}
func (s *stubCourse) List(context.Context) ([]dto.CourseResponse, error) {
	s.n++
	return nil, nil
}

type stubLecture struct {
	calls
	mineOf string
}

func (s *stubLecture) Assign(context.Context, *dto.AssignLectureRequest, string) (*dto.LectureResponse, error) {
	s.n++
	return &dto.LectureResponse{}, nil
}
func (s *stubLecture) ListAll(context.Context) ([]dto.LectureResponse, error) {
	s.n++
	return nil, nil
}
func (s *stubLecture) ListForInstructor(_ context.Context, id string) ([]dto.LectureResponse, error) {
	s.n++
	s.mineOf = id
	return nil, nil
}

type stubExport struct{ calls }

func (s *stubExport) ExportLectures(context.Context) (*bytes.Buffer, string, error) {
	s.n++
	return bytes.NewBufferString("x"), "a.xlsx", nil
}

// jwtVerifier 仅校验签名与有效期
type jwtVerifier struct{ m *jwt.Manager }

func (v jwtVerifier) VerifyToken(_ context.Context, token string) (*jwt.Claims, error) {
	return v.m.ParseToken(token)
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

type testEnv struct {
	engine  *gin.Engine
	jwtMgr  *jwt.Manager
	user    *stubUser
	course  *stubCourse
	lecture *stubLecture
	export  *stubExport
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, MaxBodyBytes: 1 << 20},
		Auth: config.AuthConfig{
			JWTSecret:      "router-test-secret-0123456789",
			AccessTokenTTL: time.Hour,
		},
	}
}

func setupRouter() *testEnv {
	cfg := testConfig()
	env := &testEnv{
		jwtMgr:  jwt.NewManager(&cfg.Auth),
		user:    &stubUser{},
		course:  &stubCourse{},
		lecture: &stubLecture{},
		export:  &stubExport{},
	}
	h := handler.NewHandler(&service.Service{
		Auth:    &stubAuth{},
		User:    env.user,
		Course:  env.course,
		Lecture: env.lecture,
		Export:  env.export,
	})
	env.engine = Setup(cfg, h, jwtVerifier{env.jwtMgr}, nil, zap.NewNop())
	return env
}

func (e *testEnv) token(t *testing.T, userID string, role model.Role) string {
	t.Helper()
	tok, err := e.jwtMgr.GenerateAccessToken(userID, role)
	if err != nil {
		t.Fatalf("签发 Token 失败: %v", err)
	}
	return tok
}

func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func codeOf(w *httptest.ResponseRecorder) int {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp.Code
}

var courseBody = dto.CreateCourseRequest{Name: "Systems 101", Level: "Beginner", Description: "d"}

// ═══════════════════════════════════════════════════════════
// 鉴权顺序与角色策略
// ═══════════════════════════════════════════════════════════

func TestRouter_MissingToken(t *testing.T) {
	env := setupRouter()

	w := env.do("GET", "/api/v1/courses", "", nil)
	if w.Code != http.StatusUnauthorized || codeOf(w) != 10002 {
		t.Errorf("期望 401/10002，实际 %d/%d", w.Code, codeOf(w))
	}
	if env.course.n != 0 {
		t.Error("未认证请求不应到达 Service")
	}
}

func TestRouter_ExpiredToken(t *testing.T) {
	env := setupRouter()
	expired := jwt.NewManager(&config.AuthConfig{
		JWTSecret:      testConfig().Auth.JWTSecret,
		AccessTokenTTL: -time.Minute,
	})
	tok, _ := expired.GenerateAccessToken("ins-1", model.RoleInstructor)

	w := env.do("GET", "/api/v1/courses", tok, nil)
	if w.Code != http.StatusUnauthorized || codeOf(w) != 10006 {
		t.Errorf("期望 401/10006，实际 %d/%d", w.Code, codeOf(w))
	}
}

func TestRouter_TamperedTokenRejected(t *testing.T) {
	env := setupRouter()
	tok := env.token(t, "ins-1", model.RoleInstructor)

	w := env.do("GET", "/api/v1/courses", tok+"x", nil)
	if w.Code != http.StatusUnauthorized || codeOf(w) != 10002 {
		t.Errorf("期望 401/10002，实际 %d/%d", w.Code, codeOf(w))
	}
}

func TestRouter_InstructorCannotCreateCourse(t *testing.T) {
	env := setupRouter()
	tok := env.token(t, "ins-1", model.RoleInstructor)

	w := env.do("POST", "/api/v1/courses", tok, courseBody)
	if w.Code != http.StatusForbidden || codeOf(w) != 10003 {
		t.Errorf("期望 403/10003，实际 %d/%d", w.Code, codeOf(w))
	}
	if env.course.n != 0 {
		t.Error("越权请求不应产生副作用")
	}
}

func TestRouter_AdminOnlyRoutes(t *testing.T) {
	env := setupRouter()
	insTok := env.token(t, "ins-1", model.RoleInstructor)
	adminTok := env.token(t, "admin-1", model.RoleAdmin)

	routes := []struct {
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"POST", "/api/v1/instructors", dto.CreateInstructorRequest{Name: "Asha", Email: "asha@x.com"}, http.StatusCreated},
		{"GET", "/api/v1/instructors", nil, http.StatusOK},
		{"POST", "/api/v1/courses", courseBody, http.StatusCreated},
		{"POST", "/api/v1/lectures", dto.AssignLectureRequest{
			CourseID:     "7f3c2b0e-4a8f-4d59-9c51-0c8e6a1d2b34",
			InstructorID: "1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed",
			Date:         "2025-03-10",
		}, http.StatusCreated},
		{"GET", "/api/v1/lectures", nil, http.StatusOK},
		{"GET", "/api/v1/export/lectures", nil, http.StatusOK},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			if w := env.do(rt.method, rt.path, insTok, rt.body); w.Code != http.StatusForbidden {
				t.Errorf("讲师访问期望 403，实际 %d", w.Code)
			}
			if w := env.do(rt.method, rt.path, adminTok, rt.body); w.Code != rt.want {
				t.Errorf("管理员访问期望 %d，实际 %d: %s", rt.want, w.Code, w.Body.String())
			}
		})
	}

	if env.user.n != 2 || env.course.n != 1 || env.lecture.n != 2 || env.export.n != 1 {
		t.Errorf("仅管理员请求应到达 Service: user=%d course=%d lecture=%d export=%d",
			env.user.n, env.course.n, env.lecture.n, env.export.n)
	}
}

func TestRouter_AnyAuthenticatedRoutes(t *testing.T) {
	env := setupRouter()
	tok := env.token(t, "ins-1", model.RoleInstructor)

	for _, path := range []string{"/api/v1/courses", "/api/v1/courses/c1", "/api/v1/lectures/my", "/api/v1/auth/me"} {
		if w := env.do("GET", path, tok, nil); w.Code != http.StatusOK {
			t.Errorf("%s 期望 200，实际 %d", path, w.Code)
		}
	}
	if env.lecture.mineOf != "ins-1" {
		t.Errorf("我的排课应按调用者查询，实际 %q", env.lecture.mineOf)
	}
}

func TestRouter_PublicAuthRoutes(t *testing.T) {
	env := setupRouter()

	w := env.do("POST", "/api/v1/auth/login", "", dto.LoginRequest{Email: "a@x.com", Password: "pw"})
	if w.Code != http.StatusOK {
		t.Errorf("登录期望 200，实际 %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("响应应携带 X-Request-ID")
	}
}

func TestRouter_BodyTooLarge(t *testing.T) {
	env := setupRouter()

	big := bytes.Repeat([]byte("a"), 2<<20)
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(big))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge || codeOf(w) != 10005 {
		t.Errorf("期望 413/10005，实际 %d/%d", w.Code, codeOf(w))
	}
}
