package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/coursehub/internal/logging"
	"github.com/dmitrijs2005/coursehub/internal/server/auth"
	"github.com/dmitrijs2005/coursehub/internal/server/config"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/coursehub/internal/server/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	handler http.Handler
	codec   *auth.Codec
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()

	codec, err := auth.NewCodec(map[models.Kind][]byte{
		models.KindUser:  []byte(cfg.UserSecretKey),
		models.KindAdmin: []byte(cfg.AdminSecretKey),
	}, 0)
	require.NoError(t, err)
	hasher, err := auth.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)

	m := repomanager.NewMemoryRepositoryManager()
	srv := NewHTTPServer(":0", time.Second, logging.Nop{}, NewMetrics(), codec,
		services.NewAuthService(m, codec, hasher),
		services.NewCourseService(m, cfg),
		services.NewPurchaseService(m),
	)
	return &testEnv{handler: srv.Handler(), codec: codec}
}

type response struct {
	status int
	body   map[string]any
	raw    string
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) response {
	t.Helper()

	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		buf, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set("token", token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	res := response{status: rec.Code, raw: rec.Body.String()}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res.body), rec.Body.String())
	}
	return res
}

func (e *testEnv) signupAndSignin(t *testing.T, kind, email string) string {
	t.Helper()
	res := e.do(t, http.MethodPost, "/api/v1/"+kind+"/signup", "", map[string]any{
		"email": email, "password": "secret1", "firstname": "F", "lastname": "L",
	})
	require.Equal(t, http.StatusCreated, res.status, res.raw)

	res = e.do(t, http.MethodPost, "/api/v1/"+kind+"/signin", "", map[string]any{
		"email": email, "password": "secret1",
	})
	require.Equal(t, http.StatusOK, res.status, res.raw)
	token, _ := res.body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (e *testEnv) createCourse(t *testing.T, adminToken string) string {
	t.Helper()
	res := e.do(t, http.MethodPost, "/api/v1/admin/course", adminToken, map[string]any{
		"title": "Go", "description": "intro", "price": 10, "imageUrl": "u",
	})
	require.Equal(t, http.StatusOK, res.status, res.raw)
	id, _ := res.body["courseId"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestEndToEndPurchaseFlow(t *testing.T) {
	e := newTestEnv(t)

	adminToken := e.signupAndSignin(t, "admin", "admin@x.com")
	courseID := e.createCourse(t, adminToken)

	userToken := e.signupAndSignin(t, "user", "user@x.com")

	res := e.do(t, http.MethodPost, "/api/v1/course/purchase/"+courseID, userToken, nil)
	require.Equal(t, http.StatusOK, res.status, res.raw)
	purchase := res.body["populatedPurchase"].(map[string]any)
	course := purchase["courseId"].(map[string]any)
	assert.Equal(t, courseID, course["_id"])
	assert.Equal(t, "Go", course["title"])
	assert.Equal(t, 10.0, course["price"])

	res = e.do(t, http.MethodPost, "/api/v1/course/purchase/"+courseID, userToken, nil)
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "You already bought the course", res.body["message"])

	res = e.do(t, http.MethodGet, "/api/v1/user/purchases", userToken, nil)
	require.Equal(t, http.StatusOK, res.status)
	list := res.body["purchasedCourses"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, courseID, list[0].(map[string]any)["courseId"].(map[string]any)["_id"])
}

func TestAuthGuard(t *testing.T) {
	e := newTestEnv(t)
	userToken := e.signupAndSignin(t, "user", "u@x.com")
	adminToken := e.signupAndSignin(t, "admin", "a@x.com")

	res := e.do(t, http.MethodGet, "/api/v1/admin/course/bulk", "", nil)
	assert.Equal(t, http.StatusForbidden, res.status)
	assert.Equal(t, "Please sign in again!", res.body["message"])

	res = e.do(t, http.MethodGet, "/api/v1/admin/course/bulk", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, res.status)
	assert.Equal(t, "Invalid token", res.body["message"])

	// a user token never passes an admin check and vice versa
	res = e.do(t, http.MethodGet, "/api/v1/admin/course/bulk", userToken, nil)
	assert.Equal(t, http.StatusUnauthorized, res.status)
	res = e.do(t, http.MethodGet, "/api/v1/user/purchases", adminToken, nil)
	assert.Equal(t, http.StatusUnauthorized, res.status)

	res = e.do(t, http.MethodGet, "/api/v1/admin/course/bulk", adminToken, nil)
	assert.Equal(t, http.StatusOK, res.status)
}

func TestAuthGuard_BearerHeader(t *testing.T) {
	e := newTestEnv(t)
	userToken := e.signupAndSignin(t, "user", "u@x.com")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user/purchases", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSignup_Errors(t *testing.T) {
	e := newTestEnv(t)

	res := e.do(t, http.MethodPost, "/api/v1/user/signup", "", map[string]any{
		"email": "bad", "password": "123", "firstname": "", "lastname": "L",
	})
	require.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "Enter the correct credentials", res.body["message"])
	errs := res.body["errors"].(map[string]any)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
	assert.Contains(t, errs, "firstname")
	assert.NotContains(t, errs, "lastname")

	res = e.do(t, http.MethodPost, "/api/v1/user/signup", "", "{not json")
	assert.Equal(t, http.StatusBadRequest, res.status)

	e.signupAndSignin(t, "user", "dup@x.com")
	res = e.do(t, http.MethodPost, "/api/v1/user/signup", "", map[string]any{
		"email": "dup@x.com", "password": "secret1", "firstname": "F", "lastname": "L",
	})
	assert.Equal(t, http.StatusConflict, res.status)
	assert.Equal(t, "Email already exists", res.body["message"])

	// same email as admin is fine
	res = e.do(t, http.MethodPost, "/api/v1/admin/signup", "", map[string]any{
		"email": "dup@x.com", "password": "secret1", "firstname": "F", "lastname": "L",
	})
	assert.Equal(t, http.StatusCreated, res.status)
}

func TestSignin_FailuresShareResponse(t *testing.T) {
	e := newTestEnv(t)
	e.signupAndSignin(t, "user", "known@x.com")

	wrong := e.do(t, http.MethodPost, "/api/v1/user/signin", "", map[string]any{"email": "known@x.com", "password": "secret2"})
	unknown := e.do(t, http.MethodPost, "/api/v1/user/signin", "", map[string]any{"email": "ghost@x.com", "password": "secret1"})

	assert.Equal(t, http.StatusUnauthorized, wrong.status)
	assert.Equal(t, wrong.status, unknown.status)
	assert.Equal(t, wrong.raw, unknown.raw)
}

func TestUpdateCourse_OwnershipGuard(t *testing.T) {
	e := newTestEnv(t)
	ownerToken := e.signupAndSignin(t, "admin", "owner@x.com")
	otherToken := e.signupAndSignin(t, "admin", "other@x.com")
	courseID := e.createCourse(t, ownerToken)

	changes := map[string]any{"title": "Go 2", "description": "more", "price": 20, "imageUrl": "v"}

	res := e.do(t, http.MethodPut, "/api/v1/admin/course/"+courseID, otherToken, changes)
	assert.Equal(t, http.StatusNotFound, res.status)
	notFound := res.raw

	res = e.do(t, http.MethodPut, "/api/v1/admin/course/"+uuid.NewString(), ownerToken, changes)
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, notFound, res.raw)

	res = e.do(t, http.MethodPut, "/api/v1/admin/course/not-a-uuid", ownerToken, changes)
	assert.Equal(t, http.StatusNotFound, res.status)

	res = e.do(t, http.MethodPut, "/api/v1/admin/course/"+courseID, ownerToken, map[string]any{"title": "x", "description": "d", "price": -1})
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "Enter the correct content", res.body["message"])

	res = e.do(t, http.MethodPut, "/api/v1/admin/course/"+courseID, ownerToken, changes)
	require.Equal(t, http.StatusOK, res.status, res.raw)
	updated := res.body["updatedCourse"].(map[string]any)
	assert.Equal(t, "Go 2", updated["title"])
	assert.Equal(t, 20.0, updated["price"])

	res = e.do(t, http.MethodGet, "/api/v1/course/preview", "", nil)
	require.Equal(t, http.StatusOK, res.status)
	courses := res.body["courses"].([]any)
	require.Len(t, courses, 1)
	assert.Equal(t, "Go 2", courses[0].(map[string]any)["title"])

	res = e.do(t, http.MethodGet, "/api/v1/admin/course/bulk", otherToken, nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.Empty(t, res.body["courses"])
}

func TestPurchase_BadAndUnknownCourse(t *testing.T) {
	e := newTestEnv(t)
	userToken := e.signupAndSignin(t, "user", "u@x.com")

	res := e.do(t, http.MethodPost, "/api/v1/course/purchase/xyz", userToken, nil)
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "Wrong courseId", res.body["message"])

	res = e.do(t, http.MethodPost, "/api/v1/course/purchase/"+uuid.NewString(), userToken, nil)
	assert.Equal(t, http.StatusNotFound, res.status)
}

func TestPurchase_ConcurrentRequests(t *testing.T) {
	e := newTestEnv(t)
	adminToken := e.signupAndSignin(t, "admin", "a@x.com")
	courseID := e.createCourse(t, adminToken)
	userToken := e.signupAndSignin(t, "user", "u@x.com")

	const n = 20
	statuses := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/course/purchase/"+courseID, nil)
			req.Header.Set("token", userToken)
			rec := httptest.NewRecorder()
			e.handler.ServeHTTP(rec, req)
			statuses[i] = rec.Code
		}(i)
	}
	wg.Wait()

	counts := map[int]int{}
	for _, s := range statuses {
		counts[s]++
	}
	assert.Equal(t, 1, counts[http.StatusOK])
	assert.Equal(t, n-1, counts[http.StatusBadRequest])

	res := e.do(t, http.MethodGet, "/api/v1/user/purchases", userToken, nil)
	assert.Len(t, res.body["purchasedCourses"], 1)

	metrics := e.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, metrics.status)
	assert.Contains(t, metrics.raw, `purchases_total{outcome="success"} 1`)
	assert.Contains(t, metrics.raw, fmt.Sprintf(`purchases_total{outcome="duplicate"} %d`, n-1))
	assert.Contains(t, metrics.raw, `http_requests_total{method="POST",route="/api/v1/course/purchase/{courseId}",status="200"} 1`)
}

func TestHealthAndNotFound(t *testing.T) {
	e := newTestEnv(t)

	res := e.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, res.status)

	res = e.do(t, http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, res.status)
}

type stubCourses struct {
	CourseService
	err error
}

func (s stubCourses) ListAll(context.Context) ([]models.Course, error) { return nil, s.err }
func (s stubCourses) PresignImageUpload(_ context.Context, creatorID string) (string, string, error) {
	if s.err != nil {
		return "", "", s.err
	}
	return "courses/" + creatorID + "/k", "https://s3/put", nil
}

func newStubServer(t *testing.T, cs CourseService) (*HTTPServer, *auth.Codec) {
	t.Helper()
	codec, err := auth.NewCodec(map[models.Kind][]byte{
		models.KindUser:  []byte("u"),
		models.KindAdmin: []byte("a"),
	}, 0)
	require.NoError(t, err)
	return NewHTTPServer(":0", time.Second, logging.Nop{}, NewMetrics(), codec, nil, cs, nil), codec
}

func TestStorageFailureIsHidden(t *testing.T) {
	srv, _ := newStubServer(t, stubCourses{err: errors.New("dial tcp 10.0.0.5:5432: password=hunter2")})
	e := &testEnv{handler: srv.Handler()}

	res := e.do(t, http.MethodGet, "/api/v1/course/preview", "", nil)
	assert.Equal(t, http.StatusInternalServerError, res.status)
	assert.Equal(t, "Internal Server error", res.body["message"])
	assert.NotContains(t, res.raw, "hunter2")
}

func TestPresignImage(t *testing.T) {
	srv, codec := newStubServer(t, stubCourses{})
	e := &testEnv{handler: srv.Handler()}

	token, err := codec.Issue("admin-7", models.KindAdmin)
	require.NoError(t, err)

	res := e.do(t, http.MethodPost, "/api/v1/admin/course/image", token, nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "courses/admin-7/k", res.body["key"])
	assert.Equal(t, "https://s3/put", res.body["uploadUrl"])

	res = e.do(t, http.MethodPost, "/api/v1/admin/course/image", "", nil)
	assert.Equal(t, http.StatusForbidden, res.status)
}

func TestRun_StopsOnCancel(t *testing.T) {
	srv, _ := newStubServer(t, stubCourses{})
	srv.address = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
