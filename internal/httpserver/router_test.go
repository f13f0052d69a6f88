package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jacket-survey/internal/domain"
	"jacket-survey/internal/metrics"
	"jacket-survey/internal/recommend"
	inventorysvc "jacket-survey/internal/service/inventory"
	membersvc "jacket-survey/internal/service/member"
	recommendsvc "jacket-survey/internal/service/recommendation"
	"jacket-survey/internal/validation"

	"github.com/gin-gonic/gin"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type stubMemberService struct {
	record    *domain.MemberRecord
	page      *membersvc.Page
	mirror    *membersvc.MirrorPage
	mirrorIn  membersvc.MirrorInput
	report    *domain.Report
	err       error
	search    membersvc.SearchInput
	sizeIn    membersvc.SizeInput
	pickup    domain.Pickup
	lastCode  string
	lastStaff string
}

func (s *stubMemberService) Lookup(_ context.Context, code string) (*domain.MemberRecord, error) {
	s.lastCode = code
	return s.record, s.err
}

func (s *stubMemberService) Search(_ context.Context, in membersvc.SearchInput) (*membersvc.Page, error) {
	s.search = in
	return s.page, s.err
}

func (s *stubMemberService) RecordSize(_ context.Context, code string, in membersvc.SizeInput, staff string) (*domain.MemberRecord, error) {
	s.lastCode, s.sizeIn, s.lastStaff = code, in, staff
	return s.record, s.err
}

func (s *stubMemberService) ConfirmPickup(_ context.Context, code string, p domain.Pickup, staff string) (*domain.MemberRecord, error) {
	s.lastCode, s.pickup, s.lastStaff = code, p, staff
	return s.record, s.err
}

func (s *stubMemberService) Report(context.Context) (*domain.Report, error) {
	return s.report, s.err
}

func (s *stubMemberService) Mirrored(_ context.Context, in membersvc.MirrorInput) (*membersvc.MirrorPage, error) {
	s.mirrorIn = in
	return s.mirror, s.err
}

func (s *stubMemberService) MirroredMember(_ context.Context, code string) (*domain.MemberRecord, error) {
	s.lastCode = code
	return s.record, s.err
}

type stubRecommendService struct {
	out     *recommendsvc.Output
	history []domain.Recommendation
	err     error
	in      recommendsvc.Input
}

func (s *stubRecommendService) Recommend(_ context.Context, in recommendsvc.Input) (*recommendsvc.Output, error) {
	s.in = in
	return s.out, s.err
}

func (s *stubRecommendService) History(context.Context, string) ([]domain.Recommendation, error) {
	return s.history, s.err
}

func (s *stubRecommendService) Chart() recommend.Chart {
	return recommend.DefaultChart
}

type stubInventoryService struct {
	stock *inventorysvc.Stock
	err   error
}

func (s *stubInventoryService) Stock(context.Context) (*inventorysvc.Stock, error) {
	return s.stock, s.err
}

type testDeps struct {
	members   *stubMemberService
	recommend *stubRecommendService
	inventory *stubInventoryService
}

func newTestRouter(t *testing.T, m *metrics.Metrics) (*gin.Engine, *testDeps) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	d := &testDeps{
		members:   &stubMemberService{},
		recommend: &stubRecommendService{},
		inventory: &stubInventoryService{},
	}
	router, err := buildRouter(logDiscard(), nil, Deps{
		MemberSvc:      d.members,
		RecommendSvc:   d.recommend,
		InventorySvc:   d.inventory,
		Metrics:        m,
		AllowedOrigins: []string{"http://localhost:3000"},
	})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router, d
}

func doRequest(router http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestBuildRouter_RequiresServices(t *testing.T) {
	if _, err := buildRouter(logDiscard(), nil, Deps{}); err == nil {
		t.Fatalf("expected error without services")
	}
}

func TestHealthAndReady(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	if rec := doRequest(router, http.MethodGet, "/healthz", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected healthz 200, got %d", rec.Code)
	}
	rec := doRequest(router, http.MethodGet, "/readyz", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"mirror":"disabled"`) {
		t.Fatalf("expected ready without mirror, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRequestID(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	rec := doRequest(router, http.MethodGet, "/healthz", "", map[string]string{requestIDHeader: "abc-123"})
	if got := rec.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("expected request id echoed, got %q", got)
	}
	rec = doRequest(router, http.MethodGet, "/healthz", "", nil)
	if got := rec.Header().Get(requestIDHeader); len(got) != 36 {
		t.Fatalf("expected generated uuid, got %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	rec := doRequest(router, http.MethodOptions, "/v1/members", "", map[string]string{
		"Origin":                        "http://localhost:3000",
		"Access-Control-Request-Method": http.MethodGet,
	})
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected allowed origin, got %q (status %d)", got, rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.New()
	router, _ := newTestRouter(t, m)

	doRequest(router, http.MethodGet, "/healthz", "", nil)
	rec := doRequest(router, http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected metrics 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `jacket_survey_http_requests_total{method="GET",route="/healthz",status="200"} 1`) {
		t.Fatalf("expected healthz request counted, got:\n%s", rec.Body.String())
	}
}

func TestNoRoute(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	rec := doRequest(router, http.MethodGet, "/v1/unknown", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.StatusCode != http.StatusNotFound || len(resp.Errors) != 1 {
		t.Fatalf("unexpected error body %+v", resp)
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("member 1: %w", domain.ErrNotFound), http.StatusNotFound, "ResourceNotFound"},
		{fmt.Errorf("bad: %w", domain.ErrInvalidArgument), http.StatusBadRequest, "InvalidInput"},
		{fmt.Errorf("taken: %w", domain.ErrConflict), http.StatusConflict, "ConcurrentModification"},
		{fmt.Errorf("down: %w", domain.ErrUpstreamUnavailable), http.StatusBadGateway, "UpstreamUnavailable"},
		{membersvc.ErrMirrorDisabled, http.StatusServiceUnavailable, "MirrorDisabled"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "General"},
	}
	for _, tc := range cases {
		router, d := newTestRouter(t, nil)
		d.members.err = tc.err
		rec := doRequest(router, http.MethodGet, "/v1/members/0001", "", nil)
		if rec.Code != tc.status {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.status, rec.Code)
		}
		resp := decodeError(t, rec)
		if resp.StatusCode != tc.status || resp.Errors[0].Code != tc.code {
			t.Fatalf("%v: unexpected body %+v", tc.err, resp)
		}
	}
}

func TestErrorMapping_ValidationFields(t *testing.T) {
	router, d := newTestRouter(t, nil)
	d.recommend.err = &validation.Error{Fields: map[string]string{"weightKg": "gt", "heightCm": "gt"}}

	rec := doRequest(router, http.MethodPost, "/v1/recommendations", `{"heightCm":0,"weightKg":0}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	resp := decodeError(t, rec)
	if len(resp.Errors) != 2 || resp.Errors[0].Field != "heightCm" || resp.Errors[1].Field != "weightKg" {
		t.Fatalf("expected sorted field errors, got %+v", resp.Errors)
	}
}
