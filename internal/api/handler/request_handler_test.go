package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shinypull/internal/model"
	"shinypull/internal/pkg/ratelimit"
	"shinypull/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

type stubRequestService struct {
	submitted [][2]string
	err       error
}

func (s *stubRequestService) Submit(ctx context.Context, platformName, rawUsername string) (*model.CreatorRequest, error) {
	s.submitted = append(s.submitted, [2]string{platformName, rawUsername})
	if s.err != nil {
		return nil, s.err
	}
	return &model.CreatorRequest{ID: 1, Platform: platformName, Username: rawUsername, Status: model.RequestStatusPending}, nil
}

type stubLimiter struct {
	allowed bool
	checked []string
}

func (s *stubLimiter) Check(ctx context.Context, identifier string, maxRequests int, window time.Duration) (*ratelimit.Result, error) {
	s.checked = append(s.checked, identifier)
	return &ratelimit.Result{Allowed: s.allowed}, nil
}

func postRequest(t *testing.T, h *RequestHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/requests", h.Create)

	req := httptest.NewRequest(http.MethodPost, "/api/requests", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) (int, string) {
	t.Helper()
	var envelope struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Code, envelope.Message
}

func TestCreateRequestAccepted(t *testing.T) {
	svc := &stubRequestService{}
	limiter := &stubLimiter{allowed: true}
	h := NewRequestHandler(svc, limiter, 5, time.Hour)

	w := postRequest(t, h, `{"platform":"tiktok","username":"@Nova"}`)

	code, _ := decodeEnvelope(t, w)
	if code != 200 {
		t.Fatalf("code = %d, body = %s", code, w.Body.String())
	}
	if len(svc.submitted) != 1 || svc.submitted[0][0] != "tiktok" {
		t.Errorf("submitted = %v", svc.submitted)
	}
	if len(limiter.checked) != 1 {
		t.Errorf("limiter checked %d times", len(limiter.checked))
	}
}

func TestCreateRequestRejectsBadPayload(t *testing.T) {
	svc := &stubRequestService{}
	h := NewRequestHandler(svc, &stubLimiter{allowed: true}, 5, time.Hour)

	for _, body := range []string{
		`{"platform":"myspace","username":"nova"}`,
		`{"platform":"tiktok","username":"x"}`,
		`{"platform":"tiktok"}`,
	} {
		w := postRequest(t, h, body)
		code, _ := decodeEnvelope(t, w)
		if code != 400 {
			t.Errorf("body %s: code = %d, want 400", body, code)
		}
	}
	if len(svc.submitted) != 0 {
		t.Errorf("invalid payloads reached the service: %v", svc.submitted)
	}
}

func TestCreateRequestRateLimited(t *testing.T) {
	svc := &stubRequestService{}
	h := NewRequestHandler(svc, &stubLimiter{allowed: false}, 5, time.Hour)

	w := postRequest(t, h, `{"platform":"tiktok","username":"nova"}`)
	code, _ := decodeEnvelope(t, w)
	if code != 429 {
		t.Fatalf("code = %d, want 429", code)
	}
	if len(svc.submitted) != 0 {
		t.Error("rate-limited request reached the service")
	}
}

func TestCreateRequestDuplicate(t *testing.T) {
	svc := &stubRequestService{err: service.ErrRequestDuplicate}
	h := NewRequestHandler(svc, &stubLimiter{allowed: true}, 5, time.Hour)

	w := postRequest(t, h, `{"platform":"tiktok","username":"nova"}`)
	code, _ := decodeEnvelope(t, w)
	if code != 400 {
		t.Fatalf("code = %d, want 400", code)
	}
}
