package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/easeaico/mindcare/internal/chat"
	"github.com/easeaico/mindcare/internal/mood"
	"github.com/easeaico/mindcare/internal/types"
)

type fakeChatService struct {
	sendErr    error
	historyErr error
	history    []types.ChatMessage
	moods      []types.MoodCount
	lastIP     string
	lastLimit  int
}

func (f *fakeChatService) CreateSession(ctx context.Context, userIP string) (*types.Session, error) {
	f.lastIP = userIP
	return &types.Session{ID: 1, SessionID: "sess-1", UserIP: userIP}, nil
}

func (f *fakeChatService) Send(ctx context.Context, sessionID, text string) (*chat.Reply, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	if sessionID != "sess-1" {
		return nil, chat.ErrInvalidSession
	}
	if strings.TrimSpace(text) == "" {
		return nil, chat.ErrMissingFields
	}
	return &chat.Reply{Response: "I'm here.", Mood: mood.Sad, Confidence: 0.3}, nil
}

func (f *fakeChatService) History(ctx context.Context, sessionID string, limit int) ([]types.ChatMessage, error) {
	f.lastLimit = limit
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	if sessionID != "sess-1" {
		return nil, chat.ErrInvalidSession
	}
	return f.history, nil
}

func (f *fakeChatService) MoodAnalytics(ctx context.Context, sessionID string) ([]types.MoodCount, error) {
	if sessionID != "sess-1" {
		return nil, chat.ErrInvalidSession
	}
	return f.moods, nil
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealth(t *testing.T) {
	srv := New(&fakeChatService{}, Options{})
	rec := doRequest(t, srv.Handler(), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["status"] != "healthy" {
		t.Fatalf("unexpected body: %v", body)
	}

	srv = New(&fakeChatService{}, Options{HealthCheck: func(ctx context.Context) error {
		return errors.New("db down")
	}})
	rec = doRequest(t, srv.Handler(), http.MethodGet, "/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestCreateSessionEndpoint(t *testing.T) {
	svc := &fakeChatService{}
	srv := New(svc, Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/session/create", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["session_id"] != "sess-1" || body["success"] != true {
		t.Fatalf("unexpected body: %v", body)
	}
	if svc.lastIP != "203.0.113.7" {
		t.Fatalf("expected forwarded ip, got %q", svc.lastIP)
	}
}

func TestChatEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		sendErr error
		status  int
	}{
		{name: "ok", body: `{"session_id":"sess-1","message":"I feel down"}`, status: http.StatusOK},
		{name: "missing message", body: `{"session_id":"sess-1"}`, status: http.StatusBadRequest},
		{name: "missing session", body: `{"message":"hi"}`, status: http.StatusBadRequest},
		{name: "bad json", body: `{`, status: http.StatusBadRequest},
		{name: "empty message", body: `{"session_id":"sess-1","message":" "}`, status: http.StatusBadRequest},
		{name: "unknown session", body: `{"session_id":"nope","message":"hi"}`, status: http.StatusNotFound},
		{name: "internal", body: `{"session_id":"sess-1","message":"hi"}`, sendErr: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := New(&fakeChatService{sendErr: tt.sendErr}, Options{})
			rec := doRequest(t, srv.Handler(), http.MethodPost, "/api/chat", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d (%s)", tt.status, rec.Code, rec.Body.String())
			}
			body := decodeBody(t, rec)
			if tt.status == http.StatusOK {
				if body["mood"] != "sad" || body["is_crisis"] != false || body["success"] != true {
					t.Fatalf("unexpected body: %v", body)
				}
				return
			}
			if body["success"] != false || body["error"] == "" {
				t.Fatalf("expected error body, got %v", body)
			}
		})
	}
}

func TestChatRateLimit(t *testing.T) {
	srv := New(&fakeChatService{}, Options{RateLimitRPM: 1, RateLimitBurst: 2})
	body := `{"session_id":"sess-1","message":"hello"}`

	for i := 0; i < 2; i++ {
		if rec := doRequest(t, srv.Handler(), http.MethodPost, "/api/chat", body); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
	if rec := doRequest(t, srv.Handler(), http.MethodPost, "/api/chat", body); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestChatRateLimitIgnoresForwardedForByDefault(t *testing.T) {
	srv := New(&fakeChatService{}, Options{RateLimitRPM: 1, RateLimitBurst: 2})
	body := `{"session_id":"sess-1","message":"hello"}`

	limited := false
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			if i != 2 {
				t.Fatalf("expected third request to be limited, got request %d", i)
			}
			break
		}
	}
	if !limited {
		t.Fatalf("rotating X-Forwarded-For must not bypass the limiter")
	}
	if n := len(srv.limiter.clients); n != 1 {
		t.Fatalf("expected one limiter entry, got %d", n)
	}
}

func TestChatRateLimitTrustProxy(t *testing.T) {
	srv := New(&fakeChatService{}, Options{RateLimitRPM: 1, RateLimitBurst: 1, TrustProxy: true})
	body := `{"session_id":"sess-1","message":"hello"}`

	send := func(fwd string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
		req.Header.Set("X-Forwarded-For", fwd)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		return rec.Code
	}
	if code := send("203.0.113.1"); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if code := send("203.0.113.2"); code != http.StatusOK {
		t.Fatalf("distinct forwarded clients should have their own bucket, got %d", code)
	}
	if code := send("203.0.113.1"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	svc := &fakeChatService{}
	srv := New(svc, Options{})

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/history/sess-1?limit=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastLimit != 5 {
		t.Fatalf("expected limit 5, got %d", svc.lastLimit)
	}
	if !strings.Contains(rec.Body.String(), `"history":[]`) {
		t.Fatalf("expected empty history list, got %s", rec.Body.String())
	}

	rec = doRequest(t, srv.Handler(), http.MethodGet, "/api/history/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	svc.historyErr = errors.New("db down")
	rec = doRequest(t, srv.Handler(), http.MethodGet, "/api/history/sess-1", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestMoodAnalyticsEndpoint(t *testing.T) {
	svc := &fakeChatService{moods: []types.MoodCount{{Mood: "sad", Count: 2}}}
	srv := New(svc, Options{})

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/mood-analytics/sess-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Success bool              `json:"success"`
		Moods   []types.MoodCount `json:"moods"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if !body.Success || len(body.Moods) != 1 || body.Moods[0].Count != 2 {
		t.Fatalf("unexpected body: %+v", body)
	}

	rec = doRequest(t, srv.Handler(), http.MethodGet, "/api/mood-analytics/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestResourcesEndpoint(t *testing.T) {
	srv := New(&fakeChatService{}, Options{})
	rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/resources", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "988") {
		t.Fatalf("expected lifeline in resources, got %s", rec.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := New(&fakeChatService{}, Options{CORSOrigin: "https://app.example.com"})
	rec := doRequest(t, srv.Handler(), http.MethodOptions, "/api/chat", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	if got := clientIP(req); got != "192.0.2.1" {
		t.Fatalf("expected remote host, got %q", got)
	}
	req.Header.Set("X-Forwarded-For", " 198.51.100.2 ,10.0.0.1")
	if got := clientIP(req); got != "198.51.100.2" {
		t.Fatalf("expected forwarded host, got %q", got)
	}
}

func TestClientLimiter(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newClientLimiter(60, 1)
	l.now = func() time.Time { return now }

	if !l.Allow("a") {
		t.Fatalf("first request should pass")
	}
	if l.Allow("a") {
		t.Fatalf("second immediate request should be limited")
	}
	if !l.Allow("b") {
		t.Fatalf("other clients have their own bucket")
	}

	now = now.Add(time.Second)
	if !l.Allow("a") {
		t.Fatalf("token should refill after one second")
	}

	now = now.Add(limiterIdleTTL + time.Minute)
	l.Allow("c")
	if _, ok := l.clients["a"]; ok {
		t.Fatalf("idle client should be swept")
	}

	unlimited := newClientLimiter(0, 0)
	for i := 0; i < 100; i++ {
		if !unlimited.Allow("x") {
			t.Fatalf("disabled limiter should always allow")
		}
	}
}

func TestWebsocketChat(t *testing.T) {
	srv := New(&fakeChatService{}, Options{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/chat?session_id=sess-1"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"message": "I feel down"}); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	var reply chatResponse
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("failed to read: %v", err)
	}
	if !reply.Success || reply.Mood != "sad" {
		t.Fatalf("unexpected reply: %+v", reply)
	}
}

func TestWebsocketRequiresSession(t *testing.T) {
	srv := New(&fakeChatService{}, Options{})
	rec := doRequest(t, srv.Handler(), http.MethodGet, "/ws/chat", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestWebsocketFramesAreRateLimited(t *testing.T) {
	// The upgrade request takes one token, leaving two for frames.
	srv := New(&fakeChatService{}, Options{RateLimitRPM: 1, RateLimitBurst: 3})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/chat?session_id=sess-1"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer conn.Close()

	var ok, limited int
	for i := 0; i < 6; i++ {
		if err := conn.WriteJSON(map[string]string{"message": "I feel down"}); err != nil {
			t.Fatalf("failed to write frame %d: %v", i, err)
		}
		var reply map[string]any
		if err := conn.ReadJSON(&reply); err != nil {
			t.Fatalf("failed to read frame %d: %v", i, err)
		}
		switch {
		case reply["success"] == true:
			ok++
		case reply["error"] == errRateLimited:
			limited++
		default:
			t.Fatalf("unexpected reply: %v", reply)
		}
	}
	if ok != 2 || limited != 4 {
		t.Fatalf("expected 2 accepted and 4 limited frames, got %d and %d", ok, limited)
	}
}
