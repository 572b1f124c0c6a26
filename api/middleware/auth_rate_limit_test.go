package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	pkgerrors "github.com/sewnstudio/atelier-backend/pkg/errors"
)

type fakeRateStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newFakeRateStore() *fakeRateStore {
	return &fakeRateStore{counts: make(map[string]int64)}
}

func (f *fakeRateStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[key]++
	return f.counts[key], nil
}

func loginRequest(email string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"`+email+`","password":"secret1234"}`))
	req.RemoteAddr = "203.0.113.7:52100"
	return req
}

func TestAuthRateLimitAllowsUnderLimit(t *testing.T) {
	store := newFakeRateStore()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 10, 5)
	var seenBody string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, _ := io.ReadAll(r.Body)
		seenBody = string(payload)
		w.WriteHeader(http.StatusOK)
	})

	resp := httptest.NewRecorder()
	AuthRateLimit(policy, store, nil)(handler).ServeHTTP(resp, loginRequest("shopper@example.com"))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(seenBody, "shopper@example.com") {
		t.Fatalf("downstream handler should still see the request body, got %q", seenBody)
	}
}

func TestAuthRateLimitEmailLimitTriggers(t *testing.T) {
	store := newFakeRateStore()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 100, 2)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mw := AuthRateLimit(policy, store, nil)(handler)

	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		mw.ServeHTTP(resp, loginRequest("Shopper@Example.com"))
		if resp.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200 got %d", i+1, resp.Code)
		}
	}

	resp := httptest.NewRecorder()
	mw.ServeHTTP(resp, loginRequest("shopper@example.com"))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", resp.Code)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse error response: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeRateLimit) {
		t.Fatalf("expected error code %s got %s", pkgerrors.CodeRateLimit, payload.Error.Code)
	}
}

func TestAuthRateLimitIPLimitTriggers(t *testing.T) {
	store := newFakeRateStore()
	policy := NewAuthRateLimitPolicy("register", time.Minute, 2, 0)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	mw := AuthRateLimit(policy, store, nil)(handler)

	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		mw.ServeHTTP(resp, loginRequest("a@example.com"))
		if resp.Code != http.StatusCreated {
			t.Fatalf("attempt %d: expected 201 got %d", i+1, resp.Code)
		}
	}

	resp := httptest.NewRecorder()
	mw.ServeHTTP(resp, loginRequest("b@example.com"))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", resp.Code)
	}
}

func TestAuthRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", 0, 0, 0)
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})
	mw := AuthRateLimit(policy, newFakeRateStore(), nil)(handler)

	for i := 0; i < 50; i++ {
		mw.ServeHTTP(httptest.NewRecorder(), loginRequest("x@example.com"))
	}
	if calls != 50 {
		t.Fatalf("expected all requests forwarded, got %d", calls)
	}
}
