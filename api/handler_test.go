package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/reena96/unseenedgeai-sub001/core"
	"github.com/reena96/unseenedgeai-sub001/metrics"
	"github.com/reena96/unseenedgeai-sub001/store"
)

func TestCheckRateLimit_AdmitsCalls(t *testing.T) {
	storage := store.NewMemoryStore()
	policy := core.Config{
		CallsPerMinute: 10,
		CallsPerHour:   100,
	}
	handler := NewHandler(storage, policy, nil, nil)

	reqBody := CheckRequest{Resource: "openai-chat"}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/check", bytes.NewBuffer(body))
	w := httptest.NewRecorder()

	handler.CheckRateLimit(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp CheckResponse
	json.NewDecoder(w.Body).Decode(&resp)

	if !resp.Allowed {
		t.Error("Call should be admitted")
	}
	if resp.CallsPerMinute != 10 {
		t.Errorf("CallsPerMinute = %.0f, want 10", resp.CallsPerMinute)
	}
	if resp.MinuteRemaining != 9 {
		t.Errorf("MinuteRemaining = %.0f, want 9", resp.MinuteRemaining)
	}
}

func TestCheckRateLimit_BlocksWhenExceeded(t *testing.T) {
	storage := store.NewMemoryStore()
	policy := core.Config{
		CallsPerMinute: 5,
		CallsPerHour:   100,
	}
	handler := NewHandler(storage, policy, nil, nil)

	// Drain the minute window
	for i := 0; i < 5; i++ {
		reqBody := CheckRequest{Resource: "openai-chat"}
		body, _ := json.Marshal(reqBody)
		req := httptest.NewRequest(http.MethodPost, "/check", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		handler.CheckRateLimit(w, req)
	}

	reqBody := CheckRequest{Resource: "openai-chat"}
	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/check", bytes.NewBuffer(body))
	w := httptest.NewRecorder()

	handler.CheckRateLimit(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}

	var resp CheckResponse
	json.NewDecoder(w.Body).Decode(&resp)

	if resp.Allowed {
		t.Error("Call should be blocked")
	}
	if resp.Window != "minute" {
		t.Errorf("Window = %s, want minute", resp.Window)
	}
	if resp.RetryAfterMs <= 0 {
		t.Error("RetryAfterMs should be positive when blocked")
	}
}

func TestCheckRateLimit_RequiresResource(t *testing.T) {
	storage := store.NewMemoryStore()
	policy := core.Config{CallsPerMinute: 10, CallsPerHour: 100}
	handler := NewHandler(storage, policy, nil, nil)

	reqBody := CheckRequest{}
	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/check", bytes.NewBuffer(body))
	w := httptest.NewRecorder()

	handler.CheckRateLimit(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestCheckRateLimit_ResourcePolicy(t *testing.T) {
	storage := store.NewMemoryStore()
	defaultPolicy := core.Config{CallsPerMinute: 10, CallsPerHour: 100}
	policies := map[string]core.Config{
		"anthropic-messages": {CallsPerMinute: 50, CallsPerHour: 800},
	}
	handler := NewHandler(storage, defaultPolicy, policies, nil)

	reqBody := CheckRequest{Resource: "anthropic-messages"}
	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/check", bytes.NewBuffer(body))
	w := httptest.NewRecorder()

	handler.CheckRateLimit(w, req)

	var resp CheckResponse
	json.NewDecoder(w.Body).Decode(&resp)

	if resp.CallsPerMinute != 50 {
		t.Errorf("CallsPerMinute = %.0f, want 50 (resource policy)", resp.CallsPerMinute)
	}
}

func TestCheckRateLimit_RequestOverrides(t *testing.T) {
	storage := store.NewMemoryStore()
	defaultPolicy := core.Config{CallsPerMinute: 10, CallsPerHour: 100}
	handler := NewHandler(storage, defaultPolicy, nil, nil)

	customMinute := 20.0
	reqBody := CheckRequest{
		Resource:       "gemini-generate",
		CallsPerMinute: &customMinute,
	}
	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/check", bytes.NewBuffer(body))
	w := httptest.NewRecorder()

	handler.CheckRateLimit(w, req)

	var resp CheckResponse
	json.NewDecoder(w.Body).Decode(&resp)

	if resp.CallsPerMinute != 20 {
		t.Errorf("CallsPerMinute = %.0f, want 20 (request override)", resp.CallsPerMinute)
	}
}

func TestCheckRateLimit_RecordsMetrics(t *testing.T) {
	storage := store.NewMemoryStore()
	policy := core.Config{CallsPerMinute: 1, CallsPerHour: 100}
	tracker := metrics.NewMetrics()
	handler := NewHandler(storage, policy, nil, tracker)

	for i := 0; i < 3; i++ {
		reqBody := CheckRequest{Resource: "openai-chat"}
		body, _ := json.Marshal(reqBody)
		req := httptest.NewRequest(http.MethodPost, "/check", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		handler.CheckRateLimit(w, req)
	}

	snapshot := tracker.GetSnapshot()
	if snapshot.TotalChecks != 3 {
		t.Errorf("TotalChecks = %d, want 3", snapshot.TotalChecks)
	}
	if snapshot.AdmittedCalls != 1 {
		t.Errorf("AdmittedCalls = %d, want 1", snapshot.AdmittedCalls)
	}
	if snapshot.RejectedCalls != 2 {
		t.Errorf("RejectedCalls = %d, want 2", snapshot.RejectedCalls)
	}
}
