package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/reena96/unseenedgeai-sub001/core"
	"github.com/reena96/unseenedgeai-sub001/store"
)

// Handler handles admission check requests for named resources
type Handler struct {
	store         store.Store
	defaultPolicy core.Config
	policies      map[string]core.Config
	metrics       MetricsRecorder
}

// MetricsRecorder defines the interface for recording admission decisions
type MetricsRecorder interface {
	RecordCheck(resource string, allowed bool)
}

// NewHandler creates a new API handler. policies may be nil; resources
// without a specific policy fall back to the default.
func NewHandler(store store.Store, defaultPolicy core.Config, policies map[string]core.Config, metrics MetricsRecorder) *Handler {
	if policies == nil {
		policies = make(map[string]core.Config)
	}
	return &Handler{
		store:         store,
		defaultPolicy: defaultPolicy,
		policies:      policies,
		metrics:       metrics,
	}
}

// CheckRequest represents the incoming admission check request
type CheckRequest struct {
	Resource       string   `json:"resource"`                   // Required: name of the protected resource
	CallsPerMinute *float64 `json:"calls_per_minute,omitempty"` // Optional: override configured minute limit
	CallsPerHour   *float64 `json:"calls_per_hour,omitempty"`   // Optional: override configured hour limit
}

// CheckResponse represents the admission check response
type CheckResponse struct {
	Allowed         bool    `json:"allowed"`                  // Whether the call is admitted
	Window          string  `json:"window,omitempty"`         // Which window tripped, when blocked
	MinuteRemaining float64 `json:"minute_remaining"`         // Tokens remaining in the minute window
	HourRemaining   float64 `json:"hour_remaining"`           // Tokens remaining in the hour window
	CallsPerMinute  float64 `json:"calls_per_minute"`         // Effective minute limit
	CallsPerHour    float64 `json:"calls_per_hour"`           // Effective hour limit
	RetryAfterMs    int64   `json:"retry_after_ms,omitempty"` // Milliseconds until retry (if blocked)
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// CheckRateLimit handles POST /check requests
func (h *Handler) CheckRateLimit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Only POST requests are allowed")
		return
	}

	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	if req.Resource == "" {
		h.sendError(w, http.StatusBadRequest, "missing_resource", "resource is required")
		return
	}

	// Resource-specific policy if configured, then request overrides
	policy, ok := h.policies[req.Resource]
	if !ok {
		policy = h.defaultPolicy
	}
	if req.CallsPerMinute != nil {
		policy.CallsPerMinute = *req.CallsPerMinute
	}
	if req.CallsPerHour != nil {
		policy.CallsPerHour = *req.CallsPerHour
	}

	windows := core.NewDualWindow(policy)

	state := h.store.Get(req.Resource)
	newState, result := windows.Check(state, time.Now())
	h.store.Set(req.Resource, newState)

	if h.metrics != nil {
		h.metrics.RecordCheck(req.Resource, result.Allowed)
	}

	response := CheckResponse{
		Allowed:         result.Allowed,
		Window:          result.Window,
		MinuteRemaining: result.MinuteRemaining,
		HourRemaining:   result.HourRemaining,
		CallsPerMinute:  policy.CallsPerMinute,
		CallsPerHour:    policy.CallsPerHour,
		RetryAfterMs:    result.RetryAfterMs,
	}

	statusCode := http.StatusOK
	if !result.Allowed {
		statusCode = http.StatusTooManyRequests
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

func (h *Handler) sendError(w http.ResponseWriter, statusCode int, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}
