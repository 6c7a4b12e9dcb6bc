package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks admission statistics for the check service
type Metrics struct {
	totalChecks   atomic.Int64
	admittedCalls atomic.Int64
	rejectedCalls atomic.Int64

	// Per-resource stats
	mu            sync.RWMutex
	resourceStats map[string]*ResourceStats
	startTime     time.Time
}

// ResourceStats tracks statistics for a specific protected resource
type ResourceStats struct {
	Resource      string    `json:"resource"`
	TotalChecks   int64     `json:"total_checks"`
	AdmittedCalls int64     `json:"admitted_calls"`
	RejectedCalls int64     `json:"rejected_calls"`
	LastCheckAt   time.Time `json:"last_check_at"`
	FirstCheckAt  time.Time `json:"first_check_at"`
}

// NewMetrics creates a new metrics tracker
func NewMetrics() *Metrics {
	return &Metrics{
		resourceStats: make(map[string]*ResourceStats),
		startTime:     time.Now(),
	}
}

// RecordCheck records one admission decision for a resource
func (m *Metrics) RecordCheck(resource string, allowed bool) {
	m.totalChecks.Add(1)

	if allowed {
		m.admittedCalls.Add(1)
	} else {
		m.rejectedCalls.Add(1)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stats, exists := m.resourceStats[resource]
	if !exists {
		stats = &ResourceStats{
			Resource:     resource,
			FirstCheckAt: time.Now(),
		}
		m.resourceStats[resource] = stats
	}

	stats.TotalChecks++
	if allowed {
		stats.AdmittedCalls++
	} else {
		stats.RejectedCalls++
	}
	stats.LastCheckAt = time.Now()
}

// GetSnapshot returns a snapshot of current metrics
func (m *Metrics) GetSnapshot() *Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	resources := make([]*ResourceStats, 0, len(m.resourceStats))
	for _, stats := range m.resourceStats {
		resources = append(resources, &ResourceStats{
			Resource:      stats.Resource,
			TotalChecks:   stats.TotalChecks,
			AdmittedCalls: stats.AdmittedCalls,
			RejectedCalls: stats.RejectedCalls,
			LastCheckAt:   stats.LastCheckAt,
			FirstCheckAt:  stats.FirstCheckAt,
		})
	}

	sortByTotalChecks(resources)

	uptime := time.Since(m.startTime)

	return &Snapshot{
		TotalChecks:     m.totalChecks.Load(),
		AdmittedCalls:   m.admittedCalls.Load(),
		RejectedCalls:   m.rejectedCalls.Load(),
		UniqueResources: int64(len(m.resourceStats)),
		Resources:       resources,
		UptimeSeconds:   int64(uptime.Seconds()),
		StartTime:       m.startTime,
	}
}

// Snapshot represents a point-in-time view of metrics
type Snapshot struct {
	TotalChecks     int64            `json:"total_checks"`
	AdmittedCalls   int64            `json:"admitted_calls"`
	RejectedCalls   int64            `json:"rejected_calls"`
	UniqueResources int64            `json:"unique_resources"`
	Resources       []*ResourceStats `json:"resources"`
	UptimeSeconds   int64            `json:"uptime_seconds"`
	StartTime       time.Time        `json:"start_time"`
}

// Helper to sort resources by total checks, busiest first
func sortByTotalChecks(resources []*ResourceStats) {
	for i := 0; i < len(resources)-1; i++ {
		for j := i + 1; j < len(resources); j++ {
			if resources[j].TotalChecks > resources[i].TotalChecks {
				resources[i], resources[j] = resources[j], resources[i]
			}
		}
	}
}
