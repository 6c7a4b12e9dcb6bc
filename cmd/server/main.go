package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"

	"github.com/reena96/unseenedgeai-sub001/api"
	"github.com/reena96/unseenedgeai-sub001/core"
	"github.com/reena96/unseenedgeai-sub001/metrics"
	"github.com/reena96/unseenedgeai-sub001/pkg/ratelimit"
	"github.com/reena96/unseenedgeai-sub001/store"
)

func main() {
	logger := newLogger()
	slog.SetDefault(logger)

	// Configuration
	port := getEnv("PORT", "8080")
	limitsFile := getEnv("LIMITS_FILE", "")
	redisAddr := getEnv("REDIS_ADDR", "")

	// Choose storage backend
	var storage store.Store
	if redisAddr != "" {
		redisStore := store.NewRedisStore(store.RedisConfig{
			Addr:     redisAddr,
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       0,
			TTL:      2 * time.Hour,
		})

		if err := redisStore.Ping(); err != nil {
			logger.Error("failed to connect to redis", "addr", redisAddr, "error", err)
			os.Exit(1)
		}
		logger.Info("connected to redis", "addr", redisAddr)
		storage = redisStore
	} else {
		logger.Warn("using in-memory storage, state is lost on restart")
		storage = store.NewMemoryStore()
	}

	// Default admission policy for resources without their own limits
	defaultPolicy := core.Config{
		CallsPerMinute: 60,
		CallsPerHour:   1000,
	}

	// Per-resource policies from the limits file, when one is given
	policies, err := loadPolicies(limitsFile)
	if err != nil {
		logger.Error("failed to load limits file", "path", limitsFile, "error", err)
		os.Exit(1)
	}
	if len(policies) > 0 {
		logger.Info("loaded resource limits", "path", limitsFile, "resources", len(policies))
	}

	metricsTracker := metrics.NewMetrics()

	handler := api.NewHandler(storage, defaultPolicy, policies, metricsTracker)
	metricsHandler := api.NewMetricsHandler(metricsTracker)

	mux := http.NewServeMux()
	mux.HandleFunc("/check", handler.CheckRateLimit)
	mux.Handle("/metrics", metricsHandler)
	mux.HandleFunc("/health", healthHandler)

	addr := ":" + port
	logger.Info("rate limit service listening", "addr", addr)

	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// loadPolicies reads per-resource limits and converts them into the
// check engine's policy shape. An empty path means no per-resource
// policies.
func loadPolicies(path string) (map[string]core.Config, error) {
	if path == "" {
		return nil, nil
	}

	config, err := ratelimit.LoadConfigFromFile(path)
	if err != nil {
		return nil, err
	}

	policies := make(map[string]core.Config, len(config.Resources))
	for resource, limits := range config.Resources {
		policies[resource] = core.Config{
			CallsPerMinute: float64(limits.CallsPerMinute),
			CallsPerHour:   float64(limits.CallsPerHour),
		}
	}
	return policies, nil
}

func newLogger() *slog.Logger {
	noColor := !term.IsTerminal(int(os.Stderr.Fd()))
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.DateTime,
		NoColor:    noColor,
	}))
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "ratelimit",
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
