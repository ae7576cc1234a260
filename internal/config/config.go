package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration for the server, loaded from
// environment variables. Every field has a sensible default; only
// DATABASE_URL and the VAPID key pair are required.
type Config struct {
	// Server
	HTTPPort        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Database
	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	// Web Push / VAPID
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string
	PushTimeout     time.Duration

	// Admin bearer token guarding campaign and sale mutations.
	AdminToken string

	// Dispatch fan-out
	DispatchConcurrency int
	DispatchRateLimit   int

	// Scheduler safety-net poll interval
	SchedulerSweepInterval time.Duration
}

func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	vapidPub := os.Getenv("VAPID_PUBLIC_KEY")
	vapidPriv := os.Getenv("VAPID_PRIVATE_KEY")
	if vapidPub == "" || vapidPriv == "" {
		return nil, fmt.Errorf("VAPID_PUBLIC_KEY and VAPID_PRIVATE_KEY are required")
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		ReadTimeout:     getDuration("READ_TIMEOUT", 5*time.Second),
		WriteTimeout:    getDuration("WRITE_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		DatabaseURL: dbURL,
		DBMaxConns:  int32(getInt("DB_MAX_CONNS", 25)),
		DBMinConns:  int32(getInt("DB_MIN_CONNS", 5)),

		VAPIDPublicKey:  vapidPub,
		VAPIDPrivateKey: vapidPriv,
		VAPIDSubject:    getEnv("VAPID_SUBJECT", "mailto:ops@shopsync.dev"),
		PushTimeout:     getDuration("PUSH_TIMEOUT", 10*time.Second),

		AdminToken: getEnv("ADMIN_TOKEN", ""),

		DispatchConcurrency: getInt("DISPATCH_CONCURRENCY", 8),
		DispatchRateLimit:   getInt("DISPATCH_RATE_LIMIT", 100),

		SchedulerSweepInterval: getDuration("SCHEDULER_SWEEP_INTERVAL", 30*time.Second),
	}, nil
}

// AgentConfig holds runtime configuration for the offline checkout agent.
type AgentConfig struct {
	ServerBaseURL        string
	QueuePath            string
	ControlAddr          string
	SyncInterval         time.Duration
	ConnectivityInterval time.Duration
	RequestTimeout       time.Duration
}

func LoadAgent() (*AgentConfig, error) {
	base := os.Getenv("SERVER_BASE_URL")
	if base == "" {
		return nil, fmt.Errorf("SERVER_BASE_URL is required")
	}

	return &AgentConfig{
		ServerBaseURL:        base,
		QueuePath:            getEnv("QUEUE_PATH", "checkout-queue.json"),
		ControlAddr:          getEnv("CONTROL_ADDR", "127.0.0.1:8090"),
		SyncInterval:         getDuration("SYNC_INTERVAL", 60*time.Second),
		ConnectivityInterval: getDuration("CONNECTIVITY_INTERVAL", 15*time.Second),
		RequestTimeout:       getDuration("REQUEST_TIMEOUT", 10*time.Second),
	}, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
