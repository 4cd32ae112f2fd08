package app

import (
	"testing"
	"time"

	"github.com/webzeppelin/angry-birdman-sub003/internal/config"
	"github.com/webzeppelin/angry-birdman-sub003/internal/platform/logging"
)

func TestNew_MemoryDriver(t *testing.T) {
	cfg := config.Config{
		AppEnv:                 config.EnvDev,
		HTTPAddr:               ":0",
		StorageDriver:          config.StorageDriverMemory,
		CacheEnabled:           true,
		CacheTTL:               time.Minute,
		CORSAllowedOrigins:     []string{"*"},
		ReadTimeout:            time.Second,
		WriteTimeout:           time.Second,
		SchedulerRunnerEnabled: true,
		TickInterval:           time.Hour,
	}

	application, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	defer application.Close()

	if application.Server == nil {
		t.Fatalf("expected http server")
	}
	if application.Runner == nil {
		t.Fatalf("expected schedule runner when enabled")
	}
}

func TestNew_RunnerDisabled(t *testing.T) {
	cfg := config.Config{
		AppEnv:             config.EnvDev,
		HTTPAddr:           ":0",
		StorageDriver:      config.StorageDriverMemory,
		CORSAllowedOrigins: []string{"*"},
	}

	application, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	defer application.Close()

	if application.Runner != nil {
		t.Fatalf("expected no runner when disabled")
	}
}

func TestNew_EmptyAddrFails(t *testing.T) {
	cfg := config.Config{
		AppEnv:             config.EnvDev,
		StorageDriver:      config.StorageDriverMemory,
		CORSAllowedOrigins: []string{"*"},
	}

	if _, err := New(cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for empty http addr")
	}
}
