package config

import (
	"testing"
	"time"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Port)
	}
	if cfg.Session.TTL != 60*time.Minute {
		t.Errorf("Expected 60m TTL, got %v", cfg.Session.TTL)
	}
	if cfg.Staircase.MaxSteps != 20 || cfg.Staircase.MaxDisplayPaths != 20 {
		t.Errorf("Unexpected staircase limits: %+v", cfg.Staircase)
	}
	if cfg.Staircase.AnimationInterval != time.Second {
		t.Errorf("Expected 1s animation interval, got %v", cfg.Staircase.AnimationInterval)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("Unexpected origins: %v", cfg.AllowedOrigins)
	}
	if !cfg.IsDevelopment() {
		t.Error("Expected development mode without FRONTEND_URL")
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"PORT":                "9000",
		"FRONTEND_URL":        "https://mathlab.example",
		"ALLOWED_ORIGINS":     "https://a.example,https://b.example",
		"SESSION_TTL":         "15m",
		"MAX_ENUMERATE_STEPS": "25",
		"LOG_LEVEL":           "debug",
		"LOG_JOURNAL":         "true",
	})
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Port != "9000" || cfg.Session.TTL != 15*time.Minute || cfg.Staircase.MaxSteps != 25 {
		t.Errorf("Overrides not applied: %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("Expected 2 origins, got %v", cfg.AllowedOrigins)
	}
	if cfg.Log.Level != "debug" || !cfg.Log.Journal {
		t.Errorf("Unexpected log config: %+v", cfg.Log)
	}
	if cfg.IsDevelopment() {
		t.Error("Expected production mode for a public FRONTEND_URL")
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"empty db path", map[string]string{"DB_PATH": " "}},
		{"steps too high", map[string]string{"MAX_ENUMERATE_STEPS": "31"}},
		{"steps zero", map[string]string{"MAX_ENUMERATE_STEPS": "0"}},
		{"interval below minimum", map[string]string{"ANIMATION_INTERVAL": "10ms"}},
		{"bad duration", map[string]string{"SESSION_TTL": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFrom(tt.vars); err == nil {
				t.Error("Expected error")
			}
		})
	}
}
