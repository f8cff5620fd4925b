package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{
			name: "default values",
			env:  map[string]string{},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Port != "8080" {
					t.Errorf("expected port 8080, got %s", cfg.Port)
				}
				if cfg.LogLevel != "info" {
					t.Errorf("expected log level info, got %s", cfg.LogLevel)
				}
				if cfg.MinConfidence != 70 {
					t.Errorf("expected MinConfidence 70, got %d", cfg.MinConfidence)
				}
				if !cfg.CallbackConfirmTerminal {
					t.Error("expected CallbackConfirmTerminal true by default")
				}
				if cfg.BulkCallDelay != 2*time.Second {
					t.Errorf("expected BulkCallDelay 2s, got %v", cfg.BulkCallDelay)
				}
				if cfg.TelephonyProvider != "none" {
					t.Errorf("expected provider none, got %s", cfg.TelephonyProvider)
				}
			},
		},
		{
			name: "custom values",
			env: map[string]string{
				"PORT":               "9000",
				"LOG_LEVEL":          "debug",
				"MIN_CONFIDENCE":     "80",
				"BULK_CALL_DELAY_MS": "500",
				"LLM_TIMEOUT_MS":     "1000",
				"ALLOWED_ORIGINS":    "http://example.com,http://test.com",
				"PUBLIC_BASE_URL":    "https://agent.example.com/",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Port != "9000" {
					t.Errorf("expected port 9000, got %s", cfg.Port)
				}
				if cfg.MinConfidence != 80 {
					t.Errorf("expected MinConfidence 80, got %d", cfg.MinConfidence)
				}
				if cfg.BulkCallDelay != 500*time.Millisecond {
					t.Errorf("expected BulkCallDelay 500ms, got %v", cfg.BulkCallDelay)
				}
				if cfg.LLMTimeout != time.Second {
					t.Errorf("expected LLMTimeout 1s, got %v", cfg.LLMTimeout)
				}
				if len(cfg.AllowedOrigins) != 2 {
					t.Errorf("expected 2 allowed origins, got %d", len(cfg.AllowedOrigins))
				}
				if cfg.PublicBaseURL != "https://agent.example.com" {
					t.Errorf("expected trailing slash trimmed, got %s", cfg.PublicBaseURL)
				}
			},
		},
		{
			name: "invalid MIN_CONFIDENCE",
			env: map[string]string{
				"MIN_CONFIDENCE": "invalid",
			},
			wantErr: true,
		},
		{
			name: "invalid BULK_CALL_DELAY_MS",
			env: map[string]string{
				"BULK_CALL_DELAY_MS": "invalid",
			},
			wantErr: true,
		},
		{
			name: "invalid CALLBACK_CONFIRM_TERMINAL",
			env: map[string]string{
				"CALLBACK_CONFIRM_TERMINAL": "maybe",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			// Set test environment variables
			for k, v := range tt.env {
				os.Setenv(k, v)
			}

			// Load config
			cfg, err := Load()

			// Check error
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			// Run custom checks
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}
