package config

import (
	"strings"
	"testing"
)

func TestIsDevelopment(t *testing.T) {
	for env, want := range map[string]bool{EnvDevelopment: true, EnvTesting: false, EnvProduction: false} {
		if got := (&Config{Environment: env}).IsDevelopment(); got != want {
			t.Errorf("IsDevelopment(%s) = %v, want %v", env, got, want)
		}
	}
}

func TestValidateForProduction(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "non production is never checked",
			cfg:  Config{Environment: EnvDevelopment, LogLevel: "debug", CORSAllowedOrigins: "*"},
		},
		{
			name: "valid production",
			cfg:  Config{Environment: EnvProduction, LogLevel: "info", CORSAllowedOrigins: "https://shop.example.com", StoreDriver: StorePostgres},
		},
		{
			name:    "debug logging",
			cfg:     Config{Environment: EnvProduction, LogLevel: "debug", CORSAllowedOrigins: "https://a.example"},
			wantErr: "LOG_LEVEL",
		},
		{
			name:    "wildcard cors",
			cfg:     Config{Environment: EnvProduction, LogLevel: "info", CORSAllowedOrigins: "https://a.example, *"},
			wantErr: "CORS_ALLOWED_ORIGINS",
		},
		{
			name:    "file store without path",
			cfg:     Config{Environment: EnvProduction, LogLevel: "info", CORSAllowedOrigins: "https://a.example", StoreDriver: StoreFile},
			wantErr: "ITEMS_DATA_FILE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateForProduction(&tt.cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %s, got %v", tt.wantErr, err)
			}
		})
	}
}
