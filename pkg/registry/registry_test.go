package registry

import (
	"errors"
	"testing"
	"time"
)

func validConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Key: "demo_info", Name: "Demo Info", URL: "https://httpbin.org/json", TTL: 300 * time.Second, CacheEnabled: true},
		{Key: "status", Name: "Status", URL: "http://example.com/status", TTL: 60 * time.Second, CacheEnabled: false},
	}
}

func TestNew_Valid(t *testing.T) {
	reg, err := New(validConfigs())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if reg.Len() != 2 {
		t.Errorf("Expected 2 endpoints, got %d", reg.Len())
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		configs []EndpointConfig
	}{
		{
			name:    "empty_key",
			configs: []EndpointConfig{{Key: "", URL: "https://example.com/", TTL: time.Minute}},
		},
		{
			name: "duplicate_key",
			configs: []EndpointConfig{
				{Key: "a", URL: "https://example.com/", TTL: time.Minute},
				{Key: "a", URL: "https://example.org/", TTL: time.Minute},
			},
		},
		{
			name:    "relative_url",
			configs: []EndpointConfig{{Key: "a", URL: "/relative/path", TTL: time.Minute}},
		},
		{
			name:    "unsupported_scheme",
			configs: []EndpointConfig{{Key: "a", URL: "ftp://example.com/file", TTL: time.Minute}},
		},
		{
			name:    "zero_ttl",
			configs: []EndpointConfig{{Key: "a", URL: "https://example.com/", TTL: 0}},
		},
		{
			name:    "negative_ttl",
			configs: []EndpointConfig{{Key: "a", URL: "https://example.com/", TTL: -time.Second}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.configs)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("Expected *ConfigError, got %T: %v", err, err)
			}
		})
	}
}

func TestRegistry_Lookup(t *testing.T) {
	reg, err := New(validConfigs())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	cfg, err := reg.Lookup("demo_info")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if cfg.URL != "https://httpbin.org/json" {
		t.Errorf("Unexpected URL: %s", cfg.URL)
	}
	if !cfg.CacheEnabled {
		t.Error("Expected CacheEnabled true")
	}

	_, err = reg.Lookup("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRegistry_All_Sorted(t *testing.T) {
	reg, err := New(validConfigs())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	all := reg.All()
	if len(all) != 2 {
		t.Fatalf("Expected 2 endpoints, got %d", len(all))
	}
	if all[0].Key != "demo_info" || all[1].Key != "status" {
		t.Errorf("Endpoints not sorted by key: %s, %s", all[0].Key, all[1].Key)
	}
}

func TestParseConfig(t *testing.T) {
	data := []byte(`{
		"mcp_services": {
			"demo_info": {"name": "Demo Info", "url": "https://httpbin.org/json", "ttl_seconds": 300, "cache": true},
			"live_only": {"name": "Live Only", "url": "https://example.com/live", "cache": false},
			"defaults": {"name": "Defaults", "url": "https://example.com/defaults"}
		}
	}`)

	configs, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	if len(configs) != 3 {
		t.Fatalf("Expected 3 configs, got %d", len(configs))
	}

	// Sorted by key: defaults, demo_info, live_only.
	if configs[0].Key != "defaults" {
		t.Errorf("Expected first key 'defaults', got %q", configs[0].Key)
	}
	if configs[0].TTL != DefaultTTL {
		t.Errorf("Expected default TTL %v, got %v", DefaultTTL, configs[0].TTL)
	}
	if !configs[0].CacheEnabled {
		t.Error("Expected cache to default to true")
	}

	if configs[1].Key != "demo_info" || configs[1].TTL != 300*time.Second {
		t.Errorf("Unexpected demo_info config: %+v", configs[1])
	}
	if configs[2].Key != "live_only" || configs[2].CacheEnabled {
		t.Errorf("Unexpected live_only config: %+v", configs[2])
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	if _, err := ParseConfig([]byte(`not json`)); err == nil {
		t.Error("Expected error for malformed JSON")
	}

	_, err := ParseConfig([]byte(`{"other": {}}`))
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("Expected *ConfigError for missing mcp_services, got %v", err)
	}
}
