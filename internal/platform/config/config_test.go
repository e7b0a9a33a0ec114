// internal/platform/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"curatorx/internal/core/domain"
	"curatorx/internal/platform/errors"
)

func TestGetenv(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		def      string
		envValue string
		expected string
	}{
		{
			name:     "env var exists",
			key:      "CURATORX_TEST_KEY_1",
			def:      "default",
			envValue: "custom",
			expected: "custom",
		},
		{
			name:     "env var missing - uses default",
			key:      "CURATORX_TEST_KEY_MISSING",
			def:      "default",
			envValue: "",
			expected: "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(tt.key, tt.envValue)
			}

			result := getenv(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"1", true},
		{"t", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"on", true},
		{" true ", true},

		{"0", false},
		{"false", false},
		{"no", false},
		{"off", false},
		{"", false},
		{"garbage", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseBool(tt.input)
			if result != tt.expected {
				t.Errorf("parseBool(%q) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		def      int
		expected int
	}{
		{"valid integer", "42", 10, 42},
		{"negative integer", "-5", 10, -5},
		{"with spaces", "  100  ", 10, 100},
		{"invalid - returns default", "abc", 10, 10},
		{"float - returns default", "3.14", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseInt(tt.input, tt.def)
			if result != tt.expected {
				t.Errorf("parseInt(%q, %d) = %d, expected %d", tt.input, tt.def, result, tt.expected)
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
	}{
		{"1500ms", 1500 * time.Millisecond},
		{"20s", 20 * time.Second},
		{"20", 20 * time.Second},
		{"soon", time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseDuration(tt.input, time.Minute)
			if result != tt.expected {
				t.Errorf("parseDuration(%q) = %s, expected %s", tt.input, result, tt.expected)
			}
		})
	}
}

func TestConfig_Timeout(t *testing.T) {
	tests := []struct {
		name     string
		timeoutS int
		expected string
	}{
		{"30 seconds", 30, "30s"},
		{"zero timeout", 0, "0s"},
		{"negative timeout", -5, "0s"},
		{"large timeout", 3600, "1h0m0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Core: CoreConfig{TimeoutS: tt.timeoutS}}
			if got := cfg.Timeout().String(); got != tt.expected {
				t.Errorf("Timeout(): expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load([]string{"search", "sunflowers"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Request.Command != CommandSearch {
		t.Errorf("command: expected %q, got %q", CommandSearch, cfg.Request.Command)
	}
	if cfg.Request.Query.Text != "sunflowers" {
		t.Errorf("query text: got %q", cfg.Request.Query.Text)
	}
	if cfg.Request.Selector != domain.SelectorAll {
		t.Errorf("selector: got %q", cfg.Request.Selector)
	}
	if cfg.Request.Page != 1 {
		t.Errorf("page: got %d", cfg.Request.Page)
	}
	if cfg.Aggregator.SourceTimeout != 20*time.Second {
		t.Errorf("source timeout: got %s", cfg.Aggregator.SourceTimeout)
	}
	if len(cfg.Sources) != 4 {
		t.Fatalf("expected 4 sources, got %d", len(cfg.Sources))
	}
	for name, sc := range cfg.Sources {
		if !sc.Enabled {
			t.Errorf("source %s should be enabled by default", name)
		}
	}
	if cfg.Sources["met"].Priority <= cfg.Sources["harvard"].Priority {
		t.Errorf("met should outrank harvard by default")
	}
}

func TestLoad_Flags(t *testing.T) {
	cfg, err := Load([]string{
		"search", "blue", "vase",
		"-s", "met,vam", "-p", "2", "-n", "10", "--json",
		"--has-images", "--date-begin", "1600", "--date-end", "1700",
		"--src.harvard=false", "--src.vam.priority", "99",
		"--source-timeout", "3s",
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	req := cfg.Request
	if req.Query.Text != "blue vase" {
		t.Errorf("positional args joined: got %q", req.Query.Text)
	}
	if req.Selector != "met,vam" || req.Page != 2 || req.PageSize != 10 {
		t.Errorf("request: got selector=%q page=%d size=%d", req.Selector, req.Page, req.PageSize)
	}
	if !cfg.Core.JSON || !req.Query.HasImages {
		t.Errorf("bool flags not applied")
	}
	if req.Query.DateBegin == nil || *req.Query.DateBegin != 1600 {
		t.Errorf("date begin not applied")
	}
	if req.Query.DateEnd == nil || *req.Query.DateEnd != 1700 {
		t.Errorf("date end not applied")
	}
	if cfg.Sources["harvard"].Enabled {
		t.Errorf("--src.harvard=false should disable harvard")
	}
	if cfg.Sources["vam"].Priority != 99 {
		t.Errorf("vam priority: got %d", cfg.Sources["vam"].Priority)
	}
	if cfg.Aggregator.SourceTimeout != 3*time.Second {
		t.Errorf("source timeout: got %s", cfg.Aggregator.SourceTimeout)
	}
}

func TestLoad_DatesUnsetStayNil(t *testing.T) {
	cfg, err := Load([]string{"search", "x"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Request.Query.DateBegin != nil || cfg.Request.Query.DateEnd != nil {
		t.Errorf("dates should be nil when the flags are not given")
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "curatorx.yaml")
	yamlDoc := `
core:
  log_level: debug
  timeout: 90
aggregator:
  source_timeout: 5s
  max_limit: 50
sources:
  vam:
    priority: 42
  harvard:
    enabled: false
    custom:
      api_key: from-file
`
	if err := os.WriteFile(path, []byte(yamlDoc), 0o600); err != nil {
		t.Fatal(err)
	}

	// ENV pisa el fichero, los flags pisan ENV
	t.Setenv("CURATORX_TIMEOUT", "120")
	t.Setenv("CURATORX_SOURCES_VAM_PRIORITY", "50")
	t.Setenv("CURATORX_SOURCES_HARVARD_API_KEY", "from-env")

	cfg, err := Load([]string{"--config", path, "sources", "--src.vam.priority", "60"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Core.LogLevel != "debug" {
		t.Errorf("log level from file: got %q", cfg.Core.LogLevel)
	}
	if cfg.Core.TimeoutS != 120 {
		t.Errorf("env should override file timeout: got %d", cfg.Core.TimeoutS)
	}
	if cfg.Aggregator.SourceTimeout != 5*time.Second || cfg.Aggregator.MaxLimit != 50 {
		t.Errorf("aggregator from file: got %+v", cfg.Aggregator)
	}
	if cfg.Sources["vam"].Priority != 60 {
		t.Errorf("flag should override env priority: got %d", cfg.Sources["vam"].Priority)
	}
	if cfg.Sources["harvard"].Enabled {
		t.Errorf("harvard disabled in file")
	}
	if got := cfg.Sources["harvard"].Custom["api_key"]; got != "from-env" {
		t.Errorf("env should override file api key: got %v", got)
	}
	if cfg.Sources["met"].Priority != 10 {
		t.Errorf("untouched sources keep defaults: got %d", cfg.Sources["met"].Priority)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := "CURATORX_SOURCES_RIJKS_PRIORITY=33\nCURATORX_SOURCES_MET_PRIORITY=44\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("CURATORX_SOURCES_RIJKS_PRIORITY")
		os.Unsetenv("CURATORX_SOURCES_MET_PRIORITY")
	})

	// Las variables ya presentes en el entorno ganan al fichero
	t.Setenv("CURATORX_SOURCES_MET_PRIORITY", "7")

	cfg, err := Load([]string{"--env-file", path, "sources"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Sources["rijks"].Priority != 33 {
		t.Errorf("rijks priority from env file: got %d", cfg.Sources["rijks"].Priority)
	}
	if cfg.Sources["met"].Priority != 7 {
		t.Errorf("process env should win over env file: got %d", cfg.Sources["met"].Priority)
	}
}

func TestLoad_MissingEnvFileIgnored(t *testing.T) {
	_, err := Load([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env"), "sources"})
	if err != nil {
		t.Errorf("missing env file should be ignored: %v", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	unknown := filepath.Join(dir, "unknown.yaml")
	if err := os.WriteFile(unknown, []byte("sources:\n  louvre:\n    enabled: true\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	broken := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(broken, []byte("core: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
	}{
		{"unknown command", []string{"paint"}},
		{"unknown flag", []string{"search", "--brush"}},
		{"inverted dates", []string{"search", "--date-begin", "1900", "--date-end", "1800"}},
		{"unknown source in file", []string{"--config", unknown, "sources"}},
		{"broken yaml", []string{"--config", broken, "sources"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.args)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	_, err := Load([]string{"--config", filepath.Join(dir, "nope.yaml"), "sources"})
	if err == nil {
		t.Error("missing config file should fail")
	}
}

func TestNormalize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Core.LogLevel = "  DEBUG "
	cfg.Core.TimeoutS = -10
	cfg.Request.Page = 0
	cfg.Request.PageSize = -3
	cfg.Request.Selector = "  "
	cfg.Request.FacetType = " Material "
	cfg.Aggregator.SourceTimeout = 0
	cfg.Aggregator.MaxLimit = 10
	cfg.Aggregator.DefaultPageSize = 500

	if err := normalize(&cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if cfg.Core.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q", cfg.Core.LogLevel)
	}
	if cfg.Core.TimeoutS != 0 {
		t.Errorf("TimeoutS: got %d", cfg.Core.TimeoutS)
	}
	if cfg.Request.Page != 1 || cfg.Request.PageSize != 0 {
		t.Errorf("paging: got page=%d size=%d", cfg.Request.Page, cfg.Request.PageSize)
	}
	if cfg.Request.Selector != domain.SelectorAll {
		t.Errorf("Selector: got %q", cfg.Request.Selector)
	}
	if cfg.Request.FacetType != "material" {
		t.Errorf("FacetType: got %q", cfg.Request.FacetType)
	}
	if cfg.Aggregator.SourceTimeout != 20*time.Second {
		t.Errorf("SourceTimeout: got %s", cfg.Aggregator.SourceTimeout)
	}
	if cfg.Aggregator.DefaultPageSize != 10 {
		t.Errorf("DefaultPageSize capped by MaxLimit: got %d", cfg.Aggregator.DefaultPageSize)
	}
}

func TestSourceConfigs(t *testing.T) {
	cfg := DefaultConfig()
	typed := cfg.SourceConfigs()

	if len(typed) != 4 {
		t.Fatalf("expected 4 typed configs, got %d", len(typed))
	}
	if typed[domain.SourceVAM].Priority != cfg.Sources["vam"].Priority {
		t.Errorf("vam config not carried over")
	}
}

func TestToJSON_MasksCredentials(t *testing.T) {
	cfg := DefaultConfig()
	sc := cfg.Sources["harvard"]
	sc.Custom["api_key"] = "super-secret"
	sc.Custom["username"] = "curator"
	cfg.Sources["harvard"] = sc

	out, err := cfg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if strings.Contains(out, "super-secret") {
		t.Error("api key leaked in JSON dump")
	}
	if !strings.Contains(out, "curator") {
		t.Error("non-secret custom values should be kept")
	}
	if cfg.Sources["harvard"].Custom["api_key"] != "super-secret" {
		t.Error("ToJSON must not mutate the config")
	}
}

func TestWriteHelp(t *testing.T) {
	var sb strings.Builder
	WriteHelp(&sb)
	for _, cmd := range Commands {
		if !strings.Contains(sb.String(), cmd) {
			t.Errorf("help text missing command %q", cmd)
		}
	}
}
