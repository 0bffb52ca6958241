package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func TestDefaults(t *testing.T) {
	cfg, err := unmarshal(newTestViper())
	if err != nil {
		t.Fatalf("unmarshal() unexpected error: %v", err)
	}

	if cfg.Limit != 30 {
		t.Errorf("Limit = %d, want 30", cfg.Limit)
	}
	if cfg.Language != "en" {
		t.Errorf("Language = %q, want en", cfg.Language)
	}
	if cfg.ToastDuration != 3*time.Second {
		t.Errorf("ToastDuration = %v, want 3s", cfg.ToastDuration)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v, want info/text", cfg.Log)
	}
	if cfg.Colors.Success != 10 || cfg.Colors.Failure != 9 {
		t.Errorf("Colors = %+v, want success=10 failure=9", cfg.Colors)
	}
	if len(cfg.Repos) != 0 {
		t.Errorf("Repos = %v, want empty", cfg.Repos)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		set     map[string]any
		wantErr bool
	}{
		{"defaults", nil, false},
		{"valid repos", map[string]any{"repos": []string{"fini-net/gh-batch-review", "o/r.js"}}, false},
		{"repo without owner", map[string]any{"repos": []string{"gh-batch-review"}}, true},
		{"repo with pull ref", map[string]any{"repos": []string{"o/r#1"}}, true},
		{"limit too high", map[string]any{"limit": 500}, true},
		{"limit zero", map[string]any{"limit": 0}, true},
		{"japanese", map[string]any{"language": "ja"}, false},
		{"unsupported language", map[string]any{"language": "fr"}, true},
		{"bad log level", map[string]any{"log.level": "trace"}, true},
		{"json logs", map[string]any{"log.format": "json"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestViper()
			for k, val := range tt.set {
				v.Set(k, val)
			}
			_, err := unmarshal(v)
			if (err != nil) != tt.wantErr {
				t.Errorf("unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCommaSeparatedRepos(t *testing.T) {
	v := newTestViper()
	v.Set("repos", "fini-net/api, fini-net/web")

	cfg, err := unmarshal(v)
	if err != nil {
		t.Fatalf("unmarshal() unexpected error: %v", err)
	}
	if len(cfg.Repos) != 2 || cfg.Repos[0] != "fini-net/api" || cfg.Repos[1] != "fini-net/web" {
		t.Errorf("Repos = %q, want [fini-net/api fini-net/web]", cfg.Repos)
	}
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "GH_BATCH_REVIEW_TEST_A=from-file\nGH_BATCH_REVIEW_TEST_B=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GH_BATCH_REVIEW_TEST_A", "from-env")
	t.Setenv("GH_BATCH_REVIEW_TEST_B", "")
	os.Unsetenv("GH_BATCH_REVIEW_TEST_B")

	loadDotEnv(path)
	t.Cleanup(func() { os.Unsetenv("GH_BATCH_REVIEW_TEST_B") })

	if got := os.Getenv("GH_BATCH_REVIEW_TEST_A"); got != "from-env" {
		t.Errorf("A = %q, want from-env", got)
	}
	if got := os.Getenv("GH_BATCH_REVIEW_TEST_B"); got != "from-file" {
		t.Errorf("B = %q, want from-file", got)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	// must not panic or fail
	loadDotEnv(filepath.Join(t.TempDir(), "missing.env"))
}
