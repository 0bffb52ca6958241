package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/fini-net/gh-batch-review/internal/logger"
)

const (
	appName   = "gh-batch-review"
	envPrefix = "GH_BATCH_REVIEW"
	envFile   = ".env"
)

var repoPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

type ColorConfig struct {
	Success int `mapstructure:"success"`
	Failure int `mapstructure:"failure"`
	Running int `mapstructure:"running"`
	Queued  int `mapstructure:"queued"`
}

type GitHubConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

type Config struct {
	Repos         []string      `mapstructure:"repos"`
	Limit         int           `mapstructure:"limit"`
	Language      string        `mapstructure:"language"`
	ToastDuration time.Duration `mapstructure:"toast_duration"`
	NoColor       bool          `mapstructure:"no_color"`
	GitHub        GitHubConfig  `mapstructure:"github"`
	Log           LogConfig     `mapstructure:"log"`
	Colors        ColorConfig   `mapstructure:"colors"`
}

// Load reads ~/.config/gh-batch-review/config.yaml and GH_BATCH_REVIEW_*
// environment variables on top of the defaults. A .env file in the working
// directory is merged into the environment without overriding it.
func Load() (*Config, error) {
	loadDotEnv(envFile)

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config location: ~/.config/gh-batch-review/config.yaml
	v.AddConfigPath(filepath.Join(homeDir(), ".config", appName))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		// Missing config is fine - defaults apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// GH_BATCH_REVIEW_REPOS arrives as one comma separated string
	var repos []string
	for _, r := range cfg.Repos {
		repos = append(repos, splitList(r)...)
	}
	cfg.Repos = repos

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("repos", []string{})
	v.SetDefault("limit", 30)
	v.SetDefault("language", "en")
	v.SetDefault("toast_duration", "3s")
	v.SetDefault("no_color", false)
	v.SetDefault("github.base_url", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", filepath.Join(homeDir(), ".cache", appName, appName+".log"))
	v.SetDefault("colors.success", 10) // Green
	v.SetDefault("colors.failure", 9)  // Red
	v.SetDefault("colors.running", 11) // Yellow
	v.SetDefault("colors.queued", 8)   // Gray
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Limit, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.Language, validation.Required, validation.In("en", "ja")),
		validation.Field(&c.ToastDuration, validation.Required),
		validation.Field(&c.Repos, validation.By(validateRepos)),
		validation.Field(&c.Log, validation.By(func(any) error {
			lc := c.LoggerConfig()
			return lc.Validate()
		})),
	)
}

// LoggerConfig converts the log section for the logger package.
func (c *Config) LoggerConfig() *logger.Config {
	return &logger.Config{
		Level:  c.Log.Level,
		Format: c.Log.Format,
		File:   c.Log.File,
	}
}

func validateRepos(value any) error {
	repos, _ := value.([]string)
	for _, repo := range repos {
		if !repoPattern.MatchString(repo) {
			return fmt.Errorf("%q is not in owner/name form", repo)
		}
	}
	return nil
}

func loadDotEnv(path string) {
	env, err := godotenv.Read(path)
	if err != nil {
		return
	}
	for k, v := range env {
		if _, exists := os.LookupEnv(k); !exists {
			_ = os.Setenv(k, v)
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return os.Getenv("HOME")
}
