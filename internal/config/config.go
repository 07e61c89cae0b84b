package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "GITSCRIBE"

// ErrUnknownKey is returned by SetField for a key Config does not have.
var ErrUnknownKey = errors.New("unknown config key")

// Config represents the gitscribe configuration.
type Config struct {
	Provider           string           `json:"provider" mapstructure:"provider"`
	Model              string           `json:"model,omitempty" mapstructure:"model"`
	MaxTokens          int              `json:"maxTokens" mapstructure:"maxTokens"`
	Temperature        float64          `json:"temperature" mapstructure:"temperature"`
	CustomInstructions string           `json:"customInstructions,omitempty" mapstructure:"customInstructions"`
	Staged             bool             `json:"staged" mapstructure:"staged"`
	MaxDiffSize        int              `json:"maxDiffSize" mapstructure:"maxDiffSize"`
	Exclude            []string         `json:"exclude,omitempty" mapstructure:"exclude"`
	RespectGitignore   bool             `json:"respectGitignore" mapstructure:"respectGitignore"`
	Retries            int              `json:"retries" mapstructure:"retries"`
	TimeoutSeconds     int              `json:"timeoutSeconds" mapstructure:"timeoutSeconds"`
	LogLevel           string           `json:"logLevel" mapstructure:"logLevel"`
	Format             string           `json:"format" mapstructure:"format"`
	Cache              CacheConfig      `json:"cache" mapstructure:"cache"`
	Privacy            PrivacyConfig    `json:"privacy" mapstructure:"privacy"`
	Obsidian           ObsidianConfig   `json:"obsidian" mapstructure:"obsidian"`
	OpenRouter         OpenRouterConfig `json:"openrouter" mapstructure:"openrouter"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled    bool   `json:"enabled" mapstructure:"enabled"`
	Dir        string `json:"dir,omitempty" mapstructure:"dir"`
	TTLSeconds int    `json:"ttlSeconds" mapstructure:"ttlSeconds"`
}

// PrivacyConfig controls redaction of the context before it is sent.
type PrivacyConfig struct {
	RedactSecrets bool `json:"redactSecrets" mapstructure:"redactSecrets"`
}

// ObsidianConfig controls the Obsidian side-channel. The API key comes from
// OBSIDIAN_API_KEY.
type ObsidianConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	URL      string `json:"url" mapstructure:"url"`
	NotePath string `json:"notePath" mapstructure:"notePath"`
	Heading  string `json:"heading" mapstructure:"heading"`
}

// OpenRouterConfig holds OpenRouter attribution headers.
type OpenRouterConfig struct {
	Referer string `json:"referer,omitempty" mapstructure:"referer"`
	Title   string `json:"title,omitempty" mapstructure:"title"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Provider:         "openai",
		MaxTokens:        500,
		Temperature:      0.2,
		Staged:           true,
		MaxDiffSize:      40000,
		RespectGitignore: true,
		LogLevel:         "warn",
		Format:           "text",
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 86400,
		},
		Privacy: PrivacyConfig{
			RedactSecrets: true,
		},
		Obsidian: ObsidianConfig{
			URL:      "http://127.0.0.1:27123",
			NotePath: "gitscribe/commits.md",
			Heading:  "Commits",
		},
		OpenRouter: OpenRouterConfig{
			Title: "gitscribe",
		},
	}
}

// ConfigDir returns the platform-appropriate config directory for gitscribe.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gitscribe"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "cannot determine home directory")
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "gitscribe"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "gitscribe"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "gitscribe"), nil
	default:
		return filepath.Join(home, ".config", "gitscribe"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads the config file alone over the defaults, without the
// environment. A missing file yields Default().
func LoadFile() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(err, "reading config file")
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default(), errors.Wrap(err, "parsing config file")
	}
	return cfg, nil
}

// LoadEnvFile loads a dotenv file into the process environment. Variables
// already set are left alone.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	return errors.Wrapf(godotenv.Load(path), "loading env file %s", path)
}

// Load builds the effective config by merging defaults <- file <- env <-
// overrides. Override keys use the config key names ("maxTokens",
// "cache.enabled") and should only be present for flags the user set.
func Load(overrides map[string]any) (Config, error) {
	v := newViper()

	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
		return Config{}, errors.Wrapf(err, "reading config file %s", path)
	}

	for _, key := range Keys() {
		if err := v.BindEnv(key, EnvName(key)); err != nil {
			return Config{}, errors.Wrapf(err, "binding %s", key)
		}
	}
	for key, val := range overrides {
		v.Set(key, val)
	}
	return decode(v)
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	return errors.Wrap(os.WriteFile(path, append(data, '\n'), 0o644), "writing config file")
}

// SetField sets a single config field by key name, converting value to the
// field's type.
func SetField(cfg *Config, key, value string) error {
	if !slices.Contains(Keys(), key) {
		return errors.Wrapf(ErrUnknownKey, "%s", key)
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return errors.Wrap(err, "reading config")
	}
	v.Set(key, value)
	updated, err := decode(v)
	if err != nil {
		return errors.Wrapf(err, "setting %s", key)
	}
	*cfg = updated
	return nil
}

// Keys lists every settable key in dotted form.
func Keys() []string {
	return []string{
		"provider", "model", "maxTokens", "temperature", "customInstructions",
		"staged", "maxDiffSize", "exclude", "respectGitignore", "retries",
		"timeoutSeconds", "logLevel", "format",
		"cache.enabled", "cache.dir", "cache.ttlSeconds",
		"privacy.redactSecrets",
		"obsidian.enabled", "obsidian.url", "obsidian.notePath", "obsidian.heading",
		"openrouter.referer", "openrouter.title",
	}
}

// EnvName returns the environment variable bound to key, e.g.
// "cache.ttlSeconds" -> GITSCRIBE_CACHE_TTL_SECONDS.
func EnvName(key string) string {
	var b strings.Builder
	b.WriteString(EnvPrefix)
	b.WriteByte('_')
	for i, r := range key {
		switch {
		case r == '.':
			b.WriteByte('_')
		case unicode.IsUpper(r) && i > 0 && key[i-1] != '.':
			b.WriteByte('_')
			b.WriteRune(r)
		default:
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

func newViper() *viper.Viper {
	v := viper.New()
	def := Default()
	v.SetDefault("provider", def.Provider)
	v.SetDefault("model", def.Model)
	v.SetDefault("maxTokens", def.MaxTokens)
	v.SetDefault("temperature", def.Temperature)
	v.SetDefault("customInstructions", def.CustomInstructions)
	v.SetDefault("staged", def.Staged)
	v.SetDefault("maxDiffSize", def.MaxDiffSize)
	v.SetDefault("exclude", def.Exclude)
	v.SetDefault("respectGitignore", def.RespectGitignore)
	v.SetDefault("retries", def.Retries)
	v.SetDefault("timeoutSeconds", def.TimeoutSeconds)
	v.SetDefault("logLevel", def.LogLevel)
	v.SetDefault("format", def.Format)
	v.SetDefault("cache.enabled", def.Cache.Enabled)
	v.SetDefault("cache.dir", def.Cache.Dir)
	v.SetDefault("cache.ttlSeconds", def.Cache.TTLSeconds)
	v.SetDefault("privacy.redactSecrets", def.Privacy.RedactSecrets)
	v.SetDefault("obsidian.enabled", def.Obsidian.Enabled)
	v.SetDefault("obsidian.url", def.Obsidian.URL)
	v.SetDefault("obsidian.notePath", def.Obsidian.NotePath)
	v.SetDefault("obsidian.heading", def.Obsidian.Heading)
	v.SetDefault("openrouter.referer", def.OpenRouter.Referer)
	v.SetDefault("openrouter.title", def.OpenRouter.Title)
	return v
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decoding config")
	}
	return cfg, nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || os.IsNotExist(err)
}
