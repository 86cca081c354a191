package config

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Public Public
}

type Public struct {
	Port            string        `yaml:"port" validate:"required"`
	Env             string        `yaml:"env"`
	APIBaseURL      string        `yaml:"api_base_url" validate:"required,url"`
	CDNBaseURL      string        `yaml:"cdn_base_url" validate:"required,url"`
	Timezone        string        `yaml:"timezone"`                             // default zone for rendered timestamps; viewers may override with ?tz=
	ArchiveLifetime time.Duration `yaml:"archive_lifetime" validate:"required"` // archives expire this long after creation
	RequestTimeout  time.Duration `yaml:"request_timeout" validate:"required"`
	SecureCookies   bool          `yaml:"secure_cookies"` // served over HTTPS, enables HSTS
	CSP             string        `yaml:"csp"`
	Log             Log           `yaml:"log"`
	Modules         Modules       `yaml:"modules"`
	RateLimit       RateLimit     `yaml:"rate_limit"`
	Assets          Assets        `yaml:"assets"`
	Edge            Edge          `yaml:"edge"`
}

type Log struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Modules controls how lazily loaded page modules are fetched from the asset store.
type Modules struct {
	Attempts int           `yaml:"attempts" validate:"min=1"`
	Interval time.Duration `yaml:"interval"`
}

type RateLimit struct {
	RPS   float64 `yaml:"rps" validate:"gt=0"`
	Burst int     `yaml:"burst" validate:"min=1"`
}

type Assets struct {
	Driver string `yaml:"driver" validate:"oneof=fs pebble"`
	Path   string `yaml:"path" validate:"required"`
}

type Edge struct {
	Port                string        `yaml:"port" validate:"required"`
	EdgeTTL             time.Duration `yaml:"edge_ttl" validate:"required"`
	BrowserTTL          time.Duration `yaml:"browser_ttl" validate:"required"`
	VersionedBrowserTTL time.Duration `yaml:"versioned_browser_ttl" validate:"required"`
	SinglePageApp       bool          `yaml:"single_page_app"`
	AllowedOrigins      []string      `yaml:"allowed_origins"`
}

// IsDevelopment reports whether template hot reloading and verbose errors are on.
func (c *Config) IsDevelopment() bool {
	return c.Public.Env == "development"
}

// Location resolves the configured timezone; unknown names fall back to Local.
func (p Public) Location() *time.Location {
	if p.Timezone == "" || p.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func defaults() Public {
	return Public{
		Port:            "8081",
		APIBaseURL:      "https://api.mousey.app",
		CDNBaseURL:      "https://cdn.discordapp.com",
		Timezone:        "Local",
		ArchiveLifetime: 30 * 24 * time.Hour,
		RequestTimeout:  10 * time.Second,
		Log:             Log{Level: "info"},
		Modules:         Modules{Attempts: 5, Interval: 500 * time.Millisecond},
		RateLimit:       RateLimit{RPS: 5, Burst: 10},
		Assets:          Assets{Driver: "fs", Path: "web"},
		Edge: Edge{
			Port:                "8082",
			EdgeTTL:             24 * time.Hour,
			BrowserTTL:          24 * time.Hour,
			VersionedBrowserTTL: 365 * 24 * time.Hour,
			SinglePageApp:       true,
		},
	}
}

func loadPath(configPath string, output interface{}) error {
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("can't read config file %s: %w", configPath, err)
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		return fmt.Errorf("can't unmarshal config file %s: %w", configPath, err)
	}
	return nil
}

// applyEnv lets deployments override the few values that differ per environment.
func applyEnv(p *Public) error {
	if v := os.Getenv("PORT"); v != "" {
		p.Port = v
	}
	if v := os.Getenv("EDGE_PORT"); v != "" {
		p.Edge.Port = v
	}
	if v := os.Getenv("ENV"); v != "" {
		p.Env = v
	}
	if v := os.Getenv("API_BASE_URL"); v != "" {
		p.APIBaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		p.Log.Level = v
	}
	if v := os.Getenv("LOG_JSON"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("LOG_JSON: %w", err)
		}
		p.Log.JSON = b
	}
	if v := os.Getenv("ASSETS_DRIVER"); v != "" {
		p.Assets.Driver = v
	}
	if v := os.Getenv("ASSETS_PATH"); v != "" {
		p.Assets.Path = v
	}
	return nil
}

// Load reads public.yaml from configFolder on top of the defaults, applies
// environment overrides (including a .env file in the working directory) and
// validates the result.
func Load(configFolder string) (*Config, error) {
	_ = godotenv.Load(".env")

	public := defaults()
	if err := loadPath(path.Join(configFolder, "public.yaml"), &public); err != nil {
		return nil, err
	}
	if err := applyEnv(&public); err != nil {
		return nil, err
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(public); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Config{Public: public}, nil
}

func MustLoad(configFolder string) *Config {
	cfg, err := Load(configFolder)
	if err != nil {
		panic(err.Error())
	}
	return cfg
}
