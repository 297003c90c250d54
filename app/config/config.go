package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP        HTTPConfig     `yaml:"http"`
	Database    DatabaseConfig `yaml:"database"`
	Session     SessionConfig  `yaml:"session"`
	Media       MediaConfig    `yaml:"media"`
	Admin       AdminConfig    `yaml:"admin"`
	LogLevel    string         `yaml:"log_level"`
	TemplateDir string         `yaml:"template_dir"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type DatabaseConfig struct {
	// Dialect is postgres or mysql.
	Dialect string `yaml:"dialect"`
	// Driver picks the Postgres database/sql driver: pgx (default) or postgres (lib/pq).
	Driver   string `yaml:"driver"`
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
	// TLSCA is a CA bundle for MySQL servers that require TLS.
	TLSCA string `yaml:"tls_ca"`
}

type SessionConfig struct {
	Secret     string        `yaml:"secret"`
	CookieName string        `yaml:"cookie_name"`
	TTL        time.Duration `yaml:"ttl"`
	Secure     bool          `yaml:"secure"`
}

type MediaConfig struct {
	CloudinaryURL string `yaml:"cloudinary_url"`
}

type AdminConfig struct {
	SiteHeader string `yaml:"site_header"`
	SiteTitle  string `yaml:"site_title"`
	IndexTitle string `yaml:"index_title"`
	// PublicURL prefixes "view on site" links.
	PublicURL string `yaml:"public_url"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{Addr: ":8080"},
		Database: DatabaseConfig{
			Dialect: "postgres",
			Driver:  "pgx",
			Host:    "localhost",
			Port:    "5432",
			SSLMode: "disable",
		},
		Session: SessionConfig{
			CookieName: "sessionid",
			TTL:        14 * 24 * time.Hour,
		},
		Admin: AdminConfig{
			SiteHeader: "Sales Admin",
			SiteTitle:  "Sales Admin Portal",
			IndexTitle: "Welcome to Sales Admin Portal",
			PublicURL:  "https://example.com",
		},
		LogLevel: "info",
	}
}

// Load reads the YAML file at path (when path is not empty), then a .env file in the
// working directory (when present), then the process environment. Later sources win.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// Unmarshal parses YAML on top of the defaults.
func Unmarshal(content []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"HTTP_ADDR":         &c.HTTP.Addr,
		"DB_DIALECT":        &c.Database.Dialect,
		"DB_DRIVER":         &c.Database.Driver,
		"DATABASE_URL":      &c.Database.URL,
		"POSTGRES_HOST":     &c.Database.Host,
		"POSTGRES_PORT":     &c.Database.Port,
		"POSTGRES_USER":     &c.Database.User,
		"POSTGRES_PASSWORD": &c.Database.Password,
		"POSTGRES_DB":       &c.Database.Name,
		"POSTGRES_SSLMODE":  &c.Database.SSLMode,
		"MYSQL_TLS_CA":      &c.Database.TLSCA,
		"SESSION_SECRET":    &c.Session.Secret,
		"SESSION_COOKIE":    &c.Session.CookieName,
		"CLOUDINARY_URL":    &c.Media.CloudinaryURL,
		"PUBLIC_URL":        &c.Admin.PublicURL,
		"LOG_LEVEL":         &c.LogLevel,
		"TEMPLATE_DIR":      &c.TemplateDir,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup("SESSION_TTL"); ok && v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SESSION_TTL: %w", err)
		}
		c.Session.TTL = ttl
	}
	if v, ok := lookup("SESSION_SECURE"); ok && v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SESSION_SECURE: %w", err)
		}
		c.Session.Secure = secure
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Database.Dialect {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported database dialect %q", c.Database.Dialect)
	}
	switch c.Database.Driver {
	case "pgx", "postgres":
	default:
		return fmt.Errorf("unsupported postgres driver %q", c.Database.Driver)
	}
	if c.Session.TTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	return nil
}
