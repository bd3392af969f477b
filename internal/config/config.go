package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Auth     AuthConfig     `yaml:"auth"`
	Upload   UploadConfig   `yaml:"upload"`
	CORS     CORSConfig     `yaml:"cors"`
	Log      LogConfig      `yaml:"log"`
	Mail     MailConfig     `yaml:"mail"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"PORT"                    env-default:"5000"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type DatabaseConfig struct {
	DSN          string `yaml:"dsn"            env:"POSTGRES_URL"`
	AutoMigrate  bool   `yaml:"auto_migrate"   env:"DATABASE_AUTO_MIGRATE"   env-default:"true"`
	MaxOpenConns int    `yaml:"max_open_conns" env:"DATABASE_MAX_OPEN_CONNS" env-default:"20"`
	MaxIdleConns int    `yaml:"max_idle_conns" env:"DATABASE_MAX_IDLE_CONNS" env-default:"5"`
}

// MongoConfig points at the database holding the GridFS bucket for PDF attachments.
type MongoConfig struct {
	URI      string `yaml:"uri"      env:"MONGO_URI"      env-default:"mongodb://localhost:27017"`
	Database string `yaml:"database" env:"MONGO_DATABASE" env-default:"astrocrm"`
	Bucket   string `yaml:"bucket"   env:"MONGO_BUCKET"   env-default:"kundaliPdfs"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	Issuer    string        `yaml:"issuer"     env:"JWT_ISSUER" env-default:"astrocrm"`
	TokenTTL  time.Duration `yaml:"token_ttl"  env:"JWT_TTL"    env-default:"24h"`

	// AllowRoleOnRegister lets an unauthenticated registration request pick its own role.
	AllowRoleOnRegister bool `yaml:"allow_role_on_register" env:"AUTH_ALLOW_ROLE_ON_REGISTER" env-default:"false"`

	DefaultAdminName     string `yaml:"default_admin_name"     env:"DEFAULT_ADMIN_NAME"     env-default:"System Administrator"`
	DefaultAdminEmail    string `yaml:"default_admin_email"    env:"DEFAULT_ADMIN_EMAIL"`
	DefaultAdminPassword string `yaml:"default_admin_password" env:"DEFAULT_ADMIN_PASSWORD"`
}

type UploadConfig struct {
	MaxPDFBytes int64 `yaml:"max_pdf_bytes" env:"UPLOAD_MAX_PDF_BYTES" env-default:"10485760"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:5173" env-separator:","`
}

type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

type MailConfig struct {
	Enabled    bool   `yaml:"enabled"      env:"MAIL_ENABLED"      env-default:"false"`
	Host       string `yaml:"host"         env:"SMTP_HOST"         env-default:"smtp.gmail.com"`
	Port       int    `yaml:"port"         env:"SMTP_PORT"         env-default:"587"`
	Username   string `yaml:"username"     env:"SMTP_USERNAME"`
	Password   string `yaml:"password"     env:"SMTP_PASSWORD"`
	From       string `yaml:"from"         env:"SMTP_FROM"`
	FromName   string `yaml:"from_name"    env:"SMTP_FROM_NAME"    env-default:"AstroConsult"`
	UseSSL     bool   `yaml:"use_ssl"      env:"SMTP_USE_SSL"      env-default:"false"`
	AppName    string `yaml:"app_name"     env:"APP_NAME"          env-default:"AstroConsult"`
	AppBaseURL string `yaml:"app_base_url" env:"APP_BASE_URL"      env-default:"http://localhost:5173"`
}

// Load reads configuration from a YAML file and environment variables.
// A .env file in the working directory is loaded into the environment first.
// Priority: ENV > YAML > defaults. CONFIG_PATH selects the YAML file (fallback "./config.yaml");
// a missing default file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	if c.Upload.MaxPDFBytes <= 0 {
		return fmt.Errorf("upload.max_pdf_bytes must be positive")
	}
	if c.Mail.Enabled && c.Mail.From == "" {
		return fmt.Errorf("mail.from is required when mail is enabled")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
