package core

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

func MustLoadBaseConfig(path string) CoreConfig {
	if path == "" {
		return LoadBaseConfigFromENV()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	conf := &CoreConfig{}
	if err = toml.Unmarshal(raw, conf); err != nil {
		panic(err)
	}

	conf.applyDefaults()
	return *conf
}

func LoadBaseConfigFromENV() CoreConfig {
	var c CoreConfig
	c.FromENV()
	c.applyDefaults()
	return c
}

type CoreConfig struct {
	Addr          string              `toml:"addr"`
	Log           Log                 `toml:"log"`
	Postgres      PGConfig            `toml:"postgres"`
	Redis         RedisConfig         `toml:"redis"`
	Site          Site                `toml:"site"`
	ObjectStorage ObjectStorageDriver `toml:"object_storage"`

	Security Security      `toml:"security"`
	Share    ShareConfig   `toml:"share"`
	Webhook  WebhookConfig `toml:"webhook"`
	Pdf      PdfConfig     `toml:"pdf"`
	Janitor  JanitorConfig `toml:"janitor"`
}

func (c *CoreConfig) applyDefaults() {
	if c.Security.GrantTTLSeconds <= 0 {
		c.Security.GrantTTLSeconds = 900
	}
	if c.Share.MaxUploadBytes <= 0 {
		c.Share.MaxUploadBytes = 15 << 20
	}
	if len(c.Share.AllowedMimeTypes) == 0 {
		c.Share.AllowedMimeTypes = []string{
			"application/pdf", "image/jpeg", "image/png", "image/heic",
		}
	}
	if c.Share.PasswordAttemptLimit <= 0 {
		c.Share.PasswordAttemptLimit = 10
	}
	if c.Webhook.MaxAttempts <= 0 {
		c.Webhook.MaxAttempts = 3
	}
	if c.Janitor.Spec == "" {
		c.Janitor.Spec = "0 * * * *"
	}
}

type ObjectStorageDriver struct {
	StaticDomain string    `toml:"static_domain"`
	Driver       string    `toml:"driver"`
	S3           *S3Config `toml:"s3"`
}

type S3Config struct {
	Bucket       string `toml:"bucket"`
	Region       string `toml:"region"`
	Endpoint     string `toml:"endpoint"`
	AccessKey    string `toml:"access_key"`
	SecretKey    string `toml:"secret_key"`
	UsePathStyle bool   `toml:"use_path_style"`
}

type Site struct {
	// ShareDomain is the public base the mailed links point at, e.g.
	// https://intake.vidalaw.example/s
	ShareDomain string `toml:"share_domain"`
}

type Security struct {
	// JWTSecret signs staff tokens and the short-lived access grants.
	JWTSecret string `toml:"jwt_secret"`
	// GrantTTLSeconds bounds how long a validated visitor may keep working
	// without going through the link again.
	GrantTTLSeconds int `toml:"grant_ttl_seconds"`
}

type ShareConfig struct {
	MaxUploadBytes       int64    `toml:"max_upload_bytes"`
	AllowedMimeTypes     []string `toml:"allowed_mime_types"`
	PasswordAttemptLimit int      `toml:"password_attempt_limit"`
}

type WebhookConfig struct {
	Endpoint    string `toml:"endpoint"`
	Secret      string `toml:"secret"`
	MaxAttempts int    `toml:"max_attempts"`
}

type PdfConfig struct {
	// RenderEndpoint points at the HTML-to-PDF sidecar; empty disables
	// letter rendering entirely.
	RenderEndpoint string `toml:"render_endpoint"`
}

type JanitorConfig struct {
	// Spec is a standard 5-field cron expression.
	Spec string `toml:"spec"`
}

func (c *CoreConfig) FromENV() {
	c.Addr = os.Getenv("INTAKE_API_SERVICE_ADDRESS")
	c.Security.JWTSecret = os.Getenv("INTAKE_API_JWT_SECRET")
	c.Log.FromENV()
	c.Postgres.FromENV()
	c.Redis.FromENV()
}

type PGConfig struct {
	DSN string `toml:"dsn"`
}

func (m *PGConfig) FromENV() {
	m.DSN = os.Getenv("INTAKE_API_POSTGRESQL_DSN")
}

func (c PGConfig) FormatDSN() string {
	return c.DSN
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`

	Cluster       bool     `toml:"cluster"`
	ClusterAddrs  []string `toml:"cluster_addrs"`
	ClusterPasswd string   `toml:"cluster_passwd"`

	KeyPrefix string `toml:"key_prefix"`
}

func (r *RedisConfig) FromENV() {
	r.Addr = os.Getenv("INTAKE_REDIS_ADDR")
	r.Password = os.Getenv("INTAKE_REDIS_PASSWORD")
	if dbStr := os.Getenv("INTAKE_REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			r.DB = db
		}
	}
}

type Log struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

func (l *Log) FromENV() {
	l.Level = os.Getenv("INTAKE_API_LOG_LEVEL")
	l.Path = os.Getenv("INTAKE_API_LOG_PATH")
}

func (l *Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}
