package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/medscribe/internal/client/export"
)

// Sinks accepted by ExportSink.
const (
	SinkFile = "file"
	SinkS3   = "s3"
)

// Config holds runtime settings for the MedScribe CLI.
//
// Units: RequestTimeout and S3PresignTTL are time.Duration values.
type Config struct {
	APIBaseURL     string
	DBPath         string
	RequestTimeout time.Duration

	ExportSink   string
	ExportDir    string
	S3Bucket     string
	S3Region     string
	S3Endpoint   string
	S3AccessKey  string
	S3SecretKey  string
	S3PathStyle  bool
	S3PresignTTL time.Duration

	LogBackend string
	LogLevel   string
	LogFormat  string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000/api"
	c.DBPath = "medscribe.db"
	c.RequestTimeout = 30 * time.Second
	c.ExportSink = SinkFile
	c.ExportDir = "exports"
	c.S3Region = "us-east-1"
	c.S3PresignTTL = 15 * time.Minute
	c.LogBackend = "slog"
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// S3 returns the export bucket settings.
func (c *Config) S3() export.S3Config {
	return export.S3Config{
		Bucket:          c.S3Bucket,
		Region:          c.S3Region,
		Endpoint:        c.S3Endpoint,
		AccessKeyID:     c.S3AccessKey,
		SecretAccessKey: c.S3SecretKey,
		PathStyle:       c.S3PathStyle,
		PresignTTL:      c.S3PresignTTL,
	}
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	return load(os.Args[1:], os.LookupEnv)
}

func load(args []string, lookup func(string) (string, bool)) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseEnv(cfg, lookup)
	parseFlags(cfg, args)
	return cfg
}
