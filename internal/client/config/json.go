package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/medscribe/internal/flagx"
	"github.com/dmitrijs2005/medscribe/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "30s" or as integer nanoseconds.
type JsonConfig struct {
	APIBaseURL     string         `json:"api_base_url"`
	DBPath         string         `json:"db_path"`
	RequestTimeout timex.Duration `json:"request_timeout"`

	ExportSink   string         `json:"export_sink"`
	ExportDir    string         `json:"export_dir"`
	S3Bucket     string         `json:"s3_bucket"`
	S3Region     string         `json:"s3_region"`
	S3Endpoint   string         `json:"s3_endpoint"`
	S3AccessKey  string         `json:"s3_access_key"`
	S3SecretKey  string         `json:"s3_secret_key"`
	S3PathStyle  bool           `json:"s3_path_style"`
	S3PresignTTL timex.Duration `json:"s3_presign_ttl"`

	LogBackend string `json:"log_backend"`
	LogLevel   string `json:"log_level"`
	LogFormat  string `json:"log_format"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Keys missing from the file keep their current value.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	jc := JsonConfig{
		APIBaseURL:     cfg.APIBaseURL,
		DBPath:         cfg.DBPath,
		RequestTimeout: timex.Duration{Duration: cfg.RequestTimeout},
		ExportSink:     cfg.ExportSink,
		ExportDir:      cfg.ExportDir,
		S3Bucket:       cfg.S3Bucket,
		S3Region:       cfg.S3Region,
		S3Endpoint:     cfg.S3Endpoint,
		S3AccessKey:    cfg.S3AccessKey,
		S3SecretKey:    cfg.S3SecretKey,
		S3PathStyle:    cfg.S3PathStyle,
		S3PresignTTL:   timex.Duration{Duration: cfg.S3PresignTTL},
		LogBackend:     cfg.LogBackend,
		LogLevel:       cfg.LogLevel,
		LogFormat:      cfg.LogFormat,
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.APIBaseURL = jc.APIBaseURL
	cfg.DBPath = jc.DBPath
	cfg.RequestTimeout = jc.RequestTimeout.Duration
	cfg.ExportSink = jc.ExportSink
	cfg.ExportDir = jc.ExportDir
	cfg.S3Bucket = jc.S3Bucket
	cfg.S3Region = jc.S3Region
	cfg.S3Endpoint = jc.S3Endpoint
	cfg.S3AccessKey = jc.S3AccessKey
	cfg.S3SecretKey = jc.S3SecretKey
	cfg.S3PathStyle = jc.S3PathStyle
	cfg.S3PresignTTL = jc.S3PresignTTL.Duration
	cfg.LogBackend = jc.LogBackend
	cfg.LogLevel = jc.LogLevel
	cfg.LogFormat = jc.LogFormat
}
