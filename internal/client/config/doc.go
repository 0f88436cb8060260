// Package config loads runtime configuration for the MedScribe CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via flags: -c or -config.
//  3. Environment: MEDSCRIBE_API_URL overrides the API base URL.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   API base URL
//	-d string   credential database path (":memory:" keeps nothing on disk)
//	-t int      request timeout (seconds)
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "30s"
// or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://medscribe.example/api",
//	  "db_path": "/var/lib/medscribe/client.db",
//	  "request_timeout": "30s",
//	  "export_sink": "s3",
//	  "s3_bucket": "medscribe-exports",
//	  "s3_endpoint": "http://127.0.0.1:9000",
//	  "s3_path_style": true,
//	  "log_backend": "zap",
//	  "log_level": "debug"
//	}
package config
