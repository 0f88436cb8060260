package config

import "github.com/dmitrijs2005/medscribe/internal/common"

// parseEnv applies MEDSCRIBE_API_URL when it is set and non-empty.
func parseEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(common.APIURLEnv); ok && v != "" {
		cfg.APIBaseURL = v
	}
}
