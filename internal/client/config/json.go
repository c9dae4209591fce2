package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/medrecords/internal/flagx"
	"github.com/dmitrijs2005/medrecords/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from zero values so a partial file only
// overrides what it names.
type JsonConfig struct {
	APIBaseURL      *string         `json:"api_base_url"`
	TokenDBPath     *string         `json:"token_db_path"`
	RequestTimeout  *timex.Duration `json:"request_timeout"`
	CoalesceRefresh *bool           `json:"coalesce_refresh"`
	LogLevel        *string         `json:"log_level"`
	LogFormat       *string         `json:"log_format"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c/-config. Without the flag nothing happens; read or decode errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != nil {
		cfg.APIBaseURL = *jc.APIBaseURL
	}
	if jc.TokenDBPath != nil {
		cfg.TokenDBPath = *jc.TokenDBPath
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.CoalesceRefresh != nil {
		cfg.CoalesceRefresh = *jc.CoalesceRefresh
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.LogFormat != nil {
		cfg.LogFormat = *jc.LogFormat
	}
}
