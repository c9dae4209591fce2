// Package config loads runtime configuration for the medrecords CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, optionally seeded from a dotenv file
//     (-e/-env, falling back to ./.env when present).
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags, which override everything above.
//
// Environment
//
//	MEDRECORDS_API_BASE_URL      base URL of the records REST service
//	MEDRECORDS_TOKEN_DB          path of the local SQLite token database
//	MEDRECORDS_REQUEST_TIMEOUT   per-request timeout ("30s"); 0 = transport default
//	MEDRECORDS_COALESCE_REFRESH  "true"/"false"
//	MEDRECORDS_LOG_LEVEL         debug | info | warn | error
//	MEDRECORDS_LOG_FORMAT        json | text
//
// Supported flags
//
//	-a string   base URL of the records REST service
//	-d string   path of the local token database (":memory:" keeps nothing)
//	-t int      request timeout in seconds
//	-l string   log level
//
// # JSON schema
//
//	{
//	  "api_base_url": "http://localhost:8000/api/",
//	  "token_db_path": "medrecords.db",
//	  "request_timeout": "30s",
//	  "coalesce_refresh": true,
//	  "log_level": "info",
//	  "log_format": "json"
//	}
package config
