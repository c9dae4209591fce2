package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/medrecords/internal/flagx"
	"github.com/joho/godotenv"
)

const (
	envBaseURL         = "MEDRECORDS_API_BASE_URL"
	envTokenDB         = "MEDRECORDS_TOKEN_DB"
	envRequestTimeout  = "MEDRECORDS_REQUEST_TIMEOUT"
	envCoalesceRefresh = "MEDRECORDS_COALESCE_REFRESH"
	envLogLevel        = "MEDRECORDS_LOG_LEVEL"
	envLogFormat       = "MEDRECORDS_LOG_FORMAT"

	defaultEnvFile = ".env"
)

// loadDotenv seeds the process environment from a dotenv file. An explicit
// -env file must exist; the implicit ./.env is optional. Variables already
// set in the environment are never overwritten.
func loadDotenv() {
	path := flagx.EnvFileFlag()
	if path == "" {
		if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
		return
	}
	if err := godotenv.Load(path); err != nil {
		panic(err)
	}
}

// parseEnv overlays Config with MEDRECORDS_* environment variables.
// Malformed numeric or boolean values panic, like the JSON and flag stages.
func parseEnv(cfg *Config) {
	loadDotenv()

	if v, ok := os.LookupEnv(envBaseURL); ok && v != "" {
		cfg.APIBaseURL = v
	}
	if v, ok := os.LookupEnv(envTokenDB); ok && v != "" {
		cfg.TokenDBPath = v
	}
	if v, ok := os.LookupEnv(envRequestTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		cfg.RequestTimeout = d
	}
	if v, ok := os.LookupEnv(envCoalesceRefresh); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		cfg.CoalesceRefresh = b
	}
	if v, ok := os.LookupEnv(envLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv(envLogFormat); ok && v != "" {
		cfg.LogFormat = v
	}
}
