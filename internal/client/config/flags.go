package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/medrecords/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   base URL of the records service
//	-d string   token database path
//	-t int      request timeout (in seconds)
//	-l string   log level
//
// os.Args is filtered with flagx.FilterArgs so flags owned by other stages
// (-c, -env) do not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the records service")
	fs.StringVar(&cfg.TokenDBPath, "d", cfg.TokenDBPath, "path of the local token database")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
