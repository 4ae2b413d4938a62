package main

import (
	"github.com/spf13/pflag"

	"drilling-engine/internal/config"
)

// options are the command line settings. Flags win over the config file and
// the environment.
type options struct {
	configPath string
	addr       string
	logLevel   string
}

func parseFlags(args []string, getenv func(string) string) (options, error) {
	var opts options

	fs := pflag.NewFlagSet("drilling-engine", pflag.ContinueOnError)
	fs.StringVarP(&opts.configPath, "config", "c", getenv(config.EnvConfigPath), "path to the YAML configuration file")
	fs.StringVar(&opts.addr, "addr", "", "listen address, overrides server.addr")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level, overrides log.level")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

// apply copies the flags that were set onto cfg.
func (o options) apply(cfg *config.Config) {
	if o.addr != "" {
		cfg.Server.Addr = o.addr
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
}
