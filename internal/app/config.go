package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	WorkspacePath string // hcl files
	BuildName     string // empty runs every declared build

	Template  bool
	Verbose   bool
	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.WorkspacePath == "" {
		return nil, errors.New("WorkspacePath is a required configuration field and cannot be empty")
	}

	return &cfg, nil
}
