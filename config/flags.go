package config

import (
	"flag"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// GeneratedFile is where the setup wizard writes its result.
const GeneratedFile = "admin.gen.yaml"

// Flags are the command line options.
type Flags struct {
	ConfigPath string
	EnvFile    string
	Setup      bool
	Mode       string
	WebAddr    string
}

// ParseFlags parses args (without the program name).
func ParseFlags(args []string) (Flags, error) {
	var f Flags
	fs := flag.NewFlagSet("msquare-admin", flag.ContinueOnError)
	fs.StringVar(&f.ConfigPath, "config", "", "path to yaml config")
	fs.StringVar(&f.EnvFile, "env", ".env", "dotenv file loaded before reading the environment")
	fs.BoolVar(&f.Setup, "setup", false, "run the configuration wizard")
	fs.StringVar(&f.Mode, "mode", "", "surfaces to start: tui, web or both")
	fs.StringVar(&f.WebAddr, "web", "", "address of the local web console, e.g. 127.0.0.1:8088")
	if err := fs.Parse(args); err != nil {
		return Flags{}, err
	}
	return f, nil
}

// Get loads the dotenv file (if present), the yaml config and the environment,
// then applies flag overrides.
func Get(f Flags) (Config, error) {
	if f.EnvFile != "" {
		// a missing .env is fine, the environment may already be set
		_ = godotenv.Load(f.EnvFile)
	}

	path := f.ConfigPath
	if path == "" && fileExists(GeneratedFile) {
		path = GeneratedFile
	}

	cfg, err := Load(path)
	if err != nil {
		return Config{}, err
	}

	if f.Mode != "" {
		cfg.Mode = Mode(f.Mode)
	}
	if f.WebAddr != "" {
		cfg.WebAddr = f.WebAddr
		if cfg.Mode == ModeTUI {
			cfg.Mode = ModeBoth
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(err, "invalid flags")
	}
	return cfg, nil
}
