package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures runtime configuration for the daemon.
type Config struct {
	Daemon  Daemon
	Logging Logging
	Flags   map[string]string
	Args    []string
}

// Daemon holds tuning for the core loops.
type Daemon struct {
	FilePath      string
	PrefsPath     string
	PollInterval  time.Duration
	DebounceDelay time.Duration
	Search        bool
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envConfigFile    = "BARKEEP_CONFIG"
	envPrefsPath     = "BARKEEP_PREFS"
	envPollInterval  = "BARKEEP_POLL_INTERVAL"
	envDebounceDelay = "BARKEEP_DEBOUNCE"
	envTrace         = "BARKEEP_TRACE"
	envLogFile       = "BARKEEP_LOG_FILE"
)

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("barkeep", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	configFile := fs.String("config", envOrDefault(env, envConfigFile, ""), "path to the YAML config file (bindings and tuning)")
	prefsPath := fs.String("prefs", envOrDefault(env, envPrefsPath, ""), "path to the preference database")
	pollInterval := fs.Duration("poll-interval", envOrDuration(env, envPollInterval, 1500*time.Millisecond), "menu-bar snapshot interval")
	debounce := fs.Duration("debounce", envOrDuration(env, envDebounceDelay, 100*time.Millisecond), "classification debounce delay")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")
	search := fs.Bool("search", false, "open the menu-bar item search picker instead of running the daemon")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *pollInterval <= 0 {
		return Config{}, fmt.Errorf("poll-interval must be > 0 (got %s)", *pollInterval)
	}
	if *debounce < 0 {
		return Config{}, fmt.Errorf("debounce must be >= 0 (got %s)", *debounce)
	}

	cfg := Config{
		Daemon: Daemon{
			FilePath:      *configFile,
			PrefsPath:     *prefsPath,
			PollInterval:  *pollInterval,
			DebounceDelay: *debounce,
			Search:        *search,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"config":       *configFile,
			"prefs":        *prefsPath,
			"pollInterval": pollInterval.String(),
			"debounce":     debounce.String(),
			"trace":        strconv.FormatBool(*trace),
			"logFile":      *logFile,
			"search":       strconv.FormatBool(*search),
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
