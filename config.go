package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config is read from POKERTAB_* environment variables, optionally seeded
// from a .env file at startup.
type Config struct {
	Port         string        // HTTP listen port
	ProfileDir   string        // Chrome user data dir
	Headless     bool          // run Chrome headless
	CookiePath   string        // session cookie file
	HomeURL      string        // site home, visited once to bootstrap cookies
	HistoryPath  string        // sqlite hand-history path, "" disables the ledger
	PollInterval time.Duration // state poll cadence for watch/ledger
	HumanInput   bool          // humanized mouse/keyboard against the site
	Debug        bool
}

func loadConfig() Config {
	return Config{
		Port:         envStr("POKERTAB_PORT", "8099"),
		ProfileDir:   envStr("POKERTAB_PROFILE", defaultPath("profile")),
		Headless:     envBool("POKERTAB_HEADLESS", true),
		CookiePath:   envStr("POKERTAB_COOKIES", defaultPath("cookies.json")),
		HomeURL:      envStr("POKERTAB_HOME", "https://pokernow.club/"),
		HistoryPath:  envStr("POKERTAB_DB", defaultPath("history.db")),
		PollInterval: envDuration("POKERTAB_POLL_INTERVAL", 2*time.Second),
		HumanInput:   envBool("POKERTAB_HUMAN_INPUT", true),
		Debug:        envBool("POKERTAB_DEBUG", false),
	}
}

func defaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".pokertab", name)
}

func envStr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
