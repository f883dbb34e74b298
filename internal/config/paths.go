package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "linkwatchd"

// ConfigDir returns the platform-specific configuration directory. On Linux
// (the only platform the watchdog actually runs on) this is /etc/linkwatchd
// when running as root, falling back to XDG_CONFIG_HOME for development and
// dry-run use under a normal user account.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default: // linux and others
		if os.Geteuid() == 0 {
			return filepath.Join("/etc", appName)
		}
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			return filepath.Join(xdgConfig, appName)
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appName)
	}
}

// StateDir returns the directory the status JSON, Prometheus textfile, and
// reboot quota file are written under by default.
func StateDir() string {
	switch runtime.GOOS {
	case "darwin", "windows":
		return ConfigDir()
	default:
		if os.Geteuid() == 0 {
			return filepath.Join("/var/lib", appName)
		}
		if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
			return filepath.Join(xdgData, appName)
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName)
	}
}

// Path returns the full path to the default config file.
func Path() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DaemonLogPath returns a daemon log file path under StateDir. Nothing in
// the daemon or the installed systemd unit writes to it; the logger writes
// to stdout.
func DaemonLogPath() string {
	return filepath.Join(StateDir(), "daemon.log")
}

// ActionHistoryPath returns the default path for the recovery action
// history log (internal/statuspub.History), used by supervisor.New when
// status.history_path is unset. Supplements the distilled spec with the
// original implementation's action-history log.
func ActionHistoryPath() string {
	return filepath.Join(StateDir(), "action_history.jsonl")
}

// EnsureDirs creates the config and state directories if they don't exist.
func EnsureDirs() error {
	if err := os.MkdirAll(ConfigDir(), 0750); err != nil {
		return err
	}
	return os.MkdirAll(StateDir(), 0750)
}

// IsInstalled reports whether linkwatchd has any installed configuration or
// state, i.e. whether ConfigDir or StateDir exists and is non-empty. No
// command calls it; `linkwatchd service install` does not check it.
func IsInstalled() bool {
	if entries, err := os.ReadDir(ConfigDir()); err == nil && len(entries) > 0 {
		return true
	}
	if entries, err := os.ReadDir(StateDir()); err == nil && len(entries) > 0 {
		return true
	}
	return false
}
