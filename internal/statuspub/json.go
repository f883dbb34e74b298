// Package statuspub publishes the watchdog's current state for external
// consumption: a JSON status file, a Prometheus textfile-collector file,
// and a JSON-lines recovery action history.
package statuspub

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/linkwatchd/linkwatchd/internal/watchdog"
)

// Status is the full snapshot written to the JSON status file once per
// cycle. Field names that mirror the system this was distilled from keep
// their original JSON names for compatibility with existing status
// consumers, even where the Go field is named more precisely internally
// (watchdog.ClassificationResult.ConsecutiveUnhealthy here becomes
// "consecutive_fail_packets").
type Status struct {
	Timestamp              time.Time            `json:"timestamp"`
	State                  watchdog.HealthState `json:"state"`
	FailRatio              float64              `json:"fail_ratio"`
	ConsecutiveFailPackets int                  `json:"consecutive_fail_packets"`
	RSSI                   *int                 `json:"rssi,omitempty"`
	CurrentTier            string               `json:"current_tier,omitempty"`
	RebootsToday           int                  `json:"reboots_today"`
}

// FromClassification builds a Status for one cycle's result.
func FromClassification(now time.Time, result watchdog.ClassificationResult, currentTier string, rebootsToday int) Status {
	return Status{
		Timestamp:              now,
		State:                  result.State,
		FailRatio:              result.FailRatio,
		ConsecutiveFailPackets: result.ConsecutiveUnhealthy,
		RSSI:                   result.RSSI,
		CurrentTier:            currentTier,
		RebootsToday:           rebootsToday,
	}
}

// WriteJSON writes status to path atomically via temp file + rename, the
// same pattern watchdog.FileRebootStateStore uses for the reboot quota
// file, so a reader (e.g. a health-check script) never observes a
// partially-written file.
func WriteJSON(path string, status Status) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("create status dir %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".status-*.json")
	if err != nil {
		return fmt.Errorf("create temp status file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp status file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp status file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("chmod temp status file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp status file to %s: %w", path, err)
	}
	return nil
}

// ReadJSON reads a status file previously written by WriteJSON, for
// `linkwatchd status`.
func ReadJSON(path string) (Status, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Status{}, fmt.Errorf("read status file %s: %w", path, err)
	}
	var status Status
	if err := json.Unmarshal(data, &status); err != nil {
		return Status{}, fmt.Errorf("parse status file %s: %w", path, err)
	}
	return status, nil
}
