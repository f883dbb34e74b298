package statuspub

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/linkwatchd/linkwatchd/internal/watchdog"
)

func intPtr(v int) *int { return &v }

func TestWriteJSONThenReadJSONRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "status.json")

	status := FromClassification(time.Now(), watchdog.ClassificationResult{
		State:                watchdog.Degraded,
		FailRatio:            0.5,
		ConsecutiveUnhealthy: 3,
		RSSI:                 intPtr(-72),
	}, "cycle_interface", 1)

	require.NoError(t, WriteJSON(path, status))

	got, err := ReadJSON(path)
	require.NoError(t, err)
	require.Equal(t, watchdog.Degraded, got.State)
	require.Equal(t, 3, got.ConsecutiveFailPackets)
	require.Equal(t, "cycle_interface", got.CurrentTier)
	require.Equal(t, 1, got.RebootsToday)
}

func TestWriteJSONCreatesParentDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "status.json")

	require.NoError(t, WriteJSON(path, Status{}))
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestHistoryRecordActionAppendsJSONLines(t *testing.T) {
	dir := t.TempDir()
	h := &History{Path: filepath.Join(dir, "history.jsonl")}

	h.RecordAction("restart_network_services", true, nil)
	h.RecordAction("reboot", false, errors.New("denied"))

	data, err := os.ReadFile(h.Path)
	require.NoError(t, err)
	lines := splitLines(string(data))
	require.Len(t, lines, 2)
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, c := range s {
		if c == '\n' {
			if i > start {
				lines = append(lines, s[start:i])
			}
			start = i + 1
		}
	}
	return lines
}

func TestPrometheusWriterWritesTextfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "linkwatchd.prom")

	w := NewPrometheusWriter()
	w.Observe(Status{State: watchdog.Lost, FailRatio: 0.9, RSSI: intPtr(-90), RebootsToday: 2})

	require.NoError(t, w.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "linkwatchd_fail_ratio")
	require.Contains(t, string(data), "linkwatchd_reboots_today 2")
}
