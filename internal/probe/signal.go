package probe

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/linkwatchd/linkwatchd/internal/watchdog"
)

const defaultWirelessPath = "/proc/net/wireless"

// readSignal extracts RSSI (dBm) for iface from /proc/net/wireless. It
// returns a zero-value LinkMetrics (both fields nil) if the file or the
// named interface is unavailable — non-Linux hosts, a wired-only test box,
// or a typo'd interface name are all "signal absence", never an error that
// should change the cycle's classification on its own (spec §7 kind 3).
//
// /proc/net/wireless carries no bitrate figure, only link quality and
// level/noise; Bitrate is therefore always left nil by this reader and
// exists on LinkMetrics for Probe Sources on platforms that can supply it.
func readSignal(path, iface string) watchdog.LinkMetrics {
	if path == "" {
		path = defaultWirelessPath
	}

	f, err := os.Open(path)
	if err != nil {
		return watchdog.LinkMetrics{}
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo <= 2 {
			continue // two header lines
		}
		line := scanner.Text()
		name, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if strings.TrimSpace(name) != iface {
			continue
		}

		fields := strings.Fields(rest)
		// status link level noise ...
		if len(fields) < 3 {
			return watchdog.LinkMetrics{}
		}
		levelField := strings.TrimSuffix(fields[2], ".")
		level, err := strconv.Atoi(levelField)
		if err != nil {
			return watchdog.LinkMetrics{}
		}
		return watchdog.LinkMetrics{RSSI: &level}
	}

	return watchdog.LinkMetrics{}
}
