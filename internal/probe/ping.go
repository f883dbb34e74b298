package probe

import (
	"context"
	"os/exec"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/linkwatchd/linkwatchd/internal/watchdog"
)

// pingHost runs the system ping binary against host count times, bounded by
// timeout, and reports success if ping exits zero. Invoking the system
// binary rather than crafting raw ICMP sockets matches the teacher's
// exec.Command-based process-invocation convention and avoids requiring
// CAP_NET_RAW for the watchdog binary itself.
func pingHost(ctx context.Context, host string, count int, timeout time.Duration) watchdog.PingOutcome {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := pingArgs(host, count, timeout)
	cmd := exec.CommandContext(ctx, "ping", args...)
	err := cmd.Run()

	return watchdog.PingOutcome{Host: host, Success: err == nil}
}

func pingArgs(host string, count int, timeout time.Duration) []string {
	deadline := int(timeout.Seconds())
	if deadline < 1 {
		deadline = 1
	}
	if runtime.GOOS == "darwin" {
		return []string{"-c", strconv.Itoa(count), "-t", strconv.Itoa(deadline), host}
	}
	return []string{"-c", strconv.Itoa(count), "-w", strconv.Itoa(deadline), host}
}

// pingAll runs pingHost against every host concurrently, bounded by the
// shared ctx, and returns one PingOutcome per host in hosts order.
func pingAll(ctx context.Context, hosts []string, count int, timeout time.Duration) []watchdog.PingOutcome {
	outcomes := make([]watchdog.PingOutcome, len(hosts))

	var wg sync.WaitGroup
	for i, host := range hosts {
		wg.Add(1)
		go func(i int, host string) {
			defer wg.Done()
			outcomes[i] = pingHost(ctx, host, count, timeout)
		}(i, host)
	}
	wg.Wait()

	return outcomes
}
