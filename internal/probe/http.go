package probe

import (
	"context"
	"net/http"
	"time"
)

// checkHTTP issues one HEAD request against url, bounded by timeout, and
// reports success for any 2xx/3xx response. An empty url means the HTTP
// probe is disabled for this deployment; callers must check that before
// calling checkHTTP, never treating "no probe" as "probe failed".
func checkHTTP(ctx context.Context, url string, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode < 400
}
