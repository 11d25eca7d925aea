package geocode

import (
	"context"
	"io"
	"net/http"
	"time"
)

const defaultMaxRetries = 3

// doWithRetry executes req and retries on HTTP 429 with exponential
// backoff starting at base. Waiting honours ctx. After the last attempt
// the 429 response is returned for the caller to report.
func doWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, base time.Duration) (*http.Response, error) {
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := base << attempt
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
