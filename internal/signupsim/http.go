package signupsim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mergington/activities/pkg/logger"
)

const workerChannelMultiplier = 2

// HTTPClient wraps http.Client with the simulator's request helpers.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, http.NoBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, nil
}

// Activities fetches the full registry.
func (c *HTTPClient) Activities(ctx context.Context) (map[string]Activity, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/activities")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("list activities: unexpected status %d", status)
	}
	var out map[string]Activity
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode activities: %w", err)
	}
	return out, nil
}

// Healthy reports whether /healthz answers 200.
func (c *HTTPClient) Healthy(ctx context.Context) error {
	status, _, err := c.do(ctx, http.MethodGet, "/healthz")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", status)
	}
	return nil
}

// Signup posts one signup and classifies the reply.
func (c *HTTPClient) Signup(ctx context.Context, activity, email string) Result {
	return c.participant(ctx, http.MethodPost, activity, "signup", email)
}

// Unregister deletes one participant and classifies the reply.
func (c *HTTPClient) Unregister(ctx context.Context, activity, email string) Result {
	return c.participant(ctx, http.MethodDelete, activity, "participants", email)
}

func (c *HTTPClient) participant(ctx context.Context, method, activity, action, email string) Result {
	path := "/activities/" + url.PathEscape(activity) + "/" + action + "?" + url.Values{"email": {email}}.Encode()
	status, body, err := c.do(ctx, method, path)
	if err != nil {
		return ResultFailed
	}
	return classify(status, body)
}

func classify(status int, body []byte) Result {
	var reply struct {
		Detail string `json:"detail"`
	}
	_ = json.Unmarshal(body, &reply)

	switch {
	case status == http.StatusOK:
		return ResultOK
	case status == http.StatusBadRequest && strings.Contains(reply.Detail, "already signed up"):
		return ResultDuplicate
	case status == http.StatusBadRequest && reply.Detail == "Activity is full":
		return ResultFull
	case status == http.StatusNotFound:
		return ResultNotFound
	default:
		return ResultFailed
	}
}

type requestFunc func(ctx context.Context, activity, email string) Result

// fanOut runs call for every email on cfg.Workers goroutines.
func fanOut(ctx context.Context, cfg *Config, phase string, emails []string, call requestFunc) Tally {
	var (
		mu        sync.Mutex
		tally     Tally
		submitted int64
		wg        sync.WaitGroup
	)
	log := logger.Get().Named("signupsim").With(logger.String("phase", phase))
	jobs := make(chan string, cfg.Workers*workerChannelMultiplier)

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for email := range jobs {
				if ctx.Err() != nil {
					continue
				}
				r := call(ctx, cfg.Activity, email)
				mu.Lock()
				tally.add(r)
				mu.Unlock()

				if n := atomic.AddInt64(&submitted, 1); cfg.Verbose && n%100 == 0 {
					log.Debug(ctx, "progress", logger.Int("submitted", int(n)), logger.Int("total", len(emails)))
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, email := range emails {
			select {
			case <-ctx.Done():
				return
			case jobs <- email:
			}
		}
	}()

	wg.Wait()

	log.Info(ctx, "phase completed",
		logger.Int("submitted", tally.Submitted),
		logger.Int("ok", tally.OK),
		logger.Int("duplicate", tally.Duplicate),
		logger.Int("full", tally.Full),
		logger.Int("notFound", tally.NotFound),
		logger.Int("failed", tally.Failed),
	)
	return tally
}
