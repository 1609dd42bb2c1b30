package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/trak-cli/trak/internal/domain"
	"github.com/trak-cli/trak/internal/ports"
)

const maxResponseBytes = 1 << 20

const (
	defaultRequestTimeout = 10 * time.Second
	defaultListRetries    = 3
	defaultRetryBackoff   = 250 * time.Millisecond
)

// Client talks to the backend timer API. Writes are issued at most once;
// the idempotent list read is retried with backoff because recovery depends
// on it.
type Client struct {
	BaseURL        string
	Token          string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	ListRetries    int
	RetryBackoff   time.Duration
}

var _ ports.TimerRemote = (*Client)(nil)

func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: httpClient,
	}
}

func (c *Client) Start(ctx context.Context, user, project, task domain.ObjectID) (domain.TimerRecord, error) {
	payload := timerActionRequest{UserID: string(user), ProjectID: string(project), TaskID: string(task)}

	var resp timerRecordPayload
	if err := c.post(ctx, "/timers/start", payload, &resp); err != nil {
		return domain.TimerRecord{}, fmt.Errorf("start timer: %w", err)
	}

	return resp.toDomain()
}

func (c *Client) Stop(ctx context.Context, user, project, task domain.ObjectID, description string) (domain.TimerRecord, error) {
	payload := timerActionRequest{
		UserID:      string(user),
		ProjectID:   string(project),
		TaskID:      string(task),
		Description: description,
	}

	var resp timerRecordPayload
	if err := c.post(ctx, "/timers/stop", payload, &resp); err != nil {
		return domain.TimerRecord{}, fmt.Errorf("stop timer: %w", err)
	}

	return resp.toDomain()
}

func (c *Client) Pause(ctx context.Context, user, project, task domain.ObjectID) (time.Time, error) {
	payload := timerActionRequest{UserID: string(user), ProjectID: string(project), TaskID: string(task)}

	var resp pausePayload
	if err := c.post(ctx, "/timers/pause", payload, &resp); err != nil {
		return time.Time{}, fmt.Errorf("pause timer: %w", err)
	}
	if resp.PausedAt.IsZero() {
		return time.Time{}, errors.New("pause response missing pausedAt")
	}

	return resp.PausedAt, nil
}

func (c *Client) Resume(ctx context.Context, user, project, task domain.ObjectID) (time.Duration, error) {
	payload := timerActionRequest{UserID: string(user), ProjectID: string(project), TaskID: string(task)}

	var resp resumePayload
	if err := c.post(ctx, "/timers/resume", payload, &resp); err != nil {
		return 0, fmt.Errorf("resume timer: %w", err)
	}

	return time.Duration(resp.TotalPausedMillis) * time.Millisecond, nil
}

func (c *Client) LogManual(ctx context.Context, log domain.ManualLog) (domain.TimerRecord, error) {
	payload := manualLogRequest{
		UserID:      string(log.UserID),
		ProjectID:   string(log.ProjectID),
		TaskID:      string(log.TaskID),
		StartTime:   log.StartTime.UTC(),
		EndTime:     log.EndTime.UTC(),
		Description: log.Description,
	}

	var resp timerRecordPayload
	if err := c.post(ctx, "/timers/log", payload, &resp); err != nil {
		return domain.TimerRecord{}, fmt.Errorf("log manual entry: %w", err)
	}

	return resp.toDomain()
}

func (c *Client) ListForUser(ctx context.Context, user domain.ObjectID) ([]domain.TimerRecord, error) {
	endpoint, err := c.buildURL("/timers/user/" + url.PathEscape(string(user)))
	if err != nil {
		return nil, err
	}

	retries := c.ListRetries
	if retries <= 0 {
		retries = defaultListRetries
	}
	backoff := c.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}

	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		var resp []timerRecordPayload
		err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
		if err == nil {
			records := make([]domain.TimerRecord, 0, len(resp))
			for _, payload := range resp {
				record, err := payload.toDomain()
				if err != nil {
					return nil, fmt.Errorf("list timers: %w", err)
				}
				records = append(records, record)
			}
			return records, nil
		}

		lastErr = err
		if !retryable(err) || attempt == retries {
			break
		}
		if err := sleep(ctx, backoff); err != nil {
			return nil, err
		}
		backoff *= 2
	}

	return nil, fmt.Errorf("list timers: %w", lastErr)
}

func (c *Client) UpdateEntry(ctx context.Context, id domain.ObjectID, patch domain.EntryPatch) (domain.TimerRecord, error) {
	endpoint, err := c.buildURL("/timers/" + url.PathEscape(string(id)))
	if err != nil {
		return domain.TimerRecord{}, err
	}

	payload := entryPatchRequest{Description: patch.Description}
	if patch.Minutes != nil {
		payload.Duration = patch.Minutes
	}
	if patch.Date != nil {
		date := patch.Date.UTC()
		payload.Date = &date
	}

	var resp timerRecordPayload
	if err := c.do(ctx, http.MethodPut, endpoint, payload, &resp); err != nil {
		return domain.TimerRecord{}, fmt.Errorf("update entry: %w", err)
	}

	return resp.toDomain()
}

func (c *Client) DeleteEntry(ctx context.Context, id domain.ObjectID) error {
	endpoint, err := c.buildURL("/timers/" + url.PathEscape(string(id)))
	if err != nil {
		return err
	}

	if err := c.do(ctx, http.MethodDelete, endpoint, nil, nil); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	return nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	endpoint, err := c.buildURL(path)
	if err != nil {
		return err
	}

	return c.do(ctx, http.MethodPost, endpoint, body, out)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("call timer api: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (c *Client) buildURL(path string) (string, error) {
	base := strings.TrimSpace(c.BaseURL)
	if base == "" {
		return "", errors.New("timer api base url is empty")
	}

	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse timer api base url: %w", err)
	}

	parsed.Path = strings.TrimSuffix(parsed.Path, "/") + path
	return parsed.String(), nil
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := c.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, timeout)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}

	return http.DefaultClient
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
