package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/trak-cli/trak/internal/domain"
)

type timerActionRequest struct {
	UserID      string `json:"userId"`
	ProjectID   string `json:"projectId"`
	TaskID      string `json:"taskId"`
	Description string `json:"description,omitempty"`
}

type manualLogRequest struct {
	UserID      string    `json:"userId"`
	ProjectID   string    `json:"projectId"`
	TaskID      string    `json:"taskId"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Description string    `json:"description,omitempty"`
}

type entryPatchRequest struct {
	Duration    *int       `json:"duration,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	Description *string    `json:"description,omitempty"`
}

type timerRecordPayload struct {
	ID                string     `json:"_id"`
	UserID            string     `json:"userId"`
	ProjectID         string     `json:"projectId"`
	TaskID            string     `json:"taskId"`
	StartTime         time.Time  `json:"startTime"`
	EndTime           *time.Time `json:"endTime,omitempty"`
	Description       string     `json:"description,omitempty"`
	IsPaused          bool       `json:"isPaused,omitempty"`
	PausedAt          *time.Time `json:"pausedAt,omitempty"`
	TotalPausedMillis int64      `json:"totalPausedTime,omitempty"`
	Duration          int        `json:"duration,omitempty"`
	CreatedAt         *time.Time `json:"createdAt,omitempty"`
}

type pausePayload struct {
	PausedAt time.Time `json:"pausedAt"`
}

type resumePayload struct {
	TotalPausedMillis int64 `json:"totalPausedTime"`
}

type apiErrorPayload struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (p timerRecordPayload) toDomain() (domain.TimerRecord, error) {
	if p.ID == "" {
		return domain.TimerRecord{}, errors.New("timer record missing id")
	}
	if p.StartTime.IsZero() {
		return domain.TimerRecord{}, fmt.Errorf("timer record %s missing startTime", p.ID)
	}

	record := domain.TimerRecord{
		ID:          domain.ObjectID(p.ID),
		UserID:      domain.ObjectID(p.UserID),
		ProjectID:   domain.ObjectID(p.ProjectID),
		TaskID:      domain.ObjectID(p.TaskID),
		StartTime:   p.StartTime,
		EndTime:     p.EndTime,
		Description: p.Description,
		IsPaused:    p.IsPaused,
		TotalPaused: time.Duration(p.TotalPausedMillis) * time.Millisecond,
		Minutes:     p.Duration,
	}
	if p.PausedAt != nil {
		record.PausedAt = *p.PausedAt
	}
	if p.CreatedAt != nil {
		record.CreatedAt = *p.CreatedAt
	}

	return record, nil
}

// APIError is a non-2xx response from the timer API. Known backend
// conditions unwrap to the matching domain sentinel.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("timer api returned status %d", e.StatusCode)
	}

	return fmt.Sprintf("timer api returned status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusConflict:
		return domain.ErrTimerAlreadyRunning
	case http.StatusNotFound:
		if strings.Contains(strings.ToLower(e.Message), "timer") {
			return domain.ErrNoActiveTimer
		}
		return domain.ErrEntryNotFound
	default:
		return nil
	}
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return apiErr
	}

	var payload apiErrorPayload
	if err := json.Unmarshal(data, &payload); err == nil {
		apiErr.Message = payload.Message
		if apiErr.Message == "" {
			apiErr.Message = payload.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(data))
	}

	return apiErr
}

func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Transport-level failures (connection refused, reset) are retryable.
	return true
}
