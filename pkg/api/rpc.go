package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/framehubio/framehub/api/types/tasks"
	"github.com/framehubio/framehub/pkg/utils/retry"
	"github.com/google/uuid"
)

type requestConfig struct {
	timeout      time.Duration
	skipResponse bool
	outside      bool
	attempts     int
	backoff      retry.Backoff
}

type RequestOption func(*requestConfig)

// WithRequestTimeout tells the agent how long it may take to respond.
//
// Zero (the default) leaves the deadline to the agent.
func WithRequestTimeout(d time.Duration) RequestOption {
	return func(r *requestConfig) {
		r.timeout = d
	}
}

// SkipResponse makes SendTaskRequest fire-and-forget. The returned
// payload is nil.
func SkipResponse() RequestOption {
	return func(r *requestConfig) {
		r.skipResponse = true
	}
}

// OutsideRequest marks the request as originating outside the platform,
// for the agent to distinguish operator calls from pipeline calls.
func OutsideRequest() RequestOption {
	return func(r *requestConfig) {
		r.outside = true
	}
}

// WithRequestRetry sets how requests failing on transport errors or
// server errors are re-sent. backoff runs before each attempt, the
// first included.
func WithRequestRetry(attempts int, backoff retry.Backoff) RequestOption {
	return func(r *requestConfig) {
		r.attempts = attempts
		r.backoff = backoff
	}
}

// wire form of a task request.
type taskRequest struct {
	Command      string          `json:"command"`
	Context      requestContext  `json:"context"`
	State        json.RawMessage `json:"state,omitempty"`
	SkipResponse bool            `json:"skipResponse,omitempty"`
	Timeout      float64         `json:"timeout,omitempty"`
}

type requestContext struct {
	RequestId      string `json:"requestId"`
	OutsideRequest bool   `json:"outsideRequest"`
}

func (c *client) SendTaskRequest(ctx context.Context, taskId int, command string, state any, options ...RequestOption) (json.RawMessage, error) {
	conf := &requestConfig{
		attempts: 3,
		backoff:  retry.NoBackoff(),
	}
	for _, opt := range options {
		opt(conf)
	}

	var stateJson json.RawMessage
	if state != nil {
		buf, err := json.Marshal(state)
		if err != nil {
			return nil, err
		}
		stateJson = buf
	}

	body := taskRequest{
		Command: command,
		Context: requestContext{
			RequestId:      uuid.NewString(),
			OutsideRequest: conf.outside,
		},
		State:        stateJson,
		SkipResponse: conf.skipResponse,
		Timeout:      conf.timeout.Seconds(),
	}

	// Re-sending is safe: the agent deduplicates by requestId. Only
	// transport errors and server errors are re-sent, a 4xx means the
	// request itself is broken.
	attempt := 0
	response, err := retry.Blocking(ctx, conf.backoff, func() (json.RawMessage, error) {
		attempt += 1

		resp, err := c.postJson(ctx, c.apipath("tasks", strconv.Itoa(taskId), "request"), body)
		if err != nil {
			if attempt < conf.attempts && ctx.Err() == nil {
				return nil, fmt.Errorf("%w: %w", retry.ErrRetry, err)
			}
			return nil, err
		}
		defer resp.Body.Close()

		if retryable(resp) && attempt < conf.attempts {
			err := expectStatus(resp, MessageFor{
				Status5xx: "something wrong in server",
			})
			return nil, fmt.Errorf("%w: %w", retry.ErrRetry, err)
		}

		res, err := unmarshalJsonResponse[struct {
			Response json.RawMessage `json:"response"`
		}](
			resp,
			MessageFor{
				Status4xx: "request is rejected by server",
				Status5xx: "something wrong in server",
			},
		)
		if err != nil {
			return nil, err
		}
		return res.Response, nil
	})
	if err != nil {
		return nil, err
	}

	if conf.skipResponse {
		return nil, nil
	}
	return response, nil
}

func (c *client) SetTaskFields(ctx context.Context, taskId int, fields []tasks.Field) error {
	resp, err := c.postJson(
		ctx, c.apipath("tasks", strconv.Itoa(taskId), "fields", "set"),
		map[string][]tasks.Field{"fields": fields},
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return expectStatus(resp, MessageFor{
		Status4xx: "setting fields is rejected by server",
		Status5xx: "something wrong in server",
	})
}

func (c *client) SetTaskField(ctx context.Context, taskId int, field string, payload any, appendMode bool, recursive bool) error {
	buf, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.SetTaskFields(ctx, taskId, []tasks.Field{
		{
			Field:     field,
			Payload:   buf,
			Append:    appendMode,
			Recursive: recursive,
		},
	})
}

func (c *client) GetTaskFields(ctx context.Context, taskId int, fields []string) (map[string]json.RawMessage, error) {
	resp, err := c.postJson(
		ctx, c.apipath("tasks", strconv.Itoa(taskId), "fields", "get"),
		map[string][]string{"fields": fields},
	)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	res, err := unmarshalJsonResponse[struct {
		Fields map[string]json.RawMessage `json:"fields"`
	}](
		resp,
		MessageFor{
			Status4xx: "getting fields is rejected by server",
			Status5xx: "something wrong in server",
		},
	)
	if err != nil {
		return nil, err
	}
	return res.Fields, nil
}

// ErrFieldNotFound means the task never set the asked field.
var ErrFieldNotFound = fmt.Errorf("field is not found")

func (c *client) GetTaskField(ctx context.Context, taskId int, field string, v any) error {
	fields, err := c.GetTaskFields(ctx, taskId, []string{field})
	if err != nil {
		return err
	}
	payload, ok := fields[field]
	if !ok {
		return fmt.Errorf("%w: %s (task #%d)", ErrFieldNotFound, field, taskId)
	}
	return json.Unmarshal(payload, v)
}

// MetricPoint is one sample of a metric series.
type MetricPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Metrics are metric series keyed by name, as reported by training
// tasks ("loss", "accuracy", ...).
type Metrics map[string][]MetricPoint

func (c *client) TrainingMetrics(ctx context.Context, taskId int) (Metrics, error) {
	response, err := c.SendTaskRequest(ctx, taskId, "tasks.train-metrics", nil)
	if err != nil {
		return nil, err
	}

	m := Metrics{}
	if err := json.Unmarshal(response, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// TaskOutput is the result card shown for a finished task.
type TaskOutput struct {
	// ProjectId points at a project the task produced.
	ProjectId *int `json:"projectId,omitempty"`

	// Report is a path (in the task's files) to a report document.
	Report string `json:"report,omitempty"`

	// Error is a message for tasks ending in failure.
	Error string `json:"error,omitempty"`
}

func (c *client) SetTaskOutput(ctx context.Context, taskId int, output TaskOutput) error {
	resp, err := c.postJson(ctx, c.apipath("tasks", strconv.Itoa(taskId), "output"), output)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return expectStatus(resp, MessageFor{
		Status4xx: "output is rejected by server",
		Status5xx: "something wrong in server",
	})
}
