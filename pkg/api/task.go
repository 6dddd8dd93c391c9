package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/framehubio/framehub/api/types/tasks"
	"github.com/framehubio/framehub/pkg/loop"
	"github.com/framehubio/framehub/pkg/utils/retry"
)

var (
	// ErrTaskFailed means the awaited task ended in error status.
	ErrTaskFailed = errors.New("task failed")

	// ErrWaitTimeout means WaitTask ran out of attempts before the task
	// reached the awaited status.
	ErrWaitTimeout = errors.New("wait timeout")
)

const (
	defaultWaitInterval = 5 * time.Second
	defaultWaitAttempts = 60
)

type waitConfig struct {
	backoff  retry.Backoff
	attempts int
}

type WaitOption func(*waitConfig)

// WithWaitInterval makes WaitTask poll at a fixed interval.
func WithWaitInterval(d time.Duration) WaitOption {
	return func(w *waitConfig) {
		w.backoff = retry.StaticBackoff(d)
	}
}

// WithWaitBackoff sets the backoff WaitTask sleeps with between polls.
// Pass retry.ExponentialBackoff to poll less and less often.
func WithWaitBackoff(b retry.Backoff) WaitOption {
	return func(w *waitConfig) {
		w.backoff = b
	}
}

// WithWaitAttempts sets how many times WaitTask polls before giving up
// with ErrWaitTimeout.
func WithWaitAttempts(n int) WaitOption {
	return func(w *waitConfig) {
		w.attempts = n
	}
}

func (c *client) FindTasks(ctx context.Context, workspaceId int, filter tasks.Filter) ([]tasks.Detail, error) {
	q := url.Values{}
	if workspaceId != 0 {
		q.Add("workspace", strconv.Itoa(workspaceId))
	}
	for _, s := range filter.Statuses {
		q.Add("status", string(s))
	}
	if filter.Type != "" {
		q.Add("type", filter.Type)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.apipath("tasks")+"?"+q.Encode(), nil,
	)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return unmarshalJsonResponse[[]tasks.Detail](
		resp,
		MessageFor{
			Status4xx: "finding tasks is rejected by server",
			Status5xx: "something wrong in server",
		},
	)
}

func (c *client) GetTask(ctx context.Context, taskId int) (tasks.Detail, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.apipath("tasks", strconv.Itoa(taskId)), nil,
	)
	if err != nil {
		return tasks.Detail{}, err
	}

	resp, err := c.do(req)
	if err != nil {
		return tasks.Detail{}, err
	}
	defer resp.Body.Close()

	return unmarshalJsonResponse[tasks.Detail](
		resp,
		MessageFor{
			Status4xx: "task is not found",
			Status5xx: "something wrong in server",
		},
	)
}

func (c *client) GetTaskStatus(ctx context.Context, taskId int) (tasks.Status, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.apipath("tasks", strconv.Itoa(taskId), "status"), nil,
	)
	if err != nil {
		return "", err
	}

	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	res, err := unmarshalJsonResponse[struct {
		Status string `json:"status"`
	}](
		resp,
		MessageFor{
			Status4xx: "task is not found",
			Status5xx: "something wrong in server",
		},
	)
	if err != nil {
		return "", err
	}

	status, err := tasks.AsStatus(res.Status)
	if err != nil {
		return "", fmt.Errorf("server sent %w", err)
	}
	return status, nil
}

func (c *client) StartTask(ctx context.Context, spec tasks.Spec) (int, error) {
	if err := spec.Validate(); err != nil {
		return 0, err
	}

	resp, err := c.postJson(ctx, c.apipath("tasks"), spec)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	res, err := unmarshalJsonResponse[struct {
		TaskId int `json:"taskId"`
	}](
		resp,
		MessageFor{
			Status4xx: "task is rejected by server",
			Status5xx: "something wrong in server",
		},
	)
	if err != nil {
		return 0, err
	}
	return res.TaskId, nil
}

func (c *client) StopTask(ctx context.Context, taskId int) (tasks.Status, error) {
	resp, err := c.postJson(ctx, c.apipath("tasks", strconv.Itoa(taskId), "stop"), nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	res, err := unmarshalJsonResponse[struct {
		Status string `json:"status"`
	}](
		resp,
		MessageFor{
			Status4xx: "stopping task is rejected by server",
			Status5xx: "something wrong in server",
		},
	)
	if err != nil {
		return "", err
	}

	status, err := tasks.AsStatus(res.Status)
	if err != nil {
		return "", fmt.Errorf("server sent %w", err)
	}
	return status, nil
}

func (c *client) TaskLog(ctx context.Context, taskId int, follow bool) (io.ReadCloser, error) {
	q := url.Values{}
	if follow {
		q.Add("follow", "true")
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.apipath("tasks", strconv.Itoa(taskId), "log")+"?"+q.Encode(), nil,
	)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}

	return unmarshalStreamResponse(
		resp,
		MessageFor{
			Status4xx: "task log is not found",
			Status5xx: "something wrong in server",
		},
	)
}

// RaiseForStatus converts a terminal error status into ErrTaskFailed.
func RaiseForStatus(taskId int, status tasks.Status) error {
	if status == tasks.Error {
		return fmt.Errorf("%w: task #%d", ErrTaskFailed, taskId)
	}
	return nil
}

func (c *client) WaitTask(ctx context.Context, taskId int, target tasks.Status, options ...WaitOption) (tasks.Status, error) {
	conf := &waitConfig{
		backoff:  retry.StaticBackoff(defaultWaitInterval),
		attempts: defaultWaitAttempts,
	}
	for _, opt := range options {
		opt(conf)
	}

	type state struct {
		attempt int
		status  tasks.Status
	}

	last, err := loop.Start(
		ctx, state{},
		func(ctx context.Context, s state) (state, loop.Next) {
			status, err := c.GetTaskStatus(ctx, taskId)
			if err != nil {
				return s, loop.Break(err)
			}
			s.status = status

			if status == target {
				return s, loop.Break(nil)
			}
			if err := RaiseForStatus(taskId, status); err != nil {
				return s, loop.Break(err)
			}
			if status.Terminal() {
				// the task is over with another terminal status.
				// it will never reach target, but this is not a failure.
				return s, loop.Break(nil)
			}

			s.attempt += 1
			if conf.attempts <= s.attempt {
				return s, loop.Break(fmt.Errorf(
					"%w: task #%d is still %s after %d attempts",
					ErrWaitTimeout, taskId, status, s.attempt,
				))
			}
			if err := conf.backoff(ctx); err != nil {
				return s, loop.Break(err)
			}
			return s, loop.Continue(0)
		},
	)

	return last.status, err
}
