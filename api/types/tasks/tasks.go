package tasks

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/framehubio/framehub/api/types/misc/rfctime"
)

// Status of a task on the platform.
//
// Tasks move queued -> consumed -> started, then end in one of
// finished, deployed (long-living plugins), stopped or error.
// terminating is a transient state on the way to stopped.
type Status string

const (
	Queued      Status = "queued"
	Consumed    Status = "consumed"
	Started     Status = "started"
	Deployed    Status = "deployed"
	Error       Status = "error"
	Finished    Status = "finished"
	Terminating Status = "terminating"
	Stopped     Status = "stopped"
)

// KnownStatuses lists every status the platform reports, for validation.
func KnownStatuses() []Status {
	return []Status{
		Queued, Consumed, Started, Deployed,
		Error, Finished, Terminating, Stopped,
	}
}

// AsStatus parses s into Status.
func AsStatus(s string) (Status, error) {
	for _, known := range KnownStatuses() {
		if s == string(known) {
			return known, nil
		}
	}
	return Status(""), fmt.Errorf("unknown task status: %s", s)
}

func (s Status) String() string {
	return string(s)
}

// Terminal: no further status change will happen.
func (s Status) Terminal() bool {
	switch s {
	case Finished, Deployed, Stopped, Error:
		return true
	default:
		return false
	}
}

// Succeeded: terminal and not failed.
func (s Status) Succeeded() bool {
	return s.Terminal() && s != Error
}

type Summary struct {
	Id          int              `json:"id"`
	WorkspaceId int              `json:"workspaceId"`
	Type        string           `json:"type"`
	Status      Status           `json:"status"`
	StartedAt   rfctime.RFC3339  `json:"startedAt"`
	FinishedAt  *rfctime.RFC3339 `json:"finishedAt,omitempty"`
}

func (s Summary) Equal(o Summary) bool {
	finishedEq := (s.FinishedAt == nil && o.FinishedAt == nil) ||
		(s.FinishedAt != nil && o.FinishedAt != nil && s.FinishedAt.Equal(*o.FinishedAt))

	return s.Id == o.Id &&
		s.WorkspaceId == o.WorkspaceId &&
		s.Type == o.Type &&
		s.Status == o.Status &&
		s.StartedAt.Equal(o.StartedAt) &&
		finishedEq
}

// Meta carries the input/output documents of a task.
//
// Their shape depends on the task type; the client passes them through.
type Meta struct {
	Input  json.RawMessage `json:"input,omitempty"`
	Output json.RawMessage `json:"output,omitempty"`
}

func (m Meta) Equal(o Meta) bool {
	return jsonEq(m.Input, o.Input) && jsonEq(m.Output, o.Output)
}

// jsonEq compares JSON documents ignoring formatting.
func jsonEq(a, b json.RawMessage) bool {
	if len(a) == 0 || len(b) == 0 {
		return len(a) == 0 && len(b) == 0
	}
	ca, cb := new(bytes.Buffer), new(bytes.Buffer)
	if err := json.Compact(ca, a); err != nil {
		return false
	}
	if err := json.Compact(cb, b); err != nil {
		return false
	}
	return ca.String() == cb.String()
}

type Detail struct {
	Summary
	Description string `json:"description,omitempty"`
	AgentId     int    `json:"agentId,omitempty"`
	Meta        Meta   `json:"meta"`
}

func (d Detail) Equal(o Detail) bool {
	return d.Summary.Equal(o.Summary) &&
		d.Description == o.Description &&
		d.AgentId == o.AgentId &&
		d.Meta.Equal(o.Meta)
}

// Field is one entry of the task field store, also used as a patch.
type Field struct {
	Field   string          `json:"field"`
	Payload json.RawMessage `json:"payload"`

	// Append: merge Payload into the existing value instead of replacing.
	Append bool `json:"append,omitempty"`

	// Recursive: with Append, merge nested objects level by level.
	Recursive bool `json:"recursive,omitempty"`
}

// Spec is a request to start a task.
type Spec struct {
	WorkspaceId int             `json:"workspaceId"`
	Type        string          `json:"type"`
	AgentId     int             `json:"agentId,omitempty"`
	Description string          `json:"description,omitempty"`
	Params      json.RawMessage `json:"params,omitempty"`

	// RestartPolicy: "never" (default) or "on_error".
	RestartPolicy string `json:"restartPolicy,omitempty"`
}

func (s Spec) Validate() error {
	if s.WorkspaceId <= 0 {
		return fmt.Errorf("task needs a workspace")
	}
	if s.Type == "" {
		return fmt.Errorf("task type is required")
	}
	switch s.RestartPolicy {
	case "", "never", "on_error":
		// pass
	default:
		return fmt.Errorf("unknown restart policy: %s", s.RestartPolicy)
	}
	return nil
}

// Filter narrows FindTasks results. Zero fields do not filter.
type Filter struct {
	Statuses []Status `json:"statuses,omitempty"`
	Type     string   `json:"type,omitempty"`
}
