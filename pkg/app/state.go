// Package app is the client side of a user application running as a
// platform task.
//
// Applications keep their UI state in the task field store and receive
// commands through the task request channel. Session wraps both for one
// task: Patch pushes state changes, Pull reads them back, Exec
// round-trips a command through the application's agent.
package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/framehubio/framehub/api/types/tasks"
	"github.com/framehubio/framehub/pkg/api"
)

// key spaces of the field store.
//
// "data." holds content the application renders, "state." holds widget
// state posted back by the frontend.
const (
	DataPrefix  = "data."
	StatePrefix = "state."
)

// DataKey prefixes key into the data key space.
func DataKey(key string) string {
	return DataPrefix + key
}

// StateKey prefixes key into the state key space.
func StateKey(key string) string {
	return StatePrefix + key
}

// Session binds a Client to the application task it drives.
type Session struct {
	client api.Client
	taskId int
}

func New(client api.Client, taskId int) *Session {
	return &Session{client: client, taskId: taskId}
}

func (s *Session) TaskId() int {
	return s.taskId
}

// Patch is one change of the field store.
type Patch struct {
	// Field is the full key, including its key space prefix.
	Field string

	// Value is marshalled to JSON as the payload.
	Value any

	// Append: merge Value into the existing payload instead of
	// replacing it.
	Append bool

	// Recursive: with Append, merge nested objects level by level.
	Recursive bool
}

// Patch applies changes to the task's field store in one request.
func (s *Session) Patch(ctx context.Context, patches ...Patch) error {
	if len(patches) == 0 {
		return nil
	}

	fields := make([]tasks.Field, len(patches))
	for i, p := range patches {
		payload, err := json.Marshal(p.Value)
		if err != nil {
			return fmt.Errorf("patch %s: %w", p.Field, err)
		}
		fields[i] = tasks.Field{
			Field:     p.Field,
			Payload:   payload,
			Append:    p.Append,
			Recursive: p.Recursive,
		}
	}
	return s.client.SetTaskFields(ctx, s.taskId, fields)
}

// State is a snapshot of field store entries, keyed by full field name.
type State map[string]json.RawMessage

// Get unmarshals the entry of key into v.
//
// # Returns
//
// - error: api.ErrFieldNotFound when the snapshot has no such key.
func (st State) Get(key string, v any) error {
	payload, ok := st[key]
	if !ok {
		return fmt.Errorf("%w: %s", api.ErrFieldNotFound, key)
	}
	return json.Unmarshal(payload, v)
}

// Pull reads field store entries by full key.
//
// Keys never set are omitted from the snapshot, not an error.
func (s *Session) Pull(ctx context.Context, keys ...string) (State, error) {
	fields, err := s.client.GetTaskFields(ctx, s.taskId, keys)
	if err != nil {
		return nil, err
	}
	return State(fields), nil
}

// Exec sends a command to the application agent and returns its
// response payload.
func (s *Session) Exec(ctx context.Context, command string, state any, options ...api.RequestOption) (json.RawMessage, error) {
	return s.client.SendTaskRequest(ctx, s.taskId, command, state, options...)
}
