package request_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	fenv "github.com/framehubio/framehub/cmd/fhub/env"
	"github.com/framehubio/framehub/cmd/fhub/subcommands/logger"
	task_request "github.com/framehubio/framehub/cmd/fhub/subcommands/task/request"
	"github.com/framehubio/framehub/pkg/api"
	"github.com/framehubio/framehub/pkg/api/mock"
	"github.com/framehubio/framehub/pkg/commandline/usage"
)

func TestRequest(t *testing.T) {
	t.Run("it sends the command with inline JSON state and dumps the response.", func(t *testing.T) {
		mocked := mock.New(t)
		log := logger.Null()

		mocked.Impl.SendTaskRequest = func(
			_ context.Context, taskId int, command string, state any, _ ...api.RequestOption,
		) (json.RawMessage, error) {
			return json.RawMessage(`{"predictions": [1, 2, 3]}`), nil
		}

		stdout := new(strings.Builder)
		testee := task_request.New(task_request.WithOutput(stdout))

		err := testee.Execute(
			context.Background(),
			log, fenv.Env{}, mocked,
			usage.FlagSet[task_request.Flag]{
				Flags: task_request.Flag{
					State: `{"imageId": 123}`,
				},
				Args: map[string][]string{
					task_request.ARG_TASK_ID: {"7"},
					task_request.ARG_COMMAND: {"inference"},
				},
			},
		)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}

		if len(mocked.Calls.SendTaskRequest) != 1 {
			t.Fatalf("SendTaskRequest should be called once, but %d times", len(mocked.Calls.SendTaskRequest))
		}
		call := mocked.Calls.SendTaskRequest[0]
		if call.TaskId != 7 || call.Command != "inference" {
			t.Errorf("unexpected call: %+v", call)
		}
		state, ok := call.State.(json.RawMessage)
		if !ok || string(state) != `{"imageId": 123}` {
			t.Errorf("unexpected state: %+v", call.State)
		}

		actual := map[string][]int{}
		if err := json.Unmarshal([]byte(stdout.String()), &actual); err != nil {
			t.Fatalf("output is not JSON: %s", err)
		}
		if len(actual["predictions"]) != 3 {
			t.Errorf("unexpected output:\n%s", stdout.String())
		}
	})

	t.Run("it reads state from stdin when - is passed.", func(t *testing.T) {
		mocked := mock.New(t)
		log := logger.Null()

		mocked.Impl.SendTaskRequest = func(
			_ context.Context, taskId int, command string, state any, _ ...api.RequestOption,
		) (json.RawMessage, error) {
			return json.RawMessage(`{}`), nil
		}

		testee := task_request.New(
			task_request.WithOutput(new(strings.Builder)),
			task_request.WithStdin(strings.NewReader(`{"threshold": 0.5}`)),
		)

		err := testee.Execute(
			context.Background(),
			log, fenv.Env{}, mocked,
			usage.FlagSet[task_request.Flag]{
				Flags: task_request.Flag{State: "-"},
				Args: map[string][]string{
					task_request.ARG_TASK_ID: {"7"},
					task_request.ARG_COMMAND: {"configure"},
				},
			},
		)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}

		state := mocked.Calls.SendTaskRequest[0].State.(json.RawMessage)
		if string(state) != `{"threshold": 0.5}` {
			t.Errorf("unexpected state: %s", state)
		}
	})

	t.Run("with --no-wait, it does not dump a response.", func(t *testing.T) {
		mocked := mock.New(t)
		log := logger.Null()

		mocked.Impl.SendTaskRequest = func(
			_ context.Context, taskId int, command string, state any, _ ...api.RequestOption,
		) (json.RawMessage, error) {
			return nil, nil
		}

		stdout := new(strings.Builder)
		testee := task_request.New(task_request.WithOutput(stdout))

		err := testee.Execute(
			context.Background(),
			log, fenv.Env{}, mocked,
			usage.FlagSet[task_request.Flag]{
				Flags: task_request.Flag{NoWait: true},
				Args: map[string][]string{
					task_request.ARG_TASK_ID: {"7"},
					task_request.ARG_COMMAND: {"reindex"},
				},
			},
		)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if stdout.String() != "" {
			t.Errorf("unexpected output:\n%s", stdout.String())
		}
	})
}
