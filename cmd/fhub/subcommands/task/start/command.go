package start

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/framehubio/framehub/api/types/tasks"
	fcmd "github.com/framehubio/framehub/cmd/fhub/commandline/command"
	fenv "github.com/framehubio/framehub/cmd/fhub/env"
	"github.com/framehubio/framehub/pkg/api"
	"github.com/framehubio/framehub/pkg/commandline/usage"
)

type Flags struct {
	Workspace   int    `flag:"workspace,short=w,metavar=WORKSPACE_ID,help=Workspace the task runs in."`
	Agent       int    `flag:"agent,metavar=AGENT_ID,help=Agent the task is assigned to. 0 lets the platform pick one."`
	Description string `flag:"description,metavar=TEXT,help=Description of the task."`
	Params      string `flag:"params,metavar=JSON|@FILE|-,help=Task parameters as JSON. With @FILE the JSON is read from FILE; with - from stdin."`
	Restart     string `flag:"restart,metavar=never|on_error,help=Restart policy of the task."`
	Wait        bool   `flag:"wait,help=block until the task reaches a terminal status"`
}

type Command struct {
	output io.Writer
	stdin  io.Reader
}

type Option func(*Command) *Command

func WithOutput(w io.Writer) Option {
	return func(c *Command) *Command {
		c.output = w
		return c
	}
}

func WithStdin(r io.Reader) Option {
	return func(c *Command) *Command {
		c.stdin = r
		return c
	}
}

func New(opt ...Option) fcmd.FhubCommand[Flags] {
	c := &Command{output: os.Stdout, stdin: os.Stdin}
	for _, o := range opt {
		c = o(c)
	}
	return c
}

func (c *Command) Name() string {
	return "start"
}

const ARG_TYPE = "TYPE"

func (c *Command) Usage() usage.Usage[Flags] {
	return usage.New(
		Flags{},
		usage.Args{
			{
				Name: ARG_TYPE, Required: true,
				Help: "type of the task to be started (train, deploy, import, ...)",
			},
		},
	)
}

func (c *Command) Help() fcmd.Help {
	return fcmd.Help{
		Synopsis: "queue a new task",
		Example: `
To queue a training task in workspace 3:

	{{ .Command }} --workspace 3 --params '{"projectId": 42}' train

To queue it and wait for it to end:

	{{ .Command }} -w 3 --params @train.json --wait train
`,
		Detail: `
Queue a new task and show it as JSON.

The platform assigns the task to an agent and moves it
queued -> consumed -> started. With --wait, this command polls until
the task reaches a terminal status (finished, deployed, stopped or error).
`,
	}
}

func (c *Command) Execute(
	ctx context.Context,
	l *log.Logger,
	e fenv.Env,
	client api.Client,
	flags usage.FlagSet[Flags],
) error {
	workspaceId := flags.Flags.Workspace
	if workspaceId == 0 {
		workspaceId = e.Workspace
	}

	params, err := c.readParams(flags.Flags.Params)
	if err != nil {
		return err
	}

	spec := tasks.Spec{
		WorkspaceId:   workspaceId,
		Type:          flags.Args[ARG_TYPE][0],
		AgentId:       flags.Flags.Agent,
		Description:   flags.Flags.Description,
		Params:        params,
		RestartPolicy: flags.Flags.Restart,
	}
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("%w: %s", fcmd.ErrUsage, err)
	}

	taskId, err := client.StartTask(ctx, spec)
	if err != nil {
		return err
	}
	l.Printf("task queued: id=%d", taskId)

	if flags.Flags.Wait {
		status, err := client.WaitTask(ctx, taskId, tasks.Finished)
		if err != nil {
			return err
		}
		l.Printf("task %d is %s", taskId, status)
	}

	task, err := client.GetTask(ctx, taskId)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.output)
	enc.SetIndent("", "    ")
	if err := enc.Encode(task); err != nil {
		l.Panicf("fail to dump task")
	}
	return nil
}

func (c *Command) readParams(params string) (json.RawMessage, error) {
	switch {
	case params == "":
		return nil, nil
	case params == "-":
		buf, err := io.ReadAll(c.stdin)
		if err != nil {
			return nil, err
		}
		return json.RawMessage(buf), nil
	case params[0] == '@':
		buf, err := os.ReadFile(params[1:])
		if err != nil {
			return nil, err
		}
		return json.RawMessage(buf), nil
	default:
		if !json.Valid([]byte(params)) {
			return nil, fmt.Errorf("%w: --params is not JSON", fcmd.ErrUsage)
		}
		return json.RawMessage(params), nil
	}
}
