package request

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	fcmd "github.com/framehubio/framehub/cmd/fhub/commandline/command"
	fenv "github.com/framehubio/framehub/cmd/fhub/env"
	"github.com/framehubio/framehub/pkg/api"
	"github.com/framehubio/framehub/pkg/commandline/usage"
)

type Flag struct {
	State   string        `flag:"state,metavar=JSON|@FILE|-,help=Request state as JSON. With @FILE the JSON is read from FILE; with - from stdin."`
	Timeout time.Duration `flag:"timeout,metavar=DURATION,help=Give the agent this long to respond. 0 means no limit."`
	NoWait  bool          `flag:"no-wait,help=fire-and-forget; do not wait for the response"`
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

func New(opt ...Option) fcmd.FhubCommand[Flag] {
	c := &Command{output: os.Stdout, stdin: os.Stdin}
	for _, o := range opt {
		c = o(c)
	}
	return c
}

func (c *Command) Name() string {
	return "request"
}

const (
	ARG_TASK_ID = "TASK_ID"
	ARG_COMMAND = "COMMAND"
)

func (c *Command) Usage() usage.Usage[Flag] {
	return usage.New(
		Flag{},
		usage.Args{
			{
				Name: ARG_TASK_ID, Required: true,
				Help: "Id of the task whose agent receives the request",
			},
			{
				Name: ARG_COMMAND, Required: true,
				Help: "command name the agent should run",
			},
		},
	)
}

func (c *Command) Help() fcmd.Help {
	return fcmd.Help{
		Synopsis: "send a command to the agent running a task",
		Example: `
To ask a deployed model (task 7) for an inference:

	{{ .Command }} 7 inference --state '{"imageId": 123}'

To trigger a long job without waiting:

	{{ .Command }} 7 reindex --no-wait
`,
		Detail: `
Send a command to the agent running a task and show its response as JSON.

This is the request/response channel driving deployed models and user
applications. The request is retried on transport errors; the agent
deduplicates retries, so the command runs at most once.
`,
	}
}

func (c *Command) Execute(
	ctx context.Context,
	l *log.Logger,
	e fenv.Env,
	client api.Client,
	flags usage.FlagSet[Flag],
) error {
	taskId, err := strconv.Atoi(flags.Args[ARG_TASK_ID][0])
	if err != nil {
		return fmt.Errorf("%w: %s is not a task id", fcmd.ErrUsage, flags.Args[ARG_TASK_ID][0])
	}
	command := flags.Args[ARG_COMMAND][0]

	state, err := c.readState(flags.Flags.State)
	if err != nil {
		return err
	}

	options := []api.RequestOption{}
	if flags.Flags.Timeout != 0 {
		options = append(options, api.WithRequestTimeout(flags.Flags.Timeout))
	}
	if flags.Flags.NoWait {
		options = append(options, api.SkipResponse())
	}

	response, err := client.SendTaskRequest(ctx, taskId, command, state, options...)
	if err != nil {
		return err
	}

	if flags.Flags.NoWait {
		l.Printf("request %s is sent to task %d", command, taskId)
		return nil
	}

	enc := json.NewEncoder(c.output)
	enc.SetIndent("", "    ")
	if err := enc.Encode(response); err != nil {
		l.Panicf("fail to dump response")
	}
	return nil
}

func (c *Command) readState(state string) (json.RawMessage, error) {
	switch {
	case state == "":
		return nil, nil
	case state == "-":
		buf, err := io.ReadAll(c.stdin)
		if err != nil {
			return nil, err
		}
		return json.RawMessage(buf), nil
	case state[0] == '@':
		buf, err := os.ReadFile(state[1:])
		if err != nil {
			return nil, err
		}
		return json.RawMessage(buf), nil
	default:
		if !json.Valid([]byte(state)) {
			return nil, fmt.Errorf("%w: --state is not JSON", fcmd.ErrUsage)
		}
		return json.RawMessage(state), nil
	}
}
