package show

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	fcmd "github.com/framehubio/framehub/cmd/fhub/commandline/command"
	fenv "github.com/framehubio/framehub/cmd/fhub/env"
	"github.com/framehubio/framehub/pkg/api"
	"github.com/framehubio/framehub/pkg/commandline/usage"
)

type Flags struct {
	Log    bool `flag:"log,help=display the log of that task"`
	Follow bool `flag:"follow,short=f,help=follow log while the task is running"`
}

type Command struct {
	output io.Writer
}

type Option func(*Command) *Command

func WithOutput(w io.Writer) Option {
	return func(c *Command) *Command {
		c.output = w
		return c
	}
}

func New(opt ...Option) fcmd.FhubCommand[Flags] {
	c := &Command{output: os.Stdout}
	for _, o := range opt {
		c = o(c)
	}
	return c
}

func (c *Command) Name() string {
	return "show"
}

const ARG_TASK_ID = "TASK_ID"

func (c *Command) Usage() usage.Usage[Flags] {
	return usage.New(
		Flags{},
		usage.Args{
			{
				Name: ARG_TASK_ID, Required: true,
				Help: "Id of the task to be shown",
			},
		},
	)
}

func (c *Command) Help() fcmd.Help {
	return fcmd.Help{
		Synopsis: "show a task, or its log",
		Detail: `
Show the task information for the specified task id.

When --log is passed, it displays the log of that task on the console.
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
	taskId, err := strconv.Atoi(flags.Args[ARG_TASK_ID][0])
	if err != nil {
		return fmt.Errorf("%w: %s is not a task id", fcmd.ErrUsage, flags.Args[ARG_TASK_ID][0])
	}

	if !flags.Flags.Log {
		task, err := client.GetTask(ctx, taskId)
		if err != nil {
			return fmt.Errorf("%w: task id:%d", err, taskId)
		}
		enc := json.NewEncoder(c.output)
		enc.SetIndent("", "    ")
		if err := enc.Encode(task); err != nil {
			l.Panicf("fail to dump task")
		}
		return nil
	}

	r, err := client.TaskLog(ctx, taskId, flags.Flags.Follow)
	if err != nil {
		return err
	}
	defer r.Close()

	if _, err := io.Copy(c.output, r); err != nil {
		return err
	}
	return nil
}
