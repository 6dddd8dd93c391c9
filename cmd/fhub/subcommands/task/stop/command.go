package stop

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/framehubio/framehub/api/types/tasks"
	fcmd "github.com/framehubio/framehub/cmd/fhub/commandline/command"
	fenv "github.com/framehubio/framehub/cmd/fhub/env"
	"github.com/framehubio/framehub/pkg/api"
	"github.com/framehubio/framehub/pkg/commandline/usage"
)

type Command struct{}

func New(
	options ...func(*Command) *Command,
) fcmd.FhubCommand[Flag] {
	return &Command{}
}

func (c *Command) Name() string {
	return "stop"
}

const ARG_TASK_ID = "TASK_ID"

type Flag struct {
	Wait bool `flag:"wait,help=block until the task is actually stopped"`
}

func (c *Command) Usage() usage.Usage[Flag] {
	return usage.New(
		Flag{},
		usage.Args{
			{
				Name: ARG_TASK_ID, Required: true,
				Help: "Id of the task to be stopped",
			},
		},
	)
}

func (c *Command) Help() fcmd.Help {
	return fcmd.Help{
		Synopsis: "stop a running task",
		Detail: `
Ask the platform to stop a task.

Stopping is asynchronous; the task goes through "terminating" before
reaching "stopped". With --wait, this command polls until it lands there.
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

	status, err := client.StopTask(ctx, taskId)
	if err != nil {
		return err
	}
	l.Printf("task %d is %s", taskId, status)

	if flags.Flags.Wait {
		status, err = client.WaitTask(ctx, taskId, tasks.Stopped)
		if err != nil {
			return err
		}
		l.Printf("task %d is %s", taskId, status)
	}

	return nil
}
