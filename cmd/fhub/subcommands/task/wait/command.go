package wait

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/framehubio/framehub/api/types/tasks"
	fcmd "github.com/framehubio/framehub/cmd/fhub/commandline/command"
	fenv "github.com/framehubio/framehub/cmd/fhub/env"
	"github.com/framehubio/framehub/pkg/api"
	"github.com/framehubio/framehub/pkg/commandline/usage"
)

type Flag struct {
	For      string        `flag:"for,metavar=STATUS,help=Status to wait for. Default: finished."`
	Interval time.Duration `flag:"interval,short=i,metavar=DURATION,help=Polling interval."`
	Attempts int           `flag:"attempts,metavar=N,help=Give up after this many polls."`
}

type Command struct{}

func New() fcmd.FhubCommand[Flag] {
	return &Command{}
}

func (c *Command) Name() string {
	return "wait"
}

const ARG_TASK_ID = "TASK_ID"

func (c *Command) Usage() usage.Usage[Flag] {
	return usage.New(
		Flag{
			For:      string(tasks.Finished),
			Interval: 5 * time.Second,
			Attempts: 60,
		},
		usage.Args{
			{
				Name: ARG_TASK_ID, Required: true,
				Help: "Id of the task to be waited for",
			},
		},
	)
}

func (c *Command) Help() fcmd.Help {
	return fcmd.Help{
		Synopsis: "wait until a task reaches a status",
		Example: `
To wait for task 7 to finish:

	{{ .Command }} 7

To wait for a deployed model to come up, polling every 2 seconds:

	{{ .Command }} --for deployed --interval 2s 7
`,
		Detail: `
Poll the status of a task until it reaches the status given by --for,
or any terminal status.

The command fails when the task ends in "error", or when --attempts
polls pass without reaching a terminal status.
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

	target, err := tasks.AsStatus(flags.Flags.For)
	if err != nil {
		return fmt.Errorf("%w: %s", fcmd.ErrUsage, err)
	}

	status, err := client.WaitTask(
		ctx, taskId, target,
		api.WithWaitInterval(flags.Flags.Interval),
		api.WithWaitAttempts(flags.Flags.Attempts),
	)
	if err != nil {
		return err
	}
	l.Printf("task %d is %s", taskId, status)
	return nil
}
