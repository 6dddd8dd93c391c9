package metrics

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

func New(opt ...Option) fcmd.FhubCommand[struct{}] {
	c := &Command{output: os.Stdout}
	for _, o := range opt {
		c = o(c)
	}
	return c
}

func (c *Command) Name() string {
	return "metrics"
}

const ARG_TASK_ID = "TASK_ID"

func (c *Command) Usage() usage.Usage[struct{}] {
	return usage.New(
		struct{}{},
		usage.Args{
			{
				Name: ARG_TASK_ID, Required: true,
				Help: "Id of the training task whose metrics are shown",
			},
		},
	)
}

func (c *Command) Help() fcmd.Help {
	return fcmd.Help{
		Synopsis: "show metric series a training task reported",
		Detail: `
Fetch the metric series (loss, accuracy, ...) a training task reported
and show them as JSON, keyed by metric name.
`,
	}
}

func (c *Command) Execute(
	ctx context.Context,
	l *log.Logger,
	e fenv.Env,
	client api.Client,
	flags usage.FlagSet[struct{}],
) error {
	taskId, err := strconv.Atoi(flags.Args[ARG_TASK_ID][0])
	if err != nil {
		return fmt.Errorf("%w: %s is not a task id", fcmd.ErrUsage, flags.Args[ARG_TASK_ID][0])
	}

	m, err := client.TrainingMetrics(ctx, taskId)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.output)
	enc.SetIndent("", "    ")
	if err := enc.Encode(m); err != nil {
		l.Panicf("fail to dump metrics")
	}
	return nil
}
