package list

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
	return "list"
}

const ARG_PROJECT_ID = "PROJECT_ID"

func (c *Command) Usage() usage.Usage[struct{}] {
	return usage.New(
		struct{}{},
		usage.Args{
			{
				Name: ARG_PROJECT_ID, Required: true,
				Help: "Id of the project whose datasets are listed",
			},
		},
	)
}

func (c *Command) Help() fcmd.Help {
	return fcmd.Help{
		Synopsis: "list datasets of a project",
		Example: `
To list datasets of project 42:

	{{ .Command }} 42
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
	projectId, err := strconv.Atoi(flags.Args[ARG_PROJECT_ID][0])
	if err != nil {
		return fmt.Errorf("%w: %s is not a project id", fcmd.ErrUsage, flags.Args[ARG_PROJECT_ID][0])
	}

	found, err := client.ListDatasets(ctx, projectId)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.output)
	enc.SetIndent("", "    ")
	if err := enc.Encode(found); err != nil {
		l.Panicf("fail to dump datasets")
	}
	return nil
}
