package create

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/framehubio/framehub/api/types/datasets"
	fcmd "github.com/framehubio/framehub/cmd/fhub/commandline/command"
	fenv "github.com/framehubio/framehub/cmd/fhub/env"
	"github.com/framehubio/framehub/pkg/api"
	"github.com/framehubio/framehub/pkg/commandline/usage"
)

type Flag struct {
	Project     int    `flag:"project,short=p,metavar=PROJECT_ID,help=Project the dataset belongs to."`
	Description string `flag:"description,metavar=TEXT,help=Description of the dataset."`
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

func New(opt ...Option) fcmd.FhubCommand[Flag] {
	c := &Command{output: os.Stdout}
	for _, o := range opt {
		c = o(c)
	}
	return c
}

func (c *Command) Name() string {
	return "create"
}

const ARG_NAME = "NAME"

func (c *Command) Usage() usage.Usage[Flag] {
	return usage.New(
		Flag{},
		usage.Args{
			{
				Name: ARG_NAME, Required: true,
				Help: "name of the dataset to be created",
			},
		},
	)
}

func (c *Command) Help() fcmd.Help {
	return fcmd.Help{
		Synopsis: "create a new dataset in a project",
		Example: `
To create dataset "train" in project 42:

	{{ .Command }} --project 42 train
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
	spec := datasets.Spec{
		ProjectId:   flags.Flags.Project,
		Name:        flags.Args[ARG_NAME][0],
		Description: flags.Flags.Description,
	}
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("%w: %s", fcmd.ErrUsage, err)
	}

	created, err := client.CreateDataset(ctx, spec)
	if err != nil {
		return err
	}
	l.Printf("dataset created: id=%d", created.Id)

	enc := json.NewEncoder(c.output)
	enc.SetIndent("", "    ")
	if err := enc.Encode(created); err != nil {
		l.Panicf("fail to dump created dataset")
	}
	return nil
}
