package rm

import (
	"context"
	"fmt"
	"log"
	"strconv"

	fcmd "github.com/framehubio/framehub/cmd/fhub/commandline/command"
	fenv "github.com/framehubio/framehub/cmd/fhub/env"
	"github.com/framehubio/framehub/pkg/api"
	"github.com/framehubio/framehub/pkg/commandline/usage"
)

type Command struct{}

func New() fcmd.FhubCommand[struct{}] {
	return &Command{}
}

func (c *Command) Name() string {
	return "rm"
}

const ARG_PROJECT_ID = "PROJECT_ID"

func (c *Command) Usage() usage.Usage[struct{}] {
	return usage.New(
		struct{}{},
		usage.Args{
			{
				Name: ARG_PROJECT_ID, Required: true,
				Help: "Id of the project to be removed",
			},
		},
	)
}

func (c *Command) Help() fcmd.Help {
	return fcmd.Help{
		Synopsis: "remove a project",
		Detail: `
Remove a project from the platform.

Datasets and items in the project are removed together, server side.
This cannot be undone.
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

	if err := client.DeleteProject(ctx, projectId); err != nil {
		return err
	}
	l.Printf("project removed: id=%d", projectId)
	return nil
}
