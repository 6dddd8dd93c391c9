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

const ARG_DATASET_ID = "DATASET_ID"

func (c *Command) Usage() usage.Usage[struct{}] {
	return usage.New(
		struct{}{},
		usage.Args{
			{
				Name: ARG_DATASET_ID, Required: true,
				Help: "Id of the dataset to be removed",
			},
		},
	)
}

func (c *Command) Help() fcmd.Help {
	return fcmd.Help{
		Synopsis: "remove a dataset",
		Detail: `
Remove a dataset from its project.

Items in the dataset are removed together, server side.
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
	datasetId, err := strconv.Atoi(flags.Args[ARG_DATASET_ID][0])
	if err != nil {
		return fmt.Errorf("%w: %s is not a dataset id", fcmd.ErrUsage, flags.Args[ARG_DATASET_ID][0])
	}

	if err := client.DeleteDataset(ctx, datasetId); err != nil {
		return err
	}
	l.Printf("dataset removed: id=%d", datasetId)
	return nil
}
