package tag

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/framehubio/framehub/api/types/tags"
	fcmd "github.com/framehubio/framehub/cmd/fhub/commandline/command"
	fenv "github.com/framehubio/framehub/cmd/fhub/env"
	"github.com/framehubio/framehub/pkg/api"
	fflg "github.com/framehubio/framehub/pkg/commandline/flag"
	"github.com/framehubio/framehub/pkg/commandline/usage"
)

type Flag struct {
	AddTag    fflg.UserTags `flag:"add,metavar=KEY:VALUE...,help=add tags to the project. It can be specified multiple times."`
	RemoveTag fflg.UserTags `flag:"remove,metavar=KEY:VALUE...,help=remove tags from the project. It can be specified multiple times."`
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
	return "tag"
}

const ARG_PROJECT_ID = "PROJECT_ID"

func (c *Command) Usage() usage.Usage[Flag] {
	return usage.New(
		Flag{},
		usage.Args{
			{
				Name: ARG_PROJECT_ID, Required: true,
				Help: "Id of the project to be (un)tagged.",
			},
		},
	)
}

func (c *Command) Help() fcmd.Help {
	return fcmd.Help{
		Synopsis: "add and/or remove tags on a project",
		Detail: `
Add and/or remove tags on a project.

If the same tag is specified in both add and remove, the tag will be removed.
Tag keys starting "fh#" are reserved for the platform and cannot be set.
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
	projectId, err := strconv.Atoi(flags.Args[ARG_PROJECT_ID][0])
	if err != nil {
		return fmt.Errorf("%w: %s is not a project id", fcmd.ErrUsage, flags.Args[ARG_PROJECT_ID][0])
	}

	change := tags.Change{
		AddTags:    flags.Flags.AddTag,
		RemoveTags: flags.Flags.RemoveTag,
	}

	l.Printf("tagging project %d", projectId)
	res, err := client.UpdateProjectTags(ctx, projectId, change)
	if err != nil {
		buf, _err := json.MarshalIndent(change, "", "    ")
		if _err != nil {
			return fmt.Errorf("unexpected error: %w", err)
		}
		l.Printf("failed to update tags for project %d.\nrequested tags change :\n%s\n", projectId, string(buf))
		return err
	}

	enc := json.NewEncoder(c.output)
	enc.SetIndent("", "    ")
	if err := enc.Encode(res); err != nil {
		l.Panicf("fail to dump updated project")
	}
	return nil
}
