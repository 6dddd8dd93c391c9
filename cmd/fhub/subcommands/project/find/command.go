package find

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"os"

	fcmd "github.com/framehubio/framehub/cmd/fhub/commandline/command"
	fenv "github.com/framehubio/framehub/cmd/fhub/env"
	"github.com/framehubio/framehub/pkg/api"
	fflg "github.com/framehubio/framehub/pkg/commandline/flag"
	"github.com/framehubio/framehub/pkg/commandline/usage"
)

type Flag struct {
	Workspace int       `flag:"workspace,short=w,metavar=WORKSPACE_ID,help=Workspace to search in. 0 means all workspaces you can see."`
	Tag       fflg.Tags `flag:"tag,short=t,metavar=KEY:VALUE...,help=Find projects with this tag. Repeatable; all given tags must match."`
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
	return "find"
}

func (c *Command) Usage() usage.Usage[Flag] {
	return usage.New(Flag{}, usage.Args{})
}

func (c *Command) Help() fcmd.Help {
	return fcmd.Help{
		Synopsis: "find projects matching tags",
		Example: `
To list all projects you can see:

	{{ .Command }}

To find projects in workspace 3 tagged "team:perception":

	{{ .Command }} --workspace 3 --tag team:perception
`,
		Detail: `
Find projects and show them as JSON.

When --workspace is omitted, the workspace in fhubenv file is used.
When --tag is given multiple times, projects having ALL of them are found.
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
	workspaceId := flags.Flags.Workspace
	if workspaceId == 0 {
		workspaceId = e.Workspace
	}

	found, err := client.FindProjects(ctx, workspaceId, flags.Flags.Tag)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.output)
	enc.SetIndent("", "    ")
	if err := enc.Encode(found); err != nil {
		l.Panicf("fail to dump found projects")
	}
	return nil
}
