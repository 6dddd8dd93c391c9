package find

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/framehubio/framehub/api/types/tasks"
	fcmd "github.com/framehubio/framehub/cmd/fhub/commandline/command"
	fenv "github.com/framehubio/framehub/cmd/fhub/env"
	"github.com/framehubio/framehub/pkg/api"
	fflg "github.com/framehubio/framehub/pkg/commandline/flag"
	"github.com/framehubio/framehub/pkg/commandline/usage"
)

type Flag struct {
	Workspace int           `flag:"workspace,short=w,metavar=WORKSPACE_ID,help=Workspace to search in."`
	Status    fflg.Argslice `flag:"status,short=s,metavar=queued|started|finished...,help=Find tasks in this status. Repeatable."`
	Type      string        `flag:"type,metavar=TYPE,help=Find tasks of this type only."`
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
		Synopsis: "find tasks in a workspace",
		Example: `
To list all tasks of workspace 3:

	{{ .Command }} --workspace 3

To find running training tasks:

	{{ .Command }} -w 3 --type train --status started
`,
		Detail: `
Find tasks and show them as JSON.

When --workspace is omitted, the workspace in fhubenv file is used.
When --status is given multiple times, tasks in ANY of them are found.
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

	statuses := make([]tasks.Status, 0, len(flags.Flags.Status))
	for _, s := range flags.Flags.Status {
		status, err := tasks.AsStatus(s)
		if err != nil {
			return fmt.Errorf("%w: %s", fcmd.ErrUsage, err)
		}
		statuses = append(statuses, status)
	}

	found, err := client.FindTasks(ctx, workspaceId, tasks.Filter{
		Statuses: statuses,
		Type:     flags.Flags.Type,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.output)
	enc.SetIndent("", "    ")
	if err := enc.Encode(found); err != nil {
		l.Panicf("fail to dump found tasks")
	}
	return nil
}
