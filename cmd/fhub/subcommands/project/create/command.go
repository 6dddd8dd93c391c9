package create

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/framehubio/framehub/api/types/projects"
	"github.com/framehubio/framehub/api/types/tags"
	fcmd "github.com/framehubio/framehub/cmd/fhub/commandline/command"
	fenv "github.com/framehubio/framehub/cmd/fhub/env"
	"github.com/framehubio/framehub/pkg/api"
	fflg "github.com/framehubio/framehub/pkg/commandline/flag"
	"github.com/framehubio/framehub/pkg/commandline/usage"
)

type Flag struct {
	Workspace   int           `flag:"workspace,short=w,metavar=WORKSPACE_ID,help=Workspace the project belongs to."`
	Type        string        `flag:"type,metavar=images|videos,help=Kind of items the project holds."`
	Description string        `flag:"description,metavar=TEXT,help=Description of the project."`
	Tag         fflg.UserTags `flag:"tag,short=t,metavar=KEY:VALUE...,help=Tags to be put on the project. Repeatable."`
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
		Flag{Type: string(projects.Images)},
		usage.Args{
			{
				Name: ARG_NAME, Required: true,
				Help: "name of the project to be created",
			},
		},
	)
}

func (c *Command) Help() fcmd.Help {
	return fcmd.Help{
		Synopsis: "create a new project",
		Example: `
To create an image project "street-scenes" in workspace 3:

	{{ .Command }} --workspace 3 street-scenes

To create a video project with tags:

	{{ .Command }} --type videos --tag team:perception dashcam-clips
`,
		Detail: `
Create a new project and show it as JSON.

When --workspace is omitted, the workspace in fhubenv file is used.
Tags in fhubenv file are also put on the project, implicitly.
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
	if workspaceId == 0 {
		return fmt.Errorf("%w: --workspace is required (or set workspace in fhubenv)", fcmd.ErrUsage)
	}

	tag := append([]tags.UserTag(nil), flags.Flags.Tag...)
	tag = append(tag, e.Tags()...)

	spec := projects.Spec{
		WorkspaceId: workspaceId,
		Name:        flags.Args[ARG_NAME][0],
		Type:        projects.Type(flags.Flags.Type),
		Description: flags.Flags.Description,
		Tags:        tag,
	}
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("%w: %s", fcmd.ErrUsage, err)
	}

	created, err := client.CreateProject(ctx, spec)
	if err != nil {
		return err
	}
	l.Printf("project created: id=%d", created.Id)

	enc := json.NewEncoder(c.output)
	enc.SetIndent("", "    ")
	if err := enc.Encode(created); err != nil {
		l.Panicf("fail to dump created project")
	}
	return nil
}
