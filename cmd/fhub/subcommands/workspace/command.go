package workspace

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"os"

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
	return "workspace"
}

func (c *Command) Usage() usage.Usage[struct{}] {
	return usage.New(struct{}{}, usage.Args{})
}

func (c *Command) Help() fcmd.Help {
	return fcmd.Help{
		Synopsis: "list workspaces your token can see",
	}
}

func (c *Command) Execute(
	ctx context.Context,
	l *log.Logger,
	e fenv.Env,
	client api.Client,
	flags usage.FlagSet[struct{}],
) error {
	found, err := client.ListWorkspaces(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.output)
	enc.SetIndent("", "    ")
	if err := enc.Encode(found); err != nil {
		l.Panicf("fail to dump workspaces")
	}
	return nil
}
