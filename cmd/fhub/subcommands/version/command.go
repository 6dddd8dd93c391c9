package version

import (
	"context"
	"flag"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/framehubio/framehub/pkg/buildtime"
)

type Command struct {
	output io.Writer
}

func New() *Command {
	return &Command{output: os.Stdout}
}

var _ subcommands.Command = &Command{}

func (*Command) Name() string {
	return "version"
}

func (*Command) Synopsis() string {
	return "show version of this command."
}

func (*Command) Usage() string {
	return "show version of this command.\n"
}

func (*Command) SetFlags(*flag.FlagSet) {
	// noop
}

func (c *Command) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	c.output.Write([]byte(buildtime.VersionString() + "\n"))
	return subcommands.ExitSuccess
}
