package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/google/subcommands"

	fcmd "github.com/framehubio/framehub/cmd/fhub/commandline/command"
	subdataset "github.com/framehubio/framehub/cmd/fhub/subcommands/dataset"
	subimage "github.com/framehubio/framehub/cmd/fhub/subcommands/image"
	subinit "github.com/framehubio/framehub/cmd/fhub/subcommands/init"
	subproject "github.com/framehubio/framehub/cmd/fhub/subcommands/project"
	subtask "github.com/framehubio/framehub/cmd/fhub/subcommands/task"
	subversion "github.com/framehubio/framehub/cmd/fhub/subcommands/version"
	subworkspace "github.com/framehubio/framehub/cmd/fhub/subcommands/workspace"
)

func main() {
	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, os.Kill,
	)
	defer cancel()

	logger := log.New(os.Stderr, "[fhub] ", log.Flags())

	commonFlags, err := fcmd.DefaultCommonFlags(".")
	if err != nil {
		logger.Fatal(err)
	}

	commander := subcommands.NewCommander(flag.CommandLine, "fhub")
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")

	commander.Register(subinit.New(commonFlags), "")
	commander.Register(fcmd.Build(subworkspace.New(), commonFlags), "")
	commander.Register(subproject.New(commonFlags), "")
	commander.Register(subdataset.New(commonFlags), "")
	commander.Register(subimage.New(commonFlags), "")
	commander.Register(subtask.New(commonFlags), "")
	commander.Register(subversion.New(), "")

	flag.Parse()
	os.Exit(int(commander.Execute(ctx, logger, commander)))
}
