package project

import (
	"github.com/google/subcommands"

	fcmd "github.com/framehubio/framehub/cmd/fhub/commandline/command"
	project_create "github.com/framehubio/framehub/cmd/fhub/subcommands/project/create"
	project_export "github.com/framehubio/framehub/cmd/fhub/subcommands/project/export"
	project_find "github.com/framehubio/framehub/cmd/fhub/subcommands/project/find"
	project_rm "github.com/framehubio/framehub/cmd/fhub/subcommands/project/rm"
	project_tag "github.com/framehubio/framehub/cmd/fhub/subcommands/project/tag"
)

func New(cf fcmd.CommonFlags) subcommands.Command {
	commander := fcmd.NewCommander(
		"project",
		fcmd.Help{Synopsis: "manipulate Framehub projects."},
	)

	commander.Register(fcmd.Build(project_find.New(), cf))
	commander.Register(fcmd.Build(project_create.New(), cf))
	commander.Register(fcmd.Build(project_rm.New(), cf))
	commander.Register(fcmd.Build(project_tag.New(), cf))
	commander.Register(fcmd.Build(project_export.New(), cf))

	return commander
}
