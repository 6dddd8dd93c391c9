package dataset

import (
	"github.com/google/subcommands"

	fcmd "github.com/framehubio/framehub/cmd/fhub/commandline/command"
	dataset_create "github.com/framehubio/framehub/cmd/fhub/subcommands/dataset/create"
	dataset_list "github.com/framehubio/framehub/cmd/fhub/subcommands/dataset/list"
	dataset_rm "github.com/framehubio/framehub/cmd/fhub/subcommands/dataset/rm"
)

func New(cf fcmd.CommonFlags) subcommands.Command {
	commander := fcmd.NewCommander(
		"dataset",
		fcmd.Help{Synopsis: "manipulate datasets in Framehub projects."},
	)

	commander.Register(fcmd.Build(dataset_list.New(), cf))
	commander.Register(fcmd.Build(dataset_create.New(), cf))
	commander.Register(fcmd.Build(dataset_rm.New(), cf))

	return commander
}
