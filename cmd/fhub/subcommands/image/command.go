package image

import (
	"github.com/google/subcommands"

	fcmd "github.com/framehubio/framehub/cmd/fhub/commandline/command"
	image_find "github.com/framehubio/framehub/cmd/fhub/subcommands/image/find"
	image_pull "github.com/framehubio/framehub/cmd/fhub/subcommands/image/pull"
	image_push "github.com/framehubio/framehub/cmd/fhub/subcommands/image/push"
)

func New(cf fcmd.CommonFlags) subcommands.Command {
	commander := fcmd.NewCommander(
		"image",
		fcmd.Help{Synopsis: "manipulate images and videos in Framehub datasets."},
	)

	commander.Register(fcmd.Build(image_find.New(), cf))
	commander.Register(fcmd.Build(image_push.New(), cf))
	commander.Register(fcmd.Build(image_pull.New(), cf))

	return commander
}
