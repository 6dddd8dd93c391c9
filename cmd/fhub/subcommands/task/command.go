package task

import (
	"github.com/google/subcommands"

	fcmd "github.com/framehubio/framehub/cmd/fhub/commandline/command"
	task_find "github.com/framehubio/framehub/cmd/fhub/subcommands/task/find"
	task_metrics "github.com/framehubio/framehub/cmd/fhub/subcommands/task/metrics"
	task_request "github.com/framehubio/framehub/cmd/fhub/subcommands/task/request"
	task_show "github.com/framehubio/framehub/cmd/fhub/subcommands/task/show"
	task_start "github.com/framehubio/framehub/cmd/fhub/subcommands/task/start"
	task_stop "github.com/framehubio/framehub/cmd/fhub/subcommands/task/stop"
	task_wait "github.com/framehubio/framehub/cmd/fhub/subcommands/task/wait"
)

func New(cf fcmd.CommonFlags) subcommands.Command {
	commander := fcmd.NewCommander(
		"task",
		fcmd.Help{Synopsis: "manipulate tasks running on Framehub agents."},
	)

	commander.Register(fcmd.Build(task_find.New(), cf))
	commander.Register(fcmd.Build(task_show.New(), cf))
	commander.Register(fcmd.Build(task_start.New(), cf))
	commander.Register(fcmd.Build(task_stop.New(), cf))
	commander.Register(fcmd.Build(task_wait.New(), cf))
	commander.Register(fcmd.Build(task_request.New(), cf))
	commander.Register(fcmd.Build(task_metrics.New(), cf))

	return commander
}
