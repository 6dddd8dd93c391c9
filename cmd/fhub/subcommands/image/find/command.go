package find

import (
	"context"
	"encoding/json"
	"fmt"
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
	Dataset int       `flag:"dataset,short=d,metavar=DATASET_ID,help=Dataset to search in."`
	Tag     fflg.Tags `flag:"tag,short=t,metavar=KEY:VALUE...,help=Find images with this tag. Repeatable; all given tags must match."`
	Video   bool      `flag:"video,help=find videos instead of images"`
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
		Synopsis: "find images (or videos) in a dataset",
		Example: `
To list all images of dataset 7:

	{{ .Command }} --dataset 7

To find images tagged "split:train":

	{{ .Command }} -d 7 --tag split:train

System tags work too. To find the item with id 42:

	{{ .Command }} -d 7 --tag "fh#id:42"
`,
		Detail: `
Find images (or, with --video, videos) in a dataset and show them as JSON.

When --tag is given multiple times, items having ALL of them are found.
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
	datasetId := flags.Flags.Dataset
	if datasetId == 0 {
		return fmt.Errorf("%w: --dataset is required", fcmd.ErrUsage)
	}

	var found any
	var err error
	if flags.Flags.Video {
		found, err = client.FindVideos(ctx, datasetId, flags.Flags.Tag)
	} else {
		found, err = client.FindImages(ctx, datasetId, flags.Flags.Tag)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.output)
	enc.SetIndent("", "    ")
	if err := enc.Encode(found); err != nil {
		l.Panicf("fail to dump found items")
	}
	return nil
}
