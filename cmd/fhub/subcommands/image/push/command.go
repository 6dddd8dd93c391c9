package push

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	apitag "github.com/framehubio/framehub/api/types/tags"
	fcmd "github.com/framehubio/framehub/cmd/fhub/commandline/command"
	fenv "github.com/framehubio/framehub/cmd/fhub/env"
	"github.com/framehubio/framehub/pkg/api"
	fflg "github.com/framehubio/framehub/pkg/commandline/flag"
	"github.com/framehubio/framehub/pkg/commandline/usage"

	pb "github.com/cheggaaa/pb/v3"
)

type Flags struct {
	Dataset int           `flag:"dataset,short=d,metavar=DATASET_ID,help=Dataset the images are registered to."`
	Tag     fflg.UserTags `flag:"tag,short=t,metavar=KEY:VALUE...,help=Tags to be put on images. It can be specified multiple times."`
	Name    bool          `flag:"name,short=n,help=add tag name:<filename>"`
	Video   bool          `flag:"video,help=register sources as videos instead of images"`
}

type Command struct {
	progressOut io.Writer
	output      io.Writer
}

type Option func(*Command) *Command

func WithProgressOut(w io.Writer) Option {
	return func(c *Command) *Command {
		c.progressOut = w
		return c
	}
}

func WithOutput(w io.Writer) Option {
	return func(c *Command) *Command {
		c.output = w
		return c
	}
}

func New(opt ...Option) fcmd.FhubCommand[Flags] {
	c := &Command{
		progressOut: os.Stderr,
		output:      os.Stdout,
	}

	for _, o := range opt {
		c = o(c)
	}

	return c
}

func (cmd *Command) Name() string {
	return "push"
}

const ARG_SOURCE = "source"

func (*Command) Usage() usage.Usage[Flags] {
	return usage.New(
		Flags{},
		usage.Args{
			{
				Name: ARG_SOURCE, Repeatable: true, Required: true,
				Help: `Image files to be pushed to Framehub`,
			},
		},
	)
}

func (*Command) Help() fcmd.Help {
	return fcmd.Help{
		Synopsis: "push (register) local files to a dataset",
		Example: `
To register "./cat.jpg" to dataset 7:

	{{ .Command }} --dataset 7 ./cat.jpg

To register files with a tag:

	{{ .Command }} -d 7 --tag "split:train" ./img/*.jpg
	{{ .Command }} -d 7 -t "split:train" ./img/*.jpg  (equivalent to above)

To register video files:

	{{ .Command }} -d 7 --video ./clips/*.mp4

For each example, tags in fhubenv file are also added to the items.
`,
		Detail: `
Register files in your local filesystem to a dataset.

Content is deduplicated by hash: bytes the platform already stores
(even under another name) are registered without re-uploading.

Tags are added to the registered items.
You can specify tags with --tag (or -t) option and --name (or -n) option.
If you specify --name option, the tag "name:<FILENAME>" is added to each item.

And, fhubenv tags are also added to the items, implicitly.
`,
	}
}

func (cmd *Command) Execute(
	ctx context.Context,
	l *log.Logger,
	e fenv.Env,
	c api.Client,
	flags usage.FlagSet[Flags],
) error {
	datasetId := flags.Flags.Dataset
	if datasetId == 0 {
		return fmt.Errorf("%w: --dataset is required", fcmd.ErrUsage)
	}

	tags := make(map[apitag.UserTag]struct{}, len(flags.Flags.Tag))
	for _, t := range flags.Flags.Tag {
		tags[t] = struct{}{}
	}
	for _, t := range e.Tags() {
		tags[t] = struct{}{}
	}

	toBeNamed := flags.Flags.Name
	files := []api.UploadFile{}
	for _, s := range flags.Args[ARG_SOURCE] {
		if _, err := os.Stat(s); err != nil {
			l.Printf("%s: %s -- skipped", err, s)
			continue
		}

		t := make([]apitag.UserTag, 0, len(tags)+1)
		for tag := range tags {
			t = append(t, tag)
		}
		if toBeNamed {
			t = append(t, apitag.UserTag{Key: "name", Value: filepath.Base(s)})
		}

		files = append(files, api.UploadFile{
			Name: filepath.Base(s),
			Path: s,
			Tags: t,
		})
	}
	if len(files) == 0 {
		return fmt.Errorf("no files to push")
	}

	bar := pb.New(len(files))
	bar.SetWriter(cmd.progressOut)
	if err := bar.Err(); err != nil {
		return err
	}
	bar.Start()
	progress := api.WithUploadProgress(func(settled int) {
		bar.SetCurrent(int64(settled))
	})

	var result any
	var err error
	if flags.Flags.Video {
		result, err = c.UploadVideos(ctx, datasetId, files, progress)
	} else {
		result, err = c.UploadImages(ctx, datasetId, files, progress)
	}
	bar.Finish()
	if err != nil {
		return err
	}

	l.Printf("registered %d files to dataset %d", len(files), datasetId)

	enc := json.NewEncoder(cmd.output)
	enc.SetIndent("", "    ")
	if err := enc.Encode(result); err != nil {
		l.Panicf("fail to dump registered items")
	}
	return nil
}
