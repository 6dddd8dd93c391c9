package pull

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	fcmd "github.com/framehubio/framehub/cmd/fhub/commandline/command"
	fenv "github.com/framehubio/framehub/cmd/fhub/env"
	"github.com/framehubio/framehub/pkg/api"
	"github.com/framehubio/framehub/pkg/commandline/usage"
	kio "github.com/framehubio/framehub/pkg/io"
	kpath "github.com/framehubio/framehub/pkg/utils/path"
)

type Command struct {
	defaultOutput io.Writer
}

func WithOutput(w io.Writer) func(com *Command) *Command {
	return func(com *Command) *Command {
		com.defaultOutput = w
		return com
	}
}

func New(opt ...func(com *Command) *Command) fcmd.FhubCommand[struct{}] {
	command := &Command{
		defaultOutput: os.Stdout,
	}
	for _, o := range opt {
		command = o(command)
	}
	return command
}

func (cmd *Command) Name() string {
	return "pull"
}

const (
	ARG_IMAGE_ID = "IMAGE_ID"
	ARG_DEST     = "DEST"
)

func (*Command) Usage() usage.Usage[struct{}] {
	return usage.New(
		struct{}{},
		usage.Args{
			{
				Name: ARG_IMAGE_ID, Required: true,
				Help: "Id of the image to be downloaded.",
			},
			{
				Name: ARG_DEST, Required: false,
				Help: `
directory where the downloaded image will be located at.
If the directory does not exist, it will be created.
If you set "-", the image will be written to stdout.
Default: current directory ".".
`,
			},
		},
	)
}

func (*Command) Help() fcmd.Help {
	return fcmd.Help{
		Synopsis: "download an image from Framehub to your local filesystem",
		Example: `
Pull image 123 into the current directory:
	{{ .Command }} 123

Pull image 123 into "/somewhere":
	{{ .Command }} 123 /somewhere

Pull image 123 to stdout:
	{{ .Command }} 123 -
`,
		Detail: `
Download the content of an image and verify its checksum.

The file is named after the image metadata (name + extension).
`,
	}
}

func (cmd *Command) Execute(
	ctx context.Context,
	l *log.Logger,
	e fenv.Env,
	c api.Client,
	f usage.FlagSet[struct{}],
) error {
	imageId, err := strconv.Atoi(f.Args[ARG_IMAGE_ID][0])
	if err != nil {
		return fmt.Errorf("%w: %s is not an image id", fcmd.ErrUsage, f.Args[ARG_IMAGE_ID][0])
	}

	dest := "."
	if 0 < len(f.Args[ARG_DEST]) {
		dest = f.Args[ARG_DEST][0]
	}

	if dest == "-" {
		return c.DownloadImage(ctx, imageId, func(r io.Reader) error {
			_, err := io.Copy(cmd.defaultOutput, r)
			return err
		})
	}

	dest, err = kpath.Resolve(dest)
	if err != nil {
		return fmt.Errorf("path resolving error for '%s': %w", dest, err)
	}

	meta, err := c.GetImage(ctx, imageId)
	if err != nil {
		return err
	}
	name := meta.Name
	if name == "" {
		name = strconv.Itoa(imageId) + meta.Ext
	}
	dest = filepath.Join(filepath.Clean(dest), name)

	err = c.DownloadImage(ctx, imageId, func(r io.Reader) error {
		f, err := kio.CreateAll(dest, os.FileMode(0666), os.FileMode(0777))
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(f, r)
		return err
	})
	if err != nil {
		return err
	}

	l.Printf("downloaded: image %d -> %s", imageId, dest)
	return nil
}
