package export

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cheggaaa/pb/v3"

	fcmd "github.com/framehubio/framehub/cmd/fhub/commandline/command"
	fenv "github.com/framehubio/framehub/cmd/fhub/env"
	"github.com/framehubio/framehub/pkg/api"
	"github.com/framehubio/framehub/pkg/commandline/usage"
	kpath "github.com/framehubio/framehub/pkg/utils/path"
)

type Command struct {
	progressOutput io.Writer
	defaultOutput  io.Writer
}

type Flags struct {
	Extract bool `flag:"extract,short=x,help=extract files from tar.gz archive"`
}

func WithProgressOutput(w io.Writer) func(com *Command) *Command {
	return func(com *Command) *Command {
		com.progressOutput = w
		return com
	}
}

func WithOutput(w io.Writer) func(com *Command) *Command {
	return func(com *Command) *Command {
		com.defaultOutput = w
		return com
	}
}

func New(taskOption ...func(com *Command) *Command) fcmd.FhubCommand[Flags] {
	command := &Command{
		progressOutput: os.Stderr,
		defaultOutput:  os.Stdout,
	}

	for _, opt := range taskOption {
		command = opt(command)
	}
	return command
}

const (
	ARG_PROJECT_ID = "PROJECT_ID"
	ARG_DEST       = "DEST"
)

func (*Command) Usage() usage.Usage[Flags] {
	return usage.New(
		Flags{},
		usage.Args{
			{
				Name: ARG_PROJECT_ID, Required: true,
				Help: "Id of the project to be exported.",
			},
			{
				Name: ARG_DEST, Required: false,
				Help: `
directory where the exported project will be located at.
If the directory does not exist, it will be created.
If you set "-", the export will be written to stdout (not applicable with -x).
Default: current directory ".".
`,
			},
		},
	)
}

func (*Command) Help() fcmd.Help {
	return fcmd.Help{
		Synopsis: "download a project export (items + annotations) to your local filesystem",
		Example: `
Export project 42 as "./42.tar.gz":
	{{ .Command }} 42

Export project 42 into "./42" directory, and extract it:
	{{ .Command }} -x 42

Export project 42 into "/somewhere/42" directory, and extract it:
	{{ .Command }} -x 42 /somewhere

Export project 42 to stdout (-x is not allowed):
	{{ .Command }} 42 -


(directory will be created if not exists)
`,
	}
}

func (cmd *Command) Name() string {
	return "export"
}

const noBar pb.ProgressBarTemplate = `{{with string . "prefix"}}{{.}} {{end}}{{counters . }} {{with string . "suffix"}} {{.}}{{end}}`

func (cmd *Command) Execute(
	ctx context.Context,
	l *log.Logger,
	e fenv.Env,
	c api.Client,
	f usage.FlagSet[Flags],
) error {
	projectId, err := strconv.Atoi(f.Args[ARG_PROJECT_ID][0])
	if err != nil {
		return fmt.Errorf("%w: %s is not a project id", fcmd.ErrUsage, f.Args[ARG_PROJECT_ID][0])
	}

	dest := "."
	if 0 < len(f.Args[ARG_DEST]) {
		dest = f.Args[ARG_DEST][0]
	}

	writeDefault := false
	if dest == "-" {
		writeDefault = true
	}

	dest, err = kpath.Resolve(dest)
	if err != nil {
		return fmt.Errorf("path resolving error for '%s': %w", dest, err)
	}
	dest = filepath.Clean(dest)
	dest = filepath.Join(dest, strconv.Itoa(projectId))

	if !f.Flags.Extract {
		dest = dest + ".tar.gz"
		err = c.ExportProjectRaw(ctx, projectId, func(r io.Reader) error {
			if writeDefault {
				_, err := io.Copy(cmd.defaultOutput, r)
				return err
			}

			d := filepath.Dir(dest)
			if err := os.MkdirAll(d, os.FileMode(0777)); err != nil {
				return err
			}
			f, err := os.OpenFile(dest, os.O_CREATE|os.O_RDWR|os.O_TRUNC, os.FileMode(0666))
			if err != nil {
				return err
			}
			defer f.Close()

			bar := noBar.New(-1)
			bar.SetWriter(cmd.progressOutput)
			bar.Set("prefix", fmt.Sprintf("Downloading to %s:", ellipsis(dest, 60)))
			bar.Start()
			w := bar.NewProxyWriter(f)
			defer w.Close()
			if _, err := io.Copy(w, r); err != nil {
				return err
			}
			return nil
		})
	} else if writeDefault {
		return fmt.Errorf("%w: cannot extract the export to stdout (-)", fcmd.ErrUsage)
	} else {
		bar := noBar.New(-1)
		bar.SetWriter(cmd.progressOutput)
		bar.Start()

		err = c.ExportProject(ctx, projectId, func(fe api.FileEntry) error {
			fdest := filepath.Join(dest, fe.Header.Name)
			d := filepath.Dir(fdest)
			if err := os.MkdirAll(d, os.FileMode(0777)); err != nil {
				return err
			}
			if fe.Header.Typeflag == tar.TypeSymlink {
				return os.Symlink(fe.Header.Linkname, fdest)
			}

			f, err := os.OpenFile(fdest, os.O_CREATE|os.O_RDWR|os.O_TRUNC, fe.Header.FileInfo().Mode())
			if err != nil {
				return err
			}
			defer f.Close()
			bar.Set("prefix", fmt.Sprintf("extracting: %s into %s: ", ellipsis(fe.Header.Name, 20), ellipsis(dest, 60)))

			w := bar.NewProxyWriter(f) // do not close. won't Finish the bar here.
			if _, err := io.Copy(w, fe.Body); err != nil {
				return err
			}

			return nil
		})
		bar.Set("prefix", "done.: ")
		bar.Finish()
	}

	if err != nil {
		return err
	}

	if !writeDefault {
		l.Printf("exported: project %d -> %s", projectId, dest)
	}
	return nil
}

func ellipsis(s string, length int) string {
	if len(s) <= length {
		return s
	}
	l := len(s)
	return "[...]" + s[l-length+5:]
}
