// Package importer walks a local directory tree and registers its image
// files with the platform.
//
// Each subdirectory of the root becomes a dataset named after it. Image
// files directly under the root go to a dataset named after the root
// itself. Upload deduplicates by content hash, so re-running over the
// same tree only transfers new files.
package importer

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/framehubio/framehub/api/types/datasets"
	"github.com/framehubio/framehub/api/types/projects"
	"github.com/framehubio/framehub/api/types/tags"
	"github.com/framehubio/framehub/pkg/api"
	"github.com/framehubio/framehub/pkg/app"
	"github.com/framehubio/framehub/pkg/utils/pointer"
)

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// Batch is the image files destined for one dataset.
type Batch struct {
	Dataset string
	Files   []api.UploadFile
}

// Scan collects image files under root, grouped per dataset.
//
// Batches and the files inside them come back sorted by name, so two
// scans over the same tree yield the same result.
func Scan(root string, tag []tags.UserTag) ([]Batch, error) {
	grouped := map[string][]api.UploadFile{}

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !imageExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		dataset := filepath.Base(root)
		if dir := filepath.Dir(rel); dir != "." {
			// the dataset is the first path element under root
			dataset = strings.Split(dir, string(filepath.Separator))[0]
		}

		grouped[dataset] = append(grouped[dataset], api.UploadFile{
			Name: filepath.Base(path),
			Path: path,
			Tags: tag,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	batches := make([]Batch, 0, len(names))
	for _, name := range names {
		files := grouped[name]
		sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
		batches = append(batches, Batch{Dataset: name, Files: files})
	}
	return batches, nil
}

// Importer registers scanned batches under one project.
type Importer struct {
	Client    api.Client
	Logger    *log.Logger
	Workspace int
	Project   string
	Tag       []tags.UserTag

	// Session, when set, mirrors import progress into the task field
	// store so the platform UI can render it.
	Session *app.Session
}

type progress struct {
	Dataset string `json:"dataset"`
	Settled int    `json:"settled"`
	Total   int    `json:"total"`
}

// Run imports everything under root and returns the number of
// registered items.
func (im *Importer) Run(ctx context.Context, root string) (int, error) {
	batches, err := Scan(root, im.Tag)
	if err != nil {
		return 0, err
	}
	if len(batches) == 0 {
		im.Logger.Printf("no image files under %s", root)
		return 0, nil
	}

	proj, err := im.ensureProject(ctx)
	if err != nil {
		return 0, err
	}

	registered := 0
	for _, batch := range batches {
		ds, err := im.ensureDataset(ctx, proj.Id, batch.Dataset)
		if err != nil {
			return registered, err
		}

		im.Logger.Printf(
			"importing %d files into dataset %s (id=%d)",
			len(batch.Files), ds.Name, ds.Id,
		)

		got, err := im.Client.UploadImages(
			ctx, ds.Id, batch.Files,
			api.WithUploadProgress(func(settled int) {
				im.report(ctx, progress{
					Dataset: batch.Dataset,
					Settled: settled,
					Total:   len(batch.Files),
				})
			}),
		)
		if err != nil {
			return registered, err
		}
		registered += len(got)
	}

	im.Logger.Printf("imported %d items into project %s", registered, im.Project)

	if im.Session != nil {
		err := im.Client.SetTaskOutput(
			ctx, im.Session.TaskId(),
			api.TaskOutput{ProjectId: pointer.Ref(proj.Id)},
		)
		if err != nil {
			im.Logger.Printf("cannot publish task output: %s", err)
		}
	}
	return registered, nil
}

func (im *Importer) report(ctx context.Context, p progress) {
	if im.Session == nil {
		return
	}
	if err := im.Session.Patch(ctx, app.Patch{
		Field: app.DataKey("import.progress"), Value: p,
	}); err != nil {
		im.Logger.Printf("progress report failed: %s", err)
	}
}

func (im *Importer) ensureProject(ctx context.Context) (projects.Detail, error) {
	found, err := im.Client.FindProjects(ctx, im.Workspace, nil)
	if err != nil {
		return projects.Detail{}, err
	}
	for _, proj := range found {
		if proj.Name == im.Project {
			return im.Client.GetProject(ctx, proj.Id)
		}
	}

	return im.Client.CreateProject(ctx, projects.Spec{
		WorkspaceId: im.Workspace,
		Name:        im.Project,
		Type:        projects.Images,
		Tags:        im.Tag,
	})
}

func (im *Importer) ensureDataset(ctx context.Context, projectId int, name string) (datasets.Summary, error) {
	found, err := im.Client.ListDatasets(ctx, projectId)
	if err != nil {
		return datasets.Summary{}, err
	}
	for _, ds := range found {
		if ds.Name == name {
			return ds, nil
		}
	}

	return im.Client.CreateDataset(ctx, datasets.Spec{
		ProjectId: projectId,
		Name:      name,
	})
}

// Watch runs an import whenever files under root change.
//
// Events are debounced: a burst of writes triggers one import after the
// tree has been quiet for settle. New subdirectories are watched as
// they appear. Watch blocks until ctx is done.
func (im *Importer) Watch(ctx context.Context, root string, settle time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	addTree := func() error {
		return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return watcher.Add(path)
			}
			return nil
		})
	}
	if err := addTree(); err != nil {
		return err
	}

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	kick := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(settle, func() {
			select {
			case pending <- struct{}{}:
			default:
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op.Has(fsnotify.Create) {
				if s, err := os.Stat(ev.Name); err == nil && s.IsDir() {
					if err := watcher.Add(ev.Name); err != nil {
						im.Logger.Printf("cannot watch %s: %s", ev.Name, err)
					}
				}
			}
			if ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Rename) {
				kick()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			im.Logger.Printf("watch error: %s", err)
		case <-pending:
			if _, err := im.Run(ctx, root); err != nil {
				im.Logger.Printf("import failed: %s", err)
			}
		}
	}
}
