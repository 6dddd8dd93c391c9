package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
)

// Progress exposes the state of a background archiving task.
type Progress interface {
	// EstimatedTotalSize returns the total size of files to be archived.
	//
	// This is estimated and not compressed size.
	EstimatedTotalSize() int64

	// ProgressedSize returns the size of archived files.
	//
	// This size is updated during archiving.
	//
	// This is raw (not compressed) size.
	ProgressedSize() int64

	// ProgressingFile returns the file name which is currently being archived.
	ProgressingFile() string

	// Error returns error caused during archiving.
	Error() error

	// Done returns a channel which is closed when the archiving task is over.
	Done() <-chan struct{}
}

type progress struct {
	total      int64
	progressed atomic.Int64
	err        error
	done       chan struct{}

	mux     sync.Mutex
	current string
}

func (p *progress) EstimatedTotalSize() int64 {
	return p.total
}

func (p *progress) ProgressedSize() int64 {
	return p.progressed.Load()
}

func (p *progress) ProgressingFile() string {
	p.mux.Lock()
	defer p.mux.Unlock()
	return p.current
}

func (p *progress) setProgressingFile(name string) {
	p.mux.Lock()
	defer p.mux.Unlock()
	p.current = name
}

func (p *progress) Error() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

func (p *progress) Done() <-chan struct{} {
	return p.done
}

type tarConfig struct {
	followSymlinks bool
}

type TarOption func(*tarConfig) *tarConfig

// FollowSymlinks makes GoTar dereference symlinks and archive their targets.
//
// Otherwise, symlinks are archived as such.
func FollowSymlinks() TarOption {
	return func(c *tarConfig) *tarConfig {
		c.followSymlinks = true
		return c
	}
}

// GoTar archives the directory at root into dest as tar, in background.
//
// Entry names are relative to root. Regular files, directories and
// symlinks are supported; other file types cause an error.
//
// # Args
//
// - ctx: context. When canceled, archiving stops with ctx.Err().
//
// - root: directory to be archived.
//
// - dest: writer the tar stream goes to. GoTar does not close it.
//
// # Returns
//
// - Progress: handle to observe the task. When Progress.Done() is closed,
// no more bytes are written to dest and Progress.Error() is fixed.
func GoTar(ctx context.Context, root string, dest io.Writer, options ...TarOption) Progress {
	conf := &tarConfig{}
	for _, opt := range options {
		conf = opt(conf)
	}

	prog := &progress{done: make(chan struct{})}

	entries, total, err := scan(root, conf.followSymlinks)
	if err != nil {
		prog.err = err
		close(prog.done)
		return prog
	}
	prog.total = total

	go func() {
		defer close(prog.done)
		tw := tar.NewWriter(dest)
		defer func() {
			if err := tw.Close(); err != nil && prog.err == nil {
				prog.err = err
			}
		}()

		for _, ent := range entries {
			select {
			case <-ctx.Done():
				prog.err = ctx.Err()
				return
			default:
			}

			prog.setProgressingFile(ent.name)
			if err := writeEntry(tw, ent, prog); err != nil {
				prog.err = err
				return
			}
		}
	}()

	return prog
}

type entry struct {
	name string // name in archive, relative to root
	path string // path on filesystem
	info fs.FileInfo
	link string // target, for symlink entries
}

func scan(root string, followSymlinks bool) ([]entry, int64, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, 0, err
	}

	entries := []entry{}
	var total int64

	walk := func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		ent := entry{name: filepath.ToSlash(rel), path: path, info: info}
		if info.Mode()&fs.ModeSymlink != 0 {
			if followSymlinks {
				resolved, err := os.Stat(path)
				if err != nil {
					return err
				}
				if resolved.IsDir() {
					return fmt.Errorf("symlink to directory is not supported: %s", path)
				}
				ent.info = resolved
			} else {
				target, err := os.Readlink(path)
				if err != nil {
					return err
				}
				ent.link = target
			}
		}

		mode := ent.info.Mode()
		if !mode.IsRegular() && !mode.IsDir() && mode&fs.ModeSymlink == 0 {
			return fmt.Errorf("unsupported file type: %s", path)
		}
		if mode.IsRegular() {
			total += ent.info.Size()
		}

		entries = append(entries, ent)
		return nil
	}

	lstatWalk := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		info, lerr := os.Lstat(path)
		return walk(path, info, lerr)
	}

	if err := filepath.WalkDir(root, lstatWalk); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func writeEntry(tw *tar.Writer, ent entry, prog *progress) error {
	hdr, err := tar.FileInfoHeader(ent.info, ent.link)
	if err != nil {
		return err
	}
	hdr.Name = ent.name
	if ent.info.IsDir() {
		hdr.Name += "/"
	}

	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if !ent.info.Mode().IsRegular() {
		return nil
	}

	f, err := os.Open(ent.path)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := io.Copy(tw, f)
	prog.progressed.Add(n)
	return err
}
