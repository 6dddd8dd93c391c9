package api

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/framehubio/framehub/api/types/tasks"
	"github.com/framehubio/framehub/pkg/archive"
	kio "github.com/framehubio/framehub/pkg/utils/io"
)

// Progress reports an archive-and-upload running in background.
type Progress[T any] interface {
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

	// Result returns the result of the operation.
	//
	// # Returns
	//
	// - T: the result of the operation.
	//
	// - bool: true if the operation has been done.
	Result() (T, bool)

	// Done returns a channel which is closed when progressing task is over.
	Done() <-chan struct{}

	// Sent returns a channel which is closed when the data is sent to the server.
	Sent() <-chan struct{}
}

type progress struct {
	p        archive.Progress
	e        error
	result   *tasks.Detail
	resultOk bool
	done     chan struct{}
	sent     chan struct{}
}

func (p *progress) EstimatedTotalSize() int64 {
	return p.p.EstimatedTotalSize()
}

func (p *progress) ProgressedSize() int64 {
	return p.p.ProgressedSize()
}

func (p *progress) ProgressingFile() string {
	return p.p.ProgressingFile()
}

func (p *progress) Error() error {
	if err := p.p.Error(); err != nil {
		return err
	}
	return p.e
}

func (p *progress) Result() (*tasks.Detail, bool) {
	return p.result, p.resultOk
}

func (p *progress) Done() <-chan struct{} {
	return p.done
}

func (p *progress) Sent() <-chan struct{} {
	return p.sent
}

func (c *client) PostImportArchive(ctx context.Context, taskId int, source string, dereference bool) Progress[*tasks.Detail] {
	ctx, cancel := context.WithCancel(ctx)

	started := false
	r, w := io.Pipe()
	defer func() {
		if !started {
			r.Close()
			w.Close()
		}
	}()

	md5writer := kio.NewMD5Writer(w)
	gzwriter := gzip.NewWriter(md5writer)
	taropts := []archive.TarOption{}
	if dereference {
		taropts = append(taropts, archive.FollowSymlinks())
	}
	prog := &progress{
		sent: make(chan struct{}, 1),
		done: make(chan struct{}, 1),
		p:    archive.GoTar(ctx, source, gzwriter, taropts...),
	}

	treader := kio.NewTriggerReader(r)
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost,
		c.apipath("tasks", strconv.Itoa(taskId), "import-archive"),
		treader,
	)
	if err != nil {
		cancel()
		prog.e = err
		return prog
	}
	treader.OnEnd(func() {
		req.Trailer.Add("x-checksum-md5", hex.EncodeToString(md5writer.Sum()))
		close(prog.sent)
	})

	req.Trailer = http.Header{}
	req.Header.Add("Content-Type", "application/tar+gzip")
	req.Header.Add("Transfer-Encoding", "chunked")
	req.Header.Add("Trailer", "x-checksum-md5")

	go func() {
		<-prog.p.Done()
		if err := prog.p.Error(); err != nil {
			cancel()
		}
		gzwriter.Close()
		w.Close()
	}()

	started = true
	go func() {
		defer close(prog.done)
		defer r.Close()

		resp, err := c.do(req)
		if err != nil {
			prog.e = err
			return
		}
		defer resp.Body.Close()

		res, err := unmarshalJsonResponse[tasks.Detail](
			resp,
			MessageFor{
				Status4xx: fmt.Sprintf("sending archive is rejected by server (status code = %d)", resp.StatusCode),
				Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
			},
		)
		if err != nil {
			prog.e = err
			return
		}

		prog.result = &res
		prog.resultOk = true
	}()

	return prog
}

type FileEntry struct {
	// Header is the header of the entry.
	Header tar.Header

	// Content of file.
	Body io.Reader
}

func (c *client) ExportProjectRaw(ctx context.Context, projectId int, handler func(io.Reader) error) error {
	return c.getVerifiedStream(
		ctx, c.apipath("projects", strconv.Itoa(projectId), "export"), handler,
	)
}

func (c *client) ExportProject(ctx context.Context, projectId int, handler func(FileEntry) error) error {
	return c.ExportProjectRaw(ctx, projectId, func(r io.Reader) error {
		gzr, err := gzip.NewReader(r)
		if err != nil {
			return err
		}
		defer gzr.Close()

		tarr := tar.NewReader(gzr)
		for {
			hdr, err := tarr.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return err
			}
			if err := handler(FileEntry{Header: *hdr, Body: tarr}); err != nil {
				return err
			}

			// drain rest of the entry.
			if _, err := io.Copy(io.Discard, tarr); err != nil {
				return err
			}
		}
		return nil
	})
}
