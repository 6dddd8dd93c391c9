package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/framehubio/framehub/api/types/items"
	"github.com/framehubio/framehub/api/types/tags"
	kio "github.com/framehubio/framehub/pkg/utils/io"
	"github.com/framehubio/framehub/pkg/utils/slices"
)

// how many files go into one multipart request.
const defaultUploadBatchSize = 10

// UploadFile is a local file to be registered remotely.
type UploadFile struct {
	// Name the file gets remotely.
	Name string

	// Path of the local file.
	Path string

	// Tags put on the registered item. Ignored for task files.
	Tags []tags.UserTag
}

type uploadConfig struct {
	batchSize int
	progress  func(settled int)
}

type UploadOption func(*uploadConfig)

// WithUploadBatchSize sets how many files are sent per request.
func WithUploadBatchSize(n int) UploadOption {
	return func(u *uploadConfig) {
		u.batchSize = n
	}
}

// WithUploadProgress sets a callback called with the number of files
// settled (registered remotely, by hash or by upload) so far.
func WithUploadProgress(callback func(settled int)) UploadOption {
	return func(u *uploadConfig) {
		u.progress = callback
	}
}

func (c *client) UploadImages(ctx context.Context, datasetId int, files []UploadFile, options ...UploadOption) ([]items.Image, error) {
	return uploadItems(
		ctx, c, "images", datasetId, files,
		func(i items.Image) string { return i.Name },
		options...,
	)
}

func (c *client) UploadVideos(ctx context.Context, datasetId int, files []UploadFile, options ...UploadOption) ([]items.Video, error) {
	return uploadItems(
		ctx, c, "videos", datasetId, files,
		func(v items.Video) string { return v.Name },
		options...,
	)
}

// uploadItems registers files as items of a dataset, deduplicating
// content by hash.
//
// Hashes stored remotely already are registered with add-by-hash and
// skip the upload. The rest are sent as multipart requests, batched.
// When the same content appears more than once in files, only the
// first occurrence is uploaded; the others are registered by hash once
// it has landed. Results come back in input order.
func uploadItems[T any](
	ctx context.Context,
	c *client,
	resource string,
	datasetId int,
	files []UploadFile,
	nameOf func(T) string,
	options ...UploadOption,
) ([]T, error) {
	conf := &uploadConfig{batchSize: defaultUploadBatchSize}
	for _, opt := range options {
		opt(conf)
	}

	hashes := make([]string, len(files))
	for i, f := range files {
		h, err := kio.FileContentHash(f.Path)
		if err != nil {
			return nil, err
		}
		hashes[i] = h
	}

	existing, err := c.checkHashes(ctx, resource, slices.Unique(hashes))
	if err != nil {
		return nil, err
	}
	known := map[string]bool{}
	for _, h := range existing {
		known[h] = true
	}

	byHash := []items.HashRef{}
	toUpload := []int{}
	duplicated := []items.HashRef{}
	seen := map[string]bool{}
	for i, f := range files {
		switch {
		case known[hashes[i]]:
			byHash = append(byHash, items.HashRef{
				Name: f.Name, Hash: hashes[i], Tags: f.Tags,
			})
		case seen[hashes[i]]:
			duplicated = append(duplicated, items.HashRef{
				Name: f.Name, Hash: hashes[i], Tags: f.Tags,
			})
		default:
			seen[hashes[i]] = true
			toUpload = append(toUpload, i)
		}
	}

	settled := 0
	registered := map[string]T{}
	registerByHash := func(refs []items.HashRef) error {
		got, err := addByHash[T](ctx, c, resource, datasetId, refs)
		if err != nil {
			return err
		}
		for _, item := range got {
			registered[nameOf(item)] = item
		}
		settled += len(refs)
		if conf.progress != nil {
			conf.progress(settled)
		}
		return nil
	}

	if 0 < len(byHash) {
		if err := registerByHash(byHash); err != nil {
			return nil, err
		}
	}

	for _, batch := range slices.Batch(toUpload, conf.batchSize) {
		batchFiles := make([]UploadFile, len(batch))
		batchHashes := make([]string, len(batch))
		for j, i := range batch {
			batchFiles[j] = files[i]
			batchHashes[j] = hashes[i]
		}

		got, err := uploadBatch[T](
			ctx, c, c.apipath(resource, "bulk", "upload"),
			map[string]string{"datasetId": strconv.Itoa(datasetId)},
			batchFiles, batchHashes,
		)
		if err != nil {
			return nil, err
		}
		for _, item := range got {
			registered[nameOf(item)] = item
		}
		settled += len(batch)
		if conf.progress != nil {
			conf.progress(settled)
		}
	}

	// content seen earlier in this call has landed by now.
	if 0 < len(duplicated) {
		if err := registerByHash(duplicated); err != nil {
			return nil, err
		}
	}

	result := make([]T, 0, len(files))
	for _, f := range files {
		item, ok := registered[f.Name]
		if !ok {
			return nil, fmt.Errorf("server did not register file: %s", f.Name)
		}
		result = append(result, item)
	}
	return result, nil
}

func (c *client) CheckImageHashes(ctx context.Context, hashes []string) ([]string, error) {
	return c.checkHashes(ctx, "images", hashes)
}

func (c *client) checkHashes(ctx context.Context, resource string, hashes []string) ([]string, error) {
	if len(hashes) == 0 {
		return nil, nil
	}

	resp, err := c.postJson(
		ctx, c.apipath(resource, "check-hashes"),
		map[string][]string{"hashes": hashes},
	)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	found, err := unmarshalJsonResponse[struct {
		Hashes []string `json:"hashes"`
	}](
		resp,
		MessageFor{
			Status4xx: "checking hashes is rejected by server",
			Status5xx: "something wrong in server",
		},
	)
	if err != nil {
		return nil, err
	}
	return found.Hashes, nil
}

func addByHash[T any](ctx context.Context, c *client, resource string, datasetId int, refs []items.HashRef) ([]T, error) {
	resp, err := c.postJson(
		ctx, c.apipath(resource, "bulk", "add-by-hash"),
		map[string]any{"datasetId": datasetId, resource: refs},
	)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return unmarshalJsonResponse[[]T](
		resp,
		MessageFor{
			Status4xx: "adding by hash is rejected by server",
			Status5xx: "something wrong in server",
		},
	)
}

// uploadMultipart posts a multipart request whose parts are written by
// write. The body is streamed through a pipe, not buffered.
func uploadMultipart[T any](
	ctx context.Context,
	c *client,
	url string,
	write func(mw *multipart.Writer) error,
) ([]T, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		err := write(mw)
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pr)
	if err != nil {
		return nil, err
	}
	req.Header.Add("Content-Type", mw.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return unmarshalJsonResponse[[]T](
		resp,
		MessageFor{
			Status4xx: "uploading files is rejected by server",
			Status5xx: "something wrong in server",
		},
	)
}

// uploadBatch sends files as one multipart request. Each part is named
// by the file's content hash, its filename is the remote name.
func uploadBatch[T any](
	ctx context.Context,
	c *client,
	url string,
	fields map[string]string,
	files []UploadFile,
	hashes []string,
) ([]T, error) {
	return uploadMultipart[T](ctx, c, url, func(mw *multipart.Writer) error {
		for key, value := range fields {
			if err := mw.WriteField(key, value); err != nil {
				return err
			}
		}
		for i, f := range files {
			part, err := mw.CreateFormFile(hashes[i], f.Name)
			if err != nil {
				return err
			}
			src, err := os.Open(f.Path)
			if err != nil {
				return err
			}
			_, err = io.Copy(part, src)
			src.Close()
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// uploadTaskFileBatch sends files to a task's staging area. Multipart
// filenames lose their directories in transit, so each file goes as a
// pair of parts: "{i}" holds a JSON descriptor with the full remote
// path and the content hash, "{i}-file" holds the content.
func uploadTaskFileBatch(ctx context.Context, c *client, taskId int, files []UploadFile, hashes []string) error {
	_, err := uploadMultipart[json.RawMessage](
		ctx, c, c.apipath("tasks", strconv.Itoa(taskId), "files", "upload"),
		func(mw *multipart.Writer) error {
			for i, f := range files {
				descriptor, err := json.Marshal(map[string]string{
					"fullpath": f.Name, "hash": hashes[i],
				})
				if err != nil {
					return err
				}
				idx := strconv.Itoa(i)
				if err := mw.WriteField(idx, string(descriptor)); err != nil {
					return err
				}
				part, err := mw.CreateFormFile(idx+"-file", filepath.Base(f.Name))
				if err != nil {
					return err
				}
				src, err := os.Open(f.Path)
				if err != nil {
					return err
				}
				_, err = io.Copy(part, src)
				src.Close()
				if err != nil {
					return err
				}
			}
			return nil
		},
	)
	return err
}

func (c *client) UploadTaskFiles(ctx context.Context, taskId int, files []UploadFile, progress func(settled int)) error {
	hashes := make([]string, len(files))
	for i, f := range files {
		h, err := kio.FileContentHash(f.Path)
		if err != nil {
			return err
		}
		hashes[i] = h
	}

	existing, err := c.checkHashes(
		ctx, "tasks/"+strconv.Itoa(taskId)+"/files", slices.Unique(hashes),
	)
	if err != nil {
		return err
	}
	known := map[string]bool{}
	for _, h := range existing {
		known[h] = true
	}

	type fileRef struct {
		Name string `json:"name"`
		Hash string `json:"hash"`
	}
	byHash := []fileRef{}
	toUpload := []int{}
	duplicated := []fileRef{}
	seen := map[string]bool{}
	for i, f := range files {
		switch {
		case known[hashes[i]]:
			byHash = append(byHash, fileRef{Name: f.Name, Hash: hashes[i]})
		case seen[hashes[i]]:
			duplicated = append(duplicated, fileRef{Name: f.Name, Hash: hashes[i]})
		default:
			seen[hashes[i]] = true
			toUpload = append(toUpload, i)
		}
	}

	settled := 0
	registerByHash := func(refs []fileRef) error {
		resp, err := c.postJson(
			ctx, c.apipath("tasks", strconv.Itoa(taskId), "files", "add-by-hash"),
			map[string][]fileRef{"files": refs},
		)
		if err != nil {
			return err
		}
		err = expectStatus(resp, MessageFor{
			Status4xx: "adding files is rejected by server",
			Status5xx: "something wrong in server",
		})
		resp.Body.Close()
		if err != nil {
			return err
		}
		settled += len(refs)
		if progress != nil {
			progress(settled)
		}
		return nil
	}

	if 0 < len(byHash) {
		if err := registerByHash(byHash); err != nil {
			return err
		}
	}

	for _, batch := range slices.Batch(toUpload, defaultUploadBatchSize) {
		batchFiles := make([]UploadFile, len(batch))
		batchHashes := make([]string, len(batch))
		for j, i := range batch {
			batchFiles[j] = files[i]
			batchHashes[j] = hashes[i]
		}

		if err := uploadTaskFileBatch(ctx, c, taskId, batchFiles, batchHashes); err != nil {
			return err
		}
		settled += len(batch)
		if progress != nil {
			progress(settled)
		}
	}

	if 0 < len(duplicated) {
		if err := registerByHash(duplicated); err != nil {
			return err
		}
	}

	return nil
}
