package api_test

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/framehubio/framehub/api/types/tasks"
	"github.com/framehubio/framehub/pkg/api"
	kio "github.com/framehubio/framehub/pkg/utils/io"
	"github.com/framehubio/framehub/pkg/utils/try"
)

func TestExportProject(t *testing.T) {
	t.Run("it extracts every file of the export", func(t *testing.T) {
		want := map[string][]byte{
			"meta.json":            []byte(`{"classes": []}`),
			"train/img/a.png":      []byte("image a"),
			"train/ann/a.png.json": []byte(`{"figures": []}`),
			"val/img/b.png":        []byte("image b"),
			"val/ann/b.png.json":   []byte(`{"figures": []}`),
		}

		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/projects/10/export" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}

			body := bytes.NewBuffer(nil)
			mw := kio.NewMD5Writer(body)
			gzw := gzip.NewWriter(mw)
			tw := tar.NewWriter(gzw)
			for name, content := range want {
				if err := tw.WriteHeader(&tar.Header{
					Name: name, Mode: 0644, Size: int64(len(content)),
				}); err != nil {
					t.Fatal(err)
				}
				if _, err := tw.Write(content); err != nil {
					t.Fatal(err)
				}
			}
			tw.Close()
			gzw.Close()

			w.Header().Set("Trailer", "x-checksum-md5")
			w.WriteHeader(http.StatusOK)
			w.Write(body.Bytes())
			w.Header().Set("x-checksum-md5", hex.EncodeToString(mw.Sum()))
		})
		ts := httptest.NewServer(h)
		defer ts.Close()

		got := map[string][]byte{}
		testee := newTestClient(t, ts.URL)
		err := testee.ExportProject(context.Background(), 10, func(e api.FileEntry) error {
			content, err := io.ReadAll(e.Body)
			if err != nil {
				return err
			}
			got[e.Header.Name] = content
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(got) != len(want) {
			t.Fatalf("unexpected files: %v", got)
		}
		for name, content := range want {
			if !bytes.Equal(got[name], content) {
				t.Errorf("file %s: unexpected content", name)
			}
		}
	})

	t.Run("a handler error stops the export", func(t *testing.T) {
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body := bytes.NewBuffer(nil)
			gzw := gzip.NewWriter(body)
			tw := tar.NewWriter(gzw)
			tw.WriteHeader(&tar.Header{Name: "meta.json", Mode: 0644, Size: 2})
			tw.Write([]byte("{}"))
			tw.Close()
			gzw.Close()

			w.WriteHeader(http.StatusOK)
			w.Write(body.Bytes())
		})
		ts := httptest.NewServer(h)
		defer ts.Close()

		wantErr := errors.New("stop here")
		testee := newTestClient(t, ts.URL)
		err := testee.ExportProject(context.Background(), 10, func(api.FileEntry) error {
			return wantErr
		})
		if !errors.Is(err, wantErr) {
			t.Errorf("expected handler error, got %v", err)
		}
	})
}

func TestPostImportArchive(t *testing.T) {
	t.Run("it archives the directory and returns the updated task", func(t *testing.T) {
		root := t.TempDir()
		if err := os.MkdirAll(filepath.Join(root, "img"), 0755); err != nil {
			t.Fatal(err)
		}
		files := map[string][]byte{
			"meta.json": []byte(`{}`),
			"img/a.png": []byte("image a"),
		}
		for name, content := range files {
			if err := os.WriteFile(filepath.Join(root, name), content, 0644); err != nil {
				t.Fatal(err)
			}
		}

		response := tasks.Detail{
			Summary: tasks.Summary{Id: 11, WorkspaceId: 3, Type: "import", Status: tasks.Queued},
		}

		gotContent := map[string][]byte{}
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/tasks/11/import-archive" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			if r.Header.Get("Content-Type") != "application/tar+gzip" {
				t.Error("unmatch header Content-Type.")
			}
			defer r.Body.Close()

			hreader := kio.NewMD5Reader(r.Body)
			gzreader := try.To(gzip.NewReader(hreader)).OrFatal(t)
			defer gzreader.Close()
			tarreader := tar.NewReader(gzreader)
			for {
				hdr, err := tarreader.Next()
				if errors.Is(err, io.EOF) {
					break
				} else if err != nil {
					t.Fatal(err)
				}
				content := try.To(io.ReadAll(tarreader)).OrFatal(t)
				gotContent[hdr.Name] = content
			}

			checksum := r.Trailer.Get("x-checksum-md5")
			if checksum != hex.EncodeToString(hreader.Sum()) {
				t.Error("unmatch checksum.")
			}

			w.WriteHeader(http.StatusOK)
			m := try.To(json.Marshal(response)).OrFatal(t)
			w.Write(m)
		})
		ts := httptest.NewServer(h)
		defer ts.Close()

		testee := newTestClient(t, ts.URL)
		prog := testee.PostImportArchive(context.Background(), 11, root, false)
		<-prog.Done()
		if err := prog.Error(); err != nil {
			t.Fatalf("unexpected result. error occured: %s", err)
		}
		gotResponse, ok := prog.Result()
		if !ok {
			t.Fatalf("unexpected result. it not failed: %s", prog.Error())
		}
		if !gotResponse.Equal(response) {
			t.Errorf("unexpected response: %+v", gotResponse)
		}

		for name, content := range files {
			if !bytes.Equal(gotContent[name], content) {
				t.Errorf("file %s: unexpected content", name)
			}
		}
	})

	t.Run("it fails when the source directory is missing", func(t *testing.T) {
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.Copy(io.Discard, r.Body)
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{}`))
		})
		ts := httptest.NewServer(h)
		defer ts.Close()

		testee := newTestClient(t, ts.URL)
		prog := testee.PostImportArchive(
			context.Background(), 11, "/no/such/directory", false,
		)
		<-prog.Done()
		if prog.Error() == nil {
			t.Error("unexpected result. an error should be occured.")
		}
	})
}
